package gcal

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"
)

// fakeSource is a mock implementation of EventSource serving canned pages
// keyed by continuation token.
type fakeSource struct {
	pages map[string]*calendar.Events
	calls []Query
	err   error
}

func (f *fakeSource) ListPage(_ context.Context, q Query) (*calendar.Events, error) {
	f.calls = append(f.calls, q)
	if f.err != nil {
		return nil, f.err
	}
	page, ok := f.pages[q.PageToken]
	if !ok {
		return &calendar.Events{}, nil
	}
	return page, nil
}

func event(summary, transparency string) *calendar.Event {
	return &calendar.Event{Summary: summary, Transparency: transparency}
}

func TestFetchAllPaginates(t *testing.T) {
	src := &fakeSource{
		pages: map[string]*calendar.Events{
			"": {
				Items:         []*calendar.Event{event("a", ""), event("b", "transparent")},
				NextPageToken: "t1",
			},
			"t1": {
				Items: []*calendar.Event{event("c", "")},
			},
		},
	}

	keep := func(ev *calendar.Event) bool { return ev.Transparency != "transparent" }

	got, err := FetchAll(context.Background(), src, Query{CalendarID: "cal"}, keep)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "a", got[0].Summary)
	require.Equal(t, "c", got[1].Summary)

	// Token from page one must have been carried into the second request.
	require.Len(t, src.calls, 2)
	require.Equal(t, "", src.calls[0].PageToken)
	require.Equal(t, "t1", src.calls[1].PageToken)
}

func TestFetchAllNilPredicateKeepsEverything(t *testing.T) {
	src := &fakeSource{
		pages: map[string]*calendar.Events{
			"": {Items: []*calendar.Event{event("a", "transparent"), event("b", "")}},
		},
	}

	got, err := FetchAll(context.Background(), src, Query{CalendarID: "cal"}, nil)
	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestFetchAllUnreachable(t *testing.T) {
	src := &fakeSource{
		err: &url.Error{Op: "Get", URL: "https://www.googleapis.com", Err: errors.New("no such host")},
	}

	_, err := FetchAll(context.Background(), src, Query{CalendarID: "cal"}, nil)
	require.ErrorIs(t, err, ErrUnreachable)
}

func TestFetchAllOtherErrorsPropagate(t *testing.T) {
	src := &fakeSource{err: errors.New("quota exceeded")}

	_, err := FetchAll(context.Background(), src, Query{CalendarID: "cal"}, nil)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrUnreachable)
}

func TestFetchNext(t *testing.T) {
	src := &fakeSource{
		pages: map[string]*calendar.Events{
			"": {
				Items: []*calendar.Event{event("free lunch", "transparent"), event("standup", "")},
				// A token must not trigger a second request on the poll path.
				NextPageToken: "t1",
			},
		},
	}

	keep := func(ev *calendar.Event) bool { return ev.Transparency != "transparent" }

	got, err := FetchNext(context.Background(), src, Query{CalendarID: "cal"}, keep)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "standup", got.Summary)
	require.Len(t, src.calls, 1)
}

func TestFetchNextNoMatch(t *testing.T) {
	src := &fakeSource{
		pages: map[string]*calendar.Events{
			"": {Items: []*calendar.Event{event("free lunch", "transparent")}},
		},
	}

	keep := func(ev *calendar.Event) bool { return ev.Transparency != "transparent" }

	got, err := FetchNext(context.Background(), src, Query{CalendarID: "cal"}, keep)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestQueryDefaults(t *testing.T) {
	var q Query
	require.Equal(t, int64(DefaultMaxResults), q.PageSize())

	q.MaxResults = 10
	require.Equal(t, int64(10), q.PageSize())

	advanced := q.WithToken("next")
	require.Equal(t, "next", advanced.PageToken)
	require.Empty(t, q.PageToken)
}

func TestPrintAgenda(t *testing.T) {
	events := []*calendar.Event{
		{
			Summary: "Meeting with Bob",
			Start:   &calendar.EventDateTime{DateTime: "2025-01-31T10:00:00-07:00"},
			End:     &calendar.EventDateTime{DateTime: "2025-01-31T11:00:00-07:00"},
			Attendees: []*calendar.EventAttendee{
				{Email: "alice@example.com"},
				{Email: "bob@example.com"},
			},
		},
		{
			Summary: "Lunch",
			Start:   &calendar.EventDateTime{Date: "2025-01-31"},
		},
	}

	var buf bytes.Buffer
	start := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	PrintAgenda(&buf, events, "alice@example.com", "example.com", start, start.Add(24*time.Hour))

	out := buf.String()
	require.Contains(t, out, "Meeting with Bob")
	require.Contains(t, out, "Lunch")
	require.Contains(t, out, "bob")
}

func TestPrintAgendaEmpty(t *testing.T) {
	var buf bytes.Buffer
	start := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	PrintAgenda(&buf, nil, "alice@example.com", "example.com", start, start.Add(24*time.Hour))
	require.Contains(t, buf.String(), "No events found.")
}
