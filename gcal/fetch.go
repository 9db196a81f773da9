package gcal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"

	"google.golang.org/api/calendar/v3"
)

// ErrUnreachable marks a list request that failed before reaching the
// calendar service. Callers treat it as "no results" rather than a hard
// failure.
var ErrUnreachable = errors.New("calendar service unreachable")

// FetchAll pages through a list query and returns every event the keep
// predicate retains, in page order. A nil predicate keeps everything. The
// result is a finite list; the query's continuation token is advanced
// internally until the service stops returning one.
func FetchAll(ctx context.Context, src EventSource, q Query, keep func(*calendar.Event) bool) ([]*calendar.Event, error) {
	var out []*calendar.Event
	for {
		page, err := src.ListPage(ctx, q)
		if err != nil {
			if isUnreachable(err) {
				return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
			}
			return nil, fmt.Errorf("listing events: %w", err)
		}
		for _, item := range page.Items {
			if keep == nil || keep(item) {
				out = append(out, item)
			}
		}
		if page.NextPageToken == "" {
			return out, nil
		}
		q = q.WithToken(page.NextPageToken)
	}
}

// FetchNext returns the first kept event of the first page, or nil when the
// page holds no matching event. The polling path wants only the next
// upcoming event, so no further pages are requested.
func FetchNext(ctx context.Context, src EventSource, q Query, keep func(*calendar.Event) bool) (*calendar.Event, error) {
	page, err := src.ListPage(ctx, q)
	if err != nil {
		if isUnreachable(err) {
			return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
		}
		return nil, fmt.Errorf("listing events: %w", err)
	}
	for _, item := range page.Items {
		if keep == nil || keep(item) {
			return item, nil
		}
	}
	return nil, nil
}

// isUnreachable reports whether err stems from a transport-level failure
// (DNS, refused connection, timeout) rather than an API-level rejection.
func isUnreachable(err error) bool {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
