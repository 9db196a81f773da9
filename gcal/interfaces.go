package gcal

import (
	"context"

	"google.golang.org/api/calendar/v3"
)

// EventSource executes one page of a calendar list query. The returned
// Events value carries the page items and, when more pages exist, a
// continuation token in NextPageToken.
type EventSource interface {
	ListPage(ctx context.Context, q Query) (*calendar.Events, error)
}
