package gcal

import "time"

const (
	// DefaultMaxResults is the page size requested from the API.
	DefaultMaxResults = 100

	orderByStartTime = "startTime"
)

// Query holds the parameters for one calendar list request. Zero-value
// optional fields are left out of the wire request; defaults (ordering by
// start time, single events, page size) are applied when the request is
// built. Queries are constructed fresh per call and carry no state beyond
// the continuation token.
type Query struct {
	CalendarID string
	Search     string
	TimeMin    time.Time
	TimeMax    time.Time
	PageToken  string
	MaxResults int64
}

// PageSize returns the effective maximum number of results per page.
func (q Query) PageSize() int64 {
	if q.MaxResults > 0 {
		return q.MaxResults
	}
	return DefaultMaxResults
}

// WithToken returns a copy of the query advanced to the given continuation
// token.
func (q Query) WithToken(token string) Query {
	q.PageToken = token
	return q
}
