package sensor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/hveem/calwatch/gcal"
	"github.com/hveem/calwatch/logging"
)

// DefaultMinInterval is the minimum time between real remote refreshes.
const DefaultMinInterval = 15 * time.Minute

// WatcherConfig configures a Watcher.
type WatcherConfig struct {
	CalendarID         string
	Search             string
	IgnoreAvailability bool

	// MinInterval gates real polls; zero means DefaultMinInterval.
	MinInterval time.Duration

	// Now supplies the clock; nil means time.Now. Tests inject a fake.
	Now func() time.Time

	Logger *slog.Logger
}

// Watcher polls one calendar for its next upcoming event. Update calls
// inside the minimum interval return the cached event without touching the
// remote service; an unreachable service is logged and leaves the cache as
// it was.
type Watcher struct {
	src                gcal.EventSource
	calendarID         string
	search             string
	ignoreAvailability bool
	minInterval        time.Duration
	now                func() time.Time
	logger             *slog.Logger

	mu       sync.Mutex
	polled   bool
	lastPoll time.Time
	next     *calendar.Event
}

// NewWatcher creates a Watcher reading pages from src.
func NewWatcher(src gcal.EventSource, cfg WatcherConfig) *Watcher {
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = DefaultMinInterval
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Watcher{
		src:                src,
		calendarID:         cfg.CalendarID,
		search:             cfg.Search,
		ignoreAvailability: cfg.IgnoreAvailability,
		minInterval:        cfg.MinInterval,
		now:                cfg.Now,
		logger:             cfg.Logger,
	}
}

// CalendarID returns the watched calendar's id.
func (w *Watcher) CalendarID() string {
	return w.calendarID
}

func (w *Watcher) visible(ev *calendar.Event) bool {
	return Visible(ev, w.ignoreAvailability)
}

func (w *Watcher) query() gcal.Query {
	return gcal.Query{
		CalendarID: w.calendarID,
		Search:     w.search,
	}
}

// Update refreshes the cached next event. Repeated calls within the
// minimum interval are no-ops returning the prior cached value. The
// interval slot is consumed even when the service turns out to be
// unreachable, so a flapping network does not defeat the throttle.
func (w *Watcher) Update(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	if w.polled && now.Sub(w.lastPoll) < w.minInterval {
		return nil
	}
	w.polled = true
	w.lastPoll = now

	q := w.query()
	q.TimeMin = now

	next, err := gcal.FetchNext(ctx, w.src, q, w.visible)
	if err != nil {
		if errors.Is(err, gcal.ErrUnreachable) {
			w.logger.Error("unable to reach calendar service",
				logging.Operation("update"),
				logging.Calendar(w.calendarID),
				logging.Err(err))
			return nil
		}
		return fmt.Errorf("gcal.FetchNext: %w", err)
	}

	w.next = next
	return nil
}

// Next returns the cached next event, or nil when none is known.
func (w *Watcher) Next() *calendar.Event {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.next
}

// Events returns every visible event within [start, end). The call is not
// throttled and does not touch the cached next event. An unreachable
// service yields an empty list.
func (w *Watcher) Events(ctx context.Context, start, end time.Time) ([]*calendar.Event, error) {
	q := w.query()
	q.TimeMin = start
	q.TimeMax = end

	events, err := gcal.FetchAll(ctx, w.src, q, w.visible)
	if err != nil {
		if errors.Is(err, gcal.ErrUnreachable) {
			w.logger.Error("unable to reach calendar service",
				logging.Operation("events"),
				logging.Calendar(w.calendarID),
				logging.Err(err))
			return nil, nil
		}
		return nil, fmt.Errorf("gcal.FetchAll: %w", err)
	}
	return events, nil
}
