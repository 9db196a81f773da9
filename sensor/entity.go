package sensor

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"google.golang.org/api/calendar/v3"
)

// DefaultOffset is the marker used when no offset is configured.
const DefaultOffset = "!!"

// OffsetFunc applies an entity's offset setting to a copy of the next
// event and reports whether the offset point has been reached. The
// embedding host owns the semantics; the default hook leaves the event
// untouched and never reports the offset as reached.
type OffsetFunc func(ev *calendar.Event, offset string) (*calendar.Event, bool)

func noOffset(ev *calendar.Event, _ string) (*calendar.Event, bool) {
	return ev, false
}

// EventSummary is the host-facing rendering of a calendar event.
type EventSummary struct {
	Summary  string `json:"summary"`
	Location string `json:"location,omitempty"`
	Start    string `json:"start"`
	End      string `json:"end"`
	AllDay   bool   `json:"all_day"`
}

// Snapshot is a point-in-time copy of entity state for serving.
type Snapshot struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Calendar      string        `json:"calendar"`
	OffsetReached bool          `json:"offset_reached"`
	Event         *EventSummary `json:"event,omitempty"`
}

// EntityConfig configures an Entity.
type EntityConfig struct {
	// DeviceID names the entity; the entity id is derived from it.
	DeviceID string
	// Name is the display name; empty derives one from DeviceID.
	Name string
	// Offset is the offset marker handed to the offset hook.
	Offset string
	// ApplyOffset is the host's offset hook; nil installs the no-op hook.
	ApplyOffset OffsetFunc
}

// Entity surfaces one watched calendar's next event and offset-reached
// flag. Updates go through the entity's Watcher, so remote refreshes stay
// throttled regardless of how often the host schedules Update.
type Entity struct {
	watcher     *Watcher
	id          string
	name        string
	offset      string
	applyOffset OffsetFunc

	mu            sync.Mutex
	event         *calendar.Event
	offsetReached bool
}

// NewEntity creates an entity around the given watcher.
func NewEntity(w *Watcher, cfg EntityConfig) *Entity {
	name := cfg.Name
	if name == "" {
		name = displayName(cfg.DeviceID)
	}
	offset := cfg.Offset
	if offset == "" {
		offset = DefaultOffset
	}
	apply := cfg.ApplyOffset
	if apply == nil {
		apply = noOffset
	}
	return &Entity{
		watcher:     w,
		id:          fmt.Sprintf("calendar.%s", slugify(cfg.DeviceID)),
		name:        name,
		offset:      offset,
		applyOffset: apply,
	}
}

// ID returns the generated entity id, e.g. "calendar.team_standup".
func (e *Entity) ID() string {
	return e.id
}

// Name returns the display name.
func (e *Entity) Name() string {
	return e.name
}

// Watcher returns the entity's underlying watcher.
func (e *Entity) Watcher() *Watcher {
	return e.watcher
}

// Update refreshes the entity state from its watcher. The stored event is
// a copy so the offset hook cannot disturb the watcher's cache.
func (e *Entity) Update(ctx context.Context) error {
	if err := e.watcher.Update(ctx); err != nil {
		return fmt.Errorf("watcher.Update: %w", err)
	}
	next := e.watcher.Next()

	e.mu.Lock()
	defer e.mu.Unlock()
	if next == nil {
		e.event = nil
		e.offsetReached = false
		return nil
	}
	ev := cloneEvent(next)
	ev, reached := e.applyOffset(ev, e.offset)
	e.event = ev
	e.offsetReached = reached
	return nil
}

// Event returns the entity's current event, or nil when none is upcoming.
func (e *Entity) Event() *calendar.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.event
}

// Attributes returns the extra state attributes.
func (e *Entity) Attributes() map[string]any {
	e.mu.Lock()
	defer e.mu.Unlock()
	return map[string]any{"offset_reached": e.offsetReached}
}

// Snapshot returns a copy of the entity state for serving.
func (e *Entity) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	snap := Snapshot{
		ID:            e.id,
		Name:          e.name,
		Calendar:      e.watcher.CalendarID(),
		OffsetReached: e.offsetReached,
	}
	if e.event != nil {
		snap.Event = summarize(e.event)
	}
	return snap
}

func summarize(ev *calendar.Event) *EventSummary {
	s := &EventSummary{
		Summary:  ev.Summary,
		Location: ev.Location,
	}
	if ev.Start != nil {
		if ev.Start.Date != "" {
			s.AllDay = true
			s.Start = ev.Start.Date
		} else {
			s.Start = ev.Start.DateTime
		}
	}
	if ev.End != nil {
		if ev.End.Date != "" {
			s.End = ev.End.Date
		} else {
			s.End = ev.End.DateTime
		}
	}
	return s
}

// cloneEvent copies the fields consumers may adjust. The nested start and
// end records are duplicated; everything else is treated as read-only.
func cloneEvent(ev *calendar.Event) *calendar.Event {
	cp := *ev
	if ev.Start != nil {
		start := *ev.Start
		cp.Start = &start
	}
	if ev.End != nil {
		end := *ev.End
		cp.End = &end
	}
	return &cp
}

// displayName derives a friendly name from a snake_case device id.
func displayName(deviceID string) string {
	return cases.Title(language.Und).String(strings.ReplaceAll(deviceID, "_", " "))
}

// slugify normalizes a device id into an entity id segment.
func slugify(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
