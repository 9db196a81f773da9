// Package sensor turns Google Calendar queries into per-entity "next event"
// state: a throttled polling cache, a visibility filter, and an entity
// wrapper carrying the offset-reached flag.
package sensor

import "google.golang.org/api/calendar/v3"

// Events carry a transparency that determines whether they block time on
// the calendar. "opaque" means "show me as busy" and is the API default
// when the field is absent. Non-opaque events are skipped unless the entity
// is configured to ignore availability.
const transparencyOpaque = "opaque"

// Visible reports whether an event should be surfaced.
func Visible(ev *calendar.Event, ignoreAvailability bool) bool {
	if ignoreAvailability {
		return true
	}
	if ev.Transparency == "" {
		return true
	}
	return ev.Transparency == transparencyOpaque
}
