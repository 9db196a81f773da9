// Package logging provides slog attribute helpers so log fields keep
// consistent names across the codebase.
package logging

import (
	"log/slog"
	"os"
)

// Common log attribute keys.
const (
	KeyOperation = "operation"
	KeyCalendar  = "calendar"
	KeyEntity    = "entity"
	KeyDuration  = "duration"
	KeyError     = "error"
)

// New returns a text logger writing to stderr at the given level.
func New(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// Operation returns a slog attribute for the operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Calendar returns a slog attribute for the calendar id.
func Calendar(id string) slog.Attr {
	return slog.String(KeyCalendar, id)
}

// Entity returns a slog attribute for the entity id.
func Entity(id string) slog.Attr {
	return slog.String(KeyEntity, id)
}

// Err returns a slog attribute for an error. A nil error yields an empty
// group that slog omits from output, so Err(maybeNil) is always safe.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// WithEntity returns a logger with the entity attribute set.
func WithEntity(logger *slog.Logger, id string) *slog.Logger {
	return logger.With(slog.String(KeyEntity, id))
}
