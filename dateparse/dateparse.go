package dateparse

import (
	"fmt"
	"strings"
	"time"
)

// Parser defines the interface for parsing time windows.
type Parser interface {
	Window(args []string, now time.Time) (time.Time, time.Time, error)
}

// DefaultParser implements the Parser interface.
type DefaultParser struct{}

// New returns a DefaultParser.
func New() *DefaultParser {
	return &DefaultParser{}
}

// Window parses up to two day arguments into a half-open [start, end)
// window. With no arguments the window is today; with one argument it is
// that day; with two it spans from the first day to the end of the second.
// Accepted forms: "today", "tomorrow", a weekday name (next occurrence),
// or an explicit "2006-01-02" date.
func (p *DefaultParser) Window(args []string, now time.Time) (time.Time, time.Time, error) {
	if len(args) > 2 {
		return time.Time{}, time.Time{}, fmt.Errorf("too many arguments")
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	start := today
	if len(args) >= 1 {
		parsed, err := parseDay(args[0], today)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		start = parsed
	}

	end := start.AddDate(0, 0, 1)
	if len(args) == 2 {
		parsed, err := parseDay(args[1], today)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end = parsed.AddDate(0, 0, 1)
	}

	if !end.After(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("window end %s is not after start %s",
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}
	return start, end, nil
}

// parseDay resolves a single day token relative to today.
func parseDay(arg string, today time.Time) (time.Time, error) {
	switch strings.ToLower(arg) {
	case "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	}

	if wd, ok := weekdays[strings.ToLower(arg)]; ok {
		days := (int(wd) - int(today.Weekday()) + 7) % 7
		if days == 0 {
			days = 7
		}
		return today.AddDate(0, 0, days), nil
	}

	parsed, err := time.ParseInLocation("2006-01-02", arg, today.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized date %q", arg)
	}
	return parsed, nil
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"saturday":  time.Saturday,
	"friday":    time.Friday,
}
