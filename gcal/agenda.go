package gcal

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"google.golang.org/api/calendar/v3"
)

// PrintAgenda writes a colored agenda for the given events to w.
func PrintAgenda(w io.Writer, events []*calendar.Event, calendarID, defaultDomain string, start, end time.Time) {
	headerColor := color.New(color.FgCyan, color.Bold).SprintFunc()
	warnColor := color.New(color.FgRed, color.Bold).SprintFunc()
	subtle := color.New(color.FgHiBlack).SprintFunc()
	summaryColor := color.New(color.FgYellow, color.Bold).SprintFunc()

	fmt.Fprintf(w, "Events for %s from %s to %s\n",
		headerColor(calendarID),
		headerColor(start.Format("2006-01-02 15:04")),
		headerColor(end.Format("2006-01-02 15:04")),
	)

	if len(events) == 0 {
		fmt.Fprintln(w, warnColor("No events found."))
		return
	}

	for _, item := range events {
		fmt.Fprintf(w, " - %s %s %s %s\n",
			summaryColor(item.Summary),
			formatTimeInfo(item),
			subtle("["+compactAttendees(item.Attendees, calendarID, defaultDomain)+"]"),
			extractURL(item),
		)
	}
}

// formatTimeInfo formats the time information for an event.
func formatTimeInfo(item *calendar.Event) string {
	if item.Start == nil {
		return ""
	}

	if item.Start.Date != "" {
		return color.New(color.FgGreen).SprintFunc()("(all day)")
	}

	if item.Start.DateTime != "" {
		startTime, err1 := time.Parse(time.RFC3339, item.Start.DateTime)
		endTime, err2 := time.Parse(time.RFC3339, endDateTime(item))
		if err1 != nil || err2 != nil {
			return ""
		}
		highlight := color.New(color.FgGreen).SprintFunc()
		return fmt.Sprintf("[%s --> %s]",
			highlight(startTime.Format("Jan 2 15:04")),
			highlight(endTime.Format("15:04")),
		)
	}

	return ""
}

func endDateTime(item *calendar.Event) string {
	if item.End == nil {
		return ""
	}
	return item.End.DateTime
}

// compactAttendees lists up to three attendees besides the calendar owner,
// with home-domain suffixes stripped.
func compactAttendees(attendees []*calendar.EventAttendee, self, homeDomain string) string {
	if len(attendees) == 0 {
		return ""
	}
	var who []string
	for _, a := range attendees {
		if a.Email == self {
			continue
		}
		short := strings.TrimSuffix(a.Email, "@"+homeDomain)
		who = append(who, short)
		if len(who) >= 3 {
			who = append(who, "...")
			break
		}
	}
	return strings.Join(who, ", ")
}

func extractURL(item *calendar.Event) string {
	if item.HangoutLink != "" {
		return item.HangoutLink
	}
	if item.Location != "" {
		return item.Location
	}
	return ""
}
