// internal/calendar/calendar.go

// Package calendar builds "add to calendar" links and human-readable
// durations for session reminder emails.
package calendar

import (
	"fmt"
	"net/url"
	"time"
)

const googleCalendarBase = "https://www.google.com/calendar/render"

// compactUTC is the timestamp layout used by the calendar dates parameter.
const compactUTC = "20060102T150405Z"

// Link builds a Google Calendar event-creation URL for a session. The dates
// parameter uses compact UTC timestamps, YYYYMMDDTHHMMSSZ/YYYYMMDDTHHMMSSZ.
func Link(name, startISO, endISO, location, description string) string {
	q := url.Values{}
	q.Set("action", "TEMPLATE")
	q.Set("text", name)
	q.Set("dates", compactTimestamp(startISO)+"/"+compactTimestamp(endISO))
	q.Set("location", location)
	q.Set("details", description)
	return googleCalendarBase + "?" + q.Encode()
}

func compactTimestamp(iso string) string {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return ""
	}
	return t.UTC().Format(compactUTC)
}

// Duration returns a human-readable duration between two RFC 3339 instants,
// like "1h 30min", "2h" or "45min". A negative span clamps to "0min" rather
// than emitting a negative duration. Unparsable inputs return "".
func Duration(startISO, endISO string) string {
	start, err := time.Parse(time.RFC3339, startISO)
	if err != nil {
		return ""
	}
	end, err := time.Parse(time.RFC3339, endISO)
	if err != nil {
		return ""
	}

	minutes := int(end.Sub(start).Minutes())
	if minutes < 0 {
		minutes = 0
	}

	h, m := minutes/60, minutes%60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dmin", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dmin", m)
	}
}
