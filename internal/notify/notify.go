// internal/notify/notify.go

// Package notify carries the pieces shared by both notification kinds:
// recipient grouping, the per-recipient variable bag, and the dispatch
// result accumulator.
package notify

import (
	"fmt"
	"sort"
	"time"

	"eventdesk-functions/internal/calendar"
	"eventdesk-functions/internal/models"
	"eventdesk-functions/internal/template"
)

// Notification kinds, used for metrics labels and log fields.
const (
	KindReminder = "session-reminder"
	KindDigest   = "daily-agenda"
)

// RecipientGroup is one attendee's schedule rows within a dispatch run.
type RecipientGroup struct {
	AttendeeID string
	Email      string
	FirstName  string
	Rows       []models.ScheduleRow
}

// GroupByRecipient groups schedule rows by attendee. Order is deterministic:
// groups sorted by attendee id, rows keep their query order (session start).
func GroupByRecipient(rows []models.ScheduleRow) []RecipientGroup {
	byID := make(map[string]*RecipientGroup)
	for _, r := range rows {
		g, ok := byID[r.AttendeeID]
		if !ok {
			g = &RecipientGroup{
				AttendeeID: r.AttendeeID,
				Email:      r.AttendeeEmail,
				FirstName:  r.FirstName,
			}
			byID[r.AttendeeID] = g
		}
		g.Rows = append(g.Rows, r)
	}

	out := make([]RecipientGroup, 0, len(byID))
	for _, g := range byID {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AttendeeID < out[j].AttendeeID })
	return out
}

// Result accumulates per-recipient outcomes across one dispatch run. It is
// never persisted; it becomes the function's JSON response.
type Result struct {
	Sent   int
	Total  int
	Errors []string
}

// Record folds one recipient outcome into the result. A failure for one
// recipient never aborts the run.
func (r *Result) Record(recipient string, err error) {
	r.Total++
	if err != nil {
		r.Errors = append(r.Errors, fmt.Sprintf("%s: %v", recipient, err))
		return
	}
	r.Sent++
}

// BuildBag constructs the variable bag for one recipient: name, formatted
// times, the nested session list with per-session calendar links, and the
// event's sponsor tiers.
func BuildBag(group RecipientGroup, settings models.NotificationSettings, tiers models.SponsorTiers, portalURL string, loc *time.Location) template.Vars {
	if loc == nil {
		loc = time.UTC
	}

	sessions := make([]template.Entity, 0, len(group.Rows))
	for _, row := range group.Rows {
		start := row.StartsAt.UTC().Format(time.RFC3339)
		end := row.EndsAt.UTC().Format(time.RFC3339)
		sessions = append(sessions, template.Entity{
			"name":         template.String(row.SessionName),
			"time":         template.String(row.StartsAt.In(loc).Format("3:04 PM")),
			"endTime":      template.String(row.EndsAt.In(loc).Format("3:04 PM")),
			"location":     template.String(row.Location),
			"speaker":      template.String(row.Speaker),
			"description":  template.String(row.Description),
			"duration":     template.String(calendar.Duration(start, end)),
			"calendarLink": template.String(calendar.Link(row.SessionName, start, end, row.Location, row.Description)),
		})
	}

	vars := template.Vars{
		"FIRST_NAME":    template.String(group.FirstName),
		"EVENT_NAME":    template.String(settings.EventName),
		"SESSION_COUNT": template.Int(len(sessions)),
		"SESSIONS":      template.List(sessions),
		"PORTAL_URL":    template.String(portalURL),
	}

	if len(group.Rows) > 0 {
		first := group.Rows[0]
		vars["DATE"] = template.String(first.StartsAt.In(loc).Format("Monday, January 2"))
		vars["FIRST_SESSION_TIME"] = template.String(first.StartsAt.In(loc).Format("3:04 PM"))
	}

	// the key is always present so sponsor blocks evaluate rather than
	// falling back to literal markers
	vars["PLATINUM_SPONSOR"] = template.Bool(false)
	if tiers.Platinum != nil {
		vars["PLATINUM_SPONSOR"] = template.Object(sponsorEntity(*tiers.Platinum))
	}
	vars["GOLD_SPONSORS"] = template.List(sponsorEntities(tiers.Gold))
	vars["SILVER_SPONSORS"] = template.List(sponsorEntities(tiers.Silver))

	return vars
}

func sponsorEntity(sp models.Sponsor) template.Entity {
	return template.Entity{
		"name":       template.String(sp.Name),
		"logoUrl":    template.String(sp.LogoURL),
		"websiteUrl": template.String(sp.WebsiteURL),
	}
}

func sponsorEntities(sponsors []models.Sponsor) []template.Entity {
	out := make([]template.Entity, 0, len(sponsors))
	for _, sp := range sponsors {
		out = append(out, sponsorEntity(sp))
	}
	return out
}

// Location resolves an IANA timezone name with a UTC fallback.
func Location(tz string) *time.Location {
	if tz == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}
