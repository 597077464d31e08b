// internal/notify/notify_test.go
package notify

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventdesk-functions/internal/models"
	"eventdesk-functions/internal/template"
)

func scheduleRow(attendeeID, email, first, session string, start time.Time) models.ScheduleRow {
	return models.ScheduleRow{
		EventID:       "evt-1",
		EventName:     "DevConf",
		AttendeeID:    attendeeID,
		AttendeeEmail: email,
		FirstName:     first,
		SessionID:     "sess-" + session,
		SessionName:   session,
		Location:      "Hall A",
		StartsAt:      start,
		EndsAt:        start.Add(time.Hour),
		Status:        models.RegistrationStatusRegistered,
	}
}

// ==========================
// Grouping Tests
// ==========================

func TestGroupByRecipient(t *testing.T) {
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	rows := []models.ScheduleRow{
		scheduleRow("att-2", "bob@example.com", "Bob", "Workshop", base.Add(time.Hour)),
		scheduleRow("att-1", "ada@example.com", "Ada", "Keynote", base),
		scheduleRow("att-2", "bob@example.com", "Bob", "Panel", base.Add(2*time.Hour)),
	}

	groups := GroupByRecipient(rows)
	require.Len(t, groups, 2)

	assert.Equal(t, "att-1", groups[0].AttendeeID)
	assert.Equal(t, "ada@example.com", groups[0].Email)
	assert.Equal(t, "Ada", groups[0].FirstName)
	require.Len(t, groups[0].Rows, 1)

	assert.Equal(t, "att-2", groups[1].AttendeeID)
	require.Len(t, groups[1].Rows, 2)
	// rows keep their input order within a group
	assert.Equal(t, "Workshop", groups[1].Rows[0].SessionName)
	assert.Equal(t, "Panel", groups[1].Rows[1].SessionName)
}

func TestGroupByRecipient_Empty(t *testing.T) {
	assert.Empty(t, GroupByRecipient(nil))
}

func TestGroupByRecipient_Deterministic(t *testing.T) {
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	rows := []models.ScheduleRow{
		scheduleRow("att-c", "c@example.com", "C", "S1", base),
		scheduleRow("att-a", "a@example.com", "A", "S2", base),
		scheduleRow("att-b", "b@example.com", "B", "S3", base),
	}

	first := GroupByRecipient(rows)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, GroupByRecipient(rows))
	}
	assert.Equal(t, "att-a", first[0].AttendeeID)
	assert.Equal(t, "att-b", first[1].AttendeeID)
	assert.Equal(t, "att-c", first[2].AttendeeID)
}

// ==========================
// Result Tests
// ==========================

func TestResult_Record(t *testing.T) {
	var r Result
	r.Record("ada@example.com", nil)
	r.Record("bob@example.com", errors.New("smtp timeout"))
	r.Record("eve@example.com", nil)

	assert.Equal(t, 2, r.Sent)
	assert.Equal(t, 3, r.Total)
	require.Len(t, r.Errors, 1)
	assert.Contains(t, r.Errors[0], "bob@example.com")
	assert.Contains(t, r.Errors[0], "smtp timeout")
}

// ==========================
// Variable Bag Tests
// ==========================

func TestBuildBag_SessionFields(t *testing.T) {
	start := time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC)
	group := RecipientGroup{
		AttendeeID: "att-1",
		Email:      "ada@example.com",
		FirstName:  "Ada",
		Rows: []models.ScheduleRow{
			scheduleRow("att-1", "ada@example.com", "Ada", "Keynote", start),
		},
	}
	settings := models.NotificationSettings{EventID: "evt-1", EventName: "DevConf"}

	bag := BuildBag(group, settings, models.SponsorTiers{}, "https://portal.example.com", time.UTC)

	assert.Equal(t, "Ada", template.Render("{{FIRST_NAME}}", bag))
	assert.Equal(t, "DevConf", template.Render("{{EVENT_NAME}}", bag))
	assert.Equal(t, "1", template.Render("{{SESSION_COUNT}}", bag))
	assert.Equal(t, "https://portal.example.com", template.Render("{{PORTAL_URL}}", bag))
	assert.Equal(t, "Sunday, June 1", template.Render("{{DATE}}", bag))
	assert.Equal(t, "2:00 PM", template.Render("{{FIRST_SESSION_TIME}}", bag))

	row := template.Render("{{#each SESSIONS}}{{this.name}}|{{this.time}}|{{this.endTime}}|{{this.duration}}|{{this.location}}{{/each}}", bag)
	assert.Equal(t, "Keynote|2:00 PM|3:00 PM|1h|Hall A", row)

	link := template.Render("{{#each SESSIONS}}{{this.calendarLink}}{{/each}}", bag)
	assert.Contains(t, link, "www.google.com/calendar/render")
	assert.Contains(t, link, "20250601T140000Z%2F20250601T150000Z")
}

func TestBuildBag_TimezoneConversion(t *testing.T) {
	start := time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC)
	group := RecipientGroup{
		FirstName: "Ada",
		Rows:      []models.ScheduleRow{scheduleRow("att-1", "ada@example.com", "Ada", "Keynote", start)},
	}
	loc := time.FixedZone("EVT", -4*3600)

	bag := BuildBag(group, models.NotificationSettings{EventName: "DevConf"}, models.SponsorTiers{}, "", loc)

	assert.Equal(t, "10:00 AM", template.Render("{{FIRST_SESSION_TIME}}", bag))
	// calendar links stay in UTC regardless of display timezone
	link := template.Render("{{#each SESSIONS}}{{this.calendarLink}}{{/each}}", bag)
	assert.Contains(t, link, "20250601T140000Z")
}

func TestBuildBag_NilLocationFallsBackToUTC(t *testing.T) {
	start := time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC)
	group := RecipientGroup{
		Rows: []models.ScheduleRow{scheduleRow("att-1", "a@example.com", "A", "S", start)},
	}

	bag := BuildBag(group, models.NotificationSettings{}, models.SponsorTiers{}, "", nil)
	assert.Equal(t, "2:00 PM", template.Render("{{FIRST_SESSION_TIME}}", bag))
}

func TestBuildBag_NoRowsOmitsDateKeys(t *testing.T) {
	bag := BuildBag(RecipientGroup{FirstName: "Ada"}, models.NotificationSettings{}, models.SponsorTiers{}, "", time.UTC)

	assert.Equal(t, "0", template.Render("{{SESSION_COUNT}}", bag))
	// absent keys keep their markers
	assert.Equal(t, "{{DATE}}", template.Render("{{DATE}}", bag))
	assert.Equal(t, "", template.Render("{{#each SESSIONS}}x{{/each}}", bag))
}

func TestBuildBag_SponsorTiers(t *testing.T) {
	tiers := models.SponsorTiers{
		Platinum: &models.Sponsor{Name: "MegaCorp", LogoURL: "https://cdn.example.com/mega.png"},
		Gold: []models.Sponsor{
			{Name: "Gold One"},
			{Name: "Gold Two"},
		},
	}

	bag := BuildBag(RecipientGroup{}, models.NotificationSettings{}, tiers, "", time.UTC)

	assert.Equal(t, "MegaCorp", template.Render("{{#if PLATINUM_SPONSOR}}{{PLATINUM_SPONSOR.name}}{{/if}}", bag))
	assert.Equal(t, "Gold One,Gold Two,", template.Render("{{#each GOLD_SPONSORS}}{{this.name}},{{/each}}", bag))
	assert.Equal(t, "", template.Render("{{#if SILVER_SPONSORS}}x{{/if}}", bag))
}

func TestBuildBag_NoPlatinumSuppressesSponsorBlock(t *testing.T) {
	bag := BuildBag(RecipientGroup{}, models.NotificationSettings{}, models.SponsorTiers{}, "", time.UTC)

	assert.Equal(t, "", template.Render("{{#if PLATINUM_SPONSOR}}x{{/if}}", bag))
}

// ==========================
// Timezone Resolution Tests
// ==========================

func TestLocation(t *testing.T) {
	assert.Equal(t, time.UTC, Location(""))
	assert.Equal(t, time.UTC, Location("Not/AZone"))

	loc := Location("America/New_York")
	assert.Equal(t, "America/New_York", loc.String())
}
