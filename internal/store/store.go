// internal/store/store.go

// Package store holds the read-side queries the notification functions run
// against the relational backend. The schema is an external contract; the
// dispatchers treat this purely as a queryable source.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"eventdesk-functions/internal/common/logger"
	"eventdesk-functions/internal/models"

	"github.com/lib/pq"
)

type Store struct {
	db     *sql.DB
	logger logger.Logger
}

func New(db *sql.DB, log logger.Logger) *Store {
	return &Store{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "store"}),
	}
}

const reminderTargetsQuery = `
SELECT e.id, e.name, COALESCE(e.timezone, 'UTC'),
       s.reminder_enabled, s.digest_enabled,
       COALESCE(s.lead_minutes, 0), COALESCE(s.from_name, '')
FROM event_notification_settings s
JOIN events e ON e.id = s.event_id
WHERE s.reminder_enabled = TRUE AND ($1 = '' OR e.id = $1)
ORDER BY e.id`

const digestTargetsQuery = `
SELECT e.id, e.name, COALESCE(e.timezone, 'UTC'),
       s.reminder_enabled, s.digest_enabled,
       COALESCE(s.lead_minutes, 0), COALESCE(s.from_name, '')
FROM event_notification_settings s
JOIN events e ON e.id = s.event_id
WHERE s.digest_enabled = TRUE AND ($1 = '' OR e.id = $1)
ORDER BY e.id`

// ReminderTargets returns the events with session reminders enabled,
// optionally scoped to one event.
func (s *Store) ReminderTargets(ctx context.Context, eventID string) ([]models.NotificationSettings, error) {
	return s.targets(ctx, reminderTargetsQuery, eventID)
}

// DigestTargets returns the events with the daily agenda enabled,
// optionally scoped to one event.
func (s *Store) DigestTargets(ctx context.Context, eventID string) ([]models.NotificationSettings, error) {
	return s.targets(ctx, digestTargetsQuery, eventID)
}

func (s *Store) targets(ctx context.Context, query, eventID string) ([]models.NotificationSettings, error) {
	rows, err := s.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("query notification targets: %w", err)
	}
	defer rows.Close()

	var out []models.NotificationSettings
	for rows.Next() {
		var t models.NotificationSettings
		if err := rows.Scan(
			&t.EventID, &t.EventName, &t.Timezone,
			&t.ReminderEnabled, &t.DigestEnabled,
			&t.LeadMinutes, &t.FromName,
		); err != nil {
			return nil, fmt.Errorf("scan notification target: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

const scheduleQuery = `
SELECT r.event_id, e.name,
       r.attendee_id, a.email, a.first_name, COALESCE(a.last_name, ''),
       ses.id, ses.name, COALESCE(ses.description, ''), COALESCE(ses.speaker, ''),
       COALESCE(b.name, ses.location, ''),
       ses.starts_at, ses.ends_at, r.status
FROM registrations r
JOIN events e ON e.id = r.event_id
JOIN attendees a ON a.id = r.attendee_id
JOIN sessions ses ON ses.id = r.session_id
LEFT JOIN booths b ON b.id = r.booth_id
WHERE r.event_id = ANY($1)
  AND ses.starts_at >= $2 AND ses.starts_at < $3`

const scheduleOrder = ` ORDER BY r.attendee_id, ses.starts_at`

// ScheduleRows returns the schedule rows for the given events whose session
// start falls inside [from, to), joined to recipient and location info. When
// registeredOnly is set, rows whose registration has already been attended
// or cancelled are excluded.
func (s *Store) ScheduleRows(ctx context.Context, eventIDs []string, from, to time.Time, registeredOnly bool) ([]models.ScheduleRow, error) {
	query := scheduleQuery
	args := []interface{}{pq.Array(eventIDs), from, to}
	if registeredOnly {
		query += ` AND r.status = $4`
		args = append(args, models.RegistrationStatusRegistered)
	}
	query += scheduleOrder

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query schedule rows: %w", err)
	}
	defer rows.Close()

	var out []models.ScheduleRow
	for rows.Next() {
		var r models.ScheduleRow
		if err := rows.Scan(
			&r.EventID, &r.EventName,
			&r.AttendeeID, &r.AttendeeEmail, &r.FirstName, &r.LastName,
			&r.SessionID, &r.SessionName, &r.Description, &r.Speaker,
			&r.Location,
			&r.StartsAt, &r.EndsAt, &r.Status,
		); err != nil {
			return nil, fmt.Errorf("scan schedule row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

const sponsorsQuery = `
SELECT event_id, id, name, tier, COALESCE(logo_url, ''), COALESCE(website_url, '')
FROM booths
WHERE event_id = $1 AND is_sponsor = TRUE
ORDER BY name`

// SponsorTiers queries the event's sponsor booths and partitions them by
// tier. Recomputed on every dispatch run, no caching.
func (s *Store) SponsorTiers(ctx context.Context, eventID string) (models.SponsorTiers, error) {
	var tiers models.SponsorTiers

	rows, err := s.db.QueryContext(ctx, sponsorsQuery, eventID)
	if err != nil {
		return tiers, fmt.Errorf("query sponsors: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sp models.Sponsor
		if err := rows.Scan(&sp.EventID, &sp.BoothID, &sp.Name, &sp.Tier, &sp.LogoURL, &sp.WebsiteURL); err != nil {
			return tiers, fmt.Errorf("scan sponsor: %w", err)
		}
		switch sp.Tier {
		case models.TierPlatinum:
			if tiers.Platinum == nil {
				cp := sp
				tiers.Platinum = &cp
			}
		case models.TierGold:
			tiers.Gold = append(tiers.Gold, sp)
		case models.TierSilver:
			tiers.Silver = append(tiers.Silver, sp)
		}
	}
	return tiers, rows.Err()
}

const nearestSessionQuery = `
SELECT ses.event_id, e.name,
       ses.id, ses.name, COALESCE(ses.description, ''), COALESCE(ses.speaker, ''),
       COALESCE(ses.location, ''), ses.starts_at, ses.ends_at
FROM sessions ses
JOIN events e ON e.id = ses.event_id
WHERE ses.event_id = $1 AND ses.starts_at > $2
ORDER BY ses.starts_at
LIMIT 1`

// NearestUpcomingSession returns the next session of the event starting
// after the given instant, or nil when none exists. Used only by the manual
// test-mode path.
func (s *Store) NearestUpcomingSession(ctx context.Context, eventID string, after time.Time) (*models.ScheduleRow, error) {
	var r models.ScheduleRow
	err := s.db.QueryRowContext(ctx, nearestSessionQuery, eventID, after).Scan(
		&r.EventID, &r.EventName,
		&r.SessionID, &r.SessionName, &r.Description, &r.Speaker,
		&r.Location, &r.StartsAt, &r.EndsAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query nearest session: %w", err)
	}
	return &r, nil
}

const scansQuery = `
SELECT sc.session_id, ses.name, sc.booth_id, COALESCE(b.name, ''),
       COALESCE(b.capacity, 0), sc.attendee_id, sc.scanned_at
FROM scans sc
JOIN sessions ses ON ses.id = sc.session_id
LEFT JOIN booths b ON b.id = sc.booth_id
WHERE ses.event_id = $1
ORDER BY sc.scanned_at`

// SessionScans returns the raw booth/session check-in scans for one event,
// fed to the analytics aggregation.
func (s *Store) SessionScans(ctx context.Context, eventID string) ([]models.ScanRow, error) {
	rows, err := s.db.QueryContext(ctx, scansQuery, eventID)
	if err != nil {
		return nil, fmt.Errorf("query scans: %w", err)
	}
	defer rows.Close()

	var out []models.ScanRow
	for rows.Next() {
		var r models.ScanRow
		if err := rows.Scan(&r.SessionID, &r.SessionName, &r.BoothID, &r.BoothName, &r.Capacity, &r.AttendeeID, &r.ScannedAt); err != nil {
			return nil, fmt.Errorf("scan scan row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
