// internal/analytics/analytics.go

// Package analytics computes the booth-capacity/session-attendance summary
// from raw check-in scans: a single-pass aggregation over rows fetched from
// the database, recomputed per request.
package analytics

import (
	"context"
	"sort"
	"time"

	stderrors "eventdesk-functions/internal/common/errors"
	"eventdesk-functions/internal/common/logger"
	"eventdesk-functions/internal/models"
)

// ScanStore is the slice of the store used by analytics, defined here for
// mocking.
type ScanStore interface {
	SessionScans(ctx context.Context, eventID string) ([]models.ScanRow, error)
}

// SessionStats is the per-session aggregation result.
type SessionStats struct {
	SessionID   string     `json:"sessionId"`
	SessionName string     `json:"sessionName"`
	BoothName   string     `json:"boothName,omitempty"`
	Attendance  int        `json:"attendance"`
	Scans       int        `json:"scans"`
	Capacity    int        `json:"capacity,omitempty"`
	Utilization float64    `json:"utilization,omitempty"`
	FirstScan   *time.Time `json:"firstScan,omitempty"`
	LastScan    *time.Time `json:"lastScan,omitempty"`
}

// Summary is the event-level analytics response.
type Summary struct {
	EventID         string         `json:"eventId"`
	Sessions        []SessionStats `json:"sessions"`
	TotalScans      int            `json:"totalScans"`
	UniqueAttendees int            `json:"uniqueAttendees"`
}

type Service struct {
	store  ScanStore
	logger logger.Logger
}

func NewService(store ScanStore, log logger.Logger) *Service {
	return &Service{
		store:  store,
		logger: log.WithFields(map[string]interface{}{"component": "analytics"}),
	}
}

// EventSummary aggregates the event's scans into per-session stats.
// Attendance counts distinct attendees per session; utilization is
// attendance over booth capacity when a capacity is known.
func (s *Service) EventSummary(ctx context.Context, eventID string) (*Summary, error) {
	rows, err := s.store.SessionScans(ctx, eventID)
	if err != nil {
		return nil, stderrors.Wrap(stderrors.ErrCodeAnalyticsQueryFailed, "query session scans", err, true)
	}

	type agg struct {
		stats     SessionStats
		attendees map[string]struct{}
	}
	bySession := make(map[string]*agg)
	allAttendees := make(map[string]struct{})

	for _, row := range rows {
		a, ok := bySession[row.SessionID]
		if !ok {
			a = &agg{
				stats: SessionStats{
					SessionID:   row.SessionID,
					SessionName: row.SessionName,
					BoothName:   row.BoothName,
					Capacity:    row.Capacity,
				},
				attendees: make(map[string]struct{}),
			}
			bySession[row.SessionID] = a
		}

		a.stats.Scans++
		a.attendees[row.AttendeeID] = struct{}{}
		allAttendees[row.AttendeeID] = struct{}{}

		scannedAt := row.ScannedAt
		if a.stats.FirstScan == nil || scannedAt.Before(*a.stats.FirstScan) {
			t := scannedAt
			a.stats.FirstScan = &t
		}
		if a.stats.LastScan == nil || scannedAt.After(*a.stats.LastScan) {
			t := scannedAt
			a.stats.LastScan = &t
		}
	}

	summary := &Summary{
		EventID:         eventID,
		TotalScans:      len(rows),
		UniqueAttendees: len(allAttendees),
	}
	for _, a := range bySession {
		a.stats.Attendance = len(a.attendees)
		if a.stats.Capacity > 0 {
			a.stats.Utilization = float64(a.stats.Attendance) / float64(a.stats.Capacity)
		}
		summary.Sessions = append(summary.Sessions, a.stats)
	}
	sort.Slice(summary.Sessions, func(i, j int) bool {
		if summary.Sessions[i].Attendance != summary.Sessions[j].Attendance {
			return summary.Sessions[i].Attendance > summary.Sessions[j].Attendance
		}
		return summary.Sessions[i].SessionID < summary.Sessions[j].SessionID
	})

	return summary, nil
}
