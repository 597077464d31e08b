// internal/analytics/analytics_test.go
package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventdesk-functions/internal/cache"
	"eventdesk-functions/internal/common/logger"
	"eventdesk-functions/internal/models"
)

// ==========================
// Mocks
// ==========================

type mockScanStore struct {
	SessionScansFunc func(ctx context.Context, eventID string) ([]models.ScanRow, error)

	mu    sync.Mutex
	calls int
}

func (m *mockScanStore) SessionScans(ctx context.Context, eventID string) ([]models.ScanRow, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.SessionScansFunc != nil {
		return m.SessionScansFunc(ctx, eventID)
	}
	return nil, nil
}

func scan(sessionID, sessionName, attendeeID string, capacity int, at time.Time) models.ScanRow {
	return models.ScanRow{
		SessionID:   sessionID,
		SessionName: sessionName,
		BoothID:     "booth-" + sessionID,
		BoothName:   "Booth " + sessionName,
		Capacity:    capacity,
		AttendeeID:  attendeeID,
		ScannedAt:   at,
	}
}

// ==========================
// Aggregation Tests
// ==========================

func TestEventSummary(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	store := &mockScanStore{
		SessionScansFunc: func(ctx context.Context, eventID string) ([]models.ScanRow, error) {
			return []models.ScanRow{
				scan("s1", "Keynote", "att-1", 100, base),
				scan("s1", "Keynote", "att-2", 100, base.Add(5*time.Minute)),
				scan("s1", "Keynote", "att-1", 100, base.Add(10*time.Minute)), // re-scan of the same attendee
				scan("s2", "Workshop", "att-2", 20, base.Add(time.Hour)),
			}, nil
		},
	}
	service := NewService(store, logger.NewNoOpLogger())

	summary, err := service.EventSummary(context.Background(), "evt-1")
	require.NoError(t, err)

	assert.Equal(t, "evt-1", summary.EventID)
	assert.Equal(t, 4, summary.TotalScans)
	assert.Equal(t, 2, summary.UniqueAttendees)
	require.Len(t, summary.Sessions, 2)

	// sorted by attendance, highest first
	keynote := summary.Sessions[0]
	assert.Equal(t, "s1", keynote.SessionID)
	assert.Equal(t, 2, keynote.Attendance)
	assert.Equal(t, 3, keynote.Scans)
	assert.InDelta(t, 0.02, keynote.Utilization, 1e-9)
	require.NotNil(t, keynote.FirstScan)
	require.NotNil(t, keynote.LastScan)
	assert.Equal(t, base, *keynote.FirstScan)
	assert.Equal(t, base.Add(10*time.Minute), *keynote.LastScan)

	workshop := summary.Sessions[1]
	assert.Equal(t, 1, workshop.Attendance)
	assert.InDelta(t, 0.05, workshop.Utilization, 1e-9)
}

func TestEventSummary_NoScans(t *testing.T) {
	service := NewService(&mockScanStore{}, logger.NewNoOpLogger())

	summary, err := service.EventSummary(context.Background(), "evt-1")
	require.NoError(t, err)
	assert.Equal(t, 0, summary.TotalScans)
	assert.Empty(t, summary.Sessions)
}

func TestEventSummary_ZeroCapacitySkipsUtilization(t *testing.T) {
	store := &mockScanStore{
		SessionScansFunc: func(ctx context.Context, eventID string) ([]models.ScanRow, error) {
			return []models.ScanRow{scan("s1", "Keynote", "att-1", 0, time.Now())}, nil
		},
	}
	service := NewService(store, logger.NewNoOpLogger())

	summary, err := service.EventSummary(context.Background(), "evt-1")
	require.NoError(t, err)
	require.Len(t, summary.Sessions, 1)
	assert.Zero(t, summary.Sessions[0].Utilization)
}

func TestEventSummary_TieBreaksBySessionID(t *testing.T) {
	now := time.Now()
	store := &mockScanStore{
		SessionScansFunc: func(ctx context.Context, eventID string) ([]models.ScanRow, error) {
			return []models.ScanRow{
				scan("s2", "B", "att-1", 0, now),
				scan("s1", "A", "att-1", 0, now),
			}, nil
		},
	}
	service := NewService(store, logger.NewNoOpLogger())

	summary, err := service.EventSummary(context.Background(), "evt-1")
	require.NoError(t, err)
	require.Len(t, summary.Sessions, 2)
	assert.Equal(t, "s1", summary.Sessions[0].SessionID)
	assert.Equal(t, "s2", summary.Sessions[1].SessionID)
}

func TestEventSummary_QueryError(t *testing.T) {
	store := &mockScanStore{
		SessionScansFunc: func(ctx context.Context, eventID string) ([]models.ScanRow, error) {
			return nil, assert.AnError
		},
	}
	service := NewService(store, logger.NewNoOpLogger())

	_, err := service.EventSummary(context.Background(), "evt-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query session scans")
}

// ==========================
// Handler Tests
// ==========================

func TestHandler_Handle(t *testing.T) {
	store := &mockScanStore{
		SessionScansFunc: func(ctx context.Context, eventID string) ([]models.ScanRow, error) {
			return []models.ScanRow{scan("s1", "Keynote", "att-1", 10, time.Now())}, nil
		},
	}
	handler := NewHandler(NewService(store, logger.NewNoOpLogger()), nil, logger.NewNoOpLogger())

	req := httptest.NewRequest(http.MethodGet, "/analytics/sessions?eventId=evt-1", nil)
	rec := httptest.NewRecorder()
	handler.Handle(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var summary Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, "evt-1", summary.EventID)
	require.Len(t, summary.Sessions, 1)
}

func TestHandler_Handle_MissingEventID(t *testing.T) {
	handler := NewHandler(NewService(&mockScanStore{}, logger.NewNoOpLogger()), nil, logger.NewNoOpLogger())

	req := httptest.NewRequest(http.MethodGet, "/analytics/sessions", nil)
	rec := httptest.NewRecorder()
	handler.Handle(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Handle_MethodNotAllowed(t *testing.T) {
	handler := NewHandler(NewService(&mockScanStore{}, logger.NewNoOpLogger()), nil, logger.NewNoOpLogger())

	req := httptest.NewRequest(http.MethodPost, "/analytics/sessions?eventId=evt-1", nil)
	rec := httptest.NewRecorder()
	handler.Handle(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandler_Handle_ServesSecondRequestFromCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	c := cache.New(client, "analytics", time.Minute, logger.NewNoOpLogger())

	store := &mockScanStore{
		SessionScansFunc: func(ctx context.Context, eventID string) ([]models.ScanRow, error) {
			return []models.ScanRow{scan("s1", "Keynote", "att-1", 10, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))}, nil
		},
	}
	handler := NewHandler(NewService(store, logger.NewNoOpLogger()), c, logger.NewNoOpLogger())

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/analytics/sessions?eventId=evt-1", nil)
		rec := httptest.NewRecorder()
		handler.Handle(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	// the second response came from the cache
	assert.Equal(t, 1, store.calls)
}

func TestHandler_Handle_QueryErrorReturns500(t *testing.T) {
	store := &mockScanStore{
		SessionScansFunc: func(ctx context.Context, eventID string) ([]models.ScanRow, error) {
			return nil, assert.AnError
		},
	}
	handler := NewHandler(NewService(store, logger.NewNoOpLogger()), nil, logger.NewNoOpLogger())

	req := httptest.NewRequest(http.MethodGet, "/analytics/sessions?eventId=evt-1", nil)
	rec := httptest.NewRecorder()
	handler.Handle(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
