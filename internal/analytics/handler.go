// internal/analytics/handler.go
package analytics

import (
	"encoding/json"
	"net/http"

	"eventdesk-functions/internal/cache"
	"eventdesk-functions/internal/common/logger"
)

type Handler struct {
	service *Service
	cache   *cache.Cache
	logger  logger.Logger
}

// NewHandler creates the analytics endpoint handler. cache may be nil when
// caching is disabled.
func NewHandler(service *Service, c *cache.Cache, log logger.Logger) *Handler {
	return &Handler{
		service: service,
		cache:   c,
		logger:  log.WithFields(map[string]interface{}{"component": "analytics"}),
	}
}

// Handle serves GET /analytics/sessions?eventId=... with TTL caching of the
// marshalled summary.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	eventID := r.URL.Query().Get("eventId")
	if eventID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "eventId is required"})
		return
	}

	cacheKey := "analytics:sessions:" + eventID
	if h.cache != nil {
		if payload, ok := h.cache.Get(r.Context(), cacheKey); ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(payload)
			return
		}
	}

	summary, err := h.service.EventSummary(r.Context(), eventID)
	if err != nil {
		h.logger.Error("analytics query failed", map[string]interface{}{"eventId": eventID, "error": err.Error()})
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	payload, err := json.Marshal(summary)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if h.cache != nil {
		h.cache.Set(r.Context(), cacheKey, payload)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
