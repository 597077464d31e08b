// internal/functions/daily-agenda/handler.go
package dailyagenda

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"eventdesk-functions/internal/common/logger"
	"eventdesk-functions/internal/common/metrics"
	"eventdesk-functions/internal/common/validation"
	"eventdesk-functions/internal/notify"
)

const FunctionName = "daily-agenda"

const inputSchema = `{
	"type": "object",
	"properties": {
		"isTest": {"type": "boolean"},
		"testEmail": {"type": "string"},
		"eventId": {"type": "string"}
	},
	"additionalProperties": true
}`

// DispatchService runs one dispatch for this notification kind.
type DispatchService interface {
	Execute(ctx context.Context, input *Input) (*Output, error)
}

type Handler struct {
	config  *Config
	service DispatchService
	logger  logger.Logger
}

func NewHandler(config *Config, service DispatchService, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		service: service,
		logger:  log.WithFields(map[string]interface{}{"function": FunctionName}),
	}
}

// Handle implements the invocation contract: optional JSON body, 200 with a
// dispatch summary (even when zero sent), 500 with {error} on fatal
// failures, and a fixed permissive header set for CORS preflight.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	writeCORS(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	input := h.parseInput(r)

	ctx, cancel := context.WithTimeout(r.Context(), h.config.Timeout)
	defer cancel()

	started := time.Now()
	output, err := h.service.Execute(ctx, input)
	metrics.DispatchDuration.WithLabelValues(notify.KindDigest).Observe(time.Since(started).Seconds())

	if err != nil {
		metrics.DispatchRuns.WithLabelValues(notify.KindDigest, "error").Inc()
		h.logger.Error("dispatch run failed", map[string]interface{}{"error": err.Error()})
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	metrics.DispatchRuns.WithLabelValues(notify.KindDigest, "ok").Inc()
	writeJSON(w, http.StatusOK, output)
}

// parseInput reads the optional invocation body. Absent, unparsable or
// schema-invalid bodies fall back to the production path rather than
// failing the invocation.
func (h *Handler) parseInput(r *http.Request) *Input {
	if r.Body == nil {
		return nil
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil || len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}

	if err := validation.ValidateJSON(body, inputSchema); err != nil {
		h.logger.Warn("invocation body rejected, using production path", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}

	var input Input
	if err := json.Unmarshal(body, &input); err != nil {
		return nil
	}
	return &input
}

func writeCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
