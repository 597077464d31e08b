// internal/server/server.go

// Package server wires the function endpoints, analytics, the cache
// message contract and the metrics handler onto one HTTP server.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"time"

	"eventdesk-functions/internal/cache"
	"eventdesk-functions/internal/common/config"
	"eventdesk-functions/internal/common/logger"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Routes collects the handlers mounted on the server. Cache may be nil when
// caching is disabled.
type Routes struct {
	SessionReminder http.HandlerFunc
	DailyAgenda     http.HandlerFunc
	Analytics       http.HandlerFunc
	Cache           *cache.Cache
}

type Server struct {
	httpServer *http.Server
	logger     logger.Logger
}

func New(cfg config.ServerConfig, routes Routes, log logger.Logger) *Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/functions/session-reminder", routes.SessionReminder)
	mux.HandleFunc("/functions/daily-agenda", routes.DailyAgenda)
	mux.HandleFunc("/analytics/sessions", routes.Analytics)
	mux.HandleFunc("/cache", CacheMessageHandler(routes.Cache, log))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      mux,
			ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
			WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		},
		logger: log.WithFields(map[string]interface{}{"component": "server"}),
	}
}

func (s *Server) Start() error {
	s.logger.Info("http server listening", map[string]interface{}{"addr": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// CacheMessageHandler implements the cache message contract: a CLEAR_CACHE
// message empties the named cache and is answered with CACHE_CLEARED.
func CacheMessageHandler(c *cache.Cache, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			WriteJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
			return
		}
		if c == nil {
			WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "cache disabled"})
			return
		}

		var msg cache.Message
		if err := json.NewDecoder(r.Body).Decode(&msg); err != nil || msg.Type != cache.MessageClearCache {
			WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown cache message"})
			return
		}

		if _, err := c.Clear(r.Context()); err != nil {
			log.Error("cache clear failed", map[string]interface{}{"error": err.Error()})
			WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}

		WriteJSON(w, http.StatusOK, cache.Message{Type: cache.MessageCacheCleared})
	}
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
