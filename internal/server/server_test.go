// internal/server/server_test.go
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventdesk-functions/internal/cache"
	"eventdesk-functions/internal/common/logger"
)

func newTestCache(t *testing.T) (*cache.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return cache.New(client, "analytics", time.Minute, logger.NewNoOpLogger()), mr
}

func TestCacheMessageHandler_ClearCache(t *testing.T) {
	c, _ := newTestCache(t)
	c.Set(context.Background(), "sessions:evt-1", []byte("x"))

	handler := CacheMessageHandler(c, logger.NewNoOpLogger())

	req := httptest.NewRequest(http.MethodPost, "/cache", strings.NewReader(`{"type": "CLEAR_CACHE"}`))
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var msg cache.Message
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg))
	assert.Equal(t, cache.MessageCacheCleared, msg.Type)

	_, ok := c.Get(context.Background(), "sessions:evt-1")
	assert.False(t, ok)
}

func TestCacheMessageHandler_UnknownMessageType(t *testing.T) {
	c, _ := newTestCache(t)
	handler := CacheMessageHandler(c, logger.NewNoOpLogger())

	tests := []struct {
		name string
		body string
	}{
		{name: "wrong type", body: `{"type": "FLUSH_EVERYTHING"}`},
		{name: "empty type", body: `{}`},
		{name: "invalid json", body: `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/cache", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			handler(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCacheMessageHandler_MethodNotAllowed(t *testing.T) {
	c, _ := newTestCache(t)
	handler := CacheMessageHandler(c, logger.NewNoOpLogger())

	req := httptest.NewRequest(http.MethodGet, "/cache", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCacheMessageHandler_CacheDisabled(t *testing.T) {
	handler := CacheMessageHandler(nil, logger.NewNoOpLogger())

	req := httptest.NewRequest(http.MethodPost, "/cache", strings.NewReader(`{"type": "CLEAR_CACHE"}`))
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
