// internal/cache/cache.go

// Package cache is a named, conservatively-TTLed response cache backed by
// Redis, with a clear-cache message contract mirroring the portal's
// service-worker cache: a CLEAR_CACHE message empties the named cache and
// is answered with CACHE_CLEARED.
package cache

import (
	"context"
	"fmt"
	"time"

	"eventdesk-functions/internal/common/logger"
	"eventdesk-functions/internal/common/metrics"

	"github.com/redis/go-redis/v9"
)

// Cache message types.
const (
	MessageClearCache   = "CLEAR_CACHE"
	MessageCacheCleared = "CACHE_CLEARED"
)

// Message is the cache control message payload.
type Message struct {
	Type string `json:"type"`
}

type Cache struct {
	client *redis.Client
	logger logger.Logger
	name   string
	ttl    time.Duration
}

func New(client *redis.Client, name string, ttl time.Duration, log logger.Logger) *Cache {
	return &Cache{
		client: client,
		logger: log.WithFields(map[string]interface{}{"cache": name}),
		name:   name,
		ttl:    ttl,
	}
}

func (c *Cache) key(k string) string {
	return c.name + ":" + k
}

// Get returns the cached payload for key. Cache failures degrade to a miss;
// they never fail the request being served.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err == redis.Nil {
		metrics.CacheMisses.WithLabelValues(c.name).Inc()
		return nil, false
	}
	if err != nil {
		c.logger.Warn("cache get failed", map[string]interface{}{"key": key, "error": err.Error()})
		metrics.CacheMisses.WithLabelValues(c.name).Inc()
		return nil, false
	}
	metrics.CacheHits.WithLabelValues(c.name).Inc()
	return val, true
}

// Set stores the payload under key with the cache TTL. Failures are logged
// and swallowed.
func (c *Cache) Set(ctx context.Context, key string, payload []byte) {
	if err := c.client.Set(ctx, c.key(key), payload, c.ttl).Err(); err != nil {
		c.logger.Warn("cache set failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
}

// Clear removes every entry of the named cache and returns the number of
// keys deleted.
func (c *Cache) Clear(ctx context.Context) (int, error) {
	var deleted int
	iter := c.client.Scan(ctx, 0, c.name+":*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return deleted, fmt.Errorf("cache clear: %w", err)
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("cache clear scan: %w", err)
	}

	c.logger.Info("cache cleared", map[string]interface{}{"deleted": deleted})
	return deleted, nil
}
