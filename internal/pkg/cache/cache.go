// Package cache provides the read-path memoization used by the
// dashboard. It is an optimization only: every implementation must
// produce results identical to the no-op cache.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/t3-analytics/trucklake/internal/pkg/database"
)

// Cache stores string values under string keys with an expiry.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

// RedisCache backs the cache with Redis.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a Redis-backed cache.
func NewRedisCache(client *database.RedisClient) *RedisCache {
	return &RedisCache{client: client.GetClient()}
}

// Get returns the cached value and whether the key was present.
func (c *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

// Set stores the value under key for ttl.
func (c *RedisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

// NoopCache never hits. Used when Redis is not configured and in tests
// asserting cache-off equivalence.
type NoopCache struct{}

// NewNoopCache creates a cache that stores nothing.
func NewNoopCache() *NoopCache {
	return &NoopCache{}
}

// Get always misses.
func (c *NoopCache) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, nil
}

// Set drops the value.
func (c *NoopCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return nil
}
