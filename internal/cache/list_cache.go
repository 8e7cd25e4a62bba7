// Package cache keeps whole content lists in Redis between writes.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "portfolio:list:"

// ListCache caches one full content list under a single key.
// A nil *ListCache is valid and always misses.
type ListCache[T any] struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

// NewListCache returns nil when rdb is nil so callers can pass it through
// unconditionally.
func NewListCache[T any](rdb *redis.Client, name string, ttl time.Duration) *ListCache[T] {
	if rdb == nil {
		return nil
	}
	return &ListCache[T]{rdb: rdb, key: keyPrefix + name, ttl: ttl}
}

// Get returns the cached list, or nil on a miss.
func (c *ListCache[T]) Get(ctx context.Context) ([]T, error) {
	if c == nil {
		return nil, nil
	}
	b, err := c.rdb.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get %s: %w", c.key, err)
	}
	list := []T{}
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, fmt.Errorf("cache decode %s: %w", c.key, err)
	}
	return list, nil
}

func (c *ListCache[T]) Set(ctx context.Context, list []T) error {
	if c == nil {
		return nil
	}
	b, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", c.key, err)
	}
	return c.rdb.Set(ctx, c.key, b, c.ttl).Err()
}

// Invalidate drops the cached list (cache invalidation on write).
func (c *ListCache[T]) Invalidate(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.rdb.Del(ctx, c.key).Err()
}
