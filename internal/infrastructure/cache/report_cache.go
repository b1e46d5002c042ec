package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/foodcourt/pos/internal/domain/report"
	"github.com/redis/go-redis/v9"
)

const defaultReportPrefix = "pos:report:"

// RedisReportCache stores serialized reports in Redis
type RedisReportCache struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisReportCache creates a report cache on an existing client
func NewRedisReportCache(client *redis.Client, keyPrefix string) *RedisReportCache {
	if keyPrefix == "" {
		keyPrefix = defaultReportPrefix
	}
	return &RedisReportCache{client: client, keyPrefix: keyPrefix}
}

// Get returns the cached bytes or report.ErrCacheMiss
func (c *RedisReportCache) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, report.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read report cache: %w", err)
	}
	return value, nil
}

// Set stores value for ttl
func (c *RedisReportCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.keyPrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write report cache: %w", err)
	}
	return nil
}

type cachedReport struct {
	value     []byte
	expiresAt time.Time
}

// InMemoryReportCache keeps reports in a process-local map. Expired entries are
// dropped lazily on read.
type InMemoryReportCache struct {
	mu      sync.RWMutex
	entries map[string]cachedReport
	now     func() time.Time
}

// NewInMemoryReportCache creates an empty in-memory report cache
func NewInMemoryReportCache() *InMemoryReportCache {
	return &InMemoryReportCache{
		entries: make(map[string]cachedReport),
		now:     time.Now,
	}
}

// Get returns the cached bytes or report.ErrCacheMiss
func (c *InMemoryReportCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, report.ErrCacheMiss
	}
	if !c.now().Before(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, report.ErrCacheMiss
	}
	return e.value, nil
}

// Set stores a copy of value for ttl
func (c *InMemoryReportCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cachedReport{
		value:     append([]byte(nil), value...),
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

var (
	_ report.Cache = (*RedisReportCache)(nil)
	_ report.Cache = (*InMemoryReportCache)(nil)
)
