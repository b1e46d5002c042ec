package cache

import (
	"context"
	"fmt"

	"github.com/foodcourt/pos/internal/domain/report"
	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/foodcourt/pos/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Factory creates the idempotency store and report cache. Both share one Redis
// client when Redis is enabled and reachable.
type Factory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
	client                *redis.Client
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to in-memory stores when Redis is unavailable.
// Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// WithClient makes the factory use an existing Redis client
func WithClient(client *redis.Client) FactoryOption {
	return func(f *Factory) {
		f.client = client
	}
}

// NewFactory creates a new factory
func NewFactory(cfg config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Client returns the shared Redis client, connecting on first use
func (f *Factory) Client() (*redis.Client, error) {
	if f.client != nil {
		return f.client, nil
	}
	if !f.redisConfig.Enabled {
		return nil, fmt.Errorf("redis is disabled")
	}
	client, err := NewRedisClient(f.redisConfig)
	if err != nil {
		return nil, err
	}
	f.client = client
	return client, nil
}

// CreateIdempotencyStore returns a Redis store, or an in-memory one when Redis is
// disabled or unreachable and fallback is allowed
func (f *Factory) CreateIdempotencyStore() (shared.IdempotencyStore, error) {
	client, err := f.Client()
	if err == nil {
		f.logger.Info("using Redis idempotency store")
		return NewRedisIdempotencyStore(client, ""), nil
	}
	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for idempotency but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory idempotency store. "+
		"Retried requests are only deduplicated within this instance.",
		zap.Error(err),
	)
	return NewInMemoryIdempotencyStore(), nil
}

// CreateReportCache returns a Redis report cache, or an in-memory one when Redis is
// disabled or unreachable. The report cache never fails startup.
func (f *Factory) CreateReportCache() report.Cache {
	client, err := f.Client()
	if err == nil {
		return NewRedisReportCache(client, "")
	}
	f.logger.Info("report cache is in-memory", zap.Error(err))
	return NewInMemoryReportCache()
}

// Ping checks the Redis connection. Without a client the stores live in
// process memory and there is nothing to check.
func (f *Factory) Ping(ctx context.Context) error {
	if f.client == nil {
		return nil
	}
	return f.client.Ping(ctx).Err()
}

// Close closes the shared Redis client, if one was opened
func (f *Factory) Close() error {
	if f.client == nil {
		return nil
	}
	return f.client.Close()
}
