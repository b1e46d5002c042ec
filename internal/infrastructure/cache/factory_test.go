package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/foodcourt/pos/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactory_RedisDisabled(t *testing.T) {
	f := NewFactory(config.RedisConfig{Enabled: false})

	_, err := f.Client()
	assert.Error(t, err)

	store, err := f.CreateIdempotencyStore()
	require.NoError(t, err)
	assert.IsType(t, &InMemoryIdempotencyStore{}, store)
	assert.IsType(t, &InMemoryReportCache{}, f.CreateReportCache())

	assert.NoError(t, f.Ping(context.Background()))
	assert.NoError(t, f.Close())
}

func TestFactory_RedisRequired(t *testing.T) {
	f := NewFactory(config.RedisConfig{Enabled: false}, WithInMemoryFallback(false))

	_, err := f.CreateIdempotencyStore()
	assert.Error(t, err)
}

func TestFactory_SharedClient(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	f := NewFactory(config.RedisConfig{Enabled: true}, WithClient(client))
	defer f.Close()

	got, err := f.Client()
	require.NoError(t, err)
	assert.Same(t, client, got)

	store, err := f.CreateIdempotencyStore()
	require.NoError(t, err)
	assert.IsType(t, &RedisIdempotencyStore{}, store)

	ctx := context.Background()
	reports := f.CreateReportCache()
	require.NoError(t, reports.Set(ctx, "dashboard:t1", []byte(`{}`), time.Minute))
	assert.True(t, mr.Exists(defaultReportPrefix+"dashboard:t1"))

	assert.NoError(t, f.Ping(ctx))
	mr.SetError("ERR server unavailable")
	assert.Error(t, f.Ping(ctx))
}
