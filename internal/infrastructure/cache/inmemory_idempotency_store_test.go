package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testIdempotencyStore runs the behaviour every IdempotencyStore must share
func testIdempotencyStore(t *testing.T, store shared.IdempotencyStore, expire func(d time.Duration)) {
	ctx := context.Background()

	t.Run("first mark wins", func(t *testing.T) {
		isNew, err := store.MarkProcessed(ctx, "POST /api/sales:k1", time.Hour)
		require.NoError(t, err)
		assert.True(t, isNew)

		isNew, err = store.MarkProcessed(ctx, "POST /api/sales:k1", time.Hour)
		require.NoError(t, err)
		assert.False(t, isNew)

		processed, err := store.IsProcessed(ctx, "POST /api/sales:k1")
		require.NoError(t, err)
		assert.True(t, processed)
	})

	t.Run("unknown key", func(t *testing.T) {
		processed, err := store.IsProcessed(ctx, "POST /api/sales:unknown")
		require.NoError(t, err)
		assert.False(t, processed)
	})

	t.Run("release allows a retry", func(t *testing.T) {
		_, err := store.MarkProcessed(ctx, "POST /api/kots:k2", time.Hour)
		require.NoError(t, err)
		require.NoError(t, store.Release(ctx, "POST /api/kots:k2"))

		isNew, err := store.MarkProcessed(ctx, "POST /api/kots:k2", time.Hour)
		require.NoError(t, err)
		assert.True(t, isNew)

		require.NoError(t, store.Release(ctx, "never-marked"))
	})

	t.Run("expired keys can be marked again", func(t *testing.T) {
		_, err := store.MarkProcessed(ctx, "POST /api/purchases:k3", 50*time.Millisecond)
		require.NoError(t, err)
		expire(100 * time.Millisecond)

		processed, err := store.IsProcessed(ctx, "POST /api/purchases:k3")
		require.NoError(t, err)
		assert.False(t, processed)

		isNew, err := store.MarkProcessed(ctx, "POST /api/purchases:k3", time.Hour)
		require.NoError(t, err)
		assert.True(t, isNew)
	})

	t.Run("concurrent marks have one winner", func(t *testing.T) {
		const callers = 50
		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			winners int
		)
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				isNew, err := store.MarkProcessed(ctx, "POST /api/sales:race", time.Hour)
				assert.NoError(t, err)
				if isNew {
					mu.Lock()
					winners++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, winners)
	})
}

func TestInMemoryIdempotencyStore(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	testIdempotencyStore(t, store, time.Sleep)
}

func TestRedisIdempotencyStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := NewRedisIdempotencyStore(client, "")
	testIdempotencyStore(t, store, mr.FastForward)

	assert.True(t, mr.Exists(defaultIdempotencyPrefix+"POST /api/sales:k1"))
}

func TestInMemoryIdempotencyStore_Sweep(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()
	_, _ = store.MarkProcessed(ctx, "short-1", 10*time.Millisecond)
	_, _ = store.MarkProcessed(ctx, "short-2", 10*time.Millisecond)
	_, _ = store.MarkProcessed(ctx, "long", time.Hour)
	assert.Equal(t, 3, store.Size())

	store.sweep(time.Now().Add(time.Second))

	assert.Equal(t, 1, store.Size())
	processed, err := store.IsProcessed(ctx, "long")
	require.NoError(t, err)
	assert.True(t, processed)
}

func TestInMemoryIdempotencyStore_Close(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}
