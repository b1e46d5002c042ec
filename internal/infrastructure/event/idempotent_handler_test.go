package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/foodcourt/pos/internal/infrastructure/cache"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockIdempotencyStore struct {
	mock.Mock
}

func (m *mockIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *mockIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *mockIdempotencyStore) Release(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockIdempotencyStore) Close() error { return nil }

func TestIdempotentHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers an event once", func(t *testing.T) {
		store := cache.NewInMemoryIdempotencyStore()
		defer store.Close()
		inner := newTestHandler("KOTCreated")
		h := NewIdempotentHandler(inner, store, 0, zap.NewNop())

		event := newTestEvent("KOTCreated", uuid.New())
		require.NoError(t, h.Handle(ctx, event))
		require.NoError(t, h.Handle(ctx, event))
		require.NoError(t, h.Handle(ctx, newTestEvent("KOTCreated", uuid.New())))

		assert.Len(t, inner.getHandled(), 2)
		assert.Equal(t, IdempotencyStats{Processed: 2, Duplicate: 1}, h.Stats())
		assert.Equal(t, []string{"KOTCreated"}, h.EventTypes())
	})

	t.Run("a failed delivery can be retried", func(t *testing.T) {
		store := cache.NewInMemoryIdempotencyStore()
		defer store.Close()
		inner := newTestHandler("SaleCreated")
		inner.setError(errors.New("broker down"))
		h := NewIdempotentHandler(inner, store, time.Hour, zap.NewNop())

		event := newTestEvent("SaleCreated", uuid.New())
		assert.Error(t, h.Handle(ctx, event))

		inner.setError(nil)
		require.NoError(t, h.Handle(ctx, event))
		assert.Len(t, inner.getHandled(), 2)
		assert.Equal(t, int64(1), h.Stats().Failed)
	})

	t.Run("store errors do not drop the event", func(t *testing.T) {
		store := new(mockIdempotencyStore)
		event := newTestEvent("StockLow", uuid.New())
		store.On("MarkProcessed", ctx, "event:"+event.EventID().String(), DefaultDeliveryTTL).
			Return(false, errors.New("redis timeout"))
		inner := newTestHandler("StockLow")
		h := NewIdempotentHandler(inner, store, 0, zap.NewNop())

		require.NoError(t, h.Handle(ctx, event))
		assert.Len(t, inner.getHandled(), 1)
		store.AssertExpectations(t)
	})
}

var _ shared.IdempotencyStore = (*mockIdempotencyStore)(nil)
