package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/foodcourt/pos/internal/infrastructure/cache"
	"github.com/foodcourt/pos/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
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

func newIdempotencyRouter(cfg IdempotencyConfig, status *int) *gin.Engine {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(JWTTenantIDKey, "tenant-1")
		c.Next()
	}, Idempotency(cfg))
	handler := func(c *gin.Context) { c.Status(*status) }
	router.POST("/api/sales", handler)
	router.GET("/api/sales", handler)
	return router
}

func sendWithKey(router *gin.Engine, method, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/api/sales", nil)
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestIdempotency(t *testing.T) {
	t.Run("duplicate key is rejected", func(t *testing.T) {
		status := http.StatusCreated
		router := newIdempotencyRouter(IdempotencyConfig{Store: cache.NewInMemoryIdempotencyStore()}, &status)

		assert.Equal(t, http.StatusCreated, sendWithKey(router, http.MethodPost, "bill-42").Code)
		rec := sendWithKey(router, http.MethodPost, "bill-42")
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, dto.ErrCodeDuplicateReq, decodeResponse(t, rec).Error.Code)
		assert.Equal(t, http.StatusCreated, sendWithKey(router, http.MethodPost, "bill-43").Code)
	})

	t.Run("failed request releases the key", func(t *testing.T) {
		status := http.StatusBadRequest
		router := newIdempotencyRouter(IdempotencyConfig{Store: cache.NewInMemoryIdempotencyStore()}, &status)

		assert.Equal(t, http.StatusBadRequest, sendWithKey(router, http.MethodPost, "bill-42").Code)
		status = http.StatusCreated
		assert.Equal(t, http.StatusCreated, sendWithKey(router, http.MethodPost, "bill-42").Code)
	})

	t.Run("requests without key and non-POST pass", func(t *testing.T) {
		status := http.StatusOK
		store := new(mockIdempotencyStore)
		router := newIdempotencyRouter(IdempotencyConfig{Store: store}, &status)

		assert.Equal(t, http.StatusOK, sendWithKey(router, http.MethodPost, "").Code)
		assert.Equal(t, http.StatusOK, sendWithKey(router, http.MethodGet, "bill-42").Code)
		store.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("key is scoped by tenant and route", func(t *testing.T) {
		status := http.StatusCreated
		store := new(mockIdempotencyStore)
		store.On("MarkProcessed", mock.Anything, "http:tenant-1:/api/sales:bill-42", time.Hour).Return(true, nil).Once()
		router := newIdempotencyRouter(IdempotencyConfig{Store: store, TTL: time.Hour}, &status)

		assert.Equal(t, http.StatusCreated, sendWithKey(router, http.MethodPost, "bill-42").Code)
		store.AssertExpectations(t)
	})

	t.Run("store outage fails open", func(t *testing.T) {
		status := http.StatusCreated
		store := new(mockIdempotencyStore)
		store.On("MarkProcessed", mock.Anything, mock.Anything, mock.Anything).Return(false, errors.New("redis down"))
		router := newIdempotencyRouter(IdempotencyConfig{Store: store}, &status)

		assert.Equal(t, http.StatusCreated, sendWithKey(router, http.MethodPost, "bill-42").Code)
	})
}
