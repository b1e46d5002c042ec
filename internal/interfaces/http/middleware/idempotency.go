package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/foodcourt/pos/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IdempotencyKeyHeader is the request header carrying the client's key
const IdempotencyKeyHeader = "Idempotency-Key"

const maxIdempotencyKeyLength = 128

// IdempotencyConfig configures the Idempotency-Key middleware
type IdempotencyConfig struct {
	Store  shared.IdempotencyStore
	TTL    time.Duration
	Logger *zap.Logger
}

// Idempotency rejects a POST whose Idempotency-Key was already used by the
// same tenant on the same route. Keys of failed requests are released so the
// client can retry. Requests without the header pass through.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		clientKey := c.GetHeader(IdempotencyKeyHeader)
		if c.Request.Method != http.MethodPost || clientKey == "" || cfg.Store == nil {
			c.Next()
			return
		}
		if len(clientKey) > maxIdempotencyKeyLength {
			abortWithError(c, dto.ErrCodeValidationFailed, "Idempotency-Key is too long")
			return
		}

		key := "http:" + GetJWTTenantID(c) + ":" + c.FullPath() + ":" + clientKey
		ctx := c.Request.Context()
		fresh, err := cfg.Store.MarkProcessed(ctx, key, cfg.TTL)
		if err != nil {
			cfg.Logger.Warn("idempotency store unavailable", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}
		if !fresh {
			abortWithError(c, dto.ErrCodeDuplicateReq, "A request with this Idempotency-Key was already processed")
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			// the request context may already be cancelled
			if err := cfg.Store.Release(context.WithoutCancel(ctx), key); err != nil {
				cfg.Logger.Warn("failed to release idempotency key", zap.String("key", key), zap.Error(err))
			}
		}
	}
}
