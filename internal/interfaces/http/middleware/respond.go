package middleware

import (
	"github.com/foodcourt/pos/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// RequestIDKey is the header and context key carrying the request id
const RequestIDKey = "X-Request-ID"

// abortWithError stops the chain with the standard error envelope
func abortWithError(c *gin.Context, code, message string) {
	resp := dto.NewErrorResponse(code, message).WithRequestID(RequestIDFrom(c))
	c.AbortWithStatusJSON(dto.GetHTTPStatus(code), resp)
}

// RequestIDFrom extracts the request id set by RequestID or sent by the client
func RequestIDFrom(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return c.GetHeader(RequestIDKey)
}
