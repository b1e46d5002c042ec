package middleware

import (
	"errors"
	"net/http"

	"github.com/foodcourt/pos/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

const payloadTooLargeMessage = "Request body exceeds maximum allowed size"

// BodyLimit caps request bodies at maxBytes; zero or less disables the cap.
// A declared Content-Length over the cap is refused up front. Chunked bodies
// fail while being read, and HandleValidationError turns that into 413.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	if maxBytes <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			abortWithError(c, dto.ErrCodePayloadTooLarge, payloadTooLargeMessage)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func isBodyTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	return errors.As(err, &tooLarge)
}
