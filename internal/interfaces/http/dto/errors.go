package dto

import (
	"net/http"

	"github.com/foodcourt/pos/internal/domain/shared"
)

// Error codes surfaced in the error block. Domain codes are reused as-is.
const (
	ErrCodeNotFound          = shared.CodeNotFound
	ErrCodeValidationFailed  = shared.CodeValidationFailed
	ErrCodeInsufficientStock = shared.CodeInsufficientStock
	ErrCodeUnauthorized      = shared.CodeUnauthorized
	ErrCodeForbidden         = shared.CodeForbidden
	ErrCodeAlreadyExists     = shared.CodeAlreadyExists
	ErrCodeInvalidStatus     = shared.CodeInvalidStatus
	ErrCodeInvalidTransition = shared.CodeInvalidTransition
	ErrCodeInvalidState      = shared.CodeInvalidState
	ErrCodeItemNotFound      = shared.CodeItemNotFound
	ErrCodeConcurrency       = shared.CodeConcurrency

	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeTokenExpired    = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid    = "TOKEN_INVALID"
	ErrCodeRateLimited     = "RATE_LIMITED"
	ErrCodePayloadTooLarge = "PAYLOAD_TOO_LARGE"
	ErrCodeDuplicateReq    = "DUPLICATE_REQUEST"
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeUnavailable     = "SERVICE_UNAVAILABLE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes. Business rule
// failures answer 400 so clients can surface the message directly.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeNotFound:          http.StatusNotFound,
	ErrCodeValidationFailed:  http.StatusBadRequest,
	ErrCodeInsufficientStock: http.StatusBadRequest,
	ErrCodeUnauthorized:      http.StatusUnauthorized,
	ErrCodeForbidden:         http.StatusForbidden,
	ErrCodeAlreadyExists:     http.StatusBadRequest,
	ErrCodeInvalidStatus:     http.StatusBadRequest,
	ErrCodeInvalidTransition: http.StatusBadRequest,
	ErrCodeInvalidState:      http.StatusBadRequest,
	ErrCodeItemNotFound:      http.StatusBadRequest,
	ErrCodeConcurrency:       http.StatusConflict,

	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeTokenExpired:    http.StatusUnauthorized,
	ErrCodeTokenInvalid:    http.StatusUnauthorized,
	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodePayloadTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeDuplicateReq:    http.StatusConflict,
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeUnavailable:     http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
