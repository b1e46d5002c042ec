// Package handler holds the gin handlers of the POS API. Handlers bind and
// validate the request, resolve tenant and user from the JWT middleware and
// delegate to the application services.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/foodcourt/pos/internal/infrastructure/logger"
	"github.com/foodcourt/pos/internal/interfaces/http/dto"
	"github.com/foodcourt/pos/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// exposeErrorDetail adds the raw error text to 500 responses. Off in production.
var exposeErrorDetail bool

// ExposeErrorDetail toggles the error detail of unexpected failures
func ExposeErrorDetail(enabled bool) {
	exposeErrorDetail = enabled
}

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a 200 response carrying data
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithPagination sends a page of a listing
func (h *BaseHandler) SuccessWithPagination(c *gin.Context, data any, total int64, page, limit int) {
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(data, total, page, limit))
}

// Created sends a 201 response carrying the new resource
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Message sends a 200 response with a message and no data
func (h *BaseHandler) Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, dto.NewMessageResponse(message))
}

// ErrorWithCode sends an error response, deriving the status from the code
func (h *BaseHandler) ErrorWithCode(c *gin.Context, code, message string) {
	resp := dto.NewErrorResponse(code, message).WithRequestID(middleware.RequestIDFrom(c))
	c.JSON(dto.GetHTTPStatus(code), resp)
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.ErrorWithCode(c, dto.ErrCodeBadRequest, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.ErrorWithCode(c, dto.ErrCodeUnauthorized, message)
}

// HandleError converts domain errors to their status; anything else is logged
// and answered with 500
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.ErrorWithCode(c, domainErr.Code, domainErr.Message)
		return
	}

	logger.L(c.Request.Context()).Error("request failed",
		zap.String("route", c.FullPath()),
		zap.Error(err))

	resp := dto.NewErrorResponse(dto.ErrCodeInternal, "An unexpected error occurred").
		WithRequestID(middleware.RequestIDFrom(c))
	if exposeErrorDetail {
		resp = resp.WithDetail(err.Error())
	}
	c.JSON(http.StatusInternalServerError, resp)
}

// BindJSON binds the body into req, answering 400 on failure
func (h *BaseHandler) BindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// BindQuery binds the query string into req, answering 400 on failure
func (h *BaseHandler) BindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// TenantID resolves the tenant of the access token
func (h *BaseHandler) TenantID(c *gin.Context) (uuid.UUID, bool) {
	id, err := middleware.TenantUUID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context is missing")
		return uuid.Nil, false
	}
	return id, true
}

// TenantAndUser resolves the tenant and acting user of the access token
func (h *BaseHandler) TenantAndUser(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	userID, err := middleware.UserUUID(c)
	if err != nil {
		h.Unauthorized(c, "User context is missing")
		return uuid.Nil, uuid.Nil, false
	}
	return tenantID, userID, true
}

// PathID parses a uuid path parameter
func (h *BaseHandler) PathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.ErrorWithCode(c, dto.ErrCodeValidationFailed, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}

// pageParams reads page and limit from the query string with the listing defaults
func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	req := dto.ListRequest{Page: page, Limit: limit}
	req.Normalize()
	return req.Page, req.Limit
}

// normalizePage applies the listing defaults to a bound filter
func normalizePage(page, limit *int) {
	req := dto.ListRequest{Page: *page, Limit: *limit}
	req.Normalize()
	*page, *limit = req.Page, req.Limit
}
