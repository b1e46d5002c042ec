package handler

import (
	"context"

	catalogapp "github.com/foodcourt/pos/internal/application/catalog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ClassificationService is the use case set shared by categories,
// subcategories and brands
type ClassificationService interface {
	Create(ctx context.Context, tenantID, userID uuid.UUID, req catalogapp.ClassificationRequest) (*catalogapp.ClassificationResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*catalogapp.ClassificationResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter catalogapp.ClassificationListFilter) ([]catalogapp.ClassificationResponse, int64, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req catalogapp.ClassificationRequest) (*catalogapp.ClassificationResponse, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	AssignItems(ctx context.Context, tenantID, id uuid.UUID, req catalogapp.ItemIDsRequest) (*catalogapp.AssignmentResponse, error)
	RemoveItems(ctx context.Context, tenantID, id uuid.UUID, req catalogapp.ItemIDsRequest) (*catalogapp.AssignmentResponse, error)
}

// ClassificationHandler serves the CRUD and item assignment routes of one
// classification kind. Category, SubCategory and Brand services all fit.
type ClassificationHandler struct {
	BaseHandler
	service ClassificationService
	kind    string
}

// NewClassificationHandler creates a handler; kind names the resource in messages, e.g. "Category"
func NewClassificationHandler(service ClassificationService, kind string) *ClassificationHandler {
	return &ClassificationHandler{service: service, kind: kind}
}

// Create godoc
// @Summary      Create a category, subcategory or brand
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.ClassificationRequest true "Classification"
// @Success      201 {object} dto.Response{data=catalogapp.ClassificationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /categories [post]
// @Router       /subcategories [post]
// @Router       /brands [post]
func (h *ClassificationHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.TenantAndUser(c)
	if !ok {
		return
	}
	var req catalogapp.ClassificationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// List godoc
// @Summary      List categories, subcategories or brands
// @Description  Each entry carries the number of items assigned to it
// @Tags         catalog
// @Produce      json
// @Param        search query string false "Name"
// @Param        status query string false "active or inactive"
// @Param        page query int false "Page number" default(1)
// @Param        limit query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]catalogapp.ClassificationResponse,pagination=dto.Pagination}
// @Security     BearerAuth
// @Router       /categories [get]
// @Router       /subcategories [get]
// @Router       /brands [get]
func (h *ClassificationHandler) List(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	var filter catalogapp.ClassificationListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	normalizePage(&filter.Page, &filter.Limit)

	results, total, err := h.service.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithPagination(c, results, total, filter.Page, filter.Limit)
}

// Get godoc
// @Summary      Get a category, subcategory or brand
// @Tags         catalog
// @Produce      json
// @Param        id path string true "ID"
// @Success      200 {object} dto.Response{data=catalogapp.ClassificationResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /categories/{id} [get]
// @Router       /subcategories/{id} [get]
// @Router       /brands/{id} [get]
func (h *ClassificationHandler) Get(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	result, err := h.service.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Update godoc
// @Summary      Update a category, subcategory or brand
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        id path string true "ID"
// @Param        request body catalogapp.ClassificationRequest true "Classification"
// @Success      200 {object} dto.Response{data=catalogapp.ClassificationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /categories/{id} [put]
// @Router       /subcategories/{id} [put]
// @Router       /brands/{id} [put]
func (h *ClassificationHandler) Update(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.ClassificationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Delete godoc
// @Summary      Delete a category, subcategory or brand
// @Description  Assigned items are detached, not deleted
// @Tags         catalog
// @Produce      json
// @Param        id path string true "ID"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /categories/{id} [delete]
// @Router       /subcategories/{id} [delete]
// @Router       /brands/{id} [delete]
func (h *ClassificationHandler) Delete(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, h.kind+" deleted successfully")
}

// AssignItems godoc
// @Summary      Assign items
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        id path string true "ID"
// @Param        request body catalogapp.ItemIDsRequest true "Item IDs"
// @Success      200 {object} dto.Response{data=catalogapp.AssignmentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /categories/{id}/items [post]
// @Router       /subcategories/{id}/items [post]
// @Router       /brands/{id}/items [post]
func (h *ClassificationHandler) AssignItems(c *gin.Context) {
	h.changeItems(c, h.service.AssignItems)
}

// RemoveItems godoc
// @Summary      Remove items
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        id path string true "ID"
// @Param        request body catalogapp.ItemIDsRequest true "Item IDs"
// @Success      200 {object} dto.Response{data=catalogapp.AssignmentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /categories/{id}/items [delete]
// @Router       /subcategories/{id}/items [delete]
// @Router       /brands/{id}/items [delete]
func (h *ClassificationHandler) RemoveItems(c *gin.Context) {
	h.changeItems(c, h.service.RemoveItems)
}

type assignmentFunc func(ctx context.Context, tenantID, id uuid.UUID, req catalogapp.ItemIDsRequest) (*catalogapp.AssignmentResponse, error)

func (h *ClassificationHandler) changeItems(c *gin.Context, apply assignmentFunc) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.ItemIDsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := apply(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

var (
	_ ClassificationService = (*catalogapp.CategoryService)(nil)
	_ ClassificationService = (*catalogapp.SubCategoryService)(nil)
	_ ClassificationService = (*catalogapp.BrandService)(nil)
)
