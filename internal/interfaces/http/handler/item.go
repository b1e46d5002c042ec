package handler

import (
	"io"
	"net/http"

	catalogapp "github.com/foodcourt/pos/internal/application/catalog"
	"github.com/foodcourt/pos/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// ImageFormField is the multipart field carrying an item image
const ImageFormField = "image"

// ItemHandler handles the item catalog
type ItemHandler struct {
	BaseHandler
	itemService *catalogapp.ItemService
}

// NewItemHandler creates a new ItemHandler
func NewItemHandler(itemService *catalogapp.ItemService) *ItemHandler {
	return &ItemHandler{itemService: itemService}
}

// Create godoc
// @Summary      Create an item
// @Description  Add an item to the catalog. A positive opening stock is posted to the stock ledger.
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateItemRequest true "Item"
// @Success      201 {object} dto.Response{data=catalogapp.ItemResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /items [post]
func (h *ItemHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.TenantAndUser(c)
	if !ok {
		return
	}
	var req catalogapp.CreateItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item, err := h.itemService.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// List godoc
// @Summary      List items
// @Tags         items
// @Produce      json
// @Param        search query string false "Name or code"
// @Param        status query string false "active, inactive or discontinued"
// @Param        categoryId query string false "Category ID"
// @Param        brandId query string false "Brand ID"
// @Param        subCategoryId query string false "Subcategory ID"
// @Param        lowStock query bool false "Only items at or below minimum stock"
// @Param        page query int false "Page number" default(1)
// @Param        limit query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]catalogapp.ItemResponse,pagination=dto.Pagination}
// @Security     BearerAuth
// @Router       /items [get]
func (h *ItemHandler) List(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	var filter catalogapp.ItemListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	normalizePage(&filter.Page, &filter.Limit)

	items, total, err := h.itemService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithPagination(c, items, total, filter.Page, filter.Limit)
}

// Get godoc
// @Summary      Get an item
// @Tags         items
// @Produce      json
// @Param        id path string true "Item ID"
// @Success      200 {object} dto.Response{data=catalogapp.ItemResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /items/{id} [get]
func (h *ItemHandler) Get(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	itemID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	item, err := h.itemService.GetByID(c.Request.Context(), tenantID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Update godoc
// @Summary      Update an item
// @Description  Stock quantities only change through the inventory endpoints
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        id path string true "Item ID"
// @Param        request body catalogapp.UpdateItemRequest true "Item"
// @Success      200 {object} dto.Response{data=catalogapp.ItemResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /items/{id} [put]
func (h *ItemHandler) Update(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	itemID, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.UpdateItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item, err := h.itemService.Update(c.Request.Context(), tenantID, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// AssignCategories godoc
// @Summary      Set item categories
// @Description  Replace the categories of an item
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        id path string true "Item ID"
// @Param        request body catalogapp.AssignCategoriesRequest true "Category IDs"
// @Success      200 {object} dto.Response{data=catalogapp.ItemResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /items/{id}/categories [put]
func (h *ItemHandler) AssignCategories(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	itemID, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.AssignCategoriesRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item, err := h.itemService.AssignCategories(c.Request.Context(), tenantID, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Delete godoc
// @Summary      Delete an item
// @Tags         items
// @Produce      json
// @Param        id path string true "Item ID"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /items/{id} [delete]
func (h *ItemHandler) Delete(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	itemID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	if err := h.itemService.Delete(c.Request.Context(), tenantID, itemID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Item deleted successfully")
}

// UploadImage godoc
// @Summary      Upload an item image
// @Description  JPEG, PNG, GIF or WebP up to 5 MB. The content type is sniffed from the file.
// @Tags         items
// @Accept       multipart/form-data
// @Produce      json
// @Param        id path string true "Item ID"
// @Param        image formData file true "Image file"
// @Success      201 {object} dto.Response{data=catalogapp.ImageResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      413 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /items/{id}/images [post]
func (h *ItemHandler) UploadImage(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	itemID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	header, err := c.FormFile(ImageFormField)
	if err != nil {
		h.ErrorWithCode(c, dto.ErrCodeValidationFailed, "image: a file is required")
		return
	}
	if header.Size > catalogapp.MaxImageSize {
		h.ErrorWithCode(c, dto.ErrCodePayloadTooLarge, "Image exceeds 5 MB")
		return
	}
	file, err := header.Open()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, catalogapp.MaxImageSize+1))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	image, err := h.itemService.UploadImage(c.Request.Context(), tenantID, itemID,
		header.Filename, http.DetectContentType(data), data)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, image)
}

// DeleteImage godoc
// @Summary      Delete an item image
// @Tags         items
// @Produce      json
// @Param        id path string true "Item ID"
// @Param        imageId path string true "Image ID"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /items/{id}/images/{imageId} [delete]
func (h *ItemHandler) DeleteImage(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	itemID, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	imageID, ok := h.PathID(c, "imageId")
	if !ok {
		return
	}

	if err := h.itemService.DeleteImage(c.Request.Context(), tenantID, itemID, imageID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Image deleted successfully")
}
