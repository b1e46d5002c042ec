package handler

import (
	kitchenapp "github.com/foodcourt/pos/internal/application/kitchen"
	"github.com/gin-gonic/gin"
)

// KOTHandler handles kitchen order tickets
type KOTHandler struct {
	BaseHandler
	kotService *kitchenapp.KOTService
}

// NewKOTHandler creates a new KOTHandler
func NewKOTHandler(kotService *kitchenapp.KOTService) *KOTHandler {
	return &KOTHandler{kotService: kotService}
}

// Create godoc
// @Summary      Open a KOT
// @Description  Open a kitchen order ticket for a table. Every line must reference an existing item.
// @Tags         kots
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Deduplicates retried submissions"
// @Param        request body kitchenapp.CreateKOTRequest true "Ticket"
// @Success      201 {object} dto.Response{data=kitchenapp.KOTResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /kots [post]
func (h *KOTHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.TenantAndUser(c)
	if !ok {
		return
	}
	var req kitchenapp.CreateKOTRequest
	if !h.BindJSON(c, &req) {
		return
	}

	kot, err := h.kotService.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, kot)
}

// List godoc
// @Summary      List KOTs
// @Tags         kots
// @Produce      json
// @Param        status query string false "active, completed or cancelled"
// @Param        kotType query string false "Ticket type"
// @Param        tableNumber query string false "Table number, partial match"
// @Param        search query string false "KOT number or customer name"
// @Param        startDate query string false "YYYY-MM-DD"
// @Param        endDate query string false "YYYY-MM-DD, inclusive"
// @Param        page query int false "Page number" default(1)
// @Param        limit query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]kitchenapp.KOTResponse,pagination=dto.Pagination}
// @Security     BearerAuth
// @Router       /kots [get]
func (h *KOTHandler) List(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	var filter kitchenapp.KOTListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	normalizePage(&filter.Page, &filter.Limit)

	kots, total, err := h.kotService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithPagination(c, kots, total, filter.Page, filter.Limit)
}

// Get godoc
// @Summary      Get a KOT
// @Tags         kots
// @Produce      json
// @Param        id path string true "KOT ID"
// @Success      200 {object} dto.Response{data=kitchenapp.KOTResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /kots/{id} [get]
func (h *KOTHandler) Get(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	kotID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	kot, err := h.kotService.GetByID(c.Request.Context(), tenantID, kotID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, kot)
}

// ActiveForTable godoc
// @Summary      Open KOTs of a table
// @Tags         kots
// @Produce      json
// @Param        tableNumber path string true "Table number"
// @Success      200 {object} dto.Response{data=[]kitchenapp.KOTResponse}
// @Security     BearerAuth
// @Router       /kots/table/{tableNumber}/active [get]
func (h *KOTHandler) ActiveForTable(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}

	kots, err := h.kotService.ActiveForTable(c.Request.Context(), tenantID, c.Param("tableNumber"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, kots)
}

// Update godoc
// @Summary      Update a KOT
// @Description  Change an active ticket. Items, when present, replace every line.
// @Tags         kots
// @Accept       json
// @Produce      json
// @Param        id path string true "KOT ID"
// @Param        request body kitchenapp.UpdateKOTRequest true "Changes"
// @Success      200 {object} dto.Response{data=kitchenapp.KOTResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /kots/{id} [put]
func (h *KOTHandler) Update(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	kotID, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req kitchenapp.UpdateKOTRequest
	if !h.BindJSON(c, &req) {
		return
	}

	kot, err := h.kotService.Update(c.Request.Context(), tenantID, kotID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, kot)
}

// UpdateItemStatus godoc
// @Summary      Move a KOT line
// @Description  Set the status of one line. The ticket completes once no line is pending, preparing or ready.
// @Tags         kots
// @Accept       json
// @Produce      json
// @Param        id path string true "KOT ID"
// @Param        itemId path string true "Line ID"
// @Param        request body kitchenapp.UpdateItemStatusRequest true "pending, preparing, ready, served or cancelled"
// @Success      200 {object} dto.Response{data=kitchenapp.KOTResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /kots/{id}/items/{itemId}/status [put]
func (h *KOTHandler) UpdateItemStatus(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	kotID, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	lineID, ok := h.PathID(c, "itemId")
	if !ok {
		return
	}
	var req kitchenapp.UpdateItemStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	kot, err := h.kotService.UpdateItemStatus(c.Request.Context(), tenantID, kotID, lineID, req.Status)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, kot)
}

// Complete godoc
// @Summary      Force-complete a KOT
// @Tags         kots
// @Produce      json
// @Param        id path string true "KOT ID"
// @Success      200 {object} dto.Response{data=kitchenapp.KOTResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /kots/{id}/complete [put]
func (h *KOTHandler) Complete(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	kotID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	kot, err := h.kotService.Complete(c.Request.Context(), tenantID, kotID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, kot)
}

// Cancel godoc
// @Summary      Cancel a KOT
// @Tags         kots
// @Accept       json
// @Produce      json
// @Param        id path string true "KOT ID"
// @Param        request body kitchenapp.CancelKOTRequest false "Reason"
// @Success      200 {object} dto.Response{data=kitchenapp.KOTResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /kots/{id}/cancel [put]
func (h *KOTHandler) Cancel(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	kotID, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req kitchenapp.CancelKOTRequest
	if c.Request.ContentLength > 0 && !h.BindJSON(c, &req) {
		return
	}

	kot, err := h.kotService.Cancel(c.Request.Context(), tenantID, kotID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, kot)
}

// Delete godoc
// @Summary      Delete a KOT
// @Description  Only the user who opened the ticket may delete it
// @Tags         kots
// @Produce      json
// @Param        id path string true "KOT ID"
// @Success      200 {object} dto.Response
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /kots/{id} [delete]
func (h *KOTHandler) Delete(c *gin.Context) {
	tenantID, userID, ok := h.TenantAndUser(c)
	if !ok {
		return
	}
	kotID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	if err := h.kotService.Delete(c.Request.Context(), tenantID, userID, kotID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "KOT deleted successfully")
}
