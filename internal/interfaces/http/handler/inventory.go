package handler

import (
	inventoryapp "github.com/foodcourt/pos/internal/application/inventory"
	"github.com/gin-gonic/gin"
)

// InventoryHandler handles the stock ledger and storage racks
type InventoryHandler struct {
	BaseHandler
	stockService *inventoryapp.StockService
	rackService  *inventoryapp.RackService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(stockService *inventoryapp.StockService, rackService *inventoryapp.RackService) *InventoryHandler {
	return &InventoryHandler{
		stockService: stockService,
		rackService:  rackService,
	}
}

// Adjust godoc
// @Summary      Adjust stock
// @Description  Increase or decrease the current quantity of an item. A decrease below zero is rejected.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        request body inventoryapp.AdjustStockRequest true "Adjustment"
// @Success      200 {object} dto.Response{data=inventoryapp.AdjustStockResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/adjust [post]
func (h *InventoryHandler) Adjust(c *gin.Context) {
	tenantID, userID, ok := h.TenantAndUser(c)
	if !ok {
		return
	}
	var req inventoryapp.AdjustStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.stockService.Adjust(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Transfer godoc
// @Summary      Transfer stock
// @Description  Move quantity from one item to another in a single transaction
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        request body inventoryapp.TransferStockRequest true "Transfer"
// @Success      200 {object} dto.Response{data=inventoryapp.TransferStockResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/transfer [post]
func (h *InventoryHandler) Transfer(c *gin.Context) {
	tenantID, userID, ok := h.TenantAndUser(c)
	if !ok {
		return
	}
	var req inventoryapp.TransferStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.stockService.Transfer(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ListAdjustments godoc
// @Summary      Stock ledger
// @Tags         inventory
// @Produce      json
// @Param        itemId query string false "Item ID"
// @Param        type query string false "Entry type"
// @Param        startDate query string false "YYYY-MM-DD"
// @Param        endDate query string false "YYYY-MM-DD, inclusive"
// @Param        page query int false "Page number" default(1)
// @Param        limit query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]inventoryapp.StockAdjustmentResponse,pagination=dto.Pagination}
// @Security     BearerAuth
// @Router       /inventory/adjustments [get]
func (h *InventoryHandler) ListAdjustments(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	var filter inventoryapp.AdjustmentListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	normalizePage(&filter.Page, &filter.Limit)

	entries, total, err := h.stockService.ListAdjustments(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithPagination(c, entries, total, filter.Page, filter.Limit)
}

// ListLowStock godoc
// @Summary      Low stock items
// @Description  Items at or below their minimum stock
// @Tags         inventory
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        limit query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]inventoryapp.LowStockItemResponse,pagination=dto.Pagination}
// @Security     BearerAuth
// @Router       /inventory/low-stock [get]
func (h *InventoryHandler) ListLowStock(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	page, limit := pageParams(c)

	items, total, err := h.stockService.ListLowStock(c.Request.Context(), tenantID, page, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithPagination(c, items, total, page, limit)
}

// CreateRack godoc
// @Summary      Create a rack
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        request body inventoryapp.CreateRackRequest true "Rack"
// @Success      201 {object} dto.Response{data=inventoryapp.RackResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/racks [post]
func (h *InventoryHandler) CreateRack(c *gin.Context) {
	tenantID, userID, ok := h.TenantAndUser(c)
	if !ok {
		return
	}
	var req inventoryapp.CreateRackRequest
	if !h.BindJSON(c, &req) {
		return
	}

	rack, err := h.rackService.CreateRack(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, rack)
}

// ListRacks godoc
// @Summary      List racks
// @Tags         inventory
// @Produce      json
// @Success      200 {object} dto.Response{data=[]inventoryapp.RackResponse}
// @Security     BearerAuth
// @Router       /inventory/racks [get]
func (h *InventoryHandler) ListRacks(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}

	racks, err := h.rackService.ListRacks(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, racks)
}

// DeleteRack godoc
// @Summary      Delete a rack
// @Description  Only racks without stock can be deleted
// @Tags         inventory
// @Produce      json
// @Param        id path string true "Rack ID"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/racks/{id} [delete]
func (h *InventoryHandler) DeleteRack(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	rackID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	if err := h.rackService.DeleteRack(c.Request.Context(), tenantID, rackID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Rack deleted successfully")
}

// PlaceRackStock godoc
// @Summary      Place an item on a rack
// @Description  Create the item's bucket on the rack, or update its thresholds
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id path string true "Rack ID"
// @Param        request body inventoryapp.PlaceRackStockRequest true "Bucket"
// @Success      200 {object} dto.Response{data=inventoryapp.RackStockResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/racks/{id}/stock [post]
func (h *InventoryHandler) PlaceRackStock(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	rackID, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req inventoryapp.PlaceRackStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	stock, err := h.rackService.PlaceStock(c.Request.Context(), tenantID, rackID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stock)
}

// ListRackStock godoc
// @Summary      Stock on a rack
// @Tags         inventory
// @Produce      json
// @Param        id path string true "Rack ID"
// @Success      200 {object} dto.Response{data=[]inventoryapp.RackStockResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/racks/{id}/stock [get]
func (h *InventoryHandler) ListRackStock(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	rackID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	stock, err := h.rackService.ListStock(c.Request.Context(), tenantID, rackID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stock)
}

// AdjustRackStock godoc
// @Summary      Adjust a rack bucket
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id path string true "Rack stock ID"
// @Param        request body inventoryapp.AdjustRackStockRequest true "Adjustment"
// @Success      200 {object} dto.Response{data=inventoryapp.RackStockResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/rack-stock/{id}/adjust [post]
func (h *InventoryHandler) AdjustRackStock(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	stockID, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req inventoryapp.AdjustRackStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	stock, err := h.rackService.AdjustStock(c.Request.Context(), tenantID, stockID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stock)
}
