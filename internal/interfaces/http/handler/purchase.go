package handler

import (
	tradeapp "github.com/foodcourt/pos/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// PurchaseHandler handles purchase orders
type PurchaseHandler struct {
	BaseHandler
	purchaseService *tradeapp.PurchaseService
}

// NewPurchaseHandler creates a new PurchaseHandler
func NewPurchaseHandler(purchaseService *tradeapp.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService}
}

// Create godoc
// @Summary      Create a purchase
// @Description  Place an order with a vendor. Stock moves only when the purchase is received.
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Deduplicates retried submissions"
// @Param        request body tradeapp.CreatePurchaseRequest true "Purchase"
// @Success      201 {object} dto.Response{data=tradeapp.PurchaseResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchases [post]
func (h *PurchaseHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.TenantAndUser(c)
	if !ok {
		return
	}
	var req tradeapp.CreatePurchaseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	purchase, err := h.purchaseService.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, purchase)
}

// List godoc
// @Summary      List purchases
// @Tags         purchases
// @Produce      json
// @Param        status query string false "ordered, received or cancelled"
// @Param        paymentStatus query string false "paid, partial or pending"
// @Param        vendorId query string false "Vendor party ID"
// @Param        search query string false "Purchase number, invoice or vendor"
// @Param        startDate query string false "YYYY-MM-DD"
// @Param        endDate query string false "YYYY-MM-DD, inclusive"
// @Param        page query int false "Page number" default(1)
// @Param        limit query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]tradeapp.PurchaseResponse,pagination=dto.Pagination}
// @Security     BearerAuth
// @Router       /purchases [get]
func (h *PurchaseHandler) List(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	var filter tradeapp.PurchaseListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	normalizePage(&filter.Page, &filter.Limit)

	purchases, total, err := h.purchaseService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithPagination(c, purchases, total, filter.Page, filter.Limit)
}

// Get godoc
// @Summary      Get a purchase
// @Tags         purchases
// @Produce      json
// @Param        id path string true "Purchase ID"
// @Success      200 {object} dto.Response{data=tradeapp.PurchaseResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchases/{id} [get]
func (h *PurchaseHandler) Get(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	purchaseID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	purchase, err := h.purchaseService.GetByID(c.Request.Context(), tenantID, purchaseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, purchase)
}

// UpdatePayment godoc
// @Summary      Record a purchase payment
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Param        id path string true "Purchase ID"
// @Param        request body tradeapp.UpdatePaymentRequest true "Payment"
// @Success      200 {object} dto.Response{data=tradeapp.PurchaseResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchases/{id}/payment [put]
func (h *PurchaseHandler) UpdatePayment(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	purchaseID, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.UpdatePaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	purchase, err := h.purchaseService.UpdatePayment(c.Request.Context(), tenantID, purchaseID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, purchase)
}

// Receive godoc
// @Summary      Receive a purchase
// @Description  Post every line to the stock ledger and update item cost prices
// @Tags         purchases
// @Produce      json
// @Param        id path string true "Purchase ID"
// @Success      200 {object} dto.Response{data=tradeapp.PurchaseResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchases/{id}/receive [post]
func (h *PurchaseHandler) Receive(c *gin.Context) {
	tenantID, userID, ok := h.TenantAndUser(c)
	if !ok {
		return
	}
	purchaseID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	purchase, err := h.purchaseService.Receive(c.Request.Context(), tenantID, userID, purchaseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, purchase)
}

// Cancel godoc
// @Summary      Cancel a purchase
// @Description  Only purchases not yet received can be cancelled
// @Tags         purchases
// @Produce      json
// @Param        id path string true "Purchase ID"
// @Success      200 {object} dto.Response{data=tradeapp.PurchaseResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchases/{id}/cancel [put]
func (h *PurchaseHandler) Cancel(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	purchaseID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	purchase, err := h.purchaseService.Cancel(c.Request.Context(), tenantID, purchaseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, purchase)
}

// Delete godoc
// @Summary      Delete a purchase
// @Tags         purchases
// @Produce      json
// @Param        id path string true "Purchase ID"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchases/{id} [delete]
func (h *PurchaseHandler) Delete(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	purchaseID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	if err := h.purchaseService.Delete(c.Request.Context(), tenantID, purchaseID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Purchase deleted successfully")
}
