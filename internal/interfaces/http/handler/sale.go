package handler

import (
	tradeapp "github.com/foodcourt/pos/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// SaleHandler handles bills
type SaleHandler struct {
	BaseHandler
	saleService *tradeapp.SaleService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(saleService *tradeapp.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// Create godoc
// @Summary      Create a bill
// @Description  Price the lines, apply charges, coupon and referrer commission and assign the next bill number of the bill type
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Deduplicates retried submissions"
// @Param        request body tradeapp.CreateSaleRequest true "Bill"
// @Success      201 {object} dto.Response{data=tradeapp.SaleResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales [post]
func (h *SaleHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.TenantAndUser(c)
	if !ok {
		return
	}
	var req tradeapp.CreateSaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	sale, err := h.saleService.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sale)
}

// CreateFromKOTs godoc
// @Summary      Bill KOTs
// @Description  Bill the lines of one or more active tickets and complete them
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Deduplicates retried submissions"
// @Param        request body tradeapp.CreateSaleFromKOTsRequest true "Tickets to bill"
// @Success      201 {object} dto.Response{data=tradeapp.SaleResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales/from-kots [post]
func (h *SaleHandler) CreateFromKOTs(c *gin.Context) {
	tenantID, userID, ok := h.TenantAndUser(c)
	if !ok {
		return
	}
	var req tradeapp.CreateSaleFromKOTsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	sale, err := h.saleService.CreateFromKOTs(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sale)
}

// List godoc
// @Summary      List bills
// @Tags         sales
// @Produce      json
// @Param        status query string false "completed or cancelled"
// @Param        paymentStatus query string false "paid, partial or pending"
// @Param        billType query string false "gst or estimate"
// @Param        search query string false "Bill number or customer"
// @Param        startDate query string false "YYYY-MM-DD"
// @Param        endDate query string false "YYYY-MM-DD, inclusive"
// @Param        page query int false "Page number" default(1)
// @Param        limit query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]tradeapp.SaleResponse,pagination=dto.Pagination}
// @Security     BearerAuth
// @Router       /sales [get]
func (h *SaleHandler) List(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	var filter tradeapp.SaleListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	normalizePage(&filter.Page, &filter.Limit)

	sales, total, err := h.saleService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithPagination(c, sales, total, filter.Page, filter.Limit)
}

// Get godoc
// @Summary      Get a bill
// @Tags         sales
// @Produce      json
// @Param        id path string true "Sale ID"
// @Success      200 {object} dto.Response{data=tradeapp.SaleResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales/{id} [get]
func (h *SaleHandler) Get(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	saleID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	sale, err := h.saleService.GetByID(c.Request.Context(), tenantID, saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}

// UpdatePayment godoc
// @Summary      Record a bill payment
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        id path string true "Sale ID"
// @Param        request body tradeapp.UpdatePaymentRequest true "Payment"
// @Success      200 {object} dto.Response{data=tradeapp.SaleResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales/{id}/payment [put]
func (h *SaleHandler) UpdatePayment(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	saleID, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.UpdatePaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	sale, err := h.saleService.UpdatePayment(c.Request.Context(), tenantID, saleID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}

// Cancel godoc
// @Summary      Cancel a bill
// @Description  Void the bill, returning the coupon use and reversing referrer points
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        id path string true "Sale ID"
// @Param        request body tradeapp.CancelRequest false "Reason"
// @Success      200 {object} dto.Response{data=tradeapp.SaleResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales/{id}/cancel [put]
func (h *SaleHandler) Cancel(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	saleID, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.CancelRequest
	if c.Request.ContentLength > 0 && !h.BindJSON(c, &req) {
		return
	}

	sale, err := h.saleService.Cancel(c.Request.Context(), tenantID, saleID, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}

// Delete godoc
// @Summary      Delete a bill
// @Tags         sales
// @Produce      json
// @Param        id path string true "Sale ID"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales/{id} [delete]
func (h *SaleHandler) Delete(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	saleID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	if err := h.saleService.Delete(c.Request.Context(), tenantID, saleID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Sale deleted successfully")
}
