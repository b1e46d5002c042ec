package handler

import (
	"context"

	reportapp "github.com/foodcourt/pos/internal/application/report"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReportHandler serves the aggregate reports. Dates are YYYY-MM-DD in the shop
// time zone, both ends inclusive; an empty range means today.
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// SalesSummary godoc
// @Summary      Sales summary
// @Description  Bill count and totals of completed bills, split by payment method
// @Tags         reports
// @Produce      json
// @Param        startDate query string false "YYYY-MM-DD"
// @Param        endDate query string false "YYYY-MM-DD"
// @Success      200 {object} dto.Response{data=report.SalesSummary}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reports/sales-summary [get]
func (h *ReportHandler) SalesSummary(c *gin.Context) {
	serveReport(h, c, h.reportService.SalesSummary)
}

// DailySales godoc
// @Summary      Daily sales
// @Description  One row per day of the range, days without bills included
// @Tags         reports
// @Produce      json
// @Param        startDate query string false "YYYY-MM-DD"
// @Param        endDate query string false "YYYY-MM-DD"
// @Success      200 {object} dto.Response{data=[]report.DailySales}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reports/daily-sales [get]
func (h *ReportHandler) DailySales(c *gin.Context) {
	serveReport(h, c, h.reportService.DailySales)
}

// TopItems godoc
// @Summary      Best sellers
// @Tags         reports
// @Produce      json
// @Param        startDate query string false "YYYY-MM-DD"
// @Param        endDate query string false "YYYY-MM-DD"
// @Param        limit query int false "Number of items" default(10)
// @Success      200 {object} dto.Response{data=[]report.TopItem}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reports/top-items [get]
func (h *ReportHandler) TopItems(c *gin.Context) {
	serveReport(h, c, h.reportService.TopItems)
}

// GST godoc
// @Summary      GST report
// @Description  Taxable value and tax of GST bills by tax slab
// @Tags         reports
// @Produce      json
// @Param        startDate query string false "YYYY-MM-DD"
// @Param        endDate query string false "YYYY-MM-DD"
// @Success      200 {object} dto.Response{data=report.GSTReport}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reports/gst [get]
func (h *ReportHandler) GST(c *gin.Context) {
	serveReport(h, c, h.reportService.GST)
}

// ProfitLoss godoc
// @Summary      Profit and loss
// @Tags         reports
// @Produce      json
// @Param        startDate query string false "YYYY-MM-DD"
// @Param        endDate query string false "YYYY-MM-DD"
// @Success      200 {object} dto.Response{data=report.ProfitLoss}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reports/profit-loss [get]
func (h *ReportHandler) ProfitLoss(c *gin.Context) {
	serveReport(h, c, h.reportService.ProfitLoss)
}

// CashBook godoc
// @Summary      Cash book
// @Description  Sale receipts and purchase payments in date order with a running balance
// @Tags         reports
// @Produce      json
// @Param        startDate query string false "YYYY-MM-DD"
// @Param        endDate query string false "YYYY-MM-DD"
// @Param        openingBalance query string false "Balance brought forward"
// @Success      200 {object} dto.Response{data=report.CashBook}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reports/cash-book [get]
func (h *ReportHandler) CashBook(c *gin.Context) {
	serveReport(h, c, h.reportService.CashBook)
}

// KOTSummary godoc
// @Summary      Kitchen summary
// @Description  Tickets opened in the range by status
// @Tags         reports
// @Produce      json
// @Param        startDate query string false "YYYY-MM-DD"
// @Param        endDate query string false "YYYY-MM-DD"
// @Success      200 {object} dto.Response{data=report.KOTSummary}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reports/kot-summary [get]
func (h *ReportHandler) KOTSummary(c *gin.Context) {
	serveReport(h, c, h.reportService.KOTSummary)
}

// StockValuation godoc
// @Summary      Stock valuation
// @Description  Current quantity of every item valued at cost price
// @Tags         reports
// @Produce      json
// @Success      200 {object} dto.Response{data=report.StockValuation}
// @Security     BearerAuth
// @Router       /reports/stock-valuation [get]
func (h *ReportHandler) StockValuation(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}

	result, err := h.reportService.StockValuation(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Dashboard godoc
// @Summary      Dashboard
// @Description  Today's sales and tickets, the stock position and the best sellers
// @Tags         reports
// @Produce      json
// @Success      200 {object} dto.Response{data=reportapp.Dashboard}
// @Security     BearerAuth
// @Router       /reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}

	result, err := h.reportService.Dashboard(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

func serveReport[T any](h *ReportHandler, c *gin.Context, run func(context.Context, uuid.UUID, reportapp.Query) (T, error)) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	var q reportapp.Query
	if !h.BindQuery(c, &q) {
		return
	}

	result, err := run(c.Request.Context(), tenantID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
