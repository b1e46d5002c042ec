package handler

import (
	"context"
	"net/http"
	"path"
	"strconv"

	printingapp "github.com/foodcourt/pos/internal/application/printing"
	"github.com/foodcourt/pos/internal/infrastructure/printing"
	"github.com/foodcourt/pos/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PrintHandler streams kitchen slips, bills, purchase orders and payment QRs
type PrintHandler struct {
	BaseHandler
	printService *printingapp.PrintService
}

// NewPrintHandler creates a new PrintHandler
func NewPrintHandler(printService *printingapp.PrintService) *PrintHandler {
	return &PrintHandler{printService: printService}
}

// PrintKOT godoc
// @Summary      Print a KOT
// @Description  Stamp printedAt on the ticket and return its kitchen slip. Later prints are marked as reprints.
// @Tags         printing
// @Produce      application/pdf
// @Produce      text/html
// @Param        id path string true "KOT ID"
// @Param        paperSize query string false "Paper size, defaults to the thermal roll"
// @Param        format query string false "pdf or html" default(pdf)
// @Success      200 {file} binary
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /kots/{id}/print [post]
func (h *PrintHandler) PrintKOT(c *gin.Context) {
	h.print(c, h.printService.PrintKOT)
}

// PrintSale godoc
// @Summary      Print a bill
// @Tags         printing
// @Produce      application/pdf
// @Produce      text/html
// @Param        id path string true "Sale ID"
// @Param        paperSize query string false "Paper size"
// @Param        format query string false "pdf or html" default(pdf)
// @Success      200 {file} binary
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales/{id}/print [get]
func (h *PrintHandler) PrintSale(c *gin.Context) {
	h.print(c, h.printService.PrintSaleBill)
}

// PrintPurchase godoc
// @Summary      Print a purchase order
// @Tags         printing
// @Produce      application/pdf
// @Produce      text/html
// @Param        id path string true "Purchase ID"
// @Param        paperSize query string false "Paper size"
// @Param        format query string false "pdf or html" default(pdf)
// @Success      200 {file} binary
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchases/{id}/print [get]
func (h *PrintHandler) PrintPurchase(c *gin.Context) {
	h.print(c, h.printService.PrintPurchaseOrder)
}

// SaleQR godoc
// @Summary      Payment QR of a bill
// @Description  PNG of the UPI link for the outstanding amount. The link itself is in the X-Payment-Link header.
// @Tags         printing
// @Produce      image/png
// @Param        id path string true "Sale ID"
// @Param        size query int false "Width in pixels" default(256)
// @Success      200 {file} binary
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales/{id}/qr [get]
func (h *PrintHandler) SaleQR(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	saleID, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req printingapp.QRRequest
	if !h.BindQuery(c, &req) {
		return
	}

	qr, err := h.printService.SaleQR(c.Request.Context(), tenantID, saleID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("X-Payment-Link", qr.Payload)
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", qr.PNG)
}

type printFunc func(ctx context.Context, tenantID, id uuid.UUID, req printingapp.PrintRequest) (*printingapp.Output, error)

func (h *PrintHandler) print(c *gin.Context, render printFunc) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req printingapp.PrintRequest
	if !h.BindQuery(c, &req) {
		return
	}

	out, err := render(c.Request.Context(), tenantID, id, req)
	if printing.IsTemporary(err) {
		c.Header("Retry-After", "5")
		h.ErrorWithCode(c, dto.ErrCodeUnavailable, "Printer is busy, retry shortly")
		return
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writeOutput(c, out)
}

// writeOutput streams a rendered document inline so the browser print dialog can open it
func writeOutput(c *gin.Context, out *printingapp.Output) {
	name := out.Document.FileName
	if path.Ext(name) == "" && out.ContentType != "application/pdf" {
		name += ".html"
	}
	c.Header("Content-Disposition", "inline; filename=\""+name+"\"")
	c.Header("Cache-Control", "no-store")
	if out.PageCount > 0 {
		c.Header("X-Page-Count", strconv.Itoa(out.PageCount))
	}
	c.Data(http.StatusOK, out.ContentType, out.Content)
}
