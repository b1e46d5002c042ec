package printing

import (
	"context"
	"fmt"
	"strings"

	"github.com/foodcourt/pos/internal/domain/kitchen"
	"github.com/foodcourt/pos/internal/domain/printing"
	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/foodcourt/pos/internal/domain/trade"
	"github.com/foodcourt/pos/internal/infrastructure/config"
	infra "github.com/foodcourt/pos/internal/infrastructure/printing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const billQRSize = 256

// KOTMarker stamps a ticket as printed
type KOTMarker interface {
	MarkPrinted(ctx context.Context, tenantID, kotID uuid.UUID) (*kitchen.KOT, bool, error)
}

// SaleFinder loads a sale with its lines
type SaleFinder interface {
	Find(ctx context.Context, tenantID, saleID uuid.UUID) (*trade.Sale, error)
}

// PrintService renders kitchen tickets, bills and purchase orders.
// Without a PDF renderer every print is returned as HTML.
type PrintService struct {
	kots      KOTMarker
	sales     SaleFinder
	purchases trade.PurchaseRepository
	engine    *infra.TemplateEngine
	renderer  infra.PDFRenderer
	shop      config.ShopConfig
	logger    *zap.Logger
}

// NewPrintService creates a new PrintService. renderer may be nil.
func NewPrintService(
	kots KOTMarker,
	sales SaleFinder,
	purchases trade.PurchaseRepository,
	engine *infra.TemplateEngine,
	renderer infra.PDFRenderer,
	shop config.ShopConfig,
	logger *zap.Logger,
) *PrintService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PrintService{
		kots:      kots,
		sales:     sales,
		purchases: purchases,
		engine:    engine,
		renderer:  renderer,
		shop:      shop,
		logger:    logger,
	}
}

// PrintKOT stamps printedAt on the ticket and renders its kitchen slip.
// Every print after the first is marked as a reprint.
func (s *PrintService) PrintKOT(ctx context.Context, tenantID, kotID uuid.UUID, req PrintRequest) (*Output, error) {
	layout, err := s.layout(printing.DocTypeKOTSlip, req)
	if err != nil {
		return nil, err
	}
	kot, reprint, err := s.kots.MarkPrinted(ctx, tenantID, kotID)
	if err != nil {
		return nil, err
	}

	slip := infra.KOTSlip{
		Shop:           s.shopInfo(),
		Number:         kot.KOTNumber,
		TableNumber:    kot.TableNumber,
		OrderReference: kot.OrderReference,
		KOTType:        kot.KOTType,
		CustomerName:   kot.Customer.Name,
		Notes:          kot.Notes,
		CreatedAt:      kot.CreatedAt,
		Reprint:        reprint,
		Lines:          make([]infra.KOTSlipLine, 0, len(kot.Items)),
	}
	if kot.PrintedAt != nil {
		slip.PrintedAt = *kot.PrintedAt
	}
	for _, line := range kot.Items {
		slip.Lines = append(slip.Lines, infra.KOTSlipLine{
			Name:      line.ItemName,
			Variant:   line.Variant,
			Note:      line.KOTNote,
			Quantity:  line.Quantity,
			Cancelled: line.Status == kitchen.ItemStatusCancelled,
		})
	}

	return s.output(ctx, printing.Document{
		Type:     printing.DocTypeKOTSlip,
		Number:   kot.KOTNumber,
		Layout:   layout,
		FileName: fileName(printing.DocTypeKOTSlip, kot.KOTNumber),
	}, slip, req)
}

// PrintSaleBill renders the bill of a sale. GST bills carry the shop GSTIN and tax
// columns, estimates do not. A UPI QR for the balance due is printed when one is owed.
func (s *PrintService) PrintSaleBill(ctx context.Context, tenantID, saleID uuid.UUID, req PrintRequest) (*Output, error) {
	docType := printing.DocTypeGSTBill
	sale, err := s.sales.Find(ctx, tenantID, saleID)
	if err != nil {
		return nil, err
	}
	if sale.BillType == trade.BillTypeEstimate {
		docType = printing.DocTypeEstimateBill
	}
	layout, err := s.layout(docType, req)
	if err != nil {
		return nil, err
	}

	balance := sale.Payment.Balance(sale.Pricing.GrandTotal)
	bill := infra.Bill{
		Shop:           s.shopInfo(),
		Title:          docType.DisplayName(),
		Number:         sale.BillNumber,
		Date:           sale.SaleDate,
		CustomerName:   sale.Party.CustomerName,
		CustomerMobile: sale.Party.CustomerMobile,
		CouponCode:     sale.CouponCode,
		ShowTax:        docType == printing.DocTypeGSTBill,
		Cancelled:      sale.Status == trade.SaleStatusCancelled,
		Lines:          make([]infra.DocumentLine, 0, len(sale.Items)),
		Totals:         totals(sale.Pricing, sale.Payment, balance),
		PaymentMethod:  string(sale.Payment.Method),
		PaymentStatus:  string(sale.Payment.Status),
	}
	for _, line := range sale.Items {
		bill.Lines = append(bill.Lines, infra.DocumentLine{
			Name:      line.ItemName,
			Quantity:  line.Quantity,
			Price:     line.Price,
			TaxRate:   line.TaxRate,
			TaxAmount: line.TaxAmount,
			Total:     line.TotalAmount,
		})
	}

	if s.shop.UPIID != "" && !bill.Cancelled && balance.IsPositive() {
		png, err := infra.EncodeQR(s.upiPayload(sale, balance), billQRSize)
		if err != nil {
			// the bill is still useful without the QR
			s.logger.Warn("failed to draw payment QR", zap.String("bill_number", sale.BillNumber), zap.Error(err))
		} else {
			bill.QRCode = infra.PNGDataURL(png)
			bill.UPIID = s.shop.UPIID
		}
	}

	return s.output(ctx, printing.Document{
		Type:     docType,
		Number:   sale.BillNumber,
		Layout:   layout,
		FileName: fileName(docType, sale.BillNumber),
	}, bill, req)
}

// SaleQR draws the UPI payment QR for the balance due on a sale
func (s *PrintService) SaleQR(ctx context.Context, tenantID, saleID uuid.UUID, req QRRequest) (*QRCode, error) {
	if s.shop.UPIID == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidState, "UPI payments are not configured for this shop")
	}
	sale, err := s.sales.Find(ctx, tenantID, saleID)
	if err != nil {
		return nil, err
	}
	if sale.Status == trade.SaleStatusCancelled {
		return nil, shared.NewDomainError(shared.CodeInvalidState, "Cannot collect payment for a cancelled sale")
	}
	balance := sale.Payment.Balance(sale.Pricing.GrandTotal)
	if !balance.IsPositive() {
		return nil, shared.NewValidationError("sale %s has no balance due", sale.BillNumber)
	}

	payload := s.upiPayload(sale, balance)
	png, err := infra.EncodeQR(payload, req.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to draw payment QR: %w", err)
	}
	return &QRCode{PNG: png, Payload: payload}, nil
}

// PrintPurchaseOrder renders a purchase for the vendor
func (s *PrintService) PrintPurchaseOrder(ctx context.Context, tenantID, purchaseID uuid.UUID, req PrintRequest) (*Output, error) {
	layout, err := s.layout(printing.DocTypePurchaseOrder, req)
	if err != nil {
		return nil, err
	}
	purchase, err := s.purchases.FindByIDForTenant(ctx, tenantID, purchaseID)
	if err != nil {
		return nil, err
	}

	po := infra.PurchaseOrder{
		Shop:          s.shopInfo(),
		Number:        purchase.PurchaseNumber,
		Date:          purchase.PurchaseDate,
		VendorName:    purchase.VendorName,
		InvoiceNumber: purchase.InvoiceNumber,
		Status:        string(purchase.Status),
		Notes:         purchase.Notes,
		Lines:         make([]infra.DocumentLine, 0, len(purchase.Items)),
		Totals:        totals(purchase.Pricing, purchase.Payment, purchase.Payment.Balance(purchase.Pricing.GrandTotal)),
		PaymentStatus: string(purchase.Payment.Status),
	}
	for _, line := range purchase.Items {
		po.Lines = append(po.Lines, infra.DocumentLine{
			Name:      line.ItemName,
			Quantity:  line.Quantity,
			Price:     line.CostPrice,
			TaxRate:   line.TaxRate,
			TaxAmount: line.TaxAmount,
			Total:     line.TotalAmount,
		})
	}

	return s.output(ctx, printing.Document{
		Type:     printing.DocTypePurchaseOrder,
		Number:   purchase.PurchaseNumber,
		Layout:   layout,
		FileName: fileName(printing.DocTypePurchaseOrder, purchase.PurchaseNumber),
	}, po, req)
}

func (s *PrintService) layout(docType printing.DocType, req PrintRequest) (printing.Layout, error) {
	if req.PaperSize == "" {
		return printing.DefaultLayout(docType), nil
	}
	return printing.NewLayout(printing.PaperSize(strings.ToUpper(req.PaperSize)))
}

// output renders the template of doc and, unless HTML was asked for or no renderer
// is configured, prints it to PDF
func (s *PrintService) output(ctx context.Context, doc printing.Document, data any, req PrintRequest) (*Output, error) {
	html, err := s.engine.RenderDefault(ctx, doc.Type, data)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", doc.Type, err)
	}
	doc.HTML = html

	if req.Format == FormatHTML || s.renderer == nil {
		return &Output{
			Document:    doc,
			Content:     []byte(html),
			ContentType: "text/html; charset=utf-8",
		}, nil
	}

	result, err := s.renderer.Render(ctx, &infra.RenderRequest{
		HTML:   html,
		Layout: doc.Layout,
		Title:  doc.Type.DisplayName() + " " + doc.Number,
	})
	if err != nil {
		s.logger.Error("PDF rendering failed",
			zap.String("doc_type", string(doc.Type)),
			zap.String("number", doc.Number),
			zap.Error(err))
		return nil, fmt.Errorf("failed to print %s %s: %w", doc.Type, doc.Number, err)
	}

	doc.FileName += ".pdf"
	return &Output{
		Document:    doc,
		Content:     result.PDFData,
		ContentType: "application/pdf",
		PageCount:   result.PageCount,
	}, nil
}

func (s *PrintService) upiPayload(sale *trade.Sale, amount decimal.Decimal) string {
	payee := s.shop.UPIName
	if payee == "" {
		payee = s.shop.Name
	}
	return infra.UPIPaymentURI(s.shop.UPIID, payee, amount, "Bill "+sale.BillNumber)
}

func (s *PrintService) shopInfo() infra.ShopInfo {
	return infra.ShopInfo{
		Name:    s.shop.Name,
		Address: s.shop.Address,
		Phone:   s.shop.Phone,
		GSTIN:   s.shop.GSTIN,
	}
}

func totals(p trade.Pricing, pay trade.Payment, balance decimal.Decimal) infra.Totals {
	return infra.Totals{
		SubTotal:       p.SubTotal,
		Discount:       p.DiscountAmount,
		Tax:            p.TaxAmount,
		ServiceCharge:  p.ServiceCharge,
		ACCharge:       p.ACCharge,
		WaiterTip:      p.WaiterTip,
		RoundOff:       p.RoundOff,
		GrandTotal:     p.GrandTotal,
		AmountReceived: pay.AmountReceived,
		Balance:        balance,
	}
}

// fileName is the download name without extension, e.g. "gst_bill-MGGST202603140001"
func fileName(docType printing.DocType, number string) string {
	return strings.ToLower(string(docType)) + "-" + number
}
