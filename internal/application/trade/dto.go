package trade

import (
	"time"

	"github.com/foodcourt/pos/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ChargesDTO are the bill-level amounts a cashier enters
type ChargesDTO struct {
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	ServiceCharge  decimal.Decimal `json:"serviceCharge"`
	ACCharge       decimal.Decimal `json:"acCharge"`
	WaiterTip      decimal.Decimal `json:"waiterTip"`
	RoundOff       decimal.Decimal `json:"roundOff"`
}

func (c ChargesDTO) toDomain() trade.Charges {
	return trade.Charges{
		DiscountAmount: c.DiscountAmount,
		ServiceCharge:  c.ServiceCharge,
		ACCharge:       c.ACCharge,
		WaiterTip:      c.WaiterTip,
		RoundOff:       c.RoundOff,
	}
}

// SaleLineRequest is one billed item. Price and tax rate default to the item's price list.
type SaleLineRequest struct {
	ItemID   uuid.UUID        `json:"itemId" binding:"required"`
	Quantity decimal.Decimal  `json:"quantity" binding:"required"`
	Price    *decimal.Decimal `json:"price"`
	TaxRate  *decimal.Decimal `json:"taxRate"`
}

// CreateSaleRequest opens a bill. GrandTotal is optional; when sent it must match
// the server's computation within 0.01.
type CreateSaleRequest struct {
	BillType       trade.BillType      `json:"billType" binding:"omitempty,oneof=gst estimate"`
	SaleDate       *time.Time          `json:"saleDate"`
	CustomerID     *uuid.UUID          `json:"customerId"`
	CustomerName   string              `json:"customerName" binding:"max=100"`
	CustomerMobile string              `json:"customerMobile" binding:"omitempty,phone,max=20"`
	ReferrerID     *uuid.UUID          `json:"referrerId"`
	Items          []SaleLineRequest   `json:"items" binding:"required,min=1,dive"`
	Charges        ChargesDTO          `json:"charges"`
	GrandTotal     decimal.Decimal     `json:"grandTotal"`
	PaymentMethod  trade.PaymentMethod `json:"paymentMethod" binding:"omitempty,oneof=cash card upi credit"`
	AmountReceived decimal.Decimal     `json:"amountReceived"`
	CouponCode     string              `json:"couponCode" binding:"max=50"`
	KOTIDs         []uuid.UUID         `json:"kotIds"`
	Notes          string              `json:"notes"`
}

// CreateSaleFromKOTsRequest bills the lines of one or more tickets
type CreateSaleFromKOTsRequest struct {
	KOTIDs         []uuid.UUID         `json:"kotIds" binding:"required,min=1"`
	BillType       trade.BillType      `json:"billType" binding:"omitempty,oneof=gst estimate"`
	CustomerID     *uuid.UUID          `json:"customerId"`
	ReferrerID     *uuid.UUID          `json:"referrerId"`
	Charges        ChargesDTO          `json:"charges"`
	GrandTotal     decimal.Decimal     `json:"grandTotal"`
	PaymentMethod  trade.PaymentMethod `json:"paymentMethod" binding:"omitempty,oneof=cash card upi credit"`
	AmountReceived decimal.Decimal     `json:"amountReceived"`
	CouponCode     string              `json:"couponCode" binding:"max=50"`
	Notes          string              `json:"notes"`
}

// UpdatePaymentRequest replaces the payment of a sale or purchase
type UpdatePaymentRequest struct {
	PaymentMethod  trade.PaymentMethod `json:"paymentMethod" binding:"required,oneof=cash card upi credit"`
	AmountReceived decimal.Decimal     `json:"amountReceived"`
}

// CancelRequest carries the optional reason for voiding a document
type CancelRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// SaleListFilter is the query of the sale listing
type SaleListFilter struct {
	Status        string     `form:"status"`
	PaymentStatus string     `form:"paymentStatus"`
	BillType      string     `form:"billType"`
	Search        string     `form:"search"`
	StartDate     *time.Time `form:"startDate" time_format:"2006-01-02"`
	EndDate       *time.Time `form:"endDate" time_format:"2006-01-02"`
	Page          int        `form:"page"`
	Limit         int        `form:"limit"`
}

// PricingResponse is the money summary of a document
type PricingResponse struct {
	SubTotal       decimal.Decimal `json:"subTotal"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	ServiceCharge  decimal.Decimal `json:"serviceCharge"`
	ACCharge       decimal.Decimal `json:"acCharge"`
	WaiterTip      decimal.Decimal `json:"waiterTip"`
	RoundOff       decimal.Decimal `json:"roundOff"`
	GrandTotal     decimal.Decimal `json:"grandTotal"`
}

// PaymentResponse is the settlement of a document
type PaymentResponse struct {
	Method         trade.PaymentMethod `json:"method"`
	Status         trade.PaymentStatus `json:"status"`
	AmountReceived decimal.Decimal     `json:"amountReceived"`
	Balance        decimal.Decimal     `json:"balance"`
}

func toPricingResponse(p trade.Pricing) PricingResponse {
	return PricingResponse{
		SubTotal:       p.SubTotal,
		DiscountAmount: p.DiscountAmount,
		TaxAmount:      p.TaxAmount,
		ServiceCharge:  p.ServiceCharge,
		ACCharge:       p.ACCharge,
		WaiterTip:      p.WaiterTip,
		RoundOff:       p.RoundOff,
		GrandTotal:     p.GrandTotal,
	}
}

func toPaymentResponse(p trade.Payment, grandTotal decimal.Decimal) PaymentResponse {
	return PaymentResponse{
		Method:         p.Method,
		Status:         p.Status,
		AmountReceived: p.AmountReceived,
		Balance:        p.Balance(grandTotal),
	}
}

// LineResponse is one line of a sale or purchase
type LineResponse struct {
	ID          uuid.UUID       `json:"id"`
	ItemID      uuid.UUID       `json:"itemId"`
	ItemName    string          `json:"itemName"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	TaxRate     decimal.Decimal `json:"taxRate"`
	TaxAmount   decimal.Decimal `json:"taxAmount"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// SaleResponse is a bill with its lines
type SaleResponse struct {
	ID             uuid.UUID        `json:"id"`
	BillNumber     string           `json:"billNumber"`
	BillType       trade.BillType   `json:"billType"`
	SaleDate       time.Time        `json:"saleDate"`
	CustomerID     *uuid.UUID       `json:"customerId,omitempty"`
	CustomerName   string           `json:"customerName,omitempty"`
	CustomerMobile string           `json:"customerMobile,omitempty"`
	ReferrerID     *uuid.UUID       `json:"referrerId,omitempty"`
	ReferrerPoints decimal.Decimal  `json:"referrerPoints"`
	CouponCode     string           `json:"couponCode,omitempty"`
	KOTIDs         []uuid.UUID      `json:"kotIds,omitempty"`
	Status         trade.SaleStatus `json:"status"`
	Pricing        PricingResponse  `json:"pricing"`
	Payment        PaymentResponse  `json:"payment"`
	Items          []LineResponse   `json:"items"`
	Notes          string           `json:"notes,omitempty"`
	CancelledAt    *time.Time       `json:"cancelledAt,omitempty"`
	CancelReason   string           `json:"cancelReason,omitempty"`
	CreatedBy      *uuid.UUID       `json:"createdBy,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
	Version        int              `json:"version"`
}

// ToSaleResponse converts a sale to its response
func ToSaleResponse(s *trade.Sale) SaleResponse {
	items := make([]LineResponse, len(s.Items))
	for i, it := range s.Items {
		items[i] = LineResponse{
			ID:          it.ID,
			ItemID:      it.ItemID,
			ItemName:    it.ItemName,
			Quantity:    it.Quantity,
			Price:       it.Price,
			TaxRate:     it.TaxRate,
			TaxAmount:   it.TaxAmount,
			TotalAmount: it.TotalAmount,
		}
	}
	return SaleResponse{
		ID:             s.ID,
		BillNumber:     s.BillNumber,
		BillType:       s.BillType,
		SaleDate:       s.SaleDate,
		CustomerID:     s.Party.CustomerID,
		CustomerName:   s.Party.CustomerName,
		CustomerMobile: s.Party.CustomerMobile,
		ReferrerID:     s.Party.ReferrerID,
		ReferrerPoints: s.ReferrerPoints,
		CouponCode:     s.CouponCode,
		KOTIDs:         s.KOTIDs,
		Status:         s.Status,
		Pricing:        toPricingResponse(s.Pricing),
		Payment:        toPaymentResponse(s.Payment, s.Pricing.GrandTotal),
		Items:          items,
		Notes:          s.Notes,
		CancelledAt:    s.CancelledAt,
		CancelReason:   s.CancelReason,
		CreatedBy:      s.CreatedBy,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
		Version:        s.Version,
	}
}

// ToSaleResponses converts a page of sales
func ToSaleResponses(sales []trade.Sale) []SaleResponse {
	responses := make([]SaleResponse, len(sales))
	for i := range sales {
		responses[i] = ToSaleResponse(&sales[i])
	}
	return responses
}

// PurchaseLineRequest is one ordered item. Cost price and tax rate default to the item's price list.
type PurchaseLineRequest struct {
	ItemID    uuid.UUID        `json:"itemId" binding:"required"`
	Quantity  decimal.Decimal  `json:"quantity" binding:"required"`
	CostPrice *decimal.Decimal `json:"costPrice"`
	TaxRate   *decimal.Decimal `json:"taxRate"`
}

// CreatePurchaseRequest places an order with a vendor
type CreatePurchaseRequest struct {
	VendorID      *uuid.UUID            `json:"vendorId"`
	VendorName    string                `json:"vendorName" binding:"max=200"`
	InvoiceNumber string                `json:"invoiceNumber" binding:"max=100"`
	PurchaseDate  *time.Time            `json:"purchaseDate"`
	Items         []PurchaseLineRequest `json:"items" binding:"required,min=1,dive"`
	Charges       ChargesDTO            `json:"charges"`
	GrandTotal    decimal.Decimal       `json:"grandTotal"`
	PaymentMethod trade.PaymentMethod   `json:"paymentMethod" binding:"omitempty,oneof=cash card upi credit"`
	AmountPaid    decimal.Decimal       `json:"amountPaid"`
	Notes         string                `json:"notes"`
}

// PurchaseListFilter is the query of the purchase listing
type PurchaseListFilter struct {
	Status        string     `form:"status"`
	PaymentStatus string     `form:"paymentStatus"`
	VendorID      *uuid.UUID `form:"vendorId"`
	Search        string     `form:"search"`
	StartDate     *time.Time `form:"startDate" time_format:"2006-01-02"`
	EndDate       *time.Time `form:"endDate" time_format:"2006-01-02"`
	Page          int        `form:"page"`
	Limit         int        `form:"limit"`
}

// PurchaseResponse is a purchase with its lines
type PurchaseResponse struct {
	ID             uuid.UUID            `json:"id"`
	PurchaseNumber string               `json:"purchaseNumber"`
	VendorID       *uuid.UUID           `json:"vendorId,omitempty"`
	VendorName     string               `json:"vendorName"`
	InvoiceNumber  string               `json:"invoiceNumber,omitempty"`
	PurchaseDate   time.Time            `json:"purchaseDate"`
	Status         trade.PurchaseStatus `json:"status"`
	Pricing        PricingResponse      `json:"pricing"`
	Payment        PaymentResponse      `json:"payment"`
	Items          []LineResponse       `json:"items"`
	Notes          string               `json:"notes,omitempty"`
	ReceivedAt     *time.Time           `json:"receivedAt,omitempty"`
	CancelledAt    *time.Time           `json:"cancelledAt,omitempty"`
	CreatedBy      *uuid.UUID           `json:"createdBy,omitempty"`
	CreatedAt      time.Time            `json:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt"`
	Version        int                  `json:"version"`
}

// ToPurchaseResponse converts a purchase to its response
func ToPurchaseResponse(p *trade.Purchase) PurchaseResponse {
	items := make([]LineResponse, len(p.Items))
	for i, it := range p.Items {
		items[i] = LineResponse{
			ID:          it.ID,
			ItemID:      it.ItemID,
			ItemName:    it.ItemName,
			Quantity:    it.Quantity,
			Price:       it.CostPrice,
			TaxRate:     it.TaxRate,
			TaxAmount:   it.TaxAmount,
			TotalAmount: it.TotalAmount,
		}
	}
	return PurchaseResponse{
		ID:             p.ID,
		PurchaseNumber: p.PurchaseNumber,
		VendorID:       p.VendorID,
		VendorName:     p.VendorName,
		InvoiceNumber:  p.InvoiceNumber,
		PurchaseDate:   p.PurchaseDate,
		Status:         p.Status,
		Pricing:        toPricingResponse(p.Pricing),
		Payment:        toPaymentResponse(p.Payment, p.Pricing.GrandTotal),
		Items:          items,
		Notes:          p.Notes,
		ReceivedAt:     p.ReceivedAt,
		CancelledAt:    p.CancelledAt,
		CreatedBy:      p.CreatedBy,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
		Version:        p.Version,
	}
}

// ToPurchaseResponses converts a page of purchases
func ToPurchaseResponses(purchases []trade.Purchase) []PurchaseResponse {
	responses := make([]PurchaseResponse, len(purchases))
	for i := range purchases {
		responses[i] = ToPurchaseResponse(&purchases[i])
	}
	return responses
}
