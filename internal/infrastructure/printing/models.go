package printing

import (
	"html/template"
	"time"

	"github.com/shopspring/decimal"
)

// ShopInfo is the letterhead printed on bills and purchase orders
type ShopInfo struct {
	Name    string
	Address string
	Phone   string
	GSTIN   string
}

// KOTSlip is the model bound to the kitchen ticket template
type KOTSlip struct {
	Shop           ShopInfo
	Number         string
	TableNumber    string
	OrderReference string
	KOTType        string
	CustomerName   string
	Notes          string
	CreatedAt      time.Time
	PrintedAt      time.Time
	Reprint        bool
	Lines          []KOTSlipLine
}

// KOTSlipLine is one dish on a kitchen ticket. Cancelled lines are printed struck through.
type KOTSlipLine struct {
	Name      string
	Variant   string
	Note      string
	Quantity  int
	Cancelled bool
}

// DocumentLine is one priced line on a bill or purchase order
type DocumentLine struct {
	Name      string
	Quantity  decimal.Decimal
	Price     decimal.Decimal
	TaxRate   decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
}

// Totals is the amount block at the foot of a bill or purchase order
type Totals struct {
	SubTotal       decimal.Decimal
	Discount       decimal.Decimal
	Tax            decimal.Decimal
	ServiceCharge  decimal.Decimal
	ACCharge       decimal.Decimal
	WaiterTip      decimal.Decimal
	RoundOff       decimal.Decimal
	GrandTotal     decimal.Decimal
	AmountReceived decimal.Decimal
	Balance        decimal.Decimal
}

// Bill is the model bound to the sale bill template
type Bill struct {
	Shop           ShopInfo
	Title          string
	Number         string
	Date           time.Time
	CustomerName   string
	CustomerMobile string
	CouponCode     string
	// ShowTax prints the GSTIN and tax columns; estimates leave them out
	ShowTax       bool
	Cancelled     bool
	Lines         []DocumentLine
	Totals        Totals
	PaymentMethod string
	PaymentStatus string
	UPIID         string
	// QRCode is a data URL of the UPI payment QR, empty when none is printed
	QRCode template.URL
}

// PurchaseOrder is the model bound to the purchase order template
type PurchaseOrder struct {
	Shop          ShopInfo
	Number        string
	Date          time.Time
	VendorName    string
	InvoiceNumber string
	Status        string
	Notes         string
	Lines         []DocumentLine
	Totals        Totals
	PaymentStatus string
}
