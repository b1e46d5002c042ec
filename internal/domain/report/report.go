// Package report defines the read models of the dashboard reports. They are pure
// projections over sales, purchases, tickets and items; cancelled documents never
// count towards revenue.
package report

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Range is a half-open [Start, End) window in the shop's time zone
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// DayRange returns the range covering the calendar day of t
func DayRange(t time.Time) Range {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return Range{Start: start, End: start.AddDate(0, 0, 1)}
}

// NewRange builds a range from inclusive calendar dates. Zero values default to today
// and a reversed pair is swapped.
func NewRange(from, to time.Time, now time.Time) Range {
	if from.IsZero() && to.IsZero() {
		return DayRange(now)
	}
	if from.IsZero() {
		from = to
	}
	if to.IsZero() {
		to = from
	}
	if to.Before(from) {
		from, to = to, from
	}
	return Range{Start: DayRange(from).Start, End: DayRange(to).End}
}

// Filter scopes a report to a tenant and a range
type Filter struct {
	TenantID uuid.UUID
	Range    Range
	TopN     int
}

// PaymentMethodTotal is the revenue collected through one payment method
type PaymentMethodTotal struct {
	Method    string          `json:"method"`
	BillCount int64           `json:"billCount"`
	Amount    decimal.Decimal `json:"amount"`
}

// SalesSummary aggregates completed bills
type SalesSummary struct {
	Range           Range                `json:"range"`
	BillCount       int64                `json:"billCount"`
	GrossAmount     decimal.Decimal      `json:"grossAmount"`
	DiscountAmount  decimal.Decimal      `json:"discountAmount"`
	TaxAmount       decimal.Decimal      `json:"taxAmount"`
	NetAmount       decimal.Decimal      `json:"netAmount"`
	AverageBill     decimal.Decimal      `json:"averageBill"`
	AmountReceived  decimal.Decimal      `json:"amountReceived"`
	ByPaymentMethod []PaymentMethodTotal `json:"byPaymentMethod"`
}

// ComputeAverage sets AverageBill from NetAmount and BillCount
func (s *SalesSummary) ComputeAverage() {
	if s.BillCount == 0 {
		s.AverageBill = decimal.Zero
		return
	}
	s.AverageBill = s.NetAmount.Div(decimal.NewFromInt(s.BillCount)).Round(2)
}

// DailySales is one point of the daily sales series
type DailySales struct {
	Date      string          `json:"date"`
	BillCount int64           `json:"billCount"`
	NetAmount decimal.Decimal `json:"netAmount"`
	TaxAmount decimal.Decimal `json:"taxAmount"`
}

// TopItem ranks an item by quantity sold
type TopItem struct {
	Rank     int             `json:"rank"`
	ItemID   uuid.UUID       `json:"itemId"`
	ItemName string          `json:"itemName"`
	Quantity decimal.Decimal `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// GSTSlab groups billed lines by tax rate. CGST and SGST are the two halves of the tax.
type GSTSlab struct {
	TaxRate      decimal.Decimal `json:"taxRate"`
	TaxableValue decimal.Decimal `json:"taxableValue"`
	TaxAmount    decimal.Decimal `json:"taxAmount"`
	CGST         decimal.Decimal `json:"cgst"`
	SGST         decimal.Decimal `json:"sgst"`
}

// SplitTax fills CGST and SGST. Odd paise go to CGST so the halves always add up.
func (g *GSTSlab) SplitTax() {
	g.SGST = g.TaxAmount.Div(decimal.NewFromInt(2)).RoundDown(2)
	g.CGST = g.TaxAmount.Sub(g.SGST)
}

// GSTReport is the tax summary for GST bills
type GSTReport struct {
	Range        Range           `json:"range"`
	Slabs        []GSTSlab       `json:"slabs"`
	TaxableValue decimal.Decimal `json:"taxableValue"`
	TaxAmount    decimal.Decimal `json:"taxAmount"`
}

// Totals sums the slabs into the report totals
func (r *GSTReport) Totals() {
	r.TaxableValue, r.TaxAmount = decimal.Zero, decimal.Zero
	for i := range r.Slabs {
		r.Slabs[i].SplitTax()
		r.TaxableValue = r.TaxableValue.Add(r.Slabs[i].TaxableValue)
		r.TaxAmount = r.TaxAmount.Add(r.Slabs[i].TaxAmount)
	}
}

// ProfitLoss compares revenue to the cost of what was sold
type ProfitLoss struct {
	Range         Range           `json:"range"`
	Revenue       decimal.Decimal `json:"revenue"`
	TaxCollected  decimal.Decimal `json:"taxCollected"`
	CostOfGoods   decimal.Decimal `json:"costOfGoods"`
	Purchases     decimal.Decimal `json:"purchases"`
	GrossProfit   decimal.Decimal `json:"grossProfit"`
	GrossMarginPc decimal.Decimal `json:"grossMarginPct"`
}

// Compute derives gross profit and margin from revenue and cost of goods
func (p *ProfitLoss) Compute() {
	p.GrossProfit = p.Revenue.Sub(p.CostOfGoods)
	if p.Revenue.IsZero() {
		p.GrossMarginPc = decimal.Zero
		return
	}
	p.GrossMarginPc = p.GrossProfit.Mul(decimal.NewFromInt(100)).Div(p.Revenue).Round(2)
}

// CashDirection is in for receipts and out for payments
type CashDirection string

const (
	CashIn  CashDirection = "in"
	CashOut CashDirection = "out"
)

// CashEntry is one movement of the cash book
type CashEntry struct {
	Date      time.Time       `json:"date"`
	Reference string          `json:"reference"`
	Party     string          `json:"party"`
	Method    string          `json:"method"`
	Direction CashDirection   `json:"direction"`
	Amount    decimal.Decimal `json:"amount"`
	Balance   decimal.Decimal `json:"balance"`
}

// CashBook lists money movements in date order with a running balance
type CashBook struct {
	Range          Range           `json:"range"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	TotalIn        decimal.Decimal `json:"totalIn"`
	TotalOut       decimal.Decimal `json:"totalOut"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
	Entries        []CashEntry     `json:"entries"`
}

// Run fills the running balance of every entry. Entries must already be in date order.
func (b *CashBook) Run() {
	balance := b.OpeningBalance
	b.TotalIn, b.TotalOut = decimal.Zero, decimal.Zero
	for i := range b.Entries {
		e := &b.Entries[i]
		if e.Direction == CashOut {
			balance = balance.Sub(e.Amount)
			b.TotalOut = b.TotalOut.Add(e.Amount)
		} else {
			balance = balance.Add(e.Amount)
			b.TotalIn = b.TotalIn.Add(e.Amount)
		}
		e.Balance = balance
	}
	b.ClosingBalance = balance
}

// KOTStatusCount is the number of tickets in one status
type KOTStatusCount struct {
	Status      string          `json:"status"`
	Count       int64           `json:"count"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// KOTSummary counts tickets by status
type KOTSummary struct {
	Range    Range            `json:"range"`
	Total    int64            `json:"total"`
	ByStatus []KOTStatusCount `json:"byStatus"`
}

// StockValuation values the current stock at cost price
type StockValuation struct {
	ItemCount     int64           `json:"itemCount"`
	TotalQuantity decimal.Decimal `json:"totalQuantity"`
	TotalValue    decimal.Decimal `json:"totalValue"`
	LowStockCount int64           `json:"lowStockCount"`
	OutOfStock    int64           `json:"outOfStockCount"`
}

// Repository runs the aggregation queries. Implementations exclude cancelled
// sales and purchases from every amount.
type Repository interface {
	SalesSummary(ctx context.Context, f Filter) (*SalesSummary, error)
	DailySales(ctx context.Context, f Filter) ([]DailySales, error)
	TopItems(ctx context.Context, f Filter) ([]TopItem, error)
	GSTSlabs(ctx context.Context, f Filter) ([]GSTSlab, error)
	ProfitLoss(ctx context.Context, f Filter) (*ProfitLoss, error)
	CashEntries(ctx context.Context, f Filter) ([]CashEntry, error)
	KOTStatusCounts(ctx context.Context, f Filter) ([]KOTStatusCount, error)
	StockValuation(ctx context.Context, tenantID uuid.UUID) (*StockValuation, error)
}

// ErrCacheMiss is returned by Cache.Get when no entry exists
var ErrCacheMiss = errors.New("report cache miss")

// Cache stores serialized report results for a short time
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
