package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/foodcourt/pos/internal/domain/sequence"
	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillType selects the bill number series of a sale
type BillType string

const (
	BillTypeGST      BillType = "gst"
	BillTypeEstimate BillType = "estimate"
)

// IsValid returns true for a known bill type
func (t BillType) IsValid() bool {
	return t == BillTypeGST || t == BillTypeEstimate
}

// SequenceKind returns the numbering series for the bill type
func (t BillType) SequenceKind() sequence.Kind {
	if t == BillTypeEstimate {
		return sequence.KindEstimateBill
	}
	return sequence.KindGSTBill
}

// SaleStatus is the lifecycle state of a sale
type SaleStatus string

const (
	SaleStatusCompleted SaleStatus = "completed"
	SaleStatusCancelled SaleStatus = "cancelled"
)

// IsValid returns true for a known sale status
func (s SaleStatus) IsValid() bool {
	return s == SaleStatusCompleted || s == SaleStatusCancelled
}

// LineInput describes one priced line of a sale or purchase. Names are snapshots.
type LineInput struct {
	ItemID    uuid.UUID
	ItemName  string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	TaxRate   decimal.Decimal
}

func (in LineInput) validate() error {
	if in.ItemID == uuid.Nil {
		return shared.NewValidationError("item id is required")
	}
	if !in.Quantity.IsPositive() {
		return shared.NewValidationError("quantity for %s must be positive", in.ItemName)
	}
	if in.UnitPrice.IsNegative() {
		return shared.NewValidationError("price for %s cannot be negative", in.ItemName)
	}
	if in.TaxRate.IsNegative() || in.TaxRate.GreaterThan(hundred) {
		return shared.NewValidationError("tax rate for %s must be between 0 and 100", in.ItemName)
	}
	return nil
}

// SaleItem is one billed line
type SaleItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SaleID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemName    string          `gorm:"type:varchar(200);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Price       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TaxRate     decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	TaxAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CreatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SaleItem) TableName() string {
	return "sale_items"
}

// SaleParty references an optional customer by id and/or by contact details
type SaleParty struct {
	CustomerID     *uuid.UUID `gorm:"type:uuid;index"`
	CustomerName   string     `gorm:"type:varchar(100)"`
	CustomerMobile string     `gorm:"type:varchar(20)"`
	ReferrerID     *uuid.UUID `gorm:"type:uuid;index"`
}

// Sale is a customer bill
type Sale struct {
	shared.TenantAggregateRoot
	BillNumber     string          `gorm:"type:varchar(30);not null;index"`
	BillType       BillType        `gorm:"type:varchar(20);not null;index"`
	SaleDate       time.Time       `gorm:"not null;index"`
	Party          SaleParty       `gorm:"embedded"`
	CouponCode     string          `gorm:"type:varchar(50)"`
	KOTIDs         []uuid.UUID     `gorm:"column:kot_ids;serializer:json;type:text"`
	Status         SaleStatus      `gorm:"type:varchar(20);not null;default:'completed';index"`
	Pricing        Pricing         `gorm:"embedded;embeddedPrefix:pricing_"`
	Payment        Payment         `gorm:"embedded;embeddedPrefix:payment_"`
	ReferrerPoints decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Notes          string          `gorm:"type:text"`
	CancelledAt    *time.Time
	CancelReason   string     `gorm:"type:varchar(500)"`
	Items          []SaleItem `gorm:"foreignKey:SaleID"`
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

// SaleInput carries everything needed to open a bill
type SaleInput struct {
	BillType       BillType
	SaleDate       time.Time
	Party          SaleParty
	Lines          []LineInput
	Charges        Charges
	PaymentMethod  PaymentMethod
	AmountReceived decimal.Decimal
	KOTIDs         []uuid.UUID
	Notes          string
}

// NewSale builds a completed bill with server-derived pricing.
// The bill number comes from the sequence series of the bill type.
func NewSale(tenantID uuid.UUID, billNumber string, in SaleInput) (*Sale, error) {
	if !in.BillType.IsValid() {
		return nil, shared.NewValidationError("bill type must be gst or estimate, got %q", in.BillType)
	}
	if strings.TrimSpace(billNumber) == "" {
		return nil, shared.NewValidationError("bill number is required")
	}
	if len(in.Lines) == 0 {
		return nil, shared.NewValidationError("at least one item is required")
	}
	if in.SaleDate.IsZero() {
		in.SaleDate = time.Now()
	}

	s := &Sale{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		BillNumber:          billNumber,
		BillType:            in.BillType,
		SaleDate:            in.SaleDate,
		Party: SaleParty{
			CustomerID:     in.Party.CustomerID,
			CustomerName:   strings.TrimSpace(in.Party.CustomerName),
			CustomerMobile: strings.TrimSpace(in.Party.CustomerMobile),
			ReferrerID:     in.Party.ReferrerID,
		},
		KOTIDs:         in.KOTIDs,
		Status:         SaleStatusCompleted,
		Notes:          strings.TrimSpace(in.Notes),
		ReferrerPoints: decimal.Zero,
	}
	now := time.Now()
	for _, l := range in.Lines {
		if err := l.validate(); err != nil {
			return nil, err
		}
		total, tax := LineAmounts(l.Quantity, l.UnitPrice, l.TaxRate)
		s.Items = append(s.Items, SaleItem{
			ID:          uuid.New(),
			SaleID:      s.ID,
			ItemID:      l.ItemID,
			ItemName:    l.ItemName,
			Quantity:    l.Quantity,
			Price:       l.UnitPrice,
			TaxRate:     l.TaxRate,
			TaxAmount:   tax,
			TotalAmount: total,
			CreatedAt:   now,
		})
	}
	if err := s.reprice(in.Charges); err != nil {
		return nil, err
	}
	payment, err := NewPayment(in.PaymentMethod, in.AmountReceived, s.Pricing.GrandTotal)
	if err != nil {
		return nil, err
	}
	s.Payment = payment
	s.AddDomainEvent(NewSaleCreatedEvent(s))
	return s, nil
}

// LineTotals sums the pre-tax amounts and the tax of all lines
func (s *Sale) LineTotals() (subTotal, tax decimal.Decimal) {
	subTotal, tax = decimal.Zero, decimal.Zero
	for _, it := range s.Items {
		subTotal = subTotal.Add(it.TotalAmount)
		tax = tax.Add(it.TaxAmount)
	}
	return subTotal, tax
}

func (s *Sale) reprice(charges Charges) error {
	sub, tax := s.LineTotals()
	p, err := NewPricing(sub, tax, charges)
	if err != nil {
		return err
	}
	s.Pricing = p
	return nil
}

func (s *Sale) charges() Charges {
	return Charges{
		DiscountAmount: s.Pricing.DiscountAmount,
		ServiceCharge:  s.Pricing.ServiceCharge,
		ACCharge:       s.Pricing.ACCharge,
		WaiterTip:      s.Pricing.WaiterTip,
		RoundOff:       s.Pricing.RoundOff,
	}
}

// ApplyCoupon records a redeemed coupon and adds its discount on top of any manual one
func (s *Sale) ApplyCoupon(code string, discount decimal.Decimal) error {
	if err := s.ensureCompleted(); err != nil {
		return err
	}
	if discount.IsNegative() {
		return shared.NewValidationError("coupon discount cannot be negative")
	}
	c := s.charges()
	c.DiscountAmount = c.DiscountAmount.Add(discount)
	if err := s.reprice(c); err != nil {
		return err
	}
	s.CouponCode = strings.ToUpper(strings.TrimSpace(code))
	s.Payment.Status = DerivePaymentStatus(s.Payment.AmountReceived, s.Pricing.GrandTotal)
	return nil
}

// SetReferrerPoints records the points credited to the referrer for this bill
func (s *Sale) SetReferrerPoints(points decimal.Decimal) {
	s.ReferrerPoints = points.Round(2)
}

// RecordPayment replaces the payment method and amount and re-derives the status
func (s *Sale) RecordPayment(method PaymentMethod, amountReceived decimal.Decimal) error {
	if err := s.ensureCompleted(); err != nil {
		return err
	}
	p, err := NewPayment(method, amountReceived, s.Pricing.GrandTotal)
	if err != nil {
		return err
	}
	s.Payment = p
	s.IncrementVersion()
	s.AddDomainEvent(NewSalePaymentUpdatedEvent(s))
	return nil
}

// Cancel voids the bill. Cancelled bills drop out of revenue reports.
func (s *Sale) Cancel(reason string) error {
	if err := s.ensureCompleted(); err != nil {
		return err
	}
	now := time.Now()
	s.Status = SaleStatusCancelled
	s.CancelledAt = &now
	s.CancelReason = strings.TrimSpace(reason)
	s.IncrementVersion()
	s.AddDomainEvent(NewSaleCancelledEvent(s))
	return nil
}

// MarkDeleted records the deletion event before the row is removed
func (s *Sale) MarkDeleted() {
	s.AddDomainEvent(NewSaleDeletedEvent(s))
}

// IsCancelled reports whether the bill was voided
func (s *Sale) IsCancelled() bool {
	return s.Status == SaleStatusCancelled
}

func (s *Sale) ensureCompleted() error {
	if s.Status != SaleStatusCompleted {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("sale %s is %s", s.BillNumber, s.Status))
	}
	return nil
}
