package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseStatus is the fulfilment state of a purchase order
type PurchaseStatus string

const (
	PurchaseStatusOrdered   PurchaseStatus = "ordered"
	PurchaseStatusReceived  PurchaseStatus = "received"
	PurchaseStatusCancelled PurchaseStatus = "cancelled"
)

// IsValid returns true for a known purchase status
func (s PurchaseStatus) IsValid() bool {
	switch s {
	case PurchaseStatusOrdered, PurchaseStatusReceived, PurchaseStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo checks whether a purchase can move to the target status
func (s PurchaseStatus) CanTransitionTo(target PurchaseStatus) bool {
	return s == PurchaseStatusOrdered && (target == PurchaseStatusReceived || target == PurchaseStatusCancelled)
}

// PurchaseItem is one ordered line at cost price
type PurchaseItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PurchaseID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemName    string          `gorm:"type:varchar(200);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CostPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TaxRate     decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	TaxAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CreatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseItem) TableName() string {
	return "purchase_items"
}

// Purchase is a stock order placed with a vendor
type Purchase struct {
	shared.TenantAggregateRoot
	PurchaseNumber string         `gorm:"type:varchar(30);not null;index"`
	VendorID       *uuid.UUID     `gorm:"type:uuid;index"`
	VendorName     string         `gorm:"type:varchar(200);not null"`
	InvoiceNumber  string         `gorm:"type:varchar(100)"`
	PurchaseDate   time.Time      `gorm:"not null;index"`
	Status         PurchaseStatus `gorm:"type:varchar(20);not null;default:'ordered';index"`
	Pricing        Pricing        `gorm:"embedded;embeddedPrefix:pricing_"`
	Payment        Payment        `gorm:"embedded;embeddedPrefix:payment_"`
	Notes          string         `gorm:"type:text"`
	ReceivedAt     *time.Time
	CancelledAt    *time.Time
	Items          []PurchaseItem `gorm:"foreignKey:PurchaseID"`
}

// TableName returns the table name for GORM
func (Purchase) TableName() string {
	return "purchases"
}

// PurchaseInput carries everything needed to place a purchase
type PurchaseInput struct {
	VendorID       *uuid.UUID
	VendorName     string
	InvoiceNumber  string
	PurchaseDate   time.Time
	Lines          []LineInput
	Charges        Charges
	PaymentMethod  PaymentMethod
	AmountReceived decimal.Decimal
	Notes          string
}

// NewPurchase builds an ordered purchase with server-derived pricing.
// LineInput.UnitPrice is the cost price here.
func NewPurchase(tenantID uuid.UUID, number string, in PurchaseInput) (*Purchase, error) {
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewValidationError("purchase number is required")
	}
	vendor := strings.TrimSpace(in.VendorName)
	if vendor == "" {
		return nil, shared.NewValidationError("vendor name is required")
	}
	if len(in.Lines) == 0 {
		return nil, shared.NewValidationError("at least one item is required")
	}
	if in.PurchaseDate.IsZero() {
		in.PurchaseDate = time.Now()
	}
	p := &Purchase{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		PurchaseNumber:      number,
		VendorID:            in.VendorID,
		VendorName:          vendor,
		InvoiceNumber:       strings.TrimSpace(in.InvoiceNumber),
		PurchaseDate:        in.PurchaseDate,
		Status:              PurchaseStatusOrdered,
		Notes:               strings.TrimSpace(in.Notes),
	}
	now := time.Now()
	sub, tax := decimal.Zero, decimal.Zero
	for _, l := range in.Lines {
		if err := l.validate(); err != nil {
			return nil, err
		}
		total, lineTax := LineAmounts(l.Quantity, l.UnitPrice, l.TaxRate)
		sub, tax = sub.Add(total), tax.Add(lineTax)
		p.Items = append(p.Items, PurchaseItem{
			ID:          uuid.New(),
			PurchaseID:  p.ID,
			ItemID:      l.ItemID,
			ItemName:    l.ItemName,
			Quantity:    l.Quantity,
			CostPrice:   l.UnitPrice,
			TaxRate:     l.TaxRate,
			TaxAmount:   lineTax,
			TotalAmount: total,
			CreatedAt:   now,
		})
	}
	pricing, err := NewPricing(sub, tax, in.Charges)
	if err != nil {
		return nil, err
	}
	p.Pricing = pricing
	payment, err := NewPayment(in.PaymentMethod, in.AmountReceived, pricing.GrandTotal)
	if err != nil {
		return nil, err
	}
	p.Payment = payment
	p.AddDomainEvent(NewPurchaseCreatedEvent(p))
	return p, nil
}

func (p *Purchase) transition(target PurchaseStatus) error {
	if !p.Status.CanTransitionTo(target) {
		return shared.NewDomainError(shared.CodeInvalidTransition,
			fmt.Sprintf("purchase %s cannot move from %s to %s", p.PurchaseNumber, p.Status, target))
	}
	p.Status = target
	p.IncrementVersion()
	return nil
}

// Receive marks the goods as arrived. The caller posts the stock increases.
func (p *Purchase) Receive() error {
	if err := p.transition(PurchaseStatusReceived); err != nil {
		return err
	}
	now := time.Now()
	p.ReceivedAt = &now
	p.AddDomainEvent(NewPurchaseReceivedEvent(p))
	return nil
}

// Cancel voids an order that has not been received
func (p *Purchase) Cancel() error {
	if err := p.transition(PurchaseStatusCancelled); err != nil {
		return err
	}
	now := time.Now()
	p.CancelledAt = &now
	p.AddDomainEvent(NewPurchaseCancelledEvent(p))
	return nil
}

// CanDelete is false once stock has been received against the purchase
func (p *Purchase) CanDelete() bool {
	return p.Status != PurchaseStatusReceived
}

// RecordPayment replaces the payment record; cancelled purchases are closed
func (p *Purchase) RecordPayment(method PaymentMethod, amountPaid decimal.Decimal) error {
	if p.Status == PurchaseStatusCancelled {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("purchase %s is cancelled", p.PurchaseNumber))
	}
	pay, err := NewPayment(method, amountPaid, p.Pricing.GrandTotal)
	if err != nil {
		return err
	}
	p.Payment = pay
	p.IncrementVersion()
	return nil
}

// MarkDeleted records the deletion event before the row is removed
func (p *Purchase) MarkDeleted() error {
	if !p.CanDelete() {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("purchase %s has been received and cannot be deleted", p.PurchaseNumber))
	}
	p.AddDomainEvent(NewPurchaseDeletedEvent(p))
	return nil
}
