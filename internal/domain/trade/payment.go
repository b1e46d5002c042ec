package trade

import (
	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentMethod is how a bill was (or will be) settled
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodUPI    PaymentMethod = "upi"
	PaymentMethodCredit PaymentMethod = "credit"
)

// IsValid returns true for a known method
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodUPI, PaymentMethodCredit:
		return true
	}
	return false
}

// PaymentStatus is derived from the amount received against the grand total
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// Payment is the settlement sub-record of a sale or purchase
type Payment struct {
	Method         PaymentMethod   `gorm:"type:varchar(20);not null;default:'cash'"`
	Status         PaymentStatus   `gorm:"type:varchar(20);not null;default:'pending';index"`
	AmountReceived decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
}

// NewPayment validates the method and derives the status against grandTotal
func NewPayment(method PaymentMethod, amountReceived, grandTotal decimal.Decimal) (Payment, error) {
	if method == "" {
		method = PaymentMethodCash
	}
	if !method.IsValid() {
		return Payment{}, shared.NewValidationError("unknown payment method %q", method)
	}
	if amountReceived.IsNegative() {
		return Payment{}, shared.NewValidationError("amount received cannot be negative")
	}
	p := Payment{Method: method, AmountReceived: amountReceived.Round(2)}
	p.Status = DerivePaymentStatus(p.AmountReceived, grandTotal)
	return p, nil
}

// DerivePaymentStatus labels a payment: nothing received is pending, less than
// the total is partial, the total or more is paid
func DerivePaymentStatus(received, grandTotal decimal.Decimal) PaymentStatus {
	switch {
	case grandTotal.IsPositive() && received.LessThanOrEqual(decimal.Zero):
		return PaymentStatusPending
	case received.LessThan(grandTotal):
		return PaymentStatusPartial
	default:
		return PaymentStatusPaid
	}
}

// Balance returns what is still owed (never negative)
func (p Payment) Balance(grandTotal decimal.Decimal) decimal.Decimal {
	due := grandTotal.Sub(p.AmountReceived)
	if due.IsNegative() {
		return decimal.Zero
	}
	return due
}
