package trade

import (
	"fmt"

	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// grandTotalTolerance is the largest accepted difference between a client's
// grand total and the server's own computation
var grandTotalTolerance = decimal.RequireFromString("0.01")

var hundred = decimal.NewFromInt(100)

// Charges are the pricing inputs a cashier enters on top of the lines
type Charges struct {
	DiscountAmount decimal.Decimal
	ServiceCharge  decimal.Decimal
	ACCharge       decimal.Decimal
	WaiterTip      decimal.Decimal
	RoundOff       decimal.Decimal
}

// Validate rejects negative charges; round-off may go either way
func (c Charges) Validate() error {
	for _, charge := range []struct {
		name  string
		value decimal.Decimal
	}{
		{"discount", c.DiscountAmount},
		{"service charge", c.ServiceCharge},
		{"AC charge", c.ACCharge},
		{"waiter tip", c.WaiterTip},
	} {
		if charge.value.IsNegative() {
			return shared.NewValidationError("%s cannot be negative", charge.name)
		}
	}
	return nil
}

// Pricing is the money summary of a bill or purchase. The server always derives it:
// GrandTotal = SubTotal - DiscountAmount + TaxAmount + ServiceCharge + ACCharge + WaiterTip + RoundOff.
type Pricing struct {
	SubTotal       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	ServiceCharge  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	ACCharge       decimal.Decimal `gorm:"column:ac_charge;type:decimal(18,2);not null;default:0"`
	WaiterTip      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	RoundOff       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	GrandTotal     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
}

// ComputeGrandTotal evaluates the additive formula over the stored components
func (p Pricing) ComputeGrandTotal() decimal.Decimal {
	return p.SubTotal.
		Sub(p.DiscountAmount).
		Add(p.TaxAmount).
		Add(p.ServiceCharge).
		Add(p.ACCharge).
		Add(p.WaiterTip).
		Add(p.RoundOff)
}

// IsConsistent reports whether GrandTotal matches the formula
func (p Pricing) IsConsistent() bool {
	return p.GrandTotal.Equal(p.ComputeGrandTotal())
}

// NewPricing derives a pricing block from line amounts and charges
func NewPricing(subTotal, taxAmount decimal.Decimal, charges Charges) (Pricing, error) {
	if err := charges.Validate(); err != nil {
		return Pricing{}, err
	}
	p := Pricing{
		SubTotal:       subTotal.Round(2),
		DiscountAmount: charges.DiscountAmount.Round(2),
		TaxAmount:      taxAmount.Round(2),
		ServiceCharge:  charges.ServiceCharge.Round(2),
		ACCharge:       charges.ACCharge.Round(2),
		WaiterTip:      charges.WaiterTip.Round(2),
		RoundOff:       charges.RoundOff.Round(2),
	}
	if p.DiscountAmount.GreaterThan(p.SubTotal.Add(p.TaxAmount)) {
		return Pricing{}, shared.NewValidationError("discount %s exceeds the bill amount %s", p.DiscountAmount, p.SubTotal.Add(p.TaxAmount))
	}
	p.GrandTotal = p.ComputeGrandTotal()
	if p.GrandTotal.IsNegative() {
		return Pricing{}, shared.NewValidationError("grand total cannot be negative")
	}
	return p, nil
}

// VerifyClientTotal compares a grand total submitted by a client with the derived
// one. A zero submission means the client did not send a total.
func (p Pricing) VerifyClientTotal(submitted decimal.Decimal) error {
	if submitted.IsZero() {
		return nil
	}
	if submitted.Sub(p.GrandTotal).Abs().GreaterThan(grandTotalTolerance) {
		return shared.NewDomainError(shared.CodeValidationFailed,
			fmt.Sprintf("Grand total mismatch: submitted %s, computed %s", submitted.StringFixed(2), p.GrandTotal.StringFixed(2)))
	}
	return nil
}

// LineAmounts computes the pre-tax total and the tax of one priced line
func LineAmounts(quantity, unitPrice, taxRate decimal.Decimal) (total, tax decimal.Decimal) {
	total = quantity.Mul(unitPrice).Round(2)
	tax = total.Mul(taxRate).Div(hundred).Round(2)
	return total, tax
}
