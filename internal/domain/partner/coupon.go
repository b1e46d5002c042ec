package partner

import (
	"fmt"
	"strings"
	"time"

	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DiscountType is how a coupon value is applied
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFlat       DiscountType = "flat"
)

// CouponStatus is active or inactive
type CouponStatus string

const (
	CouponStatusActive   CouponStatus = "active"
	CouponStatusInactive CouponStatus = "inactive"
)

// Coupon is a discount code. Code is unique per tenant and stored upper-cased.
// UsageLimit of zero means unlimited.
type Coupon struct {
	shared.TenantAggregateRoot
	Code           string          `gorm:"type:varchar(50);not null;index"`
	Description    string          `gorm:"type:varchar(500)"`
	DiscountType   DiscountType    `gorm:"type:varchar(20);not null"`
	Value          decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	MinOrderAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	MaxDiscount    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	ValidFrom      *time.Time
	ValidTo        *time.Time
	UsageLimit     int          `gorm:"not null;default:0"`
	UsedCount      int          `gorm:"not null;default:0"`
	Status         CouponStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Coupon) TableName() string {
	return "coupons"
}

// CouponTerms are the editable rules of a coupon
type CouponTerms struct {
	Description    string
	DiscountType   DiscountType
	Value          decimal.Decimal
	MinOrderAmount decimal.Decimal
	MaxDiscount    decimal.Decimal
	ValidFrom      *time.Time
	ValidTo        *time.Time
	UsageLimit     int
}

// NormalizeCouponCode trims and upper-cases a code
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// NewCoupon creates an active coupon
func NewCoupon(tenantID uuid.UUID, code string, terms CouponTerms) (*Coupon, error) {
	code = NormalizeCouponCode(code)
	if code == "" || len(code) > 50 {
		return nil, shared.NewValidationError("coupon code must be 1 to 50 characters")
	}
	c := &Coupon{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		Status:              CouponStatusActive,
	}
	if err := c.apply(terms); err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces the coupon terms
func (c *Coupon) Update(terms CouponTerms) error {
	if err := c.apply(terms); err != nil {
		return err
	}
	c.IncrementVersion()
	return nil
}

func (c *Coupon) apply(t CouponTerms) error {
	switch t.DiscountType {
	case DiscountTypePercentage:
		if !t.Value.IsPositive() || t.Value.GreaterThan(decimal.NewFromInt(100)) {
			return shared.NewValidationError("percentage must be between 0 and 100")
		}
	case DiscountTypeFlat:
		if !t.Value.IsPositive() {
			return shared.NewValidationError("flat discount must be positive")
		}
	default:
		return shared.NewValidationError("discount type must be percentage or flat, got %q", t.DiscountType)
	}
	if t.MinOrderAmount.IsNegative() || t.MaxDiscount.IsNegative() {
		return shared.NewValidationError("coupon amounts cannot be negative")
	}
	if t.UsageLimit < 0 {
		return shared.NewValidationError("usage limit cannot be negative")
	}
	if t.ValidFrom != nil && t.ValidTo != nil && t.ValidTo.Before(*t.ValidFrom) {
		return shared.NewValidationError("coupon validity ends before it starts")
	}
	c.Description = strings.TrimSpace(t.Description)
	c.DiscountType = t.DiscountType
	c.Value = t.Value
	c.MinOrderAmount = t.MinOrderAmount
	c.MaxDiscount = t.MaxDiscount
	c.ValidFrom = t.ValidFrom
	c.ValidTo = t.ValidTo
	c.UsageLimit = t.UsageLimit
	return nil
}

// SetStatus activates or deactivates the coupon
func (c *Coupon) SetStatus(status CouponStatus) error {
	if status != CouponStatusActive && status != CouponStatusInactive {
		return shared.NewDomainError(shared.CodeInvalidStatus, "coupon status must be active or inactive")
	}
	c.Status = status
	c.IncrementVersion()
	return nil
}

// Evaluate checks the coupon against an order amount at time now and returns the discount
func (c *Coupon) Evaluate(orderAmount decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	switch {
	case c.Status != CouponStatusActive:
		return decimal.Zero, shared.NewValidationError("coupon %s is inactive", c.Code)
	case c.ValidFrom != nil && now.Before(*c.ValidFrom):
		return decimal.Zero, shared.NewValidationError("coupon %s is not valid yet", c.Code)
	case c.ValidTo != nil && now.After(*c.ValidTo):
		return decimal.Zero, shared.NewValidationError("coupon %s has expired", c.Code)
	case c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit:
		return decimal.Zero, shared.NewValidationError("coupon %s usage limit reached", c.Code)
	case orderAmount.LessThan(c.MinOrderAmount):
		return decimal.Zero, shared.NewValidationError("coupon %s needs a minimum order of %s", c.Code, c.MinOrderAmount.StringFixed(2))
	}

	discount := c.Value
	if c.DiscountType == DiscountTypePercentage {
		discount = orderAmount.Mul(c.Value).Div(decimal.NewFromInt(100))
	}
	if c.MaxDiscount.IsPositive() && discount.GreaterThan(c.MaxDiscount) {
		discount = c.MaxDiscount
	}
	if discount.GreaterThan(orderAmount) {
		discount = orderAmount
	}
	return discount.Round(2), nil
}

// Redeem evaluates the coupon and counts one use
func (c *Coupon) Redeem(orderAmount decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	discount, err := c.Evaluate(orderAmount, now)
	if err != nil {
		return decimal.Zero, err
	}
	c.UsedCount++
	c.IncrementVersion()
	return discount, nil
}

// Release gives back one use, e.g. when the bill that used it is cancelled
func (c *Coupon) Release() {
	if c.UsedCount > 0 {
		c.UsedCount--
		c.IncrementVersion()
	}
}

// String returns a short description for slips
func (c *Coupon) String() string {
	if c.DiscountType == DiscountTypePercentage {
		return fmt.Sprintf("%s (%s%%)", c.Code, c.Value.String())
	}
	return fmt.Sprintf("%s (flat %s)", c.Code, c.Value.StringFixed(2))
}
