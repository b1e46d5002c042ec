package partner

import (
	"errors"
	"testing"
	"time"

	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func codeOf(err error) string {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

func createTestReferrer(t *testing.T, rate string) *Party {
	t.Helper()
	p, err := NewParty(uuid.New(), "Ravi Kumar", PartyTypeReferrer, ContactDetails{Mobile: "98765 43210"})
	require.NoError(t, err)
	require.NoError(t, p.SetCommissionRate(dec(rate)))
	return p
}

// ============================================
// Party Tests
// ============================================

func TestNewParty(t *testing.T) {
	p, err := NewParty(uuid.New(), "  Green Grocers ", PartyTypeVendor, ContactDetails{
		Mobile: "+919876543210",
		Email:  "sales@greengrocers.in",
		GSTIN:  "27aapfu0939f1zv",
	})
	require.NoError(t, err)
	assert.Equal(t, "Green Grocers", p.Name)
	assert.Equal(t, "27AAPFU0939F1ZV", p.GSTIN)
	assert.True(t, p.IsActive())
	assert.False(t, p.IsReferrer())
	require.Len(t, p.GetDomainEvents(), 1)
	assert.Equal(t, EventTypePartyCreated, p.GetDomainEvents()[0].EventType())
}

func TestNewParty_Validation(t *testing.T) {
	tests := []struct {
		name      string
		partyName string
		partyType PartyType
		contact   ContactDetails
	}{
		{"empty name", " ", PartyTypeCustomer, ContactDetails{}},
		{"unknown type", "A", PartyType("staff"), ContactDetails{}},
		{"bad mobile", "A", PartyTypeCustomer, ContactDetails{Mobile: "12ab"}},
		{"bad email", "A", PartyTypeCustomer, ContactDetails{Email: "not-an-email"}},
		{"bad gstin", "A", PartyTypeVendor, ContactDetails{GSTIN: "123"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParty(uuid.New(), tt.partyName, tt.partyType, tt.contact)
			require.Error(t, err)
			assert.Equal(t, shared.CodeValidationFailed, codeOf(err))
		})
	}
}

func TestParty_SetCommissionRate(t *testing.T) {
	p := createTestReferrer(t, "5")
	assert.Error(t, p.SetCommissionRate(dec("-1")))
	assert.Error(t, p.SetCommissionRate(dec("100.5")))
	assert.Equal(t, "5", p.CommissionRate.String())
}

func TestParty_SetStatus(t *testing.T) {
	p := createTestReferrer(t, "5")
	require.NoError(t, p.SetStatus(PartyStatusInactive))
	assert.False(t, p.IsActive())
	assert.Equal(t, shared.CodeInvalidStatus, codeOf(p.SetStatus("blocked")))
}

// ============================================
// Referrer Points Tests
// ============================================

func TestParty_EarnAndReverse(t *testing.T) {
	p := createTestReferrer(t, "2.5")
	saleID := uuid.New()

	earned, err := p.EarnFromBill(saleID, "MGGST20240115-0001", dec("480"))
	require.NoError(t, err)
	assert.Equal(t, PointEntryEarned, earned.Type)
	assert.Equal(t, "12.00", earned.Points.StringFixed(2))
	assert.True(t, earned.BalanceBefore.IsZero())
	assert.Equal(t, "12.00", p.PointsBalance.StringFixed(2))
	require.NotNil(t, earned.SaleID)
	assert.Equal(t, saleID, *earned.SaleID)
	assert.Equal(t, p.ID, earned.ReferrerID)

	reversed, err := p.ReverseBill(saleID, "MGGST20240115-0001", earned.Points)
	require.NoError(t, err)
	assert.Equal(t, PointEntryReversed, reversed.Type)
	assert.Equal(t, "-12.00", reversed.Points.StringFixed(2))
	assert.True(t, p.PointsBalance.IsZero())
	assert.True(t, reversed.BalanceAfter.Equal(reversed.BalanceBefore.Add(reversed.Points)))
}

func TestParty_EarnRequiresActiveReferrer(t *testing.T) {
	customer, err := NewParty(uuid.New(), "Walk In", PartyTypeCustomer, ContactDetails{})
	require.NoError(t, err)
	_, err = customer.EarnFromBill(uuid.New(), "B1", dec("100"))
	assert.Equal(t, shared.CodeValidationFailed, codeOf(err))

	ref := createTestReferrer(t, "10")
	require.NoError(t, ref.SetStatus(PartyStatusInactive))
	_, err = ref.EarnFromBill(uuid.New(), "B1", dec("100"))
	assert.Equal(t, shared.CodeInvalidState, codeOf(err))
}

func TestParty_Redeem(t *testing.T) {
	p := createTestReferrer(t, "10")
	_, err := p.EarnFromBill(uuid.New(), "B1", dec("1000"))
	require.NoError(t, err)

	entry, err := p.Redeem(dec("40"), "gift voucher")
	require.NoError(t, err)
	assert.Nil(t, entry.SaleID)
	assert.Equal(t, "60.00", p.PointsBalance.StringFixed(2))

	_, err = p.Redeem(dec("61"), "too much")
	assert.Error(t, err)
	_, err = p.Redeem(decimal.Zero, "nothing")
	assert.Error(t, err)
}

// ============================================
// Coupon Tests
// ============================================

func createTestCoupon(t *testing.T, terms CouponTerms) *Coupon {
	t.Helper()
	c, err := NewCoupon(uuid.New(), " welcome10 ", terms)
	require.NoError(t, err)
	return c
}

func TestNewCoupon_Validation(t *testing.T) {
	from := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(-time.Hour)
	tests := []struct {
		name  string
		terms CouponTerms
	}{
		{"unknown type", CouponTerms{DiscountType: "bogo", Value: dec("1")}},
		{"percentage above 100", CouponTerms{DiscountType: DiscountTypePercentage, Value: dec("101")}},
		{"zero flat", CouponTerms{DiscountType: DiscountTypeFlat, Value: decimal.Zero}},
		{"negative limit", CouponTerms{DiscountType: DiscountTypeFlat, Value: dec("5"), UsageLimit: -1}},
		{"inverted validity", CouponTerms{DiscountType: DiscountTypeFlat, Value: dec("5"), ValidFrom: &from, ValidTo: &to}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCoupon(uuid.New(), "X", tt.terms)
			assert.Equal(t, shared.CodeValidationFailed, codeOf(err))
		})
	}

	_, err := NewCoupon(uuid.New(), "  ", CouponTerms{DiscountType: DiscountTypeFlat, Value: dec("5")})
	assert.Error(t, err)
}

func TestCoupon_Evaluate(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	from := now.Add(-24 * time.Hour)
	to := now.Add(24 * time.Hour)

	pct := createTestCoupon(t, CouponTerms{
		DiscountType:   DiscountTypePercentage,
		Value:          dec("10"),
		MinOrderAmount: dec("200"),
		MaxDiscount:    dec("50"),
		ValidFrom:      &from,
		ValidTo:        &to,
	})
	assert.Equal(t, "WELCOME10", pct.Code)

	d, err := pct.Evaluate(dec("300"), now)
	require.NoError(t, err)
	assert.Equal(t, "30.00", d.StringFixed(2))

	d, err = pct.Evaluate(dec("900"), now)
	require.NoError(t, err)
	assert.Equal(t, "50.00", d.StringFixed(2))

	_, err = pct.Evaluate(dec("100"), now)
	assert.Error(t, err)
	_, err = pct.Evaluate(dec("300"), to.Add(time.Minute))
	assert.Contains(t, err.Error(), "expired")
	_, err = pct.Evaluate(dec("300"), from.Add(-time.Minute))
	assert.Contains(t, err.Error(), "not valid yet")

	flat := createTestCoupon(t, CouponTerms{DiscountType: DiscountTypeFlat, Value: dec("75")})
	d, err = flat.Evaluate(dec("60"), now)
	require.NoError(t, err)
	assert.Equal(t, "60.00", d.StringFixed(2))
}

func TestCoupon_RedeemUsageLimit(t *testing.T) {
	now := time.Now()
	c := createTestCoupon(t, CouponTerms{DiscountType: DiscountTypeFlat, Value: dec("20"), UsageLimit: 1})

	_, err := c.Redeem(dec("100"), now)
	require.NoError(t, err)
	assert.Equal(t, 1, c.UsedCount)

	_, err = c.Redeem(dec("100"), now)
	assert.Contains(t, err.Error(), "usage limit")

	c.Release()
	assert.Equal(t, 0, c.UsedCount)
	c.Release()
	assert.Equal(t, 0, c.UsedCount)
}

func TestCoupon_Inactive(t *testing.T) {
	c := createTestCoupon(t, CouponTerms{DiscountType: DiscountTypeFlat, Value: dec("20")})
	require.NoError(t, c.SetStatus(CouponStatusInactive))
	_, err := c.Evaluate(dec("100"), time.Now())
	assert.Contains(t, err.Error(), "inactive")
	assert.Equal(t, "WELCOME10 (flat 20.00)", c.String())
}
