package partner

import (
	"context"
	"testing"
	"time"

	"github.com/foodcourt/pos/internal/domain/partner"
	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/foodcourt/pos/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCouponService(now time.Time) (*CouponService, *testutil.MockCouponRepository) {
	repo := new(testutil.MockCouponRepository)
	svc := NewCouponService(repo)
	svc.now = func() time.Time { return now }
	return svc, repo
}

func TestCouponService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	userID := uuid.New()

	t.Run("stores the code upper-cased", func(t *testing.T) {
		svc, repo := newCouponService(time.Now())
		repo.On("ExistsByCode", ctx, tenantID, "DIWALI20", (*uuid.UUID)(nil)).Return(false, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*partner.Coupon")).Return(nil)

		resp, err := svc.Create(ctx, tenantID, userID, CouponRequest{
			Code:         " diwali20 ",
			DiscountType: "percentage",
			Value:        decimal.NewFromInt(20),
			MaxDiscount:  decimal.NewFromInt(100),
		})

		require.NoError(t, err)
		assert.Equal(t, "DIWALI20", resp.Code)
		assert.Equal(t, partner.CouponStatusActive, resp.Status)
		assert.Zero(t, resp.UsedCount)
	})

	t.Run("duplicate code", func(t *testing.T) {
		svc, repo := newCouponService(time.Now())
		repo.On("ExistsByCode", ctx, tenantID, "DIWALI20", (*uuid.UUID)(nil)).Return(true, nil)

		_, err := svc.Create(ctx, tenantID, userID, CouponRequest{Code: "Diwali20", DiscountType: "flat", Value: decimal.NewFromInt(50)})

		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("percentage above 100", func(t *testing.T) {
		svc, repo := newCouponService(time.Now())
		repo.On("ExistsByCode", ctx, tenantID, "BIG", (*uuid.UUID)(nil)).Return(false, nil)

		_, err := svc.Create(ctx, tenantID, userID, CouponRequest{Code: "big", DiscountType: "percentage", Value: decimal.NewFromInt(120)})

		assert.ErrorIs(t, err, shared.ErrValidation)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestCouponService_Validate(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	validTo := now.Add(24 * time.Hour)

	newCoupon := func(t *testing.T, terms partner.CouponTerms) *partner.Coupon {
		t.Helper()
		c, err := partner.NewCoupon(tenantID, "SAVE10", terms)
		require.NoError(t, err)
		return c
	}

	tests := []struct {
		name         string
		terms        partner.CouponTerms
		orderAmount  int64
		wantDiscount int64
		wantErr      bool
	}{
		{
			name:         "percentage capped by max discount",
			terms:        partner.CouponTerms{DiscountType: partner.DiscountTypePercentage, Value: decimal.NewFromInt(10), MaxDiscount: decimal.NewFromInt(30), ValidTo: &validTo},
			orderAmount:  500,
			wantDiscount: 30,
		},
		{
			name:         "flat never exceeds the order",
			terms:        partner.CouponTerms{DiscountType: partner.DiscountTypeFlat, Value: decimal.NewFromInt(100)},
			orderAmount:  60,
			wantDiscount: 60,
		},
		{
			name:        "below minimum order",
			terms:       partner.CouponTerms{DiscountType: partner.DiscountTypeFlat, Value: decimal.NewFromInt(50), MinOrderAmount: decimal.NewFromInt(300)},
			orderAmount: 299,
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newCouponService(now)
			repo.On("FindByCode", ctx, tenantID, "SAVE10").Return(newCoupon(t, tt.terms), nil)

			resp, err := svc.Validate(ctx, tenantID, ValidateCouponRequest{Code: "save10", OrderAmount: decimal.NewFromInt(tt.orderAmount)})

			if tt.wantErr {
				assert.ErrorIs(t, err, shared.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.True(t, resp.Discount.Equal(decimal.NewFromInt(tt.wantDiscount)), "discount %s", resp.Discount)
			assert.True(t, resp.PayableAmount.Equal(decimal.NewFromInt(tt.orderAmount-tt.wantDiscount)))
		})
	}

	t.Run("does not count a use", func(t *testing.T) {
		svc, repo := newCouponService(now)
		c := newCoupon(t, partner.CouponTerms{DiscountType: partner.DiscountTypeFlat, Value: decimal.NewFromInt(10), UsageLimit: 1})
		repo.On("FindByCode", ctx, tenantID, "SAVE10").Return(c, nil)

		_, err := svc.Validate(ctx, tenantID, ValidateCouponRequest{Code: "SAVE10", OrderAmount: decimal.NewFromInt(100)})

		require.NoError(t, err)
		assert.Zero(t, c.UsedCount)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("expired", func(t *testing.T) {
		svc, repo := newCouponService(validTo.Add(time.Minute))
		repo.On("FindByCode", ctx, tenantID, "SAVE10").Return(newCoupon(t, partner.CouponTerms{
			DiscountType: partner.DiscountTypeFlat, Value: decimal.NewFromInt(10), ValidTo: &validTo,
		}), nil)

		_, err := svc.Validate(ctx, tenantID, ValidateCouponRequest{Code: "SAVE10", OrderAmount: decimal.NewFromInt(100)})

		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("unknown code", func(t *testing.T) {
		svc, repo := newCouponService(now)
		repo.On("FindByCode", ctx, tenantID, "NOPE").Return(nil, shared.ErrNotFound)

		_, err := svc.Validate(ctx, tenantID, ValidateCouponRequest{Code: "nope"})

		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestCouponService_Update(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc, repo := newCouponService(time.Now())
	c, err := partner.NewCoupon(tenantID, "FLAT50", partner.CouponTerms{DiscountType: partner.DiscountTypeFlat, Value: decimal.NewFromInt(50)})
	require.NoError(t, err)
	c.UsedCount = 3
	repo.On("FindByIDForTenant", ctx, tenantID, c.ID).Return(c, nil)
	repo.On("Save", ctx, c).Return(nil)

	resp, err := svc.Update(ctx, tenantID, c.ID, CouponRequest{Code: "IGNORED", DiscountType: "flat", Value: decimal.NewFromInt(75), Status: "inactive"})

	require.NoError(t, err)
	assert.Equal(t, "FLAT50", resp.Code)
	assert.Equal(t, 3, resp.UsedCount)
	assert.True(t, resp.Value.Equal(decimal.NewFromInt(75)))
	assert.Equal(t, partner.CouponStatusInactive, resp.Status)
}
