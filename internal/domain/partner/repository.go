package partner

import (
	"context"

	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/google/uuid"
)

// PartyRepository persists parties.
// Filter keys: "type", "status". Search matches name, mobile and GSTIN.
type PartyRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Party, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Party, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, party *Party) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// PointLedgerRepository appends and lists referrer point entries
type PointLedgerRepository interface {
	Append(ctx context.Context, entry *ReferrerPointEntry) error
	FindByReferrer(ctx context.Context, tenantID, referrerID uuid.UUID, filter shared.Filter) ([]ReferrerPointEntry, int64, error)
	FindBySale(ctx context.Context, tenantID, saleID uuid.UUID) ([]ReferrerPointEntry, error)
}

// CouponRepository persists coupons.
// Filter keys: "status". Search matches code and description.
type CouponRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Coupon, error)
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Coupon, error)
	// FindByCodeForUpdate locks the coupon row until the surrounding transaction ends
	FindByCodeForUpdate(ctx context.Context, tenantID uuid.UUID, code string) (*Coupon, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Coupon, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string, excludeID *uuid.UUID) (bool, error)
	Save(ctx context.Context, coupon *Coupon) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
