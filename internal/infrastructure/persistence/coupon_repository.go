package persistence

import (
	"context"

	"github.com/foodcourt/pos/internal/domain/partner"
	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCouponRepository implements partner.CouponRepository using GORM
type GormCouponRepository struct {
	db *gorm.DB
}

// NewGormCouponRepository creates a new GormCouponRepository
func NewGormCouponRepository(db *gorm.DB) *GormCouponRepository {
	return &GormCouponRepository{db: db}
}

// FindByIDForTenant finds a coupon by ID within a tenant
func (r *GormCouponRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Coupon, error) {
	var coupon partner.Coupon
	if err := r.db.WithContext(ctx).
		Scopes(ForTenant(tenantID)).
		Where("id = ?", id).
		First(&coupon).Error; err != nil {
		return nil, translateError(err)
	}
	return &coupon, nil
}

// FindByCode finds a coupon by its normalized code
func (r *GormCouponRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*partner.Coupon, error) {
	return r.findByCode(r.db.WithContext(ctx), tenantID, code)
}

// FindByCodeForUpdate finds a coupon by code and locks its row
func (r *GormCouponRepository) FindByCodeForUpdate(ctx context.Context, tenantID uuid.UUID, code string) (*partner.Coupon, error) {
	return r.findByCode(forUpdate(r.db.WithContext(ctx)), tenantID, code)
}

func (r *GormCouponRepository) findByCode(db *gorm.DB, tenantID uuid.UUID, code string) (*partner.Coupon, error) {
	var coupon partner.Coupon
	if err := db.
		Scopes(ForTenant(tenantID)).
		Where("code = ?", partner.NormalizeCouponCode(code)).
		First(&coupon).Error; err != nil {
		return nil, translateError(err)
	}
	return &coupon, nil
}

// FindAllForTenant finds all coupons for a tenant
func (r *GormCouponRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Coupon, error) {
	var coupons []partner.Coupon
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&partner.Coupon{}).Scopes(ForTenant(tenantID)), filter)
	query = paginate(query, filter)
	query = orderBy(query, filter, CouponSortFields, "created_at", "desc")

	if err := query.Find(&coupons).Error; err != nil {
		return nil, err
	}
	return coupons, nil
}

// CountForTenant counts coupons for a tenant
func (r *GormCouponRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&partner.Coupon{}).Scopes(ForTenant(tenantID)), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks for another coupon with the same code
func (r *GormCouponRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&partner.Coupon{}).
		Scopes(ForTenant(tenantID)).
		Where("code = ?", partner.NormalizeCouponCode(code))
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a coupon
func (r *GormCouponRepository) Save(ctx context.Context, coupon *partner.Coupon) error {
	return translateError(r.db.WithContext(ctx).Save(coupon).Error)
}

// DeleteForTenant hard-deletes a coupon
func (r *GormCouponRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Scopes(ForTenant(tenantID)).Delete(&partner.Coupon{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormCouponRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchAny(query, filter.Search, "code", "description")
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	return query
}

// Ensure GormCouponRepository implements CouponRepository
var _ partner.CouponRepository = (*GormCouponRepository)(nil)
