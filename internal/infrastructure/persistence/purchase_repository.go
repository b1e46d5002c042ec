package persistence

import (
	"context"

	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/foodcourt/pos/internal/domain/trade"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPurchaseRepository implements trade.PurchaseRepository using GORM
type GormPurchaseRepository struct {
	db *gorm.DB
}

// NewGormPurchaseRepository creates a new GormPurchaseRepository
func NewGormPurchaseRepository(db *gorm.DB) *GormPurchaseRepository {
	return &GormPurchaseRepository{db: db}
}

func (r *GormPurchaseRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") })
}

// FindByIDForTenant finds a purchase with its lines
func (r *GormPurchaseRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.Purchase, error) {
	var purchase trade.Purchase
	if err := r.withItems(ctx).
		Scopes(ForTenant(tenantID)).
		Where("id = ?", id).
		First(&purchase).Error; err != nil {
		return nil, translateError(err)
	}
	return &purchase, nil
}

// FindAllForTenant finds all purchases for a tenant
func (r *GormPurchaseRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.Purchase, error) {
	var purchases []trade.Purchase
	query := r.applyFilterWithoutPagination(r.withItems(ctx).Model(&trade.Purchase{}).Scopes(ForTenant(tenantID)), filter)
	query = paginate(query, filter)
	query = orderBy(query, filter, PurchaseSortFields, "purchase_date", "desc")

	if err := query.Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}

// CountForTenant counts purchases for a tenant
func (r *GormPurchaseRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&trade.Purchase{}).Scopes(ForTenant(tenantID)), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save writes the purchase and its lines
func (r *GormPurchaseRepository) Save(ctx context.Context, purchase *trade.Purchase) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(purchase).Error; err != nil {
			return translateError(err)
		}

		ids := make([]uuid.UUID, len(purchase.Items))
		for i := range purchase.Items {
			purchase.Items[i].PurchaseID = purchase.ID
			ids[i] = purchase.Items[i].ID
		}
		if err := deleteStaleLines(tx, &trade.PurchaseItem{}, "purchase_id", purchase.ID, ids); err != nil {
			return err
		}
		if len(purchase.Items) == 0 {
			return nil
		}
		return tx.Save(&purchase.Items).Error
	})
}

// DeleteForTenant hard-deletes a purchase and its lines
func (r *GormPurchaseRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Scopes(ForTenant(tenantID)).Delete(&trade.Purchase{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Where("purchase_id = ?", id).Delete(&trade.PurchaseItem{}).Error
	})
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormPurchaseRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchAny(query, filter.Search, "purchase_number", "vendor_name", "invoice_number")

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "payment_status":
			query = query.Where("payment_status = ?", value)
		case "vendor_id":
			query = query.Where("vendor_id = ?", value)
		}
	}
	return dateRange(query, "purchase_date", filter.Filters)
}

// Ensure GormPurchaseRepository implements PurchaseRepository
var _ trade.PurchaseRepository = (*GormPurchaseRepository)(nil)
