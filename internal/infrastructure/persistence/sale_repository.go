package persistence

import (
	"context"

	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/foodcourt/pos/internal/domain/trade"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSaleRepository implements trade.SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

func (r *GormSaleRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") })
}

// FindByIDForTenant finds a bill with its lines
func (r *GormSaleRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.Sale, error) {
	var sale trade.Sale
	if err := r.withItems(ctx).
		Scopes(ForTenant(tenantID)).
		Where("id = ?", id).
		First(&sale).Error; err != nil {
		return nil, translateError(err)
	}
	return &sale, nil
}

// FindByBillNumber finds a bill by its number
func (r *GormSaleRepository) FindByBillNumber(ctx context.Context, tenantID uuid.UUID, billNumber string) (*trade.Sale, error) {
	var sale trade.Sale
	if err := r.withItems(ctx).
		Scopes(ForTenant(tenantID)).
		Where("bill_number = ?", billNumber).
		First(&sale).Error; err != nil {
		return nil, translateError(err)
	}
	return &sale, nil
}

// FindAllForTenant finds all bills for a tenant
func (r *GormSaleRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.Sale, error) {
	var sales []trade.Sale
	query := r.applyFilterWithoutPagination(r.withItems(ctx).Model(&trade.Sale{}).Scopes(ForTenant(tenantID)), filter)
	query = paginate(query, filter)
	query = orderBy(query, filter, SaleSortFields, "sale_date", "desc")

	if err := query.Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

// CountForTenant counts bills for a tenant
func (r *GormSaleRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&trade.Sale{}).Scopes(ForTenant(tenantID)), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save writes the bill and its lines
func (r *GormSaleRepository) Save(ctx context.Context, sale *trade.Sale) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(sale).Error; err != nil {
			return translateError(err)
		}

		ids := make([]uuid.UUID, len(sale.Items))
		for i := range sale.Items {
			sale.Items[i].SaleID = sale.ID
			ids[i] = sale.Items[i].ID
		}
		if err := deleteStaleLines(tx, &trade.SaleItem{}, "sale_id", sale.ID, ids); err != nil {
			return err
		}
		if len(sale.Items) == 0 {
			return nil
		}
		return tx.Save(&sale.Items).Error
	})
}

// DeleteForTenant hard-deletes a bill and its lines
func (r *GormSaleRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Scopes(ForTenant(tenantID)).Delete(&trade.Sale{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Where("sale_id = ?", id).Delete(&trade.SaleItem{}).Error
	})
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormSaleRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchAny(query, filter.Search, "bill_number", "customer_name", "customer_mobile")

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "payment_status":
			query = query.Where("payment_status = ?", value)
		case "bill_type":
			query = query.Where("bill_type = ?", value)
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "referrer_id":
			query = query.Where("referrer_id = ?", value)
		}
	}
	return dateRange(query, "sale_date", filter.Filters)
}

// Ensure GormSaleRepository implements SaleRepository
var _ trade.SaleRepository = (*GormSaleRepository)(nil)
