package persistence

import (
	"context"

	"github.com/foodcourt/pos/internal/domain/inventory"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStockAdjustmentRepository implements inventory.StockAdjustmentRepository.
// The ledger is append-only: rows are inserted and listed, never updated.
type GormStockAdjustmentRepository struct {
	db *gorm.DB
}

// NewGormStockAdjustmentRepository creates a new GormStockAdjustmentRepository
func NewGormStockAdjustmentRepository(db *gorm.DB) *GormStockAdjustmentRepository {
	return &GormStockAdjustmentRepository{db: db}
}

// Append inserts the entries in one statement
func (r *GormStockAdjustmentRepository) Append(ctx context.Context, entries ...*inventory.StockAdjustment) error {
	if len(entries) == 0 {
		return nil
	}
	return translateError(r.db.WithContext(ctx).Create(entries).Error)
}

// FindForTenant lists ledger entries with the total count of the filtered set.
// EndDate is a calendar day and is inclusive.
func (r *GormStockAdjustmentRepository) FindForTenant(ctx context.Context, tenantID uuid.UUID, filter inventory.AdjustmentFilter) ([]inventory.StockAdjustment, int64, error) {
	query := r.db.WithContext(ctx).Model(&inventory.StockAdjustment{}).Scopes(ForTenant(tenantID))
	query = searchAny(query, filter.Search, "item_name", "reason", "reference")
	if filter.ItemID != nil {
		query = query.Where("item_id = ?", *filter.ItemID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.StartDate != nil {
		query = query.Where("created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("created_at < ?", filter.EndDate.AddDate(0, 0, 1))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []inventory.StockAdjustment
	query = paginate(query, filter.Filter)
	query = orderBy(query, filter.Filter, StockAdjustmentSortFields, "created_at", "desc")
	if err := query.Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// Ensure GormStockAdjustmentRepository implements StockAdjustmentRepository
var _ inventory.StockAdjustmentRepository = (*GormStockAdjustmentRepository)(nil)
