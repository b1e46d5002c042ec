package persistence

import (
	"context"

	"github.com/foodcourt/pos/internal/domain/inventory"
	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRackRepository implements inventory.RackRepository using GORM
type GormRackRepository struct {
	db *gorm.DB
}

// NewGormRackRepository creates a new GormRackRepository
func NewGormRackRepository(db *gorm.DB) *GormRackRepository {
	return &GormRackRepository{db: db}
}

// SaveRack creates or updates a rack
func (r *GormRackRepository) SaveRack(ctx context.Context, rack *inventory.Rack) error {
	return translateError(r.db.WithContext(ctx).Save(rack).Error)
}

// FindRack finds a rack by ID within a tenant
func (r *GormRackRepository) FindRack(ctx context.Context, tenantID, id uuid.UUID) (*inventory.Rack, error) {
	var rack inventory.Rack
	if err := r.db.WithContext(ctx).
		Scopes(ForTenant(tenantID)).
		Where("id = ?", id).
		First(&rack).Error; err != nil {
		return nil, translateError(err)
	}
	return &rack, nil
}

// FindRacks lists the racks of a tenant by name
func (r *GormRackRepository) FindRacks(ctx context.Context, tenantID uuid.UUID) ([]inventory.Rack, error) {
	var racks []inventory.Rack
	if err := r.db.WithContext(ctx).
		Scopes(ForTenant(tenantID)).
		Order("name ASC").
		Find(&racks).Error; err != nil {
		return nil, err
	}
	return racks, nil
}

// DeleteRack deletes a rack and its stock buckets
func (r *GormRackRepository) DeleteRack(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Scopes(ForTenant(tenantID)).Delete(&inventory.Rack{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Scopes(ForTenant(tenantID)).Where("rack_id = ?", id).Delete(&inventory.RackStock{}).Error
	})
}

// SaveStock creates or updates a rack stock bucket
func (r *GormRackRepository) SaveStock(ctx context.Context, stock *inventory.RackStock) error {
	return translateError(r.db.WithContext(ctx).Save(stock).Error)
}

// FindStock finds a rack stock bucket by ID
func (r *GormRackRepository) FindStock(ctx context.Context, tenantID, id uuid.UUID) (*inventory.RackStock, error) {
	return r.findStock(r.db.WithContext(ctx), tenantID, id)
}

// FindStockForUpdate finds a rack stock bucket and locks its row
func (r *GormRackRepository) FindStockForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*inventory.RackStock, error) {
	return r.findStock(forUpdate(r.db.WithContext(ctx)), tenantID, id)
}

func (r *GormRackRepository) findStock(db *gorm.DB, tenantID, id uuid.UUID) (*inventory.RackStock, error) {
	var stock inventory.RackStock
	if err := db.
		Scopes(ForTenant(tenantID)).
		Where("id = ?", id).
		First(&stock).Error; err != nil {
		return nil, translateError(err)
	}
	return &stock, nil
}

// FindStockByRack lists the buckets of a rack by item name
func (r *GormRackRepository) FindStockByRack(ctx context.Context, tenantID, rackID uuid.UUID) ([]inventory.RackStock, error) {
	var stocks []inventory.RackStock
	if err := r.db.WithContext(ctx).
		Scopes(ForTenant(tenantID)).
		Where("rack_id = ?", rackID).
		Order("item_name ASC").
		Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

// FindStockByRackAndItem finds the bucket of one item on one rack
func (r *GormRackRepository) FindStockByRackAndItem(ctx context.Context, tenantID, rackID, itemID uuid.UUID) (*inventory.RackStock, error) {
	var stock inventory.RackStock
	if err := r.db.WithContext(ctx).
		Scopes(ForTenant(tenantID)).
		Where("rack_id = ? AND item_id = ?", rackID, itemID).
		First(&stock).Error; err != nil {
		return nil, translateError(err)
	}
	return &stock, nil
}

// Ensure GormRackRepository implements RackRepository
var _ inventory.RackRepository = (*GormRackRepository)(nil)
