package persistence

import (
	"context"
	"strings"

	"github.com/foodcourt/pos/internal/domain/catalog"
	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormItemRepository implements catalog.ItemRepository using GORM
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GormItemRepository
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

func (r *GormItemRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Categories", func(db *gorm.DB) *gorm.DB { return db.Order("categories.name ASC") }).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") })
}

// FindByIDForTenant finds an item with its categories and images
func (r *GormItemRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Item, error) {
	var item catalog.Item
	if err := r.withRelations(ctx).
		Scopes(ForTenant(tenantID)).
		Where("id = ?", id).
		First(&item).Error; err != nil {
		return nil, translateError(err)
	}
	return &item, nil
}

// FindByIDForUpdate loads the item and locks its row until the transaction ends
func (r *GormItemRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Item, error) {
	var item catalog.Item
	if err := forUpdate(r.db.WithContext(ctx)).
		Scopes(ForTenant(tenantID)).
		Where("id = ?", id).
		First(&item).Error; err != nil {
		return nil, translateError(err)
	}
	return &item, nil
}

// FindByIDs finds multiple items by their IDs
func (r *GormItemRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.Item, error) {
	if len(ids) == 0 {
		return []catalog.Item{}, nil
	}

	var items []catalog.Item
	if err := r.withRelations(ctx).
		Scopes(ForTenant(tenantID)).
		Where("id IN ?", ids).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindAllForTenant finds all items for a tenant
func (r *GormItemRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Item, error) {
	var items []catalog.Item
	query := r.applyFilter(r.withRelations(ctx).Model(&catalog.Item{}).Scopes(ForTenant(tenantID)), filter)

	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// CountForTenant counts items for a tenant
func (r *GormItemRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&catalog.Item{}).Scopes(ForTenant(tenantID))
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByName checks for another item with the same name, ignoring case
func (r *GormItemRepository) ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&catalog.Item{}).
		Scopes(ForTenant(tenantID)).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name)))
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save inserts a new item row with its category join rows and image rows
func (r *GormItemRepository) Save(ctx context.Context, item *catalog.Item) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(item).Error; err != nil {
			return translateError(err)
		}
		return r.syncRelations(tx, item)
	})
}

// SaveWithLock updates the item row when its version is still expectedVersion,
// then replaces its category join rows and syncs its image rows. The stock
// balance column belongs to SaveStock and is never written here.
func (r *GormItemRepository) SaveWithLock(ctx context.Context, item *catalog.Item, expectedVersion int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item.Version = expectedVersion + 1
		if err := updateWithVersion(tx, item, item.TenantID, item.ID, expectedVersion, "stock_current_quantity"); err != nil {
			return err
		}
		return r.syncRelations(tx, item)
	})
}

func (r *GormItemRepository) syncRelations(tx *gorm.DB, item *catalog.Item) error {
	if err := tx.Where("item_id = ?", item.ID).Delete(&catalog.ItemCategory{}).Error; err != nil {
		return err
	}
	if len(item.Categories) > 0 {
		links := make([]catalog.ItemCategory, len(item.Categories))
		for i, c := range item.Categories {
			links[i] = catalog.ItemCategory{ItemID: item.ID, CategoryID: c.ID}
		}
		if err := tx.Create(&links).Error; err != nil {
			return translateError(err)
		}
	}

	keep := make([]uuid.UUID, 0, len(item.Images))
	for i := range item.Images {
		item.Images[i].ItemID = item.ID
		item.Images[i].TenantID = item.TenantID
		keep = append(keep, item.Images[i].ID)
	}
	if err := deleteStaleLines(tx, &catalog.ItemImage{}, "item_id", item.ID, keep); err != nil {
		return err
	}
	if len(item.Images) == 0 {
		return nil
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&item.Images).Error
}

// SaveStock writes only the stock counters and version
func (r *GormItemRepository) SaveStock(ctx context.Context, item *catalog.Item) error {
	result := r.db.WithContext(ctx).
		Model(&catalog.Item{}).
		Where("tenant_id = ? AND id = ?", item.TenantID, item.ID).
		Updates(map[string]interface{}{
			"stock_current_quantity": item.Stock.CurrentQuantity,
			"stock_minimum_stock":    item.Stock.MinimumStock,
			"stock_maximum_stock":    item.Stock.MaximumStock,
			"version":                item.Version,
			"updated_at":             item.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteForTenant deletes an item together with its join rows and image rows
func (r *GormItemRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Scopes(ForTenant(tenantID)).Delete(&catalog.Item{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		if err := tx.Where("item_id = ?", id).Delete(&catalog.ItemCategory{}).Error; err != nil {
			return err
		}
		return tx.Where("item_id = ?", id).Delete(&catalog.ItemImage{}).Error
	})
}

// AssignCategory links the category to every listed item of the tenant that is not
// linked yet and returns the number of new links
func (r *GormItemRepository) AssignCategory(ctx context.Context, tenantID, categoryID uuid.UUID, itemIDs []uuid.UUID) (int64, error) {
	ids, err := r.ownedIDs(ctx, tenantID, itemIDs)
	if err != nil || len(ids) == 0 {
		return 0, err
	}
	links := make([]catalog.ItemCategory, len(ids))
	for i, id := range ids {
		links[i] = catalog.ItemCategory{ItemID: id, CategoryID: categoryID}
	}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&links)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// RemoveCategory unlinks the category from the listed items
func (r *GormItemRepository) RemoveCategory(ctx context.Context, tenantID, categoryID uuid.UUID, itemIDs []uuid.UUID) (int64, error) {
	ids, err := r.ownedIDs(ctx, tenantID, itemIDs)
	if err != nil || len(ids) == 0 {
		return 0, err
	}
	result := r.db.WithContext(ctx).
		Where("category_id = ? AND item_id IN ?", categoryID, ids).
		Delete(&catalog.ItemCategory{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// SetBrand sets (or clears, with nil) the brand of the listed items
func (r *GormItemRepository) SetBrand(ctx context.Context, tenantID uuid.UUID, brandID *uuid.UUID, itemIDs []uuid.UUID) (int64, error) {
	return r.setColumn(ctx, tenantID, "brand_id", brandID, itemIDs)
}

// SetSubCategory sets (or clears, with nil) the subcategory of the listed items
func (r *GormItemRepository) SetSubCategory(ctx context.Context, tenantID uuid.UUID, subCategoryID *uuid.UUID, itemIDs []uuid.UUID) (int64, error) {
	return r.setColumn(ctx, tenantID, "sub_category_id", subCategoryID, itemIDs)
}

func (r *GormItemRepository) setColumn(ctx context.Context, tenantID uuid.UUID, column string, value *uuid.UUID, itemIDs []uuid.UUID) (int64, error) {
	if len(itemIDs) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Model(&catalog.Item{}).
		Scopes(ForTenant(tenantID)).
		Where("id IN ?", itemIDs).
		Updates(map[string]interface{}{
			column:    value,
			"version": gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ownedIDs keeps the ids that belong to the tenant, so join rows never cross tenants
func (r *GormItemRepository) ownedIDs(ctx context.Context, tenantID uuid.UUID, itemIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&catalog.Item{}).
		Scopes(ForTenant(tenantID)).
		Where("id IN ?", itemIDs).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// applyFilter applies filter options to the query
func (r *GormItemRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)
	query = paginate(query, filter)
	return orderBy(query, filter, ItemSortFields, "name", "asc")
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormItemRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchAny(query, filter.Search, "name", "code", "description")

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "category_id":
			query = query.Where("id IN (?)",
				r.db.Model(&catalog.ItemCategory{}).Select("item_id").Where("category_id = ?", value))
		case "brand_id":
			query = query.Where("brand_id = ?", value)
		case "sub_category_id":
			query = query.Where("sub_category_id = ?", value)
		case "low_stock":
			if value == true {
				query = query.Where("stock_minimum_stock > 0 AND stock_current_quantity <= stock_minimum_stock")
			}
		}
	}

	return query
}

// Ensure GormItemRepository implements ItemRepository
var _ catalog.ItemRepository = (*GormItemRepository)(nil)
