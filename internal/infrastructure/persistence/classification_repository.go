package persistence

import (
	"context"
	"strings"

	"github.com/foodcourt/pos/internal/domain/catalog"
	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// itemLink describes how items point at one kind of classification: either through
// the item_categories join table or through a nullable column on items.
type itemLink struct {
	joinTable  bool
	itemColumn string
}

// GormClassificationRepository implements catalog.ClassificationRepository for
// categories, subcategories and brands
type GormClassificationRepository[T catalog.Classification] struct {
	db         *gorm.DB
	link       itemLink
	sortFields sortColumns
}

// NewGormCategoryRepository creates the category repository
func NewGormCategoryRepository(db *gorm.DB) *GormClassificationRepository[catalog.Category] {
	return &GormClassificationRepository[catalog.Category]{
		db:         db,
		link:       itemLink{joinTable: true},
		sortFields: ClassificationSortFields,
	}
}

// NewGormSubCategoryRepository creates the subcategory repository
func NewGormSubCategoryRepository(db *gorm.DB) *GormClassificationRepository[catalog.SubCategory] {
	return &GormClassificationRepository[catalog.SubCategory]{
		db:         db,
		link:       itemLink{itemColumn: "sub_category_id"},
		sortFields: ClassificationSortFields.without("sort_order"),
	}
}

// NewGormBrandRepository creates the brand repository
func NewGormBrandRepository(db *gorm.DB) *GormClassificationRepository[catalog.Brand] {
	return &GormClassificationRepository[catalog.Brand]{
		db:         db,
		link:       itemLink{itemColumn: "brand_id"},
		sortFields: ClassificationSortFields.without("sort_order"),
	}
}

// FindByIDForTenant finds an entity by ID within a tenant
func (r *GormClassificationRepository[T]) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*T, error) {
	var entity T
	if err := r.db.WithContext(ctx).
		Scopes(ForTenant(tenantID)).
		Where("id = ?", id).
		First(&entity).Error; err != nil {
		return nil, translateError(err)
	}
	return &entity, nil
}

// FindByIDs finds multiple entities by their IDs
func (r *GormClassificationRepository[T]) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]T, error) {
	if len(ids) == 0 {
		return []T{}, nil
	}
	var entities []T
	if err := r.db.WithContext(ctx).
		Scopes(ForTenant(tenantID)).
		Where("id IN ?", ids).
		Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

// FindAllForTenant finds all entities for a tenant
func (r *GormClassificationRepository[T]) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]T, error) {
	var entities []T
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(new(T)).Scopes(ForTenant(tenantID)), filter)
	query = paginate(query, filter)
	query = orderBy(query, filter, r.sortFields, "name", "asc")

	if err := query.Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

// CountForTenant counts entities for a tenant
func (r *GormClassificationRepository[T]) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(new(T)).Scopes(ForTenant(tenantID)), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByName checks for another entity with the same name, ignoring case
func (r *GormClassificationRepository[T]) ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(new(T)).
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

type itemCountRow struct {
	ID        uuid.UUID
	ItemCount int64
}

// CountItems returns the number of items assigned to each of the given ids.
// Ids without items are present with a zero count.
func (r *GormClassificationRepository[T]) CountItems(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}
	for _, id := range ids {
		counts[id] = 0
	}

	var rows []itemCountRow
	var query *gorm.DB
	if r.link.joinTable {
		query = r.db.WithContext(ctx).
			Table("item_categories").
			Select("item_categories.category_id AS id, COUNT(*) AS item_count").
			Joins("JOIN items ON items.id = item_categories.item_id").
			Where("items.tenant_id = ? AND item_categories.category_id IN ?", tenantID, ids).
			Group("item_categories.category_id")
	} else {
		col := r.link.itemColumn
		query = r.db.WithContext(ctx).
			Table("items").
			Select(col+" AS id, COUNT(*) AS item_count").
			Where("tenant_id = ? AND "+col+" IN ?", tenantID, ids).
			Group(col)
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.ID] = row.ItemCount
	}
	return counts, nil
}

// Save creates or updates an entity
func (r *GormClassificationRepository[T]) Save(ctx context.Context, entity *T) error {
	return translateError(r.db.WithContext(ctx).Save(entity).Error)
}

// DeleteForTenant removes the entity and detaches it from every item
func (r *GormClassificationRepository[T]) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Scopes(ForTenant(tenantID)).Delete(new(T), "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}

		if r.link.joinTable {
			return tx.Where("category_id = ?", id).Delete(&catalog.ItemCategory{}).Error
		}
		return tx.Model(&catalog.Item{}).
			Scopes(ForTenant(tenantID)).
			Where(r.link.itemColumn+" = ?", id).
			Updates(map[string]interface{}{
				r.link.itemColumn: nil,
				"version":         gorm.Expr("version + 1"),
			}).Error
	})
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormClassificationRepository[T]) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchAny(query, filter.Search, "name", "description")
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "category_id":
			query = query.Where("category_id = ?", value)
		}
	}
	return query
}

// Ensure the classification repositories implement their interfaces
var (
	_ catalog.CategoryRepository    = (*GormClassificationRepository[catalog.Category])(nil)
	_ catalog.SubCategoryRepository = (*GormClassificationRepository[catalog.SubCategory])(nil)
	_ catalog.BrandRepository       = (*GormClassificationRepository[catalog.Brand])(nil)
)
