package catalog

import (
	"context"

	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/google/uuid"
)

// Classification is implemented by Category, SubCategory and Brand
type Classification interface {
	Category | SubCategory | Brand
}

// ClassificationRepository persists one kind of classification entity.
// Filter keys: "status".
type ClassificationRepository[T Classification] interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*T, error)
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]T, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]T, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error)
	// CountItems returns the number of items assigned to each of the given ids
	CountItems(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]int64, error)
	Save(ctx context.Context, entity *T) error
	// DeleteForTenant removes the entity and detaches it from every item
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// CategoryRepository persists categories
type CategoryRepository = ClassificationRepository[Category]

// SubCategoryRepository persists subcategories
type SubCategoryRepository = ClassificationRepository[SubCategory]

// BrandRepository persists brands
type BrandRepository = ClassificationRepository[Brand]

// ItemRepository persists items with their category assignments and images.
// Filter keys: "status", "category_id", "brand_id", "sub_category_id", "low_stock".
type ItemRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Item, error)
	// FindByIDForUpdate loads the item and locks its row until the transaction ends
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Item, error)
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Item, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Item, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error)

	// Save inserts a new item with its category join rows and image rows
	Save(ctx context.Context, item *Item) error
	// SaveWithLock updates an existing item when its stored version still equals
	// expectedVersion, and fails with ErrConcurrencyConflict otherwise. The stock
	// balance is left to SaveStock.
	SaveWithLock(ctx context.Context, item *Item, expectedVersion int) error
	// SaveStock writes only the stock counters and version
	SaveStock(ctx context.Context, item *Item) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	AssignCategory(ctx context.Context, tenantID, categoryID uuid.UUID, itemIDs []uuid.UUID) (int64, error)
	RemoveCategory(ctx context.Context, tenantID, categoryID uuid.UUID, itemIDs []uuid.UUID) (int64, error)
	SetBrand(ctx context.Context, tenantID uuid.UUID, brandID *uuid.UUID, itemIDs []uuid.UUID) (int64, error)
	SetSubCategory(ctx context.Context, tenantID uuid.UUID, subCategoryID *uuid.UUID, itemIDs []uuid.UUID) (int64, error)
}
