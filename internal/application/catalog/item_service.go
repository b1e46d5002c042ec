package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	appshared "github.com/foodcourt/pos/internal/application/shared"
	"github.com/foodcourt/pos/internal/domain/catalog"
	"github.com/foodcourt/pos/internal/domain/inventory"
	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OpeningStockReason is the ledger reason of the stock an item is created with
const OpeningStockReason = "opening stock"

// MaxImageSize is the largest accepted item image in bytes
const MaxImageSize = 5 << 20

// AllowedImageTypes is the whitelist of image content types. SVG is excluded
// because it can carry script.
var AllowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ImageStorage is the object store holding item images.
// It is implemented by the infrastructure layer (S3 or a local stub).
type ImageStorage interface {
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
	DeleteObject(ctx context.Context, storageKey string) error
}

// ItemService handles the item catalog
type ItemService struct {
	txScope         appshared.TransactionScope
	itemRepo        catalog.ItemRepository
	categoryRepo    catalog.CategoryRepository
	brandRepo       catalog.BrandRepository
	subCategoryRepo catalog.SubCategoryRepository
	storage         ImageStorage
	logger          *zap.Logger
	eventPublisher  shared.EventPublisher
	imageURLExpiry  time.Duration
}

// NewItemService creates a new ItemService
func NewItemService(
	txScope appshared.TransactionScope,
	itemRepo catalog.ItemRepository,
	categoryRepo catalog.CategoryRepository,
	brandRepo catalog.BrandRepository,
	subCategoryRepo catalog.SubCategoryRepository,
	storage ImageStorage,
	logger *zap.Logger,
) *ItemService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ItemService{
		txScope:         txScope,
		itemRepo:        itemRepo,
		categoryRepo:    categoryRepo,
		brandRepo:       brandRepo,
		subCategoryRepo: subCategoryRepo,
		storage:         storage,
		logger:          logger,
		imageURLExpiry:  time.Hour,
	}
}

// SetImageURLExpiry sets the lifetime of generated image URLs
func (s *ItemService) SetImageURLExpiry(d time.Duration) {
	if d > 0 {
		s.imageURLExpiry = d
	}
}

// SetEventPublisher sets the event publisher for item events
func (s *ItemService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create adds an item. A positive opening stock is written together with an
// opening stock ledger row in the same transaction.
func (s *ItemService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreateItemRequest) (*ItemResponse, error) {
	if err := s.ensureNameFree(ctx, tenantID, req.Name, nil); err != nil {
		return nil, err
	}
	if req.OpeningStock.IsNegative() {
		return nil, shared.NewValidationError("opening stock cannot be negative")
	}

	item, err := catalog.NewItem(tenantID, req.Name, req.Unit, req.Price.toDomain())
	if err != nil {
		return nil, err
	}
	item.Code = strings.TrimSpace(req.Code)
	item.Description = strings.TrimSpace(req.Description)
	if err := item.SetStockLevels(req.MinimumStock, req.MaximumStock); err != nil {
		return nil, err
	}
	if err := s.applyAssignments(ctx, item, req.CategoryIDs, req.BrandID, req.SubCategoryID); err != nil {
		return nil, err
	}
	item.SetCreatedBy(userID)

	var opening *inventory.StockAdjustment
	if req.OpeningStock.IsPositive() {
		before, after, err := item.IncreaseStock(req.OpeningStock)
		if err != nil {
			return nil, err
		}
		opening, err = inventory.NewStockAdjustment(tenantID, item.ID, item.Name,
			inventory.AdjustmentOpeningStock, req.OpeningStock, before, after, OpeningStockReason)
		if err != nil {
			return nil, err
		}
		opening.WithActor(userID)
	}

	err = s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		if err := repos.Items().Save(ctx, item); err != nil {
			return err
		}
		if opening != nil {
			if err := repos.Adjustments().Append(ctx, opening); err != nil {
				return fmt.Errorf("append opening stock: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, item)
	if opening != nil && s.eventPublisher != nil {
		// Publish errors are logged by the event bus
		_ = s.eventPublisher.Publish(ctx, inventory.NewStockAdjustedEvent(opening))
	}
	resp := ToItemResponse(item)
	return &resp, nil
}

func (s *ItemService) ensureNameFree(ctx context.Context, tenantID uuid.UUID, name string, excludeID *uuid.UUID) error {
	exists, err := s.itemRepo.ExistsByName(ctx, tenantID, strings.TrimSpace(name), excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError(shared.CodeAlreadyExists, fmt.Sprintf("Item with name '%s' already exists", strings.TrimSpace(name)))
	}
	return nil
}

// applyAssignments replaces categories and sets brand and subcategory after
// checking that each referenced entity belongs to the tenant
func (s *ItemService) applyAssignments(ctx context.Context, item *catalog.Item, categoryIDs []uuid.UUID, brandID, subCategoryID *uuid.UUID) error {
	categories, err := s.loadCategories(ctx, item.TenantID, categoryIDs)
	if err != nil {
		return err
	}
	item.ReplaceCategories(categories)

	if brandID != nil {
		if _, err := s.brandRepo.FindByIDForTenant(ctx, item.TenantID, *brandID); err != nil {
			return err
		}
	}
	item.SetBrand(brandID)

	if subCategoryID != nil {
		if _, err := s.subCategoryRepo.FindByIDForTenant(ctx, item.TenantID, *subCategoryID); err != nil {
			return err
		}
	}
	item.SetSubCategory(subCategoryID)
	return nil
}

func (s *ItemService) loadCategories(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	categories, err := s.categoryRepo.FindByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}
	found := make(map[uuid.UUID]bool, len(categories))
	for _, c := range categories {
		found[c.ID] = true
	}
	for _, id := range ids {
		if !found[id] {
			return nil, shared.NewNotFoundError("Category", id)
		}
	}
	return categories, nil
}

// GetByID returns one item with download links for its images
func (s *ItemService) GetByID(ctx context.Context, tenantID, itemID uuid.UUID) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByIDForTenant(ctx, tenantID, itemID)
	if err != nil {
		return nil, err
	}
	resp := ToItemResponse(item)
	if s.storage != nil {
		for i, img := range item.Images {
			url, _, err := s.storage.GenerateDownloadURL(ctx, img.StorageKey, s.imageURLExpiry)
			if err != nil {
				s.logger.Warn("failed to sign item image url",
					zap.String("item_id", item.ID.String()),
					zap.String("storage_key", img.StorageKey),
					zap.Error(err))
				continue
			}
			resp.Images[i].URL = url
		}
	}
	return &resp, nil
}

// List returns a page of items ordered by name
func (s *ItemService) List(ctx context.Context, tenantID uuid.UUID, filter ItemListFilter) ([]ItemResponse, int64, error) {
	domainFilter := listFilter(filter.Page, filter.Limit, filter.Search)
	domainFilter.OrderBy = "name"
	domainFilter.OrderDir = "asc"
	if filter.Status != "" {
		if !catalog.ItemStatus(filter.Status).IsValid() {
			return nil, 0, shared.NewDomainError(shared.CodeInvalidStatus, fmt.Sprintf("Invalid status '%s'", filter.Status))
		}
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.CategoryID != nil {
		domainFilter.Filters["category_id"] = *filter.CategoryID
	}
	if filter.BrandID != nil {
		domainFilter.Filters["brand_id"] = *filter.BrandID
	}
	if filter.SubCategoryID != nil {
		domainFilter.Filters["sub_category_id"] = *filter.SubCategoryID
	}
	if filter.LowStock {
		domainFilter.Filters["low_stock"] = true
	}

	items, err := s.itemRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.itemRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToItemResponses(items), total, nil
}

// Update replaces the item's details, thresholds and assignments
func (s *ItemService) Update(ctx context.Context, tenantID, itemID uuid.UUID, req UpdateItemRequest) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByIDForTenant(ctx, tenantID, itemID)
	if err != nil {
		return nil, err
	}
	version := item.Version
	if !strings.EqualFold(strings.TrimSpace(req.Name), item.Name) {
		if err := s.ensureNameFree(ctx, tenantID, req.Name, &item.ID); err != nil {
			return nil, err
		}
	}
	if err := item.Update(req.Name, req.Code, req.Description, req.Unit, req.Price.toDomain()); err != nil {
		return nil, err
	}
	minimum, maximum := item.Stock.MinimumStock, item.Stock.MaximumStock
	if req.MinimumStock != nil {
		minimum = *req.MinimumStock
	}
	if req.MaximumStock != nil {
		maximum = *req.MaximumStock
	}
	if err := item.SetStockLevels(minimum, maximum); err != nil {
		return nil, err
	}
	if req.Status != "" {
		if err := item.SetStatus(catalog.ItemStatus(req.Status)); err != nil {
			return nil, err
		}
	}
	if err := s.applyAssignments(ctx, item, req.CategoryIDs, req.BrandID, req.SubCategoryID); err != nil {
		return nil, err
	}
	if err := s.itemRepo.SaveWithLock(ctx, item, version); err != nil {
		return nil, err
	}
	s.publish(ctx, item)
	resp := ToItemResponse(item)
	return &resp, nil
}

// AssignCategories replaces the categories of one item
func (s *ItemService) AssignCategories(ctx context.Context, tenantID, itemID uuid.UUID, req AssignCategoriesRequest) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByIDForTenant(ctx, tenantID, itemID)
	if err != nil {
		return nil, err
	}
	version := item.Version
	categories, err := s.loadCategories(ctx, tenantID, req.CategoryIDs)
	if err != nil {
		return nil, err
	}
	item.ReplaceCategories(categories)
	if err := s.itemRepo.SaveWithLock(ctx, item, version); err != nil {
		return nil, err
	}
	resp := ToItemResponse(item)
	return &resp, nil
}

// Delete removes an item, its category links and its stored images
func (s *ItemService) Delete(ctx context.Context, tenantID, itemID uuid.UUID) error {
	item, err := s.itemRepo.FindByIDForTenant(ctx, tenantID, itemID)
	if err != nil {
		return err
	}
	item.MarkDeleted()
	if err := s.itemRepo.DeleteForTenant(ctx, tenantID, itemID); err != nil {
		return err
	}
	for _, img := range item.Images {
		s.deleteObject(ctx, img.StorageKey)
	}
	s.publish(ctx, item)
	return nil
}

// UploadImage stores an image under items/<tenant>/<item>/<uuid><ext> and attaches it
func (s *ItemService) UploadImage(ctx context.Context, tenantID, itemID uuid.UUID, fileName, contentType string, data []byte) (*ImageResponse, error) {
	if s.storage == nil {
		return nil, shared.NewDomainError(shared.CodeInvalidState, "Image storage is not configured")
	}
	contentType = strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	if !AllowedImageTypes[contentType] {
		return nil, shared.NewValidationError("content type %q is not an allowed image type", contentType)
	}
	if len(data) == 0 {
		return nil, shared.NewValidationError("image file is empty")
	}
	if len(data) > MaxImageSize {
		return nil, shared.NewValidationError("image exceeds %d bytes", MaxImageSize)
	}

	item, err := s.itemRepo.FindByIDForTenant(ctx, tenantID, itemID)
	if err != nil {
		return nil, err
	}

	version := item.Version
	key := ImageKey(tenantID, itemID, fileName)
	if err := s.storage.Upload(ctx, key, data, contentType); err != nil {
		return nil, fmt.Errorf("upload item image: %w", err)
	}
	img, err := item.AddImage(key, filepath.Base(fileName), contentType, int64(len(data)))
	if err != nil {
		s.deleteObject(ctx, key)
		return nil, err
	}
	if err := s.itemRepo.SaveWithLock(ctx, item, version); err != nil {
		s.deleteObject(ctx, key)
		return nil, err
	}

	resp := ImageResponse{
		ID:          img.ID,
		FileName:    img.FileName,
		ContentType: img.ContentType,
		FileSize:    img.FileSize,
		CreatedAt:   img.CreatedAt,
	}
	if url, _, err := s.storage.GenerateDownloadURL(ctx, key, s.imageURLExpiry); err == nil {
		resp.URL = url
	}
	return &resp, nil
}

// DeleteImage detaches one image and removes the stored object
func (s *ItemService) DeleteImage(ctx context.Context, tenantID, itemID, imageID uuid.UUID) error {
	item, err := s.itemRepo.FindByIDForTenant(ctx, tenantID, itemID)
	if err != nil {
		return err
	}
	version := item.Version
	removed, err := item.RemoveImage(imageID)
	if err != nil {
		return err
	}
	if err := s.itemRepo.SaveWithLock(ctx, item, version); err != nil {
		return err
	}
	s.deleteObject(ctx, removed.StorageKey)
	return nil
}

// ImageKey builds the storage key of a new item image
func ImageKey(tenantID, itemID uuid.UUID, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return fmt.Sprintf("items/%s/%s/%s%s", tenantID, itemID, uuid.New(), ext)
}

// deleteObject removes a stored object; failures leave an orphan that is only logged
func (s *ItemService) deleteObject(ctx context.Context, key string) {
	if s.storage == nil {
		return
	}
	if err := s.storage.DeleteObject(ctx, key); err != nil {
		s.logger.Warn("failed to delete item image",
			zap.String("storage_key", key),
			zap.Error(err))
	}
}

func (s *ItemService) publish(ctx context.Context, item *catalog.Item) {
	// Publish errors are logged by the event bus
	_ = shared.PublishAndClear(ctx, s.eventPublisher, item)
}

func listFilter(page, limit int, search string) shared.Filter {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return shared.Filter{
		Page:     page,
		PageSize: limit,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Search:   strings.TrimSpace(search),
		Filters:  make(map[string]interface{}),
	}
}
