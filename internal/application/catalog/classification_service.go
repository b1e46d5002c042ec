package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/foodcourt/pos/internal/domain/catalog"
	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/google/uuid"
)

// classificationLister lists one kind of classification with item counts
type classificationLister[T catalog.Classification] struct {
	repo    catalog.ClassificationRepository[T]
	convert func(*T) ClassificationResponse
}

func (l classificationLister[T]) list(ctx context.Context, tenantID uuid.UUID, filter ClassificationListFilter, orderBy string) ([]ClassificationResponse, int64, error) {
	domainFilter := listFilter(filter.Page, filter.Limit, filter.Search)
	domainFilter.OrderBy = orderBy
	domainFilter.OrderDir = "asc"
	if filter.Status != "" {
		if !catalog.ClassificationStatus(filter.Status).IsValid() {
			return nil, 0, shared.NewDomainError(shared.CodeInvalidStatus, fmt.Sprintf("Invalid status '%s'", filter.Status))
		}
		domainFilter.Filters["status"] = filter.Status
	}

	entities, err := l.repo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := l.repo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ClassificationResponse, len(entities))
	ids := make([]uuid.UUID, len(entities))
	for i := range entities {
		responses[i] = l.convert(&entities[i])
		ids[i] = responses[i].ID
	}
	if len(ids) > 0 {
		counts, err := l.repo.CountItems(ctx, tenantID, ids)
		if err != nil {
			return nil, 0, err
		}
		for i := range responses {
			responses[i].ItemCount = counts[responses[i].ID]
		}
	}
	return responses, total, nil
}

func (l classificationLister[T]) get(ctx context.Context, tenantID, id uuid.UUID) (*ClassificationResponse, error) {
	entity, err := l.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := l.convert(entity)
	counts, err := l.repo.CountItems(ctx, tenantID, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	resp.ItemCount = counts[id]
	return &resp, nil
}

func (l classificationLister[T]) ensureNameFree(ctx context.Context, tenantID uuid.UUID, kind, name string, excludeID *uuid.UUID) error {
	name = strings.TrimSpace(name)
	exists, err := l.repo.ExistsByName(ctx, tenantID, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError(shared.CodeAlreadyExists, fmt.Sprintf("%s with name '%s' already exists", kind, name))
	}
	return nil
}

// CategoryService handles menu categories and their item assignments
type CategoryService struct {
	categoryRepo   catalog.CategoryRepository
	itemRepo       catalog.ItemRepository
	lister         classificationLister[catalog.Category]
	eventPublisher shared.EventPublisher
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo catalog.CategoryRepository, itemRepo catalog.ItemRepository) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		itemRepo:     itemRepo,
		lister:       classificationLister[catalog.Category]{repo: categoryRepo, convert: ToCategoryResponse},
	}
}

// SetEventPublisher sets the event publisher for category events
func (s *CategoryService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create adds a category; names are unique per tenant
func (s *CategoryService) Create(ctx context.Context, tenantID, userID uuid.UUID, req ClassificationRequest) (*ClassificationResponse, error) {
	if err := s.lister.ensureNameFree(ctx, tenantID, "Category", req.Name, nil); err != nil {
		return nil, err
	}
	category, err := catalog.NewCategory(tenantID, req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	category.SortOrder = req.SortOrder
	if req.Status != "" {
		category.Status = catalog.ClassificationStatus(req.Status)
	}
	category.SetCreatedBy(userID)
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	// Publish errors are logged by the event bus
	_ = shared.PublishAndClear(ctx, s.eventPublisher, category)
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// GetByID returns one category with its item count
func (s *CategoryService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ClassificationResponse, error) {
	return s.lister.get(ctx, tenantID, id)
}

// List returns a page of categories in display order
func (s *CategoryService) List(ctx context.Context, tenantID uuid.UUID, filter ClassificationListFilter) ([]ClassificationResponse, int64, error) {
	return s.lister.list(ctx, tenantID, filter, "sort_order")
}

// Update changes a category
func (s *CategoryService) Update(ctx context.Context, tenantID, id uuid.UUID, req ClassificationRequest) (*ClassificationResponse, error) {
	category, err := s.categoryRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(strings.TrimSpace(req.Name), category.Name) {
		if err := s.lister.ensureNameFree(ctx, tenantID, "Category", req.Name, &category.ID); err != nil {
			return nil, err
		}
	}
	if err := category.Update(req.Name, req.Description, catalog.ClassificationStatus(req.Status), req.SortOrder); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	// Publish errors are logged by the event bus
	_ = shared.PublishAndClear(ctx, s.eventPublisher, category)
	return s.lister.get(ctx, tenantID, id)
}

// Delete removes a category and its item links
func (s *CategoryService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.categoryRepo.DeleteForTenant(ctx, tenantID, id)
}

// AssignItems links the items to the category; already linked items are skipped
func (s *CategoryService) AssignItems(ctx context.Context, tenantID, id uuid.UUID, req ItemIDsRequest) (*AssignmentResponse, error) {
	if _, err := s.categoryRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return nil, err
	}
	n, err := s.itemRepo.AssignCategory(ctx, tenantID, id, req.ItemIDs)
	if err != nil {
		return nil, err
	}
	return &AssignmentResponse{Affected: n}, nil
}

// RemoveItems unlinks the items from the category
func (s *CategoryService) RemoveItems(ctx context.Context, tenantID, id uuid.UUID, req ItemIDsRequest) (*AssignmentResponse, error) {
	if _, err := s.categoryRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return nil, err
	}
	n, err := s.itemRepo.RemoveCategory(ctx, tenantID, id, req.ItemIDs)
	if err != nil {
		return nil, err
	}
	return &AssignmentResponse{Affected: n}, nil
}

// SubCategoryService handles subcategories and their item assignments
type SubCategoryService struct {
	subCategoryRepo catalog.SubCategoryRepository
	categoryRepo    catalog.CategoryRepository
	itemRepo        catalog.ItemRepository
	lister          classificationLister[catalog.SubCategory]
}

// NewSubCategoryService creates a new SubCategoryService
func NewSubCategoryService(
	subCategoryRepo catalog.SubCategoryRepository,
	categoryRepo catalog.CategoryRepository,
	itemRepo catalog.ItemRepository,
) *SubCategoryService {
	return &SubCategoryService{
		subCategoryRepo: subCategoryRepo,
		categoryRepo:    categoryRepo,
		itemRepo:        itemRepo,
		lister:          classificationLister[catalog.SubCategory]{repo: subCategoryRepo, convert: ToSubCategoryResponse},
	}
}

func (s *SubCategoryService) checkParent(ctx context.Context, tenantID uuid.UUID, categoryID *uuid.UUID) error {
	if categoryID == nil {
		return nil
	}
	_, err := s.categoryRepo.FindByIDForTenant(ctx, tenantID, *categoryID)
	return err
}

// Create adds a subcategory, optionally under a category
func (s *SubCategoryService) Create(ctx context.Context, tenantID, userID uuid.UUID, req ClassificationRequest) (*ClassificationResponse, error) {
	if err := s.lister.ensureNameFree(ctx, tenantID, "Subcategory", req.Name, nil); err != nil {
		return nil, err
	}
	if err := s.checkParent(ctx, tenantID, req.CategoryID); err != nil {
		return nil, err
	}
	sub, err := catalog.NewSubCategory(tenantID, req.Name, req.Description, req.CategoryID)
	if err != nil {
		return nil, err
	}
	if req.Status != "" {
		sub.Status = catalog.ClassificationStatus(req.Status)
	}
	sub.SetCreatedBy(userID)
	if err := s.subCategoryRepo.Save(ctx, sub); err != nil {
		return nil, err
	}
	resp := ToSubCategoryResponse(sub)
	return &resp, nil
}

// GetByID returns one subcategory with its item count
func (s *SubCategoryService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ClassificationResponse, error) {
	return s.lister.get(ctx, tenantID, id)
}

// List returns a page of subcategories by name
func (s *SubCategoryService) List(ctx context.Context, tenantID uuid.UUID, filter ClassificationListFilter) ([]ClassificationResponse, int64, error) {
	return s.lister.list(ctx, tenantID, filter, "name")
}

// Update changes a subcategory
func (s *SubCategoryService) Update(ctx context.Context, tenantID, id uuid.UUID, req ClassificationRequest) (*ClassificationResponse, error) {
	sub, err := s.subCategoryRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(strings.TrimSpace(req.Name), sub.Name) {
		if err := s.lister.ensureNameFree(ctx, tenantID, "Subcategory", req.Name, &sub.ID); err != nil {
			return nil, err
		}
	}
	if err := s.checkParent(ctx, tenantID, req.CategoryID); err != nil {
		return nil, err
	}
	if err := sub.Update(req.Name, req.Description, req.CategoryID, catalog.ClassificationStatus(req.Status)); err != nil {
		return nil, err
	}
	if err := s.subCategoryRepo.Save(ctx, sub); err != nil {
		return nil, err
	}
	return s.lister.get(ctx, tenantID, id)
}

// Delete removes a subcategory and clears it from its items
func (s *SubCategoryService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.subCategoryRepo.DeleteForTenant(ctx, tenantID, id)
}

// AssignItems sets the subcategory of the items
func (s *SubCategoryService) AssignItems(ctx context.Context, tenantID, id uuid.UUID, req ItemIDsRequest) (*AssignmentResponse, error) {
	if _, err := s.subCategoryRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return nil, err
	}
	n, err := s.itemRepo.SetSubCategory(ctx, tenantID, &id, req.ItemIDs)
	if err != nil {
		return nil, err
	}
	return &AssignmentResponse{Affected: n}, nil
}

// RemoveItems clears the subcategory of the items
func (s *SubCategoryService) RemoveItems(ctx context.Context, tenantID, id uuid.UUID, req ItemIDsRequest) (*AssignmentResponse, error) {
	if _, err := s.subCategoryRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return nil, err
	}
	n, err := s.itemRepo.SetSubCategory(ctx, tenantID, nil, req.ItemIDs)
	if err != nil {
		return nil, err
	}
	return &AssignmentResponse{Affected: n}, nil
}

// BrandService handles brands and their item assignments
type BrandService struct {
	brandRepo catalog.BrandRepository
	itemRepo  catalog.ItemRepository
	lister    classificationLister[catalog.Brand]
}

// NewBrandService creates a new BrandService
func NewBrandService(brandRepo catalog.BrandRepository, itemRepo catalog.ItemRepository) *BrandService {
	return &BrandService{
		brandRepo: brandRepo,
		itemRepo:  itemRepo,
		lister:    classificationLister[catalog.Brand]{repo: brandRepo, convert: ToBrandResponse},
	}
}

// Create adds a brand
func (s *BrandService) Create(ctx context.Context, tenantID, userID uuid.UUID, req ClassificationRequest) (*ClassificationResponse, error) {
	if err := s.lister.ensureNameFree(ctx, tenantID, "Brand", req.Name, nil); err != nil {
		return nil, err
	}
	brand, err := catalog.NewBrand(tenantID, req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	if req.Status != "" {
		brand.Status = catalog.ClassificationStatus(req.Status)
	}
	brand.SetCreatedBy(userID)
	if err := s.brandRepo.Save(ctx, brand); err != nil {
		return nil, err
	}
	resp := ToBrandResponse(brand)
	return &resp, nil
}

// GetByID returns one brand with its item count
func (s *BrandService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ClassificationResponse, error) {
	return s.lister.get(ctx, tenantID, id)
}

// List returns a page of brands by name
func (s *BrandService) List(ctx context.Context, tenantID uuid.UUID, filter ClassificationListFilter) ([]ClassificationResponse, int64, error) {
	return s.lister.list(ctx, tenantID, filter, "name")
}

// Update changes a brand
func (s *BrandService) Update(ctx context.Context, tenantID, id uuid.UUID, req ClassificationRequest) (*ClassificationResponse, error) {
	brand, err := s.brandRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(strings.TrimSpace(req.Name), brand.Name) {
		if err := s.lister.ensureNameFree(ctx, tenantID, "Brand", req.Name, &brand.ID); err != nil {
			return nil, err
		}
	}
	if err := brand.Update(req.Name, req.Description, catalog.ClassificationStatus(req.Status)); err != nil {
		return nil, err
	}
	if err := s.brandRepo.Save(ctx, brand); err != nil {
		return nil, err
	}
	return s.lister.get(ctx, tenantID, id)
}

// Delete removes a brand and clears it from its items
func (s *BrandService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.brandRepo.DeleteForTenant(ctx, tenantID, id)
}

// AssignItems sets the brand of the items
func (s *BrandService) AssignItems(ctx context.Context, tenantID, id uuid.UUID, req ItemIDsRequest) (*AssignmentResponse, error) {
	if _, err := s.brandRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return nil, err
	}
	n, err := s.itemRepo.SetBrand(ctx, tenantID, &id, req.ItemIDs)
	if err != nil {
		return nil, err
	}
	return &AssignmentResponse{Affected: n}, nil
}

// RemoveItems clears the brand of the items
func (s *BrandService) RemoveItems(ctx context.Context, tenantID, id uuid.UUID, req ItemIDsRequest) (*AssignmentResponse, error) {
	if _, err := s.brandRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return nil, err
	}
	n, err := s.itemRepo.SetBrand(ctx, tenantID, nil, req.ItemIDs)
	if err != nil {
		return nil, err
	}
	return &AssignmentResponse{Affected: n}, nil
}
