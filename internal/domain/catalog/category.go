package catalog

import (
	"strings"
	"unicode/utf8"

	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/google/uuid"
)

// ClassificationStatus is the status shared by categories, subcategories and brands
type ClassificationStatus string

const (
	ClassificationActive   ClassificationStatus = "active"
	ClassificationInactive ClassificationStatus = "inactive"
)

// IsValid returns true for a known status
func (s ClassificationStatus) IsValid() bool {
	return s == ClassificationActive || s == ClassificationInactive
}

// Category groups items on the menu. Items reference categories by id through
// the item_categories join table.
type Category struct {
	shared.TenantAggregateRoot
	Name        string               `gorm:"type:varchar(100);not null"`
	Description string               `gorm:"type:text"`
	Status      ClassificationStatus `gorm:"type:varchar(20);not null;default:'active'"`
	SortOrder   int                  `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a category
func NewCategory(tenantID uuid.UUID, name, description string) (*Category, error) {
	name, err := normalizeName("category", name)
	if err != nil {
		return nil, err
	}
	c := &Category{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Description:         strings.TrimSpace(description),
		Status:              ClassificationActive,
	}
	c.AddDomainEvent(NewClassificationEvent(EventTypeCategoryCreated, AggregateTypeCategory, c.ID, c.TenantID, c.Name))
	return c, nil
}

// Update changes name, description and status
func (c *Category) Update(name, description string, status ClassificationStatus, sortOrder int) error {
	name, err := normalizeName("category", name)
	if err != nil {
		return err
	}
	if status == "" {
		status = c.Status
	}
	if !status.IsValid() {
		return shared.ErrInvalidStatus
	}
	c.Name = name
	c.Description = strings.TrimSpace(description)
	c.Status = status
	c.SortOrder = sortOrder
	c.IncrementVersion()
	c.AddDomainEvent(NewClassificationEvent(EventTypeCategoryUpdated, AggregateTypeCategory, c.ID, c.TenantID, c.Name))
	return nil
}

// SubCategory is a finer grouping, optionally nested under a category
type SubCategory struct {
	shared.TenantAggregateRoot
	Name        string               `gorm:"type:varchar(100);not null"`
	Description string               `gorm:"type:text"`
	CategoryID  *uuid.UUID           `gorm:"type:uuid;index"`
	Status      ClassificationStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (SubCategory) TableName() string {
	return "sub_categories"
}

// NewSubCategory creates a subcategory
func NewSubCategory(tenantID uuid.UUID, name, description string, categoryID *uuid.UUID) (*SubCategory, error) {
	name, err := normalizeName("subcategory", name)
	if err != nil {
		return nil, err
	}
	s := &SubCategory{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Description:         strings.TrimSpace(description),
		CategoryID:          categoryID,
		Status:              ClassificationActive,
	}
	s.AddDomainEvent(NewClassificationEvent(EventTypeSubCategoryCreated, AggregateTypeSubCategory, s.ID, s.TenantID, s.Name))
	return s, nil
}

// Update changes the subcategory's fields
func (s *SubCategory) Update(name, description string, categoryID *uuid.UUID, status ClassificationStatus) error {
	name, err := normalizeName("subcategory", name)
	if err != nil {
		return err
	}
	if status == "" {
		status = s.Status
	}
	if !status.IsValid() {
		return shared.ErrInvalidStatus
	}
	s.Name = name
	s.Description = strings.TrimSpace(description)
	s.CategoryID = categoryID
	s.Status = status
	s.IncrementVersion()
	return nil
}

// Brand is the maker or label of an item
type Brand struct {
	shared.TenantAggregateRoot
	Name        string               `gorm:"type:varchar(100);not null"`
	Description string               `gorm:"type:text"`
	Status      ClassificationStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Brand) TableName() string {
	return "brands"
}

// NewBrand creates a brand
func NewBrand(tenantID uuid.UUID, name, description string) (*Brand, error) {
	name, err := normalizeName("brand", name)
	if err != nil {
		return nil, err
	}
	b := &Brand{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Description:         strings.TrimSpace(description),
		Status:              ClassificationActive,
	}
	b.AddDomainEvent(NewClassificationEvent(EventTypeBrandCreated, AggregateTypeBrand, b.ID, b.TenantID, b.Name))
	return b, nil
}

// Update changes the brand's fields
func (b *Brand) Update(name, description string, status ClassificationStatus) error {
	name, err := normalizeName("brand", name)
	if err != nil {
		return err
	}
	if status == "" {
		status = b.Status
	}
	if !status.IsValid() {
		return shared.ErrInvalidStatus
	}
	b.Name = name
	b.Description = strings.TrimSpace(description)
	b.Status = status
	b.IncrementVersion()
	return nil
}

func normalizeName(kind, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", shared.NewValidationError("%s name is required", kind)
	}
	if utf8.RuneCountInString(name) > 100 {
		return "", shared.NewValidationError("%s name cannot exceed 100 characters", kind)
	}
	return name, nil
}
