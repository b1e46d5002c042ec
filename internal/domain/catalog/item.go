package catalog

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/foodcourt/pos/internal/domain/inventory"
	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemStatus represents the sale status of an item
type ItemStatus string

const (
	ItemStatusActive       ItemStatus = "active"
	ItemStatusInactive     ItemStatus = "inactive"
	ItemStatusDiscontinued ItemStatus = "discontinued"
)

// IsValid returns true for a known status
func (s ItemStatus) IsValid() bool {
	switch s {
	case ItemStatusActive, ItemStatusInactive, ItemStatusDiscontinued:
		return true
	}
	return false
}

// ItemStock holds the stock counters of an item.
// CurrentQuantity never drops below zero.
type ItemStock struct {
	CurrentQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MinimumStock    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MaximumStock    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Unit            string          `gorm:"type:varchar(20);not null;default:'pcs'"`
}

// ItemPrice holds the price list of an item. TaxRate is a percentage.
type ItemPrice struct {
	CostPrice    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MRP          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxRate      decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
}

// Validate checks the price list for negative amounts
func (p ItemPrice) Validate() error {
	if p.CostPrice.IsNegative() || p.SellingPrice.IsNegative() || p.MRP.IsNegative() {
		return shared.NewValidationError("prices cannot be negative")
	}
	if p.TaxRate.IsNegative() || p.TaxRate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewValidationError("tax rate must be between 0 and 100")
	}
	return nil
}

// ItemImage is an uploaded picture of an item kept in object storage
type ItemImage struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ItemID      uuid.UUID `gorm:"type:uuid;not null;index"`
	StorageKey  string    `gorm:"type:varchar(500);not null"`
	FileName    string    `gorm:"type:varchar(255);not null"`
	ContentType string    `gorm:"type:varchar(100);not null"`
	FileSize    int64     `gorm:"not null;default:0"`
	CreatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ItemImage) TableName() string {
	return "item_images"
}

// ItemCategory is one row of the item/category join table
type ItemCategory struct {
	ItemID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	CategoryID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
}

// TableName returns the table name for GORM
func (ItemCategory) TableName() string {
	return "item_categories"
}

// Item is a sellable and stockable product. It is the aggregate root for stock counters.
type Item struct {
	shared.TenantAggregateRoot
	Name          string      `gorm:"type:varchar(200);not null;index"`
	Code          string      `gorm:"type:varchar(50);index"`
	Description   string      `gorm:"type:text"`
	BrandID       *uuid.UUID  `gorm:"type:uuid;index"`
	SubCategoryID *uuid.UUID  `gorm:"type:uuid;index"`
	Stock         ItemStock   `gorm:"embedded;embeddedPrefix:stock_"`
	Price         ItemPrice   `gorm:"embedded;embeddedPrefix:price_"`
	Status        ItemStatus  `gorm:"type:varchar(20);not null;default:'active'"`
	Categories    []Category  `gorm:"many2many:item_categories;joinForeignKey:ItemID;joinReferences:CategoryID"`
	Images        []ItemImage `gorm:"foreignKey:ItemID"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "items"
}

// NewItem creates an active item with zero stock
func NewItem(tenantID uuid.UUID, name, unit string, price ItemPrice) (*Item, error) {
	name, err := validateItemName(name)
	if err != nil {
		return nil, err
	}
	if err := price.Validate(); err != nil {
		return nil, err
	}
	unit = strings.TrimSpace(unit)
	if unit == "" {
		unit = "pcs"
	}
	item := &Item{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Stock: ItemStock{
			CurrentQuantity: decimal.Zero,
			MinimumStock:    decimal.Zero,
			MaximumStock:    decimal.Zero,
			Unit:            unit,
		},
		Price:  price,
		Status: ItemStatusActive,
	}
	item.AddDomainEvent(NewItemCreatedEvent(item))
	return item, nil
}

// Update replaces the descriptive fields and price list
func (i *Item) Update(name, code, description, unit string, price ItemPrice) error {
	name, err := validateItemName(name)
	if err != nil {
		return err
	}
	if err := price.Validate(); err != nil {
		return err
	}
	i.Name = name
	i.Code = strings.TrimSpace(code)
	i.Description = strings.TrimSpace(description)
	if unit = strings.TrimSpace(unit); unit != "" {
		i.Stock.Unit = unit
	}
	i.Price = price
	i.IncrementVersion()
	i.AddDomainEvent(NewItemUpdatedEvent(i))
	return nil
}

// SetStatus changes the sale status
func (i *Item) SetStatus(status ItemStatus) error {
	if !status.IsValid() {
		return shared.ErrInvalidStatus
	}
	i.Status = status
	i.IncrementVersion()
	return nil
}

// IsSellable reports whether the item may be put on a KOT or bill
func (i *Item) IsSellable() bool {
	return i.Status == ItemStatusActive
}

// SetStockLevels sets the alert thresholds; a maximum of zero disables the ceiling
func (i *Item) SetStockLevels(minimum, maximum decimal.Decimal) error {
	if minimum.IsNegative() || maximum.IsNegative() {
		return shared.NewValidationError("stock levels cannot be negative")
	}
	if maximum.IsPositive() && maximum.LessThan(minimum) {
		return shared.NewValidationError("maximum stock must not be below minimum stock")
	}
	i.Stock.MinimumStock = minimum
	i.Stock.MaximumStock = maximum
	return nil
}

// IncreaseStock adds quantity and returns the balances before and after
func (i *Item) IncreaseStock(quantity decimal.Decimal) (before, after decimal.Decimal, err error) {
	if !quantity.IsPositive() {
		return decimal.Zero, decimal.Zero, shared.NewValidationError("quantity must be positive")
	}
	before = i.Stock.CurrentQuantity
	i.Stock.CurrentQuantity = before.Add(quantity)
	i.IncrementVersion()
	return before, i.Stock.CurrentQuantity, nil
}

// DecreaseStock removes quantity. It fails with ErrInsufficientStock, leaving the
// counter untouched, when quantity exceeds the current balance.
func (i *Item) DecreaseStock(quantity decimal.Decimal) (before, after decimal.Decimal, err error) {
	if !quantity.IsPositive() {
		return decimal.Zero, decimal.Zero, shared.NewValidationError("quantity must be positive")
	}
	before = i.Stock.CurrentQuantity
	if quantity.GreaterThan(before) {
		return before, before, shared.NewDomainError(shared.CodeInsufficientStock,
			"Insufficient stock for "+i.Name+": available "+before.String()+", requested "+quantity.String())
	}
	i.Stock.CurrentQuantity = before.Sub(quantity)
	i.IncrementVersion()
	return before, i.Stock.CurrentQuantity, nil
}

// StockStatus derives the stock label from the current quantity and thresholds
func (i *Item) StockStatus() inventory.StockStatus {
	return inventory.DeriveStockStatus(i.Stock.CurrentQuantity, i.Stock.MinimumStock, i.Stock.MaximumStock)
}

// IsLowStock reports whether the item is at or below its minimum
func (i *Item) IsLowStock() bool {
	return i.Stock.CurrentQuantity.LessThanOrEqual(i.Stock.MinimumStock)
}

// CategoryIDs returns the ids of the assigned categories
func (i *Item) CategoryIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(i.Categories))
	for idx, c := range i.Categories {
		ids[idx] = c.ID
	}
	return ids
}

// CategoryNames returns the names of the assigned categories
func (i *Item) CategoryNames() []string {
	names := make([]string, len(i.Categories))
	for idx, c := range i.Categories {
		names[idx] = c.Name
	}
	return names
}

// HasCategory reports whether the category is assigned
func (i *Item) HasCategory(categoryID uuid.UUID) bool {
	for _, c := range i.Categories {
		if c.ID == categoryID {
			return true
		}
	}
	return false
}

// AssignCategories adds the categories that are not yet assigned
func (i *Item) AssignCategories(categories ...Category) {
	for _, c := range categories {
		if c.TenantID != i.TenantID || i.HasCategory(c.ID) {
			continue
		}
		i.Categories = append(i.Categories, c)
	}
}

// ReplaceCategories sets the assigned categories to exactly the given list
func (i *Item) ReplaceCategories(categories []Category) {
	i.Categories = nil
	i.AssignCategories(categories...)
}

// RemoveCategory unassigns a category; it returns false if it was not assigned
func (i *Item) RemoveCategory(categoryID uuid.UUID) bool {
	for idx, c := range i.Categories {
		if c.ID == categoryID {
			i.Categories = append(i.Categories[:idx], i.Categories[idx+1:]...)
			return true
		}
	}
	return false
}

// SetBrand assigns or clears the brand
func (i *Item) SetBrand(brandID *uuid.UUID) {
	i.BrandID = brandID
}

// SetSubCategory assigns or clears the subcategory
func (i *Item) SetSubCategory(subCategoryID *uuid.UUID) {
	i.SubCategoryID = subCategoryID
}

// AddImage attaches an uploaded image
func (i *Item) AddImage(storageKey, fileName, contentType string, size int64) (*ItemImage, error) {
	if storageKey == "" {
		return nil, shared.NewValidationError("image storage key is required")
	}
	img := ItemImage{
		ID:          uuid.New(),
		TenantID:    i.TenantID,
		ItemID:      i.ID,
		StorageKey:  storageKey,
		FileName:    fileName,
		ContentType: contentType,
		FileSize:    size,
		CreatedAt:   time.Now(),
	}
	i.Images = append(i.Images, img)
	return &i.Images[len(i.Images)-1], nil
}

// RemoveImage detaches an image and returns it so the stored object can be deleted
func (i *Item) RemoveImage(imageID uuid.UUID) (*ItemImage, error) {
	for idx, img := range i.Images {
		if img.ID == imageID {
			removed := img
			i.Images = append(i.Images[:idx], i.Images[idx+1:]...)
			return &removed, nil
		}
	}
	return nil, shared.NewNotFoundError("Image", imageID)
}

// MarkDeleted records the deletion event; the caller removes the row
func (i *Item) MarkDeleted() {
	i.AddDomainEvent(NewItemDeletedEvent(i))
}

func validateItemName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", shared.NewValidationError("item name is required")
	}
	if utf8.RuneCountInString(name) > 200 {
		return "", shared.NewValidationError("item name cannot exceed 200 characters")
	}
	return name, nil
}
