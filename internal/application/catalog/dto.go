package catalog

import (
	"time"

	"github.com/foodcourt/pos/internal/domain/catalog"
	"github.com/foodcourt/pos/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceDTO is the price list of an item
type PriceDTO struct {
	CostPrice    decimal.Decimal `json:"costPrice"`
	SellingPrice decimal.Decimal `json:"sellingPrice"`
	MRP          decimal.Decimal `json:"mrp"`
	TaxRate      decimal.Decimal `json:"taxRate"`
}

func (p PriceDTO) toDomain() catalog.ItemPrice {
	return catalog.ItemPrice{
		CostPrice:    p.CostPrice,
		SellingPrice: p.SellingPrice,
		MRP:          p.MRP,
		TaxRate:      p.TaxRate,
	}
}

// CreateItemRequest adds an item to the catalog. OpeningStock, when positive, is
// posted to the stock ledger.
type CreateItemRequest struct {
	Name          string          `json:"name" binding:"required,min=1,max=200"`
	Code          string          `json:"code" binding:"max=50"`
	Description   string          `json:"description" binding:"max=2000"`
	Unit          string          `json:"unit" binding:"max=20"`
	Price         PriceDTO        `json:"price"`
	OpeningStock  decimal.Decimal `json:"openingStock"`
	MinimumStock  decimal.Decimal `json:"minimumStock"`
	MaximumStock  decimal.Decimal `json:"maximumStock"`
	CategoryIDs   []uuid.UUID     `json:"categoryIds"`
	BrandID       *uuid.UUID      `json:"brandId"`
	SubCategoryID *uuid.UUID      `json:"subCategoryId"`
}

// UpdateItemRequest changes an item. Stock quantities only change through the ledger.
type UpdateItemRequest struct {
	Name          string           `json:"name" binding:"required,min=1,max=200"`
	Code          string           `json:"code" binding:"max=50"`
	Description   string           `json:"description" binding:"max=2000"`
	Unit          string           `json:"unit" binding:"max=20"`
	Price         PriceDTO         `json:"price"`
	MinimumStock  *decimal.Decimal `json:"minimumStock"`
	MaximumStock  *decimal.Decimal `json:"maximumStock"`
	Status        string           `json:"status" binding:"omitempty,oneof=active inactive discontinued"`
	CategoryIDs   []uuid.UUID      `json:"categoryIds"`
	BrandID       *uuid.UUID       `json:"brandId"`
	SubCategoryID *uuid.UUID       `json:"subCategoryId"`
}

// AssignCategoriesRequest replaces the categories of an item
type AssignCategoriesRequest struct {
	CategoryIDs []uuid.UUID `json:"categoryIds"`
}

// ItemListFilter is the query of the item listing
type ItemListFilter struct {
	Search        string     `form:"search"`
	Status        string     `form:"status"`
	CategoryID    *uuid.UUID `form:"categoryId"`
	BrandID       *uuid.UUID `form:"brandId"`
	SubCategoryID *uuid.UUID `form:"subCategoryId"`
	LowStock      bool       `form:"lowStock"`
	Page          int        `form:"page"`
	Limit         int        `form:"limit"`
}

// CategoryRef names a category assigned to an item
type CategoryRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ImageResponse is one item image
type ImageResponse struct {
	ID          uuid.UUID `json:"id"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	FileSize    int64     `json:"fileSize"`
	URL         string    `json:"url,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// StockResponse is the stock block of an item
type StockResponse struct {
	CurrentQuantity decimal.Decimal       `json:"currentQuantity"`
	MinimumStock    decimal.Decimal       `json:"minimumStock"`
	MaximumStock    decimal.Decimal       `json:"maximumStock"`
	Unit            string                `json:"unit"`
	Status          inventory.StockStatus `json:"status"`
}

// ItemResponse is an item with its assignments
type ItemResponse struct {
	ID            uuid.UUID          `json:"id"`
	Name          string             `json:"name"`
	Code          string             `json:"code,omitempty"`
	Description   string             `json:"description,omitempty"`
	Status        catalog.ItemStatus `json:"status"`
	Price         PriceDTO           `json:"price"`
	Stock         StockResponse      `json:"stock"`
	Categories    []CategoryRef      `json:"categories"`
	BrandID       *uuid.UUID         `json:"brandId,omitempty"`
	SubCategoryID *uuid.UUID         `json:"subCategoryId,omitempty"`
	Images        []ImageResponse    `json:"images"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
	Version       int                `json:"version"`
}

// ToItemResponse converts an item to its response
func ToItemResponse(item *catalog.Item) ItemResponse {
	categories := make([]CategoryRef, len(item.Categories))
	for i, c := range item.Categories {
		categories[i] = CategoryRef{ID: c.ID, Name: c.Name}
	}
	images := make([]ImageResponse, len(item.Images))
	for i, img := range item.Images {
		images[i] = ImageResponse{
			ID:          img.ID,
			FileName:    img.FileName,
			ContentType: img.ContentType,
			FileSize:    img.FileSize,
			CreatedAt:   img.CreatedAt,
		}
	}
	return ItemResponse{
		ID:          item.ID,
		Name:        item.Name,
		Code:        item.Code,
		Description: item.Description,
		Status:      item.Status,
		Price: PriceDTO{
			CostPrice:    item.Price.CostPrice,
			SellingPrice: item.Price.SellingPrice,
			MRP:          item.Price.MRP,
			TaxRate:      item.Price.TaxRate,
		},
		Stock: StockResponse{
			CurrentQuantity: item.Stock.CurrentQuantity,
			MinimumStock:    item.Stock.MinimumStock,
			MaximumStock:    item.Stock.MaximumStock,
			Unit:            item.Stock.Unit,
			Status:          item.StockStatus(),
		},
		Categories:    categories,
		BrandID:       item.BrandID,
		SubCategoryID: item.SubCategoryID,
		Images:        images,
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
		Version:       item.Version,
	}
}

// ToItemResponses converts a page of items
func ToItemResponses(items []catalog.Item) []ItemResponse {
	responses := make([]ItemResponse, len(items))
	for i := range items {
		responses[i] = ToItemResponse(&items[i])
	}
	return responses
}

// ClassificationRequest creates or updates a category, subcategory or brand.
// CategoryID only applies to subcategories, SortOrder only to categories.
type ClassificationRequest struct {
	Name        string     `json:"name" binding:"required,min=1,max=100"`
	Description string     `json:"description" binding:"max=2000"`
	Status      string     `json:"status" binding:"omitempty,oneof=active inactive"`
	SortOrder   int        `json:"sortOrder"`
	CategoryID  *uuid.UUID `json:"categoryId"`
}

// ItemIDsRequest lists the items an assignment applies to
type ItemIDsRequest struct {
	ItemIDs []uuid.UUID `json:"itemIds" binding:"required,min=1"`
}

// AssignmentResponse reports how many items an assignment changed
type AssignmentResponse struct {
	Affected int64 `json:"affected"`
}

// ClassificationListFilter is the query of the category, subcategory and brand listings
type ClassificationListFilter struct {
	Search string `form:"search"`
	Status string `form:"status"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

// ClassificationResponse is a category, subcategory or brand with its item count
type ClassificationResponse struct {
	ID          uuid.UUID                    `json:"id"`
	Name        string                       `json:"name"`
	Description string                       `json:"description,omitempty"`
	Status      catalog.ClassificationStatus `json:"status"`
	SortOrder   int                          `json:"sortOrder,omitempty"`
	CategoryID  *uuid.UUID                   `json:"categoryId,omitempty"`
	ItemCount   int64                        `json:"itemCount"`
	CreatedAt   time.Time                    `json:"createdAt"`
	UpdatedAt   time.Time                    `json:"updatedAt"`
}

// ToCategoryResponse converts a category
func ToCategoryResponse(c *catalog.Category) ClassificationResponse {
	return ClassificationResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Status:      c.Status,
		SortOrder:   c.SortOrder,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ToSubCategoryResponse converts a subcategory
func ToSubCategoryResponse(s *catalog.SubCategory) ClassificationResponse {
	return ClassificationResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Status:      s.Status,
		CategoryID:  s.CategoryID,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// ToBrandResponse converts a brand
func ToBrandResponse(b *catalog.Brand) ClassificationResponse {
	return ClassificationResponse{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		Status:      b.Status,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}
