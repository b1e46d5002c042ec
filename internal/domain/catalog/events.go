package catalog

import (
	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeItem        = "Item"
	AggregateTypeCategory    = "Category"
	AggregateTypeSubCategory = "SubCategory"
	AggregateTypeBrand       = "Brand"
)

// Event type constants
const (
	EventTypeItemCreated        = "ItemCreated"
	EventTypeItemUpdated        = "ItemUpdated"
	EventTypeItemDeleted        = "ItemDeleted"
	EventTypeCategoryCreated    = "CategoryCreated"
	EventTypeCategoryUpdated    = "CategoryUpdated"
	EventTypeSubCategoryCreated = "SubCategoryCreated"
	EventTypeBrandCreated       = "BrandCreated"
)

// ItemCreatedEvent is published when an item is added to the catalog
type ItemCreatedEvent struct {
	shared.BaseDomainEvent
	ItemID       uuid.UUID       `json:"item_id"`
	Name         string          `json:"name"`
	SellingPrice decimal.Decimal `json:"selling_price"`
}

// NewItemCreatedEvent creates an ItemCreatedEvent
func NewItemCreatedEvent(item *Item) *ItemCreatedEvent {
	return &ItemCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemCreated, AggregateTypeItem, item.ID, item.TenantID),
		ItemID:          item.ID,
		Name:            item.Name,
		SellingPrice:    item.Price.SellingPrice,
	}
}

// ItemUpdatedEvent is published when an item's details change
type ItemUpdatedEvent struct {
	shared.BaseDomainEvent
	ItemID uuid.UUID `json:"item_id"`
	Name   string    `json:"name"`
}

// NewItemUpdatedEvent creates an ItemUpdatedEvent
func NewItemUpdatedEvent(item *Item) *ItemUpdatedEvent {
	return &ItemUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemUpdated, AggregateTypeItem, item.ID, item.TenantID),
		ItemID:          item.ID,
		Name:            item.Name,
	}
}

// ItemDeletedEvent is published when an item is removed
type ItemDeletedEvent struct {
	shared.BaseDomainEvent
	ItemID uuid.UUID `json:"item_id"`
	Name   string    `json:"name"`
}

// NewItemDeletedEvent creates an ItemDeletedEvent
func NewItemDeletedEvent(item *Item) *ItemDeletedEvent {
	return &ItemDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemDeleted, AggregateTypeItem, item.ID, item.TenantID),
		ItemID:          item.ID,
		Name:            item.Name,
	}
}

// ClassificationEvent covers lifecycle events of categories, subcategories and brands
type ClassificationEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewClassificationEvent creates a ClassificationEvent
func NewClassificationEvent(eventType, aggType string, id, tenantID uuid.UUID, name string) *ClassificationEvent {
	return &ClassificationEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, aggType, id, tenantID),
		Name:            name,
	}
}
