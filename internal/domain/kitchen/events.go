package kitchen

import (
	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypeKOT is the aggregate type of ticket events
const AggregateTypeKOT = "KOT"

// Event type constants
const (
	EventTypeKOTCreated           = "KOTCreated"
	EventTypeKOTItemStatusChanged = "KOTItemStatusChanged"
	EventTypeKOTCompleted         = "KOTCompleted"
	EventTypeKOTCancelled         = "KOTCancelled"
	EventTypeKOTDeleted           = "KOTDeleted"
)

// KOTCreatedEvent is published when a ticket is opened
type KOTCreatedEvent struct {
	shared.BaseDomainEvent
	KOTNumber   string          `json:"kot_number"`
	TableNumber string          `json:"table_number"`
	KOTType     string          `json:"kot_type"`
	ItemCount   int             `json:"item_count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewKOTCreatedEvent creates a KOTCreatedEvent
func NewKOTCreatedEvent(k *KOT) *KOTCreatedEvent {
	return &KOTCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeKOTCreated, AggregateTypeKOT, k.ID, k.TenantID),
		KOTNumber:       k.KOTNumber,
		TableNumber:     k.TableNumber,
		KOTType:         k.KOTType,
		ItemCount:       len(k.Items),
		TotalAmount:     k.TotalAmount,
	}
}

// KOTItemStatusChangedEvent is published when a line moves through the kitchen
type KOTItemStatusChangedEvent struct {
	shared.BaseDomainEvent
	KOTNumber   string     `json:"kot_number"`
	TableNumber string     `json:"table_number"`
	LineID      uuid.UUID  `json:"line_id"`
	ItemID      uuid.UUID  `json:"item_id"`
	ItemName    string     `json:"item_name"`
	From        ItemStatus `json:"from"`
	To          ItemStatus `json:"to"`
}

// NewKOTItemStatusChangedEvent creates a KOTItemStatusChangedEvent
func NewKOTItemStatusChangedEvent(k *KOT, line *KOTItem, from ItemStatus) *KOTItemStatusChangedEvent {
	return &KOTItemStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeKOTItemStatusChanged, AggregateTypeKOT, k.ID, k.TenantID),
		KOTNumber:       k.KOTNumber,
		TableNumber:     k.TableNumber,
		LineID:          line.ID,
		ItemID:          line.ItemID,
		ItemName:        line.ItemName,
		From:            from,
		To:              line.Status,
	}
}

// KOTCompletedEvent is published when every line of a ticket is done
type KOTCompletedEvent struct {
	shared.BaseDomainEvent
	KOTNumber   string          `json:"kot_number"`
	TableNumber string          `json:"table_number"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewKOTCompletedEvent creates a KOTCompletedEvent
func NewKOTCompletedEvent(k *KOT) *KOTCompletedEvent {
	return &KOTCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeKOTCompleted, AggregateTypeKOT, k.ID, k.TenantID),
		KOTNumber:       k.KOTNumber,
		TableNumber:     k.TableNumber,
		TotalAmount:     k.TotalAmount,
	}
}

// KOTCancelledEvent is published when a ticket is cancelled
type KOTCancelledEvent struct {
	shared.BaseDomainEvent
	KOTNumber   string `json:"kot_number"`
	TableNumber string `json:"table_number"`
}

// NewKOTCancelledEvent creates a KOTCancelledEvent
func NewKOTCancelledEvent(k *KOT) *KOTCancelledEvent {
	return &KOTCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeKOTCancelled, AggregateTypeKOT, k.ID, k.TenantID),
		KOTNumber:       k.KOTNumber,
		TableNumber:     k.TableNumber,
	}
}

// KOTDeletedEvent is published when a ticket is removed
type KOTDeletedEvent struct {
	shared.BaseDomainEvent
	KOTNumber string `json:"kot_number"`
}

// NewKOTDeletedEvent creates a KOTDeletedEvent
func NewKOTDeletedEvent(k *KOT) *KOTDeletedEvent {
	return &KOTDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeKOTDeleted, AggregateTypeKOT, k.ID, k.TenantID),
		KOTNumber:       k.KOTNumber,
	}
}
