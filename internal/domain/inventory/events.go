package inventory

import (
	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypeItemStock is the aggregate type of stock ledger events
const AggregateTypeItemStock = "ItemStock"

// Event type constants
const (
	EventTypeStockAdjusted    = "StockAdjusted"
	EventTypeStockTransferred = "StockTransferred"
	EventTypeStockLow         = "StockLow"
)

// StockAdjustedEvent is published for every ledger entry
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	ItemID        uuid.UUID       `json:"item_id"`
	ItemName      string          `json:"item_name"`
	Type          AdjustmentType  `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	Reason        string          `json:"reason,omitempty"`
}

// NewStockAdjustedEvent creates a StockAdjustedEvent from a ledger entry
func NewStockAdjustedEvent(entry *StockAdjustment) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, AggregateTypeItemStock, entry.ItemID, entry.TenantID),
		ItemID:          entry.ItemID,
		ItemName:        entry.ItemName,
		Type:            entry.Type,
		Quantity:        entry.Quantity,
		BalanceBefore:   entry.BalanceBefore,
		BalanceAfter:    entry.BalanceAfter,
		Reason:          entry.Reason,
	}
}

// StockTransferredEvent is published once per transfer
type StockTransferredEvent struct {
	shared.BaseDomainEvent
	TransferID uuid.UUID       `json:"transfer_id"`
	FromItemID uuid.UUID       `json:"from_item_id"`
	ToItemID   uuid.UUID       `json:"to_item_id"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// NewStockTransferredEvent creates a StockTransferredEvent
func NewStockTransferredEvent(tenantID, transferID, fromItemID, toItemID uuid.UUID, quantity decimal.Decimal) *StockTransferredEvent {
	return &StockTransferredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockTransferred, AggregateTypeItemStock, fromItemID, tenantID),
		TransferID:      transferID,
		FromItemID:      fromItemID,
		ToItemID:        toItemID,
		Quantity:        quantity,
	}
}

// StockLowEvent is published when an item falls to or below its minimum
type StockLowEvent struct {
	shared.BaseDomainEvent
	ItemID          uuid.UUID       `json:"item_id"`
	ItemName        string          `json:"item_name"`
	CurrentQuantity decimal.Decimal `json:"current_quantity"`
	MinimumStock    decimal.Decimal `json:"minimum_stock"`
}

// NewStockLowEvent creates a StockLowEvent
func NewStockLowEvent(tenantID, itemID uuid.UUID, itemName string, current, minimum decimal.Decimal) *StockLowEvent {
	return &StockLowEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockLow, AggregateTypeItemStock, itemID, tenantID),
		ItemID:          itemID,
		ItemName:        itemName,
		CurrentQuantity: current,
		MinimumStock:    minimum,
	}
}
