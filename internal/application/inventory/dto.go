package inventory

import (
	"time"

	"github.com/foodcourt/pos/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AdjustStockRequest moves an item's current quantity up or down
type AdjustStockRequest struct {
	ItemID     uuid.UUID           `json:"itemId" binding:"required"`
	Adjustment decimal.Decimal     `json:"adjustment" binding:"required"`
	Reason     string              `json:"reason" binding:"max=255"`
	Type       inventory.Direction `json:"type" binding:"required,oneof=increase decrease"`
}

// AdjustStockResponse reports the balances around one adjustment
type AdjustStockResponse struct {
	AdjustmentID uuid.UUID             `json:"adjustmentId"`
	ItemID       uuid.UUID             `json:"itemId"`
	ItemName     string                `json:"itemName"`
	Type         inventory.Direction   `json:"type"`
	Adjustment   decimal.Decimal       `json:"adjustment"`
	Before       decimal.Decimal       `json:"before"`
	After        decimal.Decimal       `json:"after"`
	StockStatus  inventory.StockStatus `json:"stockStatus"`
}

// TransferStockRequest moves quantity from one item to another
type TransferStockRequest struct {
	FromItemID uuid.UUID       `json:"fromItemId" binding:"required"`
	ToItemID   uuid.UUID       `json:"toItemId" binding:"required"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
	Reason     string          `json:"reason" binding:"max=255"`
}

// ItemBalance is the stock of one item after a transfer
type ItemBalance struct {
	ItemID   uuid.UUID       `json:"itemId"`
	ItemName string          `json:"itemName"`
	Before   decimal.Decimal `json:"before"`
	After    decimal.Decimal `json:"after"`
}

// TransferStockResponse reports both updated balances
type TransferStockResponse struct {
	TransferID uuid.UUID       `json:"transferId"`
	Quantity   decimal.Decimal `json:"quantity"`
	From       ItemBalance     `json:"from"`
	To         ItemBalance     `json:"to"`
}

// AdjustmentListFilter is the query of the ledger listing
type AdjustmentListFilter struct {
	ItemID    *uuid.UUID `form:"itemId"`
	Type      string     `form:"type"`
	StartDate *time.Time `form:"startDate" time_format:"2006-01-02"`
	EndDate   *time.Time `form:"endDate" time_format:"2006-01-02"`
	Page      int        `form:"page"`
	Limit     int        `form:"limit"`
}

// StockAdjustmentResponse is one ledger row
type StockAdjustmentResponse struct {
	ID            uuid.UUID                `json:"id"`
	ItemID        uuid.UUID                `json:"itemId"`
	ItemName      string                   `json:"itemName"`
	Type          inventory.AdjustmentType `json:"type"`
	Quantity      decimal.Decimal          `json:"quantity"`
	Delta         decimal.Decimal          `json:"delta"`
	BalanceBefore decimal.Decimal          `json:"balanceBefore"`
	BalanceAfter  decimal.Decimal          `json:"balanceAfter"`
	Reason        string                   `json:"reason,omitempty"`
	Reference     string                   `json:"reference,omitempty"`
	TransferID    *uuid.UUID               `json:"transferId,omitempty"`
	ActorID       *uuid.UUID               `json:"actorId,omitempty"`
	CreatedAt     time.Time                `json:"createdAt"`
}

// ToStockAdjustmentResponse converts a ledger row to its response
func ToStockAdjustmentResponse(a *inventory.StockAdjustment) StockAdjustmentResponse {
	return StockAdjustmentResponse{
		ID:            a.ID,
		ItemID:        a.ItemID,
		ItemName:      a.ItemName,
		Type:          a.Type,
		Quantity:      a.Quantity,
		Delta:         a.Delta,
		BalanceBefore: a.BalanceBefore,
		BalanceAfter:  a.BalanceAfter,
		Reason:        a.Reason,
		Reference:     a.Reference,
		TransferID:    a.TransferID,
		ActorID:       a.ActorID,
		CreatedAt:     a.CreatedAt,
	}
}

// ToStockAdjustmentResponses converts a page of ledger rows
func ToStockAdjustmentResponses(entries []inventory.StockAdjustment) []StockAdjustmentResponse {
	responses := make([]StockAdjustmentResponse, len(entries))
	for i := range entries {
		responses[i] = ToStockAdjustmentResponse(&entries[i])
	}
	return responses
}

// LowStockItemResponse is an item at or below its minimum stock
type LowStockItemResponse struct {
	ItemID          uuid.UUID             `json:"itemId"`
	Name            string                `json:"name"`
	Unit            string                `json:"unit"`
	CurrentQuantity decimal.Decimal       `json:"currentQuantity"`
	MinimumStock    decimal.Decimal       `json:"minimumStock"`
	StockStatus     inventory.StockStatus `json:"stockStatus"`
}

// CreateRackRequest creates a storage rack
type CreateRackRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Location string `json:"location" binding:"max=200"`
}

// RackResponse is a storage rack
type RackResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToRackResponse converts a rack to its response
func ToRackResponse(r *inventory.Rack) RackResponse {
	return RackResponse{
		ID:        r.ID,
		Name:      r.Name,
		Location:  r.Location,
		CreatedAt: r.CreatedAt,
	}
}

// PlaceRackStockRequest puts an item on a rack, or updates the thresholds of an existing bucket
type PlaceRackStockRequest struct {
	ItemID   uuid.UUID       `json:"itemId" binding:"required"`
	Quantity decimal.Decimal `json:"quantity"`
	MinStock decimal.Decimal `json:"minStock"`
	MaxStock decimal.Decimal `json:"maxStock"`
}

// AdjustRackStockRequest moves a rack bucket up or down
type AdjustRackStockRequest struct {
	Quantity decimal.Decimal     `json:"quantity" binding:"required"`
	Type     inventory.Direction `json:"type" binding:"required,oneof=increase decrease"`
}

// RackStockResponse is one item bucket on a rack with its derived label
type RackStockResponse struct {
	ID       uuid.UUID             `json:"id"`
	RackID   uuid.UUID             `json:"rackId"`
	ItemID   uuid.UUID             `json:"itemId"`
	ItemName string                `json:"itemName"`
	Quantity decimal.Decimal       `json:"quantity"`
	MinStock decimal.Decimal       `json:"minStock"`
	MaxStock decimal.Decimal       `json:"maxStock"`
	Status   inventory.StockStatus `json:"status"`
}

// ToRackStockResponse converts a rack bucket to its response
func ToRackStockResponse(rs *inventory.RackStock) RackStockResponse {
	return RackStockResponse{
		ID:       rs.ID,
		RackID:   rs.RackID,
		ItemID:   rs.ItemID,
		ItemName: rs.ItemName,
		Quantity: rs.Quantity,
		MinStock: rs.MinStock,
		MaxStock: rs.MaxStock,
		Status:   rs.Status(),
	}
}
