package inventory

import (
	"time"

	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Direction is the sign of a manual stock adjustment
type Direction string

const (
	DirectionIncrease Direction = "increase"
	DirectionDecrease Direction = "decrease"
)

// IsValid returns true for a known direction
func (d Direction) IsValid() bool {
	return d == DirectionIncrease || d == DirectionDecrease
}

// AdjustmentType classifies a ledger entry
type AdjustmentType string

const (
	AdjustmentIncrease        AdjustmentType = "increase"
	AdjustmentDecrease        AdjustmentType = "decrease"
	AdjustmentTransferIn      AdjustmentType = "transfer_in"
	AdjustmentTransferOut     AdjustmentType = "transfer_out"
	AdjustmentOpeningStock    AdjustmentType = "opening_stock"
	AdjustmentPurchaseReceipt AdjustmentType = "purchase_receipt"
)

// IsValid returns true for a known adjustment type
func (t AdjustmentType) IsValid() bool {
	switch t {
	case AdjustmentIncrease, AdjustmentDecrease, AdjustmentTransferIn,
		AdjustmentTransferOut, AdjustmentOpeningStock, AdjustmentPurchaseReceipt:
		return true
	}
	return false
}

// IsDecrease returns true if the entry takes stock out of the item
func (t AdjustmentType) IsDecrease() bool {
	return t == AdjustmentDecrease || t == AdjustmentTransferOut
}

// StockAdjustment is an append-only ledger row recording one change of an item's
// current quantity. Rows are never updated; a correction is a new row.
type StockAdjustment struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TenantID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_adj_tenant_time,priority:1"`
	ItemID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemName      string          `gorm:"type:varchar(200);not null"`
	Type          AdjustmentType  `gorm:"type:varchar(30);not null;index"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Delta         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BalanceBefore decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BalanceAfter  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Reason        string          `gorm:"type:varchar(255)"`
	Reference     string          `gorm:"type:varchar(100)"`
	TransferID    *uuid.UUID      `gorm:"type:uuid;index"`
	ActorID       *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt     time.Time       `gorm:"not null;index:idx_stock_adj_tenant_time,priority:2"`
}

// TableName returns the table name for GORM
func (StockAdjustment) TableName() string {
	return "stock_adjustments"
}

// NewStockAdjustment records a movement of quantity that took the balance from before to after
func NewStockAdjustment(
	tenantID, itemID uuid.UUID,
	itemName string,
	adjType AdjustmentType,
	quantity, before, after decimal.Decimal,
	reason string,
) (*StockAdjustment, error) {
	if tenantID == uuid.Nil || itemID == uuid.Nil {
		return nil, shared.NewValidationError("tenant and item are required for a stock adjustment")
	}
	if !adjType.IsValid() {
		return nil, shared.NewValidationError("unknown adjustment type %q", adjType)
	}
	if !quantity.IsPositive() {
		return nil, shared.NewValidationError("adjustment quantity must be positive")
	}
	if after.IsNegative() {
		return nil, shared.ErrInsufficientStock
	}
	return &StockAdjustment{
		ID:            uuid.New(),
		TenantID:      tenantID,
		ItemID:        itemID,
		ItemName:      itemName,
		Type:          adjType,
		Quantity:      quantity,
		Delta:         after.Sub(before),
		BalanceBefore: before,
		BalanceAfter:  after,
		Reason:        reason,
		CreatedAt:     time.Now(),
	}, nil
}

// WithActor records the user who made the change
func (a *StockAdjustment) WithActor(actorID uuid.UUID) *StockAdjustment {
	if actorID != uuid.Nil {
		a.ActorID = &actorID
	}
	return a
}

// WithTransfer links both legs of a transfer
func (a *StockAdjustment) WithTransfer(transferID uuid.UUID) *StockAdjustment {
	a.TransferID = &transferID
	return a
}

// WithReference attaches a document number, e.g. the purchase that was received
func (a *StockAdjustment) WithReference(reference string) *StockAdjustment {
	a.Reference = reference
	return a
}
