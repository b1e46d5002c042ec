package inventory

import (
	"context"
	"time"

	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/google/uuid"
)

// AdjustmentFilter narrows a ledger listing
type AdjustmentFilter struct {
	shared.Filter
	ItemID    *uuid.UUID
	Type      AdjustmentType
	StartDate *time.Time
	EndDate   *time.Time
}

// StockAdjustmentRepository is the append-only ledger store
type StockAdjustmentRepository interface {
	Append(ctx context.Context, entries ...*StockAdjustment) error
	FindForTenant(ctx context.Context, tenantID uuid.UUID, filter AdjustmentFilter) ([]StockAdjustment, int64, error)
}

// RackRepository persists racks and their stock buckets
type RackRepository interface {
	SaveRack(ctx context.Context, rack *Rack) error
	FindRack(ctx context.Context, tenantID, id uuid.UUID) (*Rack, error)
	FindRacks(ctx context.Context, tenantID uuid.UUID) ([]Rack, error)
	DeleteRack(ctx context.Context, tenantID, id uuid.UUID) error

	SaveStock(ctx context.Context, stock *RackStock) error
	FindStock(ctx context.Context, tenantID, id uuid.UUID) (*RackStock, error)
	FindStockForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*RackStock, error)
	FindStockByRack(ctx context.Context, tenantID, rackID uuid.UUID) ([]RackStock, error)
	FindStockByRackAndItem(ctx context.Context, tenantID, rackID, itemID uuid.UUID) (*RackStock, error)
}
