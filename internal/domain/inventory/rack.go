package inventory

import (
	"strings"

	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Rack is a physical storage location
type Rack struct {
	shared.TenantAggregateRoot
	Name     string `gorm:"type:varchar(100);not null"`
	Location string `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (Rack) TableName() string {
	return "racks"
}

// NewRack creates a rack
func NewRack(tenantID uuid.UUID, name, location string) (*Rack, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("rack name is required")
	}
	return &Rack{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Location:            strings.TrimSpace(location),
	}, nil
}

// RackStock is the quantity of one item kept on one rack. Rack buckets are
// tracked independently of the item's total quantity.
type RackStock struct {
	shared.TenantAggregateRoot
	RackID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemName string          `gorm:"type:varchar(200);not null"`
	Quantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MinStock decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MaxStock decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (RackStock) TableName() string {
	return "rack_stocks"
}

// NewRackStock places an item on a rack with thresholds
func NewRackStock(tenantID, rackID, itemID uuid.UUID, itemName string, quantity, min, max decimal.Decimal) (*RackStock, error) {
	if rackID == uuid.Nil || itemID == uuid.Nil {
		return nil, shared.NewValidationError("rack and item are required")
	}
	rs := &RackStock{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		RackID:              rackID,
		ItemID:              itemID,
		ItemName:            itemName,
	}
	if quantity.IsNegative() {
		return nil, shared.NewValidationError("rack quantity cannot be negative")
	}
	rs.Quantity = quantity
	if err := rs.SetThresholds(min, max); err != nil {
		return nil, err
	}
	return rs, nil
}

// SetThresholds updates min/max; max of zero disables the overstock check
func (r *RackStock) SetThresholds(min, max decimal.Decimal) error {
	if min.IsNegative() || max.IsNegative() {
		return shared.NewValidationError("rack thresholds cannot be negative")
	}
	if max.IsPositive() && max.LessThan(min) {
		return shared.NewValidationError("maximum stock must not be below minimum stock")
	}
	r.MinStock = min
	r.MaxStock = max
	return nil
}

// Adjust moves the bucket by quantity in the given direction and returns the
// new status. A decrease below zero fails and leaves the bucket unchanged.
func (r *RackStock) Adjust(direction Direction, quantity decimal.Decimal) (StockStatus, error) {
	if !direction.IsValid() {
		return "", shared.NewValidationError("unknown direction %q", direction)
	}
	if !quantity.IsPositive() {
		return "", shared.NewValidationError("quantity must be positive")
	}
	if direction == DirectionDecrease {
		if quantity.GreaterThan(r.Quantity) {
			return "", shared.ErrInsufficientStock
		}
		r.Quantity = r.Quantity.Sub(quantity)
	} else {
		r.Quantity = r.Quantity.Add(quantity)
	}
	r.IncrementVersion()
	return r.Status(), nil
}

// Status derives the bucket's stock label
func (r *RackStock) Status() StockStatus {
	return DeriveStockStatus(r.Quantity, r.MinStock, r.MaxStock)
}
