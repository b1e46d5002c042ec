package trade

import (
	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeSale     = "Sale"
	AggregateTypePurchase = "Purchase"
)

// Event type constants
const (
	EventTypeSaleCreated        = "SaleCreated"
	EventTypeSalePaymentUpdated = "SalePaymentUpdated"
	EventTypeSaleCancelled      = "SaleCancelled"
	EventTypeSaleDeleted        = "SaleDeleted"

	EventTypePurchaseCreated   = "PurchaseCreated"
	EventTypePurchaseReceived  = "PurchaseReceived"
	EventTypePurchaseCancelled = "PurchaseCancelled"
	EventTypePurchaseDeleted   = "PurchaseDeleted"
)

// SaleEvent is raised on every sale lifecycle change
type SaleEvent struct {
	shared.BaseDomainEvent
	BillNumber    string          `json:"bill_number"`
	BillType      BillType        `json:"bill_type"`
	Status        SaleStatus      `json:"status"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
	ReferrerID    *uuid.UUID      `json:"referrer_id,omitempty"`
}

func newSaleEvent(eventType string, s *Sale) *SaleEvent {
	return &SaleEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeSale, s.ID, s.TenantID),
		BillNumber:      s.BillNumber,
		BillType:        s.BillType,
		Status:          s.Status,
		GrandTotal:      s.Pricing.GrandTotal,
		PaymentStatus:   s.Payment.Status,
		ReferrerID:      s.Party.ReferrerID,
	}
}

// NewSaleCreatedEvent creates a SaleCreated event
func NewSaleCreatedEvent(s *Sale) *SaleEvent { return newSaleEvent(EventTypeSaleCreated, s) }

// NewSalePaymentUpdatedEvent creates a SalePaymentUpdated event
func NewSalePaymentUpdatedEvent(s *Sale) *SaleEvent {
	return newSaleEvent(EventTypeSalePaymentUpdated, s)
}

// NewSaleCancelledEvent creates a SaleCancelled event
func NewSaleCancelledEvent(s *Sale) *SaleEvent { return newSaleEvent(EventTypeSaleCancelled, s) }

// NewSaleDeletedEvent creates a SaleDeleted event
func NewSaleDeletedEvent(s *Sale) *SaleEvent { return newSaleEvent(EventTypeSaleDeleted, s) }

// PurchaseItemInfo describes a received line for the inventory side
type PurchaseItemInfo struct {
	ItemID   uuid.UUID       `json:"item_id"`
	ItemName string          `json:"item_name"`
	Quantity decimal.Decimal `json:"quantity"`
}

// PurchaseEvent is raised on every purchase lifecycle change
type PurchaseEvent struct {
	shared.BaseDomainEvent
	PurchaseNumber string             `json:"purchase_number"`
	VendorName     string             `json:"vendor_name"`
	Status         PurchaseStatus     `json:"status"`
	GrandTotal     decimal.Decimal    `json:"grand_total"`
	Items          []PurchaseItemInfo `json:"items,omitempty"`
}

func newPurchaseEvent(eventType string, p *Purchase, withItems bool) *PurchaseEvent {
	e := &PurchaseEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypePurchase, p.ID, p.TenantID),
		PurchaseNumber:  p.PurchaseNumber,
		VendorName:      p.VendorName,
		Status:          p.Status,
		GrandTotal:      p.Pricing.GrandTotal,
	}
	if withItems {
		for _, it := range p.Items {
			e.Items = append(e.Items, PurchaseItemInfo{ItemID: it.ItemID, ItemName: it.ItemName, Quantity: it.Quantity})
		}
	}
	return e
}

// NewPurchaseCreatedEvent creates a PurchaseCreated event
func NewPurchaseCreatedEvent(p *Purchase) *PurchaseEvent {
	return newPurchaseEvent(EventTypePurchaseCreated, p, false)
}

// NewPurchaseReceivedEvent creates a PurchaseReceived event listing the received lines
func NewPurchaseReceivedEvent(p *Purchase) *PurchaseEvent {
	return newPurchaseEvent(EventTypePurchaseReceived, p, true)
}

// NewPurchaseCancelledEvent creates a PurchaseCancelled event
func NewPurchaseCancelledEvent(p *Purchase) *PurchaseEvent {
	return newPurchaseEvent(EventTypePurchaseCancelled, p, false)
}

// NewPurchaseDeletedEvent creates a PurchaseDeleted event
func NewPurchaseDeletedEvent(p *Purchase) *PurchaseEvent {
	return newPurchaseEvent(EventTypePurchaseDeleted, p, false)
}
