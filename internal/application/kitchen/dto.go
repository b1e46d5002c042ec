package kitchen

import (
	"time"

	"github.com/foodcourt/pos/internal/domain/kitchen"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerDetailsDTO is the optional customer on a ticket
type CustomerDetailsDTO struct {
	Name   string `json:"name" binding:"max=100"`
	Mobile string `json:"mobile" binding:"omitempty,phone,max=20"`
	Type   string `json:"type" binding:"max=30"`
}

// KOTLineRequest is one ordered item. A missing price falls back to the item's selling price.
type KOTLineRequest struct {
	ItemID   uuid.UUID        `json:"itemId" binding:"required"`
	Quantity int              `json:"quantity" binding:"required,min=1"`
	Price    *decimal.Decimal `json:"price"`
	Variant  string           `json:"variant" binding:"max=100"`
	KOTNote  string           `json:"kotNote" binding:"max=500"`
}

// CreateKOTRequest opens a ticket for a table
type CreateKOTRequest struct {
	TableNumber     string              `json:"tableNumber" binding:"required,max=30"`
	OrderReference  string              `json:"orderReference" binding:"max=100"`
	Items           []KOTLineRequest    `json:"items" binding:"required,min=1,dive"`
	CustomerDetails *CustomerDetailsDTO `json:"customerDetails"`
	KOTType         string              `json:"kotType" binding:"required,max=100"`
	Notes           string              `json:"notes"`
}

// UpdateKOTRequest changes an active ticket. Items, when present, replace every line.
type UpdateKOTRequest struct {
	TableNumber     string              `json:"tableNumber" binding:"max=30"`
	OrderReference  string              `json:"orderReference" binding:"max=100"`
	CustomerDetails *CustomerDetailsDTO `json:"customerDetails"`
	KOTType         string              `json:"kotType" binding:"max=100"`
	Notes           string              `json:"notes"`
	Items           []KOTLineRequest    `json:"items" binding:"omitempty,dive"`
}

// UpdateItemStatusRequest moves one line to a new status
type UpdateItemStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CancelKOTRequest carries the optional reason for cancelling a ticket
type CancelKOTRequest struct {
	Reason string `json:"reason" binding:"max=255"`
}

// KOTListFilter is the query of the ticket listing
type KOTListFilter struct {
	Status      string     `form:"status"`
	KOTType     string     `form:"kotType"`
	TableNumber string     `form:"tableNumber"`
	Search      string     `form:"search"`
	StartDate   *time.Time `form:"startDate" time_format:"2006-01-02"`
	EndDate     *time.Time `form:"endDate" time_format:"2006-01-02"`
	Page        int        `form:"page"`
	Limit       int        `form:"limit"`
}

// KOTItemResponse is one line of a ticket
type KOTItemResponse struct {
	ID           uuid.UUID          `json:"id"`
	ItemID       uuid.UUID          `json:"itemId"`
	ItemName     string             `json:"itemName"`
	CategoryName string             `json:"categoryName,omitempty"`
	Quantity     int                `json:"quantity"`
	Price        decimal.Decimal    `json:"price"`
	TotalAmount  decimal.Decimal    `json:"totalAmount"`
	Variant      string             `json:"variant,omitempty"`
	KOTNote      string             `json:"kotNote,omitempty"`
	Status       kitchen.ItemStatus `json:"status"`
	PreparedAt   *time.Time         `json:"preparedAt,omitempty"`
	ServedAt     *time.Time         `json:"servedAt,omitempty"`
}

// KOTResponse is a ticket with its lines
type KOTResponse struct {
	ID              uuid.UUID          `json:"id"`
	KOTNumber       string             `json:"kotNumber"`
	TableNumber     string             `json:"tableNumber"`
	OrderReference  string             `json:"orderReference,omitempty"`
	CustomerDetails CustomerDetailsDTO `json:"customerDetails"`
	KOTType         string             `json:"kotType"`
	Notes           string             `json:"notes,omitempty"`
	Status          kitchen.KOTStatus  `json:"status"`
	TotalAmount     decimal.Decimal    `json:"totalAmount"`
	Items           []KOTItemResponse  `json:"items"`
	PrintedAt       *time.Time         `json:"printedAt,omitempty"`
	CompletedAt     *time.Time         `json:"completedAt,omitempty"`
	CancelledAt     *time.Time         `json:"cancelledAt,omitempty"`
	CreatedBy       *uuid.UUID         `json:"createdBy,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
	Version         int                `json:"version"`
}

// ToKOTResponse converts a ticket to its response
func ToKOTResponse(k *kitchen.KOT) KOTResponse {
	items := make([]KOTItemResponse, len(k.Items))
	for i, line := range k.Items {
		items[i] = KOTItemResponse{
			ID:           line.ID,
			ItemID:       line.ItemID,
			ItemName:     line.ItemName,
			CategoryName: line.CategoryName,
			Quantity:     line.Quantity,
			Price:        line.Price,
			TotalAmount:  line.TotalAmount,
			Variant:      line.Variant,
			KOTNote:      line.KOTNote,
			Status:       line.Status,
			PreparedAt:   line.PreparedAt,
			ServedAt:     line.ServedAt,
		}
	}
	return KOTResponse{
		ID:             k.ID,
		KOTNumber:      k.KOTNumber,
		TableNumber:    k.TableNumber,
		OrderReference: k.OrderReference,
		CustomerDetails: CustomerDetailsDTO{
			Name:   k.Customer.Name,
			Mobile: k.Customer.Mobile,
			Type:   k.Customer.Type,
		},
		KOTType:     k.KOTType,
		Notes:       k.Notes,
		Status:      k.Status,
		TotalAmount: k.TotalAmount,
		Items:       items,
		PrintedAt:   k.PrintedAt,
		CompletedAt: k.CompletedAt,
		CancelledAt: k.CancelledAt,
		CreatedBy:   k.CreatedBy,
		CreatedAt:   k.CreatedAt,
		UpdatedAt:   k.UpdatedAt,
		Version:     k.Version,
	}
}

// ToKOTResponses converts a page of tickets
func ToKOTResponses(kots []kitchen.KOT) []KOTResponse {
	responses := make([]KOTResponse, len(kots))
	for i := range kots {
		responses[i] = ToKOTResponse(&kots[i])
	}
	return responses
}

func (c *CustomerDetailsDTO) toDomain() kitchen.CustomerDetails {
	if c == nil {
		return kitchen.CustomerDetails{}
	}
	return kitchen.CustomerDetails{Name: c.Name, Mobile: c.Mobile, Type: c.Type}
}
