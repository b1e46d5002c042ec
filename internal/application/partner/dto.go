package partner

import (
	"time"

	"github.com/foodcourt/pos/internal/domain/partner"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreatePartyRequest represents a request to create a customer, vendor or referrer
type CreatePartyRequest struct {
	Name           string           `json:"name" binding:"required,min=1,max=200"`
	Type           string           `json:"type" binding:"required,oneof=customer vendor referrer"`
	Mobile         string           `json:"mobile" binding:"omitempty,phone,max=20"`
	Email          string           `json:"email" binding:"omitempty,email"`
	Address        string           `json:"address" binding:"max=500"`
	GSTIN          string           `json:"gstin" binding:"omitempty,gstin"`
	CommissionRate *decimal.Decimal `json:"commissionRate"`
}

// UpdatePartyRequest represents a request to update a party. The type cannot change.
type UpdatePartyRequest struct {
	Name           string           `json:"name" binding:"required,min=1,max=200"`
	Mobile         string           `json:"mobile" binding:"omitempty,phone,max=20"`
	Email          string           `json:"email" binding:"omitempty,email"`
	Address        string           `json:"address" binding:"max=500"`
	GSTIN          string           `json:"gstin" binding:"omitempty,gstin"`
	CommissionRate *decimal.Decimal `json:"commissionRate"`
	Status         string           `json:"status" binding:"omitempty,oneof=active inactive"`
}

// PartyListFilter is the query of the party listing
type PartyListFilter struct {
	Search string `form:"search"`
	Type   string `form:"type"`
	Status string `form:"status"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

// PartyResponse represents a party in API responses
type PartyResponse struct {
	ID             uuid.UUID           `json:"id"`
	Name           string              `json:"name"`
	Type           partner.PartyType   `json:"type"`
	Mobile         string              `json:"mobile,omitempty"`
	Email          string              `json:"email,omitempty"`
	Address        string              `json:"address,omitempty"`
	GSTIN          string              `json:"gstin,omitempty"`
	CommissionRate decimal.Decimal     `json:"commissionRate"`
	PointsBalance  decimal.Decimal     `json:"pointsBalance"`
	Status         partner.PartyStatus `json:"status"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

// ToPartyResponse converts a party
func ToPartyResponse(p *partner.Party) PartyResponse {
	return PartyResponse{
		ID:             p.ID,
		Name:           p.Name,
		Type:           p.Type,
		Mobile:         p.Mobile,
		Email:          p.Email,
		Address:        p.Address,
		GSTIN:          p.GSTIN,
		CommissionRate: p.CommissionRate,
		PointsBalance:  p.PointsBalance,
		Status:         p.Status,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// ToPartyResponses converts a page of parties
func ToPartyResponses(parties []partner.Party) []PartyResponse {
	responses := make([]PartyResponse, len(parties))
	for i := range parties {
		responses[i] = ToPartyResponse(&parties[i])
	}
	return responses
}

// RedeemPointsRequest spends referrer points
type RedeemPointsRequest struct {
	Points    decimal.Decimal `json:"points"`
	Reference string          `json:"reference" binding:"max=100"`
}

// PointEntryResponse is one row of a referrer's point ledger
type PointEntryResponse struct {
	ID            uuid.UUID              `json:"id"`
	SaleID        *uuid.UUID             `json:"saleId,omitempty"`
	Reference     string                 `json:"reference,omitempty"`
	Type          partner.PointEntryType `json:"type"`
	Points        decimal.Decimal        `json:"points"`
	BalanceBefore decimal.Decimal        `json:"balanceBefore"`
	BalanceAfter  decimal.Decimal        `json:"balanceAfter"`
	CreatedAt     time.Time              `json:"createdAt"`
}

// ToPointEntryResponses converts ledger rows
func ToPointEntryResponses(entries []partner.ReferrerPointEntry) []PointEntryResponse {
	responses := make([]PointEntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = PointEntryResponse{
			ID:            e.ID,
			SaleID:        e.SaleID,
			Reference:     e.Reference,
			Type:          e.Type,
			Points:        e.Points,
			BalanceBefore: e.BalanceBefore,
			BalanceAfter:  e.BalanceAfter,
			CreatedAt:     e.CreatedAt,
		}
	}
	return responses
}

// CouponRequest creates or updates a coupon. Code is ignored on update.
type CouponRequest struct {
	Code           string          `json:"code" binding:"max=50"`
	Description    string          `json:"description" binding:"max=500"`
	DiscountType   string          `json:"discountType" binding:"required,oneof=percentage flat"`
	Value          decimal.Decimal `json:"value"`
	MinOrderAmount decimal.Decimal `json:"minOrderAmount"`
	MaxDiscount    decimal.Decimal `json:"maxDiscount"`
	ValidFrom      *time.Time      `json:"validFrom"`
	ValidTo        *time.Time      `json:"validTo"`
	UsageLimit     int             `json:"usageLimit" binding:"min=0"`
	Status         string          `json:"status" binding:"omitempty,oneof=active inactive"`
}

func (r CouponRequest) terms() partner.CouponTerms {
	return partner.CouponTerms{
		Description:    r.Description,
		DiscountType:   partner.DiscountType(r.DiscountType),
		Value:          r.Value,
		MinOrderAmount: r.MinOrderAmount,
		MaxDiscount:    r.MaxDiscount,
		ValidFrom:      r.ValidFrom,
		ValidTo:        r.ValidTo,
		UsageLimit:     r.UsageLimit,
	}
}

// CouponListFilter is the query of the coupon listing
type CouponListFilter struct {
	Search string `form:"search"`
	Status string `form:"status"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

// CouponResponse represents a coupon in API responses
type CouponResponse struct {
	ID             uuid.UUID            `json:"id"`
	Code           string               `json:"code"`
	Description    string               `json:"description,omitempty"`
	DiscountType   partner.DiscountType `json:"discountType"`
	Value          decimal.Decimal      `json:"value"`
	MinOrderAmount decimal.Decimal      `json:"minOrderAmount"`
	MaxDiscount    decimal.Decimal      `json:"maxDiscount"`
	ValidFrom      *time.Time           `json:"validFrom,omitempty"`
	ValidTo        *time.Time           `json:"validTo,omitempty"`
	UsageLimit     int                  `json:"usageLimit"`
	UsedCount      int                  `json:"usedCount"`
	Status         partner.CouponStatus `json:"status"`
	CreatedAt      time.Time            `json:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt"`
}

// ToCouponResponse converts a coupon
func ToCouponResponse(c *partner.Coupon) CouponResponse {
	return CouponResponse{
		ID:             c.ID,
		Code:           c.Code,
		Description:    c.Description,
		DiscountType:   c.DiscountType,
		Value:          c.Value,
		MinOrderAmount: c.MinOrderAmount,
		MaxDiscount:    c.MaxDiscount,
		ValidFrom:      c.ValidFrom,
		ValidTo:        c.ValidTo,
		UsageLimit:     c.UsageLimit,
		UsedCount:      c.UsedCount,
		Status:         c.Status,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// ValidateCouponRequest checks a code against an order amount without using it
type ValidateCouponRequest struct {
	Code        string          `json:"code" binding:"required"`
	OrderAmount decimal.Decimal `json:"orderAmount"`
}

// ValidateCouponResponse is the discount a coupon would give
type ValidateCouponResponse struct {
	Code          string          `json:"code"`
	Discount      decimal.Decimal `json:"discount"`
	PayableAmount decimal.Decimal `json:"payableAmount"`
	Description   string          `json:"description,omitempty"`
}
