package partner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/foodcourt/pos/internal/domain/partner"
	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/google/uuid"
)

// CouponService handles discount coupons. Redemption happens inside sale creation;
// this service only manages and previews coupons.
type CouponService struct {
	couponRepo partner.CouponRepository
	now        func() time.Time
}

// NewCouponService creates a new CouponService
func NewCouponService(couponRepo partner.CouponRepository) *CouponService {
	return &CouponService{couponRepo: couponRepo, now: time.Now}
}

// Create creates a coupon; codes are unique per tenant ignoring case
func (s *CouponService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CouponRequest) (*CouponResponse, error) {
	code := partner.NormalizeCouponCode(req.Code)
	exists, err := s.couponRepo.ExistsByCode(ctx, tenantID, code, nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, fmt.Sprintf("Coupon with code '%s' already exists", code))
	}

	coupon, err := partner.NewCoupon(tenantID, code, req.terms())
	if err != nil {
		return nil, err
	}
	if req.Status != "" {
		if err := coupon.SetStatus(partner.CouponStatus(req.Status)); err != nil {
			return nil, err
		}
	}
	coupon.SetCreatedBy(userID)
	if err := s.couponRepo.Save(ctx, coupon); err != nil {
		return nil, err
	}
	response := ToCouponResponse(coupon)
	return &response, nil
}

// GetByID retrieves a coupon
func (s *CouponService) GetByID(ctx context.Context, tenantID, couponID uuid.UUID) (*CouponResponse, error) {
	coupon, err := s.couponRepo.FindByIDForTenant(ctx, tenantID, couponID)
	if err != nil {
		return nil, err
	}
	response := ToCouponResponse(coupon)
	return &response, nil
}

// List retrieves a page of coupons, newest first
func (s *CouponService) List(ctx context.Context, tenantID uuid.UUID, filter CouponListFilter) ([]CouponResponse, int64, error) {
	domainFilter := listFilter(filter.Page, filter.Limit, "created_at", filter.Search)
	if filter.Status != "" {
		if filter.Status != string(partner.CouponStatusActive) && filter.Status != string(partner.CouponStatusInactive) {
			return nil, 0, shared.NewDomainError(shared.CodeInvalidStatus, fmt.Sprintf("Invalid status '%s'", filter.Status))
		}
		domainFilter.Filters["status"] = filter.Status
	}
	coupons, err := s.couponRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.couponRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]CouponResponse, len(coupons))
	for i := range coupons {
		responses[i] = ToCouponResponse(&coupons[i])
	}
	return responses, total, nil
}

// Update replaces the terms and status of a coupon. The code and usage count are kept.
func (s *CouponService) Update(ctx context.Context, tenantID, couponID uuid.UUID, req CouponRequest) (*CouponResponse, error) {
	coupon, err := s.couponRepo.FindByIDForTenant(ctx, tenantID, couponID)
	if err != nil {
		return nil, err
	}
	if err := coupon.Update(req.terms()); err != nil {
		return nil, err
	}
	if req.Status != "" {
		if err := coupon.SetStatus(partner.CouponStatus(req.Status)); err != nil {
			return nil, err
		}
	}
	if err := s.couponRepo.Save(ctx, coupon); err != nil {
		return nil, err
	}
	response := ToCouponResponse(coupon)
	return &response, nil
}

// Delete removes a coupon. Sales keep the code they were billed with.
func (s *CouponService) Delete(ctx context.Context, tenantID, couponID uuid.UUID) error {
	if _, err := s.couponRepo.FindByIDForTenant(ctx, tenantID, couponID); err != nil {
		return err
	}
	return s.couponRepo.DeleteForTenant(ctx, tenantID, couponID)
}

// Validate previews the discount a code gives on an order amount without counting a use
func (s *CouponService) Validate(ctx context.Context, tenantID uuid.UUID, req ValidateCouponRequest) (*ValidateCouponResponse, error) {
	code := partner.NormalizeCouponCode(req.Code)
	if req.OrderAmount.IsNegative() {
		return nil, shared.NewValidationError("order amount cannot be negative")
	}
	coupon, err := s.couponRepo.FindByCode(ctx, tenantID, code)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewValidationError("coupon %s does not exist", code)
		}
		return nil, err
	}
	discount, err := coupon.Evaluate(req.OrderAmount, s.now())
	if err != nil {
		return nil, err
	}
	return &ValidateCouponResponse{
		Code:          coupon.Code,
		Discount:      discount,
		PayableAmount: req.OrderAmount.Sub(discount),
		Description:   coupon.Description,
	}, nil
}
