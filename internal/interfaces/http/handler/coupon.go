package handler

import (
	partnerapp "github.com/foodcourt/pos/internal/application/partner"
	"github.com/gin-gonic/gin"
)

// CouponHandler handles discount coupons
type CouponHandler struct {
	BaseHandler
	couponService *partnerapp.CouponService
}

// NewCouponHandler creates a new CouponHandler
func NewCouponHandler(couponService *partnerapp.CouponService) *CouponHandler {
	return &CouponHandler{couponService: couponService}
}

// Create godoc
// @Summary      Create a coupon
// @Tags         coupons
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.CouponRequest true "Coupon"
// @Success      201 {object} dto.Response{data=partnerapp.CouponResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /coupons [post]
func (h *CouponHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.TenantAndUser(c)
	if !ok {
		return
	}
	var req partnerapp.CouponRequest
	if !h.BindJSON(c, &req) {
		return
	}

	coupon, err := h.couponService.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, coupon)
}

// List godoc
// @Summary      List coupons
// @Tags         coupons
// @Produce      json
// @Param        search query string false "Code"
// @Param        status query string false "active or inactive"
// @Param        page query int false "Page number" default(1)
// @Param        limit query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]partnerapp.CouponResponse,pagination=dto.Pagination}
// @Security     BearerAuth
// @Router       /coupons [get]
func (h *CouponHandler) List(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	var filter partnerapp.CouponListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	normalizePage(&filter.Page, &filter.Limit)

	coupons, total, err := h.couponService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithPagination(c, coupons, total, filter.Page, filter.Limit)
}

// Get godoc
// @Summary      Get a coupon
// @Tags         coupons
// @Produce      json
// @Param        id path string true "Coupon ID"
// @Success      200 {object} dto.Response{data=partnerapp.CouponResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /coupons/{id} [get]
func (h *CouponHandler) Get(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	couponID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	coupon, err := h.couponService.GetByID(c.Request.Context(), tenantID, couponID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, coupon)
}

// Update godoc
// @Summary      Update a coupon
// @Description  The code cannot change
// @Tags         coupons
// @Accept       json
// @Produce      json
// @Param        id path string true "Coupon ID"
// @Param        request body partnerapp.CouponRequest true "Coupon"
// @Success      200 {object} dto.Response{data=partnerapp.CouponResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /coupons/{id} [put]
func (h *CouponHandler) Update(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	couponID, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req partnerapp.CouponRequest
	if !h.BindJSON(c, &req) {
		return
	}

	coupon, err := h.couponService.Update(c.Request.Context(), tenantID, couponID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, coupon)
}

// Delete godoc
// @Summary      Delete a coupon
// @Tags         coupons
// @Produce      json
// @Param        id path string true "Coupon ID"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /coupons/{id} [delete]
func (h *CouponHandler) Delete(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	couponID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	if err := h.couponService.Delete(c.Request.Context(), tenantID, couponID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Coupon deleted successfully")
}

// Validate godoc
// @Summary      Check a coupon
// @Description  Compute the discount a code gives on an order amount without using it
// @Tags         coupons
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.ValidateCouponRequest true "Code and order amount"
// @Success      200 {object} dto.Response{data=partnerapp.ValidateCouponResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /coupons/validate [post]
func (h *CouponHandler) Validate(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	var req partnerapp.ValidateCouponRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.couponService.Validate(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
