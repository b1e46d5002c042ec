package handler

import (
	partnerapp "github.com/foodcourt/pos/internal/application/partner"
	"github.com/gin-gonic/gin"
)

// PartyHandler handles customers, vendors and referrers
type PartyHandler struct {
	BaseHandler
	partyService *partnerapp.PartyService
}

// NewPartyHandler creates a new PartyHandler
func NewPartyHandler(partyService *partnerapp.PartyService) *PartyHandler {
	return &PartyHandler{partyService: partyService}
}

// Create godoc
// @Summary      Create a party
// @Description  Only referrers carry a commission rate
// @Tags         parties
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.CreatePartyRequest true "Party"
// @Success      201 {object} dto.Response{data=partnerapp.PartyResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /parties [post]
func (h *PartyHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.TenantAndUser(c)
	if !ok {
		return
	}
	var req partnerapp.CreatePartyRequest
	if !h.BindJSON(c, &req) {
		return
	}

	party, err := h.partyService.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, party)
}

// List godoc
// @Summary      List parties
// @Tags         parties
// @Produce      json
// @Param        search query string false "Name, mobile or email"
// @Param        type query string false "customer, vendor or referrer"
// @Param        status query string false "active or inactive"
// @Param        page query int false "Page number" default(1)
// @Param        limit query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]partnerapp.PartyResponse,pagination=dto.Pagination}
// @Security     BearerAuth
// @Router       /parties [get]
func (h *PartyHandler) List(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	var filter partnerapp.PartyListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	normalizePage(&filter.Page, &filter.Limit)

	parties, total, err := h.partyService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithPagination(c, parties, total, filter.Page, filter.Limit)
}

// Get godoc
// @Summary      Get a party
// @Tags         parties
// @Produce      json
// @Param        id path string true "Party ID"
// @Success      200 {object} dto.Response{data=partnerapp.PartyResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /parties/{id} [get]
func (h *PartyHandler) Get(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	partyID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	party, err := h.partyService.GetByID(c.Request.Context(), tenantID, partyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, party)
}

// Update godoc
// @Summary      Update a party
// @Tags         parties
// @Accept       json
// @Produce      json
// @Param        id path string true "Party ID"
// @Param        request body partnerapp.UpdatePartyRequest true "Party"
// @Success      200 {object} dto.Response{data=partnerapp.PartyResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /parties/{id} [put]
func (h *PartyHandler) Update(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	partyID, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req partnerapp.UpdatePartyRequest
	if !h.BindJSON(c, &req) {
		return
	}

	party, err := h.partyService.Update(c.Request.Context(), tenantID, partyID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, party)
}

// Delete godoc
// @Summary      Delete a party
// @Description  A referrer still holding points cannot be deleted
// @Tags         parties
// @Produce      json
// @Param        id path string true "Party ID"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /parties/{id} [delete]
func (h *PartyHandler) Delete(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	partyID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	if err := h.partyService.Delete(c.Request.Context(), tenantID, partyID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Party deleted successfully")
}

// ListPoints godoc
// @Summary      Referrer point ledger
// @Tags         parties
// @Produce      json
// @Param        id path string true "Party ID"
// @Param        page query int false "Page number" default(1)
// @Param        limit query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]partnerapp.PointEntryResponse,pagination=dto.Pagination}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /parties/{id}/points [get]
func (h *PartyHandler) ListPoints(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	partyID, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	page, limit := pageParams(c)

	entries, total, err := h.partyService.ListPoints(c.Request.Context(), tenantID, partyID, page, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithPagination(c, entries, total, page, limit)
}

// RedeemPoints godoc
// @Summary      Redeem referrer points
// @Tags         parties
// @Accept       json
// @Produce      json
// @Param        id path string true "Party ID"
// @Param        request body partnerapp.RedeemPointsRequest true "Points"
// @Success      200 {object} dto.Response{data=partnerapp.PointEntryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /parties/{id}/points/redeem [post]
func (h *PartyHandler) RedeemPoints(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	partyID, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req partnerapp.RedeemPointsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	entry, err := h.partyService.RedeemPoints(c.Request.Context(), tenantID, partyID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}
