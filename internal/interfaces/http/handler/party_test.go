package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	partnerapp "github.com/foodcourt/pos/internal/application/partner"
	appshared "github.com/foodcourt/pos/internal/application/shared"
	"github.com/foodcourt/pos/internal/domain/partner"
	"github.com/foodcourt/pos/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type partyHandlerFixture struct {
	parties *testutil.MockPartyRepository
	points  *testutil.MockPointLedgerRepository
	router  *gin.Engine
}

func newPartyHandlerFixture(tenantID uuid.UUID) *partyHandlerFixture {
	f := &partyHandlerFixture{
		parties: new(testutil.MockPartyRepository),
		points:  new(testutil.MockPointLedgerRepository),
	}
	scope := appshared.NewNoOpTransactionScope(&appshared.Repositories{
		PartyRepo: f.parties,
		PointRepo: f.points,
	})
	h := NewPartyHandler(partnerapp.NewPartyService(scope, f.parties, f.points))

	f.router = newTestRouter(tenantID, uuid.New())
	parties := f.router.Group("/api/parties")
	parties.POST("", h.Create)
	parties.GET("", h.List)
	parties.DELETE("/:id", h.Delete)
	parties.GET("/:id/points", h.ListPoints)
	return f
}

func newHandlerTestParty(t *testing.T, tenantID uuid.UUID, partyType partner.PartyType) *partner.Party {
	t.Helper()
	party, err := partner.NewParty(tenantID, "Anita Rao", partyType, partner.ContactDetails{Mobile: "9876543210"})
	require.NoError(t, err)
	party.ClearDomainEvents()
	return party
}

func TestPartyHandler_Create(t *testing.T) {
	tenantID := uuid.New()

	t.Run("created", func(t *testing.T) {
		f := newPartyHandlerFixture(tenantID)
		f.parties.On("Save", mock.Anything, mock.AnythingOfType("*partner.Party")).Return(nil)

		w := doRequest(f.router, http.MethodPost, "/api/parties", map[string]any{
			"name": "Anita Rao",
			"type": "customer",
		})

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var data partnerapp.PartyResponse
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &data))
		assert.Equal(t, partner.PartyTypeCustomer, data.Type)
		assert.Equal(t, "Anita Rao", data.Name)
	})

	t.Run("unknown type", func(t *testing.T) {
		f := newPartyHandlerFixture(tenantID)

		w := doRequest(f.router, http.MethodPost, "/api/parties", map[string]any{
			"name": "Anita Rao",
			"type": "supplier",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		f.parties.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestPartyHandler_Delete(t *testing.T) {
	tenantID := uuid.New()

	t.Run("referrer holding points", func(t *testing.T) {
		f := newPartyHandlerFixture(tenantID)
		party := newHandlerTestParty(t, tenantID, partner.PartyTypeReferrer)
		party.PointsBalance = decimal.NewFromInt(25)
		f.parties.On("FindByIDForTenant", mock.Anything, tenantID, party.ID).Return(party, nil)

		w := doRequest(f.router, http.MethodDelete, "/api/parties/"+party.ID.String(), nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_STATE", decodeEnvelope(t, w).Error.Code)
		f.parties.AssertNotCalled(t, "DeleteForTenant", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("customer", func(t *testing.T) {
		f := newPartyHandlerFixture(tenantID)
		party := newHandlerTestParty(t, tenantID, partner.PartyTypeCustomer)
		f.parties.On("FindByIDForTenant", mock.Anything, tenantID, party.ID).Return(party, nil)
		f.parties.On("DeleteForTenant", mock.Anything, tenantID, party.ID).Return(nil)

		w := doRequest(f.router, http.MethodDelete, "/api/parties/"+party.ID.String(), nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Party deleted successfully", decodeEnvelope(t, w).Message)
	})
}

func TestPartyHandler_ListPoints(t *testing.T) {
	tenantID := uuid.New()

	t.Run("only referrers have a ledger", func(t *testing.T) {
		f := newPartyHandlerFixture(tenantID)
		party := newHandlerTestParty(t, tenantID, partner.PartyTypeVendor)
		f.parties.On("FindByIDForTenant", mock.Anything, tenantID, party.ID).Return(party, nil)

		w := doRequest(f.router, http.MethodGet, "/api/parties/"+party.ID.String()+"/points", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_FAILED", decodeEnvelope(t, w).Error.Code)
	})

	t.Run("paginated", func(t *testing.T) {
		f := newPartyHandlerFixture(tenantID)
		party := newHandlerTestParty(t, tenantID, partner.PartyTypeReferrer)
		f.parties.On("FindByIDForTenant", mock.Anything, tenantID, party.ID).Return(party, nil)
		f.points.On("FindByReferrer", mock.Anything, tenantID, party.ID, mock.Anything).
			Return([]partner.ReferrerPointEntry{}, int64(45), nil)

		w := doRequest(f.router, http.MethodGet, "/api/parties/"+party.ID.String()+"/points?page=2&limit=20", nil)

		require.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w)
		require.NotNil(t, env.Pagination)
		assert.Equal(t, int64(45), env.Pagination.Total)
		assert.Equal(t, 3, env.Pagination.Pages)
	})
}
