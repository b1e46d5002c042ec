package partner

import (
	"context"
	"fmt"
	"strings"

	appshared "github.com/foodcourt/pos/internal/application/shared"
	"github.com/foodcourt/pos/internal/domain/partner"
	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/google/uuid"
)

// PartyService handles customers, vendors and referrers
type PartyService struct {
	txScope        appshared.TransactionScope
	partyRepo      partner.PartyRepository
	pointRepo      partner.PointLedgerRepository
	eventPublisher shared.EventPublisher
}

// NewPartyService creates a new PartyService
func NewPartyService(txScope appshared.TransactionScope, partyRepo partner.PartyRepository, pointRepo partner.PointLedgerRepository) *PartyService {
	return &PartyService{
		txScope:   txScope,
		partyRepo: partyRepo,
		pointRepo: pointRepo,
	}
}

// SetEventPublisher sets the event publisher for party events
func (s *PartyService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new party
func (s *PartyService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreatePartyRequest) (*PartyResponse, error) {
	party, err := partner.NewParty(tenantID, req.Name, partner.PartyType(req.Type), partner.ContactDetails{
		Mobile:  req.Mobile,
		Email:   req.Email,
		Address: req.Address,
		GSTIN:   req.GSTIN,
	})
	if err != nil {
		return nil, err
	}
	if req.CommissionRate != nil {
		if !party.IsReferrer() && !req.CommissionRate.IsZero() {
			return nil, shared.NewValidationError("only referrers earn commission")
		}
		if err := party.SetCommissionRate(*req.CommissionRate); err != nil {
			return nil, err
		}
	}
	party.SetCreatedBy(userID)

	if err := s.partyRepo.Save(ctx, party); err != nil {
		return nil, err
	}
	// Publish errors are logged by the event bus
	_ = shared.PublishAndClear(ctx, s.eventPublisher, party)

	response := ToPartyResponse(party)
	return &response, nil
}

// GetByID retrieves a party by ID
func (s *PartyService) GetByID(ctx context.Context, tenantID, partyID uuid.UUID) (*PartyResponse, error) {
	party, err := s.partyRepo.FindByIDForTenant(ctx, tenantID, partyID)
	if err != nil {
		return nil, err
	}
	response := ToPartyResponse(party)
	return &response, nil
}

// List retrieves a page of parties by name
func (s *PartyService) List(ctx context.Context, tenantID uuid.UUID, filter PartyListFilter) ([]PartyResponse, int64, error) {
	domainFilter := listFilter(filter.Page, filter.Limit, "name", filter.Search)
	domainFilter.OrderDir = "asc"
	if filter.Type != "" {
		if !partner.PartyType(filter.Type).IsValid() {
			return nil, 0, shared.NewValidationError("unknown party type %q", filter.Type)
		}
		domainFilter.Filters["type"] = filter.Type
	}
	if filter.Status != "" {
		if filter.Status != string(partner.PartyStatusActive) && filter.Status != string(partner.PartyStatusInactive) {
			return nil, 0, shared.NewDomainError(shared.CodeInvalidStatus, fmt.Sprintf("Invalid status '%s'", filter.Status))
		}
		domainFilter.Filters["status"] = filter.Status
	}

	parties, err := s.partyRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.partyRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToPartyResponses(parties), total, nil
}

// Update updates a party
func (s *PartyService) Update(ctx context.Context, tenantID, partyID uuid.UUID, req UpdatePartyRequest) (*PartyResponse, error) {
	party, err := s.partyRepo.FindByIDForTenant(ctx, tenantID, partyID)
	if err != nil {
		return nil, err
	}
	if err := party.Update(req.Name, partner.ContactDetails{
		Mobile:  req.Mobile,
		Email:   req.Email,
		Address: req.Address,
		GSTIN:   req.GSTIN,
	}); err != nil {
		return nil, err
	}
	if req.CommissionRate != nil && !req.CommissionRate.Equal(party.CommissionRate) {
		if !party.IsReferrer() {
			return nil, shared.NewValidationError("only referrers earn commission")
		}
		if err := party.SetCommissionRate(*req.CommissionRate); err != nil {
			return nil, err
		}
	}
	if req.Status != "" {
		if err := party.SetStatus(partner.PartyStatus(req.Status)); err != nil {
			return nil, err
		}
	}

	if err := s.partyRepo.Save(ctx, party); err != nil {
		return nil, err
	}
	// Publish errors are logged by the event bus
	_ = shared.PublishAndClear(ctx, s.eventPublisher, party)

	response := ToPartyResponse(party)
	return &response, nil
}

// Delete removes a party. Bills keep the name they were issued with.
func (s *PartyService) Delete(ctx context.Context, tenantID, partyID uuid.UUID) error {
	party, err := s.partyRepo.FindByIDForTenant(ctx, tenantID, partyID)
	if err != nil {
		return err
	}
	if party.PointsBalance.IsPositive() {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Referrer %s still holds %s points", party.Name, party.PointsBalance.StringFixed(2)))
	}
	party.MarkDeleted()
	if err := s.partyRepo.DeleteForTenant(ctx, tenantID, partyID); err != nil {
		return err
	}
	// Publish errors are logged by the event bus
	_ = shared.PublishAndClear(ctx, s.eventPublisher, party)
	return nil
}

// ListPoints returns the point ledger of a referrer, newest first
func (s *PartyService) ListPoints(ctx context.Context, tenantID, partyID uuid.UUID, page, limit int) ([]PointEntryResponse, int64, error) {
	party, err := s.partyRepo.FindByIDForTenant(ctx, tenantID, partyID)
	if err != nil {
		return nil, 0, err
	}
	if !party.IsReferrer() {
		return nil, 0, shared.NewValidationError("party %s is not a referrer", party.Name)
	}
	entries, total, err := s.pointRepo.FindByReferrer(ctx, tenantID, partyID, listFilter(page, limit, "created_at", ""))
	if err != nil {
		return nil, 0, err
	}
	return ToPointEntryResponses(entries), total, nil
}

// RedeemPoints pays out referrer points. The balance and the ledger row are
// written in one transaction.
func (s *PartyService) RedeemPoints(ctx context.Context, tenantID, partyID uuid.UUID, req RedeemPointsRequest) (*PointEntryResponse, error) {
	var entry *partner.ReferrerPointEntry
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		party, err := repos.Parties().FindByIDForTenant(ctx, tenantID, partyID)
		if err != nil {
			return err
		}
		if !party.IsReferrer() {
			return shared.NewValidationError("party %s is not a referrer", party.Name)
		}
		entry, err = party.Redeem(req.Points, strings.TrimSpace(req.Reference))
		if err != nil {
			return err
		}
		if err := repos.PointLedger().Append(ctx, entry); err != nil {
			return fmt.Errorf("append point entry: %w", err)
		}
		return repos.Parties().Save(ctx, party)
	})
	if err != nil {
		return nil, err
	}
	return &ToPointEntryResponses([]partner.ReferrerPointEntry{*entry})[0], nil
}

func listFilter(page, limit int, orderBy, search string) shared.Filter {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return shared.Filter{
		Page:     page,
		PageSize: limit,
		OrderBy:  orderBy,
		OrderDir: "desc",
		Search:   strings.TrimSpace(search),
		Filters:  make(map[string]interface{}),
	}
}
