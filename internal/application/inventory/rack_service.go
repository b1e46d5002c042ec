package inventory

import (
	"context"
	"errors"

	appshared "github.com/foodcourt/pos/internal/application/shared"
	"github.com/foodcourt/pos/internal/domain/catalog"
	"github.com/foodcourt/pos/internal/domain/inventory"
	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/google/uuid"
)

// RackService manages racks and the per-rack stock buckets. Rack buckets are
// tracked on their own and never change an item's total quantity.
type RackService struct {
	txScope  appshared.TransactionScope
	rackRepo inventory.RackRepository
	itemRepo catalog.ItemRepository
}

// NewRackService creates a new RackService
func NewRackService(txScope appshared.TransactionScope, rackRepo inventory.RackRepository, itemRepo catalog.ItemRepository) *RackService {
	return &RackService{txScope: txScope, rackRepo: rackRepo, itemRepo: itemRepo}
}

// CreateRack creates a rack
func (s *RackService) CreateRack(ctx context.Context, tenantID, actorID uuid.UUID, req CreateRackRequest) (*RackResponse, error) {
	rack, err := inventory.NewRack(tenantID, req.Name, req.Location)
	if err != nil {
		return nil, err
	}
	rack.SetCreatedBy(actorID)
	if err := s.rackRepo.SaveRack(ctx, rack); err != nil {
		return nil, err
	}
	resp := ToRackResponse(rack)
	return &resp, nil
}

// ListRacks returns every rack of the tenant
func (s *RackService) ListRacks(ctx context.Context, tenantID uuid.UUID) ([]RackResponse, error) {
	racks, err := s.rackRepo.FindRacks(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	responses := make([]RackResponse, len(racks))
	for i := range racks {
		responses[i] = ToRackResponse(&racks[i])
	}
	return responses, nil
}

// DeleteRack removes a rack that holds no stock
func (s *RackService) DeleteRack(ctx context.Context, tenantID, rackID uuid.UUID) error {
	stocks, err := s.rackRepo.FindStockByRack(ctx, tenantID, rackID)
	if err != nil {
		return err
	}
	for _, st := range stocks {
		if st.Quantity.IsPositive() {
			return shared.NewDomainError(shared.CodeInvalidState, "Rack still holds stock")
		}
	}
	return s.rackRepo.DeleteRack(ctx, tenantID, rackID)
}

// PlaceStock puts an item on a rack. If the item already has a bucket on the rack,
// its thresholds are replaced and the quantity is left alone.
func (s *RackService) PlaceStock(ctx context.Context, tenantID, rackID uuid.UUID, req PlaceRackStockRequest) (*RackStockResponse, error) {
	if _, err := s.rackRepo.FindRack(ctx, tenantID, rackID); err != nil {
		return nil, err
	}
	item, err := s.itemRepo.FindByIDForTenant(ctx, tenantID, req.ItemID)
	if err != nil {
		return nil, err
	}

	existing, err := s.rackRepo.FindStockByRackAndItem(ctx, tenantID, rackID, item.ID)
	switch {
	case err == nil:
		updated, err := s.lockedStockChange(ctx, tenantID, existing.ID, func(stock *inventory.RackStock) error {
			if err := stock.SetThresholds(req.MinStock, req.MaxStock); err != nil {
				return err
			}
			stock.IncrementVersion()
			return nil
		})
		if err != nil {
			return nil, err
		}
		resp := ToRackStockResponse(updated)
		return &resp, nil
	case !errors.Is(err, shared.ErrNotFound):
		return nil, err
	}

	stock, err := inventory.NewRackStock(tenantID, rackID, item.ID, item.Name, req.Quantity, req.MinStock, req.MaxStock)
	if err != nil {
		return nil, err
	}
	if err := s.rackRepo.SaveStock(ctx, stock); err != nil {
		return nil, err
	}
	resp := ToRackStockResponse(stock)
	return &resp, nil
}

// ListStock returns the buckets on a rack with their derived labels
func (s *RackService) ListStock(ctx context.Context, tenantID, rackID uuid.UUID) ([]RackStockResponse, error) {
	if _, err := s.rackRepo.FindRack(ctx, tenantID, rackID); err != nil {
		return nil, err
	}
	stocks, err := s.rackRepo.FindStockByRack(ctx, tenantID, rackID)
	if err != nil {
		return nil, err
	}
	responses := make([]RackStockResponse, len(stocks))
	for i := range stocks {
		responses[i] = ToRackStockResponse(&stocks[i])
	}
	return responses, nil
}

// AdjustStock moves one rack bucket and returns it with its new label
func (s *RackService) AdjustStock(ctx context.Context, tenantID, rackStockID uuid.UUID, req AdjustRackStockRequest) (*RackStockResponse, error) {
	stock, err := s.lockedStockChange(ctx, tenantID, rackStockID, func(stock *inventory.RackStock) error {
		_, err := stock.Adjust(req.Type, req.Quantity)
		return err
	})
	if err != nil {
		return nil, err
	}
	resp := ToRackStockResponse(stock)
	return &resp, nil
}

// lockedStockChange applies change to a bucket read under a row lock and saves it
// in the same transaction
func (s *RackService) lockedStockChange(ctx context.Context, tenantID, rackStockID uuid.UUID, change func(*inventory.RackStock) error) (*inventory.RackStock, error) {
	var stock *inventory.RackStock
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		var err error
		if stock, err = repos.Racks().FindStockForUpdate(ctx, tenantID, rackStockID); err != nil {
			return err
		}
		if err := change(stock); err != nil {
			return err
		}
		return repos.Racks().SaveStock(ctx, stock)
	})
	if err != nil {
		return nil, err
	}
	return stock, nil
}
