package inventory

import (
	"bytes"
	"context"
	"fmt"

	appshared "github.com/foodcourt/pos/internal/application/shared"
	"github.com/foodcourt/pos/internal/domain/catalog"
	"github.com/foodcourt/pos/internal/domain/inventory"
	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockService handles stock adjustments, transfers and the stock ledger
type StockService struct {
	txScope        appshared.TransactionScope
	itemRepo       catalog.ItemRepository
	ledgerRepo     inventory.StockAdjustmentRepository
	eventPublisher shared.EventPublisher
}

// NewStockService creates a new StockService
func NewStockService(
	txScope appshared.TransactionScope,
	itemRepo catalog.ItemRepository,
	ledgerRepo inventory.StockAdjustmentRepository,
) *StockService {
	return &StockService{
		txScope:    txScope,
		itemRepo:   itemRepo,
		ledgerRepo: ledgerRepo,
	}
}

// SetEventPublisher sets the event publisher for ledger and low stock events
func (s *StockService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Adjust increases or decreases an item's current quantity and appends a ledger row
// in the same transaction. A decrease larger than the balance fails with
// INSUFFICIENT_STOCK and leaves the item unchanged.
func (s *StockService) Adjust(ctx context.Context, tenantID, actorID uuid.UUID, req AdjustStockRequest) (*AdjustStockResponse, error) {
	if !req.Type.IsValid() {
		return nil, shared.NewValidationError("type must be increase or decrease")
	}
	if !req.Adjustment.IsPositive() {
		return nil, shared.NewValidationError("adjustment must be a positive quantity")
	}

	adjType := inventory.AdjustmentIncrease
	if req.Type == inventory.DirectionDecrease {
		adjType = inventory.AdjustmentDecrease
	}

	var (
		item  *catalog.Item
		entry *inventory.StockAdjustment
	)
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		var err error
		item, err = repos.Items().FindByIDForUpdate(ctx, tenantID, req.ItemID)
		if err != nil {
			return err
		}

		var before, after decimal.Decimal
		if req.Type == inventory.DirectionDecrease {
			before, after, err = item.DecreaseStock(req.Adjustment)
		} else {
			before, after, err = item.IncreaseStock(req.Adjustment)
		}
		if err != nil {
			return err
		}

		entry, err = inventory.NewStockAdjustment(tenantID, item.ID, item.Name, adjType, req.Adjustment, before, after, req.Reason)
		if err != nil {
			return err
		}
		entry.WithActor(actorID)

		if err := repos.Items().SaveStock(ctx, item); err != nil {
			return fmt.Errorf("save item stock: %w", err)
		}
		if err := repos.Adjustments().Append(ctx, entry); err != nil {
			return fmt.Errorf("append stock ledger: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, inventory.NewStockAdjustedEvent(entry))
	if req.Type == inventory.DirectionDecrease {
		s.checkLowStock(ctx, item)
	}

	return &AdjustStockResponse{
		AdjustmentID: entry.ID,
		ItemID:       item.ID,
		ItemName:     item.Name,
		Type:         req.Type,
		Adjustment:   req.Adjustment,
		Before:       entry.BalanceBefore,
		After:        entry.BalanceAfter,
		StockStatus:  item.StockStatus(),
	}, nil
}

// Transfer moves quantity from one item to another. Both rows are locked in id
// order, both balances change and both ledger legs are written in one transaction.
func (s *StockService) Transfer(ctx context.Context, tenantID, actorID uuid.UUID, req TransferStockRequest) (*TransferStockResponse, error) {
	if req.FromItemID == req.ToItemID {
		return nil, shared.NewValidationError("cannot transfer stock to the same item")
	}
	if !req.Quantity.IsPositive() {
		return nil, shared.NewValidationError("quantity must be positive")
	}

	transferID := uuid.New()
	var (
		from, to      *catalog.Item
		outLeg, inLeg *inventory.StockAdjustment
	)
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		var err error
		from, to, err = lockPair(ctx, repos.Items(), tenantID, req.FromItemID, req.ToItemID)
		if err != nil {
			return err
		}

		fromBefore, fromAfter, err := from.DecreaseStock(req.Quantity)
		if err != nil {
			return err
		}
		toBefore, toAfter, err := to.IncreaseStock(req.Quantity)
		if err != nil {
			return err
		}

		outLeg, err = inventory.NewStockAdjustment(tenantID, from.ID, from.Name, inventory.AdjustmentTransferOut,
			req.Quantity, fromBefore, fromAfter, req.Reason)
		if err != nil {
			return err
		}
		inLeg, err = inventory.NewStockAdjustment(tenantID, to.ID, to.Name, inventory.AdjustmentTransferIn,
			req.Quantity, toBefore, toAfter, req.Reason)
		if err != nil {
			return err
		}
		outLeg.WithTransfer(transferID).WithActor(actorID)
		inLeg.WithTransfer(transferID).WithActor(actorID)

		if err := repos.Items().SaveStock(ctx, from); err != nil {
			return fmt.Errorf("save source stock: %w", err)
		}
		if err := repos.Items().SaveStock(ctx, to); err != nil {
			return fmt.Errorf("save destination stock: %w", err)
		}
		if err := repos.Adjustments().Append(ctx, outLeg, inLeg); err != nil {
			return fmt.Errorf("append stock ledger: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx,
		inventory.NewStockAdjustedEvent(outLeg),
		inventory.NewStockAdjustedEvent(inLeg),
		inventory.NewStockTransferredEvent(tenantID, transferID, from.ID, to.ID, req.Quantity),
	)
	s.checkLowStock(ctx, from)

	return &TransferStockResponse{
		TransferID: transferID,
		Quantity:   req.Quantity,
		From: ItemBalance{
			ItemID:   from.ID,
			ItemName: from.Name,
			Before:   outLeg.BalanceBefore,
			After:    outLeg.BalanceAfter,
		},
		To: ItemBalance{
			ItemID:   to.ID,
			ItemName: to.Name,
			Before:   inLeg.BalanceBefore,
			After:    inLeg.BalanceAfter,
		},
	}, nil
}

// lockPair locks both items in ascending id order so two opposite transfers
// cannot deadlock, and returns them as (from, to).
func lockPair(ctx context.Context, repo catalog.ItemRepository, tenantID, fromID, toID uuid.UUID) (*catalog.Item, *catalog.Item, error) {
	firstID, secondID := fromID, toID
	swapped := bytes.Compare(fromID[:], toID[:]) > 0
	if swapped {
		firstID, secondID = toID, fromID
	}

	first, err := repo.FindByIDForUpdate(ctx, tenantID, firstID)
	if err != nil {
		return nil, nil, err
	}
	second, err := repo.FindByIDForUpdate(ctx, tenantID, secondID)
	if err != nil {
		return nil, nil, err
	}
	if swapped {
		return second, first, nil
	}
	return first, second, nil
}

// ListAdjustments returns a page of the stock ledger, newest first
func (s *StockService) ListAdjustments(ctx context.Context, tenantID uuid.UUID, filter AdjustmentListFilter) ([]StockAdjustmentResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}

	domainFilter := inventory.AdjustmentFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.Limit,
			OrderBy:  "created_at",
			OrderDir: "desc",
		},
		ItemID:    filter.ItemID,
		StartDate: filter.StartDate,
		EndDate:   filter.EndDate,
	}
	if filter.Type != "" {
		t := inventory.AdjustmentType(filter.Type)
		if !t.IsValid() {
			return nil, 0, shared.NewValidationError("unknown adjustment type %q", filter.Type)
		}
		domainFilter.Type = t
	}

	entries, total, err := s.ledgerRepo.FindForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToStockAdjustmentResponses(entries), total, nil
}

// ListLowStock returns the items whose current quantity is at or below their minimum
func (s *StockService) ListLowStock(ctx context.Context, tenantID uuid.UUID, page, limit int) ([]LowStockItemResponse, int64, error) {
	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if limit > 0 {
		filter.PageSize = limit
	}
	filter.OrderBy = "stock_current_quantity"
	filter.OrderDir = "asc"
	filter.Filters["low_stock"] = true

	items, err := s.itemRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.itemRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]LowStockItemResponse, len(items))
	for i := range items {
		item := &items[i]
		responses[i] = LowStockItemResponse{
			ItemID:          item.ID,
			Name:            item.Name,
			Unit:            item.Stock.Unit,
			CurrentQuantity: item.Stock.CurrentQuantity,
			MinimumStock:    item.Stock.MinimumStock,
			StockStatus:     item.StockStatus(),
		}
	}
	return responses, total, nil
}

// checkLowStock raises a StockLow event when the item has dropped to its minimum
func (s *StockService) checkLowStock(ctx context.Context, item *catalog.Item) {
	if !item.IsLowStock() {
		return
	}
	s.publish(ctx, inventory.NewStockLowEvent(item.TenantID, item.ID, item.Name,
		item.Stock.CurrentQuantity, item.Stock.MinimumStock))
}

func (s *StockService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.eventPublisher == nil {
		return
	}
	// Publish errors are logged by the event bus
	_ = s.eventPublisher.Publish(ctx, events...)
}
