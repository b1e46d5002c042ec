package trade

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"sort"

	appshared "github.com/foodcourt/pos/internal/application/shared"
	"github.com/foodcourt/pos/internal/domain/catalog"
	"github.com/foodcourt/pos/internal/domain/inventory"
	"github.com/foodcourt/pos/internal/domain/partner"
	"github.com/foodcourt/pos/internal/domain/sequence"
	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/foodcourt/pos/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseReceiptReason is the ledger reason of stock posted by a purchase receipt
const PurchaseReceiptReason = "purchase receipt"

// PurchaseService handles stock orders placed with vendors
type PurchaseService struct {
	txScope        appshared.TransactionScope
	purchaseRepo   trade.PurchaseRepository
	itemRepo       catalog.ItemRepository
	partyRepo      partner.PartyRepository
	numbers        *sequence.Generator
	eventPublisher shared.EventPublisher
}

// NewPurchaseService creates a new PurchaseService
func NewPurchaseService(
	txScope appshared.TransactionScope,
	purchaseRepo trade.PurchaseRepository,
	itemRepo catalog.ItemRepository,
	partyRepo partner.PartyRepository,
	numbers *sequence.Generator,
) *PurchaseService {
	return &PurchaseService{
		txScope:      txScope,
		purchaseRepo: purchaseRepo,
		itemRepo:     itemRepo,
		partyRepo:    partyRepo,
		numbers:      numbers,
	}
}

// SetEventPublisher sets the event publisher for purchase and stock events
func (s *PurchaseService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create places an order. Stock only changes when the purchase is received.
func (s *PurchaseService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreatePurchaseRequest) (*PurchaseResponse, error) {
	if len(req.Items) == 0 {
		return nil, shared.NewValidationError("at least one item is required")
	}
	vendorName := req.VendorName
	if req.VendorID != nil {
		vendor, err := s.partyRepo.FindByIDForTenant(ctx, tenantID, *req.VendorID)
		if err != nil {
			return nil, err
		}
		if vendor.Type != partner.PartyTypeVendor {
			return nil, shared.NewValidationError("party %s is not a vendor", vendor.Name)
		}
		vendorName = vendor.Name
	}
	lines, err := s.resolveLines(ctx, tenantID, req.Items)
	if err != nil {
		return nil, err
	}

	input := trade.PurchaseInput{
		VendorID:       req.VendorID,
		VendorName:     vendorName,
		InvoiceNumber:  req.InvoiceNumber,
		Lines:          lines,
		Charges:        req.Charges.toDomain(),
		PaymentMethod:  req.PaymentMethod,
		AmountReceived: req.AmountPaid,
		Notes:          req.Notes,
	}
	if req.PurchaseDate != nil {
		input.PurchaseDate = *req.PurchaseDate
	}

	var purchase *trade.Purchase
	err = s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		number, err := s.numbers.WithCounter(repos.Counter()).Next(ctx, tenantID, sequence.KindPurchase)
		if err != nil {
			return err
		}
		purchase, err = trade.NewPurchase(tenantID, number, input)
		if err != nil {
			return err
		}
		if err := purchase.Pricing.VerifyClientTotal(req.GrandTotal); err != nil {
			return err
		}
		purchase.SetCreatedBy(userID)
		return repos.Purchases().Save(ctx, purchase)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, purchase)
	resp := ToPurchaseResponse(purchase)
	return &resp, nil
}

func (s *PurchaseService) resolveLines(ctx context.Context, tenantID uuid.UUID, reqLines []PurchaseLineRequest) ([]trade.LineInput, error) {
	ids := make([]uuid.UUID, 0, len(reqLines))
	for _, l := range reqLines {
		if !slices.Contains(ids, l.ItemID) {
			ids = append(ids, l.ItemID)
		}
	}
	items, err := s.itemRepo.FindByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Item, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}

	lines := make([]trade.LineInput, 0, len(reqLines))
	for _, l := range reqLines {
		item, ok := byID[l.ItemID]
		if !ok {
			return nil, shared.NewDomainError(shared.CodeItemNotFound, fmt.Sprintf("Item not found: %s", l.ItemID))
		}
		in := trade.LineInput{
			ItemID:    item.ID,
			ItemName:  item.Name,
			Quantity:  l.Quantity,
			UnitPrice: item.Price.CostPrice,
			TaxRate:   item.Price.TaxRate,
		}
		if l.CostPrice != nil {
			in.UnitPrice = *l.CostPrice
		}
		if l.TaxRate != nil {
			in.TaxRate = *l.TaxRate
		}
		lines = append(lines, in)
	}
	return lines, nil
}

// GetByID returns one purchase
func (s *PurchaseService) GetByID(ctx context.Context, tenantID, purchaseID uuid.UUID) (*PurchaseResponse, error) {
	purchase, err := s.purchaseRepo.FindByIDForTenant(ctx, tenantID, purchaseID)
	if err != nil {
		return nil, err
	}
	resp := ToPurchaseResponse(purchase)
	return &resp, nil
}

// List returns a page of purchases, newest first
func (s *PurchaseService) List(ctx context.Context, tenantID uuid.UUID, filter PurchaseListFilter) ([]PurchaseResponse, int64, error) {
	domainFilter := listFilter(filter.Page, filter.Limit, "purchase_date", filter.Search)
	if filter.Status != "" {
		if !trade.PurchaseStatus(filter.Status).IsValid() {
			return nil, 0, shared.NewDomainError(shared.CodeInvalidStatus, fmt.Sprintf("Invalid status '%s'", filter.Status))
		}
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.PaymentStatus != "" {
		domainFilter.Filters["payment_status"] = filter.PaymentStatus
	}
	if filter.VendorID != nil {
		domainFilter.Filters["vendor_id"] = *filter.VendorID
	}
	addDateRange(&domainFilter, filter.StartDate, filter.EndDate)

	purchases, err := s.purchaseRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.purchaseRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToPurchaseResponses(purchases), total, nil
}

// UpdatePayment replaces the payment record of a purchase
func (s *PurchaseService) UpdatePayment(ctx context.Context, tenantID, purchaseID uuid.UUID, req UpdatePaymentRequest) (*PurchaseResponse, error) {
	purchase, err := s.purchaseRepo.FindByIDForTenant(ctx, tenantID, purchaseID)
	if err != nil {
		return nil, err
	}
	if err := purchase.RecordPayment(req.PaymentMethod, req.AmountReceived); err != nil {
		return nil, err
	}
	if err := s.purchaseRepo.Save(ctx, purchase); err != nil {
		return nil, err
	}
	resp := ToPurchaseResponse(purchase)
	return &resp, nil
}

// Receive marks the goods as arrived and posts the stock increases. Items are
// locked in id order and each one gets a purchase receipt ledger row, all in the
// same transaction as the status change.
func (s *PurchaseService) Receive(ctx context.Context, tenantID, actorID, purchaseID uuid.UUID) (*PurchaseResponse, error) {
	var (
		purchase *trade.Purchase
		entries  []*inventory.StockAdjustment
	)
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		var err error
		purchase, err = repos.Purchases().FindByIDForTenant(ctx, tenantID, purchaseID)
		if err != nil {
			return err
		}
		if err := purchase.Receive(); err != nil {
			return err
		}

		quantities := make(map[uuid.UUID]decimal.Decimal)
		ids := make([]uuid.UUID, 0, len(purchase.Items))
		for _, line := range purchase.Items {
			if _, seen := quantities[line.ItemID]; !seen {
				ids = append(ids, line.ItemID)
				quantities[line.ItemID] = decimal.Zero
			}
			quantities[line.ItemID] = quantities[line.ItemID].Add(line.Quantity)
		}
		sort.Slice(ids, func(i, j int) bool { return bytes.Compare(ids[i][:], ids[j][:]) < 0 })

		entries = make([]*inventory.StockAdjustment, 0, len(ids))
		for _, id := range ids {
			item, err := repos.Items().FindByIDForUpdate(ctx, tenantID, id)
			if err != nil {
				return err
			}
			before, after, err := item.IncreaseStock(quantities[id])
			if err != nil {
				return err
			}
			entry, err := inventory.NewStockAdjustment(tenantID, item.ID, item.Name,
				inventory.AdjustmentPurchaseReceipt, quantities[id], before, after, PurchaseReceiptReason)
			if err != nil {
				return err
			}
			entry.WithReference(purchase.PurchaseNumber).WithActor(actorID)
			if err := repos.Items().SaveStock(ctx, item); err != nil {
				return fmt.Errorf("save item stock: %w", err)
			}
			entries = append(entries, entry)
		}
		if err := repos.Adjustments().Append(ctx, entries...); err != nil {
			return fmt.Errorf("append stock ledger: %w", err)
		}
		return repos.Purchases().Save(ctx, purchase)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, purchase)
	if s.eventPublisher != nil {
		events := make([]shared.DomainEvent, len(entries))
		for i, e := range entries {
			events[i] = inventory.NewStockAdjustedEvent(e)
		}
		// Publish errors are logged by the event bus
		_ = s.eventPublisher.Publish(ctx, events...)
	}
	resp := ToPurchaseResponse(purchase)
	return &resp, nil
}

// Cancel voids a purchase that has not been received
func (s *PurchaseService) Cancel(ctx context.Context, tenantID, purchaseID uuid.UUID) (*PurchaseResponse, error) {
	purchase, err := s.purchaseRepo.FindByIDForTenant(ctx, tenantID, purchaseID)
	if err != nil {
		return nil, err
	}
	if err := purchase.Cancel(); err != nil {
		return nil, err
	}
	if err := s.purchaseRepo.Save(ctx, purchase); err != nil {
		return nil, err
	}
	s.publish(ctx, purchase)
	resp := ToPurchaseResponse(purchase)
	return &resp, nil
}

// Delete removes a purchase that has not been received
func (s *PurchaseService) Delete(ctx context.Context, tenantID, purchaseID uuid.UUID) error {
	purchase, err := s.purchaseRepo.FindByIDForTenant(ctx, tenantID, purchaseID)
	if err != nil {
		return err
	}
	if err := purchase.MarkDeleted(); err != nil {
		return err
	}
	if err := s.purchaseRepo.DeleteForTenant(ctx, tenantID, purchaseID); err != nil {
		return err
	}
	s.publish(ctx, purchase)
	return nil
}

func (s *PurchaseService) publish(ctx context.Context, purchase *trade.Purchase) {
	// Publish errors are logged by the event bus
	_ = shared.PublishAndClear(ctx, s.eventPublisher, purchase)
}
