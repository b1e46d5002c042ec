package trade

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	appshared "github.com/foodcourt/pos/internal/application/shared"
	"github.com/foodcourt/pos/internal/domain/catalog"
	"github.com/foodcourt/pos/internal/domain/kitchen"
	"github.com/foodcourt/pos/internal/domain/partner"
	"github.com/foodcourt/pos/internal/domain/sequence"
	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/foodcourt/pos/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleService handles customer bills. Bills never change item stock.
type SaleService struct {
	txScope        appshared.TransactionScope
	saleRepo       trade.SaleRepository
	itemRepo       catalog.ItemRepository
	kotRepo        kitchen.KOTRepository
	partyRepo      partner.PartyRepository
	numbers        *sequence.Generator
	eventPublisher shared.EventPublisher
	now            func() time.Time
}

// NewSaleService creates a new SaleService
func NewSaleService(
	txScope appshared.TransactionScope,
	saleRepo trade.SaleRepository,
	itemRepo catalog.ItemRepository,
	kotRepo kitchen.KOTRepository,
	partyRepo partner.PartyRepository,
	numbers *sequence.Generator,
) *SaleService {
	return &SaleService{
		txScope:   txScope,
		saleRepo:  saleRepo,
		itemRepo:  itemRepo,
		kotRepo:   kotRepo,
		partyRepo: partyRepo,
		numbers:   numbers,
		now:       time.Now,
	}
}

// SetEventPublisher sets the event publisher for sale events
func (s *SaleService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create bills the requested lines. Inside one transaction it numbers the bill,
// redeems the coupon and credits the referrer.
func (s *SaleService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreateSaleRequest) (*SaleResponse, error) {
	if len(req.Items) == 0 {
		return nil, shared.NewValidationError("at least one item is required")
	}
	if req.BillType == "" {
		req.BillType = trade.BillTypeGST
	}
	if !req.BillType.IsValid() {
		return nil, shared.NewValidationError("bill type must be gst or estimate, got %q", req.BillType)
	}
	lines, err := s.resolveLines(ctx, tenantID, req.Items)
	if err != nil {
		return nil, err
	}
	party, err := s.resolveCustomer(ctx, tenantID, req)
	if err != nil {
		return nil, err
	}

	input := trade.SaleInput{
		BillType:       req.BillType,
		Party:          party,
		Lines:          lines,
		Charges:        req.Charges.toDomain(),
		PaymentMethod:  req.PaymentMethod,
		AmountReceived: req.AmountReceived,
		KOTIDs:         req.KOTIDs,
		Notes:          req.Notes,
	}
	if req.SaleDate != nil {
		input.SaleDate = *req.SaleDate
	}

	var sale *trade.Sale
	err = s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		number, err := s.numbers.WithCounter(repos.Counter()).Next(ctx, tenantID, req.BillType.SequenceKind())
		if err != nil {
			return err
		}
		sale, err = trade.NewSale(tenantID, number, input)
		if err != nil {
			return err
		}
		if code := partner.NormalizeCouponCode(req.CouponCode); code != "" {
			if err := s.redeemCoupon(ctx, repos, sale, code); err != nil {
				return err
			}
		}
		if err := sale.Pricing.VerifyClientTotal(req.GrandTotal); err != nil {
			return err
		}
		if sale.Party.ReferrerID != nil {
			if err := s.creditReferrer(ctx, repos, sale); err != nil {
				return err
			}
		}
		sale.SetCreatedBy(userID)
		return repos.Sales().Save(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, sale)
	resp := ToSaleResponse(sale)
	return &resp, nil
}

// CreateFromKOTs bills the open lines of the given tickets. Lines of the same item
// and price are merged; cancelled tickets and cancelled lines are skipped.
func (s *SaleService) CreateFromKOTs(ctx context.Context, tenantID, userID uuid.UUID, req CreateSaleFromKOTsRequest) (*SaleResponse, error) {
	if len(req.KOTIDs) == 0 {
		return nil, shared.NewValidationError("at least one KOT is required")
	}
	kots, err := s.kotRepo.FindByIDs(ctx, tenantID, req.KOTIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*kitchen.KOT, len(kots))
	for i := range kots {
		byID[kots[i].ID] = &kots[i]
	}

	type lineKey struct {
		itemID uuid.UUID
		price  string
	}
	var (
		order    []lineKey
		merged   = make(map[lineKey]*SaleLineRequest)
		customer kitchen.CustomerDetails
	)
	for _, id := range req.KOTIDs {
		kot, ok := byID[id]
		if !ok {
			return nil, shared.NewNotFoundError("KOT", id)
		}
		if kot.Status == kitchen.KOTStatusCancelled {
			return nil, shared.NewDomainError(shared.CodeInvalidState, fmt.Sprintf("KOT %s is cancelled", kot.KOTNumber))
		}
		if customer.Name == "" {
			customer = kot.Customer
		}
		for _, line := range kot.Items {
			if line.Status == kitchen.ItemStatusCancelled {
				continue
			}
			key := lineKey{itemID: line.ItemID, price: line.Price.String()}
			if existing, ok := merged[key]; ok {
				existing.Quantity = existing.Quantity.Add(decimal.NewFromInt(int64(line.Quantity)))
				continue
			}
			price := line.Price
			merged[key] = &SaleLineRequest{
				ItemID:   line.ItemID,
				Quantity: decimal.NewFromInt(int64(line.Quantity)),
				Price:    &price,
			}
			order = append(order, key)
		}
	}
	if len(order) == 0 {
		return nil, shared.NewValidationError("the selected KOTs have no billable items")
	}

	items := make([]SaleLineRequest, len(order))
	for i, key := range order {
		items[i] = *merged[key]
	}
	return s.Create(ctx, tenantID, userID, CreateSaleRequest{
		BillType:       req.BillType,
		CustomerID:     req.CustomerID,
		CustomerName:   customer.Name,
		CustomerMobile: customer.Mobile,
		ReferrerID:     req.ReferrerID,
		Items:          items,
		Charges:        req.Charges,
		GrandTotal:     req.GrandTotal,
		PaymentMethod:  req.PaymentMethod,
		AmountReceived: req.AmountReceived,
		CouponCode:     req.CouponCode,
		KOTIDs:         req.KOTIDs,
		Notes:          req.Notes,
	})
}

func (s *SaleService) resolveLines(ctx context.Context, tenantID uuid.UUID, reqLines []SaleLineRequest) ([]trade.LineInput, error) {
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
			UnitPrice: item.Price.SellingPrice,
			TaxRate:   item.Price.TaxRate,
		}
		if l.Price != nil {
			in.UnitPrice = *l.Price
		}
		if l.TaxRate != nil {
			in.TaxRate = *l.TaxRate
		}
		lines = append(lines, in)
	}
	return lines, nil
}

// resolveCustomer fills name and mobile from the customer party when only its id was sent
func (s *SaleService) resolveCustomer(ctx context.Context, tenantID uuid.UUID, req CreateSaleRequest) (trade.SaleParty, error) {
	party := trade.SaleParty{
		CustomerID:     req.CustomerID,
		CustomerName:   req.CustomerName,
		CustomerMobile: req.CustomerMobile,
		ReferrerID:     req.ReferrerID,
	}
	if req.CustomerID == nil {
		return party, nil
	}
	customer, err := s.partyRepo.FindByIDForTenant(ctx, tenantID, *req.CustomerID)
	if err != nil {
		return party, err
	}
	if strings.TrimSpace(party.CustomerName) == "" {
		party.CustomerName = customer.Name
	}
	if strings.TrimSpace(party.CustomerMobile) == "" {
		party.CustomerMobile = customer.Mobile
	}
	return party, nil
}

func (s *SaleService) redeemCoupon(ctx context.Context, repos appshared.TransactionalRepositories, sale *trade.Sale, code string) error {
	coupon, err := repos.Coupons().FindByCodeForUpdate(ctx, sale.TenantID, code)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewValidationError("coupon %s does not exist", code)
		}
		return err
	}
	discount, err := coupon.Redeem(sale.Pricing.SubTotal, s.now())
	if err != nil {
		return err
	}
	if err := sale.ApplyCoupon(coupon.Code, discount); err != nil {
		return err
	}
	if err := repos.Coupons().Save(ctx, coupon); err != nil {
		return fmt.Errorf("save coupon usage: %w", err)
	}
	return nil
}

func (s *SaleService) creditReferrer(ctx context.Context, repos appshared.TransactionalRepositories, sale *trade.Sale) error {
	referrer, err := repos.Parties().FindByIDForTenant(ctx, sale.TenantID, *sale.Party.ReferrerID)
	if err != nil {
		return err
	}
	entry, err := referrer.EarnFromBill(sale.ID, sale.BillNumber, sale.Pricing.GrandTotal)
	if err != nil {
		return err
	}
	if entry.Points.IsZero() {
		return nil
	}
	if err := repos.PointLedger().Append(ctx, entry); err != nil {
		return fmt.Errorf("append referrer points: %w", err)
	}
	if err := repos.Parties().Save(ctx, referrer); err != nil {
		return fmt.Errorf("save referrer balance: %w", err)
	}
	sale.SetReferrerPoints(entry.Points)
	return nil
}

// releaseBenefits gives back the coupon use and the referrer points of a bill
func (s *SaleService) releaseBenefits(ctx context.Context, repos appshared.TransactionalRepositories, sale *trade.Sale) error {
	if sale.CouponCode != "" {
		coupon, err := repos.Coupons().FindByCodeForUpdate(ctx, sale.TenantID, sale.CouponCode)
		switch {
		case errors.Is(err, shared.ErrNotFound):
			// coupon was deleted after use
		case err != nil:
			return err
		default:
			coupon.Release()
			if err := repos.Coupons().Save(ctx, coupon); err != nil {
				return fmt.Errorf("release coupon: %w", err)
			}
		}
	}
	if sale.Party.ReferrerID != nil && sale.ReferrerPoints.IsPositive() {
		referrer, err := repos.Parties().FindByIDForTenant(ctx, sale.TenantID, *sale.Party.ReferrerID)
		if err != nil {
			return err
		}
		entry, err := referrer.ReverseBill(sale.ID, sale.BillNumber, sale.ReferrerPoints)
		if err != nil {
			return err
		}
		if err := repos.PointLedger().Append(ctx, entry); err != nil {
			return fmt.Errorf("append referrer reversal: %w", err)
		}
		if err := repos.Parties().Save(ctx, referrer); err != nil {
			return fmt.Errorf("save referrer balance: %w", err)
		}
	}
	return nil
}

// GetByID returns one sale
func (s *SaleService) GetByID(ctx context.Context, tenantID, saleID uuid.UUID) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByIDForTenant(ctx, tenantID, saleID)
	if err != nil {
		return nil, err
	}
	resp := ToSaleResponse(sale)
	return &resp, nil
}

// Find returns the sale aggregate, used by printing
func (s *SaleService) Find(ctx context.Context, tenantID, saleID uuid.UUID) (*trade.Sale, error) {
	return s.saleRepo.FindByIDForTenant(ctx, tenantID, saleID)
}

// List returns a page of sales, newest first
func (s *SaleService) List(ctx context.Context, tenantID uuid.UUID, filter SaleListFilter) ([]SaleResponse, int64, error) {
	domainFilter := listFilter(filter.Page, filter.Limit, "sale_date", filter.Search)
	if filter.Status != "" {
		status := trade.SaleStatus(filter.Status)
		if status != trade.SaleStatusCompleted && status != trade.SaleStatusCancelled {
			return nil, 0, shared.NewDomainError(shared.CodeInvalidStatus, fmt.Sprintf("Invalid status '%s'", filter.Status))
		}
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.PaymentStatus != "" {
		domainFilter.Filters["payment_status"] = filter.PaymentStatus
	}
	if filter.BillType != "" {
		domainFilter.Filters["bill_type"] = filter.BillType
	}
	addDateRange(&domainFilter, filter.StartDate, filter.EndDate)

	sales, err := s.saleRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.saleRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToSaleResponses(sales), total, nil
}

// UpdatePayment replaces the payment method and amount of a completed sale
func (s *SaleService) UpdatePayment(ctx context.Context, tenantID, saleID uuid.UUID, req UpdatePaymentRequest) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByIDForTenant(ctx, tenantID, saleID)
	if err != nil {
		return nil, err
	}
	if err := sale.RecordPayment(req.PaymentMethod, req.AmountReceived); err != nil {
		return nil, err
	}
	if err := s.saleRepo.Save(ctx, sale); err != nil {
		return nil, err
	}
	s.publish(ctx, sale)
	resp := ToSaleResponse(sale)
	return &resp, nil
}

// Cancel voids a sale, releasing its coupon use and reversing referrer points
func (s *SaleService) Cancel(ctx context.Context, tenantID, saleID uuid.UUID, reason string) (*SaleResponse, error) {
	var sale *trade.Sale
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		var err error
		sale, err = repos.Sales().FindByIDForTenant(ctx, tenantID, saleID)
		if err != nil {
			return err
		}
		if err := sale.Cancel(reason); err != nil {
			return err
		}
		if err := s.releaseBenefits(ctx, repos, sale); err != nil {
			return err
		}
		return repos.Sales().Save(ctx, sale)
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, sale)
	resp := ToSaleResponse(sale)
	return &resp, nil
}

// Delete removes a sale. A completed sale releases its coupon and points first.
func (s *SaleService) Delete(ctx context.Context, tenantID, saleID uuid.UUID) error {
	var sale *trade.Sale
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		var err error
		sale, err = repos.Sales().FindByIDForTenant(ctx, tenantID, saleID)
		if err != nil {
			return err
		}
		if !sale.IsCancelled() {
			if err := s.releaseBenefits(ctx, repos, sale); err != nil {
				return err
			}
		}
		sale.MarkDeleted()
		return repos.Sales().DeleteForTenant(ctx, tenantID, saleID)
	})
	if err != nil {
		return err
	}
	s.publish(ctx, sale)
	return nil
}

func (s *SaleService) publish(ctx context.Context, sale *trade.Sale) {
	// Publish errors are logged by the event bus
	_ = shared.PublishAndClear(ctx, s.eventPublisher, sale)
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

// addDateRange sets the date filters; the end date is inclusive of the whole day
func addDateRange(f *shared.Filter, start, end *time.Time) {
	if start != nil {
		f.Filters["start_date"] = *start
	}
	if end != nil {
		f.Filters["end_date"] = end.AddDate(0, 0, 1)
	}
}
