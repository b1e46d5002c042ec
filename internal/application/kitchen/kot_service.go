package kitchen

import (
	"context"
	"fmt"
	"slices"
	"strings"

	appshared "github.com/foodcourt/pos/internal/application/shared"
	"github.com/foodcourt/pos/internal/domain/catalog"
	"github.com/foodcourt/pos/internal/domain/kitchen"
	"github.com/foodcourt/pos/internal/domain/sequence"
	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/google/uuid"
)

// NotificationTopicKitchen is the topic of kitchen notifications
const NotificationTopicKitchen = "kitchen"

// KOTService handles kitchen order tickets. Tickets never change item stock.
type KOTService struct {
	txScope        appshared.TransactionScope
	kotRepo        kitchen.KOTRepository
	itemRepo       catalog.ItemRepository
	numbers        *sequence.Generator
	notifier       shared.Notifier
	eventPublisher shared.EventPublisher
	allowedTypes   []string
}

// NewKOTService creates a new KOTService
func NewKOTService(
	txScope appshared.TransactionScope,
	kotRepo kitchen.KOTRepository,
	itemRepo catalog.ItemRepository,
	numbers *sequence.Generator,
	notifier shared.Notifier,
) *KOTService {
	if notifier == nil {
		notifier = shared.NopNotifier{}
	}
	return &KOTService{
		txScope:  txScope,
		kotRepo:  kotRepo,
		itemRepo: itemRepo,
		numbers:  numbers,
		notifier: notifier,
	}
}

// SetEventPublisher sets the event publisher for ticket events
func (s *KOTService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetAllowedTypes restricts kotType to the given shop types. An empty list accepts any type.
func (s *KOTService) SetAllowedTypes(types []string) {
	s.allowedTypes = types
}

func (s *KOTService) validateType(kotType string) error {
	if len(s.allowedTypes) == 0 || strings.TrimSpace(kotType) == "" {
		return nil
	}
	if !slices.Contains(s.allowedTypes, strings.TrimSpace(kotType)) {
		return shared.NewValidationError("unknown KOT type %q", kotType)
	}
	return nil
}

// Create validates every line against the catalog, snapshots item names and
// categories, numbers the ticket and saves it.
func (s *KOTService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreateKOTRequest) (*KOTResponse, error) {
	if len(req.Items) == 0 {
		return nil, shared.NewValidationError("at least one item is required")
	}
	if err := s.validateType(req.KOTType); err != nil {
		return nil, err
	}
	lines, err := s.resolveLines(ctx, tenantID, req.Items)
	if err != nil {
		return nil, err
	}

	var kot *kitchen.KOT
	err = s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		number, err := s.numbers.WithCounter(repos.Counter()).Next(ctx, tenantID, sequence.KindKOT)
		if err != nil {
			return err
		}
		kot, err = kitchen.NewKOT(tenantID, number, req.TableNumber, req.KOTType, lines)
		if err != nil {
			return err
		}
		kot.SetOrderReference(req.OrderReference)
		kot.SetCustomer(req.CustomerDetails.toDomain())
		kot.SetNotes(req.Notes)
		kot.SetCreatedBy(userID)
		return repos.KOTs().Save(ctx, kot)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, kot)
	resp := ToKOTResponse(kot)
	return &resp, nil
}

// resolveLines loads the referenced items and fails with ITEM_NOT_FOUND naming
// the first id that does not exist for the tenant.
func (s *KOTService) resolveLines(ctx context.Context, tenantID uuid.UUID, reqLines []KOTLineRequest) ([]kitchen.LineInput, error) {
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

	lines := make([]kitchen.LineInput, 0, len(reqLines))
	for _, l := range reqLines {
		item, ok := byID[l.ItemID]
		if !ok {
			return nil, shared.NewDomainError(shared.CodeItemNotFound, fmt.Sprintf("Item not found: %s", l.ItemID))
		}
		if !item.IsSellable() {
			return nil, shared.NewValidationError("item %s is %s and cannot be ordered", item.Name, item.Status)
		}
		price := item.Price.SellingPrice
		if l.Price != nil {
			price = *l.Price
		}
		lines = append(lines, kitchen.LineInput{
			ItemID:       item.ID,
			ItemName:     item.Name,
			CategoryName: strings.Join(item.CategoryNames(), ", "),
			Quantity:     l.Quantity,
			Price:        price,
			Variant:      l.Variant,
			Note:         l.KOTNote,
		})
	}
	return lines, nil
}

// GetByID returns one ticket
func (s *KOTService) GetByID(ctx context.Context, tenantID, kotID uuid.UUID) (*KOTResponse, error) {
	kot, err := s.kotRepo.FindByIDForTenant(ctx, tenantID, kotID)
	if err != nil {
		return nil, err
	}
	resp := ToKOTResponse(kot)
	return &resp, nil
}

// List returns a page of tickets, newest first
func (s *KOTService) List(ctx context.Context, tenantID uuid.UUID, filter KOTListFilter) ([]KOTResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.Limit,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Search:   strings.TrimSpace(filter.Search),
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != "" {
		status := kitchen.KOTStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewDomainError(shared.CodeInvalidStatus, fmt.Sprintf("Invalid status '%s'", filter.Status))
		}
		domainFilter.Filters["status"] = string(status)
	}
	if filter.KOTType != "" {
		domainFilter.Filters["kot_type"] = filter.KOTType
	}
	if t := strings.TrimSpace(filter.TableNumber); t != "" {
		domainFilter.Filters["table_number"] = t
	}
	if filter.StartDate != nil {
		domainFilter.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		// the end date is inclusive of the whole day
		domainFilter.Filters["end_date"] = filter.EndDate.AddDate(0, 0, 1)
	}

	kots, err := s.kotRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.kotRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToKOTResponses(kots), total, nil
}

// ActiveForTable returns the open tickets of a table
func (s *KOTService) ActiveForTable(ctx context.Context, tenantID uuid.UUID, tableNumber string) ([]KOTResponse, error) {
	tableNumber = strings.TrimSpace(tableNumber)
	if tableNumber == "" {
		return nil, shared.NewValidationError("table number is required")
	}
	kots, err := s.kotRepo.FindActiveByTable(ctx, tenantID, tableNumber)
	if err != nil {
		return nil, err
	}
	return ToKOTResponses(kots), nil
}

// Update changes the header of an active ticket and, when items are given, replaces its lines
func (s *KOTService) Update(ctx context.Context, tenantID, kotID uuid.UUID, req UpdateKOTRequest) (*KOTResponse, error) {
	if err := s.validateType(req.KOTType); err != nil {
		return nil, err
	}
	var lines []kitchen.LineInput
	if len(req.Items) > 0 {
		var err error
		if lines, err = s.resolveLines(ctx, tenantID, req.Items); err != nil {
			return nil, err
		}
	}

	kot, err := s.mutate(ctx, tenantID, kotID, func(kot *kitchen.KOT) error {
		customer := kot.Customer
		if req.CustomerDetails != nil {
			customer = req.CustomerDetails.toDomain()
		}
		orderRef, notes := kot.OrderReference, kot.Notes
		if req.OrderReference != "" {
			orderRef = req.OrderReference
		}
		if req.Notes != "" {
			notes = req.Notes
		}
		if err := kot.UpdateDetails(req.TableNumber, req.KOTType, orderRef, notes, customer); err != nil {
			return err
		}
		if lines != nil {
			return kot.ReplaceItems(lines)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, kot), nil
}

// UpdateItemStatus moves one line of a ticket. lineID may be the line id or the catalog item id.
func (s *KOTService) UpdateItemStatus(ctx context.Context, tenantID, kotID, lineID uuid.UUID, status string) (*KOTResponse, error) {
	target, err := kitchen.ParseItemStatus(status)
	if err != nil {
		return nil, err
	}
	kot, err := s.mutate(ctx, tenantID, kotID, func(kot *kitchen.KOT) error {
		return kot.UpdateItemStatus(lineID, target)
	})
	if err != nil {
		return nil, err
	}

	resp := s.respond(ctx, kot)
	if target == kitchen.ItemStatusReady {
		if line, err := kot.FindLine(lineID); err == nil {
			s.notify(ctx, kot, shared.NotificationSuccess,
				fmt.Sprintf("%s x%d ready for table %s", line.ItemName, line.Quantity, kot.TableNumber))
		}
	}
	return resp, nil
}

// Complete force-completes a ticket
func (s *KOTService) Complete(ctx context.Context, tenantID, kotID uuid.UUID) (*KOTResponse, error) {
	kot, err := s.mutate(ctx, tenantID, kotID, func(kot *kitchen.KOT) error {
		return kot.Complete()
	})
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, kot), nil
}

// Cancel cancels an active ticket
func (s *KOTService) Cancel(ctx context.Context, tenantID, kotID uuid.UUID, req CancelKOTRequest) (*KOTResponse, error) {
	kot, err := s.mutate(ctx, tenantID, kotID, func(kot *kitchen.KOT) error {
		return kot.Cancel(req.Reason)
	})
	if err != nil {
		return nil, err
	}
	resp := s.respond(ctx, kot)
	s.notify(ctx, kot, shared.NotificationWarning,
		fmt.Sprintf("KOT %s for table %s was cancelled", kot.KOTNumber, kot.TableNumber))
	return resp, nil
}

// MarkPrinted stamps the print time and returns the ticket for rendering, along
// with whether this print is a reprint
func (s *KOTService) MarkPrinted(ctx context.Context, tenantID, kotID uuid.UUID) (*kitchen.KOT, bool, error) {
	var reprint bool
	kot, err := s.mutate(ctx, tenantID, kotID, func(kot *kitchen.KOT) error {
		reprint = kot.MarkPrinted()
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return kot, reprint, nil
}

// Delete hard-deletes a ticket after checking that the requester owns it
func (s *KOTService) Delete(ctx context.Context, tenantID, userID, kotID uuid.UUID) error {
	kot, err := s.kotRepo.FindByIDForTenant(ctx, tenantID, kotID)
	if err != nil {
		return err
	}
	if err := kot.EnsureOwnedBy(tenantID, userID); err != nil {
		return err
	}
	if err := s.kotRepo.DeleteForTenant(ctx, tenantID, kotID); err != nil {
		return err
	}
	kot.MarkDeleted()
	s.publish(ctx, kot)
	return nil
}

// mutate loads the ticket under a row lock, applies change and writes it back in
// one transaction
func (s *KOTService) mutate(ctx context.Context, tenantID, kotID uuid.UUID, change func(*kitchen.KOT) error) (*kitchen.KOT, error) {
	var kot *kitchen.KOT
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		var err error
		kot, err = repos.KOTs().FindByIDForUpdate(ctx, tenantID, kotID)
		if err != nil {
			return err
		}
		version := kot.Version
		if err := change(kot); err != nil {
			return err
		}
		return repos.KOTs().SaveWithLock(ctx, kot, version)
	})
	if err != nil {
		return nil, err
	}
	return kot, nil
}

func (s *KOTService) respond(ctx context.Context, kot *kitchen.KOT) *KOTResponse {
	s.publish(ctx, kot)
	resp := ToKOTResponse(kot)
	return &resp
}

func (s *KOTService) publish(ctx context.Context, kot *kitchen.KOT) {
	// Publish errors are logged by the event bus
	_ = shared.PublishAndClear(ctx, s.eventPublisher, kot)
}

func (s *KOTService) notify(ctx context.Context, kot *kitchen.KOT, level shared.NotificationLevel, message string) {
	n := shared.NewNotification(kot.TenantID, level, NotificationTopicKitchen, message)
	n.Data = map[string]any{
		"kotId":       kot.ID.String(),
		"kotNumber":   kot.KOTNumber,
		"tableNumber": kot.TableNumber,
	}
	_ = s.notifier.Notify(ctx, n)
}
