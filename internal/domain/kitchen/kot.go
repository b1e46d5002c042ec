// Package kitchen models kitchen order tickets (KOT): the kitchen-facing slip that
// groups the lines ordered for a table and tracks each line through preparation.
package kitchen

import (
	"fmt"
	"strings"
	"time"

	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerDetails identifies who the order is for
type CustomerDetails struct {
	Name   string `gorm:"type:varchar(100)"`
	Mobile string `gorm:"type:varchar(20)"`
	Type   string `gorm:"type:varchar(30)"`
}

// KOTItem is one ordered line. It is owned by its KOT.
type KOTItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	KOTID        uuid.UUID       `gorm:"column:kot_id;type:uuid;not null;index"`
	ItemID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemName     string          `gorm:"type:varchar(200);not null"`
	CategoryName string          `gorm:"type:varchar(200)"`
	Quantity     int             `gorm:"not null"`
	Price        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TotalAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Variant      string          `gorm:"type:varchar(100)"`
	KOTNote      string          `gorm:"column:kot_note;type:varchar(500)"`
	Status       ItemStatus      `gorm:"type:varchar(20);not null;default:'pending'"`
	PreparedAt   *time.Time
	ServedAt     *time.Time
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (KOTItem) TableName() string {
	return "kot_items"
}

// recalculate refreshes the line total from quantity and price
func (i *KOTItem) recalculate() {
	i.TotalAmount = i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// LineInput describes a line to put on a ticket. Names are snapshots of the catalog item.
type LineInput struct {
	ItemID       uuid.UUID
	ItemName     string
	CategoryName string
	Quantity     int
	Price        decimal.Decimal
	Variant      string
	Note         string
}

func newKOTItem(kotID uuid.UUID, in LineInput) (KOTItem, error) {
	if in.ItemID == uuid.Nil {
		return KOTItem{}, shared.NewValidationError("item id is required")
	}
	if in.Quantity < 1 {
		return KOTItem{}, shared.NewValidationError("quantity for %s must be at least 1", in.ItemName)
	}
	if in.Price.IsNegative() {
		return KOTItem{}, shared.NewValidationError("price for %s cannot be negative", in.ItemName)
	}
	now := time.Now()
	line := KOTItem{
		ID:           uuid.New(),
		KOTID:        kotID,
		ItemID:       in.ItemID,
		ItemName:     in.ItemName,
		CategoryName: in.CategoryName,
		Quantity:     in.Quantity,
		Price:        in.Price,
		Variant:      strings.TrimSpace(in.Variant),
		KOTNote:      strings.TrimSpace(in.Note),
		Status:       ItemStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	line.recalculate()
	return line, nil
}

// KOT is a kitchen order ticket.
// TotalAmount always equals the sum of quantity x price over its lines.
type KOT struct {
	shared.TenantAggregateRoot
	KOTNumber      string          `gorm:"column:kot_number;type:varchar(30);not null;index"`
	TableNumber    string          `gorm:"type:varchar(30);not null;index"`
	OrderReference string          `gorm:"type:varchar(100)"`
	Customer       CustomerDetails `gorm:"embedded;embeddedPrefix:customer_"`
	KOTType        string          `gorm:"column:kot_type;type:varchar(100);not null;index"`
	Notes          string          `gorm:"type:text"`
	Status         KOTStatus       `gorm:"type:varchar(20);not null;default:'active';index"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PrintedAt      *time.Time
	CompletedAt    *time.Time
	CancelledAt    *time.Time
	Items          []KOTItem `gorm:"foreignKey:KOTID"`
}

// TableName returns the table name for GORM
func (KOT) TableName() string {
	return "kots"
}

// NewKOT opens a ticket for a table with at least one line
func NewKOT(tenantID uuid.UUID, kotNumber, tableNumber, kotType string, lines []LineInput) (*KOT, error) {
	if strings.TrimSpace(kotNumber) == "" {
		return nil, shared.NewValidationError("KOT number is required")
	}
	tableNumber = strings.TrimSpace(tableNumber)
	if tableNumber == "" {
		return nil, shared.NewValidationError("table number is required")
	}
	kotType = strings.TrimSpace(kotType)
	if kotType == "" {
		return nil, shared.NewValidationError("KOT type is required")
	}
	if len(lines) == 0 {
		return nil, shared.NewValidationError("at least one item is required")
	}

	kot := &KOT{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		KOTNumber:           kotNumber,
		TableNumber:         tableNumber,
		KOTType:             kotType,
		Status:              KOTStatusActive,
	}
	for _, in := range lines {
		line, err := newKOTItem(kot.ID, in)
		if err != nil {
			return nil, err
		}
		kot.Items = append(kot.Items, line)
	}
	kot.RecalculateTotal()
	kot.AddDomainEvent(NewKOTCreatedEvent(kot))
	return kot, nil
}

// RecalculateTotal recomputes every line total and the ticket total.
// It runs after every mutation and again right before the ticket is persisted.
func (k *KOT) RecalculateTotal() {
	total := decimal.Zero
	for i := range k.Items {
		k.Items[i].recalculate()
		total = total.Add(k.Items[i].TotalAmount)
	}
	k.TotalAmount = total
}

// IsActive reports whether the ticket still accepts changes
func (k *KOT) IsActive() bool {
	return k.Status == KOTStatusActive
}

func (k *KOT) ensureActive() error {
	if !k.IsActive() {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("KOT %s is %s and cannot be changed", k.KOTNumber, k.Status))
	}
	return nil
}

// SetCustomer records the customer details
func (k *KOT) SetCustomer(customer CustomerDetails) {
	k.Customer = CustomerDetails{
		Name:   strings.TrimSpace(customer.Name),
		Mobile: strings.TrimSpace(customer.Mobile),
		Type:   strings.TrimSpace(customer.Type),
	}
}

// SetOrderReference links the ticket to an external order or bill reference
func (k *KOT) SetOrderReference(ref string) {
	k.OrderReference = strings.TrimSpace(ref)
}

// SetNotes sets the free-text kitchen notes
func (k *KOT) SetNotes(notes string) {
	k.Notes = strings.TrimSpace(notes)
}

// UpdateDetails changes header fields of an active ticket
func (k *KOT) UpdateDetails(tableNumber, kotType, orderReference, notes string, customer CustomerDetails) error {
	if err := k.ensureActive(); err != nil {
		return err
	}
	if t := strings.TrimSpace(tableNumber); t != "" {
		k.TableNumber = t
	}
	if kt := strings.TrimSpace(kotType); kt != "" {
		k.KOTType = kt
	}
	k.SetOrderReference(orderReference)
	k.SetNotes(notes)
	k.SetCustomer(customer)
	k.IncrementVersion()
	k.RecalculateTotal()
	return nil
}

// ReplaceItems swaps the lines of an active ticket for a new list; every new line starts pending
func (k *KOT) ReplaceItems(lines []LineInput) error {
	if err := k.ensureActive(); err != nil {
		return err
	}
	if len(lines) == 0 {
		return shared.NewValidationError("at least one item is required")
	}
	items := make([]KOTItem, 0, len(lines))
	for _, in := range lines {
		line, err := newKOTItem(k.ID, in)
		if err != nil {
			return err
		}
		items = append(items, line)
	}
	k.Items = items
	k.IncrementVersion()
	k.RecalculateTotal()
	return nil
}

// AddItem appends a line to an active ticket
func (k *KOT) AddItem(in LineInput) (*KOTItem, error) {
	if err := k.ensureActive(); err != nil {
		return nil, err
	}
	line, err := newKOTItem(k.ID, in)
	if err != nil {
		return nil, err
	}
	k.Items = append(k.Items, line)
	k.IncrementVersion()
	k.RecalculateTotal()
	return &k.Items[len(k.Items)-1], nil
}

// FindLine resolves a line by its own id, falling back to the catalog item id
func (k *KOT) FindLine(id uuid.UUID) (*KOTItem, error) {
	for i := range k.Items {
		if k.Items[i].ID == id {
			return &k.Items[i], nil
		}
	}
	for i := range k.Items {
		if k.Items[i].ItemID == id {
			return &k.Items[i], nil
		}
	}
	return nil, shared.NewDomainError(shared.CodeNotFound, fmt.Sprintf("Item %s not found in KOT %s", id, k.KOTNumber))
}

// UpdateItemStatus moves one line to a new status. Landing on ready stamps
// PreparedAt, landing on served stamps ServedAt. When every line is terminal
// the ticket completes. Setting the status a line already has is a no-op.
func (k *KOT) UpdateItemStatus(lineID uuid.UUID, target ItemStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError(shared.CodeInvalidStatus, fmt.Sprintf("Invalid status '%s'", target))
	}
	line, err := k.FindLine(lineID)
	if err != nil {
		return err
	}
	if line.Status == target {
		k.RecalculateTotal()
		return nil
	}
	if err := k.ensureActive(); err != nil {
		return err
	}
	if !line.Status.CanTransitionTo(target) {
		return shared.NewDomainError(shared.CodeInvalidTransition,
			fmt.Sprintf("Cannot change %s from %s to %s", line.ItemName, line.Status, target))
	}

	from := line.Status
	now := time.Now()
	line.Status = target
	line.UpdatedAt = now
	switch target {
	case ItemStatusReady:
		line.PreparedAt = &now
	case ItemStatusServed:
		line.ServedAt = &now
	}
	k.IncrementVersion()
	k.RecalculateTotal()
	k.AddDomainEvent(NewKOTItemStatusChangedEvent(k, line, from))

	if k.allLinesTerminal() {
		k.markCompleted(now)
	}
	return nil
}

// Complete force-completes the ticket: every line that is not cancelled becomes
// served and the ticket is stamped completed. Completing a completed ticket is a no-op.
func (k *KOT) Complete() error {
	if k.Status == KOTStatusCompleted {
		return nil
	}
	if err := k.ensureActive(); err != nil {
		return err
	}
	now := time.Now()
	for i := range k.Items {
		line := &k.Items[i]
		if line.Status == ItemStatusCancelled || line.Status == ItemStatusServed {
			continue
		}
		line.Status = ItemStatusServed
		line.ServedAt = &now
		line.UpdatedAt = now
	}
	k.IncrementVersion()
	k.RecalculateTotal()
	k.markCompleted(now)
	return nil
}

// Cancel cancels an active ticket and every line that was not yet served
func (k *KOT) Cancel(reason string) error {
	if k.Status == KOTStatusCancelled {
		return nil
	}
	if err := k.ensureActive(); err != nil {
		return err
	}
	now := time.Now()
	for i := range k.Items {
		line := &k.Items[i]
		if line.Status.IsTerminal() {
			continue
		}
		line.Status = ItemStatusCancelled
		line.UpdatedAt = now
	}
	k.Status = KOTStatusCancelled
	k.CancelledAt = &now
	if reason = strings.TrimSpace(reason); reason != "" {
		if k.Notes != "" {
			k.Notes += "\n"
		}
		k.Notes += "Cancelled: " + reason
	}
	k.IncrementVersion()
	k.RecalculateTotal()
	k.AddDomainEvent(NewKOTCancelledEvent(k))
	return nil
}

// MarkPrinted stamps the time the slip was printed and reports whether it had
// been printed before
func (k *KOT) MarkPrinted() (reprint bool) {
	reprint = k.PrintedAt != nil
	now := time.Now()
	k.PrintedAt = &now
	k.IncrementVersion()
	k.RecalculateTotal()
	return reprint
}

// MarkDeleted records the deletion event; the caller removes the row
func (k *KOT) MarkDeleted() {
	k.AddDomainEvent(NewKOTDeletedEvent(k))
}

// StatusCounts returns how many lines are in each status
func (k *KOT) StatusCounts() map[ItemStatus]int {
	counts := make(map[ItemStatus]int)
	for _, line := range k.Items {
		counts[line.Status]++
	}
	return counts
}

func (k *KOT) allLinesTerminal() bool {
	if len(k.Items) == 0 {
		return false
	}
	for _, line := range k.Items {
		if !line.Status.IsTerminal() {
			return false
		}
	}
	return true
}

func (k *KOT) markCompleted(at time.Time) {
	k.Status = KOTStatusCompleted
	k.CompletedAt = &at
	k.AddDomainEvent(NewKOTCompletedEvent(k))
}
