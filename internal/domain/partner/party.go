// Package partner holds the people a shop deals with: customers, vendors and the
// referrers who earn points on the bills they bring in, plus discount coupons.
package partner

import (
	"net/mail"
	"regexp"
	"strings"

	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PartyType is the role a party plays for the shop
type PartyType string

const (
	PartyTypeCustomer PartyType = "customer"
	PartyTypeVendor   PartyType = "vendor"
	PartyTypeReferrer PartyType = "referrer"
)

// IsValid returns true for a known party type
func (t PartyType) IsValid() bool {
	switch t {
	case PartyTypeCustomer, PartyTypeVendor, PartyTypeReferrer:
		return true
	}
	return false
}

// PartyStatus is active or inactive
type PartyStatus string

const (
	PartyStatusActive   PartyStatus = "active"
	PartyStatusInactive PartyStatus = "inactive"
)

var (
	mobilePattern = regexp.MustCompile(`^\+?[0-9]{10,13}$`)
	gstinPattern  = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][0-9A-Z]Z[0-9A-Z]$`)
)

// Party is a customer, vendor or referrer
type Party struct {
	shared.TenantAggregateRoot
	Name           string          `gorm:"type:varchar(200);not null"`
	Mobile         string          `gorm:"type:varchar(20);index"`
	Email          string          `gorm:"type:varchar(200)"`
	Address        string          `gorm:"type:text"`
	GSTIN          string          `gorm:"column:gstin;type:varchar(15)"`
	Type           PartyType       `gorm:"type:varchar(20);not null;index"`
	CommissionRate decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	PointsBalance  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Status         PartyStatus     `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Party) TableName() string {
	return "parties"
}

// ContactDetails are the optional contact fields of a party
type ContactDetails struct {
	Mobile  string
	Email   string
	Address string
	GSTIN   string
}

// NewParty creates an active party
func NewParty(tenantID uuid.UUID, name string, partyType PartyType, contact ContactDetails) (*Party, error) {
	if !partyType.IsValid() {
		return nil, shared.NewValidationError("party type must be customer, vendor or referrer, got %q", partyType)
	}
	p := &Party{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Type:                partyType,
		Status:              PartyStatusActive,
		CommissionRate:      decimal.Zero,
		PointsBalance:       decimal.Zero,
	}
	if err := p.apply(name, contact); err != nil {
		return nil, err
	}
	p.AddDomainEvent(NewPartyEvent(EventTypePartyCreated, p))
	return p, nil
}

// Update changes the name and contact details
func (p *Party) Update(name string, contact ContactDetails) error {
	if err := p.apply(name, contact); err != nil {
		return err
	}
	p.IncrementVersion()
	p.AddDomainEvent(NewPartyEvent(EventTypePartyUpdated, p))
	return nil
}

func (p *Party) apply(name string, contact ContactDetails) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("party name is required")
	}
	if len([]rune(name)) > 200 {
		return shared.NewValidationError("party name cannot exceed 200 characters")
	}
	mobile := strings.ReplaceAll(strings.TrimSpace(contact.Mobile), " ", "")
	if mobile != "" && !mobilePattern.MatchString(mobile) {
		return shared.NewValidationError("invalid mobile number %q", contact.Mobile)
	}
	email := strings.TrimSpace(contact.Email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return shared.NewValidationError("invalid email %q", email)
		}
	}
	gstin := strings.ToUpper(strings.TrimSpace(contact.GSTIN))
	if gstin != "" && !gstinPattern.MatchString(gstin) {
		return shared.NewValidationError("invalid GSTIN %q", contact.GSTIN)
	}
	p.Name = name
	p.Mobile = mobile
	p.Email = email
	p.Address = strings.TrimSpace(contact.Address)
	p.GSTIN = gstin
	return nil
}

// SetCommissionRate sets the percentage of a referred bill credited as points
func (p *Party) SetCommissionRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewValidationError("commission rate must be between 0 and 100")
	}
	p.CommissionRate = rate
	p.IncrementVersion()
	return nil
}

// SetStatus activates or deactivates the party
func (p *Party) SetStatus(status PartyStatus) error {
	if status != PartyStatusActive && status != PartyStatusInactive {
		return shared.NewDomainError(shared.CodeInvalidStatus, "party status must be active or inactive")
	}
	p.Status = status
	p.IncrementVersion()
	return nil
}

// IsActive reports whether the party can be used on new documents
func (p *Party) IsActive() bool {
	return p.Status == PartyStatusActive
}

// IsReferrer reports whether the party earns referral points
func (p *Party) IsReferrer() bool {
	return p.Type == PartyTypeReferrer
}

// EarnFromBill credits points for a referred bill and returns the ledger entry.
// Points are grandTotal x commissionRate / 100.
func (p *Party) EarnFromBill(saleID uuid.UUID, billNumber string, grandTotal decimal.Decimal) (*ReferrerPointEntry, error) {
	if !p.IsReferrer() {
		return nil, shared.NewValidationError("party %s is not a referrer", p.Name)
	}
	if !p.IsActive() {
		return nil, shared.NewDomainError(shared.CodeInvalidState, "referrer "+p.Name+" is inactive")
	}
	points := grandTotal.Mul(p.CommissionRate).Div(decimal.NewFromInt(100)).Round(2)
	return p.post(saleID, billNumber, PointEntryEarned, points)
}

// ReverseBill takes back points earned on a cancelled bill
func (p *Party) ReverseBill(saleID uuid.UUID, billNumber string, points decimal.Decimal) (*ReferrerPointEntry, error) {
	return p.post(saleID, billNumber, PointEntryReversed, points.Neg())
}

// Redeem spends points from the balance
func (p *Party) Redeem(points decimal.Decimal, reference string) (*ReferrerPointEntry, error) {
	if !points.IsPositive() {
		return nil, shared.NewValidationError("points to redeem must be positive")
	}
	if points.GreaterThan(p.PointsBalance) {
		return nil, shared.NewValidationError("cannot redeem %s points, balance is %s", points, p.PointsBalance)
	}
	return p.post(uuid.Nil, reference, PointEntryRedeemed, points.Neg())
}

func (p *Party) post(saleID uuid.UUID, reference string, kind PointEntryType, delta decimal.Decimal) (*ReferrerPointEntry, error) {
	before := p.PointsBalance
	entry := newPointEntry(p, saleID, reference, kind, delta, before)
	p.PointsBalance = entry.BalanceAfter
	p.IncrementVersion()
	return entry, nil
}

// MarkDeleted records the deletion event before the row is removed
func (p *Party) MarkDeleted() {
	p.AddDomainEvent(NewPartyEvent(EventTypePartyDeleted, p))
}
