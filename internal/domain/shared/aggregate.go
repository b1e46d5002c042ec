package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity is the primary key and audit timestamps every table row carries
type BaseEntity struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`
}

func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

// AggregateRoot is an aggregate that buffers domain events until it is saved
type AggregateRoot interface {
	AddDomainEvent(events ...DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot counts state changes in Version and holds events raised
// since the last save
type BaseAggregateRoot struct {
	BaseEntity
	Version int           `gorm:"not null;default:1"`
	pending []DomainEvent `gorm:"-"`
}

func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: NewBaseEntity(), Version: 1}
}

func (a *BaseAggregateRoot) GetVersion() int { return a.Version }

// IncrementVersion is called by every state-changing method
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
	a.UpdatedAt = time.Now()
}

func (a *BaseAggregateRoot) AddDomainEvent(events ...DomainEvent) {
	a.pending = append(a.pending, events...)
}

func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent { return a.pending }

func (a *BaseAggregateRoot) ClearDomainEvents() { a.pending = nil }

// TenantAggregateRoot belongs to one shop account. CreatedBy is the staff
// member who opened the record; KOTs and sales use it for owner checks.
type TenantAggregateRoot struct {
	BaseAggregateRoot
	TenantID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedBy *uuid.UUID `gorm:"type:uuid;index"`
}

func NewTenantAggregateRoot(tenantID uuid.UUID) TenantAggregateRoot {
	return TenantAggregateRoot{BaseAggregateRoot: NewBaseAggregateRoot(), TenantID: tenantID}
}

// SetCreatedBy ignores uuid.Nil so system-created records stay unowned
func (t *TenantAggregateRoot) SetCreatedBy(userID uuid.UUID) {
	if userID != uuid.Nil {
		t.CreatedBy = &userID
	}
}

func (t *TenantAggregateRoot) GetCreatedBy() *uuid.UUID { return t.CreatedBy }

// EnsureOwnedBy rejects a caller from another tenant, and a caller other than
// the creator when both are known
func (t *TenantAggregateRoot) EnsureOwnedBy(tenantID, userID uuid.UUID) error {
	switch {
	case t.TenantID != tenantID:
		return ErrUnauthorized
	case t.CreatedBy != nil && userID != uuid.Nil && *t.CreatedBy != userID:
		return ErrUnauthorized
	}
	return nil
}
