package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is a fact recorded by an aggregate, published after its
// transaction commits
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	AggregateType() string
	TenantID() uuid.UUID
}

// BaseDomainEvent holds the metadata every event carries. The metadata travels
// in the envelope around the event, so only the concrete event's own fields
// end up in the JSON payload.
type BaseDomainEvent struct {
	ID            uuid.UUID `json:"-"`
	Type          string    `json:"-"`
	Occurred      time.Time `json:"-"`
	Aggregate     uuid.UUID `json:"-"`
	AggregateKind string    `json:"-"`
	Tenant        uuid.UUID `json:"-"`
}

// NewBaseDomainEvent stamps a new event of eventType raised by the aggregate
// aggType/aggID of tenantID
func NewBaseDomainEvent(eventType, aggType string, aggID, tenantID uuid.UUID) BaseDomainEvent {
	return BaseDomainEvent{
		ID:            uuid.New(),
		Type:          eventType,
		Occurred:      time.Now().UTC(),
		Aggregate:     aggID,
		AggregateKind: aggType,
		Tenant:        tenantID,
	}
}

func (e *BaseDomainEvent) EventID() uuid.UUID     { return e.ID }
func (e *BaseDomainEvent) EventType() string      { return e.Type }
func (e *BaseDomainEvent) OccurredAt() time.Time  { return e.Occurred }
func (e *BaseDomainEvent) AggregateID() uuid.UUID { return e.Aggregate }
func (e *BaseDomainEvent) AggregateType() string  { return e.AggregateKind }
func (e *BaseDomainEvent) TenantID() uuid.UUID    { return e.Tenant }
