package partner

import (
	"github.com/foodcourt/pos/internal/domain/shared"
)

// AggregateTypeParty is the aggregate type of party events
const AggregateTypeParty = "Party"

// Event type constants
const (
	EventTypePartyCreated = "PartyCreated"
	EventTypePartyUpdated = "PartyUpdated"
	EventTypePartyDeleted = "PartyDeleted"
)

// PartyEvent is raised when a party is created, updated or deleted
type PartyEvent struct {
	shared.BaseDomainEvent
	Name string    `json:"name"`
	Type PartyType `json:"type"`
}

// NewPartyEvent creates a PartyEvent of the given type
func NewPartyEvent(eventType string, p *Party) *PartyEvent {
	return &PartyEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeParty, p.ID, p.TenantID),
		Name:            p.Name,
		Type:            p.Type,
	}
}
