package kitchen

import "github.com/foodcourt/pos/internal/domain/shared"

// KOTStatus is the state of a whole ticket
type KOTStatus string

const (
	KOTStatusActive    KOTStatus = "active"
	KOTStatusCompleted KOTStatus = "completed"
	KOTStatusCancelled KOTStatus = "cancelled"
)

// IsValid returns true for a known ticket status
func (s KOTStatus) IsValid() bool {
	switch s {
	case KOTStatusActive, KOTStatusCompleted, KOTStatusCancelled:
		return true
	}
	return false
}

// ItemStatus is the kitchen state of one line of a ticket
type ItemStatus string

const (
	ItemStatusPending   ItemStatus = "pending"
	ItemStatusPreparing ItemStatus = "preparing"
	ItemStatusReady     ItemStatus = "ready"
	ItemStatusServed    ItemStatus = "served"
	ItemStatusCancelled ItemStatus = "cancelled"
)

// rank orders the forward path pending -> preparing -> ready -> served
var rank = map[ItemStatus]int{
	ItemStatusPending:   0,
	ItemStatusPreparing: 1,
	ItemStatusReady:     2,
	ItemStatusServed:    3,
}

// ParseItemStatus validates a raw status value
func ParseItemStatus(raw string) (ItemStatus, error) {
	s := ItemStatus(raw)
	if !s.IsValid() {
		return "", shared.NewDomainError(shared.CodeInvalidStatus,
			"Invalid status '"+raw+"': must be one of pending, preparing, ready, served, cancelled")
	}
	return s, nil
}

// IsValid returns true for a known line status
func (s ItemStatus) IsValid() bool {
	if s == ItemStatusCancelled {
		return true
	}
	_, ok := rank[s]
	return ok
}

// IsTerminal reports whether no further transition is possible
func (s ItemStatus) IsTerminal() bool {
	return s == ItemStatusServed || s == ItemStatusCancelled
}

// CanTransitionTo reports whether a line may move from s to target.
// Moves go forward along the kitchen path, steps may be skipped, and cancelled is
// reachable from any non-terminal state. Terminal states accept nothing.
func (s ItemStatus) CanTransitionTo(target ItemStatus) bool {
	if s.IsTerminal() || !target.IsValid() {
		return false
	}
	if target == ItemStatusCancelled {
		return true
	}
	return rank[target] > rank[s]
}
