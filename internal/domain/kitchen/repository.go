package kitchen

import (
	"context"

	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/google/uuid"
)

// KOTRepository persists tickets together with their lines.
// Filter keys: "status", "kot_type", "table_number" (case-insensitive substring),
// "start_date", "end_date" (time.Time, on created_at). Search matches the KOT number
// and the customer name.
type KOTRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*KOT, error)
	// FindByIDForUpdate loads the ticket and locks its row until the transaction ends
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*KOT, error)
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]KOT, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]KOT, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	FindActiveByTable(ctx context.Context, tenantID uuid.UUID, tableNumber string) ([]KOT, error)
	// Save recomputes the ticket total and inserts a new ticket with its lines
	Save(ctx context.Context, kot *KOT) error
	// SaveWithLock recomputes the total and updates the ticket and its lines when the
	// stored version still equals expectedVersion. It fails with
	// ErrConcurrencyConflict otherwise.
	SaveWithLock(ctx context.Context, kot *KOT, expectedVersion int) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
