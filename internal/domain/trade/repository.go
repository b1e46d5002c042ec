package trade

import (
	"context"

	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/google/uuid"
)

// SaleRepository persists bills with their lines.
// Filter keys: "status", "payment_status", "bill_type", "customer_id", "referrer_id",
// "start_date", "end_date" (time.Time, on sale_date). Search matches the bill number,
// customer name and customer mobile.
type SaleRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Sale, error)
	FindByBillNumber(ctx context.Context, tenantID uuid.UUID, billNumber string) (*Sale, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Sale, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, sale *Sale) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// PurchaseRepository persists purchases with their lines.
// Filter keys: "status", "payment_status", "vendor_id", "start_date", "end_date"
// (time.Time, on purchase_date). Search matches the purchase number, vendor name and
// vendor invoice number.
type PurchaseRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Purchase, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Purchase, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, purchase *Purchase) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
