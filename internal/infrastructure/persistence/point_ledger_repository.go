package persistence

import (
	"context"

	"github.com/foodcourt/pos/internal/domain/partner"
	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPointLedgerRepository implements partner.PointLedgerRepository using GORM.
// Entries are only ever inserted.
type GormPointLedgerRepository struct {
	db *gorm.DB
}

// NewGormPointLedgerRepository creates a new GormPointLedgerRepository
func NewGormPointLedgerRepository(db *gorm.DB) *GormPointLedgerRepository {
	return &GormPointLedgerRepository{db: db}
}

// Append inserts one ledger entry
func (r *GormPointLedgerRepository) Append(ctx context.Context, entry *partner.ReferrerPointEntry) error {
	return translateError(r.db.WithContext(ctx).Create(entry).Error)
}

// FindByReferrer lists a referrer's entries newest first, with the total count
func (r *GormPointLedgerRepository) FindByReferrer(ctx context.Context, tenantID, referrerID uuid.UUID, filter shared.Filter) ([]partner.ReferrerPointEntry, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&partner.ReferrerPointEntry{}).
		Scopes(ForTenant(tenantID)).
		Where("referrer_id = ?", referrerID)
	if t, ok := filter.Filters["type"]; ok {
		query = query.Where("type = ?", t)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []partner.ReferrerPointEntry
	if err := paginate(query, filter).
		Order("created_at DESC, id DESC").
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// FindBySale lists the entries a bill produced, oldest first
func (r *GormPointLedgerRepository) FindBySale(ctx context.Context, tenantID, saleID uuid.UUID) ([]partner.ReferrerPointEntry, error) {
	var entries []partner.ReferrerPointEntry
	if err := r.db.WithContext(ctx).
		Scopes(ForTenant(tenantID)).
		Where("sale_id = ?", saleID).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Ensure GormPointLedgerRepository implements PointLedgerRepository
var _ partner.PointLedgerRepository = (*GormPointLedgerRepository)(nil)
