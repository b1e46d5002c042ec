package persistence

import (
	"context"
	"strings"

	"github.com/foodcourt/pos/internal/domain/kitchen"
	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormKOTRepository implements kitchen.KOTRepository using GORM
type GormKOTRepository struct {
	db *gorm.DB
}

// NewGormKOTRepository creates a new GormKOTRepository
func NewGormKOTRepository(db *gorm.DB) *GormKOTRepository {
	return &GormKOTRepository{db: db}
}

func (r *GormKOTRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") })
}

// FindByIDForTenant finds a ticket with its lines
func (r *GormKOTRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*kitchen.KOT, error) {
	var kot kitchen.KOT
	if err := r.withItems(ctx).
		Scopes(ForTenant(tenantID)).
		Where("id = ?", id).
		First(&kot).Error; err != nil {
		return nil, translateError(err)
	}
	return &kot, nil
}

// FindByIDForUpdate loads a ticket with its lines and locks the ticket row until
// the transaction ends
func (r *GormKOTRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*kitchen.KOT, error) {
	var kot kitchen.KOT
	if err := forUpdate(r.withItems(ctx)).
		Scopes(ForTenant(tenantID)).
		Where("id = ?", id).
		First(&kot).Error; err != nil {
		return nil, translateError(err)
	}
	return &kot, nil
}

// FindByIDs finds multiple tickets by their IDs
func (r *GormKOTRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]kitchen.KOT, error) {
	if len(ids) == 0 {
		return []kitchen.KOT{}, nil
	}
	var kots []kitchen.KOT
	if err := r.withItems(ctx).
		Scopes(ForTenant(tenantID)).
		Where("id IN ?", ids).
		Order("created_at ASC").
		Find(&kots).Error; err != nil {
		return nil, err
	}
	return kots, nil
}

// FindAllForTenant finds all tickets for a tenant
func (r *GormKOTRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]kitchen.KOT, error) {
	var kots []kitchen.KOT
	query := r.applyFilterWithoutPagination(r.withItems(ctx).Model(&kitchen.KOT{}).Scopes(ForTenant(tenantID)), filter)
	query = paginate(query, filter)
	query = orderBy(query, filter, KOTSortFields, "created_at", "desc")

	if err := query.Find(&kots).Error; err != nil {
		return nil, err
	}
	return kots, nil
}

// CountForTenant counts tickets for a tenant
func (r *GormKOTRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&kitchen.KOT{}).Scopes(ForTenant(tenantID)), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindActiveByTable lists the active tickets of a table, oldest first
func (r *GormKOTRepository) FindActiveByTable(ctx context.Context, tenantID uuid.UUID, tableNumber string) ([]kitchen.KOT, error) {
	var kots []kitchen.KOT
	if err := r.withItems(ctx).
		Scopes(ForTenant(tenantID)).
		Where("LOWER(table_number) = ? AND status = ?", strings.ToLower(strings.TrimSpace(tableNumber)), kitchen.KOTStatusActive).
		Order("created_at ASC").
		Find(&kots).Error; err != nil {
		return nil, err
	}
	return kots, nil
}

// Save recomputes the ticket total and inserts a new ticket with its lines
func (r *GormKOTRepository) Save(ctx context.Context, kot *kitchen.KOT) error {
	kot.RecalculateTotal()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(kot).Error; err != nil {
			return translateError(err)
		}
		return r.syncLines(tx, kot)
	})
}

// SaveWithLock recomputes the ticket total and rewrites the ticket when its stored
// version is still expectedVersion. Lines no longer on the ticket are removed.
func (r *GormKOTRepository) SaveWithLock(ctx context.Context, kot *kitchen.KOT, expectedVersion int) error {
	kot.RecalculateTotal()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		kot.Version = expectedVersion + 1
		if err := updateWithVersion(tx, kot, kot.TenantID, kot.ID, expectedVersion); err != nil {
			return err
		}
		return r.syncLines(tx, kot)
	})
}

func (r *GormKOTRepository) syncLines(tx *gorm.DB, kot *kitchen.KOT) error {
	ids := make([]uuid.UUID, len(kot.Items))
	for i := range kot.Items {
		kot.Items[i].KOTID = kot.ID
		ids[i] = kot.Items[i].ID
	}
	if err := deleteStaleLines(tx, &kitchen.KOTItem{}, "kot_id", kot.ID, ids); err != nil {
		return err
	}
	if len(kot.Items) == 0 {
		return nil
	}
	return tx.Save(&kot.Items).Error
}

// DeleteForTenant hard-deletes a ticket and its lines
func (r *GormKOTRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Scopes(ForTenant(tenantID)).Delete(&kitchen.KOT{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Where("kot_id = ?", id).Delete(&kitchen.KOTItem{}).Error
	})
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormKOTRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchAny(query, filter.Search, "kot_number", "customer_name")

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "kot_type":
			query = query.Where("kot_type = ?", value)
		case "table_number":
			if s, ok := value.(string); ok {
				query = searchAny(query, s, "table_number")
			}
		}
	}
	return dateRange(query, "created_at", filter.Filters)
}

// deleteStaleLines removes the child rows of parentID whose ids are not in keep
func deleteStaleLines(tx *gorm.DB, model interface{}, parentColumn string, parentID uuid.UUID, keep []uuid.UUID) error {
	query := tx.Where(parentColumn+" = ?", parentID)
	if len(keep) > 0 {
		query = query.Where("id NOT IN ?", keep)
	}
	return query.Delete(model).Error
}

// Ensure GormKOTRepository implements KOTRepository
var _ kitchen.KOTRepository = (*GormKOTRepository)(nil)
