package persistence

import (
	"errors"
	"strings"
	"time"

	"github.com/foodcourt/pos/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// translateError maps driver errors onto the domain error taxonomy
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists
	}
	return err
}

// forUpdate adds SELECT ... FOR UPDATE. The sqlite dialector drops the clause since
// sqlite locks the whole database for a writer anyway.
func forUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
}

// lockedColumns are never rewritten by an update
var lockedColumns = []string{clause.Associations, "id", "tenant_id", "created_at", "created_by"}

// updateWithVersion writes every column of model except lockedColumns and omit, but
// only while the stored row still carries expectedVersion. The caller sets the new
// version on model first.
func updateWithVersion(tx *gorm.DB, model interface{}, tenantID, id interface{}, expectedVersion int, omit ...string) error {
	result := tx.Model(model).
		Select("*").
		Omit(append(append([]string{}, lockedColumns...), omit...)...).
		Where("tenant_id = ? AND id = ? AND version = ?", tenantID, id, expectedVersion).
		Updates(model)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// paginate applies the filter's page window
func paginate(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

// orderBy applies a whitelisted ordering. The default direction is DESC unless
// defaultDir says otherwise and the filter leaves it empty.
func orderBy(query *gorm.DB, filter shared.Filter, allowed sortColumns, defaultField, defaultDir string) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	dir := filter.OrderDir
	if dir == "" {
		dir = defaultDir
	}
	return query.Order(field + " " + ValidateSortOrder(dir))
}

// searchAny matches term case-insensitively as a substring of any of the columns.
// LOWER ... LIKE keeps the query portable across postgres, mysql and sqlite.
func searchAny(query *gorm.DB, term string, columns ...string) *gorm.DB {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return query
	}
	pattern := "%" + strings.ToLower(term) + "%"
	conditions := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, col := range columns {
		conditions[i] = "LOWER(" + col + ") LIKE ?"
		args[i] = pattern
	}
	return query.Where("("+strings.Join(conditions, " OR ")+")", args...)
}

// dateRange applies start_date/end_date filter values to column. Values may be
// time.Time or *time.Time; end is exclusive.
func dateRange(query *gorm.DB, column string, filters map[string]interface{}) *gorm.DB {
	if start, ok := asTime(filters["start_date"]); ok {
		query = query.Where(column+" >= ?", start)
	}
	if end, ok := asTime(filters["end_date"]); ok {
		query = query.Where(column+" < ?", end)
	}
	return query
}

func asTime(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case *time.Time:
		if t == nil || t.IsZero() {
			return time.Time{}, false
		}
		return *t, true
	}
	return time.Time{}, false
}
