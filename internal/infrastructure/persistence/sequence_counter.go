package persistence

import (
	"context"
	"time"

	"github.com/foodcourt/pos/internal/domain/sequence"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// sequenceCounter is one row per (tenant, prefix, day)
type sequenceCounter struct {
	TenantID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Prefix    string    `gorm:"type:varchar(20);primaryKey"`
	DateKey   string    `gorm:"type:varchar(8);primaryKey"`
	Value     int64     `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (sequenceCounter) TableName() string {
	return "sequence_counters"
}

// GormSequenceCounter implements sequence.Counter with a single upsert per call, so
// concurrent callers never receive the same value.
type GormSequenceCounter struct {
	db *gorm.DB
}

// NewGormSequenceCounter creates a new GormSequenceCounter
func NewGormSequenceCounter(db *gorm.DB) *GormSequenceCounter {
	return &GormSequenceCounter{db: db}
}

// Next increments the counter for (tenant, prefix, dateKey) and returns the new value.
// The first call of a day returns 1.
func (c *GormSequenceCounter) Next(ctx context.Context, tenantID uuid.UUID, prefix, dateKey string) (int64, error) {
	db := c.db.WithContext(ctx)
	if db.Dialector.Name() == DriverMySQL {
		return c.nextMySQL(db, tenantID, prefix, dateKey)
	}

	row := sequenceCounter{
		TenantID:  tenantID,
		Prefix:    prefix,
		DateKey:   dateKey,
		Value:     1,
		UpdatedAt: time.Now(),
	}
	err := db.Clauses(
		clause.OnConflict{
			Columns: []clause.Column{{Name: "tenant_id"}, {Name: "prefix"}, {Name: "date_key"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"value":      gorm.Expr("sequence_counters.value + 1"),
				"updated_at": row.UpdatedAt,
			}),
		},
		clause.Returning{Columns: []clause.Column{{Name: "value"}}},
	).Create(&row).Error
	if err != nil {
		return 0, err
	}
	return row.Value, nil
}

// nextMySQL uses LAST_INSERT_ID(expr) since MySQL has no RETURNING. The connection
// is pinned by the transaction so the follow-up SELECT sees the same session value.
func (c *GormSequenceCounter) nextMySQL(db *gorm.DB, tenantID uuid.UUID, prefix, dateKey string) (int64, error) {
	var value int64
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			"INSERT INTO sequence_counters (tenant_id, prefix, date_key, value, updated_at) "+
				"VALUES (?, ?, ?, LAST_INSERT_ID(1), ?) "+
				"ON DUPLICATE KEY UPDATE value = LAST_INSERT_ID(value + 1), updated_at = VALUES(updated_at)",
			tenantID, prefix, dateKey, time.Now(),
		).Error; err != nil {
			return err
		}
		return tx.Raw("SELECT LAST_INSERT_ID()").Scan(&value).Error
	})
	return value, err
}

// Ensure GormSequenceCounter implements Counter
var _ sequence.Counter = (*GormSequenceCounter)(nil)
