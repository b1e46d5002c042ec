package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PointEntryType classifies a referrer point movement
type PointEntryType string

const (
	PointEntryEarned   PointEntryType = "earned"
	PointEntryReversed PointEntryType = "reversed"
	PointEntryRedeemed PointEntryType = "redeemed"
)

// ReferrerPointEntry is an append-only row of the referrer point ledger.
// BalanceAfter = BalanceBefore + Points.
type ReferrerPointEntry struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TenantID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ReferrerID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	SaleID        *uuid.UUID      `gorm:"type:uuid;index"`
	Reference     string          `gorm:"type:varchar(100)"`
	Type          PointEntryType  `gorm:"type:varchar(20);not null"`
	Points        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	BalanceBefore decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	BalanceAfter  decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CreatedAt     time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (ReferrerPointEntry) TableName() string {
	return "referrer_point_entries"
}

func newPointEntry(p *Party, saleID uuid.UUID, reference string, kind PointEntryType, delta, before decimal.Decimal) *ReferrerPointEntry {
	e := &ReferrerPointEntry{
		ID:            uuid.New(),
		TenantID:      p.TenantID,
		ReferrerID:    p.ID,
		Reference:     reference,
		Type:          kind,
		Points:        delta,
		BalanceBefore: before,
		BalanceAfter:  before.Add(delta),
		CreatedAt:     time.Now(),
	}
	if saleID != uuid.Nil {
		e.SaleID = &saleID
	}
	return e
}
