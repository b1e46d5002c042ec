// Package shared holds application-level plumbing used by every use case package.
package shared

import (
	"context"

	"github.com/foodcourt/pos/internal/domain/catalog"
	"github.com/foodcourt/pos/internal/domain/inventory"
	"github.com/foodcourt/pos/internal/domain/kitchen"
	"github.com/foodcourt/pos/internal/domain/partner"
	"github.com/foodcourt/pos/internal/domain/sequence"
	"github.com/foodcourt/pos/internal/domain/trade"
)

// TransactionScope provides transactional access to repositories.
// When a function is executed within a transaction scope, all repository operations
// are part of the same database transaction and are committed or rolled back together.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories gives access to the repositories that take part in
// multi-row writes. All of them share the same underlying transaction.
type TransactionalRepositories interface {
	Items() catalog.ItemRepository
	Adjustments() inventory.StockAdjustmentRepository
	Racks() inventory.RackRepository
	KOTs() kitchen.KOTRepository
	Sales() trade.SaleRepository
	Purchases() trade.PurchaseRepository
	Parties() partner.PartyRepository
	PointLedger() partner.PointLedgerRepository
	Coupons() partner.CouponRepository
	// Counter returns the sequence counter bound to the transaction
	Counter() sequence.Counter
}

// Repositories is a plain set of repositories. It implements
// TransactionalRepositories so a NoOpTransactionScope can hand it out.
type Repositories struct {
	ItemRepo       catalog.ItemRepository
	AdjustmentRepo inventory.StockAdjustmentRepository
	RackRepo       inventory.RackRepository
	KOTRepo        kitchen.KOTRepository
	SaleRepo       trade.SaleRepository
	PurchaseRepo   trade.PurchaseRepository
	PartyRepo      partner.PartyRepository
	PointRepo      partner.PointLedgerRepository
	CouponRepo     partner.CouponRepository
	SeqCounter     sequence.Counter
}

// Items returns the item repository
func (r *Repositories) Items() catalog.ItemRepository { return r.ItemRepo }

// Adjustments returns the stock ledger repository
func (r *Repositories) Adjustments() inventory.StockAdjustmentRepository { return r.AdjustmentRepo }

// Racks returns the rack repository
func (r *Repositories) Racks() inventory.RackRepository { return r.RackRepo }

// KOTs returns the ticket repository
func (r *Repositories) KOTs() kitchen.KOTRepository { return r.KOTRepo }

// Sales returns the sale repository
func (r *Repositories) Sales() trade.SaleRepository { return r.SaleRepo }

// Purchases returns the purchase repository
func (r *Repositories) Purchases() trade.PurchaseRepository { return r.PurchaseRepo }

// Parties returns the party repository
func (r *Repositories) Parties() partner.PartyRepository { return r.PartyRepo }

// PointLedger returns the referrer point ledger repository
func (r *Repositories) PointLedger() partner.PointLedgerRepository { return r.PointRepo }

// Coupons returns the coupon repository
func (r *Repositories) Coupons() partner.CouponRepository { return r.CouponRepo }

// Counter returns the sequence counter
func (r *Repositories) Counter() sequence.Counter { return r.SeqCounter }

// NoOpTransactionScope runs the function without a real transaction.
// It is used in tests and where transaction support is not required.
type NoOpTransactionScope struct {
	repos *Repositories
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(repos *Repositories) *NoOpTransactionScope {
	return &NoOpTransactionScope{repos: repos}
}

// Execute runs fn directly with the wrapped repositories
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s.repos)
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*Repositories)(nil)
