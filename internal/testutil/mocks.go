package testutil

import (
	"context"

	"github.com/foodcourt/pos/internal/domain/catalog"
	"github.com/foodcourt/pos/internal/domain/identity"
	"github.com/foodcourt/pos/internal/domain/inventory"
	"github.com/foodcourt/pos/internal/domain/kitchen"
	"github.com/foodcourt/pos/internal/domain/partner"
	"github.com/foodcourt/pos/internal/domain/report"
	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/foodcourt/pos/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

func ptrArg[T any](args mock.Arguments, i int) *T {
	if v := args.Get(i); v != nil {
		return v.(*T)
	}
	return nil
}

func sliceArg[T any](args mock.Arguments, i int) []T {
	if v := args.Get(i); v != nil {
		return v.([]T)
	}
	return nil
}

// ============ Catalog ============

// MockItemRepository is a mock implementation of catalog.ItemRepository
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Item, error) {
	args := m.Called(ctx, tenantID, id)
	return ptrArg[catalog.Item](args, 0), args.Error(1)
}

func (m *MockItemRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Item, error) {
	args := m.Called(ctx, tenantID, id)
	return ptrArg[catalog.Item](args, 0), args.Error(1)
}

func (m *MockItemRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.Item, error) {
	args := m.Called(ctx, tenantID, ids)
	return sliceArg[catalog.Item](args, 0), args.Error(1)
}

func (m *MockItemRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Item, error) {
	args := m.Called(ctx, tenantID, filter)
	return sliceArg[catalog.Item](args, 0), args.Error(1)
}

func (m *MockItemRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockItemRepository) ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockItemRepository) Save(ctx context.Context, item *catalog.Item) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockItemRepository) SaveWithLock(ctx context.Context, item *catalog.Item, expectedVersion int) error {
	return m.Called(ctx, item, expectedVersion).Error(0)
}

func (m *MockItemRepository) SaveStock(ctx context.Context, item *catalog.Item) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockItemRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockItemRepository) AssignCategory(ctx context.Context, tenantID, categoryID uuid.UUID, itemIDs []uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, categoryID, itemIDs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockItemRepository) RemoveCategory(ctx context.Context, tenantID, categoryID uuid.UUID, itemIDs []uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, categoryID, itemIDs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockItemRepository) SetBrand(ctx context.Context, tenantID uuid.UUID, brandID *uuid.UUID, itemIDs []uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, brandID, itemIDs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockItemRepository) SetSubCategory(ctx context.Context, tenantID uuid.UUID, subCategoryID *uuid.UUID, itemIDs []uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, subCategoryID, itemIDs)
	return args.Get(0).(int64), args.Error(1)
}

// MockClassificationRepository is a mock of catalog.ClassificationRepository for any kind
type MockClassificationRepository[T catalog.Classification] struct {
	mock.Mock
}

func (m *MockClassificationRepository[T]) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*T, error) {
	args := m.Called(ctx, tenantID, id)
	return ptrArg[T](args, 0), args.Error(1)
}

func (m *MockClassificationRepository[T]) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]T, error) {
	args := m.Called(ctx, tenantID, ids)
	return sliceArg[T](args, 0), args.Error(1)
}

func (m *MockClassificationRepository[T]) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]T, error) {
	args := m.Called(ctx, tenantID, filter)
	return sliceArg[T](args, 0), args.Error(1)
}

func (m *MockClassificationRepository[T]) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockClassificationRepository[T]) ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockClassificationRepository[T]) CountItems(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	args := m.Called(ctx, tenantID, ids)
	if v := args.Get(0); v != nil {
		return v.(map[uuid.UUID]int64), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockClassificationRepository[T]) Save(ctx context.Context, entity *T) error {
	return m.Called(ctx, entity).Error(0)
}

func (m *MockClassificationRepository[T]) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

// ============ Inventory ============

// MockAdjustmentRepository is a mock of inventory.StockAdjustmentRepository
type MockAdjustmentRepository struct {
	mock.Mock
}

func (m *MockAdjustmentRepository) Append(ctx context.Context, entries ...*inventory.StockAdjustment) error {
	return m.Called(ctx, entries).Error(0)
}

func (m *MockAdjustmentRepository) FindForTenant(ctx context.Context, tenantID uuid.UUID, filter inventory.AdjustmentFilter) ([]inventory.StockAdjustment, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return sliceArg[inventory.StockAdjustment](args, 0), args.Get(1).(int64), args.Error(2)
}

// MockRackRepository is a mock of inventory.RackRepository
type MockRackRepository struct {
	mock.Mock
}

func (m *MockRackRepository) SaveRack(ctx context.Context, rack *inventory.Rack) error {
	return m.Called(ctx, rack).Error(0)
}

func (m *MockRackRepository) FindRack(ctx context.Context, tenantID, id uuid.UUID) (*inventory.Rack, error) {
	args := m.Called(ctx, tenantID, id)
	return ptrArg[inventory.Rack](args, 0), args.Error(1)
}

func (m *MockRackRepository) FindRacks(ctx context.Context, tenantID uuid.UUID) ([]inventory.Rack, error) {
	args := m.Called(ctx, tenantID)
	return sliceArg[inventory.Rack](args, 0), args.Error(1)
}

func (m *MockRackRepository) DeleteRack(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockRackRepository) SaveStock(ctx context.Context, stock *inventory.RackStock) error {
	return m.Called(ctx, stock).Error(0)
}

func (m *MockRackRepository) FindStock(ctx context.Context, tenantID, id uuid.UUID) (*inventory.RackStock, error) {
	args := m.Called(ctx, tenantID, id)
	return ptrArg[inventory.RackStock](args, 0), args.Error(1)
}

func (m *MockRackRepository) FindStockForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*inventory.RackStock, error) {
	args := m.Called(ctx, tenantID, id)
	return ptrArg[inventory.RackStock](args, 0), args.Error(1)
}

func (m *MockRackRepository) FindStockByRack(ctx context.Context, tenantID, rackID uuid.UUID) ([]inventory.RackStock, error) {
	args := m.Called(ctx, tenantID, rackID)
	return sliceArg[inventory.RackStock](args, 0), args.Error(1)
}

func (m *MockRackRepository) FindStockByRackAndItem(ctx context.Context, tenantID, rackID, itemID uuid.UUID) (*inventory.RackStock, error) {
	args := m.Called(ctx, tenantID, rackID, itemID)
	return ptrArg[inventory.RackStock](args, 0), args.Error(1)
}

// ============ Kitchen ============

// MockKOTRepository is a mock of kitchen.KOTRepository
type MockKOTRepository struct {
	mock.Mock
}

func (m *MockKOTRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*kitchen.KOT, error) {
	args := m.Called(ctx, tenantID, id)
	return ptrArg[kitchen.KOT](args, 0), args.Error(1)
}

func (m *MockKOTRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*kitchen.KOT, error) {
	args := m.Called(ctx, tenantID, id)
	return ptrArg[kitchen.KOT](args, 0), args.Error(1)
}

func (m *MockKOTRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]kitchen.KOT, error) {
	args := m.Called(ctx, tenantID, ids)
	return sliceArg[kitchen.KOT](args, 0), args.Error(1)
}

func (m *MockKOTRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]kitchen.KOT, error) {
	args := m.Called(ctx, tenantID, filter)
	return sliceArg[kitchen.KOT](args, 0), args.Error(1)
}

func (m *MockKOTRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockKOTRepository) FindActiveByTable(ctx context.Context, tenantID uuid.UUID, tableNumber string) ([]kitchen.KOT, error) {
	args := m.Called(ctx, tenantID, tableNumber)
	return sliceArg[kitchen.KOT](args, 0), args.Error(1)
}

func (m *MockKOTRepository) Save(ctx context.Context, kot *kitchen.KOT) error {
	return m.Called(ctx, kot).Error(0)
}

func (m *MockKOTRepository) SaveWithLock(ctx context.Context, kot *kitchen.KOT, expectedVersion int) error {
	return m.Called(ctx, kot, expectedVersion).Error(0)
}

func (m *MockKOTRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

// ============ Trade ============

// MockSaleRepository is a mock of trade.SaleRepository
type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.Sale, error) {
	args := m.Called(ctx, tenantID, id)
	return ptrArg[trade.Sale](args, 0), args.Error(1)
}

func (m *MockSaleRepository) FindByBillNumber(ctx context.Context, tenantID uuid.UUID, billNumber string) (*trade.Sale, error) {
	args := m.Called(ctx, tenantID, billNumber)
	return ptrArg[trade.Sale](args, 0), args.Error(1)
}

func (m *MockSaleRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.Sale, error) {
	args := m.Called(ctx, tenantID, filter)
	return sliceArg[trade.Sale](args, 0), args.Error(1)
}

func (m *MockSaleRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSaleRepository) Save(ctx context.Context, sale *trade.Sale) error {
	return m.Called(ctx, sale).Error(0)
}

func (m *MockSaleRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

// MockPurchaseRepository is a mock of trade.PurchaseRepository
type MockPurchaseRepository struct {
	mock.Mock
}

func (m *MockPurchaseRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.Purchase, error) {
	args := m.Called(ctx, tenantID, id)
	return ptrArg[trade.Purchase](args, 0), args.Error(1)
}

func (m *MockPurchaseRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.Purchase, error) {
	args := m.Called(ctx, tenantID, filter)
	return sliceArg[trade.Purchase](args, 0), args.Error(1)
}

func (m *MockPurchaseRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPurchaseRepository) Save(ctx context.Context, purchase *trade.Purchase) error {
	return m.Called(ctx, purchase).Error(0)
}

func (m *MockPurchaseRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

// ============ Partner ============

// MockPartyRepository is a mock of partner.PartyRepository
type MockPartyRepository struct {
	mock.Mock
}

func (m *MockPartyRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Party, error) {
	args := m.Called(ctx, tenantID, id)
	return ptrArg[partner.Party](args, 0), args.Error(1)
}

func (m *MockPartyRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Party, error) {
	args := m.Called(ctx, tenantID, filter)
	return sliceArg[partner.Party](args, 0), args.Error(1)
}

func (m *MockPartyRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPartyRepository) Save(ctx context.Context, party *partner.Party) error {
	return m.Called(ctx, party).Error(0)
}

func (m *MockPartyRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

// MockPointLedgerRepository is a mock of partner.PointLedgerRepository
type MockPointLedgerRepository struct {
	mock.Mock
}

func (m *MockPointLedgerRepository) Append(ctx context.Context, entry *partner.ReferrerPointEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockPointLedgerRepository) FindByReferrer(ctx context.Context, tenantID, referrerID uuid.UUID, filter shared.Filter) ([]partner.ReferrerPointEntry, int64, error) {
	args := m.Called(ctx, tenantID, referrerID, filter)
	return sliceArg[partner.ReferrerPointEntry](args, 0), args.Get(1).(int64), args.Error(2)
}

func (m *MockPointLedgerRepository) FindBySale(ctx context.Context, tenantID, saleID uuid.UUID) ([]partner.ReferrerPointEntry, error) {
	args := m.Called(ctx, tenantID, saleID)
	return sliceArg[partner.ReferrerPointEntry](args, 0), args.Error(1)
}

// MockCouponRepository is a mock of partner.CouponRepository
type MockCouponRepository struct {
	mock.Mock
}

func (m *MockCouponRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Coupon, error) {
	args := m.Called(ctx, tenantID, id)
	return ptrArg[partner.Coupon](args, 0), args.Error(1)
}

func (m *MockCouponRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*partner.Coupon, error) {
	args := m.Called(ctx, tenantID, code)
	return ptrArg[partner.Coupon](args, 0), args.Error(1)
}

func (m *MockCouponRepository) FindByCodeForUpdate(ctx context.Context, tenantID uuid.UUID, code string) (*partner.Coupon, error) {
	args := m.Called(ctx, tenantID, code)
	return ptrArg[partner.Coupon](args, 0), args.Error(1)
}

func (m *MockCouponRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Coupon, error) {
	args := m.Called(ctx, tenantID, filter)
	return sliceArg[partner.Coupon](args, 0), args.Error(1)
}

func (m *MockCouponRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCouponRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, code, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCouponRepository) Save(ctx context.Context, coupon *partner.Coupon) error {
	return m.Called(ctx, coupon).Error(0)
}

func (m *MockCouponRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

// ============ Sequence, identity, report ============

// MockCounter is a mock of sequence.Counter
type MockCounter struct {
	mock.Mock
}

func (m *MockCounter) Next(ctx context.Context, tenantID uuid.UUID, prefix, dateKey string) (int64, error) {
	args := m.Called(ctx, tenantID, prefix, dateKey)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserRepository is a mock of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	return ptrArg[identity.User](args, 0), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, tenantID uuid.UUID, username string) (*identity.User, error) {
	args := m.Called(ctx, tenantID, username)
	return ptrArg[identity.User](args, 0), args.Error(1)
}

func (m *MockUserRepository) FindByUsernameAnyTenant(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	return ptrArg[identity.User](args, 0), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

// MockReportRepository is a mock of report.Repository
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) SalesSummary(ctx context.Context, f report.Filter) (*report.SalesSummary, error) {
	args := m.Called(ctx, f)
	return ptrArg[report.SalesSummary](args, 0), args.Error(1)
}

func (m *MockReportRepository) DailySales(ctx context.Context, f report.Filter) ([]report.DailySales, error) {
	args := m.Called(ctx, f)
	return sliceArg[report.DailySales](args, 0), args.Error(1)
}

func (m *MockReportRepository) TopItems(ctx context.Context, f report.Filter) ([]report.TopItem, error) {
	args := m.Called(ctx, f)
	return sliceArg[report.TopItem](args, 0), args.Error(1)
}

func (m *MockReportRepository) GSTSlabs(ctx context.Context, f report.Filter) ([]report.GSTSlab, error) {
	args := m.Called(ctx, f)
	return sliceArg[report.GSTSlab](args, 0), args.Error(1)
}

func (m *MockReportRepository) ProfitLoss(ctx context.Context, f report.Filter) (*report.ProfitLoss, error) {
	args := m.Called(ctx, f)
	return ptrArg[report.ProfitLoss](args, 0), args.Error(1)
}

func (m *MockReportRepository) CashEntries(ctx context.Context, f report.Filter) ([]report.CashEntry, error) {
	args := m.Called(ctx, f)
	return sliceArg[report.CashEntry](args, 0), args.Error(1)
}

func (m *MockReportRepository) KOTStatusCounts(ctx context.Context, f report.Filter) ([]report.KOTStatusCount, error) {
	args := m.Called(ctx, f)
	return sliceArg[report.KOTStatusCount](args, 0), args.Error(1)
}

func (m *MockReportRepository) StockValuation(ctx context.Context, tenantID uuid.UUID) (*report.StockValuation, error) {
	args := m.Called(ctx, tenantID)
	return ptrArg[report.StockValuation](args, 0), args.Error(1)
}

var (
	_ catalog.ItemRepository              = (*MockItemRepository)(nil)
	_ catalog.CategoryRepository          = (*MockClassificationRepository[catalog.Category])(nil)
	_ inventory.StockAdjustmentRepository = (*MockAdjustmentRepository)(nil)
	_ inventory.RackRepository            = (*MockRackRepository)(nil)
	_ kitchen.KOTRepository               = (*MockKOTRepository)(nil)
	_ trade.SaleRepository                = (*MockSaleRepository)(nil)
	_ trade.PurchaseRepository            = (*MockPurchaseRepository)(nil)
	_ partner.PartyRepository             = (*MockPartyRepository)(nil)
	_ partner.PointLedgerRepository       = (*MockPointLedgerRepository)(nil)
	_ partner.CouponRepository            = (*MockCouponRepository)(nil)
	_ identity.UserRepository             = (*MockUserRepository)(nil)
	_ report.Repository                   = (*MockReportRepository)(nil)
)
