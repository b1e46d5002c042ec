package report

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/foodcourt/pos/internal/domain/report"
	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/foodcourt/pos/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mapCache is a report.Cache backed by a map
type mapCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	failGet bool
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string][]byte)}
}

func (c *mapCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failGet {
		return nil, errors.New("connection refused")
	}
	v, ok := c.entries[key]
	if !ok {
		return nil, report.ErrCacheMiss
	}
	return v, nil
}

func (c *mapCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

var ist = time.FixedZone("IST", 5*3600+1800)

func newReportService(cache report.Cache) (*ReportService, *testutil.MockReportRepository) {
	repo := new(testutil.MockReportRepository)
	svc := NewReportService(repo, cache, time.Minute, ist, nil)
	svc.now = func() time.Time { return time.Date(2026, 3, 14, 15, 30, 0, 0, ist) }
	return svc, repo
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestReportService_SalesSummary(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("defaults to today in the shop time zone", func(t *testing.T) {
		svc, repo := newReportService(nil)
		wantStart := time.Date(2026, 3, 14, 0, 0, 0, 0, ist)
		repo.On("SalesSummary", ctx, mock.MatchedBy(func(f report.Filter) bool {
			return f.TenantID == tenantID && f.Range.Start.Equal(wantStart) && f.Range.End.Equal(wantStart.AddDate(0, 0, 1))
		})).Return(&report.SalesSummary{BillCount: 4, NetAmount: dec("1000")}, nil)

		summary, err := svc.SalesSummary(ctx, tenantID, Query{})

		require.NoError(t, err)
		assert.True(t, summary.AverageBill.Equal(dec("250")))
		assert.True(t, summary.Range.Start.Equal(wantStart))
	})

	t.Run("inclusive end date", func(t *testing.T) {
		svc, repo := newReportService(nil)
		repo.On("SalesSummary", ctx, mock.MatchedBy(func(f report.Filter) bool {
			return f.Range.End.Equal(time.Date(2026, 3, 11, 0, 0, 0, 0, ist))
		})).Return(&report.SalesSummary{}, nil)

		_, err := svc.SalesSummary(ctx, tenantID, Query{StartDate: "2026-03-01", EndDate: "2026-03-10"})

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("bad date", func(t *testing.T) {
		svc, _ := newReportService(nil)
		_, err := svc.SalesSummary(ctx, tenantID, Query{StartDate: "14/03/2026"})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("range too long", func(t *testing.T) {
		svc, _ := newReportService(nil)
		_, err := svc.SalesSummary(ctx, tenantID, Query{StartDate: "2024-01-01", EndDate: "2026-01-01"})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestReportService_Cache(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("second call is served from the cache", func(t *testing.T) {
		cache := newMapCache()
		svc, repo := newReportService(cache)
		repo.On("SalesSummary", ctx, mock.Anything).Return(&report.SalesSummary{BillCount: 2, NetAmount: dec("300")}, nil).Once()

		first, err := svc.SalesSummary(ctx, tenantID, Query{})
		require.NoError(t, err)
		second, err := svc.SalesSummary(ctx, tenantID, Query{})
		require.NoError(t, err)

		assert.Equal(t, first.BillCount, second.BillCount)
		assert.True(t, second.NetAmount.Equal(dec("300")))
		repo.AssertNumberOfCalls(t, "SalesSummary", 1)
	})

	t.Run("tenants do not share entries", func(t *testing.T) {
		cache := newMapCache()
		svc, repo := newReportService(cache)
		repo.On("KOTStatusCounts", ctx, mock.Anything).Return([]report.KOTStatusCount{{Status: "active", Count: 1}}, nil)

		_, err := svc.KOTSummary(ctx, tenantID, Query{})
		require.NoError(t, err)
		_, err = svc.KOTSummary(ctx, uuid.New(), Query{})
		require.NoError(t, err)

		repo.AssertNumberOfCalls(t, "KOTStatusCounts", 2)
	})

	t.Run("cache failure falls back to the repository", func(t *testing.T) {
		cache := newMapCache()
		cache.failGet = true
		svc, repo := newReportService(cache)
		repo.On("SalesSummary", ctx, mock.Anything).Return(&report.SalesSummary{}, nil)

		_, err := svc.SalesSummary(ctx, tenantID, Query{})

		assert.NoError(t, err)
	})
}

func TestReportService_DailySales_FillsGaps(t *testing.T) {
	ctx := context.Background()
	svc, repo := newReportService(nil)
	repo.On("DailySales", ctx, mock.Anything).Return([]report.DailySales{
		{Date: "2026-03-02", BillCount: 3, NetAmount: dec("450")},
	}, nil)

	series, err := svc.DailySales(ctx, uuid.New(), Query{StartDate: "2026-03-01", EndDate: "2026-03-03"})

	require.NoError(t, err)
	require.Len(t, series, 3)
	assert.Equal(t, "2026-03-01", series[0].Date)
	assert.Zero(t, series[0].BillCount)
	assert.Equal(t, int64(3), series[1].BillCount)
	assert.Equal(t, "2026-03-03", series[2].Date)
}

func TestReportService_TopItems(t *testing.T) {
	ctx := context.Background()
	svc, repo := newReportService(nil)
	repo.On("TopItems", ctx, mock.MatchedBy(func(f report.Filter) bool { return f.TopN == 10 })).Return([]report.TopItem{
		{ItemName: "Masala Dosa", Quantity: dec("40")},
		{ItemName: "Filter Coffee", Quantity: dec("35")},
	}, nil)

	items, err := svc.TopItems(ctx, uuid.New(), Query{})

	require.NoError(t, err)
	assert.Equal(t, 1, items[0].Rank)
	assert.Equal(t, 2, items[1].Rank)
}

func TestReportService_GST(t *testing.T) {
	ctx := context.Background()
	svc, repo := newReportService(nil)
	repo.On("GSTSlabs", ctx, mock.Anything).Return([]report.GSTSlab{
		{TaxRate: dec("5"), TaxableValue: dec("1000"), TaxAmount: dec("50.01")},
		{TaxRate: dec("18"), TaxableValue: dec("200"), TaxAmount: dec("36")},
	}, nil)

	r, err := svc.GST(ctx, uuid.New(), Query{})

	require.NoError(t, err)
	assert.True(t, r.TaxAmount.Equal(dec("86.01")))
	assert.True(t, r.TaxableValue.Equal(dec("1200")))
	assert.True(t, r.Slabs[0].CGST.Add(r.Slabs[0].SGST).Equal(dec("50.01")))
}

func TestReportService_CashBook(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("running balance from the opening balance", func(t *testing.T) {
		svc, repo := newReportService(newMapCache())
		repo.On("CashEntries", ctx, mock.Anything).Return([]report.CashEntry{
			{Reference: "MGGST202603140001", Direction: report.CashIn, Amount: dec("500")},
			{Reference: "PUR202603140001", Direction: report.CashOut, Amount: dec("200")},
		}, nil)

		book, err := svc.CashBook(ctx, tenantID, Query{OpeningBalance: "1000"})
		require.NoError(t, err)
		assert.True(t, book.ClosingBalance.Equal(dec("1300")))

		// Cached entries still get the balance of the new request.
		book, err = svc.CashBook(ctx, tenantID, Query{OpeningBalance: "0"})
		require.NoError(t, err)
		assert.True(t, book.ClosingBalance.Equal(dec("300")))
		repo.AssertNumberOfCalls(t, "CashEntries", 1)
	})

	t.Run("invalid opening balance", func(t *testing.T) {
		svc, _ := newReportService(nil)
		_, err := svc.CashBook(ctx, tenantID, Query{OpeningBalance: "lots"})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestReportService_Dashboard(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc, repo := newReportService(nil)
	repo.On("SalesSummary", ctx, mock.Anything).Return(&report.SalesSummary{BillCount: 1, NetAmount: dec("120")}, nil)
	repo.On("KOTStatusCounts", ctx, mock.Anything).Return([]report.KOTStatusCount{
		{Status: "active", Count: 2}, {Status: "completed", Count: 5},
	}, nil)
	repo.On("StockValuation", ctx, tenantID).Return(&report.StockValuation{ItemCount: 12, LowStockCount: 3}, nil)
	repo.On("TopItems", ctx, mock.MatchedBy(func(f report.Filter) bool { return f.TopN == 5 })).Return([]report.TopItem{}, nil)

	d, err := svc.Dashboard(ctx, tenantID)

	require.NoError(t, err)
	assert.Equal(t, "2026-03-14", d.Date)
	assert.Equal(t, int64(7), d.Kitchen.Total)
	assert.Equal(t, int64(3), d.Stock.LowStockCount)
}
