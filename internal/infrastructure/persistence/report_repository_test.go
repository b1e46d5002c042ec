package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/foodcourt/pos/internal/domain/catalog"
	"github.com/foodcourt/pos/internal/domain/kitchen"
	"github.com/foodcourt/pos/internal/domain/report"
	"github.com/foodcourt/pos/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type reportFixture struct {
	tenantID uuid.UUID
	dosa     *catalog.Item
	coffee   *catalog.Item
	day      report.Range
}

// seedReportData books on 2024-01-15 (UTC):
//   - GST bill, 2 x dosa @100 at 5% tax, cash 210
//   - estimate bill, 1 x dosa + 1 x coffee @30, UPI 130
//   - a cancelled GST bill and a bill on the next day, both outside every total
//   - a purchase of 1500 paid in full and a cancelled purchase
//   - one active and one cancelled ticket
func seedReportData(t *testing.T, db *gorm.DB) reportFixture {
	t.Helper()
	ctx := context.Background()
	tenantID := uuid.New()
	items := NewGormItemRepository(db)
	sales := NewGormSaleRepository(db)
	purchases := NewGormPurchaseRepository(db)
	kots := NewGormKOTRepository(db)

	dosa := newTestItem(t, tenantID, "Masala Dosa", 40, 100)
	_, _, err := dosa.IncreaseStock(decimal.NewFromInt(10))
	require.NoError(t, err)
	require.NoError(t, dosa.SetStockLevels(decimal.NewFromInt(12), decimal.Zero))
	coffee := newTestItem(t, tenantID, "Filter Coffee", 10, 30)
	require.NoError(t, items.Save(ctx, dosa))
	require.NoError(t, items.Save(ctx, coffee))

	jan15 := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	line := func(item *catalog.Item, qty int64, tax int64) trade.LineInput {
		return trade.LineInput{
			ItemID:    item.ID,
			ItemName:  item.Name,
			Quantity:  decimal.NewFromInt(qty),
			UnitPrice: item.Price.SellingPrice,
			TaxRate:   decimal.NewFromInt(tax),
		}
	}
	sale := func(number string, billType trade.BillType, at time.Time, method trade.PaymentMethod, received int64, lines ...trade.LineInput) *trade.Sale {
		s, err := trade.NewSale(tenantID, number, trade.SaleInput{
			BillType:       billType,
			SaleDate:       at,
			Lines:          lines,
			PaymentMethod:  method,
			AmountReceived: decimal.NewFromInt(received),
		})
		require.NoError(t, err)
		return s
	}

	bills := []*trade.Sale{
		sale("MGGST202401150001", trade.BillTypeGST, jan15.Add(10*time.Hour), trade.PaymentMethodCash, 210, line(dosa, 2, 5)),
		sale("MGEST202401150001", trade.BillTypeEstimate, jan15.Add(12*time.Hour), trade.PaymentMethodUPI, 130, line(dosa, 1, 0), line(coffee, 1, 0)),
		sale("MGGST202401160001", trade.BillTypeGST, jan15.AddDate(0, 0, 1).Add(time.Hour), trade.PaymentMethodCash, 100, line(dosa, 1, 0)),
	}
	cancelled := sale("MGGST202401150002", trade.BillTypeGST, jan15.Add(11*time.Hour), trade.PaymentMethodCash, 500, line(dosa, 5, 0))
	require.NoError(t, cancelled.Cancel("test"))
	bills = append(bills, cancelled)
	for _, s := range bills {
		require.NoError(t, sales.Save(ctx, s))
	}

	purchase := func(number string, received int64) *trade.Purchase {
		p, err := trade.NewPurchase(tenantID, number, trade.PurchaseInput{
			VendorName:     "Fresh Farms",
			PurchaseDate:   jan15.Add(8 * time.Hour),
			Lines:          []trade.LineInput{{ItemID: dosa.ID, ItemName: "Batter", Quantity: decimal.NewFromInt(5), UnitPrice: decimal.NewFromInt(300)}},
			PaymentMethod:  trade.PaymentMethodCash,
			AmountReceived: decimal.NewFromInt(received),
		})
		require.NoError(t, err)
		return p
	}
	require.NoError(t, purchases.Save(ctx, purchase("PUR202401150001", 1500)))
	void := purchase("PUR202401150002", 1500)
	require.NoError(t, void.Cancel())
	require.NoError(t, purchases.Save(ctx, void))

	active := newTestKOT(t, tenantID, "KOT20240115001", "T1")
	closed := newTestKOT(t, tenantID, "KOT20240115002", "T2")
	require.NoError(t, closed.Cancel("guest left"))
	for _, k := range []*kitchen.KOT{active, closed} {
		require.NoError(t, kots.Save(ctx, k))
		require.NoError(t, db.Model(&kitchen.KOT{}).Where("id = ?", k.ID).UpdateColumn("created_at", jan15.Add(9*time.Hour)).Error)
	}

	return reportFixture{
		tenantID: tenantID,
		dosa:     dosa,
		coffee:   coffee,
		day:      report.DayRange(jan15),
	}
}

func TestGormReportRepository(t *testing.T) {
	db := newSQLiteDB(t)
	fx := seedReportData(t, db)
	repo := NewGormReportRepository(db)
	ctx := context.Background()
	filter := report.Filter{TenantID: fx.tenantID, Range: fx.day, TopN: 10}

	t.Run("SalesSummary", func(t *testing.T) {
		summary, err := repo.SalesSummary(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(2), summary.BillCount)
		assert.True(t, decimal.NewFromInt(330).Equal(summary.GrossAmount), summary.GrossAmount.String())
		assert.True(t, decimal.NewFromInt(10).Equal(summary.TaxAmount))
		assert.True(t, decimal.NewFromInt(340).Equal(summary.NetAmount))
		assert.True(t, decimal.NewFromInt(340).Equal(summary.AmountReceived))
		require.Len(t, summary.ByPaymentMethod, 2)
		assert.Equal(t, "cash", summary.ByPaymentMethod[0].Method)
		assert.True(t, decimal.NewFromInt(210).Equal(summary.ByPaymentMethod[0].Amount))
	})

	t.Run("DailySales", func(t *testing.T) {
		days, err := repo.DailySales(ctx, report.Filter{
			TenantID: fx.tenantID,
			Range:    report.Range{Start: fx.day.Start, End: fx.day.End.AddDate(0, 0, 1)},
		})
		require.NoError(t, err)
		require.Len(t, days, 2)
		assert.Equal(t, "2024-01-15", days[0].Date)
		assert.Equal(t, int64(2), days[0].BillCount)
		assert.True(t, decimal.NewFromInt(340).Equal(days[0].NetAmount))
		assert.Equal(t, "2024-01-16", days[1].Date)
	})

	t.Run("TopItems", func(t *testing.T) {
		items, err := repo.TopItems(ctx, filter)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, fx.dosa.ID, items[0].ItemID)
		assert.True(t, decimal.NewFromInt(3).Equal(items[0].Quantity))
		assert.True(t, decimal.NewFromInt(300).Equal(items[0].Revenue))
		assert.Equal(t, "Filter Coffee", items[1].ItemName)

		limited, err := repo.TopItems(ctx, report.Filter{TenantID: fx.tenantID, Range: fx.day, TopN: 1})
		require.NoError(t, err)
		assert.Len(t, limited, 1)
	})

	t.Run("GSTSlabs only count GST bills", func(t *testing.T) {
		slabs, err := repo.GSTSlabs(ctx, filter)
		require.NoError(t, err)
		require.Len(t, slabs, 1)
		assert.True(t, decimal.NewFromInt(5).Equal(slabs[0].TaxRate))
		assert.True(t, decimal.NewFromInt(200).Equal(slabs[0].TaxableValue))
		assert.True(t, decimal.NewFromInt(10).Equal(slabs[0].TaxAmount))
	})

	t.Run("ProfitLoss", func(t *testing.T) {
		pl, err := repo.ProfitLoss(ctx, filter)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(330).Equal(pl.Revenue), pl.Revenue.String())
		assert.True(t, decimal.NewFromInt(10).Equal(pl.TaxCollected))
		assert.True(t, decimal.NewFromInt(130).Equal(pl.CostOfGoods), pl.CostOfGoods.String())
		assert.True(t, decimal.NewFromInt(1500).Equal(pl.Purchases))
	})

	t.Run("CashEntries in date order", func(t *testing.T) {
		entries, err := repo.CashEntries(ctx, filter)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, report.CashOut, entries[0].Direction)
		assert.Equal(t, "PUR202401150001", entries[0].Reference)
		assert.Equal(t, "MGGST202401150001", entries[1].Reference)
		assert.Equal(t, report.CashIn, entries[2].Direction)
		assert.True(t, decimal.NewFromInt(130).Equal(entries[2].Amount))
	})

	t.Run("KOTStatusCounts", func(t *testing.T) {
		counts, err := repo.KOTStatusCounts(ctx, filter)
		require.NoError(t, err)
		require.Len(t, counts, 2)
		assert.Equal(t, string(kitchen.KOTStatusActive), counts[0].Status)
		assert.Equal(t, int64(1), counts[0].Count)
		assert.Equal(t, string(kitchen.KOTStatusCancelled), counts[1].Status)
	})

	t.Run("StockValuation", func(t *testing.T) {
		v, err := repo.StockValuation(ctx, fx.tenantID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), v.ItemCount)
		assert.True(t, decimal.NewFromInt(10).Equal(v.TotalQuantity))
		assert.True(t, decimal.NewFromInt(400).Equal(v.TotalValue))
		assert.Equal(t, int64(1), v.LowStockCount)
		assert.Equal(t, int64(1), v.OutOfStock)
	})

	t.Run("empty range", func(t *testing.T) {
		empty := report.Filter{TenantID: uuid.New(), Range: fx.day}
		summary, err := repo.SalesSummary(ctx, empty)
		require.NoError(t, err)
		assert.Zero(t, summary.BillCount)
		assert.True(t, summary.NetAmount.IsZero())
		assert.Empty(t, summary.ByPaymentMethod)
	})
}
