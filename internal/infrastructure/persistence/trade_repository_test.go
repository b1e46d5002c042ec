package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/foodcourt/pos/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSale(t *testing.T, tenantID uuid.UUID, number string, billType trade.BillType, at time.Time, lines ...trade.LineInput) *trade.Sale {
	t.Helper()
	if len(lines) == 0 {
		lines = []trade.LineInput{{
			ItemID:    uuid.New(),
			ItemName:  "Masala Dosa",
			Quantity:  decimal.NewFromInt(2),
			UnitPrice: decimal.NewFromInt(100),
			TaxRate:   decimal.NewFromInt(5),
		}}
	}
	sale, err := trade.NewSale(tenantID, number, trade.SaleInput{
		BillType:       billType,
		SaleDate:       at,
		Party:          trade.SaleParty{CustomerName: "Ravi", CustomerMobile: "9876543210"},
		Lines:          lines,
		PaymentMethod:  trade.PaymentMethodCash,
		AmountReceived: decimal.NewFromInt(210),
	})
	require.NoError(t, err)
	return sale
}

func TestGormSaleRepository(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormSaleRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	day := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	gst := newTestSale(t, tenantID, "MGGST202401150001", trade.BillTypeGST, day)
	gst.KOTIDs = []uuid.UUID{uuid.New()}
	estimate := newTestSale(t, tenantID, "MGEST202401150001", trade.BillTypeEstimate, day.Add(2*time.Hour))
	nextDay := newTestSale(t, tenantID, "MGGST202401160001", trade.BillTypeGST, day.AddDate(0, 0, 1))
	for _, s := range []*trade.Sale{gst, estimate, nextDay} {
		require.NoError(t, repo.Save(ctx, s))
	}

	t.Run("finds by bill number with lines", func(t *testing.T) {
		found, err := repo.FindByBillNumber(ctx, tenantID, "MGGST202401150001")
		require.NoError(t, err)
		assert.Equal(t, gst.ID, found.ID)
		require.Len(t, found.Items, 1)
		assert.Equal(t, gst.KOTIDs, found.KOTIDs)
		assert.True(t, gst.Pricing.GrandTotal.Equal(found.Pricing.GrandTotal))
		assert.Equal(t, "Ravi", found.Party.CustomerName)
	})

	t.Run("unknown bill number", func(t *testing.T) {
		_, err := repo.FindByBillNumber(ctx, tenantID, "MGGST209901010001")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("date range is half-open", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters = map[string]interface{}{
			"start_date": time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			"end_date":   time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC),
		}
		sales, err := repo.FindAllForTenant(ctx, tenantID, filter)
		require.NoError(t, err)
		require.Len(t, sales, 2)
		assert.Equal(t, estimate.ID, sales[0].ID)
	})

	t.Run("bill type filter and search", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters = map[string]interface{}{"bill_type": trade.BillTypeGST}
		filter.Search = "9876"
		count, err := repo.CountForTenant(ctx, tenantID, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("cancel persists status", func(t *testing.T) {
		require.NoError(t, gst.Cancel("wrong table"))
		require.NoError(t, repo.Save(ctx, gst))

		found, err := repo.FindByIDForTenant(ctx, tenantID, gst.ID)
		require.NoError(t, err)
		assert.Equal(t, trade.SaleStatusCancelled, found.Status)
		assert.Equal(t, "wrong table", found.CancelReason)
		require.Len(t, found.Items, 1)
	})

	t.Run("duplicate bill number", func(t *testing.T) {
		require.NoError(t, db.Exec("CREATE UNIQUE INDEX idx_test_bill ON sales (tenant_id, bill_number)").Error)
		dup := newTestSale(t, tenantID, "MGEST202401150001", trade.BillTypeEstimate, day)
		assert.ErrorIs(t, repo.Save(ctx, dup), shared.ErrAlreadyExists)
	})
}

func TestGormPurchaseRepository(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormPurchaseRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	vendorID := uuid.New()

	purchase, err := trade.NewPurchase(tenantID, "PUR202401150001", trade.PurchaseInput{
		VendorID:      &vendorID,
		VendorName:    "Fresh Farms",
		InvoiceNumber: "FF-991",
		PurchaseDate:  time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
		Lines: []trade.LineInput{
			{ItemID: uuid.New(), ItemName: "Paneer", Quantity: decimal.NewFromInt(5), UnitPrice: decimal.NewFromInt(300)},
			{ItemID: uuid.New(), ItemName: "Rice", Quantity: decimal.NewFromInt(25), UnitPrice: decimal.NewFromInt(60)},
		},
		PaymentMethod: trade.PaymentMethodUPI,
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, purchase))

	t.Run("finds with lines", func(t *testing.T) {
		found, err := repo.FindByIDForTenant(ctx, tenantID, purchase.ID)
		require.NoError(t, err)
		assert.Equal(t, "Fresh Farms", found.VendorName)
		assert.Len(t, found.Items, 2)
		assert.Equal(t, trade.PurchaseStatusOrdered, found.Status)
	})

	t.Run("receive persists the timestamp", func(t *testing.T) {
		require.NoError(t, purchase.Receive())
		require.NoError(t, repo.Save(ctx, purchase))

		found, err := repo.FindByIDForTenant(ctx, tenantID, purchase.ID)
		require.NoError(t, err)
		assert.Equal(t, trade.PurchaseStatusReceived, found.Status)
		assert.NotNil(t, found.ReceivedAt)
	})

	t.Run("filters by vendor and searches the invoice", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters = map[string]interface{}{"vendor_id": vendorID}
		filter.Search = "ff-9"
		purchases, err := repo.FindAllForTenant(ctx, tenantID, filter)
		require.NoError(t, err)
		assert.Len(t, purchases, 1)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.DeleteForTenant(ctx, tenantID, purchase.ID))
		assert.ErrorIs(t, repo.DeleteForTenant(ctx, tenantID, purchase.ID), shared.ErrNotFound)
	})
}
