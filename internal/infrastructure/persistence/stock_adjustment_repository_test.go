package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/foodcourt/pos/internal/domain/inventory"
	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormStockAdjustmentRepository(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormStockAdjustmentRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	paneer := uuid.New()
	rice := uuid.New()

	entry := func(itemID uuid.UUID, name string, kind inventory.AdjustmentType, qty, before, after int64, reason string, at time.Time) *inventory.StockAdjustment {
		e, err := inventory.NewStockAdjustment(tenantID, itemID, name, kind,
			decimal.NewFromInt(qty), decimal.NewFromInt(before), decimal.NewFromInt(after), reason)
		require.NoError(t, err)
		e.CreatedAt = at
		return e
	}
	jan15 := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Append(ctx,
		entry(paneer, "Paneer", inventory.AdjustmentOpeningStock, 10, 0, 10, "opening", jan15),
		entry(paneer, "Paneer", inventory.AdjustmentDecrease, 2, 10, 8, "spoiled", jan15.Add(3*time.Hour)),
		entry(rice, "Rice", inventory.AdjustmentIncrease, 25, 0, 25, "delivery", jan15.AddDate(0, 0, 1).Add(14*time.Hour)),
	))
	require.NoError(t, repo.Append(ctx))

	t.Run("newest first with total", func(t *testing.T) {
		entries, total, err := repo.FindForTenant(ctx, tenantID, inventory.AdjustmentFilter{Filter: shared.DefaultFilter()})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, entries, 3)
		assert.Equal(t, "Rice", entries[0].ItemName)
		assert.True(t, decimal.NewFromInt(25).Equal(entries[0].Delta))
	})

	t.Run("item and type filters", func(t *testing.T) {
		entries, total, err := repo.FindForTenant(ctx, tenantID, inventory.AdjustmentFilter{
			Filter: shared.DefaultFilter(),
			ItemID: &paneer,
			Type:   inventory.AdjustmentDecrease,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, entries, 1)
		assert.True(t, decimal.NewFromInt(-2).Equal(entries[0].Delta))
	})

	t.Run("end date covers the whole day", func(t *testing.T) {
		start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
		end := start
		_, total, err := repo.FindForTenant(ctx, tenantID, inventory.AdjustmentFilter{
			Filter:    shared.DefaultFilter(),
			StartDate: &start,
			EndDate:   &end,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})

	t.Run("search reason", func(t *testing.T) {
		filter := inventory.AdjustmentFilter{Filter: shared.DefaultFilter()}
		filter.Search = "SPOIL"
		_, total, err := repo.FindForTenant(ctx, tenantID, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("page window keeps the total", func(t *testing.T) {
		filter := inventory.AdjustmentFilter{Filter: shared.DefaultFilter()}
		filter.PageSize = 1
		filter.Page = 2
		entries, total, err := repo.FindForTenant(ctx, tenantID, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, entries, 1)
		assert.Equal(t, "spoiled", entries[0].Reason)
	})

	t.Run("other tenant sees nothing", func(t *testing.T) {
		entries, total, err := repo.FindForTenant(ctx, uuid.New(), inventory.AdjustmentFilter{Filter: shared.DefaultFilter()})
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, entries)
	})
}

func TestGormRackRepository(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormRackRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	cold, err := inventory.NewRack(tenantID, "Cold Room", "Back")
	require.NoError(t, err)
	dry, err := inventory.NewRack(tenantID, "Dry Store", "Basement")
	require.NoError(t, err)
	require.NoError(t, repo.SaveRack(ctx, dry))
	require.NoError(t, repo.SaveRack(ctx, cold))

	itemID := uuid.New()
	stock, err := inventory.NewRackStock(tenantID, cold.ID, itemID, "Paneer",
		decimal.NewFromInt(4), decimal.NewFromInt(5), decimal.NewFromInt(20))
	require.NoError(t, err)
	require.NoError(t, repo.SaveStock(ctx, stock))

	t.Run("racks by name", func(t *testing.T) {
		racks, err := repo.FindRacks(ctx, tenantID)
		require.NoError(t, err)
		require.Len(t, racks, 2)
		assert.Equal(t, "Cold Room", racks[0].Name)
	})

	t.Run("bucket lookups", func(t *testing.T) {
		found, err := repo.FindStockByRackAndItem(ctx, tenantID, cold.ID, itemID)
		require.NoError(t, err)
		assert.Equal(t, stock.ID, found.ID)
		assert.Equal(t, inventory.StockStatusLowStock, found.Status())

		_, err = repo.FindStockByRackAndItem(ctx, tenantID, dry.ID, itemID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("adjust and save", func(t *testing.T) {
		locked, err := repo.FindStockForUpdate(ctx, tenantID, stock.ID)
		require.NoError(t, err)
		status, err := locked.Adjust(inventory.DirectionIncrease, decimal.NewFromInt(6))
		require.NoError(t, err)
		assert.Equal(t, inventory.StockStatusWellStocked, status)
		require.NoError(t, repo.SaveStock(ctx, locked))

		found, err := repo.FindStock(ctx, tenantID, stock.ID)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(10).Equal(found.Quantity))
	})

	t.Run("delete rack removes its buckets", func(t *testing.T) {
		require.NoError(t, repo.DeleteRack(ctx, tenantID, cold.ID))

		stocks, err := repo.FindStockByRack(ctx, tenantID, cold.ID)
		require.NoError(t, err)
		assert.Empty(t, stocks)

		_, err = repo.FindRack(ctx, tenantID, cold.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.ErrorIs(t, repo.DeleteRack(ctx, tenantID, cold.ID), shared.ErrNotFound)
	})
}
