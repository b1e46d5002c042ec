package persistence

import (
	"context"
	"testing"

	"github.com/foodcourt/pos/internal/domain/kitchen"
	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKOT(t *testing.T, tenantID uuid.UUID, number, table string, lines ...kitchen.LineInput) *kitchen.KOT {
	t.Helper()
	if len(lines) == 0 {
		lines = []kitchen.LineInput{{
			ItemID:   uuid.New(),
			ItemName: "Veg Thali",
			Quantity: 2,
			Price:    decimal.NewFromInt(150),
		}}
	}
	kot, err := kitchen.NewKOT(tenantID, number, table, "Dine In", lines)
	require.NoError(t, err)
	return kot
}

func TestGormKOTRepository_SaveAndFind(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormKOTRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	kot := newTestKOT(t, tenantID, "KOT20240115001", "T4",
		kitchen.LineInput{ItemID: uuid.New(), ItemName: "Paneer Butter Masala", Quantity: 1, Price: decimal.NewFromInt(240)},
		kitchen.LineInput{ItemID: uuid.New(), ItemName: "Butter Naan", Quantity: 3, Price: decimal.NewFromInt(40)},
	)
	require.NoError(t, repo.Save(ctx, kot))

	t.Run("loads lines and total", func(t *testing.T) {
		found, err := repo.FindByIDForTenant(ctx, tenantID, kot.ID)
		require.NoError(t, err)
		assert.Equal(t, "KOT20240115001", found.KOTNumber)
		require.Len(t, found.Items, 2)
		assert.True(t, decimal.NewFromInt(360).Equal(found.TotalAmount))
	})

	t.Run("resave replaces the lines", func(t *testing.T) {
		found, err := repo.FindByIDForTenant(ctx, tenantID, kot.ID)
		require.NoError(t, err)
		version := found.Version
		require.NoError(t, found.ReplaceItems([]kitchen.LineInput{
			{ItemID: uuid.New(), ItemName: "Jeera Rice", Quantity: 2, Price: decimal.NewFromInt(110)},
		}))
		require.NoError(t, repo.SaveWithLock(ctx, found, version))

		again, err := repo.FindByIDForTenant(ctx, tenantID, kot.ID)
		require.NoError(t, err)
		require.Len(t, again.Items, 1)
		assert.Equal(t, "Jeera Rice", again.Items[0].ItemName)
		assert.True(t, decimal.NewFromInt(220).Equal(again.TotalAmount))

		var lineCount int64
		require.NoError(t, db.Model(&kitchen.KOTItem{}).Where("kot_id = ?", kot.ID).Count(&lineCount).Error)
		assert.Equal(t, int64(1), lineCount)
	})

	t.Run("delete removes the lines", func(t *testing.T) {
		require.NoError(t, repo.DeleteForTenant(ctx, tenantID, kot.ID))

		var lineCount int64
		require.NoError(t, db.Model(&kitchen.KOTItem{}).Where("kot_id = ?", kot.ID).Count(&lineCount).Error)
		assert.Zero(t, lineCount)

		_, err := repo.FindByIDForTenant(ctx, tenantID, kot.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormKOTRepository_SaveWithLock(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormKOTRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	kot := newTestKOT(t, tenantID, "KOT20240115001", "T2",
		kitchen.LineInput{ItemID: uuid.New(), ItemName: "Masala Dosa", Quantity: 1, Price: decimal.NewFromInt(90)},
		kitchen.LineInput{ItemID: uuid.New(), ItemName: "Filter Coffee", Quantity: 1, Price: decimal.NewFromInt(30)},
	)
	require.NoError(t, repo.Save(ctx, kot))

	first, err := repo.FindByIDForTenant(ctx, tenantID, kot.ID)
	require.NoError(t, err)
	second, err := repo.FindByIDForTenant(ctx, tenantID, kot.ID)
	require.NoError(t, err)
	version := first.Version

	require.NoError(t, first.UpdateItemStatus(first.Items[0].ID, kitchen.ItemStatusServed))
	require.NoError(t, repo.SaveWithLock(ctx, first, version))

	require.NoError(t, second.UpdateItemStatus(second.Items[1].ID, kitchen.ItemStatusServed))
	assert.ErrorIs(t, repo.SaveWithLock(ctx, second, version), shared.ErrConcurrencyConflict)

	t.Run("the losing writer retries on a fresh copy and the ticket completes", func(t *testing.T) {
		retry, err := repo.FindByIDForUpdate(ctx, tenantID, kot.ID)
		require.NoError(t, err)
		retryVersion := retry.Version
		require.NoError(t, retry.UpdateItemStatus(kot.Items[1].ID, kitchen.ItemStatusServed))
		require.NoError(t, repo.SaveWithLock(ctx, retry, retryVersion))

		found, err := repo.FindByIDForTenant(ctx, tenantID, kot.ID)
		require.NoError(t, err)
		for _, line := range found.Items {
			assert.Equal(t, kitchen.ItemStatusServed, line.Status, line.ItemName)
		}
		assert.Equal(t, kitchen.KOTStatusCompleted, found.Status)
	})
}

func TestGormKOTRepository_Queries(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormKOTRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	first := newTestKOT(t, tenantID, "KOT20240115001", "T1")
	second := newTestKOT(t, tenantID, "KOT20240115002", "T1")
	other := newTestKOT(t, tenantID, "KOT20240115003", "T12")
	cancelled := newTestKOT(t, tenantID, "KOT20240115004", "T1")
	require.NoError(t, cancelled.Cancel("guest left"))
	for _, k := range []*kitchen.KOT{first, second, other, cancelled} {
		require.NoError(t, repo.Save(ctx, k))
	}

	t.Run("FindActiveByTable matches the table exactly and skips closed tickets", func(t *testing.T) {
		kots, err := repo.FindActiveByTable(ctx, tenantID, " t1 ")
		require.NoError(t, err)
		require.Len(t, kots, 2)
		ids := []uuid.UUID{kots[0].ID, kots[1].ID}
		assert.ElementsMatch(t, []uuid.UUID{first.ID, second.ID}, ids)
	})

	t.Run("table filter is a substring match", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters = map[string]interface{}{"table_number": "t1"}
		count, err := repo.CountForTenant(ctx, tenantID, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(4), count)
	})

	t.Run("status filter", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters = map[string]interface{}{"status": kitchen.KOTStatusCancelled}
		kots, err := repo.FindAllForTenant(ctx, tenantID, filter)
		require.NoError(t, err)
		require.Len(t, kots, 1)
		assert.Equal(t, cancelled.ID, kots[0].ID)
	})

	t.Run("search by number", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Search = "003"
		kots, err := repo.FindAllForTenant(ctx, tenantID, filter)
		require.NoError(t, err)
		require.Len(t, kots, 1)
		assert.Equal(t, other.ID, kots[0].ID)
	})

	t.Run("FindByIDs", func(t *testing.T) {
		kots, err := repo.FindByIDs(ctx, tenantID, []uuid.UUID{first.ID, other.ID})
		require.NoError(t, err)
		assert.Len(t, kots, 2)

		kots, err = repo.FindByIDs(ctx, tenantID, nil)
		require.NoError(t, err)
		assert.Empty(t, kots)
	})
}
