package persistence

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"testing"
	"time"

	inventoryapp "github.com/foodcourt/pos/internal/application/inventory"
	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/foodcourt/pos/internal/infrastructure/config"
	"github.com/foodcourt/pos/internal/infrastructure/migration"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// newPostgresDB starts a postgres container and applies the SQL migrations
func newPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres integration test skipped in short mode")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("pos_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	database, err := NewDatabase(&config.DatabaseConfig{
		Driver:       DriverPostgres,
		Host:         host,
		Port:         port.Int(),
		User:         "postgres",
		Password:     "postgres",
		DBName:       "pos_test",
		SSLMode:      "disable",
		MaxOpenConns: 20,
		MaxIdleConns: 5,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	sqlDB, err := database.DB.DB()
	require.NoError(t, err)
	migrator, err := migration.New(sqlDB, migrationsPath(t), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, migrator.Up())

	return database.DB
}

func migrationsPath(t *testing.T) string {
	t.Helper()
	_, filename, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(filename), "..", "..", "..", "migrations")
}

func TestPostgres_SequenceCounterIsAtomic(t *testing.T) {
	db := newPostgresDB(t)
	counter := NewGormSequenceCounter(db)
	tenantID := uuid.New()

	const callers = 40
	values := make([]int64, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := counter.Next(context.Background(), tenantID, "KOT", "20260314")
			assert.NoError(t, err)
			values[i] = v
		}(i)
	}
	wg.Wait()

	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })
	for i, v := range values {
		assert.Equal(t, int64(i+1), v, "every caller gets a distinct number")
	}

	next, err := counter.Next(context.Background(), tenantID, "KOT", "20260315")
	require.NoError(t, err)
	assert.Equal(t, int64(1), next, "a new day starts from one")
}

func TestPostgres_ConcurrentTransfersConserveStock(t *testing.T) {
	db := newPostgresDB(t)
	ctx := context.Background()
	tenantID, actorID := uuid.New(), uuid.New()

	itemRepo := NewGormItemRepository(db)
	a := newTestItem(t, tenantID, "Paneer", 120, 200)
	b := newTestItem(t, tenantID, "Paneer Cubes", 120, 200)
	_, _, err := a.IncreaseStock(decimal.NewFromInt(10))
	require.NoError(t, err)
	require.NoError(t, itemRepo.Save(ctx, a))
	require.NoError(t, itemRepo.Save(ctx, b))

	svc := inventoryapp.NewStockService(NewGormTransactionScope(db), itemRepo, NewGormStockAdjustmentRepository(db))

	// twelve transfers of one unit race for ten units; opposite directions
	// exercise the id-ordered locking
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded, insufficient := 0, 0
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Transfer(ctx, tenantID, actorID, inventoryapp.TransferStockRequest{
				FromItemID: a.ID,
				ToItemID:   b.ID,
				Quantity:   decimal.NewFromInt(1),
				Reason:     "prep",
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, shared.ErrInsufficientStock):
				insufficient++
			default:
				t.Errorf("unexpected transfer error: %v", err)
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := svc.Transfer(ctx, tenantID, actorID, inventoryapp.TransferStockRequest{
			FromItemID: b.ID,
			ToItemID:   a.ID,
			Quantity:   decimal.NewFromInt(1),
		})
		if err != nil && !errors.Is(err, shared.ErrInsufficientStock) {
			t.Errorf("unexpected reverse transfer error: %v", err)
		}
	}()
	wg.Wait()

	gotA, err := itemRepo.FindByIDForTenant(ctx, tenantID, a.ID)
	require.NoError(t, err)
	gotB, err := itemRepo.FindByIDForTenant(ctx, tenantID, b.ID)
	require.NoError(t, err)

	total := gotA.Stock.CurrentQuantity.Add(gotB.Stock.CurrentQuantity)
	assert.True(t, total.Equal(decimal.NewFromInt(10)), "stock is conserved, got %s", total)
	assert.False(t, gotA.Stock.CurrentQuantity.IsNegative())
	assert.Equal(t, 12, succeeded+insufficient)
}
