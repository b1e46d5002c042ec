package persistence

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/foodcourt/pos/internal/infrastructure/config"
	"github.com/foodcourt/pos/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// TestConnectionStats_Struct tests that ConnectionStats struct can be properly initialized
func TestConnectionStats_Struct(t *testing.T) {
	t.Run("creates ConnectionStats with custom values", func(t *testing.T) {
		stats := ConnectionStats{
			MaxOpenConnections: 25,
			OpenConnections:    10,
			InUse:              5,
			Idle:               5,
			WaitCount:          100,
			WaitDuration:       5 * time.Second,
		}

		assert.Equal(t, 25, stats.MaxOpenConnections)
		assert.Equal(t, stats.OpenConnections, stats.InUse+stats.Idle)
		assert.Equal(t, 5*time.Second, stats.WaitDuration)
	})
}

func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock) {
	m := testutil.NewMockDB(t, testutil.Postgres)
	return &Database{DB: m.DB, Driver: DriverPostgres}, m.Mock
}

type scopedModel struct {
	ID       uint
	TenantID uuid.UUID
	Name     string
}

func TestForTenant(t *testing.T) {
	t.Run("adds the tenant filter", func(t *testing.T) {
		db, mock := newMockDatabase(t)

		tenantID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "scoped_models" WHERE tenant_id = \$1`).
			WithArgs(tenantID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "name"}).
				AddRow(1, tenantID, "Masala Dosa"))

		var results []scopedModel
		err := db.DB.Scopes(ForTenant(tenantID)).Find(&results).Error

		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Masala Dosa", results[0].Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("chains with other clauses", func(t *testing.T) {
		db, mock := newMockDatabase(t)

		tenantID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "scoped_models" WHERE tenant_id = \$1 AND name = \$2 ORDER BY name LIMIT \$3`).
			WithArgs(tenantID, "Tea", 10).
			WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "name"}))

		var results []scopedModel
		err := db.DB.Scopes(ForTenant(tenantID)).
			Where("name = ?", "Tea").
			Order("name").
			Limit(10).
			Find(&results).Error

		require.NoError(t, err)
		assert.Empty(t, results)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("does not modify the original DB", func(t *testing.T) {
		db, mock := newMockDatabase(t)

		_ = db.DB.Scopes(ForTenant(uuid.New()))

		mock.ExpectQuery(`SELECT \* FROM "scoped_models"$`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "name"}))

		var results []scopedModel
		require.NoError(t, db.DB.Find(&results).Error)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("panics on the nil tenant", func(t *testing.T) {
		assert.Panics(t, func() {
			ForTenant(uuid.Nil)
		})
	})
}

func TestDialector(t *testing.T) {
	tests := []struct {
		driver string
		name   string
	}{
		{driver: "", name: "postgres"},
		{driver: DriverPostgres, name: "postgres"},
		{driver: DriverSQLite, name: "sqlite"},
		{driver: DriverMySQL, name: "mysql"},
	}
	for _, tt := range tests {
		t.Run("driver "+tt.name, func(t *testing.T) {
			d, err := Dialector(&config.DatabaseConfig{Driver: tt.driver, DBName: "pos"})
			require.NoError(t, err)
			assert.Equal(t, tt.name, d.Name())
		})
	}

	t.Run("unknown driver", func(t *testing.T) {
		_, err := Dialector(&config.DatabaseConfig{Driver: "oracle"})
		assert.Error(t, err)
	})
}

func TestNewDatabase_SQLite(t *testing.T) {
	database, err := NewDatabase(&config.DatabaseConfig{Driver: DriverSQLite, DBName: ":memory:"})
	require.NoError(t, err)
	defer database.Close()

	assert.Equal(t, DriverSQLite, database.Driver)
	assert.NoError(t, database.Ping())

	stats, err := database.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.MaxOpenConnections)
}

// TestDatabase_Ping tests the Ping method
func TestDatabase_Ping(t *testing.T) {
	t.Run("successful ping", func(t *testing.T) {
		db, mock := newMockDatabase(t)

		mock.ExpectPing()

		assert.NoError(t, db.Ping())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

// TestDatabase_Close tests the Close method
func TestDatabase_Close(t *testing.T) {
	t.Run("successful close", func(t *testing.T) {
		db, mock := newMockDatabase(t)

		mock.ExpectClose()

		assert.NoError(t, db.Close())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

// TestDatabase_Transaction tests the Transaction method
func TestDatabase_Transaction(t *testing.T) {
	t.Run("successful transaction", func(t *testing.T) {
		db, mock := newMockDatabase(t)

		type TestModel struct {
			ID   uint
			Name string
		}

		mock.ExpectBegin()
		// PostgreSQL GORM uses Query with RETURNING clause instead of Exec
		mock.ExpectQuery(`INSERT INTO "test_models"`).
			WithArgs("test").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectCommit()

		err := db.Transaction(func(tx *gorm.DB) error {
			return tx.Create(&TestModel{Name: "test"}).Error
		})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("transaction rollback on error", func(t *testing.T) {
		db, mock := newMockDatabase(t)

		mock.ExpectBegin()
		mock.ExpectRollback()

		err := db.Transaction(func(tx *gorm.DB) error {
			return assert.AnError
		})

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
