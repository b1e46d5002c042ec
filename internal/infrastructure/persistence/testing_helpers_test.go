package persistence

import (
	"testing"

	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/foodcourt/pos/internal/infrastructure/config"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newSQLiteDB opens a migrated in-memory sqlite database that lives as long as the test
func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	database, err := NewDatabase(&config.DatabaseConfig{
		Driver: DriverSQLite,
		DBName: ":memory:",
	})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(database.DB))

	t.Cleanup(func() {
		_ = database.Close()
	})
	return database.DB
}

// byName is the default filter ordered by name ascending
func byName() shared.Filter {
	filter := shared.DefaultFilter()
	filter.OrderBy, filter.OrderDir = "name", "asc"
	return filter
}
