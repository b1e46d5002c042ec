// Package testutil holds shared test doubles: sqlmock-backed gorm handles,
// event and notification recorders, and testify mocks of the repositories.
package testutil

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Dialect picks the SQL flavour gorm generates against the mock
type Dialect string

const (
	Postgres Dialect = "postgres"
	MySQL    Dialect = "mysql"
)

// MockDB is a gorm handle whose statements are matched by sqlmock
type MockDB struct {
	DB   *gorm.DB
	Mock sqlmock.Sqlmock
}

// NewMockDB opens gorm on sqlmock with the given dialect. Unmet expectations
// fail the test when it ends.
func NewMockDB(t *testing.T, dialect Dialect) *MockDB {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)

	var dialector gorm.Dialector
	switch dialect {
	case MySQL:
		dialector = mysql.New(mysql.Config{Conn: conn, SkipInitializeWithVersion: true})
	default:
		dialector = postgres.New(postgres.Config{Conn: conn, DriverName: "postgres"})
	}
	db, err := gorm.Open(dialector, &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet(), "unmet database expectations")
		_ = conn.Close()
	})
	return &MockDB{DB: db, Mock: mock}
}
