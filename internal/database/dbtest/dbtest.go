// Package dbtest opens migrated SQLite databases for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/01moynul/taptosell-catalog/internal/database"
)

// New returns a fresh, fully migrated database in the test's temp directory.
// It is closed when the test ends.
func New(tb testing.TB) *sqlx.DB {
	tb.Helper()
	ctx := context.Background()

	dsn := "file:" + filepath.Join(tb.TempDir(), "catalog.db")
	db, err := database.Open(ctx, database.DriverSQLite, dsn, database.Options{})
	if err != nil {
		tb.Fatalf("open test database: %v", err)
	}
	tb.Cleanup(func() { _ = db.Close() })

	if _, err := database.Migrate(ctx, db); err != nil {
		tb.Fatalf("migrate test database: %v", err)
	}
	return db
}
