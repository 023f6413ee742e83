package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/pressly/goose/v3"

	"github.com/ndewijer/Trade-Journal-Backend/internal/database"
)

func init() {
	goose.SetLogger(goose.NopLogger())
}

// SetupTestDB creates a migrated SQLite database in the test's temp directory.
// The database is automatically cleaned up when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "journal_test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := database.Migrate(context.Background(), db); err != nil {
		db.Close()
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// CountRows returns the number of rows in a table.
//
// Example usage:
//
//	count := testutil.CountRows(t, db, "stocks")
func CountRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()

	var count int
	query := "SELECT COUNT(*) FROM " + table
	if err := db.QueryRow(query).Scan(&count); err != nil {
		t.Fatalf("Failed to count rows in %s: %v", table, err)
	}
	return count
}

// AssertRowCount asserts that a table has the expected number of rows.
//
// Example usage:
//
//	testutil.AssertRowCount(t, db, "transactions", 2)
func AssertRowCount(t *testing.T, db *sql.DB, table string, expected int) {
	t.Helper()

	actual := CountRows(t, db, table)
	if actual != expected {
		t.Errorf("Expected %d rows in %s, got %d", expected, table, actual)
	}
}

// Remaining reads the stored remaining count of a lot.
func Remaining(t *testing.T, db *sql.DB, buyID string) int64 {
	t.Helper()

	var remaining sql.NullInt64
	if err := db.QueryRow("SELECT remaining FROM transactions WHERE id = ?", buyID).Scan(&remaining); err != nil {
		t.Fatalf("Failed to read remaining of %s: %v", buyID, err)
	}
	if !remaining.Valid {
		t.Fatalf("Transaction %s has no remaining count", buyID)
	}
	return remaining.Int64
}
