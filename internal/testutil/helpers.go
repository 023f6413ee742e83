package testutil

import (
	"database/sql"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Trade-Journal-Backend/internal/repository"
	"github.com/ndewijer/Trade-Journal-Backend/internal/service"
	"github.com/ndewijer/Trade-Journal-Backend/internal/yahoo"
)

// Shanghai is the report zone used across tests.
var Shanghai = time.FixedZone("CST", 8*60*60)

func NewTestUserService(t *testing.T, db *sql.DB) *service.UserService {
	t.Helper()

	return service.NewUserService(
		repository.NewUserRepository(db),
		repository.NewStockRepository(db),
	)
}

func NewTestStockService(t *testing.T, db *sql.DB) *service.StockService {
	t.Helper()

	return service.NewStockService(
		db,
		repository.NewStockRepository(db),
		repository.NewTransactionRepository(db),
	)
}

func NewTestTransactionService(t *testing.T, db *sql.DB) *service.TransactionService {
	t.Helper()

	return service.NewTransactionService(
		db,
		repository.NewTransactionRepository(db),
		repository.NewStockRepository(db),
		Shanghai,
	)
}

func NewTestAnalysisService(t *testing.T, db *sql.DB) *service.AnalysisService {
	t.Helper()

	return service.NewAnalysisService(
		repository.NewTransactionRepository(db),
		repository.NewStockRepository(db),
		Shanghai,
	)
}

func NewTestExportService(t *testing.T, db *sql.DB) *service.ExportService {
	t.Helper()

	return service.NewExportService(repository.NewTransactionRepository(db), Shanghai)
}

// NewTestPriceService creates a PriceService backed by the given Yahoo client,
// typically a MockYahooClient.
func NewTestPriceService(t *testing.T, db *sql.DB, yahooClient yahoo.Client) *service.PriceService {
	t.Helper()

	return service.NewPriceService(repository.NewStockRepository(db), yahooClient, 2)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeCode generates a six-digit Shenzhen stock code.
//
// Example usage:
//
//	code := testutil.MakeCode()
//	// Returns: "003817"
func MakeCode() string {
	//nolint:gosec // G404: Using math/rand for test data generation is acceptable
	return fmt.Sprintf("00%04d", rand.Intn(10000))
}

// MakeName generates a unique display name for testing.
//
// Example usage:
//
//	name := testutil.MakeName("Stock")
//	// Returns: "Stock XYZ789"
func MakeName(base string) string {
	if base == "" {
		base = "Test"
	}
	return base + " " + randomAlphanumeric(6)
}

// Date returns midnight of the given day in the test report zone.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, Shanghai)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
