package service

import (
	"cmp"
	"context"
	"database/sql"
	"fmt"
	"slices"

	"github.com/ndewijer/Trade-Journal-Backend/internal/model"
)

// SortOrder is the direction of a list sort.
type SortOrder string

// Sort directions.
const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// ParseSortOrder maps "asc" and "desc"; anything else yields fallback.
func ParseSortOrder(s string, fallback SortOrder) SortOrder {
	switch SortOrder(s) {
	case Ascending, Descending:
		return SortOrder(s)
	default:
		return fallback
	}
}

// sortByTimestamp orders transactions oldest first, keeping insertion order for ties.
func sortByTimestamp(transactions []model.Transaction) {
	slices.SortStableFunc(transactions, func(a, b model.Transaction) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
}

// compareOrdered compares a and b in the requested direction.
func compareOrdered[T cmp.Ordered](a, b T, order SortOrder) int {
	if order == Descending {
		return cmp.Compare(b, a)
	}
	return cmp.Compare(a, b)
}

// inTx runs fn inside a database transaction, committing when fn succeeds.
func inTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after Commit is a no-op

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
