package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ndewijer/Trade-Journal-Backend/internal/apperrors"
	"github.com/ndewijer/Trade-Journal-Backend/internal/repository"
	"github.com/ndewijer/Trade-Journal-Backend/internal/testutil"
)

func TestTransactionRepository_DecrementRemaining(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewTransactionRepository(db)
	ctx := context.Background()
	user := testutil.NewUser().Build(t, db)
	buy := testutil.NewBuy(testutil.NewStock(user.ID).Build(t, db)).Build(t, db)

	if err := repo.DecrementRemaining(ctx, buy.ID, 70); err != nil {
		t.Fatalf("DecrementRemaining() returned unexpected error: %v", err)
	}
	if got := testutil.Remaining(t, db, buy.ID); got != 30 {
		t.Errorf("Expected 30 remaining, got %d", got)
	}

	err := repo.DecrementRemaining(ctx, buy.ID, 31)
	if !errors.Is(err, apperrors.ErrInsufficientShares) {
		t.Errorf("Expected ErrInsufficientShares, got %v", err)
	}
	if got := testutil.Remaining(t, db, buy.ID); got != 30 {
		t.Errorf("Expected the failed decrement to leave 30, got %d", got)
	}

	if err := repo.DecrementRemaining(ctx, buy.ID, 30); err != nil {
		t.Fatalf("DecrementRemaining() returned unexpected error: %v", err)
	}
	if got := testutil.Remaining(t, db, buy.ID); got != 0 {
		t.Errorf("Expected a closed lot, got %d remaining", got)
	}
}

func TestTransactionRepository_IncrementRemaining(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewTransactionRepository(db)
	ctx := context.Background()
	user := testutil.NewUser().Build(t, db)
	buy := testutil.NewBuy(testutil.NewStock(user.ID).Build(t, db)).Build(t, db)
	testutil.NewSell(buy).WithQuantity(40).Build(t, db)

	if err := repo.IncrementRemaining(ctx, buy.ID, 40); err != nil {
		t.Fatalf("IncrementRemaining() returned unexpected error: %v", err)
	}
	if got := testutil.Remaining(t, db, buy.ID); got != 100 {
		t.Errorf("Expected 100 remaining, got %d", got)
	}

	err := repo.IncrementRemaining(ctx, buy.ID, 1)
	if !errors.Is(err, apperrors.ErrDataInconsistency) {
		t.Errorf("Expected ErrDataInconsistency beyond the lot quantity, got %v", err)
	}
}

func TestTransactionRepository_GetTransactionsInRange(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewTransactionRepository(db)
	ctx := context.Background()
	user := testutil.NewUser().Build(t, db)
	stock := testutil.NewStock(user.ID).Build(t, db)

	start := time.Date(2024, 3, 4, 0, 0, 0, 0, testutil.Shanghai)
	end := time.Date(2024, 3, 10, 23, 59, 59, int(999*time.Millisecond), testutil.Shanghai)

	before := testutil.NewBuy(stock).At(start.Add(-time.Second)).Build(t, db)
	first := testutil.NewBuy(stock).At(start).Build(t, db)
	last := testutil.NewSell(before).WithQuantity(10).At(end).Build(t, db)
	testutil.NewBuy(stock).At(end.Add(time.Millisecond)).Build(t, db)

	other := testutil.NewUser().Build(t, db)
	testutil.NewBuy(testutil.NewStock(other.ID).Build(t, db)).At(start.Add(time.Hour)).Build(t, db)

	got, err := repo.GetTransactionsInRange(ctx, user.ID, start, end)
	if err != nil {
		t.Fatalf("GetTransactionsInRange() returned unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 transactions on the bounds, got %d", len(got))
	}
	if got[0].ID != first.ID || got[1].ID != last.ID {
		t.Errorf("Expected bounds included oldest first, got %s then %s", got[0].ID, got[1].ID)
	}
}

func TestTransactionRepository_GetTransactionsByIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewTransactionRepository(db)
	ctx := context.Background()
	user := testutil.NewUser().Build(t, db)
	stock := testutil.NewStock(user.ID).Build(t, db)
	a := testutil.NewBuy(stock).Build(t, db)
	b := testutil.NewBuy(stock).Build(t, db)

	other := testutil.NewUser().Build(t, db)
	foreign := testutil.NewBuy(testutil.NewStock(other.ID).Build(t, db)).Build(t, db)

	t.Run("skips unknown and foreign ids", func(t *testing.T) {
		got, err := repo.GetTransactionsByIDs(ctx, user.ID, []string{a.ID, b.ID, foreign.ID, testutil.MakeID()})
		if err != nil {
			t.Fatalf("GetTransactionsByIDs() returned unexpected error: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("Expected 2 transactions, got %d", len(got))
		}
	})

	t.Run("empty ids", func(t *testing.T) {
		got, err := repo.GetTransactionsByIDs(ctx, user.ID, nil)
		if err != nil {
			t.Fatalf("GetTransactionsByIDs() returned unexpected error: %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("Expected empty slice, got %v", got)
		}
	})
}

func TestTransactionRepository_WithTxRollback(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewTransactionRepository(db)
	ctx := context.Background()
	user := testutil.NewUser().Build(t, db)
	buy := testutil.NewBuy(testutil.NewStock(user.ID).Build(t, db)).Build(t, db)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("BeginTx() returned unexpected error: %v", err)
	}
	if err := repo.WithTx(tx).DecrementRemaining(ctx, buy.ID, 50); err != nil {
		t.Fatalf("DecrementRemaining() returned unexpected error: %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("Rollback() returned unexpected error: %v", err)
	}

	if got := testutil.Remaining(t, db, buy.ID); got != 100 {
		t.Errorf("Expected rollback to keep 100 remaining, got %d", got)
	}
}
