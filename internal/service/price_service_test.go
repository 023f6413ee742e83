package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ndewijer/Trade-Journal-Backend/internal/apperrors"
	"github.com/ndewijer/Trade-Journal-Backend/internal/testutil"
)

func TestPriceService_RefreshStock(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the latest close", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		client := testutil.NewMockYahooClient().WithPrice("600519", 1688.8)
		svc := testutil.NewTestPriceService(t, db, client)
		user := testutil.NewUser().Build(t, db)
		stock := testutil.NewStock(user.ID).WithCode("600519").Build(t, db)

		updated, err := svc.RefreshStock(ctx, user.ID, stock.ID)
		if err != nil {
			t.Fatalf("RefreshStock() returned unexpected error: %v", err)
		}
		if updated.CurrentPrice != 1688.8 {
			t.Errorf("Expected price 1688.8, got %v", updated.CurrentPrice)
		}
		stored, err := testutil.NewTestStockService(t, db).GetStock(ctx, user.ID, stock.ID)
		if err != nil {
			t.Fatalf("GetStock() returned unexpected error: %v", err)
		}
		if stored.CurrentPrice != 1688.8 {
			t.Errorf("Expected stored price 1688.8, got %v", stored.CurrentPrice)
		}
	})

	t.Run("quote failure keeps the old price", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		client := testutil.NewMockYahooClient()
		svc := testutil.NewTestPriceService(t, db, client)
		user := testutil.NewUser().Build(t, db)
		stock := testutil.NewStock(user.ID).WithCode("600519").WithPrice(10).Build(t, db)

		_, err := svc.RefreshStock(ctx, user.ID, stock.ID)
		if !errors.Is(err, apperrors.ErrFailedToRefreshPrice) {
			t.Fatalf("Expected ErrFailedToRefreshPrice, got %v", err)
		}
		stored, err := testutil.NewTestStockService(t, db).GetStock(ctx, user.ID, stock.ID)
		if err != nil {
			t.Fatalf("GetStock() returned unexpected error: %v", err)
		}
		if stored.CurrentPrice != 10 {
			t.Errorf("Expected price to stay 10, got %v", stored.CurrentPrice)
		}
	})

	t.Run("unknown stock", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPriceService(t, db, testutil.NewMockYahooClient())
		user := testutil.NewUser().Build(t, db)

		if _, err := svc.RefreshStock(ctx, user.ID, testutil.MakeID()); !errors.Is(err, apperrors.ErrStockNotFound) {
			t.Errorf("Expected ErrStockNotFound, got %v", err)
		}
	})
}

func TestPriceService_RefreshAll(t *testing.T) {
	ctx := context.Background()

	t.Run("reports failures alongside updates", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		client := testutil.NewMockYahooClient().
			WithPrice("600519", 1700).
			WithPrice("000001", 11.2).
			WithSymbolError("300750", errors.New("rate limited"))
		svc := testutil.NewTestPriceService(t, db, client)
		user := testutil.NewUser().Build(t, db)
		testutil.NewStock(user.ID).WithCode("600519").Build(t, db)
		testutil.NewStock(user.ID).WithCode("000001").Build(t, db)
		testutil.NewStock(user.ID).WithCode("300750").Build(t, db)

		resp, err := svc.RefreshAll(ctx, user.ID)
		if err != nil {
			t.Fatalf("RefreshAll() returned unexpected error: %v", err)
		}
		if !resp.Success || resp.TotalUpdated != 2 || resp.TotalErrors != 1 {
			t.Fatalf("Expected 2 updated and 1 error, got %+v", resp)
		}
		if resp.UpdatedStocks[0].Code != "000001" || resp.UpdatedStocks[0].Symbol != "000001.SZ" {
			t.Errorf("Expected updates sorted by code, got %+v", resp.UpdatedStocks)
		}
		if resp.Errors[0].Code != "300750" || resp.Errors[0].Symbol != "300750.SZ" {
			t.Errorf("Unexpected error entry: %+v", resp.Errors[0])
		}
	})

	t.Run("every quote failing is not a success", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		client := testutil.NewMockYahooClient().WithError(errors.New("offline"))
		svc := testutil.NewTestPriceService(t, db, client)
		user := testutil.NewUser().Build(t, db)
		testutil.NewStock(user.ID).WithCode("600519").Build(t, db)

		resp, err := svc.RefreshAll(ctx, user.ID)
		if err != nil {
			t.Fatalf("RefreshAll() returned unexpected error: %v", err)
		}
		if resp.Success || resp.TotalErrors != 1 {
			t.Errorf("Expected failure with one error, got %+v", resp)
		}
	})

	t.Run("empty watchlist", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPriceService(t, db, testutil.NewMockYahooClient())
		user := testutil.NewUser().Build(t, db)

		resp, err := svc.RefreshAll(ctx, user.ID)
		if err != nil {
			t.Fatalf("RefreshAll() returned unexpected error: %v", err)
		}
		if !resp.Success || resp.TotalUpdated != 0 {
			t.Errorf("Expected empty success, got %+v", resp)
		}
	})
}

func TestPriceService_RefreshEverything(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	client := testutil.NewMockYahooClient().WithPrice("600519", 1700)
	svc := testutil.NewTestPriceService(t, db, client)
	first := testutil.NewUser().Build(t, db)
	second := testutil.NewUser().Build(t, db)
	testutil.NewStock(first.ID).WithCode("600519").Build(t, db)
	testutil.NewStock(second.ID).WithCode("600519").Build(t, db)

	resp, err := svc.RefreshEverything(ctx)
	if err != nil {
		t.Fatalf("RefreshEverything() returned unexpected error: %v", err)
	}
	if resp.TotalUpdated != 2 {
		t.Errorf("Expected both users' stocks updated, got %+v", resp)
	}
	// The second lookup of the same symbol may race the first, so allow either.
	if q := client.Queries(); q < 1 || q > 2 {
		t.Errorf("Expected at most one query per concurrent lookup, got %d", q)
	}

	if _, err := svc.RefreshEverything(ctx); err != nil {
		t.Fatalf("RefreshEverything() returned unexpected error: %v", err)
	}
	before := client.Queries()
	if _, err := svc.RefreshEverything(ctx); err != nil {
		t.Fatalf("RefreshEverything() returned unexpected error: %v", err)
	}
	if client.Queries() != before {
		t.Errorf("Expected cached quotes to be reused, got %d queries after %d", client.Queries(), before)
	}
}

func TestPriceService_StartScheduler(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestPriceService(t, db, testutil.NewMockYahooClient())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t.Run("empty schedule disables", func(t *testing.T) {
		c, err := svc.StartScheduler(ctx, "", time.UTC)
		if err != nil || c != nil {
			t.Errorf("Expected no scheduler and no error, got %v, %v", c, err)
		}
	})

	t.Run("invalid schedule", func(t *testing.T) {
		if _, err := svc.StartScheduler(ctx, "every tuesday", time.UTC); err == nil {
			t.Error("Expected an error for an invalid schedule")
		}
	})

	t.Run("valid schedule", func(t *testing.T) {
		c, err := svc.StartScheduler(ctx, "30 15 * * 1-5", testutil.Shanghai)
		if err != nil {
			t.Fatalf("StartScheduler() returned unexpected error: %v", err)
		}
		if len(c.Entries()) != 1 {
			t.Errorf("Expected one scheduled job, got %d", len(c.Entries()))
		}
	})
}
