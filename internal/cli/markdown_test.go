package cli

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ndewijer/Trade-Journal-Backend/internal/apperrors"
	"github.com/ndewijer/Trade-Journal-Backend/internal/model"
	"github.com/ndewijer/Trade-Journal-Backend/internal/repository"
	"github.com/ndewijer/Trade-Journal-Backend/internal/testutil"
)

func TestTagsMarkdown(t *testing.T) {
	t.Run("renders one row per tag", func(t *testing.T) {
		md := TagsMarkdown(model.TagAnalysis{
			Tags: []model.TagStats{
				{Tag: "突破", Count: 3, TotalTrades: 2, WinTrades: 1, WinRate: 0.5, TotalProfit: 120, AvgHoldingDays: 2.25},
				{Tag: "a|b", Count: 1},
			},
			TotalProfit:    120,
			AverageWinRate: 0.25,
		})

		for _, want := range []string{"| 突破 | 3 | 2 | 1 | 50.00% |", `a\|b`, "25.00%", "| 2.2 |"} {
			if !strings.Contains(md, want) {
				t.Errorf("Expected markdown to contain %q, got:\n%s", want, md)
			}
		}
	})

	t.Run("no tags", func(t *testing.T) {
		md := TagsMarkdown(model.TagAnalysis{})
		if !strings.Contains(md, "No tagged transactions.") {
			t.Errorf("Expected empty notice, got:\n%s", md)
		}
		if strings.Contains(md, "| Tag |") {
			t.Errorf("Expected no table, got:\n%s", md)
		}
	})
}

func TestPeriodMarkdown(t *testing.T) {
	loc := testutil.Shanghai
	remaining := int64(0)
	parent := "buy-1"
	report := model.PeriodReport{
		Period: model.PeriodWeek,
		Start:  time.Date(2024, 3, 11, 0, 0, 0, 0, loc),
		End:    time.Date(2024, 3, 17, 23, 59, 59, 0, loc),
		Summary: model.PeriodSummary{
			TotalTransactions: 2, BuyCount: 1, SellCount: 1,
			TotalTrades: 1, WinTrades: 1, WinRate: 1, ProfitRate: 0.1,
		},
		Tags: []model.PeriodTagStats{{Tag: "止盈", Count: 1, Trades: 1, Wins: 1, WinRate: 1}},
		Stocks: []model.PeriodStockActivity{{
			StockID:   "s1",
			StockCode: "600519",
			StockName: "贵州茅台",
			Transactions: []model.Transaction{
				{ID: "buy-1", Type: model.TransactionBuy, Quantity: 100, Price: 10, Fee: 5, Remaining: &remaining,
					Timestamp: time.Date(2024, 3, 12, 1, 30, 0, 0, time.UTC)},
				{ID: "sell-1", Type: model.TransactionSell, Quantity: 100, Price: 11, Fee: 5, ParentBuyID: &parent,
					Timestamp: time.Date(2024, 3, 13, 2, 0, 0, 0, time.UTC)},
			},
		}},
	}

	md := PeriodMarkdown(report, loc)

	for _, want := range []string{
		"# Weekly review 2024-03-11 to 2024-03-17",
		"| Transactions | 2 (1 buys, 1 sells) |",
		"| Profit rate | 10.00% |",
		"## Tags",
		"| 止盈 | 1 | 1 | 1 | 100.00% |",
		"## 600519 贵州茅台",
		"| 2024-03-12 09:30 | buy | 100 | 10.000 | 5.000 |",
		"| 2024-03-13 10:00 | sell | 100 | 11.000 | 5.000 |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Expected markdown to contain %q, got:\n%s", want, md)
		}
	}
}

func TestRefreshMarkdown(t *testing.T) {
	md := RefreshMarkdown(model.PriceRefreshResponse{
		Success:       true,
		UpdatedStocks: []model.UpdatedStock{{Code: "600519", Symbol: "600519.SS", Price: 1688.5}},
		Errors:        []model.UpdatedStockError{{Code: "000001", Symbol: "000001.SZ", Error: "no data"}},
		TotalUpdated:  1,
		TotalErrors:   1,
	})

	for _, want := range []string{"1 updated, 1 failed.", "| 600519 | 600519.SS | 1688.500 |", "| 000001 | 000001.SZ | no data |"} {
		if !strings.Contains(md, want) {
			t.Errorf("Expected markdown to contain %q, got:\n%s", want, md)
		}
	}
}

func TestResolveUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	users := repository.NewUserRepository(db)
	u := testutil.NewUser().WithAuthID("github|42").Build(t, db)
	ctx := context.Background()

	t.Run("by auth subject", func(t *testing.T) {
		got, err := resolveUser(ctx, users, "github|42")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if got.ID != u.ID {
			t.Errorf("Expected user %s, got %s", u.ID, got.ID)
		}
	})

	t.Run("by ID", func(t *testing.T) {
		got, err := resolveUser(ctx, users, u.ID)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if got.AuthID != "github|42" {
			t.Errorf("Expected auth ID github|42, got %s", got.AuthID)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := resolveUser(ctx, users, "nobody")
		if !errors.Is(err, apperrors.ErrUserNotFound) {
			t.Errorf("Expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if _, err := resolveUser(ctx, users, ""); err == nil {
			t.Error("Expected an error for an empty reference")
		}
	})
}
