package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Trade-Journal-Backend/internal/model"
	"github.com/ndewijer/Trade-Journal-Backend/internal/testutil"
)

func setupStockHandler(t *testing.T, yahooClient *testutil.MockYahooClient) (*StockHandler, *sql.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return NewStockHandler(
		testutil.NewTestStockService(t, db),
		testutil.NewTestTransactionService(t, db),
		testutil.NewTestPriceService(t, db, yahooClient),
	), db
}

func TestStockHandler_Stocks(t *testing.T) {
	t.Run("returns empty array when the watchlist is empty", func(t *testing.T) {
		handler, db := setupStockHandler(t, testutil.NewMockYahooClient())
		user := testutil.NewUser().Build(t, db)

		req := testutil.AsUser(httptest.NewRequest(http.MethodGet, "/api/stock", nil), user)
		w := httptest.NewRecorder()

		handler.Stocks(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response []model.StockSummary
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response == nil || len(response) != 0 {
			t.Errorf("Expected empty array, got %v", response)
		}
	})

	t.Run("sorts by name", func(t *testing.T) {
		handler, db := setupStockHandler(t, testutil.NewMockYahooClient())
		user := testutil.NewUser().Build(t, db)
		testutil.NewStock(user.ID).WithCode("600002").WithName("Beta").Build(t, db)
		testutil.NewStock(user.ID).WithCode("600001").WithName("Alpha").Build(t, db)

		req := testutil.AsUser(testutil.NewRequestWithQueryParams(http.MethodGet, "/api/stock",
			map[string]string{"sort": "name", "order": "asc"}), user)
		w := httptest.NewRecorder()

		handler.Stocks(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response []model.StockSummary
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if len(response) != 2 || response[0].Name != "Alpha" || response[1].Name != "Beta" {
			t.Errorf("Expected Alpha then Beta, got %+v", response)
		}
	})

	t.Run("returns 400 for an unknown sort column", func(t *testing.T) {
		handler, db := setupStockHandler(t, testutil.NewMockYahooClient())
		user := testutil.NewUser().Build(t, db)

		req := testutil.AsUser(testutil.NewRequestWithQueryParams(http.MethodGet, "/api/stock",
			map[string]string{"sort": "volume"}), user)
		w := httptest.NewRecorder()

		handler.Stocks(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestStockHandler_CreateStock(t *testing.T) {
	t.Run("creates a stock", func(t *testing.T) {
		handler, db := setupStockHandler(t, testutil.NewMockYahooClient())
		user := testutil.NewUser().Build(t, db)

		body := map[string]any{"stockCode": "600519", "stockName": "贵州茅台", "currentPrice": 1700.5}
		req := testutil.AsUser(testutil.NewJSONRequest(t, http.MethodPost, "/api/stock", body, nil), user)
		w := httptest.NewRecorder()

		handler.CreateStock(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var response model.Stock
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.Code != "600519" || response.UserID != user.ID || response.CurrentPrice != 1700.5 {
			t.Errorf("Unexpected stock: %+v", response)
		}
	})

	t.Run("returns 409 when the limit is reached", func(t *testing.T) {
		handler, db := setupStockHandler(t, testutil.NewMockYahooClient())
		user := testutil.NewUser().Build(t, db)
		for i := range model.DefaultStockLimit {
			testutil.NewStock(user.ID).WithCode(fmt.Sprintf("60%04d", i)).Build(t, db)
		}

		body := map[string]any{"stockCode": "000001", "stockName": "平安银行", "currentPrice": 11}
		req := testutil.AsUser(testutil.NewJSONRequest(t, http.MethodPost, "/api/stock", body, nil), user)
		w := httptest.NewRecorder()

		handler.CreateStock(w, req)

		if w.Code != http.StatusConflict {
			t.Errorf("Expected 409, got %d: %s", w.Code, w.Body.String())
		}
		testutil.AssertRowCount(t, db, "stocks", model.DefaultStockLimit)
	})

	t.Run("returns 409 for a duplicate code", func(t *testing.T) {
		handler, db := setupStockHandler(t, testutil.NewMockYahooClient())
		user := testutil.NewUser().Build(t, db)
		testutil.NewStock(user.ID).WithCode("600519").Build(t, db)

		body := map[string]any{"stockCode": "600519", "stockName": "again", "currentPrice": 10}
		req := testutil.AsUser(testutil.NewJSONRequest(t, http.MethodPost, "/api/stock", body, nil), user)
		w := httptest.NewRecorder()

		handler.CreateStock(w, req)

		if w.Code != http.StatusConflict {
			t.Errorf("Expected 409, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 400 for a missing price", func(t *testing.T) {
		handler, db := setupStockHandler(t, testutil.NewMockYahooClient())
		user := testutil.NewUser().Build(t, db)

		body := map[string]any{"stockCode": "600519", "stockName": "贵州茅台"}
		req := testutil.AsUser(testutil.NewJSONRequest(t, http.MethodPost, "/api/stock", body, nil), user)
		w := httptest.NewRecorder()

		handler.CreateStock(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestStockHandler_GetStock(t *testing.T) {
	handler, db := setupStockHandler(t, testutil.NewMockYahooClient())
	user := testutil.NewUser().Build(t, db)
	other := testutil.NewUser().Build(t, db)
	stock := testutil.NewStock(user.ID).WithPrice(12).Build(t, db)
	testutil.NewBuy(stock).Build(t, db)
	foreign := testutil.NewStock(other.ID).Build(t, db)

	t.Run("returns the stock with its position", func(t *testing.T) {
		req := testutil.AsUser(testutil.NewRequestWithURLParams(http.MethodGet, "/api/stock/"+stock.ID,
			map[string]string{"uuid": stock.ID}), user)
		w := httptest.NewRecorder()

		handler.GetStock(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response model.StockSummary
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.Position.HoldingQuantity != 100 || response.Position.OpenLots != 1 {
			t.Errorf("Unexpected position: %+v", response.Position)
		}
	})

	t.Run("returns 404 for another user's stock", func(t *testing.T) {
		req := testutil.AsUser(testutil.NewRequestWithURLParams(http.MethodGet, "/api/stock/"+foreign.ID,
			map[string]string{"uuid": foreign.ID}), user)
		w := httptest.NewRecorder()

		handler.GetStock(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestStockHandler_UpdatePrice(t *testing.T) {
	handler, db := setupStockHandler(t, testutil.NewMockYahooClient())
	user := testutil.NewUser().Build(t, db)
	stock := testutil.NewStock(user.ID).Build(t, db)

	tests := []struct {
		name       string
		body       any
		wantStatus int
	}{
		{"valid price", map[string]any{"price": 13.2}, http.StatusOK},
		{"zero price", map[string]any{"price": 0}, http.StatusBadRequest},
		{"malformed body", "{", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.AsUser(testutil.NewJSONRequest(t, http.MethodPut, "/api/stock/"+stock.ID+"/price",
				tt.body, map[string]string{"uuid": stock.ID}), user)
			w := httptest.NewRecorder()

			handler.UpdatePrice(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestStockHandler_DeleteStock(t *testing.T) {
	handler, db := setupStockHandler(t, testutil.NewMockYahooClient())
	user := testutil.NewUser().Build(t, db)
	stock := testutil.NewStock(user.ID).Build(t, db)
	buy := testutil.NewBuy(stock).Build(t, db)
	testutil.NewSell(buy).WithQuantity(50).Build(t, db)

	req := testutil.AsUser(testutil.NewRequestWithURLParams(http.MethodDelete, "/api/stock/"+stock.ID,
		map[string]string{"uuid": stock.ID}), user)
	w := httptest.NewRecorder()

	handler.DeleteStock(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d: %s", w.Code, w.Body.String())
	}
	testutil.AssertRowCount(t, db, "stocks", 0)
	testutil.AssertRowCount(t, db, "transactions", 0)
}

func TestStockHandler_Lots(t *testing.T) {
	handler, db := setupStockHandler(t, testutil.NewMockYahooClient())
	user := testutil.NewUser().Build(t, db)
	stock := testutil.NewStock(user.ID).WithPrice(12).Build(t, db)
	buy := testutil.NewBuy(stock).Build(t, db)
	testutil.NewSell(buy).WithQuantity(40).WithPrice(11).Build(t, db)

	req := testutil.AsUser(testutil.NewRequestWithURLParams(http.MethodGet, "/api/stock/"+stock.ID+"/lot",
		map[string]string{"uuid": stock.ID}), user)
	w := httptest.NewRecorder()

	handler.Lots(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var response []model.Lot
	//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
	json.NewDecoder(w.Body).Decode(&response)

	if len(response) != 1 {
		t.Fatalf("Expected 1 lot, got %d", len(response))
	}
	lot := response[0]
	if lot.Status != model.LotPartial || len(lot.Sells) != 1 {
		t.Errorf("Expected a partial lot with one sell, got %+v", lot)
	}
	if lot.Buy.RemainingShares() != 60 {
		t.Errorf("Expected 60 remaining, got %d", lot.Buy.RemainingShares())
	}
}

func TestStockHandler_Transactions(t *testing.T) {
	handler, db := setupStockHandler(t, testutil.NewMockYahooClient())
	user := testutil.NewUser().Build(t, db)

	req := testutil.AsUser(testutil.NewRequestWithURLParams(http.MethodGet, "/api/stock/x/transaction",
		map[string]string{"uuid": testutil.MakeID()}), user)
	w := httptest.NewRecorder()

	handler.Transactions(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestStockHandler_RefreshPrice(t *testing.T) {
	t.Run("stores the latest close", func(t *testing.T) {
		yahooClient := testutil.NewMockYahooClient().WithPrice("600519", 1688.8)
		handler, db := setupStockHandler(t, yahooClient)
		user := testutil.NewUser().Build(t, db)
		stock := testutil.NewStock(user.ID).WithCode("600519").Build(t, db)

		req := testutil.AsUser(testutil.NewRequestWithURLParams(http.MethodPost, "/api/stock/"+stock.ID+"/refresh",
			map[string]string{"uuid": stock.ID}), user)
		w := httptest.NewRecorder()

		handler.RefreshPrice(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response model.Stock
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.CurrentPrice != 1688.8 {
			t.Errorf("Expected price 1688.8, got %v", response.CurrentPrice)
		}
	})

	t.Run("returns 502 when no quote is available", func(t *testing.T) {
		yahooClient := testutil.NewMockYahooClient().WithError(errors.New("upstream down"))
		handler, db := setupStockHandler(t, yahooClient)
		user := testutil.NewUser().Build(t, db)
		stock := testutil.NewStock(user.ID).WithCode("600519").Build(t, db)

		req := testutil.AsUser(testutil.NewRequestWithURLParams(http.MethodPost, "/api/stock/"+stock.ID+"/refresh",
			map[string]string{"uuid": stock.ID}), user)
		w := httptest.NewRecorder()

		handler.RefreshPrice(w, req)

		if w.Code != http.StatusBadGateway {
			t.Errorf("Expected 502, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestStockHandler_RefreshPrices(t *testing.T) {
	yahooClient := testutil.NewMockYahooClient().WithPrice("600519", 1688.8)
	handler, db := setupStockHandler(t, yahooClient)
	user := testutil.NewUser().Build(t, db)
	testutil.NewStock(user.ID).WithCode("600519").Build(t, db)
	testutil.NewStock(user.ID).WithCode("000001").Build(t, db)

	req := testutil.AsUser(httptest.NewRequest(http.MethodPost, "/api/stock/refresh", nil), user)
	w := httptest.NewRecorder()

	handler.RefreshPrices(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var response model.PriceRefreshResponse
	//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
	json.NewDecoder(w.Body).Decode(&response)

	if !response.Success || response.TotalUpdated != 1 || response.TotalErrors != 1 {
		t.Errorf("Expected one update and one error, got %+v", response)
	}
}
