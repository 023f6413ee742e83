package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ndewijer/Trade-Journal-Backend/internal/apperrors"
	"github.com/ndewijer/Trade-Journal-Backend/internal/validation"
)

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TestParseJSON is an internal test (package handlers, not handlers_test)
// because parseJSON is unexported.
func TestParseJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid object", `{"name":"a","count":2}`, false},
		{"empty body", ``, true},
		{"unknown field", `{"name":"a","extra":1}`, true},
		{"trailing object", `{"name":"a"}{"name":"b"}`, true},
		{"wrong type", `{"count":"two"}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			got, err := parseJSON[sample](req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && (got.Name != "a" || got.Count != 2) {
				t.Errorf("parseJSON() = %+v", got)
			}
		})
	}
}

func TestRespondServiceError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", fmt.Errorf("lookup: %w", apperrors.ErrStockNotFound), http.StatusNotFound},
		{"parent missing", apperrors.ErrParentBuyNotFound, http.StatusNotFound},
		{"duplicate", apperrors.ErrDuplicateEntry, http.StatusConflict},
		{"lot has sells", apperrors.ErrLotHasSells, http.StatusConflict},
		{"stock limit", apperrors.ErrStockLimitReached, http.StatusConflict},
		{"insufficient shares", fmt.Errorf("%w: 10 remaining", apperrors.ErrInsufficientShares), http.StatusUnprocessableEntity},
		{"below sold", apperrors.ErrQuantityBelowSold, http.StatusUnprocessableEntity},
		{"invalid period", apperrors.ErrInvalidPeriod, http.StatusBadRequest},
		{"validation", &validation.Error{Fields: map[string]string{"timestamp": "invalid timestamp"}}, http.StatusBadRequest},
		{"quote failure", apperrors.ErrFailedToRefreshPrice, http.StatusBadGateway},
		{"unknown", errors.New("disk I/O error"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/", nil)

			respondServiceError(w, r, tt.err, apperrors.ErrFailedToRetrieveStock)

			if w.Code != tt.want {
				t.Errorf("Expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}

	t.Run("unknown errors use the fallback message", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		respondServiceError(w, r, errors.New("boom"), apperrors.ErrFailedToRetrieveStocks)

		var body map[string]any
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&body)
		if body["error"] != apperrors.ErrFailedToRetrieveStocks.Error() {
			t.Errorf("Expected fallback message, got %v", body["error"])
		}
	})
}
