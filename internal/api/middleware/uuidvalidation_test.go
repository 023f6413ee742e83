package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Trade-Journal-Backend/internal/api/middleware"
)

// journalRouter mounts the middleware the way the API guards stock and
// transaction IDs. Handlers echo the route they reached.
func journalRouter() http.Handler {
	reached := func(name string) http.HandlerFunc {
		return func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("X-Route", name)
			w.WriteHeader(http.StatusOK)
		}
	}

	r := chi.NewRouter()
	r.Route("/api/stock", func(r chi.Router) {
		r.Post("/refresh", reached("refresh all"))
		r.Route("/{uuid}", func(r chi.Router) {
			r.Use(middleware.ValidateUUIDMiddleware)
			r.Get("/", reached("get stock"))
			r.Get("/lot", reached("stock lots"))
		})
	})
	r.Route("/api/transaction", func(r chi.Router) {
		r.Post("/buy", reached("create buy"))
		r.Route("/{uuid}", func(r chi.Router) {
			r.Use(middleware.ValidateUUIDMiddleware)
			r.Delete("/", reached("delete transaction"))
		})
	})
	// A route that forgot its {uuid} segment.
	r.With(middleware.ValidateUUIDMiddleware).Get("/api/transaction-without-id", reached("unreachable"))
	return r
}

func TestValidateUUIDMiddleware(t *testing.T) {
	const id = "550e8400-e29b-41d4-a716-446655440000"

	tests := []struct {
		name      string
		method    string
		path      string
		wantCode  int
		wantRoute string
		wantError string
	}{
		{"stock by ID", http.MethodGet, "/api/stock/" + id, http.StatusOK, "get stock", ""},
		{"stock lots by ID", http.MethodGet, "/api/stock/" + id + "/lot", http.StatusOK, "stock lots", ""},
		{"stock code instead of ID", http.MethodGet, "/api/stock/600519/lot", http.StatusBadRequest, "", "invalid UUID format"},
		{"static stock route is not guarded", http.MethodPost, "/api/stock/refresh", http.StatusOK, "refresh all", ""},
		{"delete transaction by ID", http.MethodDelete, "/api/transaction/" + id, http.StatusOK, "delete transaction", ""},
		{"truncated transaction ID", http.MethodDelete, "/api/transaction/" + id[:8], http.StatusBadRequest, "", "invalid UUID format"},
		{"static transaction route is not guarded", http.MethodPost, "/api/transaction/buy", http.StatusOK, "create buy", ""},
		{"route without ID", http.MethodGet, "/api/transaction-without-id", http.StatusBadRequest, "", "valid UUID is required"},
	}

	router := journalRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))

			if w.Code != tt.wantCode {
				t.Fatalf("Expected %d, got %d: %s", tt.wantCode, w.Code, w.Body.String())
			}
			if got := w.Header().Get("X-Route"); got != tt.wantRoute {
				t.Errorf("Expected route %q, got %q", tt.wantRoute, got)
			}
			if tt.wantError == "" {
				return
			}

			var response struct {
				Error string `json:"error"`
			}
			//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
			json.NewDecoder(w.Body).Decode(&response)
			if response.Error != tt.wantError {
				t.Errorf("Expected error %q, got %q", tt.wantError, response.Error)
			}
		})
	}
}
