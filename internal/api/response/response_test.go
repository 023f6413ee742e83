package response_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Trade-Journal-Backend/internal/api/response"
)

func TestRespondError(t *testing.T) {
	t.Run("omits empty details", func(t *testing.T) {
		w := httptest.NewRecorder()
		response.RespondError(w, http.StatusNotFound, "stock not found", "")

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
		var body map[string]any
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&body)
		if body["error"] != "stock not found" {
			t.Errorf("Expected error message, got %v", body["error"])
		}
		if _, ok := body["details"]; ok {
			t.Errorf("Expected no details, got %v", body["details"])
		}
	})

	t.Run("keeps field details", func(t *testing.T) {
		w := httptest.NewRecorder()
		response.RespondError(w, http.StatusBadRequest, "validation failed", map[string]string{"quantity": "quantity must be greater than 0"})

		var body response.ErrorResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&body)
		details, ok := body.Details.(map[string]any)
		if !ok || details["quantity"] == nil {
			t.Errorf("Expected quantity detail, got %v", body.Details)
		}
	})
}

func TestRespondJSON_NoContent(t *testing.T) {
	w := httptest.NewRecorder()
	response.RespondJSON(w, http.StatusNoContent, nil)

	if w.Code != http.StatusNoContent {
		t.Errorf("Expected 204, got %d", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("Expected empty body, got %q", w.Body.String())
	}
}
