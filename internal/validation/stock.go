package validation

import (
	"strings"

	"github.com/ndewijer/Trade-Journal-Backend/internal/api/request"
)

// ValidateCreateStock validates a new watchlist entry.
func ValidateCreateStock(req request.CreateStockRequest) error {
	fields := make(map[string]string)
	if err := merge(fields, Struct(req)); err != nil {
		return err
	}
	if _, exists := fields["stockCode"]; !exists && strings.TrimSpace(req.Code) == "" {
		fields["stockCode"] = "stockCode is required"
	}
	if _, exists := fields["stockName"]; !exists && strings.TrimSpace(req.Name) == "" {
		fields["stockName"] = "stockName is required"
	}
	return result(fields)
}

// ValidateUpdateStock validates a stock edit; supplied text fields may not be blank.
func ValidateUpdateStock(req request.UpdateStockRequest) error {
	fields := make(map[string]string)
	if err := merge(fields, Struct(req)); err != nil {
		return err
	}
	if req.Code != nil && strings.TrimSpace(*req.Code) == "" {
		fields["stockCode"] = "stockCode cannot be empty"
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		fields["stockName"] = "stockName cannot be empty"
	}
	return result(fields)
}

func ValidateUpdatePrice(req request.UpdatePriceRequest) error {
	return Struct(req)
}
