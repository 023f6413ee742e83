package validation

import (
	"time"

	"github.com/ndewijer/Trade-Journal-Backend/internal/api/request"
)

// ValidateCreateBuy validates a buy request and parses its timestamp in loc.
//
// Required fields:
//   - stockId: Must be a valid UUID
//   - quantity: Must be a positive integer
//   - price: Must be positive
//   - fee: Must be present and non-negative
//   - timestamp: RFC 3339, or a local date-time
func ValidateCreateBuy(req request.CreateBuyRequest, loc *time.Location) (time.Time, error) {
	fields := make(map[string]string)
	if err := merge(fields, Struct(req)); err != nil {
		return time.Time{}, err
	}
	ts := validateTimestamp(fields, req.Timestamp, loc)
	return ts, result(fields)
}

// ValidateCreateSell validates a sell request and parses its timestamp in loc.
// Whether the lot holds enough shares is checked when the sell is recorded.
func ValidateCreateSell(req request.CreateSellRequest, loc *time.Location) (time.Time, error) {
	fields := make(map[string]string)
	if err := merge(fields, Struct(req)); err != nil {
		return time.Time{}, err
	}
	ts := validateTimestamp(fields, req.Timestamp, loc)
	return ts, result(fields)
}

// ValidateUpdateTransaction validates an edit. All fields are optional, but if
// provided they must meet the same constraints as create.
// The returned time is zero when no timestamp was supplied.
func ValidateUpdateTransaction(req request.UpdateTransactionRequest, loc *time.Location) (time.Time, error) {
	fields := make(map[string]string)
	if err := merge(fields, Struct(req)); err != nil {
		return time.Time{}, err
	}
	var ts time.Time
	if req.Timestamp != nil {
		ts = validateTimestamp(fields, *req.Timestamp, loc)
	}
	return ts, result(fields)
}

func validateTimestamp(fields map[string]string, raw string, loc *time.Location) time.Time {
	if _, exists := fields["timestamp"]; exists {
		return time.Time{}
	}
	ts, err := ParseTimestamp(raw, loc)
	if err != nil {
		fields["timestamp"] = "timestamp must be RFC 3339 or YYYY-MM-DD[ HH:MM[:SS]]"
		return time.Time{}
	}
	return ts
}
