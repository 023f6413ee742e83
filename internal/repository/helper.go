package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/Trade-Journal-Backend/internal/model"
)

// timeLayout is fixed-width so stored timestamps sort and compare lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// FormatTime renders t in UTC using the storage layout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// ParseTime parses a stored timestamp, a "2006-01-02" date or an RFC3339 string.
func ParseTime(str string) (time.Time, error) {
	returnTime, err := time.Parse(time.RFC3339Nano, str)
	if err != nil {
		returnTime, err = time.Parse("2006-01-02", str)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse date: %w", err)
		}
	}
	return returnTime.UTC(), nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("failed to encode tags: %w", err)
	}
	return string(b), nil
}

func decodeTags(raw string) ([]string, error) {
	tags := []string{}
	if raw == "" {
		return tags, nil
	}
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}
	return tags, nil
}

func encodeReason(r *model.Reason) (sql.NullString, error) {
	if r == nil {
		return sql.NullString{}, nil
	}
	reason := *r
	if reason.Tags == nil {
		reason.Tags = []string{}
	}
	b, err := json.Marshal(reason)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode reason: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func decodeReason(raw sql.NullString) (*model.Reason, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var r model.Reason
	if err := json.Unmarshal([]byte(raw.String), &r); err != nil {
		return nil, fmt.Errorf("failed to decode reason: %w", err)
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}
	return &r, nil
}

func placeholders(n int) string {
	p := make([]string, n)
	for i := range p {
		p[i] = "?"
	}
	return strings.Join(p, ",")
}
