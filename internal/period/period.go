// Package period computes the calendar windows of weekly and monthly reviews.
package period

import (
	"fmt"
	"time"

	"github.com/jinzhu/now"

	"github.com/ndewijer/Trade-Journal-Backend/internal/apperrors"
	"github.com/ndewijer/Trade-Journal-Backend/internal/model"
)

// Window is an inclusive time range.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t lies within the window, bounds included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Parse validates a period name; the empty string selects the month.
func Parse(s string) (model.Period, error) {
	switch model.Period(s) {
	case model.PeriodMonth, "":
		return model.PeriodMonth, nil
	case model.PeriodWeek:
		return model.PeriodWeek, nil
	default:
		return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidPeriod, s)
	}
}

func calendar(loc *time.Location) *now.Config {
	if loc == nil {
		loc = time.Local
	}
	return &now.Config{
		WeekStartDay: time.Monday,
		TimeLocation: loc,
	}
}

// Month returns the calendar month containing ref in loc:
// the 1st at 00:00:00 through the last day at 23:59:59.
func Month(ref time.Time, loc *time.Location) Window {
	cfg := calendar(loc)
	n := cfg.With(ref.In(cfg.TimeLocation))
	return Window{
		Start: n.BeginningOfMonth(),
		End:   n.EndOfMonth().Truncate(time.Second),
	}
}

// Week returns the Monday-start week containing ref in loc:
// Monday 00:00:00 through Sunday 23:59:59.999.
func Week(ref time.Time, loc *time.Location) Window {
	cfg := calendar(loc)
	n := cfg.With(ref.In(cfg.TimeLocation))
	return Window{
		Start: n.BeginningOfWeek(),
		End:   n.EndOfWeek().Truncate(time.Millisecond),
	}
}

// For returns the window of kind p containing ref.
func For(p model.Period, ref time.Time, loc *time.Location) (Window, error) {
	switch p {
	case model.PeriodMonth:
		return Month(ref, loc), nil
	case model.PeriodWeek:
		return Week(ref, loc), nil
	default:
		return Window{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidPeriod, p)
	}
}
