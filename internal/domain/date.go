package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidDateRange is returned for an empty or inverted date range
var ErrInvalidDateRange = errors.New("domain: invalid date range")

// DateRange is an inclusive range of calendar days
type DateRange struct {
	From time.Time
	To   time.Time
}

// NewDateRange normalizes both bounds to midnight UTC
func NewDateRange(from, to time.Time) (DateRange, error) {
	r := DateRange{From: DateOnly(from), To: DateOnly(to)}
	if err := r.Validate(); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

// Validate checks that the range is not inverted
func (r DateRange) Validate() error {
	if r.From.IsZero() || r.To.IsZero() {
		return fmt.Errorf("%w: both bounds are required", ErrInvalidDateRange)
	}
	if DateOnly(r.To).Before(DateOnly(r.From)) {
		return fmt.Errorf("%w: %s is after %s", ErrInvalidDateRange,
			r.From.Format(DateFormat), r.To.Format(DateFormat))
	}
	return nil
}

// Days returns every day of the range in order
func (r DateRange) Days() []time.Time {
	from, to := DateOnly(r.From), DateOnly(r.To)
	days := make([]time.Time, 0, int(to.Sub(from).Hours()/24)+1)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Len returns the number of days in the range
func (r DateRange) Len() int {
	return len(r.Days())
}

// DateOnly truncates t to midnight UTC of its calendar day
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
