package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MinutesPerDay is the number of minutes in a calendar day.
const MinutesPerDay = 24 * 60

// EndOfDay is the exclusive upper bound of a day ("24:00").
const EndOfDay TimeString = "24:00"

var (
	// ErrInvalidTimeFormat is returned when a value is not HH:MM.
	ErrInvalidTimeFormat = errors.New("types: invalid time format, expected HH:MM")

	// ErrTimeOutOfRange is returned when arithmetic leaves the 00:00-24:00 window.
	ErrTimeOutOfRange = errors.New("types: time out of day range")
)

// TimeString is a wall-clock time of day in HH:MM form.
// "24:00" is accepted as the end of the day so a slot can end at midnight.
// In the database it is stored as minutes since midnight.
type TimeString string

// NewTimeString builds a TimeString from the clock part of t.
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format("15:04"))
}

// NewTimeStringFromString parses and validates an HH:MM string.
func NewTimeStringFromString(s string) (TimeString, error) {
	ts := TimeString(strings.TrimSpace(s))
	if err := ts.Validate(); err != nil {
		return "", err
	}
	return ts, nil
}

// NewTimeStringFromMinutes converts minutes since midnight into a TimeString.
func NewTimeStringFromMinutes(minutes int) (TimeString, error) {
	if minutes < 0 || minutes > MinutesPerDay {
		return "", fmt.Errorf("%w: %d minutes", ErrTimeOutOfRange, minutes)
	}
	return TimeString(fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)), nil
}

// Validate checks the HH:MM format.
func (t TimeString) Validate() error {
	_, err := t.ToMinutes()
	return err
}

// IsZero reports whether the value is empty.
func (t TimeString) IsZero() bool {
	return t == ""
}

// ToMinutes returns the number of minutes since midnight.
func (t TimeString) ToMinutes() (int, error) {
	parts := strings.Split(string(t), ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, string(t))
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, string(t))
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, string(t))
	}

	if hours < 0 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, string(t))
	}
	if hours > 23 && !(hours == 24 && minutes == 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, string(t))
	}

	return hours*60 + minutes, nil
}

// Minutes is ToMinutes for values that are already known to be valid.
// It returns -1 for malformed input.
func (t TimeString) Minutes() int {
	m, err := t.ToMinutes()
	if err != nil {
		return -1
	}
	return m
}

// AddMinutes shifts the time by n minutes within the same day.
func (t TimeString) AddMinutes(n int) (TimeString, error) {
	m, err := t.ToMinutes()
	if err != nil {
		return "", err
	}
	return NewTimeStringFromMinutes(m + n)
}

// IsBefore reports whether t is strictly earlier than other.
func (t TimeString) IsBefore(other TimeString) bool {
	return t.Minutes() < other.Minutes()
}

// IsAfter reports whether t is strictly later than other.
func (t TimeString) IsAfter(other TimeString) bool {
	return t.Minutes() > other.Minutes()
}

// Equal compares two times by their minute value.
func (t TimeString) Equal(other TimeString) bool {
	return t.Minutes() == other.Minutes()
}

// String implements fmt.Stringer.
func (t TimeString) String() string {
	return string(t)
}

// Value stores the time as minutes since midnight.
func (t TimeString) Value() (driver.Value, error) {
	m, err := t.ToMinutes()
	if err != nil {
		return nil, err
	}
	return int64(m), nil
}

// Scan reads minutes since midnight or a textual HH:MM[:SS] value.
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case int64:
		ts, err := NewTimeStringFromMinutes(int(v))
		if err != nil {
			return err
		}
		*t = ts
		return nil
	case []byte:
		return t.scanText(string(v))
	case string:
		return t.scanText(v)
	case time.Time:
		*t = NewTimeString(v)
		return nil
	case nil:
		*t = ""
		return nil
	default:
		return fmt.Errorf("%w: unsupported scan type %T", ErrInvalidTimeFormat, src)
	}
}

func (t *TimeString) scanText(s string) error {
	if len(s) >= 5 {
		s = s[:5]
	}
	ts, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*t = ts
	return nil
}
