// ABOUTME: Calendar date helpers for entry keys
// ABOUTME: Dates are plain YYYY-MM-DD strings with no time component

package models

import (
	"fmt"
	"time"
)

// DateLayout is the layout of entry dates.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q (use YYYY-MM-DD)", ErrValidation, s)
	}
	return t, nil
}

// ValidateDate checks that s is a YYYY-MM-DD calendar date.
func ValidateDate(s string) error {
	_, err := ParseDate(s)
	return err
}

// FormatDate formats t as a YYYY-MM-DD date in t's location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Today returns the local calendar date.
func Today() string {
	return FormatDate(time.Now())
}

// AddDays shifts a YYYY-MM-DD date by n days.
func AddDays(date string, n int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return FormatDate(t.AddDate(0, 0, n)), nil
}

// WeekDates returns the seven dates, Sunday through Saturday, of the week containing date.
func WeekDates(date string) ([]string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return nil, err
	}
	start := t.AddDate(0, 0, -int(t.Weekday()))
	dates := make([]string, 7)
	for i := range dates {
		dates[i] = FormatDate(start.AddDate(0, 0, i))
	}
	return dates, nil
}
