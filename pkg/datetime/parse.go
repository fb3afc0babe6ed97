// Package datetime provides date utility functions for the monthly index
// series.
package datetime

import (
	"time"
)

const (
	// MonthLayout is the month-resolution key format used when resampling
	// index observations.
	MonthLayout = "2006-01"

	// ObservationLayout is the date format used by the central-bank SGS
	// API (dd/MM/yyyy).
	ObservationLayout = "02/01/2006"
)

// MustParseTime parses a date string using the given layout and panics on
// error. This is intended for use in tests where the date string is known
// to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// MonthKey collapses a date to its month-resolution key.
func MonthKey(t time.Time) string {
	return t.Format(MonthLayout)
}

// NextMonth returns the month key one month after the given key.
func NextMonth(key string) (string, error) {
	t, err := time.Parse(MonthLayout, key)
	if err != nil {
		return key, err
	}
	return t.AddDate(0, 1, 0).Format(MonthLayout), nil
}

// MonthBeforeMonth returns true if the first month key is strictly before
// the second.
func MonthBeforeMonth(first, second string) (bool, error) {
	firstT, err := time.Parse(MonthLayout, first)
	if err != nil {
		return false, err
	}
	secondT, err := time.Parse(MonthLayout, second)
	if err != nil {
		return false, err
	}
	return firstT.Before(secondT), nil
}
