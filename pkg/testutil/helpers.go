// Package testutil provides common utility functions for testing.
package testutil

import (
	"math"
	"testing"
)

// AssertApprox fails the test when got is not within tolerance of want.
func AssertApprox(t *testing.T, name string, got, want, tolerance float64) {
	t.Helper()
	if math.Abs(got-want) > tolerance {
		t.Errorf("%s = %.6f, expected %.6f (tolerance %g)", name, got, want, tolerance)
	}
}

// Ptr returns a pointer to v; convenient for optional metric fields in test
// expectations.
func Ptr(v float64) *float64 {
	return &v
}
