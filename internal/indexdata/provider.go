// Package indexdata supplies the monthly price-index series consumed by the
// consortium generator's index-driven adjustment. Providers hand the core a
// complete, ordered sequence of 1+monthly_variation multipliers, oldest
// first; retrieval, caching, and resampling all happen here, outside the
// computation core.
package indexdata

import (
	"context"
	"errors"
)

// ErrUnavailable indicates the index series could not be retrieved or
// decoded. It propagates to the caller as a hard stop for index-driven
// schedules; it is never hidden behind a default value.
var ErrUnavailable = errors.New("index data unavailable")

// Provider yields the trailing monthly index factors, oldest first. A
// provider returns at most the requested number of observations; when fewer
// exist, it returns what it has and the consortium generator rejects the
// short series.
type Provider interface {
	MonthlyFactors(ctx context.Context, months int) ([]float64, error)
}

// StaticProvider serves a fixed, pre-converted factor series. It backs
// offline runs, tests, and config-supplied data.
type StaticProvider []float64

// MonthlyFactors returns the trailing months of the static series.
func (p StaticProvider) MonthlyFactors(_ context.Context, months int) ([]float64, error) {
	if months <= 0 || months > len(p) {
		months = len(p)
	}
	factors := make([]float64, months)
	copy(factors, p[len(p)-months:])
	return factors, nil
}
