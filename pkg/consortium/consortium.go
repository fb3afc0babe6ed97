// Package consortium generates payment schedules for a pre-payment
// consortium plan: an up-front administrative and reserve-fund markup on the
// total value, split evenly over the term, with the installment adjusted
// once per 12-month block by an annual price factor.
package consortium

import (
	"errors"
	"fmt"
	"math"

	"consortium-compare/pkg/constants"
	"consortium-compare/pkg/schedule"
	"go.uber.org/zap"
)

var (
	// ErrInvalidParameter indicates consortium parameters that are rejected
	// before any computation takes place.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInsufficientIndexData indicates an index-driven adjustment with
	// fewer than the required trailing monthly observations.
	ErrInsufficientIndexData = errors.New("insufficient index data")
)

// AdjustmentSource yields the annual factor applied at each 12-month block
// boundary.
type AdjustmentSource interface {
	// AnnualFactor returns the multiplicative annual adjustment (1.05 means
	// installments step up 5% per year).
	AnnualFactor() (float64, error)
}

// FixedAdjustment is a constant annual adjustment factor.
type FixedAdjustment float64

// AnnualFactor returns the fixed factor.
func (f FixedAdjustment) AnnualFactor() (float64, error) {
	if f < 0 {
		return 0, fmt.Errorf("%w: annual adjustment factor must be >= 0, got %.4f", ErrInvalidParameter, float64(f))
	}
	return float64(f), nil
}

// IndexAdjustment derives the annual factor from an ordered series of
// monthly multiplicative index factors (each 1 + monthly variation, oldest
// first). The annual factor is the product of the most recent 12 factors,
// i.e. the trailing twelve-month cumulative inflation.
type IndexAdjustment []float64

// AnnualFactor returns the trailing twelve-month product of the series.
func (idx IndexAdjustment) AnnualFactor() (float64, error) {
	if len(idx) < constants.TrailingIndexMonths {
		return 0, fmt.Errorf("%w: need %d monthly observations, got %d",
			ErrInsufficientIndexData, constants.TrailingIndexMonths, len(idx))
	}
	factor := 1.0
	for _, monthly := range idx[len(idx)-constants.TrailingIndexMonths:] {
		if monthly < 0 {
			return 0, fmt.Errorf("%w: monthly index factor must be >= 0, got %.4f", ErrInvalidParameter, monthly)
		}
		factor *= monthly
	}
	return factor, nil
}

// Parameters holds the inputs for a consortium schedule.
type Parameters struct {
	TotalValue      float64
	AdminFraction   float64 // applied once, up front, on the total value
	ReserveFraction float64 // applied once, up front, on the total value
	TermMonths      int
	Adjustment      AdjustmentSource
}

// Validate rejects parameters that the generator cannot compute on.
func (p Parameters) Validate() error {
	if p.TotalValue < 0 {
		return fmt.Errorf("%w: total value must be >= 0, got %.2f", ErrInvalidParameter, p.TotalValue)
	}
	if p.AdminFraction < 0 || p.ReserveFraction < 0 {
		return fmt.Errorf("%w: admin and reserve fractions must be >= 0", ErrInvalidParameter)
	}
	if p.TermMonths < 1 {
		return fmt.Errorf("%w: term must be >= 1 month, got %d", ErrInvalidParameter, p.TermMonths)
	}
	if p.Adjustment == nil {
		return fmt.Errorf("%w: adjustment source is required", ErrInvalidParameter)
	}
	return nil
}

// Markup returns the combined up-front surcharge multiplier (1.23 for the
// default 20% admin plus 3% reserve).
func (p Parameters) Markup() float64 {
	return 1 + p.AdminFraction + p.ReserveFraction
}

// BaseInstallment returns the month-1 installment before any adjustment.
func (p Parameters) BaseInstallment() float64 {
	return p.TotalValue * p.Markup() / float64(p.TermMonths)
}

// Generate produces the consortium payment schedule. Installments within a
// 12-month block are constant; each block multiplies the base installment by
// the annual factor raised to the block index.
func Generate(logger *zap.Logger, params Parameters) (schedule.Schedule, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := params.Validate(); err != nil {
		return schedule.Schedule{}, err
	}

	annualFactor, err := params.Adjustment.AnnualFactor()
	if err != nil {
		return schedule.Schedule{}, err
	}

	base := params.BaseInstallment()
	payments := make([]float64, params.TermMonths)
	for month := 1; month <= params.TermMonths; month++ {
		block := (month - 1) / constants.MonthsPerYear
		payments[month-1] = base * math.Pow(annualFactor, float64(block))
	}

	logger.Debug(fmt.Sprintf("generated consortium schedule for total %.2f over %d months",
		params.TotalValue, params.TermMonths),
		zap.String("op", "consortium.Generate"),
		zap.Float64("baseInstallment", base),
		zap.Float64("annualFactor", annualFactor),
	)

	return schedule.New(payments), nil
}
