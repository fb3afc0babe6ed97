// Package amortization generates loan payment schedules under the two
// standard amortization conventions: constant installment (Price) and
// constant amortization (SAC).
package amortization

import (
	"errors"
	"fmt"
	"math"

	"consortium-compare/pkg/constants"
	"consortium-compare/pkg/schedule"
	"go.uber.org/zap"
)

// ErrInvalidParameter indicates loan parameters that are rejected before
// any computation takes place.
var ErrInvalidParameter = errors.New("invalid parameter")

// Convention selects the amortization convention for a loan.
type Convention string

const (
	// Price is the constant-installment convention (classic annuity).
	Price Convention = "price"

	// SAC is the constant-amortization convention with declining payments.
	SAC Convention = "sac"
)

// Parameters holds the inputs for a loan schedule.
type Parameters struct {
	Principal  float64 // financed value minus down payment
	AnnualRate float64 // effective annual rate as a fraction (0.12 = 12%)
	TermMonths int
	Convention Convention
}

// Validate rejects parameters that the generators cannot compute on.
func (p Parameters) Validate() error {
	if p.Principal < 0 {
		return fmt.Errorf("%w: principal must be >= 0, got %.2f", ErrInvalidParameter, p.Principal)
	}
	if p.AnnualRate < 0 {
		return fmt.Errorf("%w: annual rate must be >= 0, got %.4f", ErrInvalidParameter, p.AnnualRate)
	}
	if p.TermMonths < 1 {
		return fmt.Errorf("%w: term must be >= 1 month, got %d", ErrInvalidParameter, p.TermMonths)
	}
	if p.Convention != Price && p.Convention != SAC {
		return fmt.Errorf("%w: unknown amortization convention %q", ErrInvalidParameter, p.Convention)
	}
	return nil
}

// Breakdown holds the interest/principal split for one monthly payment.
type Breakdown struct {
	Month              int
	Payment            float64
	Interest           float64
	Amortization       float64
	RemainingPrincipal float64
}

// MonthlyRate converts an effective annual rate to an effective monthly
// rate: (1+annual)^(1/12) - 1. This is not annual/12; the compounding
// conversion matters for numeric parity with the installment values.
func MonthlyRate(annualRate float64) float64 {
	return math.Pow(1+annualRate, 1.0/constants.MonthsPerYear) - 1
}

// ConstantInstallment returns the fixed monthly annuity payment for a
// principal at the given effective monthly rate. A zero rate degenerates to
// principal/term.
func ConstantInstallment(principal, monthlyRate float64, termMonths int) float64 {
	if monthlyRate == 0 {
		return principal / float64(termMonths)
	}
	return principal * monthlyRate / (1 - math.Pow(1+monthlyRate, -float64(termMonths)))
}

// Generate produces the payment schedule and per-month breakdown for the
// given loan parameters.
func Generate(logger *zap.Logger, params Parameters) (schedule.Schedule, []Breakdown, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := params.Validate(); err != nil {
		return schedule.Schedule{}, nil, err
	}

	monthlyRate := MonthlyRate(params.AnnualRate)
	payments := make([]float64, params.TermMonths)
	breakdowns := make([]Breakdown, params.TermMonths)
	balance := params.Principal

	switch params.Convention {
	case Price:
		installment := ConstantInstallment(params.Principal, monthlyRate, params.TermMonths)
		for month := 1; month <= params.TermMonths; month++ {
			interest := balance * monthlyRate
			amortized := installment - interest
			balance -= amortized
			payments[month-1] = installment
			breakdowns[month-1] = Breakdown{
				Month:              month,
				Payment:            installment,
				Interest:           interest,
				Amortization:       amortized,
				RemainingPrincipal: balance,
			}
		}
	case SAC:
		amortized := params.Principal / float64(params.TermMonths)
		for month := 1; month <= params.TermMonths; month++ {
			interest := balance * monthlyRate
			payment := amortized + interest
			balance -= amortized
			payments[month-1] = payment
			breakdowns[month-1] = Breakdown{
				Month:              month,
				Payment:            payment,
				Interest:           interest,
				Amortization:       amortized,
				RemainingPrincipal: balance,
			}
		}
	}

	logger.Debug(fmt.Sprintf("generated %s schedule for principal %.2f over %d months",
		params.Convention, params.Principal, params.TermMonths),
		zap.String("op", "amortization.Generate"),
		zap.Float64("monthlyRate", monthlyRate),
	)

	return schedule.New(payments), breakdowns, nil
}
