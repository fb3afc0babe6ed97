// Package gapinvest simulates investing the monthly payment difference
// between two schedules in a compounding escrow account and finds the month
// the account is exhausted (break-even).
package gapinvest

import (
	"errors"
	"fmt"

	"consortium-compare/pkg/mathutil"
	"consortium-compare/pkg/schedule"
	"go.uber.org/zap"
)

// ErrInvalidParameter indicates simulation inputs that are rejected before
// any computation takes place.
var ErrInvalidParameter = errors.New("invalid parameter")

// Month holds the state of the escrow account after one month of the
// simulation.
type Month struct {
	Month        int
	Gap          float64 // payment A minus payment B, signed
	Contribution float64 // positive part of the gap
	Interest     float64 // interest accrued on the balance this month
	Balance      float64 // balance after interest accrual and gap
}

// Trace is the month-by-month result of a gap-investment simulation. The
// trace always covers the full horizon so the rendering layer can chart it
// past the break-even point.
type Trace struct {
	Months []Month

	// BreakEvenMonth is the first month the balance is exhausted, or 0 when
	// break-even never occurred (check HasBreakEven).
	BreakEvenMonth int
	HasBreakEven   bool

	// TotalContributed and TotalInterest accumulate through the break-even
	// month inclusive when it occurred, otherwise through the full horizon.
	TotalContributed float64
	TotalInterest    float64
}

// Simulate runs the gap-investment simulation: each month the signed gap
// between the two schedules is applied to an escrow balance that accrues
// the given monthly yield. The shorter schedule is padded with zero
// payments. A negative gap withdraws from the balance.
//
// Break-even requires the balance to have been strictly positive before
// being exhausted; two identical schedules keep the balance at zero forever
// and never break even.
func Simulate(logger *zap.Logger, schedA, schedB schedule.Schedule, monthlyYield float64) (Trace, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if monthlyYield < 0 {
		return Trace{}, fmt.Errorf("%w: monthly yield must be >= 0, got %.4f", ErrInvalidParameter, monthlyYield)
	}

	horizon := schedA.Len()
	if schedB.Len() > horizon {
		horizon = schedB.Len()
	}
	schedA = schedA.PadTo(horizon)
	schedB = schedB.PadTo(horizon)

	trace := Trace{Months: make([]Month, horizon)}
	balance := 0.0
	everPositive := false

	for month := 1; month <= horizon; month++ {
		gap := schedA.Amount(month) - schedB.Amount(month)
		contribution := mathutil.Max(gap, 0)
		interest := balance * monthlyYield
		balance += interest + gap

		trace.Months[month-1] = Month{
			Month:        month,
			Gap:          gap,
			Contribution: contribution,
			Interest:     interest,
			Balance:      balance,
		}

		if !trace.HasBreakEven && everPositive && balance <= 0 {
			trace.BreakEvenMonth = month
			trace.HasBreakEven = true
			logger.Debug(fmt.Sprintf("gap investment exhausted at month %d", month),
				zap.String("op", "gapinvest.Simulate"),
			)
		}
		if balance > 0 {
			everPositive = true
		}
	}

	cutoff := horizon
	if trace.HasBreakEven {
		cutoff = trace.BreakEvenMonth
	}
	for _, m := range trace.Months[:cutoff] {
		trace.TotalContributed += m.Contribution
		trace.TotalInterest += m.Interest
	}

	return trace, nil
}
