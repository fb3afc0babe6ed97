// Package cashflow provides the signed monthly cash-flow type and the
// discounting analytics computed on it: net present value, internal rate of
// return, and the effective-cost-of-credit flow builders.
package cashflow

import (
	"errors"
	"math"

	"consortium-compare/pkg/constants"
	"consortium-compare/pkg/schedule"
)

// ErrIRRNotFound indicates the cash flow has no internal rate of return: no
// sign change exists, or the root-finder failed to converge within bounds.
// Callers display this as an undefined value rather than treating it as a
// pipeline failure.
var ErrIRRNotFound = errors.New("internal rate of return not found")

// CashFlow is an ordered sequence of signed monetary amounts indexed by
// month 0..N. Month 0 carries the up-front disbursement; subsequent months
// carry outflows (negative) or inflows.
type CashFlow []float64

// NPV returns the net present value of the flow at the given periodic
// (monthly) discount rate.
func (cf CashFlow) NPV(rate float64) float64 {
	value := 0.0
	for t, amount := range cf {
		value += amount / math.Pow(1+rate, float64(t))
	}
	return value
}

// IRR returns the periodic rate at which the flow's NPV is zero, found by
// bisection. The flow must change sign at least once; without a sign change
// no root exists and ErrIRRNotFound is returned. The solver also returns
// ErrIRRNotFound instead of a half-converged root when the iteration bound
// is hit.
func (cf CashFlow) IRR() (float64, error) {
	if !cf.hasSignChange() {
		return 0, ErrIRRNotFound
	}

	low, high := constants.IRRLowerBound, constants.IRRUpperBound
	npvLow, npvHigh := cf.NPV(low), cf.NPV(high)
	if npvLow == 0 {
		return low, nil
	}
	if npvHigh == 0 {
		return high, nil
	}
	if npvLow*npvHigh > 0 {
		return 0, ErrIRRNotFound
	}

	for i := 0; i < constants.IRRMaxIterations; i++ {
		mid := (low + high) / 2
		npvMid := cf.NPV(mid)
		if math.Abs(npvMid) <= constants.IRRTolerance || high-low <= constants.IRRRateTolerance {
			return mid, nil
		}
		if npvLow*npvMid < 0 {
			high = mid
		} else {
			low = mid
			npvLow = npvMid
		}
	}
	return 0, ErrIRRNotFound
}

func (cf CashFlow) hasSignChange() bool {
	sawPositive, sawNegative := false, false
	for _, amount := range cf {
		if amount > 0 {
			sawPositive = true
		} else if amount < 0 {
			sawNegative = true
		}
	}
	return sawPositive && sawNegative
}

// AnnualRate converts a periodic monthly rate to its effective annual
// equivalent: (1+i)^12 - 1.
func AnnualRate(monthlyRate float64) float64 {
	return math.Pow(1+monthlyRate, constants.MonthsPerYear) - 1
}

// FromLoan builds the borrower-perspective cash flow of a loan: the
// principal received at month 0 followed by the scheduled payments as
// outflows.
func FromLoan(principal float64, sched schedule.Schedule) CashFlow {
	return fromCredit(principal, sched, 0)
}

// FromLoanEffective builds the effective-cost flow of a loan: the month-0
// disbursement is reduced by an up-front transaction tax on the principal
// and every outflow is increased by a recurring monthly insurance charge.
func FromLoanEffective(principal float64, sched schedule.Schedule, taxFraction, monthlyInsurance float64) CashFlow {
	return fromCredit(principal*(1-taxFraction), sched, monthlyInsurance)
}

// FromConsortium builds the consortium cash flow. With faceValue true the
// month-0 inflow is the plan's face value (total value plus the admin and
// reserve markup); with faceValue false it is the buyer's effective
// disbursed credit, the total value net of the markup, while the payments
// remain at full face. That asymmetry is the cost of the capital actually
// received.
func FromConsortium(totalValue, markup float64, sched schedule.Schedule, faceValue bool) CashFlow {
	credit := totalValue
	if faceValue {
		credit = totalValue * markup
	}
	return fromCredit(credit, sched, 0)
}

func fromCredit(credit float64, sched schedule.Schedule, monthlyFee float64) CashFlow {
	flow := make(CashFlow, sched.Len()+1)
	flow[0] = credit
	for month := 1; month <= sched.Len(); month++ {
		flow[month] = -(sched.Amount(month) + monthlyFee)
	}
	return flow
}
