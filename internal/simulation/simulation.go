// Package simulation orchestrates the full comparison pipeline: both
// payment schedules, the cash-flow analytics, and the gap-investment
// simulation, assembled into a single result value ready for rendering.
package simulation

import (
	"context"
	"errors"
	"fmt"

	"consortium-compare/internal/config"
	"consortium-compare/internal/indexdata"
	"consortium-compare/pkg/amortization"
	"consortium-compare/pkg/cashflow"
	"consortium-compare/pkg/consortium"
	"consortium-compare/pkg/constants"
	"consortium-compare/pkg/gapinvest"
	"go.uber.org/zap"
)

// Analytics holds the comparative metrics for one payment plan. The IRR
// fields are nil when no internal rate of return exists; the rendering
// layer displays those as "—".
type Analytics struct {
	TotalPaid            float64  `json:"totalPaid"`
	NPV                  float64  `json:"npv"`
	IRRMonthly           *float64 `json:"irrMonthly,omitempty"`
	IRRAnnual            *float64 `json:"irrAnnual,omitempty"`
	EffectiveCostMonthly *float64 `json:"effectiveCostMonthly,omitempty"`
	EffectiveCostAnnual  *float64 `json:"effectiveCostAnnual,omitempty"`
}

// LoanResult holds the loan side of the comparison.
type LoanResult struct {
	Convention string                   `json:"convention"`
	Payments   []float64                `json:"payments"`
	Breakdown  []amortization.Breakdown `json:"breakdown"`
	Analytics  Analytics                `json:"analytics"`
}

// ConsortiumResult holds the consortium side of the comparison.
type ConsortiumResult struct {
	Payments     []float64 `json:"payments"`
	AnnualFactor float64   `json:"annualFactor"`
	Analytics    Analytics `json:"analytics"`
}

// Result is the complete outcome of one comparison run.
type Result struct {
	Loan                LoanResult       `json:"loan"`
	Consortium          ConsortiumResult `json:"consortium"`
	Gap                 gapinvest.Trace  `json:"gap"`
	DiscountRateMonthly float64          `json:"discountRateMonthly"`
}

// Compare runs the comparison described by the simulation config. The index
// provider is only consulted for index-driven adjustment; index errors
// abort the run (never silently defaulted), while an IRR that does not
// exist is a presentable state, not a failure.
func Compare(ctx context.Context, logger *zap.Logger, sim config.SimulationConfig, provider indexdata.Provider) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loanSched, breakdown, err := amortization.Generate(logger, sim.LoanParameters())
	if err != nil {
		return nil, err
	}

	adjustment, err := adjustmentSource(ctx, sim, provider)
	if err != nil {
		return nil, err
	}
	consParams := sim.ConsortiumParameters(adjustment)
	consSched, err := consortium.Generate(logger, consParams)
	if err != nil {
		return nil, err
	}
	annualFactor, err := adjustment.AnnualFactor()
	if err != nil {
		return nil, err
	}

	discountRate := sim.MonthlyDiscountRate()
	principal := sim.Principal()
	markup := consParams.Markup()

	loanFlow := cashflow.FromLoan(principal, loanSched)
	loanEffectiveFlow := cashflow.FromLoanEffective(principal, loanSched, sim.TaxFraction(), sim.EffectiveCost.MonthlyInsurance)
	consFlow := cashflow.FromConsortium(sim.TotalValue, markup, consSched, true)
	consEffectiveFlow := cashflow.FromConsortium(sim.TotalValue, markup, consSched, false)

	result := &Result{
		Loan: LoanResult{
			Convention: sim.Loan.Convention,
			Payments:   loanSched.Amounts(),
			Breakdown:  breakdown,
			Analytics: analytics(logger, "loan",
				loanSched.Total()+sim.DownPayment, loanFlow, loanEffectiveFlow, discountRate),
		},
		Consortium: ConsortiumResult{
			Payments:     consSched.Amounts(),
			AnnualFactor: annualFactor,
			Analytics: analytics(logger, "consortium",
				consSched.Total(), consFlow, consEffectiveFlow, discountRate),
		},
		DiscountRateMonthly: discountRate,
	}

	trace, err := gapinvest.Simulate(logger, loanSched, consSched, sim.MonthlyGapYield())
	if err != nil {
		return nil, err
	}
	result.Gap = trace

	return result, nil
}

func adjustmentSource(ctx context.Context, sim config.SimulationConfig, provider indexdata.Provider) (consortium.AdjustmentSource, error) {
	switch sim.Consortium.Adjustment {
	case config.AdjustmentIndex:
		if provider == nil {
			return nil, fmt.Errorf("%w: no index provider configured for index-driven adjustment", indexdata.ErrUnavailable)
		}
		factors, err := provider.MonthlyFactors(ctx, constants.TrailingIndexMonths)
		if err != nil {
			return nil, err
		}
		return consortium.IndexAdjustment(factors), nil
	default:
		return sim.FixedAdjustmentFactor(), nil
	}
}

// analytics computes the metric block for one plan. totalPaid is supplied
// by the caller because the loan side also counts the down payment.
func analytics(logger *zap.Logger, plan string, totalPaid float64, flow, effectiveFlow cashflow.CashFlow, discountRate float64) Analytics {
	a := Analytics{
		TotalPaid: totalPaid,
		NPV:       flow.NPV(discountRate),
	}
	a.IRRMonthly, a.IRRAnnual = solveIRR(logger, plan, flow)
	a.EffectiveCostMonthly, a.EffectiveCostAnnual = solveIRR(logger, plan+" effective cost", effectiveFlow)
	return a
}

func solveIRR(logger *zap.Logger, plan string, flow cashflow.CashFlow) (*float64, *float64) {
	rate, err := flow.IRR()
	if err != nil {
		if errors.Is(err, cashflow.ErrIRRNotFound) {
			logger.Debug(fmt.Sprintf("no internal rate of return for %s", plan),
				zap.String("op", "simulation.Compare"),
			)
			return nil, nil
		}
		return nil, nil
	}
	annual := cashflow.AnnualRate(rate)
	return &rate, &annual
}
