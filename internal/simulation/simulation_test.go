package simulation

import (
	"context"
	"errors"
	"testing"

	"consortium-compare/internal/config"
	"consortium-compare/internal/indexdata"
	"consortium-compare/pkg/amortization"
	"consortium-compare/pkg/consortium"
	"consortium-compare/pkg/testutil"
	"go.uber.org/zap"
)

func referenceSimulation() config.SimulationConfig {
	sim := config.Default().Simulation
	sim.TotalValue = 500000
	sim.DownPayment = 100000
	sim.Loan = config.LoanConfig{
		AnnualRatePercent: 12.0,
		TermMonths:        200,
		Convention:        string(amortization.Price),
	}
	sim.Consortium = config.ConsortiumConfig{
		TermMonths:              200,
		AdminPercent:            20.0,
		ReservePercent:          3.0,
		Adjustment:              config.AdjustmentFixed,
		AnnualAdjustmentPercent: 5.0,
	}
	return sim
}

func TestCompareFixedAdjustment(t *testing.T) {
	sim := referenceSimulation()

	result, err := Compare(context.Background(), zap.NewNop(), sim, nil)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}

	if len(result.Loan.Payments) != 200 {
		t.Errorf("loan payments length = %d, expected 200", len(result.Loan.Payments))
	}
	if len(result.Consortium.Payments) != 200 {
		t.Errorf("consortium payments length = %d, expected 200", len(result.Consortium.Payments))
	}

	// Closed-form annuity for 400,000 at 12% a.a. over 200 months.
	testutil.AssertApprox(t, "loan first payment", result.Loan.Payments[0], 4471.90, 1.0)

	// Consortium reference values from the stated formulas.
	testutil.AssertApprox(t, "consortium month 1", result.Consortium.Payments[0], 3075.00, 1e-9)
	testutil.AssertApprox(t, "consortium month 13", result.Consortium.Payments[12], 3228.75, 1e-9)
	testutil.AssertApprox(t, "annual factor", result.Consortium.AnnualFactor, 1.05, 1e-12)

	// Loan total includes the down payment.
	loanPaymentsSum := 0.0
	for _, p := range result.Loan.Payments {
		loanPaymentsSum += p
	}
	testutil.AssertApprox(t, "loan total paid", result.Loan.Analytics.TotalPaid, loanPaymentsSum+100000, 0.01)

	// The loan flow is an annuity priced at the loan's own monthly rate, so
	// its IRR recovers that rate.
	if result.Loan.Analytics.IRRMonthly == nil {
		t.Fatalf("loan IRR not found")
	}
	testutil.AssertApprox(t, "loan IRR monthly", *result.Loan.Analytics.IRRMonthly,
		amortization.MonthlyRate(0.12), 1e-9)
	if result.Loan.Analytics.IRRAnnual == nil {
		t.Fatalf("loan annual IRR not found")
	}
	testutil.AssertApprox(t, "loan IRR annual", *result.Loan.Analytics.IRRAnnual, 0.12, 1e-6)

	// With the 0.38% up-front tax the effective cost exceeds the nominal.
	if result.Loan.Analytics.EffectiveCostMonthly == nil {
		t.Fatalf("loan effective cost not found")
	}
	if *result.Loan.Analytics.EffectiveCostMonthly <= *result.Loan.Analytics.IRRMonthly {
		t.Errorf("effective cost %.6f should exceed nominal IRR %.6f",
			*result.Loan.Analytics.EffectiveCostMonthly, *result.Loan.Analytics.IRRMonthly)
	}

	// The consortium's effective cost discounts full payments against the
	// net credit, so it exceeds the face-value rate.
	if result.Consortium.Analytics.IRRMonthly == nil || result.Consortium.Analytics.EffectiveCostMonthly == nil {
		t.Fatalf("consortium IRR metrics not found")
	}
	if *result.Consortium.Analytics.EffectiveCostMonthly <= *result.Consortium.Analytics.IRRMonthly {
		t.Errorf("consortium effective cost %.6f should exceed face-value IRR %.6f",
			*result.Consortium.Analytics.EffectiveCostMonthly, *result.Consortium.Analytics.IRRMonthly)
	}

	// Gap trace covers the common 200-month horizon.
	if len(result.Gap.Months) != 200 {
		t.Errorf("gap trace length = %d, expected 200", len(result.Gap.Months))
	}
}

func TestCompareIndexAdjustment(t *testing.T) {
	sim := referenceSimulation()
	sim.Consortium.Adjustment = config.AdjustmentIndex

	// Twelve months of 0.4% monthly inflation.
	factors := make([]float64, 12)
	for i := range factors {
		factors[i] = 1.004
	}

	result, err := Compare(context.Background(), zap.NewNop(), sim, indexdata.StaticProvider(factors))
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}

	// Annual factor is the trailing twelve-month product: 1.004^12.
	testutil.AssertApprox(t, "annual factor", result.Consortium.AnnualFactor, 1.0490702, 1e-6)
	testutil.AssertApprox(t, "consortium month 13",
		result.Consortium.Payments[12], 3075.00*1.0490702, 1e-3)
}

func TestCompareIndexAdjustmentInsufficientData(t *testing.T) {
	sim := referenceSimulation()
	sim.Consortium.Adjustment = config.AdjustmentIndex

	_, err := Compare(context.Background(), zap.NewNop(), sim, indexdata.StaticProvider{1.004, 1.003})
	if !errors.Is(err, consortium.ErrInsufficientIndexData) {
		t.Errorf("Compare() error = %v, expected ErrInsufficientIndexData", err)
	}
}

func TestCompareIndexAdjustmentWithoutProvider(t *testing.T) {
	sim := referenceSimulation()
	sim.Consortium.Adjustment = config.AdjustmentIndex

	_, err := Compare(context.Background(), zap.NewNop(), sim, nil)
	if !errors.Is(err, indexdata.ErrUnavailable) {
		t.Errorf("Compare() error = %v, expected ErrUnavailable", err)
	}
}

func TestCompareInvalidParameters(t *testing.T) {
	sim := referenceSimulation()
	sim.Loan.TermMonths = 0

	_, err := Compare(context.Background(), zap.NewNop(), sim, nil)
	if !errors.Is(err, amortization.ErrInvalidParameter) {
		t.Errorf("Compare() error = %v, expected ErrInvalidParameter", err)
	}
}

func TestCompareEqualTermsDifferentPlans(t *testing.T) {
	// Price installments start well above the consortium installment, so
	// the gap account accumulates early and the simulation reports totals.
	sim := referenceSimulation()
	result, err := Compare(context.Background(), zap.NewNop(), sim, nil)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}

	if result.Gap.Months[0].Gap <= 0 {
		t.Errorf("month 1 gap = %.2f, expected the loan installment above the consortium's",
			result.Gap.Months[0].Gap)
	}
	if result.Gap.TotalContributed <= 0 {
		t.Errorf("total contributed = %.2f, expected positive", result.Gap.TotalContributed)
	}
}
