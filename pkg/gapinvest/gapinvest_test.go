package gapinvest

import (
	"errors"
	"testing"

	"consortium-compare/pkg/schedule"
	"consortium-compare/pkg/testutil"
	"go.uber.org/zap"
)

func TestSimulateIdenticalSchedules(t *testing.T) {
	sched := schedule.New([]float64{1000, 1000, 1000})

	trace, err := Simulate(zap.NewNop(), sched, sched, 0.01)
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}

	// Zero gap every month keeps the balance at zero; a balance that never
	// was positive never breaks even, even though zero satisfies <= 0.
	if trace.HasBreakEven {
		t.Errorf("Simulate() break-even at month %d, expected never", trace.BreakEvenMonth)
	}
	for _, m := range trace.Months {
		if m.Gap != 0 || m.Balance != 0 || m.Contribution != 0 || m.Interest != 0 {
			t.Errorf("month %d not all-zero: %+v", m.Month, m)
		}
	}
	if trace.TotalContributed != 0 || trace.TotalInterest != 0 {
		t.Errorf("summary totals should be zero, got contributed %.2f interest %.2f",
			trace.TotalContributed, trace.TotalInterest)
	}
}

func TestSimulateBreakEven(t *testing.T) {
	// Month 1 contributes 50; month 2 withdraws 150 and exhausts the
	// balance; month 3 keeps being traced past break-even.
	schedA := schedule.New([]float64{100, 100, 100})
	schedB := schedule.New([]float64{50, 250, 50})

	trace, err := Simulate(zap.NewNop(), schedA, schedB, 0.01)
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}

	if !trace.HasBreakEven || trace.BreakEvenMonth != 2 {
		t.Fatalf("break-even = (%t, month %d), expected month 2", trace.HasBreakEven, trace.BreakEvenMonth)
	}

	// Month 1: gap 50, no interest yet, balance 50.
	testutil.AssertApprox(t, "month 1 balance", trace.Months[0].Balance, 50, 1e-9)
	testutil.AssertApprox(t, "month 1 contribution", trace.Months[0].Contribution, 50, 1e-9)

	// Month 2: interest 0.50 on the balance, then the -150 gap applies in
	// full; 50 + 0.5 - 150 = -99.5.
	testutil.AssertApprox(t, "month 2 interest", trace.Months[1].Interest, 0.50, 1e-9)
	testutil.AssertApprox(t, "month 2 balance", trace.Months[1].Balance, -99.50, 1e-9)
	if trace.Months[1].Contribution != 0 {
		t.Errorf("negative gap must not count as a contribution")
	}

	// The trace continues past break-even for charting.
	if len(trace.Months) != 3 {
		t.Fatalf("trace length = %d, expected the full horizon of 3", len(trace.Months))
	}
	testutil.AssertApprox(t, "month 3 balance", trace.Months[2].Balance, -99.50-0.995+50, 1e-9)

	// Summary totals cut off at the break-even month inclusive.
	testutil.AssertApprox(t, "total contributed", trace.TotalContributed, 50, 1e-9)
	testutil.AssertApprox(t, "total interest", trace.TotalInterest, 0.50, 1e-9)
}

func TestSimulatePadsShorterSchedule(t *testing.T) {
	schedA := schedule.New([]float64{100, 100})
	schedB := schedule.New([]float64{80, 80, 80, 80})

	trace, err := Simulate(zap.NewNop(), schedA, schedB, 0.01)
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}

	if len(trace.Months) != 4 {
		t.Fatalf("trace length = %d, expected the longer horizon of 4", len(trace.Months))
	}

	// After schedule A ends its padded payments are zero, so the gap turns
	// negative and drains the balance.
	testutil.AssertApprox(t, "month 2 balance", trace.Months[1].Balance, 20+0.2+20, 1e-9)
	testutil.AssertApprox(t, "month 3 balance", trace.Months[2].Balance, 40.2+0.402-80, 1e-9)
	if !trace.HasBreakEven || trace.BreakEvenMonth != 3 {
		t.Errorf("break-even = (%t, month %d), expected month 3", trace.HasBreakEven, trace.BreakEvenMonth)
	}
}

func TestSimulateNoBreakEven(t *testing.T) {
	// Schedule A always pays more; the balance only grows.
	schedA := schedule.New([]float64{200, 200, 200})
	schedB := schedule.New([]float64{100, 100, 100})

	trace, err := Simulate(nil, schedA, schedB, 0.01)
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}

	if trace.HasBreakEven {
		t.Errorf("break-even at month %d, expected never", trace.BreakEvenMonth)
	}

	// Without break-even the summary covers the full horizon.
	testutil.AssertApprox(t, "total contributed", trace.TotalContributed, 300, 1e-9)
	if trace.TotalInterest <= 0 {
		t.Errorf("total interest = %.4f, expected a positive accrual", trace.TotalInterest)
	}
}

func TestSimulateRejectsNegativeYield(t *testing.T) {
	sched := schedule.New([]float64{100})
	if _, err := Simulate(zap.NewNop(), sched, sched, -0.01); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("Simulate() error = %v, expected ErrInvalidParameter", err)
	}
}
