// Package output provides utilities for formatting and displaying
// comparison results.
package output

import (
	"fmt"

	"consortium-compare/internal/simulation"
	"consortium-compare/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// irrNotFound is what an undefined internal rate of return renders as.
const irrNotFound = "—"

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(result *simulation.Result) {
	p := message.NewPrinter(language.BrazilianPortuguese)

	fmt.Printf("--- Comparison summary ---\n")
	fmt.Printf("Plan       | Total Paid        | NPV               | IRR (a.a.) | Eff. Cost (a.a.)\n")
	fmt.Printf("____       | __________        | ___               | __________ | ________________\n")
	printPlanRow(result.Loan.Convention, result.Loan.Analytics)
	printPlanRow("consortium", result.Consortium.Analytics)

	fmt.Printf("\n--- Gap investment ---\n")
	if result.Gap.HasBreakEven {
		fmt.Printf("Break-even month:  %d\n", result.Gap.BreakEvenMonth)
	} else {
		fmt.Printf("Break-even month:  never occurred\n")
	}
	fmt.Printf("Total contributed: %s\n", format.BRL(result.Gap.TotalContributed))
	fmt.Printf("Total interest:    %s\n", format.BRL(result.Gap.TotalInterest))

	fmt.Printf("\n--- Monthly detail ---\n")
	fmt.Printf("Month | %-10s | Consortium | Gap        | Balance\n", "Loan")
	fmt.Printf("_____ | __________ | __________ | ___        | _______\n")
	for _, row := range result.Gap.Months {
		_, _ = p.Printf("%5d | %10.2f | %10.2f | %10.2f | %12.2f\n",
			row.Month,
			paymentAt(result.Loan.Payments, row.Month),
			paymentAt(result.Consortium.Payments, row.Month),
			row.Gap,
			row.Balance,
		)
	}
}

func printPlanRow(name string, a simulation.Analytics) {
	fmt.Printf("%-10s | %-17s | %-17s | %-10s | %s\n",
		name,
		format.BRL(a.TotalPaid),
		format.BRL(a.NPV),
		rateOrDash(a.IRRAnnual),
		rateOrDash(a.EffectiveCostAnnual),
	)
}

func rateOrDash(rate *float64) string {
	if rate == nil {
		return irrNotFound
	}
	return format.Percent(*rate)
}

func paymentAt(payments []float64, month int) float64 {
	if month < 1 || month > len(payments) {
		return 0
	}
	return payments[month-1]
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(result *simulation.Result) {
	fmt.Printf("\"month\",\"loan payment\",\"consortium payment\",\"gap\",\"contribution\",\"interest\",\"balance\"\n")
	for _, row := range result.Gap.Months {
		fmt.Printf("\"%d\",\"%.2f\",\"%.2f\",\"%.2f\",\"%.2f\",\"%.2f\",\"%.2f\"\n",
			row.Month,
			paymentAt(result.Loan.Payments, row.Month),
			paymentAt(result.Consortium.Payments, row.Month),
			row.Gap,
			row.Contribution,
			row.Interest,
			row.Balance,
		)
	}
}
