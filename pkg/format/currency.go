// Package format provides locale display formatting for monetary values and
// rates. Formatting happens only at the presentation boundary; the
// computation packages deal in plain float64 values.
package format

import (
	"fmt"
	"math"
	"strings"
)

// BRL returns a Brazilian-locale currency string: thousands grouped with a
// period, decimals with a comma, prefixed "R$" (e.g. "R$ 1.234,56",
// "-R$ 1.234,56").
func BRL(amount float64) string {
	formatted := formatPositiveAmount(math.Abs(amount))
	if amount < 0 {
		return "-R$ " + formatted
	}
	return "R$ " + formatted
}

// Percent renders a fractional rate as a percentage string with two
// decimals and a comma separator (e.g. 0.1234 -> "12,34%").
func Percent(fraction float64) string {
	return strings.Replace(fmt.Sprintf("%.2f%%", fraction*100), ".", ",", 1)
}

func formatPositiveAmount(value float64) string {
	formatted := fmt.Sprintf("%.2f", value)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte('.')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "," + decPart
}
