// Package schedule defines the payment schedule value type shared by the
// loan and consortium generators.
package schedule

// Schedule is an ordered sequence of monthly payment amounts. Month indices
// are contiguous starting at 1; the amount for month m lives at position
// m-1. A Schedule is built once by a generator and never mutated afterwards.
type Schedule struct {
	payments []float64
}

// New builds a Schedule from a slice of payment amounts, month 1 first. The
// slice is copied so the caller cannot mutate the schedule afterwards.
func New(payments []float64) Schedule {
	copied := make([]float64, len(payments))
	copy(copied, payments)
	return Schedule{payments: copied}
}

// Len returns the schedule length in months.
func (s Schedule) Len() int {
	return len(s.payments)
}

// Amount returns the payment amount for the given 1-based month. Months
// outside the term pay zero, which is what the gap simulator relies on when
// two schedules have different lengths.
func (s Schedule) Amount(month int) float64 {
	if month < 1 || month > len(s.payments) {
		return 0
	}
	return s.payments[month-1]
}

// Total returns the sum of all payments in the schedule.
func (s Schedule) Total() float64 {
	total := 0.0
	for _, payment := range s.payments {
		total += payment
	}
	return total
}

// Amounts returns a copy of the payment amounts, month 1 first.
func (s Schedule) Amounts() []float64 {
	copied := make([]float64, len(s.payments))
	copy(copied, s.payments)
	return copied
}

// PadTo returns a copy of the schedule extended with zero payments up to
// length n. If n does not exceed the current length the copy is unchanged.
func (s Schedule) PadTo(n int) Schedule {
	length := len(s.payments)
	if n < length {
		n = length
	}
	padded := make([]float64, n)
	copy(padded, s.payments)
	return Schedule{payments: padded}
}
