// Package constants provides shared constants for consortium-compare.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01
)

// Consortium defaults; all of these are overridable in the configuration.
const (
	// DefaultAdminFraction is the administrative fee applied once on the
	// total value (20%)
	DefaultAdminFraction = 0.20

	// DefaultReserveFraction is the reserve-fund fee applied once on the
	// total value (3%)
	DefaultReserveFraction = 0.03

	// DefaultAnnualAdjustmentFactor is the fixed annual price adjustment
	// applied to consortium installments (5% per year)
	DefaultAnnualAdjustmentFactor = 1.05
)

// Root-finding constants for the IRR solver
const (
	// IRRTolerance is the NPV convergence tolerance for the IRR bisection
	IRRTolerance = 1e-7

	// IRRRateTolerance is the bracket-width convergence tolerance; once the
	// bracket is this narrow the midpoint is the root for any practical
	// purpose even when currency-scale NPV noise stays above IRRTolerance
	IRRRateTolerance = 1e-12

	// IRRMaxIterations bounds the bisection; past this the IRR is reported
	// as not found rather than returning a half-converged root
	IRRMaxIterations = 200

	// IRRLowerBound is the lowest periodic rate probed by the solver; a
	// rate of -100% is a pole of the discount factor
	IRRLowerBound = -0.9999

	// IRRUpperBound is the highest periodic rate probed by the solver
	IRRUpperBound = 100.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxRequestSizeBytes is the default maximum request body size
	// for the compare endpoint (64 KB)
	DefaultMaxRequestSizeBytes int64 = 64 * 1024
)

// Index data defaults
const (
	// DefaultIndexSeries is the central-bank SGS series code for the IPCA
	// monthly variation
	DefaultIndexSeries = 433

	// TrailingIndexMonths is the number of monthly observations required to
	// derive an annual adjustment factor
	TrailingIndexMonths = 12
)
