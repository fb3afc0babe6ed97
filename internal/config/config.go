// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"fmt"

	"consortium-compare/pkg/amortization"
	"consortium-compare/pkg/consortium"
	"consortium-compare/pkg/constants"
	"consortium-compare/pkg/mathutil"
	"github.com/spf13/viper"
)

// Adjustment source selections accepted in the configuration.
const (
	AdjustmentFixed = "fixed"
	AdjustmentIndex = "index"
)

// Cache backend selections for the index series cache.
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Configuration holds all configuration for consortium-compare.
type Configuration struct {
	Simulation SimulationConfig
	IndexCache IndexCacheConfig `yaml:"indexCache,omitempty"`
	Logging    LoggingConfig    `yaml:"logging,omitempty"`
	Output     OutputConfig     `yaml:"output,omitempty"`
	Server     ServerConfig     `yaml:"server,omitempty"`
}

// IndexCacheConfig holds caching options for the fetched index series.
type IndexCacheConfig struct {
	Backend      string `yaml:"backend,omitempty"` // memory, redis
	RedisAddress string `yaml:"redisAddress,omitempty"`
	TTLHours     int    `yaml:"ttlHours,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// ServerConfig holds HTTP API configuration options
type ServerConfig struct {
	Address string `yaml:"address,omitempty"`
}

// SimulationConfig holds the comparison scenario parameters. Percent fields
// are human-facing (8.0 means 8%); conversion to fractions happens in the
// accessor methods.
type SimulationConfig struct {
	TotalValue          float64
	DownPayment         float64
	Loan                LoanConfig
	Consortium          ConsortiumConfig
	GapYieldPercent     float64 // annual yield for investing the payment gap
	DiscountRatePercent float64 // annual discount rate for NPV
	EffectiveCost       EffectiveCostConfig
}

// LoanConfig holds the financing parameters.
type LoanConfig struct {
	AnnualRatePercent float64
	TermMonths        int
	Convention        string // price, sac
}

// ConsortiumConfig holds the consortium plan parameters.
type ConsortiumConfig struct {
	TermMonths              int
	AdminPercent            float64
	ReservePercent          float64
	Adjustment              string  // fixed, index
	AnnualAdjustmentPercent float64 // used when adjustment is fixed
	IndexSeries             int     // SGS series code when adjustment is index
}

// EffectiveCostConfig holds the fee parameters for the effective-cost IRR
// variants.
type EffectiveCostConfig struct {
	TaxPercent       float64 // up-front transaction tax on the principal
	MonthlyInsurance float64 // flat monthly insurance added to loan payments
}

// Default returns a configuration populated with the documented default
// scenario. It backs the example-config endpoint and fills gaps left by a
// partial config file.
func Default() Configuration {
	return Configuration{
		Simulation: SimulationConfig{
			TotalValue:  500000.00,
			DownPayment: 100000.00,
			Loan: LoanConfig{
				AnnualRatePercent: 8.0,
				TermMonths:        120,
				Convention:        string(amortization.Price),
			},
			Consortium: ConsortiumConfig{
				TermMonths:              180,
				AdminPercent:            constants.DefaultAdminFraction * constants.PercentageMultiplier,
				ReservePercent:          constants.DefaultReserveFraction * constants.PercentageMultiplier,
				Adjustment:              AdjustmentFixed,
				AnnualAdjustmentPercent: (constants.DefaultAnnualAdjustmentFactor - 1) * constants.PercentageMultiplier,
				IndexSeries:             constants.DefaultIndexSeries,
			},
			GapYieldPercent:     10.0,
			DiscountRatePercent: 8.0,
			EffectiveCost: EffectiveCostConfig{
				TaxPercent:       0.38,
				MonthlyInsurance: 0.0,
			},
		},
		IndexCache: IndexCacheConfig{Backend: CacheBackendMemory, TTLHours: 24},
		Logging:    LoggingConfig{Level: "info", Format: "console"},
		Output:     OutputConfig{Format: constants.OutputFormatPretty},
		Server:     ServerConfig{Address: constants.DefaultServerAddress},
	}
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	viper.SetConfigFile(configPath)
	viper.AutomaticEnv()

	viper.SetConfigType("yml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	configuration := Default()
	err := viper.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}

// Validate rejects configurations the simulation cannot run on. Parameter
// validation proper lives with the computation packages; this surfaces the
// same errors before any work starts.
func (c *Configuration) Validate() error {
	sim := c.Simulation
	if sim.DownPayment > sim.TotalValue {
		return fmt.Errorf("%w: down payment %.2f exceeds total value %.2f",
			amortization.ErrInvalidParameter, sim.DownPayment, sim.TotalValue)
	}
	if err := sim.LoanParameters().Validate(); err != nil {
		return err
	}
	if sim.GapYieldPercent < 0 {
		return fmt.Errorf("%w: gap yield must be >= 0, got %.2f",
			amortization.ErrInvalidParameter, sim.GapYieldPercent)
	}
	if sim.DiscountRatePercent < 0 {
		return fmt.Errorf("%w: discount rate must be >= 0, got %.2f",
			amortization.ErrInvalidParameter, sim.DiscountRatePercent)
	}
	if sim.Consortium.Adjustment != AdjustmentFixed && sim.Consortium.Adjustment != AdjustmentIndex {
		return fmt.Errorf("%w: adjustment must be %q or %q, got %q",
			consortium.ErrInvalidParameter, AdjustmentFixed, AdjustmentIndex, sim.Consortium.Adjustment)
	}
	// The consortium parameters are validated with a placeholder fixed
	// adjustment; the real source may come from the index provider later.
	params := sim.ConsortiumParameters(consortium.FixedAdjustment(1))
	return params.Validate()
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings for suspect-but-legal values.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string
	sim := c.Simulation
	if sim.Loan.AnnualRatePercent > 50 {
		warnings = append(warnings, fmt.Sprintf("loan annual rate of %.2f%% is unusually high", sim.Loan.AnnualRatePercent))
	}
	if sim.Loan.TermMonths > 600 {
		warnings = append(warnings, fmt.Sprintf("loan term of %d months is unusually long", sim.Loan.TermMonths))
	}
	if sim.Consortium.TermMonths > 600 {
		warnings = append(warnings, fmt.Sprintf("consortium term of %d months is unusually long", sim.Consortium.TermMonths))
	}
	if sim.Consortium.Adjustment == AdjustmentFixed && sim.Consortium.AnnualAdjustmentPercent < 0 {
		warnings = append(warnings, "negative annual adjustment means consortium installments shrink over time")
	}
	if sim.DownPayment == 0 {
		warnings = append(warnings, "down payment is zero; the full value is financed")
	}
	return warnings
}

// Principal returns the financed value: total value minus down payment.
func (s SimulationConfig) Principal() float64 {
	return s.TotalValue - s.DownPayment
}

// LoanParameters converts the loan section into amortization parameters.
func (s SimulationConfig) LoanParameters() amortization.Parameters {
	return amortization.Parameters{
		Principal:  s.Principal(),
		AnnualRate: mathutil.FractionFromPercent(s.Loan.AnnualRatePercent),
		TermMonths: s.Loan.TermMonths,
		Convention: amortization.Convention(s.Loan.Convention),
	}
}

// ConsortiumParameters converts the consortium section into generator
// parameters with the given adjustment source.
func (s SimulationConfig) ConsortiumParameters(adjustment consortium.AdjustmentSource) consortium.Parameters {
	return consortium.Parameters{
		TotalValue:      s.TotalValue,
		AdminFraction:   mathutil.FractionFromPercent(s.Consortium.AdminPercent),
		ReserveFraction: mathutil.FractionFromPercent(s.Consortium.ReservePercent),
		TermMonths:      s.Consortium.TermMonths,
		Adjustment:      adjustment,
	}
}

// FixedAdjustmentFactor returns the configured fixed annual factor (5.0%
// becomes 1.05).
func (s SimulationConfig) FixedAdjustmentFactor() consortium.FixedAdjustment {
	return consortium.FixedAdjustment(1 + mathutil.FractionFromPercent(s.Consortium.AnnualAdjustmentPercent))
}

// MonthlyGapYield returns the effective monthly yield for the gap
// investment, converted from the configured annual percentage.
func (s SimulationConfig) MonthlyGapYield() float64 {
	return amortization.MonthlyRate(mathutil.FractionFromPercent(s.GapYieldPercent))
}

// MonthlyDiscountRate returns the effective monthly discount rate for NPV,
// converted from the configured annual percentage.
func (s SimulationConfig) MonthlyDiscountRate() float64 {
	return amortization.MonthlyRate(mathutil.FractionFromPercent(s.DiscountRatePercent))
}

// TaxFraction returns the up-front tax as a fraction of the principal.
func (s SimulationConfig) TaxFraction() float64 {
	return mathutil.FractionFromPercent(s.EffectiveCost.TaxPercent)
}
