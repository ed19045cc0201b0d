package domain

import (
	"fmt"
	"math"
)

// WithdrawalThresholds configures the dynamic withdrawal rate policy.
// Multiples are price-to-trend ratios; rates are annual fractions of fund value.
type WithdrawalThresholds struct {
	LowMultiple  float64 `json:"low_multiple" yaml:"low_multiple" toml:"low_multiple"`
	HighMultiple float64 `json:"high_multiple" yaml:"high_multiple" toml:"high_multiple"`
	LowRate      float64 `json:"low_rate" yaml:"low_rate" toml:"low_rate"`
	NormalRate   float64 `json:"normal_rate" yaml:"normal_rate" toml:"normal_rate"`
	HighRate     float64 `json:"high_rate" yaml:"high_rate" toml:"high_rate"`
}

// DefaultThresholds returns the policy used when none is configured.
func DefaultThresholds() WithdrawalThresholds {
	return WithdrawalThresholds{
		LowMultiple:  0.5,
		HighMultiple: 2.0,
		LowRate:      0.02,
		NormalRate:   0.04,
		HighRate:     0.10,
	}
}

// Validate checks the thresholds bracket fair value and the rates are non-negative.
func (t WithdrawalThresholds) Validate() error {
	if !(t.LowMultiple > 0 && t.LowMultiple < 1) {
		return fmt.Errorf("low multiple must be in (0,1), got %v", t.LowMultiple)
	}
	if !(t.HighMultiple > 1) {
		return fmt.Errorf("high multiple must be greater than 1, got %v", t.HighMultiple)
	}
	if t.LowRate < 0 || t.NormalRate < 0 || t.HighRate < 0 {
		return fmt.Errorf("withdrawal rates cannot be negative")
	}
	if t.LowRate > 1 || t.NormalRate > 1 || t.HighRate > 1 {
		return fmt.Errorf("withdrawal rates cannot exceed 100%%")
	}
	return nil
}

// SimulationParameters is the immutable input to a single engine run.
// Search routines derive modified copies through the With* helpers.
type SimulationParameters struct {
	TotalStake     float64              `json:"total_stake"`
	Split          float64              `json:"split"` // navigation fund fraction
	AnnualBurn     float64              `json:"annual_burn"`
	BurnGrowth     float64              `json:"burn_growth"`
	RetirementYear int                  `json:"retirement_year"`
	MaxHorizon     int                  `json:"max_horizon"`
	Model          string               `json:"model"`
	Sigma          float64              `json:"sigma"`
	Scenario       Scenario             `json:"scenario"`
	StartDeviation *float64             `json:"start_deviation,omitempty"`
	Thresholds     WithdrawalThresholds `json:"thresholds"`
	LTV            float64              `json:"ltv"`
	LoanRate       float64              `json:"loan_rate"`
}

// Validate enforces the parameter invariants.
func (p SimulationParameters) Validate() error {
	switch {
	case math.IsNaN(p.TotalStake) || p.TotalStake < 0:
		return fmt.Errorf("%w: total stake cannot be negative", ErrInvalidParameters)
	case p.Split < 0 || p.Split > 1 || math.IsNaN(p.Split):
		return fmt.Errorf("%w: split must be between 0 and 1, got %v", ErrInvalidParameters, p.Split)
	case p.AnnualBurn < 0:
		return fmt.Errorf("%w: annual burn cannot be negative", ErrInvalidParameters)
	case p.BurnGrowth < 0 || p.BurnGrowth > 0.5:
		return fmt.Errorf("%w: burn growth must be between 0 and 50%%", ErrInvalidParameters)
	case p.LoanRate < 0 || p.LoanRate > 0.5:
		return fmt.Errorf("%w: loan rate must be between 0 and 50%%", ErrInvalidParameters)
	case p.LTV < 0 || p.LTV >= 1:
		return fmt.Errorf("%w: loan-to-value ceiling must be in [0,1)", ErrInvalidParameters)
	case !(p.Sigma > 0):
		return fmt.Errorf("%w: sigma must be positive", ErrInvalidParameters)
	case p.MaxHorizon <= 0 || p.MaxHorizon > 200:
		return fmt.Errorf("%w: max horizon must be between 1 and 200 years", ErrInvalidParameters)
	case p.Model == "":
		return fmt.Errorf("%w: model is required", ErrInvalidParameters)
	case !p.Scenario.Valid():
		return fmt.Errorf("%w: %w: %q", ErrInvalidParameters, ErrUnknownScenario, p.Scenario)
	}
	if err := p.Thresholds.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParameters, err)
	}
	return nil
}

// NavigationStake is the asset quantity assigned to the actively drawn-down fund.
func (p SimulationParameters) NavigationStake() float64 { return p.TotalStake * p.Split }

// ForeverStake is the asset quantity left to appreciate.
func (p SimulationParameters) ForeverStake() float64 { return p.TotalStake * (1 - p.Split) }

// BurnAt returns the inflated annual burn for the year offset from retirement.
func (p SimulationParameters) BurnAt(offset int) float64 {
	if offset <= 0 {
		return p.AnnualBurn
	}
	return p.AnnualBurn * math.Pow(1+p.BurnGrowth, float64(offset))
}

// WithStake returns a copy with a different total stake.
func (p SimulationParameters) WithStake(stake float64) SimulationParameters {
	p.TotalStake = stake
	return p
}

// WithSplit returns a copy with a different navigation fraction.
func (p SimulationParameters) WithSplit(split float64) SimulationParameters {
	p.Split = split
	return p
}

// WithBurn returns a copy with a different annual burn.
func (p SimulationParameters) WithBurn(burn float64) SimulationParameters {
	p.AnnualBurn = burn
	return p
}

// WithRetirementYear returns a copy starting retirement in a different year.
func (p SimulationParameters) WithRetirementYear(year int) SimulationParameters {
	p.RetirementYear = year
	return p
}
