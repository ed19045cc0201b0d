package domain

import (
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Configuration is the plan file schema (YAML or TOML).
type Configuration struct {
	Name         string                `yaml:"name" toml:"name" json:"name"`
	Plan         PlanConfig            `yaml:"plan" toml:"plan" json:"plan"`
	Withdrawal   *WithdrawalThresholds `yaml:"withdrawal,omitempty" toml:"withdrawal" json:"withdrawal,omitempty"`
	Loan         LoanConfig            `yaml:"loan" toml:"loan" json:"loan"`
	Search       SearchSettings        `yaml:"search" toml:"search" json:"search"`
	MonteCarlo   MonteCarloSettings    `yaml:"monte_carlo" toml:"monte_carlo" json:"monte_carlo"`
	Accumulation *AccumulationConfig   `yaml:"accumulation,omitempty" toml:"accumulation" json:"accumulation,omitempty"`
	Lifetime     *LifetimeConfig       `yaml:"lifetime,omitempty" toml:"lifetime" json:"lifetime,omitempty"`
}

// PlanConfig holds the core retirement plan inputs.
type PlanConfig struct {
	TotalStake     float64         `yaml:"total_stake" toml:"total_stake" json:"total_stake"`
	Split          float64         `yaml:"split" toml:"split" json:"split"`
	AnnualBurn     decimal.Decimal `yaml:"annual_burn" toml:"annual_burn" json:"annual_burn"`
	BurnGrowth     float64         `yaml:"burn_growth" toml:"burn_growth" json:"burn_growth"`
	RetirementYear int             `yaml:"retirement_year" toml:"retirement_year" json:"retirement_year"`
	MaxHorizon     int             `yaml:"max_horizon" toml:"max_horizon" json:"max_horizon"`
	Model          string          `yaml:"model" toml:"model" json:"model"`
	Sigma          float64         `yaml:"sigma,omitempty" toml:"sigma" json:"sigma,omitempty"` // 0 = model's canonical sigma
	Scenario       string          `yaml:"scenario" toml:"scenario" json:"scenario"`
	StartDeviation *float64        `yaml:"start_deviation,omitempty" toml:"start_deviation" json:"start_deviation,omitempty"`
}

// UnmarshalYAML implements custom YAML unmarshaling for PlanConfig
func (pc *PlanConfig) UnmarshalYAML(value *yaml.Node) error {
	// Define a temporary struct with string money fields for parsing
	type Alias struct {
		TotalStake     float64  `yaml:"total_stake"`
		Split          float64  `yaml:"split"`
		AnnualBurn     string   `yaml:"annual_burn"`
		BurnGrowth     float64  `yaml:"burn_growth"`
		RetirementYear int      `yaml:"retirement_year"`
		MaxHorizon     int      `yaml:"max_horizon"`
		Model          string   `yaml:"model"`
		Sigma          float64  `yaml:"sigma"`
		Scenario       string   `yaml:"scenario"`
		StartDeviation *float64 `yaml:"start_deviation"`
	}

	var aux Alias
	if err := value.Decode(&aux); err != nil {
		return err
	}

	pc.TotalStake = aux.TotalStake
	pc.Split = aux.Split
	pc.BurnGrowth = aux.BurnGrowth
	pc.RetirementYear = aux.RetirementYear
	pc.MaxHorizon = aux.MaxHorizon
	pc.Model = aux.Model
	pc.Sigma = aux.Sigma
	pc.Scenario = aux.Scenario
	pc.StartDeviation = aux.StartDeviation

	pc.AnnualBurn = decimal.Zero
	if aux.AnnualBurn != "" {
		val, err := decimal.NewFromString(aux.AnnualBurn)
		if err != nil {
			return err
		}
		pc.AnnualBurn = val
	}
	return nil
}

// LoanConfig configures the asset-backed loan facility.
type LoanConfig struct {
	LTV          float64 `yaml:"ltv" toml:"ltv" json:"ltv"`
	InterestRate float64 `yaml:"interest_rate" toml:"interest_rate" json:"interest_rate"`
}

// SearchSettings exposes optimizer tolerances and iteration caps.
type SearchSettings struct {
	MaxIterations      int     `yaml:"max_iterations,omitempty" toml:"max_iterations" json:"max_iterations,omitempty"`
	StakeTolerance     float64 `yaml:"stake_tolerance,omitempty" toml:"stake_tolerance" json:"stake_tolerance,omitempty"`
	BurnTolerance      float64 `yaml:"burn_tolerance,omitempty" toml:"burn_tolerance" json:"burn_tolerance,omitempty"`
	MaxRetirementDelay int     `yaml:"max_retirement_delay,omitempty" toml:"max_retirement_delay" json:"max_retirement_delay,omitempty"`
}

// MonteCarloSettings configures the stochastic risk estimator.
type MonteCarloSettings struct {
	Paths         int     `yaml:"paths,omitempty" toml:"paths" json:"paths,omitempty"`
	Seed          int64   `yaml:"seed,omitempty" toml:"seed" json:"seed,omitempty"`
	FloorMultiple float64 `yaml:"floor_multiple,omitempty" toml:"floor_multiple" json:"floor_multiple,omitempty"`
	Workers       int     `yaml:"workers,omitempty" toml:"workers" json:"workers,omitempty"`
}

// AccumulationConfig configures the optional pre-retirement purchase phase.
type AccumulationConfig struct {
	StartYear       int             `yaml:"start_year" toml:"start_year" json:"start_year"`
	Years           int             `yaml:"years" toml:"years" json:"years"`
	MonthlyPurchase decimal.Decimal `yaml:"monthly_purchase" toml:"monthly_purchase" json:"monthly_purchase"`
	IncomeGrowth    float64         `yaml:"income_growth" toml:"income_growth" json:"income_growth"`
}

// UnmarshalYAML implements custom YAML unmarshaling for AccumulationConfig
func (ac *AccumulationConfig) UnmarshalYAML(value *yaml.Node) error {
	type Alias struct {
		StartYear       int     `yaml:"start_year"`
		Years           int     `yaml:"years"`
		MonthlyPurchase string  `yaml:"monthly_purchase"`
		IncomeGrowth    float64 `yaml:"income_growth"`
	}

	var aux Alias
	if err := value.Decode(&aux); err != nil {
		return err
	}

	ac.StartYear = aux.StartYear
	ac.Years = aux.Years
	ac.IncomeGrowth = aux.IncomeGrowth
	ac.MonthlyPurchase = decimal.Zero
	if aux.MonthlyPurchase != "" {
		val, err := decimal.NewFromString(aux.MonthlyPurchase)
		if err != nil {
			return err
		}
		ac.MonthlyPurchase = val
	}
	return nil
}

// LifetimeConfig configures the lifetime need view.
type LifetimeConfig struct {
	CurrentYear    int `yaml:"current_year" toml:"current_year" json:"current_year"`
	CurrentAge     int `yaml:"current_age" toml:"current_age" json:"current_age"`
	RetirementAge  int `yaml:"retirement_age" toml:"retirement_age" json:"retirement_age"`
	LifeExpectancy int `yaml:"life_expectancy" toml:"life_expectancy" json:"life_expectancy"`
}
