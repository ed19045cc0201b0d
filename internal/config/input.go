package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/stormplan/stormplan/internal/calculation"
	"github.com/stormplan/stormplan/internal/domain"
	"github.com/stormplan/stormplan/internal/trend"
	money "github.com/stormplan/stormplan/pkg/decimal"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "STORMPLAN_"

const (
	defaultModel      = "power-law"
	defaultMaxHorizon = 100
)

// ModelLookup resolves trend models by name; *trend.Registry implements it.
type ModelLookup interface {
	Model(name string) (trend.Model, error)
}

// InputParser handles parsing of plan configuration files
type InputParser struct {
	// Environ replaces the process environment for overrides when non-nil.
	Environ map[string]string
}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// envOverrides are applied on top of the file; unset variables leave fields untouched.
type envOverrides struct {
	TotalStake     *float64 `env:"TOTAL_STAKE"`
	Split          *float64 `env:"SPLIT"`
	AnnualBurn     *string  `env:"ANNUAL_BURN"`
	BurnGrowth     *float64 `env:"BURN_GROWTH"`
	RetirementYear *int     `env:"RETIREMENT_YEAR"`
	MaxHorizon     *int     `env:"MAX_HORIZON"`
	Model          *string  `env:"MODEL"`
	Scenario       *string  `env:"SCENARIO"`
	LTV            *float64 `env:"LTV"`
	LoanRate       *float64 `env:"LOAN_RATE"`
	Paths          *int     `env:"MC_PATHS"`
	Seed           *int64   `env:"MC_SEED"`
	Workers        *int     `env:"MC_WORKERS"`
}

// LoadFromFile loads configuration from a YAML, JSON or TOML file, applies
// environment overrides and validates the result.
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var config domain.Configuration
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".toml":
		if err := toml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	applyDefaults(&config)
	if err := ip.ApplyEnvOverrides(&config); err != nil {
		return nil, err
	}

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &config, nil
}

func applyDefaults(config *domain.Configuration) {
	if config.Plan.Model == "" {
		config.Plan.Model = defaultModel
	}
	if config.Plan.Scenario == "" {
		config.Plan.Scenario = string(domain.ScenarioSmoothTrend)
	}
	if config.Plan.MaxHorizon == 0 {
		config.Plan.MaxHorizon = defaultMaxHorizon
	}
}

// ApplyEnvOverrides copies STORMPLAN_* variables into the configuration.
func (ip *InputParser) ApplyEnvOverrides(config *domain.Configuration) error {
	var o envOverrides
	opts := env.Options{Prefix: EnvPrefix, Environment: ip.Environ}
	if err := env.ParseWithOptions(&o, opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	plan := &config.Plan
	setIf(&plan.TotalStake, o.TotalStake)
	setIf(&plan.Split, o.Split)
	setIf(&plan.BurnGrowth, o.BurnGrowth)
	setIf(&plan.RetirementYear, o.RetirementYear)
	setIf(&plan.MaxHorizon, o.MaxHorizon)
	setIf(&plan.Model, o.Model)
	setIf(&plan.Scenario, o.Scenario)
	setIf(&config.Loan.LTV, o.LTV)
	setIf(&config.Loan.InterestRate, o.LoanRate)
	setIf(&config.MonteCarlo.Paths, o.Paths)
	setIf(&config.MonteCarlo.Seed, o.Seed)
	setIf(&config.MonteCarlo.Workers, o.Workers)

	if o.AnnualBurn != nil {
		burn, err := money.NewMoneyFromString(*o.AnnualBurn)
		if err != nil {
			return fmt.Errorf("parse env: %sANNUAL_BURN: %w", EnvPrefix, err)
		}
		plan.AnnualBurn = burn.Decimal
	}
	return nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// ValidateConfiguration validates the loaded configuration
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if err := ip.validatePlan(&config.Plan); err != nil {
		return fmt.Errorf("plan validation failed: %w", err)
	}
	if config.Withdrawal != nil {
		if err := config.Withdrawal.Validate(); err != nil {
			return fmt.Errorf("withdrawal validation failed: %w", err)
		}
	}
	if err := ip.validateLoan(&config.Loan); err != nil {
		return fmt.Errorf("loan validation failed: %w", err)
	}
	if err := ip.validateMonteCarlo(&config.MonteCarlo); err != nil {
		return fmt.Errorf("monte carlo validation failed: %w", err)
	}
	if config.Search.MaxIterations < 0 || config.Search.StakeTolerance < 0 ||
		config.Search.BurnTolerance < 0 || config.Search.MaxRetirementDelay < 0 {
		return fmt.Errorf("search settings cannot be negative")
	}
	if config.Accumulation != nil {
		if err := ip.validateAccumulation(config.Accumulation); err != nil {
			return fmt.Errorf("accumulation validation failed: %w", err)
		}
	}
	if config.Lifetime != nil {
		if err := ip.validateLifetime(config.Lifetime); err != nil {
			return fmt.Errorf("lifetime validation failed: %w", err)
		}
	}
	return nil
}

// validatePlan validates the core plan inputs
func (ip *InputParser) validatePlan(plan *domain.PlanConfig) error {
	if plan.TotalStake < 0 {
		return fmt.Errorf("total stake cannot be negative")
	}
	if plan.Split < 0 || plan.Split > 1 {
		return fmt.Errorf("split must be between 0 and 1")
	}
	if plan.AnnualBurn.LessThan(decimal.Zero) {
		return fmt.Errorf("annual burn cannot be negative")
	}
	if plan.BurnGrowth < 0 || plan.BurnGrowth > 0.5 {
		return fmt.Errorf("burn growth must be between 0 and 0.5")
	}
	if plan.RetirementYear < 2010 || plan.RetirementYear > 2200 {
		return fmt.Errorf("retirement year %d is out of range", plan.RetirementYear)
	}
	if plan.MaxHorizon < 1 || plan.MaxHorizon > 200 {
		return fmt.Errorf("max horizon must be between 1 and 200 years")
	}
	if plan.Sigma < 0 {
		return fmt.Errorf("sigma cannot be negative")
	}
	if _, err := domain.ParseScenario(plan.Scenario); err != nil {
		return err
	}
	return nil
}

// validateLoan validates the loan facility
func (ip *InputParser) validateLoan(loan *domain.LoanConfig) error {
	if loan.LTV < 0 || loan.LTV >= 1 {
		return fmt.Errorf("ltv must be in [0,1)")
	}
	if loan.InterestRate < 0 || loan.InterestRate > 0.5 {
		return fmt.Errorf("interest rate must be between 0 and 0.5")
	}
	return nil
}

func (ip *InputParser) validateMonteCarlo(mc *domain.MonteCarloSettings) error {
	if mc.Paths < 0 || mc.Paths > 100000 {
		return fmt.Errorf("paths must be between 0 and 100000")
	}
	if mc.Workers < 0 {
		return fmt.Errorf("workers cannot be negative")
	}
	if mc.FloorMultiple < 0 || mc.FloorMultiple >= 1 {
		return fmt.Errorf("floor multiple must be in [0,1)")
	}
	return nil
}

func (ip *InputParser) validateAccumulation(acc *domain.AccumulationConfig) error {
	if acc.Years < 0 {
		return fmt.Errorf("years cannot be negative")
	}
	if acc.MonthlyPurchase.LessThan(decimal.Zero) {
		return fmt.Errorf("monthly purchase cannot be negative")
	}
	if acc.IncomeGrowth < 0 || acc.IncomeGrowth > 0.5 {
		return fmt.Errorf("income growth must be between 0 and 0.5")
	}
	return nil
}

// validateLifetime validates ages; an infeasible retirement age is reported
// by the calculation, not rejected here.
func (ip *InputParser) validateLifetime(lt *domain.LifetimeConfig) error {
	if lt.CurrentAge <= 0 || lt.LifeExpectancy <= 0 {
		return fmt.Errorf("current age and life expectancy must be positive")
	}
	if lt.LifeExpectancy > 130 {
		return fmt.Errorf("life expectancy %d is not plausible", lt.LifeExpectancy)
	}
	if lt.RetirementAge < 0 {
		return fmt.Errorf("retirement age cannot be negative")
	}
	return nil
}

// BuildParameters converts the plan section into engine parameters.
// A zero sigma takes the model's canonical value.
func BuildParameters(config *domain.Configuration, models ModelLookup) (domain.SimulationParameters, error) {
	plan := config.Plan
	model, err := models.Model(plan.Model)
	if err != nil {
		return domain.SimulationParameters{}, fmt.Errorf("failed to resolve model: %w", err)
	}
	scenario, err := domain.ParseScenario(plan.Scenario)
	if err != nil {
		return domain.SimulationParameters{}, err
	}
	sigma := plan.Sigma
	if sigma == 0 {
		sigma = model.Sigma
	}
	thresholds := domain.DefaultThresholds()
	if config.Withdrawal != nil {
		thresholds = *config.Withdrawal
	}

	params := domain.SimulationParameters{
		TotalStake:     plan.TotalStake,
		Split:          plan.Split,
		AnnualBurn:     plan.AnnualBurn.InexactFloat64(),
		BurnGrowth:     plan.BurnGrowth,
		RetirementYear: plan.RetirementYear,
		MaxHorizon:     plan.MaxHorizon,
		Model:          model.Name,
		Sigma:          sigma,
		Scenario:       scenario,
		StartDeviation: plan.StartDeviation,
		Thresholds:     thresholds,
		LTV:            config.Loan.LTV,
		LoanRate:       config.Loan.InterestRate,
	}
	if err := params.Validate(); err != nil {
		return domain.SimulationParameters{}, err
	}
	return params, nil
}

// SearchConfig maps the search section onto optimizer settings.
func SearchConfig(config *domain.Configuration) calculation.SearchConfig {
	cfg := calculation.DefaultSearchConfig()
	s := config.Search
	if s.MaxIterations > 0 {
		cfg.MaxIterations = s.MaxIterations
	}
	if s.StakeTolerance > 0 {
		cfg.StakeTolerance = s.StakeTolerance
	}
	if s.BurnTolerance > 0 {
		cfg.BurnTolerance = s.BurnTolerance
	}
	if s.MaxRetirementDelay > 0 {
		cfg.MaxRetirementDelay = s.MaxRetirementDelay
	}
	return cfg
}

// MonteCarloConfig maps the monte_carlo section onto estimator settings.
func MonteCarloConfig(config *domain.Configuration) calculation.MonteCarloConfig {
	cfg := calculation.DefaultMonteCarloConfig()
	mc := config.MonteCarlo
	if mc.Paths > 0 {
		cfg.Paths = mc.Paths
	}
	if mc.FloorMultiple > 0 {
		cfg.FloorMultiple = mc.FloorMultiple
	}
	if mc.Workers > 0 {
		cfg.Workers = mc.Workers
	}
	cfg.Seed = mc.Seed
	return cfg
}

// AccumulationPlan returns the purchase plan seeded with the configured stake.
// ok is false when the file has no accumulation section.
func AccumulationPlan(config *domain.Configuration) (plan domain.AccumulationPlan, ok bool) {
	acc := config.Accumulation
	if acc == nil {
		return domain.AccumulationPlan{}, false
	}
	return domain.AccumulationPlan{
		StartYear:       acc.StartYear,
		Years:           acc.Years,
		MonthlyPurchase: acc.MonthlyPurchase.InexactFloat64(),
		IncomeGrowth:    acc.IncomeGrowth,
		InitialStake:    config.Plan.TotalStake,
	}, true
}

// LifetimeParams combines the lifetime section with the plan's burn and price path.
// ok is false when the file has no lifetime section.
func LifetimeParams(config *domain.Configuration, params domain.SimulationParameters) (lp domain.LifetimeNeedParams, ok bool) {
	lt := config.Lifetime
	if lt == nil {
		return domain.LifetimeNeedParams{}, false
	}
	return domain.LifetimeNeedParams{
		CurrentYear:    lt.CurrentYear,
		CurrentAge:     lt.CurrentAge,
		RetirementAge:  lt.RetirementAge,
		LifeExpectancy: lt.LifeExpectancy,
		AnnualBurn:     params.AnnualBurn,
		BurnGrowth:     params.BurnGrowth,
		Stake:          params.TotalStake,
		Model:          params.Model,
		Sigma:          params.Sigma,
		Scenario:       params.Scenario,
		StartDeviation: params.StartDeviation,
	}, true
}

// Encode renders a configuration as YAML, or TOML when format is "toml".
func Encode(config *domain.Configuration, format string) ([]byte, error) {
	var buf bytes.Buffer
	switch strings.ToLower(format) {
	case "toml":
		if err := toml.NewEncoder(&buf).Encode(config); err != nil {
			return nil, fmt.Errorf("failed to encode TOML: %w", err)
		}
	case "", "yaml", "yml":
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(config); err != nil {
			return nil, fmt.Errorf("failed to encode YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}
	return buf.Bytes(), nil
}

// CreateExampleConfiguration creates an example configuration file
func (ip *InputParser) CreateExampleConfiguration() *domain.Configuration {
	thresholds := domain.DefaultThresholds()
	search := calculation.DefaultSearchConfig()
	mc := calculation.DefaultMonteCarloConfig()

	return &domain.Configuration{
		Name: "One coin, half navigation",
		Plan: domain.PlanConfig{
			TotalStake:     1.0,
			Split:          0.5,
			AnnualBurn:     decimal.NewFromInt(50000),
			BurnGrowth:     0.065,
			RetirementYear: 2030,
			MaxHorizon:     defaultMaxHorizon,
			Model:          defaultModel,
			Scenario:       string(domain.ScenarioSmoothTrend),
		},
		Withdrawal: &thresholds,
		Loan: domain.LoanConfig{
			LTV:          0.5,
			InterestRate: 0.08,
		},
		Search: domain.SearchSettings{
			MaxIterations:      search.MaxIterations,
			StakeTolerance:     search.StakeTolerance,
			BurnTolerance:      search.BurnTolerance,
			MaxRetirementDelay: search.MaxRetirementDelay,
		},
		MonteCarlo: domain.MonteCarloSettings{
			Paths:         mc.Paths,
			Seed:          42,
			FloorMultiple: mc.FloorMultiple,
			Workers:       mc.Workers,
		},
		Accumulation: &domain.AccumulationConfig{
			StartYear:       2026,
			Years:           4,
			MonthlyPurchase: decimal.NewFromInt(1000),
			IncomeGrowth:    0.03,
		},
		Lifetime: &domain.LifetimeConfig{
			CurrentYear:    2026,
			CurrentAge:     40,
			RetirementAge:  44,
			LifeExpectancy: 90,
		},
	}
}
