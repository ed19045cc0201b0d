package domain

import "fmt"

// AccumulationPlan describes periodic purchases made before retirement.
type AccumulationPlan struct {
	StartYear       int     `json:"start_year"`
	Years           int     `json:"years"`
	MonthlyPurchase float64 `json:"monthly_purchase"`
	IncomeGrowth    float64 `json:"income_growth"`
	InitialStake    float64 `json:"initial_stake"`
}

// Validate checks the plan describes a non-negative purchase schedule.
func (a AccumulationPlan) Validate() error {
	switch {
	case a.Years < 0 || a.Years > 100:
		return fmt.Errorf("%w: accumulation years must be between 0 and 100", ErrInvalidParameters)
	case a.MonthlyPurchase < 0:
		return fmt.Errorf("%w: monthly purchase cannot be negative", ErrInvalidParameters)
	case a.IncomeGrowth < 0 || a.IncomeGrowth > 0.5:
		return fmt.Errorf("%w: income growth must be between 0 and 50%%", ErrInvalidParameters)
	case a.InitialStake < 0:
		return fmt.Errorf("%w: initial stake cannot be negative", ErrInvalidParameters)
	}
	return nil
}

// AccumulationYear is the per-year purchase trace.
type AccumulationYear struct {
	Year        int     `json:"year"`
	Contributed float64 `json:"contributed"`
	Acquired    float64 `json:"acquired"`
	Cumulative  float64 `json:"cumulative"`
	CostBasis   float64 `json:"cost_basis"`
	AvgPrice    float64 `json:"avg_price"`
}

// AccumulationResult is the accumulated stake handed off to retirement.
type AccumulationResult struct {
	Years          []AccumulationYear `json:"years"`
	FinalStake     float64            `json:"final_stake"`
	RetirementYear int                `json:"retirement_year"`
}

// AccumulatedPlan couples the accumulation phase with the retirement projection.
type AccumulatedPlan struct {
	Accumulation *AccumulationResult `json:"accumulation"`
	Projection   *PlanProjection     `json:"projection"`
}
