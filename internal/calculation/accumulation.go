package calculation

import (
	"math"
	"time"

	"github.com/stormplan/stormplan/internal/domain"
	"github.com/stormplan/stormplan/pkg/dateutil"
)

// SimulateAccumulation buys a fixed currency amount each month before retirement.
// Prices come from the scenario in p, offset from the plan's start year.
func (e *Engine) SimulateAccumulation(plan domain.AccumulationPlan, p domain.SimulationParameters) (*domain.AccumulationResult, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	if _, err := e.prepare(p); err != nil {
		return nil, err
	}

	result := &domain.AccumulationResult{
		Years:          make([]domain.AccumulationYear, 0, plan.Years),
		FinalStake:     plan.InitialStake,
		RetirementYear: plan.StartYear + plan.Years,
	}
	cumulative := plan.InitialStake
	var costBasis, acquiredTotal float64

	for y := 0; y < plan.Years; y++ {
		year := plan.StartYear + y
		purchase := plan.MonthlyPurchase * math.Pow(1+plan.IncomeGrowth, float64(y))
		var contributed, acquired float64

		for m := time.January; m <= time.December; m++ {
			offset := float64(y) + float64(m-time.January)/12
			k := e.Oracle.ResolveScenarioK(p.Scenario, offset, p.StartDeviation)
			price := e.Oracle.ScenarioPrice(p.Model, dateutil.MonthStart(year, m), p.Sigma, k)
			if price <= 0 {
				e.Logger.Warnf("skipping purchase in %d-%02d: no price", year, int(m))
				continue
			}
			contributed += purchase
			acquired += purchase / price
		}

		cumulative += acquired
		costBasis += contributed
		acquiredTotal += acquired

		avg := 0.0
		if acquiredTotal > 0 {
			avg = costBasis / acquiredTotal
		}
		result.Years = append(result.Years, domain.AccumulationYear{
			Year:        year,
			Contributed: contributed,
			Acquired:    acquired,
			Cumulative:  cumulative,
			CostBasis:   costBasis,
			AvgPrice:    avg,
		})
	}
	result.FinalStake = cumulative
	return result, nil
}

// RunWithAccumulation accumulates first and then projects the plan from the new
// stake and shifted retirement year. p.TotalStake and p.RetirementYear are replaced.
func (e *Engine) RunWithAccumulation(plan domain.AccumulationPlan, p domain.SimulationParameters) (*domain.AccumulatedPlan, error) {
	acc, err := e.SimulateAccumulation(plan, p)
	if err != nil {
		return nil, err
	}
	retired := p.WithStake(acc.FinalStake).WithRetirementYear(acc.RetirementYear)
	projection, err := e.Project(retired)
	if err != nil {
		return nil, err
	}
	return &domain.AccumulatedPlan{Accumulation: acc, Projection: projection}, nil
}
