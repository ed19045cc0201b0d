package calculation

import (
	"github.com/stormplan/stormplan/internal/domain"
	"github.com/stormplan/stormplan/internal/trend"
)

// CalculateStormPeriod finds the first year the forever fund can carry the burn alone.
func (e *Engine) CalculateStormPeriod(p domain.SimulationParameters) (domain.StormPeriodResult, error) {
	model, err := e.prepare(p)
	if err != nil {
		return domain.StormPeriodResult{}, err
	}
	return e.stormPeriod(p, model), nil
}

// stormPeriod scans the horizon. The result is non-increasing in the forever
// stake, which every bisection in the optimizer depends on.
func (e *Engine) stormPeriod(p domain.SimulationParameters, model trend.Model) domain.StormPeriodResult {
	var result domain.StormPeriodResult
	stake := p.ForeverStake()

	for i := 0; i < p.MaxHorizon; i++ {
		year := p.RetirementYear + i
		price, _, _ := e.yearPrice(p, year)
		value := stake * price
		burn := p.BurnAt(i)
		rate := e.ForeverRate(model, year)

		result.ForeverValue = value
		result.RequiredBurn = burn
		result.ForeverRate = rate

		if value > 0 && burn/value < rate {
			years, end := i, year
			result.Years = &years
			result.EndYear = &end
			return result
		}
	}
	return result
}
