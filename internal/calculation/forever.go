package calculation

import (
	"math"

	"github.com/stormplan/stormplan/internal/domain"
	"github.com/stormplan/stormplan/internal/trend"
)

// ProjectForeverFund projects the untouched forever fund for the given number of years.
// A non-positive count uses the plan's maximum horizon.
func (e *Engine) ProjectForeverFund(p domain.SimulationParameters, years int) ([]domain.ForeverYear, error) {
	model, err := e.prepare(p)
	if err != nil {
		return nil, err
	}
	if years <= 0 {
		years = p.MaxHorizon
	}
	return e.projectForever(p, model, years), nil
}

func (e *Engine) projectForever(p domain.SimulationParameters, model trend.Model, years int) []domain.ForeverYear {
	stake := p.ForeverStake()
	out := make([]domain.ForeverYear, 0, years)
	for i := 0; i < years; i++ {
		year := p.RetirementYear + i
		price, _, _ := e.yearPrice(p, year)
		value := stake * price
		burn := p.BurnAt(i)
		rate := e.ForeverRate(model, year)

		ratio := math.Inf(1)
		if value > 0 {
			ratio = burn / value
		}
		out = append(out, domain.ForeverYear{
			Index:          i,
			Year:           year,
			Price:          price,
			Value:          value,
			Burn:           burn,
			Ratio:          ratio,
			ForeverRate:    rate,
			SafeWithdrawal: value * rate,
			Sustainable:    value > 0 && ratio < rate,
		})
	}
	return out
}
