package calculation

import (
	"fmt"
	"math"

	"github.com/stormplan/stormplan/internal/domain"
	"github.com/stormplan/stormplan/internal/trend"
	"github.com/stormplan/stormplan/pkg/dateutil"
)

// lifetimeChunkYears is the reporting chunk size; the phase boundary snaps to it.
const lifetimeChunkYears = 5

// CalculateLifetimeNeed projects the asset quantity needed each year from
// retirement to life expectancy. An infeasible age range returns a nil result
// and an error wrapping domain.ErrInfeasible.
func (e *Engine) CalculateLifetimeNeed(lp domain.LifetimeNeedParams) (*domain.LifetimeNeedResult, error) {
	if lp.CurrentYear == 0 {
		lp.CurrentYear = nowFunc().Year()
	}
	if lp.RetirementAge >= lp.LifeExpectancy || lp.CurrentAge >= lp.LifeExpectancy {
		return nil, fmt.Errorf("%w: retirement age %d is not before life expectancy %d",
			domain.ErrInfeasible, lp.RetirementAge, lp.LifeExpectancy)
	}
	switch {
	case lp.CurrentAge < 0:
		return nil, fmt.Errorf("%w: current age cannot be negative", domain.ErrInvalidParameters)
	case lp.AnnualBurn < 0 || lp.Stake < 0:
		return nil, fmt.Errorf("%w: burn and stake cannot be negative", domain.ErrInvalidParameters)
	case lp.BurnGrowth < 0 || lp.BurnGrowth > 0.5:
		return nil, fmt.Errorf("%w: burn growth must be between 0 and 50%%", domain.ErrInvalidParameters)
	case !(lp.Sigma > 0):
		return nil, fmt.Errorf("%w: sigma must be positive", domain.ErrInvalidParameters)
	case !lp.Scenario.Valid():
		return nil, fmt.Errorf("%w: %w: %q", domain.ErrInvalidParameters, domain.ErrUnknownScenario, lp.Scenario)
	}
	model, err := e.Oracle.Model(lp.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve trend model: %w", err)
	}

	startAge := max(lp.RetirementAge, lp.CurrentAge)
	result := &domain.LifetimeNeedResult{}
	firstForever := -1
	for age := startAge; age < lp.LifeExpectancy; age++ {
		y := e.lifetimeYear(lp, model, age)
		if firstForever < 0 && lp.Stake > 0 && y.Price > 0 && y.Burn/(lp.Stake*y.Price) < y.ForeverRate {
			firstForever = len(result.Years)
		}
		result.Years = append(result.Years, y)
	}

	boundary := len(result.Years)
	if firstForever >= 0 {
		boundary = dateutil.SnapUp(firstForever, lifetimeChunkYears)
	}
	if boundary < len(result.Years) {
		start := result.Years[boundary].Year
		result.ForeverStartYear = &start
	}
	for i := range result.Years {
		phase := domain.PhaseStorm
		if i >= boundary {
			phase = domain.PhaseForever
		}
		result.Years[i].Phase = phase
		result.TotalNeed += result.Years[i].Need
		if phase == domain.PhaseStorm {
			result.StormNeed += result.Years[i].Need
		}
	}
	result.Chunks = chunkLifetime(result.Years)

	// suffix sums from life expectancy back to the current age
	var remaining float64
	for age := lp.LifeExpectancy - 1; age >= lp.CurrentAge; age-- {
		remaining += e.lifetimeYear(lp, model, age).Need
		if remaining > lp.Stake {
			break
		}
		earliest, year := age, lp.YearAtAge(age)
		result.EarliestRetireAge = &earliest
		result.EarliestRetireYear = &year
	}

	e.Logger.Debugf("lifetime need: %d years, total %.4f, storm %.4f", len(result.Years), result.TotalNeed, result.StormNeed)
	return result, nil
}

// lifetimeYear prices one year of need; burn is inflated from the current year.
func (e *Engine) lifetimeYear(lp domain.LifetimeNeedParams, model trend.Model, age int) domain.LifetimeYear {
	year := lp.YearAtAge(age)
	offset := year - lp.CurrentYear
	k := e.Oracle.ResolveScenarioK(lp.Scenario, float64(offset), lp.StartDeviation)
	price := e.Oracle.ScenarioPrice(lp.Model, dateutil.MidYear(year), lp.Sigma, k)
	burn := lp.AnnualBurn * math.Pow(1+lp.BurnGrowth, float64(max(offset, 0)))

	need := 0.0
	if price > 0 {
		need = burn / price
	}
	return domain.LifetimeYear{
		Year:        year,
		Age:         age,
		Price:       price,
		Burn:        burn,
		Need:        need,
		ForeverRate: e.ForeverRate(model, year),
		Phase:       domain.PhaseStorm,
	}
}

func chunkLifetime(years []domain.LifetimeYear) []domain.LifetimeChunk {
	var chunks []domain.LifetimeChunk
	for start := 0; start < len(years); start += lifetimeChunkYears {
		end := min(start+lifetimeChunkYears, len(years)) - 1
		c := domain.LifetimeChunk{
			StartYear: years[start].Year,
			EndYear:   years[end].Year,
			StartAge:  years[start].Age,
			EndAge:    years[end].Age,
			Phase:     years[start].Phase,
		}
		for _, y := range years[start : end+1] {
			c.Need += y.Need
		}
		chunks = append(chunks, c)
	}
	return chunks
}
