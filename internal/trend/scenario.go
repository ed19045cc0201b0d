package trend

import (
	"math"
	"time"

	"github.com/stormplan/stormplan/internal/domain"
)

// cyclePeriod is the length in years of one full cyclical oscillation.
const cyclePeriod = 4.0

// baseDeviation is the deviation a scenario settles on, ignoring any starting override.
func baseDeviation(mode domain.Scenario, yearOffset float64) float64 {
	switch mode {
	case domain.ScenarioSmoothBear:
		return -1
	case domain.ScenarioSmoothDeepBear:
		return -2
	case domain.ScenarioCyclical:
		return cycle(yearOffset)
	case domain.ScenarioCyclicalBear:
		return cycle(yearOffset) - 0.5
	default:
		return 0
	}
}

// cycle walks the +1, 0, -1, 0 bands on whole years.
func cycle(yearOffset float64) float64 {
	v := math.Cos(2 * math.Pi * yearOffset / cyclePeriod)
	// snap float noise so whole years land exactly on a band
	if math.Abs(v) < 1e-12 {
		return 0
	}
	return v
}

// ResolveScenarioK turns a scenario and elapsed time into a deviation multiple.
// A starting deviation is applied as a transient that halves every year.
func ResolveScenarioK(mode domain.Scenario, yearOffset float64, initial *float64) float64 {
	k := baseDeviation(mode, yearOffset)
	if initial == nil {
		return k
	}
	if yearOffset < 0 {
		yearOffset = 0
	}
	start := baseDeviation(mode, 0)
	return k + (*initial-start)*math.Pow(0.5, yearOffset)
}

// ResolveScenarioK lets the registry satisfy the engine's oracle interface.
func (r *Registry) ResolveScenarioK(mode domain.Scenario, yearOffset float64, initial *float64) float64 {
	return ResolveScenarioK(mode, yearOffset, initial)
}

// ScenarioPrice returns the simulated price for a resolved deviation.
func (r *Registry) ScenarioPrice(model string, date time.Time, sigma, k float64) float64 {
	return r.BandPrice(model, sigma, k, date)
}
