package calculation

import (
	"time"

	"github.com/stormplan/stormplan/internal/domain"
	"github.com/stormplan/stormplan/internal/trend"
)

// Oracle supplies trend prices and scenario deviations to the engine.
// *trend.Registry is the production implementation.
type Oracle interface {
	TrendPrice(model string, date time.Time) float64
	BandPrice(model string, sigma, k float64, date time.Time) float64
	YearsSinceOrigin(date time.Time) float64
	Model(name string) (trend.Model, error)
	ScenarioPrice(model string, date time.Time, sigma, k float64) float64
	ResolveScenarioK(mode domain.Scenario, yearOffset float64, initial *float64) float64
}

var _ Oracle = (*trend.Registry)(nil)
