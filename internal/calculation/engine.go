package calculation

import (
	"fmt"

	"github.com/stormplan/stormplan/internal/domain"
	"github.com/stormplan/stormplan/internal/trend"
	"github.com/stormplan/stormplan/pkg/dateutil"
)

// minBridgeHorizon is the shortest navigation fund run when the storm ends.
const minBridgeHorizon = 30

// stormBuffer is the number of years simulated past the storm end.
const stormBuffer = 5

// Engine runs every plan calculation against a single price oracle.
// It holds no per-run state and is safe for concurrent use once configured.
type Engine struct {
	Oracle Oracle
	Search SearchConfig
	Logger Logger
}

// NewEngine creates an engine; a nil oracle uses the built-in trend models.
func NewEngine(oracle Oracle) *Engine {
	if oracle == nil {
		oracle = trend.DefaultRegistry()
	}
	return &Engine{
		Oracle: oracle,
		Search: DefaultSearchConfig(),
		Logger: NopLogger{},
	}
}

// SetLogger sets the logger for the engine. If nil is provided, a no-op logger is used.
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

// SetSearchConfig replaces the optimizer settings, filling unset fields with defaults.
func (e *Engine) SetSearchConfig(cfg SearchConfig) {
	e.Search = cfg.withDefaults()
}

// prepare validates parameters and resolves the trend model they name.
func (e *Engine) prepare(p domain.SimulationParameters) (trend.Model, error) {
	if err := p.Validate(); err != nil {
		return trend.Model{}, err
	}
	model, err := e.Oracle.Model(p.Model)
	if err != nil {
		return trend.Model{}, fmt.Errorf("failed to resolve trend model: %w", err)
	}
	return model, nil
}

// yearPrice resolves the scenario price of a retirement year at mid-year.
func (e *Engine) yearPrice(p domain.SimulationParameters, year int) (price, trendPrice, k float64) {
	date := dateutil.MidYear(year)
	k = e.Oracle.ResolveScenarioK(p.Scenario, float64(year-p.RetirementYear), p.StartDeviation)
	trendPrice = e.Oracle.TrendPrice(p.Model, date)
	price = e.Oracle.ScenarioPrice(p.Model, date, p.Sigma, k)
	return price, trendPrice, k
}

// bridgeHorizon returns how many years the navigation fund is simulated.
func bridgeHorizon(p domain.SimulationParameters, storm domain.StormPeriodResult) int {
	if storm.Never() {
		return p.MaxHorizon
	}
	return max(*storm.Years+stormBuffer, minBridgeHorizon)
}

// Project runs the deterministic views of a plan: storm, bridge and forever fund.
func (e *Engine) Project(p domain.SimulationParameters) (*domain.PlanProjection, error) {
	model, err := e.prepare(p)
	if err != nil {
		return nil, err
	}
	bridge := e.simulateBridge(p, model)
	forever := e.projectForever(p, model, len(bridge.Records))
	e.Logger.Debugf("projected plan: stake=%.4f split=%.2f storm_never=%v ruined=%v",
		p.TotalStake, p.Split, bridge.Storm.Never(), bridge.Ruined())
	return &domain.PlanProjection{
		Parameters: p,
		Storm:      bridge.Storm,
		Bridge:     bridge,
		Forever:    forever,
	}, nil
}
