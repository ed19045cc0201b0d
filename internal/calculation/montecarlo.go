package calculation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"slices"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/stormplan/stormplan/internal/domain"
	"github.com/stormplan/stormplan/pkg/dateutil"
)

// MonteCarloConfig holds configuration for Monte Carlo simulations
type MonteCarloConfig struct {
	Paths         int
	FloorMultiple float64 // price floor as a fraction of trend
	Workers       int
	Seed          int64 // used only when no generator is injected
}

// DefaultMonteCarloConfig returns 200 paths floored at half of trend.
func DefaultMonteCarloConfig() MonteCarloConfig {
	return MonteCarloConfig{Paths: 200, FloorMultiple: 0.5, Workers: 8}
}

// pathOutcome is the balance trace and ruin year of one stochastic path.
type pathOutcome struct {
	balances []float64
	debts    []float64
	ruinYear *int
}

// MonteCarloSurvival runs the navigation fund over randomized price paths.
//
// Path seeds are drawn from rng up front in path order, so results are
// identical for a given generator state regardless of worker count. A nil rng
// is seeded from cfg.Seed, or from a fresh seed when that is zero; the seed
// used is recorded in the result. With an injected rng the recorded seed is 0.
func (e *Engine) MonteCarloSurvival(ctx context.Context, p domain.SimulationParameters, cfg MonteCarloConfig, rng *rand.Rand) (*domain.MonteCarloResult, error) {
	model, err := e.prepare(p)
	if err != nil {
		return nil, err
	}
	def := DefaultMonteCarloConfig()
	if cfg.Paths <= 0 {
		cfg.Paths = def.Paths
	}
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.FloorMultiple < 0 {
		return nil, fmt.Errorf("%w: floor multiple cannot be negative", domain.ErrInvalidParameters)
	}
	if rng == nil {
		if cfg.Seed == 0 {
			cfg.Seed = seedFunc()
		}
		rng = rand.New(rand.NewSource(cfg.Seed))
	} else {
		cfg.Seed = 0
	}

	storm := e.stormPeriod(p, model)
	horizon := bridgeHorizon(p, storm)

	seeds := make([]int64, cfg.Paths)
	for i := range seeds {
		seeds[i] = rng.Int63()
	}

	e.Logger.Debugf("running %d Monte Carlo paths over %d years with %d workers", cfg.Paths, horizon, cfg.Workers)
	outcomes := make([]pathOutcome, cfg.Paths)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i := range outcomes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			outcomes[i] = e.runPath(p, cfg.FloorMultiple, horizon, rand.New(rand.NewSource(seeds[i])))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("monte carlo aborted: %w", err)
	}

	return summarizePaths(p, cfg, storm, horizon, outcomes), nil
}

// runPath simulates one randomized price path with its own generator.
func (e *Engine) runPath(p domain.SimulationParameters, floor float64, horizon int, r *rand.Rand) pathOutcome {
	params := StepParamsFrom(p)
	out := pathOutcome{balances: make([]float64, horizon), debts: make([]float64, horizon)}
	state := BridgeState{Balance: p.NavigationStake()}

	for i := 0; i < horizon; i++ {
		year := p.RetirementYear + i
		trendPrice := e.Oracle.TrendPrice(p.Model, dateutil.MidYear(year))
		z := gaussian(r)
		price := trendPrice * math.Pow(10, z*p.Sigma)
		if minPrice := floor * trendPrice; price < minPrice {
			price = minPrice
			z = 0
			if trendPrice > 0 && floor > 0 {
				z = math.Log10(floor) / p.Sigma
			}
		}

		var rec domain.YearRecord
		state, rec = Step(state, YearInputs{
			Index:     i,
			Year:      year,
			Price:     price,
			Trend:     trendPrice,
			Deviation: z,
			Burn:      p.BurnAt(i),
		}, params)
		out.balances[i] = rec.AssetBalance
		out.debts[i] = rec.Debt
		if rec.Status == domain.StatusRuin && out.ruinYear == nil {
			ruin := year
			out.ruinYear = &ruin
		}
	}
	return out
}

// gaussian draws a standard normal via the Box-Muller transform.
func gaussian(r *rand.Rand) float64 {
	u1 := 1 - r.Float64() // (0,1], keeps the log finite
	u2 := r.Float64()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

func summarizePaths(p domain.SimulationParameters, cfg MonteCarloConfig, storm domain.StormPeriodResult, horizon int, outcomes []pathOutcome) *domain.MonteCarloResult {
	n := len(outcomes)
	result := &domain.MonteCarloResult{
		Paths:        n,
		Seed:         cfg.Seed,
		StormEndYear: storm.EndYear,
		Bands:        make([]domain.PercentileBand, 0, horizon),
		RuinYears:    []int{},
	}

	survived := 0
	peaks := make([]float64, 0, n)
	for _, o := range outcomes {
		peaks = append(peaks, slices.Max(append([]float64{0}, o.debts...)))
		if survives(o.ruinYear, storm) {
			survived++
		}
		if o.ruinYear != nil {
			result.RuinYears = append(result.RuinYears, *o.ruinYear)
		}
	}
	result.SurvivalProbability = float64(survived) / float64(n)
	result.RuinCount = len(result.RuinYears)
	sort.Ints(result.RuinYears)
	sort.Float64s(peaks)
	result.MedianPeakDebt = percentile(peaks, 50)
	if result.RuinCount > 0 {
		median := result.RuinYears[result.RuinCount/2]
		result.MedianRuinYear = &median
	}

	samples := make([]float64, n)
	for i := 0; i < horizon; i++ {
		for j, o := range outcomes {
			samples[j] = o.balances[i]
		}
		sort.Float64s(samples)
		result.Bands = append(result.Bands, domain.PercentileBand{
			Index: i,
			Year:  p.RetirementYear + i,
			P10:   percentile(samples, 10),
			P25:   percentile(samples, 25),
			P50:   percentile(samples, 50),
			P75:   percentile(samples, 75),
			P90:   percentile(samples, 90),
		})
	}
	return result
}

// percentile indexes a sorted sample at n*pct/100.
func percentile(sorted []float64, pct int) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := len(sorted) * pct / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
