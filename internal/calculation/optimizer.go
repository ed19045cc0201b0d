package calculation

import (
	"math"

	"github.com/stormplan/stormplan/internal/domain"
	"github.com/stormplan/stormplan/internal/trend"
)

// SearchConfig bounds every optimizer search.
//
// All searches assume survival is monotone in stake, burn and retirement
// year. When a probe past the answer contradicts that, the outcome is
// flagged Suspect rather than trusted.
type SearchConfig struct {
	MaxIterations      int
	StakeTolerance     float64 // asset units
	BurnTolerance      float64 // currency
	MaxRetirementDelay int     // years
	SplitMin           float64
	SplitMax           float64
	SplitStep          float64
}

// DefaultSearchConfig returns the standard tolerances and caps.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		MaxIterations:      50,
		StakeTolerance:     0.001,
		BurnTolerance:      500,
		MaxRetirementDelay: 40,
		SplitMin:           0.10,
		SplitMax:           0.90,
		SplitStep:          0.05,
	}
}

func (c SearchConfig) withDefaults() SearchConfig {
	def := DefaultSearchConfig()
	if c.MaxIterations <= 0 {
		c.MaxIterations = def.MaxIterations
	}
	if c.StakeTolerance <= 0 {
		c.StakeTolerance = def.StakeTolerance
	}
	if c.BurnTolerance <= 0 {
		c.BurnTolerance = def.BurnTolerance
	}
	if c.MaxRetirementDelay <= 0 {
		c.MaxRetirementDelay = def.MaxRetirementDelay
	}
	if c.SplitStep <= 0 || c.SplitMin < 0 || c.SplitMax > 1 || c.SplitMin > c.SplitMax {
		c.SplitMin, c.SplitMax, c.SplitStep = def.SplitMin, def.SplitMax, def.SplitStep
	}
	return c
}

// splitGrid lists the candidate splits in ascending order.
func (c SearchConfig) splitGrid() []float64 {
	n := int(math.Round((c.SplitMax - c.SplitMin) / c.SplitStep))
	grid := make([]float64, 0, n+1)
	for i := 0; i <= n; i++ {
		s := c.SplitMin + float64(i)*c.SplitStep
		grid = append(grid, math.Round(s*1e6)/1e6)
	}
	return grid
}

func (e *Engine) survivesWith(p domain.SimulationParameters, model trend.Model) bool {
	return e.simulateBridge(p, model).Survives
}

// FindMinimumTotal bisects total stake for the smallest plan that survives
// the storm at the current split.
func (e *Engine) FindMinimumTotal(p domain.SimulationParameters) (domain.SearchOutcome, error) {
	model, err := e.prepare(p)
	if err != nil {
		return domain.SearchOutcome{}, err
	}
	return e.findMinimumTotal(p, model), nil
}

func (e *Engine) findMinimumTotal(p domain.SimulationParameters, model trend.Model) domain.SearchOutcome {
	cfg := e.Search.withDefaults()
	hi := 2 * p.TotalStake
	if hi <= 0 {
		hi = 1
	}
	if !e.survivesWith(p.WithStake(hi), model) {
		hi *= 10
		if !e.survivesWith(p.WithStake(hi), model) {
			e.Logger.Infof("minimum stake search exhausted: %.4f does not survive", hi)
			return domain.SearchOutcome{Value: hi}
		}
	}

	lo := 0.0
	iterations := 0
	for iterations < cfg.MaxIterations && hi-lo > cfg.StakeTolerance {
		iterations++
		mid := (lo + hi) / 2
		if e.survivesWith(p.WithStake(mid), model) {
			hi = mid
		} else {
			lo = mid
		}
	}

	out := domain.SearchOutcome{Value: hi, Found: true, Iterations: iterations}
	if !e.survivesWith(p.WithStake(hi+cfg.StakeTolerance), model) {
		out.Suspect = true
		e.Logger.Warnf("monotonicity violated: stake %.4f survives but %.4f does not", hi, hi+cfg.StakeTolerance)
	}
	return out
}

// FindMaxBurn bisects annual burn for the largest spend that still survives.
func (e *Engine) FindMaxBurn(p domain.SimulationParameters) (domain.SearchOutcome, error) {
	model, err := e.prepare(p)
	if err != nil {
		return domain.SearchOutcome{}, err
	}
	return e.findMaxBurn(p, model), nil
}

func (e *Engine) findMaxBurn(p domain.SimulationParameters, model trend.Model) domain.SearchOutcome {
	cfg := e.Search.withDefaults()
	if !e.survivesWith(p.WithBurn(0), model) {
		e.Logger.Infof("max burn search exhausted: plan fails even with zero burn")
		return domain.SearchOutcome{}
	}
	hi := 10 * p.AnnualBurn
	if hi <= 0 {
		hi = 1e6
	}
	if e.survivesWith(p.WithBurn(hi), model) {
		return domain.SearchOutcome{Value: hi, Found: true}
	}

	lo := 0.0
	iterations := 0
	for iterations < cfg.MaxIterations && hi-lo > cfg.BurnTolerance {
		iterations++
		mid := (lo + hi) / 2
		if e.survivesWith(p.WithBurn(mid), model) {
			lo = mid
		} else {
			hi = mid
		}
	}

	out := domain.SearchOutcome{Value: lo, Found: true, Iterations: iterations}
	if probe := lo - cfg.BurnTolerance; probe > 0 && !e.survivesWith(p.WithBurn(probe), model) {
		out.Suspect = true
		e.Logger.Warnf("monotonicity violated: burn %.0f survives but %.0f does not", lo, probe)
	}
	return out
}

// FindOptimalSplit evaluates the split grid and picks the survivor whose storm
// is shortest. A storm that never ends ranks last; ties go to the lower split.
func (e *Engine) FindOptimalSplit(p domain.SimulationParameters) (domain.SplitSearch, error) {
	model, err := e.prepare(p)
	if err != nil {
		return domain.SplitSearch{}, err
	}
	return e.findOptimalSplit(p, model), nil
}

func (e *Engine) findOptimalSplit(p domain.SimulationParameters, model trend.Model) domain.SplitSearch {
	var search domain.SplitSearch
	for _, split := range e.Search.withDefaults().splitGrid() {
		sim := e.simulateBridge(p.WithSplit(split), model)
		c := domain.SplitCandidate{
			Split:      split,
			Survives:   sim.Survives,
			StormYears: sim.Storm.Years,
			RuinYear:   sim.RuinYear,
		}
		search.Candidates = append(search.Candidates, c)
		if !c.Survives {
			continue
		}
		if !search.Found || shorterStorm(c.StormYears, search.Best.StormYears) {
			search.Best = c
			search.Found = true
		}
	}
	return search
}

// shorterStorm reports whether a is strictly shorter than b; nil means never.
func shorterStorm(a, b *int) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return *a < *b
	}
}

// FindEarliestRetirement bisects over retirement years for the first one at
// which some split on the grid survives.
func (e *Engine) FindEarliestRetirement(p domain.SimulationParameters) (domain.SearchOutcome, error) {
	model, err := e.prepare(p)
	if err != nil {
		return domain.SearchOutcome{}, err
	}
	return e.findEarliestRetirement(p, model), nil
}

func (e *Engine) findEarliestRetirement(p domain.SimulationParameters, model trend.Model) domain.SearchOutcome {
	cfg := e.Search.withDefaults()
	feasible := func(year int) bool {
		return e.findOptimalSplit(p.WithRetirementYear(year), model).Found
	}

	lo := p.RetirementYear
	hi := lo + cfg.MaxRetirementDelay
	if feasible(lo) {
		return domain.SearchOutcome{Value: float64(lo), Found: true}
	}
	if !feasible(hi) {
		e.Logger.Infof("earliest retirement search exhausted: no split survives by %d", hi)
		return domain.SearchOutcome{Value: float64(hi)}
	}

	iterations := 0
	for iterations < cfg.MaxIterations && hi-lo > 1 {
		iterations++
		mid := lo + (hi-lo)/2
		if feasible(mid) {
			hi = mid
		} else {
			lo = mid
		}
	}

	out := domain.SearchOutcome{Value: float64(hi), Found: true, Iterations: iterations}
	if !feasible(hi + 1) {
		out.Suspect = true
		e.Logger.Warnf("monotonicity violated: retiring in %d survives but %d does not", hi, hi+1)
	}
	return out
}

// fallbackSplit is simulated for display when no split survives.
const fallbackSplit = 0.5

// OptimizePlan recommends a split or, when none survives, reports three
// independent remediations computed at the fallback split.
func (e *Engine) OptimizePlan(p domain.SimulationParameters) (*domain.OptimizationResult, error) {
	model, err := e.prepare(p)
	if err != nil {
		return nil, err
	}

	search := e.findOptimalSplit(p, model)
	if search.Found {
		e.Logger.Infof("optimal split %.2f found", search.Best.Split)
		return &domain.OptimizationResult{
			Success:    true,
			Split:      search.Best.Split,
			StormYears: search.Best.StormYears,
			Simulation: e.simulateBridge(p.WithSplit(search.Best.Split), model),
		}, nil
	}

	e.Logger.Infof("no split survives; computing remediations at split %.2f", fallbackSplit)
	fallback := p.WithSplit(fallbackSplit)
	sim := e.simulateBridge(fallback, model)

	extra := e.findMinimumTotal(fallback, model)
	if extra.Found {
		extra.Value = math.Max(0, extra.Value-p.TotalStake)
	}
	return &domain.OptimizationResult{
		Success:    false,
		Split:      fallbackSplit,
		StormYears: sim.Storm.Years,
		Simulation: sim,
		Remediation: &domain.Remediation{
			ExtraStake:   extra,
			MaxBurn:      e.findMaxBurn(fallback, model),
			EarliestYear: e.findEarliestRetirement(p, model),
		},
	}, nil
}
