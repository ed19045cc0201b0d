package calculation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stormplan/stormplan/internal/domain"
)

// infeasibleParams cannot survive at any split or retirement year in range.
func infeasibleParams() domain.SimulationParameters {
	p := referenceParams()
	p.TotalStake = 0.01
	p.AnnualBurn = 100000
	return p
}

func TestSearchConfig_SplitGrid(t *testing.T) {
	grid := DefaultSearchConfig().splitGrid()
	require.Len(t, grid, 17)
	assert.Equal(t, 0.10, grid[0])
	assert.Equal(t, 0.50, grid[8])
	assert.Equal(t, 0.90, grid[16])
}

func TestSearchConfig_WithDefaults(t *testing.T) {
	cfg := SearchConfig{MaxIterations: 12, SplitMin: 0.9, SplitMax: 0.1, SplitStep: 0.1}.withDefaults()
	assert.Equal(t, 12, cfg.MaxIterations)
	assert.Equal(t, 500.0, cfg.BurnTolerance)
	assert.Equal(t, 0.10, cfg.SplitMin)
	assert.Equal(t, 0.90, cfg.SplitMax)
}

func TestFindOptimalSplit_SelfConsistent(t *testing.T) {
	e := NewEngine(nil)
	p := comfortableParams()
	search, err := e.FindOptimalSplit(p)
	require.NoError(t, err)
	require.True(t, search.Found)
	assert.Len(t, search.Candidates, 17)

	sim, err := e.SimulateBridge(p.WithSplit(search.Best.Split))
	require.NoError(t, err)
	assert.True(t, sim.Survives)
	assert.Equal(t, search.Best.StormYears, sim.Storm.Years)

	// no surviving candidate has a strictly shorter storm, and ties lose to lower splits
	for _, c := range search.Candidates {
		if !c.Survives {
			continue
		}
		assert.False(t, shorterStorm(c.StormYears, search.Best.StormYears), "split %v beats %v", c.Split, search.Best.Split)
		if !shorterStorm(search.Best.StormYears, c.StormYears) {
			assert.GreaterOrEqual(t, c.Split, search.Best.Split)
		}
	}
}

func TestShorterStorm(t *testing.T) {
	three, five := 3, 5
	assert.True(t, shorterStorm(&three, &five))
	assert.False(t, shorterStorm(&five, &three))
	assert.False(t, shorterStorm(&three, &three))
	assert.True(t, shorterStorm(&five, nil))
	assert.False(t, shorterStorm(nil, &three))
	assert.False(t, shorterStorm(nil, nil))
}

func TestFindMinimumTotal(t *testing.T) {
	e := NewEngine(nil)
	p := comfortableParams()
	out, err := e.FindMinimumTotal(p)
	require.NoError(t, err)
	require.True(t, out.Found)
	assert.Greater(t, out.Iterations, 0)
	assert.LessOrEqual(t, out.Value, 2*p.TotalStake)

	sim, err := e.SimulateBridge(p.WithStake(out.Value))
	require.NoError(t, err)
	assert.True(t, sim.Survives)
}

func TestFindMaxBurn(t *testing.T) {
	e := NewEngine(nil)
	p := comfortableParams()
	out, err := e.FindMaxBurn(p)
	require.NoError(t, err)
	require.True(t, out.Found)
	assert.Less(t, out.Value, 10*p.AnnualBurn)

	sim, err := e.SimulateBridge(p.WithBurn(out.Value))
	require.NoError(t, err)
	assert.True(t, sim.Survives)
}

func TestFindMaxBurn_ZeroBurnUsesWideBound(t *testing.T) {
	e := NewEngine(nil)
	e.SetSearchConfig(SearchConfig{MaxIterations: 5})
	out, err := e.FindMaxBurn(comfortableParams().WithBurn(0))
	require.NoError(t, err)
	require.True(t, out.Found)
	assert.LessOrEqual(t, out.Value, 1e6)
	assert.LessOrEqual(t, out.Iterations, 5)
}

func TestFindEarliestRetirement(t *testing.T) {
	e := NewEngine(nil)

	out, err := e.FindEarliestRetirement(comfortableParams())
	require.NoError(t, err)
	assert.True(t, out.Found)
	assert.Equal(t, 2030.0, out.Value)
	assert.Zero(t, out.Iterations)

	out, err = e.FindEarliestRetirement(infeasibleParams())
	require.NoError(t, err)
	assert.False(t, out.Found)
}

func TestOptimizePlan_Success(t *testing.T) {
	res, err := NewEngine(nil).OptimizePlan(comfortableParams())
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Nil(t, res.Remediation)
	require.NotNil(t, res.Simulation)
	assert.True(t, res.Simulation.Survives)
	assert.Equal(t, res.StormYears, res.Simulation.Storm.Years)
}

func TestOptimizePlan_FailureReportsRemediations(t *testing.T) {
	e := NewEngine(nil)
	e.SetSearchConfig(SearchConfig{MaxRetirementDelay: 8})
	p := infeasibleParams()
	res, err := e.OptimizePlan(p)
	require.NoError(t, err)

	assert.False(t, res.Success)
	assert.Equal(t, 0.5, res.Split)
	require.NotNil(t, res.Simulation)
	assert.False(t, res.Simulation.Survives)
	require.NotNil(t, res.Remediation)

	if res.Remediation.ExtraStake.Found {
		sim, err := e.SimulateBridge(p.WithSplit(0.5).WithStake(p.TotalStake + res.Remediation.ExtraStake.Value))
		require.NoError(t, err)
		assert.True(t, sim.Survives)
	}
	if res.Remediation.MaxBurn.Found {
		assert.Less(t, res.Remediation.MaxBurn.Value, p.AnnualBurn)
	}
	assert.False(t, res.Remediation.EarliestYear.Found)
}
