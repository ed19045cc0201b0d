package calculation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stormplan/stormplan/internal/domain"
)

func TestCalculateStormPeriod_ZeroBurnEndsImmediately(t *testing.T) {
	storm, err := NewEngine(nil).CalculateStormPeriod(referenceParams().WithBurn(0))
	require.NoError(t, err)
	require.False(t, storm.Never())
	assert.Equal(t, 0, *storm.Years)
	assert.Equal(t, 2030, *storm.EndYear)
}

func TestCalculateStormPeriod_EndYearMatchesYears(t *testing.T) {
	storm, err := NewEngine(nil).CalculateStormPeriod(comfortableParams())
	require.NoError(t, err)
	require.False(t, storm.Never())
	assert.Equal(t, 2030+*storm.Years, *storm.EndYear)
	assert.Less(t, storm.RequiredBurn/storm.ForeverValue, storm.ForeverRate)
}

func TestCalculateStormPeriod_AgreesWithForeverProjection(t *testing.T) {
	e := NewEngine(nil)
	p := comfortableParams()
	storm, err := e.CalculateStormPeriod(p)
	require.NoError(t, err)
	forever, err := e.ProjectForeverFund(p, 0)
	require.NoError(t, err)

	first := -1
	for i, y := range forever {
		if y.Sustainable {
			first = i
			break
		}
	}
	require.False(t, storm.Never())
	assert.Equal(t, *storm.Years, first)
}

func TestCalculateStormPeriod_Monotonicity(t *testing.T) {
	e := NewEngine(nil)
	stakes := []float64{0.1, 0.25, 0.5, 1, 2, 4, 8}
	splits := []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9}

	for _, scenario := range domain.Scenarios() {
		grid := make([][]int, len(stakes))
		for i, stake := range stakes {
			grid[i] = make([]int, len(splits))
			for j, split := range splits {
				p := referenceParams().WithStake(stake).WithSplit(split)
				p.Scenario = scenario
				storm, err := e.CalculateStormPeriod(p)
				require.NoError(t, err)
				grid[i][j] = stormLength(storm)
			}
		}

		for i := 1; i < len(stakes); i++ {
			for j := range splits {
				assert.LessOrEqual(t, grid[i][j], grid[i-1][j],
					"%s: more stake lengthened the storm (stake %v split %v)", scenario, stakes[i], splits[j])
			}
		}
		// a lower split leaves more in the forever fund
		for i := range stakes {
			for j := 1; j < len(splits); j++ {
				assert.LessOrEqual(t, grid[i][j-1], grid[i][j],
					"%s: more forever share lengthened the storm (stake %v split %v)", scenario, stakes[i], splits[j-1])
			}
		}
	}
}
