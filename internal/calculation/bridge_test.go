package calculation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stormplan/stormplan/internal/domain"
)

func stepParams() StepParams {
	return StepParams{Thresholds: domain.DefaultThresholds(), LTV: 0.5, LoanRate: 0.10}
}

func TestStep_Transitions(t *testing.T) {
	testCases := []struct {
		desc        string
		state       BridgeState
		in          YearInputs
		wantStatus  domain.Status
		wantBalance float64
		wantDebt    float64
		wantPaid    float64
	}{
		{
			desc:        "selling at trend sizes by rate",
			state:       BridgeState{Balance: 1},
			in:          YearInputs{Year: 2030, Price: 100000, Trend: 100000, Burn: 1000},
			wantStatus:  domain.StatusSelling,
			wantBalance: 0.96,
			wantPaid:    4000,
		},
		{
			desc:        "selling sizes by burn when it is larger",
			state:       BridgeState{Balance: 1},
			in:          YearInputs{Year: 2030, Price: 100000, Trend: 100000, Burn: 20000},
			wantStatus:  domain.StatusSelling,
			wantBalance: 0.8,
			wantPaid:    20000,
		},
		{
			desc:        "borrow below trend within capacity",
			state:       BridgeState{Balance: 1},
			in:          YearInputs{Year: 2030, Price: 50000, Trend: 100000, Burn: 10000},
			wantStatus:  domain.StatusBorrow,
			wantBalance: 1,
			wantDebt:    10000,
			wantPaid:    10000,
		},
		{
			desc:        "forced sell when capacity is exhausted",
			state:       BridgeState{Balance: 1, Debt: 20000},
			in:          YearInputs{Year: 2030, Price: 50000, Trend: 100000, Burn: 10000},
			wantStatus:  domain.StatusForcedSell,
			wantBalance: 0.8,
			wantDebt:    22000,
			wantPaid:    10000,
		},
		{
			desc:        "repaying above trend",
			state:       BridgeState{Balance: 1, Debt: 10000},
			in:          YearInputs{Year: 2030, Price: 100000, Trend: 100000, Burn: 5000},
			wantStatus:  domain.StatusRepaying,
			wantBalance: 0.84,
			wantDebt:    0,
			wantPaid:    5000,
		},
		{
			desc:        "repayment capped at half the remaining balance",
			state:       BridgeState{Balance: 1, Debt: 45000},
			in:          YearInputs{Year: 2030, Price: 100000, Trend: 100000, Burn: 20000},
			wantStatus:  domain.StatusRepaying,
			wantBalance: 0.4,
			wantDebt:    9500,
			wantPaid:    20000,
		},
		{
			desc:        "liquidation when debt breaches the ceiling",
			state:       BridgeState{Balance: 1, Debt: 24000},
			in:          YearInputs{Year: 2030, Price: 50000, Trend: 100000, Burn: 1000},
			wantStatus:  domain.StatusRuin,
			wantBalance: 0,
			wantDebt:    0,
		},
		{
			desc:        "burn larger than the fund",
			state:       BridgeState{Balance: 0.01},
			in:          YearInputs{Year: 2030, Price: 100000, Trend: 100000, Burn: 5000},
			wantStatus:  domain.StatusRuin,
			wantBalance: 0,
			wantPaid:    1000,
		},
		{
			desc:       "empty fund",
			state:      BridgeState{},
			in:         YearInputs{Year: 2030, Price: 100000, Trend: 100000, Burn: 5000},
			wantStatus: domain.StatusRuin,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			next, rec := Step(tc.state, tc.in, stepParams())
			assert.Equal(t, tc.wantStatus, rec.Status)
			assert.InDelta(t, tc.wantBalance, rec.AssetBalance, 1e-9)
			assert.InDelta(t, tc.wantDebt, rec.Debt, 1e-6)
			assert.InDelta(t, tc.wantPaid, rec.ActualWithdrawal, 1e-6)
			assert.Equal(t, tc.wantStatus == domain.StatusRuin, next.Ruined)
			if !next.Ruined {
				assert.InDelta(t, rec.AssetBalance, next.Balance, 1e-12)
				assert.InDelta(t, rec.Debt, next.Debt, 1e-12)
			}
		})
	}
}

func TestStep_LiquidationSeizesBalance(t *testing.T) {
	_, rec := Step(BridgeState{Balance: 1, Debt: 24000},
		YearInputs{Year: 2030, Price: 50000, Trend: 100000, Burn: 1000}, stepParams())
	assert.Equal(t, 1.0, rec.AssetSold)
	assert.InDelta(t, 26400, rec.Repaid, 1e-6)
	assert.Zero(t, rec.ActualWithdrawal)
}

func TestStep_RuinedStateEmitsPlaceholder(t *testing.T) {
	state := BridgeState{Ruined: true}
	next, rec := Step(state, YearInputs{Index: 7, Year: 2037, Price: 1e6, Trend: 1e6, Burn: 1}, stepParams())
	assert.True(t, next.Ruined)
	assert.Equal(t, domain.RuinPlaceholder(7, 2037), rec)
}

func TestSimulateBridge_ReferenceScenarioIsDeterministic(t *testing.T) {
	first, err := NewEngine(nil).SimulateBridge(referenceParams())
	require.NoError(t, err)
	second, err := NewEngine(nil).SimulateBridge(referenceParams())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, first.Storm.EndYear, second.Storm.EndYear)
	assert.Equal(t, first.FinalBalance(), second.FinalBalance())
	assert.Equal(t, first.TotalWithdrawn(), second.TotalWithdrawn())

	// on the trend line there is never a reason to borrow
	assert.Zero(t, first.StatusCounts()[domain.StatusBorrow])
	assert.Greater(t, first.TotalWithdrawn(), 0.0)
	assert.Equal(t, 50000.0, first.Records[0].RequestedWithdrawal)
	assert.InDelta(t, 50000*1.065, first.Records[1].RequestedWithdrawal, 1e-6)

	// pinned outcome of the one-coin reference plan
	require.False(t, first.Storm.Never())
	assert.Equal(t, 22, *first.Storm.Years)
	assert.Equal(t, 2052, *first.Storm.EndYear)
	require.NotNil(t, first.RuinYear)
	assert.Equal(t, 2037, *first.RuinYear)
	assert.False(t, first.Survives)
	assert.Len(t, first.Records, 30)
	assert.InDelta(t, 0.0, first.FinalBalance(), 1e-9)
	assert.InDelta(t, 493397.77, first.TotalWithdrawn(), 0.01)
	for _, rec := range first.Records[2037-2030+1:] {
		assert.Equal(t, domain.RuinPlaceholder(rec.Index, rec.Year), rec)
	}
}

func TestSimulateBridge_Horizon(t *testing.T) {
	e := NewEngine(nil)
	res, err := e.SimulateBridge(comfortableParams())
	require.NoError(t, err)
	require.False(t, res.Storm.Never())
	assert.Len(t, res.Records, max(*res.Storm.Years+5, 30))

	res, err = e.SimulateBridge(comfortableParams().WithSplit(1))
	require.NoError(t, err)
	assert.True(t, res.Storm.Never())
	assert.Len(t, res.Records, comfortableParams().MaxHorizon)
}

func TestSimulateBridge_Invariants(t *testing.T) {
	e := NewEngine(nil)
	for _, scenario := range domain.Scenarios() {
		for _, stake := range []float64{0.2, 1, 3} {
			for _, split := range []float64{0, 0.25, 0.5, 0.75, 1} {
				p := referenceParams().WithStake(stake).WithSplit(split)
				p.Scenario = scenario
				res, err := e.SimulateBridge(p)
				require.NoError(t, err)

				ruined := false
				for _, rec := range res.Records {
					assert.GreaterOrEqual(t, rec.AssetBalance, 0.0)
					assert.GreaterOrEqual(t, rec.Debt, 0.0)
					assert.NotEqual(t, domain.StatusOK, rec.Status)
					if ruined {
						assert.Equal(t, domain.RuinPlaceholder(rec.Index, rec.Year), rec)
					}
					if rec.Status == domain.StatusRuin {
						if !ruined {
							require.NotNil(t, res.RuinYear)
							assert.Equal(t, rec.Year, *res.RuinYear)
						}
						ruined = true
					}
				}
				assert.Equal(t, ruined, res.Ruined())
			}
		}
	}
}

func TestSimulateBridge_SplitBoundaries(t *testing.T) {
	e := NewEngine(nil)

	res, err := e.SimulateBridge(referenceParams().WithSplit(0))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRuin, res.Records[0].Status)
	require.NotNil(t, res.RuinYear)
	assert.Equal(t, 2030, *res.RuinYear)

	res, err = e.SimulateBridge(referenceParams().WithSplit(1))
	require.NoError(t, err)
	assert.True(t, res.Storm.Never())
	assert.Nil(t, res.Storm.EndYear)
	assert.Zero(t, res.Storm.ForeverValue)
}

func TestSimulateBridge_BearScenarioBorrows(t *testing.T) {
	p := comfortableParams()
	p.Scenario = domain.ScenarioSmoothBear
	p.AnnualBurn = 10000
	res, err := NewEngine(nil).SimulateBridge(p)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusBorrow, res.Records[0].Status)
	assert.Greater(t, res.PeakDebt(), 0.0)
}
