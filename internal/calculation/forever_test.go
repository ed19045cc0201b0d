package calculation

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectForeverFund(t *testing.T) {
	e := NewEngine(nil)
	p := referenceParams()
	years, err := e.ProjectForeverFund(p, 10)
	require.NoError(t, err)
	require.Len(t, years, 10)

	for i, y := range years {
		assert.Equal(t, i, y.Index)
		assert.Equal(t, 2030+i, y.Year)
		assert.InDelta(t, p.ForeverStake()*y.Price, y.Value, 1e-6)
		assert.InDelta(t, p.BurnAt(i), y.Burn, 1e-6)
		assert.InDelta(t, y.Value*y.ForeverRate, y.SafeWithdrawal, 1e-6)
		assert.InDelta(t, y.Burn/y.Value, y.Ratio, 1e-12)
		assert.Equal(t, y.Ratio < y.ForeverRate, y.Sustainable)
	}
	// the fund is never drawn, so its value tracks price alone
	assert.Greater(t, years[9].Value, years[0].Value)
}

func TestProjectForeverFund_DefaultsToHorizon(t *testing.T) {
	years, err := NewEngine(nil).ProjectForeverFund(referenceParams(), 0)
	require.NoError(t, err)
	assert.Len(t, years, referenceParams().MaxHorizon)
}

func TestProjectForeverFund_EmptyFund(t *testing.T) {
	years, err := NewEngine(nil).ProjectForeverFund(referenceParams().WithSplit(1), 3)
	require.NoError(t, err)
	for _, y := range years {
		assert.True(t, math.IsInf(y.Ratio, 1))
		assert.False(t, y.Sustainable)
		assert.Zero(t, y.SafeWithdrawal)
	}

	data, err := json.Marshal(years[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"ratio":null`)
}
