package calculation

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/stormplan/stormplan/internal/domain"
	"github.com/stormplan/stormplan/internal/trend"
)

func TestDynamicRate(t *testing.T) {
	th := domain.DefaultThresholds()
	testCases := []struct {
		desc     string
		multiple float64
		want     float64
	}{
		{"deep below trend", 0.2, 0.02},
		{"at low threshold", 0.5, 0.02},
		{"midway below fair value", 0.75, 0.03},
		{"fair value", 1.0, 0.04},
		{"midway above fair value", 1.5, 0.07},
		{"at high threshold", 2.0, 0.10},
		{"far above trend", 5.0, 0.10},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.InDelta(t, tc.want, DynamicRate(tc.multiple*40000, 40000, th), 1e-12)
		})
	}
}

func TestDynamicRate_ExactNormalAtTrend(t *testing.T) {
	th := domain.DefaultThresholds()
	for _, price := range []float64{1, 123.456, 98765.4321, 1e9} {
		assert.Equal(t, th.NormalRate, DynamicRate(price, price, th))
	}
}

func TestDynamicRate_Continuity(t *testing.T) {
	th := domain.DefaultThresholds()
	const eps = 1e-9
	for _, boundary := range []float64{th.LowMultiple, 1, th.HighMultiple} {
		below := DynamicRate(boundary-eps, 1, th)
		above := DynamicRate(boundary+eps, 1, th)
		assert.InDelta(t, below, above, 1e-6, "jump at multiple %v", boundary)
	}

	// no step anywhere on a fine sweep
	prev := DynamicRate(0.01, 1, th)
	for m := 0.011; m < 3; m += 0.001 {
		cur := DynamicRate(m, 1, th)
		assert.GreaterOrEqual(t, cur, prev)
		assert.Less(t, cur-prev, 1e-3)
		prev = cur
	}
}

func TestDynamicRate_NonPositiveTrend(t *testing.T) {
	th := domain.DefaultThresholds()
	assert.Equal(t, th.NormalRate, DynamicRate(50000, 0, th))
	assert.Equal(t, th.NormalRate, DynamicRate(50000, -1, th))
}

// fixedAgeOracle reports a constant time since origin.
type fixedAgeOracle struct {
	*trend.Registry
	years float64
}

func (o fixedAgeOracle) YearsSinceOrigin(time.Time) float64 { return o.years }

func TestForeverRate(t *testing.T) {
	model := trend.Model{Name: "test", Exponent: 5.82, Sigma: 0.3}

	e := NewEngine(fixedAgeOracle{Registry: trend.DefaultRegistry(), years: 20})
	assert.InDelta(t, 0.25*5.82/(20*math.Ln10), e.ForeverRate(model, 2029), 1e-15)

	e = NewEngine(fixedAgeOracle{Registry: trend.DefaultRegistry(), years: 0})
	assert.Equal(t, 0.02, e.ForeverRate(model, 2009))

	e = NewEngine(fixedAgeOracle{Registry: trend.DefaultRegistry(), years: -3})
	assert.Equal(t, 0.02, e.ForeverRate(model, 2000))
}

func TestForeverRate_DecaysOverTime(t *testing.T) {
	e := NewEngine(nil)
	model, _ := trend.DefaultRegistry().Model("power-law")
	prev := e.ForeverRate(model, 2025)
	for year := 2026; year < 2100; year++ {
		cur := e.ForeverRate(model, year)
		assert.Less(t, cur, prev)
		prev = cur
	}
}
