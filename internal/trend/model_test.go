package trend

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, []string{"power-law", "power-law-conservative"}, r.Names())

	m, err := r.Model("power-law")
	require.NoError(t, err)
	assert.Equal(t, 5.82, m.Exponent)
	assert.Equal(t, 0.30, m.Sigma)

	_, err = r.Model("rainbow")
	assert.ErrorIs(t, err, ErrUnknownModel)
}

func TestTrendPrice(t *testing.T) {
	r := DefaultRegistry()
	date := time.Date(2030, 7, 1, 0, 0, 0, 0, time.UTC)

	days := date.Sub(Origin).Hours() / 24
	want := math.Pow(10, -17.01+5.82*math.Log10(days))
	assert.InDelta(t, want, r.TrendPrice("power-law", date), want*1e-12)

	// trend grows over time
	later := r.TrendPrice("power-law", date.AddDate(10, 0, 0))
	assert.Greater(t, later, r.TrendPrice("power-law", date))

	assert.Equal(t, 0.0, r.TrendPrice("power-law", Origin.AddDate(-1, 0, 0)))
	assert.Equal(t, 0.0, r.TrendPrice("unknown", date))
}

func TestBandPrice(t *testing.T) {
	r := DefaultRegistry()
	date := time.Date(2035, 7, 1, 0, 0, 0, 0, time.UTC)
	trend := r.TrendPrice("power-law", date)

	assert.InDelta(t, trend, r.BandPrice("power-law", 0.3, 0, date), 1e-6)
	assert.InDelta(t, trend*math.Pow(10, 0.3), r.BandPrice("power-law", 0.3, 1, date), trend*1e-12)
	assert.InDelta(t, trend*math.Pow(10, -0.6), r.BandPrice("power-law", 0.3, -2, date), trend*1e-12)
}

func TestYearsSinceOrigin(t *testing.T) {
	r := DefaultRegistry()
	assert.InDelta(t, 21.5, r.YearsSinceOrigin(time.Date(2030, 7, 3, 0, 0, 0, 0, time.UTC)), 0.01)
	assert.Less(t, r.YearsSinceOrigin(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)), 0.0)
}

func TestNewRegistryDuplicateOverrides(t *testing.T) {
	r := NewRegistry(Model{Name: "a", Exponent: 1}, Model{Name: "a", Exponent: 2})
	m, err := r.Model("a")
	require.NoError(t, err)
	assert.Equal(t, 2.0, m.Exponent)
	assert.Equal(t, []string{"a"}, r.Names())
}
