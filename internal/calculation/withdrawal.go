package calculation

import (
	"math"

	"github.com/stormplan/stormplan/internal/domain"
	"github.com/stormplan/stormplan/internal/trend"
	"github.com/stormplan/stormplan/pkg/dateutil"
)

// fallbackForeverRate applies when no time has elapsed since the asset origin.
const fallbackForeverRate = 0.02

// foreverReturnShare is the fraction of expected return that can be drawn forever.
const foreverReturnShare = 0.25

// DynamicRate returns the navigation fund withdrawal rate for a price/trend pair.
//
// The rate is flat outside [LowMultiple, HighMultiple] and linear in two
// segments joined at fair value, so DynamicRate(t, t, th) is exactly th.NormalRate.
func DynamicRate(price, trendPrice float64, th domain.WithdrawalThresholds) float64 {
	if trendPrice <= 0 {
		return th.NormalRate
	}
	m := price / trendPrice
	switch {
	case m >= th.HighMultiple:
		return th.HighRate
	case m <= th.LowMultiple:
		return th.LowRate
	case m < 1:
		frac := (m - th.LowMultiple) / (1 - th.LowMultiple)
		return th.LowRate + frac*(th.NormalRate-th.LowRate)
	default:
		frac := (m - 1) / (th.HighMultiple - 1)
		return th.NormalRate + frac*(th.HighRate-th.NormalRate)
	}
}

// ForeverRate returns the forever-safe withdrawal rate for a calendar year.
// Expected return of a power law decays as exponent/(t*ln10).
func (e *Engine) ForeverRate(model trend.Model, year int) float64 {
	t := e.Oracle.YearsSinceOrigin(dateutil.MidYear(year))
	if t <= 0 {
		return fallbackForeverRate
	}
	expected := model.Exponent / (t * math.Ln10)
	return foreverReturnShare * expected
}
