// Package trend provides the long-run price trend oracle and the scenario
// resolver consumed by the calculation engine.
//
// Models follow a power law in days since the asset's origin:
//
//	log10(price) = intercept + exponent*log10(days)
//
// Deviations are expressed as signed multiples k of the model's sigma in
// log10 space, so a band price is trend * 10^(k*sigma).
package trend

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/stormplan/stormplan/pkg/dateutil"
)

// ErrUnknownModel is returned when a model name is not registered.
var ErrUnknownModel = errors.New("unknown trend model")

// Origin is the asset's genesis date, the zero point of every model.
var Origin = time.Date(2009, time.January, 3, 0, 0, 0, 0, time.UTC)

// Model holds the constants of one fitted trend curve.
type Model struct {
	Name      string  `json:"name"`
	Intercept float64 `json:"intercept"`
	Exponent  float64 `json:"exponent"` // growth exponent of the power law
	Sigma     float64 `json:"sigma"`    // canonical deviation in log10 units
}

// TrendPrice returns the model price at date; zero before the origin.
func (m Model) TrendPrice(date time.Time) float64 {
	days := dateutil.DaysBetween(Origin, date)
	if days <= 1 {
		return 0
	}
	return math.Pow(10, m.Intercept+m.Exponent*math.Log10(days))
}

// Registry is an immutable lookup table of models keyed by name.
// Build it once and share it by reference.
type Registry struct {
	models map[string]Model
	names  []string
}

// NewRegistry builds a registry from the given models. Later duplicates win.
func NewRegistry(models ...Model) *Registry {
	r := &Registry{models: make(map[string]Model, len(models))}
	for _, m := range models {
		if _, dup := r.models[m.Name]; !dup {
			r.names = append(r.names, m.Name)
		}
		r.models[m.Name] = m
	}
	sort.Strings(r.names)
	return r
}

// DefaultRegistry returns the built-in models.
func DefaultRegistry() *Registry {
	return NewRegistry(
		Model{Name: "power-law", Intercept: -17.01, Exponent: 5.82, Sigma: 0.30},
		Model{Name: "power-law-conservative", Intercept: -16.50, Exponent: 5.60, Sigma: 0.25},
	)
}

// Model looks up a model by name.
func (r *Registry) Model(name string) (Model, error) {
	m, ok := r.models[name]
	if !ok {
		return Model{}, fmt.Errorf("%w: %q", ErrUnknownModel, name)
	}
	return m, nil
}

// Names returns registered model names in sorted order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// TrendPrice returns the trend price of the named model at date.
// Unknown models yield zero, which downstream guards treat as "no trend".
func (r *Registry) TrendPrice(model string, date time.Time) float64 {
	m, ok := r.models[model]
	if !ok {
		return 0
	}
	return m.TrendPrice(date)
}

// BandPrice returns the price k sigmas away from trend.
func (r *Registry) BandPrice(model string, sigma, k float64, date time.Time) float64 {
	return r.TrendPrice(model, date) * math.Pow(10, k*sigma)
}

// YearsSinceOrigin returns fractional years elapsed since the asset origin.
func (r *Registry) YearsSinceOrigin(date time.Time) float64 {
	return dateutil.YearsBetween(Origin, date)
}
