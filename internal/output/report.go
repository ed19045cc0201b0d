package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/stormplan/stormplan/internal/domain"
)

// ErrUnsupportedFormat is returned for unknown formatter names.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// nowFunc stamps reports (override in tests for determinism).
var nowFunc = time.Now

// Kind identifies the calculation a report carries.
type Kind string

const (
	KindSimulation   Kind = "simulation"
	KindOptimization Kind = "optimization"
	KindMonteCarlo   Kind = "montecarlo"
	KindLifetime     Kind = "lifetime"
	KindAccumulation Kind = "accumulation"
)

// Report is the envelope every formatter renders. Exactly one result field
// is set, matching Kind.
type Report struct {
	RunID        string                       `json:"run_id"`
	Kind         Kind                         `json:"kind"`
	Name         string                       `json:"name,omitempty"`
	CreatedAt    time.Time                    `json:"created_at"`
	Parameters   *domain.SimulationParameters `json:"parameters,omitempty"`
	Projection   *domain.PlanProjection       `json:"projection,omitempty"`
	Optimization *domain.OptimizationResult   `json:"optimization,omitempty"`
	MonteCarlo   *domain.MonteCarloResult     `json:"monte_carlo,omitempty"`
	Lifetime     *domain.LifetimeNeedResult   `json:"lifetime,omitempty"`
	Accumulation *domain.AccumulatedPlan      `json:"accumulation,omitempty"`
}

// NewReport creates an empty report with a fresh run id.
func NewReport(kind Kind, name string, params *domain.SimulationParameters) *Report {
	return &Report{
		RunID:      uuid.NewString(),
		Kind:       kind,
		Name:       name,
		CreatedAt:  nowFunc().UTC(),
		Parameters: params,
	}
}

// Render formats a report onto w using the named formatter.
func Render(w io.Writer, format string, r *Report) error {
	f := GetFormatterByName(format)
	if f == nil {
		return fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, format,
			strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
	}
	data, err := f.Format(r)
	if err != nil {
		return fmt.Errorf("%s formatter failed: %w", f.Name(), err)
	}
	_, err = w.Write(data)
	return err
}

// WriteFormatted runs a formatter and writes output to a timestamped file in dir.
func WriteFormatted(f Formatter, r *Report, dir string) (string, error) {
	data, err := f.Format(r)
	if err != nil {
		return "", err
	}
	filename := filepath.Join(dir, fmt.Sprintf("stormplan_%s_%s.%s",
		r.Kind, r.CreatedAt.Format("20060102_150405"), f.Extension()))
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", err
	}
	return filename, nil
}
