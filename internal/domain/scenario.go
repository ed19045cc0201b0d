package domain

import (
	"fmt"
	"strings"
)

// Scenario identifies how the simulated price path relates to the trend.
type Scenario string

const (
	ScenarioSmoothTrend    Scenario = "smooth-trend"
	ScenarioSmoothBear     Scenario = "smooth-bear"      // fixed -1 sigma
	ScenarioSmoothDeepBear Scenario = "smooth-deep-bear" // fixed -2 sigma
	ScenarioCyclical       Scenario = "cyclical"         // oscillating +/-1 sigma
	ScenarioCyclicalBear   Scenario = "cyclical-bear"    // cyclical with a bearish bias
)

// Scenarios returns the closed set of supported scenario identifiers.
func Scenarios() []Scenario {
	return []Scenario{
		ScenarioSmoothTrend,
		ScenarioSmoothBear,
		ScenarioSmoothDeepBear,
		ScenarioCyclical,
		ScenarioCyclicalBear,
	}
}

// Valid reports whether s is one of the supported scenarios.
func (s Scenario) Valid() bool {
	for _, known := range Scenarios() {
		if s == known {
			return true
		}
	}
	return false
}

// ParseScenario normalizes user input into a Scenario.
func ParseScenario(raw string) (Scenario, error) {
	s := Scenario(strings.ToLower(strings.TrimSpace(raw)))
	if s == "" {
		return ScenarioSmoothTrend, nil
	}
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownScenario, raw)
	}
	return s, nil
}
