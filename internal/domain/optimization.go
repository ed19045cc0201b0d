package domain

// SearchOutcome is the result of a single bounded search.
type SearchOutcome struct {
	Value      float64 `json:"value"`
	Found      bool    `json:"found"`
	Iterations int     `json:"iterations"`
	// Suspect is set when a probe contradicted the monotonicity the search relies on.
	Suspect bool `json:"suspect"`
}

// Remediation holds three independent suggestions for an infeasible plan.
type Remediation struct {
	ExtraStake   SearchOutcome `json:"extra_stake"`
	MaxBurn      SearchOutcome `json:"max_burn"`
	EarliestYear SearchOutcome `json:"earliest_year"`
}

// OptimizationResult is either a recommended split or a failure with remediations.
type OptimizationResult struct {
	Success     bool                    `json:"success"`
	Split       float64                 `json:"split"`
	StormYears  *int                    `json:"storm_years"`
	Simulation  *BridgeSimulationResult `json:"simulation"`
	Remediation *Remediation            `json:"remediation,omitempty"`
}

// SplitCandidate records one grid point evaluated by the split search.
type SplitCandidate struct {
	Split      float64 `json:"split"`
	Survives   bool    `json:"survives"`
	StormYears *int    `json:"storm_years"`
	RuinYear   *int    `json:"ruin_year"`
}

// SplitSearch is the outcome of the split grid search.
// Best is only meaningful when Found is set.
type SplitSearch struct {
	Found      bool             `json:"found"`
	Best       SplitCandidate   `json:"best"`
	Candidates []SplitCandidate `json:"candidates"`
}
