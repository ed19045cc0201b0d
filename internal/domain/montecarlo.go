package domain

// PercentileBand is the cross-path distribution of fund asset balance in one year.
type PercentileBand struct {
	Index int     `json:"index"`
	Year  int     `json:"year"`
	P10   float64 `json:"p10"`
	P25   float64 `json:"p25"`
	P50   float64 `json:"p50"`
	P75   float64 `json:"p75"`
	P90   float64 `json:"p90"`
}

// MonteCarloResult aggregates stochastic navigation fund runs.
// Seed is 0 when the run was driven by a caller-supplied generator.
type MonteCarloResult struct {
	Paths               int              `json:"paths"`
	Seed                int64            `json:"seed"`
	SurvivalProbability float64          `json:"survival_probability"`
	StormEndYear        *int             `json:"storm_end_year"`
	Bands               []PercentileBand `json:"bands"`
	RuinCount           int              `json:"ruin_count"`
	MedianRuinYear      *int             `json:"median_ruin_year"`
	MedianPeakDebt      float64          `json:"median_peak_debt"`
	RuinYears           []int            `json:"ruin_years"`
}
