package domain

// Phase classifies a retirement year for the lifetime need view.
type Phase string

const (
	PhaseStorm   Phase = "storm"
	PhaseForever Phase = "forever"
)

// LifetimeNeedParams drives the simplified per-year cost projection.
type LifetimeNeedParams struct {
	CurrentYear    int      `json:"current_year"`
	CurrentAge     int      `json:"current_age"`
	RetirementAge  int      `json:"retirement_age"`
	LifeExpectancy int      `json:"life_expectancy"`
	AnnualBurn     float64  `json:"annual_burn"` // in current-year currency
	BurnGrowth     float64  `json:"burn_growth"`
	Stake          float64  `json:"stake"`
	Model          string   `json:"model"`
	Sigma          float64  `json:"sigma"`
	Scenario       Scenario `json:"scenario"`
	StartDeviation *float64 `json:"start_deviation,omitempty"`
}

// YearAtAge converts an age into a calendar year.
func (p LifetimeNeedParams) YearAtAge(age int) int {
	return p.CurrentYear + (age - p.CurrentAge)
}

// LifetimeYear is one retirement year of the lifetime need view.
type LifetimeYear struct {
	Year        int     `json:"year"`
	Age         int     `json:"age"`
	Price       float64 `json:"price"`
	Burn        float64 `json:"burn"`
	Need        float64 `json:"need"` // asset units
	ForeverRate float64 `json:"forever_rate"`
	Phase       Phase   `json:"phase"`
}

// LifetimeChunk groups fixed-size runs of years for reporting.
type LifetimeChunk struct {
	StartYear int     `json:"start_year"`
	EndYear   int     `json:"end_year"`
	StartAge  int     `json:"start_age"`
	EndAge    int     `json:"end_age"`
	Need      float64 `json:"need"`
	Phase     Phase   `json:"phase"`
}

// LifetimeNeedResult is the full lifetime need view.
type LifetimeNeedResult struct {
	Years              []LifetimeYear  `json:"years"`
	Chunks             []LifetimeChunk `json:"chunks"`
	TotalNeed          float64         `json:"total_need"`
	StormNeed          float64         `json:"storm_need"`
	ForeverStartYear   *int            `json:"forever_start_year"`
	EarliestRetireAge  *int            `json:"earliest_retire_age"`
	EarliestRetireYear *int            `json:"earliest_retire_year"`
}
