package domain

import (
	"encoding/json"
	"math"
)

// Status is the navigation fund state recorded for a simulated year.
type Status string

const (
	StatusOK         Status = "OK" // entry state; never emitted for an active year
	StatusBorrow     Status = "BORROW"
	StatusForcedSell Status = "FORCED_SELL"
	StatusSelling    Status = "SELLING"
	StatusRepaying   Status = "REPAYING"
	StatusRuin       Status = "RUIN"
)

// YearRecord is one simulated year of the navigation fund.
type YearRecord struct {
	Index               int     `json:"index"`
	Year                int     `json:"year"`
	Price               float64 `json:"price"`
	TrendPrice          float64 `json:"trend_price"`
	Multiple            float64 `json:"multiple"`
	Deviation           float64 `json:"deviation"`
	WithdrawalRate      float64 `json:"withdrawal_rate"`
	RequestedWithdrawal float64 `json:"requested_withdrawal"`
	ActualWithdrawal    float64 `json:"actual_withdrawal"`
	AssetSold           float64 `json:"asset_sold"`
	AssetBalance        float64 `json:"asset_balance"`
	FundValue           float64 `json:"fund_value"`
	Debt                float64 `json:"debt"`
	Borrowed            float64 `json:"borrowed"`
	Repaid              float64 `json:"repaid"`
	Status              Status  `json:"status"`
}

// RuinPlaceholder is the zero-filled record emitted for every year after ruin.
func RuinPlaceholder(index, year int) YearRecord {
	return YearRecord{Index: index, Year: year, Status: StatusRuin}
}

// StormPeriodResult describes when the forever fund becomes self-sustaining.
// Years and EndYear are nil when the storm never ends within the horizon.
type StormPeriodResult struct {
	Years        *int    `json:"years"`
	EndYear      *int    `json:"end_year"`
	ForeverValue float64 `json:"forever_value"`
	RequiredBurn float64 `json:"required_burn"`
	ForeverRate  float64 `json:"forever_rate"`
}

// Never reports whether the storm outlasts the projection horizon.
func (s StormPeriodResult) Never() bool { return s.Years == nil }

// BridgeSimulationResult is the full navigation fund run.
type BridgeSimulationResult struct {
	Records  []YearRecord      `json:"records"`
	RuinYear *int              `json:"ruin_year"`
	Storm    StormPeriodResult `json:"storm"`
	Survives bool              `json:"survives"`
}

// Ruined reports whether ruin occurred at any point of the run.
func (r *BridgeSimulationResult) Ruined() bool { return r.RuinYear != nil }

// FinalBalance returns the asset balance after the last simulated year.
func (r *BridgeSimulationResult) FinalBalance() float64 {
	if len(r.Records) == 0 {
		return 0
	}
	return r.Records[len(r.Records)-1].AssetBalance
}

// TotalWithdrawn sums the currency actually delivered to the holder.
func (r *BridgeSimulationResult) TotalWithdrawn() float64 {
	var total float64
	for _, rec := range r.Records {
		total += rec.ActualWithdrawal
	}
	return total
}

// PeakDebt returns the largest outstanding debt recorded.
func (r *BridgeSimulationResult) PeakDebt() float64 {
	var peak float64
	for _, rec := range r.Records {
		if rec.Debt > peak {
			peak = rec.Debt
		}
	}
	return peak
}

// StatusCounts tallies how many years ended in each status.
func (r *BridgeSimulationResult) StatusCounts() map[Status]int {
	counts := make(map[Status]int)
	for _, rec := range r.Records {
		counts[rec.Status]++
	}
	return counts
}

// ForeverYear is one year of the read-only forever fund projection.
type ForeverYear struct {
	Index          int     `json:"index"`
	Year           int     `json:"year"`
	Price          float64 `json:"price"`
	Value          float64 `json:"value"`
	Burn           float64 `json:"burn"`
	Ratio          float64 `json:"ratio"` // +Inf when the fund is worthless
	ForeverRate    float64 `json:"forever_rate"`
	SafeWithdrawal float64 `json:"safe_withdrawal"`
	Sustainable    bool    `json:"sustainable"`
}

// MarshalJSON renders an infinite ratio as null.
func (f ForeverYear) MarshalJSON() ([]byte, error) {
	type alias ForeverYear
	aux := struct {
		alias
		Ratio *float64 `json:"ratio"`
	}{alias: alias(f)}
	if !math.IsInf(f.Ratio, 0) && !math.IsNaN(f.Ratio) {
		aux.Ratio = &f.Ratio
	}
	return json.Marshal(aux)
}

// PlanProjection bundles the deterministic views of one plan.
type PlanProjection struct {
	Parameters SimulationParameters    `json:"parameters"`
	Storm      StormPeriodResult       `json:"storm"`
	Bridge     *BridgeSimulationResult `json:"bridge"`
	Forever    []ForeverYear           `json:"forever"`
}
