package calculation

import (
	"math"

	"github.com/stormplan/stormplan/internal/domain"
	"github.com/stormplan/stormplan/internal/trend"
)

// debtEpsilon is the residual debt treated as fully repaid.
const debtEpsilon = 1e-6

// repayShare caps how much of the remaining balance one REPAYING year may sell.
const repayShare = 0.5

// BridgeState is the navigation fund carried from one year to the next.
type BridgeState struct {
	Balance float64 // asset units
	Debt    float64 // currency
	Ruined  bool
}

// YearInputs are the exogenous values of one simulated year.
type YearInputs struct {
	Index     int
	Year      int
	Price     float64
	Trend     float64
	Deviation float64
	Burn      float64
}

// StepParams are the policy constants shared by every year of a run.
type StepParams struct {
	Thresholds domain.WithdrawalThresholds
	LTV        float64
	LoanRate   float64
}

// StepParamsFrom extracts the per-year policy from simulation parameters.
func StepParamsFrom(p domain.SimulationParameters) StepParams {
	return StepParams{Thresholds: p.Thresholds, LTV: p.LTV, LoanRate: p.LoanRate}
}

// Step advances the navigation fund by one year. It is a pure function:
// the returned state and record depend only on its arguments.
func Step(s BridgeState, in YearInputs, p StepParams) (BridgeState, domain.YearRecord) {
	if s.Ruined {
		return s, domain.RuinPlaceholder(in.Index, in.Year)
	}

	rec := domain.YearRecord{
		Index:               in.Index,
		Year:                in.Year,
		Price:               in.Price,
		TrendPrice:          in.Trend,
		Deviation:           in.Deviation,
		WithdrawalRate:      DynamicRate(in.Price, in.Trend, p.Thresholds),
		RequestedWithdrawal: in.Burn,
	}
	if in.Trend > 0 {
		rec.Multiple = in.Price / in.Trend
	}

	if s.Balance <= 0 {
		rec.Status = domain.StatusRuin
		rec.Debt = s.Debt
		return BridgeState{Ruined: true}, rec
	}

	price := math.Max(in.Price, 0)
	balance := s.Balance
	debt := s.Debt * (1 + p.LoanRate)
	value := balance * price

	// collateral call: the whole balance is seized
	if debt > value*p.LTV {
		repaid := math.Min(debt, value)
		rec.AssetSold = balance
		rec.Repaid = repaid
		rec.Debt = debt - repaid
		rec.Status = domain.StatusRuin
		return BridgeState{Ruined: true}, rec
	}

	if price < in.Trend {
		capacity := value*p.LTV - debt
		if in.Burn <= capacity {
			debt += in.Burn
			rec.Borrowed = in.Burn
			rec.ActualWithdrawal = in.Burn
			rec.AssetBalance = balance
			rec.FundValue = value
			rec.Debt = debt
			rec.Status = domain.StatusBorrow
			return BridgeState{Balance: balance, Debt: debt}, rec
		}
		rec.Status = domain.StatusForcedSell
		return sell(balance, debt, price, in.Burn, rec)
	}

	if debt <= debtEpsilon {
		rec.Status = domain.StatusSelling
		return sell(balance, 0, price, in.Burn, rec)
	}

	// REPAYING: fund the burn first, then pay down part of the debt
	if in.Burn > value {
		return exhaust(balance, debt, price, rec)
	}
	sold := 0.0
	if price > 0 {
		sold = in.Burn / price
	}
	balance -= sold
	repayQty := math.Min(balance*repayShare, debt/price)
	balance -= repayQty
	repaid := repayQty * price
	debt -= repaid
	if debt < debtEpsilon {
		debt = 0
	}

	rec.AssetSold = sold + repayQty
	rec.ActualWithdrawal = in.Burn
	rec.Repaid = repaid
	rec.AssetBalance = balance
	rec.FundValue = balance * price
	rec.Debt = debt
	rec.Status = domain.StatusRepaying
	return BridgeState{Balance: balance, Debt: debt}, rec
}

// sell funds the year by selling max(value*rate, burn); rec.Status is kept unless ruin occurs.
func sell(balance, debt, price, burn float64, rec domain.YearRecord) (BridgeState, domain.YearRecord) {
	value := balance * price
	if burn > value {
		return exhaust(balance, debt, price, rec)
	}
	amount := math.Max(value*rec.WithdrawalRate, burn)
	qty := 0.0
	if price > 0 {
		qty = math.Min(amount/price, balance)
	}
	balance -= qty

	rec.AssetSold = qty
	rec.ActualWithdrawal = qty * price
	rec.AssetBalance = balance
	rec.FundValue = balance * price
	rec.Debt = debt
	return BridgeState{Balance: balance, Debt: debt}, rec
}

// exhaust sells everything that is left and records ruin.
func exhaust(balance, debt, price float64, rec domain.YearRecord) (BridgeState, domain.YearRecord) {
	rec.AssetSold = balance
	rec.ActualWithdrawal = balance * price
	rec.AssetBalance = 0
	rec.FundValue = 0
	rec.Debt = debt
	rec.Status = domain.StatusRuin
	return BridgeState{Ruined: true}, rec
}

// SimulateBridge runs the navigation fund year by year until the horizon.
func (e *Engine) SimulateBridge(p domain.SimulationParameters) (*domain.BridgeSimulationResult, error) {
	model, err := e.prepare(p)
	if err != nil {
		return nil, err
	}
	return e.simulateBridge(p, model), nil
}

func (e *Engine) simulateBridge(p domain.SimulationParameters, model trend.Model) *domain.BridgeSimulationResult {
	storm := e.stormPeriod(p, model)
	horizon := bridgeHorizon(p, storm)
	params := StepParamsFrom(p)

	result := &domain.BridgeSimulationResult{
		Records: make([]domain.YearRecord, 0, horizon),
		Storm:   storm,
	}
	state := BridgeState{Balance: p.NavigationStake()}
	for i := 0; i < horizon; i++ {
		year := p.RetirementYear + i
		price, trendPrice, k := e.yearPrice(p, year)
		in := YearInputs{Index: i, Year: year, Price: price, Trend: trendPrice, Deviation: k, Burn: p.BurnAt(i)}

		var rec domain.YearRecord
		state, rec = Step(state, in, params)
		result.Records = append(result.Records, rec)
		if rec.Status == domain.StatusRuin && result.RuinYear == nil {
			ruin := year
			result.RuinYear = &ruin
		}
	}
	result.Survives = survives(result.RuinYear, storm)
	return result
}

// survives reports whether ruin, if any, came only after the storm ended.
func survives(ruinYear *int, storm domain.StormPeriodResult) bool {
	if ruinYear == nil {
		return true
	}
	if storm.Never() {
		return false
	}
	return *ruinYear >= *storm.EndYear
}
