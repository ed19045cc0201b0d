package output

import (
	"github.com/stormplan/stormplan/internal/domain"
	"github.com/stormplan/stormplan/pkg/decimal"
)

// BridgeSummary condenses a navigation fund run for display.
type BridgeSummary struct {
	TotalWithdrawn decimal.Money
	TotalBorrowed  decimal.Money
	TotalRepaid    decimal.Money
	PeakDebt       decimal.Money
	FinalBalance   float64
	StatusCounts   map[domain.Status]int
	RuinYear       *int
	Survives       bool
}

// SummarizeBridge totals a run in decimal so long horizons do not drift.
func SummarizeBridge(res *domain.BridgeSimulationResult) BridgeSummary {
	if res == nil {
		return BridgeSummary{StatusCounts: map[domain.Status]int{}}
	}
	withdrawn := make([]float64, 0, len(res.Records))
	borrowed := make([]float64, 0, len(res.Records))
	repaid := make([]float64, 0, len(res.Records))
	for _, rec := range res.Records {
		withdrawn = append(withdrawn, rec.ActualWithdrawal)
		borrowed = append(borrowed, rec.Borrowed)
		repaid = append(repaid, rec.Repaid)
	}
	return BridgeSummary{
		TotalWithdrawn: decimal.Sum(withdrawn...).Round(),
		TotalBorrowed:  decimal.Sum(borrowed...).Round(),
		TotalRepaid:    decimal.Sum(repaid...).Round(),
		PeakDebt:       decimal.NewMoney(res.PeakDebt()).Round(),
		FinalBalance:   res.FinalBalance(),
		StatusCounts:   res.StatusCounts(),
		RuinYear:       res.RuinYear,
		Survives:       res.Survives,
	}
}
