package output

import (
	"fmt"

	"github.com/stormplan/stormplan/internal/domain"
)

// DefaultAssumptions lists modeling assumptions that hold for every plan.
var DefaultAssumptions = []string{
	"Prices are sampled at mid-year (July 1) for annual steps",
	"Annual burn grows after each year's withdrawal; year 0 is not inflated",
	"Debt accrues interest before the collateral check each year",
	"Forever-safe rate: 25% of the trend's expected return, decaying as 1/t",
}

// GenerateAssumptions creates the assumptions list from actual parameter values.
func GenerateAssumptions(p *domain.SimulationParameters) []string {
	if p == nil {
		return DefaultAssumptions
	}
	th := p.Thresholds
	out := []string{
		fmt.Sprintf("Trend model: %s, sigma %.2f, scenario %s", p.Model, p.Sigma, p.Scenario),
		fmt.Sprintf("Burn growth: %.1f%% annually", p.BurnGrowth*100),
		fmt.Sprintf("Loan: %.0f%% loan-to-value at %.1f%% interest", p.LTV*100, p.LoanRate*100),
		fmt.Sprintf("Withdrawal rate: %.1f%% below %.2fx trend, %.1f%% at trend, %.1f%% above %.2fx",
			th.LowRate*100, th.LowMultiple, th.NormalRate*100, th.HighRate*100, th.HighMultiple),
	}
	if p.StartDeviation != nil {
		out = append(out, fmt.Sprintf("Starting deviation: %+.2f sigma, halving each year", *p.StartDeviation))
	}
	return append(out, DefaultAssumptions...)
}
