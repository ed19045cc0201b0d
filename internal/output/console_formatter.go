package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/stormplan/stormplan/internal/domain"
	"github.com/stormplan/stormplan/pkg/decimal"
)

const rule = "================================================================================"

// ConsoleFormatter renders a human readable report for the terminal.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string      { return "console" }
func (c ConsoleFormatter) Extension() string { return "txt" }

func (c ConsoleFormatter) Format(r *Report) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, rule)
	fmt.Fprintf(&buf, "STORMPLAN %s REPORT\n", strings.ToUpper(string(r.Kind)))
	if r.Name != "" {
		fmt.Fprintf(&buf, "Plan: %s\n", r.Name)
	}
	fmt.Fprintf(&buf, "Run:  %s (%s)\n", r.RunID, r.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintln(&buf, rule)
	fmt.Fprintln(&buf)

	if r.Parameters != nil {
		writeParameters(&buf, r.Parameters)
	}

	switch r.Kind {
	case KindSimulation:
		if r.Projection == nil {
			return nil, fmt.Errorf("simulation report has no projection")
		}
		writeProjection(&buf, r.Projection)
	case KindOptimization:
		if r.Optimization == nil {
			return nil, fmt.Errorf("optimization report has no result")
		}
		writeOptimization(&buf, r.Optimization)
	case KindMonteCarlo:
		if r.MonteCarlo == nil {
			return nil, fmt.Errorf("monte carlo report has no result")
		}
		writeMonteCarlo(&buf, r.MonteCarlo)
	case KindLifetime:
		if r.Lifetime == nil {
			return nil, fmt.Errorf("lifetime report has no result")
		}
		writeLifetime(&buf, r.Lifetime)
	case KindAccumulation:
		if r.Accumulation == nil {
			return nil, fmt.Errorf("accumulation report has no result")
		}
		writeAccumulation(&buf, r.Accumulation.Accumulation)
		writeProjection(&buf, r.Accumulation.Projection)
	default:
		return nil, fmt.Errorf("unknown report kind %q", r.Kind)
	}
	return buf.Bytes(), nil
}

func writeParameters(buf *bytes.Buffer, p *domain.SimulationParameters) {
	fmt.Fprintln(buf, "PLAN")
	fmt.Fprintln(buf, strings.Repeat("-", 40))
	fmt.Fprintf(buf, "Total stake:      %s\n", FormatStake(p.TotalStake))
	fmt.Fprintf(buf, "Navigation split: %s (%s navigation / %s forever)\n",
		FormatPercentage(p.Split), FormatStake(p.NavigationStake()), FormatStake(p.ForeverStake()))
	burn := decimal.NewMoney(p.AnnualBurn)
	fmt.Fprintf(buf, "Annual burn:      %s (%s monthly)\n", burn.Format(), burn.Monthly().Round().Format())
	fmt.Fprintf(buf, "Retirement year:  %d\n", p.RetirementYear)
	fmt.Fprintln(buf)
	fmt.Fprintln(buf, "KEY ASSUMPTIONS:")
	for _, a := range GenerateAssumptions(p) {
		fmt.Fprintf(buf, "* %s\n", a)
	}
	fmt.Fprintln(buf)
}

func writeProjection(buf *bytes.Buffer, proj *domain.PlanProjection) {
	if proj == nil {
		return
	}
	writeStorm(buf, proj.Storm)
	writeBridge(buf, proj.Bridge)
	writeForever(buf, proj.Forever)
}

func writeStorm(buf *bytes.Buffer, s domain.StormPeriodResult) {
	fmt.Fprintln(buf, "STORM PERIOD")
	fmt.Fprintln(buf, strings.Repeat("-", 40))
	if s.Never() {
		fmt.Fprintln(buf, "The forever fund never becomes self-sustaining within the horizon.")
	} else {
		fmt.Fprintf(buf, "Storm length: %d years (ends %d)\n", *s.Years, *s.EndYear)
		fmt.Fprintf(buf, "Forever fund at end: %s against burn %s (safe rate %s)\n",
			FormatCurrency(s.ForeverValue), FormatCurrency(s.RequiredBurn), FormatPercentage(s.ForeverRate))
	}
	fmt.Fprintln(buf)
}

func writeBridge(buf *bytes.Buffer, res *domain.BridgeSimulationResult) {
	if res == nil {
		return
	}
	sum := SummarizeBridge(res)
	fmt.Fprintln(buf, "NAVIGATION FUND")
	fmt.Fprintln(buf, strings.Repeat("-", 40))
	fmt.Fprintf(buf, "%-6s %16s %8s %8s %16s %12s %12s %16s %-12s\n",
		"Year", "Price", "Multiple", "Rate", "Withdrawn", "Sold", "Balance", "Debt", "Status")
	for _, rec := range res.Records {
		if rec.Status == domain.StatusRuin && res.RuinYear != nil && rec.Year > *res.RuinYear {
			continue
		}
		fmt.Fprintf(buf, "%-6d %16s %8s %8s %16s %12s %12s %16s %-12s\n",
			rec.Year,
			FormatCurrency(rec.Price),
			floatToString(rec.Multiple, 2)+"x",
			FormatPercentage(rec.WithdrawalRate),
			FormatCurrency(rec.ActualWithdrawal),
			FormatStake(rec.AssetSold),
			FormatStake(rec.AssetBalance),
			FormatCurrency(rec.Debt),
			rec.Status,
		)
	}
	fmt.Fprintln(buf)
	fmt.Fprintf(buf, "Total withdrawn: %s\n", sum.TotalWithdrawn.Format())
	if sum.TotalBorrowed.IsZero() {
		fmt.Fprintln(buf, "Total borrowed:  none")
	} else {
		fmt.Fprintf(buf, "Total borrowed:  %s (repaid %s, peak debt %s)\n",
			sum.TotalBorrowed.Format(), sum.TotalRepaid.Format(), sum.PeakDebt.Format())
	}
	fmt.Fprintf(buf, "Final balance:   %s\n", FormatStake(sum.FinalBalance))
	fmt.Fprintf(buf, "Ruin year:       %s\n", FormatOptionalYear(sum.RuinYear))
	fmt.Fprintf(buf, "Survives storm:  %s\n", boolToString(sum.Survives))
	fmt.Fprintln(buf)
}

func writeForever(buf *bytes.Buffer, years []domain.ForeverYear) {
	if len(years) == 0 {
		return
	}
	fmt.Fprintln(buf, "FOREVER FUND")
	fmt.Fprintln(buf, strings.Repeat("-", 40))
	fmt.Fprintf(buf, "%-6s %18s %16s %10s %10s %16s %-11s\n",
		"Year", "Value", "Burn", "Ratio", "Safe", "Safe Amount", "Sustainable")
	for _, y := range years {
		ratio := "inf"
		if y.Value > 0 {
			ratio = FormatPercentage(y.Ratio)
		}
		fmt.Fprintf(buf, "%-6d %18s %16s %10s %10s %16s %-11s\n",
			y.Year,
			FormatCurrency(y.Value),
			FormatCurrency(y.Burn),
			ratio,
			FormatPercentage(y.ForeverRate),
			FormatCurrency(y.SafeWithdrawal),
			boolToString(y.Sustainable),
		)
	}
	fmt.Fprintln(buf)
}

func writeOptimization(buf *bytes.Buffer, res *domain.OptimizationResult) {
	fmt.Fprintln(buf, "OPTIMIZATION")
	fmt.Fprintln(buf, strings.Repeat("-", 40))
	if res.Success {
		fmt.Fprintf(buf, "Recommended split: %s navigation\n", FormatPercentage(res.Split))
		fmt.Fprintf(buf, "Storm length:      %s years\n", FormatYears(res.StormYears))
	} else {
		fmt.Fprintln(buf, "No split survives the storm.")
		fmt.Fprintf(buf, "Showing fallback split %s (storm %s years)\n", FormatPercentage(res.Split), FormatYears(res.StormYears))
	}
	fmt.Fprintln(buf)

	if rem := res.Remediation; rem != nil {
		fmt.Fprintln(buf, "REMEDIATIONS (each on its own)")
		fmt.Fprintln(buf, strings.Repeat("-", 40))
		fmt.Fprintf(buf, "Add stake:       %s\n", outcome(rem.ExtraStake, FormatStake))
		fmt.Fprintf(buf, "Lower burn to:   %s\n", outcome(rem.MaxBurn, FormatCurrency))
		fmt.Fprintf(buf, "Retire in:       %s\n", outcome(rem.EarliestYear, func(v float64) string { return floatToString(v, 0) }))
		fmt.Fprintln(buf)
	}
	if res.Simulation != nil {
		writeStorm(buf, res.Simulation.Storm)
		writeBridge(buf, res.Simulation)
	}
}

func outcome(o domain.SearchOutcome, format func(float64) string) string {
	if !o.Found {
		return "not reachable within search bounds"
	}
	s := format(o.Value)
	if o.Suspect {
		s += " (unreliable: search assumptions violated)"
	}
	return s
}

func writeMonteCarlo(buf *bytes.Buffer, res *domain.MonteCarloResult) {
	fmt.Fprintln(buf, "MONTE CARLO")
	fmt.Fprintln(buf, strings.Repeat("-", 40))
	fmt.Fprintf(buf, "Paths:                %d (seed %d)\n", res.Paths, res.Seed)
	fmt.Fprintf(buf, "Storm end year:       %s\n", FormatOptionalYear(res.StormEndYear))
	fmt.Fprintf(buf, "Survival probability: %s\n", FormatPercentage(res.SurvivalProbability))
	fmt.Fprintf(buf, "Ruined paths:         %d (median ruin year %s)\n", res.RuinCount, FormatOptionalYear(res.MedianRuinYear))
	fmt.Fprintf(buf, "Median peak debt:     %s\n", FormatCurrency(res.MedianPeakDebt))
	fmt.Fprintln(buf)
	fmt.Fprintf(buf, "%-6s %12s %12s %12s %12s %12s\n", "Year", "P10", "P25", "P50", "P75", "P90")
	for _, b := range res.Bands {
		fmt.Fprintf(buf, "%-6d %12s %12s %12s %12s %12s\n", b.Year,
			FormatStake(b.P10), FormatStake(b.P25), FormatStake(b.P50), FormatStake(b.P75), FormatStake(b.P90))
	}
	fmt.Fprintln(buf)
}

func writeLifetime(buf *bytes.Buffer, res *domain.LifetimeNeedResult) {
	fmt.Fprintln(buf, "LIFETIME NEED")
	fmt.Fprintln(buf, strings.Repeat("-", 40))
	fmt.Fprintf(buf, "%-11s %-9s %14s %-8s\n", "Years", "Ages", "Need", "Phase")
	for _, c := range res.Chunks {
		fmt.Fprintf(buf, "%d-%d %3d-%-5d %14s %-8s\n", c.StartYear, c.EndYear, c.StartAge, c.EndAge, FormatStake(c.Need), c.Phase)
	}
	fmt.Fprintln(buf)
	fmt.Fprintf(buf, "Total need:           %s\n", FormatStake(res.TotalNeed))
	fmt.Fprintf(buf, "Storm need:           %s\n", FormatStake(res.StormNeed))
	fmt.Fprintf(buf, "Forever phase from:   %s\n", FormatOptionalYear(res.ForeverStartYear))
	if res.EarliestRetireAge != nil {
		fmt.Fprintf(buf, "Earliest retirement:  age %d (%d)\n", *res.EarliestRetireAge, *res.EarliestRetireYear)
	} else {
		fmt.Fprintln(buf, "Earliest retirement:  not covered by current stake")
	}
	fmt.Fprintln(buf)
}

func writeAccumulation(buf *bytes.Buffer, res *domain.AccumulationResult) {
	if res == nil {
		return
	}
	fmt.Fprintln(buf, "ACCUMULATION")
	fmt.Fprintln(buf, strings.Repeat("-", 40))
	fmt.Fprintf(buf, "%-6s %16s %12s %12s %16s %16s\n", "Year", "Contributed", "Acquired", "Cumulative", "Cost Basis", "Avg Price")
	for _, y := range res.Years {
		fmt.Fprintf(buf, "%-6d %16s %12s %12s %16s %16s\n", y.Year,
			FormatCurrency(y.Contributed), FormatStake(y.Acquired), FormatStake(y.Cumulative),
			FormatCurrency(y.CostBasis), FormatCurrency(y.AvgPrice))
	}
	fmt.Fprintln(buf)
	fmt.Fprintf(buf, "Stake at retirement (%d): %s\n", res.RetirementYear, FormatStake(res.FinalStake))
	fmt.Fprintln(buf)
}
