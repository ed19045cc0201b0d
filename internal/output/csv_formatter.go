package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/stormplan/stormplan/internal/domain"
)

// CSVFormatter writes the per-year table of a report, one row per year.
type CSVFormatter struct{}

func (c CSVFormatter) Name() string      { return "csv" }
func (c CSVFormatter) Extension() string { return "csv" }

func (c CSVFormatter) Format(r *Report) ([]byte, error) {
	var rows [][]string
	switch r.Kind {
	case KindSimulation:
		if r.Projection == nil {
			return nil, fmt.Errorf("simulation report has no projection")
		}
		rows = bridgeRows(r.Projection.Bridge)
	case KindOptimization:
		if r.Optimization == nil {
			return nil, fmt.Errorf("optimization report has no result")
		}
		rows = bridgeRows(r.Optimization.Simulation)
	case KindMonteCarlo:
		if r.MonteCarlo == nil {
			return nil, fmt.Errorf("monte carlo report has no result")
		}
		rows = bandRows(r.MonteCarlo.Bands)
	case KindLifetime:
		if r.Lifetime == nil {
			return nil, fmt.Errorf("lifetime report has no result")
		}
		rows = lifetimeRows(r.Lifetime.Years)
	case KindAccumulation:
		if r.Accumulation == nil || r.Accumulation.Accumulation == nil {
			return nil, fmt.Errorf("accumulation report has no result")
		}
		rows = accumulationRows(r.Accumulation.Accumulation.Years)
	default:
		return nil, fmt.Errorf("unknown report kind %q", r.Kind)
	}

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func money(v float64) string { return floatToString(v, 2) }

func bridgeRows(res *domain.BridgeSimulationResult) [][]string {
	rows := [][]string{{"Year", "Price", "TrendPrice", "Multiple", "Deviation", "WithdrawalRate",
		"Requested", "Withdrawn", "AssetSold", "AssetBalance", "FundValue", "Debt", "Borrowed", "Repaid", "Status"}}
	if res == nil {
		return rows
	}
	for _, rec := range res.Records {
		rows = append(rows, []string{
			strconv.Itoa(rec.Year),
			money(rec.Price),
			money(rec.TrendPrice),
			floatToString(rec.Multiple, 4),
			floatToString(rec.Deviation, 4),
			floatToString(rec.WithdrawalRate, 4),
			money(rec.RequestedWithdrawal),
			money(rec.ActualWithdrawal),
			FormatStake(rec.AssetSold),
			FormatStake(rec.AssetBalance),
			money(rec.FundValue),
			money(rec.Debt),
			money(rec.Borrowed),
			money(rec.Repaid),
			string(rec.Status),
		})
	}
	return rows
}

func bandRows(bands []domain.PercentileBand) [][]string {
	rows := [][]string{{"Year", "P10", "P25", "P50", "P75", "P90"}}
	for _, b := range bands {
		rows = append(rows, []string{
			strconv.Itoa(b.Year),
			FormatStake(b.P10),
			FormatStake(b.P25),
			FormatStake(b.P50),
			FormatStake(b.P75),
			FormatStake(b.P90),
		})
	}
	return rows
}

func lifetimeRows(years []domain.LifetimeYear) [][]string {
	rows := [][]string{{"Year", "Age", "Price", "Burn", "Need", "ForeverRate", "Phase"}}
	for _, y := range years {
		rows = append(rows, []string{
			strconv.Itoa(y.Year),
			strconv.Itoa(y.Age),
			money(y.Price),
			money(y.Burn),
			FormatStake(y.Need),
			floatToString(y.ForeverRate, 4),
			string(y.Phase),
		})
	}
	return rows
}

func accumulationRows(years []domain.AccumulationYear) [][]string {
	rows := [][]string{{"Year", "Contributed", "Acquired", "Cumulative", "CostBasis", "AvgPrice"}}
	for _, y := range years {
		rows = append(rows, []string{
			strconv.Itoa(y.Year),
			money(y.Contributed),
			FormatStake(y.Acquired),
			FormatStake(y.Cumulative),
			money(y.CostBasis),
			money(y.AvgPrice),
		})
	}
	return rows
}
