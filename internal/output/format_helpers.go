package output

import (
	"fmt"
	"strconv"

	"github.com/stormplan/stormplan/pkg/decimal"
)

// FormatCurrency formats an amount as grouped USD with 2 decimals.
func FormatCurrency(amount float64) string { return decimal.NewMoney(amount).Format() }

// FormatPercentage formats a fraction as a percentage with 2 decimals.
func FormatPercentage(rate float64) string { return fmt.Sprintf("%.2f%%", rate*100) }

// FormatStake formats an asset quantity.
func FormatStake(qty float64) string { return strconv.FormatFloat(qty, 'f', 6, 64) }

// FormatYears renders an optional count of years; nil reads as "never".
func FormatYears(years *int) string {
	if years == nil {
		return "never"
	}
	return strconv.Itoa(*years)
}

// FormatOptionalYear renders an optional calendar year.
func FormatOptionalYear(year *int) string {
	if year == nil {
		return "n/a"
	}
	return strconv.Itoa(*year)
}

func boolToString(b bool) string { return strconv.FormatBool(b) }

func floatToString(v float64, prec int) string { return strconv.FormatFloat(v, 'f', prec, 64) }
