package dateutil

import (
	"time"
)

// daysPerYear is the average Julian year used for all fractional-year math.
const daysPerYear = 365.25

// YearsBetween calculates the fractional number of years between two dates
func YearsBetween(fromDate, toDate time.Time) float64 {
	duration := toDate.Sub(fromDate)
	return duration.Hours() / 24 / daysPerYear
}

// DaysBetween calculates the fractional number of days between two dates
func DaysBetween(fromDate, toDate time.Time) float64 {
	return toDate.Sub(fromDate).Hours() / 24
}

// MidYear returns July 1st of the given calendar year (UTC).
// Annual simulation steps sample prices at this point.
func MidYear(year int) time.Time {
	return time.Date(year, time.July, 1, 0, 0, 0, 0, time.UTC)
}

// MonthStart returns the first day of the given month (UTC)
func MonthStart(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

// SnapUp rounds offset up to the next multiple of size.
// Offsets already on a boundary are returned unchanged; non-positive sizes disable snapping.
func SnapUp(offset, size int) int {
	if size <= 0 || offset <= 0 {
		if offset < 0 {
			return 0
		}
		return offset
	}
	if offset%size == 0 {
		return offset
	}
	return (offset/size + 1) * size
}
