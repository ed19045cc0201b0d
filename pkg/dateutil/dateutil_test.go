package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestYearsBetween(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		to   time.Time
		want float64
		tol  float64
	}{
		{"1 year", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), 1.0, 0.01},
		{"2.5 years", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2022, 7, 1, 0, 0, 0, 0, time.UTC), 2.5, 0.05},
		{"Across leap", time.Date(2019, 7, 1, 0, 0, 0, 0, time.UTC), time.Date(2020, 7, 1, 0, 0, 0, 0, time.UTC), 1.0, 0.01},
		{"Negative", time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), -1.0, 0.01},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, YearsBetween(tt.from, tt.to), tt.tol)
		})
	}
}

func TestDaysBetween(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.InDelta(t, 366.0, DaysBetween(from, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)), 1e-9)
}

func TestMidYearAndMonthStart(t *testing.T) {
	assert.Equal(t, time.Date(2030, 7, 1, 0, 0, 0, 0, time.UTC), MidYear(2030))
	assert.Equal(t, time.Date(2031, 3, 1, 0, 0, 0, 0, time.UTC), MonthStart(2031, time.March))
}

func TestSnapUp(t *testing.T) {
	cases := []struct{ offset, size, want int }{
		{0, 5, 0},
		{1, 5, 5},
		{4, 5, 5},
		{5, 5, 5},
		{6, 5, 10},
		{13, 5, 15},
		{-3, 5, 0},
		{7, 0, 7},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, SnapUp(c.offset, c.size), "SnapUp(%d,%d)", c.offset, c.size)
	}
}
