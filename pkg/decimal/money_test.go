package decimal

import (
	"testing"

	stddec "github.com/shopspring/decimal"
)

func TestConstructors(t *testing.T) {
	m := NewMoney(12.345)
	if got := m.Round().StringFixed(2); got != "12.35" {
		t.Fatalf("NewMoney rounding mismatch: got %s", got)
	}

	m2, err := NewMoneyFromString("123.45")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m2.Decimal.Equal(stddec.RequireFromString("123.45")) {
		t.Fatalf("NewMoneyFromString mismatch: got %s", m2.Decimal)
	}

	if _, err := NewMoneyFromString("not-a-number"); err == nil {
		t.Fatalf("expected error for invalid string")
	}
}

func TestSum(t *testing.T) {
	got := Sum(0.1, 0.2, 0.3)
	if !got.Decimal.Equal(stddec.NewFromFloat(0.6)) {
		t.Fatalf("Sum mismatch: got %s", got.Decimal)
	}
	if !Sum().IsZero() {
		t.Fatalf("empty Sum should be zero")
	}
}

func TestArithmetic(t *testing.T) {
	a := NewMoney(120000)
	b := NewMoney(20000)
	if got := a.Add(b).StringFixed(2); got != "140000.00" {
		t.Fatalf("Add mismatch: %s", got)
	}
	if got := a.Monthly().StringFixed(2); got != "10000.00" {
		t.Fatalf("Monthly mismatch: %s", got)
	}
	if !Zero().IsZero() || a.IsZero() {
		t.Fatalf("IsZero mismatch")
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{12.5, "$12.50"},
		{999.999, "$1,000.00"},
		{1234567.891, "$1,234,567.89"},
		{-50000, "-$50,000.00"},
		{-0.001, "$0.00"},
	}
	for _, c := range cases {
		if got := NewMoney(c.in).Format(); got != c.want {
			t.Errorf("Format(%v) = %s, want %s", c.in, got, c.want)
		}
	}
}
