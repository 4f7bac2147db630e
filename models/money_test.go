package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseMoney_AcceptsFormattedStrings(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{"20000", "20000"},
		{"20,000", "20000"},
		{"MMK 20,000", "20000"},
		{"MMK -20,000", "-20000"},
		{"  ks 1,234.50  ", "1234.5"},
	}
	for _, tc := range cases {
		m, err := ParseMoney(tc.in, "MMK")
		if err != nil {
			t.Fatalf("ParseMoney(%q) error: %v", tc.in, err)
		}
		if m.Amount.String() != tc.expected {
			t.Fatalf("ParseMoney(%q) expected %s, got %s", tc.in, tc.expected, m.Amount.String())
		}
		if m.Currency != "MMK" {
			t.Fatalf("ParseMoney(%q) expected currency MMK, got %q", tc.in, m.Currency)
		}
	}
}

func TestParseMoney_RejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "MMK", " , ", "5-3", "12abc34", "1.2.3", ".", "--5", "100 MMK", "1e5", "MMK 1,0 0"} {
		if _, err := ParseMoney(in, "MMK"); err == nil {
			t.Fatalf("ParseMoney(%q) expected error", in)
		}
	}
}

func TestMoneyFormat(t *testing.T) {
	cases := []struct {
		m        Money
		places   int32
		expected string
	}{
		{MoneyFromInt(0, "MMK"), 0, "MMK 0"},
		{MoneyFromInt(1234567, "MMK"), 0, "MMK 1,234,567"},
		{NewMoney(decimal.RequireFromString("-1234.5"), "MMK"), 2, "MMK -1,234.50"},
		{NewMoney(decimal.RequireFromString("999.999"), ""), 2, "1,000.00"},
		{MoneyFromInt(100, "USD"), 2, "USD 100.00"},
	}
	for _, tc := range cases {
		if got := tc.m.Format(tc.places); got != tc.expected {
			t.Fatalf("Format(%s, %d) expected %q, got %q", tc.m.Amount, tc.places, tc.expected, got)
		}
	}
}

func TestMoneyArithmeticKeepsCurrency(t *testing.T) {
	a := MoneyFromInt(100, "MMK")
	var zero Money
	if got := zero.Add(a); got.Currency != "MMK" || !got.Equal(a) {
		t.Fatalf("zero.Add expected MMK 100, got %s %s", got.Currency, got.Amount)
	}
	if got := a.Sub(MoneyFromInt(150, "MMK")); got.Amount.String() != "-50" {
		t.Fatalf("Sub expected -50, got %s", got.Amount)
	}
	if got := a.Sub(MoneyFromInt(150, "MMK")).ClampZero(); !got.IsZero() {
		t.Fatalf("ClampZero expected 0, got %s", got.Amount)
	}
}

func TestMaxMoney_TieReturnsFirst(t *testing.T) {
	a := MoneyFromInt(500, "MMK")
	b := MoneyFromInt(500, "")
	if got := MaxMoney(a, b); !got.Equal(a) || got.Currency != "MMK" {
		t.Fatalf("expected MMK 500, got %s %s", got.Currency, got.Amount)
	}
	if got := MaxMoney(a, MoneyFromInt(600, "MMK")); got.Amount.IntPart() != 600 {
		t.Fatalf("expected 600, got %s", got.Amount)
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(MoneyFromInt(1, ""), ZeroMoney("")); !got.IsZero() {
		t.Fatalf("expected 0 for zero whole, got %s", got)
	}
	if got := Percent(MoneyFromInt(1, ""), MoneyFromInt(3, "")); got.String() != "33.33" {
		t.Fatalf("expected 33.33, got %s", got)
	}
}
