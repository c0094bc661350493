package cli

import (
	"testing"

	"github.com/shopspring/decimal"

	"tally/internal/model"
)

func TestFormatMoney(t *testing.T) {
	cases := []struct {
		amount string
		code   string
		want   string
	}{
		{"4.50", "USD", "$4.50"},
		{"1234.56", "USD", "$1,234.56"},
		{"0", "USD", "$0.00"},
		{"12.3", "EUR", "€12.30"},
		{"7.25", "XXNOPE", "$7.25"}, // unknown code falls back to USD
	}
	for _, tc := range cases {
		amt := decimal.RequireFromString(tc.amount)
		if got := FormatMoney(amt, tc.code); got != tc.want {
			t.Fatalf("FormatMoney(%s, %s) = %q, want %q", tc.amount, tc.code, got, tc.want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	d := model.NewDate(2025, 6, 14)
	if got := FormatDate(d); got != "Jun 14, 2025" {
		t.Fatalf("FormatDate = %q", got)
	}
	if got := FormatDate(model.Date{}); got != "—" {
		t.Fatalf("zero date = %q", got)
	}
}

func TestFormatNumber(t *testing.T) {
	cases := map[int64]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		1234567:  "1,234,567",
		-1234567: "-1,234,567",
	}
	for n, want := range cases {
		if got := FormatNumber(n); got != want {
			t.Fatalf("FormatNumber(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Fatalf("Truncate = %q", got)
	}
	if got := Truncate("a long expense title", 7); got != "a long…" {
		t.Fatalf("Truncate = %q", got)
	}
}
