// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"tally/internal/model"
)

// FormatMoney renders an amount in the given ISO currency, e.g. "$1,234.56".
// Unknown codes fall back to USD.
func FormatMoney(amount decimal.Decimal, code string) string {
	cur := money.GetCurrency(code)
	if cur == nil {
		cur = money.GetCurrency(money.USD)
	}
	units := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(units, cur.Code).Display()
}

// FormatDate renders a civil date as "Jun 14, 2025".
func FormatDate(d model.Date) string {
	if d.IsZero() {
		return "—"
	}
	return d.Time().Format("Jan 2, 2006")
}

// FormatPercent formats a 0-100 percentage for display.
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.0f%%", math.Round(pct))
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// Truncate shortens a string to max runes, appending "…" when cut.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(runes[:max-1]) + "…"
}
