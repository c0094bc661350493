// Package aggregate derives every read-side view from the expense
// collection: filtered and sorted lists, month groups, totals, and budget
// utilization. All functions are pure; nothing here is persisted, so every
// view is safe to recompute on each read.
package aggregate

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"tally/internal/model"
)

// CategoryAll is the sentinel that disables category filtering.
const CategoryAll = "all"

// SortKey selects the total order for FilterAndSort.
type SortKey string

const (
	SortDateDesc   SortKey = "date-desc"
	SortDateAsc    SortKey = "date-asc"
	SortAmountDesc SortKey = "amount-desc"
	SortAmountAsc  SortKey = "amount-asc"
	SortTitleAsc   SortKey = "title-asc"
	SortTitleDesc  SortKey = "title-desc"
)

// ParseSortKey validates a sort key string; empty means date-desc.
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(s) {
	case "":
		return SortDateDesc, nil
	case SortDateDesc, SortDateAsc, SortAmountDesc, SortAmountAsc, SortTitleAsc, SortTitleDesc:
		return SortKey(s), nil
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// Query selects and orders a view of the collection.
type Query struct {
	Category string // category name, or CategoryAll / empty for no filter
	Search   string // case-insensitive substring over title and description
	Sort     SortKey
}

// FilterAndSort applies the category filter, then the text filter, then a
// stable sort. Ties keep the filtered list's incoming relative order.
func FilterAndSort(expenses []model.Expense, q Query) []model.Expense {
	out := make([]model.Expense, 0, len(expenses))

	needle := strings.ToLower(strings.TrimSpace(q.Search))
	for _, e := range expenses {
		if q.Category != "" && q.Category != CategoryAll && string(e.Category) != q.Category {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(e.Title), needle) &&
			!strings.Contains(strings.ToLower(e.Description), needle) {
			continue
		}
		out = append(out, e)
	}

	sortKey := q.Sort
	if sortKey == "" {
		sortKey = SortDateDesc
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch sortKey {
		case SortDateAsc:
			return a.Date.Before(b.Date)
		case SortAmountDesc:
			return a.Amount.GreaterThan(b.Amount)
		case SortAmountAsc:
			return a.Amount.LessThan(b.Amount)
		case SortTitleAsc:
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		case SortTitleDesc:
			return strings.ToLower(a.Title) > strings.ToLower(b.Title)
		default: // SortDateDesc
			return b.Date.Before(a.Date)
		}
	})

	return out
}

// MonthGroup is one calendar month's expenses. The label embeds the year, so
// the same month in different years never shares a group.
type MonthGroup struct {
	Year     int
	Month    time.Month
	Label    string // e.g. "January 2025"
	Expenses []model.Expense
}

// MonthLabel renders the group label for a year and month.
func MonthLabel(year int, month time.Month) string {
	return fmt.Sprintf("%s %d", month, year)
}

// GroupByMonth partitions the collection by calendar month and year, newest
// month first. Within a group the incoming order is kept.
func GroupByMonth(expenses []model.Expense) []MonthGroup {
	type key struct {
		year  int
		month time.Month
	}
	groups := make(map[key]*MonthGroup)

	for _, e := range expenses {
		k := key{e.Date.Year, e.Date.Month}
		g, ok := groups[k]
		if !ok {
			g = &MonthGroup{Year: k.year, Month: k.month, Label: MonthLabel(k.year, k.month)}
			groups[k] = g
		}
		g.Expenses = append(g.Expenses, e)
	}

	out := make([]MonthGroup, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		return out[i].Month > out[j].Month
	})
	return out
}

// Summary holds the derived totals for a collection.
type Summary struct {
	Count             int
	GrandTotal        decimal.Decimal
	CurrentMonthTotal decimal.Decimal
	CategoryTotals    map[model.Category]decimal.Decimal
	Average           decimal.Decimal
	MaxRecord         *model.Expense
}

// Totals computes the summary against wall-clock "now"; the current-month
// total covers records in now's calendar month and year.
func Totals(expenses []model.Expense, now time.Time) Summary {
	s := Summary{
		Count:             len(expenses),
		GrandTotal:        decimal.Zero,
		CurrentMonthTotal: decimal.Zero,
		Average:           decimal.Zero,
		CategoryTotals:    make(map[model.Category]decimal.Decimal),
	}

	year, month := now.Year(), now.Month()
	for i, e := range expenses {
		s.GrandTotal = s.GrandTotal.Add(e.Amount)
		if e.SameMonth(year, month) {
			s.CurrentMonthTotal = s.CurrentMonthTotal.Add(e.Amount)
		}

		total, ok := s.CategoryTotals[e.Category]
		if !ok {
			total = decimal.Zero
		}
		s.CategoryTotals[e.Category] = total.Add(e.Amount)

		// First occurrence wins on amount ties.
		if s.MaxRecord == nil || e.Amount.GreaterThan(s.MaxRecord.Amount) {
			s.MaxRecord = &expenses[i]
		}
	}

	if s.Count > 0 {
		s.Average = s.GrandTotal.Div(decimal.NewFromInt(int64(s.Count)))
	}
	return s
}

// Band classifies budget utilization.
type Band string

const (
	BandHealthy  Band = "healthy"
	BandWarning  Band = "warning"
	BandCritical Band = "critical"
)

// BudgetUtilization returns the spent share of the budget as a percentage,
// clamped to 100. A zero or negative budget always yields 0.
func BudgetUtilization(currentMonthTotal, budget decimal.Decimal) float64 {
	if budget.LessThanOrEqual(decimal.Zero) {
		return 0
	}
	pct, _ := currentMonthTotal.Div(budget).Mul(decimal.NewFromInt(100)).Float64()
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}

// BandFor maps a utilization percentage to its classification band:
// healthy below 70, warning from 70 through 89, critical at 90 and above.
func BandFor(pct float64) Band {
	switch {
	case pct < 70:
		return BandHealthy
	case pct < 90:
		return BandWarning
	default:
		return BandCritical
	}
}
