package aggregate

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"tally/internal/model"
)

// Window is a look-back period for trend analytics. Rolling windows are
// anchored to the first day of the month N-1 months before the current one,
// so "last 3 months" in mid-March means January 1 onward.
type Window string

const (
	WindowLast3Months Window = "3m"
	WindowLast6Months Window = "6m"
	WindowCurrentYear Window = "year"
	WindowAllTime     Window = "all"
)

// Windows lists the supported look-back periods in cycling order.
var Windows = []Window{WindowLast3Months, WindowLast6Months, WindowCurrentYear, WindowAllTime}

// ParseWindow validates a window string; empty means all time.
func ParseWindow(s string) (Window, error) {
	switch Window(s) {
	case "":
		return WindowAllTime, nil
	case WindowLast3Months, WindowLast6Months, WindowCurrentYear, WindowAllTime:
		return Window(s), nil
	}
	return "", fmt.Errorf("unknown window %q (use 3m, 6m, year, or all)", s)
}

// Label returns the human-readable window name.
func (w Window) Label() string {
	switch w {
	case WindowLast3Months:
		return "Last 3 months"
	case WindowLast6Months:
		return "Last 6 months"
	case WindowCurrentYear:
		return "This year"
	default:
		return "All time"
	}
}

// Start returns the inclusive lower bound of the window relative to now.
// The zero time means unbounded.
func (w Window) Start(now time.Time) time.Time {
	switch w {
	case WindowLast3Months:
		return monthStart(now).AddDate(0, -2, 0)
	case WindowLast6Months:
		return monthStart(now).AddDate(0, -5, 0)
	case WindowCurrentYear:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Time{}
	}
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// FilterWindow keeps expenses dated inside the window.
func FilterWindow(expenses []model.Expense, w Window, now time.Time) []model.Expense {
	start := w.Start(now)
	if start.IsZero() {
		return expenses
	}
	var out []model.Expense
	for _, e := range expenses {
		if !e.Date.Time().Before(start) {
			out = append(out, e)
		}
	}
	return out
}

// MonthBucket is one month's aggregate within a window.
type MonthBucket struct {
	Year  int
	Month time.Month
	Label string
	Total decimal.Decimal
	Count int
}

// MonthlyBuckets sums expenses per calendar month across the window, oldest
// bucket first. Months with no spending inside a bounded window are present
// with zero totals so charts show the gaps.
func MonthlyBuckets(expenses []model.Expense, w Window, now time.Time) []MonthBucket {
	inWindow := FilterWindow(expenses, w, now)

	type key struct {
		year  int
		month time.Month
	}
	buckets := make(map[key]*MonthBucket)
	add := func(year int, month time.Month) *MonthBucket {
		k := key{year, month}
		b, ok := buckets[k]
		if !ok {
			b = &MonthBucket{Year: year, Month: month, Label: MonthLabel(year, month), Total: decimal.Zero}
			buckets[k] = b
		}
		return b
	}

	for _, e := range inWindow {
		b := add(e.Date.Year, e.Date.Month)
		b.Total = b.Total.Add(e.Amount)
		b.Count++
	}

	// Fill empty months from the window start (or the earliest expense for
	// all-time) through the current month.
	from := w.Start(now)
	if from.IsZero() {
		for _, e := range inWindow {
			t := monthStart(e.Date.Time())
			if from.IsZero() || t.Before(from) {
				from = t
			}
		}
	}
	if !from.IsZero() {
		for cursor, end := from, monthStart(now); !cursor.After(end); cursor = cursor.AddDate(0, 1, 0) {
			add(cursor.Year(), cursor.Month())
		}
	}

	out := make([]MonthBucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out
}

// CategoryBucket is one category's aggregate within a window.
type CategoryBucket struct {
	Category model.Category
	Total    decimal.Decimal
	Count    int
	Share    float64 // percentage of the window's grand total
}

// CategoryBuckets sums expenses per category across the window, largest
// total first. Only categories with at least one record appear.
func CategoryBuckets(expenses []model.Expense, w Window, now time.Time) []CategoryBucket {
	inWindow := FilterWindow(expenses, w, now)

	buckets := make(map[model.Category]*CategoryBucket)
	grand := decimal.Zero
	for _, e := range inWindow {
		b, ok := buckets[e.Category]
		if !ok {
			b = &CategoryBucket{Category: e.Category, Total: decimal.Zero}
			buckets[e.Category] = b
		}
		b.Total = b.Total.Add(e.Amount)
		b.Count++
		grand = grand.Add(e.Amount)
	}

	out := make([]CategoryBucket, 0, len(buckets))
	for _, b := range buckets {
		if grand.IsPositive() {
			b.Share, _ = b.Total.Div(grand).Mul(decimal.NewFromInt(100)).Float64()
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Total.Equal(out[j].Total) {
			return out[i].Total.GreaterThan(out[j].Total)
		}
		return out[i].Category < out[j].Category
	})
	return out
}
