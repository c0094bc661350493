// Package model defines the core data types shared across the application.
package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Category classifies an expense. The set is fixed; persisted values outside
// it are rejected at parse time rather than silently defaulted.
type Category string

const (
	CategoryFood          Category = "food"
	CategoryGroceries     Category = "groceries"
	CategoryTransport     Category = "transport"
	CategoryHousing       Category = "housing"
	CategoryUtilities     Category = "utilities"
	CategoryEntertainment Category = "entertainment"
	CategoryShopping      Category = "shopping"
	CategoryHealth        Category = "health"
	CategoryEducation     Category = "education"
	CategoryTravel        Category = "travel"
	CategoryOther         Category = "other"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryFood,
	CategoryGroceries,
	CategoryTransport,
	CategoryHousing,
	CategoryUtilities,
	CategoryEntertainment,
	CategoryShopping,
	CategoryHealth,
	CategoryEducation,
	CategoryTravel,
	CategoryOther,
}

// ParseCategory converts a string to a Category, case-insensitively.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Label returns the category name with an upper-cased first letter.
func (c Category) Label() string {
	s := string(c)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Date is a calendar date with no time component. The zero value is invalid.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate builds a Date, normalizing out-of-range components the way
// time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// DateOf truncates a time.Time to its calendar date in that time's location.
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// ParseDate parses an ISO date (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// String renders the date in ISO form.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// After reports whether d falls after other.
func (d Date) After(other Date) bool {
	return d.Time().After(other.Time())
}

// Before reports whether d falls before other.
func (d Date) Before(other Date) bool {
	return d.Time().Before(other.Time())
}

// Expense is a single spending event. The ID is generated at creation and
// never changes; CreatedAt/UpdatedAt track creation and the latest edit.
type Expense struct {
	ID          string
	Title       string
	Amount      decimal.Decimal
	Date        Date
	Category    Category
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SameMonth reports whether the expense's date falls in the given calendar
// month and year.
func (e Expense) SameMonth(year int, month time.Month) bool {
	return e.Date.Year == year && e.Date.Month == month
}
