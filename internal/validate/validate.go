// Package validate checks candidate expense fields before they reach the
// ledger. Validation is pure: raw form fields in, per-field messages out.
package validate

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"tally/internal/model"
)

// Length limits count characters (runes), not bytes.
const (
	TitleMinLen       = 2
	TitleMaxLen       = 80
	DescriptionMaxLen = 300
)

// MaxAmount is the largest accepted expense amount.
var MaxAmount = decimal.NewFromInt(1_000_000)

// Fields holds the raw user-supplied values for one expense.
type Fields struct {
	Title       string
	Amount      string
	Date        string
	Category    string
	Description string
}

// Parsed holds the typed values recovered during validation, usable only
// when the result is valid.
type Parsed struct {
	Title       string
	Amount      decimal.Decimal
	Date        model.Date
	Category    model.Category
	Description string
}

// Result reports overall validity plus one message per failing field.
type Result struct {
	Valid  bool
	Errors map[string]string
	Parsed Parsed
}

// Validate checks fields against wall-clock "now".
func Validate(f Fields) Result {
	return ValidateAt(f, time.Now())
}

// ValidateAt checks fields against an explicit "now", used to decide whether
// the date lies in the future.
func ValidateAt(f Fields, now time.Time) Result {
	errs := make(map[string]string)
	var parsed Parsed

	title := strings.TrimSpace(f.Title)
	switch {
	case title == "":
		errs["title"] = "title is required"
	case utf8.RuneCountInString(title) < TitleMinLen:
		errs["title"] = "title must be at least 2 characters"
	case utf8.RuneCountInString(title) > TitleMaxLen:
		errs["title"] = "title must be at most 80 characters"
	default:
		parsed.Title = title
	}

	amountStr := strings.TrimSpace(f.Amount)
	if amountStr == "" {
		errs["amount"] = "amount is required"
	} else if amount, err := decimal.NewFromString(amountStr); err != nil {
		errs["amount"] = "amount must be a number"
	} else if !amount.IsPositive() {
		errs["amount"] = "amount must be greater than zero"
	} else if amount.GreaterThan(MaxAmount) {
		errs["amount"] = "amount must be at most 1,000,000"
	} else if !amount.Equal(amount.Round(2)) {
		errs["amount"] = "amount can have at most 2 decimal places"
	} else {
		parsed.Amount = amount
	}

	dateStr := strings.TrimSpace(f.Date)
	if dateStr == "" {
		errs["date"] = "date is required"
	} else if date, err := model.ParseDate(dateStr); err != nil {
		errs["date"] = "date must be in YYYY-MM-DD form"
	} else if date.After(model.DateOf(now)) {
		errs["date"] = "date cannot be in the future"
	} else {
		parsed.Date = date
	}

	if category, err := model.ParseCategory(f.Category); err != nil {
		errs["category"] = "category is not recognized"
	} else {
		parsed.Category = category
	}

	desc := strings.TrimSpace(f.Description)
	if utf8.RuneCountInString(desc) > DescriptionMaxLen {
		errs["description"] = "description must be at most 300 characters"
	} else {
		parsed.Description = desc
	}

	return Result{Valid: len(errs) == 0, Errors: errs, Parsed: parsed}
}
