package validate

import (
	"strings"
	"testing"
	"time"
)

var testNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func valid() Fields {
	return Fields{
		Title:    "Coffee",
		Amount:   "4.50",
		Date:     "2025-06-14",
		Category: "food",
	}
}

func TestValidateAcceptsWellFormedFields(t *testing.T) {
	res := ValidateAt(valid(), testNow)
	if !res.Valid {
		t.Fatalf("expected valid, got errors %v", res.Errors)
	}
	if res.Parsed.Title != "Coffee" {
		t.Fatalf("parsed title = %q", res.Parsed.Title)
	}
	if res.Parsed.Amount.String() != "4.5" {
		t.Fatalf("parsed amount = %s", res.Parsed.Amount)
	}
	if res.Parsed.Date.String() != "2025-06-14" {
		t.Fatalf("parsed date = %s", res.Parsed.Date)
	}
}

func TestValidateFieldRules(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Fields)
		field  string
	}{
		{"empty title", func(f *Fields) { f.Title = "   " }, "title"},
		{"short title", func(f *Fields) { f.Title = "a" }, "title"},
		{"long title", func(f *Fields) { f.Title = strings.Repeat("x", 81) }, "title"},
		{"one-rune title", func(f *Fields) { f.Title = "é" }, "title"},
		{"81-rune title", func(f *Fields) { f.Title = strings.Repeat("買", 81) }, "title"},
		{"empty amount", func(f *Fields) { f.Amount = "" }, "amount"},
		{"non-numeric amount", func(f *Fields) { f.Amount = "abc" }, "amount"},
		{"zero amount", func(f *Fields) { f.Amount = "0" }, "amount"},
		{"negative amount", func(f *Fields) { f.Amount = "-5" }, "amount"},
		{"too large amount", func(f *Fields) { f.Amount = "1000000.01" }, "amount"},
		{"three decimals", func(f *Fields) { f.Amount = "1.999" }, "amount"},
		{"empty date", func(f *Fields) { f.Date = "" }, "date"},
		{"malformed date", func(f *Fields) { f.Date = "15/06/2025" }, "date"},
		{"future date", func(f *Fields) { f.Date = "2025-06-16" }, "date"},
		{"unknown category", func(f *Fields) { f.Category = "lottery" }, "category"},
		{"long description", func(f *Fields) { f.Description = strings.Repeat("y", 301) }, "description"},
		{"301-rune description", func(f *Fields) { f.Description = strings.Repeat("ü", 301) }, "description"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := valid()
			tc.mutate(&f)
			res := ValidateAt(f, testNow)
			if res.Valid {
				t.Fatal("expected invalid result")
			}
			if _, ok := res.Errors[tc.field]; !ok {
				t.Fatalf("expected error on %q, got %v", tc.field, res.Errors)
			}
		})
	}
}

func TestValidateBoundaryValues(t *testing.T) {
	f := valid()
	f.Title = "ab" // exactly the minimum
	f.Amount = "1000000"
	f.Date = testNow.Format("2006-01-02") // today is not the future
	f.Description = strings.Repeat("d", 300)
	res := ValidateAt(f, testNow)
	if !res.Valid {
		t.Fatalf("boundary fields rejected: %v", res.Errors)
	}

	// Limits are rune counts: two-rune and 80-rune multibyte titles are
	// within bounds even though their byte lengths are not.
	f = valid()
	f.Title = "éé"
	f.Description = strings.Repeat("ü", 300)
	res = ValidateAt(f, testNow)
	if !res.Valid {
		t.Fatalf("multibyte boundary fields rejected: %v", res.Errors)
	}

	f = valid()
	f.Title = strings.Repeat("買", 80)
	res = ValidateAt(f, testNow)
	if !res.Valid {
		t.Fatalf("80-rune title rejected: %v", res.Errors)
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	res := ValidateAt(Fields{}, testNow)
	if res.Valid {
		t.Fatal("empty fields validated")
	}
	for _, field := range []string{"title", "amount", "date", "category"} {
		if _, ok := res.Errors[field]; !ok {
			t.Fatalf("missing error for %q: %v", field, res.Errors)
		}
	}
}
