package impexp

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"tally/internal/model"
)

var importNow = time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

func TestExportThenImport(t *testing.T) {
	in := []model.Expense{
		{
			ID:       "e1",
			Title:    "Coffee",
			Amount:   decimal.RequireFromString("4.50"),
			Date:     model.NewDate(2025, 6, 14),
			Category: model.CategoryFood,
		},
		{
			ID:          "e2",
			Title:       "Bus pass",
			Amount:      decimal.RequireFromString("32.00"),
			Date:        model.NewDate(2025, 6, 1),
			Category:    model.CategoryTransport,
			Description: "monthly",
		},
	}

	var buf strings.Builder
	if err := ExportCSV(&buf, in); err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}

	got, err := ImportCSV(strings.NewReader(buf.String()), importNow)
	if err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("imported %d expenses, want 2", len(got))
	}
	if got[0].ID != "e1" || got[0].Title != "Coffee" {
		t.Fatalf("first row = %+v", got[0])
	}
	if !got[1].Amount.Equal(in[1].Amount) {
		t.Fatalf("amount = %s", got[1].Amount)
	}
	if got[1].Description != "monthly" {
		t.Fatalf("description = %q", got[1].Description)
	}
}

func TestImportAssignsMissingIDs(t *testing.T) {
	csv := "id,title,amount,date,category,description\n" +
		",Groceries,52.10,2025-06-10,groceries,\n"
	got, err := ImportCSV(strings.NewReader(csv), importNow)
	if err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
	if len(got) != 1 || got[0].ID == "" {
		t.Fatalf("expected generated id, got %+v", got)
	}
}

func TestImportRejectsBadRows(t *testing.T) {
	cases := map[string]string{
		"bad header":   "nope,title,amount,date,category,description\n",
		"bad amount":   "id,title,amount,date,category,description\ne1,Coffee,abc,2025-06-14,food,\n",
		"zero amount":  "id,title,amount,date,category,description\ne1,Coffee,0,2025-06-14,food,\n",
		"bad date":     "id,title,amount,date,category,description\ne1,Coffee,4.50,June 14,food,\n",
		"bad category": "id,title,amount,date,category,description\ne1,Coffee,4.50,2025-06-14,snacks,\n",
		"empty title":  "id,title,amount,date,category,description\ne1,,4.50,2025-06-14,food,\n",
	}
	for name, csv := range cases {
		if _, err := ImportCSV(strings.NewReader(csv), importNow); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestImportEmptyInput(t *testing.T) {
	got, err := ImportCSV(strings.NewReader(""), importNow)
	if err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d expenses from empty input", len(got))
	}
}
