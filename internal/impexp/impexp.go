// Package impexp reads and writes the expense interchange format: a CSV file
// with a fixed header, human readable and easy to merge into a ledger.
package impexp

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tally/internal/model"
)

var header = []string{"id", "title", "amount", "date", "category", "description"}

// ExportCSV writes the expenses to w, one row per expense, newest first as
// given.
func ExportCSV(w io.Writer, expenses []model.Expense) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, e := range expenses {
		row := []string{
			e.ID,
			e.Title,
			e.Amount.StringFixed(2),
			e.Date.String(),
			string(e.Category),
			e.Description,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing expense %s: %w", e.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ImportCSV parses expenses from r. Rows must match the export header; an
// empty id column gets a fresh one. Parse failures name the offending row.
func ImportCSV(r io.Reader, now time.Time) ([]model.Expense, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(header)

	first, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	for i, col := range header {
		if !strings.EqualFold(strings.TrimSpace(first[i]), col) {
			return nil, fmt.Errorf("unexpected header column %d: got %q, want %q", i+1, first[i], col)
		}
	}

	var out []model.Expense
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		e, err := parseRow(row, now)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		out = append(out, e)
	}
	return out, nil
}

func parseRow(row []string, now time.Time) (model.Expense, error) {
	title := strings.TrimSpace(row[1])
	if title == "" {
		return model.Expense{}, fmt.Errorf("empty title")
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(row[2]))
	if err != nil {
		return model.Expense{}, fmt.Errorf("amount %q: %w", row[2], err)
	}
	if !amount.IsPositive() {
		return model.Expense{}, fmt.Errorf("amount %q: must be positive", row[2])
	}

	date, err := model.ParseDate(strings.TrimSpace(row[3]))
	if err != nil {
		return model.Expense{}, err
	}

	cat, err := model.ParseCategory(strings.TrimSpace(row[4]))
	if err != nil {
		return model.Expense{}, err
	}

	id := strings.TrimSpace(row[0])
	if id == "" {
		id = uuid.NewString()
	}

	return model.Expense{
		ID:          id,
		Title:       title,
		Amount:      amount,
		Date:        date,
		Category:    cat,
		Description: strings.TrimSpace(row[5]),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
