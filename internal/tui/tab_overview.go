package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tally/internal/cli"
	"tally/internal/tui/components"
	"tally/internal/tui/theme"
)

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	s := a.core.Summary()
	var b strings.Builder

	// Row 1: Metric cards
	largest, largestTitle := "—", ""
	if s.MaxRecord != nil {
		largest = cli.FormatMoney(s.MaxRecord.Amount, a.currency)
		largestTitle = truncStr(s.MaxRecord.Title, 18)
	}
	cards := []struct{ Label, Value, Caption string }{
		{"This Month", cli.FormatMoney(s.CurrentMonthTotal, a.currency), ""},
		{"All Time", cli.FormatMoney(s.GrandTotal, a.currency), fmt.Sprintf("%d expenses", s.Count)},
		{"Average", cli.FormatMoney(s.Average, a.currency), "per expense"},
		{"Largest", largest, largestTitle},
	}
	b.WriteString(components.MetricCardRow(cards, cw))
	b.WriteString("\n")

	// Row 2: Budget gauge
	budget := a.core.Budget()
	if budget.IsPositive() {
		pct, band := a.core.Utilization()
		gaugeW := components.CardInnerWidth(cw) - 30
		if gaugeW < 10 {
			gaugeW = 10
		}
		body := components.BudgetGauge(
			cli.FormatMoney(s.CurrentMonthTotal, a.currency)+" of "+cli.FormatMoney(budget, a.currency),
			pct, band, 24, gaugeW)
		b.WriteString(components.ContentCard("Monthly Budget", body, cw))
	} else {
		hint := lipgloss.NewStyle().Foreground(t.TextDim).
			Render("No budget set — press m on the Settings tab.")
		b.WriteString(components.ContentCard("Monthly Budget", hint, cw))
	}
	b.WriteString("\n")

	// Row 3: Monthly spending chart over the window
	buckets := a.core.MonthlyBuckets(a.window)
	if len(buckets) > 0 {
		vals := make([]float64, len(buckets))
		labels := make([]string, len(buckets))
		for i, bk := range buckets {
			vals[i], _ = bk.Total.Float64()
			labels[i] = bk.Month.String()[:3]
		}
		b.WriteString(components.ContentCard(
			fmt.Sprintf("Monthly Spending · %s (w to cycle)", a.window.Label()),
			components.BarChart(vals, labels, t.Blue, components.CardInnerWidth(cw), 8),
			cw,
		))
		b.WriteString("\n")
	}

	// Row 4: Recent expenses
	recent := a.core.Expenses()
	limit := 5
	if len(recent) < limit {
		limit = len(recent)
	}
	if limit > 0 {
		nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
		dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)
		innerW := components.CardInnerWidth(cw)
		titleW := innerW - 30
		if titleW < 10 {
			titleW = 10
		}

		var body strings.Builder
		for _, e := range recent[:limit] {
			fmt.Fprintf(&body, "%s %s %s\n",
				dimStyle.Render(fmt.Sprintf("%-12s", cli.FormatDate(e.Date))),
				nameStyle.Render(fmt.Sprintf("%-*s", titleW, truncStr(e.Title, titleW))),
				nameStyle.Render(fmt.Sprintf("%12s", cli.FormatMoney(e.Amount, a.currency))))
		}
		b.WriteString(components.ContentCard("Recent", body.String(), cw))
	}

	return b.String()
}
