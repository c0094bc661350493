package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"tally/internal/cli"
	"tally/internal/model"
	"tally/internal/tui/components"
	"tally/internal/tui/theme"
)

func (a App) renderBreakdownTab(cw int) string {
	t := theme.Active
	var b strings.Builder

	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	header := " " + dimStyle.Render(fmt.Sprintf("Window: %s (w to cycle)", a.window.Label()))
	if monthly := a.core.MonthlyBuckets(a.window); len(monthly) > 1 {
		vals := make([]float64, len(monthly))
		for i, mb := range monthly {
			vals[i], _ = mb.Total.Float64()
		}
		header += "  " + components.Sparkline(vals, t.Accent)
	}
	b.WriteString(header)
	b.WriteString("\n\n")

	buckets := a.core.CategoryBuckets(a.window)
	if len(buckets) == 0 {
		b.WriteString(dimStyle.Render("  No expenses in this window."))
		return b.String()
	}

	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	barStyle := lipgloss.NewStyle().Foreground(t.Accent)
	pctStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	innerW := components.CardInnerWidth(cw)
	nameW := 14
	amtW := 12
	barMax := innerW - nameW - amtW - 8
	if barMax < 4 {
		barMax = 4
	}

	maxTotal, _ := buckets[0].Total.Float64()
	var body strings.Builder
	for _, bk := range buckets {
		total, _ := bk.Total.Float64()
		barLen := 0
		if maxTotal > 0 {
			barLen = int(total / maxTotal * float64(barMax))
		}
		if barLen > barMax {
			barLen = barMax
		}
		fmt.Fprintf(&body, "%s %s%s %s %s\n",
			nameStyle.Render(fmt.Sprintf("%-*s", nameW, bk.Category.Label())),
			barStyle.Render(strings.Repeat("█", barLen)),
			strings.Repeat(" ", barMax-barLen),
			nameStyle.Render(fmt.Sprintf("%*s", amtW, cli.FormatMoney(bk.Total, a.currency))),
			pctStyle.Render(fmt.Sprintf("%5s", cli.FormatPercent(bk.Share))))
	}
	b.WriteString(components.ContentCard("By Category", body.String(), cw))
	b.WriteString("\n")

	// Month-by-month detail, newest first
	groups := a.core.MonthGroups()
	limit := 6
	if len(groups) < limit {
		limit = len(groups)
	}
	if limit > 0 {
		labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
		valStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)

		var mb strings.Builder
		for _, g := range groups[:limit] {
			fmt.Fprintf(&mb, "%s %s %s\n",
				labelStyle.Render(fmt.Sprintf("%-16s", g.Label)),
				valStyle.Render(fmt.Sprintf("%12s", cli.FormatMoney(sumExpenses(g.Expenses), a.currency))),
				labelStyle.Render(fmt.Sprintf("%4d expense(s)", len(g.Expenses))))
		}
		b.WriteString(components.ContentCard("By Month", mb.String(), cw))
	}

	return b.String()
}

func sumExpenses(expenses []model.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}
