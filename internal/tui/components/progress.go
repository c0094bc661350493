package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"tally/internal/aggregate"
	"tally/internal/tui/theme"
)

// BandColor returns the theme color for a budget utilization band.
func BandColor(b aggregate.Band) lipgloss.Color {
	t := theme.Active
	switch b {
	case aggregate.BandCritical:
		return t.Red
	case aggregate.BandWarning:
		return t.Orange
	default:
		return t.Green
	}
}

// BudgetGauge renders a labeled utilization bar for a 0-100 percentage,
// colored by its band.
func BudgetGauge(label string, pct float64, band aggregate.Band, labelW, barWidth int) string {
	t := theme.Active

	frac := pct / 100
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}

	bar := progress.New(
		progress.WithSolidFill(string(BandColor(band))),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	pctStyle := lipgloss.NewStyle().Foreground(BandColor(band)).Bold(true)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		" " + bar.ViewAs(frac) +
		" " + pctStyle.Render(fmt.Sprintf("%3.0f%%", pct))
}
