package components

import (
	"github.com/charmbracelet/lipgloss"

	"tally/internal/tui/theme"
)

// RenderStatusBar renders the bottom status bar: key hints on the left, the
// active identity on the right, with a degraded-storage warning when set.
func RenderStatusBar(width int, who string, degraded bool) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Width(width)

	left := " [?]help  [q]uit"
	right := who + " "
	if degraded {
		warn := lipgloss.NewStyle().Foreground(t.Orange).Render("storage offline · in-memory")
		right = warn + "  " + right
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}

	bar := left
	for i := 0; i < padding; i++ {
		bar += " "
	}
	bar += right

	return style.Render(bar)
}
