package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tally/internal/cli"
	"tally/internal/config"
	"tally/internal/store"
	"tally/internal/tui/components"
	"tally/internal/tui/theme"
)

// updateSettingsKeys handles Settings tab keys; handled=false lets global
// keys run.
func (a App) updateSettingsKeys(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "i":
		if _, ok := a.core.Identity(); ok {
			a.setNotice("Already signed in — press L to sign out first", true)
			return a, nil, true
		}
		return a, a.openSignInForm(), true
	case "L":
		if _, ok := a.core.Identity(); !ok {
			a.setNotice("Not signed in", true)
			return a, nil, true
		}
		if err := a.core.SignOut(); err != nil {
			a.setNotice(err.Error(), true)
			return a, nil, true
		}
		a.setNotice("Signed out — your data stays on this machine", false)
		a.exp.cursor = 0
		a.exp.offset = 0
		return a, nil, true
	case "m":
		return a, a.openBudgetForm(), true
	case "t":
		a.cycleTheme()
		return a, nil, true
	}
	return a, nil, false
}

// cycleTheme moves to the next theme and persists it, best-effort.
func (a *App) cycleTheme() {
	for i, th := range theme.All {
		if th.Name == theme.Active.Name {
			theme.SetActive(theme.All[(i+1)%len(theme.All)].Name)
			break
		}
	}
	cfg, err := config.Load()
	if err == nil {
		cfg.Appearance.Theme = theme.Active.Name
		_ = config.Save(cfg)
	}
	a.setNotice("Theme: "+theme.Active.Name, false)
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active
	var b strings.Builder

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	valStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	// Account card
	var acct strings.Builder
	if ident, ok := a.core.Identity(); ok {
		avatarStyle := lipgloss.NewStyle().
			Foreground(t.TextPrimary).
			Background(lipgloss.Color(ident.Profile.AvatarColor)).
			Bold(true).
			Padding(0, 1)
		acct.WriteString(avatarStyle.Render(ident.Profile.AvatarInitials))
		acct.WriteString(" " + valStyle.Render(ident.Profile.Name))
		acct.WriteString("\n")
		acct.WriteString(labelStyle.Render("Email  ") + valStyle.Render(ident.Profile.Email))
		acct.WriteString("\n")
		acct.WriteString(labelStyle.Render("ID     ") + dimStyle.Render(ident.ID))
		acct.WriteString("\n\n")
		acct.WriteString(dimStyle.Render("L to sign out"))
	} else {
		acct.WriteString(valStyle.Render("Guest session"))
		acct.WriteString("\n")
		acct.WriteString(labelStyle.Render("Expenses stay on this machine and move into your account when you sign in."))
		acct.WriteString("\n\n")
		acct.WriteString(dimStyle.Render("i to sign in or register"))
	}
	b.WriteString(components.ContentCard("Account", acct.String(), cw))
	b.WriteString("\n")

	// Budget and Appearance side by side
	halves := components.LayoutRow(cw, 2)

	var bud strings.Builder
	if budget := a.core.Budget(); budget.IsPositive() {
		pct, band := a.core.Utilization()
		bud.WriteString(labelStyle.Render("Monthly  ") + valStyle.Render(cli.FormatMoney(budget, a.currency)))
		bud.WriteString("\n")
		gaugeW := components.CardInnerWidth(halves[0]) - 16
		if gaugeW < 10 {
			gaugeW = 10
		}
		bud.WriteString(components.BudgetGauge("Used", pct, band, 8, gaugeW))
	} else {
		bud.WriteString(dimStyle.Render("No budget set."))
	}
	bud.WriteString("\n\n")
	bud.WriteString(dimStyle.Render("m to change"))

	appearance := labelStyle.Render("Theme  ") + valStyle.Render(theme.Active.Name) +
		"\n\n" + dimStyle.Render("t to cycle")

	b.WriteString(components.CardRow([]string{
		components.ContentCard("Budget", bud.String(), halves[0]),
		components.ContentCard("Appearance", appearance, halves[1]),
	}))
	b.WriteString("\n")

	// Registered accounts card
	var reg strings.Builder
	if idents, err := a.core.RegisteredIdentities(); err == nil {
		reg.WriteString(labelStyle.Render(fmt.Sprintf("%d of %d slots used", len(idents), store.DefaultCap)))
		reg.WriteString("\n")
		limit := 5
		if len(idents) < limit {
			limit = len(idents)
		}
		for _, ident := range idents[:limit] {
			reg.WriteString(valStyle.Render(truncStr(ident.Profile.Name, 20)))
			reg.WriteString(dimStyle.Render(" <" + ident.Profile.Email + ">"))
			reg.WriteString("\n")
		}
		if len(idents) > limit {
			reg.WriteString(dimStyle.Render(fmt.Sprintf("… and %d more", len(idents)-limit)))
		}
	} else {
		reg.WriteString(dimStyle.Render("Registry unavailable."))
	}
	b.WriteString(components.ContentCard("Accounts", reg.String(), cw))

	return b.String()
}
