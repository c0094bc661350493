package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tally/internal/aggregate"
	"tally/internal/cli"
	"tally/internal/model"
	"tally/internal/tui/theme"
)

// categoryFilters is the cycling order for the category filter: all, then
// every category.
var categoryFilters = func() []string {
	out := []string{aggregate.CategoryAll}
	for _, c := range model.Categories {
		out = append(out, string(c))
	}
	return out
}()

var sortCycle = []aggregate.SortKey{
	aggregate.SortDateDesc,
	aggregate.SortDateAsc,
	aggregate.SortAmountDesc,
	aggregate.SortAmountAsc,
	aggregate.SortTitleAsc,
	aggregate.SortTitleDesc,
}

// visibleExpenses returns the filtered, sorted view for the Expenses tab.
func (a App) visibleExpenses() []model.Expense {
	return a.core.ActiveView(aggregate.Query{
		Category: categoryFilters[a.exp.category],
		Search:   a.exp.searchQuery,
		Sort:     a.exp.sort,
	})
}

func newSearchInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "title or note"
	ti.CharLimit = 80
	ti.Width = 30
	return ti
}

// updateExpensesKeys handles Expenses tab keys; handled=false lets global
// keys (tab switching, quit) run.
func (a App) updateExpensesKeys(key string) (tea.Model, tea.Cmd, bool) {
	visible := a.visibleExpenses()

	switch key {
	case "j", "down":
		if a.exp.cursor < len(visible)-1 {
			a.exp.cursor++
		}
		return a, nil, true
	case "k", "up":
		if a.exp.cursor > 0 {
			a.exp.cursor--
		}
		return a, nil, true
	case "g":
		a.exp.cursor = 0
		a.exp.offset = 0
		return a, nil, true
	case "G":
		a.exp.cursor = len(visible) - 1
		if a.exp.cursor < 0 {
			a.exp.cursor = 0
		}
		return a, nil, true
	case "/":
		a.exp.searching = true
		a.exp.searchInput = newSearchInput()
		a.exp.searchInput.SetValue(a.exp.searchQuery)
		a.exp.searchInput.Focus()
		return a, a.exp.searchInput.Cursor.BlinkCmd(), true
	case "a":
		return a, a.openExpenseForm(""), true
	case "enter":
		if a.exp.cursor < len(visible) {
			return a, a.openExpenseForm(visible[a.exp.cursor].ID), true
		}
		return a, nil, true
	case "d":
		if a.exp.cursor < len(visible) {
			a.exp.confirming = true
		}
		return a, nil, true
	case "c":
		a.exp.category = (a.exp.category + 1) % len(categoryFilters)
		a.exp.cursor = 0
		a.exp.offset = 0
		return a, nil, true
	case "s":
		for i, s := range sortCycle {
			if s == a.exp.sort {
				a.exp.sort = sortCycle[(i+1)%len(sortCycle)]
				return a, nil, true
			}
		}
		a.exp.sort = sortCycle[0]
		return a, nil, true
	case "esc":
		if a.exp.searchQuery != "" {
			a.exp.searchQuery = ""
			a.exp.cursor = 0
			a.exp.offset = 0
		}
		return a, nil, true
	}
	return a, nil, false
}

func (a App) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.exp.searchQuery = strings.TrimSpace(a.exp.searchInput.Value())
		a.exp.searching = false
		a.exp.cursor = 0
		a.exp.offset = 0
		return a, nil
	case "esc":
		a.exp.searching = false
		return a, nil
	}

	var cmd tea.Cmd
	a.exp.searchInput, cmd = a.exp.searchInput.Update(msg)
	return a, cmd
}

func (a App) updateConfirmDelete(key string) (tea.Model, tea.Cmd) {
	a.exp.confirming = false
	if key != "y" && key != "Y" {
		return a, nil
	}

	visible := a.visibleExpenses()
	if a.exp.cursor >= len(visible) {
		return a, nil
	}
	victim := visible[a.exp.cursor]
	if err := a.core.RequestDelete(victim.ID); err != nil {
		a.setNotice(err.Error(), true)
		return a, nil
	}
	a.setNotice(fmt.Sprintf("Removed %q", victim.Title), false)
	if a.exp.cursor > 0 {
		a.exp.cursor--
	}
	return a, nil
}

func (a App) renderExpensesTab(cw, contentH int) string {
	t := theme.Active
	visible := a.visibleExpenses()

	headerStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	accentStyle := lipgloss.NewStyle().Foreground(t.Accent)

	var b strings.Builder

	// Filter bar
	if a.exp.searching {
		b.WriteString(" " + accentStyle.Render("search: ") + a.exp.searchInput.View())
	} else {
		filter := " " + accentStyle.Render(categoryFilters[a.exp.category]) +
			dimStyle.Render(" · "+string(a.exp.sort))
		if a.exp.searchQuery != "" {
			filter += dimStyle.Render(" · ") + accentStyle.Render("/"+a.exp.searchQuery)
		}
		filter += dimStyle.Render(fmt.Sprintf(" · %d shown", len(visible)))
		b.WriteString(filter)
	}
	b.WriteString("\n\n")

	if len(visible) == 0 {
		b.WriteString(dimStyle.Render("  No expenses. Press a to add one."))
		return b.String()
	}

	// Column layout
	dateW := 12
	catW := 13
	amtW := 12
	titleW := cw - dateW - catW - amtW - 6
	if titleW < 12 {
		titleW = 12
	}

	b.WriteString(" " + headerStyle.Render(fmt.Sprintf("%-*s %-*s %-*s %*s",
		dateW, "Date", titleW, "Title", catW, "Category", amtW, "Amount")))
	b.WriteString("\n")

	// Scroll window: header + filter rows eat 4 lines, confirm hint 1
	rowsAvail := contentH - 5
	if rowsAvail < 3 {
		rowsAvail = 3
	}
	offset := a.exp.offset
	if a.exp.cursor < offset {
		offset = a.exp.cursor
	}
	if a.exp.cursor >= offset+rowsAvail {
		offset = a.exp.cursor - rowsAvail + 1
	}

	end := offset + rowsAvail
	if end > len(visible) {
		end = len(visible)
	}
	for i := offset; i < end; i++ {
		e := visible[i]
		line := fmt.Sprintf("%-*s %-*s %-*s %*s",
			dateW, cli.FormatDate(e.Date),
			titleW, truncStr(e.Title, titleW),
			catW, e.Category.Label(),
			amtW, cli.FormatMoney(e.Amount, a.currency))
		if i == a.exp.cursor {
			b.WriteString(selStyle.Render("▸" + line))
		} else {
			b.WriteString(rowStyle.Render(" " + line))
		}
		b.WriteString("\n")
	}

	if a.exp.confirming && a.exp.cursor < len(visible) {
		warn := lipgloss.NewStyle().Foreground(t.Orange)
		b.WriteString("\n")
		b.WriteString(warn.Render(fmt.Sprintf(" Delete %q? y/n", visible[a.exp.cursor].Title)))
	}

	return b.String()
}
