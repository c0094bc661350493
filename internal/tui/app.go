// Package tui provides the interactive Bubble Tea dashboard for tally.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"tally/internal/aggregate"
	"tally/internal/app"
	"tally/internal/tui/components"
	"tally/internal/tui/theme"
)

const (
	tabOverview = iota
	tabExpenses
	tabBreakdown
	tabSettings
)

const (
	minTerminalWidth = 70
	maxContentWidth  = 160
	minContentHeight = 5
)

type formKind int

const (
	formNone formKind = iota
	formExpense
	formSignIn
	formBudget
)

// expensesState holds list navigation and filtering for the Expenses tab.
type expensesState struct {
	cursor      int
	offset      int
	searching   bool
	searchInput textinput.Model
	searchQuery string
	category    int // index into categoryFilters
	sort        aggregate.SortKey
	confirming  bool // pending delete confirmation
}

// App is the root Bubble Tea model.
type App struct {
	core     *app.App
	currency string

	width     int
	height    int
	activeTab int
	showHelp  bool

	// Look-back window for Overview and Breakdown charts.
	window aggregate.Window

	exp expensesState

	// Modal form state (expense editor, sign-in, budget).
	form      *huh.Form
	formKind  formKind
	expVals   expenseFormValues
	signVals  signInFormValues
	budgetVal string
	editingID string

	// One-line result of the last action, shown above the status bar.
	notice      string
	noticeIsErr bool
}

// NewApp creates the TUI model over an already-started core.
func NewApp(core *app.App, currency string) App {
	return App{
		core:     core,
		currency: currency,
		window:   aggregate.WindowLast6Months,
		exp:      expensesState{sort: aggregate.SortDateDesc},
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.form != nil {
			a.form = a.form.WithWidth(min(msg.Width-4, 64))
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" {
			return a, tea.Quit
		}

		// Modal form intercepts all keys
		if a.form != nil {
			return a.updateForm(msg)
		}

		// Search input intercepts all keys
		if a.exp.searching {
			return a.updateSearch(msg)
		}

		// Pending delete confirmation
		if a.exp.confirming {
			return a.updateConfirmDelete(key)
		}

		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		a.notice = ""

		switch a.activeTab {
		case tabExpenses:
			if model, cmd, handled := a.updateExpensesKeys(key); handled {
				return model, cmd
			}
		case tabSettings:
			if model, cmd, handled := a.updateSettingsKeys(key); handled {
				return model, cmd
			}
		}

		// Window cycling on chart tabs
		if key == "w" && (a.activeTab == tabOverview || a.activeTab == tabBreakdown) {
			a.window = nextWindow(a.window)
			return a, nil
		}

		if key == "q" {
			return a, tea.Quit
		}

		// Tab navigation
		switch key {
		case "left":
			a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		case "right":
			a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		default:
			if len(key) == 1 {
				if idx := components.TabIdxByKey(rune(key[0])); idx >= 0 {
					a.activeTab = idx
				}
			}
		}
		return a, nil
	}

	// Forward unhandled messages to the form (cursor blinks, etc.)
	if a.form != nil {
		return a.updateForm(msg)
	}
	if a.exp.searching {
		var cmd tea.Cmd
		a.exp.searchInput, cmd = a.exp.searchInput.Update(msg)
		return a, cmd
	}

	return a, nil
}

func nextWindow(w aggregate.Window) aggregate.Window {
	for i, cur := range aggregate.Windows {
		if cur == w {
			return aggregate.Windows[(i+1)%len(aggregate.Windows)]
		}
	}
	return aggregate.Windows[0]
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	if a.form != nil {
		return a.viewForm()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	t := theme.Active
	msg := lipgloss.NewStyle().Foreground(t.TextMuted).Render(
		"\n  Terminal too narrow.\n  tally needs at least 70 columns.\n")
	return padHeight(msg, a.height)
}

func (a App) viewForm() string {
	t := theme.Active

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 3).
		Render(a.form.View())

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}

func (a App) viewHelp() string {
	t := theme.Active

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Navigation"))
	b.WriteString("\n")
	for _, bind := range []struct{ key, desc string }{
		{"o e b x", "Jump to tab"},
		{"← →", "Previous / Next tab"},
		{"j k  g G", "Move in lists"},
		{"w", "Cycle look-back window"},
	} {
		b.WriteString("  " + keyStyle.Render(pad(bind.key, 10)) + "  " + descStyle.Render(bind.desc) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Expenses"))
	b.WriteString("\n")
	for _, bind := range []struct{ key, desc string }{
		{"a", "Add expense"},
		{"enter", "Edit selected"},
		{"d", "Delete selected"},
		{"/", "Search"},
		{"c", "Cycle category filter"},
		{"s", "Cycle sort order"},
	} {
		b.WriteString("  " + keyStyle.Render(pad(bind.key, 10)) + "  " + descStyle.Render(bind.desc) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Account (Settings tab)"))
	b.WriteString("\n")
	for _, bind := range []struct{ key, desc string }{
		{"i", "Sign in / register"},
		{"L", "Sign out"},
		{"m", "Set monthly budget"},
		{"t", "Cycle theme"},
	} {
		b.WriteString("  " + keyStyle.Render(pad(bind.key, 10)) + "  " + descStyle.Render(bind.desc) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 3).
		Render(b.String())

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w) + "\n"

	statusBar := components.RenderStatusBar(w, whoLine(a.core), a.core.Degraded())

	noticeLine := ""
	if a.notice != "" {
		style := lipgloss.NewStyle().Foreground(t.Green)
		if a.noticeIsErr {
			style = lipgloss.NewStyle().Foreground(t.Red)
		}
		noticeLine = style.Render(" " + a.notice)
	}

	headerH := lipgloss.Height(header)
	statusH := lipgloss.Height(statusBar)
	noticeH := 0
	if noticeLine != "" {
		noticeH = 1
	}
	contentH := h - headerH - statusH - noticeH
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	var content string
	switch a.activeTab {
	case tabOverview:
		content = a.renderOverviewTab(cw)
	case tabExpenses:
		content = a.renderExpensesTab(cw, contentH)
	case tabBreakdown:
		content = a.renderBreakdownTab(cw)
	case tabSettings:
		content = a.renderSettingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content)

	parts := []string{header, content}
	if noticeLine != "" {
		parts = append(parts, noticeLine)
	}
	parts = append(parts, statusBar)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// ─── Helpers ────────────────────────────────────────────────────

func whoLine(core *app.App) string {
	if ident, ok := core.Identity(); ok {
		return ident.Profile.Name
	}
	return "guest"
}

func pad(s string, w int) string {
	if len(s) >= w {
		return s
	}
	return s + strings.Repeat(" ", w-len(s))
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
