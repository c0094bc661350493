package tui

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"tally/internal/aggregate"
	"tally/internal/app"
	"tally/internal/store"
)

func newTestApp(t *testing.T) App {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	core, err := app.New(store.NewMemory(store.DefaultCap), log)
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	a := NewApp(core, "USD")
	m, _ := a.Update(tea.WindowSizeMsg{Width: 100, Height: 32})
	return m.(App)
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestTabSwitchingByKey(t *testing.T) {
	a := newTestApp(t)

	cases := []struct {
		key  string
		want int
	}{
		{"e", tabExpenses},
		{"b", tabBreakdown},
		{"x", tabSettings},
		{"o", tabOverview},
	}
	for _, tc := range cases {
		m, _ := a.Update(keyMsg(tc.key))
		a = m.(App)
		if a.activeTab != tc.want {
			t.Fatalf("key %q: activeTab = %d, want %d", tc.key, a.activeTab, tc.want)
		}
	}
}

func TestWindowCycleWrapsAround(t *testing.T) {
	w := aggregate.WindowLast6Months
	seen := map[aggregate.Window]bool{w: true}
	for i := 0; i < len(aggregate.Windows)-1; i++ {
		w = nextWindow(w)
		if seen[w] {
			t.Fatalf("window %q repeated before full cycle", w)
		}
		seen[w] = true
	}
	if got := nextWindow(w); got != aggregate.WindowLast6Months {
		t.Fatalf("cycle did not wrap: got %q", got)
	}
}

func TestViewTooNarrow(t *testing.T) {
	a := newTestApp(t)
	m, _ := a.Update(tea.WindowSizeMsg{Width: minTerminalWidth - 10, Height: 32})
	a = m.(App)
	if !strings.Contains(a.View(), "Terminal too narrow") {
		t.Fatal("narrow terminal warning missing")
	}
}

func TestViewRendersStatusBar(t *testing.T) {
	a := newTestApp(t)
	if !strings.Contains(a.View(), "guest") {
		t.Fatal("status bar should show guest identity")
	}
}

func TestHelpToggle(t *testing.T) {
	a := newTestApp(t)
	m, _ := a.Update(keyMsg("?"))
	a = m.(App)
	if !a.showHelp {
		t.Fatal("help not shown after ?")
	}
	m, _ = a.Update(tea.KeyMsg{Type: tea.KeyEscape})
	a = m.(App)
	if a.showHelp {
		t.Fatal("help not dismissed by esc")
	}
}
