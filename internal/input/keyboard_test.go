package input

import (
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/Gaurav-Gosain/flickboard/internal/app"
	"github.com/Gaurav-Gosain/flickboard/internal/config"
	"github.com/Gaurav-Gosain/flickboard/internal/puzzle"
)

// clock is a manual time source for the model.
type clock struct{ now time.Time }

func (c *clock) Now() time.Time          { return c.now }
func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestModel(t *testing.T) (*app.Model, *clock) {
	t.Helper()
	c := &clock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	m, err := app.NewModel(app.Options{Now: c.Now, TapeDir: t.TempDir()})
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	m.Resize(80, 40)
	if m.TooSmall {
		t.Fatal("80x40 should fit")
	}
	return m, c
}

func press(m *app.Model, msg tea.KeyPressMsg) tea.Cmd {
	_, cmd := HandleKeyPress(msg, m)
	return cmd
}

func TestNewKeyMap(t *testing.T) {
	km := NewKeyMap(map[string][]string{
		"quit":  {"q", "x"},
		"start": {"enter", "x"},
	})

	tests := []struct {
		key    string
		action string
		ok     bool
	}{
		{"q", "quit", true},
		{"enter", "start", true},
		{"x", "quit", true},
		{"z", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			action, ok := km.Action(tt.key)
			if ok != tt.ok || action != tt.action {
				t.Errorf("Action(%q) = %q, %v; want %q, %v", tt.key, action, ok, tt.action, tt.ok)
			}
		})
	}
}

func TestDefaultKeyMapCoversEveryAction(t *testing.T) {
	km := NewKeyMap(config.DefaultKeybindings())
	bound := make(map[string]bool)
	for _, action := range km {
		bound[action] = true
	}
	for action := range config.DefaultKeybindings() {
		if !GetDispatcher().HasAction(action) {
			t.Errorf("action %q has no handler", action)
		}
		if !bound[action] {
			t.Errorf("action %q has no key", action)
		}
	}
}

func TestStartAndNavigateKeys(t *testing.T) {
	m, c := newTestModel(t)

	press(m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if got := m.Board.Progress().Screen(); got != puzzle.ScreenMain {
		t.Fatalf("screen = %v, want main", got)
	}

	c.Advance(time.Second)
	m.Update(app.TickerMsg(c.now))

	press(m, tea.KeyPressMsg{Code: 'l', Text: "l"})
	if got := m.Board.Progress().CurrentPuzzle(); got != 0 {
		t.Errorf("moved to locked puzzle %d", got)
	}
	press(m, tea.KeyPressMsg{Code: 'h', Text: "h"})
	if got := m.Board.Progress().CurrentPuzzle(); got != 0 {
		t.Errorf("moved before the first puzzle: %d", got)
	}
}

func TestDialogKeys(t *testing.T) {
	m, _ := newTestModel(t)

	press(m, tea.KeyPressMsg{Code: '?', Text: "?"})
	if m.Dialog != app.DialogHelp {
		t.Fatalf("dialog = %v, want help", m.Dialog)
	}

	// q closes the dialog instead of quitting.
	if cmd := press(m, tea.KeyPressMsg{Code: 'q', Text: "q"}); cmd != nil {
		t.Error("q quit with a dialog open")
	}
	if m.Dialog != app.DialogNone {
		t.Errorf("dialog still open: %v", m.Dialog)
	}

	if cmd := press(m, tea.KeyPressMsg{Code: 'q', Text: "q"}); cmd == nil {
		t.Error("q did not quit")
	}
}

func TestLogViewerKeys(t *testing.T) {
	m, _ := newTestModel(t)
	for i := range 100 {
		m.LogInfo("line %d", i)
	}

	press(m, tea.KeyPressMsg{Code: 'l', Mod: tea.ModCtrl})
	if !m.ShowLogs {
		t.Fatal("ctrl+l did not open the logs")
	}
	_, maxScroll := logScrollBounds(m.Height, len(m.LogMessages))

	press(m, tea.KeyPressMsg{Code: 'g', Text: "g"})
	if m.LogScrollOffset != 0 {
		t.Errorf("offset after g = %d", m.LogScrollOffset)
	}
	press(m, tea.KeyPressMsg{Code: 'k', Text: "k"})
	if m.LogScrollOffset != 0 {
		t.Errorf("scrolled above the top: %d", m.LogScrollOffset)
	}
	press(m, tea.KeyPressMsg{Code: 'G', Text: "G"})
	if m.LogScrollOffset != maxScroll {
		t.Errorf("offset after G = %d, want %d", m.LogScrollOffset, maxScroll)
	}

	// The flick guide toggle is not reachable while the logs are open.
	guide := config.ShowFlickGuide
	press(m, tea.KeyPressMsg{Code: 'g', Text: "g"})
	if config.ShowFlickGuide != guide {
		t.Error("guide toggled behind the log viewer")
	}

	press(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.ShowLogs {
		t.Error("esc did not close the logs")
	}
}
