package app

import (
	"errors"
	"strings"
	"testing"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gaurav-Gosain/flickboard/internal/board"
	"github.com/Gaurav-Gosain/flickboard/internal/config"
	"github.com/Gaurav-Gosain/flickboard/internal/geom"
	"github.com/Gaurav-Gosain/flickboard/internal/puzzle"
	"github.com/Gaurav-Gosain/flickboard/internal/tape"
)

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

func newModel(t *testing.T, script string) (*Model, *testClock) {
	t.Helper()
	c := &testClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	opts := Options{Now: c.Now, TapeDir: t.TempDir()}
	if script != "" {
		cmds, err := tape.Parse(script)
		require.NoError(t, err)
		opts.Script = cmds
	}
	m, err := NewModel(opts)
	require.NoError(t, err)
	t.Cleanup(m.Cleanup)
	return m, c
}

// run ticks the model at NormalFPS for d.
func run(m *Model, c *testClock, d time.Duration) {
	frame := time.Second / config.NormalFPS
	for end := c.now.Add(d); c.now.Before(end); {
		c.now = c.now.Add(frame)
		m.Update(TickerMsg(c.now))
	}
}

func TestComputeLayout(t *testing.T) {
	l, ok := ComputeLayout(80, 40)
	require.True(t, ok)
	assert.Equal(t, Box{X: 20, Y: 0, W: 40, H: 1}, l.Header)
	assert.Equal(t, Box{X: 20, Y: 1, W: 40, H: 20}, l.Viewer)
	assert.Equal(t, Box{X: 28, Y: 22, W: 24, H: 3}, l.InputField)
	assert.Equal(t, Box{X: 20, Y: 26, W: 40, H: 12}, l.Keyboard)
	assert.True(t, l.Prev.Contains(21, 0))
	assert.True(t, l.Next.Contains(58, 0))

	_, ok = ComputeLayout(30, 40)
	assert.False(t, ok, "narrower than the keyboard")
	_, ok = ComputeLayout(80, 20)
	assert.False(t, ok, "viewer below its minimum height")
}

func TestCellBoxRoundTrip(t *testing.T) {
	b := Box{X: 3, Y: 7, W: 8, H: 3}
	assert.Equal(t, b, CellBox(PixelRect(b)))

	// Drag offsets land between cells; they round to the nearest edge.
	r := PixelRect(b).Offset(geom.Pt(14, 11))
	assert.Equal(t, Box{X: 4, Y: 8, W: 8, H: 3}, CellBox(r))
}

func TestResizeTooSmall(t *testing.T) {
	m, _ := newModel(t, "")
	m.Resize(20, 10)
	assert.True(t, m.TooSmall)
	assert.Contains(t, lipgloss.Sprint(m.GetCanvas().Render()), "terminal too small")

	m.Resize(80, 40)
	assert.False(t, m.TooSmall)
	assert.NotEmpty(t, m.Board.Keys())
}

func TestBoardEventsOpenDialogs(t *testing.T) {
	m, _ := newModel(t, "")

	m.OnBoardEvent(board.RequestHint{Puzzle: 0, Hint: "look closer"})
	assert.Equal(t, DialogHint, m.Dialog)
	assert.Equal(t, "look closer", m.HintText)

	assert.True(t, m.CloseDialog())
	assert.False(t, m.CloseDialog())

	m.OnBoardEvent(board.RequestHelp{})
	assert.Equal(t, DialogHelp, m.Dialog)

	m.OnBoardEvent(board.Notice{Message: "cleared puzzles are locked"})
	require.Len(t, m.Notifications, 1)
	assert.Equal(t, "warning", m.Notifications[0].Type)
}

func TestNotificationsAreCappedAndExpire(t *testing.T) {
	m, c := newModel(t, "")
	for i := range 5 {
		m.ShowNotification(strings.Repeat("x", i+1), "info", time.Second)
	}
	require.Len(t, m.Notifications, config.MaxNotifications)
	assert.Equal(t, "xxxxx", m.Notifications[len(m.Notifications)-1].Message)

	c.now = c.now.Add(2 * time.Second)
	m.CleanupNotifications()
	assert.Empty(t, m.Notifications)
}

func TestLogRingBuffer(t *testing.T) {
	m, _ := newModel(t, "")
	for i := range config.MaxLogMessages + 10 {
		m.LogInfo("line %d", i)
	}
	assert.Len(t, m.LogMessages, config.MaxLogMessages)
	assert.Equal(t, "line 10", m.LogMessages[0].Message)
}

func TestScriptPlaysAgainstWallClock(t *testing.T) {
	m, c := newModel(t, "Start\nSleep 1s\nType あ\nExpect text あ\n")

	// Nothing runs before the first layout.
	run(m, c, 100*time.Millisecond)
	assert.Equal(t, puzzle.ScreenTitle, m.Board.Progress().Screen())

	m.Resize(80, 40)
	run(m, c, 2*time.Second)

	require.NoError(t, m.ScriptErr)
	assert.False(t, m.ScriptFinishedTime.IsZero())
	assert.False(t, m.ScriptRunning())
	assert.Equal(t, "あ", m.Board.Text())
}

func TestScriptFailureIsReported(t *testing.T) {
	m, c := newModel(t, "Start\nSleep 1s\nExpect text い\n")
	m.Resize(80, 40)
	run(m, c, 2*time.Second)

	require.Error(t, m.ScriptErr)
	assert.True(t, errors.Is(m.ScriptErr, tape.ErrExpectation))
	require.NotEmpty(t, m.Notifications)
	assert.Equal(t, "error", m.Notifications[len(m.Notifications)-1].Type)
}

func TestScriptPause(t *testing.T) {
	m, c := newModel(t, "Start\n")
	m.Resize(80, 40)
	m.ScriptPaused = true
	run(m, c, 500*time.Millisecond)
	assert.Equal(t, puzzle.ScreenTitle, m.Board.Progress().Screen())

	m.ScriptPaused = false
	run(m, c, 100*time.Millisecond)
	assert.Equal(t, puzzle.ScreenMain, m.Board.Progress().Screen())
}

func TestTapeManagerSaveAndList(t *testing.T) {
	m, c := newModel(t, "")
	m.Resize(80, 40)

	m.ToggleRecording()
	m.RecordCommand(tape.CommandTypeStart)
	c.now = c.now.Add(250 * time.Millisecond)
	m.RecordCommand(tape.CommandTypeReset)
	m.ToggleRecording()
	require.Equal(t, TapeManagerNaming, m.TapeManager.Mode)

	for _, k := range []string{"d", "e", "m", "o"} {
		m.HandleTapeManagerInput(k)
	}
	m.HandleTapeManagerInput("enter")

	require.Equal(t, TapeManagerList, m.TapeManager.Mode)
	require.Len(t, m.TapeManager.Files, 1)
	assert.Equal(t, "demo", m.TapeManager.Files[0].Name)

	script, err := tape.ParseFile(m.TapeManager.Files[0].Path)
	require.NoError(t, err)
	require.Len(t, script, 3)
	assert.Equal(t, tape.CommandTypeSleep, script[1].Type)
	assert.Equal(t, []string{"250ms"}, script[1].Args)

	m.HandleTapeManagerInput("d")
	m.HandleTapeManagerInput("y")
	assert.Empty(t, m.TapeManager.Files)
}

func TestViewRendersBoard(t *testing.T) {
	m, c := newModel(t, "")
	m.Resize(80, 40)
	m.Start()
	run(m, c, time.Second)

	v := m.View()
	assert.True(t, v.AltScreen)
	assert.NotNil(t, v.Cursor, "caret sits in the input field")
	assert.NotEmpty(t, strings.TrimSpace(lipgloss.Sprint(m.GetCanvas().Render())))
}
