package app

import (
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/Gaurav-Gosain/flickboard/internal/config"
)

// TickerMsg represents a periodic tick event for updating the UI.
// This is exported so it can be used by the input package.
type TickerMsg time.Time

// InputHandler is a function type that handles input messages.
// This allows the Update method to delegate to the input package without creating a circular dependency.
type InputHandler func(msg tea.Msg, m *Model) (tea.Model, tea.Cmd)

// inputHandler is the registered input handler function.
var inputHandler InputHandler

// SetInputHandler registers the input handler function.
// This must be called during initialization before the Update loop runs.
func SetInputHandler(handler InputHandler) {
	inputHandler = handler
}

// idleThresholdFrames is the number of quiet ticks before dropping to IdleFPS.
const idleThresholdFrames = config.NormalFPS / 2

// Init starts the tick loop.
func (m *Model) Init() tea.Cmd {
	return TickCmd()
}

// TickCmd creates a command that generates tick messages at NormalFPS.
// The long-press deadline and the puzzle timers are polled on every tick.
func TickCmd() tea.Cmd {
	return tea.Tick(time.Second/config.NormalFPS, func(t time.Time) tea.Msg {
		return TickerMsg(t)
	})
}

// IdleTickCmd creates a command that generates tick messages at IdleFPS.
// Used when nothing is animating or pending.
func IdleTickCmd() tea.Cmd {
	return tea.Tick(time.Second/config.IdleFPS, func(t time.Time) tea.Msg {
		return TickerMsg(t)
	})
}

// Update handles all incoming messages and updates the game state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickerMsg:
		now := m.now()
		m.Board.Tick(now)
		m.CleanupNotifications()
		m.stepScript(now)

		if m.active(now) {
			m.idleFrames = 0
			return m, TickCmd()
		}
		m.idleFrames++
		if m.idleFrames >= idleThresholdFrames {
			return m, IdleTickCmd()
		}
		return m, TickCmd()

	case tea.KeyPressMsg, tea.MouseClickMsg, tea.MouseMotionMsg,
		tea.MouseReleaseMsg, tea.MouseWheelMsg:
		// Reset idle counter on any user input to restore full tick rate
		m.idleFrames = 0
		if inputHandler != nil {
			return inputHandler(msg, m)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.Resize(msg.Width, msg.Height)
		return m, nil
	}
	return m, nil
}

// active reports whether something needs full-rate ticks: a gesture, a timer,
// a notification or a running script.
func (m *Model) active(now time.Time) bool {
	if m.Board.Busy() || len(m.Notifications) > 0 {
		return true
	}
	if _, ok := m.Board.Progress().NextDeadline(); ok {
		return true
	}
	if m.ScriptRunning() {
		return true
	}
	return !m.ScriptFinishedTime.IsZero() && now.Sub(m.ScriptFinishedTime) < scriptIndicatorLinger
}

// ScriptRunning reports whether a tape is playing or paused mid-way.
func (m *Model) ScriptRunning() bool {
	return m.ScriptMode && m.ScriptPlayer != nil && m.ScriptFinishedTime.IsZero()
}

// stepScript advances tape playback. Sleeps are honoured against the wall
// clock; nothing runs before the first layout.
func (m *Model) stepScript(now time.Time) {
	if !m.ScriptRunning() || m.ScriptPaused || m.TooSmall || m.Layout.Column.W == 0 {
		return
	}
	if !m.ScriptSleepUntil.IsZero() && now.Before(m.ScriptSleepUntil) {
		return
	}
	m.ScriptSleepUntil = time.Time{}

	if m.ScriptPlayer.Done() {
		m.finishScript(now, nil)
		return
	}
	wait, done, err := m.ScriptPlayer.Step()
	if err != nil {
		m.finishScript(now, err)
		return
	}
	if wait > 0 {
		m.ScriptSleepUntil = now.Add(wait)
		return
	}
	if done {
		m.finishScript(now, nil)
	}
}

func (m *Model) finishScript(now time.Time, err error) {
	m.ScriptFinishedTime = now
	m.ScriptErr = err
	if err != nil {
		m.ShowNotification(fmt.Sprintf("tape failed: %v", err), "error", 2*config.NotificationDuration)
		return
	}
	_, total := m.ScriptPlayer.Progress()
	m.ShowNotification(fmt.Sprintf("tape finished (%d commands)", total), "success", config.NotificationDuration)
}
