package input

import (
	tea "charm.land/bubbletea/v2"

	"github.com/Gaurav-Gosain/flickboard/internal/app"
	"github.com/Gaurav-Gosain/flickboard/internal/config"
	"github.com/Gaurav-Gosain/flickboard/internal/puzzle"
)

// ActionHandler is a function that handles a specific action
type ActionHandler func(_ tea.KeyPressMsg, m *app.Model) (*app.Model, tea.Cmd)

// ActionDispatcher maps action names to handler functions
type ActionDispatcher struct {
	handlers map[string]ActionHandler
}

// NewActionDispatcher creates a new action dispatcher with all handlers registered
func NewActionDispatcher() *ActionDispatcher {
	d := &ActionDispatcher{
		handlers: make(map[string]ActionHandler),
	}
	d.registerHandlers()
	return d
}

// registerHandlers registers all action handlers
func (d *ActionDispatcher) registerHandlers() {
	d.Register(config.ActionQuit, handleQuit)
	d.Register(config.ActionStart, handleStart)
	d.Register(config.ActionPrevPuzzle, makeNavigateHandler(-1))
	d.Register(config.ActionNextPuzzle, makeNavigateHandler(1))
	d.Register(config.ActionResetKeys, handleResetKeys)
	d.Register(config.ActionToggleHelp, handleToggleHelp)
	d.Register(config.ActionToggleLogs, handleToggleLogs)
	d.Register(config.ActionToggleGuide, handleToggleGuide)
	d.Register(config.ActionToggleTapeManager, handleToggleTapeManager)
	d.Register(config.ActionToggleRecording, handleToggleRecording)
	d.Register(config.ActionPauseTape, handlePauseTape)
	d.Register(config.ActionStopTape, handleStopTape)
	d.Register(config.ActionCancel, handleCancel)
}

// Register adds an action handler
func (d *ActionDispatcher) Register(action string, handler ActionHandler) {
	d.handlers[action] = handler
}

// Dispatch executes the handler for a given action
func (d *ActionDispatcher) Dispatch(action string, msg tea.KeyPressMsg, m *app.Model) (*app.Model, tea.Cmd) {
	if handler, ok := d.handlers[action]; ok {
		return handler(msg, m)
	}
	return m, nil
}

// HasAction checks if an action is registered
func (d *ActionDispatcher) HasAction(action string) bool {
	_, ok := d.handlers[action]
	return ok
}

// Global action dispatcher instance
var globalDispatcher = NewActionDispatcher()

// GetDispatcher returns the global action dispatcher
func GetDispatcher() *ActionDispatcher {
	return globalDispatcher
}

func handleQuit(_ tea.KeyPressMsg, m *app.Model) (*app.Model, tea.Cmd) {
	m.Cleanup()
	return m, tea.Quit
}

func handleStart(_ tea.KeyPressMsg, m *app.Model) (*app.Model, tea.Cmd) {
	switch m.Board.Progress().Screen() {
	case puzzle.ScreenTitle:
		m.Start()
	case puzzle.ScreenClear:
		m.ReturnToTitle()
	}
	return m, nil
}

func makeNavigateHandler(delta int) ActionHandler {
	return func(_ tea.KeyPressMsg, m *app.Model) (*app.Model, tea.Cmd) {
		if !m.ScriptRunning() {
			m.Navigate(delta)
		}
		return m, nil
	}
}

func handleResetKeys(_ tea.KeyPressMsg, m *app.Model) (*app.Model, tea.Cmd) {
	if !m.ScriptRunning() {
		m.ResetKeys()
	}
	return m, nil
}

func handleToggleHelp(_ tea.KeyPressMsg, m *app.Model) (*app.Model, tea.Cmd) {
	if m.Dialog == app.DialogHelp {
		m.CloseDialog()
	} else {
		m.Dialog = app.DialogHelp
	}
	return m, nil
}

func handleToggleLogs(_ tea.KeyPressMsg, m *app.Model) (*app.Model, tea.Cmd) {
	m.ToggleLogs()
	return m, nil
}

func handleToggleGuide(_ tea.KeyPressMsg, m *app.Model) (*app.Model, tea.Cmd) {
	m.ToggleGuide()
	return m, nil
}

func handleToggleTapeManager(_ tea.KeyPressMsg, m *app.Model) (*app.Model, tea.Cmd) {
	if !m.ScriptRunning() {
		m.ToggleTapeManager()
	}
	return m, nil
}

func handleToggleRecording(_ tea.KeyPressMsg, m *app.Model) (*app.Model, tea.Cmd) {
	m.ToggleRecording()
	return m, nil
}

func handlePauseTape(_ tea.KeyPressMsg, m *app.Model) (*app.Model, tea.Cmd) {
	if m.ScriptRunning() {
		m.ScriptPaused = !m.ScriptPaused
	}
	return m, nil
}

func handleStopTape(_ tea.KeyPressMsg, m *app.Model) (*app.Model, tea.Cmd) {
	m.StopScript()
	return m, nil
}

// handleCancel closes the topmost overlay, or abandons a held key.
func handleCancel(_ tea.KeyPressMsg, m *app.Model) (*app.Model, tea.Cmd) {
	switch {
	case m.CloseDialog():
	case m.ScriptRunning():
	default:
		m.Board.Cancel()
	}
	return m, nil
}
