// Package input routes terminal key and mouse events to the game model.
//
// Mouse events are converted from cells to virtual pixels and handed to the
// board; keys are resolved through the configured key map to actions.
package input

import (
	tea "charm.land/bubbletea/v2"

	"github.com/Gaurav-Gosain/flickboard/internal/app"
)

// HandleInput is the main input coordinator that routes messages to appropriate handlers
func HandleInput(msg tea.Msg, m *app.Model) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		return HandleKeyPress(msg, m)
	case tea.MouseClickMsg:
		return handleMouseClick(msg, m)
	case tea.MouseMotionMsg:
		return handleMouseMotion(msg, m)
	case tea.MouseReleaseMsg:
		return handleMouseRelease(msg, m)
	case tea.MouseWheelMsg:
		return handleMouseWheel(msg, m)
	}
	return m, nil
}

// HandleKeyPress handles keyboard input. Overlays take their keys first; the
// rest go through the key map.
func HandleKeyPress(msg tea.KeyPressMsg, m *app.Model) (*app.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return handleQuit(msg, m)
	}
	if m.ShowTapeManager && m.HandleTapeManagerInput(key) {
		return m, nil
	}
	if m.ShowLogs {
		return handleLogViewerKey(msg, m)
	}

	action, ok := CurrentKeyMap().Action(key)
	if !ok {
		return m, nil
	}
	// An open dialog only answers to closing keys.
	if m.Dialog != app.DialogNone {
		switch key {
		case "enter", "space", "esc", "q":
			m.CloseDialog()
			return m, nil
		}
	}
	return GetDispatcher().Dispatch(action, msg, m)
}

// handleLogViewerKey handles keyboard input when the log viewer overlay is active.
func handleLogViewerKey(msg tea.KeyPressMsg, m *app.Model) (*app.Model, tea.Cmd) {
	key := msg.String()
	logsPerPage, maxScroll := logScrollBounds(m.Height, len(m.LogMessages))
	pageSize := max(logsPerPage/2, 1)

	switch key {
	case "q", "esc", "ctrl+l":
		m.ShowLogs = false
		m.LogScrollOffset = 0
	case "up", "k":
		m.LogScrollOffset = max(m.LogScrollOffset-1, 0)
	case "down", "j":
		m.LogScrollOffset = min(m.LogScrollOffset+1, maxScroll)
	case "pgup", "ctrl+u":
		m.LogScrollOffset = max(m.LogScrollOffset-pageSize, 0)
	case "pgdown", "ctrl+d":
		m.LogScrollOffset = min(m.LogScrollOffset+pageSize, maxScroll)
	case "g", "home":
		m.LogScrollOffset = 0
	case "G", "end":
		m.LogScrollOffset = maxScroll
	}
	return m, nil
}

// logScrollBounds computes the scrollable range for the log viewer overlay.
// Returns logsPerPage (visible capacity) and maxScroll (maximum scroll offset).
func logScrollBounds(screenHeight, totalLogs int) (logsPerPage, maxScroll int) {
	maxDisplayHeight := max(screenHeight-8, 8)
	// title, blank, scroll indicator with its blank, hint with its blank
	const fixedLines = 6
	logsPerPage = max(maxDisplayHeight-fixedLines, 1)
	maxScroll = max(totalLogs-logsPerPage, 0)
	return logsPerPage, maxScroll
}
