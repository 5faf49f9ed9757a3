package app

import (
	"strconv"

	"github.com/Gaurav-Gosain/flickboard/internal/config"
	"github.com/Gaurav-Gosain/flickboard/internal/puzzle"
	"github.com/Gaurav-Gosain/flickboard/internal/tape"
)

// Start leaves the title screen.
func (m *Model) Start() {
	if m.Board.Progress().Screen() != puzzle.ScreenTitle {
		return
	}
	if err := m.StartGame(); err != nil {
		m.LogError("starting: %v", err)
		return
	}
	m.RecordCommand(tape.CommandTypeStart)
	m.LogInfo("game started")
}

// ReturnToTitle leaves the clear screen. Relocations are kept.
func (m *Model) ReturnToTitle() {
	if m.Board.Progress().Screen() != puzzle.ScreenClear {
		return
	}
	m.Board.Progress().Reset()
	m.LogInfo("back to title")
}

// Navigate moves to a neighbouring puzzle.
func (m *Model) Navigate(delta int) {
	if m.Board.Progress().Screen() != puzzle.ScreenMain {
		return
	}
	if !m.Board.MovePuzzle(delta, m.now()) {
		m.LogInfo("puzzle move %+d refused", delta)
		return
	}
	m.RecordCommand(tape.CommandTypePuzzle, strconv.Itoa(delta))
}

// ResetKeys clears every relocation.
func (m *Model) ResetKeys() {
	if m.Board.Busy() {
		return
	}
	m.Board.Reset()
	m.RecordCommand(tape.CommandTypeReset)
	m.ShowNotification("キーの配置をリセットしました", "info", config.NotificationDuration)
}

// ToggleGuide shows or hides the flick guide.
func (m *Model) ToggleGuide() {
	config.ShowFlickGuide = !config.ShowFlickGuide
	state := "off"
	if config.ShowFlickGuide {
		state = "on"
	}
	m.ShowNotification("flick guide "+state, "info", config.NotificationDuration)
}

// ToggleLogs opens or closes the log overlay, scrolled to the bottom.
func (m *Model) ToggleLogs() {
	m.ShowLogs = !m.ShowLogs
	if m.ShowLogs {
		m.LogScrollOffset = max(len(m.LogMessages)-m.logsPerPage(), 0)
	}
}

// ScrollLogs scrolls the log overlay by delta lines.
func (m *Model) ScrollLogs(delta int) {
	m.LogScrollOffset = max(m.LogScrollOffset+delta, 0)
}
