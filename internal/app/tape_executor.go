package app

import (
	"time"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/Gaurav-Gosain/flickboard/internal/config"
	"github.com/Gaurav-Gosain/flickboard/internal/geom"
	"github.com/Gaurav-Gosain/flickboard/internal/keyboard"
	"github.com/Gaurav-Gosain/flickboard/internal/relocation"
	"github.com/Gaurav-Gosain/flickboard/internal/tape"
)

// The following methods implement the tape.Executor interface for
// tape playback inside the running game.

var _ tape.Executor = (*Model)(nil)

func (m *Model) boardExecutor() *tape.BoardExecutor {
	return &tape.BoardExecutor{
		Board:  m.Board,
		Clock:  m.now,
		Logger: m.logger,
		Notify: func(message, kind string) {
			m.ShowNotification(message, kind, config.NotificationDuration)
		},
	}
}

// PlayScript starts playing script. Real mouse input is ignored until it ends.
func (m *Model) PlayScript(script []tape.Command) {
	m.ScriptMode = true
	m.ScriptPaused = false
	m.ScriptErr = nil
	m.ScriptSleepUntil = time.Time{}
	m.ScriptFinishedTime = time.Time{}
	m.ScriptPlayer = tape.NewPlayer(script, m, m.logger)
	m.LogInfo("playing tape (%d commands)", len(script))
}

// StopScript abandons playback.
func (m *Model) StopScript() {
	if !m.ScriptRunning() {
		return
	}
	m.Board.Cancel()
	m.ScriptPlayer = nil
	m.ScriptMode = false
	m.LogInfo("tape stopped")
}

// TapePointer returns the position of the simulated pointer in cells while a
// tape holds it down.
func (m *Model) TapePointer() (x, y int, ok bool) {
	if !m.ScriptRunning() {
		return 0, 0, false
	}
	p, down := m.ScriptPlayer.Executor().Pointer()
	if !down {
		return 0, 0, false
	}
	x, y = geom.PixelToCell(p, config.CellWidthPx, config.CellHeightPx)
	return x, y, true
}

// SendMouse implements tape.Executor.
func (m *Model) SendMouse(ev uv.MouseEvent) error {
	return m.boardExecutor().SendMouse(ev)
}

// Locate implements tape.Executor.
func (m *Model) Locate(k keyboard.Key) (geom.Point, error) {
	return m.Board.Locate(k)
}

// StartGame implements tape.Executor.
func (m *Model) StartGame() error {
	m.CloseDialog()
	return m.boardExecutor().StartGame()
}

// MovePuzzle implements tape.Executor.
func (m *Model) MovePuzzle(delta int) error {
	return m.boardExecutor().MovePuzzle(delta)
}

// ResetRelocations implements tape.Executor.
func (m *Model) ResetRelocations() error {
	return m.boardExecutor().ResetRelocations()
}

// LoadRecords implements tape.Executor.
func (m *Model) LoadRecords(records []relocation.Record) error {
	return m.boardExecutor().LoadRecords(records)
}

// Records implements tape.Executor.
func (m *Model) Records() ([]relocation.Record, error) {
	return m.boardExecutor().Records()
}

// Text implements tape.Executor.
func (m *Model) Text() string { return m.Board.Text() }

// CurrentPuzzle implements tape.Executor.
func (m *Model) CurrentPuzzle() int { return m.Board.Progress().CurrentPuzzle() }

// IsMoved implements tape.Executor.
func (m *Model) IsMoved(k keyboard.Key) bool { return m.Board.Moved(k) }

// ShowNotificationCmd implements tape.Executor.
func (m *Model) ShowNotificationCmd(message, kind string) error {
	return m.boardExecutor().ShowNotificationCmd(message, kind)
}
