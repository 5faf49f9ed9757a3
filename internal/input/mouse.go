package input

import (
	tea "charm.land/bubbletea/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/Gaurav-Gosain/flickboard/internal/app"
	"github.com/Gaurav-Gosain/flickboard/internal/geom"
	"github.com/Gaurav-Gosain/flickboard/internal/puzzle"
	"github.com/Gaurav-Gosain/flickboard/internal/tape"
)

// toBoardEvent converts a terminal mouse event in cells into a board event in
// virtual pixels, addressing the center of the cell. Terminals only report a
// mouse, so the pointer sample never carries touches.
func toBoardEvent(msg tea.MouseMsg) (uv.MouseEvent, geom.Point) {
	mouse := msg.Mouse()
	p := geom.EventPosition(geom.PointerEvent{Mouse: app.CellToPixel(mouse.X, mouse.Y)})
	x, y := int(p.X+0.5), int(p.Y+0.5)
	btn, mod := uv.MouseButton(mouse.Button), uv.KeyMod(mouse.Mod)

	switch msg.(type) {
	case tea.MouseClickMsg:
		return uv.MouseClickEvent{X: x, Y: y, Button: btn, Mod: mod}, p
	case tea.MouseReleaseMsg:
		return uv.MouseReleaseEvent{X: x, Y: y, Button: btn, Mod: mod}, p
	default:
		return uv.MouseMotionEvent{X: x, Y: y, Button: btn, Mod: mod}, p
	}
}

// handleMouseClick handles mouse click events
func handleMouseClick(msg tea.MouseClickMsg, m *app.Model) (*app.Model, tea.Cmd) {
	mouse := msg.Mouse()
	m.LastMouseX, m.LastMouseY = mouse.X, mouse.Y

	// Overlays swallow clicks; a click closes a dialog.
	if m.ShowLogs || m.ShowTapeManager {
		return m, nil
	}
	if m.CloseDialog() {
		return m, nil
	}
	if m.ScriptRunning() || m.TooSmall {
		return m, nil
	}

	switch m.Board.Progress().Screen() {
	case puzzle.ScreenTitle:
		if mouse.Button == tea.MouseLeft {
			m.Start()
		}
		return m, nil
	case puzzle.ScreenClear:
		if mouse.Button == tea.MouseLeft {
			m.ReturnToTitle()
		}
		return m, nil
	}

	if mouse.Button == tea.MouseLeft && !m.Board.Busy() {
		switch {
		case m.Layout.Prev.Contains(mouse.X, mouse.Y):
			m.Navigate(-1)
			return m, nil
		case m.Layout.Next.Contains(mouse.X, mouse.Y):
			m.Navigate(1)
			return m, nil
		}
	}

	ev, p := toBoardEvent(msg)
	if m.Board.HandleMouse(ev, m.Now()) {
		m.RecordPointer(tape.CommandTypeDown, p)
	}
	return m, nil
}

// handleMouseMotion feeds pointer motion to a gesture or drag in progress.
func handleMouseMotion(msg tea.MouseMotionMsg, m *app.Model) (*app.Model, tea.Cmd) {
	mouse := msg.Mouse()
	m.LastMouseX, m.LastMouseY = mouse.X, mouse.Y
	if m.ScriptRunning() {
		return m, nil
	}
	ev, p := toBoardEvent(msg)
	if m.Board.HandleMouse(ev, m.Now()) {
		m.RecordPointer(tape.CommandTypeMove, p)
	}
	return m, nil
}

// handleMouseRelease ends a gesture or drag.
func handleMouseRelease(msg tea.MouseReleaseMsg, m *app.Model) (*app.Model, tea.Cmd) {
	if m.ScriptRunning() {
		return m, nil
	}
	ev, p := toBoardEvent(msg)
	if m.Board.HandleMouse(ev, m.Now()) {
		m.RecordPointer(tape.CommandTypeUp, p)
	}
	return m, nil
}

// handleMouseWheel scrolls the log overlay and the tape list.
func handleMouseWheel(msg tea.MouseWheelMsg, m *app.Model) (*app.Model, tea.Cmd) {
	delta := 0
	switch msg.Mouse().Button {
	case tea.MouseWheelUp:
		delta = -1
	case tea.MouseWheelDown:
		delta = 1
	}
	switch {
	case m.ShowLogs:
		m.ScrollLogs(delta)
	case m.ShowTapeManager:
		m.TapeManagerSelect(delta)
	}
	return m, nil
}
