package app

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/Gaurav-Gosain/flickboard/internal/gesture"
	"github.com/Gaurav-Gosain/flickboard/internal/keyboard"
	"github.com/Gaurav-Gosain/flickboard/internal/puzzle"
)

// getCursor returns the terminal caret at the end of the input text, or nil
// to hide it.
func (m *Model) getCursor() *tea.Cursor {
	if m.TooSmall || m.Layout.Column.W == 0 || m.Dialog != DialogNone || m.ShowLogs {
		return nil
	}
	if m.Board.Progress().Screen() != puzzle.ScreenMain {
		return nil
	}
	if drag, ok := m.Board.Dragging(); ok && drag.Key == keyboard.InputField {
		return nil
	}

	box := m.Layout.InputField
	if clone, ok := m.Board.Scene().Clone(); ok {
		box = CellBox(clone.Rect)
	} else if !m.Board.InputFieldVisible() {
		return nil
	}

	inner := box.W - 3
	x := box.X + 2 + min(lipgloss.Width(m.Board.Text()), inner)
	y := box.Y + box.H/2
	if x < 0 || x >= m.Width || y < 0 || y >= m.Height {
		return nil
	}

	cursor := tea.NewCursor(x, y)
	cursor.Shape = tea.CursorBar
	// A held key steadies the caret.
	cursor.Blink = m.Board.Session().Phase == gesture.PhaseIdle
	return cursor
}
