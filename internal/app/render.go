package app

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/Gaurav-Gosain/flickboard/internal/config"
	"github.com/Gaurav-Gosain/flickboard/internal/gesture"
	"github.com/Gaurav-Gosain/flickboard/internal/keyboard"
	"github.com/Gaurav-Gosain/flickboard/internal/puzzle"
	"github.com/Gaurav-Gosain/flickboard/internal/render"
	"github.com/Gaurav-Gosain/flickboard/internal/theme"
)

// GetCanvas composes every layer of the current frame.
func (m *Model) GetCanvas() *lipgloss.Canvas {
	canvas := lipgloss.NewCanvas(max(m.Width, 1), max(m.Height, 1))

	var layers []*lipgloss.Layer
	switch {
	case m.TooSmall:
		layers = append(layers, m.renderTooSmall())
	case m.Layout.Column.W == 0:
		// No size yet.
	default:
		switch m.Board.Progress().Screen() {
		case puzzle.ScreenTitle:
			layers = append(layers, m.renderTitleScreen())
		case puzzle.ScreenClear:
			layers = append(layers, m.renderClearScreen())
		default:
			layers = append(layers, m.renderBoard()...)
		}
	}
	layers = append(layers, m.renderOverlays()...)

	for _, layer := range layers {
		if layer != nil {
			canvas.Compose(layer)
		}
	}
	return canvas
}

// View renders the model.
func (m *Model) View() tea.View {
	var view tea.View
	view.SetContent(lipgloss.Sprint(m.GetCanvas().Render()))
	view.AltScreen = true
	// Gestures need motion while the button is held; hover is unused.
	view.MouseMode = tea.MouseModeCellMotion
	view.Cursor = m.getCursor()
	return view
}

func (m *Model) renderBoard() []*lipgloss.Layer {
	l := m.Layout
	progress := m.Board.Progress()
	now := m.now()
	drag, dragging := m.Board.Dragging()
	pending, _ := m.Board.Pending(now)
	session := m.Board.Session()

	armed := func(k keyboard.Key, origin gesture.Origin) bool {
		return pending && session.Target == k && session.Origin == origin
	}

	layers := []*lipgloss.Layer{
		m.renderHeader(),
		m.renderViewer(),
		m.renderStatus(),
	}

	if m.Board.InputFieldVisible() && !(dragging && drag.Origin == gesture.OriginInputField) {
		content := m.renderInputField(l.InputField.W, l.InputField.H, armed(keyboard.InputField, gesture.OriginInputField), false)
		layers = append(layers, m.layer(content, l.InputField.X, l.InputField.Y, config.ZIndexInputField, "input-field"))
	}

	for _, k := range m.Board.Keys() {
		b := CellBox(k.Rect)
		state := keyNormal
		switch {
		case m.Board.Moved(k.Visual.Key), dragging && drag.Key == k.Visual.Key && drag.Origin == gesture.OriginKeyboard:
			state = keyMoved
		case armed(k.Visual.Key, gesture.OriginKeyboard):
			state = keyArmed
		}
		layers = append(layers, m.layer(renderKeyBox(k.Visual, b.W, b.H, state), b.X, b.Y, config.ZIndexKeyboard, "key-"+string(k.Visual.Key)))
	}

	for i, p := range m.Board.Scene().Relocated {
		b := CellBox(p.Rect)
		z := config.ZIndexRelocated
		if p.Container == render.ContainerInputField || p.Container == render.ContainerInputFieldClone {
			z = config.ZIndexInputFieldKey
		}
		var content string
		if p.Clone {
			content = m.renderInputField(b.W, b.H, armed(keyboard.InputField, gesture.OriginRelocated), true)
		} else {
			state := keyNormal
			if armed(p.Visual.Key, gesture.OriginRelocated) {
				state = keyArmed
			}
			content = renderKeyBox(p.Visual, b.W, b.H, state)
		}
		layers = append(layers, m.layer(content, b.X, b.Y, z+i%5, fmt.Sprintf("relocated-%d", i)))
	}

	if dragging {
		b := CellBox(drag.Rect())
		var content string
		if drag.Key == keyboard.InputField {
			content = m.renderInputField(b.W, b.H, false, true)
		} else {
			content = renderKeyBox(KeyFactory.CreateKeyVisual(drag.Key, true), b.W, b.H, keyDragged)
		}
		layers = append(layers, m.layer(content, b.X, b.Y, config.ZIndexDragging, "dragging"))
	}

	if guide := m.renderGuide(); guide != nil {
		layers = append(layers, guide)
	}

	if mark := progress.Feedback().Mark(); mark != "" {
		layers = append(layers, m.renderFeedback(progress.Feedback(), mark))
	}
	return layers
}

func (m *Model) renderHeader() *lipgloss.Layer {
	l := m.Layout
	progress := m.Board.Progress()

	arrow := func(s string, enabled bool) string {
		c := theme.Highlight()
		if !enabled {
			c = theme.Dimmed()
		}
		return lipgloss.NewStyle().Foreground(c).Bold(true).Render(s)
	}
	prev, next := " ◀ ", " ▶ "
	if config.UseASCIIOnly {
		prev, next = " < ", " > "
	}

	pz := progress.Current()
	title := fmt.Sprintf("%s  %d/%d", pz.Title, progress.CurrentPuzzle()+1, progress.Count())
	if progress.IsPuzzleCleared(progress.CurrentPuzzle()) {
		title += " ✓"
	}
	title = lipgloss.NewStyle().
		Foreground(theme.Title()).
		Bold(true).
		Width(l.Header.W - 6).
		Align(lipgloss.Center).
		Render(fitWidth(title, l.Header.W-6))

	line := arrow(prev, progress.CanPrev()) + title + arrow(next, progress.CanNext())
	return m.layer(line, l.Header.X, l.Header.Y, config.ZIndexViewer, "header")
}

func (m *Model) renderViewer() *lipgloss.Layer {
	l := m.Layout
	progress := m.Board.Progress()

	image := progress.Current().Image
	if progress.Transitioning() && progress.Feedback() == puzzle.FeedbackNone {
		image = "…"
	}
	content := boxStyle(theme.ViewerBorder(), l.Viewer.W, l.Viewer.H).
		Foreground(theme.ImageFg()).
		Render(fitLines(strings.Trim(image, "\n"), l.Viewer.W-2, l.Viewer.H-2))
	return m.layer(content, l.Viewer.X, l.Viewer.Y, config.ZIndexViewer, "viewer")
}

// renderInputField draws the text input field, in flow or as a relocated clone.
func (m *Model) renderInputField(w, h int, armed, relocated bool) string {
	border := theme.InputFieldBorder()
	switch {
	case armed:
		border = theme.PendingHold()
	case relocated:
		border = theme.RelocatedKey()
	}
	text := m.Board.Text()
	// Keep the tail visible when the text overflows.
	if inner := w - 3; inner > 0 && lipgloss.Width(text) > inner {
		runes := []rune(text)
		for len(runes) > 0 && lipgloss.Width(string(runes)) > inner {
			runes = runes[1:]
		}
		text = string(runes)
	}
	return boxStyle(border, w, h).
		Align(lipgloss.Left).
		Foreground(theme.InputFieldText()).
		Render(" " + text)
}

func (m *Model) renderStatus() *lipgloss.Layer {
	l := m.Layout
	now := m.now()

	var msg string
	if pending, remaining := m.Board.Pending(now); pending {
		msg = fmt.Sprintf("長押しで移動まで %.1fs", remaining.Seconds())
	} else if drag, ok := m.Board.Dragging(); ok {
		msg = fmt.Sprintf("「%s」を移動中", drag.Key.Label())
	} else {
		msg = "フリックで入力・長押しで移動"
	}
	content := lipgloss.NewStyle().
		Foreground(theme.Dimmed()).
		Width(l.Status.W).
		Align(lipgloss.Center).
		Render(fitWidth(msg, l.Status.W))
	return m.layer(content, l.Status.X, l.Status.Y, config.ZIndexViewer, "status")
}

// renderGuide draws the five-cell flick guide centered on the pressed key.
// Cells follow the order up, left, center, right, down.
func (m *Model) renderGuide() *lipgloss.Layer {
	g := m.Board.Guide()
	if !g.Visible || !config.ShowFlickGuide {
		return nil
	}

	const cellW = 4
	hiBg, hiFg := theme.GuideHighlight()
	cell := func(i int) string {
		s := g.Guide.Cells[i]
		style := lipgloss.NewStyle().
			Width(cellW).
			Align(lipgloss.Center).
			Background(theme.GuideBg()).
			Foreground(theme.GuideFg())
		if keyboard.GuideOrder[i] == g.Highlight && s != "" {
			style = style.Background(hiBg).Foreground(hiFg).Bold(true)
		}
		if s == "" && g.Guide.Style == keyboard.GuideSparse {
			style = style.Foreground(theme.Dimmed())
			s = "-"
		}
		if g.Guide.Style == keyboard.GuideBrackets && (i == 1 || i == 3) {
			style = style.Foreground(theme.FunctionKey())
		}
		return style.Render(s)
	}
	blank := lipgloss.NewStyle().Width(cellW).Render("")

	rows := []string{
		blank + cell(0) + blank,
		cell(1) + cell(2) + cell(3),
		blank + cell(4) + blank,
	}
	content := strings.Join(rows, "\n")

	anchor := CellBox(g.Anchor)
	x := anchor.X + anchor.W/2 - (cellW*3)/2
	y := anchor.Y + anchor.H/2 - 1
	return m.layer(content, x, y, config.ZIndexFlickGuide, "flick-guide")
}

func (m *Model) renderFeedback(f puzzle.Feedback, mark string) *lipgloss.Layer {
	l := m.Layout
	c := theme.FeedbackCorrect()
	if f == puzzle.FeedbackIncorrect {
		c = theme.FeedbackIncorrect()
	}
	if config.UseASCIIOnly {
		mark = map[puzzle.Feedback]string{puzzle.FeedbackCorrect: "O", puzzle.FeedbackIncorrect: "X"}[f]
	}
	content := boxStyle(c, 9, 3).Foreground(c).Bold(true).Render(mark)
	x := l.Viewer.X + (l.Viewer.W-9)/2
	y := l.Viewer.Y + (l.Viewer.H-3)/2
	return m.layer(content, x, y, config.ZIndexFeedback, "feedback")
}

func (m *Model) renderTooSmall() *lipgloss.Layer {
	msg := fmt.Sprintf("terminal too small (%dx%d)", m.Width, m.Height)
	msg = fitWidth(msg, m.Width)
	x := max((m.Width-lipgloss.Width(msg))/2, 0)
	return m.layer(lipgloss.NewStyle().Foreground(theme.NotificationWarning()).Render(msg), x, m.Height/2, config.ZIndexViewer, "too-small")
}
