package app

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/Gaurav-Gosain/flickboard/internal/config"
	"github.com/Gaurav-Gosain/flickboard/internal/render"
	"github.com/Gaurav-Gosain/flickboard/internal/theme"
)

func getBorder() lipgloss.Border {
	if config.UseASCIIOnly {
		return lipgloss.ASCIIBorder()
	}
	return lipgloss.RoundedBorder()
}

// keyState selects how a key box is drawn.
type keyState int

const (
	keyNormal keyState = iota
	keyMoved
	keyArmed
	keyDragged
)

// renderKeyBox draws a key as a bordered w by h box with its label centered.
func renderKeyBox(v render.KeyVisual, w, h int, state keyState) string {
	border := theme.KeyBorder()
	label := theme.KeyLabel()
	switch {
	case state == keyMoved:
		border, label = theme.MovedPlaceholder(), theme.MovedPlaceholder()
	case state == keyArmed:
		border = theme.PendingHold()
	case state == keyDragged:
		border = theme.DraggedKey()
	case v.Relocated:
		border = theme.RelocatedKey()
	case v.Function:
		label = theme.FunctionKey()
	}

	text := v.Label
	if state == keyMoved && !config.UseASCIIOnly {
		text = "·" + text + "·"
	}
	return boxStyle(border, w, h).
		Foreground(label).
		Render(fitWidth(text, w-2))
}

// boxStyle is a bordered box whose content is centered.
func boxStyle(border color.Color, w, h int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(getBorder()).
		BorderForeground(border).
		Width(max(w, 2)).
		Height(max(h, 2)).
		Align(lipgloss.Center).
		AlignVertical(lipgloss.Center)
}

// fitWidth truncates s to at most width cells.
func fitWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if ansi.StringWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "…")
}

// fitLines truncates every line of s to width and keeps at most height lines.
func fitLines(s string, width, height int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for i, line := range lines {
		lines[i] = fitWidth(line, width)
	}
	return strings.Join(lines, "\n")
}

// clipContent cuts content placed at (x, y) to the viewport. It returns the
// visible part and its new position.
func clipContent(content string, x, y, viewportWidth, viewportHeight int) (string, int, int) {
	lines := strings.Split(content, "\n")
	width := 0
	for _, line := range lines {
		width = max(width, ansi.StringWidth(line))
	}
	if x+width <= 0 || x >= viewportWidth || y+len(lines) <= 0 || y >= viewportHeight {
		return "", max(x, 0), max(y, 0)
	}

	if y < 0 {
		lines = lines[-y:]
		y = 0
	}
	if y+len(lines) > viewportHeight {
		lines = lines[:viewportHeight-y]
	}

	left := max(-x, 0)
	right := min(width, viewportWidth-x)
	if left > 0 || right < width {
		for i, line := range lines {
			lines[i] = ansi.Cut(line, left, right)
		}
		x += left
	}
	return strings.Join(lines, "\n"), x, y
}

// layer builds a clipped canvas layer.
func (m *Model) layer(content string, x, y, z int, id string) *lipgloss.Layer {
	content, x, y = clipContent(content, x, y, m.Width, m.Height)
	if content == "" {
		return nil
	}
	return lipgloss.NewLayer(content).X(x).Y(y).Z(z).ID(id)
}
