package app

import (
	"github.com/Gaurav-Gosain/flickboard/internal/board"
	"github.com/Gaurav-Gosain/flickboard/internal/config"
	"github.com/Gaurav-Gosain/flickboard/internal/geom"
	"github.com/Gaurav-Gosain/flickboard/internal/keyboard"
	"github.com/Gaurav-Gosain/flickboard/internal/render"
)

// Box is a rectangle in terminal cells.
type Box struct {
	X, Y, W, H int
}

// Contains reports whether the cell (x, y) is inside b.
func (b Box) Contains(x, y int) bool {
	return x >= b.X && x < b.X+b.W && y >= b.Y && y < b.Y+b.H
}

// Layout is the screen layout in cells. The game is a single centered column:
// header, viewer, input field, keyboard and a status line.
type Layout struct {
	Column     Box
	Header     Box
	Viewer     Box
	InputField Box
	Keyboard   Box
	Status     Box

	// Header navigation arrows.
	Prev Box
	Next Box
}

const (
	headerRows = 1
	statusRows = 1
	gapRows    = 1
	// maxViewerRows keeps the viewer from swallowing tall terminals.
	maxViewerRows = 20
)

// ComputeLayout lays out a width by height terminal. ok is false when the
// terminal is too small to fit the viewer's minimum height or the keyboard.
func ComputeLayout(width, height int) (Layout, bool) {
	colW := config.KeyboardColumns * config.KeyCellWidth
	kbH := config.KeyboardRows * config.KeyCellHeight
	fixed := headerRows + gapRows + config.InputFieldCellHeight + gapRows + kbH + statusRows
	viewerH := min(height-fixed, maxViewerRows)
	if width < colW || viewerH < config.MinViewerHeight {
		return Layout{}, false
	}

	x := (width - colW) / 2
	y := max((height-fixed-viewerH)/2, 0)

	var l Layout
	l.Column = Box{X: x, Y: y, W: colW, H: fixed + viewerH}
	l.Header = Box{X: x, Y: y, W: colW, H: headerRows}
	l.Prev = Box{X: x, Y: y, W: 3, H: 1}
	l.Next = Box{X: x + colW - 3, Y: y, W: 3, H: 1}
	y += headerRows

	l.Viewer = Box{X: x, Y: y, W: colW, H: viewerH}
	y += viewerH + gapRows

	l.InputField = Box{
		X: x + (colW-config.InputFieldCellWidth)/2,
		Y: y,
		W: config.InputFieldCellWidth,
		H: config.InputFieldCellHeight,
	}
	y += config.InputFieldCellHeight + gapRows

	l.Keyboard = Box{X: x, Y: y, W: colW, H: kbH}
	y += kbH

	l.Status = Box{X: x, Y: y, W: colW, H: statusRows}
	return l, true
}

// PixelRect converts b into virtual pixels.
func PixelRect(b Box) geom.Rect {
	return geom.CellRect(b.X, b.Y, b.W, b.H, config.CellWidthPx, config.CellHeightPx)
}

// CellBox converts a pixel rectangle back to cells, rounding to the nearest
// cell edge.
func CellBox(r geom.Rect) Box {
	x0, y0 := roundCell(r.X, config.CellWidthPx), roundCell(r.Y, config.CellHeightPx)
	x1, y1 := roundCell(r.Right(), config.CellWidthPx), roundCell(r.Bottom(), config.CellHeightPx)
	return Box{X: x0, Y: y0, W: max(x1-x0, 1), H: max(y1-y0, 1)}
}

func roundCell(v, size float64) int {
	c := v / size
	if c < 0 {
		return int(c - 0.5)
	}
	return int(c + 0.5)
}

// KeyFactory sizes key visuals to the terminal key cell.
var KeyFactory = render.FactoryFunc(func(k keyboard.Key, relocated bool) render.KeyVisual {
	v := render.KeyVisual{
		Key:       k,
		Label:     k.Label(),
		Relocated: relocated,
		Function:  k.IsFunction(),
		Width:     config.KeyCellWidth * config.CellWidthPx,
		Height:    config.KeyCellHeight * config.CellHeightPx,
	}
	if k == keyboard.InputField {
		v.Label = ""
		v.Width = config.InputFieldCellWidth * config.CellWidthPx
		v.Height = config.InputFieldCellHeight * config.CellHeightPx
	}
	return v
})

// BoardLayout converts l into the board's pixel layout.
func BoardLayout(l Layout) board.Layout {
	kb := PixelRect(l.Keyboard)
	return board.Layout{
		Viewer:     PixelRect(l.Viewer),
		InputField: PixelRect(l.InputField),
		Keyboard:   kb.Min(),
		Pitch:      geom.Pt(config.KeyCellWidth*config.CellWidthPx, config.KeyCellHeight*config.CellHeightPx),
		Factory:    KeyFactory,
	}
}

// Resize recomputes the layout for a new terminal size and hands it to the
// board.
func (m *Model) Resize(width, height int) {
	m.Width, m.Height = width, height
	l, ok := ComputeLayout(width, height)
	m.TooSmall = !ok
	if !ok {
		m.LogWarn("terminal %dx%d is too small", width, height)
		return
	}
	m.Layout = l
	m.Board.SetLayout(BoardLayout(l))
}

// CellToPixel converts a terminal cell to the virtual pixel at its center.
func CellToPixel(x, y int) geom.Point {
	return geom.CellToPixel(x, y, config.CellWidthPx, config.CellHeightPx)
}
