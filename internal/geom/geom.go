// Package geom provides the coordinate helpers shared by the gesture, placement
// and render packages: points, rectangles, pointer positions and flick directions.
//
// All values are in virtual pixels. Terminal cells are converted with CellToPixel
// before they reach this package.
package geom

import (
	"math"
)

// Point is a position in virtual pixels.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Distance returns the euclidean distance between p and q.
func Distance(p, q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// Rect is an axis-aligned box. Min is the top-left corner.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// R is shorthand for Rect{x, y, w, h}.
func R(x, y, w, h float64) Rect { return Rect{X: x, Y: y, Width: w, Height: h} }

// Min returns the top-left corner.
func (r Rect) Min() Point { return Point{X: r.X, Y: r.Y} }

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Center returns the midpoint of r.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Offset returns r translated by d.
func (r Rect) Offset(d Point) Rect {
	r.X += d.X
	r.Y += d.Y
	return r
}

// Scale returns r scaled by s around its center.
func (r Rect) Scale(s float64) Rect {
	c := r.Center()
	w, h := r.Width*s, r.Height*s
	return Rect{X: c.X - w/2, Y: c.Y - h/2, Width: w, Height: h}
}

// Contains reports whether inner lies fully within r. Edges are inclusive.
func (r Rect) Contains(inner Rect) bool {
	return inner.X >= r.X &&
		inner.Y >= r.Y &&
		inner.Right() <= r.Right() &&
		inner.Bottom() <= r.Bottom()
}

// ContainsPoint reports whether p lies within r. Edges are inclusive.
func (r Rect) ContainsPoint(p Point) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// RectContains reports whether inner is fully within outer.
func RectContains(inner, outer Rect) bool {
	return outer.Contains(inner)
}

// Direction is the resolved direction of a flick.
type Direction int

const (
	Center Direction = iota
	Left
	Up
	Right
	Down
)

func (d Direction) String() string {
	switch d {
	case Center:
		return "center"
	case Left:
		return "left"
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	default:
		return "unknown"
	}
}

// Vector returns the unit displacement of d in screen coordinates (y grows
// downwards). Center is the zero vector.
func (d Direction) Vector() Point {
	switch d {
	case Left:
		return Point{X: -1}
	case Up:
		return Point{Y: -1}
	case Right:
		return Point{X: 1}
	case Down:
		return Point{Y: 1}
	}
	return Point{}
}

// ParseDirection parses the lowercase name produced by Direction.String.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "center", "c":
		return Center, true
	case "left", "l":
		return Left, true
	case "up", "u":
		return Up, true
	case "right", "r":
		return Right, true
	case "down", "d":
		return Down, true
	}
	return Center, false
}

// FlickDirection resolves a displacement into a direction. Displacements shorter
// than threshold are Center. Otherwise the dominant axis wins; when |dx| == |dy|
// the vertical axis is used.
func FlickDirection(dx, dy, threshold float64) Direction {
	if math.Hypot(dx, dy) < threshold {
		return Center
	}
	if math.Abs(dx) > math.Abs(dy) {
		if dx > 0 {
			return Right
		}
		return Left
	}
	if dy > 0 {
		return Down
	}
	return Up
}

// PointerEvent is a mouse or touch sample. Touches holds the active touch points
// for touch input and is empty for mouse input.
type PointerEvent struct {
	Mouse   Point
	Touches []Point
}

// EventPosition returns the primary contact point of e: the first touch when
// any touches are present, the mouse position otherwise.
func EventPosition(e PointerEvent) Point {
	if len(e.Touches) > 0 {
		return e.Touches[0]
	}
	return e.Mouse
}

// CellToPixel converts a terminal cell coordinate into virtual pixels using
// the given cell size. The result addresses the center of the cell.
func CellToPixel(col, row int, cellW, cellH float64) Point {
	return Point{
		X: (float64(col) + 0.5) * cellW,
		Y: (float64(row) + 0.5) * cellH,
	}
}

// CellRect converts a cell-aligned box into a pixel rectangle.
func CellRect(col, row, width, height int, cellW, cellH float64) Rect {
	return Rect{
		X:      float64(col) * cellW,
		Y:      float64(row) * cellH,
		Width:  float64(width) * cellW,
		Height: float64(height) * cellH,
	}
}

// PixelToCell converts a pixel position back into the cell containing it.
func PixelToCell(p Point, cellW, cellH float64) (col, row int) {
	return int(math.Floor(p.X / cellW)), int(math.Floor(p.Y / cellH))
}
