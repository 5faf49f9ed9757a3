package keyboard

import (
	"github.com/Gaurav-Gosain/flickboard/internal/geom"
)

// GuideStyle selects a layout variant for the flick guide.
type GuideStyle int

const (
	GuideStandard GuideStyle = iota
	// GuideBrackets is used by や, whose left and right slots hold brackets.
	GuideBrackets
	// GuideSparse is used by わ, whose down slot is empty.
	GuideSparse
)

// GuideOrder is the display order of the five guide cells.
var GuideOrder = [5]geom.Direction{geom.Up, geom.Left, geom.Center, geom.Right, geom.Down}

// Guide describes the flick guide for a key.
type Guide struct {
	Key   Key
	Cells [5]string // in GuideOrder; "" cells are drawn blank
	Style GuideStyle
}

// GuideChars returns the guide for k. ok is false for keys without a flick
// set, which show no guide.
func GuideChars(k Key) (Guide, bool) {
	if !k.HasFlick() {
		return Guide{}, false
	}
	g := Guide{Key: k}
	for i, dir := range GuideOrder {
		g.Cells[i] = k.Char(dir)
	}
	switch k {
	case "や":
		g.Style = GuideBrackets
	case "わ":
		g.Style = GuideSparse
	}
	return g, true
}

// GuideIndex returns the position of dir within GuideOrder.
func GuideIndex(dir geom.Direction) int {
	for i, d := range GuideOrder {
		if d == dir {
			return i
		}
	}
	return 2
}
