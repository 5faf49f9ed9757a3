package board

import (
	"fmt"
	"time"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/Gaurav-Gosain/flickboard/internal/geom"
	"github.com/Gaurav-Gosain/flickboard/internal/keyboard"
)

// HandleMouse feeds a mouse event whose X and Y are virtual pixels. Only the
// left button drives gestures. It reports whether the event was consumed.
func (b *Board) HandleMouse(ev uv.MouseEvent, now time.Time) bool {
	m := ev.Mouse()
	p := geom.Pt(float64(m.X), float64(m.Y))

	switch ev.(type) {
	case uv.MouseClickEvent:
		if m.Button != uv.MouseLeft {
			return false
		}
		return b.PointerDown(p, now)
	case uv.MouseMotionEvent:
		if !b.Busy() {
			return false
		}
		b.PointerMove(p, now)
		return true
	case uv.MouseReleaseEvent:
		if !b.Busy() {
			return false
		}
		b.PointerUp(p, now)
		return true
	}
	return false
}

// Locate returns the center of the pressable visual of k: its relocated copy
// when it has one, otherwise its keyboard key or the input field.
func (b *Board) Locate(k keyboard.Key) (geom.Point, error) {
	for _, p := range b.scene.Relocated {
		if p.Visual.Key == k && !p.Clone {
			return p.Rect.Center(), nil
		}
	}
	if k == keyboard.InputField {
		if clone, ok := b.scene.Clone(); ok {
			return clone.Rect.Center(), nil
		}
		if b.InputFieldVisible() && !b.layout.InputField.Empty() {
			return b.layout.InputField.Center(), nil
		}
		return geom.Point{}, fmt.Errorf("input field is not laid out")
	}
	for _, p := range b.keys {
		if p.Visual.Key == k {
			return p.Rect.Center(), nil
		}
	}
	return geom.Point{}, fmt.Errorf("unknown key %q", k)
}
