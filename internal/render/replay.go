// Package render rebuilds the relocated key visuals of a puzzle from the
// relocation store. It does no drawing; the app turns a Scene into layers.
package render

import (
	"fmt"

	"github.com/Gaurav-Gosain/flickboard/internal/geom"
	"github.com/Gaurav-Gosain/flickboard/internal/gesture"
	"github.com/Gaurav-Gosain/flickboard/internal/keyboard"
	"github.com/Gaurav-Gosain/flickboard/internal/relocation"
)

// KeyVisual is the renderable form of a key.
type KeyVisual struct {
	Key       keyboard.Key
	Label     string
	Relocated bool
	Function  bool
	Width     float64
	Height    float64
}

// KeyVisualFactory creates key visuals for the keyboard grid and for
// relocated keys.
type KeyVisualFactory interface {
	CreateKeyVisual(key keyboard.Key, relocated bool) KeyVisual
}

// FactoryFunc adapts a function to KeyVisualFactory.
type FactoryFunc func(key keyboard.Key, relocated bool) KeyVisual

// CreateKeyVisual calls f.
func (f FactoryFunc) CreateKeyVisual(key keyboard.Key, relocated bool) KeyVisual {
	return f(key, relocated)
}

// Container identifies what a placed visual is positioned against.
type Container int

const (
	ContainerKeyboard Container = iota
	ContainerViewer
	ContainerInputField
	ContainerInputFieldClone
)

func (c Container) String() string {
	switch c {
	case ContainerKeyboard:
		return "keyboard"
	case ContainerViewer:
		return "viewer"
	case ContainerInputField:
		return "input-field"
	case ContainerInputFieldClone:
		return "input-field-clone"
	}
	return "unknown"
}

// Placed is a visual at an absolute position.
type Placed struct {
	Visual    KeyVisual
	Container Container
	Rect      geom.Rect
	Origin    gesture.Origin
	// Clone marks the relocated copy of the input field.
	Clone bool
}

// Containers is the layout Replay places visuals into.
type Containers struct {
	Viewer geom.Rect

	// InputField is the in-flow field. InputFieldReady is false before it
	// has been laid out.
	InputField      geom.Rect
	InputFieldReady bool

	Factory KeyVisualFactory
}

// Scene is the result of a replay.
type Scene struct {
	Puzzle int

	// Relocated holds the visuals in draw order. An input field clone comes
	// before any key placed inside it.
	Relocated []Placed

	// Moved is the set of keyboard keys shown with the moved indicator.
	Moved map[keyboard.Key]bool

	// InputFieldHidden is set when the current puzzle relocates the input field.
	InputFieldHidden bool

	Warnings []string
}

// Clone returns the input field clone, if the scene has one.
func (s Scene) Clone() (Placed, bool) {
	for _, p := range s.Relocated {
		if p.Clone {
			return p, true
		}
	}
	return Placed{}, false
}

// Hit returns the topmost relocated visual containing pt.
func (s Scene) Hit(pt geom.Point) (Placed, bool) {
	for i := len(s.Relocated) - 1; i >= 0; i-- {
		if s.Relocated[i].Rect.ContainsPoint(pt) {
			return s.Relocated[i], true
		}
	}
	return Placed{}, false
}

// Replay builds the scene for puzzle from store. It never fails: problems are
// reported in Scene.Warnings and the affected records are skipped.
func Replay(puzzle int, store *relocation.Store, c Containers) Scene {
	scene := Scene{Puzzle: puzzle, Moved: make(map[keyboard.Key]bool)}

	for k := range store.MovedKeys() {
		if k != keyboard.InputField {
			scene.Moved[k] = true
		}
	}

	entries, err := store.Entries(puzzle)
	if err != nil {
		scene.Warnings = append(scene.Warnings, err.Error())
		return scene
	}

	for _, e := range entries {
		if e.Key == keyboard.InputField {
			scene.Moved[keyboard.InputField] = true
			scene.InputFieldHidden = true
		}
	}

	// Viewer placements first, so the clone exists before field placements
	// resolve against it.
	var clone *geom.Rect
	for _, e := range entries {
		if e.Placement.Space != relocation.SpaceViewer {
			continue
		}
		if c.Viewer.Empty() {
			scene.Warnings = append(scene.Warnings, fmt.Sprintf("viewer not laid out, skipping %q", e.Key))
			continue
		}
		v := c.Factory.CreateKeyVisual(e.Key, true)
		r := geom.R(
			c.Viewer.X+e.Placement.X*c.Viewer.Width,
			c.Viewer.Y+e.Placement.Y*c.Viewer.Height,
			v.Width, v.Height,
		)
		p := Placed{Visual: v, Container: ContainerViewer, Rect: r, Origin: gesture.OriginRelocated}
		if e.Key == keyboard.InputField {
			p.Clone = true
			cr := r
			clone = &cr
		}
		scene.Relocated = append(scene.Relocated, p)
	}

	for _, e := range entries {
		if e.Placement.Space != relocation.SpaceInputField {
			continue
		}
		var (
			box       geom.Rect
			container Container
		)
		switch {
		case c.InputFieldReady && !scene.InputFieldHidden:
			box, container = c.InputField, ContainerInputField
		case clone != nil:
			box, container = *clone, ContainerInputFieldClone
		default:
			scene.Warnings = append(scene.Warnings, fmt.Sprintf("no input field container for %q", e.Key))
			continue
		}
		v := c.Factory.CreateKeyVisual(e.Key, true)
		cx := box.X + e.Placement.X*box.Width
		cy := box.Y + e.Placement.Y*box.Height
		scene.Relocated = append(scene.Relocated, Placed{
			Visual:    v,
			Container: container,
			Rect:      geom.R(cx-v.Width/2, cy-v.Height/2, v.Width, v.Height),
			Origin:    gesture.OriginRelocated,
		})
	}

	return scene
}

// Keyboard lays out the fixed grid with its top-left at origin. Each cell is
// cellW by cellH; empty slots are skipped.
func Keyboard(f KeyVisualFactory, origin geom.Point, cellW, cellH float64) []Placed {
	var out []Placed
	for r, row := range keyboard.Layout {
		for col, k := range row {
			if k == keyboard.None {
				continue
			}
			v := f.CreateKeyVisual(k, false)
			out = append(out, Placed{
				Visual:    v,
				Container: ContainerKeyboard,
				Rect:      geom.R(origin.X+float64(col)*cellW, origin.Y+float64(r)*cellH, v.Width, v.Height),
				Origin:    gesture.OriginKeyboard,
			})
		}
	}
	return out
}
