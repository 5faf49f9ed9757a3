// Package relocation holds the per-puzzle record of keys that were dragged off
// the keyboard, and the sign-encoded record form used at its boundary.
package relocation

import (
	"fmt"
	"math"

	"github.com/Gaurav-Gosain/flickboard/internal/keyboard"
)

// Space names the container a placement is relative to.
type Space int

const (
	// SpaceViewer places the key's top-left at a ratio of the image viewer.
	SpaceViewer Space = iota
	// SpaceInputField places the key's center at a ratio of the input field.
	SpaceInputField
)

func (s Space) String() string {
	switch s {
	case SpaceViewer:
		return "viewer"
	case SpaceInputField:
		return "input-field"
	}
	return "unknown"
}

// Placement is a normalized position within a container. X and Y are the true,
// non-negative ratios of the container's width and height.
type Placement struct {
	Space Space
	X, Y  float64
}

// Viewer returns a viewer-relative placement.
func Viewer(x, y float64) Placement { return Placement{Space: SpaceViewer, X: x, Y: y} }

// InField returns an input-field-relative placement.
func InField(x, y float64) Placement { return Placement{Space: SpaceInputField, X: x, Y: y} }

func (p Placement) String() string {
	return fmt.Sprintf("%s(%.3f, %.3f)", p.Space, p.X, p.Y)
}

// Record is the boundary form of a relocation. Negative ratios mean the key
// sits in the input field; the magnitudes are the true ratios.
type Record struct {
	Key    keyboard.Key
	XRatio float64
	YRatio float64
}

// Encode converts a placement into its record form.
func Encode(key keyboard.Key, p Placement) Record {
	x, y := math.Abs(p.X), math.Abs(p.Y)
	if p.Space == SpaceInputField {
		x, y = -x, -y
	}
	return Record{Key: key, XRatio: x, YRatio: y}
}

// Decode converts a record back into a placement. A record is in input-field
// space when either ratio is negative. The returned error is a warning for
// ratios outside (-1, 1); the placement is still usable.
func Decode(r Record) (Placement, error) {
	space := SpaceViewer
	if math.Signbit(r.XRatio) || math.Signbit(r.YRatio) {
		space = SpaceInputField
	}
	p := Placement{Space: space, X: math.Abs(r.XRatio), Y: math.Abs(r.YRatio)}

	if math.Abs(r.XRatio) >= 1 || math.Abs(r.YRatio) >= 1 {
		return p, fmt.Errorf("%w: %q at (%.3f, %.3f)", ErrRatioOutOfRange, r.Key, r.XRatio, r.YRatio)
	}
	return p, nil
}
