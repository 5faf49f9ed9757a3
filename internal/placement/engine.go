// Package placement runs a key drag from hand-off to drop: it tracks the drag
// offset, classifies the drop against the viewer and the input field, converts
// the drop position into a ratio and writes it to the relocation store.
package placement

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/Gaurav-Gosain/flickboard/internal/config"
	"github.com/Gaurav-Gosain/flickboard/internal/geom"
	"github.com/Gaurav-Gosain/flickboard/internal/gesture"
	"github.com/Gaurav-Gosain/flickboard/internal/keyboard"
	"github.com/Gaurav-Gosain/flickboard/internal/relocation"
)

// ClearedNotice is shown when a drag is attempted on a solved puzzle.
const ClearedNotice = "もう動かす必要はないようだ"

// FallbackFieldRatio is used when the input field box cannot be measured.
const FallbackFieldRatio = 0.5

// Progress reports puzzle state to the engine.
type Progress interface {
	CurrentPuzzle() int
	IsPuzzleCleared(puzzle int) bool
}

// Notifier shows transient notices to the user.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string)

// Notify calls f.
func (f NotifierFunc) Notify(message string) { f(message) }

// Geometry is the layout at the moment of a drop, in virtual pixels.
type Geometry struct {
	Viewer geom.Rect

	// InputField is the in-flow input field; it is a drop target only while visible.
	InputField        geom.Rect
	InputFieldVisible bool

	// InputFieldClone is the relocated copy of the input field, if rendered.
	InputFieldClone    geom.Rect
	HasInputFieldClone bool
}

// inputField returns the input field box that contains r, preferring the
// in-flow field. ok is false when no input field box contains r.
func (g Geometry) inputField(r geom.Rect) (box geom.Rect, measured, ok bool) {
	if g.InputFieldVisible && !g.InputField.Empty() && geom.RectContains(r, g.InputField) {
		return g.InputField, true, true
	}
	if g.HasInputFieldClone && geom.RectContains(r, g.InputFieldClone) {
		return g.InputFieldClone, !g.InputFieldClone.Empty(), true
	}
	return geom.Rect{}, false, false
}

// Outcome classifies a drop.
type Outcome int

const (
	// DropNone means the key returned to the keyboard.
	DropNone Outcome = iota
	DropViewer
	DropInputField
	// DropIgnored means no drag was active.
	DropIgnored
)

func (o Outcome) String() string {
	switch o {
	case DropNone:
		return "keyboard"
	case DropViewer:
		return "viewer"
	case DropInputField:
		return "input-field"
	case DropIgnored:
		return "ignored"
	}
	return "unknown"
}

// DropResult describes a completed drag.
type DropResult struct {
	Key       keyboard.Key
	Puzzle    int
	Outcome   Outcome
	Placement relocation.Placement
	Rect      geom.Rect
	Purged    int

	// Record is Placement in sign-encoded form; it is zero for DropNone.
	Record relocation.Record

	// InputFieldChanged is set when the drop decides the in-flow field's
	// visibility; InputFieldHidden is the new state.
	InputFieldChanged bool
	InputFieldHidden  bool
}

// Drag is a snapshot of the drag in progress.
type Drag struct {
	Key    keyboard.Key
	Origin gesture.Origin
	Base   geom.Rect
	Offset geom.Point
	Scale  float64
}

// Rect returns the dragged key's box: Base moved by Offset and scaled by the
// drag cue.
func (d Drag) Rect() geom.Rect {
	return d.Base.Offset(d.Offset).Scale(d.Scale)
}

// Options configure an Engine.
type Options struct {
	Notifier Notifier
	// OnDrop runs after every drop with the current puzzle; it rebuilds the
	// relocated key visuals.
	OnDrop func(puzzle int)
	Logger *log.Logger
}

// Engine owns the pointer between a DragHandoff and the following release.
type Engine struct {
	session  *gesture.Session
	store    *relocation.Store
	progress Progress
	notifier Notifier
	onDrop   func(int)
	logger   *log.Logger

	drag      Drag
	anchor    geom.Point
	anchorSet bool
}

// NewEngine creates an engine sharing session with the gesture machine.
func NewEngine(session *gesture.Session, store *relocation.Store, progress Progress, opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = NotifierFunc(func(string) {})
	}
	onDrop := opts.OnDrop
	if onDrop == nil {
		onDrop = func(int) {}
	}
	return &Engine{
		session:  session,
		store:    store,
		progress: progress,
		notifier: notifier,
		onDrop:   onDrop,
		logger:   logger.WithPrefix("placement"),
	}
}

// Active reports whether a drag owns the pointer.
func (e *Engine) Active() bool {
	return e.session.DragActive && e.drag.Key != keyboard.None
}

// Dragging returns the drag in progress.
func (e *Engine) Dragging() (Drag, bool) {
	if !e.Active() {
		return Drag{}, false
	}
	return e.drag, true
}

// StartDrag takes over the pointer for h. base is the key's box when the long
// press fired. It returns false when the drag is refused: a drag is already
// active, or the current puzzle is solved.
func (e *Engine) StartDrag(h gesture.DragHandoff, base geom.Rect) bool {
	if e.session.DragActive {
		e.logger.Warn("drag already active, ignoring hand-off", "key", h.Key, "active", e.drag.Key)
		return false
	}

	puzzle := e.progress.CurrentPuzzle()
	if e.progress.IsPuzzleCleared(puzzle) {
		e.logger.Info("drag refused on cleared puzzle", "key", h.Key, "puzzle", puzzle)
		e.notifier.Notify(ClearedNotice)
		return false
	}

	if h.Origin == gesture.OriginRelocated {
		if _, err := e.store.Remove(puzzle, h.Key); err != nil {
			e.logger.Error("removing origin record", "key", h.Key, "puzzle", puzzle, "err", err)
		}
	}

	e.drag = Drag{
		Key:    h.Key,
		Origin: h.Origin,
		Base:   base,
		Scale:  config.DragScaleCue,
	}
	e.anchorSet = false
	e.session.DragActive = true
	e.session.Phase = gesture.PhaseDragging

	e.logger.Info("drag started", "key", h.Key, "origin", h.Origin, "puzzle", puzzle)
	return true
}

// Move updates the drag offset. The first sample after StartDrag sets the
// zero point so the key does not jump.
func (e *Engine) Move(pos geom.Point) {
	if !e.Active() {
		return
	}
	if !e.anchorSet {
		e.anchor = pos
		e.anchorSet = true
		return
	}
	e.drag.Offset = pos.Sub(e.anchor)
}

// End finishes the drag at pos. The drop is classified against g, the store
// is updated, OnDrop runs and the shared session is released.
func (e *Engine) End(pos geom.Point, g Geometry) DropResult {
	if !e.Active() {
		return DropResult{Outcome: DropIgnored}
	}

	key := e.drag.Key
	puzzle := e.progress.CurrentPuzzle()
	keyRect := e.drag.Rect()

	res := DropResult{Key: key, Puzzle: puzzle, Rect: keyRect}

	inViewer := !g.Viewer.Empty() && geom.RectContains(keyRect, g.Viewer)
	var (
		fieldBox      geom.Rect
		fieldMeasured bool
		inField       bool
	)
	// The input field cannot be dropped into itself.
	if key != keyboard.InputField {
		fieldBox, fieldMeasured, inField = g.inputField(keyRect)
	}

	if key == keyboard.InputField {
		if ok, err := e.store.Remove(puzzle, key); err != nil {
			e.logger.Error("purging input field", "puzzle", puzzle, "err", err)
		} else if ok {
			res.Purged = 1
		}
	} else {
		res.Purged = e.store.RemoveEverywhere(key)
	}

	switch {
	case inField && !inViewer:
		res.Outcome = DropInputField
		if fieldMeasured {
			c := keyRect.Center()
			res.Placement = relocation.InField(
				(c.X-fieldBox.X)/fieldBox.Width,
				(c.Y-fieldBox.Y)/fieldBox.Height,
			)
		} else {
			e.logger.Warn("input field box unavailable, using midpoint", "key", key)
			res.Placement = relocation.InField(FallbackFieldRatio, FallbackFieldRatio)
		}
	case inViewer:
		res.Outcome = DropViewer
		res.Placement = relocation.Viewer(
			(keyRect.X-g.Viewer.X)/g.Viewer.Width,
			(keyRect.Y-g.Viewer.Y)/g.Viewer.Height,
		)
	default:
		res.Outcome = DropNone
	}

	if res.Outcome != DropNone {
		if err := e.store.Save(puzzle, key, res.Placement); err != nil {
			e.logger.Error("saving relocation", "key", key, "puzzle", puzzle, "err", err)
			res.Outcome = DropNone
		}
	}

	if key == keyboard.InputField {
		res.InputFieldChanged = true
		res.InputFieldHidden = res.Outcome != DropNone
	}

	if res.Outcome == DropNone {
		e.logger.Info("dropped outside targets, returned to keyboard", "key", key)
	} else {
		res.Record = relocation.Encode(key, res.Placement)
		e.logger.Info("dropped", "key", key, "puzzle", puzzle, "target", res.Outcome,
			"placement", res.Placement, "x", res.Record.XRatio, "y", res.Record.YRatio)
	}

	e.onDrop(puzzle)

	e.drag = Drag{}
	e.anchorSet = false
	e.session.EndDrag()
	return res
}
