// Package board is the headless controller of the flick keyboard. It routes
// pointer input to the gesture machine or the placement engine, applies
// keystrokes to the input text, and keeps the relocated key scene current.
//
// Board does not depend on bubbletea. The app and tape replay drive it with
// pixel positions and explicit times, either directly or as ultraviolet mouse
// events through HandleMouse.
package board

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Gaurav-Gosain/flickboard/internal/geom"
	"github.com/Gaurav-Gosain/flickboard/internal/gesture"
	"github.com/Gaurav-Gosain/flickboard/internal/keyboard"
	"github.com/Gaurav-Gosain/flickboard/internal/placement"
	"github.com/Gaurav-Gosain/flickboard/internal/puzzle"
	"github.com/Gaurav-Gosain/flickboard/internal/relocation"
	"github.com/Gaurav-Gosain/flickboard/internal/render"
)

// Layout places the board's containers, in virtual pixels.
type Layout struct {
	Viewer     geom.Rect
	InputField geom.Rect
	// Keyboard is the top-left of the key grid; Pitch is the distance
	// between neighbouring grid cells.
	Keyboard geom.Point
	Pitch    geom.Point
	Factory  render.KeyVisualFactory
}

// GuideState is the flick guide currently shown.
type GuideState struct {
	Visible   bool
	Guide     keyboard.Guide
	Highlight geom.Direction
	Anchor    geom.Rect
}

// Options configure a Board.
type Options struct {
	Gesture  gesture.Options
	Listener Listener
	Logger   *log.Logger
}

// Board ties the keyboard, the relocation store and the puzzle progress together.
type Board struct {
	store    *relocation.Store
	progress *puzzle.Progress
	session  *gesture.Session
	machine  *gesture.Machine
	engine   *placement.Engine
	listener Listener
	logger   *log.Logger

	layout  Layout
	ready   bool
	keys    []render.Placed
	scene   render.Scene
	shown   int
	text    string
	guide   GuideState
	pressed render.Placed

	unsubscribe func()
}

// New creates a board over store and progress.
func New(store *relocation.Store, progress *puzzle.Progress, opts Options) *Board {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	listener := opts.Listener
	if listener == nil {
		listener = ListenerFunc(func(Event) {})
	}

	b := &Board{
		store:    store,
		progress: progress,
		session:  gesture.NewSession(),
		listener: listener,
		logger:   logger.WithPrefix("board"),
	}

	gopts := opts.Gesture
	if gopts.Logger == nil {
		gopts.Logger = logger
	}
	b.machine = gesture.NewMachine(b.session, gopts)
	b.engine = placement.NewEngine(b.session, store, progress, placement.Options{
		Notifier: placement.NotifierFunc(func(msg string) { b.emit(Notice{Message: msg}) }),
		OnDrop:   func(int) { b.replay() },
		Logger:   logger,
	})
	b.unsubscribe = store.Subscribe(func(relocation.Change) { b.replay() })
	return b
}

// Close detaches the board from its store.
func (b *Board) Close() {
	if b.unsubscribe != nil {
		b.unsubscribe()
		b.unsubscribe = nil
	}
}

// SetListener replaces the event listener.
func (b *Board) SetListener(l Listener) {
	if l == nil {
		l = ListenerFunc(func(Event) {})
	}
	b.listener = l
}

// SetLayout lays out the keyboard grid and rebuilds the scene.
func (b *Board) SetLayout(l Layout) {
	b.layout = l
	b.ready = true
	b.keys = render.Keyboard(l.Factory, l.Keyboard, l.Pitch.X, l.Pitch.Y)
	b.replay()
}

// Layout returns the current layout.
func (b *Board) Layout() Layout { return b.layout }

// Store returns the relocation store.
func (b *Board) Store() *relocation.Store { return b.store }

// Progress returns the puzzle progress.
func (b *Board) Progress() *puzzle.Progress { return b.progress }

// Session returns the shared gesture session.
func (b *Board) Session() *gesture.Session { return b.session }

// Text returns the input text.
func (b *Board) Text() string { return b.text }

// Scene returns the relocated key scene of the current puzzle.
func (b *Board) Scene() render.Scene { return b.scene }

// Keys returns the keyboard grid.
func (b *Board) Keys() []render.Placed { return b.keys }

// Moved reports whether k shows the moved indicator.
func (b *Board) Moved(k keyboard.Key) bool { return b.scene.Moved[k] }

// InputFieldVisible reports whether the in-flow input field is shown.
func (b *Board) InputFieldVisible() bool { return !b.scene.InputFieldHidden }

// Guide returns the flick guide state.
func (b *Board) Guide() GuideState { return b.guide }

// Dragging returns the drag in progress.
func (b *Board) Dragging() (placement.Drag, bool) { return b.engine.Dragging() }

// Pending reports whether a long press is armed, and how long it has left.
func (b *Board) Pending(now time.Time) (bool, time.Duration) {
	return b.machine.Pending(), b.machine.Remaining(now)
}

// Busy reports whether a gesture or drag is in progress.
func (b *Board) Busy() bool { return b.session.Live() || b.session.DragActive }

// Start leaves the title screen.
func (b *Board) Start(now time.Time) error {
	return b.progress.Start(now)
}

// MovePuzzle navigates to a neighbouring puzzle. It is refused while a
// gesture is in progress.
func (b *Board) MovePuzzle(delta int, now time.Time) bool {
	if b.Busy() {
		return false
	}
	return b.progress.Move(delta, now)
}

// Reset clears every relocation.
func (b *Board) Reset() {
	b.logger.Info("relocations reset", "records", b.store.Count())
	b.store.Reset()
}

// HitTest returns the key under p. Relocated keys are above the input field,
// which is above the keyboard. Keyboard keys showing the moved indicator are
// not pressable.
func (b *Board) HitTest(p geom.Point) (render.Placed, bool) {
	if !b.ready {
		return render.Placed{}, false
	}
	if hit, ok := b.scene.Hit(p); ok {
		return hit, true
	}
	if b.InputFieldVisible() && b.layout.InputField.ContainsPoint(p) {
		return render.Placed{
			Visual:    b.layout.Factory.CreateKeyVisual(keyboard.InputField, false),
			Container: render.ContainerInputField,
			Rect:      b.layout.InputField,
			Origin:    gesture.OriginInputField,
		}, true
	}
	for _, k := range b.keys {
		if b.scene.Moved[k.Visual.Key] {
			continue
		}
		if k.Rect.ContainsPoint(p) {
			return k, true
		}
	}
	return render.Placed{}, false
}

// PointerDown presses the key under p and reports whether one was hit.
func (b *Board) PointerDown(p geom.Point, now time.Time) bool {
	if b.progress.Screen() != puzzle.ScreenMain || b.stale() {
		return false
	}
	target, ok := b.HitTest(p)
	if !ok {
		return false
	}
	b.pressed = target
	b.handle(b.machine.Down(target.Visual.Key, target.Origin, p, now), now)
	return true
}

// PointerMove feeds a pointer sample to whichever machine owns the pointer.
func (b *Board) PointerMove(p geom.Point, now time.Time) {
	if b.engine.Active() {
		b.engine.Move(p)
		return
	}
	b.handle(b.machine.Move(p, now), now)
}

// PointerUp ends the gesture or the drag. A release that itself escalates the
// long press starts the drag and drops it at p straight away.
func (b *Board) PointerUp(p geom.Point, now time.Time) {
	if !b.engine.Active() {
		b.handle(b.machine.Up(p, now), now)
		if !b.engine.Active() {
			return
		}
	}
	res := b.engine.End(p, b.geometry())
	b.emit(Dropped{Result: res})
}

// Cancel abandons a pending gesture. A drag in progress is not affected.
func (b *Board) Cancel() {
	b.handle(b.machine.Cancel(), time.Time{})
}

// Tick polls the long-press deadline and the puzzle timers.
func (b *Board) Tick(now time.Time) {
	b.handle(b.machine.Advance(now), now)

	events := b.progress.Advance(now)
	if b.stale() && b.session.Live() && !b.engine.Active() {
		// The pressed key belongs to the puzzle being left.
		b.Cancel()
	}
	for _, ev := range events {
		switch ev := ev.(type) {
		case puzzle.Loaded:
			b.setText("")
			b.replay()
			b.emit(PuzzleLoaded{Index: ev.Index})
		case puzzle.FeedbackHidden:
			b.emit(FeedbackChanged{})
		case puzzle.Completed:
			b.emit(Completed{})
		}
	}
}

func (b *Board) handle(events []gesture.Event, now time.Time) {
	for _, ev := range events {
		switch ev := ev.(type) {
		case gesture.GuideShown:
			b.guide = GuideState{Visible: true, Guide: ev.Guide, Highlight: ev.Highlight, Anchor: b.pressed.Rect}
		case gesture.GuideHighlight:
			b.guide.Highlight = ev.Direction
		case gesture.GuideHidden:
			b.guide.Visible = false
		case gesture.Keystroke:
			b.keystroke(ev, now)
		case gesture.DragHandoff:
			b.engine.StartDrag(ev, b.pressed.Rect)
		}
	}
}

func (b *Board) keystroke(ks gesture.Keystroke, now time.Time) {
	text, effect := keyboard.Compose(b.text, ks.Key, ks.Direction)
	switch effect {
	case keyboard.EffectText:
		b.setText(text)
	case keyboard.EffectSubmit:
		correct, accepted := b.progress.Submit(b.text, now)
		b.emit(SubmitAnswer{Text: b.text, Correct: correct, Accepted: accepted})
		if accepted {
			b.emit(FeedbackChanged{})
		}
	case keyboard.EffectHelp:
		b.emit(RequestHelp{})
	case keyboard.EffectHint:
		b.emit(RequestHint{Puzzle: b.progress.CurrentPuzzle(), Hint: b.progress.Current().Hint})
	}
}

func (b *Board) setText(text string) {
	if text == b.text {
		return
	}
	b.text = text
	b.emit(TextChanged{Text: text})
}

func (b *Board) emit(e Event) {
	b.listener.OnBoardEvent(e)
}

func (b *Board) replay() {
	if !b.ready {
		return
	}
	b.shown = b.progress.CurrentPuzzle()
	b.scene = render.Replay(b.shown, b.store, render.Containers{
		Viewer:          b.layout.Viewer,
		InputField:      b.layout.InputField,
		InputFieldReady: !b.layout.InputField.Empty(),
		Factory:         b.layout.Factory,
	})
	for _, w := range b.scene.Warnings {
		b.logger.Warn(w)
	}
}

// stale reports whether the scene still shows a puzzle other than the current
// one, between a puzzle switch and its Loaded event.
func (b *Board) stale() bool {
	return b.ready && b.shown != b.progress.CurrentPuzzle()
}

func (b *Board) geometry() placement.Geometry {
	g := placement.Geometry{
		Viewer:            b.layout.Viewer,
		InputField:        b.layout.InputField,
		InputFieldVisible: b.InputFieldVisible(),
	}
	if clone, ok := b.scene.Clone(); ok {
		g.InputFieldClone = clone.Rect
		g.HasInputFieldClone = true
	}
	return g
}
