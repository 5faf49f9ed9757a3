package gesture

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Gaurav-Gosain/flickboard/internal/config"
	"github.com/Gaurav-Gosain/flickboard/internal/geom"
	"github.com/Gaurav-Gosain/flickboard/internal/keyboard"
)

// Event is an output of the Machine.
type Event interface {
	gestureEvent()
}

// Keystroke is a resolved flick. Char is empty for function keys and for
// directions without a character.
type Keystroke struct {
	Key       keyboard.Key
	Direction geom.Direction
	Char      string
	Origin    Origin
}

// DragHandoff asks the placement engine to take over the pointer.
type DragHandoff struct {
	SessionID string
	Key       keyboard.Key
	Origin    Origin
	Pos       geom.Point
}

// GuideShown is emitted when a key with a flick set is pressed.
type GuideShown struct {
	Guide     keyboard.Guide
	Highlight geom.Direction
}

// GuideHighlight moves the guide highlight.
type GuideHighlight struct {
	Key       keyboard.Key
	Direction geom.Direction
}

// GuideHidden removes the guide.
type GuideHidden struct {
	Key keyboard.Key
}

func (Keystroke) gestureEvent()      {}
func (DragHandoff) gestureEvent()    {}
func (GuideShown) gestureEvent()     {}
func (GuideHighlight) gestureEvent() {}
func (GuideHidden) gestureEvent()    {}

// Options tune a Machine. Zero values take the defaults from config.
type Options struct {
	LongPress      time.Duration
	Slop           float64
	FlickThreshold float64
	ShowGuide      bool
	Logger         *log.Logger
}

// DefaultOptions returns the options derived from the runtime config.
func DefaultOptions() Options {
	return Options{
		LongPress:      config.LongPressDuration,
		Slop:           config.LongPressSlop,
		FlickThreshold: config.FlickThresholdPx,
		ShowGuide:      config.ShowFlickGuide,
	}
}

// Machine interprets pointer input for keys: a release resolves a flick, and a
// hold of LongPress with less than Slop movement hands the key off for dragging.
type Machine struct {
	session   *Session
	longPress LongPress
	threshold float64
	showGuide bool
	guideOn   bool
	logger    *log.Logger
}

// NewMachine creates a Machine that drives session.
func NewMachine(session *Session, opts Options) *Machine {
	if opts.LongPress <= 0 {
		opts.LongPress = config.LongPressDuration
	}
	if opts.Slop <= 0 {
		opts.Slop = config.LongPressSlop
	}
	if opts.FlickThreshold <= 0 {
		opts.FlickThreshold = config.FlickThreshold
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Machine{
		session:   session,
		longPress: LongPress{Duration: opts.LongPress, Slop: opts.Slop},
		threshold: opts.FlickThreshold,
		showGuide: opts.ShowGuide,
		logger:    logger.WithPrefix("gesture"),
	}
}

// Session returns the shared session.
func (m *Machine) Session() *Session { return m.session }

// Pending reports whether a long press is armed.
func (m *Machine) Pending() bool { return m.longPress.Active() }

// Remaining returns the time until the pending long press fires.
func (m *Machine) Remaining(now time.Time) time.Duration { return m.longPress.Remaining(now) }

// Down starts a gesture on target. It is ignored while a drag owns the pointer.
// A gesture still live from a missed release is cancelled first.
func (m *Machine) Down(target keyboard.Key, origin Origin, pos geom.Point, now time.Time) []Event {
	if m.session.DragActive {
		m.logger.Debug("press ignored during drag", "key", target)
		return nil
	}

	var events []Event
	if m.session.Live() {
		m.logger.Warn("press while a gesture is live, cancelling it", "previous", m.session.Target)
		events = append(events, m.Cancel()...)
	}

	m.session.begin(target, origin, pos, now)
	m.longPress.Start(pos, now)
	m.logger.Debug("press", "key", target, "origin", origin, "session", m.session.ID)

	if g, ok := keyboard.GuideChars(target); ok && m.showGuide {
		m.guideOn = true
		events = append(events, GuideShown{Guide: g, Highlight: geom.Center})
	}
	return events
}

// Move updates the flick direction. Movement of Slop or more cancels the
// pending long press; smaller movement leaves it armed.
func (m *Machine) Move(pos geom.Point, now time.Time) []Event {
	if m.session.DragActive || !m.flickLive() {
		return nil
	}

	// A deadline that passed before this sample wins over it.
	if events := m.Advance(now); len(events) > 0 {
		return events
	}

	return m.track(pos)
}

// Up resolves the gesture. A flick produces a Keystroke in the last direction;
// a gesture already handed off produces nothing. A release at or after the
// long-press deadline hands off instead, even when no tick polled it.
func (m *Machine) Up(pos geom.Point, now time.Time) []Event {
	if events := m.Advance(now); len(events) > 0 {
		return events
	}
	m.longPress.Stop()

	if !m.session.Live() {
		return nil
	}
	if m.session.DragActive {
		return nil
	}
	if m.session.Phase == PhaseDragging {
		// Hand-off was rejected; the release just ends the gesture.
		m.session.Reset()
		return nil
	}

	events := m.track(pos)
	events = append(events, m.hideGuide()...)

	s := m.session
	ks := Keystroke{
		Key:       s.Target,
		Direction: s.Direction,
		Char:      s.Target.Char(s.Direction),
		Origin:    s.Origin,
	}
	m.logger.Debug("flick", "key", ks.Key, "direction", ks.Direction, "char", ks.Char, "held", now.Sub(s.StartedAt))
	s.Reset()
	return append(events, ks)
}

// Advance fires the long press if its deadline has passed.
func (m *Machine) Advance(now time.Time) []Event {
	if !m.longPress.Due(now) || m.session.DragActive {
		return nil
	}
	m.longPress.Stop()

	events := m.hideGuide()
	s := m.session
	s.Phase = PhaseDragging
	m.logger.Debug("long press", "key", s.Target, "origin", s.Origin, "session", s.ID)
	return append(events, DragHandoff{
		SessionID: s.ID,
		Key:       s.Target,
		Origin:    s.Origin,
		Pos:       s.Anchor,
	})
}

// Cancel abandons the live gesture without a keystroke. A drag in progress is
// not affected.
func (m *Machine) Cancel() []Event {
	m.longPress.Stop()
	if m.session.DragActive {
		return nil
	}
	events := m.hideGuide()
	m.session.Reset()
	return events
}

func (m *Machine) flickLive() bool {
	p := m.session.Phase
	return p == PhaseArmed || p == PhaseFlicking
}

func (m *Machine) track(pos geom.Point) []Event {
	s := m.session
	if m.longPress.Moved(pos) {
		s.Phase = PhaseFlicking
		m.logger.Debug("long press cancelled by movement", "key", s.Target)
	}

	d := pos.Sub(s.Anchor)
	dir := geom.FlickDirection(d.X, d.Y, m.threshold)
	if dir == s.Direction {
		return nil
	}
	s.Direction = dir
	if !m.guideOn {
		return nil
	}
	return []Event{GuideHighlight{Key: s.Target, Direction: dir}}
}

func (m *Machine) hideGuide() []Event {
	if !m.guideOn {
		return nil
	}
	m.guideOn = false
	return []Event{GuideHidden{Key: m.session.Target}}
}
