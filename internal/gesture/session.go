// Package gesture turns a pointer-down/move/up stream into flick keystrokes or
// long-press drag hand-offs.
//
// The Machine and the placement engine share one *Session. The Machine owns it
// until it emits a DragHandoff; from then until release the engine owns the
// pointer and the Session's DragActive flag tells the Machine to stand aside.
package gesture

import (
	"time"

	"github.com/google/uuid"

	"github.com/Gaurav-Gosain/flickboard/internal/geom"
	"github.com/Gaurav-Gosain/flickboard/internal/keyboard"
)

// Phase is the state of the live gesture.
type Phase int

const (
	PhaseIdle Phase = iota
	// PhaseArmed means the pointer is down and the long press is pending.
	PhaseArmed
	// PhaseFlicking means the long press was cancelled by movement.
	PhaseFlicking
	// PhaseDragging means the gesture was handed to the placement engine.
	PhaseDragging
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseArmed:
		return "armed"
	case PhaseFlicking:
		return "flicking"
	case PhaseDragging:
		return "dragging"
	}
	return "unknown"
}

// Origin is where the pressed key is rendered.
type Origin int

const (
	// OriginKeyboard is a key in the fixed grid.
	OriginKeyboard Origin = iota
	// OriginRelocated is a key rendered from a relocation record.
	OriginRelocated
	// OriginInputField is the in-flow text input field.
	OriginInputField
)

func (o Origin) String() string {
	switch o {
	case OriginKeyboard:
		return "keyboard"
	case OriginRelocated:
		return "relocated"
	case OriginInputField:
		return "input-field"
	}
	return "unknown"
}

// Session is the state of the single live gesture.
type Session struct {
	ID        string
	Phase     Phase
	Anchor    geom.Point
	Target    keyboard.Key
	Origin    Origin
	Direction geom.Direction
	StartedAt time.Time

	// DragActive is set by the placement engine while it owns the pointer.
	DragActive bool
}

// NewSession returns an idle session.
func NewSession() *Session {
	return &Session{}
}

// Live reports whether a gesture is in progress.
func (s *Session) Live() bool {
	return s.Phase != PhaseIdle
}

func (s *Session) begin(target keyboard.Key, origin Origin, pos geom.Point, now time.Time) {
	s.ID = uuid.New().String()
	s.Phase = PhaseArmed
	s.Anchor = pos
	s.Target = target
	s.Origin = origin
	s.Direction = geom.Center
	s.StartedAt = now
}

// Reset returns the session to idle. DragActive is left to its owner.
func (s *Session) Reset() {
	dragActive := s.DragActive
	*s = Session{DragActive: dragActive}
}

// EndDrag clears DragActive and resets the session. The placement engine calls
// it once a drop has been handled.
func (s *Session) EndDrag() {
	s.DragActive = false
	s.Reset()
}
