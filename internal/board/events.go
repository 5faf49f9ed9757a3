package board

import (
	"github.com/Gaurav-Gosain/flickboard/internal/placement"
)

// Event is an outbound notification from the board.
type Event interface {
	boardEvent()
}

// SubmitAnswer is fired by the submit key.
type SubmitAnswer struct {
	Text     string
	Correct  bool
	Accepted bool
}

// RequestHint is fired by the hint key.
type RequestHint struct {
	Puzzle int
	Hint   string
}

// RequestHelp is fired by the help key.
type RequestHelp struct{}

// TextChanged is fired whenever the input text changes.
type TextChanged struct {
	Text string
}

// Notice is a transient message for the user.
type Notice struct {
	Message string
}

// Dropped is fired after every completed drag.
type Dropped struct {
	Result placement.DropResult
}

// PuzzleLoaded is fired when a puzzle finished loading.
type PuzzleLoaded struct {
	Index int
}

// FeedbackChanged is fired when the answer mark appears or goes away.
type FeedbackChanged struct{}

// Completed is fired when the last puzzle is solved and the clear screen shows.
type Completed struct{}

func (SubmitAnswer) boardEvent()    {}
func (RequestHint) boardEvent()     {}
func (RequestHelp) boardEvent()     {}
func (TextChanged) boardEvent()     {}
func (Notice) boardEvent()          {}
func (Dropped) boardEvent()         {}
func (PuzzleLoaded) boardEvent()    {}
func (FeedbackChanged) boardEvent() {}
func (Completed) boardEvent()       {}

// Listener receives board events.
type Listener interface {
	OnBoardEvent(Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Event)

// OnBoardEvent calls f.
func (f ListenerFunc) OnBoardEvent(e Event) { f(e) }
