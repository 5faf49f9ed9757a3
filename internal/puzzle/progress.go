package puzzle

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Gaurav-Gosain/flickboard/internal/config"
)

// Screen is the top-level screen.
type Screen int

const (
	ScreenTitle Screen = iota
	ScreenMain
	ScreenClear
)

func (s Screen) String() string {
	switch s {
	case ScreenTitle:
		return "title"
	case ScreenMain:
		return "main"
	case ScreenClear:
		return "clear"
	}
	return "unknown"
}

// Feedback is the answer mark shown over the viewer.
type Feedback int

const (
	FeedbackNone Feedback = iota
	FeedbackCorrect
	FeedbackIncorrect
)

// Mark returns the symbol drawn for f.
func (f Feedback) Mark() string {
	switch f {
	case FeedbackCorrect:
		return "〇"
	case FeedbackIncorrect:
		return "✗"
	}
	return ""
}

// Event reports a timed progress change.
type Event interface {
	progressEvent()
}

// Loaded is emitted when a puzzle finished loading. The input text should be
// cleared and relocated keys rebuilt.
type Loaded struct{ Index int }

// FeedbackHidden is emitted when the answer mark goes away.
type FeedbackHidden struct{}

// Completed is emitted when the clear screen is shown.
type Completed struct{}

func (Loaded) progressEvent()         {}
func (FeedbackHidden) progressEvent() {}
func (Completed) progressEvent()      {}

type action int

const (
	actionLoaded action = iota
	actionHideFeedback
	actionSettle
	actionNext
	actionClear
)

type scheduled struct {
	at     time.Time
	action action
	index  int
}

// Progress tracks the player through a pack. It implements the placement
// engine's Progress interface. Timed steps are deadlines fired by Advance.
type Progress struct {
	pack          *Pack
	current       int
	maxUnlocked   int
	cleared       map[int]bool
	screen        Screen
	transitioning bool
	feedback      Feedback
	pending       []scheduled
	logger        *log.Logger
}

// NewProgress starts on the title screen at the first puzzle.
func NewProgress(pack *Pack, logger *log.Logger) *Progress {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Progress{
		pack:    pack,
		cleared: make(map[int]bool),
		logger:  logger.WithPrefix("puzzle"),
	}
}

// Pack returns the pack being played.
func (p *Progress) Pack() *Pack { return p.pack }

// Count returns the number of puzzles.
func (p *Progress) Count() int { return p.pack.Len() }

// CurrentPuzzle returns the index of the current puzzle.
func (p *Progress) CurrentPuzzle() int { return p.current }

// Current returns the current puzzle.
func (p *Progress) Current() Puzzle { return p.pack.Puzzles[p.current] }

// IsPuzzleCleared reports whether puzzle i was solved.
func (p *Progress) IsPuzzleCleared(i int) bool { return p.cleared[i] }

// ClearedCount returns the number of solved puzzles.
func (p *Progress) ClearedCount() int { return len(p.cleared) }

// MaxUnlocked returns the highest puzzle the player may move to.
func (p *Progress) MaxUnlocked() int { return p.maxUnlocked }

// Screen returns the current screen.
func (p *Progress) Screen() Screen { return p.screen }

// Transitioning reports whether input to the puzzle is blocked by a load or
// feedback animation.
func (p *Progress) Transitioning() bool { return p.transitioning }

// Feedback returns the answer mark currently shown.
func (p *Progress) Feedback() Feedback { return p.feedback }

// CanPrev reports whether a previous puzzle exists.
func (p *Progress) CanPrev() bool { return p.current > 0 }

// CanNext reports whether the next puzzle is unlocked.
func (p *Progress) CanNext() bool {
	return p.current < p.maxUnlocked && p.current < p.Count()-1
}

// Start leaves the title screen and loads the first puzzle.
func (p *Progress) Start(now time.Time) error {
	p.screen = ScreenMain
	return p.Load(0, now)
}

// Load switches to puzzle i. The Loaded event follows after the load delay.
func (p *Progress) Load(i int, now time.Time) error {
	if i < 0 || i >= p.Count() {
		return fmt.Errorf("invalid puzzle index %d (have %d)", i, p.Count())
	}
	p.current = i
	p.transitioning = true
	p.schedule(now.Add(config.PuzzleLoadDelay), actionLoaded, i)
	return nil
}

// Move goes delta puzzles forward or back. Moving forward past the highest
// unlocked puzzle, out of range, or during a transition is refused.
func (p *Progress) Move(delta int, now time.Time) bool {
	if p.transitioning {
		return false
	}
	next := p.current + delta
	if next < 0 || next >= p.Count() {
		return false
	}
	if delta > 0 && next > p.maxUnlocked {
		return false
	}
	return p.Load(next, now) == nil
}

// Submit checks answer against the current puzzle. accepted is false while a
// transition is running. A correct answer clears the puzzle, unlocks the next
// and schedules the move to it, or the clear screen after the last one.
func (p *Progress) Submit(answer string, now time.Time) (correct, accepted bool) {
	if p.transitioning || p.screen != ScreenMain {
		return false, false
	}
	pz := p.Current()
	correct = answer == pz.Answer
	p.logger.Info("answer submitted", "puzzle", p.current, "answer", answer, "correct", correct)

	p.transitioning = true
	if correct {
		p.feedback = FeedbackCorrect
	} else {
		p.feedback = FeedbackIncorrect
	}
	p.schedule(now.Add(config.FeedbackDuration), actionHideFeedback, p.current)

	if !correct {
		p.schedule(now.Add(config.FeedbackDuration+config.FeedbackSettleDuration), actionSettle, p.current)
		return false, true
	}

	p.cleared[p.current] = true
	last := p.Count() - 1
	if p.current == p.maxUnlocked && p.current < last {
		p.maxUnlocked++
	}
	if p.current == last {
		p.schedule(now.Add(config.ClearScreenDelay), actionClear, p.current)
	} else {
		p.schedule(now.Add(config.AdvanceDelay), actionNext, p.current+1)
	}
	return true, true
}

// Advance runs every step whose deadline has passed, in deadline order.
func (p *Progress) Advance(now time.Time) []Event {
	var events []Event
	for {
		idx := -1
		for i, s := range p.pending {
			if !now.Before(s.at) && (idx < 0 || s.at.Before(p.pending[idx].at)) {
				idx = i
			}
		}
		if idx < 0 {
			return events
		}
		s := p.pending[idx]
		p.pending = append(p.pending[:idx], p.pending[idx+1:]...)
		events = append(events, p.run(s)...)
	}
}

// NextDeadline returns the earliest pending deadline.
func (p *Progress) NextDeadline() (time.Time, bool) {
	var next time.Time
	for _, s := range p.pending {
		if next.IsZero() || s.at.Before(next) {
			next = s.at
		}
	}
	return next, !next.IsZero()
}

// Reset returns to the title screen with no progress.
func (p *Progress) Reset() {
	*p = Progress{
		pack:    p.pack,
		cleared: make(map[int]bool),
		logger:  p.logger,
	}
}

func (p *Progress) schedule(at time.Time, a action, index int) {
	p.pending = append(p.pending, scheduled{at: at, action: a, index: index})
}

func (p *Progress) run(s scheduled) []Event {
	switch s.action {
	case actionLoaded:
		if s.index != p.current {
			// Superseded by a later load.
			return nil
		}
		p.transitioning = false
		p.logger.Info("puzzle loaded", "puzzle", s.index)
		return []Event{Loaded{Index: s.index}}
	case actionHideFeedback:
		p.feedback = FeedbackNone
		return []Event{FeedbackHidden{}}
	case actionSettle:
		p.transitioning = false
	case actionNext:
		if err := p.Load(s.index, s.at); err != nil {
			p.logger.Error("advancing", "err", err)
		}
	case actionClear:
		p.screen = ScreenClear
		p.transitioning = false
		p.logger.Info("all puzzles cleared")
		return []Event{Completed{}}
	}
	return nil
}
