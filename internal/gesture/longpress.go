package gesture

import (
	"time"

	"github.com/Gaurav-Gosain/flickboard/internal/geom"
)

// LongPress tracks a pending long press as a deadline. It never fires on its
// own; callers poll Due from their tick loop.
type LongPress struct {
	Duration time.Duration
	Slop     float64

	anchor   geom.Point
	deadline time.Time
	active   bool
}

// Start arms the tracker at pos.
func (l *LongPress) Start(pos geom.Point, now time.Time) {
	l.anchor = pos
	l.deadline = now.Add(l.Duration)
	l.active = true
}

// Stop disarms the tracker.
func (l *LongPress) Stop() {
	l.active = false
	l.deadline = time.Time{}
}

// Active reports whether a long press is pending.
func (l *LongPress) Active() bool { return l.active }

// Deadline returns when the pending long press fires.
func (l *LongPress) Deadline() time.Time { return l.deadline }

// Remaining returns the time left before the deadline, or 0 when inactive.
func (l *LongPress) Remaining(now time.Time) time.Duration {
	if !l.active {
		return 0
	}
	if d := l.deadline.Sub(now); d > 0 {
		return d
	}
	return 0
}

// Moved disarms the tracker when pos is at least Slop away from the anchor
// and reports whether that happened.
func (l *LongPress) Moved(pos geom.Point) bool {
	if !l.active {
		return false
	}
	if geom.Distance(l.anchor, pos) >= l.Slop {
		l.Stop()
		return true
	}
	return false
}

// Due reports whether the deadline has passed while armed.
func (l *LongPress) Due(now time.Time) bool {
	return l.active && !now.Before(l.deadline)
}
