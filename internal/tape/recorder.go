package tape

import (
	"fmt"
	"strings"
	"time"

	"github.com/Gaurav-Gosain/flickboard/internal/geom"
)

// Recorder turns live input into a script. Pauses between commands become
// Sleep lines.
type Recorder struct {
	lines     []string
	last      time.Time
	recording bool
	down      bool
}

// NewRecorder returns an idle recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Start begins a new recording.
func (r *Recorder) Start(now time.Time) {
	r.lines = []string{fmt.Sprintf("# recorded %s", now.Format(time.RFC3339))}
	r.last = now
	r.recording = true
	r.down = false
}

// Recording reports whether a recording is in progress.
func (r *Recorder) Recording() bool { return r.recording }

// Len returns the number of recorded commands, sleeps included.
func (r *Recorder) Len() int { return max(len(r.lines)-1, 0) }

// Stop ends the recording and returns the script. A pointer still held down
// is released at its last position.
func (r *Recorder) Stop() string {
	if r.down {
		r.lines = append(r.lines, string(CommandTypeUp))
	}
	r.recording = false
	r.down = false
	return strings.Join(r.lines, "\n") + "\n"
}

// Record appends a command.
func (r *Recorder) Record(t CommandType, now time.Time, args ...string) {
	if !r.recording {
		return
	}
	if gap := now.Sub(r.last).Round(time.Millisecond); gap > 0 {
		r.lines = append(r.lines, fmt.Sprintf("%s %s", CommandTypeSleep, gap))
	}
	r.last = now
	r.lines = append(r.lines, Command{Type: t, Args: args}.String())
}

// RecordPointer appends a Down, Move or Up at p. Moves with no button held
// are dropped.
func (r *Recorder) RecordPointer(t CommandType, p geom.Point, now time.Time) {
	switch t {
	case CommandTypeDown:
		r.down = true
	case CommandTypeMove:
		if !r.down {
			return
		}
	case CommandTypeUp:
		if !r.down {
			return
		}
		r.down = false
	default:
		return
	}
	r.Record(t, now, formatFloat(p.X), formatFloat(p.Y))
}
