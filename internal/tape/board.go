package tape

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/Gaurav-Gosain/flickboard/internal/board"
	"github.com/Gaurav-Gosain/flickboard/internal/config"
	"github.com/Gaurav-Gosain/flickboard/internal/geom"
	"github.com/Gaurav-Gosain/flickboard/internal/keyboard"
	"github.com/Gaurav-Gosain/flickboard/internal/relocation"
)

// ErrMissed is returned when a Down lands on nothing pressable.
var ErrMissed = errors.New("nothing to press")

// ErrPuzzleLocked is returned when a Puzzle step is refused.
var ErrPuzzleLocked = errors.New("puzzle move refused")

// BoardExecutor drives a board directly.
type BoardExecutor struct {
	Board *board.Board
	// Clock supplies the event time.
	Clock func() time.Time
	// Notify shows a notification; nil logs it instead.
	Notify func(message, kind string)
	Logger *log.Logger
}

var _ Executor = (*BoardExecutor)(nil)

// SendMouse implements Executor.
func (e *BoardExecutor) SendMouse(ev uv.MouseEvent) error {
	consumed := e.Board.HandleMouse(ev, e.Clock())
	if _, ok := ev.(uv.MouseClickEvent); ok && !consumed {
		m := ev.Mouse()
		return &MissError{X: m.X, Y: m.Y}
	}
	return nil
}

// Locate implements Executor.
func (e *BoardExecutor) Locate(k keyboard.Key) (geom.Point, error) { return e.Board.Locate(k) }

// StartGame implements Executor.
func (e *BoardExecutor) StartGame() error { return e.Board.Start(e.Clock()) }

// MovePuzzle implements Executor.
func (e *BoardExecutor) MovePuzzle(delta int) error {
	if !e.Board.MovePuzzle(delta, e.Clock()) {
		return ErrPuzzleLocked
	}
	return nil
}

// ResetRelocations implements Executor.
func (e *BoardExecutor) ResetRelocations() error {
	e.Board.Reset()
	return nil
}

// LoadRecords implements Executor. Out-of-range ratios are logged and the
// records kept.
func (e *BoardExecutor) LoadRecords(records []relocation.Record) error {
	err := e.Board.Store().Load(e.CurrentPuzzle(), records)
	if err != nil && errors.Is(err, relocation.ErrRatioOutOfRange) {
		if e.Logger != nil {
			e.Logger.Warn("placing records", "err", err)
		}
		return nil
	}
	return err
}

// Records implements Executor.
func (e *BoardExecutor) Records() ([]relocation.Record, error) {
	return e.Board.Store().Records(e.CurrentPuzzle())
}

// Text implements Executor.
func (e *BoardExecutor) Text() string { return e.Board.Text() }

// CurrentPuzzle implements Executor.
func (e *BoardExecutor) CurrentPuzzle() int { return e.Board.Progress().CurrentPuzzle() }

// IsMoved implements Executor.
func (e *BoardExecutor) IsMoved(k keyboard.Key) bool { return e.Board.Moved(k) }

// ShowNotificationCmd implements Executor.
func (e *BoardExecutor) ShowNotificationCmd(message, kind string) error {
	if e.Notify != nil {
		e.Notify(message, kind)
		return nil
	}
	if e.Logger != nil {
		e.Logger.Info(message, "kind", kind)
	}
	return nil
}

// MissError reports the position of a Down that hit nothing.
type MissError struct {
	X, Y int
}

func (e *MissError) Error() string {
	return fmt.Sprintf("%s at (%d, %d)", ErrMissed, e.X, e.Y)
}

func (e *MissError) Unwrap() error { return ErrMissed }

// Headless plays script against b on a virtual clock starting at start,
// ticking the board once per frame while the script waits. It returns the
// virtual time at which the script ended.
func Headless(ctx context.Context, b *board.Board, script []Command, start time.Time, logger *log.Logger) (time.Time, error) {
	now := start
	exec := &BoardExecutor{
		Board:  b,
		Clock:  func() time.Time { return now },
		Logger: logger,
	}
	frame := time.Second / config.NormalFPS

	advance := func(d time.Duration) {
		end := now.Add(d)
		for now.Before(end) {
			next := now.Add(frame)
			if next.After(end) {
				next = end
			}
			now = next
			b.Tick(now)
		}
	}
	err := Run(ctx, NewPlayer(script, exec, logger), advance)
	return now, err
}
