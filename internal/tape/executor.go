package tape

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/Gaurav-Gosain/flickboard/internal/config"
	"github.com/Gaurav-Gosain/flickboard/internal/geom"
	"github.com/Gaurav-Gosain/flickboard/internal/keyboard"
	"github.com/Gaurav-Gosain/flickboard/internal/relocation"
)

// ErrExpectation is returned when an Expect command does not hold.
var ErrExpectation = errors.New("expectation failed")

// ErrUnknownKey is returned for a key argument that is not on the layout.
var ErrUnknownKey = errors.New("unknown key")

// recordTolerance is how far an Expect record ratio may be from the stored one.
const recordTolerance = 1e-3

// Executor is what a script drives. Mouse events carry virtual pixel
// coordinates.
type Executor interface {
	// SendMouse delivers a synthesized pointer event.
	SendMouse(ev uv.MouseEvent) error

	// Locate returns the center of the pressable visual of a key.
	Locate(k keyboard.Key) (geom.Point, error)

	// Game flow
	StartGame() error
	MovePuzzle(delta int) error
	ResetRelocations() error
	// LoadRecords relocates keys in the current puzzle from their
	// sign-encoded form.
	LoadRecords(records []relocation.Record) error

	// State inspected by Expect
	Text() string
	CurrentPuzzle() int
	IsMoved(k keyboard.Key) bool
	// Records returns the current puzzle's relocations in sign-encoded form.
	Records() ([]relocation.Record, error)

	ShowNotificationCmd(message, notificationType string) error
}

// HoldDuration is how long Hold and Drag keep the pointer down before moving
// or releasing.
const HoldDuration = config.LongPressDuration

// flickDistance is how far Flick moves the pointer: past the flick threshold
// but inside the long-press slop.
func flickDistance() float64 {
	return (config.FlickThresholdPx + config.LongPressSlop) / 2
}

// Expand rewrites the composite commands Tap, Flick, Hold, Drag and Type into
// the primitives Down, Move, Up and Sleep. Other commands are returned as is.
func Expand(cmd Command) ([]Command, error) {
	prim := func(t CommandType, args ...string) Command {
		return Command{Type: t, Args: args, Line: cmd.Line}
	}

	switch cmd.Type {
	case CommandTypeTap, CommandTypeFlick, CommandTypeHold, CommandTypeDrag:
		if err := checkKey(cmd.Args[0]); err != nil {
			return nil, fmt.Errorf("line %d: %w", cmd.Line, err)
		}
	}

	switch cmd.Type {
	case CommandTypeTap:
		k := cmd.Args[0]
		return []Command{prim(CommandTypeDown, k), prim(CommandTypeUp, k)}, nil

	case CommandTypeFlick:
		k := cmd.Args[0]
		dir, ok := geom.ParseDirection(strings.ToLower(cmd.Args[1]))
		if !ok {
			return nil, fmt.Errorf("line %d: invalid direction %q", cmd.Line, cmd.Args[1])
		}
		if dir == geom.Center {
			return []Command{prim(CommandTypeDown, k), prim(CommandTypeUp, k)}, nil
		}
		d := dir.Vector()
		dx := formatFloat(d.X * flickDistance())
		dy := formatFloat(d.Y * flickDistance())
		return []Command{
			prim(CommandTypeDown, k),
			prim(CommandTypeMove, k, dx, dy),
			prim(CommandTypeUp, k, dx, dy),
		}, nil

	case CommandTypeHold:
		return []Command{
			prim(CommandTypeDown, cmd.Args[0]),
			prim(CommandTypeSleep, HoldDuration.String()),
		}, nil

	case CommandTypeDrag:
		k, x, y := cmd.Args[0], cmd.Args[1], cmd.Args[2]
		return []Command{
			prim(CommandTypeDown, k),
			prim(CommandTypeSleep, HoldDuration.String()),
			prim(CommandTypeMove),
			prim(CommandTypeMove, x, y),
			prim(CommandTypeUp, x, y),
		}, nil

	case CommandTypeType:
		strokes, err := keyboard.Strokes(cmd.Args[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", cmd.Line, err)
		}
		var out []Command
		for _, s := range strokes {
			sub, err := Expand(prim(CommandTypeFlick, string(s.Key), s.Direction.String()))
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
		}
		return out, nil
	}
	return []Command{cmd}, nil
}

// CommandExecutor runs primitive commands against an Executor.
type CommandExecutor struct {
	executor Executor
	pointer  geom.Point
	down     bool
}

// NewCommandExecutor creates a new command executor
func NewCommandExecutor(executor Executor) *CommandExecutor {
	return &CommandExecutor{executor: executor}
}

// Pointer returns the last pointer position and whether it is pressed.
func (ce *CommandExecutor) Pointer() (geom.Point, bool) { return ce.pointer, ce.down }

// Execute runs one primitive command and returns how long playback should
// wait before the next one.
func (ce *CommandExecutor) Execute(cmd *Command) (time.Duration, error) {
	if ce.executor == nil {
		return 0, nil
	}
	err := ce.execute(cmd)
	if err != nil {
		return 0, fmt.Errorf("line %d: %s: %w", cmd.Line, cmd.Type, err)
	}
	if cmd.Type == CommandTypeSleep {
		return parseDuration(cmd.Args[0])
	}
	return 0, nil
}

func (ce *CommandExecutor) execute(cmd *Command) error {
	switch cmd.Type {
	case CommandTypeStart:
		return ce.executor.StartGame()

	case CommandTypeReset:
		return ce.executor.ResetRelocations()

	case CommandTypeDown, CommandTypeMove, CommandTypeUp:
		p, err := ce.position(cmd.Args)
		if err != nil {
			return err
		}
		return ce.pointerEvent(cmd.Type, p)

	case CommandTypeSleep:
		_, err := parseDuration(cmd.Args[0])
		return err

	case CommandTypePuzzle:
		delta, err := parseDelta(cmd.Args[0])
		if err != nil {
			return err
		}
		return ce.executor.MovePuzzle(delta)

	case CommandTypeExpect:
		return ce.expect(cmd.Args)

	case CommandTypePlace:
		r, err := parseRecord(cmd.Args)
		if err != nil {
			return err
		}
		return ce.executor.LoadRecords([]relocation.Record{r})

	case CommandTypeNotify:
		kind := "info"
		if len(cmd.Args) > 1 {
			kind = cmd.Args[1]
		}
		return ce.executor.ShowNotificationCmd(cmd.Args[0], kind)

	case CommandTypeTap, CommandTypeFlick, CommandTypeHold, CommandTypeDrag, CommandTypeType:
		return fmt.Errorf("composite command must be expanded first")
	}
	return nil
}

func (ce *CommandExecutor) pointerEvent(t CommandType, p geom.Point) error {
	x, y := int(p.X+0.5), int(p.Y+0.5)
	var ev uv.MouseEvent
	switch t {
	case CommandTypeDown:
		ev = uv.MouseClickEvent{X: x, Y: y, Button: uv.MouseLeft}
		ce.down = true
	case CommandTypeMove:
		btn := uv.MouseNone
		if ce.down {
			btn = uv.MouseLeft
		}
		ev = uv.MouseMotionEvent{X: x, Y: y, Button: btn}
	default:
		ev = uv.MouseReleaseEvent{X: x, Y: y, Button: uv.MouseLeft}
		ce.down = false
	}
	ce.pointer = p
	return ce.executor.SendMouse(ev)
}

// position resolves "x y", "key" or "key dx dy". No arguments means the
// last pointer position.
func (ce *CommandExecutor) position(args []string) (geom.Point, error) {
	switch len(args) {
	case 0:
		return ce.pointer, nil
	case 2:
		x, errX := strconv.ParseFloat(args[0], 64)
		y, errY := strconv.ParseFloat(args[1], 64)
		if errX != nil || errY != nil {
			return geom.Point{}, fmt.Errorf("invalid position %q %q", args[0], args[1])
		}
		return geom.Pt(x, y), nil
	}

	if err := checkKey(args[0]); err != nil {
		return geom.Point{}, err
	}
	p, err := ce.executor.Locate(keyboard.Key(args[0]))
	if err != nil {
		return geom.Point{}, err
	}
	if len(args) == 3 {
		dx, errX := strconv.ParseFloat(args[1], 64)
		dy, errY := strconv.ParseFloat(args[2], 64)
		if errX != nil || errY != nil {
			return geom.Point{}, fmt.Errorf("invalid offset %q %q", args[1], args[2])
		}
		p = p.Add(geom.Pt(dx, dy))
	}
	return p, nil
}

func (ce *CommandExecutor) expect(args []string) error {
	what := strings.ToLower(args[0])
	if what != "record" && len(args) > 2 {
		return fmt.Errorf("expect %s takes at most one argument", what)
	}
	arg := ""
	if len(args) > 1 {
		arg = args[1]
	}

	switch what {
	case "text":
		if got := ce.executor.Text(); got != arg {
			return fmt.Errorf("%w: text is %q, want %q", ErrExpectation, got, arg)
		}
	case "empty":
		if got := ce.executor.Text(); got != "" {
			return fmt.Errorf("%w: text is %q, want empty", ErrExpectation, got)
		}
	case "puzzle":
		want, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("invalid puzzle index %q", arg)
		}
		if got := ce.executor.CurrentPuzzle(); got != want {
			return fmt.Errorf("%w: puzzle is %d, want %d", ErrExpectation, got, want)
		}
	case "moved", "unmoved":
		if arg == "" {
			return fmt.Errorf("expect %s needs a key", what)
		}
		if err := checkKey(arg); err != nil {
			return err
		}
		want := what == "moved"
		if got := ce.executor.IsMoved(keyboard.Key(arg)); got != want {
			return fmt.Errorf("%w: %s moved=%v, want %v", ErrExpectation, arg, got, want)
		}
	case "record":
		return ce.expectRecord(args[1:])
	default:
		return fmt.Errorf("unknown expectation %q", args[0])
	}
	return nil
}

// expectRecord checks the stored record of a key in the current puzzle.
func (ce *CommandExecutor) expectRecord(args []string) error {
	want, err := parseRecord(args)
	if err != nil {
		return err
	}
	records, err := ce.executor.Records()
	if err != nil {
		return err
	}
	for _, got := range records {
		if got.Key != want.Key {
			continue
		}
		if math.Abs(got.XRatio-want.XRatio) > recordTolerance || math.Abs(got.YRatio-want.YRatio) > recordTolerance {
			return fmt.Errorf("%w: %s at (%.3f, %.3f), want (%.3f, %.3f)",
				ErrExpectation, got.Key, got.XRatio, got.YRatio, want.XRatio, want.YRatio)
		}
		return nil
	}
	return fmt.Errorf("%w: %s has no record in puzzle %d", ErrExpectation, want.Key, ce.executor.CurrentPuzzle())
}

// parseRecord reads "key x y" as a sign-encoded relocation record.
func parseRecord(args []string) (relocation.Record, error) {
	if len(args) != 3 {
		return relocation.Record{}, fmt.Errorf("a record is a key and two ratios, got %d argument(s)", len(args))
	}
	if err := checkKey(args[0]); err != nil {
		return relocation.Record{}, err
	}
	x, errX := strconv.ParseFloat(args[1], 64)
	y, errY := strconv.ParseFloat(args[2], 64)
	if errX != nil || errY != nil {
		return relocation.Record{}, fmt.Errorf("invalid ratios %q %q", args[1], args[2])
	}
	return relocation.Record{Key: keyboard.Key(args[0]), XRatio: x, YRatio: y}, nil
}

func checkKey(s string) error {
	if !keyboard.Valid(keyboard.Key(s)) {
		return fmt.Errorf("%w %q", ErrUnknownKey, s)
	}
	return nil
}

func parseDuration(s string) (time.Duration, error) {
	if ms, err := strconv.Atoi(s); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %q", s)
	}
	return d, nil
}

func parseDelta(s string) (int, error) {
	switch strings.ToLower(s) {
	case "next":
		return 1, nil
	case "prev", "previous":
		return -1, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid puzzle step %q", s)
	}
	return n, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
