// Package app provides the flickboard bubbletea model: the tick loop, the
// terminal layout of the board, rendering, dialogs, notifications and the
// in-app log.
package app

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/Gaurav-Gosain/flickboard/internal/board"
	"github.com/Gaurav-Gosain/flickboard/internal/config"
	"github.com/Gaurav-Gosain/flickboard/internal/gesture"
	"github.com/Gaurav-Gosain/flickboard/internal/placement"
	"github.com/Gaurav-Gosain/flickboard/internal/puzzle"
	"github.com/Gaurav-Gosain/flickboard/internal/relocation"
	"github.com/Gaurav-Gosain/flickboard/internal/tape"
)

// Dialog is the modal dialog currently open.
type Dialog int

const (
	DialogNone Dialog = iota
	// DialogHint shows the current puzzle's hint.
	DialogHint
	// DialogHelp explains how to play.
	DialogHelp
)

// Model is the bubbletea model of the game.
type Model struct {
	Board  *board.Board
	Width  int
	Height int

	// Layout in cells, recomputed on resize.
	Layout     Layout
	TooSmall   bool
	LastMouseX int
	LastMouseY int

	Dialog   Dialog
	HintText string

	ShowLogs        bool
	LogMessages     []LogMessage
	LogScrollOffset int
	Notifications   []Notification

	// Tape playback
	ScriptMode         bool
	ScriptPaused       bool
	ScriptPlayer       *tape.Player
	ScriptSleepUntil   time.Time
	ScriptFinishedTime time.Time
	ScriptErr          error

	ShowTapeManager bool
	TapeManager     *TapeManagerState
	TapeRecorder    *tape.Recorder
	tapeDir         string

	logger     *log.Logger
	idleFrames int
	now        func() time.Time
}

// Notification represents a temporary notification message.
type Notification struct {
	ID        string
	Message   string
	Type      string // "info", "success", "warning", "error"
	StartTime time.Time
	Duration  time.Duration
}

// LogMessage represents a log entry with timestamp and level.
type LogMessage struct {
	Time    time.Time
	Level   string // INFO, WARN, ERROR
	Message string
}

// Options configure NewModel.
type Options struct {
	Pack   *puzzle.Pack
	Logger *log.Logger
	// Script, when set, is played as soon as the first layout is known.
	Script []tape.Command
	// TapeDir overrides the XDG tape directory.
	TapeDir string
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// NewModel creates the game on the title screen.
func NewModel(opts Options) (*Model, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	pack := opts.Pack
	if pack == nil {
		var err error
		if pack, err = puzzle.Default(); err != nil {
			return nil, err
		}
	}
	store, err := relocation.NewStore(pack.Len())
	if err != nil {
		return nil, fmt.Errorf("creating relocation store: %w", err)
	}

	m := &Model{
		TapeRecorder: tape.NewRecorder(),
		logger:       logger,
		now:          opts.Now,
		tapeDir:      opts.TapeDir,
	}
	if m.now == nil {
		m.now = time.Now
	}
	// The guide can be toggled at runtime, so it is always tracked and only
	// hidden when drawing.
	gopts := gesture.DefaultOptions()
	gopts.ShowGuide = true
	m.Board = board.New(store, puzzle.NewProgress(pack, logger), board.Options{
		Gesture:  gopts,
		Listener: m,
		Logger:   logger,
	})
	if opts.Script != nil {
		m.PlayScript(opts.Script)
	}
	return m, nil
}

// Now returns the model's clock reading.
func (m *Model) Now() time.Time { return m.now() }

func createID() string {
	return uuid.New().String()
}

// Log adds a message to the in-app log and mirrors it to the structured logger.
func (m *Model) Log(level, format string, args ...any) {
	message := fmt.Sprintf(format, args...)
	m.LogMessages = append(m.LogMessages, LogMessage{
		Time:    m.now(),
		Level:   level,
		Message: message,
	})
	if len(m.LogMessages) > config.MaxLogMessages {
		m.LogMessages = m.LogMessages[len(m.LogMessages)-config.MaxLogMessages:]
	}

	switch level {
	case "ERROR":
		m.logger.Error(message)
	case "WARN":
		m.logger.Warn(message)
	default:
		m.logger.Info(message)
	}

	// Sticky scroll: stay at the bottom when already there.
	if m.ShowLogs {
		page := m.logsPerPage()
		if m.LogScrollOffset >= len(m.LogMessages)-page-2 {
			m.LogScrollOffset = max(len(m.LogMessages)-page, 0)
		}
	}
}

// LogInfo logs an informational message.
func (m *Model) LogInfo(format string, args ...any) {
	m.Log("INFO", format, args...)
}

// LogWarn logs a warning message.
func (m *Model) LogWarn(format string, args ...any) {
	m.Log("WARN", format, args...)
}

// LogError logs an error message.
func (m *Model) LogError(format string, args ...any) {
	m.Log("ERROR", format, args...)
}

// ShowNotification displays a temporary notification and logs it.
func (m *Model) ShowNotification(message, notifType string, duration time.Duration) {
	m.Notifications = append(m.Notifications, Notification{
		ID:        createID(),
		Message:   message,
		Type:      notifType,
		StartTime: m.now(),
		Duration:  duration,
	})
	if len(m.Notifications) > config.MaxNotifications {
		m.Notifications = m.Notifications[len(m.Notifications)-config.MaxNotifications:]
	}

	switch notifType {
	case "error":
		m.LogError("%s", message)
	case "warning":
		m.LogWarn("%s", message)
	default:
		m.LogInfo("%s", message)
	}
}

// CleanupNotifications removes expired notifications.
func (m *Model) CleanupNotifications() {
	now := m.now()
	active := m.Notifications[:0]
	for _, n := range m.Notifications {
		if now.Sub(n.StartTime) < n.Duration {
			active = append(active, n)
		}
	}
	m.Notifications = active
}

// OnBoardEvent implements board.Listener.
func (m *Model) OnBoardEvent(e board.Event) {
	switch e := e.(type) {
	case board.SubmitAnswer:
		if !e.Accepted {
			return
		}
		if e.Correct {
			m.LogInfo("correct answer %q", e.Text)
		} else {
			m.LogInfo("wrong answer %q", e.Text)
		}
	case board.RequestHint:
		m.Dialog = DialogHint
		m.HintText = e.Hint
	case board.RequestHelp:
		m.Dialog = DialogHelp
	case board.Notice:
		m.ShowNotification(e.Message, "warning", config.NotificationDuration)
	case board.Dropped:
		m.logDrop(e.Result)
	case board.PuzzleLoaded:
		m.LogInfo("puzzle %d loaded", e.Index+1)
	case board.Completed:
		m.ShowNotification("全問クリア！", "success", config.NotificationDuration)
	}
}

func (m *Model) logDrop(r placement.DropResult) {
	switch r.Outcome {
	case placement.DropViewer, placement.DropInputField:
		m.LogInfo("%s placed in %s of puzzle %d", r.Key, r.Outcome, r.Puzzle+1)
	case placement.DropIgnored:
		m.LogWarn("%s cannot be dropped there", r.Key)
	default:
		m.LogInfo("%s returned to the keyboard", r.Key)
	}
	if r.Purged > 0 {
		m.LogInfo("%s removed from %d other puzzle(s)", r.Key, r.Purged)
	}
}

// CloseDialog closes the open dialog, if any.
func (m *Model) CloseDialog() bool {
	if m.Dialog == DialogNone {
		return false
	}
	m.Dialog = DialogNone
	m.HintText = ""
	return true
}

// Cleanup releases the board.
func (m *Model) Cleanup() {
	m.Board.Close()
}
