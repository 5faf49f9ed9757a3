// Package config provides configuration constants, user settings and CLI overrides.
package config

import (
	"time"
)

// =============================================================================
// Gesture Timing and Thresholds
// =============================================================================

const (
	// LongPressDuration is how long a key must be held before it escalates into a drag.
	// It is not configurable at runtime.
	LongPressDuration = 2000 * time.Millisecond

	// LongPressSlop is the pointer displacement (virtual pixels) that cancels a pending long press.
	// Smaller movements are treated as noise while the hold is armed.
	LongPressSlop = 50.0

	// FlickThreshold is the displacement (virtual pixels) below which a flick resolves to center.
	FlickThreshold = 30.0

	// DragScaleCue is the uniform scale applied to a key while it is being dragged.
	DragScaleCue = 1.1
)

// =============================================================================
// Puzzles
// =============================================================================

const (
	// PuzzleCount is the number of puzzles in the default pack.
	PuzzleCount = 7

	// PuzzleLoadDelay is the fade delay before a newly selected puzzle is shown.
	PuzzleLoadDelay = 300 * time.Millisecond

	// FeedbackDuration is how long the correct/incorrect mark stays on screen.
	FeedbackDuration = 800 * time.Millisecond

	// FeedbackSettleDuration follows FeedbackDuration before input is accepted again after a miss.
	FeedbackSettleDuration = 400 * time.Millisecond

	// AdvanceDelay is the pause between a correct answer and loading the next puzzle.
	AdvanceDelay = 1500 * time.Millisecond

	// ClearScreenDelay is the pause between solving the last puzzle and the clear screen.
	ClearScreenDelay = 2000 * time.Millisecond
)

// =============================================================================
// Notifications and Logs
// =============================================================================

const (
	// NotificationDuration is the default duration notifications remain visible
	NotificationDuration = 2000 * time.Millisecond

	// MaxLogMessages is the number of log entries kept for the log overlay
	MaxLogMessages = 500

	// MaxNotifications caps the number of stacked notifications
	MaxNotifications = 3
)

// =============================================================================
// FPS and Refresh Rates
// =============================================================================

const (
	// NormalFPS is the refresh rate of the tick loop. The long-press deadline is
	// polled on every tick, so this bounds the escalation jitter.
	NormalFPS = 60

	// IdleFPS is the refresh rate when no gesture is in flight.
	IdleFPS = 20
)

// =============================================================================
// Layout
// =============================================================================

const (
	// DefaultCellWidthPx is the assumed pixel width of one terminal cell.
	DefaultCellWidthPx = 10.0

	// DefaultCellHeightPx is the assumed pixel height of one terminal cell.
	DefaultCellHeightPx = 20.0

	// KeyCellWidth is the width of a rendered key in cells (border included).
	KeyCellWidth = 8

	// KeyCellHeight is the height of a rendered key in cells (border included).
	KeyCellHeight = 3

	// KeyboardColumns is the number of columns in the fixed keyboard grid.
	KeyboardColumns = 5

	// KeyboardRows is the number of rows in the fixed keyboard grid.
	KeyboardRows = 4

	// InputFieldCellWidth is the width of the text-input field (three keys wide).
	InputFieldCellWidth = KeyCellWidth * 3

	// InputFieldCellHeight is the height of the text-input field.
	InputFieldCellHeight = KeyCellHeight

	// MinViewerHeight is the smallest viewer height before the layout gives up.
	MinViewerHeight = 6
)

// =============================================================================
// Z-Index Layers
// =============================================================================

const (
	ZIndexViewer        = 0
	ZIndexKeyboard      = 10
	ZIndexInputField    = 15
	ZIndexRelocated     = 20
	ZIndexInputFieldKey = 25
	ZIndexFlickGuide    = 40
	ZIndexDragging      = 50
	ZIndexFeedback      = 60
	ZIndexDialog        = 80
	ZIndexNotifications = 90
	ZIndexLogs          = 95
)

// =============================================================================
// Runtime Settings (set from user config and CLI overrides)
// =============================================================================

var (
	// UseASCIIOnly replaces box-drawing borders with ASCII.
	UseASCIIOnly = false

	// ShowFlickGuide toggles the directional guide overlay.
	ShowFlickGuide = true

	// CellWidthPx and CellHeightPx scale cell coordinates into virtual pixels.
	CellWidthPx  = DefaultCellWidthPx
	CellHeightPx = DefaultCellHeightPx

	// FlickThresholdPx is the runtime flick threshold; defaults to FlickThreshold.
	FlickThresholdPx = FlickThreshold

	// ThemeName is the active theme, empty for terminal colors.
	ThemeName = ""
)
