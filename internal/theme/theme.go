// Package theme provides the color themes used to draw the board.
package theme

import (
	"fmt"
	"image/color"
	"io"
	"slices"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/log"
	tint "github.com/lrstanley/bubbletint/v2"
)

var enabled bool

// Initialize sets up the theme registry with the specified theme name.
// Call this once at application startup. An empty name disables theming and
// the board is drawn with standard terminal colors. Unknown names fall back
// to the default tint.
func Initialize(themeName string, logger *log.Logger) error {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if themeName == "" {
		enabled = false
		return nil
	}

	enabled = true
	tint.NewDefaultRegistry()

	if themesDir, err := GetThemesDir(); err == nil {
		loaded, err := LoadCustomThemes(themesDir)
		if err != nil {
			logger.Warn("loading custom themes", "dir", themesDir, "err", err)
		}
		if len(loaded) > 0 {
			logger.Debug("custom themes loaded", "themes", loaded)
		}
	}

	if !tint.SetTintID(themeName) {
		logger.Warn("unknown theme, using default", "theme", themeName)
		tint.SetTintID("default")
	}
	return nil
}

// IsEnabled returns true if theming is enabled
func IsEnabled() bool {
	return enabled
}

// Current returns the active tint, or nil when theming is disabled.
func Current() *tint.Tint {
	if !enabled {
		return nil
	}
	return tint.Current()
}

// Available returns the sorted IDs of every registered tint, custom themes
// included.
func Available() []string {
	ids := slices.Clone(tint.TintIDs())
	slices.Sort(ids)
	return ids
}

// pick returns the themed color, or fallback when theming is off.
func pick(fallback string, themed func(t *tint.Tint) *tint.Color) color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color(fallback)
	}
	if c := themed(t); c != nil {
		return c
	}
	return lipgloss.Color(fallback)
}

// Palette returns the 16 ANSI colors of the active theme, for previews.
func Palette() [16]color.Color {
	t := Current()
	if t == nil {
		var p [16]color.Color
		for i := range p {
			p[i] = lipgloss.Color(fmt.Sprint(i))
		}
		return p
	}
	return [16]color.Color{
		t.Black, t.Red, t.Green, t.Yellow, t.Blue, t.Purple, t.Cyan, t.White,
		t.BrightBlack, t.BrightRed, t.BrightGreen, t.BrightYellow,
		t.BrightBlue, t.BrightPurple, t.BrightCyan, t.BrightWhite,
	}
}

// Fg is the default text color.
func Fg() color.Color { return pick("#e5e5e5", func(t *tint.Tint) *tint.Color { return t.Fg }) }

// Bg is the screen background.
func Bg() color.Color { return pick("#000000", func(t *tint.Tint) *tint.Color { return t.Bg }) }

// Dimmed is used for secondary text and disabled navigation.
func Dimmed() color.Color {
	return pick("8", func(t *tint.Tint) *tint.Color { return t.BrightBlack })
}

// Keys

// KeyBorder is the border of a character key on the keyboard.
func KeyBorder() color.Color {
	return pick("#AFFFFF", func(t *tint.Tint) *tint.Color { return t.BrightCyan })
}

// KeyLabel is the label of a character key.
func KeyLabel() color.Color { return Fg() }

// FunctionKey colors the border and label of function keys.
func FunctionKey() color.Color {
	return pick("#ffff00", func(t *tint.Tint) *tint.Color { return t.Yellow })
}

// RelocatedKey is the border of a key placed in the viewer or the input field.
func RelocatedKey() color.Color {
	return pick("#AAFFAA", func(t *tint.Tint) *tint.Color { return t.BrightGreen })
}

// MovedPlaceholder colors a keyboard slot whose key was moved away.
func MovedPlaceholder() color.Color { return Dimmed() }

// DraggedKey is the border of the key following the pointer.
func DraggedKey() color.Color {
	return pick("#ff00ff", func(t *tint.Tint) *tint.Color { return t.BrightPurple })
}

// PendingHold is the border of a key whose long press is armed.
func PendingHold() color.Color {
	return pick("#cdcd00", func(t *tint.Tint) *tint.Color { return t.BrightYellow })
}

// Containers

// ViewerBorder is the border of the puzzle viewer.
func ViewerBorder() color.Color {
	return pick("#5c5cff", func(t *tint.Tint) *tint.Color { return t.BrightBlue })
}

// ImageFg colors the puzzle picture.
func ImageFg() color.Color {
	return pick("#e5e5e5", func(t *tint.Tint) *tint.Color { return t.White })
}

// InputFieldBorder is the border of the text-input field and its clone.
func InputFieldBorder() color.Color {
	return pick("#FAAAAA", func(t *tint.Tint) *tint.Color { return t.Red })
}

// InputFieldText is the typed text.
func InputFieldText() color.Color {
	return pick("#ffffff", func(t *tint.Tint) *tint.Color { return t.BrightWhite })
}

// Flick guide

// GuideBg is the background of the flick guide cells.
func GuideBg() color.Color {
	return pick("#303030", func(t *tint.Tint) *tint.Color { return t.Black })
}

// GuideFg is the text of the flick guide cells.
func GuideFg() color.Color { return Fg() }

// GuideHighlight returns the background and foreground of the highlighted cell.
func GuideHighlight() (bg, fg color.Color) {
	t := Current()
	if t == nil {
		return lipgloss.Color("#00ffff"), lipgloss.Color("#000000")
	}
	return t.BrightCyan, t.Black
}

// Feedback and dialogs

// FeedbackCorrect colors the correct-answer mark.
func FeedbackCorrect() color.Color {
	return pick("#00ff00", func(t *tint.Tint) *tint.Color { return t.BrightGreen })
}

// FeedbackIncorrect colors the wrong-answer mark.
func FeedbackIncorrect() color.Color {
	return pick("#ff0000", func(t *tint.Tint) *tint.Color { return t.BrightRed })
}

// DialogBorder is the border of the hint, help and clear dialogs.
func DialogBorder() color.Color {
	return pick("#5c5cff", func(t *tint.Tint) *tint.Color { return t.Blue })
}

// Title colors headings on the title screen and in dialogs.
func Title() color.Color {
	return pick("14", func(t *tint.Tint) *tint.Color { return t.BrightCyan })
}

// Highlight colors emphasised words in dialogs.
func Highlight() color.Color {
	return pick("11", func(t *tint.Tint) *tint.Color { return t.BrightYellow })
}

// TapeCursor marks the synthetic pointer while a tape plays.
func TapeCursor() color.Color {
	return pick("#ff00ff", func(t *tint.Tint) *tint.Color { return t.Purple })
}

// Notifications

// NotificationError returns the color for error notifications.
func NotificationError() color.Color {
	return pick("#dc3545", func(t *tint.Tint) *tint.Color { return t.Red })
}

// NotificationWarning returns the color for warning notifications.
func NotificationWarning() color.Color {
	return pick("#ffc107", func(t *tint.Tint) *tint.Color { return t.Yellow })
}

// NotificationSuccess returns the color for success notifications.
func NotificationSuccess() color.Color {
	return pick("#28a745", func(t *tint.Tint) *tint.Color { return t.Green })
}

// NotificationInfo returns the color for info notifications.
func NotificationInfo() color.Color {
	return pick("#007bff", func(t *tint.Tint) *tint.Color { return t.Blue })
}

// NotificationFg returns the text color of notifications.
func NotificationFg() color.Color {
	return pick("#ffffff", func(t *tint.Tint) *tint.Color { return t.BrightWhite })
}

// Log viewer

// LogViewerTitle returns the color for the log viewer title.
func LogViewerTitle() color.Color { return Title() }

// LogViewerError returns the color for error log lines.
func LogViewerError() color.Color { return FeedbackIncorrect() }

// LogViewerWarn returns the color for warning log lines.
func LogViewerWarn() color.Color { return NotificationWarning() }

// LogViewerInfo returns the color for info log lines.
func LogViewerInfo() color.Color {
	return pick("12", func(t *tint.Tint) *tint.Color { return t.BrightBlue })
}

// LogViewerBg returns the background of the log viewer.
func LogViewerBg() color.Color {
	return pick("#1a1a2a", func(t *tint.Tint) *tint.Color { return t.Bg })
}

// ColorToString converts a color.Color to a hex string.
func ColorToString(c color.Color) string {
	if c == nil {
		return "#000000"
	}
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", uint8(r>>8), uint8(g>>8), uint8(b>>8))
}
