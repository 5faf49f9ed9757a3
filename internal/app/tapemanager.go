package app

import (
	"fmt"
	"os"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/Gaurav-Gosain/flickboard/internal/config"
	"github.com/Gaurav-Gosain/flickboard/internal/geom"
	"github.com/Gaurav-Gosain/flickboard/internal/tape"
	"github.com/Gaurav-Gosain/flickboard/internal/theme"
)

// TapeManagerMode represents the current mode of the tape manager
type TapeManagerMode int

const (
	// TapeManagerList shows the list of tape files
	TapeManagerList TapeManagerMode = iota
	// TapeManagerConfirmDelete asks for deletion confirmation
	TapeManagerConfirmDelete
	// TapeManagerNaming is entering a name for a finished recording
	TapeManagerNaming
)

const tapeManagerVisible = 10

// TapeManagerState holds the state for the tape manager UI
type TapeManagerState struct {
	Mode          TapeManagerMode
	Dir           string
	Files         []tape.File
	SelectedIndex int
	ScrollOffset  int
	NameBuffer    string
	Pending       string // recorded script awaiting a name
	Message       string
	MessageErr    bool
	MessageTime   time.Time
}

func (m *Model) tapeManager() *TapeManagerState {
	if m.TapeManager == nil {
		m.TapeManager = &TapeManagerState{Dir: m.tapeDir}
	}
	return m.TapeManager
}

func (m *Model) tapeMessage(err bool, format string, args ...any) {
	tm := m.tapeManager()
	tm.Message = fmt.Sprintf(format, args...)
	tm.MessageErr = err
	tm.MessageTime = m.now()
}

// RefreshTapeFiles reloads the tape file list
func (m *Model) RefreshTapeFiles() {
	tm := m.tapeManager()
	if tm.Dir == "" {
		dir, err := tape.Directory()
		if err != nil {
			m.tapeMessage(true, "%v", err)
			return
		}
		tm.Dir = dir
	}
	files, err := tape.ListFiles(tm.Dir)
	if err != nil {
		m.tapeMessage(true, "%v", err)
		return
	}
	tm.Files = files
	if tm.SelectedIndex >= len(files) {
		tm.SelectedIndex = max(0, len(files)-1)
	}
}

// ToggleTapeManager toggles the tape manager overlay
func (m *Model) ToggleTapeManager() {
	m.ShowTapeManager = !m.ShowTapeManager
	if m.ShowTapeManager {
		tm := m.tapeManager()
		if tm.Mode != TapeManagerNaming {
			tm.Mode = TapeManagerList
		}
		m.RefreshTapeFiles()
	}
}

// TapeManagerSelect moves the selection by delta, wrapping around.
func (m *Model) TapeManagerSelect(delta int) {
	tm := m.tapeManager()
	n := len(tm.Files)
	if n == 0 {
		return
	}
	tm.SelectedIndex = ((tm.SelectedIndex+delta)%n + n) % n
	if tm.SelectedIndex < tm.ScrollOffset {
		tm.ScrollOffset = tm.SelectedIndex
	} else if tm.SelectedIndex >= tm.ScrollOffset+tapeManagerVisible {
		tm.ScrollOffset = tm.SelectedIndex - tapeManagerVisible + 1
	}
}

// TapeManagerDeleteSelected deletes the selected tape.
func (m *Model) TapeManagerDeleteSelected() {
	tm := m.tapeManager()
	if len(tm.Files) == 0 {
		return
	}
	selected := tm.Files[tm.SelectedIndex]
	if err := os.Remove(selected.Path); err != nil {
		m.tapeMessage(true, "failed to delete: %v", err)
	} else {
		m.tapeMessage(false, "deleted %q", selected.Name)
	}
	tm.Mode = TapeManagerList
	m.RefreshTapeFiles()
}

// TapeManagerPlaySelected parses the selected tape and starts it.
func (m *Model) TapeManagerPlaySelected() {
	tm := m.tapeManager()
	if len(tm.Files) == 0 {
		return
	}
	selected := tm.Files[tm.SelectedIndex]
	script, err := tape.ParseFile(selected.Path)
	if err != nil {
		m.tapeMessage(true, "%v", err)
		return
	}
	m.ShowTapeManager = false
	m.PlayScript(script)
	m.ShowNotification("playing "+selected.Name, "info", config.NotificationDuration)
}

// ToggleRecording starts a recording, or stops one and asks for its name.
func (m *Model) ToggleRecording() {
	if m.TapeRecorder.Recording() {
		tm := m.tapeManager()
		tm.Pending = m.TapeRecorder.Stop()
		tm.NameBuffer = ""
		tm.Mode = TapeManagerNaming
		m.ShowTapeManager = true
		return
	}
	if m.ScriptRunning() {
		return
	}
	m.TapeRecorder.Start(m.now())
	m.ShowNotification("recording tape", "info", config.NotificationDuration)
}

// TapeManagerSaveRecording writes the pending recording under the typed name.
func (m *Model) TapeManagerSaveRecording() {
	tm := m.tapeManager()
	m.RefreshTapeFiles()
	if tm.Dir == "" {
		return
	}
	path, err := tape.Save(tm.Dir, tm.NameBuffer, tm.Pending, m.now())
	if err != nil {
		m.tapeMessage(true, "%v", err)
		return
	}
	tm.Pending = ""
	tm.Mode = TapeManagerList
	m.tapeMessage(false, "saved %s", path)
	m.LogInfo("tape saved to %s", path)
	m.RefreshTapeFiles()
}

// RecordPointer records real pointer input while a recording is running.
func (m *Model) RecordPointer(t tape.CommandType, p geom.Point) {
	m.TapeRecorder.RecordPointer(t, p, m.now())
}

// RecordCommand records a game command while a recording is running.
func (m *Model) RecordCommand(t tape.CommandType, args ...string) {
	m.TapeRecorder.Record(t, m.now(), args...)
}

// HandleTapeManagerInput handles keyboard input for the tape manager
func (m *Model) HandleTapeManagerInput(key string) bool {
	tm := m.tapeManager()

	switch tm.Mode {
	case TapeManagerNaming:
		switch key {
		case "enter":
			m.TapeManagerSaveRecording()
		case "esc":
			tm.Pending = ""
			tm.Mode = TapeManagerList
			m.tapeMessage(false, "recording discarded")
		case "backspace":
			if r := []rune(tm.NameBuffer); len(r) > 0 {
				tm.NameBuffer = string(r[:len(r)-1])
			}
		default:
			if len(key) == 1 && key[0] >= 32 && key[0] <= 126 {
				tm.NameBuffer += key
			}
		}
		return true

	case TapeManagerConfirmDelete:
		switch key {
		case "y", "Y":
			m.TapeManagerDeleteSelected()
		case "n", "N", "esc":
			tm.Mode = TapeManagerList
		}
		return true

	default:
		switch key {
		case "up", "k":
			m.TapeManagerSelect(-1)
		case "down", "j":
			m.TapeManagerSelect(1)
		case "enter":
			m.TapeManagerPlaySelected()
		case "r":
			m.ShowTapeManager = false
			m.ToggleRecording()
		case "d":
			if len(tm.Files) > 0 {
				tm.Mode = TapeManagerConfirmDelete
			}
		case "esc", "q", "t":
			m.ShowTapeManager = false
		default:
			return false
		}
		return true
	}
}

func (m *Model) renderTapeManager() *lipgloss.Layer {
	tm := m.tapeManager()

	title := lipgloss.NewStyle().Foreground(theme.Title()).Bold(true)
	dim := lipgloss.NewStyle().Foreground(theme.Dimmed())
	key := lipgloss.NewStyle().Foreground(theme.Highlight()).Bold(true)
	selected := lipgloss.NewStyle().Foreground(theme.Bg()).Background(theme.Highlight()).Bold(true).Padding(0, 1)
	normal := lipgloss.NewStyle().Foreground(theme.Fg()).Padding(0, 1)

	lines := []string{title.Render("Tapes"), ""}

	if tm.Message != "" && m.now().Sub(tm.MessageTime) < 3*time.Second {
		c := theme.NotificationSuccess()
		if tm.MessageErr {
			c = theme.NotificationError()
		}
		lines = append(lines, lipgloss.NewStyle().Foreground(c).Render(fitWidth(tm.Message, 56)), "")
	}

	switch tm.Mode {
	case TapeManagerNaming:
		lines = append(lines,
			"Name the recording:",
			"",
			boxStyle(theme.DialogBorder(), 40, 3).Align(lipgloss.Left).Render(tm.NameBuffer+"█"),
			"",
			dim.Render(key.Render("Enter")+" save  "+key.Render("Esc")+" discard"),
		)

	case TapeManagerConfirmDelete:
		if len(tm.Files) > 0 {
			lines = append(lines,
				lipgloss.NewStyle().Foreground(theme.NotificationError()).Render("Delete '"+tm.Files[tm.SelectedIndex].Name+"'?"),
				"",
				dim.Render(key.Render("y")+" confirm  "+key.Render("n/Esc")+" cancel"),
			)
		}

	default:
		if len(tm.Files) == 0 {
			lines = append(lines, dim.Render("No tapes in "+tm.Dir))
		}
		end := min(tm.ScrollOffset+tapeManagerVisible, len(tm.Files))
		for i := tm.ScrollOffset; i < end; i++ {
			f := tm.Files[i]
			info := fmt.Sprintf("%-20s %8s  %s", fitWidth(f.Name, 20), formatFileSize(f.Size), f.Modified.Format("Jan 02 15:04"))
			if i == tm.SelectedIndex {
				lines = append(lines, selected.Render("> "+info))
			} else {
				lines = append(lines, normal.Render("  "+info))
			}
		}
		if len(tm.Files) > tapeManagerVisible {
			lines = append(lines, "", dim.Render(fmt.Sprintf("Showing %d-%d of %d", tm.ScrollOffset+1, end, len(tm.Files))))
		}
		lines = append(lines, "", dim.Render(
			key.Render("↑/↓")+" select  "+
				key.Render("Enter")+" play  "+
				key.Render("r")+" record  "+
				key.Render("d")+" delete  "+
				key.Render("Esc")+" close"))
	}

	box := lipgloss.NewStyle().
		Border(getBorder()).
		BorderForeground(theme.DialogBorder()).
		Background(theme.LogViewerBg()).
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	placed := lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, box)
	return m.layer(placed, 0, 0, config.ZIndexDialog+1, "tape-manager")
}

func formatFileSize(size int64) string {
	switch {
	case size < 1024:
		return fmt.Sprintf("%dB", size)
	case size < 1024*1024:
		return fmt.Sprintf("%.1fKB", float64(size)/1024)
	}
	return fmt.Sprintf("%.1fMB", float64(size)/(1024*1024))
}
