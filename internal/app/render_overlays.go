package app

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/Gaurav-Gosain/flickboard/internal/config"
	"github.com/Gaurav-Gosain/flickboard/internal/theme"
)

// scriptIndicatorLinger is how long the tape indicator stays after the end.
const scriptIndicatorLinger = 2 * time.Second

const (
	logBoxWidth    = 80
	logFixedLines  = 6
	notifSpacing   = 4
	dialogMaxWidth = 44
)

func (m *Model) renderOverlays() []*lipgloss.Layer {
	var layers []*lipgloss.Layer

	switch m.Dialog {
	case DialogHint:
		layers = append(layers, m.renderDialog("ヒント", m.HintText))
	case DialogHelp:
		layers = append(layers, m.renderDialog("遊び方", helpText))
	}

	if m.ShowTapeManager {
		layers = append(layers, m.renderTapeManager())
	}
	if m.ShowLogs {
		layers = append(layers, m.renderLogs())
	}
	if l := m.renderScriptIndicator(); l != nil {
		layers = append(layers, l)
	}
	if l := m.renderTapeCursor(); l != nil {
		layers = append(layers, l)
	}
	layers = append(layers, m.renderNotifications()...)
	return layers
}

const helpText = `キーをタップすると文字を入力します。
上下左右にフリックすると別の文字になります。
キーを長押しすると、キーを持ち上げて
画面の好きな場所に移動できます。
入力欄も移動できます。

答えが分かったら「確定」を押してください。`

func (m *Model) renderDialog(title, body string) *lipgloss.Layer {
	width := min(dialogMaxWidth, max(m.Width-4, 10))
	content := lipgloss.NewStyle().Foreground(theme.Title()).Bold(true).Render(title) +
		"\n\n" + body + "\n\n" +
		lipgloss.NewStyle().Foreground(theme.Dimmed()).Render("クリックまたは esc で閉じる")

	box := lipgloss.NewStyle().
		Border(getBorder()).
		BorderForeground(theme.DialogBorder()).
		Foreground(theme.Fg()).
		Background(theme.Bg()).
		Padding(1, 2).
		Width(width).
		Render(content)
	x := (m.Width - lipgloss.Width(box)) / 2
	y := (m.Height - lipgloss.Height(box)) / 2
	return m.layer(box, x, y, config.ZIndexDialog, "dialog")
}

func (m *Model) renderTitleScreen() *lipgloss.Layer {
	pack := m.Board.Progress().Pack()
	name := pack.Name
	if name == "" {
		name = "flickboard"
	}
	title := lipgloss.NewStyle().Foreground(theme.Title()).Bold(true).Render(name)
	sub := lipgloss.NewStyle().Foreground(theme.Fg()).Render(fmt.Sprintf("%d 問の謎", pack.Len()))
	hint := lipgloss.NewStyle().Foreground(theme.Dimmed()).Render("クリックまたは Enter でスタート")
	content := lipgloss.JoinVertical(lipgloss.Center, title, "", sub, "", hint)
	return m.centered(content, "title-screen")
}

func (m *Model) renderClearScreen() *lipgloss.Layer {
	progress := m.Board.Progress()
	title := lipgloss.NewStyle().Foreground(theme.FeedbackCorrect()).Bold(true).Render("全問クリア！")
	sub := lipgloss.NewStyle().Foreground(theme.Fg()).
		Render(fmt.Sprintf("%d / %d 問正解", progress.ClearedCount(), progress.Count()))
	hint := lipgloss.NewStyle().Foreground(theme.Dimmed()).Render("クリックでタイトルへ")
	content := lipgloss.JoinVertical(lipgloss.Center, title, "", sub, "", hint)
	return m.centered(content, "clear-screen")
}

func (m *Model) centered(content, id string) *lipgloss.Layer {
	placed := lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, content)
	return m.layer(placed, 0, 0, config.ZIndexViewer, id)
}

func (m *Model) logsPerPage() int {
	maxDisplayHeight := max(m.Height-8, 8)
	return max(maxDisplayHeight-logFixedLines, 1)
}

func (m *Model) renderLogs() *lipgloss.Layer {
	logsPerPage := m.logsPerPage()
	totalLogs := len(m.LogMessages)
	maxScroll := max(totalLogs-logsPerPage, 0)
	m.LogScrollOffset = max(0, min(m.LogScrollOffset, maxScroll))

	logLines := []string{
		lipgloss.NewStyle().Foreground(theme.LogViewerTitle()).Bold(true).Render("Logs"),
		"",
	}

	start := m.LogScrollOffset
	shown := 0
	for i := start; i < totalLogs && shown < logsPerPage; i++ {
		msg := m.LogMessages[i]
		levelColor := theme.LogViewerInfo()
		switch msg.Level {
		case "ERROR":
			levelColor = theme.LogViewerError()
		case "WARN":
			levelColor = theme.LogViewerWarn()
		}
		level := lipgloss.NewStyle().Foreground(levelColor).Render(fmt.Sprintf("[%s]", msg.Level))
		logLines = append(logLines, fitWidth(fmt.Sprintf("%s %s %s", msg.Time.Format("15:04:05"), level, msg.Message), logBoxWidth-6))
		shown++
	}

	dim := lipgloss.NewStyle().Foreground(theme.Dimmed())
	if maxScroll > 0 {
		logLines = append(logLines, "", dim.Render(fmt.Sprintf("Showing %d-%d of %d logs", start+1, start+shown, totalLogs)))
	}
	logLines = append(logLines, "", dim.Render("esc to close, j/k or wheel to scroll"))

	box := lipgloss.NewStyle().
		Border(getBorder()).
		BorderForeground(theme.DialogBorder()).
		Background(theme.LogViewerBg()).
		Padding(1, 2).
		Width(min(logBoxWidth, m.Width)).
		Render(strings.Join(logLines, "\n"))

	placed := lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, box)
	return m.layer(placed, 0, 0, config.ZIndexLogs, "logs")
}

func (m *Model) renderScriptIndicator() *lipgloss.Layer {
	if m.TapeRecorder.Recording() {
		rec := lipgloss.NewStyle().
			Foreground(theme.NotificationFg()).
			Background(theme.NotificationError()).
			Padding(0, 1).
			Render(fmt.Sprintf("REC • %d", m.TapeRecorder.Len()))
		return m.layer(rec, m.Width-lipgloss.Width(rec)-2, m.Height-1, config.ZIndexNotifications, "recording")
	}
	if !m.ScriptMode || m.ScriptPlayer == nil {
		return nil
	}
	finished := !m.ScriptFinishedTime.IsZero()
	if finished && m.now().Sub(m.ScriptFinishedTime) > scriptIndicatorLinger {
		return nil
	}

	current, total := m.ScriptPlayer.Progress()
	var status string
	switch {
	case finished && m.ScriptErr != nil:
		status = fmt.Sprintf("FAILED • line %d", m.ScriptPlayer.Current().Line)
	case finished:
		status = fmt.Sprintf("DONE • %d/%d", total, total)
	default:
		const barWidth = 15
		filled := 0
		if total > 0 {
			filled = current * barWidth / total
		}
		bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
		state := "RUNNING"
		if m.ScriptPaused {
			state = "PAUSED"
		}
		status = fmt.Sprintf("%s • %s • %d/%d", state, bar, current, total)
	}

	indicator := lipgloss.NewStyle().
		Foreground(theme.NotificationFg()).
		Background(theme.TapeCursor()).
		Padding(0, 1).
		Render(status)
	return m.layer(indicator, m.Width-lipgloss.Width(indicator)-2, m.Height-1, config.ZIndexNotifications, "script-mode")
}

// renderTapeCursor marks where a tape holds the pointer down.
func (m *Model) renderTapeCursor() *lipgloss.Layer {
	x, y, ok := m.TapePointer()
	if !ok {
		return nil
	}
	mark := "●"
	if config.UseASCIIOnly {
		mark = "*"
	}
	return m.layer(lipgloss.NewStyle().Foreground(theme.TapeCursor()).Bold(true).Render(mark), x, y, config.ZIndexDragging+1, "tape-cursor")
}

func (m *Model) renderNotifications() []*lipgloss.Layer {
	var layers []*lipgloss.Layer
	maxWidth := min(max(m.Width-8, 20), 60)

	for i, n := range m.Notifications {
		var bg color.Color
		icon := "i"
		switch n.Type {
		case "error":
			bg, icon = theme.NotificationError(), "✗"
		case "warning":
			bg, icon = theme.NotificationWarning(), "!"
		case "success":
			bg, icon = theme.NotificationSuccess(), "✓"
		default:
			bg = theme.NotificationInfo()
		}
		if config.UseASCIIOnly {
			icon = map[string]string{"error": "x", "warning": "!", "success": "+", "info": "i"}[n.Type]
		}

		box := lipgloss.NewStyle().
			Background(bg).
			Foreground(theme.NotificationFg()).
			Padding(1, 2).
			Bold(true).
			Render(fitWidth(fmt.Sprintf("%s  %s", icon, n.Message), maxWidth-4))

		x := max(m.Width-lipgloss.Width(box)-2, 0)
		layers = append(layers, m.layer(box, x, 1+i*notifSpacing, config.ZIndexNotifications, "notif-"+n.ID))
	}
	return layers
}
