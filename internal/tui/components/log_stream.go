package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/nutragenie/nutragenie/internal/tui/styles"
)

// LogLine is one entry of the onboarding activity feed.
type LogLine struct {
	Time    time.Time
	Level   string // "info", "warn", "error", "success"
	Source  string // section id
	Message string
}

// LogStream is the activity feed under the onboarding form: saves,
// confirmations, locked-section hints and options dropped by conflicts.
// It keeps the newest maxLines entries and always shows the latest.
type LogStream struct {
	lines    []LogLine
	viewport viewport.Model
	maxLines int
}

// NewLogStream returns an empty feed showing height lines.
func NewLogStream(width, height int) LogStream {
	vp := viewport.New(width, height)
	vp.Style = lipgloss.NewStyle().Background(styles.BgPanel)
	return LogStream{viewport: vp, maxLines: 200}
}

// View renders the title and the visible lines.
func (l LogStream) View() string {
	title := lipgloss.NewStyle().Foreground(styles.TextSecondary).Bold(true).Render("Activity")
	return title + "\n" + l.viewport.View()
}

// Len returns the number of kept lines.
func (l LogStream) Len() int { return len(l.lines) }

// Last returns the newest line, if any.
func (l LogStream) Last() (LogLine, bool) {
	if len(l.lines) == 0 {
		return LogLine{}, false
	}
	return l.lines[len(l.lines)-1], true
}

// SetSize resizes the viewport.
func (l *LogStream) SetSize(width, height int) {
	l.viewport.Width = width
	l.viewport.Height = height
	l.viewport.GotoBottom()
}

// AddLine appends line, dropping the oldest entries past maxLines.
func (l *LogStream) AddLine(line LogLine) {
	l.lines = append(l.lines, line)
	if over := len(l.lines) - l.maxLines; over > 0 {
		l.lines = append([]LogLine(nil), l.lines[over:]...)
	}
	l.viewport.SetContent(l.render())
	l.viewport.GotoBottom()
}

func levelMark(level string) (string, lipgloss.Color) {
	switch level {
	case "success":
		return "✓", styles.StatusOK
	case "warn":
		return "!", styles.StatusWarn
	case "error":
		return "✗", styles.StatusError
	default:
		return "·", styles.TextSecondary
	}
}

func (l *LogStream) render() string {
	rows := make([]string, 0, len(l.lines))
	for _, line := range l.lines {
		mark, color := levelMark(line.Level)
		rows = append(rows,
			styles.Dim(line.Time.Format("15:04:05"))+" "+
				lipgloss.NewStyle().Foreground(color).Bold(true).Render(mark)+" "+
				lipgloss.NewStyle().Foreground(styles.AccentSecondary).Width(13).Render(line.Source)+
				lipgloss.NewStyle().Foreground(color).Render(line.Message))
	}
	return strings.Join(rows, "\n")
}
