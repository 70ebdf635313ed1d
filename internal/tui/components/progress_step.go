package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nutragenie/nutragenie/internal/tui/styles"
)

// StepState is how a section appears in the progress indicator.
type StepState int

const (
	StepPending StepState = iota
	StepActive
	StepDone
	StepLocked
	StepReconfirm
)

// Step is one labelled section.
type Step struct {
	Label string
	State StepState
}

// ProgressStep shows the sections of a screen in order.
type ProgressStep struct {
	Steps []Step
	Width int
}

// Render returns the styled progress indicator. Confirmed sections get a
// filled green dot, the active one an accent dot, sections waiting for
// reconfirmation an amber dot and locked ones a muted lock.
func (p ProgressStep) Render() string {
	if len(p.Steps) == 0 {
		return ""
	}

	var parts []string
	for _, s := range p.Steps {
		var dot, label string
		switch s.State {
		case StepDone:
			dot = lipgloss.NewStyle().Foreground(styles.StatusOK).Render("●")
			label = lipgloss.NewStyle().Foreground(styles.StatusOK).Render(s.Label)
		case StepActive:
			dot = lipgloss.NewStyle().Foreground(styles.AccentPrimary).Bold(true).Render("●")
			label = lipgloss.NewStyle().Foreground(styles.AccentPrimary).Bold(true).Render(s.Label)
		case StepReconfirm:
			dot = lipgloss.NewStyle().Foreground(styles.StatusWarn).Bold(true).Render("◐")
			label = lipgloss.NewStyle().Foreground(styles.StatusWarn).Render(s.Label)
		case StepLocked:
			dot = styles.LockedText.Render("⊘")
			label = styles.LockedText.Render(s.Label)
		default:
			dot = lipgloss.NewStyle().Foreground(styles.TextMuted).Render("○")
			label = lipgloss.NewStyle().Foreground(styles.TextMuted).Render(s.Label)
		}
		parts = append(parts, dot+" "+label)
	}

	separator := lipgloss.NewStyle().Foreground(styles.TextMuted).Render(" ─ ")
	return strings.Join(parts, separator)
}
