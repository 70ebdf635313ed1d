package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nutragenie/nutragenie/internal/tui/styles"
)

// FieldInput renders one labelled text field. Input is the already-rendered
// text input; Error is only shown once the field has been touched.
type FieldInput struct {
	Label    string
	Input    string
	Required bool
	Focused  bool
	Touched  bool
	Valid    bool
	Error    string
	Width    int
}

// Render returns the label line, the input and the error line when present.
func (f FieldInput) Render() string {
	labelColor := styles.TextSecondary
	if f.Focused {
		labelColor = styles.AccentPrimary
	}
	label := lipgloss.NewStyle().Foreground(labelColor).Bold(f.Focused).Render(f.Label)
	if f.Required {
		label += styles.Dim(" *")
	}
	switch {
	case f.Touched && f.Valid:
		label += " " + styles.ValidText.Render("✓")
	case f.Error != "":
		label += " " + styles.ErrorText.Render("✗")
	}

	border := styles.BorderNormal
	switch {
	case f.Focused:
		border = styles.BorderFocused
	case f.Error != "":
		border = styles.StatusError
	}
	box := lipgloss.NewStyle().
		Border(styles.ThinBorder).
		BorderForeground(border).
		Padding(0, 1)
	if f.Width > 4 {
		box = box.Width(f.Width - 2)
	}

	lines := []string{label, box.Render(f.Input)}
	if f.Error != "" {
		lines = append(lines, styles.ErrorText.Render("  "+f.Error))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
