package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nutragenie/nutragenie/internal/tui/styles"
)

// OptionList renders a multi-select option set as a checklist. Sentinel is
// the mutually exclusive "none" style option, drawn apart from the rest.
type OptionList struct {
	Label    string
	Options  []string
	Selected map[string]bool
	Sentinel string
	Cursor   int
	Focused  bool
	Error    string
}

// Render returns the checklist, one option per line.
func (o OptionList) Render() string {
	labelColor := styles.TextSecondary
	if o.Focused {
		labelColor = styles.AccentPrimary
	}
	lines := []string{lipgloss.NewStyle().Foreground(labelColor).Bold(o.Focused).Render(o.Label)}

	for i, opt := range o.Options {
		cursor := "  "
		if o.Focused && i == o.Cursor {
			cursor = styles.Accent("> ")
		}
		mark := styles.Dim("[ ]")
		if o.Selected[opt] {
			mark = styles.ValidText.Render("[x]")
		}

		style := lipgloss.NewStyle().Foreground(styles.TextPrimary)
		if opt == o.Sentinel {
			style = style.Foreground(styles.AccentSecondary).Italic(true)
		}
		if o.Focused && i == o.Cursor {
			style = style.Background(styles.BgHover)
		}
		lines = append(lines, cursor+mark+" "+style.Render(opt))
	}

	if o.Error != "" {
		lines = append(lines, styles.ErrorText.Render("  "+o.Error))
	}
	return strings.Join(lines, "\n")
}

// Summary lists the selected options in option order, or "none selected".
func (o OptionList) Summary() string {
	var picked []string
	for _, opt := range o.Options {
		if o.Selected[opt] {
			picked = append(picked, opt)
		}
	}
	if len(picked) == 0 {
		return "none selected"
	}
	return strings.Join(picked, ", ")
}
