package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nutragenie/nutragenie/internal/tui/styles"
)

// MacroGauge shows one nutrient against its target with a bar colored by
// how close the value is.
type MacroGauge struct {
	Label  string
	Value  int
	Target int
	Unit   string // "kcal", "g"
	Width  int    // bar width, default 20
}

// Ratio is Value/Target, 0 when there is no target.
func (m MacroGauge) Ratio() float64 {
	if m.Target <= 0 {
		return 0
	}
	return float64(m.Value) / float64(m.Target)
}

// gaugeColor is green within 10% of the target, amber within 25%, red
// beyond.
func (m MacroGauge) gaugeColor() lipgloss.Color {
	off := m.Ratio() - 1
	if off < 0 {
		off = -off
	}
	switch {
	case m.Target <= 0:
		return styles.TextMuted
	case off <= 0.10:
		return styles.StatusOK
	case off <= 0.25:
		return styles.StatusWarn
	default:
		return styles.StatusError
	}
}

// Render returns the label, a bar and "value/target unit".
func (m MacroGauge) Render() string {
	width := m.Width
	if width <= 0 {
		width = 20
	}
	filled := int(m.Ratio()*float64(width) + 0.5)
	filled = max(0, min(filled, width))

	color := m.gaugeColor()
	bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(styles.BorderNormal).Render(strings.Repeat("░", width-filled))

	label := lipgloss.NewStyle().Foreground(styles.TextMuted).Width(9).Render(m.Label)
	value := lipgloss.NewStyle().Foreground(color).Bold(true).
		Render(fmt.Sprintf("%d/%d %s", m.Value, m.Target, m.Unit))

	return label + " " + bar + " " + value
}
