package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nutragenie/nutragenie/internal/tui/styles"
)

// Header is the top bar: logo, greeting, screen title and save status.
type Header struct {
	User   string
	Screen string
	Status string // e.g. "saved 12:04"
	Failed bool   // draw Status in the error colour
	Width  int
}

func (h Header) Render() string {
	width := h.Width
	if width <= 0 {
		width = 80
	}
	parts := []string{lipgloss.NewStyle().Foreground(styles.AccentPrimary).Bold(true).Render(styles.Logo)}
	if h.User != "" {
		parts = append(parts, styles.Label.Render("Hi ")+styles.Value.Render(h.User))
	}
	if h.Screen != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(styles.AccentGold).Bold(true).Render(h.Screen))
	}
	if h.Status != "" {
		c := styles.TextSecondary
		if h.Failed {
			c = styles.StatusError
		}
		parts = append(parts, lipgloss.NewStyle().Foreground(c).Render(h.Status))
	}
	return lipgloss.NewStyle().
		Background(styles.BgDeep).
		Foreground(styles.TextPrimary).
		Width(width).
		Padding(0, 1).
		Render(strings.Join(parts, styles.Dim("  │  ")))
}
