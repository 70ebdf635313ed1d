package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Logo is the wordmark shown in headers.
const Logo = "NutraGenie"

// PanelFocused frames the section being edited.
var PanelFocused = lipgloss.NewStyle().
	Background(BgPanel).
	Border(RoundedBorder).
	BorderForeground(BorderFocused).
	Padding(1)

// Badge renders "● TEXT" in color, e.g. a dish difficulty.
func Badge(text string, color lipgloss.Color) string {
	style := lipgloss.NewStyle().Foreground(color)
	return style.Render("●") + " " + style.Bold(true).Render(text)
}

// Text styles.
var (
	Title    = lipgloss.NewStyle().Foreground(AccentPrimary).Bold(true)
	Subtitle = lipgloss.NewStyle().Foreground(TextSecondary)
	Label    = lipgloss.NewStyle().Foreground(TextMuted)
	Value    = lipgloss.NewStyle().Foreground(TextPrimary).Bold(true)

	// ValidText marks a field that passes its rules or a confirmed section.
	ValidText = lipgloss.NewStyle().Foreground(StatusOK).Bold(true)
	// ErrorText is a visible field error.
	ErrorText = lipgloss.NewStyle().Foreground(StatusError)
	// LockedText is a section held back by the gate.
	LockedText = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)
)

// TableHeader styles column headings in CLI listings.
var TableHeader = lipgloss.NewStyle().
	Foreground(TextSecondary).
	Bold(true).
	Underline(true)

// TableRow alternates row backgrounds.
func TableRow(even bool) lipgloss.Style {
	bg := BgPanel
	if !even {
		bg = BgSurface
	}
	return lipgloss.NewStyle().Foreground(TextPrimary).Background(bg)
}

// Divider is a horizontal rule width cells wide.
func Divider(width int) string {
	if width <= 0 {
		return ""
	}
	return lipgloss.NewStyle().Foreground(BorderNormal).Render(strings.Repeat("─", width))
}
