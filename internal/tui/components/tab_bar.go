package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nutragenie/nutragenie/internal/tui/styles"
)

var (
	tabOn  = lipgloss.NewStyle().Foreground(styles.AccentPrimary).Bold(true).Underline(true).Padding(0, 1)
	tabOff = lipgloss.NewStyle().Foreground(styles.TextSecondary).Padding(0, 1)
)

// TabBar is a single row of tabs. Indexes in Done are drawn with a check
// mark; onboarding uses that for finished screens.
type TabBar struct {
	Tabs      []string
	ActiveTab int
	Done      map[int]bool
	Width     int
}

func (t TabBar) Render() string {
	if len(t.Tabs) == 0 {
		return ""
	}
	cells := make([]string, len(t.Tabs))
	for i, name := range t.Tabs {
		if t.Done[i] {
			name = "✓ " + name
		}
		style := tabOff
		if i == t.ActiveTab {
			style = tabOn
		}
		cells[i] = style.Render(name)
	}
	row := strings.Join(cells, styles.Dim("│"))
	return lipgloss.NewStyle().Background(styles.BgDeep).Width(t.Width).Render(row)
}
