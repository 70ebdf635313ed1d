package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nutragenie/nutragenie/internal/tui/styles"
)

// KeyHint pairs a key with what it does on the current screen.
type KeyHint struct {
	Key  string
	Desc string
}

// Footer is the bottom row of key hints.
type Footer struct {
	Hints []KeyHint
	Width int
}

func (f Footer) Render() string {
	width := f.Width
	if width <= 0 {
		width = 80
	}
	key := lipgloss.NewStyle().Foreground(styles.AccentPrimary).Bold(true)
	hints := make([]string, 0, len(f.Hints))
	for _, h := range f.Hints {
		hints = append(hints, key.Render(h.Key)+" "+styles.Dim(h.Desc))
	}
	return lipgloss.NewStyle().
		Background(styles.BgDeep).
		Width(width).
		Padding(0, 1).
		Render(strings.Join(hints, styles.Dim(" • ")))
}

func hints(width int, pairs ...string) Footer {
	f := Footer{Width: width}
	for i := 0; i+1 < len(pairs); i += 2 {
		f.Hints = append(f.Hints, KeyHint{Key: pairs[i], Desc: pairs[i+1]})
	}
	return f
}

// OnboardingFooter is shown while a text field has focus.
func OnboardingFooter(width int) Footer {
	return hints(width,
		"tab", "next field",
		"shift+tab", "prev field",
		"ctrl+↑↓", "section",
		"enter", "confirm section",
		"ctrl+e", "explain",
		"esc", "quit")
}

// OptionFooter is shown while an option list has focus.
func OptionFooter(width int) Footer {
	return hints(width,
		"↑↓", "move",
		"space", "toggle",
		"tab", "next field",
		"enter", "confirm section",
		"esc", "quit")
}

func HomeFooter(width int) Footer {
	return hints(width,
		"tab", "switch panel",
		"↑↓", "dishes",
		"enter", "details",
		"s", "swap ingredient",
		"r", "refresh",
		"q", "quit")
}
