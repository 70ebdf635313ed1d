package styles

import (
	"math"
	"slices"

	"github.com/charmbracelet/lipgloss"
)

func paint(c lipgloss.Color) func(string) string {
	style := lipgloss.NewStyle().Foreground(c)
	return func(s string) string { return style.Render(s) }
}

// Inline colour helpers for text that is not worth a named style.
var (
	Accent    = paint(AccentPrimary)
	Highlight = paint(AccentGold)
	Green     = paint(StatusOK)
	Red       = paint(StatusError)
	Dim       = paint(TextMuted)
)

// sparkRamp holds the bar glyphs from lowest to highest.
var sparkRamp = []rune{'⡀', '⡄', '⡆', '⡇', '⣇', '⣧', '⣷', '⣿'}

// Sparkline draws values as a width-cell braille bar chart scaled between
// their minimum and maximum. The home dashboard uses it for the calorie
// spread of recommended dishes.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}
	lo, hi := slices.Min(values), slices.Max(values)
	span := hi - lo
	if span == 0 {
		span = 1
	}

	out := make([]rune, width)
	for i := range out {
		v := values[min(i*len(values)/width, len(values)-1)]
		bucket := int(math.Round((v - lo) / span * float64(len(sparkRamp)-1)))
		out[i] = sparkRamp[max(0, min(bucket, len(sparkRamp)-1))]
	}
	return lipgloss.NewStyle().Foreground(AccentPrimary).Render(string(out))
}

// TruncateWithEllipsis cuts s to n runes, the last three being "..."
// when there is room for them.
func TruncateWithEllipsis(s string, n int) string {
	r := []rune(s)
	switch {
	case len(r) <= n:
		return s
	case n < 4:
		return string(r[:max(n, 0)])
	}
	return string(r[:n-3]) + "..."
}
