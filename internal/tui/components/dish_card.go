package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nutragenie/nutragenie/internal/nutrition"
	"github.com/nutragenie/nutragenie/internal/tui/styles"
)

// DishCard shows a dish summary.
type DishCard struct {
	Dish     nutrition.Dish
	Selected bool
}

// difficultyColor returns the badge color for a difficulty.
func difficultyColor(d nutrition.Difficulty) lipgloss.Color {
	switch d {
	case nutrition.Easy:
		return styles.StatusOK
	case nutrition.Medium:
		return styles.StatusWarn
	case nutrition.Hard:
		return styles.StatusError
	default:
		return styles.TextMuted
	}
}

// Render returns the styled dish card as a multi-line block.
func (c DishCard) Render() string {
	d := c.Dish
	badge := styles.Badge(strings.ToUpper(string(d.Difficulty)), difficultyColor(d.Difficulty))

	nameStyle := lipgloss.NewStyle().Foreground(styles.TextPrimary).Bold(true)
	cuisineStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)

	line1 := nameStyle.Render(d.Name) + "  " + badge + "  " + cuisineStyle.Render("["+d.Cuisine+"]")

	sep := lipgloss.NewStyle().Foreground(styles.TextMuted).Render("  │  ")
	line2 := styles.Label.Render("Calories: ") + styles.Highlight(fmt.Sprintf("%d", d.Calories)) + sep +
		styles.Label.Render("Protein: ") + styles.Value.Render(d.ProteinGrams) + sep +
		styles.Label.Render("Time: ") + styles.Value.Render(fmt.Sprintf("%d min", d.CookTimeMinutes))

	var ingredients []string
	for _, ing := range d.Ingredients {
		ingredients = append(ingredients, ing.Name)
	}
	line3 := styles.Dim(styles.TruncateWithEllipsis(strings.Join(ingredients, ", "), 60))

	border := styles.BorderNormal
	if c.Selected {
		border = styles.BorderFocused
	}
	cardStyle := lipgloss.NewStyle().
		Background(styles.BgSurface).
		Border(styles.ThinBorder).
		BorderForeground(border).
		Padding(0, 1)

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, line1, line2, line3))
}

// RenderCompact returns a single-line representation for lists.
func (c DishCard) RenderCompact() string {
	d := c.Dish
	dot := lipgloss.NewStyle().Foreground(difficultyColor(d.Difficulty)).Render("●")
	cursor := "  "
	if c.Selected {
		cursor = styles.Accent("> ")
	}
	name := lipgloss.NewStyle().Foreground(styles.TextPrimary).Render(fmt.Sprintf("%-28s", styles.TruncateWithEllipsis(d.Name, 28)))
	kcal := lipgloss.NewStyle().Foreground(styles.TextSecondary).Render(fmt.Sprintf("%4d kcal", d.Calories))
	protein := lipgloss.NewStyle().Foreground(styles.TextSecondary).Render(fmt.Sprintf("%4s protein", d.ProteinGrams))
	cook := lipgloss.NewStyle().Foreground(styles.TextMuted).Render(fmt.Sprintf("%3d min", d.CookTimeMinutes))

	return fmt.Sprintf("%s%s %s  %s  %s  %s", cursor, dot, name, kcal, protein, cook)
}
