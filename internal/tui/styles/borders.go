package styles

import "github.com/charmbracelet/lipgloss"

// Dialogs and the active section use rounded corners; inputs and dish cards
// use square ones.
var (
	RoundedBorder = lipgloss.RoundedBorder()
	ThinBorder    = lipgloss.NormalBorder()
)
