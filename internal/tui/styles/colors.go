package styles

import "github.com/charmbracelet/lipgloss"

// Kitchen Garden palette: dark soil backgrounds with leafy green accents.

var (
	// Backgrounds (darkest to lightest)
	BgDeep    = lipgloss.Color("#0f1410") // Main background
	BgPanel   = lipgloss.Color("#151c16") // Panel/card background
	BgSurface = lipgloss.Color("#1e2a20") // Elevated surface
	BgHover   = lipgloss.Color("#283a2b") // Selected row or option

	// Accents
	AccentPrimary   = lipgloss.Color("#6ee7a8") // Leaf green: focus, active section
	AccentSecondary = lipgloss.Color("#f4b860") // Squash: option sets, explain boxes
	AccentTertiary  = lipgloss.Color("#c084fc") // Beet: dialogs
	AccentGold      = lipgloss.Color("#facc15") // Corn: highlights, calories

	// Status
	StatusOK    = lipgloss.Color("#22c55e")
	StatusWarn  = lipgloss.Color("#f59e0b")
	StatusError = lipgloss.Color("#ef4444")
	StatusInfo  = lipgloss.Color("#6ee7a8")

	// Text
	TextPrimary   = lipgloss.Color("#ecfdf5")
	TextSecondary = lipgloss.Color("#a7b8aa")
	TextMuted     = lipgloss.Color("#6b7c6e")

	// Borders
	BorderNormal  = lipgloss.Color("#2f4032")
	BorderFocused = lipgloss.Color("#6ee7a8")
)
