package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nutragenie/nutragenie/internal/tui/styles"
)

// ConfirmDialog is a modal yes/no question. Done is set once the user
// answers; Confirmed holds the answer.
type ConfirmDialog struct {
	Title     string
	Message   string
	YesLabel  string
	NoLabel   string
	Confirmed bool
	Done      bool
	yes       bool // yes button highlighted
}

// QuitDialog asks before leaving onboarding. Progress is already saved, so
// the message says where the user will resume. Stay is preselected.
func QuitDialog(resumeAt string) ConfirmDialog {
	return ConfirmDialog{
		Title:    "Leave onboarding?",
		Message:  "Your answers are saved. Next time you start at " + resumeAt + ".",
		YesLabel: "Leave",
		NoLabel:  "Stay",
	}
}

// Update answers on y/n/esc/enter and moves the highlight on arrows and tab.
func (d ConfirmDialog) Update(msg tea.Msg) (ConfirmDialog, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return d, nil
	}
	switch key.String() {
	case "y", "Y", "ctrl+c":
		d.Confirmed, d.Done = true, true
	case "n", "N", "esc":
		d.Confirmed, d.Done = false, true
	case "enter":
		d.Confirmed, d.Done = d.yes, true
	case "left", "h", "tab":
		d.yes = true
	case "right", "l", "shift+tab":
		d.yes = false
	}
	return d, nil
}

// View renders the dialog box.
// dialogInner is the text width inside the dialog's horizontal padding.
const dialogInner = 44

func (d ConfirmDialog) View() string {
	on := lipgloss.NewStyle().Background(styles.AccentPrimary).Foreground(styles.BgDeep).Bold(true).Padding(0, 2)
	off := lipgloss.NewStyle().Background(styles.BgSurface).Foreground(styles.TextSecondary).Padding(0, 2)
	yes, no := off, on
	if d.yes {
		yes, no = on, off
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		styles.Title.Render(d.Title),
		"",
		styles.Subtitle.Width(dialogInner).Align(lipgloss.Center).Render(d.Message),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center, yes.Render(d.YesLabel), "  ", no.Render(d.NoLabel)),
		"",
		styles.Dim("y/n or ←→ + enter"),
	)
	return lipgloss.NewStyle().
		Background(styles.BgPanel).
		Border(styles.RoundedBorder).
		BorderForeground(styles.AccentTertiary).
		Padding(1, 2).
		Width(dialogInner+4).
		Align(lipgloss.Center).
		Render(content)
}
