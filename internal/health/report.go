package health

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nutragenie/nutragenie/internal/tui/styles"
)

var categoryLabels = map[string]string{
	CategoryConfig: "Configuration",
	CategoryStore:  "Snapshot Store",
	CategorySync:   "Key Sync",
	CategoryRemote: "Remote Record API",
}

func statusColor(s Status) lipgloss.Color {
	switch s {
	case StatusPass:
		return styles.StatusOK
	case StatusWarn:
		return styles.StatusWarn
	case StatusFail:
		return styles.StatusError
	default:
		return styles.TextMuted
	}
}

// FormatReport renders r for `nutragenie health`, grouped by category.
func FormatReport(r *Report) string {
	var b strings.Builder
	b.WriteString("\n  " + styles.Title.Render("NutraGenie Health Check") + "\n")
	b.WriteString("  " + styles.Divider(50) + "\n")

	name := lipgloss.NewStyle().Width(22).Foreground(styles.TextPrimary)
	msg := lipgloss.NewStyle().Width(40).Foreground(styles.TextSecondary)
	dur := lipgloss.NewStyle().Width(8).Foreground(styles.TextMuted).Align(lipgloss.Right)
	heading := lipgloss.NewStyle().Foreground(styles.AccentSecondary).Bold(true)

	for _, cat := range Categories() {
		var rows []string
		for _, res := range r.Results {
			if res.Category != cat {
				continue
			}
			mark := lipgloss.NewStyle().Foreground(statusColor(res.Status)).Bold(true).Render(res.Status.Symbol())
			rows = append(rows, fmt.Sprintf("  %s %s %s %s", mark,
				name.Render(res.Name),
				msg.Render(styles.TruncateWithEllipsis(res.Message, 38)),
				dur.Render(shortDuration(res.Duration))))
		}
		if len(rows) == 0 {
			continue
		}
		b.WriteString("\n  " + heading.Render(categoryLabels[cat]) + "\n")
		b.WriteString(strings.Join(rows, "\n") + "\n")
	}

	b.WriteString("\n  " + styles.Divider(50) + "\n")
	summary := fmt.Sprintf("%d/%d passed", r.Passed, r.Total)
	if r.Warned > 0 {
		summary += fmt.Sprintf(", %d warning(s)", r.Warned)
	}
	if r.Failed > 0 {
		summary += fmt.Sprintf(", %d failed", r.Failed)
	}

	verdict, color := "HEALTHY", styles.StatusOK
	switch {
	case r.Failed > 0:
		verdict, color = "UNHEALTHY", styles.StatusError
	case r.Warned > 0:
		verdict, color = "DEGRADED", styles.StatusWarn
	}
	b.WriteString("  " + styles.Subtitle.Render(summary) + "  " +
		lipgloss.NewStyle().Foreground(color).Bold(true).Render(verdict) + "\n")
	b.WriteString(styles.Dim("  completed in "+shortDuration(r.Duration)) + "\n")
	return b.String()
}

func shortDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return "<1ms"
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
}
