package views

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nutragenie/nutragenie/internal/nutrition"
	"github.com/nutragenie/nutragenie/internal/snapshot"
	"github.com/nutragenie/nutragenie/internal/tui/models"
)

// RunHome launches the home dashboard. When watchDir is set, the dashboard
// reloads whenever the snapshot files in it change.
func RunHome(ctx context.Context, store *snapshot.Store, watchDir string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var changes <-chan snapshot.Change
	if watchDir != "" {
		ch, err := models.WatchChanges(ctx, watchDir)
		if err != nil {
			return fmt.Errorf("watching %s: %w", watchDir, err)
		}
		changes = ch
	}

	model := models.NewHomeModel(store, changes, nutrition.Catalog())
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running home dashboard: %w", err)
	}
	return nil
}

// RenderProfile renders a profile summary as styled markdown for
// non-interactive output.
func RenderProfile(p snapshot.Profile, width int) string {
	if width < 40 {
		width = 80
	}
	return models.RenderMarkdown(models.ProfileMarkdown(p), width)
}
