package views

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nutragenie/nutragenie/internal/tui/models"
)

// OnboardingResult tells the caller how the session ended.
type OnboardingResult struct {
	Finished bool
	Left     bool
}

// RunOnboarding launches the interactive onboarding TUI and blocks until the
// user finishes or leaves. startScreen may be empty to resume where the
// stored profile left off. When explain is true, every section shows a short
// annotation.
//
// Background remote pushes started during the session are waited for before
// returning.
func RunOnboarding(ctx context.Context, deps models.OnboardingDeps, startScreen string, explain bool) (OnboardingResult, error) {
	model, err := models.NewOnboardingModel(ctx, deps, startScreen, explain)
	if err != nil {
		return OnboardingResult{}, err
	}
	defer deps.Syncer.Wait()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		model.Close()
		return OnboardingResult{}, fmt.Errorf("onboarding failed: %w", err)
	}

	m, ok := final.(models.OnboardingModel)
	if !ok {
		return OnboardingResult{}, nil
	}
	m.Close()
	return OnboardingResult{Finished: m.Finished(), Left: m.Left()}, nil
}
