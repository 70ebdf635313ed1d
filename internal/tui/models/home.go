package models

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/nutragenie/nutragenie/internal/nutrition"
	"github.com/nutragenie/nutragenie/internal/snapshot"
	"github.com/nutragenie/nutragenie/internal/tui/components"
	"github.com/nutragenie/nutragenie/internal/tui/styles"
)

// snapshotChangedMsg reports a store write seen by the watcher.
type snapshotChangedMsg snapshot.Change

const (
	panelDishes = iota
	panelProfile
)

// HomeModel is the dashboard shown after onboarding: the profile summary,
// per-meal macro targets and the dishes that fit the profile. It reloads
// whenever the snapshot files change on disk, so edits made by `nutragenie
// select` in another terminal show up immediately.
type HomeModel struct {
	store   *snapshot.Store
	changes <-chan snapshot.Change
	catalog []nutrition.Dish

	profile snapshot.Profile
	dishes  []nutrition.Dish
	swapped map[string]nutrition.Dish // dish id -> substituted copy

	cursor  int
	panel   int
	detail  bool
	swap    bool
	swapIn  textinput.Model
	notice  string
	profVP  viewport.Model
	reloads int

	width  int
	height int
}

// NewHomeModel builds the dashboard. changes may be nil when the store is
// not file backed.
func NewHomeModel(store *snapshot.Store, changes <-chan snapshot.Change, catalog []nutrition.Dish) HomeModel {
	ti := textinput.New()
	ti.Placeholder = "beef=tofu"
	ti.CharLimit = 64
	ti.Width = 32
	ti.PromptStyle = lipgloss.NewStyle().Foreground(styles.AccentPrimary)
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.TextPrimary)

	m := HomeModel{
		store:   store,
		changes: changes,
		catalog: catalog,
		swapped: make(map[string]nutrition.Dish),
		swapIn:  ti,
		profVP:  viewport.New(60, 14),
		width:   80,
		height:  40,
	}
	m.reload()
	return m
}

// WatchChanges starts a watcher on dir and returns its change channel. The
// watcher stops when ctx is done.
func WatchChanges(ctx context.Context, dir string) (<-chan snapshot.Change, error) {
	w, err := snapshot.NewWatcher(dir, nil)
	if err != nil {
		return nil, err
	}
	go func() {
		<-ctx.Done()
		w.Close()
	}()
	return w.Watch(ctx), nil
}

// Init starts listening for store changes.
func (m HomeModel) Init() tea.Cmd {
	return waitForChange(m.changes)
}

func waitForChange(ch <-chan snapshot.Change) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return nil
		}
		return snapshotChangedMsg(c)
	}
}

// Update processes messages and key events.
func (m HomeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = max(msg.Width, 60)
		m.height = msg.Height
		m.profVP.Width = clampWidth(m.width-6, 90)
		m.profVP.Height = max(m.height-12, 6)
		m.renderProfile()
		return m, nil

	case snapshotChangedMsg:
		if msg.Key == snapshot.KeyPermanent || msg.Key == snapshot.KeyPending {
			m.reload()
			m.notice = "profile updated"
		}
		return m, waitForChange(m.changes)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.panel == panelProfile {
		var cmd tea.Cmd
		m.profVP, cmd = m.profVP.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m HomeModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if m.swap {
		switch key {
		case "esc":
			m.swap = false
			m.swapIn.Blur()
			return m, nil
		case "enter":
			m.swap = false
			m.swapIn.Blur()
			m.applySwap(m.swapIn.Value())
			m.swapIn.SetValue("")
			return m, nil
		}
		var cmd tea.Cmd
		m.swapIn, cmd = m.swapIn.Update(msg)
		return m, cmd
	}

	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "tab":
		m.panel = (m.panel + 1) % 2
		return m, nil
	case "r":
		m.reload()
		m.notice = "reloaded"
		return m, nil
	}

	if m.panel == panelProfile {
		var cmd tea.Cmd
		m.profVP, cmd = m.profVP.Update(msg)
		return m, cmd
	}

	switch key {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.dishes)-1 {
			m.cursor++
		}
	case "enter":
		m.detail = !m.detail
	case "esc":
		m.detail = false
	case "s":
		if _, ok := m.selected(); ok {
			m.swap = true
			cmd := m.swapIn.Focus()
			return m, cmd
		}
	case "u":
		if d, ok := m.selected(); ok {
			delete(m.swapped, d.ID)
			m.notice = "original recipe restored"
		}
	}
	return m, nil
}

// View renders the dashboard.
func (m HomeModel) View() string {
	width := clampWidth(m.width-4, 96)
	var out []string
	out = append(out, components.Header{User: m.profile.DisplayName(), Screen: "Home", Width: m.width}.Render())
	out = append(out, components.TabBar{Tabs: []string{"Dishes", "Profile"}, ActiveTab: m.panel, Width: m.width}.Render())
	out = append(out, "")

	if m.panel == panelProfile {
		out = append(out, indent(m.profVP.View(), "  "))
	} else {
		out = append(out, indent(m.viewDishes(width), "  "))
	}

	if m.swap {
		out = append(out, "", "  "+styles.Label.Render("Swap ingredient (from=to): ")+m.swapIn.View())
	}
	if m.notice != "" {
		out = append(out, "", "  "+styles.Dim(m.notice))
	}
	out = append(out, "  "+styles.Divider(width))
	out = append(out, components.HomeFooter(m.width).Render())
	return lipgloss.JoinVertical(lipgloss.Left, out...)
}

func (m HomeModel) viewDishes(width int) string {
	var b strings.Builder

	targets := nutrition.DailyTargets(m.profile).PerMeal(m.profile.MealsPerDay)
	b.WriteString(styles.Subtitle.Render(fmt.Sprintf("Per meal (%d a day)", m.profile.MealsPerDay)) + "\n")

	d, ok := m.selected()
	var cal, protein, carbs, fat int
	if ok {
		cal, protein, carbs, fat = d.Calories, d.Protein(), d.CarbsGrams, d.FatGrams
	}
	gaugeW := clampWidth(width-36, 30)
	for _, g := range []components.MacroGauge{
		{Label: "Calories", Value: cal, Target: targets.Calories, Unit: "kcal", Width: gaugeW},
		{Label: "Protein", Value: protein, Target: targets.Protein, Unit: "g", Width: gaugeW},
		{Label: "Carbs", Value: carbs, Target: targets.Carbs, Unit: "g", Width: gaugeW},
		{Label: "Fat", Value: fat, Target: targets.Fat, Unit: "g", Width: gaugeW},
	} {
		b.WriteString(g.Render() + "\n")
	}
	b.WriteString("\n")

	if len(m.dishes) == 0 {
		b.WriteString(styles.Dim("No dishes match your profile yet. Run nutragenie onboard to finish your preferences.") + "\n")
		return b.String()
	}

	spread := make([]float64, len(m.dishes))
	for i, dish := range m.dishes {
		spread[i] = float64(dish.Calories)
	}
	b.WriteString(styles.Label.Render("Calories across your dishes ") +
		styles.Highlight(styles.Sparkline(spread, min(len(spread)*2, 24))) + "\n\n")

	for i := range m.dishes {
		card := components.DishCard{Dish: m.display(i), Selected: i == m.cursor}
		if m.detail && i == m.cursor {
			b.WriteString(card.Render() + "\n")
			continue
		}
		b.WriteString(card.RenderCompact() + "\n")
	}
	return b.String()
}

// reload re-reads the profile and recomputes the recommendations.
func (m *HomeModel) reload() {
	m.profile = m.store.Profile()
	m.dishes = nutrition.Recommend(m.profile, m.catalog)
	m.cursor = min(m.cursor, max(len(m.dishes)-1, 0))
	m.reloads++
	m.renderProfile()
}

func (m *HomeModel) renderProfile() {
	m.profVP.SetContent(RenderMarkdown(ProfileMarkdown(m.profile), m.profVP.Width))
}

func (m *HomeModel) applySwap(spec string) {
	d, ok := m.selected()
	if !ok {
		return
	}
	from, to, found := strings.Cut(spec, "=")
	if !found {
		m.notice = "use from=to, e.g. beef=tofu"
		return
	}
	out, err := nutrition.Substitute(d, from, to)
	if err != nil {
		m.notice = err.Error()
		return
	}
	m.swapped[d.ID] = out
	m.notice = fmt.Sprintf("%s: %d kcal, %s protein", out.Name, out.Calories, out.ProteinGrams)
}

// display returns dish i with any substitution applied.
func (m HomeModel) display(i int) nutrition.Dish {
	d := m.dishes[i]
	if s, ok := m.swapped[d.ID]; ok {
		return s
	}
	return d
}

func (m HomeModel) selected() (nutrition.Dish, bool) {
	if m.cursor < 0 || m.cursor >= len(m.dishes) {
		return nutrition.Dish{}, false
	}
	return m.display(m.cursor), true
}

// ProfileMarkdown summarises a profile for glamour rendering.
func ProfileMarkdown(p snapshot.Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", p.DisplayName())

	row := func(label, value string) {
		if value == "" {
			value = "_not set_"
		}
		fmt.Fprintf(&b, "| %s | %s |\n", label, value)
	}
	list := func(items []string) string {
		if len(items) == 0 {
			return ""
		}
		return strings.Join(items, ", ")
	}
	num := func(v float64, unit string) string {
		if v <= 0 {
			return ""
		}
		return fmt.Sprintf("%g %s", v, unit)
	}

	b.WriteString("## Account\n\n| | |\n|---|---|\n")
	row("Email", p.Email)
	row("Phone", p.Phone)
	row("ZIP", p.ZIP)

	b.WriteString("\n## Body\n\n| | |\n|---|---|\n")
	age := ""
	if p.Age > 0 {
		age = fmt.Sprint(p.Age)
	}
	row("Age", age)
	row("Height", num(p.HeightCM, "cm"))
	row("Weight", num(p.WeightKG, "kg"))
	if bmi := p.BMI(); bmi > 0 {
		row("BMI", fmt.Sprintf("%.1f", bmi))
	}

	b.WriteString("\n## Food\n\n| | |\n|---|---|\n")
	row("Diet", list(p.Restrictions))
	row("Health", list(p.Conditions))
	row("Allergies", p.Allergies)
	row("Goal", p.Goal)
	row("Cuisine", p.Cuisine)
	row("Skill", p.Skill)
	row("Max cook time", fmt.Sprintf("%d min", p.MaxCookMinutes))
	row("Meals per day", fmt.Sprint(p.MealsPerDay))

	t := nutrition.DailyTargets(p)
	fmt.Fprintf(&b, "\n> Daily target: **%d kcal**, %dg protein, %dg carbs, %dg fat\n", t.Calories, t.Protein, t.Carbs, t.Fat)
	return b.String()
}

// RenderMarkdown renders md for the terminal, falling back to the raw text.
func RenderMarkdown(md string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
