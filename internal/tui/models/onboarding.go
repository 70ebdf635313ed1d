package models

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nutragenie/nutragenie/internal/conflict"
	"github.com/nutragenie/nutragenie/internal/metrics"
	"github.com/nutragenie/nutragenie/internal/onboarding"
	"github.com/nutragenie/nutragenie/internal/remote"
	"github.com/nutragenie/nutragenie/internal/tui/components"
	"github.com/nutragenie/nutragenie/internal/tui/styles"
	"github.com/nutragenie/nutragenie/internal/wizard"
)

// OnboardingDeps wires the onboarding model to persistence.
type OnboardingDeps struct {
	Syncer  *remote.Syncer
	Tables  conflict.Tables
	Metrics *metrics.Metrics
	Logger  *slog.Logger
	Gate    wizard.GatePolicy
	Delay   time.Duration
}

// ---------------------------------------------------------------------------
// OnboardingModel
// ---------------------------------------------------------------------------

// OnboardingModel implements tea.Model for `nutragenie onboard`. It shows
// one onboarding screen at a time, each a wizard of gated sections:
//
//	signup   -- account, location, body
//	dietary  -- diet, health, goal
//	recipes  -- cuisine, cooking
//
// Every edit goes through the screen's onboarding.Binding, which saves it
// before the key press is finished. Leaving early loses nothing; the next
// run resumes at the first unfinished section.
type OnboardingModel struct {
	ctx  context.Context
	deps OnboardingDeps

	screens []onboarding.Screen
	current int
	done    map[int]bool

	binding *onboarding.Binding
	sched   *tickScheduler
	events  *eventSink

	// Per field of the current screen, keyed by onboarding.Key.
	inputs  map[string]textinput.Model
	cursors map[string]int
	field   int // focused field within the active section

	spin     spinner.Model
	spinning bool // a spinner tick is in flight

	activity  components.LogStream
	notice    string
	noticeErr bool
	user      string
	savedAt   time.Time

	confirmQuit bool
	quitDialog  components.ConfirmDialog
	explain     bool
	finished    bool
	left        bool

	width  int
	height int
}

// NewOnboardingModel opens startScreen, or the first screen the stored
// profile has not finished when startScreen is empty.
func NewOnboardingModel(ctx context.Context, deps OnboardingDeps, startScreen string, explain bool) (OnboardingModel, error) {
	if deps.Syncer == nil {
		return OnboardingModel{}, errors.New("onboarding needs a syncer")
	}
	if deps.Tables == nil {
		deps.Tables = conflict.Builtin()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.AccentPrimary)

	screens := onboarding.Screens(deps.Tables)
	profile := deps.Syncer.Store().Profile()

	m := OnboardingModel{
		ctx:      ctx,
		deps:     deps,
		screens:  screens,
		done:     make(map[int]bool),
		sched:    newTickScheduler(),
		events:   &eventSink{},
		spin:     sp,
		activity: components.NewLogStream(72, 5),
		user:     profile.DisplayName(),
		explain:  explain,
		width:    80,
		height:   40,
	}
	for i, s := range screens {
		m.done[i] = profile.Onboarded(s.SectionIDs()...)
	}

	id := startScreen
	if id == "" {
		id = onboarding.NextScreen(screens, profile)
	}
	start := 0
	if id != "" {
		if _, err := onboarding.FindScreen(screens, id); err != nil {
			return OnboardingModel{}, err
		}
		for i, s := range screens {
			if s.ID == id {
				start = i
			}
		}
	}
	if err := m.openScreen(start); err != nil {
		return OnboardingModel{}, err
	}
	return m, nil
}

// Left reports whether the user quit before finishing every screen.
func (m OnboardingModel) Left() bool { return m.left }

// Finished reports whether every screen was completed in this run.
func (m OnboardingModel) Finished() bool { return m.finished }

// Close cancels any pending auto-advance of the open screen.
func (m OnboardingModel) Close() {
	if m.binding != nil {
		m.binding.Wizard().Close()
	}
}

// ---------------------------------------------------------------------------
// tea.Model interface
// ---------------------------------------------------------------------------

// Init focuses the first field.
func (m OnboardingModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update processes messages and key events.
func (m OnboardingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = max(msg.Width, 60)
		m.height = msg.Height
		m.activity.SetSize(clampWidth(m.width-6, 96), 5)
		return m, nil

	case scheduledMsg:
		m.sched.fire(msg.id)
		return m.afterChange(nil)

	case spinner.TickMsg:
		if !m.advancing() {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Cursor blink and friends go to the focused text input.
	if key, ok := m.focusedInputKey(); ok {
		in, cmd := m.inputs[key].Update(msg)
		m.inputs[key] = in
		return m, cmd
	}
	return m, nil
}

// View renders the current screen.
func (m OnboardingModel) View() string {
	if m.confirmQuit {
		return lipgloss.Place(m.width, max(m.height, 12), lipgloss.Center, lipgloss.Center, m.quitDialog.View())
	}
	if m.finished {
		return m.viewFinished()
	}

	w := m.wizard()
	screen := m.screens[m.current]
	width := clampWidth(m.width-4, 96)

	status, failed := m.saveStatus()
	var out []string
	out = append(out, components.Header{
		User:   m.user,
		Screen: screen.Title,
		Status: status,
		Failed: failed,
		Width:  m.width,
	}.Render())
	out = append(out, m.renderTabs())
	out = append(out, "")
	out = append(out, "  "+m.renderProgress())
	out = append(out, "  "+styles.Divider(width))

	if m.explain {
		if text := m.explainContent(); text != "" {
			boxStyle := lipgloss.NewStyle().
				Background(styles.BgSurface).
				Foreground(styles.AccentSecondary).
				Border(styles.ThinBorder).
				BorderForeground(styles.AccentSecondary).
				Padding(0, 1).
				Width(width - 2)
			out = append(out, "  "+boxStyle.Render(styles.Highlight("[explain] ")+text))
		}
	}

	active := w.ActiveSection()
	for i, sec := range w.Sections() {
		if sec == active {
			out = append(out, indent(m.viewActiveSection(sec, width), "  "))
			continue
		}
		out = append(out, "  "+m.viewCollapsedSection(i, sec))
	}

	if m.notice != "" {
		style := lipgloss.NewStyle().Foreground(styles.StatusInfo)
		if m.noticeErr {
			style = style.Foreground(styles.StatusWarn)
		}
		out = append(out, "", "  "+style.Render(m.notice))
	}

	if w.Done() {
		next := "finish"
		if m.current < len(m.screens)-1 {
			next = "continue to " + m.screens[m.current+1].Title
		}
		out = append(out, "", "  "+styles.ValidText.Render("All sections done.")+" "+styles.Dim("Press enter to "+next+"."))
	}

	if m.activity.Len() > 0 {
		out = append(out, "", indent(m.activity.View(), "  "))
	}

	out = append(out, "  "+styles.Divider(width))
	out = append(out, m.renderFooter())
	return lipgloss.JoinVertical(lipgloss.Left, out...)
}

// ---------------------------------------------------------------------------
// Key handling
// ---------------------------------------------------------------------------

func (m OnboardingModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Quit dialog takes priority.
	if m.confirmQuit {
		d, _ := m.quitDialog.Update(msg)
		m.quitDialog = d
		if d.Done {
			m.confirmQuit = false
			if d.Confirmed {
				m.left = true
				return m, tea.Quit
			}
		}
		return m, nil
	}

	switch key {
	case "ctrl+c":
		m.left = !m.finished
		return m, tea.Quit
	case "esc":
		if m.finished {
			return m, tea.Quit
		}
		m.confirmQuit = true
		m.quitDialog = components.QuitDialog(m.resumeLabel())
		return m, nil
	case "ctrl+e":
		m.explain = !m.explain
		return m, nil
	}

	if m.finished {
		if key == "enter" || key == "q" {
			return m, tea.Quit
		}
		return m, nil
	}

	w := m.wizard()
	switch key {
	case "tab":
		return m.moveField(1)
	case "shift+tab":
		return m.moveField(-1)
	case "ctrl+down", "pgdown":
		return m.moveSection(1)
	case "ctrl+up", "pgup":
		return m.moveSection(-1)
	case "ctrl+n":
		if !w.Done() {
			m.setNotice("Finish this screen before moving on", true)
			return m, nil
		}
		return m.nextScreen()
	case "ctrl+p":
		if m.current == 0 {
			return m, nil
		}
		if err := m.openScreen(m.current - 1); err != nil {
			m.setNotice(err.Error(), true)
			return m, nil
		}
		return m.afterChange(textinput.Blink)
	case "enter":
		if w.Done() {
			return m.nextScreen()
		}
		return m.confirm()
	}

	sec, f := m.focusedField()
	if f == nil {
		return m, nil
	}
	if len(f.Spec().Options) > 0 {
		return m.handleOptionKey(key, sec, f)
	}
	return m.handleTextKey(msg, sec, f)
}

func (m OnboardingModel) handleTextKey(msg tea.KeyMsg, sec *wizard.Section, f *wizard.Field) (tea.Model, tea.Cmd) {
	key := onboarding.Key(sec.ID(), f.Name())
	in, cmd := m.inputs[key].Update(msg)
	if in.Value() != f.Value() {
		if err := m.wizard().Set(sec.ID(), f.Name(), in.Value()); err != nil {
			in.SetValue(f.Value())
			m.setNotice(err.Error(), true)
		}
	}
	m.inputs[key] = in
	return m.afterChange(cmd)
}

func (m OnboardingModel) handleOptionKey(key string, sec *wizard.Section, f *wizard.Field) (tea.Model, tea.Cmd) {
	options := f.Spec().Options
	ck := onboarding.Key(sec.ID(), f.Name())
	cur := m.cursors[ck]

	switch key {
	case "up", "k":
		m.cursors[ck] = max(cur-1, 0)
		return m, nil
	case "down", "j":
		m.cursors[ck] = min(cur+1, len(options)-1)
		return m, nil
	case " ", "x":
	default:
		return m, nil
	}

	option := options[cur]
	if f.Spec().Multi {
		removed, err := m.binding.Toggle(sec.ID(), f.Name(), option)
		if err != nil {
			m.setNotice(err.Error(), true)
			return m.afterChange(nil)
		}
		if len(removed) > 0 {
			m.addLog("warn", sec.ID(), fmt.Sprintf("%s replaced %s", option, strings.Join(removed, ", ")))
		}
		return m.afterChange(nil)
	}
	if err := m.wizard().Set(sec.ID(), f.Name(), option); err != nil {
		m.setNotice(err.Error(), true)
	}
	return m.afterChange(nil)
}

// moveField blurs the focused field, which reveals its error, and focuses
// the next one in the active section.
func (m OnboardingModel) moveField(delta int) (tea.Model, tea.Cmd) {
	sec, f := m.focusedField()
	if f == nil {
		return m, nil
	}
	_ = m.wizard().Blur(sec.ID(), f.Name())
	n := len(sec.Fields())
	m.field = ((m.field+delta)%n + n) % n
	cmd := m.focusField()
	return m, cmd
}

func (m OnboardingModel) moveSection(delta int) (tea.Model, tea.Cmd) {
	w := m.wizard()
	target := w.Active() + delta
	if target < 0 || target >= w.Len() {
		return m, nil
	}
	// A locked target emits EventBlocked, which sets the notice.
	_ = w.Focus(w.Sections()[target].ID())
	return m.afterChange(nil)
}

func (m OnboardingModel) confirm() (tea.Model, tea.Cmd) {
	w := m.wizard()
	sec := w.ActiveSection()
	if _, f := m.focusedField(); f != nil {
		_ = w.Blur(sec.ID(), f.Name())
	}

	err := w.Confirm(sec.ID())
	var ce *wizard.ConfirmationError
	switch {
	case errors.As(err, &ce):
		var labels []string
		for _, name := range ce.Fields {
			if f, ok := sec.Field(name); ok {
				labels = append(labels, f.Label())
			}
		}
		m.setNotice("Check "+strings.Join(labels, ", ")+" before confirming", true)
	case errors.Is(err, wizard.ErrSectionLocked):
	case err != nil:
		m.setNotice(err.Error(), true)
	default:
		m.setNotice(sec.Title()+" confirmed", false)
	}
	return m.afterChange(nil)
}

func (m OnboardingModel) nextScreen() (tea.Model, tea.Cmd) {
	if err := m.confirmRemaining(); err != nil {
		m.setNotice(err.Error(), true)
		return m.afterChange(nil)
	}
	m.done[m.current] = true
	if m.current+1 >= len(m.screens) {
		m.finished = true
		m.Close()
		return m, nil
	}
	if err := m.openScreen(m.current + 1); err != nil {
		m.setNotice(err.Error(), true)
		return m, nil
	}
	return m.afterChange(textinput.Blink)
}

// confirmRemaining confirms every section the gate let through without a
// confirmation. Under the complete policy a screen can be left that way, and
// the stored flags are what later runs resume from.
func (m OnboardingModel) confirmRemaining() error {
	w := m.wizard()
	for _, sec := range w.Sections() {
		if sec.Confirmed() {
			continue
		}
		if err := w.Confirm(sec.ID()); err != nil {
			return fmt.Errorf("confirm %s: %w", sec.Title(), err)
		}
	}
	return nil
}

// afterChange applies the wizard events produced by the last call and turns
// newly scheduled advances into tick commands.
func (m OnboardingModel) afterChange(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	w := m.wizard()
	refocus := false
	events := m.events.drain()
	for _, e := range events {
		switch e.Kind {
		case wizard.EventFieldChanged:
			if e.Section == "account" {
				m.user = m.deps.Syncer.Store().Profile().DisplayName()
			}
		case wizard.EventConfirmed:
			m.addLog("success", e.Section, "confirmed and saved")
		case wizard.EventUnconfirmed:
			m.addLog("warn", e.Section, "changed after confirming, confirm again")
		case wizard.EventAdvanced:
			m.addLog("info", e.Section, "now editing "+m.sectionTitle(e.Section))
			refocus = true
		case wizard.EventFocused:
			refocus = true
		case wizard.EventBlocked:
			msg := fmt.Sprintf("%s is locked. Finish %s first", m.sectionTitle(e.Section), m.sectionTitle(e.Blocking))
			m.setNotice(msg, true)
			m.addLog("warn", e.Section, "locked by "+e.Blocking)
		}
	}
	if len(events) > 0 && m.binding.Err() == nil {
		m.savedAt = time.Now()
	}
	m.done[m.current] = w.Done()

	cmds := []tea.Cmd{cmd}
	if refocus {
		m.field = 0
		cmds = append(cmds, m.focusField())
	}
	cmds = append(cmds, m.sched.cmds()...)
	if m.advancing() && !m.spinning {
		m.spinning = true
		cmds = append(cmds, m.spin.Tick)
	}
	return m, tea.Batch(cmds...)
}

// advancing reports whether a confirmed section is waiting to auto-advance.
func (m OnboardingModel) advancing() bool {
	w := m.wizard()
	for _, sec := range w.Sections() {
		if w.PendingAdvance(sec.ID()) {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Screen and field state
// ---------------------------------------------------------------------------

// openScreen binds a fresh wizard for screen i, restored from the store.
func (m *OnboardingModel) openScreen(i int) error {
	if m.binding != nil {
		m.binding.Wizard().Close()
	}
	screen := m.screens[i]
	w, err := screen.NewWizard(
		wizard.WithGate(m.deps.Gate),
		wizard.WithAdvanceDelay(m.deps.Delay),
		wizard.WithScheduler(m.sched),
		wizard.WithListener(m.events.listen),
	)
	if err != nil {
		return err
	}
	b, err := onboarding.Bind(m.ctx, screen, w, m.deps.Syncer,
		onboarding.WithBindLogger(m.deps.Logger),
		onboarding.WithBindMetrics(m.deps.Metrics),
		onboarding.WithTables(m.deps.Tables),
	)
	if err != nil {
		return err
	}
	m.binding = b
	m.current = i
	m.field = 0
	m.notice = ""
	m.buildInputs()
	m.focusField()
	return nil
}

func (m *OnboardingModel) buildInputs() {
	m.inputs = make(map[string]textinput.Model)
	m.cursors = make(map[string]int)
	for _, sec := range m.wizard().Sections() {
		for _, f := range sec.Fields() {
			key := onboarding.Key(sec.ID(), f.Name())
			if options := f.Spec().Options; len(options) > 0 {
				m.cursors[key] = 0
				for j, opt := range options {
					if conflict.NewSet(f.Items()...).Contains(opt) || f.Value() == opt {
						m.cursors[key] = j
						break
					}
				}
				continue
			}
			ti := textinput.New()
			ti.Placeholder = f.Label()
			ti.CharLimit = 200
			ti.Width = 40
			ti.PromptStyle = lipgloss.NewStyle().Foreground(styles.AccentPrimary)
			ti.TextStyle = lipgloss.NewStyle().Foreground(styles.TextPrimary)
			ti.Cursor.Style = lipgloss.NewStyle().Foreground(styles.AccentPrimary)
			ti.SetValue(f.Value())
			m.inputs[key] = ti
		}
	}
}

// focusField gives keyboard focus to the field at m.field in the active
// section and takes it from every other input.
func (m *OnboardingModel) focusField() tea.Cmd {
	for key, in := range m.inputs {
		in.Blur()
		m.inputs[key] = in
	}
	key, ok := m.focusedInputKey()
	if !ok {
		return nil
	}
	in := m.inputs[key]
	cmd := in.Focus()
	m.inputs[key] = in
	return cmd
}

func (m OnboardingModel) wizard() *wizard.Wizard { return m.binding.Wizard() }

func (m OnboardingModel) focusedField() (*wizard.Section, *wizard.Field) {
	sec := m.wizard().ActiveSection()
	if sec == nil {
		return nil, nil
	}
	fields := sec.Fields()
	if len(fields) == 0 {
		return sec, nil
	}
	return sec, fields[min(m.field, len(fields)-1)]
}

func (m OnboardingModel) focusedInputKey() (string, bool) {
	sec, f := m.focusedField()
	if f == nil {
		return "", false
	}
	key := onboarding.Key(sec.ID(), f.Name())
	_, ok := m.inputs[key]
	return key, ok
}

func (m OnboardingModel) sectionTitle(id string) string {
	if sec, ok := m.wizard().Section(id); ok {
		return sec.Title()
	}
	return id
}

func (m OnboardingModel) resumeLabel() string {
	title := m.screens[m.current].Title
	if sec := m.wizard().ActiveSection(); sec != nil {
		title += " › " + sec.Title()
	}
	return title
}

func (m *OnboardingModel) setNotice(text string, isErr bool) {
	m.notice = text
	m.noticeErr = isErr
}

func (m *OnboardingModel) addLog(level, source, message string) {
	m.activity.AddLine(components.LogLine{
		Time:    time.Now(),
		Level:   level,
		Source:  source,
		Message: message,
	})
}

func (m OnboardingModel) saveStatus() (string, bool) {
	if err := m.binding.Err(); err != nil {
		return "save failed", true
	}
	if m.savedAt.IsZero() {
		return "", false
	}
	return "saved " + m.savedAt.Format("15:04:05"), false
}

// ---------------------------------------------------------------------------
// View renderers
// ---------------------------------------------------------------------------

func (m OnboardingModel) renderTabs() string {
	tabs := make([]string, len(m.screens))
	for i, s := range m.screens {
		tabs[i] = s.Title
	}
	return components.TabBar{
		Tabs:      tabs,
		ActiveTab: m.current,
		Done:      m.done,
		Width:     m.width,
	}.Render()
}

func (m OnboardingModel) renderProgress() string {
	w := m.wizard()
	steps := make([]components.Step, 0, w.Len())
	for i, sec := range w.Sections() {
		state := components.StepPending
		switch {
		case i == w.Active():
			state = components.StepActive
			if sec.NeedsReconfirm() {
				state = components.StepReconfirm
			}
		case sec.Confirmed():
			state = components.StepDone
		case sec.NeedsReconfirm():
			state = components.StepReconfirm
		case !w.Interactable(i):
			state = components.StepLocked
		}
		steps = append(steps, components.Step{Label: sec.Title(), State: state})
	}
	return components.ProgressStep{Steps: steps, Width: m.width}.Render()
}

func (m OnboardingModel) viewActiveSection(sec *wizard.Section, width int) string {
	w := m.wizard()
	var parts []string
	parts = append(parts, styles.Title.Render(sec.Title()))

	for i, f := range sec.Fields() {
		key := onboarding.Key(sec.ID(), f.Name())
		focused := i == m.field
		if options := f.Spec().Options; len(options) > 0 {
			selected := make(map[string]bool)
			for _, item := range f.Items() {
				selected[item] = true
			}
			list := components.OptionList{
				Label:    f.Label(),
				Options:  options,
				Selected: selected,
				Cursor:   m.cursors[key],
				Focused:  focused,
				Error:    f.VisibleError(),
			}
			if t, ok := m.screens[m.current].Table(m.deps.Tables, sec.ID(), f.Name()); ok {
				list.Sentinel = t.Sentinel
			}
			parts = append(parts, list.Render())
			continue
		}
		parts = append(parts, components.FieldInput{
			Label:    f.Label(),
			Input:    m.inputs[key].View(),
			Required: f.Required(),
			Focused:  focused,
			Touched:  f.Touched(),
			Valid:    f.IsValid(),
			Error:    f.VisibleError(),
			Width:    min(width-4, 60),
		}.Render())
	}

	var status string
	switch {
	case sec.Confirmed() && w.PendingAdvance(sec.ID()):
		status = styles.ValidText.Render("✓ Confirmed") + " " + m.spin.View() + styles.Dim(" moving on")
	case sec.Confirmed():
		status = styles.ValidText.Render("✓ Confirmed")
	case sec.NeedsReconfirm():
		status = lipgloss.NewStyle().Foreground(styles.StatusWarn).Render("Changed since you confirmed. Press enter to confirm again.")
	case sec.IsComplete():
		status = styles.Accent("Press enter to confirm " + strings.ToLower(sec.Title()))
	default:
		status = styles.Dim("Fill in the required fields, then press enter")
	}
	parts = append(parts, "", status)

	return styles.PanelFocused.Width(width - 2).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m OnboardingModel) viewCollapsedSection(i int, sec *wizard.Section) string {
	w := m.wizard()
	title := lipgloss.NewStyle().Foreground(styles.TextSecondary).Width(12).Render(sec.Title())
	if !w.Interactable(i) {
		blocker := ""
		if b, ok := w.Blocking(i); ok {
			blocker = " until " + b.Title() + " is done"
		}
		return styles.LockedText.Render("⊘ ") + title + styles.LockedText.Render("locked"+blocker)
	}

	var values []string
	for _, f := range sec.Fields() {
		if v := strings.TrimSpace(f.Value()); v != "" {
			values = append(values, v)
		}
	}
	summary := styles.Dim("not started")
	if len(values) > 0 {
		summary = styles.Value.Render(styles.TruncateWithEllipsis(strings.Join(values, " · "), 56))
	}
	mark := styles.Dim("○ ")
	switch {
	case sec.Confirmed():
		mark = styles.ValidText.Render("● ")
	case sec.NeedsReconfirm():
		mark = lipgloss.NewStyle().Foreground(styles.StatusWarn).Render("◐ ")
	}
	return mark + title + summary
}

func (m OnboardingModel) viewFinished() string {
	var b strings.Builder
	b.WriteString("\n  " + lipgloss.NewStyle().Foreground(styles.StatusOK).Bold(true).Render("You're all set, "+m.user+"!") + "\n\n")
	b.WriteString("  " + styles.Dim("Your profile is saved on this device") + "\n")
	if m.deps.Syncer.Client() != nil {
		b.WriteString("  " + styles.Dim("and is being synced to your account.") + "\n")
	}
	next := lipgloss.NewStyle().Foreground(styles.AccentPrimary).Bold(true).Render("nutragenie home")
	b.WriteString("\n  Run " + next + " to see your dishes.\n\n")
	b.WriteString("  Press Enter to exit.\n")
	return b.String()
}

func (m OnboardingModel) renderFooter() string {
	if _, f := m.focusedField(); f != nil && len(f.Spec().Options) > 0 {
		return components.OptionFooter(m.width).Render()
	}
	return components.OnboardingFooter(m.width).Render()
}

// ---------------------------------------------------------------------------
// Explain content per section
// ---------------------------------------------------------------------------

var sectionExplain = map[string]string{
	"account":      "Your name and email identify your profile. The phone number is optional and only used for reminders.",
	"location":     "Your ZIP code lets us suggest seasonal ingredients available near you.",
	"body":         "Age, height and weight give a rough daily calorie target. Nothing here is shared.",
	"restrictions": "Pick every diet you follow. Choices that cannot go together replace each other, and \"none\" clears the rest.",
	"health":       "Conditions adjust which dishes we recommend. List allergies separated by commas.",
	"goal":         "Your goal shifts the calorie target down to lose weight or up to gain it.",
	"cuisine":      "Dishes from your favourite cuisine are listed first.",
	"cooking":      "We hide dishes above your skill level or longer than your maximum cook time.",
}

func (m OnboardingModel) explainContent() string {
	screen := m.screens[m.current]
	text := screen.Intro
	if sec := m.wizard().ActiveSection(); sec != nil {
		if extra, ok := sectionExplain[sec.ID()]; ok {
			text += " " + extra
		}
	}
	if m.deps.Gate == wizard.GateComplete {
		text += " Sections unlock as soon as the previous one is complete."
	} else {
		text += " Sections unlock once the previous one is confirmed."
	}
	return text
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func indent(block, prefix string) string {
	lines := strings.Split(block, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

func clampWidth(val, max int) int {
	if val > max {
		return max
	}
	if val < 10 {
		return 10
	}
	return val
}
