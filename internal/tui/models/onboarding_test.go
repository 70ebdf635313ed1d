package models

import (
	"context"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutragenie/nutragenie/internal/conflict"
	"github.com/nutragenie/nutragenie/internal/nutrition"
	"github.com/nutragenie/nutragenie/internal/onboarding"
	"github.com/nutragenie/nutragenie/internal/remote"
	"github.com/nutragenie/nutragenie/internal/snapshot"
	"github.com/nutragenie/nutragenie/internal/wizard"
)

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func keyOf(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func newOnboarding(t *testing.T, store *snapshot.Store, screen string) OnboardingModel {
	t.Helper()
	m, err := NewOnboardingModel(context.Background(), OnboardingDeps{
		Syncer: remote.NewSyncer(store, nil),
		Tables: conflict.Builtin(),
		Delay:  500 * time.Millisecond,
	}, screen, false)
	require.NoError(t, err)
	t.Cleanup(m.Close)
	return m
}

func send(m OnboardingModel, msgs ...tea.Msg) (OnboardingModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(OnboardingModel)
	}
	return m, cmd
}

// fireAll delivers every pending auto-advance as if its tick had elapsed.
func fireAll(m OnboardingModel) OnboardingModel {
	for _, id := range m.sched.pending() {
		m, _ = send(m, scheduledMsg{id: id})
	}
	return m
}

func memStore() *snapshot.Store {
	return snapshot.NewStore(snapshot.NewMemoryBackend())
}

func TestOnboarding_SignupFlow(t *testing.T) {
	store := memStore()
	m := newOnboarding(t, store, "")
	require.Equal(t, onboarding.ScreenSignup, m.screens[m.current].ID)
	assert.Equal(t, "account", m.wizard().ActiveSection().ID())

	m, _ = send(m, runes("Ada Lovelace"))
	name, _ := store.Load().Get(snapshot.KeyName)
	assert.Equal(t, "Ada Lovelace", name, "each edit is saved before the key press returns")
	assert.Equal(t, "Ada Lovelace", m.user)

	m, _ = send(m, keyOf(tea.KeyEnter))
	assert.Contains(t, m.notice, "Check Email")
	assert.True(t, m.noticeErr)
	assert.False(t, m.wizard().ActiveSection().Confirmed())

	m, _ = send(m, keyOf(tea.KeyTab), runes("ada@example.com"), keyOf(tea.KeyEnter))
	assert.Equal(t, "Account confirmed", m.notice)
	assert.Len(t, m.sched.pending(), 1)
	assert.True(t, m.spinning)
	assert.Equal(t, 0, m.wizard().Active(), "advance waits for the tick")
	assert.Contains(t, m.View(), "moving on")

	m = fireAll(m)
	assert.Equal(t, "location", m.wizard().ActiveSection().ID())
	assert.Equal(t, 0, m.field)
	assert.True(t, store.Load().Confirmed["account"])

	last, ok := m.activity.Last()
	require.True(t, ok)
	assert.Equal(t, "now editing Location", last.Message)

	m, _ = send(m, spinner.TickMsg{})
	assert.False(t, m.spinning, "spinner stops once nothing is pending")
}

func TestOnboarding_EditCancelsAdvance(t *testing.T) {
	m := newOnboarding(t, memStore(), onboarding.ScreenSignup)
	m, _ = send(m, runes("Ada"), keyOf(tea.KeyTab), runes("ada@example.com"), keyOf(tea.KeyEnter))
	ids := m.sched.pending()
	require.Len(t, ids, 1)

	m, _ = send(m, runes("m"))
	assert.Empty(t, m.sched.pending())
	sec := m.wizard().ActiveSection()
	assert.False(t, sec.Confirmed())
	assert.True(t, sec.NeedsReconfirm())

	m, _ = send(m, scheduledMsg{id: ids[0]})
	assert.Equal(t, "account", m.wizard().ActiveSection().ID(), "a cancelled advance never fires")

	last, ok := m.activity.Last()
	require.True(t, ok)
	assert.Equal(t, "changed after confirming, confirm again", last.Message)
}

func TestOnboarding_LockedSection(t *testing.T) {
	m := newOnboarding(t, memStore(), onboarding.ScreenSignup)
	m, _ = send(m, keyOf(tea.KeyPgDown))
	assert.Equal(t, "Location is locked. Finish Account first", m.notice)
	assert.Equal(t, "account", m.wizard().ActiveSection().ID())
	assert.Contains(t, m.View(), "locked until Account is done")
}

func TestOnboarding_BlurRevealsError(t *testing.T) {
	m := newOnboarding(t, memStore(), onboarding.ScreenSignup)
	_, f := m.focusedField()
	require.Equal(t, "name", f.Name())
	assert.Empty(t, f.VisibleError())

	m, _ = send(m, keyOf(tea.KeyTab))
	sec := m.wizard().ActiveSection()
	name, _ := sec.Field("name")
	assert.NotEmpty(t, name.VisibleError())
	assert.Equal(t, 1, m.field)

	m, _ = send(m, keyOf(tea.KeyShiftTab))
	assert.Equal(t, 0, m.field)
}

func TestOnboarding_DietaryConflicts(t *testing.T) {
	store := memStore()
	m := newOnboarding(t, store, onboarding.ScreenDietary)
	require.Equal(t, "restrictions", m.wizard().ActiveSection().ID())

	m, _ = send(m, runes("x"))
	assert.Equal(t, []string{"vegan"}, store.Load().List(snapshot.KeyRestrictions))

	m, _ = send(m, runes("j"), runes("j"), runes("j"))
	require.Equal(t, "keto", conflict.DietaryTable().Options[m.cursors[onboarding.Key("restrictions", "selected")]])
	m, _ = send(m, runes("x"))
	assert.Equal(t, []string{"keto"}, store.Load().List(snapshot.KeyRestrictions))

	last, ok := m.activity.Last()
	require.True(t, ok)
	assert.Equal(t, "keto replaced vegan", last.Message)

	m, _ = send(m, keyOf(tea.KeyEnter))
	m = fireAll(m)
	assert.Equal(t, "health", m.wizard().ActiveSection().ID())
}

func TestOnboarding_SingleChoice(t *testing.T) {
	store := memStore()
	_, err := store.Save(snapshot.New().
		SetList(snapshot.KeyRestrictions, []string{conflict.None}).
		SetList(snapshot.KeyConditions, []string{conflict.None}).
		Confirm("restrictions", true).
		Confirm("health", true))
	require.NoError(t, err)

	m := newOnboarding(t, store, onboarding.ScreenDietary)
	require.Equal(t, "goal", m.wizard().ActiveSection().ID())

	m, _ = send(m, runes("j"), runes("x"))
	goal, _ := store.Load().Get(snapshot.KeyGoal)
	assert.Equal(t, "maintain", goal)

	m, _ = send(m, runes("k"), runes("x"))
	goal, _ = store.Load().Get(snapshot.KeyGoal)
	assert.Equal(t, "lose", goal)
}

func TestOnboarding_NextScreenNeedsDone(t *testing.T) {
	m := newOnboarding(t, memStore(), onboarding.ScreenSignup)
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyCtrlN})
	assert.Equal(t, "Finish this screen before moving on", m.notice)
	assert.Equal(t, 0, m.current)
}

func recipesDone(t *testing.T) *snapshot.Store {
	t.Helper()
	store := memStore()
	_, err := store.Save(snapshot.New().
		Set(snapshot.KeyCuisine, nutrition.Cuisines()[0]).
		Set(snapshot.KeySkill, string(nutrition.Easy)).
		Set(snapshot.KeyCookTime, "30").
		Set(snapshot.KeyMeals, "3").
		Confirm("cuisine", true).
		Confirm("cooking", true))
	require.NoError(t, err)
	return store
}

func TestOnboarding_Finish(t *testing.T) {
	m := newOnboarding(t, recipesDone(t), onboarding.ScreenRecipes)
	require.True(t, m.wizard().Done())
	assert.True(t, m.done[m.current])
	assert.Contains(t, m.View(), "All sections done")

	m, _ = send(m, keyOf(tea.KeyEnter))
	assert.True(t, m.Finished())
	assert.False(t, m.Left())
	assert.Contains(t, m.View(), "You're all set")

	_, cmd := send(m, keyOf(tea.KeyEnter))
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestOnboarding_PreviousScreen(t *testing.T) {
	m := newOnboarding(t, memStore(), onboarding.ScreenDietary)
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyCtrlP})
	assert.Equal(t, onboarding.ScreenSignup, m.screens[m.current].ID)

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyCtrlP})
	assert.Equal(t, 0, m.current)
}

func TestOnboarding_QuitDialog(t *testing.T) {
	m := newOnboarding(t, memStore(), onboarding.ScreenSignup)

	m, _ = send(m, keyOf(tea.KeyEsc))
	require.True(t, m.confirmQuit)
	assert.Contains(t, m.View(), "Leave onboarding?")
	assert.Equal(t, "Create your account › Account", m.resumeLabel())

	m, _ = send(m, runes("n"))
	assert.False(t, m.confirmQuit)
	assert.False(t, m.Left())

	m, cmd := send(m, keyOf(tea.KeyEsc), runes("y"))
	assert.True(t, m.Left())
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestOnboarding_Explain(t *testing.T) {
	m := newOnboarding(t, memStore(), onboarding.ScreenSignup)
	assert.NotContains(t, m.View(), "[explain]")
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyCtrlE})
	assert.Contains(t, m.View(), "[explain]")
	assert.Contains(t, m.explainContent(), "unlock once the previous one is confirmed")
}

func TestOnboarding_Resume(t *testing.T) {
	store := memStore()
	_, err := store.Save(snapshot.New().
		Set(snapshot.KeyName, "Ada").
		Set(snapshot.KeyEmail, "ada@example.com").
		Confirm("account", true))
	require.NoError(t, err)

	m := newOnboarding(t, store, "")
	assert.Equal(t, "location", m.wizard().ActiveSection().ID())
	assert.Equal(t, "Ada", m.user)

	done := snapshot.New()
	for _, id := range []string{"location", "body", "restrictions", "health", "goal"} {
		done = done.Confirm(id, true)
	}
	_, err = store.Save(done.
		Set(snapshot.KeyZIP, "94110").
		Set(snapshot.KeyAge, "36").
		Set(snapshot.KeyHeight, "170").
		Set(snapshot.KeyWeight, "60").
		SetList(snapshot.KeyRestrictions, []string{conflict.None}).
		SetList(snapshot.KeyConditions, []string{conflict.None}).
		Set(snapshot.KeyGoal, "maintain"))
	require.NoError(t, err)
	m = newOnboarding(t, store, "")
	assert.Equal(t, onboarding.ScreenRecipes, m.screens[m.current].ID)
	assert.True(t, m.done[0])
	assert.True(t, m.done[1])
}

func TestOnboarding_Errors(t *testing.T) {
	_, err := NewOnboardingModel(context.Background(), OnboardingDeps{}, "", false)
	assert.Error(t, err)

	_, err = NewOnboardingModel(context.Background(), OnboardingDeps{
		Syncer: remote.NewSyncer(memStore(), nil),
	}, "billing", false)
	assert.ErrorContains(t, err, "unknown screen")
}

func TestOnboarding_GateComplete(t *testing.T) {
	m, err := NewOnboardingModel(context.Background(), OnboardingDeps{
		Syncer: remote.NewSyncer(memStore(), nil),
		Gate:   wizard.GateComplete,
	}, onboarding.ScreenSignup, false)
	require.NoError(t, err)
	t.Cleanup(m.Close)

	m, _ = send(m, runes("Ada"), keyOf(tea.KeyTab), runes("ada@example.com"), keyOf(tea.KeyPgDown))
	assert.Equal(t, "location", m.wizard().ActiveSection().ID(), "a complete section unlocks the next without confirming")
	assert.Contains(t, m.explainContent(), "as soon as the previous one is complete")
}

func TestOnboarding_GateCompleteResumes(t *testing.T) {
	store := memStore()
	_, err := store.Save(snapshot.New().
		Set(snapshot.KeyName, "Ada").
		Set(snapshot.KeyEmail, "ada@example.com").
		Set(snapshot.KeyZIP, "94110").
		Set(snapshot.KeyAge, "36").
		Set(snapshot.KeyHeight, "170").
		Set(snapshot.KeyWeight, "65"))
	require.NoError(t, err)

	deps := OnboardingDeps{Syncer: remote.NewSyncer(store, nil), Gate: wizard.GateComplete}
	m, err := NewOnboardingModel(context.Background(), deps, onboarding.ScreenSignup, false)
	require.NoError(t, err)
	t.Cleanup(m.Close)
	require.True(t, m.wizard().Done())

	m, _ = send(m, keyOf(tea.KeyEnter))
	assert.Equal(t, onboarding.ScreenDietary, m.screens[m.current].ID)

	p := store.Profile()
	assert.True(t, p.Onboarded("account", "location", "body"), "leaving the screen stores the confirmations")
	assert.Equal(t, onboarding.ScreenDietary, onboarding.NextScreen(onboarding.Screens(nil), p))

	again, err := NewOnboardingModel(context.Background(), deps, "", false)
	require.NoError(t, err)
	t.Cleanup(again.Close)
	assert.Equal(t, onboarding.ScreenDietary, again.screens[again.current].ID)
}

func TestTickScheduler(t *testing.T) {
	s := newTickScheduler()
	ran := 0
	s.Schedule(time.Second, func() { ran++ })
	cancel := s.Schedule(time.Second, func() { ran += 10 })

	assert.Len(t, s.cmds(), 2)
	assert.Empty(t, s.cmds(), "cmds drains the queue")
	assert.Equal(t, []int{1, 2}, s.pending())

	cancel()
	assert.Equal(t, []int{1}, s.pending())
	assert.False(t, s.fire(2))
	assert.True(t, s.fire(1))
	assert.False(t, s.fire(1), "a task fires once")
	assert.Equal(t, 1, ran)
}
