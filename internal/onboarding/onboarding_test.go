package onboarding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutragenie/nutragenie/internal/conflict"
	"github.com/nutragenie/nutragenie/internal/metrics"
	"github.com/nutragenie/nutragenie/internal/remote"
	"github.com/nutragenie/nutragenie/internal/snapshot"
	"github.com/nutragenie/nutragenie/internal/wizard"
)

type fixture struct {
	store  *snapshot.Store
	syncer *remote.Syncer
	sched  *wizard.ManualScheduler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := snapshot.NewStore(snapshot.NewMemoryBackend())
	return &fixture{
		store:  store,
		syncer: remote.NewSyncer(store, nil),
		sched:  wizard.NewManualScheduler(),
	}
}

func (fx *fixture) bind(t *testing.T, screenID string, opts ...BindOption) *Binding {
	t.Helper()
	screen, err := FindScreen(Screens(conflict.Builtin()), screenID)
	require.NoError(t, err)
	w, err := screen.NewWizard(wizard.WithScheduler(fx.sched), wizard.WithAdvanceDelay(500*time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(w.Close)
	b, err := Bind(context.Background(), screen, w, fx.syncer, opts...)
	require.NoError(t, err)
	return b
}

func TestScreens(t *testing.T) {
	screens := Screens(conflict.Builtin())
	require.Len(t, screens, 3)
	assert.Equal(t, ScreenSignup, screens[0].ID)
	assert.Equal(t, ScreenDietary, screens[1].ID)
	assert.Equal(t, ScreenRecipes, screens[2].ID)
	assert.Equal(t, []string{"account", "location", "body"}, screens[0].SectionIDs())

	for _, s := range screens {
		_, err := s.NewWizard()
		assert.NoError(t, err, s.ID)
	}

	_, err := FindScreen(screens, "billing")
	assert.ErrorContains(t, err, "signup, dietary, recipes")

	diet := screens[1]
	table, ok := diet.Table(conflict.Builtin(), "restrictions", "selected")
	require.True(t, ok)
	assert.Equal(t, conflict.Dietary, table.Name)
	_, ok = diet.Table(conflict.Builtin(), "goal", "goal")
	assert.False(t, ok)
	assert.Contains(t, diet.Sections[0].Fields[0].Options, conflict.None)
}

func TestScreens_FieldRules(t *testing.T) {
	screens := Screens(conflict.Builtin())
	v := func(screen, section string) *wizard.Validator {
		s, err := FindScreen(screens, screen)
		require.NoError(t, err)
		for _, sec := range s.Sections {
			if sec.ID == section {
				return wizard.NewValidator(sec.Fields...)
			}
		}
		t.Fatalf("no section %s", section)
		return nil
	}

	body := v(ScreenSignup, "body")
	assert.True(t, body.Validate("age", "34").Valid)
	assert.False(t, body.Validate("age", "12").Valid)
	assert.False(t, body.Validate("age", "34.5").Valid)
	assert.False(t, body.Validate("height", "90").Valid)
	assert.True(t, body.Validate("weight", "65.5").Valid)

	account := v(ScreenSignup, "account")
	assert.False(t, account.Validate("name", "A").Valid)
	assert.True(t, account.Validate("phone", "").Valid, "phone is optional")

	cooking := v(ScreenRecipes, "cooking")
	assert.True(t, cooking.Validate("skill", "Medium").Valid)
	assert.False(t, cooking.Validate("skill", "Chef").Valid)
	assert.False(t, cooking.Validate("meals", "7").Valid)
	assert.True(t, cooking.Validate("time", "45").Valid)
}

func TestBind_Prepopulates(t *testing.T) {
	fx := newFixture(t)
	_, err := fx.store.Save(snapshot.New().
		Set(snapshot.KeyName, "Ada Lovelace").
		Set(snapshot.KeyEmail, "ada@example.com").
		Confirm("account", true).
		Set(snapshot.KeyZIP, "9021"))
	require.NoError(t, err)

	b := fx.bind(t, ScreenSignup)
	w := b.Wizard()

	account, _ := w.Section("account")
	assert.True(t, account.Confirmed())
	name, _ := account.Field("name")
	assert.Equal(t, "Ada Lovelace", name.Value())
	assert.False(t, name.Touched(), "restored values are not touched")

	assert.Equal(t, 1, w.Active(), "resumes at the first unconfirmed section")
	location, _ := w.Section("location")
	zip, _ := location.Field("zip")
	assert.Equal(t, "9021", zip.Value())
	assert.False(t, location.IsComplete())
}

func TestBind_ConfirmedButIncompleteIsNotRestoredAsConfirmed(t *testing.T) {
	fx := newFixture(t)
	_, err := fx.store.Save(snapshot.New().Set(snapshot.KeyName, "A").Confirm("account", true))
	require.NoError(t, err)

	b := fx.bind(t, ScreenSignup)
	account, _ := b.Wizard().Section("account")
	assert.False(t, account.Confirmed())
	assert.Equal(t, 0, b.Wizard().Active())
}

func TestBinding_PersistsEveryMeaningfulChange(t *testing.T) {
	fx := newFixture(t)
	b := fx.bind(t, ScreenSignup)
	w := b.Wizard()

	require.NoError(t, w.Set("account", "name", "Ada"))
	v, _ := fx.store.Load().Get(snapshot.KeyName)
	assert.Equal(t, "Ada", v, "written before Set returns")

	require.NoError(t, w.Set("account", "email", "ada@example.com"))
	require.NoError(t, w.Confirm("account"))
	assert.True(t, fx.store.Load().Confirmed["account"])

	ok, err := fx.store.InSync()
	require.NoError(t, err)
	assert.True(t, ok, "temporary and permanent keys agree")

	require.NoError(t, w.Set("account", "name", "Ada L"))
	snap := fx.store.Load()
	assert.False(t, snap.Confirmed["account"], "edit after confirm is persisted as unconfirmed")
	v, _ = snap.Get(snapshot.KeyName)
	assert.Equal(t, "Ada L", v)
	assert.NoError(t, b.Err())
}

func TestBinding_KeepsOtherScreensData(t *testing.T) {
	fx := newFixture(t)
	_, err := fx.store.Save(snapshot.New().Set(snapshot.KeyCuisine, "Asian").Confirm("cuisine", true))
	require.NoError(t, err)

	b := fx.bind(t, ScreenSignup)
	require.NoError(t, b.Wizard().Set("account", "name", "Ada"))

	snap := fx.store.Load()
	v, _ := snap.Get(snapshot.KeyCuisine)
	assert.Equal(t, "Asian", v)
	assert.True(t, snap.Confirmed["cuisine"])
}

func TestBinding_LockedEditIsNotPersisted(t *testing.T) {
	fx := newFixture(t)
	b := fx.bind(t, ScreenSignup)

	err := b.Wizard().Set("body", "age", "34")
	require.ErrorIs(t, err, wizard.ErrSectionLocked)

	_, ok := fx.store.Load().Get(snapshot.KeyAge)
	assert.False(t, ok)
	account, _ := b.Wizard().Section("account")
	name, _ := account.Field("name")
	assert.True(t, name.Touched(), "blocking section errors become visible")
}

func TestBinding_Toggle(t *testing.T) {
	fx := newFixture(t)
	b := fx.bind(t, ScreenDietary)

	removed, err := b.Toggle("restrictions", "selected", "vegan")
	require.NoError(t, err)
	assert.Empty(t, removed)

	removed, err = b.Toggle("restrictions", "selected", "keto")
	require.NoError(t, err)
	assert.Equal(t, []string{"vegan"}, removed)
	assert.Equal(t, []string{"keto"}, fx.store.Load().List(snapshot.KeyRestrictions))

	// Health conditions unlock once the diet is confirmed.
	_, err = b.Toggle("health", "conditions", conflict.None)
	require.ErrorIs(t, err, wizard.ErrSectionLocked)
	require.NoError(t, b.Wizard().Confirm("restrictions"))

	_, err = b.Toggle("health", "conditions", conflict.None)
	require.NoError(t, err)
	removed, err = b.Toggle("health", "conditions", "diabetes")
	require.NoError(t, err)
	assert.Equal(t, []string{conflict.None}, removed)
	assert.Equal(t, []string{"diabetes"}, fx.store.Load().List(snapshot.KeyConditions))

	_, err = b.Toggle("health", "allergy", "x")
	assert.ErrorIs(t, err, wizard.ErrUnknownField)
	_, err = b.Toggle("billing", "x", "y")
	assert.ErrorIs(t, err, wizard.ErrUnknownSection)
}

func TestBinding_AdvanceAfterDelay(t *testing.T) {
	fx := newFixture(t)
	b := fx.bind(t, ScreenDietary)
	w := b.Wizard()

	_, err := b.Toggle("restrictions", "selected", "vegetarian")
	require.NoError(t, err)
	require.NoError(t, w.Confirm("restrictions"))
	assert.Equal(t, 0, w.Active())

	fx.sched.Advance(500 * time.Millisecond)
	assert.Equal(t, 1, w.Active())
}

func TestBinding_PersistAll(t *testing.T) {
	fx := newFixture(t)
	b := fx.bind(t, ScreenRecipes)
	require.NoError(t, b.Persist())

	snap := fx.store.Load()
	_, ok := snap.Get(snapshot.KeySkill)
	assert.True(t, ok)
	assert.Contains(t, snap.Confirmed, "cooking")
}

func TestBinding_CountsEvents(t *testing.T) {
	fx := newFixture(t)
	m := metrics.New()
	b := fx.bind(t, ScreenSignup, WithBindMetrics(m))
	require.NoError(t, b.Wizard().Set("account", "name", "Ada"))
	_ = b.Wizard().Focus("body")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, `nutragenie_wizard_events_total{kind="field_changed",section="account"} 1`)
	assert.Contains(t, body, `nutragenie_wizard_events_total{kind="blocked",section="body"} 1`)
}

func TestBind_Errors(t *testing.T) {
	fx := newFixture(t)
	screen := Screens(conflict.Builtin())[0]
	_, err := Bind(context.Background(), screen, nil, fx.syncer)
	assert.Error(t, err)

	other, err := Screens(conflict.Builtin())[1].NewWizard()
	require.NoError(t, err)
	_, err = Bind(context.Background(), screen, other, fx.syncer)
	assert.ErrorIs(t, err, wizard.ErrUnknownSection)
}

func TestNextScreen(t *testing.T) {
	screens := Screens(conflict.Builtin())
	p := snapshot.NewProfile(snapshot.DefaultSnapshot())
	assert.Equal(t, ScreenSignup, NextScreen(screens, p))

	s := snapshot.New().Confirm("account", true).Confirm("location", true).Confirm("body", true)
	assert.Equal(t, ScreenDietary, NextScreen(screens, snapshot.NewProfile(s)))

	for _, id := range []string{"restrictions", "health", "goal", "cuisine", "cooking"} {
		s = s.Confirm(id, true)
	}
	assert.Equal(t, "", NextScreen(screens, snapshot.NewProfile(s)))
}

func TestSelect(t *testing.T) {
	fx := newFixture(t)
	tables := conflict.Builtin()
	ctx := context.Background()

	_, err := fx.store.Save(snapshot.New().Confirm("restrictions", true))
	require.NoError(t, err)

	sel, err := Select(ctx, fx.syncer, tables, "dietary", "vegan")
	require.NoError(t, err)
	assert.True(t, sel.Changed)
	assert.Equal(t, conflict.Set{"vegan"}, sel.Set)

	sel, err = Select(ctx, fx.syncer, tables, "dietary", "keto")
	require.NoError(t, err)
	assert.Equal(t, conflict.Set{"keto"}, sel.Set)
	assert.Equal(t, []string{"vegan"}, sel.Removed)

	snap := fx.store.Load()
	assert.Equal(t, []string{"keto"}, snap.List(snapshot.KeyRestrictions))
	assert.False(t, snap.Confirmed["restrictions"], "changing a confirmed set asks for reconfirmation")

	sel, err = Select(ctx, fx.syncer, tables, "health", "none")
	require.NoError(t, err)
	sel, err = Select(ctx, fx.syncer, tables, "health", "diabetes")
	require.NoError(t, err)
	assert.Equal(t, conflict.Set{"diabetes"}, sel.Set)

	_, err = Select(ctx, fx.syncer, tables, "allergies", "nuts")
	assert.ErrorContains(t, err, "unknown option set")
	_, err = Select(ctx, fx.syncer, tables, "dietary", "fruitarian")
	assert.ErrorContains(t, err, "no option")
}
