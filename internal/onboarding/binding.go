package onboarding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nutragenie/nutragenie/internal/conflict"
	"github.com/nutragenie/nutragenie/internal/metrics"
	"github.com/nutragenie/nutragenie/internal/remote"
	"github.com/nutragenie/nutragenie/internal/snapshot"
	"github.com/nutragenie/nutragenie/internal/wizard"
)

// Binding connects one screen's wizard to the persisted snapshot. It
// prepopulates the wizard on Bind and writes the changed section back through
// the syncer on every meaningful wizard event.
type Binding struct {
	ctx     context.Context
	screen  Screen
	wizard  *wizard.Wizard
	syncer  *remote.Syncer
	tables  conflict.Tables
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu      sync.Mutex
	lastErr error
}

// BindOption configures a Binding.
type BindOption func(*Binding)

// WithBindLogger sets the logger.
func WithBindLogger(l *slog.Logger) BindOption {
	return func(b *Binding) { b.logger = l }
}

// WithBindMetrics counts wizard events.
func WithBindMetrics(m *metrics.Metrics) BindOption {
	return func(b *Binding) { b.metrics = m }
}

// WithTables overrides the built-in conflict tables.
func WithTables(t conflict.Tables) BindOption {
	return func(b *Binding) { b.tables = t }
}

// Bind restores w from the stored snapshot, moves focus to the first section
// that still needs work and subscribes to w's events. ctx is handed to every
// persist call.
func Bind(ctx context.Context, screen Screen, w *wizard.Wizard, syncer *remote.Syncer, opts ...BindOption) (*Binding, error) {
	if w == nil || syncer == nil {
		return nil, errors.New("onboarding: bind needs a wizard and a syncer")
	}
	b := &Binding{
		ctx:    ctx,
		screen: screen,
		wizard: w,
		syncer: syncer,
		tables: conflict.Builtin(),
	}
	for _, opt := range opts {
		opt(b)
	}

	snap := syncer.Store().Load()
	for _, spec := range screen.Sections {
		values := make(map[string]string, len(spec.Fields))
		for _, f := range spec.Fields {
			key := Key(spec.ID, f.Name)
			if f.Multi {
				values[f.Name] = wizard.JoinList(snap.List(key))
				continue
			}
			if v, ok := snap.Get(key); ok {
				values[f.Name] = v
			}
		}
		if err := w.Restore(spec.ID, values, snap.Confirmed[spec.ID]); err != nil {
			return nil, fmt.Errorf("restore %s: %w", spec.ID, err)
		}
	}
	active := w.Resume()
	b.log().Debug("screen restored", "screen", screen.ID, "active", active, "done", w.Done())

	w.Subscribe(b.onEvent)
	return b, nil
}

func (b *Binding) log() *slog.Logger {
	if b.logger != nil {
		return b.logger
	}
	return slog.Default()
}

// Screen returns the bound screen.
func (b *Binding) Screen() Screen { return b.screen }

// Wizard returns the bound wizard.
func (b *Binding) Wizard() *wizard.Wizard { return b.wizard }

// Err returns the last local persistence error, or nil.
func (b *Binding) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastErr
}

// Toggle flips option in a multi-select field, resolving conflicts through
// the field's table, and returns the options that were dropped to make room.
func (b *Binding) Toggle(sectionID, field, option string) ([]string, error) {
	sec, ok := b.wizard.Section(sectionID)
	if !ok {
		return nil, fmt.Errorf("%q: %w", sectionID, wizard.ErrUnknownSection)
	}
	f, ok := sec.Field(field)
	if !ok {
		return nil, fmt.Errorf("%s.%s: %w", sectionID, field, wizard.ErrUnknownField)
	}
	table, _ := b.screen.Table(b.tables, sectionID, field)

	before := conflict.NewSet(f.Items()...)
	after := conflict.Toggle(before, option, table)
	if err := b.wizard.Set(sectionID, field, wizard.JoinList(after)); err != nil {
		return nil, err
	}
	removed := conflict.Removed(before, after)
	if len(removed) > 0 {
		b.log().Debug("conflicting options dropped", "field", Key(sectionID, field), "added", option, "removed", removed)
	}
	return removed, nil
}

// Persist writes every section of the screen.
func (b *Binding) Persist() error {
	patch := snapshot.New()
	for _, sec := range b.wizard.Sections() {
		patch = sectionPatch(patch, sec)
	}
	return b.save(patch)
}

func (b *Binding) onEvent(e wizard.Event) {
	b.metrics.WizardEvent(e.Section, e.Kind.String())
	switch e.Kind {
	case wizard.EventBlocked:
		b.log().Info("section locked", "section", e.Section, "blocking", e.Blocking)
	case wizard.EventAdvanced:
		b.log().Debug("section advanced", "from", e.From, "to", e.Section)
	}
	if !e.Meaningful() {
		return
	}
	sec, ok := b.wizard.Section(e.Section)
	if !ok {
		return
	}
	_ = b.save(sectionPatch(snapshot.New(), sec))
}

func (b *Binding) save(patch snapshot.Snapshot) error {
	_, err := b.syncer.Persist(b.ctx, patch)
	b.mu.Lock()
	b.lastErr = err
	b.mu.Unlock()
	if err != nil {
		b.log().Error("saving onboarding progress failed", "screen", b.screen.ID, "error", err)
	}
	return err
}

// sectionPatch adds a section's values and confirmation flag to patch.
func sectionPatch(patch snapshot.Snapshot, sec *wizard.Section) snapshot.Snapshot {
	for _, f := range sec.Fields() {
		key := Key(sec.ID(), f.Name())
		if f.Spec().Multi {
			patch = patch.SetList(key, f.Items())
			continue
		}
		patch = patch.Set(key, f.Value())
	}
	return patch.Confirm(sec.ID(), sec.Confirmed())
}

// SetNames maps the names accepted by Select to their snapshot list key,
// conflict table and section.
var SetNames = map[string]struct {
	Key     string
	Table   string
	Section string
}{
	"dietary": {snapshot.KeyRestrictions, conflict.Dietary, "restrictions"},
	"health":  {snapshot.KeyConditions, conflict.Health, "health"},
}

// Selection is the outcome of Select.
type Selection struct {
	Set     conflict.Set
	Removed []string
	Changed bool
}

// Select toggles option in a stored option set outside any wizard. A change
// clears the owning section's confirmation so the user is asked to confirm it
// again on the next onboarding run.
func Select(ctx context.Context, syncer *remote.Syncer, tables conflict.Tables, set, option string) (Selection, error) {
	target, ok := SetNames[set]
	if !ok {
		return Selection{}, fmt.Errorf("unknown option set %q (want dietary or health)", set)
	}
	table, err := tables.Get(target.Table)
	if err != nil {
		return Selection{}, err
	}
	if !table.Has(option) {
		return Selection{}, fmt.Errorf("%s has no option %q", target.Table, option)
	}

	snap := syncer.Store().Load()
	before := conflict.NewSet(snap.List(target.Key)...)
	after := conflict.Toggle(before, option, table)
	sel := Selection{Set: after, Removed: conflict.Removed(before, after), Changed: !before.Equal(after)}
	if !sel.Changed {
		return sel, nil
	}

	patch := snapshot.New().SetList(target.Key, after)
	if snap.Confirmed[target.Section] {
		patch = patch.Confirm(target.Section, false)
	}
	if _, err := syncer.Persist(ctx, patch); err != nil {
		return Selection{}, err
	}
	return sel, nil
}
