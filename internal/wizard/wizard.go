// Package wizard implements the onboarding form controller: field
// validation, sections with completion and confirmation, sequential gating of
// sections, and the delayed auto-advance that follows a confirmation.
//
// A Wizard is safe for concurrent use. Listeners are invoked after the
// wizard's lock is released, so they may call back into the wizard.
package wizard

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// DefaultAdvanceDelay is the pause between a confirmation and the move to the
// next section.
const DefaultAdvanceDelay = 750 * time.Millisecond

var (
	// ErrSectionLocked is returned when interacting with a section whose
	// predecessors do not yet satisfy the gate.
	ErrSectionLocked = errors.New("section is locked")
	// ErrUnknownSection is returned for a section id the wizard does not have.
	ErrUnknownSection = errors.New("unknown section")
	// ErrUnknownField is returned for a field name the section does not have.
	ErrUnknownField = errors.New("unknown field")
	// ErrClosed is returned by mutating calls after Close.
	ErrClosed = errors.New("wizard is closed")
)

// GatePolicy decides what a section must reach before later sections unlock.
type GatePolicy int

const (
	// GateConfirmed unlocks a section once every earlier section is confirmed.
	GateConfirmed GatePolicy = iota
	// GateComplete unlocks a section once every earlier section is complete.
	GateComplete
)

// String returns the config spelling of the policy.
func (p GatePolicy) String() string {
	switch p {
	case GateConfirmed:
		return "confirmed"
	case GateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// ParseGatePolicy parses "confirmed" or "complete". Empty means confirmed.
func ParseGatePolicy(s string) (GatePolicy, error) {
	switch s {
	case "", "confirmed":
		return GateConfirmed, nil
	case "complete":
		return GateComplete, nil
	default:
		return GateConfirmed, fmt.Errorf("unknown gate policy %q (want confirmed or complete)", s)
	}
}

// LockedError wraps ErrSectionLocked with the section that was requested and
// the earlier section holding it back.
type LockedError struct {
	Section  string
	Blocking string
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("section %q is locked until %q is done", e.Section, e.Blocking)
}

func (e *LockedError) Unwrap() error { return ErrSectionLocked }

// Option configures a Wizard.
type Option func(*Wizard)

// WithGate sets the gating policy.
func WithGate(p GatePolicy) Option {
	return func(w *Wizard) { w.gate = p }
}

// WithAdvanceDelay sets the delay between confirm and auto-advance.
func WithAdvanceDelay(d time.Duration) Option {
	return func(w *Wizard) {
		if d >= 0 {
			w.delay = d
		}
	}
}

// WithScheduler replaces the default TimerScheduler.
func WithScheduler(s Scheduler) Option {
	return func(w *Wizard) {
		if s != nil {
			w.sched = s
		}
	}
}

// WithListener registers a listener at construction time.
func WithListener(l Listener) Option {
	return func(w *Wizard) {
		if l != nil {
			w.listeners = append(w.listeners, l)
		}
	}
}

type pendingAdvance struct {
	seq    uint64
	cancel func()
}

// Wizard is an ordered list of sections with one active section.
type Wizard struct {
	mu        sync.Mutex
	sections  []*Section
	active    int
	gate      GatePolicy
	delay     time.Duration
	sched     Scheduler
	pending   map[string]pendingAdvance
	seq       uint64
	listeners []Listener
	closed    bool
}

// New builds a wizard from section specs. Section ids must be unique.
func New(specs []SectionSpec, opts ...Option) (*Wizard, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("wizard needs at least one section")
	}
	w := &Wizard{
		gate:    GateConfirmed,
		delay:   DefaultAdvanceDelay,
		sched:   TimerScheduler{},
		pending: make(map[string]pendingAdvance),
	}
	seen := make(map[string]bool, len(specs))
	for _, spec := range specs {
		if seen[spec.ID] {
			return nil, fmt.Errorf("duplicate section %q", spec.ID)
		}
		seen[spec.ID] = true
		s, err := newSection(spec)
		if err != nil {
			return nil, err
		}
		w.sections = append(w.sections, s)
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Subscribe adds a listener.
func (w *Wizard) Subscribe(l Listener) {
	if l == nil {
		return
	}
	w.mu.Lock()
	w.listeners = append(w.listeners, l)
	w.mu.Unlock()
}

// Gate returns the gating policy.
func (w *Wizard) Gate() GatePolicy { return w.gate }

// AdvanceDelay returns the configured auto-advance delay.
func (w *Wizard) AdvanceDelay() time.Duration { return w.delay }

// Len returns the number of sections.
func (w *Wizard) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.sections)
}

// Sections returns the sections in their current order.
func (w *Wizard) Sections() []*Section {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]*Section, len(w.sections))
	copy(out, w.sections)
	return out
}

// Section looks up a section by id.
func (w *Wizard) Section(id string) (*Section, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	i := w.indexLocked(id)
	if i < 0 {
		return nil, false
	}
	return w.sections[i], true
}

// Index returns the position of a section, or -1.
func (w *Wizard) Index(id string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.indexLocked(id)
}

// Active returns the index of the focused section.
func (w *Wizard) Active() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}

// ActiveSection returns the focused section.
func (w *Wizard) ActiveSection() *Section {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sections[w.active]
}

// Interactable reports whether section i may be focused or edited. It is
// recomputed from the current section states on every call.
func (w *Wizard) Interactable(i int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.interactableLocked(i)
}

// Blocking returns the first earlier section that keeps section i locked.
func (w *Wizard) Blocking(i int) (*Section, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	j := w.blockingLocked(i)
	if j < 0 {
		return nil, false
	}
	return w.sections[j], true
}

// Done reports whether every section satisfies the gate policy.
func (w *Wizard) Done() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, s := range w.sections {
		if !w.passesGate(s) {
			return false
		}
	}
	return true
}

// Focus makes section id active. Focusing a locked section fails with a
// *LockedError and touches the blocking section's fields so their errors show.
func (w *Wizard) Focus(id string) error {
	w.mu.Lock()
	events, err := w.focusLocked(id)
	w.mu.Unlock()
	w.dispatch(events)
	return err
}

// Set changes one field. Editing a confirmed section clears its confirmation
// and cancels any pending advance before Set returns.
func (w *Wizard) Set(sectionID, field, value string) error {
	w.mu.Lock()
	events, err := w.setLocked(sectionID, field, value)
	w.mu.Unlock()
	w.dispatch(events)
	return err
}

// Blur marks a field touched without changing it.
func (w *Wizard) Blur(sectionID, field string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, s, err := w.lookupLocked(sectionID)
	if err != nil {
		return err
	}
	f, ok := s.byName[field]
	if !ok {
		return fmt.Errorf("%s.%s: %w", sectionID, field, ErrUnknownField)
	}
	f.touch()
	return nil
}

// Confirm flags a complete section as confirmed and schedules the advance to
// the next section. An incomplete section yields a *ConfirmationError and has
// all its fields touched.
func (w *Wizard) Confirm(sectionID string) error {
	w.mu.Lock()
	events, err := w.confirmLocked(sectionID)
	w.mu.Unlock()
	w.dispatch(events)
	return err
}

// Restore loads persisted values into a section without touching fields or
// emitting change events. confirmed is honoured only if the restored values
// complete the section.
func (w *Wizard) Restore(sectionID string, values map[string]string, confirmed bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	_, s, err := w.lookupLocked(sectionID)
	if err != nil {
		return err
	}
	for name, v := range values {
		if f, ok := s.byName[name]; ok {
			f.restore(v)
		}
	}
	s.confirmed = confirmed && s.IsComplete()
	return nil
}

// Resume moves the active section to the first one that does not pass the
// gate, or the last section when all do. Used after Restore.
func (w *Wizard) Resume() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.active = len(w.sections) - 1
	for i, s := range w.sections {
		if !w.passesGate(s) {
			w.active = i
			break
		}
	}
	return w.active
}

// Reorder changes the section order. ids must name every section exactly
// once. The active section keeps focus if it is still interactable.
func (w *Wizard) Reorder(ids ...string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(ids) != len(w.sections) {
		return fmt.Errorf("reorder needs %d section ids, got %d", len(w.sections), len(ids))
	}
	current := w.sections[w.active]
	next := make([]*Section, 0, len(ids))
	used := make(map[string]bool, len(ids))
	for _, id := range ids {
		i := w.indexLocked(id)
		if i < 0 {
			return fmt.Errorf("%q: %w", id, ErrUnknownSection)
		}
		if used[id] {
			return fmt.Errorf("duplicate section %q in reorder", id)
		}
		used[id] = true
		next = append(next, w.sections[i])
	}
	w.sections = next
	w.active = w.indexLocked(current.id)
	if !w.interactableLocked(w.active) {
		w.active = w.firstLockedLocked()
	}
	return nil
}

// Close cancels every pending advance. Later scheduled callbacks are ignored.
func (w *Wizard) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	for id, p := range w.pending {
		p.cancel()
		delete(w.pending, id)
	}
}

// PendingAdvance reports whether an advance is scheduled for the section.
func (w *Wizard) PendingAdvance(sectionID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.pending[sectionID]
	return ok
}

// ---------------------------------------------------------------------------
// Locked helpers
// ---------------------------------------------------------------------------

func (w *Wizard) indexLocked(id string) int {
	for i, s := range w.sections {
		if s.id == id {
			return i
		}
	}
	return -1
}

func (w *Wizard) lookupLocked(id string) (int, *Section, error) {
	i := w.indexLocked(id)
	if i < 0 {
		return -1, nil, fmt.Errorf("%q: %w", id, ErrUnknownSection)
	}
	return i, w.sections[i], nil
}

func (w *Wizard) passesGate(s *Section) bool {
	if w.gate == GateComplete {
		return s.IsComplete()
	}
	return s.confirmed
}

func (w *Wizard) blockingLocked(i int) int {
	for j := 0; j < i && j < len(w.sections); j++ {
		if !w.passesGate(w.sections[j]) {
			return j
		}
	}
	return -1
}

func (w *Wizard) interactableLocked(i int) bool {
	if i < 0 || i >= len(w.sections) {
		return false
	}
	return w.blockingLocked(i) < 0
}

// firstLockedLocked returns the index of the section that blocks everything
// after it, which is the furthest section a user may work on.
func (w *Wizard) firstLockedLocked() int {
	for i, s := range w.sections {
		if !w.passesGate(s) {
			return i
		}
	}
	return len(w.sections) - 1
}

// lockedLocked builds the error for a locked section and touches the blocker.
func (w *Wizard) lockedLocked(i int) ([]Event, error) {
	j := w.blockingLocked(i)
	blocker := w.sections[j]
	blocker.touchAll()
	return []Event{{Kind: EventBlocked, Section: w.sections[i].id, Index: i, Blocking: blocker.id}},
		&LockedError{Section: w.sections[i].id, Blocking: blocker.id}
}

func (w *Wizard) focusLocked(id string) ([]Event, error) {
	i, s, err := w.lookupLocked(id)
	if err != nil {
		return nil, err
	}
	if !w.interactableLocked(i) {
		return w.lockedLocked(i)
	}
	if w.active == i {
		return nil, nil
	}
	w.active = i
	return []Event{{Kind: EventFocused, Section: s.id, Index: i}}, nil
}

func (w *Wizard) setLocked(sectionID, field, value string) ([]Event, error) {
	if w.closed {
		return nil, ErrClosed
	}
	i, s, err := w.lookupLocked(sectionID)
	if err != nil {
		return nil, err
	}
	f, ok := s.byName[field]
	if !ok {
		return nil, fmt.Errorf("%s.%s: %w", sectionID, field, ErrUnknownField)
	}
	if !w.interactableLocked(i) {
		return w.lockedLocked(i)
	}
	if !f.set(value) {
		return nil, nil
	}

	events := []Event{{Kind: EventFieldChanged, Section: s.id, Field: field, Index: i}}
	if s.unconfirm() {
		w.cancelLocked(s.id)
		events = append(events, Event{Kind: EventUnconfirmed, Section: s.id, Field: field, Index: i})
	}
	// Under GateComplete an edit can also make the section incomplete; either
	// way later sections may have just locked, so pull focus back.
	if w.active > i && !w.interactableLocked(w.active) {
		w.active = i
		events = append(events, Event{Kind: EventFocused, Section: s.id, Index: i})
	}
	return events, nil
}

func (w *Wizard) confirmLocked(sectionID string) ([]Event, error) {
	if w.closed {
		return nil, ErrClosed
	}
	i, s, err := w.lookupLocked(sectionID)
	if err != nil {
		return nil, err
	}
	if !w.interactableLocked(i) {
		return w.lockedLocked(i)
	}
	if !s.IsComplete() {
		s.touchAll()
		return nil, &ConfirmationError{Section: s.id, Fields: s.InvalidFields()}
	}

	s.confirmed = true
	s.reconfirm = false
	w.cancelLocked(s.id)

	w.seq++
	seq := w.seq
	id := s.id
	cancel := w.sched.Schedule(w.delay, func() { w.advance(id, seq) })
	w.pending[id] = pendingAdvance{seq: seq, cancel: cancel}

	return []Event{{Kind: EventConfirmed, Section: s.id, Index: i}}, nil
}

func (w *Wizard) cancelLocked(sectionID string) {
	if p, ok := w.pending[sectionID]; ok {
		p.cancel()
		delete(w.pending, sectionID)
	}
}

// advance is the scheduled half of Confirm. It only moves focus when the
// section is still confirmed and this is still the latest schedule for it.
func (w *Wizard) advance(sectionID string, seq uint64) {
	w.mu.Lock()
	p, ok := w.pending[sectionID]
	if w.closed || !ok || p.seq != seq {
		w.mu.Unlock()
		return
	}
	delete(w.pending, sectionID)

	i := w.indexLocked(sectionID)
	if i < 0 || !w.sections[i].confirmed || w.active != i || i+1 >= len(w.sections) {
		w.mu.Unlock()
		return
	}
	w.active = i + 1
	events := []Event{{Kind: EventAdvanced, Section: w.sections[i+1].id, Index: i + 1, From: sectionID}}
	w.mu.Unlock()
	w.dispatch(events)
}

func (w *Wizard) dispatch(events []Event) {
	if len(events) == 0 {
		return
	}
	w.mu.Lock()
	listeners := make([]Listener, len(w.listeners))
	copy(listeners, w.listeners)
	w.mu.Unlock()

	for _, ev := range events {
		for _, l := range listeners {
			l(ev)
		}
	}
}
