package wizard

import (
	"sort"
	"sync"
	"time"
)

// Scheduler runs fn once after delay. The returned cancel func prevents a
// not-yet-run fn from running; calling it after fn ran is a no-op.
type Scheduler interface {
	Schedule(delay time.Duration, fn func()) (cancel func())
}

// TimerScheduler schedules with time.AfterFunc. fn runs on its own goroutine.
type TimerScheduler struct{}

// Schedule implements Scheduler.
func (TimerScheduler) Schedule(delay time.Duration, fn func()) func() {
	t := time.AfterFunc(delay, fn)
	return func() { t.Stop() }
}

// ManualScheduler holds tasks until the caller advances its virtual clock.
// Tasks run on the goroutine calling Advance or RunAll.
type ManualScheduler struct {
	mu    sync.Mutex
	now   time.Duration
	seq   int
	tasks map[int]*manualTask
}

type manualTask struct {
	id  int
	due time.Duration
	fn  func()
}

// NewManualScheduler returns an empty scheduler at virtual time zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{tasks: make(map[int]*manualTask)}
}

// Schedule implements Scheduler.
func (m *ManualScheduler) Schedule(delay time.Duration, fn func()) func() {
	m.mu.Lock()
	m.seq++
	id := m.seq
	m.tasks[id] = &manualTask{id: id, due: m.now + delay, fn: fn}
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.tasks, id)
		m.mu.Unlock()
	}
}

// Advance moves the virtual clock forward by d and runs every task that came
// due, in due order. It returns how many tasks ran.
func (m *ManualScheduler) Advance(d time.Duration) int {
	m.mu.Lock()
	m.now += d
	var due []*manualTask
	for id, t := range m.tasks {
		if t.due <= m.now {
			due = append(due, t)
			delete(m.tasks, id)
		}
	}
	m.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if due[i].due != due[j].due {
			return due[i].due < due[j].due
		}
		return due[i].id < due[j].id
	})
	for _, t := range due {
		t.fn()
	}
	return len(due)
}

// RunAll runs every pending task regardless of due time.
func (m *ManualScheduler) RunAll() int {
	m.mu.Lock()
	var latest time.Duration
	for _, t := range m.tasks {
		if t.due > latest {
			latest = t.due
		}
	}
	gap := latest - m.now
	m.mu.Unlock()
	if gap < 0 {
		gap = 0
	}
	return m.Advance(gap)
}

// Pending reports how many tasks are waiting.
func (m *ManualScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}
