package models

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nutragenie/nutragenie/internal/wizard"
)

// scheduledMsg fires a task registered with a tickScheduler.
type scheduledMsg struct{ id int }

// tickScheduler is a wizard.Scheduler that runs tasks on the Bubble Tea
// goroutine. Schedule only records the task; the model turns queued tasks
// into tea.Tick commands after each update and runs them when scheduledMsg
// comes back, so wizard callbacks never race the model.
type tickScheduler struct {
	mu     sync.Mutex
	seq    int
	queued []queuedTask
	tasks  map[int]func()
}

type queuedTask struct {
	id    int
	delay time.Duration
}

var _ wizard.Scheduler = (*tickScheduler)(nil)

func newTickScheduler() *tickScheduler {
	return &tickScheduler{tasks: make(map[int]func())}
}

// Schedule implements wizard.Scheduler.
func (s *tickScheduler) Schedule(delay time.Duration, fn func()) func() {
	s.mu.Lock()
	s.seq++
	id := s.seq
	s.tasks[id] = fn
	s.queued = append(s.queued, queuedTask{id: id, delay: delay})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.tasks, id)
		s.mu.Unlock()
	}
}

// cmds drains tasks scheduled since the last call into tick commands.
func (s *tickScheduler) cmds() []tea.Cmd {
	s.mu.Lock()
	queued := s.queued
	s.queued = nil
	s.mu.Unlock()

	out := make([]tea.Cmd, 0, len(queued))
	for _, q := range queued {
		id := q.id
		out = append(out, tea.Tick(q.delay, func(time.Time) tea.Msg {
			return scheduledMsg{id: id}
		}))
	}
	return out
}

// fire runs task id unless it was cancelled. It reports whether it ran.
func (s *tickScheduler) fire(id int) bool {
	s.mu.Lock()
	fn, ok := s.tasks[id]
	delete(s.tasks, id)
	s.mu.Unlock()
	if !ok {
		return false
	}
	fn()
	return true
}

// pending lists the ids still waiting to fire, oldest first.
func (s *tickScheduler) pending() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []int
	for id := 1; id <= s.seq; id++ {
		if _, ok := s.tasks[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// eventSink collects wizard events so the model can render them after the
// call that produced them returns.
type eventSink struct {
	mu     sync.Mutex
	events []wizard.Event
}

func (s *eventSink) listen(e wizard.Event) {
	s.mu.Lock()
	s.events = append(s.events, e)
	s.mu.Unlock()
}

func (s *eventSink) drain() []wizard.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.events
	s.events = nil
	return out
}
