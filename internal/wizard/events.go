package wizard

// EventKind classifies a wizard state change.
type EventKind int

const (
	EventFieldChanged EventKind = iota + 1
	EventConfirmed
	EventUnconfirmed
	EventAdvanced
	EventFocused
	EventBlocked
)

// String returns a short lowercase name for logs.
func (k EventKind) String() string {
	switch k {
	case EventFieldChanged:
		return "field_changed"
	case EventConfirmed:
		return "confirmed"
	case EventUnconfirmed:
		return "unconfirmed"
	case EventAdvanced:
		return "advanced"
	case EventFocused:
		return "focused"
	case EventBlocked:
		return "blocked"
	default:
		return "unknown"
	}
}

// Event describes one state change. Field is set for field events, Blocking
// for EventBlocked, From for EventAdvanced.
type Event struct {
	Kind     EventKind
	Section  string
	Field    string
	Index    int
	Blocking string
	From     string
}

// Meaningful reports whether the event changes data worth persisting.
func (e Event) Meaningful() bool {
	switch e.Kind {
	case EventFieldChanged, EventConfirmed, EventUnconfirmed:
		return true
	default:
		return false
	}
}

// Listener receives wizard events.
type Listener func(Event)
