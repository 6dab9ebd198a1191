package domain

// EventStatus is the lifecycle state of an event.
type EventStatus string

const (
	StatusDraft     EventStatus = "draft"
	StatusPublished EventStatus = "published"
	StatusCancelled EventStatus = "cancelled"
	StatusCompleted EventStatus = "completed"
)

// statusTransitions is the adjacency table consulted by every
// transition-causing operation. Cancelled and completed are terminal.
var statusTransitions = map[EventStatus][]EventStatus{
	StatusDraft:     {StatusPublished, StatusCancelled},
	StatusPublished: {StatusCancelled, StatusCompleted},
	StatusCancelled: {},
	StatusCompleted: {},
}

// ParseEventStatus maps a stored value to a status, rejecting unknown values.
func ParseEventStatus(s string) (EventStatus, error) {
	status := EventStatus(s)
	if _, ok := statusTransitions[status]; !ok {
		return "", CorruptStatusError(s)
	}
	return status, nil
}

func (s EventStatus) String() string {
	return string(s)
}

// CanTransitionTo reports whether the adjacency table allows moving to next.
func (s EventStatus) CanTransitionTo(next EventStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status has no outgoing transitions.
func (s EventStatus) IsTerminal() bool {
	return len(statusTransitions[s]) == 0
}

func (s EventStatus) valid() bool {
	_, ok := statusTransitions[s]
	return ok
}
