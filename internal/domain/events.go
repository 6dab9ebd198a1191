package domain

import "time"

// DomainEvent records a state change for later dispatch by an external
// publisher. Events accumulate on the entity that produced them until the
// caller drains them with PullEvents.
type DomainEvent interface {
	EventType() string
	OccurredAt() time.Time
}

// recorder is the append-only event buffer embedded in each entity.
type recorder struct {
	events []DomainEvent
}

func (r *recorder) record(e DomainEvent) {
	r.events = append(r.events, e)
}

// PullEvents returns the accumulated events and clears the buffer so the
// same event is never published twice.
func (r *recorder) PullEvents() []DomainEvent {
	events := r.events
	r.events = nil
	return events
}

type EventCreated struct {
	EventID     string
	OrganizerID string
	Title       string
	At          time.Time
}

func (e EventCreated) EventType() string     { return "event.created" }
func (e EventCreated) OccurredAt() time.Time { return e.At }

type EventUpdated struct {
	EventID string
	At      time.Time
}

func (e EventUpdated) EventType() string     { return "event.updated" }
func (e EventUpdated) OccurredAt() time.Time { return e.At }

type EventPublished struct {
	EventID string
	At      time.Time
}

func (e EventPublished) EventType() string     { return "event.published" }
func (e EventPublished) OccurredAt() time.Time { return e.At }

// EventCancelled is consumed downstream to trigger refunds.
type EventCancelled struct {
	EventID string
	Reason  string
	At      time.Time
}

func (e EventCancelled) EventType() string     { return "event.cancelled" }
func (e EventCancelled) OccurredAt() time.Time { return e.At }

type EventCompleted struct {
	EventID string
	At      time.Time
}

func (e EventCompleted) EventType() string     { return "event.completed" }
func (e EventCompleted) OccurredAt() time.Time { return e.At }

type TicketTypeAdded struct {
	EventID      string
	TicketTypeID string
	Name         string
	At           time.Time
}

func (e TicketTypeAdded) EventType() string     { return "ticket_type.added" }
func (e TicketTypeAdded) OccurredAt() time.Time { return e.At }

type TicketTypeUpdated struct {
	EventID      string
	TicketTypeID string
	At           time.Time
}

func (e TicketTypeUpdated) EventType() string     { return "ticket_type.updated" }
func (e TicketTypeUpdated) OccurredAt() time.Time { return e.At }

type TicketTypeRemoved struct {
	EventID      string
	TicketTypeID string
	At           time.Time
}

func (e TicketTypeRemoved) EventType() string     { return "ticket_type.removed" }
func (e TicketTypeRemoved) OccurredAt() time.Time { return e.At }

// TicketTypeSoldOut is recorded on the ticket type's own log when the sold
// count reaches the quantity.
type TicketTypeSoldOut struct {
	EventID      string
	TicketTypeID string
	Name         string
	At           time.Time
}

func (e TicketTypeSoldOut) EventType() string     { return "ticket_type.sold_out" }
func (e TicketTypeSoldOut) OccurredAt() time.Time { return e.At }
