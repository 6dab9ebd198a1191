package domain

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 5000

	// MaxTicketTypes bounds the ticket type collection per event.
	MaxTicketTypes = 10
)

// Event is the aggregate root for a sellable event. It owns its ticket types
// and is the sole point of mutation for them; aggregate totals are recomputed
// on every child change so the capacity and revenue invariants always hold.
type Event struct {
	recorder
	id                 string
	organizerID        string
	title              string
	description        string
	category           EventCategory
	status             EventStatus
	imageURL           string
	location           Location
	dateRange          DateRange
	ticketTypes        []*TicketType
	totalCapacity      int
	soldTickets        int
	revenue            Money
	version            int
	createdAt          time.Time
	updatedAt          time.Time
	publishedAt        *time.Time
	cancelledAt        *time.Time
	cancellationReason string
}

// NewEventParams carries the inputs for creating a draft event. Location and
// DateRange arrive as already-constructed value objects.
type NewEventParams struct {
	ID          string
	OrganizerID string
	Title       string
	Description string
	Category    EventCategory
	ImageURL    string
	Location    Location
	DateRange   DateRange
}

// NewEvent validates and creates a draft event, recording EventCreated.
// It never returns a partially constructed aggregate.
func NewEvent(p NewEventParams, now time.Time) (*Event, error) {
	if uuid.Validate(p.ID) != nil {
		return nil, ErrInvalidID
	}
	if uuid.Validate(p.OrganizerID) != nil {
		return nil, ErrInvalidOrganizerID
	}
	title := strings.TrimSpace(p.Title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if err := validateDescription(p.Description); err != nil {
		return nil, err
	}
	if !p.Category.valid() {
		return nil, ErrInvalidCategory
	}
	if p.DateRange.IsZero() {
		return nil, ErrDateRequired
	}

	now = now.UTC()
	e := &Event{
		id:          p.ID,
		organizerID: p.OrganizerID,
		title:       title,
		description: strings.TrimSpace(p.Description),
		category:    p.Category,
		status:      StatusDraft,
		imageURL:    strings.TrimSpace(p.ImageURL),
		location:    p.Location,
		dateRange:   p.DateRange,
		revenue:     ZeroMoney(CurrencyUSD),
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}
	e.record(EventCreated{
		EventID:     e.id,
		OrganizerID: e.organizerID,
		Title:       e.title,
		At:          now,
	})
	return e, nil
}

// EventState carries already-validated persisted fields for reconstitution.
type EventState struct {
	ID                 string
	OrganizerID        string
	Title              string
	Description        string
	Category           EventCategory
	Status             EventStatus
	ImageURL           string
	Location           Location
	DateRange          DateRange
	TicketTypes        []*TicketType
	Version            int
	CreatedAt          time.Time
	UpdatedAt          time.Time
	PublishedAt        *time.Time
	CancelledAt        *time.Time
	CancellationReason string
}

// ReconstituteEvent rebuilds an event from storage without re-running new
// event rules (lead time in particular). Totals are recomputed from the
// ticket types; structurally impossible state comes back as a *DomainError.
func ReconstituteEvent(s EventState) (*Event, error) {
	if !s.Status.valid() {
		return nil, CorruptStatusError(s.Status.String())
	}
	if !s.Category.valid() {
		return nil, CorruptCategoryError(s.Category.String())
	}
	for _, t := range s.TicketTypes {
		if t.eventID != s.ID {
			return nil, ForeignTicketTypeError(s.ID, t.id)
		}
	}

	e := &Event{
		id:                 s.ID,
		organizerID:        s.OrganizerID,
		title:              s.Title,
		description:        s.Description,
		category:           s.Category,
		status:             s.Status,
		imageURL:           s.ImageURL,
		location:           s.Location,
		dateRange:          s.DateRange,
		ticketTypes:        s.TicketTypes,
		version:            s.Version,
		createdAt:          s.CreatedAt,
		updatedAt:          s.UpdatedAt,
		publishedAt:        s.PublishedAt,
		cancelledAt:        s.CancelledAt,
		cancellationReason: s.CancellationReason,
	}
	if err := e.recompute(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Event) ID() string              { return e.id }
func (e *Event) OrganizerID() string     { return e.organizerID }
func (e *Event) Title() string           { return e.title }
func (e *Event) Description() string     { return e.description }
func (e *Event) Category() EventCategory { return e.category }
func (e *Event) Status() EventStatus     { return e.status }
func (e *Event) ImageURL() string        { return e.imageURL }
func (e *Event) Location() Location      { return e.location }
func (e *Event) DateRange() DateRange    { return e.dateRange }
func (e *Event) TotalCapacity() int      { return e.totalCapacity }
func (e *Event) SoldTickets() int        { return e.soldTickets }
func (e *Event) Revenue() Money          { return e.revenue }
func (e *Event) Version() int            { return e.version }
func (e *Event) CreatedAt() time.Time    { return e.createdAt }
func (e *Event) UpdatedAt() time.Time    { return e.updatedAt }

func (e *Event) PublishedAt() *time.Time    { return e.publishedAt }
func (e *Event) CancelledAt() *time.Time    { return e.cancelledAt }
func (e *Event) CancellationReason() string { return e.cancellationReason }

// IncrementVersion bumps the optimistic-lock version after a successful
// save. Called by the persistence layer only.
func (e *Event) IncrementVersion() {
	e.version++
}

// TicketTypes returns the owned collection in insertion order.
func (e *Event) TicketTypes() []*TicketType {
	out := make([]*TicketType, len(e.ticketTypes))
	copy(out, e.ticketTypes)
	return out
}

// TicketType looks up an owned ticket type by id.
func (e *Event) TicketType(id string) (*TicketType, bool) {
	if i := e.indexOfTicketType(id); i >= 0 {
		return e.ticketTypes[i], true
	}
	return nil, false
}

// Publish moves a draft event on sale. It requires at least one ticket type,
// at least one of them active and on sale right now, and an occurrence window
// that has not already elapsed.
func (e *Event) Publish(now time.Time) error {
	if !e.status.CanTransitionTo(StatusPublished) {
		return ErrInvalidStatusTransition
	}
	if len(e.ticketTypes) == 0 {
		return ErrMissingTicketTypes
	}
	if e.dateRange.HasEnded(now) {
		return ErrEventDatePassed
	}
	if len(e.ActiveTicketTypes(now)) == 0 {
		return ErrNoActiveTicketTypes
	}

	now = now.UTC()
	e.status = StatusPublished
	e.publishedAt = &now
	e.updatedAt = now
	e.record(EventPublished{EventID: e.id, At: now})
	return nil
}

// Cancel cancels a draft or published event that has not started yet.
// Downstream consumers of EventCancelled trigger refunds.
func (e *Event) Cancel(reason string, now time.Time) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrCancellationReasonRequired
	}
	if !e.status.CanTransitionTo(StatusCancelled) {
		return ErrInvalidStatusTransition
	}
	if e.dateRange.HasStarted(now) {
		return ErrEventAlreadyStarted
	}

	now = now.UTC()
	e.status = StatusCancelled
	e.cancelledAt = &now
	e.cancellationReason = reason
	e.updatedAt = now
	e.record(EventCancelled{EventID: e.id, Reason: reason, At: now})
	return nil
}

// MarkCompleted completes a published event whose occurrence has ended.
// It is an idempotent no-op otherwise and reports whether a transition
// happened.
func (e *Event) MarkCompleted(now time.Time) bool {
	if e.status != StatusPublished || !e.dateRange.HasEnded(now) {
		return false
	}
	now = now.UTC()
	e.status = StatusCompleted
	e.updatedAt = now
	e.record(EventCompleted{EventID: e.id, At: now})
	return true
}

// UpdateEventParams carries a partial details update; nil fields are
// untouched.
type UpdateEventParams struct {
	Title       *string
	Description *string
	Category    *EventCategory
	ImageURL    *string
	Location    *Location
	DateRange   *DateRange
}

// UpdateDetails applies a partial update. Title, description, category and
// image may change in any non-terminal status; location and dates only while
// the event is still a draft.
func (e *Event) UpdateDetails(p UpdateEventParams, now time.Time) error {
	if e.status.IsTerminal() {
		return ErrEventNotModifiable
	}
	if (p.Location != nil || p.DateRange != nil) && e.status != StatusDraft {
		return ErrCannotModifyAfterPublish
	}

	var title string
	if p.Title != nil {
		title = strings.TrimSpace(*p.Title)
		if err := validateTitle(title); err != nil {
			return err
		}
	}
	if p.Description != nil {
		if err := validateDescription(*p.Description); err != nil {
			return err
		}
	}
	if p.Category != nil && !p.Category.valid() {
		return ErrInvalidCategory
	}
	if p.DateRange != nil && p.DateRange.IsZero() {
		return ErrDateRequired
	}

	if p.Title != nil {
		e.title = title
	}
	if p.Description != nil {
		e.description = strings.TrimSpace(*p.Description)
	}
	if p.Category != nil {
		e.category = *p.Category
	}
	if p.ImageURL != nil {
		e.imageURL = strings.TrimSpace(*p.ImageURL)
	}
	if p.Location != nil {
		e.location = *p.Location
	}
	if p.DateRange != nil {
		e.dateRange = *p.DateRange
	}
	e.updatedAt = now.UTC()
	e.record(EventUpdated{EventID: e.id, At: e.updatedAt})
	return nil
}

// AddTicketType attaches a new tier. Allowed in draft and published so
// organizers can add tiers after going live.
func (e *Event) AddTicketType(t *TicketType, now time.Time) error {
	if e.status.IsTerminal() {
		return ErrEventNotModifiable
	}
	if t.eventID != e.id {
		return ForeignTicketTypeError(e.id, t.id)
	}
	if len(e.ticketTypes) >= MaxTicketTypes {
		return ErrTicketTypeLimitReached
	}
	for _, existing := range e.ticketTypes {
		if existing.name == t.name {
			return ErrDuplicateTicketTypeName
		}
		if existing.price.Currency() != t.price.Currency() {
			return ErrCurrencyMismatch
		}
	}

	e.ticketTypes = append(e.ticketTypes, t)
	if err := e.recompute(); err != nil {
		e.ticketTypes = e.ticketTypes[:len(e.ticketTypes)-1]
		return err
	}
	e.updatedAt = now.UTC()
	e.record(TicketTypeAdded{
		EventID:      e.id,
		TicketTypeID: t.id,
		Name:         t.name,
		At:           e.updatedAt,
	})
	return nil
}

// UpdateTicketType applies a partial update to an owned tier.
func (e *Event) UpdateTicketType(id string, p UpdateTicketTypeParams, now time.Time) error {
	if e.status.IsTerminal() {
		return ErrEventNotModifiable
	}
	i := e.indexOfTicketType(id)
	if i < 0 {
		return ErrTicketTypeNotFound
	}
	t := e.ticketTypes[i]

	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		for _, other := range e.ticketTypes {
			if other.id != id && other.name == name {
				return ErrDuplicateTicketTypeName
			}
		}
	}
	if p.Price != nil {
		for _, other := range e.ticketTypes {
			if other.id != id && other.price.Currency() != p.Price.Currency() {
				return ErrCurrencyMismatch
			}
		}
	}

	if err := t.update(p, now); err != nil {
		return err
	}
	if err := e.recompute(); err != nil {
		return err
	}
	e.updatedAt = now.UTC()
	e.record(TicketTypeUpdated{EventID: e.id, TicketTypeID: id, At: e.updatedAt})
	return nil
}

// RemoveTicketType detaches a tier. Only draft events may lose tiers, and
// only tiers with no sales.
func (e *Event) RemoveTicketType(id string, now time.Time) error {
	if e.status != StatusDraft {
		return ErrEventNotDraft
	}
	i := e.indexOfTicketType(id)
	if i < 0 {
		return ErrTicketTypeNotFound
	}
	if e.ticketTypes[i].soldQuantity > 0 {
		return ErrTicketTypeHasSales
	}

	e.ticketTypes = append(e.ticketTypes[:i], e.ticketTypes[i+1:]...)
	if err := e.recompute(); err != nil {
		return err
	}
	e.updatedAt = now.UTC()
	e.record(TicketTypeRemoved{EventID: e.id, TicketTypeID: id, At: e.updatedAt})
	return nil
}

// IncrementSold records n tickets sold on a tier, exercised by checkout flows.
// Failure leaves every counter unchanged.
func (e *Event) IncrementSold(id string, n int, now time.Time) error {
	i := e.indexOfTicketType(id)
	if i < 0 {
		return ErrTicketTypeNotFound
	}
	if err := e.ticketTypes[i].incrementSold(n, now); err != nil {
		return err
	}
	if err := e.recompute(); err != nil {
		return err
	}
	e.updatedAt = now.UTC()
	return nil
}

// DecrementSold releases n sold tickets on a tier, exercised by refund flows.
func (e *Event) DecrementSold(id string, n int, now time.Time) error {
	i := e.indexOfTicketType(id)
	if i < 0 {
		return ErrTicketTypeNotFound
	}
	if err := e.ticketTypes[i].decrementSold(n, now); err != nil {
		return err
	}
	if err := e.recompute(); err != nil {
		return err
	}
	e.updatedAt = now.UTC()
	return nil
}

// AvailableCapacity returns how many tickets remain across all tiers.
func (e *Event) AvailableCapacity() int {
	return e.totalCapacity - e.soldTickets
}

// SalesProgress returns the percentage of capacity sold, rounded.
func (e *Event) SalesProgress() int {
	if e.totalCapacity == 0 {
		return 0
	}
	return int(math.Round(float64(e.soldTickets) / float64(e.totalCapacity) * 100))
}

func (e *Event) IsSoldOut() bool {
	return e.totalCapacity > 0 && e.soldTickets == e.totalCapacity
}

// CanBeModified reports whether location and dates may still change.
func (e *Event) CanBeModified() bool {
	return e.status == StatusDraft
}

// CanBeCancelled reports whether the event is cancellable right now.
func (e *Event) CanBeCancelled(now time.Time) bool {
	return e.status.CanTransitionTo(StatusCancelled) && !e.dateRange.HasStarted(now)
}

// ActiveTicketTypes returns the tiers that are active and on sale at now.
func (e *Event) ActiveTicketTypes(now time.Time) []*TicketType {
	var out []*TicketType
	for _, t := range e.ticketTypes {
		if t.IsOnSale(now) {
			out = append(out, t)
		}
	}
	return out
}

func (e *Event) HasStarted(now time.Time) bool {
	return e.dateRange.HasStarted(now)
}

func (e *Event) HasEnded(now time.Time) bool {
	return e.dateRange.HasEnded(now)
}

// PullTicketTypeEvents drains the separate event logs of every owned tier.
func (e *Event) PullTicketTypeEvents() []DomainEvent {
	var out []DomainEvent
	for _, t := range e.ticketTypes {
		out = append(out, t.PullEvents()...)
	}
	return out
}

// Validate checks the aggregate invariants and returns a coded integrity
// error when stored state disagrees with the ticket types.
func (e *Event) Validate() error {
	capacity, sold, revenue, err := computeTotals(e.id, e.ticketTypes, e.revenue.Currency())
	if err != nil {
		return err
	}
	if capacity != e.totalCapacity {
		return CapacityMismatchError(e.id, capacity, e.totalCapacity)
	}
	if sold != e.soldTickets {
		return SoldMismatchError(e.id, sold, e.soldTickets)
	}
	if !revenue.Equals(e.revenue) {
		return newDomainError("event.revenue_mismatch", "event %s: revenue %s does not match ticket type sum %s", e.id, e.revenue, revenue)
	}
	for _, t := range e.ticketTypes {
		if t.soldQuantity > t.quantity {
			return OversoldError(t.id, t.soldQuantity, t.quantity)
		}
	}
	return nil
}

// validateTitle expects an already-trimmed title.
func validateTitle(title string) error {
	if title == "" {
		return ErrTitleRequired
	}
	if len(title) > maxTitleLen {
		return ErrTitleTooLong
	}
	return nil
}

func validateDescription(description string) error {
	if len(strings.TrimSpace(description)) > maxDescriptionLen {
		return ErrDescriptionTooLong
	}
	return nil
}

func (e *Event) indexOfTicketType(id string) int {
	for i, t := range e.ticketTypes {
		if t.id == id {
			return i
		}
	}
	return -1
}

// recompute refreshes the aggregate totals from the owned ticket types.
func (e *Event) recompute() error {
	currency := CurrencyUSD
	if len(e.ticketTypes) > 0 {
		currency = e.ticketTypes[0].price.Currency()
	}
	capacity, sold, revenue, err := computeTotals(e.id, e.ticketTypes, currency)
	if err != nil {
		return err
	}
	e.totalCapacity = capacity
	e.soldTickets = sold
	e.revenue = revenue
	return nil
}

func computeTotals(eventID string, types []*TicketType, currency Currency) (capacity, sold int, revenue Money, err error) {
	revenue = ZeroMoney(currency)
	for _, t := range types {
		capacity += t.quantity
		sold += t.soldQuantity
		revenue, err = revenue.Add(t.Revenue())
		if err != nil {
			return 0, 0, Money{}, err
		}
	}
	if sold > capacity {
		return 0, 0, Money{}, SoldMismatchError(eventID, capacity, sold)
	}
	return capacity, sold, revenue, nil
}
