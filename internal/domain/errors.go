package domain

import (
	"errors"
	"fmt"
	"time"
)

// Expected business-rule violations. Callers map each sentinel to a
// user-facing response without string matching.
var (
	ErrEventNotFound              = errors.New("event not found")
	ErrTicketTypeNotFound         = errors.New("ticket type not found")
	ErrInvalidStatusTransition    = errors.New("invalid status transition")
	ErrEventNotModifiable         = errors.New("event can no longer be modified")
	ErrEventNotDraft              = errors.New("event is not in draft")
	ErrCannotModifyAfterPublish   = errors.New("location and dates cannot change after publishing")
	ErrMissingTicketTypes         = errors.New("event has no ticket types")
	ErrNoActiveTicketTypes        = errors.New("event has no active ticket types on sale")
	ErrEventDatePassed            = errors.New("event date has already passed")
	ErrEventAlreadyStarted        = errors.New("event has already started")
	ErrCancellationReasonRequired = errors.New("cancellation reason is required")

	ErrTicketTypeLimitReached  = errors.New("ticket type limit reached")
	ErrDuplicateTicketTypeName = errors.New("ticket type name already exists")
	ErrQuantityBelowSold       = errors.New("quantity cannot drop below sold tickets")
	ErrTicketTypeHasSales      = errors.New("ticket type has sold tickets")
	ErrInsufficientCapacity    = errors.New("insufficient capacity")
	ErrNotEnoughSold           = errors.New("not enough sold tickets")
	ErrInvalidQuantity         = errors.New("invalid quantity")

	ErrTitleRequired      = errors.New("title is required")
	ErrTitleTooLong       = errors.New("title is too long")
	ErrDescriptionTooLong = errors.New("description is too long")
	ErrInvalidOrganizerID = errors.New("invalid organizer id")
	ErrInvalidCategory    = errors.New("invalid event category")
	ErrInvalidID          = errors.New("invalid id")

	ErrCityRequired        = errors.New("city is required")
	ErrCountryRequired     = errors.New("country is required")
	ErrCityTooLong         = errors.New("city is too long")
	ErrCountryTooLong      = errors.New("country is too long")
	ErrAddressTooLong      = errors.New("address is too long")
	ErrPostalCodeTooLong   = errors.New("postal code is too long")
	ErrPartialCoordinates  = errors.New("latitude and longitude must be provided together")
	ErrLatitudeOutOfRange  = errors.New("latitude out of range")
	ErrLongitudeOutOfRange = errors.New("longitude out of range")
	ErrNoCoordinates       = errors.New("location has no coordinates")

	ErrDateRequired            = errors.New("start and end dates are required")
	ErrEndBeforeStart          = errors.New("end date must be after start date")
	ErrStartTooSoon            = errors.New("event must start at least one hour from now")
	ErrSalesEndAfterEventStart = errors.New("sales period must end by the event start")

	ErrTicketNameRequired  = errors.New("ticket type name is required")
	ErrTicketNameTooLong   = errors.New("ticket type name is too long")
	ErrPriceNotPositive    = errors.New("ticket price must be positive")
	ErrQuantityNotPositive = errors.New("ticket quantity must be positive")

	ErrUnknownCurrency  = errors.New("unknown currency")
	ErrCurrencyMismatch = errors.New("currency mismatch")
	ErrNegativeAmount   = errors.New("amount cannot be negative")

	ErrConcurrentModification = errors.New("event was modified concurrently")

	ErrOrganizerNotFound = errors.New("organizer not found")
	ErrNotEventOwner     = errors.New("not the event owner")
)

// DomainError reports an integrity failure: state that can only be reached
// through corruption or a programming error, never through normal use.
type DomainError struct {
	Code       string    `json:"code"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (e *DomainError) Error() string {
	return e.Code + ": " + e.Message
}

func newDomainError(code, format string, args ...any) *DomainError {
	return &DomainError{
		Code:       code,
		Message:    fmt.Sprintf(format, args...),
		OccurredAt: time.Now().UTC(),
	}
}

// CorruptStatusError reports a persisted status outside the closed set.
func CorruptStatusError(status string) *DomainError {
	return newDomainError("event.corrupt_status", "unknown event status %q", status)
}

// CorruptCategoryError reports a persisted category outside the closed set.
func CorruptCategoryError(category string) *DomainError {
	return newDomainError("event.corrupt_category", "unknown event category %q", category)
}

// CorruptCurrencyError reports a persisted currency outside the closed set.
func CorruptCurrencyError(code string) *DomainError {
	return newDomainError("money.corrupt_currency", "unknown currency %q", code)
}

// CapacityMismatchError reports a stored capacity total that disagrees with
// the sum over the ticket types.
func CapacityMismatchError(eventID string, want, got int) *DomainError {
	return newDomainError("event.capacity_mismatch", "event %s: capacity %d does not match ticket type sum %d", eventID, got, want)
}

// SoldMismatchError reports a stored sold total that disagrees with the sum
// over the ticket types.
func SoldMismatchError(eventID string, want, got int) *DomainError {
	return newDomainError("event.sold_mismatch", "event %s: sold %d does not match ticket type sum %d", eventID, got, want)
}

// OversoldError reports a ticket type whose sold count exceeds its quantity.
func OversoldError(ticketTypeID string, sold, quantity int) *DomainError {
	return newDomainError("ticket_type.oversold", "ticket type %s: sold %d exceeds quantity %d", ticketTypeID, sold, quantity)
}

// ForeignTicketTypeError reports a ticket type attached to the wrong event.
func ForeignTicketTypeError(eventID, ticketTypeID string) *DomainError {
	return newDomainError("ticket_type.foreign", "ticket type %s does not belong to event %s", ticketTypeID, eventID)
}
