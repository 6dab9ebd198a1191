package domain

import "time"

// SalesPeriodStatus describes where a sales window sits relative to now.
type SalesPeriodStatus string

const (
	SalesPending SalesPeriodStatus = "pending"
	SalesActive  SalesPeriodStatus = "active"
	SalesEnded   SalesPeriodStatus = "ended"
)

// SalesPeriod is the immutable window during which a ticket type is on sale.
// Unlike DateRange it may lie entirely in the past.
type SalesPeriod struct {
	start time.Time
	end   time.Time
}

// NewSalesPeriod validates and builds a sales window.
func NewSalesPeriod(start, end time.Time) (SalesPeriod, error) {
	if start.IsZero() || end.IsZero() {
		return SalesPeriod{}, ErrDateRequired
	}
	if !end.After(start) {
		return SalesPeriod{}, ErrEndBeforeStart
	}
	return SalesPeriod{start: start.UTC(), end: end.UTC()}, nil
}

func (p SalesPeriod) Start() time.Time { return p.start }
func (p SalesPeriod) End() time.Time   { return p.end }

// Status reports whether the window is pending, active, or ended at now.
func (p SalesPeriod) Status(now time.Time) SalesPeriodStatus {
	switch {
	case now.Before(p.start):
		return SalesPending
	case now.Before(p.end):
		return SalesActive
	default:
		return SalesEnded
	}
}

func (p SalesPeriod) IsActive(now time.Time) bool {
	return p.Status(now) == SalesActive
}

// Contains reports whether t falls inside the window, start inclusive.
func (p SalesPeriod) Contains(t time.Time) bool {
	return !t.Before(p.start) && t.Before(p.end)
}

func (p SalesPeriod) Overlaps(other SalesPeriod) bool {
	return p.start.Before(other.end) && other.start.Before(p.end)
}

// EndsBy reports whether sales close at or before the given event start.
func (p SalesPeriod) EndsBy(eventStart time.Time) bool {
	return !p.end.After(eventStart)
}

func (p SalesPeriod) Equals(other SalesPeriod) bool {
	return p.start.Equal(other.start) && p.end.Equal(other.end)
}
