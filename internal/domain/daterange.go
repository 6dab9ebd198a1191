package domain

import "time"

// MinStartLeadTime is how far in the future a new event must start.
const MinStartLeadTime = time.Hour

// DateRange is the immutable occurrence window of an event.
type DateRange struct {
	start time.Time
	end   time.Time
}

// NewDateRange builds the occurrence window for a new event. The start must
// be at least MinStartLeadTime after now.
func NewDateRange(start, end, now time.Time) (DateRange, error) {
	r, err := ReconstituteDateRange(start, end)
	if err != nil {
		return DateRange{}, err
	}
	if start.Before(now.Add(MinStartLeadTime)) {
		return DateRange{}, ErrStartTooSoon
	}
	return r, nil
}

// ReconstituteDateRange rebuilds a window from persisted dates, waiving the
// lead-time rule so historical events load.
func ReconstituteDateRange(start, end time.Time) (DateRange, error) {
	if start.IsZero() || end.IsZero() {
		return DateRange{}, ErrDateRequired
	}
	if !end.After(start) {
		return DateRange{}, ErrEndBeforeStart
	}
	return DateRange{start: start.UTC(), end: end.UTC()}, nil
}

func (r DateRange) Start() time.Time { return r.start }
func (r DateRange) End() time.Time   { return r.end }

func (r DateRange) Duration() time.Duration {
	return r.end.Sub(r.start)
}

// IsMultiDay reports whether the window spans more than one calendar day in UTC.
func (r DateRange) IsMultiDay() bool {
	sy, sm, sd := r.start.Date()
	ey, em, ed := r.end.Date()
	return sy != ey || sm != em || sd != ed
}

// Contains reports whether t falls inside the window, start inclusive.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.start) && t.Before(r.end)
}

func (r DateRange) Overlaps(other DateRange) bool {
	return r.start.Before(other.end) && other.start.Before(r.end)
}

func (r DateRange) HasStarted(now time.Time) bool {
	return !now.Before(r.start)
}

func (r DateRange) HasEnded(now time.Time) bool {
	return !now.Before(r.end)
}

func (r DateRange) IsOngoing(now time.Time) bool {
	return r.HasStarted(now) && !r.HasEnded(now)
}

func (r DateRange) IsZero() bool {
	return r.start.IsZero() && r.end.IsZero()
}

func (r DateRange) Equals(other DateRange) bool {
	return r.start.Equal(other.start) && r.end.Equal(other.end)
}
