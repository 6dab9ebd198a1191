package clock

import "time"

// Clock abstracts the current time so services can be tested with a
// fixed instant.
type Clock interface {
	Now() time.Time
}

// NewSystem returns the wall clock, normalized to UTC.
func NewSystem() Clock {
	return wallClock{}
}

type wallClock struct{}

func (wallClock) Now() time.Time {
	return time.Now().UTC()
}

// NewFixed returns a clock frozen at the given instant.
func NewFixed(t time.Time) Clock {
	return frozenClock{at: t.UTC()}
}

type frozenClock struct {
	at time.Time
}

func (f frozenClock) Now() time.Time {
	return f.at
}
