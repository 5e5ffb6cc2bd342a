package clock

import "time"

// Clock stamps domain events. Tests substitute a fixed clock.
type Clock interface {
	Now() time.Time
}

// UTCClock reads the system clock in UTC, so event timestamps do not
// depend on the server's zone
type UTCClock struct{}

// New creates a new UTCClock
func New() UTCClock {
	return UTCClock{}
}

// Now returns the current time in UTC
func (UTCClock) Now() time.Time {
	return time.Now().UTC()
}
