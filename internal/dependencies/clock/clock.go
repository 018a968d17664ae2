package clock

import "time"

// Clock abstracts the wall clock so event dates, archive cutoffs, and
// session expiry can be driven by a mock in tests
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock
type RealClock struct{}

// New creates a new RealClock
func New() *RealClock {
	return &RealClock{}
}

func (c *RealClock) Now() time.Time {
	return time.Now()
}
