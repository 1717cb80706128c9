package clock

import "time"

// Clock is the time source behind player JoinedAt stamps and the janitor's
// idle cutoff. Injected so tests can pin or advance time deterministically.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock
type RealClock struct{}

// New creates a new RealClock
func New() *RealClock {
	return &RealClock{}
}

// Now returns the current time
func (c *RealClock) Now() time.Time {
	return time.Now()
}
