package mocks

import (
	"time"

	"github.com/beatguessr/beatguessr-go/internal/dependencies/clock"
)

// MockClock holds time still so JoinedAt tie-breaks and janitor cutoffs are
// deterministic. Not safe for concurrent Advance/Set; suites move the clock
// only between operations.
type MockClock struct {
	CurrentTime time.Time
}

var _ clock.Clock = (*MockClock)(nil)

// NewMockClock creates a MockClock pinned to the given time
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{CurrentTime: t}
}

// Now returns the pinned time
func (c *MockClock) Now() time.Time {
	return c.CurrentTime
}

// Advance moves the clock forward by the given duration
func (c *MockClock) Advance(d time.Duration) {
	c.CurrentTime = c.CurrentTime.Add(d)
}

// Set pins the clock to the given time
func (c *MockClock) Set(t time.Time) {
	c.CurrentTime = t
}
