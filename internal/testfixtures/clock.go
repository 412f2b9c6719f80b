package testfixtures

import (
	"sync"
	"time"
)

// ReferenceTime is the default instant for test clocks
func ReferenceTime() time.Time {
	return time.Date(2024, time.July, 1, 9, 0, 0, 0, time.UTC)
}

// Clock provides a controllable time source for tests
type Clock struct {
	mu      sync.Mutex
	current time.Time
}

// NewClock returns a clock set to start, or ReferenceTime when start is zero
func NewClock(start time.Time) *Clock {
	if start.IsZero() {
		start = ReferenceTime()
	}
	return &Clock{current: start}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Advance moves the clock forward and returns the new time
func (c *Clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
	return c.current
}
