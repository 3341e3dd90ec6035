package testutil

import (
	"sync"
	"time"
)

// DefaultStart is the first instant DeterministicTime reports.
var DefaultStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// DeterministicTime is a wall clock for tests that advances by a fixed
// step on every call, so recorded timestamps are reproducible.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type DeterministicTime struct {
	mu    sync.Mutex
	start time.Time
	step  time.Duration
	n     int64
}

// NewDeterministicTime creates a clock starting at start. The first call
// to Now returns start.
func NewDeterministicTime(start time.Time, step time.Duration) *DeterministicTime {
	return &DeterministicTime{start: start, step: step}
}

// Now returns the next instant. Its signature matches time.Now.
func (c *DeterministicTime) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.start.Add(time.Duration(c.n) * c.step)
	c.n++
	return t
}

// Calls returns how many times Now was called.
func (c *DeterministicTime) Calls() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

// Reset rewinds the clock. After Reset, Now returns start again.
func (c *DeterministicTime) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n = 0
}
