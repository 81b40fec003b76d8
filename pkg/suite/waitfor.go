package suite

import (
	"sync"
	"time"
)

// DefaultInterval is the poll interval WaitFor uses when none is given.
const DefaultInterval = 100 * time.Millisecond

// Probe yields the value WaitFor compares against the expected one.
type Probe[T comparable] interface {
	Value() T
}

// ProbeFunc adapts a function to Probe.
type ProbeFunc[T comparable] func() T

// Value implements Probe.
func (f ProbeFunc[T]) Value() T { return f() }

// Cell is a single value shared between goroutines.
type Cell[T comparable] struct {
	mu sync.RWMutex
	v  T
}

// NewCell creates a cell holding v.
func NewCell[T comparable](v T) *Cell[T] {
	return &Cell[T]{v: v}
}

// Set stores v.
func (c *Cell[T]) Set(v T) {
	c.mu.Lock()
	c.v = v
	c.mu.Unlock()
}

// Get returns the stored value.
func (c *Cell[T]) Get() T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.v
}

// Value implements Probe.
func (c *Cell[T]) Value() T { return c.Get() }

// WaitFor polls probe every interval until it yields expected or timeout is
// used up. It reports whether the expected value was seen.
func WaitFor[T comparable](probe Probe[T], expected T, timeout, interval time.Duration) bool {
	if interval <= 0 {
		interval = DefaultInterval
	}

	for remaining := timeout; remaining > 0; remaining -= interval {
		if probe.Value() == expected {
			return true
		}

		time.Sleep(interval)
	}

	return false
}
