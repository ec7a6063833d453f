// Package meter provides concrete hosts for the processor: budgets that drain
// as work is done and a transcript that collects log lines.
package meter

import (
	"sync"
	"time"
)

// DefaultBudget is the starting budget of a host when none is given.
const DefaultBudget uint64 = 1_400_000_000

// Clock is a budget that drains by one unit per nanosecond of monotonic time
// since it was created.
type Clock struct {
	limit uint64
	start time.Time
	now   func() time.Time
}

// ClockOption configures a Clock.
type ClockOption func(c *Clock)

// WithNow replaces the time source.
func WithNow(now func() time.Time) ClockOption {
	return func(c *Clock) {
		c.now = now
	}
}

// NewClock returns a Clock holding limit units.
func NewClock(limit uint64, opts ...ClockOption) *Clock {
	c := &Clock{
		limit: limit,
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.start = c.now()

	return c
}

// RemainingUnits returns the budget left, saturating at zero.
func (c *Clock) RemainingUnits() uint64 {
	elapsed := c.now().Sub(c.start)
	if elapsed <= 0 {
		return c.limit
	}

	if uint64(elapsed) >= c.limit {
		return 0
	}

	return c.limit - uint64(elapsed)
}

// Counter is a deterministic budget: every read costs a fixed charge, the
// way a host syscall would. It is safe for concurrent use.
type Counter struct {
	mu        sync.Mutex
	remaining uint64
	charge    uint64
}

// NewCounter returns a Counter holding limit units that charges charge units
// per read.
func NewCounter(limit, charge uint64) *Counter {
	return &Counter{
		remaining: limit,
		charge:    charge,
	}
}

// RemainingUnits returns the budget and then charges for the read.
func (c *Counter) RemainingUnits() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	r := c.remaining
	if c.remaining < c.charge {
		c.remaining = 0
	} else {
		c.remaining -= c.charge
	}

	return r
}

// Consume drains n units, saturating at zero.
func (c *Counter) Consume(n uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.remaining < n {
		c.remaining = 0
		return
	}

	c.remaining -= n
}
