// Package clock holds the simulated system time shared by the kernel and its collaborators.
package clock

// Clock is a monotonic simulated clock. It is not safe for concurrent use.
type Clock struct {
	now uint64
}

// New creates a clock reading start
func New(start uint64) *Clock {
	return &Clock{now: start}
}

// Now returns the current simulated time
func (c *Clock) Now() uint64 {
	return c.now
}

// Advance moves the clock forward by delta and returns the new time
func (c *Clock) Advance(delta uint64) uint64 {
	c.now += delta
	return c.now
}
