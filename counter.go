package caliper

import "sync/atomic"

// Counter holds a signed running total that can be incremented or
// decremented. Negative counts are permitted.
type Counter struct {
	count int64
}

// NewCounter creates a Counter starting at 0.
func NewCounter() *Counter {
	return &Counter{}
}

// Inc increments the counter by n.
func (c *Counter) Inc(n int64) {
	atomic.AddInt64(&c.count, n)
}

// Dec decrements the counter by n.
func (c *Counter) Dec(n int64) {
	atomic.AddInt64(&c.count, -n)
}

// Count returns the current value of the counter.
func (c *Counter) Count() int64 {
	return atomic.LoadInt64(&c.count)
}
