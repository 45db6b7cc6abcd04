package caliper

import (
	"sync"
	"time"
)

// Meter counts events and measures one-, five- and fifteen-minute
// exponentially-weighted moving average throughput. It does not report a
// mean rate over its lifetime.
type Meter struct {
	mu       sync.Mutex
	clock    Clock
	interval float64
	count    int64
	lastTick time.Time

	m1  *EWMA
	m5  *EWMA
	m15 *EWMA
}

// NewMeter creates a Meter ticking its EWMAs every DefaultTickInterval
// seconds, using clock for "now". A nil clock uses the package default.
func NewMeter(clock Clock) *Meter {
	if clock == nil {
		clock = defaultClock
	}
	return &Meter{
		clock:    clock,
		interval: DefaultTickInterval,
		lastTick: clock.Now(),
		m1:       OneMinuteEWMA(),
		m5:       FiveMinuteEWMA(),
		m15:      FifteenMinuteEWMA(),
	}
}

// Mark records n events: it catches up any pending EWMA ticks, then
// increments the count and forwards update(n) to all three EWMAs.
func (m *Meter) Mark(n int64) {
	m.tick()

	m.mu.Lock()
	m.count += n
	m.mu.Unlock()

	m.m1.Update(float64(n))
	m.m5.Update(float64(n))
	m.m15.Update(float64(n))
}

// Count returns the total number of events marked.
func (m *Meter) Count() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}

// Rate1 returns the one-minute moving average rate, in events/second.
func (m *Meter) Rate1() float64 { return m.m1.Rate() }

// Rate5 returns the five-minute moving average rate, in events/second.
func (m *Meter) Rate5() float64 { return m.m5.Rate() }

// Rate15 returns the fifteen-minute moving average rate, in events/second.
func (m *Meter) Rate15() float64 { return m.m15.Rate() }

// tick advances lastTick and invokes Tick() on each EWMA once per elapsed
// interval. If the elapsed age exceeds the interval, the fractional
// remainder of age/interval is discarded and lastTick is advanced to now --
// a known approximation carried over unchanged from the reference
// implementation; see DESIGN.md.
func (m *Meter) tick() {
	m.mu.Lock()
	now := m.clock.Now()
	age := now.Sub(m.lastTick).Seconds()

	var ticks int
	if age > m.interval {
		m.lastTick = now
		ticks = int(age / m.interval)
	}
	m.mu.Unlock()

	for i := 0; i < ticks; i++ {
		m.m1.Tick()
		m.m5.Tick()
		m.m15.Tick()
	}
}
