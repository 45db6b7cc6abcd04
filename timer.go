package caliper

import "time"

// Timer combines a Histogram of durations (in seconds) with a Meter of
// event rate.
type Timer struct {
	clock     Clock
	histogram *Histogram
	meter     *Meter
}

// NewTimer creates a Timer over reservoir, using clock for scoped-region
// timing and meter ticks. Nil values default to the package clock and a
// new ExpDecayReservoir.
func NewTimer(reservoir Reservoir, clock Clock) *Timer {
	if clock == nil {
		clock = defaultClock
	}
	return &Timer{
		clock:     clock,
		histogram: NewHistogram(reservoir),
		meter:     NewMeter(clock),
	}
}

// Update adds duration (in seconds) to the timer. Durations <= 0 are
// silently discarded.
func (t *Timer) Update(duration float64) {
	if duration <= 0 {
		return
	}
	t.histogram.Update(duration)
	t.meter.Mark(1)
}

// Count returns the number of durations recorded.
func (t *Timer) Count() int64 { return t.histogram.Count() }

// Rate1 returns the one-minute moving average event rate.
func (t *Timer) Rate1() float64 { return t.meter.Rate1() }

// Rate5 returns the five-minute moving average event rate.
func (t *Timer) Rate5() float64 { return t.meter.Rate5() }

// Rate15 returns the fifteen-minute moving average event rate.
func (t *Timer) Rate15() float64 { return t.meter.Rate15() }

// Snapshot returns a snapshot of the recorded durations, in seconds.
func (t *Timer) Snapshot() SnapshotView { return t.histogram.Snapshot() }

// Time records the time taken by f under the (true, true) success/failure
// policy: the duration is recorded whether f returns or panics, and the
// region cannot be aborted.
func (t *Timer) Time(f func()) {
	ctx := t.Start(true, true)
	defer ctx.Stop(false)
	f()
}

// Start begins a scoped timing region. updateOnSuccess/updateOnFailure
// decide, via Stop(failed), whether the elapsed duration is recorded;
// Abort suppresses the update regardless.
func (t *Timer) Start(updateOnSuccess, updateOnFailure bool) *TimerContext {
	return &TimerContext{
		timer:           t,
		started:         t.clock.Now(),
		updateOnSuccess: updateOnSuccess,
		updateOnFailure: updateOnFailure,
	}
}

// TimerContext is a scoped timing region returned by Timer.Start. Entry is
// implicit at Start(); call Stop when the region ends, passing whether an
// exception-equivalent condition occurred inside it.
type TimerContext struct {
	timer                            *Timer
	started                          time.Time
	updateOnSuccess, updateOnFailure bool
	aborted                          bool
}

// Abort prevents Stop from recording a duration, regardless of policy.
func (c *TimerContext) Abort() {
	c.aborted = true
}

// Stop computes the elapsed duration since Start and, subject to the
// region's policy and Abort, forwards it to the timer. failed indicates
// whether an exception-equivalent condition occurred inside the region.
func (c *TimerContext) Stop(failed bool) {
	if c.aborted {
		return
	}
	if (!failed && c.updateOnSuccess) || (failed && c.updateOnFailure) {
		elapsed := c.timer.clock.Now().Sub(c.started).Seconds()
		c.timer.Update(elapsed)
	}
}
