package caliper

// Histogram calculates the distribution of a stream of values. It composes
// a Counter (of updates) with a Reservoir, rather than the multiple
// inheritance of the reference implementation.
type Histogram struct {
	counter   *Counter
	reservoir Reservoir
}

// NewHistogram creates a Histogram over reservoir. A nil reservoir defaults
// to a new ExpDecayReservoir with default size and alpha.
func NewHistogram(reservoir Reservoir) *Histogram {
	if reservoir == nil {
		reservoir = NewExpDecayReservoir(DefaultExpDecaySize, DefaultExpDecayAlpha, nil, nil)
	}
	return &Histogram{counter: NewCounter(), reservoir: reservoir}
}

// Update increments the update count and feeds value to the reservoir.
func (h *Histogram) Update(value float64) {
	h.counter.Inc(1)
	h.reservoir.Update(value)
}

// Count returns the number of values observed.
func (h *Histogram) Count() int64 {
	return h.counter.Count()
}

// Snapshot delegates to the underlying reservoir.
func (h *Histogram) Snapshot() SnapshotView {
	return h.reservoir.Snapshot()
}
