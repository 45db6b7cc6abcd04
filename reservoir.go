package caliper

import (
	"math"
	"sync"
	"time"
)

// Default reservoir capacities, per spec.
const (
	DefaultSlidingWindowSize = 100
	DefaultUniformSize       = 1028
	DefaultExpDecaySize      = 1028
	DefaultExpDecayAlpha     = 0.015
)

// expDecayRescaleThreshold is the period after which the exponentially
// decaying reservoir rescales its landmark to bound the weight exponential.
const expDecayRescaleThreshold = time.Hour

// Reservoir is a bounded sampler over a stream of values. Every
// implementation tracks count, the total number of observations it has
// ever seen, independent of how many it currently retains.
type Reservoir interface {
	// Update adds value to the reservoir.
	Update(value float64)
	// Snapshot freezes the reservoir's current contents into an immutable,
	// statistically-queryable view.
	Snapshot() SnapshotView
	// Len returns the total number of values ever added, not the number
	// currently retained.
	Len() int64
}

// SnapshotView is satisfied by both Snapshot and WeightedSnapshot, so
// Histogram/Timer can return either without knowing which reservoir
// produced it.
type SnapshotView interface {
	GetValue(q float64) (float64, error)
	Mean() float64
	StdDev() float64
	Len() int
}

// UnboundedReservoir retains every value ever added.
type UnboundedReservoir struct {
	mu     sync.Mutex
	values []float64
}

// NewUnboundedReservoir creates an empty UnboundedReservoir.
func NewUnboundedReservoir() *UnboundedReservoir {
	return &UnboundedReservoir{}
}

// Update adds value to the reservoir.
func (r *UnboundedReservoir) Update(value float64) {
	r.mu.Lock()
	r.values = append(r.values, value)
	r.mu.Unlock()
}

// Snapshot returns a Snapshot over every retained value.
func (r *UnboundedReservoir) Snapshot() SnapshotView {
	r.mu.Lock()
	values := make([]float64, len(r.values))
	copy(values, r.values)
	r.mu.Unlock()
	return NewSnapshot(values)
}

// Len returns the number of values added so far.
func (r *UnboundedReservoir) Len() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.values))
}

// SlidingWindowReservoir retains the `size` most recently added values.
// The first `size` updates append; later updates overwrite position
// `count mod size`.
type SlidingWindowReservoir struct {
	mu     sync.Mutex
	size   int
	count  int64
	values []float64
}

// NewSlidingWindowReservoir creates a SlidingWindowReservoir of the given
// size. A non-positive size defaults to DefaultSlidingWindowSize.
func NewSlidingWindowReservoir(size int) *SlidingWindowReservoir {
	if size <= 0 {
		size = DefaultSlidingWindowSize
	}
	return &SlidingWindowReservoir{size: size}
}

// Update adds value, overwriting the oldest retained slot once full.
func (r *SlidingWindowReservoir) Update(value float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if int(r.count) < r.size {
		r.values = append(r.values, value)
	} else {
		r.values[r.count%int64(r.size)] = value
	}
	r.count++
}

// Snapshot returns a Snapshot over the retained buffer.
func (r *SlidingWindowReservoir) Snapshot() SnapshotView {
	r.mu.Lock()
	values := make([]float64, len(r.values))
	copy(values, r.values)
	r.mu.Unlock()
	return NewSnapshot(values)
}

// Len returns the number of values added so far.
func (r *SlidingWindowReservoir) Len() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// UniformReservoir is a sampling reservoir representing a uniform sample of
// the input stream, using Vitter's Algorithm R.
//
// <http://www.cs.umd.edu/~samir/498/vitter.pdf>
type UniformReservoir struct {
	mu     sync.Mutex
	size   int
	count  int64
	values []float64
	src    Source
}

// NewUniformReservoir creates a UniformReservoir of the given size, drawing
// replacement indices from src. A non-positive size defaults to
// DefaultUniformSize; a nil src uses the package default.
func NewUniformReservoir(size int, src Source) *UniformReservoir {
	if size <= 0 {
		size = DefaultUniformSize
	}
	if src == nil {
		src = defaultSource
	}
	return &UniformReservoir{size: size, src: src}
}

// Update samples a new value. For the i-th update with count already >= size
// at entry, a replacement index is drawn from [0, count-1] inclusive via
// randInt(src, 0, count-1) *before* count is incremented, even when the draw
// will be rejected -- so that randomness streams stay deterministic
// regardless of whether an item is ultimately retained.
func (r *UniformReservoir) Update(value float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if int(r.count) < r.size {
		r.values = append(r.values, value)
	} else {
		index := randInt(r.src, 0, int(r.count)-1)
		if index < r.size {
			r.values[index] = value
		}
	}
	r.count++
}

// Snapshot returns a Snapshot over the retained sample.
func (r *UniformReservoir) Snapshot() SnapshotView {
	r.mu.Lock()
	values := make([]float64, len(r.values))
	copy(values, r.values)
	r.mu.Unlock()
	return NewSnapshot(values)
}

// Len returns the number of values added so far.
func (r *UniformReservoir) Len() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// expDecaySample is a single forward-decaying reservoir entry.
type expDecaySample struct {
	value, weight float64
}

// ExpDecayReservoir is a sampling reservoir that employs forward decay, per
// Cormode, Shkapenyuk, Srivastava & Xu's "Forward Decay: A Practical Time
// Decay Model for Streaming Systems". It strikes a balance between storage
// requirements, recency and statistical accuracy.
//
// <http://www.research.att.com/people/Cormode_Graham/library/publications/CormodeShkapenyukSrivastavaXu09.pdf>
type ExpDecayReservoir struct {
	mu    sync.Mutex
	size  int
	alpha float64
	clock Clock
	src   Source

	// Logger, if set, receives a message every time the reservoir rescales
	// its landmark. Nil by default; SetLogger opts in.
	Logger Logger

	count       int64
	landmark    time.Time
	nextRescale time.Time
	entries     map[float64]expDecaySample
}

// NewExpDecayReservoir creates an ExpDecayReservoir of the given size and
// decay constant alpha. Non-positive size/alpha default to
// DefaultExpDecaySize/DefaultExpDecayAlpha. A nil clock/src uses the package
// defaults.
func NewExpDecayReservoir(size int, alpha float64, clock Clock, src Source) *ExpDecayReservoir {
	if size <= 0 {
		size = DefaultExpDecaySize
	}
	if alpha <= 0 {
		alpha = DefaultExpDecayAlpha
	}
	if clock == nil {
		clock = defaultClock
	}
	if src == nil {
		src = defaultSource
	}

	now := clock.Now()
	return &ExpDecayReservoir{
		size:        size,
		alpha:       alpha,
		clock:       clock,
		src:         src,
		landmark:    now,
		nextRescale: now.Add(expDecayRescaleThreshold),
		entries:     make(map[float64]expDecaySample, size),
	}
}

// Update adds value at the current instant. It panics with
// ErrLandmarkViolation if, after a lazy rescale, the observation instant is
// not strictly after the landmark -- an assertion-class fault indicating a
// clock regression.
func (r *ExpDecayReservoir) Update(value float64) {
	r.update(value, r.clock.Now())
}

// update is update with an explicit timestamp, split out to ease testing.
func (r *ExpDecayReservoir) update(value float64, t time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rescaleIfNeeded(r.clock.Now())

	if !t.After(r.landmark) {
		panic(landmarkViolationf(t, r.landmark))
	}

	weight := r.sampleWeight(t.Sub(r.landmark).Seconds())

	u := r.src.Float64()
	for u == 0.0 {
		u = r.src.Float64()
	}
	priority := weight / u

	if r.count < int64(r.size) {
		r.entries[priority] = expDecaySample{value: value, weight: weight}
	} else if len(r.entries) > 0 {
		pMin := minKey(r.entries)
		if pMin < priority {
			if _, exists := r.entries[priority]; !exists {
				delete(r.entries, pMin)
				r.entries[priority] = expDecaySample{value: value, weight: weight}
			}
		}
	}

	r.count++
}

// SetLogger installs l as the reservoir's rescale logger.
func (r *ExpDecayReservoir) SetLogger(l Logger) {
	r.mu.Lock()
	r.Logger = l
	r.mu.Unlock()
}

// Snapshot returns a WeightedSnapshot over the stored (value, weight) pairs.
func (r *ExpDecayReservoir) Snapshot() SnapshotView {
	r.mu.Lock()
	pairs := make([]WeightedValue, 0, len(r.entries))
	for _, e := range r.entries {
		pairs = append(pairs, WeightedValue{Value: e.value, Weight: e.weight})
	}
	r.mu.Unlock()
	return NewWeightedSnapshot(pairs)
}

// Len returns the number of values added so far.
func (r *ExpDecayReservoir) Len() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// sampleWeight returns exp(alpha * t).
func (r *ExpDecayReservoir) sampleWeight(t float64) float64 {
	return math.Exp(r.alpha * t)
}

// rescaleIfNeeded rescales the landmark if the next-rescale deadline has
// passed. Must be called with mu held.
func (r *ExpDecayReservoir) rescaleIfNeeded(now time.Time) {
	if !now.Before(r.nextRescale) {
		r.rescale(now)
	}
}

// rescale shifts the landmark to now, multiplying every stored
// (priority, weight) pair by exp(-alpha * delta) where delta is the elapsed
// time since the old landmark. Must be called with mu held.
func (r *ExpDecayReservoir) rescale(now time.Time) {
	r.setNextRescale(now)

	oldLandmark := r.landmark
	r.landmark = now
	scale := math.Exp(-r.alpha * now.Sub(oldLandmark).Seconds())

	rescaled := make(map[float64]expDecaySample, len(r.entries))
	for key, e := range r.entries {
		rescaled[key*scale] = expDecaySample{value: e.value, weight: e.weight * scale}
	}
	r.entries = rescaled

	if r.Logger != nil {
		r.Logger.Printf("reservoir rescaled: landmark shifted by %s, %d entries rescaled", now.Sub(oldLandmark), len(rescaled))
	}
}

// setNextRescale advances the next-rescale deadline to now + 1 hour. Must be
// called with mu held.
func (r *ExpDecayReservoir) setNextRescale(now time.Time) {
	r.nextRescale = now.Add(expDecayRescaleThreshold)
}

func minKey(m map[float64]expDecaySample) float64 {
	first := true
	var min float64
	for k := range m {
		if first || k < min {
			min = k
			first = false
		}
	}
	return min
}

func landmarkViolationf(t, landmark time.Time) error {
	return &landmarkError{t: t, landmark: landmark}
}

type landmarkError struct {
	t, landmark time.Time
}

func (e *landmarkError) Error() string {
	return ErrLandmarkViolation.Error()
}

func (e *landmarkError) Unwrap() error { return ErrLandmarkViolation }
