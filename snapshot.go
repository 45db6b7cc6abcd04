package caliper

import (
	"math"
	"sort"
	"sync"
)

// Snapshot is an immutable, sorted view over a reservoir's unweighted
// values at the moment it was taken. Mutating the originating reservoir
// after a Snapshot is created never affects it.
type Snapshot struct {
	values []float64

	once   sync.Once
	mean   float64
	stddev float64
}

// NewSnapshot builds a Snapshot from values, copying and sorting them
// ascending.
func NewSnapshot(values []float64) *Snapshot {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return &Snapshot{values: sorted}
}

// Len returns the number of values in the snapshot.
func (s *Snapshot) Len() int { return len(s.values) }

// Values returns a copy of the sorted values.
func (s *Snapshot) Values() []float64 {
	out := make([]float64, len(s.values))
	copy(out, s.values)
	return out
}

// GetValue returns the linear-interpolated value at quantile q, using
// pos = q * (n + 1). Returns ErrInvalidQuantile if q is outside [0, 1].
func (s *Snapshot) GetValue(q float64) (float64, error) {
	if q < 0 || q > 1 {
		return 0, invalidQuantilef("%v not in [0, 1]", q)
	}

	n := len(s.values)
	if n == 0 {
		return 0, nil
	}

	pos := q * float64(n+1)
	index := int(pos)

	switch {
	case index == 0:
		return s.values[0], nil
	case index >= n:
		return s.values[n-1], nil
	default:
		lower := s.values[index-1]
		upper := s.values[index]
		return lower + (pos-float64(index))*(upper-lower), nil
	}
}

// Mean returns the arithmetic mean, memoized on first access. 0 if empty.
func (s *Snapshot) Mean() float64 {
	s.compute()
	return s.mean
}

// StdDev returns the sample standard deviation (divisor n-1), memoized on
// first access. 0 if n <= 1.
func (s *Snapshot) StdDev() float64 {
	s.compute()
	return s.stddev
}

func (s *Snapshot) compute() {
	s.once.Do(func() {
		n := len(s.values)
		if n == 0 {
			return
		}

		var sum float64
		for _, v := range s.values {
			sum += v
		}
		s.mean = sum / float64(n)

		if n <= 1 {
			return
		}
		var sq float64
		for _, v := range s.values {
			d := v - s.mean
			sq += d * d
		}
		s.stddev = math.Sqrt(sq / float64(n-1))
	})
}

// WeightedValue is a single (value, weight) observation fed into a
// WeightedSnapshot.
type WeightedValue struct {
	Value  float64
	Weight float64
}

// WeightedSnapshot is an immutable, sorted view over a reservoir's
// (value, weight) pairs, as produced by the exponentially-decaying
// reservoir.
type WeightedSnapshot struct {
	values      []float64
	normWeights []float64
	// cumulative is the exclusive prefix sum of normWeights: cumulative[0]
	// == 0, cumulative[i] == sum(normWeights[:i]).
	cumulative []float64

	once   sync.Once
	mean   float64
	stddev float64
}

// NewWeightedSnapshot builds a WeightedSnapshot from pairs, sorted by
// (value, weight) ascending.
func NewWeightedSnapshot(pairs []WeightedValue) *WeightedSnapshot {
	sorted := make([]WeightedValue, len(pairs))
	copy(sorted, pairs)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Value != sorted[j].Value {
			return sorted[i].Value < sorted[j].Value
		}
		return sorted[i].Weight < sorted[j].Weight
	})

	n := len(sorted)
	values := make([]float64, n)
	weights := make([]float64, n)
	var total float64
	for i, p := range sorted {
		values[i] = p.Value
		weights[i] = p.Weight
		total += p.Weight
	}

	normWeights := make([]float64, n)
	cumulative := make([]float64, n)
	var acc float64
	for i, w := range weights {
		if total > 0 {
			normWeights[i] = w / total
		}
		cumulative[i] = acc
		acc += normWeights[i]
	}

	return &WeightedSnapshot{
		values:      values,
		normWeights: normWeights,
		cumulative:  cumulative,
	}
}

// Len returns the number of values in the snapshot.
func (s *WeightedSnapshot) Len() int { return len(s.values) }

// Values returns a copy of the sorted values.
func (s *WeightedSnapshot) Values() []float64 {
	out := make([]float64, len(s.values))
	copy(out, s.values)
	return out
}

// GetValue returns the value at quantile q: the value at the smallest index
// p such that cumulative[p] > q (n if none exists), or values[0] if p <= 1.
// Returns ErrInvalidQuantile if q is outside [0, 1].
func (s *WeightedSnapshot) GetValue(q float64) (float64, error) {
	if q < 0 || q > 1 {
		return 0, invalidQuantilef("%v not in [0, 1]", q)
	}

	n := len(s.values)
	if n == 0 {
		return 0, nil
	}

	p := n
	for i, acc := range s.cumulative {
		if acc > q {
			p = i
			break
		}
	}

	if p <= 1 {
		return s.values[0], nil
	}
	return s.values[p-1], nil
}

// Mean returns Σ v_i * ŵ_i, memoized on first access. 0 if empty.
func (s *WeightedSnapshot) Mean() float64 {
	s.compute()
	return s.mean
}

// StdDev returns √(Σ ŵ_i * (v_i - mean)^2), memoized on first access. 0 if
// n <= 1.
func (s *WeightedSnapshot) StdDev() float64 {
	s.compute()
	return s.stddev
}

func (s *WeightedSnapshot) compute() {
	s.once.Do(func() {
		n := len(s.values)
		if n == 0 {
			return
		}

		var mean float64
		for i, v := range s.values {
			mean += v * s.normWeights[i]
		}
		s.mean = mean

		if n <= 1 {
			return
		}
		var variance float64
		for i, v := range s.values {
			d := v - mean
			variance += s.normWeights[i] * d * d
		}
		s.stddev = math.Sqrt(variance)
	})
}
