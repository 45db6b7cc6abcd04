package caliper

import "sync"

// Gauge tracks an instantaneous value. Rather than the "monkey-patch
// get_value" pattern of the reference implementation, callers substitute
// the value-producing function explicitly, supplied at construction or
// swapped in later with SetValueFunc. Setters (Set) and a value-producer
// function can coexist; when a producer is set, it takes precedence.
type Gauge struct {
	mu       sync.Mutex
	hasValue bool
	value    float64
	fn       func() float64
}

// NewGauge creates a Gauge with no value set and no value-producing
// function: Value() returns (0, false) until one is provided.
func NewGauge() *Gauge {
	return &Gauge{}
}

// NewFunctionalGauge creates a Gauge whose value is always computed by fn.
func NewFunctionalGauge(fn func() float64) *Gauge {
	return &Gauge{fn: fn}
}

// Set stores v as the gauge's last-set value. Shadowed by a value-producing
// function, if one is set, until SetValueFunc(nil) clears it.
func (g *Gauge) Set(v float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.value = v
	g.hasValue = true
}

// SetValueFunc replaces the gauge's value-producing function. Pass nil to
// fall back to the last value set via Set.
func (g *Gauge) SetValueFunc(fn func() float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.fn = fn
}

// Value returns the gauge's current value: the value-producing function's
// result if one is set, otherwise the last value set via Set. The second
// return value is false if neither a producer nor a Set value is
// available.
func (g *Gauge) Value() (float64, bool) {
	g.mu.Lock()
	fn := g.fn
	hasValue := g.hasValue
	value := g.value
	g.mu.Unlock()

	if fn != nil {
		return fn(), true
	}
	return value, hasValue
}
