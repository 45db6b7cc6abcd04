// Package caliper collects numerical observations from a running program
// and exposes aggregated statistics: current values, EWMA throughput
// rates, and quantile estimates over bounded samples of an unbounded
// stream.
//
//	timer, err := caliper.TimerFor("processing_time")
//	if err != nil {
//		// ... handle err ...
//	}
//	ctx := timer.Start(true, true)
//	// ... do work ...
//	ctx.Stop(false)
//
// Five metric types are available: Counter, Gauge, Histogram, Meter and
// Timer. Counter and Gauge hold a single scalar; Histogram and Timer
// sample their observations into a Reservoir and expose a Snapshot; Meter
// and Timer also track one/five/fifteen-minute EWMA throughput.
//
// Metrics are named with dotted paths (label ('.' label)*, label =
// [A-Za-z_][A-Za-z0-9_]*) and held in a Registry, a nested directory that
// disambiguates a plain name from a namespace of names sharing a prefix. A
// process-wide DefaultRegistry is available for convenience; the
// package-level CounterFor/GaugeFor/HistogramFor/MeterFor/TimerFor
// functions fetch-or-create a metric of the matching type in it, auto-
// naming it if name is empty.
package caliper

import (
	"fmt"

	"github.com/google/uuid"
)

// autoName generates a name for callers that omit one, mirroring the
// reference implementation's "a" + uuid4 hex scheme.
func autoName() string {
	u := uuid.New()
	return fmt.Sprintf("a%x", u[:])
}

// CounterFor fetches (or creates) a Counter at name in the default
// registry. An empty name auto-generates one. Re-requesting name with a
// different metric type returns ErrDuplicateName.
func CounterFor(name string) (*Counter, error) { return DefaultRegistry().CounterFor(name) }

// GaugeFor fetches (or creates) a Gauge at name in the default registry.
func GaugeFor(name string) (*Gauge, error) { return DefaultRegistry().GaugeFor(name) }

// HistogramFor fetches (or creates) a Histogram at name in the default
// registry, backed by a default exponentially-decaying reservoir.
func HistogramFor(name string) (*Histogram, error) { return DefaultRegistry().HistogramFor(name) }

// MeterFor fetches (or creates) a Meter at name in the default registry.
func MeterFor(name string) (*Meter, error) { return DefaultRegistry().MeterFor(name) }

// TimerFor fetches (or creates) a Timer at name in the default registry,
// backed by a default exponentially-decaying reservoir.
func TimerFor(name string) (*Timer, error) { return DefaultRegistry().TimerFor(name) }

// CounterFor fetches (or creates) a Counter at name in r.
func (r *Registry) CounterFor(name string) (*Counter, error) {
	return fetchTyped(r, name, func() interface{} { return NewCounter() })
}

// GaugeFor fetches (or creates) a Gauge at name in r.
func (r *Registry) GaugeFor(name string) (*Gauge, error) {
	return fetchTyped(r, name, func() interface{} { return NewGauge() })
}

// HistogramFor fetches (or creates) a Histogram at name in r, backed by r's
// configured reservoir factory (WithReservoirFactory), or a default
// exponentially-decaying reservoir bound to r's clock/source otherwise.
func (r *Registry) HistogramFor(name string) (*Histogram, error) {
	return fetchTyped(r, name, func() interface{} { return NewHistogram(r.reservoirFactory()()) })
}

// MeterFor fetches (or creates) a Meter at name in r, bound to r's
// configured clock.
func (r *Registry) MeterFor(name string) (*Meter, error) {
	return fetchTyped(r, name, func() interface{} { return NewMeter(r.clock) })
}

// TimerFor fetches (or creates) a Timer at name in r, backed by r's
// configured reservoir factory and clock.
func (r *Registry) TimerFor(name string) (*Timer, error) {
	return fetchTyped(r, name, func() interface{} { return NewTimer(r.reservoirFactory()(), r.clock) })
}

// fetchTyped is the generic shape behind CounterFor/GaugeFor/etc: query the
// registry for name, returning the existing metric if its type matches, or
// register and return a freshly constructed one. A type mismatch at an
// existing name is reported as ErrDuplicateName, following the reference
// implementation's get_or_create_metric.
func fetchTyped[T any](r *Registry, name string, factory func() interface{}) (*T, error) {
	if name == "" {
		name = autoName()
	}

	existing, err := r.Query(name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		typed, ok := existing.(*T)
		if !ok {
			return nil, duplicateNamef("%q already registered with a different metric type", name)
		}
		return typed, nil
	}

	metric := factory()
	if err := r.Register(name, metric); err != nil {
		return nil, err
	}
	return metric.(*T), nil
}
