package caliper

import (
	"regexp"
	"strings"
	"sync"

	"github.com/bsm/caliper/internal/caliperlog"
)

// reLabel matches a single dotted-name path segment.
var reLabel = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Logger is satisfied by *log.Logger and most structured loggers; it lets
// a Registry report a rejected duplicate registration, and an
// ExpDecayReservoir report a rescale, without hard-wiring a logging
// library.
type Logger interface {
	Printf(format string, args ...interface{})
}

// registryNode is either an interior subtree (map[string]registryNode) or
// a leaf metric.
// Stored as interface{} so Query can return either shape to the caller.
type registryNode = interface{}

// Registry is a hierarchical, dotted-name directory of metrics. Interior
// nodes are nested maps; leaves are metrics. No label may collide with an
// interior node at the same path.
type Registry struct {
	mu     sync.RWMutex
	root   map[string]registryNode
	Logger Logger

	clock        Clock
	source       Source
	newReservoir func() Reservoir
}

// RegistryOption configures a Registry at construction time, following the
// teacher pack's functional-options constructor idiom.
type RegistryOption func(*Registry)

// WithLogger installs l as the Registry's administrative-event logger.
func WithLogger(l Logger) RegistryOption {
	return func(r *Registry) { r.Logger = l }
}

// WithClock makes every metric the Registry fetch-or-creates use clock as
// its source of "now", instead of the package default.
func WithClock(clock Clock) RegistryOption {
	return func(r *Registry) { r.clock = clock }
}

// WithSource makes every metric the Registry fetch-or-creates draw
// randomness from src, instead of the package default.
func WithSource(src Source) RegistryOption {
	return func(r *Registry) { r.source = src }
}

// WithReservoirFactory overrides the reservoir a fetch-or-created Histogram
// or Timer is backed by. Without it, a fresh ExpDecayReservoir at default
// size/alpha, clock and source is used.
func WithReservoirFactory(f func() Reservoir) RegistryOption {
	return func(r *Registry) { r.newReservoir = f }
}

// NewRegistry creates an empty Registry, applying opts in order.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{root: make(map[string]registryNode)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// reservoirFactory returns the Registry's configured reservoir constructor,
// or the package default (ExpDecayReservoir at default size/alpha, bound to
// the Registry's clock/source) if none was set via WithReservoirFactory.
func (r *Registry) reservoirFactory() func() Reservoir {
	if r.newReservoir != nil {
		return r.newReservoir
	}
	return func() Reservoir {
		return NewExpDecayReservoir(DefaultExpDecaySize, DefaultExpDecayAlpha, r.clock, r.source)
	}
}

// Register inserts metric at name, creating interior maps on demand. It
// returns ErrInvalidName/ErrInvalidLabel if name is malformed, or
// ErrDuplicateName if anything (a metric of any type, or an interior
// subtree) is already registered at name's exact path, or if a prefix of
// name is already a leaf metric.
func (r *Registry) Register(name string, metric interface{}) error {
	labels, err := splitName(name)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	data := r.root
	for i, label := range labels {
		last := i == len(labels)-1

		existing, ok := data[label]
		if !ok {
			if last {
				data[label] = metric
				return nil
			}
			sub := make(map[string]registryNode)
			data[label] = sub
			data = sub
			continue
		}

		if last {
			r.logf("duplicate registration rejected for %q", name)
			return duplicateNamef("%q already registered", name)
		}

		sub, ok := existing.(map[string]registryNode)
		if !ok {
			r.logf("duplicate registration rejected for %q", name)
			return duplicateNamef("%q is already a leaf metric", name)
		}
		data = sub
	}
	return nil
}

// Query walks name's path and returns the leaf metric, an interior subtree
// (as map[string]interface{}), or nil if nothing is registered there.
func (r *Registry) Query(name string) (interface{}, error) {
	labels, err := splitName(name)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	data := r.root
	for i, label := range labels {
		v, ok := data[label]
		if !ok {
			return nil, nil
		}
		if i == len(labels)-1 {
			return v, nil
		}
		sub, ok := v.(map[string]registryNode)
		if !ok {
			return nil, nil
		}
		data = sub
	}
	return nil, nil
}

func (r *Registry) logf(format string, args ...interface{}) {
	if r.Logger != nil {
		r.Logger.Printf(format, args...)
	}
}

// splitName validates and splits a dotted name into its labels.
func splitName(name string) ([]string, error) {
	if name == "" {
		return nil, invalidNamef("empty name")
	}

	labels := strings.Split(name, ".")
	for _, label := range labels {
		if !reLabel.MatchString(label) {
			return nil, invalidLabelf("label %q is invalid in name %q", label, name)
		}
	}
	return labels, nil
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the process-wide default Registry, a lazily
// constructed singleton safe against concurrent first access. Its Logger
// is backed by caliperlog, so rejected registrations surface as warnings
// without any setup from the caller.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry(WithLogger(caliperlog.New()))
	})
	return defaultRegistry
}

// ResetDefaultRegistry discards the process-wide default Registry so the
// next call to DefaultRegistry constructs a fresh one. Test-visible reset
// hook only; not for production use.
func ResetDefaultRegistry() {
	defaultRegistryOnce = sync.Once{}
	defaultRegistry = nil
}
