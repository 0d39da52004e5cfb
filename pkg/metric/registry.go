package metric

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/yndnr/telemesh-go/pkg/cmap"
)

// Registry is a catalog of metrics keyed by schema name. Metrics register
// on creation; the export pipeline reads the catalog each interval.
//
// Registries are explicit instances so tests and embedded deployments can
// isolate their metrics; Default returns a process-wide instance for
// application code that wants one.
type Registry struct {
	metrics *cmap.Map[Metric]
	logger  *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for registration events.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		metrics: cmap.New[Metric](),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Default returns the process-wide registry, created on first use.
var Default = sync.OnceValue(func() *Registry {
	return NewRegistry()
})

// Register adds a metric to the catalog. Names are claimed atomically;
// a second metric with the same name is rejected with ErrDuplicateMetric.
func (r *Registry) Register(m Metric) error {
	name := m.Schema().Name()
	if !r.metrics.SetIfAbsent(name, m) {
		return fmt.Errorf("%w: %s", ErrDuplicateMetric, name)
	}
	r.logger.Info("registered metric",
		"name", name,
		"kind", m.Schema().Kind(),
		"value_type", m.ValueType(),
	)
	return nil
}

// Unregister removes a metric by name. Unknown names are a no-op, so
// teardown paths need no existence check.
func (r *Registry) Unregister(name string) {
	if _, ok := r.metrics.Pop(name); ok {
		r.logger.Info("unregistered metric", "name", name)
	}
}

// UnregisterAll empties the catalog. Primarily a test and shutdown
// convenience.
func (r *Registry) UnregisterAll() {
	r.metrics.Clear()
}

// Get returns the metric registered under name.
func (r *Registry) Get(name string) (Metric, bool) {
	return r.metrics.Get(name)
}

// Metrics returns a snapshot of the catalog in ascending name order.
func (r *Registry) Metrics() []Metric {
	names := r.metrics.SortedKeys()
	out := make([]Metric, 0, len(names))
	for _, name := range names {
		if m, ok := r.metrics.Get(name); ok {
			out = append(out, m)
		}
	}
	return out
}

// NewCounter creates and registers a cumulative int64 metric.
func NewCounter(r *Registry, name, description, valueDisplayName string, labels ...LabelDescriptor) (*Counter, error) {
	schema, err := NewSchema(name, description, valueDisplayName, KindCumulative, labels)
	if err != nil {
		return nil, err
	}
	c := newCounter(schema)
	if err := r.Register(c); err != nil {
		return nil, err
	}
	return c, nil
}

// NewEventMetric creates and registers a cumulative distribution metric.
// A nil fitter selects DefaultFitter.
func NewEventMetric(r *Registry, name, description, valueDisplayName string, fitter Fitter, labels ...LabelDescriptor) (*EventMetric, error) {
	schema, err := NewSchema(name, description, valueDisplayName, KindCumulative, labels)
	if err != nil {
		return nil, err
	}
	if fitter == nil {
		fitter = DefaultFitter
	}
	// Probe the fitter once so a broken Boundaries() surfaces here, not
	// on the first Record.
	if _, err := NewMutableDistribution(fitter); err != nil {
		return nil, err
	}
	e := newEventMetric(schema, fitter)
	if err := r.Register(e); err != nil {
		return nil, err
	}
	return e, nil
}

// NewStoredMetric creates and registers a gauge holding the last written
// value per tuple.
func NewStoredMetric[V Value](r *Registry, name, description, valueDisplayName string, labels ...LabelDescriptor) (*StoredMetric[V], error) {
	schema, err := NewSchema(name, description, valueDisplayName, KindGauge, labels)
	if err != nil {
		return nil, err
	}
	m := newStoredMetric[V](schema)
	if err := r.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

// NewVirtualMetric creates and registers a gauge computed by callback at
// snapshot time.
func NewVirtualMetric[V Value](r *Registry, name, description, valueDisplayName string, callback func() []LabeledValue[V], labels ...LabelDescriptor) (*VirtualMetric[V], error) {
	if callback == nil {
		return nil, fmt.Errorf("%w: callback must not be nil", ErrInvalidArgument)
	}
	schema, err := NewSchema(name, description, valueDisplayName, KindGauge, labels)
	if err != nil {
		return nil, err
	}
	m := newVirtualMetric(schema, callback)
	if err := r.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}
