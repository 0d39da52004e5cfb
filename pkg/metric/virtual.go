package metric

import (
	"fmt"
	"sync/atomic"
	"time"
)

// LabeledValue pairs a label-value tuple with the metric value it carries.
// Virtual metric callbacks return one per live tuple.
type LabeledValue[V Value] struct {
	Labels []string
	Value  V
}

// VirtualMetric is a gauge computed on demand: each snapshot invokes the
// callback exactly once and exports its result with a single timestamp.
// There are no mutation operations.
//
// The callback must be safe for concurrent invocation and should be
// cheap; it runs on the reporting goroutine.
//
// Create virtual metrics through NewVirtualMetric; the zero value is not
// usable.
type VirtualMetric[V Value] struct {
	schema   Schema
	callback func() []LabeledValue[V]

	// cardinality of the last callback result, 0 before the first
	// snapshot.
	cardinality atomic.Int64
}

func newVirtualMetric[V Value](schema Schema, callback func() []LabeledValue[V]) *VirtualMetric[V] {
	return &VirtualMetric[V]{
		schema:   schema,
		callback: callback,
	}
}

// Schema implements Metric.
func (m *VirtualMetric[V]) Schema() Schema { return m.schema }

// ValueType implements Metric.
func (m *VirtualMetric[V]) ValueType() ValueType { return valueTypeFor[V]() }

// Cardinality implements Metric. The value is cached from the most recent
// snapshot rather than recomputed, so reading it never runs the callback.
func (m *VirtualMetric[V]) Cardinality() int {
	return int(m.cardinality.Load())
}

// Points implements Metric. The callback result is validated: every tuple
// must match the schema's arity and appear at most once.
func (m *VirtualMetric[V]) Points() ([]Point, error) {
	return m.pointsAt(time.Now())
}

func (m *VirtualMetric[V]) pointsAt(at time.Time) ([]Point, error) {
	values := m.callback()

	points := make([]Point, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, lv := range values {
		if err := m.schema.checkTuple(lv.Labels); err != nil {
			return nil, err
		}
		key := tupleKey(lv.Labels)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: callback for %q returned duplicate label tuple %v", ErrInvalidArgument, m.schema.Name(), lv.Labels)
		}
		seen[key] = struct{}{}

		points = append(points, Point{
			Metric: m,
			Labels: lv.Labels,
			Start:  at,
			End:    at,
			Value:  lv.Value,
		})
	}

	m.cardinality.Store(int64(len(points)))
	return points, nil
}
