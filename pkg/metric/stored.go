package metric

import (
	"slices"
	"time"

	"github.com/yndnr/telemesh-go/pkg/cmap"
)

// StoredMetric is a gauge holding the last value written per label tuple.
// V is one of the primitive value types; exported points have
// start == end == snapshot time.
//
// Create stored metrics through NewStoredMetric; the zero value is not
// usable.
type StoredMetric[V Value] struct {
	schema Schema
	cells  *cmap.Map[*storedCell[V]]
}

type storedCell[V Value] struct {
	labels []string
	value  V
}

func newStoredMetric[V Value](schema Schema) *StoredMetric[V] {
	return &StoredMetric[V]{
		schema: schema,
		cells:  cmap.New[*storedCell[V]](),
	}
}

// Schema implements Metric.
func (m *StoredMetric[V]) Schema() Schema { return m.schema }

// ValueType implements Metric.
func (m *StoredMetric[V]) ValueType() ValueType { return valueTypeFor[V]() }

// Cardinality implements Metric.
func (m *StoredMetric[V]) Cardinality() int { return m.cells.Count() }

// Set stores the tuple's value, creating the tuple if needed.
func (m *StoredMetric[V]) Set(value V, labels ...string) error {
	if err := m.schema.checkTuple(labels); err != nil {
		return err
	}
	m.cells.Update(tupleKey(labels), func(cell *storedCell[V], ok bool) *storedCell[V] {
		if !ok {
			return &storedCell[V]{labels: slices.Clone(labels), value: value}
		}
		cell.value = value
		return cell
	})
	return nil
}

// Points implements Metric.
func (m *StoredMetric[V]) Points() ([]Point, error) {
	return m.pointsAt(time.Now()), nil
}

func (m *StoredMetric[V]) pointsAt(at time.Time) []Point {
	points := make([]Point, 0, m.cells.Count())
	m.cells.Range(func(_ string, cell *storedCell[V]) bool {
		points = append(points, Point{
			Metric: m,
			Labels: cell.labels,
			Start:  at,
			End:    at,
			Value:  cell.value,
		})
		return true
	})
	return points
}
