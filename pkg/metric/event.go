package metric

import (
	"slices"
	"time"

	"github.com/yndnr/telemesh-go/pkg/cmap"
)

// EventMetric is a cumulative metric whose value is a Distribution of
// recorded samples. A fresh distribution is auto-vivified per label tuple
// on first record, using the metric's fitter for bucket boundaries.
//
// Create event metrics through NewEventMetric; the zero value is not
// usable.
type EventMetric struct {
	schema Schema
	fitter Fitter
	cells  *cmap.Map[*eventCell]
}

type eventCell struct {
	labels []string
	dist   *MutableDistribution
	start  time.Time
}

func newEventMetric(schema Schema, fitter Fitter) *EventMetric {
	return &EventMetric{
		schema: schema,
		fitter: fitter,
		cells:  cmap.New[*eventCell](),
	}
}

// Schema implements Metric.
func (e *EventMetric) Schema() Schema { return e.schema }

// ValueType implements Metric.
func (e *EventMetric) ValueType() ValueType { return TypeDistribution }

// Cardinality implements Metric.
func (e *EventMetric) Cardinality() int { return e.cells.Count() }

// Fitter returns the fitter used for new per-tuple distributions.
func (e *EventMetric) Fitter() Fitter { return e.fitter }

// Record adds one sample to the tuple's distribution.
func (e *EventMetric) Record(sample float64, labels ...string) error {
	return e.recordAt(sample, 1, time.Now(), labels)
}

// RecordN adds a sample to the tuple's distribution n times in one step.
// n must be non-negative; n == 0 validates and records nothing.
func (e *EventMetric) RecordN(sample float64, n int64, labels ...string) error {
	return e.recordAt(sample, n, time.Now(), labels)
}

// Reset replaces the tuple's distribution with an empty one and
// re-stamps its start timestamp. The tuple is created if it does not
// exist.
func (e *EventMetric) Reset(labels ...string) error {
	return e.resetAt(time.Now(), labels)
}

// ResetAll replaces every live tuple's distribution with an empty one
// under a whole-map lock, stamping all of them with the same start.
func (e *EventMetric) ResetAll() {
	e.resetAllAt(time.Now())
}

// Points implements Metric. Each point carries an immutable snapshot of
// the tuple's distribution taken under the tuple's shard lock.
func (e *EventMetric) Points() ([]Point, error) {
	return e.pointsAt(time.Now()), nil
}

func (e *EventMetric) recordAt(sample float64, n int64, at time.Time, labels []string) error {
	if err := e.schema.checkTuple(labels); err != nil {
		return err
	}
	var addErr error
	e.cells.Update(tupleKey(labels), func(cell *eventCell, ok bool) *eventCell {
		if !ok {
			cell = e.newCell(labels, at)
		}
		addErr = cell.dist.AddN(sample, n)
		return cell
	})
	return addErr
}

func (e *EventMetric) resetAt(at time.Time, labels []string) error {
	if err := e.schema.checkTuple(labels); err != nil {
		return err
	}
	e.cells.Update(tupleKey(labels), func(cell *eventCell, ok bool) *eventCell {
		if !ok {
			return e.newCell(labels, at)
		}
		cell.dist = e.emptyDistribution()
		cell.start = at
		return cell
	})
	return nil
}

func (e *EventMetric) resetAllAt(at time.Time) {
	e.cells.UpdateAll(func(_ string, cell *eventCell) *eventCell {
		cell.dist = e.emptyDistribution()
		cell.start = at
		return cell
	})
}

func (e *EventMetric) newCell(labels []string, at time.Time) *eventCell {
	return &eventCell{
		labels: slices.Clone(labels),
		dist:   e.emptyDistribution(),
		start:  at,
	}
}

func (e *EventMetric) emptyDistribution() *MutableDistribution {
	// The fitter was validated when the metric was created, so this
	// cannot fail.
	d, err := NewMutableDistribution(e.fitter)
	if err != nil {
		panic(err)
	}
	return d
}

func (e *EventMetric) pointsAt(end time.Time) []Point {
	points := make([]Point, 0, e.cells.Count())
	e.cells.Range(func(_ string, cell *eventCell) bool {
		pointEnd := end
		if pointEnd.Before(cell.start) {
			pointEnd = cell.start
		}
		points = append(points, Point{
			Metric: e,
			Labels: cell.labels,
			Start:  cell.start,
			End:    pointEnd,
			Value:  cell.dist.Snapshot(),
		})
		return true
	})
	return points
}
