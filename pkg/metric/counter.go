package metric

import (
	"fmt"
	"slices"
	"time"

	"github.com/yndnr/telemesh-go/pkg/cmap"
)

// Counter is a cumulative int64 metric. Each label tuple carries a value
// and a start timestamp; the start is set on the tuple's first write and
// re-stamped by resets, so exported points cover [start, snapshot].
//
// Create counters through NewCounter; the zero value is not usable.
type Counter struct {
	schema Schema
	cells  *cmap.Map[*counterCell]
}

type counterCell struct {
	labels []string
	value  int64
	start  time.Time
}

func newCounter(schema Schema) *Counter {
	return &Counter{
		schema: schema,
		cells:  cmap.New[*counterCell](),
	}
}

// Schema implements Metric.
func (c *Counter) Schema() Schema { return c.schema }

// ValueType implements Metric.
func (c *Counter) ValueType() ValueType { return TypeInt64 }

// Cardinality implements Metric.
func (c *Counter) Cardinality() int { return c.cells.Count() }

// Increment adds 1 to the tuple's value, creating it at 0 first if
// needed.
func (c *Counter) Increment(labels ...string) error {
	return c.addAt(1, time.Now(), labels)
}

// IncrementBy adds a non-negative offset to the tuple's value. Use Set
// to move a counter downward.
func (c *Counter) IncrementBy(offset int64, labels ...string) error {
	if offset < 0 {
		return fmt.Errorf("%w: increment offset must be non-negative (got %d)", ErrInvalidArgument, offset)
	}
	return c.addAt(offset, time.Now(), labels)
}

// Set overwrites the tuple's value. Negative values are allowed; the
// cumulative contract only requires a start timestamp, not monotonicity.
func (c *Counter) Set(value int64, labels ...string) error {
	return c.setAt(value, time.Now(), labels)
}

// Reset sets the tuple's value to 0 and re-stamps its start timestamp.
// The tuple is created if it does not exist.
func (c *Counter) Reset(labels ...string) error {
	return c.resetAt(time.Now(), labels)
}

// ResetAll resets every live tuple to 0 with a fresh start timestamp.
// All shards are locked in a fixed order for the duration, so concurrent
// increments see either the old or the new epoch, never a torn pair.
func (c *Counter) ResetAll() {
	c.resetAllAt(time.Now())
}

// Points implements Metric.
func (c *Counter) Points() ([]Point, error) {
	return c.pointsAt(time.Now()), nil
}

func (c *Counter) addAt(offset int64, at time.Time, labels []string) error {
	if err := c.schema.checkTuple(labels); err != nil {
		return err
	}
	c.cells.Update(tupleKey(labels), func(cell *counterCell, ok bool) *counterCell {
		if !ok {
			cell = &counterCell{labels: slices.Clone(labels), start: at}
		}
		cell.value += offset
		return cell
	})
	return nil
}

func (c *Counter) setAt(value int64, at time.Time, labels []string) error {
	if err := c.schema.checkTuple(labels); err != nil {
		return err
	}
	c.cells.Update(tupleKey(labels), func(cell *counterCell, ok bool) *counterCell {
		if !ok {
			cell = &counterCell{labels: slices.Clone(labels), start: at}
		}
		cell.value = value
		return cell
	})
	return nil
}

func (c *Counter) resetAt(at time.Time, labels []string) error {
	if err := c.schema.checkTuple(labels); err != nil {
		return err
	}
	c.cells.Update(tupleKey(labels), func(cell *counterCell, ok bool) *counterCell {
		if !ok {
			cell = &counterCell{labels: slices.Clone(labels)}
		}
		cell.value = 0
		cell.start = at
		return cell
	})
	return nil
}

func (c *Counter) resetAllAt(at time.Time) {
	c.cells.UpdateAll(func(_ string, cell *counterCell) *counterCell {
		cell.value = 0
		cell.start = at
		return cell
	})
}

func (c *Counter) pointsAt(end time.Time) []Point {
	points := make([]Point, 0, c.cells.Count())
	c.cells.Range(func(_ string, cell *counterCell) bool {
		pointEnd := end
		if pointEnd.Before(cell.start) {
			// A reset raced the snapshot; collapse the interval
			// rather than exporting end < start.
			pointEnd = cell.start
		}
		points = append(points, Point{
			Metric: c,
			Labels: cell.labels,
			Start:  cell.start,
			End:    pointEnd,
			Value:  cell.value,
		})
		return true
	})
	return points
}
