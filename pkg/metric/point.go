package metric

import (
	"slices"
	"time"
)

// Point is one exported value of one label tuple, captured at snapshot
// time.
//
// For cumulative metrics the interval [Start, End] runs from the tuple's
// start timestamp (first write or last reset) to the snapshot time; a
// racing reset can move Start past the snapshot time, in which case End is
// clamped up to Start so the interval collapses instead of going negative.
// For gauges Start == End.
//
// Value holds int64, float64, bool, string, or Distribution, matching the
// owning metric's ValueType.
type Point struct {
	Metric Metric
	Labels []string
	Start  time.Time
	End    time.Time
	Value  any
}

// Compare orders points by label tuple: lexicographically element-wise,
// with a shorter tuple ordering before any longer tuple it prefixes.
// The ordering exists for deterministic output; snapshots themselves are
// unordered.
func (p Point) Compare(o Point) int {
	return slices.Compare(p.Labels, o.Labels)
}
