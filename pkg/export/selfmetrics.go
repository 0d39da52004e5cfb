package export

import (
	"sort"

	"github.com/yndnr/telemesh-go/pkg/metric"
)

// Self-instrumentation metric names. They register in the same registry
// the reporter snapshots, so the pipeline reports on itself.
const (
	pushIntervalsName    = "/metrics/push_intervals"
	pointsPushedName     = "/metrics/points_pushed"
	droppedIntervalsName = "/metrics/dropped_intervals"
	timeseriesCountName  = "/metrics/timeseries_count"
)

type selfMetrics struct {
	pushIntervals    *metric.Counter
	pointsPushed     *metric.Counter
	droppedIntervals *metric.Counter
}

func newSelfMetrics(r *metric.Registry) (*selfMetrics, error) {
	pushIntervals, err := metric.NewCounter(r, pushIntervalsName,
		"Count of completed metric push intervals", "intervals")
	if err != nil {
		return nil, err
	}
	pointsPushed, err := metric.NewCounter(r, pointsPushedName,
		"Count of metric points pushed to the writer", "points",
		metric.MustLabel("kind", "Metric kind"),
		metric.MustLabel("value_type", "Metric value type"))
	if err != nil {
		return nil, err
	}
	droppedIntervals, err := metric.NewCounter(r, droppedIntervalsName,
		"Count of push intervals dropped because the export queue was full", "intervals")
	if err != nil {
		return nil, err
	}
	if _, err := metric.NewVirtualMetric(r, timeseriesCountName,
		"Count of live time series by metric kind and value type", "timeseries",
		timeseriesCounts(r),
		metric.MustLabel("kind", "Metric kind"),
		metric.MustLabel("value_type", "Metric value type")); err != nil {
		return nil, err
	}
	return &selfMetrics{
		pushIntervals:    pushIntervals,
		pointsPushed:     pointsPushed,
		droppedIntervals: droppedIntervals,
	}, nil
}

// timeseriesCounts sums live tuple counts across the registry, grouped
// by metric kind and value type.
func timeseriesCounts(r *metric.Registry) func() []metric.LabeledValue[int64] {
	return func() []metric.LabeledValue[int64] {
		totals := make(map[[2]string]int64)
		for _, m := range r.Metrics() {
			key := [2]string{string(m.Schema().Kind()), string(m.ValueType())}
			totals[key] += int64(m.Cardinality())
		}
		keys := make([][2]string, 0, len(totals))
		for k := range totals {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			if keys[i][0] != keys[j][0] {
				return keys[i][0] < keys[j][0]
			}
			return keys[i][1] < keys[j][1]
		})
		out := make([]metric.LabeledValue[int64], 0, len(keys))
		for _, k := range keys {
			out = append(out, metric.LabeledValue[int64]{
				Labels: []string{k[0], k[1]},
				Value:  totals[k],
			})
		}
		return out
	}
}

// The count methods tolerate a nil receiver so exporters constructed
// without a reporter skip self-instrumentation.

func (s *selfMetrics) countInterval() {
	if s == nil {
		return
	}
	_ = s.pushIntervals.Increment()
}

func (s *selfMetrics) countDropped() {
	if s == nil {
		return
	}
	_ = s.droppedIntervals.Increment()
}

func (s *selfMetrics) countPushed(p metric.Point) {
	if s == nil {
		return
	}
	_ = s.pointsPushed.Increment(string(p.Metric.Schema().Kind()), string(p.Metric.ValueType()))
}
