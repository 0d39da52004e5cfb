// Package metric provides typed, labeled, in-process time-series metrics
// for TeleMesh.
//
// Applications describe a metric once (slash-separated name, prose, and
// ordered label dimensions), then mutate it through a typed handle:
//
//   - Counter: cumulative int64 values with per-tuple start timestamps
//   - EventMetric: cumulative sample distributions (histogram + summary)
//   - StoredMetric: gauge holding the last written primitive value
//   - VirtualMetric: gauge computed by a callback at snapshot time
//
// Metrics are created through a Registry, which claims names atomically
// and hands the catalog to the export pipeline (see pkg/export).
//
// Usage:
//
//	reg := metric.NewRegistry()
//	requests, err := metric.NewCounter(reg,
//		"/http/requests", "Requests served", "requests",
//		metric.MustLabel("method", "HTTP method"))
//	if err != nil {
//		...
//	}
//	requests.Increment("GET")
//
// Thread Safety:
//
// All metric operations are safe for concurrent use. Per-tuple state
// lives in a sharded map (pkg/cmap), so a tuple's value and start
// timestamp always change together under its shard lock, and
// whole-metric resets take every shard in a fixed order.
package metric
