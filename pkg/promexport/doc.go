// Package promexport bridges a metric registry into a Prometheus
// collector.
//
// Collector snapshots the registry on every scrape and emits const
// metrics: cumulative int64 metrics as counters, gauges as gauges, and
// distributions as histograms with the fitter's boundaries as bucket
// bounds. String-valued points have no Prometheus representation and
// are skipped.
//
// Samples carry no explicit timestamps; Prometheus stamps them at
// scrape time. Interval start times are not representable in the
// exposition format, so pull-based consumers see values only.
package promexport
