// Package export moves metric snapshots out of process.
//
// A Reporter periodically snapshots every metric in a Registry and
// places the batch on a bounded queue. A single Exporter goroutine
// drains the queue and hands each point to a Writer, flushing once per
// batch. The queue decouples snapshot cadence from destination latency:
// a slow destination costs dropped intervals, never blocked application
// threads.
//
// Shutdown is cooperative. Reporter.Stop takes a final snapshot, sends
// a stop sentinel behind it, and waits for the exporter to drain what
// is already queued, bounded by the caller's context.
//
// The pipeline reports on itself. Every reporter registers counters for
// completed intervals, pushed points, and dropped intervals, plus a
// virtual gauge of live time series, all under the /metrics name
// prefix in the registry it snapshots.
package export
