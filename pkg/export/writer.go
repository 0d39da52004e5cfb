package export

import "github.com/yndnr/telemesh-go/pkg/metric"

// Writer is the destination of exported points. The exporter calls
// Write once per point of a batch, then Flush once to mark the batch
// boundary. Buffering writers typically accumulate in Write and
// transmit in Flush.
//
// Writers are driven by a single exporter goroutine at a time and do
// not need to be safe for concurrent use.
type Writer interface {
	// Write accepts one point for export.
	Write(p metric.Point) error

	// Flush commits anything Write has buffered.
	Flush() error
}
