package benchmark

import (
	"fmt"
	"log/slog"
	"runtime"
	"testing"

	"github.com/yndnr/telemesh-go/pkg/metric"
)

// TupleCounts defines the live tuple counts for benchmarking.
var TupleCounts = []int{1000, 10000, 100000, 500000}

// SmallTupleCounts for quick benchmarks.
var SmallTupleCounts = []int{100, 1000, 10000}

// benchRegistry creates a registry that does not log registrations.
func benchRegistry() *metric.Registry {
	return metric.NewRegistry(metric.WithLogger(slog.New(slog.DiscardHandler)))
}

// tupleValue returns the label value for tuple i.
func tupleValue(i int) string {
	return fmt.Sprintf("tuple-%06d", i)
}

// prefillCounter creates count live tuples on c.
func prefillCounter(b *testing.B, c *metric.Counter, count int) {
	b.Helper()
	for i := 0; i < count; i++ {
		if err := c.Increment(tupleValue(i)); err != nil {
			b.Fatalf("Increment failed: %v", err)
		}
	}
}

// prefillRegistry registers metricCount counters with tuplesPer live
// tuples each.
func prefillRegistry(b *testing.B, r *metric.Registry, metricCount, tuplesPer int) {
	b.Helper()
	for i := 0; i < metricCount; i++ {
		c, err := metric.NewCounter(r, fmt.Sprintf("/bench/metric/%04d", i), "Benchmark counter", "ops",
			metric.MustLabel("tuple", "Tuple index"))
		if err != nil {
			b.Fatal(err)
		}
		prefillCounter(b, c, tuplesPer)
	}
}

// reportMemory reports memory usage.
func reportMemory(b *testing.B, prefix string) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.Alloc)/(1024*1024), prefix+"_MB")
	b.ReportMetric(float64(m.NumGC), prefix+"_GC")
}

// runWithTupleCounts runs a benchmark function at various tuple counts.
func runWithTupleCounts(b *testing.B, counts []int, benchFn func(b *testing.B, count int)) {
	for _, count := range counts {
		b.Run(fmt.Sprintf("tuples_%d", count), func(b *testing.B) {
			benchFn(b, count)
		})
	}
}
