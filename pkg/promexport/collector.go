package promexport

import (
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/telemesh-go/pkg/metric"
)

// DefaultNamePrefix heads every exposed series name.
const DefaultNamePrefix = "telemesh"

// Collector exposes a metric.Registry as a prometheus.Collector.
type Collector struct {
	registry *metric.Registry
	prefix   string
	logger   *slog.Logger
}

// Option configures the Collector.
type Option func(*Collector)

// WithNamePrefix overrides the series name prefix.
func WithNamePrefix(prefix string) Option {
	return func(c *Collector) {
		c.prefix = prefix
	}
}

// WithLogger sets the logger for skipped metrics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Collector) {
		c.logger = logger
	}
}

// New creates a collector over registry. Register it with a Prometheus
// registry to serve scrapes.
func New(registry *metric.Registry, opts ...Option) *Collector {
	c := &Collector{
		registry: registry,
		prefix:   DefaultNamePrefix,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Describe implements prometheus.Collector. It sends nothing: the
// metric set changes as metrics register and unregister, so the
// collector is unchecked.
func (c *Collector) Describe(chan<- *prometheus.Desc) {}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, m := range c.registry.Metrics() {
		points, err := m.Points()
		if err != nil {
			c.logger.Warn("skipping metric scrape",
				"metric", m.Schema().Name(),
				"error", err,
			)
			continue
		}
		c.collectMetric(ch, m, points)
	}
}

func (c *Collector) collectMetric(ch chan<- prometheus.Metric, m metric.Metric, points []metric.Point) {
	schema := m.Schema()
	if m.ValueType() == metric.TypeString {
		return
	}

	labelNames := make([]string, 0, schema.NumLabels())
	for _, ld := range schema.Labels() {
		labelNames = append(labelNames, ld.Name())
	}
	desc := prometheus.NewDesc(c.seriesName(schema.Name()), schema.Description(), labelNames, nil)

	for _, p := range points {
		pm, err := c.pointMetric(desc, schema, p)
		if err != nil {
			pm = prometheus.NewInvalidMetric(desc, err)
		}
		ch <- pm
	}
}

func (c *Collector) pointMetric(desc *prometheus.Desc, schema metric.Schema, p metric.Point) (prometheus.Metric, error) {
	switch v := p.Value.(type) {
	case metric.Distribution:
		return prometheus.NewConstHistogram(desc, uint64(v.Count()), v.Mean()*float64(v.Count()), cumulativeBuckets(v), p.Labels...)
	case int64:
		return prometheus.NewConstMetric(desc, valueKind(schema), float64(v), p.Labels...)
	case float64:
		return prometheus.NewConstMetric(desc, valueKind(schema), v, p.Labels...)
	case bool:
		val := 0.0
		if v {
			val = 1.0
		}
		return prometheus.NewConstMetric(desc, valueKind(schema), val, p.Labels...)
	default:
		return prometheus.NewConstMetric(desc, prometheus.UntypedValue, 0, p.Labels...)
	}
}

// cumulativeBuckets converts per-bucket counts into the cumulative
// upper-bound map Prometheus histograms use. The overflow bucket is
// implied by the total count.
func cumulativeBuckets(d metric.Distribution) map[float64]uint64 {
	bounds := d.Fitter().Boundaries()
	counts := d.BucketCounts()
	buckets := make(map[float64]uint64, len(bounds))
	var cum uint64
	for i, bound := range bounds {
		cum += uint64(counts[i])
		buckets[bound] = cum
	}
	return buckets
}

func valueKind(schema metric.Schema) prometheus.ValueType {
	if schema.Kind() == metric.KindCumulative {
		return prometheus.CounterValue
	}
	return prometheus.GaugeValue
}

func (c *Collector) seriesName(metricName string) string {
	return c.prefix + strings.ReplaceAll(metricName, "/", "_")
}
