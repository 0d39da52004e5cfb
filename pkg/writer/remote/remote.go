package remote

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/eryajf/promwrite"
	"golang.org/x/time/rate"

	"github.com/yndnr/telemesh-go/pkg/metric"
)

// Default configuration values.
const (
	DefaultNamePrefix          = "telemesh"
	DefaultMaxSeriesPerRequest = 500
	DefaultRequestTimeout      = 15 * time.Second
)

// client is the slice of the promwrite API the writer uses, so tests
// can substitute the transport.
type client interface {
	Write(ctx context.Context, req *promwrite.WriteRequest, options ...promwrite.WriteOption) (*promwrite.WriteResponse, error)
}

// Config configures the remote write destination.
type Config struct {
	// Endpoint is the remote write URL.
	Endpoint string

	// NamePrefix heads every exported series name. Metric names keep
	// their path shape with slashes turned into underscores, so
	// /http/requests becomes <prefix>_http_requests.
	NamePrefix string

	// ConstLabels are appended to every series, typically instance
	// identity.
	ConstLabels map[string]string

	// MaxSeriesPerRequest flushes the buffer early once this many series
	// are pending.
	MaxSeriesPerRequest int

	// RequestTimeout bounds each remote write request, including any
	// rate limit wait.
	RequestTimeout time.Duration

	// MaxRequestsPerSecond throttles flushes. Zero means unlimited.
	MaxRequestsPerSecond float64

	Logger *slog.Logger
}

func applyDefaults(cfg *Config) {
	if cfg.NamePrefix == "" {
		cfg.NamePrefix = DefaultNamePrefix
	}
	if cfg.MaxSeriesPerRequest <= 0 {
		cfg.MaxSeriesPerRequest = DefaultMaxSeriesPerRequest
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
}

// Writer encodes points as Prometheus series and ships them in batched
// remote write requests. It implements the export pipeline's Writer
// contract and, like every pipeline writer, is driven by one goroutine
// at a time.
type Writer struct {
	cfg     Config
	logger  *slog.Logger
	client  client
	limiter *rate.Limiter
	series  []promwrite.TimeSeries
}

// New creates a writer posting to cfg.Endpoint.
func New(cfg Config) (*Writer, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("remote: endpoint is required")
	}
	w := newWriter(cfg, nil)
	w.client = promwrite.NewClient(cfg.Endpoint)
	return w, nil
}

func newWriter(cfg Config, c client) *Writer {
	applyDefaults(&cfg)
	limit := rate.Inf
	if cfg.MaxRequestsPerSecond > 0 {
		limit = rate.Limit(cfg.MaxRequestsPerSecond)
	}
	return &Writer{
		cfg:     cfg,
		logger:  cfg.Logger,
		client:  c,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Write buffers the series for p, flushing early when the buffer is
// full. String-valued points are skipped: the protocol has no string
// samples.
func (w *Writer) Write(p metric.Point) error {
	name := w.seriesName(p.Metric.Schema().Name())
	switch v := p.Value.(type) {
	case int64:
		w.series = append(w.series, w.sampleSeries(name, p, float64(v)))
	case float64:
		w.series = append(w.series, w.sampleSeries(name, p, v))
	case bool:
		val := 0.0
		if v {
			val = 1.0
		}
		w.series = append(w.series, w.sampleSeries(name, p, val))
	case metric.Distribution:
		w.series = append(w.series, w.distributionSeries(name, p, v)...)
	case string:
		w.logger.Debug("skipping string-valued point",
			"metric", p.Metric.Schema().Name(),
			"labels", p.Labels,
		)
	default:
		w.logger.Warn("skipping point with unsupported value type",
			"metric", p.Metric.Schema().Name(),
			"type", fmt.Sprintf("%T", p.Value),
		)
	}

	if len(w.series) >= w.cfg.MaxSeriesPerRequest {
		return w.Flush()
	}
	return nil
}

// Flush posts everything buffered as one remote write request. The
// buffer is dropped on failure as well; retaining it across a
// destination outage would grow without bound while the pipeline keeps
// delivering intervals.
func (w *Writer) Flush() error {
	if len(w.series) == 0 {
		return nil
	}
	n := len(w.series)
	req := &promwrite.WriteRequest{TimeSeries: w.series}
	w.series = nil

	ctx, cancel := context.WithTimeout(context.Background(), w.cfg.RequestTimeout)
	defer cancel()

	if err := w.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("remote: rate limit wait: %w", err)
	}
	if _, err := w.client.Write(ctx, req); err != nil {
		return fmt.Errorf("remote: write %d series: %w", n, err)
	}
	w.logger.Debug("remote write", "series", n)
	return nil
}

func (w *Writer) seriesName(metricName string) string {
	return w.cfg.NamePrefix + strings.ReplaceAll(metricName, "/", "_")
}

func (w *Writer) sampleSeries(name string, p metric.Point, value float64, extra ...promwrite.Label) promwrite.TimeSeries {
	schema := p.Metric.Schema()
	labels := make([]promwrite.Label, 0, 1+len(w.cfg.ConstLabels)+schema.NumLabels()+len(extra))
	labels = append(labels, promwrite.Label{Name: "__name__", Value: name})

	constNames := make([]string, 0, len(w.cfg.ConstLabels))
	for k := range w.cfg.ConstLabels {
		constNames = append(constNames, k)
	}
	sort.Strings(constNames)
	for _, k := range constNames {
		labels = append(labels, promwrite.Label{Name: k, Value: w.cfg.ConstLabels[k]})
	}

	for i, ld := range schema.Labels() {
		labels = append(labels, promwrite.Label{Name: ld.Name(), Value: p.Labels[i]})
	}
	labels = append(labels, extra...)

	return promwrite.TimeSeries{
		Labels: labels,
		Sample: promwrite.Sample{Time: p.End, Value: value},
	}
}

// distributionSeries encodes a distribution the way Prometheus encodes
// histograms, plus a _mean series since the engine tracks the mean
// exactly. Bucket boundaries here are exclusive upper bounds while le
// is inclusive, so a sample sitting exactly on a boundary counts one
// bucket higher than le implies; the skew is accepted.
func (w *Writer) distributionSeries(name string, p metric.Point, d metric.Distribution) []promwrite.TimeSeries {
	bounds := d.Fitter().Boundaries()
	counts := d.BucketCounts()
	count := d.Count()

	out := make([]promwrite.TimeSeries, 0, len(bounds)+4)
	out = append(out,
		w.sampleSeries(name+"_count", p, float64(count)),
		w.sampleSeries(name+"_sum", p, d.Mean()*float64(count)),
		w.sampleSeries(name+"_mean", p, d.Mean()),
	)

	var cum int64
	for i, bound := range bounds {
		cum += counts[i]
		out = append(out, w.sampleSeries(name+"_bucket", p, float64(cum),
			promwrite.Label{Name: "le", Value: formatBound(bound)}))
	}
	out = append(out, w.sampleSeries(name+"_bucket", p, float64(count),
		promwrite.Label{Name: "le", Value: "+Inf"}))
	return out
}

func formatBound(b float64) string {
	return strconv.FormatFloat(b, 'g', -1, 64)
}
