package export

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/telemesh-go/pkg/metric"
)

// Default configuration values.
const (
	DefaultInterval      = 60 * time.Second
	DefaultQueueCapacity = 1000
	DefaultStopTimeout   = 10 * time.Second
)

// Config configures the Reporter.
type Config struct {
	// Registry is the catalog snapshotted each interval.
	Registry *metric.Registry

	// Writer receives every exported point.
	Writer Writer

	// Interval is the time between snapshots. The first snapshot happens
	// one full interval after Start, not immediately.
	Interval time.Duration

	// QueueCapacity bounds the snapshot queue between the reporter and
	// the exporter. A full queue drops whole intervals, counted in
	// /metrics/dropped_intervals; the reporter never blocks on it.
	QueueCapacity int

	Logger *slog.Logger
}

func applyDefaults(cfg *Config) {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.QueueCapacity <= 0 {
		cfg.QueueCapacity = DefaultQueueCapacity
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
}

// Reporter periodically snapshots a registry and feeds the batches to a
// single exporter goroutine through a bounded queue.
type Reporter struct {
	cfg    Config
	logger *slog.Logger
	queue  chan batch
	self   *selfMetrics

	exporter atomic.Pointer[Exporter]
	ticker   *time.Ticker
	stopCh   chan struct{}
	wg       sync.WaitGroup

	mu      sync.Mutex
	started bool
	closed  bool
}

// NewReporter creates a reporter and registers the self-instrumentation
// metrics in cfg.Registry.
func NewReporter(cfg Config) (*Reporter, error) {
	if cfg.Registry == nil {
		return nil, fmt.Errorf("export: registry is required")
	}
	if cfg.Writer == nil {
		return nil, fmt.Errorf("export: writer is required")
	}
	applyDefaults(&cfg)

	self, err := newSelfMetrics(cfg.Registry)
	if err != nil {
		return nil, err
	}

	return &Reporter{
		cfg:    cfg,
		logger: cfg.Logger,
		queue:  make(chan batch, cfg.QueueCapacity),
		self:   self,
		stopCh: make(chan struct{}),
	}, nil
}

// Start spawns the exporter and the snapshot loop.
func (r *Reporter) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return fmt.Errorf("export: reporter already started")
	}
	r.started = true

	r.spawnExporter()
	r.ticker = time.NewTicker(r.cfg.Interval)
	r.wg.Add(1)
	go r.run()

	r.logger.Info("reporter started",
		"interval", r.cfg.Interval,
		"queue_capacity", r.cfg.QueueCapacity,
	)
	return nil
}

func (r *Reporter) run() {
	defer r.wg.Done()
	for {
		select {
		case <-r.ticker.C:
			r.tick()
		case <-r.stopCh:
			return
		}
	}
}

func (r *Reporter) tick() {
	if e := r.exporter.Load(); e.State() == StateFailed {
		r.logger.Error("exporter failed, respawning", "cause", e.Cause())
		r.spawnExporter()
	}
	r.report()
}

func (r *Reporter) spawnExporter() {
	e := newExporter(r.queue, r.cfg.Writer, r.logger, r.self)
	e.Start()
	r.exporter.Store(e)
}

// report snapshots the registry and offers the batch to the queue. A
// full queue drops the whole interval; blocking here would stall the
// ticker loop behind a slow writer.
func (r *Reporter) report() {
	r.self.countInterval()

	b := batch{id: ulid.Make().String()}
	for _, m := range r.cfg.Registry.Metrics() {
		points, err := m.Points()
		if err != nil {
			r.logger.Warn("skipping metric snapshot",
				"metric", m.Schema().Name(),
				"error", err,
			)
			continue
		}
		b.points = append(b.points, points...)
	}

	select {
	case r.queue <- b:
	default:
		r.self.countDropped()
		r.logger.Warn("export queue full, dropping interval",
			"batch_id", b.id,
			"points", len(b.points),
		)
	}
}

// Stop takes a final snapshot, signals the exporter to terminate, and
// waits for it to drain the queue. The wait is bounded by ctx; the
// conventional bound is DefaultStopTimeout.
func (r *Reporter) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.started || r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()

	close(r.stopCh)
	r.ticker.Stop()
	r.wg.Wait()

	// Final snapshot so values accumulated since the last tick are not
	// lost.
	r.report()

	select {
	case r.queue <- batch{stop: true}:
	case <-ctx.Done():
		return fmt.Errorf("export: stop: enqueue stop sentinel: %w", ctx.Err())
	}

	e := r.exporter.Load()
	select {
	case <-e.Done():
	case <-ctx.Done():
		return fmt.Errorf("export: stop: await exporter: %w", ctx.Err())
	}

	r.logger.Info("reporter stopped")
	return nil
}

// ExporterState reports the lifecycle state of the current exporter,
// StateNew before Start.
func (r *Reporter) ExporterState() State {
	if e := r.exporter.Load(); e != nil {
		return e.State()
	}
	return StateNew
}
