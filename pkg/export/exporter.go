package export

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/yndnr/telemesh-go/pkg/metric"
)

// State is the lifecycle state of an Exporter.
type State int32

const (
	StateNew State = iota
	StateRunning
	StateTerminated
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateRunning:
		return "running"
	case StateTerminated:
		return "terminated"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// batch is one unit of work on the export queue: a snapshot of points,
// or the stop sentinel the reporter sends during shutdown.
type batch struct {
	id     string
	points []metric.Point
	stop   bool
}

// Exporter drains the export queue and hands points to the Writer. One
// exporter goroutine runs at a time. A panic out of the writer marks
// the exporter failed; the reporter notices on its next tick and
// respawns a fresh one on the same queue.
type Exporter struct {
	queue  <-chan batch
	writer Writer
	logger *slog.Logger
	self   *selfMetrics

	state atomic.Int32
	cause atomic.Value
	done  chan struct{}
}

func newExporter(queue <-chan batch, writer Writer, logger *slog.Logger, self *selfMetrics) *Exporter {
	return &Exporter{
		queue:  queue,
		writer: writer,
		logger: logger,
		self:   self,
		done:   make(chan struct{}),
	}
}

// State returns the exporter's lifecycle state.
func (e *Exporter) State() State { return State(e.state.Load()) }

// Cause returns the error recorded when a failed exporter's goroutine
// died, nil for every other state.
func (e *Exporter) Cause() error {
	if v := e.cause.Load(); v != nil {
		return v.(error)
	}
	return nil
}

// Done returns a channel closed when the exporter goroutine exits.
func (e *Exporter) Done() <-chan struct{} { return e.done }

// Start launches the exporter goroutine. Only the first call does
// anything.
func (e *Exporter) Start() {
	if !e.state.CompareAndSwap(int32(StateNew), int32(StateRunning)) {
		return
	}
	go e.run()
}

func (e *Exporter) run() {
	defer close(e.done)
	defer func() {
		if rec := recover(); rec != nil {
			e.cause.Store(fmt.Errorf("export: exporter panic: %v", rec))
			e.state.Store(int32(StateFailed))
			e.logger.Error("exporter failed", "cause", rec)
		}
	}()

	for b := range e.queue {
		if b.stop {
			e.state.Store(int32(StateTerminated))
			e.logger.Info("exporter terminated")
			return
		}
		e.export(b)
	}
}

// export writes one batch. Write and flush errors are logged and the
// batch continues; a destination outage must not take the exporter
// down.
func (e *Exporter) export(b batch) {
	written := 0
	for _, p := range b.points {
		if err := e.writer.Write(p); err != nil {
			e.logger.Warn("write point",
				"batch_id", b.id,
				"metric", p.Metric.Schema().Name(),
				"error", err,
			)
			continue
		}
		written++
		e.self.countPushed(p)
	}
	if err := e.writer.Flush(); err != nil {
		e.logger.Warn("flush batch", "batch_id", b.id, "error", err)
	}
	e.logger.Debug("exported batch",
		"batch_id", b.id,
		"written", written,
		"points", len(b.points),
	)
}
