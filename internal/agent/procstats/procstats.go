package procstats

import (
	"log/slog"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/yndnr/telemesh-go/pkg/metric"
)

// Metric names registered by this package.
const (
	memoryBytesName   = "/process/memory/bytes"
	rssBytesName      = "/process/memory/rss_bytes"
	goroutinesName    = "/process/goroutines"
	gcCyclesName      = "/process/gc/cycles"
	gcCPUFractionName = "/process/gc/cpu_fraction"
	cpuPercentName    = "/process/cpu/percent"
)

// Label values exported under /process/memory/bytes.
const (
	statHeapAlloc  = "heap_alloc"
	statHeapSys    = "heap_sys"
	statStackInuse = "stack_inuse"
)

// Register registers process and runtime metrics on r.
//
// Host-level readings require a gopsutil process handle; if it cannot
// be obtained those metrics are skipped with a warning and only the
// runtime metrics are registered.
func Register(r *metric.Registry, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	if err := registerRuntime(r); err != nil {
		return err
	}

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		logger.Warn("process metrics unavailable", "error", err)
		return nil
	}

	return registerProcess(r, proc, logger)
}

func registerRuntime(r *metric.Registry) error {
	_, err := metric.NewVirtualMetric(r, memoryBytesName,
		"Go runtime memory usage by statistic.", "bytes",
		memStatsBytes,
		metric.MustLabel("stat", "runtime/MemStats field"),
	)
	if err != nil {
		return err
	}

	_, err = metric.NewVirtualMetric(r, goroutinesName,
		"Number of live goroutines.", "goroutines",
		func() []metric.LabeledValue[int64] {
			return []metric.LabeledValue[int64]{{Value: int64(runtime.NumGoroutine())}}
		},
	)
	if err != nil {
		return err
	}

	_, err = metric.NewVirtualMetric(r, gcCyclesName,
		"Completed GC cycles since process start.", "cycles",
		func() []metric.LabeledValue[int64] {
			var ms runtime.MemStats
			runtime.ReadMemStats(&ms)
			return []metric.LabeledValue[int64]{{Value: int64(ms.NumGC)}}
		},
	)
	if err != nil {
		return err
	}

	_, err = metric.NewVirtualMetric(r, gcCPUFractionName,
		"Fraction of CPU time spent in garbage collection.", "fraction",
		func() []metric.LabeledValue[float64] {
			var ms runtime.MemStats
			runtime.ReadMemStats(&ms)
			return []metric.LabeledValue[float64]{{Value: ms.GCCPUFraction}}
		},
	)
	return err
}

func registerProcess(r *metric.Registry, proc *process.Process, logger *slog.Logger) error {
	_, err := metric.NewVirtualMetric(r, cpuPercentName,
		"Process CPU usage as a percentage of one core.", "percent",
		func() []metric.LabeledValue[float64] {
			v, err := proc.CPUPercent()
			if err != nil {
				logger.Warn("failed to read process cpu", "error", err)
				return nil
			}
			return []metric.LabeledValue[float64]{{Value: v}}
		},
	)
	if err != nil {
		return err
	}

	_, err = metric.NewVirtualMetric(r, rssBytesName,
		"Resident set size of the process.", "bytes",
		func() []metric.LabeledValue[int64] {
			mi, err := proc.MemoryInfo()
			if err != nil {
				logger.Warn("failed to read process memory", "error", err)
				return nil
			}
			return []metric.LabeledValue[int64]{{Value: int64(mi.RSS)}}
		},
	)
	return err
}

// memStatsBytes samples runtime.MemStats once and fans the fields out
// as labeled tuples.
func memStatsBytes() []metric.LabeledValue[int64] {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return []metric.LabeledValue[int64]{
		{Labels: []string{statHeapAlloc}, Value: int64(ms.HeapAlloc)},
		{Labels: []string{statHeapSys}, Value: int64(ms.HeapSys)},
		{Labels: []string{statStackInuse}, Value: int64(ms.StackInuse)},
	}
}
