// Package procstats registers process and Go runtime metrics.
//
// All metrics are virtual gauges: values are sampled by callback at
// snapshot time, so an idle agent costs nothing between reports.
// Runtime readings come from runtime.ReadMemStats; host-level process
// readings (CPU, RSS) come from gopsutil.
//
// Registered metrics:
//
//   - /process/memory/bytes (label stat): heap_alloc, heap_sys, stack_inuse
//   - /process/memory/rss_bytes: resident set size
//   - /process/goroutines: live goroutine count
//   - /process/gc/cycles: completed GC cycles
//   - /process/gc/cpu_fraction: fraction of CPU spent in GC
//   - /process/cpu/percent: process CPU usage
package procstats
