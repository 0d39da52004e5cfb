// Package shutdown provides graceful shutdown for TeleMesh.
//
// This package handles process signals:
//
//   - Signal handling (SIGINT, SIGTERM)
//   - SIGHUP-triggered reload hooks for config re-reads
//   - Timeout-based forced shutdown
//   - Cleanup callback registration
//   - Shutdown coordination
//
// Usage:
//
//	h := shutdown.NewHandler(30 * time.Second)
//	h.OnShutdown(func(ctx context.Context) error { return server.Shutdown(ctx) })
//	h.Wait() // Blocks until a termination signal arrives
package shutdown
