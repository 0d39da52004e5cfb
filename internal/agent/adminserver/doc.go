// Package adminserver provides the agent's admin HTTP endpoint.
//
// The endpoint serves four routes:
//
//   - GET /healthz: liveness plus build information
//   - GET /metrics: Prometheus text exposition of the metric registry
//   - GET /v1/metrics: JSON listing of registered metric schemas
//   - DELETE /v1/metrics/{name}: unregister a metric by name
//
// Requests pass through a small middleware chain (request ID, access
// logging, panic recovery). The endpoint carries no authentication and
// is intended to bind to loopback.
package adminserver
