// Package logger configures structured logging for the TeleMesh agent.
//
// This package builds log/slog loggers from agent configuration:
//
//   - logger.go: handler construction, dynamic level control
//   - context.go: context-aware logging with request IDs
//   - redact.go: credential redaction for logged values
//
// Features:
//
//   - JSON and text output formats
//   - Runtime log level adjustment (config hot-reload)
//   - Endpoint URLs logged with credentials masked
//   - Request ID propagation for the admin surface
package logger
