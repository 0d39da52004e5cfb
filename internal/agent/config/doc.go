// Package config provides agent configuration for TeleMesh.
//
// This package defines the agent configuration structure and validation:
//
//   - spec.go: AgentConfig struct definition
//   - default.go: Default configuration values
//   - verify.go: Business validation (intervals, endpoint URLs, addresses)
//   - sanitize.go: Log sanitization (hide endpoint credentials)
//
// Configuration is loaded via internal/infra/confloader and supports
// multiple sources: files, environment variables, and flags.
package config
