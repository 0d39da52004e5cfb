// Package config defines the agent configuration structure.
package config

import "github.com/yndnr/telemesh-go/internal/telemetry/logger"

// Sanitize returns a copy of the config with sensitive fields masked.
//
// This is used for logging configuration without exposing credentials
// embedded in the remote write endpoint URL.
func Sanitize(cfg *AgentConfig) *AgentConfig {
	// Create a shallow copy
	sanitized := *cfg

	if sanitized.Remote.Endpoint != "" {
		sanitized.Remote.Endpoint = logger.RedactString(sanitized.Remote.Endpoint)
	}

	return &sanitized
}
