// Package config defines the agent configuration structure.
package config

import "time"

// AgentConfig is the root configuration for telemesh-agent.
type AgentConfig struct {
	Log     LogSection     `koanf:"log"`
	Export  ExportSection  `koanf:"export"`
	Remote  RemoteSection  `koanf:"remote"`
	Admin   AdminSection   `koanf:"admin"`
	Process ProcessSection `koanf:"process"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// ExportSection configures the periodic metric reporter.
type ExportSection struct {
	// Interval is the time between metric snapshots.
	Interval time.Duration `koanf:"interval"`

	// Queue is the capacity of the batch queue between the reporter
	// and the exporter. Full queues drop whole intervals.
	Queue int `koanf:"queue"`
}

// RemoteSection configures the remote write destination.
type RemoteSection struct {
	// Enabled turns remote writing on. When false the agent only
	// serves metrics over the admin endpoint.
	Enabled bool `koanf:"enabled"`

	// Endpoint is the remote write URL
	// (e.g., "https://prom.internal/api/v1/write").
	// Basic-auth credentials may be embedded in the URL.
	Endpoint string `koanf:"endpoint"`

	// Prefix replaces the leading "/" of metric names in the remote
	// series name (e.g., "/http/requests" -> "telemesh_http_requests").
	Prefix string `koanf:"prefix"`

	// Batch is the maximum number of series per write request.
	Batch int `koanf:"batch"`

	// Rate caps write requests per second. Zero means unlimited.
	Rate float64 `koanf:"rate"`

	// Timeout bounds each write request.
	Timeout time.Duration `koanf:"timeout"`

	// Labels are constant labels attached to every exported series.
	Labels map[string]string `koanf:"labels"`
}

// AdminSection configures the admin HTTP endpoint.
type AdminSection struct {
	Addr string `koanf:"addr"`
}

// ProcessSection configures built-in process metrics.
type ProcessSection struct {
	// Enabled registers runtime and host process metrics at startup.
	Enabled bool `koanf:"enabled"`
}
