// Package config defines the agent configuration structure.
package config

import (
	"github.com/yndnr/telemesh-go/pkg/export"
	"github.com/yndnr/telemesh-go/pkg/writer/remote"
)

// Default configuration values. Export and remote defaults follow the
// library packages so the agent and direct library users agree.
const (
	DefaultAdminAddr = "127.0.0.1:5090"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default agent configuration.
func Default() *AgentConfig {
	return &AgentConfig{
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Export: ExportSection{
			Interval: export.DefaultInterval,
			Queue:    export.DefaultQueueCapacity,
		},
		Remote: RemoteSection{
			Enabled: false,
			Prefix:  remote.DefaultNamePrefix,
			Batch:   remote.DefaultMaxSeriesPerRequest,
			Timeout: remote.DefaultRequestTimeout,
		},
		Admin: AdminSection{
			Addr: DefaultAdminAddr,
		},
		Process: ProcessSection{
			Enabled: true,
		},
	}
}
