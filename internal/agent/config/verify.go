// Package config defines the agent configuration structure.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
)

// Verify validates the configuration.
func Verify(cfg *AgentConfig) error {
	if err := verifyLog(&cfg.Log); err != nil {
		return err
	}
	if err := verifyExport(&cfg.Export); err != nil {
		return err
	}
	if err := verifyRemote(&cfg.Remote); err != nil {
		return err
	}
	return verifyAdmin(&cfg.Admin)
}

func verifyLog(cfg *LogSection) error {
	switch cfg.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", cfg.Level)
	}

	switch cfg.Format {
	case "json", "text", "console":
	default:
		return fmt.Errorf("log.format %q is not one of json, text, console", cfg.Format)
	}

	return nil
}

func verifyExport(cfg *ExportSection) error {
	if cfg.Interval <= 0 {
		return errors.New("export.interval must be positive")
	}
	if cfg.Queue < 1 {
		return errors.New("export.queue must be at least 1")
	}
	return nil
}

func verifyRemote(cfg *RemoteSection) error {
	if !cfg.Enabled {
		return nil
	}

	if cfg.Endpoint == "" {
		return errors.New("remote.endpoint is required when remote.enabled is true")
	}
	u, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return fmt.Errorf("remote.endpoint is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("remote.endpoint scheme %q is not http or https", u.Scheme)
	}

	if cfg.Batch < 1 {
		return errors.New("remote.batch must be at least 1")
	}
	if cfg.Rate < 0 {
		return errors.New("remote.rate must not be negative")
	}
	if cfg.Timeout <= 0 {
		return errors.New("remote.timeout must be positive")
	}

	return nil
}

func verifyAdmin(cfg *AdminSection) error {
	if cfg.Addr == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(cfg.Addr); err != nil {
		return fmt.Errorf("admin.addr is not host:port: %w", err)
	}
	return nil
}
