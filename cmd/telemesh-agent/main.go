// Package main provides the entry point for telemesh-agent.
//
// telemesh-agent is a standalone metrics process: it registers runtime
// and process metrics, pushes them to a Prometheus remote write
// endpoint on a schedule, and serves an admin HTTP surface for scrapes
// and registry inspection.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/telemesh-go/internal/agent/adminserver"
	"github.com/yndnr/telemesh-go/internal/agent/config"
	"github.com/yndnr/telemesh-go/internal/agent/procstats"
	"github.com/yndnr/telemesh-go/internal/infra/buildinfo"
	"github.com/yndnr/telemesh-go/internal/infra/confloader"
	"github.com/yndnr/telemesh-go/internal/infra/shutdown"
	"github.com/yndnr/telemesh-go/internal/telemetry/logger"
	"github.com/yndnr/telemesh-go/pkg/export"
	"github.com/yndnr/telemesh-go/pkg/metric"
	"github.com/yndnr/telemesh-go/pkg/writer/remote"
)

func main() {
	if err := app().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// app creates the CLI application.
func app() *cli.App {
	info := buildinfo.Get()
	return &cli.App{
		Name:    "telemesh-agent",
		Usage:   "TeleMesh metrics agent",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.BuildTime),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				EnvVars: []string{"TELEMESH_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level override: debug, info, warn, error",
			},
		},
		Action: runAgent,
		Commands: []*cli.Command{
			{
				Name:  "version",
				Usage: "Show detailed version information",
				Action: func(*cli.Context) error {
					fmt.Println("telemesh-agent " + buildinfo.String())
					return nil
				},
			},
		},
	}
}

func runAgent(c *cli.Context) error {
	configFile := c.String("config")

	cfg, err := loadConfig(c)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	slog.SetDefault(log)

	info := buildinfo.Get()
	log.Info("starting telemesh-agent",
		"version", info.Version,
		"commit", info.Commit,
		"config", configFile)

	safe := config.Sanitize(cfg)
	log.Debug("configuration loaded",
		"admin_addr", safe.Admin.Addr,
		"remote_enabled", safe.Remote.Enabled,
		"remote_endpoint", safe.Remote.Endpoint,
		"export_interval", safe.Export.Interval)

	// Metric registry with process and runtime metrics
	registry := metric.NewRegistry(metric.WithLogger(log))
	if cfg.Process.Enabled {
		if err := procstats.Register(registry, log); err != nil {
			return fmt.Errorf("register process metrics: %w", err)
		}
	}

	// Setup graceful shutdown
	shutdownHandler := shutdown.NewHandler(30 * time.Second)

	// Remote write reporting
	if cfg.Remote.Enabled {
		writer, err := remote.New(remote.Config{
			Endpoint:             cfg.Remote.Endpoint,
			NamePrefix:           cfg.Remote.Prefix,
			ConstLabels:          cfg.Remote.Labels,
			MaxSeriesPerRequest:  cfg.Remote.Batch,
			RequestTimeout:       cfg.Remote.Timeout,
			MaxRequestsPerSecond: cfg.Remote.Rate,
			Logger:               log,
		})
		if err != nil {
			return fmt.Errorf("create remote writer: %w", err)
		}

		reporter, err := export.NewReporter(export.Config{
			Registry:      registry,
			Writer:        writer,
			Interval:      cfg.Export.Interval,
			QueueCapacity: cfg.Export.Queue,
			Logger:        log,
		})
		if err != nil {
			return fmt.Errorf("create reporter: %w", err)
		}
		if err := reporter.Start(); err != nil {
			return fmt.Errorf("start reporter: %w", err)
		}
		log.Info("remote write reporting started",
			"endpoint", logger.RedactString(cfg.Remote.Endpoint),
			"interval", cfg.Export.Interval)

		shutdownHandler.OnShutdown(func(ctx context.Context) error {
			log.Info("stopping reporter")
			return reporter.Stop(ctx)
		})
	}

	// Admin HTTP server
	if cfg.Admin.Addr != "" {
		adminHandler := adminserver.NewHandler(adminserver.HandlerConfig{
			Registry:   registry,
			Logger:     log,
			NamePrefix: cfg.Remote.Prefix,
		})
		adminServer := adminserver.New(cfg.Admin.Addr, adminHandler)

		shutdownHandler.OnShutdown(func(ctx context.Context) error {
			log.Info("shutting down admin server")
			return adminServer.Shutdown(ctx)
		})

		go func() {
			log.Info("admin server listening", "addr", cfg.Admin.Addr)
			if err := adminServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("admin server error", "error", err)
			}
		}()
	}

	// SIGHUP re-reads the config file and applies the log level.
	shutdownHandler.OnReload(func() {
		reloadLogLevel(configFile, log)
	})

	// Editing the config file has the same effect as SIGHUP.
	if configFile != "" {
		if err := watchConfig(configFile, log, shutdownHandler); err != nil {
			log.Warn("config watch unavailable", "error", err, "path", configFile)
		}
	}

	log.Info("agent started, press Ctrl+C to stop")
	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("agent stopped gracefully")
	return nil
}

// loadConfig loads configuration from file, environment, and flags.
func loadConfig(c *cli.Context) (*config.AgentConfig, error) {
	// Start with defaults
	cfg := config.Default()

	// Create loader with optional config file
	opts := []confloader.Option{}
	if path := c.String("config"); path != "" {
		opts = append(opts, confloader.WithConfigFile(path))
	}

	loader := confloader.NewLoader(opts...)

	// Load and unmarshal
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	// Flag overrides win over file and environment
	if level := c.String("log-level"); level != "" {
		if err := loader.LoadMap(map[string]any{"log.level": level}); err != nil {
			return nil, err
		}
		if err := loader.Unmarshal(cfg); err != nil {
			return nil, err
		}
	}

	// Validate configuration
	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// reloadLogLevel re-reads the config file and applies its log level
// without restarting the agent. Other settings need a restart.
func reloadLogLevel(configFile string, log *slog.Logger) {
	cfg := config.Default()

	opts := []confloader.Option{}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}
	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		log.Warn("config reload failed", "error", err)
		return
	}
	if err := config.Verify(cfg); err != nil {
		log.Warn("config reload rejected", "error", err)
		return
	}

	if cfg.Log.Level == logger.GetLevel() {
		return
	}
	logger.SetLevel(cfg.Log.Level)
	log.Info("log level changed", "level", cfg.Log.Level)
}

// watchConfig reloads the log level when the config file changes.
func watchConfig(configFile string, log *slog.Logger, h *shutdown.Handler) error {
	watcher, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		return err
	}
	if err := watcher.Watch(configFile); err != nil {
		watcher.Stop()
		return err
	}

	watcher.OnChange(func(path string) {
		log.Info("config file changed", "path", path)
		reloadLogLevel(configFile, log)
	})
	watcher.StartAsync()

	h.OnShutdown(func(context.Context) error {
		return watcher.Stop()
	})
	return nil
}
