package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"dnclient/internal/alert"
	"dnclient/internal/bootstrap"
	"dnclient/internal/infrastructure/metrics"
	"dnclient/internal/probe"
	"dnclient/pkg/cli"
	"dnclient/pkg/dnapi"
	"dnclient/pkg/telemetry"
)

var (
	configFile  = flag.String("config", "configs/config.yaml", "Path to configuration file")
	onceFlag    = flag.Bool("once", false, "Run a single probe sweep and exit")
	pathsFlag   = flag.String("paths", "", "Comma-separated probe paths (overrides config)")
	showVersion = flag.Bool("version", false, "Show version and exit")
)

// Version information (set via build flags)
var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("dnprobe version %s (built %s)\n", version, buildTime)
		os.Exit(0)
	}

	// 1. Override flags with Env Vars if present
	if envConfig := os.Getenv("CONFIG_FILE"); envConfig != "" {
		*configFile = envConfig
	}

	// 2. Bootstrap configuration and logging
	app, err := bootstrap.NewApp(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap: %v\n", err)
		os.Exit(1)
	}
	logger := app.Logger
	cfg := app.Cfg

	logger.Info("Starting dnprobe",
		"version", version,
		"base_host", cfg.API.BaseHost,
		"once", *onceFlag)

	// 3. Initialize telemetry
	tel, err := telemetry.Setup("dnprobe")
	if err != nil {
		logger.Warn("Failed to initialize telemetry", "error", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tel.Shutdown(shutdownCtx); err != nil {
				logger.Warn("Telemetry shutdown failed", "error", err)
			}
		}()
	}

	// 4. Build the API client from configuration
	opts := []dnapi.Option{dnapi.WithLogger(logger)}
	if cfg.API.BaseHost != "" {
		opts = append(opts, dnapi.WithBaseHost(cfg.API.BaseHost))
	}
	if cfg.API.DefaultFormat != "" {
		opts = append(opts, dnapi.WithDefaultFormat(cfg.API.DefaultFormat))
	}
	if cfg.API.NoCache {
		opts = append(opts, dnapi.WithNoCache(true))
	}
	if t := cfg.APITimeout(); t > 0 {
		opts = append(opts, dnapi.WithTimeout(t))
	}
	if cfg.API.TLS.Insecure || cfg.API.TLS.CAFile != "" {
		opts = append(opts, dnapi.WithTLSPolicy(dnapi.TLSPolicy{
			Insecure: cfg.API.TLS.Insecure,
			CAFile:   cfg.API.TLS.CAFile,
		}))
	}

	client, err := dnapi.New(cfg.API.PublicKey, string(cfg.API.SecretKey), opts...)
	if err != nil {
		logger.Fatal("Failed to create API client", "error", err)
	}

	// 5. Wire alert channels
	alerts := alert.NewAlertManager(logger)
	if url := string(cfg.Alerts.SlackWebhookURL); url != "" {
		alerts.AddChannel(alert.NewSlackChannel(url))
	}
	if token := string(cfg.Alerts.TelegramBotToken); token != "" {
		alerts.AddChannel(alert.NewTelegramChannel(token, cfg.Alerts.TelegramChatID))
	}

	// 6. Build the prober
	paths := cfg.Probe.Paths
	if *pathsFlag != "" {
		paths = splitPaths(*pathsFlag)
	}
	if err := cli.ValidatePaths(paths); err != nil {
		logger.Fatal("Invalid probe paths", "error", err)
	}

	prober := probe.NewProber(client, probe.Options{
		Paths:       paths,
		Method:      cfg.Probe.Method,
		Interval:    cfg.ProbeInterval(),
		Concurrency: cfg.Probe.Concurrency,
	}, alerts, logger)

	// 7. One-shot mode: sweep once and exit non-zero on any failure
	if *onceFlag {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		results, err := prober.RunOnce(ctx)
		for _, r := range results {
			logger.Info("Probe result", "path", r.Path, "outcome", r.String(), "elapsed", r.Duration.String())
		}
		if err != nil {
			logger.Error("Probe sweep failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if !cfg.Probe.Enabled {
		logger.Fatal("Probing is disabled in configuration (set probe.enabled or use -once)")
	}

	// 8. Continuous mode: supervise the prober and the metrics endpoint
	runners := []bootstrap.Runner{prober}
	if cfg.Telemetry.EnableMetrics {
		runners = append(runners, metrics.NewServer(cfg.Telemetry.MetricsPort, logger))
	}

	if err := app.Run(runners...); err != nil {
		os.Exit(1)
	}
}

func splitPaths(s string) []string {
	parts := strings.Split(s, ",")
	paths := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}
