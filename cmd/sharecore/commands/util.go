package commands

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/adc-share/sharecore/internal/logger"
	"github.com/adc-share/sharecore/internal/telemetry"
	"github.com/adc-share/sharecore/pkg/config"
	"github.com/adc-share/sharecore/pkg/metrics"
)

// stats is the process-wide metrics collector, nil (and therefore a
// no-op) until loadConfig turns it on because cfg.Metrics.Enabled.
var stats *metrics.ShareStats

// shutdownFuncs collects the ambient-stack teardown calls loadConfig
// registers, run once by Execute after the command finishes.
var shutdownFuncs []func(context.Context) error

// loadConfig resolves configPath (falling back to the default config
// path when unset), loads it, and brings up the rest of the ambient
// stack from its settings: structured logging, OTLP tracing, Pyroscope
// profiling, and the Prometheus metrics server.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.GetDefaultConfigPath()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if err := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	traceShutdown, err := telemetry.Init(context.Background(), telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    "sharecore",
		ServiceVersion: version,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}
	shutdownFuncs = append(shutdownFuncs, traceShutdown)

	profilingShutdown, err := telemetry.InitProfiling(telemetry.ProfilingConfig{
		Enabled:        cfg.Telemetry.Profiling.Enabled,
		ServiceName:    "sharecore",
		ServiceVersion: version,
		Endpoint:       cfg.Telemetry.Profiling.Endpoint,
		ProfileTypes:   cfg.Telemetry.Profiling.ProfileTypes,
	})
	if err != nil {
		return nil, fmt.Errorf("init profiling: %w", err)
	}
	shutdownFuncs = append(shutdownFuncs, func(context.Context) error { return profilingShutdown() })

	if cfg.Metrics.Enabled {
		stats = metrics.NewShareStats()
		startMetricsServer(cfg.Metrics.Port)
	}

	shutdownTimeout = cfg.ShutdownTimeout

	return cfg, nil
}

var shutdownTimeout = 5 * time.Second

// shutdownAmbientStack runs every registered teardown func, bounded by
// shutdownTimeout, called once after the root command finishes.
func shutdownAmbientStack() {
	if len(shutdownFuncs) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, fn := range shutdownFuncs {
		if err := fn(ctx); err != nil {
			logger.Warn("ambient stack shutdown reported an error", "error", err)
		}
	}
}

// startMetricsServer serves stats.Handler() in the background;
// listen failures are logged, not fatal, since metrics export is
// always an ambient concern rather than a requirement for the
// command the user actually invoked to succeed.
func startMetricsServer(port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", stats.Handler())

	go func() {
		addr := fmt.Sprintf(":%d", port)
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Warn("metrics server stopped", "addr", addr, "error", err)
		}
	}()
}
