package config

import (
	"strings"
	"time"

	"github.com/adc-share/sharecore/internal/bytesize"
)

// ApplyDefaults fills any unspecified configuration fields with
// sensible defaults. Called after loading from file/environment;
// explicit values are always preserved.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyMetricsDefaults(&cfg.Metrics)
	applySearchDefaults(&cfg.Search)
	applyFilelistDefaults(&cfg.Filelist)

	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}

	// No defaults for Shares/CID: a node without configured roots or
	// an identity isn't something a default can paper over.
}

func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

func applyTelemetryDefaults(cfg *TelemetryConfig) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "localhost:4317"
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 1.0
	}
	applyProfilingDefaults(&cfg.Profiling)
}

func applyProfilingDefaults(cfg *ProfilingConfig) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "http://localhost:4040"
	}
	if len(cfg.ProfileTypes) == 0 {
		cfg.ProfileTypes = []string{
			"cpu",
			"alloc_objects",
			"alloc_space",
			"inuse_objects",
			"inuse_space",
			"goroutines",
		}
	}
}

func applyMetricsDefaults(cfg *MetricsConfig) {
	if cfg.Enabled && cfg.Port == 0 {
		cfg.Port = 9090
	}
}

func applySearchDefaults(cfg *SearchConfig) {
	if cfg.InstanceTTL == 0 {
		cfg.InstanceTTL = 5 * time.Minute
	}
	if cfg.ScanInterval == 0 {
		cfg.ScanInterval = time.Second
	}
	if cfg.MaxResults == 0 {
		cfg.MaxResults = 100
	}
}

func applyFilelistDefaults(cfg *FilelistConfig) {
	if cfg.Generator == "" {
		cfg.Generator = "sharecore"
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = time.Minute
	}
	if cfg.CacheSizeLimit == 0 {
		cfg.CacheSizeLimit = 256 * bytesize.MB
	}
}

// GetDefaultConfig returns a fully defaulted Config suitable for a
// fresh `sharecore init`, with one example share root the user is
// expected to edit.
func GetDefaultConfig() *Config {
	cfg := &Config{
		CID: "",
		Shares: []ShareRootConfig{
			{Path: "/srv/share", VirtualName: "share", Profiles: []int{1}},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}
