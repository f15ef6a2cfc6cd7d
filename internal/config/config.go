// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Loaders accept context.Context as the first parameter.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"fmt"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// CORSOrigins lists the browser origins allowed to call the API.
	CORSOrigins []string `koanf:"cors_origins"`

	// EventQueueSize bounds the in-memory change queue.
	EventQueueSize int `koanf:"event_queue_size"`

	// FixturesDir loads fixtures from disk instead of the embedded data.
	FixturesDir string `koanf:"fixtures_dir"`

	// FixturesWatch reloads the baseline when a file in FixturesDir changes.
	FixturesWatch bool `koanf:"fixtures_watch"`

	// WSPingIntervalMS is the live feed ping period.
	WSPingIntervalMS int `koanf:"ws_ping_interval_ms"`

	// MetricsNamespace prefixes every Prometheus metric name.
	MetricsNamespace string `koanf:"metrics_namespace"`

	// MetricsLatencyBucketsMS are the HTTP latency histogram buckets.
	MetricsLatencyBucketsMS []float64 `koanf:"metrics_latency_buckets_ms"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "text",
		Addr:      ":8000",
		CORSOrigins: []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			"http://localhost:5173",
			"http://127.0.0.1:5173",
		},
		EventQueueSize:          1024,
		WSPingIntervalMS:        54_000,
		MetricsNamespace:        "optiwork",
		MetricsLatencyBucketsMS: []float64{1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.EventQueueSize <= 0:
		return fmt.Errorf("%w: event_queue_size must be positive, got %d", ErrInvalidConfig, c.EventQueueSize)
	case c.WSPingIntervalMS <= 0:
		return fmt.Errorf("%w: ws_ping_interval_ms must be positive, got %d", ErrInvalidConfig, c.WSPingIntervalMS)
	case c.FixturesWatch && c.FixturesDir == "":
		return fmt.Errorf("%w: fixtures_watch requires fixtures_dir", ErrInvalidConfig)
	case c.MetricsNamespace == "":
		return fmt.Errorf("%w: metrics_namespace must not be empty", ErrInvalidConfig)
	}
	for i := 1; i < len(c.MetricsLatencyBucketsMS); i++ {
		if c.MetricsLatencyBucketsMS[i] <= c.MetricsLatencyBucketsMS[i-1] {
			return fmt.Errorf("%w: metrics_latency_buckets_ms must be strictly increasing", ErrInvalidConfig)
		}
	}
	return nil
}
