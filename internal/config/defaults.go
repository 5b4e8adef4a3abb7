package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultAPITimeout = 30 * time.Second
	DefaultOutputDir  = "."
	DefaultMetricsJob = "consensus_export"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
)

func (c *Config) applyDefaults() {
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}

	if c.Output.Dir == "" {
		c.Output.Dir = DefaultOutputDir
	}

	if c.Metrics.Job == "" {
		c.Metrics.Job = DefaultMetricsJob
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
}
