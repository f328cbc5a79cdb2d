// Package csvtail follows a stream-quality CSV file and appends each new
// record to a JSON Lines file for the log-shipping pipeline.
package csvtail

import (
	"errors"
	"time"
)

// DefaultInterval is the default delay between polls of the input file.
const DefaultInterval = 5 * time.Second

// Config holds the configuration for one tailer.
type Config struct {
	// InputPath is the CSV file to follow. It may not exist yet; the tailer
	// retries every interval until it appears.
	InputPath string

	// OutputPath is the JSONL file to append to. Created on first poll.
	OutputPath string

	// Interval is the delay between polls. Default: 5s.
	Interval time.Duration

	// MetricsAddr is an optional listen address for Prometheus metrics.
	// Empty disables the metrics endpoint.
	MetricsAddr string
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Interval == 0 {
		c.Interval = DefaultInterval
	}
}

// Validate checks that required fields are set and values are acceptable.
func (c *Config) Validate() error {
	if c.InputPath == "" {
		return errors.New("csvtail: config: InputPath is required")
	}
	if c.OutputPath == "" {
		return errors.New("csvtail: config: OutputPath is required")
	}
	if c.InputPath == c.OutputPath {
		return errors.New("csvtail: config: InputPath and OutputPath must differ")
	}
	if c.Interval < time.Second {
		return errors.New("csvtail: config: Interval must be at least 1s")
	}
	return nil
}
