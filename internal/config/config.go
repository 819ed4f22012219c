// Package config provides configuration loading, validation, and the
// interactive prompt front-end for craftload.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

type ArrivalModel string

const (
	ArrivalModelUniform ArrivalModel = "uniform"
	ArrivalModelPoisson ArrivalModel = "poisson"
)

// Config holds one run's parameters. It is built once before the run and is
// read-only during execution.
type Config struct {
	Host                 string        `mapstructure:"host"`
	Port                 int           `mapstructure:"port"`
	Concurrency          int           `mapstructure:"concurrency"`
	ConnectionsPerClient int           `mapstructure:"connections_per_client"`
	Timeout              time.Duration `mapstructure:"timeout"`
	Rate                 int           `mapstructure:"rate"`
	Arrival              ArrivalModel  `mapstructure:"arrival_model"`
	JSONOutput           bool          `mapstructure:"json_output"`
	Dashboard            bool          `mapstructure:"dashboard"`
	LogErrors            bool          `mapstructure:"log_errors"`
	HistoryFile          string        `mapstructure:"history_file"`
	Thresholds           []string      `mapstructure:"thresholds"`
	Tracing              TracingConfig `mapstructure:"tracing"`
	ConfigFile           string        `mapstructure:"-"`
	Interactive          bool          `mapstructure:"-"`
}

// TracingConfig configures optional OpenTelemetry export.
type TracingConfig struct {
	Endpoint    string  `mapstructure:"endpoint"`
	Protocol    string  `mapstructure:"protocol"` // "grpc" or "http"
	ServiceName string  `mapstructure:"service_name"`
	Insecure    bool    `mapstructure:"insecure"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

// TotalTrials is the exact number of trials a run will execute.
func (c Config) TotalTrials() int {
	return c.Concurrency * c.ConnectionsPerClient
}

// Validate checks the configuration, collecting every issue into one error.
func (c Config) Validate() error {
	var issues []string

	if strings.TrimSpace(c.Host) == "" {
		issues = append(issues, "host is required (use --help for usage information)")
	}
	if c.Port < 1 || c.Port > 65535 {
		issues = append(issues, "port must be between 1 and 65535")
	}
	if c.Concurrency < 1 {
		issues = append(issues, "concurrency must be >= 1")
	}
	if c.ConnectionsPerClient < 1 {
		issues = append(issues, "connections per client must be >= 1")
	}
	if c.Timeout <= 0 {
		issues = append(issues, "timeout must be > 0")
	}
	if c.Rate < 0 {
		issues = append(issues, "rate must be >= 0")
	}
	switch c.Arrival {
	case ArrivalModelUniform, ArrivalModelPoisson, "":
	default:
		issues = append(issues, fmt.Sprintf("unknown arrival model %q (use uniform or poisson)", c.Arrival))
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		issues = append(issues, "tracing sample_rate must be between 0.0 and 1.0")
	}

	if c.Concurrency > 500 {
		fmt.Fprintf(os.Stderr,
			"WARNING: High concurrency configured (%d clients). Ensure you have authorization to test the target server.\n",
			c.Concurrency)
	}

	if len(issues) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(issues, "; "))
	}
	return nil
}
