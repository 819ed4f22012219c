package config

import (
	"errors"
	"strconv"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Loader handles loading configuration from files and command-line arguments.
type Loader struct{}

// ErrHelpRequested is returned when the user requests help via --help flag.
var ErrHelpRequested = errors.New("help requested")

// NewLoader creates a new configuration Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses command-line arguments and an optional configuration file into
// a Config. Flags override file settings. When no arguments are given the
// Interactive flag is set so the caller can fall back to the prompt
// front-end.
func (Loader) Load(args []string) (*Config, error) {
	cmd := newFlagCommand()
	if err := cmd.Flags().Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			_ = cmd.Usage()
			return nil, ErrHelpRequested
		}
		return nil, err
	}

	flags := cmd.Flags()
	if helpFlag := flags.Lookup("help"); helpFlag != nil {
		if wantsHelp, err := strconv.ParseBool(helpFlag.Value.String()); err == nil && wantsHelp {
			_ = cmd.Usage()
			return nil, ErrHelpRequested
		}
	}

	cfg := &Config{
		Port:                 25565,
		Concurrency:          10,
		ConnectionsPerClient: 10,
		Timeout:              5 * time.Second,
		Arrival:              ArrivalModelUniform,
		Tracing: TracingConfig{
			Protocol:    "grpc",
			ServiceName: "craftload",
			SampleRate:  1.0,
		},
	}

	configPath, _ := flags.GetString("config")
	cfg.ConfigFile = configPath
	if configPath != "" {
		v := viper.New()
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
		if err := v.Unmarshal(cfg); err != nil {
			return nil, err
		}
	}

	if err := applyFlagOverrides(cfg, flags); err != nil {
		return nil, err
	}

	// Bare invocation drops into the prompt front-end, like the tool this
	// replaces.
	if len(args) == 0 && configPath == "" {
		cfg.Interactive = true
	}

	return cfg, nil
}

// applyFlagOverrides applies explicitly set flags over file settings, and
// flag defaults where the file left a value unset.
func applyFlagOverrides(cfg *Config, flags *pflag.FlagSet) error {
	var err error
	set := func(name string, apply func() error) {
		if err != nil {
			return
		}
		if flags.Changed(name) {
			err = apply()
		}
	}

	if host, e := flags.GetString("host"); e == nil && (flags.Changed("host") || cfg.Host == "") {
		cfg.Host = host
	}
	set("port", func() error { v, e := flags.GetInt("port"); cfg.Port = v; return e })
	set("concurrency", func() error { v, e := flags.GetInt("concurrency"); cfg.Concurrency = v; return e })
	set("connections", func() error { v, e := flags.GetInt("connections"); cfg.ConnectionsPerClient = v; return e })
	set("timeout", func() error { v, e := flags.GetDuration("timeout"); cfg.Timeout = v; return e })
	set("rate", func() error { v, e := flags.GetInt("rate"); cfg.Rate = v; return e })
	set("arrival-model", func() error { v, e := flags.GetString("arrival-model"); cfg.Arrival = ArrivalModel(v); return e })
	set("json-output", func() error { v, e := flags.GetBool("json-output"); cfg.JSONOutput = v; return e })
	set("dashboard", func() error { v, e := flags.GetBool("dashboard"); cfg.Dashboard = v; return e })
	set("log-errors", func() error { v, e := flags.GetBool("log-errors"); cfg.LogErrors = v; return e })
	set("history-file", func() error { v, e := flags.GetString("history-file"); cfg.HistoryFile = v; return e })
	set("threshold", func() error { v, e := flags.GetStringSlice("threshold"); cfg.Thresholds = v; return e })
	set("interactive", func() error { v, e := flags.GetBool("interactive"); cfg.Interactive = v; return e })
	set("trace-endpoint", func() error { v, e := flags.GetString("trace-endpoint"); cfg.Tracing.Endpoint = v; return e })
	set("trace-protocol", func() error { v, e := flags.GetString("trace-protocol"); cfg.Tracing.Protocol = v; return e })
	set("trace-service-name", func() error { v, e := flags.GetString("trace-service-name"); cfg.Tracing.ServiceName = v; return e })
	set("trace-insecure", func() error { v, e := flags.GetBool("trace-insecure"); cfg.Tracing.Insecure = v; return e })
	set("trace-sample-rate", func() error { v, e := flags.GetFloat64("trace-sample-rate"); cfg.Tracing.SampleRate = v; return e })
	return err
}
