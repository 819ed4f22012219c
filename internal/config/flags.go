package config

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// newFlagCommand creates a cobra command with all flags configured.
func newFlagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "craftload",
		Short:         "Load tester for the Minecraft server-status protocol",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.SetOut(os.Stdout)
	configureFlags(cmd.Flags())
	return cmd
}

// configureFlags sets up all CLI flags on the provided flag set.
func configureFlags(flags *pflag.FlagSet) {
	// Target flags
	flags.String("host", "", "Target server address")
	flags.IntP("port", "p", 25565, "Target server port")

	// Load control flags
	flags.IntP("concurrency", "c", 10, "Number of concurrent clients")
	flags.IntP("connections", "n", 10, "Connections each client performs in sequence")
	flags.Duration("timeout", 5*time.Second, "Per-connection timeout")
	flags.IntP("rate", "r", 0, "Trial starts per second across all clients (0 means unlimited)")
	flags.String("arrival-model", string(ArrivalModelUniform), "Arrival model when pacing trials (uniform or poisson)")

	// Output flags
	flags.Bool("json-output", false, "Emit JSON formatted output")
	flags.Bool("dashboard", false, "Show live terminal dashboard with metrics")
	flags.Bool("log-errors", false, "Log each failed trial to stderr")
	flags.String("history-file", "", "Append a JSON summary line per run to this file")
	flags.StringSlice("threshold", nil, "Performance assertion, e.g. 'connect_time:p99 < 200' (repeatable)")
	flags.String("config", "", "Path to configuration file (JSON or YAML)")
	flags.BoolP("interactive", "i", false, "Prompt for test parameters")

	// Tracing flags
	flags.String("trace-endpoint", "", "OTLP endpoint for trace export (empty disables tracing)")
	flags.String("trace-protocol", "grpc", "OTLP protocol: 'grpc' or 'http'")
	flags.String("trace-service-name", "craftload", "Service name reported on spans")
	flags.Bool("trace-insecure", false, "Skip TLS verification for the OTLP endpoint")
	flags.Float64("trace-sample-rate", 1.0, "Trace sampling ratio between 0.0 and 1.0")
}
