package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"craftload/internal/config"
	"craftload/internal/dashboard"
	"craftload/internal/metrics"
	"craftload/internal/output"
	"craftload/internal/probe"
	"craftload/internal/runner"
	"craftload/internal/threshold"
	"craftload/internal/tracing"
)

const (
	progressInterval = time.Second
	shutdownTimeout  = 5 * time.Second
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	loader := config.NewLoader()
	cfg, err := loader.Load(args)
	if err != nil {
		if errors.Is(err, config.ErrHelpRequested) {
			return nil
		}
		return err
	}

	if cfg.Interactive {
		prompter := config.NewPrompter(os.Stdin, os.Stdout)
		if err := prompter.Fill(cfg); err != nil {
			if errors.Is(err, config.ErrRunCancelled) {
				fmt.Println("Test cancelled.")
				return nil
			}
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	// Parse thresholds before running so a typo fails fast.
	thresholds, err := threshold.ParseMultiple(cfg.Thresholds)
	if err != nil {
		return err
	}

	provider, err := tracing.Init(context.Background(), cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = provider.Shutdown(ctx)
	}()

	collector := metrics.NewCollector()
	prober := probe.New(cfg.Host, uint16(cfg.Port), cfg.Timeout)

	requester := &statusRequester{
		prober:    prober,
		collector: collector,
		tracer:    provider.Tracer(),
		traced:    provider.Enabled(),
		host:      cfg.Host,
		port:      cfg.Port,
	}

	var wrapped runner.Requester = requester
	if cfg.LogErrors {
		wrapped = runner.WithLogging(wrapped, &stderrFailureLogger{})
	}

	opts := runner.Options{
		Concurrency:     cfg.Concurrency,
		TrialsPerWorker: cfg.ConnectionsPerClient,
		RatePerSecond:   cfg.Rate,
		ArrivalModel:    toRunnerArrivalModel(cfg.Arrival),
		Requester:       wrapped,
		RandomSeed:      time.Now().UnixNano(),
	}
	r := runner.New(opts)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	info := output.RunInfo{
		ID:              output.NewRunID(),
		Host:            cfg.Host,
		Port:            uint16(cfg.Port),
		Concurrency:     cfg.Concurrency,
		TrialsPerWorker: cfg.ConnectionsPerClient,
	}

	var dash *dashboard.Dashboard
	if cfg.Dashboard {
		dash, err = dashboard.New(collector, dashboard.RunConfig{
			Host:            cfg.Host,
			Port:            cfg.Port,
			Concurrency:     cfg.Concurrency,
			TrialsPerWorker: cfg.ConnectionsPerClient,
			Rate:            cfg.Rate,
			Timeout:         cfg.Timeout,
		}, cancel)
		if err != nil {
			return err
		}
		dash.Start()
	}

	var progress *output.ProgressReporter
	if !cfg.JSONOutput && !cfg.Dashboard {
		progress = output.NewProgressReporter(collector, int64(cfg.TotalTrials()), progressInterval, os.Stdout)
		progress.Start()
	}

	// Mark the actual start time in the collector so elapsed-based rates in
	// the dashboard and progress line stay accurate.
	collector.Start()
	result := r.Run(ctx)

	if progress != nil {
		progress.Stop()
		fmt.Fprintln(os.Stdout)
	}
	if dash != nil {
		dash.Stop()
	}

	stats := collector.Stats(result.Duration)

	if cfg.JSONOutput {
		if err := output.PrintJSONReport(os.Stdout, info, stats); err != nil {
			return err
		}
	} else {
		output.PrintReport(os.Stdout, info, stats)
	}

	thresholdResults := threshold.NewEvaluator(thresholds).Evaluate(stats)
	if cfg.JSONOutput {
		output.PrintThresholds(os.Stderr, thresholdResults)
	} else {
		output.PrintThresholds(os.Stdout, thresholdResults)
	}

	if cfg.HistoryFile != "" {
		if err := output.NewHistory(cfg.HistoryFile).Append(info, stats); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	if !threshold.AllPassed(thresholdResults) {
		var failed int
		for _, tr := range thresholdResults {
			if !tr.Pass {
				failed++
			}
		}
		return fmt.Errorf("%d of %d thresholds failed", failed, len(thresholdResults))
	}
	return nil
}

func toRunnerArrivalModel(model config.ArrivalModel) runner.ArrivalModel {
	switch strings.ToLower(string(model)) {
	case string(config.ArrivalModelPoisson):
		return runner.ArrivalModelPoisson
	default:
		return runner.ArrivalModelUniform
	}
}
