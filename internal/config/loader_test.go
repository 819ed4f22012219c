package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"craftload/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.NewLoader().Load([]string{"--host", "192.0.2.10"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Host != "192.0.2.10" {
		t.Errorf("host = %q", cfg.Host)
	}
	if cfg.Port != 25565 {
		t.Errorf("port = %d, want 25565", cfg.Port)
	}
	if cfg.Concurrency != 10 || cfg.ConnectionsPerClient != 10 {
		t.Errorf("load shape = %dx%d, want 10x10", cfg.Concurrency, cfg.ConnectionsPerClient)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("timeout = %s, want 5s", cfg.Timeout)
	}
	if cfg.Interactive {
		t.Error("explicit flags must not trigger interactive mode")
	}
}

func TestLoadFlagOverrides(t *testing.T) {
	cfg, err := config.NewLoader().Load([]string{
		"--host", "198.51.100.7",
		"-p", "25570",
		"-c", "25",
		"-n", "40",
		"--timeout", "2s",
		"-r", "100",
		"--arrival-model", "poisson",
		"--json-output",
		"--log-errors",
		"--threshold", "response_time:p99 < 200",
		"--threshold", "failed:count == 0",
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != 25570 || cfg.Concurrency != 25 || cfg.ConnectionsPerClient != 40 {
		t.Errorf("unexpected load shape: %+v", cfg)
	}
	if cfg.Timeout != 2*time.Second {
		t.Errorf("timeout = %s", cfg.Timeout)
	}
	if cfg.Rate != 100 || cfg.Arrival != config.ArrivalModelPoisson {
		t.Errorf("pacing = %d/%s", cfg.Rate, cfg.Arrival)
	}
	if !cfg.JSONOutput || !cfg.LogErrors {
		t.Error("boolean flags not applied")
	}
	if len(cfg.Thresholds) != 2 {
		t.Errorf("thresholds = %v", cfg.Thresholds)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	content := strings.Join([]string{
		"host: 203.0.113.5",
		"port: 25566",
		"concurrency: 8",
		"connections_per_client: 12",
		"timeout: 3s",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.NewLoader().Load([]string{"--config", path, "-c", "16"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Host != "203.0.113.5" || cfg.Port != 25566 {
		t.Errorf("file values not applied: %s:%d", cfg.Host, cfg.Port)
	}
	if cfg.Concurrency != 16 {
		t.Errorf("flag should override file, concurrency = %d", cfg.Concurrency)
	}
	if cfg.ConnectionsPerClient != 12 {
		t.Errorf("connections = %d, want 12 from file", cfg.ConnectionsPerClient)
	}
	if cfg.Timeout != 3*time.Second {
		t.Errorf("timeout = %s, want 3s from file", cfg.Timeout)
	}
}

func TestLoadBareInvocationIsInteractive(t *testing.T) {
	cfg, err := config.NewLoader().Load(nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.Interactive {
		t.Error("bare invocation should select the prompt front-end")
	}
}

func TestLoadHelp(t *testing.T) {
	_, err := config.NewLoader().Load([]string{"--help"})
	if !errors.Is(err, config.ErrHelpRequested) {
		t.Fatalf("err = %v, want ErrHelpRequested", err)
	}
}

func TestValidate(t *testing.T) {
	valid := config.Config{
		Host:                 "127.0.0.1",
		Port:                 25565,
		Concurrency:          5,
		ConnectionsPerClient: 5,
		Timeout:              time.Second,
		Arrival:              config.ArrivalModelUniform,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	bad := valid
	bad.Host = ""
	bad.Port = 0
	bad.Concurrency = 0
	err := bad.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"host is required", "port must be", "concurrency must be"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}

	bad = valid
	bad.Arrival = "bursty"
	if err := bad.Validate(); err == nil || !strings.Contains(err.Error(), "arrival model") {
		t.Errorf("unknown arrival model accepted: %v", err)
	}

	bad = valid
	bad.Tracing.SampleRate = 1.5
	if err := bad.Validate(); err == nil || !strings.Contains(err.Error(), "sample_rate") {
		t.Errorf("out-of-range sample rate accepted: %v", err)
	}
}
