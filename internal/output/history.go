package output

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/gofrs/flock"
	"github.com/oklog/ulid/v2"

	"craftload/internal/metrics"
)

// NewRunID returns a lexically sortable run identifier.
func NewRunID() string {
	return ulid.Make().String()
}

// History appends one JSON summary line per run to a shared file. A file
// lock guards the append so concurrent invocations don't interleave lines.
type History struct {
	path string
}

func NewHistory(path string) *History {
	return &History{path: path}
}

type historyEntry struct {
	RunID           string  `json:"run_id"`
	Timestamp       string  `json:"timestamp"`
	Host            string  `json:"host"`
	Port            uint16  `json:"port"`
	Concurrency     int     `json:"concurrency"`
	TrialsPerWorker int     `json:"trials_per_worker"`
	Total           int64   `json:"total"`
	Successes       int64   `json:"successes"`
	Failures        int64   `json:"failures"`
	MeanResponseMs  float64 `json:"mean_response_ms"`
	Verdict         string  `json:"verdict"`
}

// Append records one finished run.
func (h *History) Append(info RunInfo, stats metrics.Stats) error {
	lock := flock.New(h.path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock history file: %w", err)
	}
	defer lock.Unlock()

	f, err := os.OpenFile(h.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open history file: %w", err)
	}
	defer f.Close()

	entry := historyEntry{
		RunID:           info.ID,
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
		Host:            info.Host,
		Port:            info.Port,
		Concurrency:     info.Concurrency,
		TrialsPerWorker: info.TrialsPerWorker,
		Total:           stats.Total,
		Successes:       stats.Successes,
		Failures:        stats.Failures,
		MeanResponseMs:  stats.Response.MeanMs,
		Verdict:         string(stats.Verdict),
	}
	if err := json.NewEncoder(f).Encode(entry); err != nil {
		return fmt.Errorf("append history entry: %w", err)
	}
	return nil
}
