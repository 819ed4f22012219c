package output

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"craftload/internal/metrics"
)

// ProgressReporter displays real-time progress updates.
type ProgressReporter struct {
	collector *metrics.Collector
	expected  int64
	ticker    *time.Ticker
	done      chan struct{}
	finished  chan struct{}
	writer    io.Writer
	active    int32
	start     time.Time
}

// NewProgressReporter creates a progress reporter that updates at the given
// interval. expected is the total trial count (concurrency * trials per
// worker), known up front because work is statically partitioned.
func NewProgressReporter(collector *metrics.Collector, expected int64, interval time.Duration, writer io.Writer) *ProgressReporter {
	if writer == nil {
		writer = io.Discard
	}
	return &ProgressReporter{
		collector: collector,
		expected:  expected,
		ticker:    time.NewTicker(interval),
		done:      make(chan struct{}),
		finished:  make(chan struct{}),
		writer:    writer,
		start:     time.Now(),
	}
}

// Start begins displaying progress updates in a background goroutine.
func (p *ProgressReporter) Start() {
	if !atomic.CompareAndSwapInt32(&p.active, 0, 1) {
		return // already running
	}
	go p.run()
}

// Stop halts progress updates.
func (p *ProgressReporter) Stop() {
	if atomic.CompareAndSwapInt32(&p.active, 1, 0) {
		close(p.done)
		p.ticker.Stop()
		<-p.finished
	}
}

func (p *ProgressReporter) run() {
	defer close(p.finished)
	for {
		select {
		case <-p.ticker.C:
			successes, failures := p.collector.Counts()
			completed := successes + failures
			elapsed := time.Since(p.start)
			var rate float64
			if elapsed > 0 {
				rate = float64(completed) / elapsed.Seconds()
			}
			line := fmt.Sprintf("\rTrials: %d/%d | Successes: %d | Failures: %d | %.1f/sec",
				completed, p.expected, successes, failures, rate)
			if p.expected > 0 {
				line += fmt.Sprintf(" | %.0f%%", float64(completed)/float64(p.expected)*100)
			}
			fmt.Fprint(p.writer, line)
		case <-p.done:
			return
		}
	}
}
