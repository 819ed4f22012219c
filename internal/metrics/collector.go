package metrics

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"

	"craftload/internal/probe"
)

// Collector records trial results in a thread-safe manner. Appending the
// result, bumping the success/failure counters and adding the cumulative
// elapsed time happen under one lock, so no reader ever observes a partially
// recorded trial. The lock is never held during network I/O.
type Collector struct {
	mu           sync.Mutex
	results      []probe.Result
	successes    int64
	failures     int64
	sumElapsed   time.Duration
	connectHist  *hdrhistogram.Histogram
	responseHist *hdrhistogram.Histogram
	totalHist    *hdrhistogram.Histogram
	errorsByType map[string]int64
	start        time.Time
}

func NewCollector() *Collector {
	// Track latencies from 1µs up to 60s with 3 significant figures.
	return &Collector{
		connectHist:  hdrhistogram.New(1, 60_000_000, 3),
		responseHist: hdrhistogram.New(1, 60_000_000, 3),
		totalHist:    hdrhistogram.New(1, 60_000_000, 3),
		errorsByType: make(map[string]int64),
		start:        time.Now(),
	}
}

// Start marks the actual start time so elapsed-based rates stay accurate
// even when the collector was created earlier during wiring.
func (c *Collector) Start() {
	c.mu.Lock()
	c.start = time.Now()
	c.mu.Unlock()
}

// Record stores a single trial result as one critical section.
func (c *Collector) Record(res probe.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.results = append(c.results, res)
	c.sumElapsed += res.TotalTime

	if res.Success {
		c.successes++
		recordValue(c.connectHist, res.ConnectTime)
		recordValue(c.responseHist, res.ResponseTime)
		recordValue(c.totalHist, res.TotalTime)
	} else {
		c.failures++
		c.errorsByType[CauseLabel(res.Err)]++
	}
}

// Counts returns the current success/failure counters. Their sum always
// equals the number of recorded trials.
func (c *Collector) Counts() (successes, failures int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.successes, c.failures
}

// Elapsed returns time since the collector was started.
func (c *Collector) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return time.Since(c.start)
}

// Results returns a copy of the recorded result collection.
func (c *Collector) Results() []probe.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]probe.Result, len(c.results))
	copy(out, c.results)
	return out
}

func recordValue(h *hdrhistogram.Histogram, d time.Duration) {
	us := d.Microseconds()
	if us < h.LowestTrackableValue() {
		us = h.LowestTrackableValue()
	}
	if us > h.HighestTrackableValue() {
		us = h.HighestTrackableValue()
	}
	_ = h.RecordValue(us)
}
