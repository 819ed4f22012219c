package metrics

import (
	"math"
	"sort"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// PhaseStats describes one timing phase (connect, response, total) over the
// success subset of a run.
type PhaseStats struct {
	Min    time.Duration `json:"-"`
	Max    time.Duration `json:"-"`
	Mean   time.Duration `json:"-"`
	Median time.Duration `json:"-"`
	StdDev time.Duration `json:"-"`
	P50    time.Duration `json:"-"`
	P90    time.Duration `json:"-"`
	P99    time.Duration `json:"-"`

	// StdDevOK is false when fewer than 2 samples exist; sample standard
	// deviation is undefined and reported as "N/A".
	StdDevOK bool `json:"stddev_defined"`

	// JSON-friendly millisecond fields.
	MinMs    float64 `json:"min_ms"`
	MaxMs    float64 `json:"max_ms"`
	MeanMs   float64 `json:"mean_ms"`
	MedianMs float64 `json:"median_ms"`
	StdDevMs float64 `json:"stddev_ms"`
	P50Ms    float64 `json:"p50_ms"`
	P90Ms    float64 `json:"p90_ms"`
	P99Ms    float64 `json:"p99_ms"`
}

// Stats represents aggregated metrics for a completed (or in-flight) run.
type Stats struct {
	Total        int64         `json:"total"`
	Successes    int64         `json:"successes"`
	Failures     int64         `json:"failures"`
	SuccessRate  float64       `json:"success_rate"`
	FailureRate  float64       `json:"failure_rate"`
	Duration     time.Duration `json:"-"`
	DurationMs   float64       `json:"duration_ms"`
	Cumulative   time.Duration `json:"-"`
	CumulativeMs float64       `json:"cumulative_ms"`
	TrialsPerSec float64       `json:"trials_per_sec"`

	Connect   PhaseStats `json:"connect"`
	Response  PhaseStats `json:"response"`
	TotalTime PhaseStats `json:"total_time"`

	// Server metadata: average over successes, plus the first success's
	// version and MOTD as a representative sample (not an aggregate).
	AvgPlayersOnline float64 `json:"avg_players_online"`
	ServerVersion    string  `json:"server_version"`
	ServerMOTD       string  `json:"server_motd"`

	Errors  map[string]int `json:"errors,omitempty"`
	Verdict Verdict        `json:"verdict"`
}

// Stats computes aggregated statistics over the recorded result collection.
// It is a pure reduction: the collector state is read once under the lock
// and nothing is mutated.
func (c *Collector) Stats(elapsed time.Duration) Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.successes + c.failures
	stats := Stats{
		Total:        total,
		Successes:    c.successes,
		Failures:     c.failures,
		Duration:     elapsed,
		DurationMs:   float64(elapsed) / float64(time.Millisecond),
		Cumulative:   c.sumElapsed,
		CumulativeMs: ms(c.sumElapsed),
	}
	if total > 0 {
		stats.SuccessRate = float64(c.successes) / float64(total)
		stats.FailureRate = float64(c.failures) / float64(total)
	}
	if elapsed > 0 && total > 0 {
		stats.TrialsPerSec = float64(total) / elapsed.Seconds()
	}
	if len(c.errorsByType) > 0 {
		stats.Errors = make(map[string]int, len(c.errorsByType))
		for k, v := range c.errorsByType {
			stats.Errors[k] = int(v)
		}
	}

	var connect, response, totalTimes []time.Duration
	var playersSum int64
	first := true
	for _, res := range c.results {
		if !res.Success {
			continue
		}
		connect = append(connect, res.ConnectTime)
		response = append(response, res.ResponseTime)
		totalTimes = append(totalTimes, res.TotalTime)
		playersSum += int64(res.PlayersOnline)
		if first {
			stats.ServerVersion = res.Version
			stats.ServerMOTD = res.MOTD
			first = false
		}
	}

	if c.successes > 0 {
		stats.AvgPlayersOnline = float64(playersSum) / float64(c.successes)
		stats.Connect = phaseStats(connect, c.connectHist)
		stats.Response = phaseStats(response, c.responseHist)
		stats.TotalTime = phaseStats(totalTimes, c.totalHist)
	}

	stats.Verdict = Classify(c.failures, total, stats.Response.Mean)
	return stats
}

func phaseStats(samples []time.Duration, hist *hdrhistogram.Histogram) PhaseStats {
	if len(samples) == 0 {
		return PhaseStats{}
	}

	sorted := make([]time.Duration, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var sum time.Duration
	for _, d := range sorted {
		sum += d
	}

	ps := PhaseStats{
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Mean:   sum / time.Duration(len(sorted)),
		Median: median(sorted),
	}

	if len(sorted) >= 2 {
		ps.StdDev = stddev(sorted, ps.Mean)
		ps.StdDevOK = true
	}

	if hist != nil && hist.TotalCount() > 0 {
		ps.P50 = time.Duration(hist.ValueAtQuantile(50)) * time.Microsecond
		ps.P90 = time.Duration(hist.ValueAtQuantile(90)) * time.Microsecond
		ps.P99 = time.Duration(hist.ValueAtQuantile(99)) * time.Microsecond
	}

	ps.MinMs = ms(ps.Min)
	ps.MaxMs = ms(ps.Max)
	ps.MeanMs = ms(ps.Mean)
	ps.MedianMs = ms(ps.Median)
	ps.StdDevMs = ms(ps.StdDev)
	ps.P50Ms = ms(ps.P50)
	ps.P90Ms = ms(ps.P90)
	ps.P99Ms = ms(ps.P99)
	return ps
}

// median of an already-sorted sample set.
func median(sorted []time.Duration) time.Duration {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// stddev is the sample standard deviation (n-1 denominator); callers must
// guarantee at least 2 samples.
func stddev(samples []time.Duration, mean time.Duration) time.Duration {
	var sumSq float64
	for _, d := range samples {
		diff := float64(d - mean)
		sumSq += diff * diff
	}
	return time.Duration(math.Sqrt(sumSq / float64(len(samples)-1)))
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
