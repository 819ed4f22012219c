package metrics_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"craftload/internal/metrics"
	"craftload/internal/probe"
)

func success(connect, response time.Duration, players int) probe.Result {
	return probe.Result{
		Success:       true,
		ConnectTime:   connect,
		ResponseTime:  response,
		TotalTime:     connect + response,
		PlayersOnline: players,
		Version:       "1.20.1",
		MOTD:          "motd",
	}
}

func failure(total time.Duration, err error) probe.Result {
	return probe.Result{TotalTime: total, Err: err}
}

func TestCollectorCounts(t *testing.T) {
	c := metrics.NewCollector()
	c.Record(success(10*time.Millisecond, 20*time.Millisecond, 5))
	c.Record(success(15*time.Millisecond, 25*time.Millisecond, 7))
	c.Record(failure(time.Second, errors.New("boom")))

	successes, failures := c.Counts()
	if successes != 2 || failures != 1 {
		t.Fatalf("counts = %d/%d, want 2/1", successes, failures)
	}
	if got := len(c.Results()); got != 3 {
		t.Fatalf("results = %d entries, want 3", got)
	}
}

func TestCollectorConcurrentRecording(t *testing.T) {
	c := metrics.NewCollector()
	const workers = 8
	const perWorker = 50

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			for n := 0; n < perWorker; n++ {
				if (i+n)%3 == 0 {
					c.Record(failure(time.Millisecond, errors.New("x")))
				} else {
					c.Record(success(time.Millisecond, time.Millisecond, 0))
				}
			}
		}(i)
	}
	wg.Wait()

	successes, failures := c.Counts()
	if successes+failures != workers*perWorker {
		t.Fatalf("successes+failures = %d, want %d", successes+failures, workers*perWorker)
	}
	if got := len(c.Results()); got != workers*perWorker {
		t.Fatalf("results = %d entries, want %d", got, workers*perWorker)
	}
}

func TestStatsPhaseAggregates(t *testing.T) {
	c := metrics.NewCollector()
	// Connect times 10..50ms, responses 100..500ms.
	for i := 1; i <= 5; i++ {
		c.Record(success(time.Duration(i)*10*time.Millisecond, time.Duration(i)*100*time.Millisecond, i))
	}

	stats := c.Stats(time.Second)

	if stats.Total != 5 || stats.Successes != 5 {
		t.Fatalf("total/successes = %d/%d", stats.Total, stats.Successes)
	}
	if stats.Connect.Min != 10*time.Millisecond || stats.Connect.Max != 50*time.Millisecond {
		t.Errorf("connect min/max = %s/%s", stats.Connect.Min, stats.Connect.Max)
	}
	if stats.Connect.Mean != 30*time.Millisecond {
		t.Errorf("connect mean = %s, want 30ms", stats.Connect.Mean)
	}
	if stats.Connect.Median != 30*time.Millisecond {
		t.Errorf("connect median = %s, want 30ms", stats.Connect.Median)
	}
	if !stats.Connect.StdDevOK {
		t.Error("stddev should be defined for 5 samples")
	}
	// Sample stddev of {10,20,30,40,50}ms is sqrt(250)ms ≈ 15.81ms.
	if stats.Connect.StdDevMs < 15.7 || stats.Connect.StdDevMs > 15.9 {
		t.Errorf("connect stddev = %.2fms, want ~15.81ms", stats.Connect.StdDevMs)
	}
	if stats.Response.Mean != 300*time.Millisecond {
		t.Errorf("response mean = %s, want 300ms", stats.Response.Mean)
	}
	if stats.AvgPlayersOnline != 3 {
		t.Errorf("avg players = %.1f, want 3", stats.AvgPlayersOnline)
	}
	if stats.ServerVersion != "1.20.1" || stats.ServerMOTD != "motd" {
		t.Errorf("server sample = %q/%q", stats.ServerVersion, stats.ServerMOTD)
	}
	if stats.TrialsPerSec != 5 {
		t.Errorf("trials/sec = %.1f, want 5", stats.TrialsPerSec)
	}
}

func TestStatsMedianEvenCount(t *testing.T) {
	c := metrics.NewCollector()
	for _, d := range []time.Duration{10, 20, 30, 40} {
		c.Record(success(d*time.Millisecond, d*time.Millisecond, 0))
	}
	stats := c.Stats(0)
	if stats.Connect.Median != 25*time.Millisecond {
		t.Errorf("median = %s, want 25ms", stats.Connect.Median)
	}
}

func TestStatsStdDevUndefinedForSingleSuccess(t *testing.T) {
	c := metrics.NewCollector()
	c.Record(success(10*time.Millisecond, 20*time.Millisecond, 1))

	stats := c.Stats(0)
	if stats.Connect.StdDevOK {
		t.Error("stddev must be undefined with a single success")
	}
	if stats.Connect.Mean != 10*time.Millisecond {
		t.Errorf("mean = %s, want 10ms", stats.Connect.Mean)
	}
}

func TestStatsNoSuccesses(t *testing.T) {
	c := metrics.NewCollector()
	c.Record(failure(time.Second, errors.New("refused")))
	c.Record(failure(time.Second, errors.New("refused")))

	stats := c.Stats(time.Second)
	if stats.Successes != 0 || stats.Failures != 2 {
		t.Fatalf("successes/failures = %d/%d", stats.Successes, stats.Failures)
	}
	if stats.Connect.Mean != 0 {
		t.Error("phase stats must stay zero with no successes")
	}
	if stats.AvgPlayersOnline != 0 {
		t.Error("avg players must stay zero with no successes")
	}
}

func TestStatsErrorBuckets(t *testing.T) {
	c := metrics.NewCollector()
	c.Record(failure(time.Millisecond, errors.New("a")))
	c.Record(failure(time.Millisecond, errors.New("b")))

	stats := c.Stats(0)
	if len(stats.Errors) == 0 {
		t.Fatal("expected error buckets")
	}
	var total int
	for _, n := range stats.Errors {
		total += n
	}
	if total != 2 {
		t.Errorf("bucketed %d errors, want 2", total)
	}
}

func TestStatsPercentiles(t *testing.T) {
	c := metrics.NewCollector()
	for i := 1; i <= 100; i++ {
		c.Record(success(time.Duration(i)*time.Millisecond, time.Duration(i)*time.Millisecond, 0))
	}
	stats := c.Stats(0)
	if stats.Connect.P50 < 49*time.Millisecond || stats.Connect.P50 > 51*time.Millisecond {
		t.Errorf("P50 = %s, want ~50ms", stats.Connect.P50)
	}
	if stats.Connect.P99 < 98*time.Millisecond || stats.Connect.P99 > 100*time.Millisecond {
		t.Errorf("P99 = %s, want ~99ms", stats.Connect.P99)
	}
}
