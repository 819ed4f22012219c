package threshold_test

import (
	"strings"
	"testing"

	"craftload/internal/metrics"
	"craftload/internal/threshold"
)

func sampleStats() metrics.Stats {
	return metrics.Stats{
		Total:        20,
		Successes:    19,
		Failures:     1,
		FailureRate:  0.05,
		TrialsPerSec: 40,
		Connect: metrics.PhaseStats{
			MinMs: 5, MaxMs: 50, MeanMs: 20, MedianMs: 18,
			P50Ms: 18, P90Ms: 45, P99Ms: 49,
		},
		Response: metrics.PhaseStats{
			MinMs: 50, MaxMs: 400, MeanMs: 150, MedianMs: 120,
			P50Ms: 120, P90Ms: 300, P99Ms: 390,
		},
	}
}

func TestParseValid(t *testing.T) {
	cases := []struct {
		input     string
		metric    string
		aggregate string
		operator  string
		value     float64
	}{
		{"connect_time:p99 < 200", "connect_time", "p99", "<", 200},
		{"response_time:avg<500", "response_time", "avg", "<", 500},
		{"failed:rate <= 0.05", "failed", "rate", "<=", 0.05},
		{"failed:count == 0", "failed", "count", "==", 0},
		{"trials:rate > 100", "trials", "rate", ">", 100},
	}
	for _, tc := range cases {
		th, err := threshold.Parse(tc.input)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tc.input, err)
		}
		if th.Metric != tc.metric || th.Aggregate != tc.aggregate || th.Operator != tc.operator || th.Value != tc.value {
			t.Errorf("Parse(%q) = %+v", tc.input, th)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	inputs := []string{
		"",
		"garbage",
		"latency:p99 < 100",      // unknown metric
		"connect_time:p75 < 100", // unknown aggregate
		"connect_time:p99 ! 100", // bad operator
		"connect_time:p99 < abc", // bad value
	}
	for _, input := range inputs {
		if _, err := threshold.Parse(input); err == nil {
			t.Errorf("Parse(%q) should fail", input)
		}
	}
}

func TestEvaluate(t *testing.T) {
	ths, err := threshold.ParseMultiple([]string{
		"connect_time:p99 < 200", // 49 < 200 pass
		"response_time:avg < 100", // 150 < 100 fail
		"failed:rate <= 0.05",     // pass
	})
	if err != nil {
		t.Fatalf("ParseMultiple: %v", err)
	}

	results := threshold.NewEvaluator(ths).Evaluate(sampleStats())
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if !results[0].Pass {
		t.Errorf("connect p99 should pass: %s", results[0].Message)
	}
	if results[1].Pass {
		t.Errorf("response avg should fail: %s", results[1].Message)
	}
	if !results[2].Pass {
		t.Errorf("failure rate should pass: %s", results[2].Message)
	}
	if threshold.AllPassed(results) {
		t.Error("AllPassed must be false with one failing threshold")
	}
	if !strings.HasPrefix(results[1].Message, "FAIL") {
		t.Errorf("failing message = %q", results[1].Message)
	}
}

func TestEvaluateInvalidAggregateForMetric(t *testing.T) {
	th, err := threshold.Parse("failed:p99 < 100")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	results := threshold.NewEvaluator([]threshold.Threshold{th}).Evaluate(sampleStats())
	if results[0].Pass {
		t.Error("invalid aggregate must fail evaluation")
	}
}

func TestEvaluateEmpty(t *testing.T) {
	if got := threshold.NewEvaluator(nil).Evaluate(sampleStats()); got != nil {
		t.Errorf("expected nil results, got %v", got)
	}
	if !threshold.AllPassed(nil) {
		t.Error("AllPassed(nil) must be true")
	}
}
