// Package threshold evaluates pass/fail performance assertions against a
// finished run's statistics.
package threshold

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"craftload/internal/metrics"
)

// Threshold represents a performance assertion that can pass or fail.
type Threshold struct {
	Metric    string  // "connect_time", "response_time", "total_time", "failed", "trials"
	Aggregate string  // "min", "max", "avg", "med", "p50", "p90", "p99", "rate", "count"
	Operator  string  // "<", "<=", ">", ">=", "=="
	Value     float64 // latency aggregates in ms; rate as decimal; count as plain number
	Raw       string  // original threshold string for display
}

// Result represents the outcome of evaluating a threshold.
type Result struct {
	Threshold Threshold
	Actual    float64
	Pass      bool
	Message   string
}

// Evaluator evaluates thresholds against collected metrics.
type Evaluator struct {
	thresholds []Threshold
}

// NewEvaluator creates a new threshold evaluator.
func NewEvaluator(thresholds []Threshold) *Evaluator {
	return &Evaluator{thresholds: thresholds}
}

// Evaluate checks all thresholds against the provided stats.
func (e *Evaluator) Evaluate(stats metrics.Stats) []Result {
	if len(e.thresholds) == 0 {
		return nil
	}
	results := make([]Result, 0, len(e.thresholds))
	for _, t := range e.thresholds {
		results = append(results, evaluateOne(t, stats))
	}
	return results
}

// AllPassed reports whether every result passed.
func AllPassed(results []Result) bool {
	for _, r := range results {
		if !r.Pass {
			return false
		}
	}
	return true
}

func evaluateOne(t Threshold, stats metrics.Stats) Result {
	actual, err := extractMetricValue(t, stats)
	if err != nil {
		return Result{
			Threshold: t,
			Pass:      false,
			Message:   fmt.Sprintf("error: %v", err),
		}
	}

	pass := compareValues(actual, t.Operator, t.Value)
	status := "PASS"
	if !pass {
		status = "FAIL"
	}
	return Result{
		Threshold: t,
		Actual:    actual,
		Pass:      pass,
		Message:   fmt.Sprintf("%s %s: %.2f %s %.2f", status, t.Raw, actual, t.Operator, t.Value),
	}
}

var thresholdPattern = regexp.MustCompile(`^([a-z_]+):([a-z0-9]+)\s*([<>=!]+)\s*([0-9.]+)$`)

// Parse parses a threshold string. Supported formats:
//   - "connect_time:p99 < 200"  (connect latency percentile in ms)
//   - "response_time:avg < 500" (mean response latency in ms)
//   - "total_time:max < 2000"   (max trial time in ms)
//   - "failed:rate < 0.05"      (failure rate as decimal)
//   - "failed:count <= 3"       (failure count)
//   - "trials:rate > 100"       (trials per second)
func Parse(s string) (Threshold, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Threshold{}, fmt.Errorf("empty threshold string")
	}

	matches := thresholdPattern.FindStringSubmatch(s)
	if matches == nil {
		return Threshold{}, fmt.Errorf("invalid threshold format: %q (expected metric:aggregate operator value, e.g. 'connect_time:p99 < 200')", s)
	}

	metric, aggregate, operator, valueStr := matches[1], matches[2], matches[3], matches[4]
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return Threshold{}, fmt.Errorf("invalid threshold value %q: %v", valueStr, err)
	}

	if !isValidMetric(metric) {
		return Threshold{}, fmt.Errorf("unsupported metric: %q (supported: connect_time, response_time, total_time, failed, trials)", metric)
	}
	if !isValidAggregate(aggregate) {
		return Threshold{}, fmt.Errorf("unsupported aggregate: %q (supported: min, max, avg, med, p50, p90, p99, rate, count)", aggregate)
	}
	if !isValidOperator(operator) {
		return Threshold{}, fmt.Errorf("unsupported operator: %q (supported: <, <=, >, >=, ==)", operator)
	}

	return Threshold{
		Metric:    metric,
		Aggregate: aggregate,
		Operator:  operator,
		Value:     value,
		Raw:       s,
	}, nil
}

// ParseMultiple parses multiple threshold strings.
func ParseMultiple(thresholds []string) ([]Threshold, error) {
	if len(thresholds) == 0 {
		return nil, nil
	}

	result := make([]Threshold, 0, len(thresholds))
	var errs []string
	for i, s := range thresholds {
		t, err := Parse(s)
		if err != nil {
			errs = append(errs, fmt.Sprintf("threshold[%d]: %v", i, err))
			continue
		}
		result = append(result, t)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("threshold parsing errors: %s", strings.Join(errs, "; "))
	}
	return result, nil
}

func isValidMetric(metric string) bool {
	switch metric {
	case "connect_time", "response_time", "total_time", "failed", "trials":
		return true
	}
	return false
}

func isValidAggregate(aggregate string) bool {
	switch aggregate {
	case "min", "max", "avg", "med", "p50", "p90", "p99", "rate", "count":
		return true
	}
	return false
}

func isValidOperator(operator string) bool {
	switch operator {
	case "<", "<=", ">", ">=", "==":
		return true
	}
	return false
}

func extractMetricValue(t Threshold, stats metrics.Stats) (float64, error) {
	switch t.Metric {
	case "connect_time":
		return extractPhaseMetric(t.Aggregate, stats.Connect)
	case "response_time":
		return extractPhaseMetric(t.Aggregate, stats.Response)
	case "total_time":
		return extractPhaseMetric(t.Aggregate, stats.TotalTime)
	case "failed":
		switch t.Aggregate {
		case "rate":
			return stats.FailureRate, nil
		case "count":
			return float64(stats.Failures), nil
		}
		return 0, fmt.Errorf("aggregate %q not valid for failed (use rate or count)", t.Aggregate)
	case "trials":
		switch t.Aggregate {
		case "rate":
			return stats.TrialsPerSec, nil
		case "count":
			return float64(stats.Total), nil
		}
		return 0, fmt.Errorf("aggregate %q not valid for trials (use rate or count)", t.Aggregate)
	}
	return 0, fmt.Errorf("unknown metric %q", t.Metric)
}

func extractPhaseMetric(aggregate string, phase metrics.PhaseStats) (float64, error) {
	switch aggregate {
	case "min":
		return phase.MinMs, nil
	case "max":
		return phase.MaxMs, nil
	case "avg":
		return phase.MeanMs, nil
	case "med":
		return phase.MedianMs, nil
	case "p50":
		return phase.P50Ms, nil
	case "p90":
		return phase.P90Ms, nil
	case "p99":
		return phase.P99Ms, nil
	}
	return 0, fmt.Errorf("aggregate %q not valid for latency metrics", aggregate)
}

func compareValues(actual float64, operator string, value float64) bool {
	switch operator {
	case "<":
		return actual < value
	case "<=":
		return actual <= value
	case ">":
		return actual > value
	case ">=":
		return actual >= value
	case "==":
		const epsilon = 1e-9
		return math.Abs(actual-value) < epsilon
	}
	return false
}
