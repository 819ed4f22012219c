package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"craftload/internal/metrics"
	"craftload/internal/threshold"
)

// RunInfo identifies a run for reporting.
type RunInfo struct {
	ID              string `json:"run_id"`
	Host            string `json:"host"`
	Port            uint16 `json:"port"`
	Concurrency     int    `json:"concurrency"`
	TrialsPerWorker int    `json:"trials_per_worker"`
}

// PrintReport outputs a human-readable summary report.
func PrintReport(w io.Writer, info RunInfo, stats metrics.Stats) {
	fmt.Fprintln(w, "\n--- Status Load Test Results ---")
	fmt.Fprintf(w, "Run ID:            %s\n", info.ID)
	fmt.Fprintf(w, "Target:            %s:%d\n", info.Host, info.Port)
	fmt.Fprintf(w, "Total Trials:      %d\n", stats.Total)
	fmt.Fprintf(w, "Successful:        %d\n", stats.Successes)
	fmt.Fprintf(w, "Failed:            %d\n", stats.Failures)
	fmt.Fprintf(w, "Success Rate:      %.2f%%\n", stats.SuccessRate*100)
	fmt.Fprintf(w, "Duration:          %s\n", stats.Duration)
	fmt.Fprintf(w, "Cumulative Time:   %s\n", stats.Cumulative)
	fmt.Fprintf(w, "Trials/sec:        %.2f\n", stats.TrialsPerSec)

	if stats.Successes == 0 {
		fmt.Fprintln(w, "\nNo successful connections were made. The server might be offline or unreachable.")
		printErrorBuckets(w, stats)
		return
	}

	printPhase(w, "Connect Time", stats.Connect)
	printPhase(w, "Response Time", stats.Response)
	printPhase(w, "Total Time", stats.TotalTime)

	fmt.Fprintln(w, "\nServer Information:")
	fmt.Fprintf(w, "  Avg Players:     %.1f\n", stats.AvgPlayersOnline)
	fmt.Fprintf(w, "  Version:         %s\n", stats.ServerVersion)
	fmt.Fprintf(w, "  MOTD:            %s\n", stats.ServerMOTD)

	printErrorBuckets(w, stats)

	fmt.Fprintln(w, "\nSummary:")
	fmt.Fprintf(w, "  %s\n", VerdictSentence(info.Concurrency, stats))
}

func printPhase(w io.Writer, name string, phase metrics.PhaseStats) {
	fmt.Fprintf(w, "\n%s:\n", name)
	fmt.Fprintf(w, "  Min:             %s\n", phase.Min)
	fmt.Fprintf(w, "  Max:             %s\n", phase.Max)
	fmt.Fprintf(w, "  Mean:            %s\n", phase.Mean)
	fmt.Fprintf(w, "  Median:          %s\n", phase.Median)
	if phase.StdDevOK {
		fmt.Fprintf(w, "  StdDev:          %s\n", phase.StdDev)
	} else {
		fmt.Fprintln(w, "  StdDev:          N/A")
	}
	fmt.Fprintf(w, "  P50:             %s\n", phase.P50)
	fmt.Fprintf(w, "  P90:             %s\n", phase.P90)
	fmt.Fprintf(w, "  P99:             %s\n", phase.P99)
}

func printErrorBuckets(w io.Writer, stats metrics.Stats) {
	if len(stats.Errors) == 0 {
		return
	}
	fmt.Fprintln(w, "\nFailure Breakdown:")
	labels := make([]string, 0, len(stats.Errors))
	for label := range stats.Errors {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if stats.Errors[labels[i]] == stats.Errors[labels[j]] {
			return labels[i] < labels[j]
		}
		return stats.Errors[labels[i]] > stats.Errors[labels[j]]
	})
	for _, label := range labels {
		fmt.Fprintf(w, "  %s: %d\n", label, stats.Errors[label])
	}
}

// VerdictSentence renders the qualitative classification as a report
// sentence.
func VerdictSentence(concurrency int, stats metrics.Stats) string {
	successPct := stats.SuccessRate * 100
	meanResp := stats.Response.Mean.Seconds()

	switch stats.Verdict {
	case metrics.VerdictExcellent:
		return fmt.Sprintf(
			"The server handled %d concurrent connections with a 100%% success rate and a mean response time of %.2fs, showing excellent stability and capacity.",
			concurrency, meanResp)
	case metrics.VerdictGood:
		return fmt.Sprintf(
			"The server performed well under %d concurrent connections: %.2f%% success rate, mean response time %.2fs. It can sustain the current load.",
			concurrency, successPct, meanResp)
	case metrics.VerdictStressed:
		return fmt.Sprintf(
			"The server showed clear signs of stress under %d concurrent connections: %.2f%% success rate, mean response time %.2fs. Optimizing the server configuration or adding resources is recommended.",
			concurrency, successPct, meanResp)
	default:
		return fmt.Sprintf(
			"The server coped with %d concurrent connections: %.2f%% success rate, mean response time %.2fs. There is room for improvement.",
			concurrency, successPct, meanResp)
	}
}

// PrintThresholds outputs threshold evaluation results.
func PrintThresholds(w io.Writer, results []threshold.Result) {
	if len(results) == 0 {
		return
	}
	fmt.Fprintln(w, "\nThresholds:")
	for _, r := range results {
		fmt.Fprintf(w, "  %s\n", r.Message)
	}
}

type jsonReport struct {
	RunInfo
	metrics.Stats
}

// PrintJSONReport outputs a JSON-formatted report.
func PrintJSONReport(w io.Writer, info RunInfo, stats metrics.Stats) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonReport{RunInfo: info, Stats: stats})
}
