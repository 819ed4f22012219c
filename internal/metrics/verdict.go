package metrics

import "time"

// Verdict is the qualitative summary classification of a run.
type Verdict string

const (
	VerdictExcellent Verdict = "excellent"
	VerdictGood      Verdict = "good"
	VerdictStressed  Verdict = "under stress"
	VerdictModerate  Verdict = "moderate"
)

const (
	excellentResponse = 200 * time.Millisecond
	goodResponse      = 500 * time.Millisecond
	stressedResponse  = time.Second
	goodFailureRate   = 0.05
	stressFailureRate = 0.10
)

// Classify maps a run's failure rate and mean response time onto a verdict.
// Branches are evaluated in this fixed order; the first match wins.
func Classify(failures, total int64, meanResponse time.Duration) Verdict {
	var failureRate float64
	if total > 0 {
		failureRate = float64(failures) / float64(total)
	}

	switch {
	case failures == 0 && meanResponse < excellentResponse:
		return VerdictExcellent
	case failureRate < goodFailureRate && meanResponse < goodResponse:
		return VerdictGood
	case meanResponse >= stressedResponse || failureRate > stressFailureRate:
		return VerdictStressed
	default:
		return VerdictModerate
	}
}
