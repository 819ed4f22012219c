package runner

import (
	"context"

	"golang.org/x/time/rate"
)

// Requester abstracts executing a single trial.
// Implementations should return an error for failed trials.
type Requester interface {
	Do(ctx context.Context) error
}

// ArrivalModel selects how trial starts are paced when a rate is set.
type ArrivalModel string

const (
	ArrivalModelUniform ArrivalModel = "uniform"
	ArrivalModelPoisson ArrivalModel = "poisson"
)

// Options configure the Runner.
type Options struct {
	Concurrency     int          // number of worker goroutines
	TrialsPerWorker int          // sequential trials each worker executes
	RatePerSecond   int          // trial starts per second across all workers (0 means unlimited)
	ArrivalModel    ArrivalModel // pacing model when a rate is set
	Requester       Requester    // trial executor (required)

	RandomSeed     int64                       // seed for the Poisson sampler
	PoissonSampler func() float64              // optional injection for tests
	LimiterFactory func(rps int) *rate.Limiter // optional injection for tests
}

func (o *Options) normalize() {
	if o.Concurrency <= 0 {
		o.Concurrency = 1
	}
	if o.TrialsPerWorker <= 0 {
		o.TrialsPerWorker = 1
	}
	if o.RatePerSecond < 0 {
		o.RatePerSecond = 0
	}
	if o.LimiterFactory == nil {
		o.LimiterFactory = func(rps int) *rate.Limiter {
			if rps <= 0 {
				return rate.NewLimiter(rate.Inf, 0)
			}
			// Burst equal to rps to smooth pacing under concurrency.
			return rate.NewLimiter(rate.Limit(rps), rps)
		}
	}
}
