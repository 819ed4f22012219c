// Package runner provides the load-generation engine for craftload.
//
// The runner owns a fixed-size pool of workers. Each worker executes a
// static budget of sequential trials, so a finished run always accounts for
// exactly Concurrency * TrialsPerWorker trials: every dispatched trial
// terminates in either a success or a failure, none are dropped.
//
// # Basic Usage
//
//	opts := runner.Options{
//		Concurrency:     50,
//		TrialsPerWorker: 20,
//		Requester:       myRequester,
//	}
//	r := runner.New(opts)
//	result := r.Run(ctx)
//
// # Requester Interface
//
// The [Requester] interface defines what a runner executes:
//
//	type Requester interface {
//		Do(ctx context.Context) error
//	}
//
// # Pacing
//
// By default workers run their budget flat out. Setting RatePerSecond paces
// trial starts across all workers, using either uniform spacing or a Poisson
// arrival process ([ArrivalModelUniform], [ArrivalModelPoisson]).
//
// # Middleware
//
// [WithLogging] wraps a Requester so each failure is reported as it happens.
// Failed trials are terminal: the engine records them once and moves on.
package runner
