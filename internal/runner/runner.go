package runner

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Result captures execution summary.
type Result struct {
	Total    int64
	Errors   int64
	Duration time.Duration
}

// Runner coordinates concurrent trial execution. Work is statically
// partitioned: each worker runs exactly TrialsPerWorker sequential trials, so
// a completed run accounts for Concurrency * TrialsPerWorker trials.
type Runner struct {
	opt     Options
	arrival arrivalController
}

func New(opt Options) *Runner {
	opt.normalize()
	return &Runner{opt: opt, arrival: newArrivalController(opt)}
}

// Run blocks until every worker has finished its trial budget (or ctx is
// cancelled). Trials within a worker are strictly sequential; across workers
// there is no ordering guarantee.
func (r *Runner) Run(ctx context.Context) Result {
	start := time.Now()
	var total int64
	var errs int64

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(r.opt.Concurrency)
	for i := 0; i < r.opt.Concurrency; i++ {
		go func() {
			defer wg.Done()
			for n := 0; n < r.opt.TrialsPerWorker; n++ {
				if ctx.Err() != nil {
					return
				}
				if r.arrival != nil {
					if err := r.arrival.Wait(ctx); err != nil {
						return
					}
				}
				atomic.AddInt64(&total, 1)
				if err := r.opt.Requester.Do(ctx); err != nil {
					atomic.AddInt64(&errs, 1)
				}
			}
		}()
	}
	wg.Wait()

	return Result{
		Total:    atomic.LoadInt64(&total),
		Errors:   atomic.LoadInt64(&errs),
		Duration: time.Since(start),
	}
}
