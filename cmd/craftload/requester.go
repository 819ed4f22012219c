package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"craftload/internal/metrics"
	"craftload/internal/probe"
	"craftload/internal/tracing"
)

// statusRequester runs one status trial per Do call and records the outcome.
type statusRequester struct {
	prober    *probe.Prober
	collector *metrics.Collector
	tracer    trace.Tracer
	traced    bool
	host      string
	port      int
}

func (r *statusRequester) Do(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	start := time.Now()
	var span trace.Span
	if r.traced {
		ctx, span = tracing.StartTrialSpan(ctx, r.tracer, r.host, r.port)
	}

	res := r.prober.Probe(ctx)

	if r.traced {
		r.recordPhaseSpans(ctx, start, res)
		tracing.EndSpan(span, res.Err,
			attribute.Bool("craftload.success", res.Success),
			attribute.Float64("craftload.total_ms", float64(res.TotalTime)/float64(time.Millisecond)),
		)
	}

	r.collector.Record(res)
	return res.Err
}

// recordPhaseSpans reconstructs connect and status child spans from the
// trial's measured timings.
func (r *statusRequester) recordPhaseSpans(ctx context.Context, start time.Time, res probe.Result) {
	if !res.Success {
		return
	}
	connected := start.Add(res.ConnectTime)

	_, connect := tracing.StartPhaseSpan(ctx, r.tracer, "connect", trace.WithTimestamp(start))
	connect.End(trace.WithTimestamp(connected))

	_, status := tracing.StartPhaseSpan(ctx, r.tracer, "status", trace.WithTimestamp(connected))
	status.End(trace.WithTimestamp(connected.Add(res.ResponseTime)))
}

type stderrFailureLogger struct {
	mu sync.Mutex
}

func (l *stderrFailureLogger) LogFailure(err error) {
	if err == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(os.Stderr, "[craftload] trial failed: %v\n", err)
}
