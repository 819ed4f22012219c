package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// StartTrialSpan starts the root span for one status trial against host:port.
func StartTrialSpan(ctx context.Context, tracer trace.Tracer, host string, port int) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, "status trial",
		trace.WithSpanKind(trace.SpanKindClient),
	)
	span.SetAttributes(
		attribute.String("net.peer.name", host),
		attribute.Int("net.peer.port", port),
	)
	return ctx, span
}

// StartPhaseSpan starts a child span for one trial phase (connect, handshake,
// status).
func StartPhaseSpan(ctx context.Context, tracer trace.Tracer, phase string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, phase, opts...)
	span.SetAttributes(attribute.String("craftload.phase", phase))
	return ctx, span
}

// EndSpan finishes a span, recording error status if applicable.
func EndSpan(span trace.Span, err error, attrs ...attribute.KeyValue) {
	if len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
