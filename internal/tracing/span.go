package tracing

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// Span attribute keys recorded on every request span.
const (
	AttrRunID     = attribute.Key("goku.run_id")
	AttrClient    = attribute.Key("goku.client")
	AttrIteration = attribute.Key("goku.iteration")
	AttrStatus    = attribute.Key("goku.status")
)

// StartRequestSpan opens a client span for one iteration of one worker.
func StartRequestSpan(ctx context.Context, tracer trace.Tracer, method, target, runID string, client, iteration int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "HTTP "+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			semconv.HTTPRequestMethodKey.String(method),
			semconv.URLFull(target),
			AttrRunID.String(runID),
			AttrClient.Int(client),
			AttrIteration.Int(iteration),
		),
	)
}

// EndSpan records the outcome and finishes the span. A non-nil err marks the
// span as failed; statusCode is recorded when positive.
func EndSpan(span trace.Span, status string, statusCode int, err error) {
	span.SetAttributes(AttrStatus.String(status))
	if statusCode > 0 {
		span.SetAttributes(semconv.HTTPResponseStatusCode(statusCode))
	}
	switch {
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	case statusCode >= 500:
		span.SetStatus(codes.Error, status)
	default:
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// InjectHTTPHeaders writes the W3C trace context of ctx into headers.
func InjectHTTPHeaders(ctx context.Context, headers http.Header) {
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(headers))
}
