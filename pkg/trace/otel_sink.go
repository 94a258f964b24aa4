package trace

import (
	"context"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// otelSink emits workflow traces through the global OpenTelemetry provider.
type otelSink struct {
	tracer oteltrace.Tracer
	logger *log.Logger
}

// NewOtelSink returns a Sink backed by the process-global tracer provider.
// When tracing is disabled the provider is a no-op, so this stays cheap.
func NewOtelSink(logger *log.Logger) Sink {
	return &otelSink{
		tracer: otel.Tracer("elecciones-rag-be/agent"),
		logger: logger,
	}
}

func (s *otelSink) StartTrace(ctx context.Context, name, sessionID, userID string) (context.Context, string, func(map[string]string)) {
	ctx, span := s.tracer.Start(ctx, name)
	if sessionID != "" {
		span.SetAttributes(attribute.String("session.id", sessionID))
	}
	if userID != "" {
		span.SetAttributes(attribute.String("user.id", userID))
	}

	traceID := ""
	if span.SpanContext().HasTraceID() {
		traceID = span.SpanContext().TraceID().String()
	}

	end := func(attrs map[string]string) {
		for k, v := range attrs {
			span.SetAttributes(attribute.String(k, v))
		}
		span.End()
	}
	return ctx, traceID, end
}

func (s *otelSink) StartSpan(ctx context.Context, name string) (context.Context, func(map[string]string)) {
	ctx, span := s.tracer.Start(ctx, name)
	end := func(attrs map[string]string) {
		for k, v := range attrs {
			span.SetAttributes(attribute.String(k, v))
		}
		span.End()
	}
	return ctx, end
}

// Score has no OTel equivalent for finished traces; record it as a log line
// so feedback still lands somewhere observable.
func (s *otelSink) Score(traceID string, value int, comment string) {
	s.logger.Printf("[TRACE] Feedback for trace %s: value=%d comment=%q", traceID, value, comment)
}
