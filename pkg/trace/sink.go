package trace

import "context"

// Sink receives workflow observability records. Best-effort only: the
// pipeline behaves identically with the no-op implementation, and sink
// failures are never surfaced to callers.
type Sink interface {
	// StartTrace opens a workflow-level trace and returns its id plus a
	// function closing the trace with the final attributes.
	StartTrace(ctx context.Context, name, sessionID, userID string) (context.Context, string, func(attrs map[string]string))

	// StartSpan opens a node-level span under the current trace.
	StartSpan(ctx context.Context, name string) (context.Context, func(attrs map[string]string))

	// Score attaches a user feedback score to a finished trace.
	Score(traceID string, value int, comment string)
}

type noopSink struct{}

// NewNoopSink returns a Sink that discards everything.
func NewNoopSink() Sink {
	return noopSink{}
}

func (noopSink) StartTrace(ctx context.Context, name, sessionID, userID string) (context.Context, string, func(map[string]string)) {
	return ctx, "", func(map[string]string) {}
}

func (noopSink) StartSpan(ctx context.Context, name string) (context.Context, func(map[string]string)) {
	return ctx, func(map[string]string) {}
}

func (noopSink) Score(traceID string, value int, comment string) {}
