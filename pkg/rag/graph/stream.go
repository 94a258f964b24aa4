package graph

import (
	"context"
	"fmt"

	"elecciones-rag-be/pkg/rag/state"
	"elecciones-rag-be/pkg/store"
)

// EventType discriminates streaming events.
type EventType string

const (
	EventToken    EventType = "token"
	EventMetadata EventType = "metadata"
)

// Event is one item of the streaming response: token fragments in emission
// order, then a single closing metadata event.
type Event struct {
	Type     EventType       `json:"type"`
	Content  string          `json:"content,omitempty"`
	Metadata *StreamMetadata `json:"data,omitempty"`
}

// StreamMetadata is the closing payload of a streamed answer.
type StreamMetadata struct {
	Sources    []store.Source `json:"sources"`
	AgentTrace TraceSummary   `json:"agent_trace"`
	SessionID  string         `json:"session_id,omitempty"`
	TraceID    string         `json:"trace_id,omitempty"`
}

// TraceSummary summarizes the workflow for the response payload.
type TraceSummary struct {
	Intent          string   `json:"intent"`
	PartiesDetected []string `json:"parties_detected"`
	ChunksRetrieved int      `json:"chunks_retrieved"`
	Steps           []string `json:"steps"`
}

// RunStream executes the workflow with a token-emitting answer phase. The
// pipeline up through retrieval is identical to Run; terminal nodes that
// answer without generation (rate limited, metadata) emit their answer as a
// single token. The returned channel is closed after the metadata event.
//
// Canceling ctx releases the producer: sends stop, the workflow still runs
// to completion, and the checkpoint and trace are written. Callers that
// abandon the channel early must cancel ctx or the producer blocks forever.
func (g *Graph) RunStream(ctx context.Context, question, sessionID, history string) <-chan Event {
	events := make(chan Event)

	go func() {
		defer close(events)

		ctx, traceID, endTrace := g.sink.StartTrace(ctx, "agent-workflow-stream", sessionID, AnonymousUserID(sessionID))

		// emit delivers one event unless the consumer has gone away.
		emit := func(ev Event) bool {
			select {
			case events <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		st := state.New(question, history)
		st.TraceID = traceID

		// Walk the table up to the answer phase
		current := NodeClassifyIntent
		for current != NodeEnd && current != NodeGenerateAnswer {
			st = g.runNode(ctx, current, st)
			current = next(current, st)
		}

		if current == NodeGenerateAnswer {
			st = g.streamAnswer(ctx, st, emit)
		} else if st.Answer != "" {
			// rate_limited / metadata_query answered without generation
			emit(Event{Type: EventToken, Content: st.Answer})
		}

		// The checkpoint write must survive a consumer disconnect.
		g.saveCheckpoint(context.WithoutCancel(ctx), sessionID, st)

		endTrace(map[string]string{
			"intent":       string(st.Intent),
			"parties":      fmt.Sprintf("%v", st.Parties),
			"answer_chars": fmt.Sprintf("%d", len(st.Answer)),
			"streaming":    "true",
		})

		emit(Event{
			Type: EventMetadata,
			Metadata: &StreamMetadata{
				Sources: st.Sources,
				AgentTrace: TraceSummary{
					Intent:          string(st.Intent),
					PartiesDetected: st.Parties,
					ChunksRetrieved: len(st.Contexts),
					Steps:           st.Steps,
				},
				SessionID: sessionID,
				TraceID:   st.TraceID,
			},
		})

		g.logger.Printf("[AGENT] Streaming workflow completed. Steps: %v", st.Steps)
	}()

	return events
}

// streamAnswer relays generation tokens in emission order, accumulating the
// full text for the checkpoint and trace payload. After a consumer
// disconnect the provider stream is still drained so its goroutine is
// released and the checkpoint holds the complete answer.
func (g *Graph) streamAnswer(ctx context.Context, st *state.AgentState, emit func(Event) bool) *state.AgentState {
	g.logger.Printf("[AGENT] Streaming answer generation...")

	stream, degraded, err := g.generator.Stream(ctx, st.Question, st.Contexts, st.Intent)
	if err != nil {
		out := st.WithStep(fmt.Sprintf("Error: %v", err))
		out.Answer = degraded
		out.Sources = []store.Source{}
		emit(Event{Type: EventToken, Content: degraded})
		return out
	}

	full := ""
	delivering := true
	for chunk := range stream {
		if chunk.Err != nil {
			g.logger.Printf("[AGENT] Stream interrupted: %v", chunk.Err)
			break
		}
		full += chunk.Content
		if delivering {
			delivering = emit(Event{Type: EventToken, Content: chunk.Content})
		}
	}

	out := st.WithStep("Generated streaming answer")
	out.Answer = full
	out.Sources = sourcesOf(st.Contexts)
	return out
}

func sourcesOf(chunks []store.ScoredChunk) []store.Source {
	sources := make([]store.Source, 0, len(chunks))
	for _, c := range chunks {
		sources = append(sources, store.NewSource(c))
	}
	return sources
}
