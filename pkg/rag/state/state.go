package state

import (
	"elecciones-rag-be/pkg/rag/intent"
	"elecciones-rag-be/pkg/store"
)

// AgentState is the working record threaded through the pipeline. Each node
// receives a state, derives a new one and returns it; nodes never mutate a
// state another node produced.
type AgentState struct {
	Question            string              `json:"question"`
	Intent              intent.Intent       `json:"intent"`
	Parties             []string            `json:"parties"`
	Contexts            []store.ScoredChunk `json:"contexts"`
	Answer              string              `json:"answer"`
	Sources             []store.Source      `json:"sources"`
	Steps               []string            `json:"steps"`
	ConversationHistory string              `json:"conversation_history,omitempty"`
	TraceID             string              `json:"trace_id,omitempty"`
}

// New creates the initial state for one pipeline run.
func New(question, history string) *AgentState {
	return &AgentState{
		Question:            question,
		Parties:             []string{},
		Contexts:            []store.ScoredChunk{},
		Sources:             []store.Source{},
		Steps:               []string{},
		ConversationHistory: history,
	}
}

// Clone returns a deep copy so a node can derive new state without touching
// its input.
func (s *AgentState) Clone() *AgentState {
	out := *s
	out.Parties = append([]string(nil), s.Parties...)
	out.Contexts = append([]store.ScoredChunk(nil), s.Contexts...)
	out.Sources = append([]store.Source(nil), s.Sources...)
	out.Steps = append([]string(nil), s.Steps...)
	return &out
}

// WithStep clones the state and appends a trace step.
func (s *AgentState) WithStep(step string) *AgentState {
	out := s.Clone()
	out.Steps = append(out.Steps, step)
	return out
}
