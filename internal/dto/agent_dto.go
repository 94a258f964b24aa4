package dto

import "elecciones-rag-be/pkg/store"

type ConversationMessage struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}

type AskRequest struct {
	Question     string                `json:"question" validate:"required,min=3,max=500"`
	LastMessages []ConversationMessage `json:"last_messages" validate:"omitempty,max=10,dive"`
	SessionID    string                `json:"session_id" validate:"omitempty,max=100"`
}

type AgentTrace struct {
	Intent          string   `json:"intent"`
	PartiesDetected []string `json:"parties_detected"`
	ChunksRetrieved int      `json:"chunks_retrieved"`
	Steps           []string `json:"steps"`
}

type AskResponse struct {
	Answer     string         `json:"answer"`
	Sources    []store.Source `json:"sources"`
	Cached     bool           `json:"cached"`
	AgentTrace *AgentTrace    `json:"agent_trace,omitempty"`
	SessionID  string         `json:"session_id,omitempty"`
	TraceID    string         `json:"trace_id,omitempty"`
}

type FeedbackRequest struct {
	TraceID string `json:"trace_id" validate:"required,max=100"`
	Score   int    `json:"score" validate:"min=-1,max=1"`
	Comment string `json:"comment" validate:"omitempty,max=1000"`
}

type PartyResponse struct {
	Abbreviation string `json:"abbreviation"`
	Name         string `json:"name"`
	Candidate    string `json:"candidate"`
	Site         string `json:"site"`
	Plan         string `json:"plan"`
}

type PartiesResponse struct {
	Parties []PartyResponse `json:"parties"`
}

type HealthResponse struct {
	Status         string `json:"status"`
	Version        string `json:"version"`
	CircuitBreaker string `json:"circuit_breaker,omitempty"`
}
