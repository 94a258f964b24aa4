package service

import (
	"context"
	"fmt"
	"strings"

	"elecciones-rag-be/internal/dto"
	"elecciones-rag-be/internal/registry"
	"elecciones-rag-be/pkg/llm/resilience"
	"elecciones-rag-be/pkg/rag/graph"
)

const apiVersion = "2.0.0"

// historyMessageLimit and historyContentLimit bound the conversation digest
// handed to the intent classifier: the last two Q&A pairs, each message
// clipped for prompt economy.
const (
	historyMessageLimit = 4
	historyContentLimit = 200
)

type IAgentService interface {
	Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error)
	AskStream(ctx context.Context, req *dto.AskRequest) <-chan graph.Event
	Parties() *dto.PartiesResponse
	Health() *dto.HealthResponse
}

type agentService struct {
	graph   *graph.Graph
	breaker *resilience.CircuitBreaker
}

func NewAgentService(g *graph.Graph, breaker *resilience.CircuitBreaker) IAgentService {
	return &agentService{
		graph:   g,
		breaker: breaker,
	}
}

func (s *agentService) Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error) {
	history := HistoryDigest(req.LastMessages)

	st, err := s.graph.Run(ctx, req.Question, req.SessionID, history)
	if err != nil {
		return nil, fmt.Errorf("agent workflow failed: %w", err)
	}

	return &dto.AskResponse{
		Answer:  st.Answer,
		Sources: st.Sources,
		Cached:  false,
		AgentTrace: &dto.AgentTrace{
			Intent:          string(st.Intent),
			PartiesDetected: st.Parties,
			ChunksRetrieved: len(st.Contexts),
			Steps:           st.Steps,
		},
		SessionID: req.SessionID,
		TraceID:   st.TraceID,
	}, nil
}

func (s *agentService) AskStream(ctx context.Context, req *dto.AskRequest) <-chan graph.Event {
	history := HistoryDigest(req.LastMessages)
	return s.graph.RunStream(ctx, req.Question, req.SessionID, history)
}

func (s *agentService) Parties() *dto.PartiesResponse {
	parties := registry.All()
	out := make([]dto.PartyResponse, 0, len(parties))
	for _, p := range parties {
		out = append(out, dto.PartyResponse{
			Abbreviation: p.Abbreviation,
			Name:         p.Name,
			Candidate:    p.Candidate,
			Site:         p.Site,
			Plan:         p.Plan,
		})
	}
	return &dto.PartiesResponse{Parties: out}
}

func (s *agentService) Health() *dto.HealthResponse {
	res := &dto.HealthResponse{
		Status:  "ok",
		Version: apiVersion,
	}
	if s.breaker != nil {
		res.CircuitBreaker = string(s.breaker.State())
	}
	return res
}

// HistoryDigest compresses prior turns into the short textual digest the
// intent classifier uses for follow-up disambiguation.
func HistoryDigest(messages []dto.ConversationMessage) string {
	if len(messages) == 0 {
		return ""
	}

	recent := messages
	if len(recent) > historyMessageLimit {
		recent = recent[len(recent)-historyMessageLimit:]
	}

	parts := make([]string, 0, len(recent))
	for _, msg := range recent {
		label := "Asistente"
		if msg.Role == "user" {
			label = "Usuario"
		}
		parts = append(parts, fmt.Sprintf("%s: %s", label, clip(msg.Content, historyContentLimit)))
	}
	return strings.Join(parts, "\n")
}

// clip bounds a message without adding an ellipsis; the digest is prompt
// input, not display text.
func clip(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
