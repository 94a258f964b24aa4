package graph

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"

	"elecciones-rag-be/internal/constant"
	"elecciones-rag-be/pkg/llm"
	"elecciones-rag-be/pkg/rag/intent"
	"elecciones-rag-be/pkg/rag/retrieval"
	"elecciones-rag-be/pkg/rag/state"
	"elecciones-rag-be/pkg/store"
	"elecciones-rag-be/pkg/trace"
)

// Node identifies one step of the workflow.
type Node string

const (
	NodeClassifyIntent Node = "classify_intent"
	NodeRateLimited    Node = "rate_limited"
	NodeExtractParties Node = "extract_parties"
	NodeMetadataQuery  Node = "metadata_query"
	NodeRetrieve       Node = "retrieve"
	NodeGenerateAnswer Node = "generate_answer"
	NodeEnd            Node = "end"
)

// IntentClassifier resolves a question's intent.
type IntentClassifier interface {
	Classify(ctx context.Context, question, history string) intent.Intent
}

// PartyExtractor resolves which registry parties a question references.
type PartyExtractor interface {
	Extract(ctx context.Context, question string) []string
}

// Retriever runs the intent-appropriate retrieval strategy.
type Retriever interface {
	Retrieve(ctx context.Context, question string, resolved intent.Intent, parties []string) (retrieval.Result, error)
}

// AnswerGenerator produces the grounded answer, in full or streaming.
type AnswerGenerator interface {
	Generate(ctx context.Context, question string, chunks []store.ScoredChunk, resolved intent.Intent) (string, []store.Source)
	Stream(ctx context.Context, question string, chunks []store.ScoredChunk, resolved intent.Intent) (<-chan llm.StreamChunk, string, error)
}

// MetadataResponder answers registry questions without search or generation.
type MetadataResponder func(question string) string

// CheckpointStore persists the terminal state of a session's latest turn.
type CheckpointStore interface {
	Save(ctx context.Context, sessionKey string, st *state.AgentState) error
	Load(ctx context.Context, sessionKey string) (*state.AgentState, bool, error)
}

// Graph is the conversation workflow: an explicit transition table plus a
// small interpreter loop. Every transition is a plain value in the table, so
// each edge is testable in isolation.
type Graph struct {
	classifier  IntentClassifier
	extractor   PartyExtractor
	retriever   Retriever
	generator   AnswerGenerator
	metadata    MetadataResponder
	checkpoints CheckpointStore
	sink        trace.Sink
	logger      *log.Logger
}

func NewGraph(
	classifier IntentClassifier,
	extractor PartyExtractor,
	retriever Retriever,
	generator AnswerGenerator,
	metadata MetadataResponder,
	checkpoints CheckpointStore,
	sink trace.Sink,
	logger *log.Logger,
) *Graph {
	if sink == nil {
		sink = trace.NewNoopSink()
	}
	return &Graph{
		classifier:  classifier,
		extractor:   extractor,
		retriever:   retriever,
		generator:   generator,
		metadata:    metadata,
		checkpoints: checkpoints,
		sink:        sink,
		logger:      logger,
	}
}

// staticEdges are the unconditional transitions. classify_intent routes by
// the resolved intent instead (see routeByIntent).
var staticEdges = map[Node]Node{
	NodeExtractParties: NodeRetrieve,
	NodeRetrieve:       NodeGenerateAnswer,
	NodeGenerateAnswer: NodeEnd,
	NodeMetadataQuery:  NodeEnd,
	NodeRateLimited:    NodeEnd,
}

// routeByIntent is the single conditional edge of the workflow.
func routeByIntent(resolved intent.Intent) Node {
	switch resolved {
	case intent.RateLimited:
		return NodeRateLimited
	case intent.MetadataQuery:
		return NodeMetadataQuery
	case intent.SpecificParty, intent.PartyGeneralPlan:
		return NodeExtractParties
	default:
		// general_comparison and unclear skip extraction
		return NodeRetrieve
	}
}

// next resolves the node following current for a given state.
func next(current Node, st *state.AgentState) Node {
	if current == NodeClassifyIntent {
		return routeByIntent(st.Intent)
	}
	if n, ok := staticEdges[current]; ok {
		return n
	}
	return NodeEnd
}

// Run executes the workflow for one question and persists the terminal state
// as the session's checkpoint.
func (g *Graph) Run(ctx context.Context, question, sessionID, history string) (*state.AgentState, error) {
	ctx, traceID, endTrace := g.sink.StartTrace(ctx, "agent-workflow", sessionID, AnonymousUserID(sessionID))

	st := state.New(question, history)
	st.TraceID = traceID

	current := NodeClassifyIntent
	for current != NodeEnd {
		st = g.runNode(ctx, current, st)
		current = next(current, st)
	}

	g.saveCheckpoint(ctx, sessionID, st)

	endTrace(map[string]string{
		"intent":       string(st.Intent),
		"parties":      fmt.Sprintf("%v", st.Parties),
		"answer_chars": fmt.Sprintf("%d", len(st.Answer)),
		"sources":      fmt.Sprintf("%d", len(st.Sources)),
	})

	g.logger.Printf("[AGENT] Workflow completed. Steps: %v", st.Steps)
	return st, nil
}

// runNode dispatches one node under a tracing span.
func (g *Graph) runNode(ctx context.Context, node Node, st *state.AgentState) *state.AgentState {
	ctx, endSpan := g.sink.StartSpan(ctx, string(node))
	defer endSpan(map[string]string{"node": string(node)})

	switch node {
	case NodeClassifyIntent:
		return g.classifyIntentNode(ctx, st)
	case NodeRateLimited:
		return g.rateLimitedNode(st)
	case NodeExtractParties:
		return g.extractPartiesNode(ctx, st)
	case NodeMetadataQuery:
		return g.metadataQueryNode(st)
	case NodeRetrieve:
		return g.retrieveNode(ctx, st)
	case NodeGenerateAnswer:
		return g.generateAnswerNode(ctx, st)
	default:
		return st
	}
}

func (g *Graph) classifyIntentNode(ctx context.Context, st *state.AgentState) *state.AgentState {
	g.logger.Printf("[AGENT] Classifying intent...")

	resolved := g.classifier.Classify(ctx, st.Question, st.ConversationHistory)

	out := st.WithStep(fmt.Sprintf("Intent: %s", resolved))
	out.Intent = resolved
	return out
}

func (g *Graph) rateLimitedNode(st *state.AgentState) *state.AgentState {
	g.logger.Printf("[AGENT] Workflow stopped due to LLM rate limit")

	out := st.WithStep("Rate limited")
	out.Answer = constant.MsgRateLimited
	out.Sources = []store.Source{}
	out.Contexts = []store.ScoredChunk{}
	return out
}

func (g *Graph) extractPartiesNode(ctx context.Context, st *state.AgentState) *state.AgentState {
	g.logger.Printf("[AGENT] Extracting parties...")

	parties := g.extractor.Extract(ctx, st.Question)

	out := st.WithStep(fmt.Sprintf("Parties: %v", parties))
	out.Parties = parties
	return out
}

func (g *Graph) metadataQueryNode(st *state.AgentState) *state.AgentState {
	g.logger.Printf("[AGENT] Answering metadata query...")

	out := st.WithStep("Answered from metadata")
	out.Answer = g.metadata(st.Question)
	out.Sources = []store.Source{}
	out.Contexts = []store.ScoredChunk{}
	return out
}

// retrieveNode runs the retrieval strategy. A failed search degrades to an
// empty context set so generation can surface the insufficient-information
// answer instead of an error.
func (g *Graph) retrieveNode(ctx context.Context, st *state.AgentState) *state.AgentState {
	g.logger.Printf("[AGENT] Executing RAG search...")

	result, err := g.retriever.Retrieve(ctx, st.Question, st.Intent, st.Parties)
	if err != nil {
		g.logger.Printf("[AGENT] Retrieval failed: %v", err)
		result = retrieval.Result{Chunks: []store.ScoredChunk{}}
	}

	out := st.WithStep(fmt.Sprintf("Retrieved %d chunks", len(result.Chunks)))
	out.Contexts = result.Chunks
	return out
}

func (g *Graph) generateAnswerNode(ctx context.Context, st *state.AgentState) *state.AgentState {
	g.logger.Printf("[AGENT] Generating response...")

	answer, sources := g.generator.Generate(ctx, st.Question, st.Contexts, st.Intent)

	out := st.WithStep("Response generated")
	out.Answer = answer
	out.Sources = sources
	return out
}

// saveCheckpoint overwrites the session's checkpoint slot with the terminal
// state. Checkpoint failures are logged, never surfaced.
func (g *Graph) saveCheckpoint(ctx context.Context, sessionID string, st *state.AgentState) {
	if g.checkpoints == nil {
		return
	}
	key := sessionID
	if key == "" {
		key = constant.DefaultSessionKey
	}
	if err := g.checkpoints.Save(ctx, key, st); err != nil {
		g.logger.Printf("[AGENT] Failed to save checkpoint for %s: %v", key, err)
	}
}

// AnonymousUserID derives a stable anonymous analytics id from a session id.
func AnonymousUserID(sessionID string) string {
	if sessionID == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(sessionID))
	return hex.EncodeToString(sum[:])[:16]
}
