package answer

import (
	"context"
	"errors"
	"fmt"
	"log"

	"elecciones-rag-be/internal/constant"
	"elecciones-rag-be/pkg/llm"
	"elecciones-rag-be/pkg/llm/resilience"
	"elecciones-rag-be/pkg/rag/intent"
	"elecciones-rag-be/pkg/rag/prompt"
	"elecciones-rag-be/pkg/store"
)

// Generator produces the grounded final answer from retrieved chunks. It
// invokes the model exactly once per question; retry and breaker behavior
// live in the provider decorator it is handed.
type Generator struct {
	llmProvider    llm.LLMProvider
	truncateLength int
	logger         *log.Logger
}

func NewGenerator(llmProvider llm.LLMProvider, truncateLength int, logger *log.Logger) *Generator {
	if truncateLength <= 0 {
		truncateLength = prompt.DefaultContextTruncateLength
	}
	return &Generator{
		llmProvider:    llmProvider,
		truncateLength: truncateLength,
		logger:         logger,
	}
}

// Generate builds the grounded prompt and returns the answer plus one source
// entry per chunk. Failures never escape: they map to a Spanish degraded
// message with empty sources.
func (g *Generator) Generate(ctx context.Context, question string, chunks []store.ScoredChunk, resolved intent.Intent) (string, []store.Source) {
	p := prompt.BuildRAGResponse(question, chunks, string(resolved), g.truncateLength)

	g.logger.Printf("[GENERATOR] Invoking LLM with %d contexts (intent: %s)", len(chunks), resolved)

	text, err := g.llmProvider.Generate(ctx, p)
	if err != nil {
		g.logger.Printf("[GENERATOR] Generation failed: %v", err)
		return degradedMessage(err), []store.Source{}
	}

	g.logger.Printf("[GENERATOR] Generated answer length: %d", len(text))

	return text, Sources(chunks)
}

// Stream opens a token stream for the same grounded prompt. The connection
// error surface maps to the same degraded messages as Generate; the caller
// relays fragments in emission order.
func (g *Generator) Stream(ctx context.Context, question string, chunks []store.ScoredChunk, resolved intent.Intent) (<-chan llm.StreamChunk, string, error) {
	p := prompt.BuildRAGResponse(question, chunks, string(resolved), g.truncateLength)

	stream, err := g.llmProvider.Stream(ctx, p)
	if err != nil {
		g.logger.Printf("[GENERATOR] Stream open failed: %v", err)
		return nil, degradedMessage(err), err
	}
	return stream, "", nil
}

// Sources derives the display view of retrieved chunks, with each preview
// truncated for transport.
func Sources(chunks []store.ScoredChunk) []store.Source {
	sources := make([]store.Source, 0, len(chunks))
	for _, c := range chunks {
		sources = append(sources, store.NewSource(c))
	}
	return sources
}

// degradedMessage maps the composed failure surface of the resilience layer
// onto a distinct user-facing Spanish message.
func degradedMessage(err error) string {
	switch {
	case errors.Is(err, resilience.ErrCircuitOpen):
		return constant.MsgCircuitOpen
	case resilience.IsTimeout(err):
		return constant.MsgTimeout
	case resilience.IsResourceExhausted(err):
		return constant.MsgRateLimited
	default:
		return fmt.Sprintf("%s: %v", constant.MsgGenerationFailure, err)
	}
}
