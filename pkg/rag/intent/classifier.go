package intent

import (
	"context"
	"log"
	"strings"

	"elecciones-rag-be/pkg/llm"
	"elecciones-rag-be/pkg/llm/resilience"
	"elecciones-rag-be/pkg/rag/prompt"
)

// Intent is the resolved purpose of a question. It drives which retrieval
// strategy runs, or whether retrieval is skipped entirely.
type Intent string

const (
	SpecificParty     Intent = "specific_party"
	PartyGeneralPlan  Intent = "party_general_plan"
	GeneralComparison Intent = "general_comparison"
	MetadataQuery     Intent = "metadata_query"
	Unclear           Intent = "unclear"
	RateLimited       Intent = "rate_limited"
)

// valid holds the tags the model is allowed to answer with. RateLimited is
// never produced by the model; it is assigned when the call itself is
// rejected upstream.
var valid = map[Intent]bool{
	SpecificParty:     true,
	PartyGeneralPlan:  true,
	GeneralComparison: true,
	MetadataQuery:     true,
	Unclear:           true,
}

// Classifier resolves question intent with a single constrained LLM call.
type Classifier struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func NewClassifier(llmProvider llm.LLMProvider, logger *log.Logger) *Classifier {
	return &Classifier{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// Classify resolves the intent of a question, optionally disambiguated by a
// digest of the prior conversation. Any malformed model output degrades to
// Unclear; an exhausted upstream quota degrades to RateLimited. Retrying is
// the provider decorator's job, never done here.
func (c *Classifier) Classify(ctx context.Context, question, history string) Intent {
	p := prompt.BuildIntentClassification(question, history)

	response, err := c.llmProvider.Generate(ctx, p, llm.WithTemperature(0.0))
	if err != nil {
		if resilience.IsResourceExhausted(err) {
			c.logger.Printf("[CLASSIFIER] Upstream rate limited, short-circuiting: %v", err)
			return RateLimited
		}
		c.logger.Printf("[CLASSIFIER] Classification failed, defaulting to unclear: %v", err)
		return Unclear
	}

	resolved := Intent(strings.ToLower(strings.TrimSpace(response)))
	if !valid[resolved] {
		c.logger.Printf("[CLASSIFIER] Invalid intent %q, defaulting to unclear", resolved)
		return Unclear
	}

	return resolved
}
