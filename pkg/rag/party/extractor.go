package party

import (
	"context"
	"log"
	"strings"

	"elecciones-rag-be/internal/registry"
	"elecciones-rag-be/pkg/llm"
	"elecciones-rag-be/pkg/rag/prompt"
)

// Extractor resolves which registry parties a question references, by sigla,
// full name, candidate name or candidate surname.
type Extractor struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func NewExtractor(llmProvider llm.LLMProvider, logger *log.Logger) *Extractor {
	return &Extractor{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// Extract returns the siglas of the parties mentioned in the question,
// deduplicated and filtered against the registry. Hallucinated names are
// dropped silently. Any failure yields an empty set, never an error.
func (e *Extractor) Extract(ctx context.Context, question string) []string {
	p := prompt.BuildPartyExtraction(question)

	response, err := e.llmProvider.Generate(ctx, p, llm.WithTemperature(0.0))
	if err != nil {
		e.logger.Printf("[EXTRACTOR] Party extraction failed: %v", err)
		return []string{}
	}

	return ParseSiglas(response)
}

// ParseSiglas normalizes a model answer into a validated sigla list.
// Accepts comma-separated siglas, tolerating brackets, quotes and markdown
// leftovers. "NINGUNO" and unknown names map to the empty set.
func ParseSiglas(response string) []string {
	cleaned := strings.TrimSpace(response)
	cleaned = strings.Trim(cleaned, "`")
	cleaned = strings.NewReplacer("[", "", "]", "", "\"", "", "'", "").Replace(cleaned)
	cleaned = strings.ToUpper(strings.TrimSpace(cleaned))

	if cleaned == "" || cleaned == "NINGUNO" {
		return []string{}
	}

	parties := []string{}
	seen := map[string]bool{}
	for _, raw := range strings.Split(cleaned, ",") {
		sigla := strings.TrimSpace(raw)
		if sigla == "" || seen[sigla] {
			continue
		}
		if !registry.IsRegistered(sigla) {
			continue
		}
		seen[sigla] = true
		parties = append(parties, sigla)
	}

	return parties
}
