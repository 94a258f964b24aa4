package retrieval

import (
	"context"
	"fmt"
	"log"
	"sort"

	"elecciones-rag-be/internal/registry"
	"elecciones-rag-be/pkg/embedding"
	"elecciones-rag-be/pkg/rag/intent"
	"elecciones-rag-be/pkg/store"
)

// Searcher is the semantic search backend. Results must come back sorted by
// descending score; a non-empty partyFilter restricts to that exact sigla.
type Searcher interface {
	Search(ctx context.Context, vector []float32, partyFilter string, limit int) ([]store.ScoredChunk, error)
}

// Config tunes the per-strategy result limits.
type Config struct {
	SpecificPartyLimit int
	GeneralPlanLimit   int
	ComparisonPerParty int
	ComparisonMaxTotal int
	DefaultLimit       int
}

// DefaultConfig returns the service defaults.
func DefaultConfig() Config {
	return Config{
		SpecificPartyLimit: 5,
		GeneralPlanLimit:   15,
		ComparisonPerParty: 2,
		ComparisonMaxTotal: 40,
		DefaultLimit:       5,
	}
}

// Result carries the retrieved chunks plus the parties that produced
// nothing during a comparison (diagnostics only).
type Result struct {
	Chunks  []store.ScoredChunk
	Missing []string
}

// Router embeds the question once and dispatches to one of four retrieval
// strategies based on the resolved intent.
type Router struct {
	searcher Searcher
	embedder embedding.EmbeddingProvider
	config   Config
	logger   *log.Logger
}

func NewRouter(searcher Searcher, embedder embedding.EmbeddingProvider, config Config, logger *log.Logger) *Router {
	if config.SpecificPartyLimit <= 0 {
		config = DefaultConfig()
	}
	return &Router{
		searcher: searcher,
		embedder: embedder,
		config:   config,
		logger:   logger,
	}
}

// Retrieve selects and runs the retrieval strategy for an intent. Single
// party strategies that arrive without a party fall back to the default
// unfiltered search.
func (r *Router) Retrieve(ctx context.Context, question string, resolved intent.Intent, parties []string) (Result, error) {
	response, err := r.embedder.Generate(question, embedding.TaskRetrievalQuery)
	if err != nil {
		return Result{}, fmt.Errorf("failed to embed question: %w", err)
	}
	vector := response.Embedding.Values

	switch {
	case resolved == intent.SpecificParty && len(parties) > 0:
		return r.searchSpecificParty(ctx, vector, parties[0])
	case resolved == intent.PartyGeneralPlan && len(parties) > 0:
		return r.searchGeneralPartyPlan(ctx, vector, parties[0])
	case resolved == intent.GeneralComparison:
		return r.searchGeneralComparison(ctx, vector), nil
	default:
		return r.searchDefault(ctx, vector)
	}
}

// searchSpecificParty targets one topic within one party's plan.
func (r *Router) searchSpecificParty(ctx context.Context, vector []float32, partyAbbr string) (Result, error) {
	r.logger.Printf("[RETRIEVAL] Specific topic for party: %s", partyAbbr)

	chunks, err := r.searcher.Search(ctx, vector, partyAbbr, r.config.SpecificPartyLimit)
	if err != nil {
		return Result{}, fmt.Errorf("specific party search failed: %w", err)
	}
	return Result{Chunks: chunks}, nil
}

// searchGeneralPartyPlan pulls a wider slice of one party's plan to
// approximate full-document coverage.
func (r *Router) searchGeneralPartyPlan(ctx context.Context, vector []float32, partyAbbr string) (Result, error) {
	r.logger.Printf("[RETRIEVAL] General plan overview for party: %s", partyAbbr)

	chunks, err := r.searcher.Search(ctx, vector, partyAbbr, r.config.GeneralPlanLimit)
	if err != nil {
		return Result{}, fmt.Errorf("general plan search failed: %w", err)
	}
	return Result{Chunks: chunks}, nil
}

// searchGeneralComparison queries every registry party independently and
// assembles the result round-robin, so raw similarity scores cannot let one
// party crowd out the rest. A failing per-party search marks that party
// missing instead of aborting the comparison.
func (r *Router) searchGeneralComparison(ctx context.Context, vector []float32) Result {
	r.logger.Printf("[RETRIEVAL] General comparison, per-party targeted search")

	partyAbbrs := registry.Abbreviations()
	perParty := map[string][]store.ScoredChunk{}
	missing := []string{}

	for _, abbr := range partyAbbrs {
		results, err := r.searcher.Search(ctx, vector, abbr, r.config.ComparisonPerParty)
		if err != nil {
			r.logger.Printf("[RETRIEVAL] Search failed for %s: %v", abbr, err)
			missing = append(missing, abbr)
			continue
		}
		if len(results) == 0 {
			missing = append(missing, abbr)
			continue
		}
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Score > results[j].Score
		})
		if len(results) > r.config.ComparisonPerParty {
			results = results[:r.config.ComparisonPerParty]
		}
		perParty[abbr] = results
	}

	maxTotal := r.config.ComparisonMaxTotal
	chunks := []store.ScoredChunk{}

	// First pass: every party's best chunk
	for _, abbr := range partyAbbrs {
		if len(chunks) >= maxTotal {
			break
		}
		if results := perParty[abbr]; len(results) > 0 {
			chunks = append(chunks, results[0])
		}
	}

	// Second pass: second-best chunks while the budget allows
	if len(chunks) < maxTotal {
		for _, abbr := range partyAbbrs {
			if len(chunks) >= maxTotal {
				break
			}
			if results := perParty[abbr]; len(results) > 1 {
				chunks = append(chunks, results[1])
			}
		}
	}

	covered := map[string]bool{}
	for _, c := range chunks {
		covered[c.Party] = true
	}
	r.logger.Printf("[RETRIEVAL] Coverage: %d parties (%d chunks); missing: %v",
		len(covered), len(chunks), missing)

	return Result{Chunks: chunks, Missing: missing}
}

// searchDefault is the unfiltered fallback for unclear intent or a missing
// required party.
func (r *Router) searchDefault(ctx context.Context, vector []float32) (Result, error) {
	r.logger.Printf("[RETRIEVAL] Default search (unclear intent)")

	chunks, err := r.searcher.Search(ctx, vector, "", r.config.DefaultLimit)
	if err != nil {
		return Result{}, fmt.Errorf("default search failed: %w", err)
	}
	return Result{Chunks: chunks}, nil
}
