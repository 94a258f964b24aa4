package retrieval

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"elecciones-rag-be/internal/registry"
	"elecciones-rag-be/pkg/embedding"
	"elecciones-rag-be/pkg/rag/intent"
	"elecciones-rag-be/pkg/store"
)

type fakeEmbedder struct{}

func (fakeEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.1, 0.2, 0.3}},
	}, nil
}

type fakeSearcher struct {
	// perParty maps sigla (or "" for unfiltered) to canned results
	perParty map[string][]store.ScoredChunk
	failFor  map[string]bool
	calls    []searchCall
}

type searchCall struct {
	filter string
	limit  int
}

func (f *fakeSearcher) Search(ctx context.Context, vector []float32, partyFilter string, limit int) ([]store.ScoredChunk, error) {
	f.calls = append(f.calls, searchCall{filter: partyFilter, limit: limit})
	if f.failFor[partyFilter] {
		return nil, errors.New("search backend down")
	}
	results := f.perParty[partyFilter]
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func chunksFor(party string, n int) []store.ScoredChunk {
	out := make([]store.ScoredChunk, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, store.ScoredChunk{
			Text:  "propuesta",
			Party: party,
			Score: 1.0 - float64(i)*0.1,
		})
	}
	return out
}

func newTestRouter(searcher Searcher) *Router {
	return NewRouter(searcher, fakeEmbedder{}, DefaultConfig(), log.New(io.Discard, "", 0))
}

func TestRetrieve_SpecificPartyUsesFocusedLimit(t *testing.T) {
	searcher := &fakeSearcher{perParty: map[string][]store.ScoredChunk{"PLN": chunksFor("PLN", 5)}}
	r := newTestRouter(searcher)

	result, err := r.Retrieve(context.Background(), "¿Qué propone el PLN sobre educación?", intent.SpecificParty, []string{"PLN"})

	require.NoError(t, err)
	assert.Len(t, result.Chunks, 5)
	require.Len(t, searcher.calls, 1)
	assert.Equal(t, searchCall{filter: "PLN", limit: 5}, searcher.calls[0])
}

func TestRetrieve_GeneralPlanUsesWideLimit(t *testing.T) {
	searcher := &fakeSearcher{perParty: map[string][]store.ScoredChunk{"PUSC": chunksFor("PUSC", 15)}}
	r := newTestRouter(searcher)

	result, err := r.Retrieve(context.Background(), "¿Cuál es el plan del PUSC?", intent.PartyGeneralPlan, []string{"PUSC"})

	require.NoError(t, err)
	assert.Len(t, result.Chunks, 15)
	require.Len(t, searcher.calls, 1)
	assert.Equal(t, searchCall{filter: "PUSC", limit: 15}, searcher.calls[0])
}

func TestRetrieve_MissingRequiredPartyFallsBack(t *testing.T) {
	searcher := &fakeSearcher{perParty: map[string][]store.ScoredChunk{"": chunksFor("FA", 3)}}
	r := newTestRouter(searcher)

	result, err := r.Retrieve(context.Background(), "¿Qué propone sobre educación?", intent.SpecificParty, nil)

	require.NoError(t, err)
	assert.Len(t, result.Chunks, 3)
	require.Len(t, searcher.calls, 1)
	assert.Equal(t, searchCall{filter: "", limit: 5}, searcher.calls[0])
}

func TestRetrieve_ComparisonQueriesEveryParty(t *testing.T) {
	perParty := map[string][]store.ScoredChunk{}
	for _, abbr := range registry.Abbreviations() {
		perParty[abbr] = chunksFor(abbr, 2)
	}
	searcher := &fakeSearcher{perParty: perParty}
	r := newTestRouter(searcher)

	result, err := r.Retrieve(context.Background(), "Compara las propuestas de seguridad", intent.GeneralComparison, nil)

	require.NoError(t, err)
	assert.Len(t, searcher.calls, registry.Count())
	assert.Len(t, result.Chunks, registry.Count()*2)
	assert.Empty(t, result.Missing)
}

func TestRetrieve_ComparisonRoundRobinFairness(t *testing.T) {
	// Give one party overwhelming scores; fairness must still interleave.
	perParty := map[string][]store.ScoredChunk{}
	for _, abbr := range registry.Abbreviations() {
		perParty[abbr] = chunksFor(abbr, 2)
	}
	perParty["PLN"] = []store.ScoredChunk{
		{Text: "a", Party: "PLN", Score: 99},
		{Text: "b", Party: "PLN", Score: 98},
	}
	searcher := &fakeSearcher{perParty: perParty}
	r := newTestRouter(searcher)

	result, err := r.Retrieve(context.Background(), "Compara", intent.GeneralComparison, nil)
	require.NoError(t, err)

	// No party contributes its second chunk before every party with results
	// contributed its first.
	seen := map[string]int{}
	firstPassDone := false
	for _, c := range result.Chunks {
		seen[c.Party]++
		if seen[c.Party] == 2 {
			firstPassDone = true
		}
		if !firstPassDone {
			assert.LessOrEqual(t, seen[c.Party], 1)
		}
	}
	for _, abbr := range registry.Abbreviations() {
		assert.LessOrEqual(t, seen[abbr], 2)
	}
}

func TestRetrieve_ComparisonRespectsGlobalCap(t *testing.T) {
	perParty := map[string][]store.ScoredChunk{}
	for _, abbr := range registry.Abbreviations() {
		perParty[abbr] = chunksFor(abbr, 2)
	}
	searcher := &fakeSearcher{perParty: perParty}
	config := DefaultConfig()
	config.ComparisonMaxTotal = 7
	r := NewRouter(searcher, fakeEmbedder{}, config, log.New(io.Discard, "", 0))

	result, err := r.Retrieve(context.Background(), "Compara", intent.GeneralComparison, nil)

	require.NoError(t, err)
	assert.Len(t, result.Chunks, 7)
}

func TestRetrieve_ComparisonMarksFailuresMissing(t *testing.T) {
	perParty := map[string][]store.ScoredChunk{}
	for _, abbr := range registry.Abbreviations() {
		perParty[abbr] = chunksFor(abbr, 1)
	}
	delete(perParty, "PEN") // no results
	searcher := &fakeSearcher{
		perParty: perParty,
		failFor:  map[string]bool{"FA": true}, // backend error
	}
	r := newTestRouter(searcher)

	result, err := r.Retrieve(context.Background(), "Compara", intent.GeneralComparison, nil)

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"FA", "PEN"}, result.Missing)
	for _, c := range result.Chunks {
		assert.NotEqual(t, "FA", c.Party)
		assert.NotEqual(t, "PEN", c.Party)
	}
}

func TestRetrieve_UnclearUsesDefaultSearch(t *testing.T) {
	searcher := &fakeSearcher{perParty: map[string][]store.ScoredChunk{"": chunksFor("PLN", 5)}}
	r := newTestRouter(searcher)

	result, err := r.Retrieve(context.Background(), "Hola", intent.Unclear, nil)

	require.NoError(t, err)
	assert.Len(t, result.Chunks, 5)
	assert.Equal(t, searchCall{filter: "", limit: 5}, searcher.calls[0])
}
