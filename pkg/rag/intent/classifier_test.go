package intent

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"

	"elecciones-rag-be/pkg/llm"
)

type stubProvider struct {
	response string
	err      error
}

func (s *stubProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return s.response, s.err
}

func (s *stubProvider) Stream(ctx context.Context, prompt string, opts ...llm.Option) (<-chan llm.StreamChunk, error) {
	return nil, errors.New("not implemented")
}

func newTestClassifier(response string, err error) *Classifier {
	return NewClassifier(&stubProvider{response: response, err: err}, log.New(io.Discard, "", 0))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		response string
		err      error
		expected Intent
	}{
		{"specific party", "specific_party", nil, SpecificParty},
		{"general plan", "party_general_plan", nil, PartyGeneralPlan},
		{"comparison", "general_comparison", nil, GeneralComparison},
		{"metadata", "metadata_query", nil, MetadataQuery},
		{"unclear", "unclear", nil, Unclear},
		{"whitespace tolerated", "  specific_party\n", nil, SpecificParty},
		{"uppercase tolerated", "SPECIFIC_PARTY", nil, SpecificParty},
		{"invalid tag degrades", "something_else", nil, Unclear},
		{"model never picks rate_limited", "rate_limited", nil, Unclear},
		{"generic failure degrades", "", errors.New("boom"), Unclear},
		{
			"rate limit short-circuits",
			"",
			&llm.ProviderError{StatusCode: 429, Status: "RESOURCE_EXHAUSTED"},
			RateLimited,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClassifier(tt.response, tt.err)
			assert.Equal(t, tt.expected, c.Classify(context.Background(), "¿Qué propone el PLN?", ""))
		})
	}
}
