package answer

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"

	"elecciones-rag-be/internal/constant"
	"elecciones-rag-be/pkg/llm"
	"elecciones-rag-be/pkg/llm/resilience"
	"elecciones-rag-be/pkg/rag/intent"
	"elecciones-rag-be/pkg/store"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

type fakeProvider struct {
	response string
	err      error
	chunks   []llm.StreamChunk
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.response, f.err
}

func (f *fakeProvider) Stream(ctx context.Context, prompt string, options ...llm.Option) (<-chan llm.StreamChunk, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(chan llm.StreamChunk, len(f.chunks))
	for _, c := range f.chunks {
		out <- c
	}
	close(out)
	return out, nil
}

func sampleChunks() []store.ScoredChunk {
	return []store.ScoredChunk{
		{Text: "Propuesta de educación dual.", Party: "PLN", Score: 0.91},
		{Text: "Becas para estudiantes.", Party: "PUSC", Score: 0.84},
	}
}

func TestGenerate_ReturnsAnswerWithOneSourcePerChunk(t *testing.T) {
	g := NewGenerator(&fakeProvider{response: "El PLN propone educación dual."}, 500, testLogger())

	answer, sources := g.Generate(context.Background(), "¿Qué propone el PLN?", sampleChunks(), intent.SpecificParty)

	assert.Equal(t, "El PLN propone educación dual.", answer)
	assert.Len(t, sources, 2)
	assert.Equal(t, "PLN", sources[0].Party)
	assert.Equal(t, "PUSC", sources[1].Party)
}

func TestGenerate_DegradedMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "circuit open",
			err:  resilience.ErrCircuitOpen,
			want: constant.MsgCircuitOpen,
		},
		{
			name: "timeout",
			err:  resilience.ErrTimeout,
			want: constant.MsgTimeout,
		},
		{
			name: "rate limited",
			err:  &llm.ProviderError{StatusCode: 429, Status: "RESOURCE_EXHAUSTED", Message: "quota"},
			want: constant.MsgRateLimited,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGenerator(&fakeProvider{err: tt.err}, 500, testLogger())

			answer, sources := g.Generate(context.Background(), "pregunta", sampleChunks(), intent.SpecificParty)

			assert.Equal(t, tt.want, answer)
			assert.Empty(t, sources)
		})
	}
}

func TestGenerate_UnknownErrorKeepsPrefix(t *testing.T) {
	g := NewGenerator(&fakeProvider{err: errors.New("boom")}, 500, testLogger())

	answer, sources := g.Generate(context.Background(), "pregunta", nil, intent.Unclear)

	assert.Contains(t, answer, constant.MsgGenerationFailure)
	assert.Contains(t, answer, "boom")
	assert.Empty(t, sources)
}

func TestStream_RelaysChunksInOrder(t *testing.T) {
	provider := &fakeProvider{chunks: []llm.StreamChunk{
		{Content: "El "},
		{Content: "PLN "},
		{Content: "propone..."},
	}}
	g := NewGenerator(provider, 500, testLogger())

	stream, degraded, err := g.Stream(context.Background(), "pregunta", sampleChunks(), intent.SpecificParty)

	assert.NoError(t, err)
	assert.Empty(t, degraded)

	var got string
	for c := range stream {
		got += c.Content
	}
	assert.Equal(t, "El PLN propone...", got)
}

func TestStream_OpenFailureReturnsDegradedMessage(t *testing.T) {
	g := NewGenerator(&fakeProvider{err: resilience.ErrCircuitOpen}, 500, testLogger())

	stream, degraded, err := g.Stream(context.Background(), "pregunta", nil, intent.GeneralComparison)

	assert.Error(t, err)
	assert.Nil(t, stream)
	assert.Equal(t, constant.MsgCircuitOpen, degraded)
}
