package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"elecciones-rag-be/pkg/llm"
)

type scriptedProvider struct {
	responses []string
	errs      []error
	calls     int
	lastCtx   context.Context
}

func (p *scriptedProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	p.lastCtx = ctx
	i := p.calls
	p.calls++
	if i < len(p.errs) && p.errs[i] != nil {
		return "", p.errs[i]
	}
	if i < len(p.responses) {
		return p.responses[i], nil
	}
	return "ok", nil
}

func (p *scriptedProvider) Stream(ctx context.Context, prompt string, opts ...llm.Option) (<-chan llm.StreamChunk, error) {
	p.calls++
	if len(p.errs) > 0 && p.errs[0] != nil {
		return nil, p.errs[0]
	}
	ch := make(chan llm.StreamChunk, 1)
	ch <- llm.StreamChunk{Content: "token"}
	close(ch)
	return ch, nil
}

func newTestGuard(provider llm.LLMProvider, config GuardConfig) *Guard {
	g := NewGuard(provider, config, testLogger())
	g.retrier.sleep = func(context.Context, time.Duration) error { return nil }
	return g
}

func TestGuard_PassesThroughSuccess(t *testing.T) {
	provider := &scriptedProvider{responses: []string{"respuesta"}}
	g := newTestGuard(provider, DefaultGuardConfig())

	result, err := g.Generate(context.Background(), "hola")

	require.NoError(t, err)
	assert.Equal(t, "respuesta", result)
	assert.Equal(t, 1, provider.calls)
}

func TestGuard_AppliesPerCallDeadline(t *testing.T) {
	provider := &scriptedProvider{}
	g := newTestGuard(provider, GuardConfig{
		Timeout:        5 * time.Second,
		Retry:          DefaultRetryConfig(),
		Breaker:        DefaultBreakerConfig(),
		BreakerEnabled: true,
	})

	_, err := g.Generate(context.Background(), "hola")
	require.NoError(t, err)

	deadline, ok := provider.lastCtx.Deadline()
	require.True(t, ok, "inner call must carry a deadline")
	assert.WithinDuration(t, time.Now().Add(5*time.Second), deadline, time.Second)
}

func TestGuard_MapsDeadlineToTimeout(t *testing.T) {
	provider := &scriptedProvider{errs: []error{context.DeadlineExceeded}}
	g := newTestGuard(provider, DefaultGuardConfig())

	_, err := g.Generate(context.Background(), "hola")

	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, 1, provider.calls, "timeouts are not retried")
}

func TestGuard_RetriesCountAsOneBreakerOutcome(t *testing.T) {
	rateLimited := &llm.ProviderError{StatusCode: 429, Status: "RESOURCE_EXHAUSTED"}
	provider := &scriptedProvider{errs: []error{rateLimited, rateLimited, rateLimited}}
	config := DefaultGuardConfig()
	config.Breaker = BreakerConfig{FailureThreshold: 2, RecoveryTimeout: 60 * time.Second}
	g := newTestGuard(provider, config)

	_, err := g.Generate(context.Background(), "hola")
	assert.Error(t, err)
	assert.Equal(t, 3, provider.calls, "all retry attempts happen inside one gated call")
	assert.Equal(t, StateClosed, g.Breaker().State(), "three attempts count as one failure")
}

func TestGuard_OpenBreakerShortCircuits(t *testing.T) {
	boom := errors.New("upstream down")
	provider := &scriptedProvider{errs: []error{boom, boom, boom}}
	config := DefaultGuardConfig()
	config.Breaker = BreakerConfig{FailureThreshold: 2, RecoveryTimeout: 60 * time.Second}
	g := newTestGuard(provider, config)

	_, _ = g.Generate(context.Background(), "hola")
	_, _ = g.Generate(context.Background(), "hola")
	require.Equal(t, StateOpen, g.Breaker().State())

	callsBefore := provider.calls
	_, err := g.Generate(context.Background(), "hola")

	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, callsBefore, provider.calls, "open breaker must not reach the provider")
}

func TestGuard_BreakerDisabledBypassesGate(t *testing.T) {
	boom := errors.New("upstream down")
	provider := &scriptedProvider{errs: []error{boom, boom, boom, boom}}
	config := DefaultGuardConfig()
	config.Breaker = BreakerConfig{FailureThreshold: 1, RecoveryTimeout: 60 * time.Second}
	config.BreakerEnabled = false
	g := newTestGuard(provider, config)

	for i := 0; i < 4; i++ {
		_, err := g.Generate(context.Background(), "hola")
		assert.ErrorIs(t, err, boom)
	}
	assert.Equal(t, 4, provider.calls)
}

func TestGuard_StreamGatedByBreaker(t *testing.T) {
	boom := errors.New("upstream down")
	provider := &scriptedProvider{errs: []error{boom}}
	config := DefaultGuardConfig()
	config.Breaker = BreakerConfig{FailureThreshold: 1, RecoveryTimeout: 60 * time.Second}
	g := newTestGuard(provider, config)

	_, err := g.Stream(context.Background(), "hola")
	require.Error(t, err)
	require.Equal(t, StateOpen, g.Breaker().State())

	_, err = g.Stream(context.Background(), "hola")
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

// hangingProvider never answers a stream open until its context dies.
type hangingProvider struct{}

func (p *hangingProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return "", nil
}

func (p *hangingProvider) Stream(ctx context.Context, prompt string, opts ...llm.Option) (<-chan llm.StreamChunk, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

// slowChunkProvider opens immediately but delays its first chunk.
type slowChunkProvider struct {
	delay time.Duration
}

func (p *slowChunkProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return "", nil
}

func (p *slowChunkProvider) Stream(ctx context.Context, prompt string, opts ...llm.Option) (<-chan llm.StreamChunk, error) {
	ch := make(chan llm.StreamChunk)
	go func() {
		defer close(ch)
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return
		}
		select {
		case ch <- llm.StreamChunk{Content: "tarde"}:
		case <-ctx.Done():
		}
	}()
	return ch, nil
}

func TestGuard_StreamConnectBoundedByTimeout(t *testing.T) {
	config := DefaultGuardConfig()
	config.Timeout = 20 * time.Millisecond
	g := newTestGuard(&hangingProvider{}, config)

	stream, err := g.Stream(context.Background(), "hola")

	assert.Nil(t, stream)
	assert.ErrorIs(t, err, ErrTimeout, "hung open must be cut at the guard timeout")
}

func TestGuard_EstablishedStreamOutlivesConnectTimeout(t *testing.T) {
	config := DefaultGuardConfig()
	config.Timeout = 10 * time.Millisecond
	g := newTestGuard(&slowChunkProvider{delay: 50 * time.Millisecond}, config)

	stream, err := g.Stream(context.Background(), "hola")
	require.NoError(t, err)

	chunk, ok := <-stream
	require.True(t, ok, "an open stream must not be cut by the connect timer")
	assert.Equal(t, "tarde", chunk.Content)
}

func TestGuard_StreamRelaysChunks(t *testing.T) {
	provider := &scriptedProvider{}
	g := newTestGuard(provider, DefaultGuardConfig())

	stream, err := g.Stream(context.Background(), "hola")
	require.NoError(t, err)

	chunk, ok := <-stream
	require.True(t, ok)
	assert.Equal(t, "token", chunk.Content)
}
