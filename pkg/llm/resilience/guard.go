package resilience

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"elecciones-rag-be/pkg/llm"
)

// GuardConfig composes the three protection mechanisms around a provider.
type GuardConfig struct {
	Timeout time.Duration
	Retry   RetryConfig
	Breaker BreakerConfig
	// BreakerEnabled allows bypassing the breaker entirely (e.g. tests).
	BreakerEnabled bool
}

// DefaultGuardConfig returns the service defaults.
func DefaultGuardConfig() GuardConfig {
	return GuardConfig{
		Timeout:        30 * time.Second,
		Retry:          DefaultRetryConfig(),
		Breaker:        DefaultBreakerConfig(),
		BreakerEnabled: true,
	}
}

// Guard decorates an LLMProvider with timeout, rate-limit retry and a
// circuit breaker. The retry loop runs inside a single breaker-gated call,
// so however many attempts it takes, the breaker records one outcome.
type Guard struct {
	provider llm.LLMProvider
	breaker  *CircuitBreaker
	retrier  *Retrier
	timeout  time.Duration
	enabled  bool
}

// Ensure Guard implements LLMProvider
var _ llm.LLMProvider = &Guard{}

func NewGuard(provider llm.LLMProvider, config GuardConfig, logger *log.Logger) *Guard {
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	return &Guard{
		provider: provider,
		breaker:  NewCircuitBreaker(config.Breaker, logger),
		retrier:  NewRetrier(config.Retry, logger),
		timeout:  config.Timeout,
		enabled:  config.BreakerEnabled,
	}
}

// Breaker exposes the underlying circuit breaker for health reporting.
func (g *Guard) Breaker() *CircuitBreaker {
	return g.breaker
}

func (g *Guard) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	var result string

	call := func() error {
		return g.retrier.Do(ctx, func(ctx context.Context) error {
			res, err := g.invoke(ctx, prompt, opts...)
			if err != nil {
				return err
			}
			result = res
			return nil
		})
	}

	var err error
	if g.enabled {
		err = g.breaker.Call(call)
	} else {
		err = call()
	}
	return result, err
}

// Stream opens a breaker-gated streaming call. The connection phase runs
// under the guard timeout and is counted by the breaker; once the stream is
// open the timer is disarmed, so an established stream may outlive the
// timeout. Fragments are relayed untouched and never retried mid-stream
// (re-sending tokens would duplicate output).
func (g *Guard) Stream(ctx context.Context, prompt string, opts ...llm.Option) (<-chan llm.StreamChunk, error) {
	// A deadline on streamCtx would also cut an established stream, because
	// providers read the response body under the same context. Connect is
	// bounded with a timer that cancels only while the open is in flight.
	streamCtx, cancel := context.WithCancel(ctx)
	connectTimer := time.AfterFunc(g.timeout, cancel)

	var stream <-chan llm.StreamChunk
	connect := func() error {
		s, err := g.provider.Stream(streamCtx, prompt, opts...)
		if err != nil {
			if streamCtx.Err() != nil && ctx.Err() == nil {
				return fmt.Errorf("%w after %s", ErrTimeout, g.timeout)
			}
			return err
		}
		stream = s
		return nil
	}

	var err error
	if g.enabled {
		err = g.breaker.Call(connect)
	} else {
		err = connect()
	}
	connectTimer.Stop()
	if err != nil {
		cancel()
		return nil, err
	}

	// The relay owns streamCtx from here and releases it when the provider
	// closes its channel or the caller goes away.
	out := make(chan llm.StreamChunk)
	go func() {
		defer close(out)
		defer cancel()
		for chunk := range stream {
			select {
			case out <- chunk:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// invoke runs one provider call under the per-invocation timeout.
func (g *Guard) invoke(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	result, err := g.provider.Generate(callCtx, prompt, opts...)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || callCtx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("%w after %s", ErrTimeout, g.timeout)
		}
		return "", err
	}
	return result, nil
}
