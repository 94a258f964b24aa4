package llm

import (
	"context"
	"fmt"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Generate sends a single prompt to the model and returns the full response
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)

	// Stream sends a single prompt and emits response fragments in arrival
	// order. The channel is closed when the stream ends; a mid-stream failure
	// is delivered as the final StreamChunk with Err set.
	Stream(ctx context.Context, prompt string, options ...Option) (<-chan StreamChunk, error)
}

// StreamChunk is one fragment of a streamed response.
type StreamChunk struct {
	Content string
	Err     error
}

// ProviderError is the uniform error shape for upstream model failures.
// StatusCode carries the HTTP status when known; Status the provider status
// string (e.g. "RESOURCE_EXHAUSTED"); RetryAfterSec a provider-suggested
// wait when the response embedded one.
type ProviderError struct {
	StatusCode    int
	Status        string
	Message       string
	RetryAfterSec float64
}

func (e *ProviderError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("provider error %d (%s): %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("provider error %d: %s", e.StatusCode, e.Message)
}
