package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"elecciones-rag-be/pkg/llm"
)

type OllamaProvider struct {
	BaseURL   string
	ModelName string
	Client    *http.Client
}

// Ensure OllamaProvider implements LLMProvider
var _ llm.LLMProvider = &OllamaProvider{}

func NewOllamaProvider(baseURL, modelName string) *OllamaProvider {
	return &OllamaProvider{
		BaseURL:   baseURL,
		ModelName: modelName,
		Client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// --- Request/Response structs (Internal to this package) ---

type ollamaGenerateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options *ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaGenerateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// --- Interface Implementation ---

func (o *OllamaProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	body, err := o.doRequest(ctx, o.buildPayload(prompt, false, opts...))
	if err != nil {
		return "", err
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}

	var res ollamaGenerateResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		return "", fmt.Errorf("failed to decode ollama response: %w", err)
	}

	return res.Response, nil
}

// Stream issues a streaming generate call. Ollama emits newline-delimited
// JSON objects, one fragment each, until a final object with done=true.
func (o *OllamaProvider) Stream(ctx context.Context, prompt string, opts ...llm.Option) (<-chan llm.StreamChunk, error) {
	body, err := o.doRequest(ctx, o.buildPayload(prompt, true, opts...))
	if err != nil {
		return nil, err
	}

	out := make(chan llm.StreamChunk)
	go func() {
		defer close(out)
		defer body.Close()

		scanner := bufio.NewScanner(body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			var res ollamaGenerateResponse
			if err := json.Unmarshal(scanner.Bytes(), &res); err != nil {
				out <- llm.StreamChunk{Err: fmt.Errorf("failed to decode ollama stream line: %w", err)}
				return
			}
			if res.Response != "" {
				select {
				case out <- llm.StreamChunk{Content: res.Response}:
				case <-ctx.Done():
					return
				}
			}
			if res.Done {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			out <- llm.StreamChunk{Err: err}
		}
	}()

	return out, nil
}

func (o *OllamaProvider) buildPayload(prompt string, stream bool, opts ...llm.Option) *ollamaGenerateRequest {
	options := &llm.Options{
		Temperature: 0.7, // Default
	}
	for _, opt := range opts {
		opt(options)
	}

	model := o.ModelName
	if options.Model != "" {
		model = options.Model
	}

	payload := &ollamaGenerateRequest{
		Model:  model,
		Prompt: prompt,
		Stream: stream,
		Options: &ollamaOptions{
			Temperature: options.Temperature,
		},
	}
	if options.MaxTokens > 0 {
		payload.Options.NumPredict = options.MaxTokens
	}

	return payload
}

func (o *OllamaProvider) doRequest(ctx context.Context, payload *ollamaGenerateRequest) (io.ReadCloser, error) {
	reqJson, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", o.BaseURL+"/api/generate", bytes.NewBuffer(reqJson))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := o.Client.Do(req)
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(res.Body)
		res.Body.Close()
		return nil, &llm.ProviderError{
			StatusCode: res.StatusCode,
			Message:    string(raw),
		}
	}

	return res.Body, nil
}
