package gemini

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"elecciones-rag-be/pkg/llm"
)

type GeminiProvider struct {
	ApiKey    string
	ModelName string
	Client    *http.Client
}

// Ensure GeminiProvider implements LLMProvider
var _ llm.LLMProvider = &GeminiProvider{}

func NewGeminiProvider(apiKey, modelName string) *GeminiProvider {
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}
	return &GeminiProvider{
		ApiKey:    apiKey,
		ModelName: modelName,
		Client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// --- Request/Response structs (Internal to this package) ---

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig geminiGenConfig `json:"generationConfig"`
	SafetySettings   []geminiSafety  `json:"safetySettings,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiSafety struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

type geminiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
		Details []struct {
			Type       string `json:"@type"`
			RetryDelay string `json:"retryDelay"`
		} `json:"details"`
	} `json:"error"`
}

// Harm categories blocked at medium-and-above, matching the service defaults.
var defaultSafetySettings = []geminiSafety{
	{Category: "HARM_CATEGORY_HATE_SPEECH", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_DANGEROUS_CONTENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_HARASSMENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_SEXUALLY_EXPLICIT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
}

// --- Interface Implementation ---

func (p *GeminiProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	model := p.resolveModel(opts...)
	endpoint := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent",
		model,
	)

	body, err := p.doRequest(ctx, endpoint, p.buildPayload(prompt, opts...))
	if err != nil {
		return "", err
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}

	var res geminiResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		return "", fmt.Errorf("failed to decode gemini response: %w", err)
	}

	return joinParts(res), nil
}

// Stream calls streamGenerateContent with SSE framing and relays the text
// parts of each event in arrival order.
func (p *GeminiProvider) Stream(ctx context.Context, prompt string, opts ...llm.Option) (<-chan llm.StreamChunk, error) {
	model := p.resolveModel(opts...)
	endpoint := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1beta/models/%s:streamGenerateContent?alt=sse",
		model,
	)

	body, err := p.doRequest(ctx, endpoint, p.buildPayload(prompt, opts...))
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
			line := scanner.Text()
			if !strings.HasPrefix(line, "data: ") {
				continue
			}
			var res geminiResponse
			if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &res); err != nil {
				continue // keep-alive or non-JSON event
			}
			if text := joinParts(res); text != "" {
				select {
				case out <- llm.StreamChunk{Content: text}:
				case <-ctx.Done():
					return
				}
			}
		}
		if err := scanner.Err(); err != nil {
			out <- llm.StreamChunk{Err: err}
		}
	}()

	return out, nil
}

func (p *GeminiProvider) resolveModel(opts ...llm.Option) string {
	options := &llm.Options{}
	for _, opt := range opts {
		opt(options)
	}
	if options.Model != "" {
		return options.Model
	}
	return p.ModelName
}

func (p *GeminiProvider) buildPayload(prompt string, opts ...llm.Option) *geminiRequest {
	options := &llm.Options{
		Temperature: 0.2, // Default: low temperature for grounded answers
		MaxTokens:   2048,
	}
	for _, opt := range opts {
		opt(options)
	}

	return &geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: geminiGenConfig{
			Temperature:     options.Temperature,
			MaxOutputTokens: options.MaxTokens,
		},
		SafetySettings: defaultSafetySettings,
	}
}

func (p *GeminiProvider) doRequest(ctx context.Context, endpoint string, payload *geminiRequest) (io.ReadCloser, error) {
	reqJson, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(reqJson))
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-goog-api-key", p.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := p.Client.Do(req)
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(res.Body)
		res.Body.Close()
		return nil, parseProviderError(res.StatusCode, raw)
	}

	return res.Body, nil
}

// parseProviderError maps a Gemini error body to the uniform ProviderError,
// surfacing the RetryInfo delay when present (e.g. retryDelay: "52s").
func parseProviderError(statusCode int, body []byte) *llm.ProviderError {
	pe := &llm.ProviderError{
		StatusCode: statusCode,
		Message:    string(body),
	}

	var ge geminiError
	if err := json.Unmarshal(body, &ge); err != nil {
		return pe
	}

	if ge.Error.Message != "" {
		pe.Message = ge.Error.Message
	}
	pe.Status = ge.Error.Status

	for _, d := range ge.Error.Details {
		if !strings.HasSuffix(d.Type, "RetryInfo") || d.RetryDelay == "" {
			continue
		}
		if secs, err := strconv.ParseFloat(strings.TrimSuffix(d.RetryDelay, "s"), 64); err == nil {
			pe.RetryAfterSec = secs
		}
	}

	return pe
}

func joinParts(res geminiResponse) string {
	if len(res.Candidates) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, part := range res.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String()
}
