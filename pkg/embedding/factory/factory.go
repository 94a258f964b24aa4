package factory

import (
	"fmt"

	"elecciones-rag-be/pkg/embedding"
)

func NewEmbeddingProvider(providerType, modelName, baseURL, geminiApiKey string) (embedding.EmbeddingProvider, error) {
	switch providerType {
	case "ollama":
		return embedding.NewOllamaProvider(baseURL, modelName), nil
	case "gemini":
		if geminiApiKey == "" {
			return nil, fmt.Errorf("gemini embedding provider requires an API key")
		}
		return embedding.NewGeminiProvider(geminiApiKey, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", providerType)
	}
}
