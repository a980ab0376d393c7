package factory

import (
	"fmt"

	"github.com/ranajunaid001/second-braind-junaid/pkg/llm"
	"github.com/ranajunaid001/second-braind-junaid/pkg/llm/ollama"
	"github.com/ranajunaid001/second-braind-junaid/pkg/llm/openai"
)

func NewLLMProvider(providerType, modelName, baseURL, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "openai":
		if modelName == "" {
			modelName = "gpt-4o-mini"
		}
		return openai.NewOpenAIProvider(apiKey, baseURL, modelName), nil
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
