package ai

import (
	"fmt"
	"os"

	"github.com/felixgeelhaar/planwave/pkg/domain/ai"
)

func NewProvider(providerName string, modelName string) (ai.Provider, error) {
	switch providerName {
	case "ollama", "":
		if modelName == "" {
			modelName = "llama3"
		}
		return NewOllamaProvider(modelName), nil
	case "mock":
		return NewMockProvider(modelName), nil
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		return NewOpenAIProvider(modelName, apiKey), nil
	case "anthropic":
		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		return NewAnthropicProvider(modelName, apiKey), nil
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", providerName)
	}
}

// GetDefaultProvider returns a provider based on environment variables or config defaults.
func GetDefaultProvider(providerName, modelName string) (ai.Provider, error) {
	envProvider := os.Getenv("PLANWAVE_AI_PROVIDER")
	envModel := os.Getenv("PLANWAVE_AI_MODEL")

	if envProvider != "" {
		providerName = envProvider
	}
	if envModel != "" {
		modelName = envModel
	}

	return NewProvider(providerName, modelName)
}
