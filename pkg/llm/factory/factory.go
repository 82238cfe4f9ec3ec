package factory

import (
	"fmt"

	"ai-studyprep-be/pkg/llm"
	"ai-studyprep-be/pkg/llm/gemini"
	"ai-studyprep-be/pkg/llm/ollama"
)

// NewLLMProvider builds the configured text-generation backend.
func NewLLMProvider(providerType, modelName, baseURL, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "gemini":
		if apiKey == "" {
			return nil, fmt.Errorf("gemini provider requires an API key")
		}
		return gemini.NewGeminiProvider(apiKey, modelName), nil
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}

// NewVisionProvider builds the multimodal backend used by AI-vision
// extraction. Only Gemini supports inline media today.
func NewVisionProvider(modelName, apiKey string) (llm.VisionProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("vision provider requires an API key")
	}
	return gemini.NewGeminiProvider(apiKey, modelName), nil
}
