package factory

import (
	"fmt"
	"time"

	"catalog-chat-be/pkg/llm"
	"catalog-chat-be/pkg/llm/gemini"
	"catalog-chat-be/pkg/llm/openai"
)

// ProviderConfig holds everything needed to construct one backend.
type ProviderConfig struct {
	Type    string // "openai" or "gemini"
	BaseURL string
	ApiKey  string
	Model   string
	Timeout time.Duration
}

func NewProvider(cfg ProviderConfig) (llm.Provider, error) {
	switch cfg.Type {
	case "openai":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "https://api.openai.com"
		}
		return openai.NewOpenAIProvider(baseURL, cfg.ApiKey, cfg.Model, cfg.Timeout), nil
	case "gemini":
		return gemini.NewGeminiProvider(cfg.ApiKey, cfg.Model, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Type)
	}
}
