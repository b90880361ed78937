package llm

import (
	"fmt"
	"strings"

	"ai-infobot/internal/config"
)

// NewFromConfig builds the chat client selected by LLM_PROVIDER.
func NewFromConfig(cfg *config.Config) (Client, error) {
	switch config.LLMProvider(strings.ToLower(string(cfg.LLMProvider))) {
	case config.ProviderOpenAI:
		return NewOpenAI(cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.LLMModel, cfg.HTTPTimeout), nil
	case config.ProviderYandex:
		return NewYandex(cfg.YandexOAuthToken, cfg.YandexFolderID)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.LLMProvider)
	}
}
