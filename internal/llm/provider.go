package llm

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"chat-helper/internal/config"
)

var ErrUnknownProvider = errors.New("unknown llm provider")

// NewStreamClient elige el backend según LLM_PROVIDER.
func NewStreamClient(cfg *config.Config, logger *zap.Logger) (StreamClient, error) {
	switch cfg.LLMProvider {
	case config.ProviderGemini, "":
		return NewGeminiClient(cfg.GeminiAPIKey, cfg.LLMModel, logger), nil
	case config.ProviderOpenAI:
		return NewOpenAIClient(cfg.LLMBaseURL, cfg.OpenAIAPIKey, cfg.LLMModel, logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.LLMProvider)
	}
}
