package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"chat-helper/internal/llm"
)

var ErrBackendNotConfigured = errors.New("llm backend not configured")

// RelayService arma el prompt y reenvía en orden los fragmentos del backend.
// No reintenta, no cachea: un intento y un stream por invocación.
type RelayService struct {
	client  llm.StreamClient
	builder AssistantPromptBuilder
	logger  *zap.Logger
}

func NewRelayService(client llm.StreamClient, logger *zap.Logger) *RelayService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RelayService{client: client, logger: logger}
}

// Stream valida la credencial antes de tocar el backend y devuelve un canal
// con los fragmentos no vacíos. Un fallo del backend llega como último Chunk.
func (s *RelayService) Stream(ctx context.Context, cc ChatContext) (<-chan llm.Chunk, error) {
	if s == nil || s.client == nil || !s.client.IsConfigured() {
		return nil, ErrBackendNotConfigured
	}

	prompt := s.builder.BuildAssistantPrompt(cc)
	in, err := s.client.StreamGenerate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("open backend stream: %w", err)
	}

	s.logger.Debug("relay stream opened",
		zap.String("provider", s.client.ProviderName()),
		zap.Int("notebook_messages", len(cc.Notebook)),
		zap.Int("dialogue_messages", len(cc.Dialogue)),
		zap.Int("prompt_length", len(prompt)),
	)

	out := make(chan llm.Chunk)
	go func() {
		defer close(out)
		for c := range in {
			if c.Err == nil && c.Text == "" {
				continue
			}
			select {
			case out <- c:
			case <-ctx.Done():
				return
			}
			if c.Err != nil {
				return
			}
		}
	}()
	return out, nil
}
