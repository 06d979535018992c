package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	openaiapi "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const DefaultOpenAIModel = openaiapi.GPT4oMini

// OpenAIClient implementa StreamClient contra una API OpenAI-compatible.
type OpenAIClient struct {
	apiKey string
	model  string
	api    *openaiapi.Client
	logger *zap.Logger
}

// NewOpenAIClient construye un cliente apuntando a la API de chat completions.
func NewOpenAIClient(baseURL, apiKey, model string, logger *zap.Logger) *OpenAIClient {
	cfg := openaiapi.DefaultConfig(apiKey)
	if baseURL = strings.TrimRight(baseURL, "/"); baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultOpenAIModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpenAIClient{
		apiKey: apiKey,
		model:  model,
		api:    openaiapi.NewClientWithConfig(cfg),
		logger: logger,
	}
}

func (c *OpenAIClient) ProviderName() string { return "openai" }

func (c *OpenAIClient) IsConfigured() bool { return c.apiKey != "" }

func (c *OpenAIClient) StreamGenerate(ctx context.Context, prompt string) (<-chan Chunk, error) {
	stream, err := c.api.CreateChatCompletionStream(ctx, openaiapi.ChatCompletionRequest{
		Model: c.model,
		Messages: []openaiapi.ChatCompletionMessage{
			{Role: openaiapi.ChatMessageRoleUser, Content: prompt},
		},
		Stream: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open openai stream: %w", err)
	}

	out := make(chan Chunk)
	go func() {
		defer close(out)
		defer stream.Close()
		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				c.logger.Warn("openai stream failed", zap.Error(err))
				send(ctx, out, Chunk{Err: fmt.Errorf("openai stream: %w", err)})
				return
			}
			if len(resp.Choices) == 0 {
				continue
			}
			if !send(ctx, out, Chunk{Text: resp.Choices[0].Delta.Content}) {
				return
			}
		}
	}()
	return out, nil
}
