package llm

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"sync"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiClient implementa StreamClient sobre la API de Google Gemini.
// El cliente genai se crea en el primer request.
type GeminiClient struct {
	apiKey string
	model  string
	logger *zap.Logger

	mu     sync.Mutex
	client *genai.Client
}

func NewGeminiClient(apiKey, model string, logger *zap.Logger) *GeminiClient {
	if strings.TrimSpace(model) == "" {
		model = DefaultGeminiModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiClient{
		apiKey: apiKey,
		model:  model,
		logger: logger,
	}
}

func (c *GeminiClient) ProviderName() string { return "gemini" }

func (c *GeminiClient) IsConfigured() bool { return c.apiKey != "" }

func (c *GeminiClient) genaiClient(ctx context.Context) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return c.client, nil
	}
	if c.apiKey == "" {
		return nil, fmt.Errorf("gemini api key not configured")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  c.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	c.client = client
	return client, nil
}

func (c *GeminiClient) StreamGenerate(ctx context.Context, prompt string) (<-chan Chunk, error) {
	client, err := c.genaiClient(ctx)
	if err != nil {
		return nil, err
	}
	return c.forward(ctx, client.Models.GenerateContentStream(ctx, c.model, genai.Text(prompt), nil))
}

// forward consume la primera respuesta antes de devolver el canal: genai recién
// conecta al iterar, y un rechazo inicial (key inválida, cuota) debe fallar la apertura.
func (c *GeminiClient) forward(ctx context.Context, seq iter.Seq2[*genai.GenerateContentResponse, error]) (<-chan Chunk, error) {
	next, stop := iter.Pull2(seq)
	first, err, ok := next()
	if ok && err != nil {
		stop()
		return nil, fmt.Errorf("open gemini stream: %w", err)
	}

	out := make(chan Chunk)
	go func() {
		defer close(out)
		defer stop()
		fragments := 0
		for resp := first; ok; resp, err, ok = next() {
			if err != nil {
				c.logger.Warn("gemini stream failed", zap.Error(err), zap.Int("fragments", fragments))
				send(ctx, out, Chunk{Err: fmt.Errorf("gemini stream: %w", err)})
				return
			}
			fragments++
			if !send(ctx, out, Chunk{Text: fragmentText(resp)}) {
				c.logger.Debug("gemini stream abandoned", zap.Int("fragments", fragments))
				return
			}
		}
		c.logger.Debug("gemini stream finished", zap.Int("fragments", fragments))
	}()
	return out, nil
}

// fragmentText concatena las partes de texto de la respuesta, omitiendo pensamientos.
func fragmentText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var sb strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Text == "" || part.Thought {
				continue
			}
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}
