package llm

import (
	"context"
	"sync"
)

// MockClient permite tests sin llamar a un LLM real.
// Emite Fragments en orden y, si StreamErr no es nil, lo emite al final.
type MockClient struct {
	Fragments  []string
	StreamErr  error
	OpenErr    error
	MissingKey bool

	mu      sync.Mutex
	prompts []string
}

func (m *MockClient) ProviderName() string { return "mock" }

func (m *MockClient) IsConfigured() bool { return !m.MissingKey }

func (m *MockClient) StreamGenerate(ctx context.Context, prompt string) (<-chan Chunk, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.OpenErr != nil {
		return nil, m.OpenErr
	}

	out := make(chan Chunk)
	go func() {
		defer close(out)
		for _, f := range m.Fragments {
			if !send(ctx, out, Chunk{Text: f}) {
				return
			}
		}
		if m.StreamErr != nil {
			send(ctx, out, Chunk{Err: m.StreamErr})
		}
	}()
	return out, nil
}

// Prompts devuelve los prompts recibidos, en orden.
func (m *MockClient) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}
