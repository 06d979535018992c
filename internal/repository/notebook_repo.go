package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"chat-helper/internal/domain"
)

// NotebookKey es la clave fija bajo la que se guarda el cuaderno completo.
const NotebookKey = "chatMessages"

// NotebookRepository guarda el cuaderno como un único slot clave-valor.
// Save sobrescribe el slot entero; Load devuelve nil si el slot no existe.
type NotebookRepository interface {
	Load(ctx context.Context) ([]domain.NotebookMessage, error)
	Save(ctx context.Context, messages []domain.NotebookMessage) error
	Delete(ctx context.Context) error
}

func encodeNotebook(messages []domain.NotebookMessage) ([]byte, error) {
	if messages == nil {
		messages = []domain.NotebookMessage{}
	}
	data, err := json.Marshal(messages)
	if err != nil {
		return nil, fmt.Errorf("marshal notebook: %w", err)
	}
	return data, nil
}

func decodeNotebook(data []byte) ([]domain.NotebookMessage, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var messages []domain.NotebookMessage
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("unmarshal notebook: %w", err)
	}
	return messages, nil
}

// MemoryNotebookRepository mantiene el slot serializado en memoria.
type MemoryNotebookRepository struct {
	mu   sync.Mutex
	data []byte
}

func NewMemoryNotebookRepository() *MemoryNotebookRepository {
	return &MemoryNotebookRepository{}
}

func (r *MemoryNotebookRepository) Load(_ context.Context) ([]domain.NotebookMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return decodeNotebook(r.data)
}

func (r *MemoryNotebookRepository) Save(_ context.Context, messages []domain.NotebookMessage) error {
	data, err := encodeNotebook(messages)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = data
	return nil
}

func (r *MemoryNotebookRepository) Delete(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = nil
	return nil
}
