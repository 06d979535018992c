package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"chat-helper/internal/domain"
	"chat-helper/internal/repository"
)

var (
	ErrNotebookNotConfigured = errors.New("notebook service not configured")
	ErrNotebookEmptyText     = errors.New("notebook message text is empty")
	ErrNotebookInvalidType   = errors.New("notebook message direction is invalid")
)

// NotebookService mantiene el cuaderno del cliente y lo persiste completo en cada cambio.
type NotebookService struct {
	repo repository.NotebookRepository
	now  func() time.Time

	mu       sync.RWMutex
	messages []domain.NotebookMessage
}

func NewNotebookService(repo repository.NotebookRepository) *NotebookService {
	return &NotebookService{
		repo: repo,
		now:  time.Now,
	}
}

// Load lee el slot durable una vez al arrancar.
func (s *NotebookService) Load(ctx context.Context) error {
	if s == nil || s.repo == nil {
		return ErrNotebookNotConfigured
	}
	messages, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load notebook: %w", err)
	}
	s.mu.Lock()
	s.messages = messages
	s.mu.Unlock()
	return nil
}

// Add agrega un mensaje enviado o recibido y reescribe el slot.
func (s *NotebookService) Add(ctx context.Context, text string, direction domain.Direction) (domain.NotebookMessage, error) {
	if s == nil || s.repo == nil {
		return domain.NotebookMessage{}, ErrNotebookNotConfigured
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.NotebookMessage{}, ErrNotebookEmptyText
	}
	if direction != domain.DirectionSent && direction != domain.DirectionReceived {
		return domain.NotebookMessage{}, ErrNotebookInvalidType
	}

	id, err := uuid.NewV7()
	if err != nil {
		return domain.NotebookMessage{}, fmt.Errorf("generate message id: %w", err)
	}
	msg := domain.NotebookMessage{
		ID:        id.String(),
		Text:      text,
		Timestamp: s.now().UnixMilli(),
		Type:      direction,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := append(append([]domain.NotebookMessage(nil), s.messages...), msg)
	if err := s.repo.Save(ctx, next); err != nil {
		return domain.NotebookMessage{}, fmt.Errorf("save notebook: %w", err)
	}
	s.messages = next
	return msg, nil
}

// Clear vacía el cuaderno y elimina el slot durable.
func (s *NotebookService) Clear(ctx context.Context) error {
	if s == nil || s.repo == nil {
		return ErrNotebookNotConfigured
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
	if err := s.repo.Delete(ctx); err != nil {
		return fmt.Errorf("delete notebook: %w", err)
	}
	return nil
}

// Messages devuelve una copia del cuaderno en orden de inserción.
func (s *NotebookService) Messages() []domain.NotebookMessage {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.NotebookMessage(nil), s.messages...)
}
