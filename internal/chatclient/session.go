package chatclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"chat-helper/internal/domain"
)

// ApologyMessage reemplaza la respuesta cuando el stream falla.
const ApologyMessage = "Sorry, there was an error connecting to the AI."

var (
	ErrSessionBusy   = errors.New("assistant session is awaiting a response")
	ErrEmptyQuestion = errors.New("question is empty")
)

// NotebookSource expone el cuaderno que se envía como contexto.
type NotebookSource interface {
	Messages() []domain.NotebookMessage
}

// Session es el panel del asistente: un diálogo y a lo sumo una pregunta en vuelo.
type Session struct {
	transport Transport
	notebook  NotebookSource
	logger    *zap.Logger
	now       func() time.Time

	mu       sync.Mutex
	state    domain.SessionState
	dialogue []domain.AssistantMessage
	// texto vivo del placeholder, por ID; solo Dialogue() lo copia al snapshot.
	pending map[string]string
}

func NewSession(transport Transport, notebook NotebookSource, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		transport: transport,
		notebook:  notebook,
		logger:    logger,
		now:       time.Now,
		state:     domain.SessionIdle,
		pending:   make(map[string]string),
	}
}

func (s *Session) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dialogue devuelve una copia del diálogo con el texto parcial de la respuesta en curso.
func (s *Session) Dialogue() []domain.AssistantMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() []domain.AssistantMessage {
	out := make([]domain.AssistantMessage, len(s.dialogue))
	copy(out, s.dialogue)
	for i := range out {
		if text, ok := s.pending[out[i].ID]; ok {
			out[i].Text = text
		}
	}
	return out
}

// Ask envía la pregunta y bloquea hasta que el stream termina.
// onUpdate recibe el mensaje del asistente cada vez que cambia su texto.
// Si el stream falla el mensaje devuelto lleva ApologyMessage junto con el error.
func (s *Session) Ask(ctx context.Context, question string, onUpdate func(domain.AssistantMessage)) (domain.AssistantMessage, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return domain.AssistantMessage{}, ErrEmptyQuestion
	}

	placeholder, req, err := s.submit(question)
	if err != nil {
		return domain.AssistantMessage{}, err
	}

	final, streamErr := s.stream(ctx, req, placeholder.ID, onUpdate)
	ev := domain.EventStreamEnd
	if streamErr != nil {
		ev = domain.EventStreamError
		final = ApologyMessage
		s.logger.Warn("assistant stream failed", zap.Error(streamErr))
	}

	msg := s.complete(placeholder.ID, final, ev)
	if onUpdate != nil {
		onUpdate(msg)
	}
	if streamErr != nil {
		return msg, fmt.Errorf("assistant stream: %w", streamErr)
	}
	return msg, nil
}

func (s *Session) submit(question string) (domain.AssistantMessage, ChatRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, ok := s.state.Next(domain.EventSubmit)
	if !ok {
		return domain.AssistantMessage{}, ChatRequest{}, ErrSessionBusy
	}

	now := s.now().UnixMilli()
	user := domain.AssistantMessage{ID: uuid.NewString(), Text: question, Role: domain.RoleUser, Timestamp: now}
	placeholder := domain.AssistantMessage{ID: uuid.NewString(), Role: domain.RoleAssistant, Timestamp: now}

	s.dialogue = append(s.dialogue, user)
	req := ChatRequest{
		AIMessages:   append([]domain.AssistantMessage(nil), s.dialogue...),
		UserQuestion: question,
	}
	if s.notebook != nil {
		req.Messages = s.notebook.Messages()
	}
	s.dialogue = append(s.dialogue, placeholder)
	s.pending[placeholder.ID] = ""
	s.state = next
	return placeholder, req, nil
}

func (s *Session) stream(ctx context.Context, req ChatRequest, id string, onUpdate func(domain.AssistantMessage)) (string, error) {
	body, err := s.transport.Send(ctx, req)
	if err != nil {
		return "", err
	}
	defer body.Close()

	var acc accumulator
	buf := make([]byte, 4096)
	for {
		n, err := body.Read(buf)
		if n > 0 {
			msg := s.update(id, acc.Append(buf[:n]))
			if onUpdate != nil {
				onUpdate(msg)
			}
		}
		if errors.Is(err, io.EOF) {
			return acc.Finish(), nil
		}
		if err != nil {
			return "", err
		}
	}
}

func (s *Session) update(id, text string) domain.AssistantMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[id] = text
	return s.messageLocked(id)
}

func (s *Session) complete(id, text string, ev domain.SessionEvent) domain.AssistantMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, id)
	for i := len(s.dialogue) - 1; i >= 0; i-- {
		if s.dialogue[i].ID == id {
			s.dialogue[i].Text = text
			break
		}
	}
	if next, ok := s.state.Next(ev); ok {
		s.state = next
	}
	return s.messageLocked(id)
}

func (s *Session) messageLocked(id string) domain.AssistantMessage {
	for i := len(s.dialogue) - 1; i >= 0; i-- {
		if s.dialogue[i].ID != id {
			continue
		}
		msg := s.dialogue[i]
		if text, ok := s.pending[id]; ok {
			msg.Text = text
		}
		return msg
	}
	return domain.AssistantMessage{}
}
