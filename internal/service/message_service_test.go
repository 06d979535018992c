package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"chat-helper/internal/domain"
	"chat-helper/internal/repository"
)

type mockNotebookRepo struct {
	stored    []domain.NotebookMessage
	saves     int
	deletes   int
	loadErr   error
	saveErr   error
	deleteErr error
}

func (m *mockNotebookRepo) Load(_ context.Context) ([]domain.NotebookMessage, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.stored, nil
}

func (m *mockNotebookRepo) Save(_ context.Context, messages []domain.NotebookMessage) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.stored = messages
	return nil
}

func (m *mockNotebookRepo) Delete(_ context.Context) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletes++
	m.stored = nil
	return nil
}

var _ repository.NotebookRepository = (*mockNotebookRepo)(nil)

func TestNotebookServiceAdd_NormalizesAndPersists(t *testing.T) {
	repo := &mockNotebookRepo{}
	svc := NewNotebookService(repo)
	fixed := time.UnixMilli(1000)
	svc.now = func() time.Time { return fixed }

	msg, err := svc.Add(context.Background(), "  Hi  ", domain.DirectionSent)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if msg.ID == "" {
		t.Fatalf("expected generated id")
	}
	if msg.Text != "Hi" || msg.Timestamp != 1000 || msg.Type != domain.DirectionSent {
		t.Fatalf("unexpected message: %+v", msg)
	}
	if repo.saves != 1 || len(repo.stored) != 1 || repo.stored[0] != msg {
		t.Fatalf("expected full log persisted, got saves=%d stored=%+v", repo.saves, repo.stored)
	}
}

func TestNotebookServiceAdd_KeepsInsertionOrder(t *testing.T) {
	repo := &mockNotebookRepo{}
	svc := NewNotebookService(repo)

	first, _ := svc.Add(context.Background(), "uno", domain.DirectionSent)
	second, _ := svc.Add(context.Background(), "dos", domain.DirectionReceived)

	msgs := svc.Messages()
	if len(msgs) != 2 || msgs[0].ID != first.ID || msgs[1].ID != second.ID {
		t.Fatalf("expected insertion order, got %+v", msgs)
	}
	if first.ID >= second.ID {
		t.Fatalf("expected time-ordered ids, got %q then %q", first.ID, second.ID)
	}
	if len(repo.stored) != 2 {
		t.Fatalf("expected slot overwritten with 2 messages, got %d", len(repo.stored))
	}
}

func TestNotebookServiceAdd_Validation(t *testing.T) {
	repo := &mockNotebookRepo{}
	svc := NewNotebookService(repo)

	if _, err := svc.Add(context.Background(), "   ", domain.DirectionSent); !errors.Is(err, ErrNotebookEmptyText) {
		t.Fatalf("expected ErrNotebookEmptyText, got %v", err)
	}
	if _, err := svc.Add(context.Background(), "hola", domain.Direction("forwarded")); !errors.Is(err, ErrNotebookInvalidType) {
		t.Fatalf("expected ErrNotebookInvalidType, got %v", err)
	}
	if repo.saves != 0 {
		t.Fatalf("rejected input must not touch storage")
	}
}

func TestNotebookServiceAdd_SaveFailureKeepsLog(t *testing.T) {
	repo := &mockNotebookRepo{saveErr: errors.New("disk full")}
	svc := NewNotebookService(repo)

	if _, err := svc.Add(context.Background(), "hola", domain.DirectionSent); err == nil {
		t.Fatalf("expected save error")
	}
	if len(svc.Messages()) != 0 {
		t.Fatalf("failed save must not change the in-memory log")
	}
}

func TestNotebookServiceLoadAndClear(t *testing.T) {
	repo := &mockNotebookRepo{stored: []domain.NotebookMessage{{ID: "m1", Text: "Hi", Timestamp: 1000, Type: domain.DirectionSent}}}
	svc := NewNotebookService(repo)

	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := svc.Messages(); len(got) != 1 || got[0].ID != "m1" {
		t.Fatalf("unexpected loaded log: %+v", got)
	}

	if err := svc.Clear(context.Background()); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(svc.Messages()) != 0 || repo.deletes != 1 {
		t.Fatalf("expected empty log and deleted slot")
	}
	if repo.saves != 0 {
		t.Fatalf("clear must delete the slot, not write an empty log")
	}
}

func TestNotebookServiceLoad_Error(t *testing.T) {
	svc := NewNotebookService(&mockNotebookRepo{loadErr: errors.New("corrupt")})
	if err := svc.Load(context.Background()); err == nil {
		t.Fatalf("expected load error")
	}
}

func TestNotebookService_NotConfigured(t *testing.T) {
	var svc *NotebookService
	if _, err := svc.Add(context.Background(), "x", domain.DirectionSent); !errors.Is(err, ErrNotebookNotConfigured) {
		t.Fatalf("expected ErrNotebookNotConfigured, got %v", err)
	}
	if svc.Messages() != nil {
		t.Fatalf("expected nil messages for nil service")
	}

	svc = NewNotebookService(nil)
	if err := svc.Load(context.Background()); !errors.Is(err, ErrNotebookNotConfigured) {
		t.Fatalf("expected ErrNotebookNotConfigured, got %v", err)
	}
	if err := svc.Clear(context.Background()); !errors.Is(err, ErrNotebookNotConfigured) {
		t.Fatalf("expected ErrNotebookNotConfigured, got %v", err)
	}
}
