package service

import (
	"strings"
	"testing"

	"chat-helper/internal/domain"
)

func TestRenderNotebookTranscript(t *testing.T) {
	t.Run("cuaderno vacio usa la frase fija", func(t *testing.T) {
		got := RenderNotebookTranscript(nil)
		if got != "\n\nThe chat is currently empty (no messages yet)." {
			t.Fatalf("unexpected empty transcript: %q", got)
		}
		if strings.Contains(got, "Here is the full chat history") {
			t.Fatalf("empty notebook must not render a transcript block")
		}
	})

	t.Run("etiquetas por direccion en orden", func(t *testing.T) {
		msgs := []domain.NotebookMessage{
			{Text: "hola", Type: domain.DirectionSent, Timestamp: 1},
			{Text: "que tal", Type: domain.DirectionReceived, Timestamp: 2},
			{Text: "bien", Type: "", Timestamp: 3},
		}
		got := RenderNotebookTranscript(msgs)
		expected := "\n\nHere is the full chat history:\nUser (sent): hola\nUser (received): que tal\nUser (received): bien\n"
		if got != expected {
			t.Fatalf("expected %q, got %q", expected, got)
		}
	})
}

func TestRenderDialogueHistory(t *testing.T) {
	t.Run("sin turnos", func(t *testing.T) {
		if got := RenderDialogueHistory(nil); got != "" {
			t.Fatalf("expected no section, got %q", got)
		}
	})

	t.Run("solo la pregunta actual", func(t *testing.T) {
		dialogue := []domain.AssistantMessage{{Role: domain.RoleUser, Text: "What did I say?"}}
		if got := RenderDialogueHistory(dialogue); got != "" {
			t.Fatalf("expected no section, got %q", got)
		}
	})

	t.Run("excluye el ultimo turno", func(t *testing.T) {
		dialogue := []domain.AssistantMessage{
			{Role: domain.RoleUser, Text: "q1"},
			{Role: domain.RoleAssistant, Text: "a1"},
			{Role: domain.RoleUser, Text: "q2"},
			{Role: domain.RoleAssistant, Text: "a2"},
			{Role: domain.RoleUser, Text: "current"},
		}
		got := RenderDialogueHistory(dialogue)
		if !strings.HasPrefix(got, "\n\nOur previous conversation:\n") {
			t.Fatalf("missing header: %q", got)
		}
		body := strings.TrimPrefix(got, "\n\nOur previous conversation:\n")
		lines := strings.Split(strings.TrimSuffix(body, "\n"), "\n")
		if len(lines) != len(dialogue)-1 {
			t.Fatalf("expected %d lines, got %d: %q", len(dialogue)-1, len(lines), lines)
		}
		want := []string{"User: q1", "Assistant: a1", "User: q2", "Assistant: a2"}
		for i := range want {
			if lines[i] != want[i] {
				t.Fatalf("line %d: expected %q, got %q", i, want[i], lines[i])
			}
		}
		if strings.Contains(got, "current") {
			t.Fatalf("in-flight question must not be rendered")
		}
	})
}
