package service

import (
	"strings"

	"chat-helper/internal/domain"
)

const (
	notebookHeader = "\n\nHere is the full chat history:\n"
	notebookEmpty  = "\n\nThe chat is currently empty (no messages yet)."
	dialogueHeader = "\n\nOur previous conversation:\n"
	labelSent      = "User (sent)"
	labelReceived  = "User (received)"
	labelUser      = "User"
	labelAssistant = "Assistant"
)

// ChatContext es el contexto de una pregunta: cuaderno completo, diálogo
// (pregunta actual al final) y el texto de la pregunta.
type ChatContext struct {
	Notebook []domain.NotebookMessage
	Dialogue []domain.AssistantMessage
	Question string
}

// RenderNotebookTranscript formatea el cuaderno en orden, una línea por mensaje.
// Un cuaderno vacío produce la frase fija de "sin mensajes".
func RenderNotebookTranscript(messages []domain.NotebookMessage) string {
	if len(messages) == 0 {
		return notebookEmpty
	}

	var sb strings.Builder
	sb.WriteString(notebookHeader)
	for _, m := range messages {
		label := labelReceived
		if m.Type == domain.DirectionSent {
			label = labelSent
		}
		writeLine(&sb, label, m.Text)
	}
	return sb.String()
}

// RenderDialogueHistory formatea los turnos previos del diálogo, excluyendo el
// último (la pregunta en curso). Con uno o ningún turno no hay sección.
func RenderDialogueHistory(dialogue []domain.AssistantMessage) string {
	if len(dialogue) <= 1 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(dialogueHeader)
	for _, m := range dialogue[:len(dialogue)-1] {
		label := labelAssistant
		if m.Role == domain.RoleUser {
			label = labelUser
		}
		writeLine(&sb, label, m.Text)
	}
	return sb.String()
}

func writeLine(sb *strings.Builder, label, text string) {
	sb.WriteString(label)
	sb.WriteString(": ")
	sb.WriteString(text)
	sb.WriteString("\n")
}
