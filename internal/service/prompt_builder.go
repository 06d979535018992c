package service

import (
	"fmt"
	"strings"
)

const (
	assistantPreamble = "You are a helpful AI assistant. The user is using a personal chat application where they can send and receive messages (both from themselves - it's for practicing conversations or taking notes)."
	assistantClosing  = "Please help them with their question. You can reference the chat history if relevant to their question. Be helpful, concise, and friendly."
)

// AssistantPromptBuilder arma el prompt del asistente a partir de ambos historiales.
type AssistantPromptBuilder struct{}

// BuildAssistantPrompt es puro: mismas entradas producen el mismo prompt.
// No escapa nada; el backend acepta texto libre.
func (AssistantPromptBuilder) BuildAssistantPrompt(cc ChatContext) string {
	var sb strings.Builder

	sb.WriteString(assistantPreamble)
	sb.WriteString("\n\n")
	sb.WriteString(RenderNotebookTranscript(cc.Notebook))
	sb.WriteString("\n")
	sb.WriteString(RenderDialogueHistory(cc.Dialogue))
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("The user is now asking you: \"%s\"", cc.Question))
	sb.WriteString("\n\n")
	sb.WriteString(assistantClosing)

	return sb.String()
}
