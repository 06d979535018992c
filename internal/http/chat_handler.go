package http

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"chat-helper/internal/domain"
	"chat-helper/internal/llm"
	"chat-helper/internal/service"
)

const failedResponseMessage = "Failed to get AI response"

// chatRelay abre el stream de respuesta para un contexto de conversación.
type chatRelay interface {
	Stream(ctx context.Context, cc service.ChatContext) (<-chan llm.Chunk, error)
}

// ChatHandler expone el relay de streaming del asistente.
type ChatHandler struct {
	logger            *zap.Logger
	relay             chatRelay
	missingKeyMessage string
}

// NewChatHandler crea una instancia de ChatHandler con dependencias necesarias.
func NewChatHandler(logger *zap.Logger, relay chatRelay, missingKeyMessage string) *ChatHandler {
	return &ChatHandler{
		logger:            logger,
		relay:             relay,
		missingKeyMessage: missingKeyMessage,
	}
}

type chatRequest struct {
	Messages     []domain.NotebookMessage  `json:"messages"`
	AIMessages   []domain.AssistantMessage `json:"aiMessages"`
	UserQuestion string                    `json:"userQuestion"`
}

// PostChat maneja POST /api/chat.
// Los errores previos al stream responden 500 con JSON; un fallo a mitad corta la conexión.
func (h *ChatHandler) PostChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid chat request", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": failedResponseMessage})
		return
	}

	cc := service.ChatContext{
		Notebook: req.Messages,
		Dialogue: req.AIMessages,
		Question: req.UserQuestion,
	}
	chunks, err := h.relay.Stream(c.Request.Context(), cc)
	if errors.Is(err, service.ErrBackendNotConfigured) {
		h.logger.Error("llm backend not configured")
		c.JSON(http.StatusInternalServerError, gin.H{"error": h.missingKeyMessage})
		return
	}
	if err != nil {
		h.logger.Error("open chat stream failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": failedResponseMessage})
		return
	}

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Content-Type-Options", "nosniff")
	c.Status(http.StatusOK)
	c.Writer.WriteHeaderNow()
	c.Writer.Flush()

	for chunk := range chunks {
		if chunk.Err != nil {
			h.logger.Error("chat stream failed", zap.Error(chunk.Err), zap.Int("bytes_sent", c.Writer.Size()))
			// Sin el chunk final el cliente ve un error de lectura, no un fin limpio.
			panic(http.ErrAbortHandler)
		}
		if _, err := io.WriteString(c.Writer, chunk.Text); err != nil {
			h.logger.Warn("client went away", zap.Error(err))
			return
		}
		c.Writer.Flush()
	}
}
