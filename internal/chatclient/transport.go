package chatclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"chat-helper/internal/domain"
)

// ChatRequest es el cuerpo de POST /api/chat.
type ChatRequest struct {
	Messages     []domain.NotebookMessage  `json:"messages"`
	AIMessages   []domain.AssistantMessage `json:"aiMessages"`
	UserQuestion string                    `json:"userQuestion"`
}

// Transport entrega una petición al relay y devuelve el cuerpo en streaming.
type Transport interface {
	Send(ctx context.Context, req ChatRequest) (io.ReadCloser, error)
}

// StatusError es una respuesta no exitosa del relay.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("relay responded %d", e.StatusCode)
	}
	return fmt.Sprintf("relay responded %d: %s", e.StatusCode, e.Message)
}

// HTTPTransport habla con el relay por HTTP.
type HTTPTransport struct {
	endpoint string
	client   *http.Client
}

func NewHTTPTransport(serverURL string, client *http.Client) *HTTPTransport {
	if client == nil {
		// Sin timeout global: el cuerpo dura lo que dure la respuesta.
		client = &http.Client{}
	}
	return &HTTPTransport{
		endpoint: strings.TrimRight(serverURL, "/") + "/api/chat",
		client:   client,
	}
}

func (t *HTTPTransport) Send(ctx context.Context, req ChatRequest) (io.ReadCloser, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send chat request: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &apiErr) != nil || apiErr.Error == "" {
			apiErr.Error = strings.TrimSpace(string(body))
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: apiErr.Error}
	}
	return resp.Body, nil
}
