package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"chat-helper/internal/chatclient"
	"chat-helper/internal/domain"
	"chat-helper/internal/llm"
	"chat-helper/internal/service"
)

const testMissingKeyMessage = "API key not configured. Please add GEMINI_API_KEY to .env"

func newTestRouter(client *llm.MockClient) *gin.Engine {
	gin.SetMode(gin.TestMode)
	relay := service.NewRelayService(client, zap.NewNop())
	handler := NewChatHandler(zap.NewNop(), relay, testMissingKeyMessage)
	return NewRouter(zap.NewNop(), handler)
}

const exampleBody = `{"messages":[{"type":"sent","text":"Hi","timestamp":1000}],"aiMessages":[{"role":"user","text":"What did I say?"}],"userQuestion":"What did I say?"}`

func postChat(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("expected JSON error body, got %q: %v", w.Body.String(), err)
	}
	return resp.Error
}

func TestPostChat_Streams(t *testing.T) {
	client := &llm.MockClient{Fragments: []string{"You ", "said ", "\"Hi\"."}}
	router := newTestRouter(client)

	w := postChat(router, exampleBody)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/plain; charset=utf-8" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if got := w.Body.String(); got != "You said \"Hi\"." {
		t.Fatalf("unexpected body %q", got)
	}
	if !w.Flushed {
		t.Fatalf("expected streamed response to be flushed")
	}

	prompts := client.Prompts()
	if len(prompts) != 1 {
		t.Fatalf("expected one backend call, got %d", len(prompts))
	}
	if !strings.Contains(prompts[0], "User (sent): Hi\n") {
		t.Fatalf("prompt missing notebook transcript: %q", prompts[0])
	}
	if !strings.Contains(prompts[0], `The user is now asking you: "What did I say?"`) {
		t.Fatalf("prompt missing question: %q", prompts[0])
	}
	if strings.Contains(prompts[0], "Our previous conversation") {
		t.Fatalf("single-entry dialogue must not render history: %q", prompts[0])
	}
}

func TestPostChat_EmptyStream(t *testing.T) {
	router := newTestRouter(&llm.MockClient{})

	w := postChat(router, exampleBody)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", w.Body.String())
	}
}

func TestPostChat_PreStreamFailures(t *testing.T) {
	tests := []struct {
		name    string
		client  *llm.MockClient
		body    string
		wantErr string
	}{
		{
			name:    "malformed json",
			client:  &llm.MockClient{Fragments: []string{"x"}},
			body:    `{"messages": [`,
			wantErr: "Failed to get AI response",
		},
		{
			name:    "empty body",
			client:  &llm.MockClient{Fragments: []string{"x"}},
			body:    "",
			wantErr: "Failed to get AI response",
		},
		{
			name:    "missing credential",
			client:  &llm.MockClient{MissingKey: true, Fragments: []string{"x"}},
			body:    exampleBody,
			wantErr: testMissingKeyMessage,
		},
		{
			name:    "backend open failure",
			client:  &llm.MockClient{OpenErr: errors.New("quota exceeded")},
			body:    exampleBody,
			wantErr: "Failed to get AI response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postChat(newTestRouter(tt.client), tt.body)

			if w.Code != http.StatusInternalServerError {
				t.Fatalf("expected status 500, got %d", w.Code)
			}
			if !strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
				t.Fatalf("expected JSON error, got content type %q", w.Header().Get("Content-Type"))
			}
			if got := decodeError(t, w); got != tt.wantErr {
				t.Fatalf("expected error %q, got %q", tt.wantErr, got)
			}
		})
	}
}

func TestPostChat_MissingCredentialSkipsBackend(t *testing.T) {
	client := &llm.MockClient{MissingKey: true}
	postChat(newTestRouter(client), exampleBody)

	if n := len(client.Prompts()); n != 0 {
		t.Fatalf("expected no backend call, got %d", n)
	}
}

func TestPostChat_MidStreamErrorAbortsConnection(t *testing.T) {
	client := &llm.MockClient{
		Fragments: []string{"You ", "said "},
		StreamErr: errors.New("backend reset"),
	}
	srv := httptest.NewServer(newTestRouter(client))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/chat", "application/json", strings.NewReader(exampleBody))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err == nil {
		t.Fatalf("expected read error after aborted stream, got clean body %q", string(data))
	}
}

func TestPostChat_CleanEndReadsWithoutError(t *testing.T) {
	client := &llm.MockClient{Fragments: []string{"You ", "said ", "\"Hi\"."}}
	srv := httptest.NewServer(newTestRouter(client))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/chat", "application/json", strings.NewReader(exampleBody))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("expected clean end, got %v", err)
	}
	if string(data) != "You said \"Hi\"." {
		t.Fatalf("unexpected body %q", string(data))
	}
}

type notebookList []domain.NotebookMessage

func (n notebookList) Messages() []domain.NotebookMessage { return n }

func TestChatClientEndToEnd(t *testing.T) {
	notebook := notebookList{{ID: "m1", Text: "Hi", Timestamp: 1000, Type: domain.DirectionSent}}

	t.Run("fragments accumulate into the assistant message", func(t *testing.T) {
		client := &llm.MockClient{Fragments: []string{"You ", "said ", "\"Hi\"."}}
		srv := httptest.NewServer(newTestRouter(client))
		defer srv.Close()

		session := chatclient.NewSession(chatclient.NewHTTPTransport(srv.URL, nil), notebook, nil)
		msg, err := session.Ask(context.Background(), "What did I say?", nil)
		if err != nil {
			t.Fatalf("ask: %v", err)
		}
		if msg.Text != "You said \"Hi\"." {
			t.Fatalf("unexpected assistant text %q", msg.Text)
		}
		if session.State() != domain.SessionIdle {
			t.Fatalf("expected idle session, got %s", session.State())
		}
	})

	t.Run("mid-stream failure shows apology", func(t *testing.T) {
		client := &llm.MockClient{Fragments: []string{"You "}, StreamErr: errors.New("backend reset")}
		srv := httptest.NewServer(newTestRouter(client))
		defer srv.Close()

		session := chatclient.NewSession(chatclient.NewHTTPTransport(srv.URL, nil), notebook, nil)
		msg, err := session.Ask(context.Background(), "What did I say?", nil)
		if err == nil {
			t.Fatalf("expected stream error")
		}
		if msg.Text != chatclient.ApologyMessage {
			t.Fatalf("expected apology, got %q", msg.Text)
		}
	})

	t.Run("missing credential shows apology", func(t *testing.T) {
		srv := httptest.NewServer(newTestRouter(&llm.MockClient{MissingKey: true}))
		defer srv.Close()

		session := chatclient.NewSession(chatclient.NewHTTPTransport(srv.URL, nil), notebook, nil)
		msg, err := session.Ask(context.Background(), "What did I say?", nil)
		var statusErr *chatclient.StatusError
		if !errors.As(err, &statusErr) || statusErr.Message != testMissingKeyMessage {
			t.Fatalf("expected status error with missing key message, got %v", err)
		}
		if msg.Text != chatclient.ApologyMessage {
			t.Fatalf("expected apology, got %q", msg.Text)
		}
	})
}
