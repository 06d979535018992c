package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"chat-helper/internal/chatclient"
	"chat-helper/internal/config"
	"chat-helper/internal/domain"
)

// Scenario es un cuaderno fijo y una pregunta cuya respuesta debe (o no) citar Keyword.
type Scenario struct {
	Name        string
	Notebook    []string
	Question    string
	Keyword     string
	ShouldMatch bool
}

type scenarioResult struct {
	Answer     string
	Fragments  int
	FirstDelta time.Duration
	Matched    bool
}

var scenarios = []Scenario{
	{
		Name:        "Recuerdo directo",
		Notebook:    []string{"Remember to buy oat milk on Friday"},
		Question:    "What do I need to buy on Friday?",
		Keyword:     "oat milk",
		ShouldMatch: true,
	},
	{
		Name:        "Mensaje recibido",
		Notebook:    []string{"Are we still meeting at the library?", "Yes, at 5pm by the entrance"},
		Question:    "Where are we meeting?",
		Keyword:     "library",
		ShouldMatch: true,
	},
	{
		Name:        "Cuaderno vacio",
		Question:    "Summarize my chat",
		Keyword:     "empty",
		ShouldMatch: true,
	},
	{
		Name:        "Control de alucinacion",
		Notebook:    []string{"I love chocolate ice cream"},
		Question:    "What is my favorite color?",
		Keyword:     "chocolate ice cream is",
		ShouldMatch: false,
	},
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	transport := chatclient.NewHTTPTransport(cfg.ServerURL, nil)
	passed := runScenarios(context.Background(), transport, scenarios, os.Stdout)

	fmt.Printf("Tests: %d/%d pasaron\n", passed, len(scenarios))
	if passed != len(scenarios) {
		os.Exit(1)
	}
}

func runScenarios(ctx context.Context, transport chatclient.Transport, list []Scenario, out io.Writer) int {
	passed := 0
	for _, sc := range list {
		fmt.Fprintf(out, "=== Ejecutando: %s ===\n", sc.Name)

		runCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
		res, err := runScenario(runCtx, transport, sc)
		cancel()
		if err != nil {
			fmt.Fprintf(out, "❌ FAIL [%s] %v\n\n", sc.Name, err)
			continue
		}

		fmt.Fprintln(out, "--- Respuesta ---")
		fmt.Fprintln(out, res.Answer)
		fmt.Fprintf(out, "--- %d fragmentos, primero en %s ---\n", res.Fragments, res.FirstDelta.Round(time.Millisecond))

		if res.Matched == sc.ShouldMatch {
			fmt.Fprintf(out, "✅ PASS [%s] esperado=%t matched=%t\n\n", sc.Name, sc.ShouldMatch, res.Matched)
			passed++
		} else {
			fmt.Fprintf(out, "❌ FAIL [%s] esperado=%t matched=%t\n\n", sc.Name, sc.ShouldMatch, res.Matched)
		}
	}
	return passed
}

// runScenario alterna sent/received en el cuaderno y hace una sola pregunta.
func runScenario(ctx context.Context, transport chatclient.Transport, sc Scenario) (scenarioResult, error) {
	notebook := make(staticNotebook, 0, len(sc.Notebook))
	base := time.Now().Add(-time.Hour).UnixMilli()
	for i, text := range sc.Notebook {
		direction := domain.DirectionSent
		if i%2 == 1 {
			direction = domain.DirectionReceived
		}
		notebook = append(notebook, domain.NotebookMessage{
			ID:        uuid.Must(uuid.NewV7()).String(),
			Text:      text,
			Timestamp: base + int64(i)*60_000,
			Type:      direction,
		})
	}

	var res scenarioResult
	var last string
	start := time.Now()
	session := chatclient.NewSession(transport, notebook, nil)
	// la sesión repite el mensaje final al cerrar el stream; solo cuentan los cambios de texto
	msg, err := session.Ask(ctx, sc.Question, func(m domain.AssistantMessage) {
		if m.Text == last {
			return
		}
		last = m.Text
		if res.Fragments == 0 {
			res.FirstDelta = time.Since(start)
		}
		res.Fragments++
	})
	if err != nil {
		return res, err
	}

	res.Answer = msg.Text
	res.Matched = strings.Contains(strings.ToLower(msg.Text), strings.ToLower(sc.Keyword))
	return res, nil
}

type staticNotebook []domain.NotebookMessage

func (n staticNotebook) Messages() []domain.NotebookMessage { return n }
