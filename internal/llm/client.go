package llm

import "context"

// Chunk es un fragmento de texto emitido por el backend durante el stream.
// Si Err no es nil es el último elemento del canal.
type Chunk struct {
	Text string
	Err  error
}

// StreamClient define la interfaz para generar respuestas incrementales con un LLM.
type StreamClient interface {
	// StreamGenerate abre un stream con el prompt como único contenido.
	// El canal se cierra al terminar; un fallo a mitad llega como Chunk con Err.
	StreamGenerate(ctx context.Context, prompt string) (<-chan Chunk, error)
	IsConfigured() bool
	ProviderName() string
}

// send entrega el chunk salvo que el consumidor haya abandonado el stream.
func send(ctx context.Context, out chan<- Chunk, c Chunk) bool {
	select {
	case out <- c:
		return true
	case <-ctx.Done():
		return false
	}
}
