package domain

// Direction indica si un mensaje del cuaderno fue enviado o recibido.
type Direction string

const (
	DirectionSent     Direction = "sent"
	DirectionReceived Direction = "received"
)

// Role identifica al autor de un mensaje del diálogo con el asistente.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// NotebookMessage es una entrada del cuaderno personal. Inmutable una vez creada.
type NotebookMessage struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Timestamp int64     `json:"timestamp"`
	Type      Direction `json:"type"`
}

// AssistantMessage es una entrada del diálogo con el asistente.
// El texto del mensaje de rol assistant se completa mientras dura el stream.
type AssistantMessage struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Role      Role   `json:"role"`
	Timestamp int64  `json:"timestamp"`
}
