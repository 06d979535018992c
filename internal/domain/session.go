package domain

// SessionState es el estado de la sesión del asistente en el cliente.
type SessionState string

const (
	SessionIdle             SessionState = "idle"
	SessionAwaitingResponse SessionState = "awaiting-response"
)

// SessionEvent dispara una transición de SessionState.
type SessionEvent string

const (
	EventSubmit      SessionEvent = "submit"
	EventStreamEnd   SessionEvent = "stream-end"
	EventStreamError SessionEvent = "stream-error"
)

var sessionTransitions = map[SessionState]map[SessionEvent]SessionState{
	SessionIdle: {
		EventSubmit: SessionAwaitingResponse,
	},
	SessionAwaitingResponse: {
		EventStreamEnd:   SessionIdle,
		EventStreamError: SessionIdle,
	},
}

// Next devuelve el estado destino para el evento, o false si la transición no existe.
func (s SessionState) Next(ev SessionEvent) (SessionState, bool) {
	next, ok := sessionTransitions[s][ev]
	return next, ok
}
