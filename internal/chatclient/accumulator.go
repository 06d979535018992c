package chatclient

import (
	"strings"
	"unicode/utf8"
)

// accumulator concatena los bytes recibidos y retiene una secuencia UTF-8
// incompleta al final hasta que llegue el resto.
type accumulator struct {
	text    strings.Builder
	pending []byte
}

// Append agrega p y devuelve el texto acumulado completo.
func (a *accumulator) Append(p []byte) string {
	a.pending = append(a.pending, p...)
	cut := completePrefix(a.pending)
	a.text.Write(a.pending[:cut])
	a.pending = append(a.pending[:0], a.pending[cut:]...)
	return a.text.String()
}

// Finish vuelca lo retenido; bytes inválidos se reemplazan por U+FFFD.
func (a *accumulator) Finish() string {
	a.text.Write(a.pending)
	a.pending = nil
	return strings.ToValidUTF8(a.text.String(), string(utf8.RuneError))
}

func completePrefix(b []byte) int {
	for i := len(b) - 1; i >= 0 && i > len(b)-utf8.UTFMax; i-- {
		if !utf8.RuneStart(b[i]) {
			continue
		}
		if utf8.FullRune(b[i:]) {
			return len(b)
		}
		return i
	}
	return len(b)
}
