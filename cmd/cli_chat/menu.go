package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"chat-helper/internal/chatclient"
	"chat-helper/internal/domain"
	"chat-helper/internal/service"
)

// chatApp es el loop interactivo: cuaderno a la izquierda, asistente a la derecha.
type chatApp struct {
	notebook *service.NotebookService
	session  *chatclient.Session
	reader   *bufio.Reader
	out      io.Writer
	logger   *zap.Logger
}

func (a *chatApp) run(ctx context.Context) error {
	for {
		fmt.Fprintln(a.out, "\n===== Chat Notebook =====")
		fmt.Fprintln(a.out, "[1] Enviar mensaje")
		fmt.Fprintln(a.out, "[2] Registrar mensaje recibido")
		fmt.Fprintln(a.out, "[3] Ver chat")
		fmt.Fprintln(a.out, "[4] Preguntar al asistente")
		fmt.Fprintln(a.out, "[5] Limpiar chat")
		fmt.Fprintln(a.out, "[6] Salir")
		fmt.Fprint(a.out, "Selecciona una opcion: ")

		line, err := a.reader.ReadString('\n')
		if err != nil && line == "" {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("leer input: %w", err)
		}

		switch strings.TrimSpace(line) {
		case "1":
			a.addFlow(ctx, domain.DirectionSent)
		case "2":
			a.addFlow(ctx, domain.DirectionReceived)
		case "3":
			a.listFlow()
		case "4":
			a.askFlow(ctx)
		case "5":
			if err := a.notebook.Clear(ctx); err != nil {
				fmt.Fprintf(a.out, "Error limpiando chat: %v\n", err)
				continue
			}
			fmt.Fprintln(a.out, "Chat vacio.")
		case "6":
			return nil
		default:
			fmt.Fprintln(a.out, "Opcion invalida.")
		}
	}
}

func (a *chatApp) addFlow(ctx context.Context, direction domain.Direction) {
	fmt.Fprint(a.out, "Mensaje: ")
	text, _ := a.reader.ReadString('\n')

	msg, err := a.notebook.Add(ctx, text, direction)
	if errors.Is(err, service.ErrNotebookEmptyText) {
		return
	}
	if err != nil {
		fmt.Fprintf(a.out, "Error guardando mensaje: %v\n", err)
		return
	}
	a.logger.Debug("notebook message added", zap.String("id", msg.ID), zap.String("type", string(msg.Type)))
}

func (a *chatApp) listFlow() {
	messages := a.notebook.Messages()
	if len(messages) == 0 {
		fmt.Fprintln(a.out, "(sin mensajes)")
		return
	}
	for _, m := range messages {
		arrow := ">"
		if m.Type == domain.DirectionReceived {
			arrow = "<"
		}
		at := time.UnixMilli(m.Timestamp).Format("15:04")
		fmt.Fprintf(a.out, "%s %s %s\n", at, arrow, m.Text)
	}
}

func (a *chatApp) askFlow(ctx context.Context) {
	fmt.Fprint(a.out, "Pregunta > ")
	question, _ := a.reader.ReadString('\n')
	if strings.TrimSpace(question) == "" {
		return
	}

	fmt.Fprint(a.out, "Asistente > ")
	printed := ""
	_, err := a.session.Ask(ctx, question, func(m domain.AssistantMessage) {
		// Solo se imprime el delta; si el texto fue reemplazado se reimprime completo.
		if strings.HasPrefix(m.Text, printed) {
			fmt.Fprint(a.out, m.Text[len(printed):])
		} else {
			fmt.Fprint(a.out, "\n"+m.Text)
		}
		printed = m.Text
	})
	fmt.Fprintln(a.out)

	switch {
	case errors.Is(err, chatclient.ErrSessionBusy):
		fmt.Fprintln(a.out, "El asistente todavia esta respondiendo.")
	case err != nil:
		a.logger.Warn("assistant request failed", zap.Error(err))
	}
}
