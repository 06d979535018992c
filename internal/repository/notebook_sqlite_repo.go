package repository

import (
	"context"
	"database/sql"
	"errors"

	"chat-helper/internal/domain"
)

// SQLiteNotebookRepository guarda el slot en la tabla kv_slots de un archivo SQLite.
type SQLiteNotebookRepository struct {
	db *sql.DB
}

func NewSQLiteNotebookRepository(db *sql.DB) *SQLiteNotebookRepository {
	return &SQLiteNotebookRepository{db: db}
}

// EnsureSchema crea la tabla de slots si no existe.
func (r *SQLiteNotebookRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS kv_slots (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at INTEGER NOT NULL DEFAULT (unixepoch())
		)
	`)
	return err
}

func (r *SQLiteNotebookRepository) Load(ctx context.Context) ([]domain.NotebookMessage, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM kv_slots WHERE key = ?`, NotebookKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeNotebook([]byte(value))
}

func (r *SQLiteNotebookRepository) Save(ctx context.Context, messages []domain.NotebookMessage) error {
	data, err := encodeNotebook(messages)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO kv_slots (key, value, updated_at) VALUES (?, ?, unixepoch())
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, NotebookKey, string(data))
	return err
}

func (r *SQLiteNotebookRepository) Delete(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM kv_slots WHERE key = ?`, NotebookKey)
	return err
}
