package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"chat-helper/internal/domain"
)

type PgNotebookRepository struct {
	pool *pgxpool.Pool
}

func NewPgNotebookRepository(pool *pgxpool.Pool) *PgNotebookRepository {
	return &PgNotebookRepository{pool: pool}
}

func (r *PgNotebookRepository) EnsureSchema(ctx context.Context) error {
	const query = `
		CREATE TABLE IF NOT EXISTS kv_slots (
			key TEXT PRIMARY KEY,
			value JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`
	_, err := r.pool.Exec(ctx, query)
	return err
}

func (r *PgNotebookRepository) Load(ctx context.Context) ([]domain.NotebookMessage, error) {
	const query = `
		SELECT value
		FROM kv_slots
		WHERE key = $1
	`
	var data []byte
	err := r.pool.QueryRow(ctx, query, NotebookKey).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeNotebook(data)
}

func (r *PgNotebookRepository) Save(ctx context.Context, messages []domain.NotebookMessage) error {
	data, err := encodeNotebook(messages)
	if err != nil {
		return err
	}
	const query = `
		INSERT INTO kv_slots (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`
	_, err = r.pool.Exec(ctx, query, NotebookKey, data)
	return err
}

func (r *PgNotebookRepository) Delete(ctx context.Context) error {
	const query = `DELETE FROM kv_slots WHERE key = $1`
	_, err := r.pool.Exec(ctx, query, NotebookKey)
	return err
}
