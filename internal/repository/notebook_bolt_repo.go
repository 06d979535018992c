package repository

import (
	"context"

	bolt "go.etcd.io/bbolt"

	"chat-helper/internal/domain"
)

var notebookBucket = []byte("notebook")

// BoltNotebookRepository guarda el slot en un archivo bbolt local.
type BoltNotebookRepository struct {
	db *bolt.DB
}

func NewBoltNotebookRepository(db *bolt.DB) *BoltNotebookRepository {
	return &BoltNotebookRepository{db: db}
}

func (r *BoltNotebookRepository) Load(_ context.Context) ([]domain.NotebookMessage, error) {
	var data []byte
	err := r.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(notebookBucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(NotebookKey)); v != nil {
			// v solo es válido dentro de la transacción.
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return decodeNotebook(data)
}

func (r *BoltNotebookRepository) Save(_ context.Context, messages []domain.NotebookMessage) error {
	data, err := encodeNotebook(messages)
	if err != nil {
		return err
	}
	return r.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(notebookBucket)
		if err != nil {
			return err
		}
		return b.Put([]byte(NotebookKey), data)
	})
}

func (r *BoltNotebookRepository) Delete(_ context.Context) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(notebookBucket)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(NotebookKey))
	})
}
