package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"chat-helper/internal/domain"
)

type redisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisNotebookRepository guarda el slot como un string JSON sin expiración.
type RedisNotebookRepository struct {
	client redisKV
	key    string
}

func NewRedisNotebookRepository(client *redis.Client) *RedisNotebookRepository {
	return &RedisNotebookRepository{
		client: client,
		key:    "notebook:" + NotebookKey,
	}
}

func (r *RedisNotebookRepository) Load(ctx context.Context) ([]domain.NotebookMessage, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeNotebook(data)
}

func (r *RedisNotebookRepository) Save(ctx context.Context, messages []domain.NotebookMessage) error {
	data, err := encodeNotebook(messages)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key, data, 0).Err()
}

func (r *RedisNotebookRepository) Delete(ctx context.Context) error {
	return r.client.Del(ctx, r.key).Err()
}
