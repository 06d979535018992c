package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"chat-helper/internal/config"
	"chat-helper/internal/db"
	"chat-helper/internal/repository"
)

var ErrUnknownStore = errors.New("unknown notebook store")

// openNotebookStore abre el backend elegido en NOTEBOOK_STORE. El closer nunca es nil.
func openNotebookStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.NotebookRepository, func(), error) {
	noop := func() {}

	switch cfg.NotebookStore {
	case config.StoreBolt, "":
		bdb, err := db.OpenBolt(cfg.NotebookPath)
		if err != nil {
			return nil, noop, err
		}
		logger.Debug("notebook store", zap.String("backend", config.StoreBolt), zap.String("path", cfg.NotebookPath))
		return repository.NewBoltNotebookRepository(bdb), func() { _ = bdb.Close() }, nil

	case config.StoreSQLite:
		sdb, err := db.OpenSQLite(cfg.NotebookPath)
		if err != nil {
			return nil, noop, err
		}
		repo := repository.NewSQLiteNotebookRepository(sdb)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = sdb.Close()
			return nil, noop, err
		}
		logger.Debug("notebook store", zap.String("backend", config.StoreSQLite), zap.String("path", cfg.NotebookPath))
		return repo, func() { _ = sdb.Close() }, nil

	case config.StoreRedis:
		client, err := db.NewRedisClient(ctx, cfg)
		if err != nil {
			return nil, noop, err
		}
		logger.Debug("notebook store", zap.String("backend", config.StoreRedis), zap.String("addr", cfg.RedisAddr))
		return repository.NewRedisNotebookRepository(client), func() { _ = client.Close() }, nil

	case config.StorePostgres:
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			return nil, noop, err
		}
		repo := repository.NewPgNotebookRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, noop, err
		}
		logger.Debug("notebook store", zap.String("backend", config.StorePostgres))
		return repo, pool.Close, nil

	case config.StoreMemory:
		logger.Debug("notebook store", zap.String("backend", config.StoreMemory))
		return repository.NewMemoryNotebookRepository(), noop, nil

	default:
		return nil, noop, fmt.Errorf("%w: %q", ErrUnknownStore, cfg.NotebookStore)
	}
}
