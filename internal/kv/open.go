package kv

import (
	"context"
	"fmt"
	"log/slog"

	"discovery/internal/cache"
	"discovery/internal/config"
	"discovery/internal/database"
	"discovery/internal/storage"
)

// Open builds the Store selected by cfg.StoreBackend. The returned close
// function releases any connection the backend holds and is never nil.
func Open(ctx context.Context, cfg *config.Config) (Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.StoreBackend {
	case config.BackendMemory:
		slog.Warn("using in-memory store, changes will not survive exit")
		return NewMemory(), noop, nil

	case config.BackendSQLite:
		db, err := database.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := database.Migrate(db, database.DialectSQLite); err != nil {
			db.Close()
			return nil, nil, err
		}
		return database.NewKV(db, database.DialectSQLite), db.Close, nil

	case config.BackendPostgres:
		db, err := database.Connect(cfg.DSN())
		if err != nil {
			return nil, nil, err
		}
		if err := database.Migrate(db, database.DialectPostgres); err != nil {
			db.Close()
			return nil, nil, err
		}
		return database.NewKV(db, database.DialectPostgres), db.Close, nil

	case config.BackendValkey:
		client, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword, cfg.ValkeyDB)
		if err != nil {
			return nil, nil, err
		}
		return cache.NewKV(client, cfg.StorePrefix), client.Close, nil

	case config.BackendS3:
		s, err := storage.New(storage.Options{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			Prefix:    cfg.StorePrefix,
		})
		if err != nil {
			return nil, nil, err
		}
		// Probe so a bad endpoint fails at startup.
		if _, _, err := s.Get(ctx, "saved-items"); err != nil {
			return nil, nil, fmt.Errorf("s3 probe: %w", err)
		}
		return s, noop, nil
	}

	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}
