package store

import (
	"context"
	"fmt"

	"github.com/mrops-br/storefront/internal/domain"
	"github.com/mrops-br/storefront/internal/infrastructure/config"
)

// Open builds the key-value backend selected by cfg.Driver.
// The returned close func is never nil.
func Open(ctx context.Context, cfg *config.StoreConfig) (domain.KeyValueStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Driver {
	case "", "memory":
		return NewMemoryStore(), noop, nil
	case "file":
		s, err := OpenFileStore(cfg.Path)
		if err != nil {
			return nil, noop, err
		}
		return s, noop, nil
	case "postgres":
		db, err := Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		s, err := NewPostgresStore(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, noop, err
		}
		return s, db.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
