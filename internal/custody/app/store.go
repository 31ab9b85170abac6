package app

import (
	"context"
	"fmt"

	"github.com/aussiebroadwan/custody/internal/custody/revocation"
	"github.com/aussiebroadwan/custody/internal/custody/store"
	"github.com/aussiebroadwan/custody/internal/custody/store/drivers/jsonfile"
	"github.com/aussiebroadwan/custody/internal/custody/store/drivers/sqlite"
)

// OpenStore opens the document store with the configured driver.
func OpenStore(ctx context.Context, cfg Config) (*store.DocStore, error) {
	switch cfg.StoreDriver {
	case "json", "":
		return jsonfile.Open(ctx, cfg.DatabaseFile)
	case "sqlite":
		dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", cfg.DatabaseFile)
		return sqlite.Open(ctx, dsn)
	case "memory":
		p, err := store.NewMemoryPersister(nil)
		if err != nil {
			return nil, err
		}
		return store.Open(ctx, p)
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}

// OpenRevocations returns the configured revocation set.
func OpenRevocations(ctx context.Context, cfg Config) (revocation.Set, error) {
	switch cfg.RevocationBackend {
	case "memory", "":
		return revocation.NewMemory(), nil
	case "redis":
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("REVOCATION_BACKEND=redis needs REDIS_URL")
		}
		return revocation.Connect(ctx, cfg.RedisURL)
	default:
		return nil, fmt.Errorf("unknown REVOCATION_BACKEND %q", cfg.RevocationBackend)
	}
}
