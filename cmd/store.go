package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/locations-cli/internal/config"
	"github.com/sells-group/locations-cli/internal/store"
)

// openStore creates the configured store backend and runs migrations.
func openStore(ctx context.Context, cfg config.StoreConfig) (store.Store, error) {
	var (
		s   store.Store
		err error
	)
	switch cfg.Driver {
	case "sqlite", "":
		s, err = store.NewSQLite(cfg.Path)
	case "postgres":
		s, err = store.NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}
