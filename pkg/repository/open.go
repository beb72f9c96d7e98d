package repository

import (
	"context"
	"fmt"

	"github.com/example/gourmet/pkg/config"
)

// Open connects the backend selected by cfg.Storage.Driver.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Storage.Driver {
	case "mongo":
		repo, err := NewMongoRepository(&cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = repo.Close(ctx)
			return nil, err
		}
		return repo, nil
	case "mysql":
		return NewMySQLRepository(&cfg.MySQL)
	case "sqlite":
		return NewSQLiteRepository(cfg.SQLite.Path)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
