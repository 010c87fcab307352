package kvstore

import (
	"context"
	"fmt"

	"github.com/looply/looply-backend/pkg/config"
	"github.com/looply/looply-backend/pkg/database"
	"github.com/looply/looply-backend/pkg/logger"
)

// Open builds the backend selected by cfg.Driver
func Open(ctx context.Context, cfg *config.StorageConfig, log *logger.Logger) (Backend, error) {
	switch cfg.Driver {
	case config.DriverMemory, "":
		log.Warn().Msg("using in-memory storage; data is lost on restart")
		return NewMemoryStore(), nil

	case config.DriverPostgres, config.DriverSQLite:
		db, err := database.New(cfg, log)
		if err != nil {
			return nil, err
		}
		store := NewSQLStore(db)
		if err := store.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return store, nil

	case config.DriverMongo:
		return NewMongoStore(ctx, cfg.URL, cfg.Database, cfg.Collection)

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
