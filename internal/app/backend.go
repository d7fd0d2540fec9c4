package app

import (
	"fmt"

	"go.uber.org/zap"

	"vvf-listone/config"
	"vvf-listone/internal/repository"
	"vvf-listone/internal/storage"
	"vvf-listone/pkg/database"
	"vvf-listone/pkg/redis"
)

// Backend the key-value store selected by storage.driver plus the optional Redis
// connection used for rate limiting.
type Backend struct {
	Store storage.Store
	Redis *redis.Client           // nil when not configured or unreachable
	KV    repository.KVRepository // set only for the postgres driver

	closers []func()
}

// OpenBackend connects the configured driver.
// Redis is also dialled when export.rate_limit > 0; with a non-redis driver a
// failed dial only disables rate limiting.
func OpenBackend(cfg *config.Config, logger *zap.Logger) (*Backend, error) {
	b := &Backend{}

	switch cfg.Storage.Driver {
	case config.DriverMemory:
		b.Store = storage.NewMemoryStore()
		logger.Warn("storage driver is memory, state is lost on restart")

	case config.DriverRedis:
		rdb, err := redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", storage.ErrUnavailable, err)
		}
		b.Redis = rdb
		b.Store = rdb
		b.closers = append(b.closers, func() { rdb.Close() })

	case config.DriverPostgres:
		db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", storage.ErrUnavailable, err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("get sql.DB: %w", err)
		}
		b.closers = append(b.closers, func() { sqlDB.Close() })
		if err := database.RunMigrations(sqlDB, logger); err != nil {
			b.Close()
			return nil, err
		}
		repo := repository.NewRepository(db)
		b.KV = repo.KV
		b.Store = repo.KV

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	if b.Redis == nil && cfg.Export.RateLimit > 0 {
		rdb, err := redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("redis unreachable, document rate limiting disabled", zap.Error(err))
		} else {
			b.Redis = rdb
			b.closers = append(b.closers, func() { rdb.Close() })
		}
	}

	logger.Info("storage ready", zap.String("driver", cfg.Storage.Driver), zap.String("namespace", cfg.Storage.Namespace))
	return b, nil
}

// Close releases every connection, last opened first
func (b *Backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
	b.closers = nil
}
