// File: internal/service/initializers.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/mindsetos/teamreport/api/schemas"
	"github.com/mindsetos/teamreport/internal/archive"
	"github.com/mindsetos/teamreport/internal/config"
	"github.com/mindsetos/teamreport/internal/store"
)

// InitializeStore connects to PostgreSQL, or falls back to an in-memory store
// when no database URL is configured. The returned pool is nil for the
// in-memory store.
func InitializeStore(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (schemas.Store, *pgxpool.Pool, error) {
	if cfg.URL == "" {
		logger.Warn("No database URL configured; using a temporary in-memory store. Saved reports and seeded teams are lost on exit.")
		return store.NewMemoryStore(), nil, nil
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to parse database URL: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	poolConfig.MaxConnLifetime = 1 * time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to create database connection pool: %w", err)
	}

	pgStore, err := store.New(ctx, pool, logger)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to initialize database store: %w", err)
	}
	logger.Info("Connected to PostgreSQL.", zap.String("host", poolConfig.ConnConfig.Host))
	return pgStore, pool, nil
}

// WrapStore layers the optional aggregate cache and report archive over base.
// The purge function is nil when caching is disabled.
func WrapStore(base schemas.Store, cache config.CacheConfig, arch config.ArchiveConfig, logger *zap.Logger) (schemas.Store, func(), error) {
	s := base
	var purge func()

	if arch.Enabled {
		a, err := archive.New(arch)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize report archive: %w", err)
		}
		s = archive.Wrap(s, a, logger)
		logger.Info("Report archive enabled.", zap.String("endpoint", arch.Endpoint), zap.String("bucket", arch.Bucket))
	}

	if cache.Enabled {
		cached := store.NewCachedStore(s, cache.Size, cache.TTL)
		s = cached
		purge = cached.Purge
		logger.Debug("Team aggregate cache enabled.", zap.Int("size", cache.Size), zap.Duration("ttl", cache.TTL))
	}
	return s, purge, nil
}
