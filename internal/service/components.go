// File: internal/service/components.go
package service

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mindsetos/teamreport/api/schemas"
	"github.com/mindsetos/teamreport/internal/catalog"
	"github.com/mindsetos/teamreport/internal/observability"
	"github.com/mindsetos/teamreport/internal/prompt"
	"github.com/mindsetos/teamreport/internal/reportgen"
)

// Components holds everything a command needs to serve or generate reports.
// Generator, Compiler and Gateway are nil when the factory was asked for
// ScopeStore only.
type Components struct {
	Store     schemas.Store
	Registry  *catalog.Registry
	Compiler  *prompt.Compiler
	Generator schemas.TextGenerator
	Metrics   *observability.Metrics
	Gateway   *reportgen.Gateway
	DBPool    *pgxpool.Pool

	// purge drops cached team aggregates, when a cache is in use.
	purge func()
}

// PurgeCache drops cached team aggregates. It is a no-op without a cache.
func (c *Components) PurgeCache() {
	if c.purge != nil {
		c.purge()
	}
}

// Shutdown releases the database pool. It is safe to call on a partially
// built Components.
func (c *Components) Shutdown() {
	logger := observability.GetLogger()
	if c.DBPool != nil {
		c.DBPool.Close()
		logger.Debug("Database connection pool closed.")
	}
	logger.Debug("Components shut down.")
}
