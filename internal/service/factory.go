// File: internal/service/factory.go
package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mindsetos/teamreport/internal/catalog"
	"github.com/mindsetos/teamreport/internal/config"
	"github.com/mindsetos/teamreport/internal/llmclient"
	"github.com/mindsetos/teamreport/internal/observability"
	"github.com/mindsetos/teamreport/internal/prompt"
	"github.com/mindsetos/teamreport/internal/reportgen"
)

// Scope selects how much of the component graph Create builds.
type Scope int

const (
	// ScopeStore builds the store and the module registry. Directory browsing,
	// seeding and migrations need nothing else.
	ScopeStore Scope = iota
	// ScopeFull also builds the text generator and the gateway.
	ScopeFull
)

// ComponentFactory creates the component graph for a command. Commands depend
// on the interface so tests can substitute their own components.
type ComponentFactory interface {
	Create(ctx context.Context, cfg config.Interface, scope Scope, logger *zap.Logger) (*Components, error)
}

// concreteFactory is the production implementation of the ComponentFactory.
type concreteFactory struct {
	metrics *observability.Metrics
}

// NewComponentFactory creates a factory that records to metrics. Nil metrics
// means the process-wide default registry.
func NewComponentFactory(metrics *observability.Metrics) ComponentFactory {
	if metrics == nil {
		metrics = observability.DefaultMetrics()
	}
	return &concreteFactory{metrics: metrics}
}

// Create wires the store, registry, compiler, generator and gateway.
func (f *concreteFactory) Create(ctx context.Context, cfg config.Interface, scope Scope, logger *zap.Logger) (*Components, error) {
	components := &Components{Metrics: f.metrics}

	var initializationErr error
	defer func() {
		if initializationErr != nil {
			logger.Warn("Initialization failed, shutting down partially created components.", zap.Error(initializationErr))
			components.Shutdown()
		}
	}()

	// 1. Store
	base, pool, err := InitializeStore(ctx, cfg.Database(), logger)
	if err != nil {
		initializationErr = err
		return nil, initializationErr
	}
	components.DBPool = pool

	st, purge, err := WrapStore(base, cfg.Cache(), cfg.Archive(), logger)
	if err != nil {
		initializationErr = err
		return nil, initializationErr
	}
	components.Store = st
	components.purge = purge
	logger.Debug("Store initialized.")

	// 2. Module registry
	registry, err := catalog.Load(cfg.Prompt().CatalogFile)
	if err != nil {
		initializationErr = err
		return nil, initializationErr
	}
	components.Registry = registry
	logger.Debug("Module registry loaded.", zap.Strings("modules", registry.IDs()))

	if scope == ScopeStore {
		return components, nil
	}

	// 3. Prompt compiler
	preamble := prompt.LoadPreamble(cfg.Prompt().PreambleFile, logger)
	components.Compiler = prompt.NewCompiler(registry, preamble)

	// 4. Text generator
	generator, err := llmclient.NewTextGenerator(ctx, cfg.LLM(), logger)
	if err != nil {
		initializationErr = fmt.Errorf("failed to initialize text generator: %w", err)
		return nil, initializationErr
	}
	components.Generator = generator

	// 5. Gateway
	components.Gateway = reportgen.New(registry, components.Compiler, generator, logger,
		reportgen.WithDirectory(st),
		reportgen.WithReportStore(st),
		reportgen.WithMetrics(f.metrics),
		reportgen.WithTimeout(cfg.LLM().Timeout),
		reportgen.WithVersion(cfg.Report().Version),
	)

	logger.Info("All components initialized.",
		zap.String("llm_provider", string(cfg.LLM().Provider)),
		zap.String("llm_model", cfg.LLM().Model),
		zap.Bool("persistent_store", pool != nil))
	return components, nil
}
