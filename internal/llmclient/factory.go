// -- internal/llmclient/factory.go --
package llmclient

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mindsetos/teamreport/api/schemas"
	"github.com/mindsetos/teamreport/internal/config"
)

// NewTextGenerator creates the configured generator, paced by llm.requests_per_minute.
func NewTextGenerator(ctx context.Context, cfg config.LLMConfig, logger *zap.Logger) (schemas.TextGenerator, error) {
	var (
		gen schemas.TextGenerator
		err error
	)
	switch cfg.Provider {
	case config.ProviderGemini:
		gen, err = NewGeminiClient(ctx, cfg, logger)
	case config.ProviderFake:
		logger.Warn("Using the fake text generator; reports will contain placeholder content.")
		gen = NewFakeGenerator()
	default:
		return nil, fmt.Errorf("unknown or unsupported LLM provider configured: '%s'. Supported: [%s, %s]",
			cfg.Provider, config.ProviderGemini, config.ProviderFake)
	}
	if err != nil {
		return nil, err
	}
	return WithRateLimit(gen, cfg.RequestsPerMinute, cfg.Burst), nil
}
