package llmclient

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mindsetos/teamreport/internal/config"
)

func TestNewTextGenerator(t *testing.T) {
	ctx := context.Background()

	t.Run("fake provider", func(t *testing.T) {
		gen, err := NewTextGenerator(ctx, config.LLMConfig{Provider: config.ProviderFake}, zap.NewNop())
		require.NoError(t, err)
		assert.IsType(t, &FakeGenerator{}, gen)
	})

	t.Run("fake provider with pacing", func(t *testing.T) {
		gen, err := NewTextGenerator(ctx, config.LLMConfig{Provider: config.ProviderFake, RequestsPerMinute: 60}, zap.NewNop())
		require.NoError(t, err)
		assert.IsType(t, &rateLimitedGenerator{}, gen)
	})

	t.Run("gemini without a key", func(t *testing.T) {
		_, err := NewTextGenerator(ctx, config.LLMConfig{Provider: config.ProviderGemini}, zap.NewNop())
		assert.ErrorContains(t, err, "API key is required")
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := NewTextGenerator(ctx, config.LLMConfig{Provider: "openai"}, zap.NewNop())
		assert.ErrorContains(t, err, "unknown or unsupported LLM provider configured: 'openai'")
	})
}
