// internal/llmclient/gemini.go
package llmclient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/mindsetos/teamreport/internal/config"
)

// contentGenerator is the slice of genai.Models the client calls.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiClient sends a compiled prompt to a Gemini model in a single request.
// It never retries; failures go straight back to the caller.
type GeminiClient struct {
	models contentGenerator
	model  string
	genCfg *genai.GenerateContentConfig
	logger *zap.Logger
}

// NewGeminiClient builds a client on the official genai SDK.
func NewGeminiClient(ctx context.Context, cfg config.LLMConfig, logger *zap.Logger) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required (set llm.api_key or GEMINI_API_KEY)")
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return newGeminiClient(cli.Models, cfg, logger), nil
}

func newGeminiClient(models contentGenerator, cfg config.LLMConfig, logger *zap.Logger) *GeminiClient {
	genCfg := &genai.GenerateContentConfig{MaxOutputTokens: cfg.MaxOutputTokens}
	if cfg.Temperature > 0 {
		genCfg.Temperature = genai.Ptr(cfg.Temperature)
	}
	if cfg.TopP > 0 {
		genCfg.TopP = genai.Ptr(cfg.TopP)
	}
	return &GeminiClient{
		models: models,
		model:  cfg.Model,
		genCfg: genCfg,
		logger: logger.Named("llm_client.gemini"),
	}
}

// Model returns the model name requests are sent to.
func (c *GeminiClient) Model() string { return c.model }

// Generate returns the model's text for prompt.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt), c.genCfg)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("gemini returned empty content (finish reason: %s)", resp.Candidates[0].FinishReason)
	}

	fields := []zap.Field{
		zap.String("model", c.model),
		zap.Duration("duration", time.Since(start)),
		zap.Int("completion_chars", len(text)),
	}
	if u := resp.UsageMetadata; u != nil {
		fields = append(fields,
			zap.Int32("prompt_tokens", u.PromptTokenCount),
			zap.Int32("completion_tokens", u.CandidatesTokenCount),
			zap.Int32("total_tokens", u.TotalTokenCount),
		)
	}
	c.logger.Info("LLM generation complete (Gemini)", fields...)
	return text, nil
}
