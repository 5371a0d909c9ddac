package llmclient

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/mindsetos/teamreport/api/schemas"
)

// rateLimitedGenerator paces calls to the wrapped generator. A call waits for a
// token until its context ends; nothing is retried.
type rateLimitedGenerator struct {
	base    schemas.TextGenerator
	limiter *rate.Limiter
}

// WithRateLimit wraps gen so that at most perMinute calls start per minute,
// with the given burst. A non-positive perMinute returns gen unchanged.
func WithRateLimit(gen schemas.TextGenerator, perMinute float64, burst int) schemas.TextGenerator {
	if perMinute <= 0 {
		return gen
	}
	if burst < 1 {
		burst = 1
	}
	return &rateLimitedGenerator{
		base:    gen,
		limiter: rate.NewLimiter(rate.Limit(perMinute/60), burst),
	}
}

func (r *rateLimitedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("waiting for llm rate limit: %w", err)
	}
	return r.base.Generate(ctx, prompt)
}
