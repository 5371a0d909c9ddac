package llmclient

import (
	"context"
	"strings"
	"sync/atomic"
)

func indexOf(s, sub string) int { return strings.Index(s, sub) }

func countOf(s, sub string) int { return strings.Count(s, sub) }

// countingGenerator records how many calls reach it.
type countingGenerator struct {
	calls atomic.Int32
	reply string
	err   error
}

func (c *countingGenerator) Generate(_ context.Context, _ string) (string, error) {
	c.calls.Add(1)
	return c.reply, c.err
}
