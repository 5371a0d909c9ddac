package llmclient

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// manifestLine matches the "n. Title (id: id)" lines of a compiled prompt.
var manifestLine = regexp.MustCompile(`(?m)^(\d+)\. (.+) \(id: ([^)]+)\)$`)

// FakeGenerator answers without a network call. It reads the module manifest
// out of the prompt and returns one placeholder section per listed module, so
// the whole pipeline can run locally and in tests.
type FakeGenerator struct{}

// NewFakeGenerator returns a FakeGenerator.
func NewFakeGenerator() *FakeGenerator { return &FakeGenerator{} }

func (FakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("# Team Diagnostic Report\n\n")
	b.WriteString("_Generated offline by the fake text generator._\n")

	seen := make(map[string]bool)
	for _, m := range manifestLine.FindAllStringSubmatch(prompt, -1) {
		n, title, id := m[1], m[2], m[3]
		if seen[n] {
			continue
		}
		seen[n] = true
		fmt.Fprintf(&b, "\n---\n\n### MODULE %s: %s\n\nPlaceholder content for %s (%s).\n", n, strings.ToUpper(title), title, id)
	}
	return b.String(), nil
}
