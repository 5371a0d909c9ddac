// Package prompt turns a team aggregate and an ordered module selection into
// the single instruction document sent to the text generator.
package prompt

import (
	"fmt"
	"strings"

	"github.com/mindsetos/teamreport/api/schemas"
	"github.com/mindsetos/teamreport/internal/catalog"
)

// Section headers of a compiled prompt.
const (
	HeaderOutputRequirements = outputRequirementsMarker
	HeaderToneAndStyle       = "🗣️ TONE & STYLE GUIDELINES"
	HeaderExclusions         = "=== DO NOT GENERATE ==="
	HeaderTeamContext        = "=== TEAM CONTEXT ==="
	HeaderModuleOrder        = "=== CRITICAL: MODULE ORDER AND SELECTION ==="
	HeaderStrictInstructions = "=== STRICT INSTRUCTIONS ==="

	// ModuleSeparator delimits consecutive module blocks.
	ModuleSeparator = "\n\n---\n\n"

	exclusionLead = "DO NOT include or generate any content for these modules: "
)

// Report length targets restated in the style and strict-instruction blocks.
const (
	TargetTotalWords   = "1,500–2,000"
	TargetSummaryWords = "400–600"
)

var toneAndStyle = []string{
	"- " + TargetSummaryWords + " word executive summary: concise, detailed, synthesised",
	"- Total report should be " + TargetTotalWords + " words",
	"- Deep psychological insight without jargon",
	"- Business clarity always explicit",
	"- No individual data, items, or question wording",
	"- High authority, consulting-grade tone",
	"- Use MindsetOS language naturally",
}

// Compiler builds prompts. It holds only immutable data, so one instance may be
// shared by any number of concurrent requests.
type Compiler struct {
	registry *catalog.Registry
	preamble string
}

// NewCompiler returns a compiler that computes exclusions against registry.
// An empty preamble selects the embedded default.
func NewCompiler(registry *catalog.Registry, preamble string) *Compiler {
	if strings.TrimSpace(preamble) == "" {
		preamble = DefaultPreamble()
	}
	return &Compiler{registry: registry, preamble: strings.TrimSpace(preamble)}
}

// Compile produces the prompt for team and the ordered, already resolved
// modules. Identical inputs always yield an identical string.
func (c *Compiler) Compile(team schemas.TeamAggregate, modules []catalog.Module) (string, error) {
	if len(modules) == 0 {
		return "", schemas.ErrEmptySelection
	}
	excluded := c.excludedTitles(modules)

	var b strings.Builder
	b.WriteString(c.preamble)
	b.WriteString("\n\n")
	b.WriteString(HeaderOutputRequirements)
	b.WriteString("\nProduce a fully formatted, professional Markdown report using the following structure.")
	b.WriteString(ModuleSeparator)

	for i, m := range modules {
		b.WriteString(Renumber(m.PromptTemplate(), i+1))
		b.WriteString(ModuleSeparator)
	}

	b.WriteString(HeaderToneAndStyle)
	b.WriteString("\n")
	b.WriteString(strings.Join(toneAndStyle, "\n"))
	b.WriteString("\n\n")

	if len(excluded) > 0 {
		writeExclusions(&b, excluded)
		b.WriteString("\n")
	}

	writeTeamContext(&b, team)
	b.WriteString("\n")

	c.writeModuleOrder(&b, modules, excluded)

	return b.String(), nil
}

func (c *Compiler) excludedTitles(modules []catalog.Module) []string {
	selected := make(map[string]struct{}, len(modules))
	for _, m := range modules {
		selected[m.ID] = struct{}{}
	}
	var titles []string
	for _, m := range c.registry.All() {
		if _, ok := selected[m.ID]; !ok {
			titles = append(titles, m.Title)
		}
	}
	return titles
}

func writeExclusions(b *strings.Builder, titles []string) {
	b.WriteString(HeaderExclusions)
	b.WriteString("\n")
	b.WriteString(exclusionLead)
	b.WriteString(strings.Join(titles, ", "))
	b.WriteString("\n")
}

func writeTeamContext(b *strings.Builder, team schemas.TeamAggregate) {
	b.WriteString(HeaderTeamContext)
	b.WriteString("\n")
	fmt.Fprintf(b, "Team name: %s\n", team.TeamName)
	if strings.TrimSpace(team.OrgName) != "" {
		fmt.Fprintf(b, "Organization: %s\n", team.OrgName)
	}
	b.WriteString("\nValues vector (company values or semantic vector text):\n")
	b.WriteString(team.ValuesVector)
	b.WriteString("\n\nAggregated narrative (team-level only, privacy respected):\n")
	b.WriteString(team.ResolvedNarrative())
	b.WriteString("\n")
}

// Manifest renders the positional order as "n. Title (id: id)" lines.
func Manifest(modules []catalog.Module) string {
	lines := make([]string, len(modules))
	for i, m := range modules {
		lines[i] = fmt.Sprintf("%d. %s (id: %s)", i+1, m.Title, m.ID)
	}
	return strings.Join(lines, "\n")
}

func (c *Compiler) writeModuleOrder(b *strings.Builder, modules []catalog.Module, excluded []string) {
	first := strings.ToUpper(modules[0].Title)

	b.WriteString(HeaderModuleOrder)
	b.WriteString("\n🚨 ABSOLUTE REQUIREMENT: You MUST generate modules in EXACTLY this order:\n")
	b.WriteString(Manifest(modules))
	b.WriteString("\n\n⚠️ ORDER IS MANDATORY:\n")
	b.WriteString("- Number the modules starting at 1, following the list above, regardless of any module numbers that appear in the module instructions.\n")
	fmt.Fprintf(b, "- The first module in the list above MUST be the first section in your report, labeled as \"MODULE 1: %s\".\n", first)
	fmt.Fprintf(b, "- Continue this pattern for all %d modules in the exact order shown above.\n\n", len(modules))

	c.writeExample(b, modules)

	b.WriteString("\nDO NOT reorder modules. DO NOT use the original module numbers from the module instructions above.\n")
	b.WriteString("Use ONLY the numbering given by the position in the list above.\n\n")

	if len(excluded) > 0 {
		writeExclusions(b, excluded)
		b.WriteString("\n")
	}

	b.WriteString(HeaderStrictInstructions)
	b.WriteString("\n")
	strict := []string{
		"- Generate ONLY the modules listed above, in the EXACT order shown.",
		"- The first module in the list above becomes \"MODULE 1\" in your output, regardless of what number it had in the instructions; the second becomes \"MODULE 2\", and so on.",
		"- If a module is not in the list above, it must NOT appear in your response at all.",
		"- Use only aggregated, team-level insights; no individual data, items, or question wording.",
		"- Apply the 7 Mindsets framework with Capacity vs Friction.",
		"- Tone: consulting-grade, " + TargetTotalWords + " words total; executive summary " + TargetSummaryWords + " words; minimal jargon.",
		"- Return clean Markdown only (no HTML).",
		"- Follow the structure and format specified for each module above, using the list-based module numbers.",
	}
	b.WriteString(strings.Join(strict, "\n"))
}

// templateNumber is the number a module's template was authored with: its
// first marker, else its registry position.
func (c *Compiler) templateNumber(m catalog.Module) int {
	if n, ok := MarkerNumber(m.PromptTemplate()); ok {
		return n
	}
	return c.registry.Position(m.ID)
}

// writeExample shows one concrete renumbering. It prefers a selected module
// whose authored number differs from its position; when none does, it shows
// how swapping the first two entries would change the labels.
func (c *Compiler) writeExample(b *strings.Builder, modules []catalog.Module) {
	for i, m := range modules {
		from, to := c.templateNumber(m), i+1
		if from == to {
			continue
		}
		title := strings.ToUpper(m.Title)
		fmt.Fprintf(b, "EXAMPLE: %q is written as \"MODULE %d\" in its instructions but is listed at position %d above.\n", m.Title, from, to)
		fmt.Fprintf(b, "  Before: ### MODULE %d: %s\n", from, title)
		fmt.Fprintf(b, "  After:  ### MODULE %d: %s\n", to, title)
		return
	}

	if len(modules) >= 2 {
		a, z := modules[0], modules[1]
		b.WriteString("EXAMPLE: if the list had instead shown:\n")
		fmt.Fprintf(b, "  1. %s\n  2. %s\n", z.Title, a.Title)
		b.WriteString("then your report would have started with:\n")
		fmt.Fprintf(b, "  ### MODULE 1: %s\n  ---\n  ### MODULE 2: %s\n", strings.ToUpper(z.Title), strings.ToUpper(a.Title))
		return
	}

	title := strings.ToUpper(modules[0].Title)
	fmt.Fprintf(b, "EXAMPLE: a single selected module is always labeled MODULE 1.\n  Before: ### MODULE %d: %s\n  After:  ### MODULE 1: %s\n",
		c.templateNumber(modules[0]), title, title)
}
