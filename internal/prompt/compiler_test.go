package prompt

import (
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindsetos/teamreport/api/schemas"
	"github.com/mindsetos/teamreport/internal/catalog"
)

func abcRegistry(t *testing.T) *catalog.Registry {
	t.Helper()
	r, err := catalog.New([]catalog.Module{
		{ID: "a", Title: "A", Template: "### MODULE 1: A\nWrite about A. See Module 1 for context."},
		{ID: "b", Title: "B", Template: "### MODULE 2: B\nWrite about B."},
		{ID: "c", Title: "C", Template: "### MODULE 3: C\nWrite about C.\n1. first point\n2. second point"},
	})
	require.NoError(t, err)
	return r
}

func sampleTeam() schemas.TeamAggregate {
	return schemas.TeamAggregate{
		TeamID:              "t-1",
		TeamName:            "Platform",
		OrgName:             "Acme",
		ValuesVector:        "Innovation, Integrity",
		AggregatedNarrative: "The team moves fast.",
	}
}

func resolve(t *testing.T, r *catalog.Registry, ids ...string) []catalog.Module {
	t.Helper()
	mods, err := r.Resolve(ids)
	require.NoError(t, err)
	return mods
}

// moduleSection returns the text between the output requirements header and the
// tone guidelines, which holds the concatenated module blocks.
func moduleSection(t *testing.T, prompt string) string {
	t.Helper()
	start := strings.Index(prompt, HeaderOutputRequirements)
	end := strings.Index(prompt, HeaderToneAndStyle)
	require.True(t, start >= 0 && end > start, "prompt is missing its module section")
	body := prompt[start:end]
	body = body[strings.Index(body, ModuleSeparator)+len(ModuleSeparator):]
	return strings.TrimSuffix(body, ModuleSeparator)
}

func TestCompile_ReorderedSubset(t *testing.T) {
	r := abcRegistry(t)
	c := NewCompiler(r, "PREAMBLE")

	out, err := c.Compile(sampleTeam(), resolve(t, r, "c", "a"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "PREAMBLE\n\n"+HeaderOutputRequirements))

	blocks := strings.Split(moduleSection(t, out), ModuleSeparator)
	require.Len(t, blocks, 2)
	if diff := cmp.Diff([]string{
		"### MODULE 1: C\nWrite about C.\n1. first point\n2. second point",
		"### MODULE 2: A\nWrite about A. See Module 2 for context.",
	}, blocks); diff != "" {
		t.Errorf("module blocks mismatch (-want +got):\n%s", diff)
	}

	assert.Contains(t, out, "1. C (id: c)\n2. A (id: a)")
	assert.Contains(t, out, exclusionLead+"B\n")
	assert.Equal(t, 2, strings.Count(out, HeaderExclusions), "exclusion block is stated twice")
	assert.NotContains(t, moduleSection(t, out), "Write about B")

	assert.Contains(t, out, `labeled as "MODULE 1: C"`)
	assert.Contains(t, out, "  Before: ### MODULE 3: C\n  After:  ### MODULE 1: C")
}

func TestCompile_FullRegistryHasNoExclusions(t *testing.T) {
	r := abcRegistry(t)
	c := NewCompiler(r, "PREAMBLE")

	out, err := c.Compile(sampleTeam(), r.All())
	require.NoError(t, err)

	assert.NotContains(t, out, HeaderExclusions)
	assert.Len(t, strings.Split(moduleSection(t, out), ModuleSeparator), 3)
	assert.Contains(t, out, "1. A (id: a)\n2. B (id: b)\n3. C (id: c)")
	// No module moved, so the example is a hypothetical swap of the first two.
	assert.Contains(t, out, "  ### MODULE 1: B\n  ---\n  ### MODULE 2: A")
}

func TestCompile_SingleModule(t *testing.T) {
	r := abcRegistry(t)
	c := NewCompiler(r, "PREAMBLE")

	out, err := c.Compile(sampleTeam(), resolve(t, r, "a"))
	require.NoError(t, err)

	assert.Equal(t, "### MODULE 1: A\nWrite about A. See Module 1 for context.", moduleSection(t, out))
	assert.Contains(t, out, "a single selected module is always labeled MODULE 1")
	assert.Contains(t, out, exclusionLead+"B, C\n")
}

func TestCompile_EmptySelection(t *testing.T) {
	c := NewCompiler(abcRegistry(t), "")
	_, err := c.Compile(sampleTeam(), nil)
	assert.ErrorIs(t, err, schemas.ErrEmptySelection)
}

func TestCompile_TeamContext(t *testing.T) {
	r := abcRegistry(t)
	c := NewCompiler(r, "PREAMBLE")

	t.Run("canonical narrative and organization", func(t *testing.T) {
		out, err := c.Compile(sampleTeam(), r.All())
		require.NoError(t, err)
		assert.Contains(t, out, HeaderTeamContext+"\nTeam name: Platform\nOrganization: Acme\n")
		assert.Contains(t, out, "Values vector (company values or semantic vector text):\nInnovation, Integrity\n")
		assert.Contains(t, out, "Aggregated narrative (team-level only, privacy respected):\nThe team moves fast.\n")
	})

	t.Run("alias narrative used when canonical is blank", func(t *testing.T) {
		team := sampleTeam()
		team.OrgName = ""
		team.AggregatedNarrative = "  "
		team.Narrative = "Legacy narrative."
		out, err := c.Compile(team, r.All())
		require.NoError(t, err)
		assert.NotContains(t, out, "Organization:")
		assert.Contains(t, out, "privacy respected):\nLegacy narrative.\n")
	})

	t.Run("no narrative at all", func(t *testing.T) {
		team := sampleTeam()
		team.AggregatedNarrative = ""
		out, err := c.Compile(team, r.All())
		require.NoError(t, err)
		assert.Contains(t, out, "privacy respected):\n\n")
	})
}

func TestCompile_FallbackTemplate(t *testing.T) {
	r, err := catalog.New([]catalog.Module{
		{ID: "x", Title: "Custom"},
		{ID: "y", Title: "Other"},
	})
	require.NoError(t, err)
	c := NewCompiler(r, "PREAMBLE")

	out, err := c.Compile(sampleTeam(), resolve(t, r, "y", "x"))
	require.NoError(t, err)
	blocks := strings.Split(moduleSection(t, out), ModuleSeparator)
	require.Len(t, blocks, 2)
	assert.True(t, strings.HasPrefix(blocks[0], "### MODULE 1: OTHER"))
	assert.True(t, strings.HasPrefix(blocks[1], "### MODULE 2: CUSTOM"))
	// The fallback template always says MODULE 1, so the second entry is the one that moved.
	assert.Contains(t, out, "  Before: ### MODULE 1: CUSTOM\n  After:  ### MODULE 2: CUSTOM")
}

func TestCompile_StrictInstructions(t *testing.T) {
	r := abcRegistry(t)
	out, err := NewCompiler(r, "PREAMBLE").Compile(sampleTeam(), r.All())
	require.NoError(t, err)

	idx := strings.Index(out, HeaderStrictInstructions)
	require.GreaterOrEqual(t, idx, 0)
	strict := out[idx:]
	assert.Contains(t, strict, TargetTotalWords+" words total")
	assert.Contains(t, strict, "executive summary "+TargetSummaryWords)
	assert.Contains(t, strict, "no individual data")
	assert.Contains(t, strict, "clean Markdown only (no HTML)")
	assert.Less(t, strings.Index(out, HeaderModuleOrder), idx)
}

func TestCompile_DefaultCatalogDeterministic(t *testing.T) {
	r, err := catalog.Default()
	require.NoError(t, err)
	c := NewCompiler(r, "")
	mods := resolve(t, r, "teamPlaybook", "executiveDashboard")

	first, err := c.Compile(sampleTeam(), mods)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(first, DefaultPreamble()))
	assert.Contains(t, first, "### MODULE 1: TEAM PLAYBOOK")
	assert.Contains(t, first, "### MODULE 2: EXECUTIVE DASHBOARD")

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = c.Compile(sampleTeam(), mods)
		}(i)
	}
	wg.Wait()
	for _, got := range results {
		assert.Equal(t, first, got)
	}
}

func TestManifest(t *testing.T) {
	r := abcRegistry(t)
	assert.Equal(t, "1. B (id: b)\n2. C (id: c)", Manifest(resolve(t, r, "b", "c")))
}
