// Package seed builds and loads the demo organizations and teams.
package seed

import (
	"context"
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/mindsetos/teamreport/api/schemas"
)

// DefaultTeamsPerOrg is the number of demo teams created per organization.
const DefaultTeamsPerOrg = 50

// DefaultSeed makes repeated seeding produce identical scores.
const DefaultSeed uint64 = 20240611

var organizations = []schemas.Organization{
	{OrgID: "org-1", OrgName: "Northwind Labs"},
	{OrgID: "org-2", OrgName: "Helix Industries"},
	{OrgID: "org-3", OrgName: "Nova Collective"},
}

var valuesVectors = []string{
	"Bias to action; customer intimacy; radical candor; measure what matters; resilience in adversity.",
	"Craft and quality; build with users; calm focus; default to open; celebrate learning loops.",
	"Operational excellence; service mindset; kindness; reliability; disciplined process ownership.",
	"Learning velocity; safety to experiment; shared accountability; transparency by default.",
	"Strategic clarity; disciplined prioritisation; partnership mindset; evidence-based decisions.",
}

var narratives = []string{
	"The team is ambitious with strong execution muscle, experimenting rapidly but feeling tension between short-term targets and longer-term positioning.",
	"A dependable crew with calm focus; they show caution around launch risk which slows velocity but maintain high craft standards.",
	"Service-oriented operators absorbing tool churn, creating fatigue; they remain the cultural glue yet need clearer escalation pathways.",
	"Product-minded collaborators who ideate well but need stronger delivery rhythms and clearer leadership priorities.",
	"Cross-functional group with rising innovation energy, yet role clarity and handoff rituals lag behind ambition.",
}

// Mindsets lists the seven scored dimensions in display order.
var Mindsets = []struct{ ID, Name string }{
	{"growth", "Growth"},
	{"stability", "Stability"},
	{"agility", "Agility"},
	{"cohesion", "Cohesion"},
	{"experimentation", "Experimentation"},
	{"resilience", "Resilience"},
	{"clarity", "Clarity"},
}

// Dataset is a full demo directory.
type Dataset struct {
	Organizations []schemas.Organization
	Teams         []schemas.TeamAggregate
}

// Generate builds the demo dataset. The same teamsPerOrg and seed always
// produce the same dataset.
func Generate(teamsPerOrg int, seed uint64) Dataset {
	if teamsPerOrg <= 0 {
		teamsPerOrg = DefaultTeamsPerOrg
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	ds := Dataset{
		Organizations: append([]schemas.Organization(nil), organizations...),
		Teams:         make([]schemas.TeamAggregate, 0, len(organizations)*teamsPerOrg),
	}
	for _, org := range organizations {
		for i := 1; i <= teamsPerOrg; i++ {
			idx := i % len(valuesVectors)
			ds.Teams = append(ds.Teams, schemas.TeamAggregate{
				TeamID:              fmt.Sprintf("%s-team-%d", org.OrgID, i),
				TeamName:            fmt.Sprintf("%s Team %d", org.OrgName, i),
				OrgID:               org.OrgID,
				ValuesVector:        valuesVectors[idx],
				AggregatedNarrative: narratives[idx],
				MindsetScores:       scores(rng),
			})
		}
	}
	return ds
}

// scores draws capacity in [base, min(95, base+19)] and friction in [30, 54].
func scores(rng *rand.Rand) []schemas.MindsetScore {
	out := make([]schemas.MindsetScore, len(Mindsets))
	for i, m := range Mindsets {
		base := 55 + (i*7)%20
		out[i] = schemas.MindsetScore{
			MindsetID:   m.ID,
			MindsetName: m.Name,
			Capacity:    float64(min(95, base+rng.IntN(20))),
			Friction:    float64(max(15, 30+rng.IntN(25))),
		}
	}
	return out
}

// Load upserts ds into s, organizations first.
func Load(ctx context.Context, s schemas.Seeder, ds Dataset, logger *zap.Logger) error {
	logger.Info("Seeding directory.",
		zap.Int("organizations", len(ds.Organizations)),
		zap.Int("teams", len(ds.Teams)))

	if err := s.UpsertOrganizations(ctx, ds.Organizations); err != nil {
		return fmt.Errorf("failed to seed organizations: %w", err)
	}
	if err := s.UpsertTeams(ctx, ds.Teams); err != nil {
		return fmt.Errorf("failed to seed teams: %w", err)
	}
	logger.Info("Seed complete.")
	return nil
}
