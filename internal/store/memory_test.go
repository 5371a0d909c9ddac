package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindsetos/teamreport/api/schemas"
)

func seededMemory(t *testing.T) *MemoryStore {
	t.Helper()
	ctx := context.Background()
	m := NewMemoryStore()
	require.NoError(t, m.UpsertOrganizations(ctx, []schemas.Organization{
		{OrgID: "org-2", OrgName: "Globex"},
		{OrgID: "org-1", OrgName: "Acme"},
	}))
	require.NoError(t, m.UpsertTeams(ctx, []schemas.TeamAggregate{
		{TeamID: "t-2", TeamName: "Zeta", OrgID: "org-1"},
		{TeamID: "t-1", TeamName: "Alpha", OrgID: "org-1", MindsetScores: []schemas.MindsetScore{{MindsetID: "growth", Capacity: 50}}},
		{TeamID: "t-3", TeamName: "Beta", OrgID: "org-2"},
	}))
	return m
}

func TestMemoryStore_Directory(t *testing.T) {
	ctx := context.Background()
	m := seededMemory(t)

	orgs, err := m.ListOrganizations(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Acme", orgs[0].OrgName)
	assert.Equal(t, "Globex", orgs[1].OrgName)

	teams, err := m.ListTeams(ctx, "org-1")
	require.NoError(t, err)
	assert.Equal(t, []schemas.TeamSummary{
		{TeamID: "t-1", TeamName: "Alpha", OrgID: "org-1"},
		{TeamID: "t-2", TeamName: "Zeta", OrgID: "org-1"},
	}, teams)

	all, err := m.ListTeams(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	none, err := m.ListTeams(ctx, "org-404")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	team, err := m.GetTeamAggregate(ctx, "t-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", team.OrgName)

	team.MindsetScores[0].Capacity = 99
	again, _ := m.GetTeamAggregate(ctx, "t-1")
	assert.Equal(t, 50.0, again.MindsetScores[0].Capacity, "callers get a copy")

	_, err = m.GetTeamAggregate(ctx, "nope")
	assert.ErrorIs(t, err, schemas.ErrNotFound)
}

func TestMemoryStore_Reports(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	latest, err := m.GetLatestReport(ctx, "t-1")
	require.NoError(t, err)
	assert.Nil(t, latest)

	first, err := m.SaveReport(ctx, "t-1", "v1", []string{"a"}, "# One")
	require.NoError(t, err)
	second, err := m.SaveReport(ctx, "t-1", "v1", []string{"b", "a"}, "# Two")
	require.NoError(t, err)
	assert.Greater(t, second, first)

	_, err = m.SaveReport(ctx, "t-2", "v1", []string{"a"}, "# Other team")
	require.NoError(t, err)

	latest, err = m.GetLatestReport(ctx, "t-1")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "# Two", latest.Markdown)
	assert.Equal(t, []string{"b", "a"}, latest.Modules)
	assert.Equal(t, second, latest.CreatedAt)
	assert.NotEmpty(t, latest.ID)
}
