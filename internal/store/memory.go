package store

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/mindsetos/teamreport/api/schemas"
)

// MemoryStore is an in-process schemas.Store. Data is lost on exit; it backs
// local runs without a database and the tests of the layers above the store.
type MemoryStore struct {
	mu      sync.RWMutex
	orgs    map[string]schemas.Organization
	teams   map[string]schemas.TeamAggregate
	reports map[string][]schemas.GeneratedReport
	clock   *Clock
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		orgs:    make(map[string]schemas.Organization),
		teams:   make(map[string]schemas.TeamAggregate),
		reports: make(map[string][]schemas.GeneratedReport),
		clock:   NewClock(nil),
	}
}

func (m *MemoryStore) ListOrganizations(_ context.Context) ([]schemas.Organization, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]schemas.Organization, 0, len(m.orgs))
	for _, o := range m.orgs {
		out = append(out, o)
	}
	slices.SortFunc(out, func(a, b schemas.Organization) int {
		return cmp.Or(cmp.Compare(a.OrgName, b.OrgName), cmp.Compare(a.OrgID, b.OrgID))
	})
	return out, nil
}

func (m *MemoryStore) ListTeams(_ context.Context, orgID string) ([]schemas.TeamSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []schemas.TeamSummary{}
	for _, t := range m.teams {
		if orgID == "" || t.OrgID == orgID {
			out = append(out, t.Summary())
		}
	}
	slices.SortFunc(out, func(a, b schemas.TeamSummary) int {
		return cmp.Or(cmp.Compare(a.TeamName, b.TeamName), cmp.Compare(a.TeamID, b.TeamID))
	})
	return out, nil
}

func (m *MemoryStore) GetTeamAggregate(_ context.Context, teamID string) (*schemas.TeamAggregate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.teams[teamID]
	if !ok {
		return nil, fmt.Errorf("%w: team %q", schemas.ErrNotFound, teamID)
	}
	if o, ok := m.orgs[t.OrgID]; ok {
		t.OrgName = o.OrgName
	}
	t.MindsetScores = slices.Clone(t.MindsetScores)
	if t.MindsetScores == nil {
		t.MindsetScores = []schemas.MindsetScore{}
	}
	return &t, nil
}

func (m *MemoryStore) UpsertOrganizations(_ context.Context, orgs []schemas.Organization) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range orgs {
		m.orgs[o.OrgID] = o
	}
	return nil
}

func (m *MemoryStore) UpsertTeams(_ context.Context, teams []schemas.TeamAggregate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range teams {
		t.MindsetScores = slices.Clone(t.MindsetScores)
		m.teams[t.TeamID] = t
	}
	return nil
}

func (m *MemoryStore) SaveReport(_ context.Context, teamID, version string, moduleIDs []string, markdown string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	mods := slices.Clone(moduleIDs)
	if mods == nil {
		mods = []string{}
	}
	createdAt := m.clock.Next()
	m.reports[teamID] = append(m.reports[teamID], schemas.GeneratedReport{
		ID:        uuid.NewString(),
		TeamID:    teamID,
		CreatedAt: createdAt,
		Version:   version,
		Modules:   mods,
		Markdown:  markdown,
	})
	return createdAt, nil
}

// GetLatestReport returns the newest report for teamID. Timestamps from the
// store clock never tie, so the last appended entry is the newest.
func (m *MemoryStore) GetLatestReport(_ context.Context, teamID string) (*schemas.GeneratedReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := m.reports[teamID]
	if len(list) == 0 {
		return nil, nil
	}
	latest := slices.MaxFunc(list, func(a, b schemas.GeneratedReport) int {
		return cmp.Or(cmp.Compare(a.CreatedAt, b.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	latest.Modules = slices.Clone(latest.Modules)
	return &latest, nil
}

var _ schemas.Store = (*MemoryStore)(nil)
