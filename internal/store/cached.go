package store

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mindsetos/teamreport/api/schemas"
)

const (
	defaultCacheSize = 256
	defaultCacheTTL  = 5 * time.Minute
)

type cacheEntry struct {
	team     schemas.TeamAggregate
	storedAt time.Time
}

// CachedStore wraps a store with a read-through LRU for team aggregates.
// Listings, reports and writes go straight to the wrapped store; any team or
// organization upsert purges the cache.
type CachedStore struct {
	schemas.Store
	cache *lru.Cache[string, cacheEntry]
	ttl   time.Duration
}

// NewCachedStore wraps inner. Non-positive size or ttl fall back to defaults.
func NewCachedStore(inner schemas.Store, size int, ttl time.Duration) *CachedStore {
	if size <= 0 {
		size = defaultCacheSize
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	// lru.New only errors on a non-positive size, guarded above.
	cache, _ := lru.New[string, cacheEntry](size)
	return &CachedStore{Store: inner, cache: cache, ttl: ttl}
}

func (c *CachedStore) GetTeamAggregate(ctx context.Context, teamID string) (*schemas.TeamAggregate, error) {
	if entry, ok := c.cache.Get(teamID); ok {
		if time.Since(entry.storedAt) < c.ttl {
			return cloneTeam(entry.team), nil
		}
		c.cache.Remove(teamID)
	}

	team, err := c.Store.GetTeamAggregate(ctx, teamID)
	if err != nil {
		return nil, err
	}
	c.cache.Add(teamID, cacheEntry{team: *cloneTeam(*team), storedAt: time.Now()})
	return team, nil
}

func (c *CachedStore) UpsertOrganizations(ctx context.Context, orgs []schemas.Organization) error {
	defer c.Purge()
	return c.Store.UpsertOrganizations(ctx, orgs)
}

func (c *CachedStore) UpsertTeams(ctx context.Context, teams []schemas.TeamAggregate) error {
	defer c.Purge()
	return c.Store.UpsertTeams(ctx, teams)
}

// Purge drops every cached aggregate.
func (c *CachedStore) Purge() { c.cache.Purge() }

// Len reports how many aggregates are cached.
func (c *CachedStore) Len() int { return c.cache.Len() }

func cloneTeam(t schemas.TeamAggregate) *schemas.TeamAggregate {
	if t.MindsetScores != nil {
		scores := make([]schemas.MindsetScore, len(t.MindsetScores))
		copy(scores, t.MindsetScores)
		t.MindsetScores = scores
	}
	return &t
}
