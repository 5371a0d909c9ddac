package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// schemaStatements create the tables the store reads and writes. Each one is
// idempotent so migrate can run on every deploy.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS organizations (
        org_id   TEXT PRIMARY KEY,
        org_name TEXT NOT NULL
    );`,
	`CREATE TABLE IF NOT EXISTS teams (
        team_id              TEXT PRIMARY KEY,
        team_name            TEXT NOT NULL,
        org_id               TEXT NOT NULL REFERENCES organizations (org_id),
        values_vector        TEXT NOT NULL DEFAULT '',
        aggregated_narrative TEXT NOT NULL DEFAULT '',
        narrative            TEXT NOT NULL DEFAULT '',
        mindset_scores       JSONB NOT NULL DEFAULT '[]'::jsonb
    );`,
	`CREATE INDEX IF NOT EXISTS teams_org_id_idx ON teams (org_id);`,
	`CREATE TABLE IF NOT EXISTS reports (
        id         UUID PRIMARY KEY,
        team_id    TEXT NOT NULL,
        created_at BIGINT NOT NULL,
        version    TEXT NOT NULL,
        modules    TEXT[] NOT NULL DEFAULT '{}',
        markdown   TEXT NOT NULL
    );`,
	`CREATE INDEX IF NOT EXISTS reports_team_created_idx ON reports (team_id, created_at DESC, id DESC);`,
}

// EnsureSchema creates any missing tables and indexes.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for i, stmt := range schemaStatements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement %d: %w", i+1, err)
		}
	}
	s.log.Info("Database schema is up to date.", zap.Int("statements", len(schemaStatements)))
	return nil
}
