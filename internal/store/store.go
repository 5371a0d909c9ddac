// File: internal/store/store.go
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/mindsetos/teamreport/api/schemas"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DBPool is an interface that abstracts the pgxpool.Pool to allow for mocking in tests.
type DBPool interface {
	Ping(ctx context.Context) error
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Store is the PostgreSQL implementation of schemas.Store.
type Store struct {
	pool  DBPool
	log   *zap.Logger
	clock *Clock
	newID func() string
}

// New creates a new store instance and verifies the connection.
func New(ctx context.Context, pool DBPool, logger *zap.Logger) (*Store, error) {
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{
		pool:  pool,
		log:   logger.Named("store"),
		clock: NewClock(nil),
		newID: uuid.NewString,
	}, nil
}

const (
	sqlListOrganizations = `
        SELECT org_id, org_name
        FROM organizations
        ORDER BY org_name ASC, org_id ASC;
    `
	sqlListAllTeams = `
        SELECT team_id, team_name, org_id
        FROM teams
        ORDER BY team_name ASC, team_id ASC;
    `
	sqlListTeamsByOrg = `
        SELECT team_id, team_name, org_id
        FROM teams
        WHERE org_id = $1
        ORDER BY team_name ASC, team_id ASC;
    `
	sqlGetTeamAggregate = `
        SELECT t.team_id, t.team_name, t.org_id, COALESCE(o.org_name, ''),
               t.values_vector, t.aggregated_narrative, t.narrative, t.mindset_scores
        FROM teams t
        LEFT JOIN organizations o ON o.org_id = t.org_id
        WHERE t.team_id = $1;
    `
	sqlUpsertOrganization = `
        INSERT INTO organizations (org_id, org_name)
        VALUES ($1, $2)
        ON CONFLICT (org_id) DO UPDATE SET
            org_name = EXCLUDED.org_name;
    `
	sqlUpsertTeam = `
        INSERT INTO teams (team_id, team_name, org_id, values_vector, aggregated_narrative, narrative, mindset_scores)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (team_id) DO UPDATE SET
            team_name = EXCLUDED.team_name,
            org_id = EXCLUDED.org_id,
            values_vector = EXCLUDED.values_vector,
            aggregated_narrative = EXCLUDED.aggregated_narrative,
            narrative = EXCLUDED.narrative,
            mindset_scores = EXCLUDED.mindset_scores;
    `
	sqlInsertReport = `
        INSERT INTO reports (id, team_id, created_at, version, modules, markdown)
        VALUES ($1, $2, $3, $4, $5, $6);
    `
	sqlLatestReport = `
        SELECT id::text, team_id, created_at, version, modules, markdown
        FROM reports
        WHERE team_id = $1
        ORDER BY created_at DESC, id DESC
        LIMIT 1;
    `
)

// -- Directory --

func (s *Store) ListOrganizations(ctx context.Context) ([]schemas.Organization, error) {
	rows, err := s.pool.Query(ctx, sqlListOrganizations)
	if err != nil {
		return nil, fmt.Errorf("failed to query organizations: %w", err)
	}
	defer rows.Close()

	orgs := []schemas.Organization{}
	for rows.Next() {
		var o schemas.Organization
		if err := rows.Scan(&o.OrgID, &o.OrgName); err != nil {
			return nil, fmt.Errorf("failed to scan organization row: %w", err)
		}
		orgs = append(orgs, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}
	return orgs, nil
}

func (s *Store) ListTeams(ctx context.Context, orgID string) ([]schemas.TeamSummary, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if orgID == "" {
		rows, err = s.pool.Query(ctx, sqlListAllTeams)
	} else {
		rows, err = s.pool.Query(ctx, sqlListTeamsByOrg, orgID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query teams: %w", err)
	}
	defer rows.Close()

	teams := []schemas.TeamSummary{}
	for rows.Next() {
		var t schemas.TeamSummary
		if err := rows.Scan(&t.TeamID, &t.TeamName, &t.OrgID); err != nil {
			return nil, fmt.Errorf("failed to scan team row: %w", err)
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}
	return teams, nil
}

func (s *Store) GetTeamAggregate(ctx context.Context, teamID string) (*schemas.TeamAggregate, error) {
	var (
		t      schemas.TeamAggregate
		scores []byte
	)
	err := s.pool.QueryRow(ctx, sqlGetTeamAggregate, teamID).Scan(
		&t.TeamID, &t.TeamName, &t.OrgID, &t.OrgName,
		&t.ValuesVector, &t.AggregatedNarrative, &t.Narrative, &scores,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: team %q", schemas.ErrNotFound, teamID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load team %q: %w", teamID, err)
	}

	t.MindsetScores = []schemas.MindsetScore{}
	if len(scores) > 0 && string(scores) != "null" {
		if err := json.Unmarshal(scores, &t.MindsetScores); err != nil {
			return nil, fmt.Errorf("failed to decode mindset scores for team %q: %w", teamID, err)
		}
	}
	return &t, nil
}

// -- Seeder --

// UpsertOrganizations writes orgs in a single transaction.
func (s *Store) UpsertOrganizations(ctx context.Context, orgs []schemas.Organization) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		for _, o := range orgs {
			if _, err := tx.Exec(ctx, sqlUpsertOrganization, o.OrgID, o.OrgName); err != nil {
				return fmt.Errorf("failed to upsert organization %s: %w", o.OrgID, err)
			}
		}
		return nil
	})
}

// UpsertTeams writes teams in a single transaction. Mindset scores are stored as JSONB.
func (s *Store) UpsertTeams(ctx context.Context, teams []schemas.TeamAggregate) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		for _, t := range teams {
			scores := t.MindsetScores
			if scores == nil {
				scores = []schemas.MindsetScore{}
			}
			raw, err := json.Marshal(scores)
			if err != nil {
				return fmt.Errorf("failed to encode mindset scores for team %s: %w", t.TeamID, err)
			}
			if _, err := tx.Exec(ctx, sqlUpsertTeam,
				t.TeamID, t.TeamName, t.OrgID,
				t.ValuesVector, t.AggregatedNarrative, t.Narrative, raw,
			); err != nil {
				return fmt.Errorf("failed to upsert team %s: %w", t.TeamID, err)
			}
		}
		return nil
	})
}

func (s *Store) inTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			s.log.Error("Failed to rollback transaction", zap.Error(rollbackErr))
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// -- Reports --

// SaveReport appends a report row. Rows are never updated.
func (s *Store) SaveReport(ctx context.Context, teamID, version string, moduleIDs []string, markdown string) (int64, error) {
	if moduleIDs == nil {
		moduleIDs = []string{}
	}
	createdAt := s.clock.Next()
	id := s.newID()
	if _, err := s.pool.Exec(ctx, sqlInsertReport, id, teamID, createdAt, version, moduleIDs, markdown); err != nil {
		return 0, fmt.Errorf("%w: %w", schemas.ErrPersistenceFailed, err)
	}
	s.log.Debug("Report saved.",
		zap.String("team_id", teamID),
		zap.String("report_id", id),
		zap.Int64("created_at", createdAt))
	return createdAt, nil
}

// GetLatestReport returns the newest report for teamID, or nil when it has none.
func (s *Store) GetLatestReport(ctx context.Context, teamID string) (*schemas.GeneratedReport, error) {
	var r schemas.GeneratedReport
	err := s.pool.QueryRow(ctx, sqlLatestReport, teamID).Scan(
		&r.ID, &r.TeamID, &r.CreatedAt, &r.Version, &r.Modules, &r.Markdown,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest report for team %q: %w", teamID, err)
	}
	if r.Modules == nil {
		r.Modules = []string{}
	}
	return &r, nil
}

var _ schemas.Store = (*Store)(nil)
