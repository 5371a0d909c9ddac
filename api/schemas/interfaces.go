package schemas

import "context"

// -- Store Interfaces --

// Directory is the read side of the organization/team store. Aggregates are
// created by an external seeding or intake process and are read-only here.
type Directory interface {
	// ListOrganizations returns every organization.
	ListOrganizations(ctx context.Context) ([]Organization, error)
	// ListTeams returns the teams of orgID, or all teams when orgID is empty.
	ListTeams(ctx context.Context, orgID string) ([]TeamSummary, error)
	// GetTeamAggregate returns the aggregate for teamID or an error wrapping ErrNotFound.
	GetTeamAggregate(ctx context.Context, teamID string) (*TeamAggregate, error)
}

// ReportStore persists generated reports. Saves are append-only.
type ReportStore interface {
	// SaveReport appends a report and returns its creation time in unix milliseconds.
	SaveReport(ctx context.Context, teamID, version string, moduleIDs []string, markdown string) (int64, error)
	// GetLatestReport returns the most recently created report for teamID,
	// or (nil, nil) when the team has none.
	GetLatestReport(ctx context.Context, teamID string) (*GeneratedReport, error)
}

// Seeder loads organizations and teams. Only the seed command uses it.
type Seeder interface {
	UpsertOrganizations(ctx context.Context, orgs []Organization) error
	UpsertTeams(ctx context.Context, teams []TeamAggregate) error
}

// Store groups every persistence capability a backend provides.
type Store interface {
	Directory
	ReportStore
	Seeder
}

// -- Generation Interface --

// TextGenerator is the opaque text-generation call: prompt in, completion out.
// Implementations may fail or time out; callers never retry.
//
//go:generate mockery --name TextGenerator --output ../../internal/mocks --outpkg mocks
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
