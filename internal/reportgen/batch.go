package reportgen

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mindsetos/teamreport/api/schemas"
)

// DefaultBatchConcurrency is used when a batch is started with no positive limit.
const DefaultBatchConcurrency = 4

// BatchOptions configures a batch run.
type BatchOptions struct {
	Selection   Selection
	Overrides   Overrides
	Concurrency int
	// Persist saves every successful report through GenerateAndSave.
	Persist bool
}

// BatchItem is the outcome for one team. Exactly one of Result and Err is set.
type BatchItem struct {
	TeamID string
	Result *Result
	Err    error
}

// Failed reports whether the team's generation failed.
func (i BatchItem) Failed() bool { return i.Err != nil }

// GenerateBatch generates one report per team in teamIDs with at most
// opts.Concurrency generations in flight. A failing team never stops the
// others; items are returned in input order. Teams not yet started when ctx
// is cancelled carry ctx's error.
func (g *Gateway) GenerateBatch(ctx context.Context, teamIDs []string, opts BatchOptions) ([]BatchItem, error) {
	if g.directory == nil {
		return nil, fmt.Errorf("reportgen: no team directory configured")
	}
	if len(teamIDs) == 0 {
		return nil, fmt.Errorf("%w: no teams to generate", schemas.ErrInvalidRequest)
	}
	limit := opts.Concurrency
	if limit <= 0 {
		limit = DefaultBatchConcurrency
	}

	logger := g.logger.With(zap.Int("teams", len(teamIDs)), zap.Int("concurrency", limit))
	logger.Info("Starting batch generation.")

	items := make([]BatchItem, len(teamIDs))
	grp := new(errgroup.Group)
	grp.SetLimit(limit)

	for i, id := range teamIDs {
		items[i].TeamID = strings.TrimSpace(id)
		if err := ctx.Err(); err != nil {
			items[i].Err = err
			continue
		}
		grp.Go(func() error {
			items[i].Result, items[i].Err = g.generateOne(ctx, items[i].TeamID, opts)
			return nil
		})
	}
	_ = grp.Wait()

	failed := 0
	for _, it := range items {
		if it.Failed() {
			failed++
		}
	}
	logger.Info("Batch generation finished.", zap.Int("failed", failed))
	return items, nil
}

func (g *Gateway) generateOne(ctx context.Context, teamID string, opts BatchOptions) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if teamID == "" {
		return nil, fmt.Errorf("%w: teamId is required", schemas.ErrInvalidRequest)
	}
	team, err := g.directory.GetTeamAggregate(ctx, teamID)
	if err != nil {
		g.metrics.ObserveGeneration(outcomeOf(err), 0)
		return nil, err
	}
	req := Request{TeamID: teamID, Team: team, Overrides: opts.Overrides, Selection: opts.Selection}
	if opts.Persist {
		return g.GenerateAndSave(ctx, req)
	}
	return g.Generate(ctx, req)
}

// GenerateForOrganization runs GenerateBatch over every team of orgID.
func (g *Gateway) GenerateForOrganization(ctx context.Context, orgID string, opts BatchOptions) ([]BatchItem, error) {
	if g.directory == nil {
		return nil, fmt.Errorf("reportgen: no team directory configured")
	}
	if strings.TrimSpace(orgID) == "" {
		return nil, fmt.Errorf("%w: orgId is required", schemas.ErrInvalidRequest)
	}
	teams, err := g.directory.ListTeams(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if len(teams) == 0 {
		return nil, fmt.Errorf("%w: organization %q has no teams", schemas.ErrNotFound, orgID)
	}
	ids := make([]string, len(teams))
	for i, t := range teams {
		ids[i] = t.TeamID
	}
	return g.GenerateBatch(ctx, ids, opts)
}

// BatchErr joins the errors of failed items, nil when every item succeeded.
func BatchErr(items []BatchItem) error {
	var errs []error
	for _, it := range items {
		if it.Failed() {
			errs = append(errs, fmt.Errorf("team %s: %w", it.TeamID, it.Err))
		}
	}
	return errors.Join(errs...)
}
