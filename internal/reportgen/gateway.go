// Package reportgen runs one report generation request end to end: it resolves
// the module selection, compiles the prompt, calls the text generator and,
// when asked, saves the result.
package reportgen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mindsetos/teamreport/api/schemas"
	"github.com/mindsetos/teamreport/internal/catalog"
	"github.com/mindsetos/teamreport/internal/observability"
	"github.com/mindsetos/teamreport/internal/prompt"
)

// DefaultVersion tags reports when no version is configured.
const DefaultVersion = "v1"

// Overrides replace fields of the team snapshot for a single request. Empty
// values leave the snapshot untouched.
type Overrides struct {
	Narrative    string
	ValuesVector string
}

// Request is one generation request.
type Request struct {
	TeamID    string
	Team      *schemas.TeamAggregate
	Overrides Overrides
	Selection Selection
}

// Result is a generated report. Modules is the exact ordered id list the
// prompt was built from.
type Result struct {
	TeamID   string   `json:"teamId"`
	Markdown string   `json:"markdown"`
	Version  string   `json:"version"`
	Modules  []string `json:"modules"`

	// Saved and CreatedAt are set by GenerateAndSave when the save succeeded.
	Saved     bool  `json:"saved"`
	CreatedAt int64 `json:"createdAt,omitempty"`
	// PersistErr holds a failed save. The report itself is still valid.
	PersistErr error `json:"-"`
}

// Gateway is safe for concurrent use; requests share no mutable state.
type Gateway struct {
	registry  *catalog.Registry
	compiler  *prompt.Compiler
	generator schemas.TextGenerator
	directory schemas.Directory
	reports   schemas.ReportStore
	metrics   *observability.Metrics
	timeout   time.Duration
	version   string
	logger    *zap.Logger
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithDirectory enables GenerateForTeam.
func WithDirectory(d schemas.Directory) Option { return func(g *Gateway) { g.directory = d } }

// WithReportStore enables GenerateAndSave and Save.
func WithReportStore(r schemas.ReportStore) Option { return func(g *Gateway) { g.reports = r } }

// WithMetrics records generation and save outcomes.
func WithMetrics(m *observability.Metrics) Option { return func(g *Gateway) { g.metrics = m } }

// WithTimeout bounds each text generator call. Zero means no bound beyond the caller's context.
func WithTimeout(d time.Duration) Option { return func(g *Gateway) { g.timeout = d } }

// WithVersion sets the version tag attached to results.
func WithVersion(v string) Option {
	return func(g *Gateway) {
		if strings.TrimSpace(v) != "" {
			g.version = v
		}
	}
}

// New creates a gateway over registry, compiler and generator.
func New(registry *catalog.Registry, compiler *prompt.Compiler, generator schemas.TextGenerator, logger *zap.Logger, opts ...Option) *Gateway {
	g := &Gateway{
		registry:  registry,
		compiler:  compiler,
		generator: generator,
		version:   DefaultVersion,
		logger:    logger.Named("reportgen"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Version returns the tag attached to generated reports.
func (g *Gateway) Version() string { return g.version }

// Generate produces a report for the snapshot in req. It has no side effects
// beyond the text generator call.
func (g *Gateway) Generate(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	res, err := g.generate(ctx, req)
	g.metrics.ObserveGeneration(outcomeOf(err), time.Since(start))
	return res, err
}

func (g *Gateway) generate(ctx context.Context, req Request) (*Result, error) {
	teamID := strings.TrimSpace(req.TeamID)
	if teamID == "" {
		return nil, fmt.Errorf("%w: teamId is required", schemas.ErrInvalidRequest)
	}
	if req.Team == nil {
		return nil, fmt.Errorf("%w: team snapshot is required", schemas.ErrInvalidRequest)
	}
	if strings.TrimSpace(req.Team.TeamName) == "" {
		return nil, fmt.Errorf("%w: team snapshot has no teamName", schemas.ErrInvalidRequest)
	}
	if req.Team.TeamID != "" && req.Team.TeamID != teamID {
		return nil, fmt.Errorf("%w: teamId %q does not match snapshot team %q", schemas.ErrInvalidRequest, teamID, req.Team.TeamID)
	}

	team := applyOverrides(*req.Team, req.Overrides)
	team.TeamID = teamID

	modules, err := g.resolve(req.Selection)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(modules))
	for i, m := range modules {
		ids[i] = m.ID
	}

	g.logger.Info("Generating report.",
		zap.String("team_id", teamID),
		zap.Strings("module_order", ids),
		zap.Bool("default_selection", req.Selection.IsOmitted()))

	text, err := g.compiler.Compile(team, modules)
	if err != nil {
		return nil, err
	}
	g.metrics.ObservePromptBytes(len(text))

	markdown, err := g.call(ctx, text)
	if err != nil {
		g.logger.Error("Report generation failed.", zap.String("team_id", teamID), zap.Error(err))
		return nil, err
	}

	return &Result{TeamID: teamID, Markdown: markdown, Version: g.version, Modules: ids}, nil
}

// resolve turns the tri-state selection into module definitions.
func (g *Gateway) resolve(sel Selection) ([]catalog.Module, error) {
	if sel.IsOmitted() {
		return g.registry.All(), nil
	}
	modules, err := g.registry.Resolve(sel.IDs())
	if err != nil {
		return nil, err
	}
	if len(modules) == 0 {
		return nil, schemas.ErrEmptySelection
	}
	return modules, nil
}

func (g *Gateway) call(ctx context.Context, text string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	markdown, err := g.generator.Generate(ctx, text)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && g.timeout > 0 {
			return "", fmt.Errorf("%w: timed out after %s: %w", schemas.ErrGenerationFailed, g.timeout, err)
		}
		return "", fmt.Errorf("%w: %w", schemas.ErrGenerationFailed, err)
	}
	if strings.TrimSpace(markdown) == "" {
		return "", fmt.Errorf("%w: text generator returned an empty report", schemas.ErrGenerationFailed)
	}
	return markdown, nil
}

// GenerateForTeam loads the team's stored aggregate and generates from it.
func (g *Gateway) GenerateForTeam(ctx context.Context, teamID string, overrides Overrides, sel Selection) (*Result, error) {
	if g.directory == nil {
		return nil, fmt.Errorf("reportgen: no team directory configured")
	}
	if strings.TrimSpace(teamID) == "" {
		return nil, fmt.Errorf("%w: teamId is required", schemas.ErrInvalidRequest)
	}
	team, err := g.directory.GetTeamAggregate(ctx, teamID)
	if err != nil {
		g.metrics.ObserveGeneration(outcomeOf(err), 0)
		return nil, err
	}
	return g.Generate(ctx, Request{TeamID: teamID, Team: team, Overrides: overrides, Selection: sel})
}

// GenerateAndSave generates and then saves. Nothing is saved unless generation
// succeeded. A failed save does not fail the call: the report is returned with
// PersistErr set.
func (g *Gateway) GenerateAndSave(ctx context.Context, req Request) (*Result, error) {
	res, err := g.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	createdAt, err := g.Save(ctx, res.TeamID, res.Version, res.Modules, res.Markdown)
	if err != nil {
		res.PersistErr = err
		return res, nil
	}
	res.Saved = true
	res.CreatedAt = createdAt
	return res, nil
}

// Save persists an already generated report.
func (g *Gateway) Save(ctx context.Context, teamID, version string, moduleIDs []string, markdown string) (int64, error) {
	if g.reports == nil {
		return 0, fmt.Errorf("%w: no report store configured", schemas.ErrPersistenceFailed)
	}
	if strings.TrimSpace(teamID) == "" {
		return 0, fmt.Errorf("%w: teamId is required", schemas.ErrInvalidRequest)
	}
	if strings.TrimSpace(markdown) == "" {
		return 0, fmt.Errorf("%w: markdown is required", schemas.ErrInvalidRequest)
	}
	if strings.TrimSpace(version) == "" {
		version = g.version
	}

	createdAt, err := g.reports.SaveReport(ctx, teamID, version, moduleIDs, markdown)
	if err != nil {
		if !errors.Is(err, schemas.ErrPersistenceFailed) {
			err = fmt.Errorf("%w: %w", schemas.ErrPersistenceFailed, err)
		}
		g.metrics.ObserveSave(observability.OutcomeError)
		g.logger.Error("Failed to save report.", zap.String("team_id", teamID), zap.Error(err))
		return 0, err
	}
	g.metrics.ObserveSave(observability.OutcomeSuccess)
	g.logger.Info("Report saved.", zap.String("team_id", teamID), zap.Int64("created_at", createdAt))
	return createdAt, nil
}

func applyOverrides(team schemas.TeamAggregate, o Overrides) schemas.TeamAggregate {
	if strings.TrimSpace(o.Narrative) != "" {
		team.AggregatedNarrative = o.Narrative
	}
	if strings.TrimSpace(o.ValuesVector) != "" {
		team.ValuesVector = o.ValuesVector
	}
	return team
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return observability.OutcomeSuccess
	case errors.Is(err, schemas.ErrInvalidRequest), errors.Is(err, schemas.ErrEmptySelection):
		return observability.OutcomeInvalid
	case errors.Is(err, schemas.ErrNotFound):
		return observability.OutcomeNotFound
	case errors.Is(err, schemas.ErrGenerationFailed):
		return observability.OutcomeUpstreamError
	default:
		return observability.OutcomeError
	}
}
