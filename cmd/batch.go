// -- cmd/batch.go --
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mindsetos/teamreport/internal/reportgen"
	"github.com/mindsetos/teamreport/internal/service"
)

type batchOptions struct {
	orgID       string
	teamIDs     []string
	modules     []string
	modulesSet  bool
	concurrency int
	save        bool
	outDir      string
}

func newBatchCmd(factory service.ComponentFactory) *cobra.Command {
	var opts batchOptions

	batchCmd := &cobra.Command{
		Use:   "batch",
		Short: "Generate reports for many teams at once",
		Long: `Generates one report per team, either for every team of an organization
(--org) or for an explicit list (--teams). Generations run concurrently up to
--concurrency; one failing team does not stop the rest.`,
		Example: `  teamreport batch --org org-1 --modules executiveDashboard --save --out-dir reports/`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (opts.orgID == "") == (len(opts.teamIDs) == 0) {
				return fmt.Errorf("exactly one of --org or --teams is required")
			}
			opts.modulesSet = cmd.Flags().Changed("modules")
			if !cmd.Flags().Changed("concurrency") {
				cfg, err := getConfigFromContext(cmd.Context())
				if err != nil {
					return err
				}
				opts.concurrency = cfg.Report().BatchConcurrency
			}
			return withComponents(cmd, factory, service.ScopeFull, func(ctx context.Context, c *service.Components, logger *zap.Logger) error {
				return runBatch(ctx, logger, c.Gateway, opts, cmd.OutOrStdout())
			})
		},
	}

	batchCmd.Flags().StringVar(&opts.orgID, "org", "", "generate for every team of this organization")
	batchCmd.Flags().StringSliceVar(&opts.teamIDs, "teams", nil, "comma-separated team ids")
	batchCmd.Flags().StringSliceVar(&opts.modules, "modules", nil, "ordered, comma-separated module ids (default: all modules)")
	batchCmd.Flags().IntVar(&opts.concurrency, "concurrency", 0, "maximum concurrent generations (default: report.batch_concurrency)")
	batchCmd.Flags().BoolVar(&opts.save, "save", false, "save every generated report")
	batchCmd.Flags().StringVar(&opts.outDir, "out-dir", "", "write each report to <out-dir>/<team>.md")
	return batchCmd
}

func runBatch(ctx context.Context, logger *zap.Logger, gw *reportgen.Gateway, opts batchOptions, stdout io.Writer) error {
	bo := reportgen.BatchOptions{
		Selection:   reportgen.OmittedSelection(),
		Concurrency: opts.concurrency,
		Persist:     opts.save,
	}
	if opts.modulesSet {
		bo.Selection = reportgen.Select(trimIDs(opts.modules)...)
	}

	var (
		items []reportgen.BatchItem
		err   error
	)
	if opts.orgID != "" {
		items, err = gw.GenerateForOrganization(ctx, opts.orgID, bo)
	} else {
		items, err = gw.GenerateBatch(ctx, trimIDs(opts.teamIDs), bo)
	}
	if err != nil {
		return err
	}

	if opts.outDir != "" {
		if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", opts.outDir, err)
		}
	}

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TEAM\tSTATUS\tDETAIL")
	failed := 0
	for _, it := range items {
		if it.Failed() {
			failed++
			fmt.Fprintf(tw, "%s\tfailed\t%v\n", it.TeamID, it.Err)
			continue
		}
		status, detail := "generated", ""
		switch {
		case it.Result.Saved:
			status = "saved"
		case it.Result.PersistErr != nil:
			status, detail = "not saved", it.Result.PersistErr.Error()
		}
		if opts.outDir != "" {
			path := filepath.Join(opts.outDir, it.TeamID+".md")
			if err := writeOutput(path, it.Result.Markdown, stdout); err != nil {
				logger.Warn("Failed to write report file.", zap.String("path", path), zap.Error(err))
				detail = err.Error()
			} else if detail == "" {
				detail = path
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", it.TeamID, status, detail)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d reports failed: %w", failed, len(items), reportgen.BatchErr(items))
	}
	return nil
}

func trimIDs(in []string) []string {
	out := make([]string, 0, len(in))
	for _, id := range in {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}
