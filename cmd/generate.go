// -- cmd/generate.go --
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mindsetos/teamreport/internal/reportgen"
	"github.com/mindsetos/teamreport/internal/service"
)

type generateOptions struct {
	teamID     string
	modules    []string
	modulesSet bool
	narrative  string
	values     string
	save       bool
	outputPath string
}

func newGenerateCmd(factory service.ComponentFactory) *cobra.Command {
	var opts generateOptions

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a report for a stored team",
		Long: `Loads the team's aggregate, builds the prompt for the selected modules in the
given order and prints the generated Markdown. Without --modules every module is
included in catalog order; an explicitly empty --modules= is rejected.`,
		Example: `  teamreport generate --team org-1-team-3 --modules stressTest,executiveDashboard --save -o report.md`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.modulesSet = cmd.Flags().Changed("modules")
			return withComponents(cmd, factory, service.ScopeFull, func(ctx context.Context, c *service.Components, logger *zap.Logger) error {
				return runGenerate(ctx, logger, c.Gateway, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			})
		},
	}

	generateCmd.Flags().StringVar(&opts.teamID, "team", "", "team id (required)")
	_ = generateCmd.MarkFlagRequired("team")
	generateCmd.Flags().StringSliceVar(&opts.modules, "modules", nil, "ordered, comma-separated module ids (default: all modules)")
	generateCmd.Flags().StringVar(&opts.narrative, "narrative", "", "replace the stored narrative for this report")
	generateCmd.Flags().StringVar(&opts.values, "values", "", "replace the stored values vector for this report")
	generateCmd.Flags().BoolVar(&opts.save, "save", false, "save the generated report")
	generateCmd.Flags().StringVarP(&opts.outputPath, "output", "o", "", "write the Markdown to this file instead of stdout")
	return generateCmd
}

func runGenerate(ctx context.Context, logger *zap.Logger, gw *reportgen.Gateway, opts generateOptions, stdout, stderr io.Writer) error {
	sel := reportgen.OmittedSelection()
	if opts.modulesSet {
		sel = reportgen.Select(trimIDs(opts.modules)...)
	}

	res, err := gw.GenerateForTeam(ctx, opts.teamID,
		reportgen.Overrides{Narrative: opts.narrative, ValuesVector: opts.values}, sel)
	if err != nil {
		return err
	}

	if err := writeOutput(opts.outputPath, res.Markdown, stdout); err != nil {
		return err
	}

	if opts.save {
		createdAt, err := gw.Save(ctx, res.TeamID, res.Version, res.Modules, res.Markdown)
		if err != nil {
			// The report was already written; a failed save only warns.
			fmt.Fprintf(stderr, "warning: report generated but not saved: %v\n", err)
			return nil
		}
		logger.Info("Report saved.", zap.String("team_id", res.TeamID), zap.Int64("created_at", createdAt))
	}
	return nil
}

// writeOutput writes text to path, or to stdout when path is empty.
func writeOutput(path, text string, stdout io.Writer) error {
	if path == "" {
		_, err := io.WriteString(stdout, text)
		if err == nil && !strings.HasSuffix(text, "\n") {
			_, err = io.WriteString(stdout, "\n")
		}
		return err
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
