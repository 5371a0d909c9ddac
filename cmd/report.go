// File: cmd/report.go
package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mindsetos/teamreport/api/schemas"
	"github.com/mindsetos/teamreport/internal/service"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func newReportCmd(factory service.ComponentFactory) *cobra.Command {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Work with saved reports",
	}
	reportCmd.AddCommand(newReportLatestCmd(factory))
	return reportCmd
}

func newReportLatestCmd(factory service.ComponentFactory) *cobra.Command {
	var (
		teamID     string
		outputPath string
		asJSON     bool
	)

	latestCmd := &cobra.Command{
		Use:   "latest",
		Short: "Print the most recently saved report of a team",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withComponents(cmd, factory, service.ScopeStore, func(ctx context.Context, c *service.Components, logger *zap.Logger) error {
				return runReportLatest(ctx, c.Store, teamID, outputPath, asJSON, cmd.OutOrStdout(), cmd.ErrOrStderr())
			})
		},
	}

	latestCmd.Flags().StringVar(&teamID, "team", "", "team id (required)")
	_ = latestCmd.MarkFlagRequired("team")
	latestCmd.Flags().StringVarP(&outputPath, "output", "o", "", "write to this file instead of stdout")
	latestCmd.Flags().BoolVar(&asJSON, "json", false, "print the full record as JSON")
	return latestCmd
}

func runReportLatest(ctx context.Context, reports schemas.ReportStore, teamID, outputPath string, asJSON bool, stdout, stderr io.Writer) error {
	report, err := reports.GetLatestReport(ctx, teamID)
	if err != nil {
		return err
	}
	if report == nil {
		fmt.Fprintf(stderr, "No saved report for team %s.\n", teamID)
		return nil
	}

	if asJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		return writeOutput(outputPath, string(data), stdout)
	}

	fmt.Fprintf(stderr, "Report %s for team %s, version %s, created %s, modules %v\n",
		report.ID, report.TeamID, report.Version,
		time.UnixMilli(report.CreatedAt).UTC().Format(time.RFC3339), report.Modules)
	return writeOutput(outputPath, report.Markdown, stdout)
}
