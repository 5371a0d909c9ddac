// -- cmd/directory.go --
package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mindsetos/teamreport/api/schemas"
	"github.com/mindsetos/teamreport/internal/catalog"
	"github.com/mindsetos/teamreport/internal/service"
)

func newModulesCmd(factory service.ComponentFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "modules",
		Short: "List the report modules in default order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withComponents(cmd, factory, service.ScopeStore, func(_ context.Context, c *service.Components, _ *zap.Logger) error {
				return printModules(cmd.OutOrStdout(), c.Registry)
			})
		},
	}
}

func printModules(w io.Writer, r *catalog.Registry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tID\tTITLE")
	for i, m := range r.All() {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", i+1, m.ID, m.Title)
	}
	return tw.Flush()
}

func newOrgsCmd(factory service.ComponentFactory) *cobra.Command {
	orgsCmd := &cobra.Command{
		Use:   "orgs",
		Short: "Browse organizations",
	}
	orgsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List organizations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withComponents(cmd, factory, service.ScopeStore, func(ctx context.Context, c *service.Components, _ *zap.Logger) error {
				orgs, err := c.Store.ListOrganizations(ctx)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME")
				for _, o := range orgs {
					fmt.Fprintf(tw, "%s\t%s\n", o.OrgID, o.OrgName)
				}
				return tw.Flush()
			})
		},
	})
	return orgsCmd
}

func newTeamsCmd(factory service.ComponentFactory) *cobra.Command {
	teamsCmd := &cobra.Command{
		Use:   "teams",
		Short: "Browse teams",
	}

	var orgID string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List teams, optionally of one organization",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withComponents(cmd, factory, service.ScopeStore, func(ctx context.Context, c *service.Components, _ *zap.Logger) error {
				teams, err := c.Store.ListTeams(ctx, orgID)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tORG")
				for _, t := range teams {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", t.TeamID, t.TeamName, t.OrgID)
				}
				return tw.Flush()
			})
		},
	}
	listCmd.Flags().StringVar(&orgID, "org", "", "only teams of this organization")

	showCmd := &cobra.Command{
		Use:   "show <team-id>",
		Short: "Show a team's aggregate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withComponents(cmd, factory, service.ScopeStore, func(ctx context.Context, c *service.Components, _ *zap.Logger) error {
				team, err := c.Store.GetTeamAggregate(ctx, args[0])
				if err != nil {
					return err
				}
				return printTeam(cmd.OutOrStdout(), team)
			})
		},
	}

	teamsCmd.AddCommand(listCmd, showCmd)
	return teamsCmd
}

const barWidth = 20

// bar renders a 0-100 percentage as a fixed-width bar. Values outside the
// range are clamped for display only.
func bar(pct float64) string {
	filled := int(pct/100*barWidth + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

func printTeam(w io.Writer, t *schemas.TeamAggregate) error {
	fmt.Fprintf(w, "%s (%s)\n", t.TeamName, t.TeamID)
	if t.OrgName != "" {
		fmt.Fprintf(w, "Organization: %s (%s)\n", t.OrgName, t.OrgID)
	} else {
		fmt.Fprintf(w, "Organization: %s\n", t.OrgID)
	}
	fmt.Fprintf(w, "\nValues vector:\n  %s\n", t.ValuesVector)
	fmt.Fprintf(w, "\nNarrative:\n  %s\n", t.ResolvedNarrative())

	if len(t.MindsetScores) == 0 {
		return nil
	}
	fmt.Fprintln(w, "\nMindsets:")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  MINDSET\tCAPACITY\t\tFRICTION\t")
	for _, s := range t.MindsetScores {
		c := s.Clamped()
		fmt.Fprintf(tw, "  %s\t%s\t%3.0f\t%s\t%3.0f\n", s.MindsetName, bar(c.Capacity), s.Capacity, bar(c.Friction), s.Friction)
	}
	return tw.Flush()
}
