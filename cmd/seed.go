// -- cmd/seed.go --
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mindsetos/teamreport/internal/seed"
	"github.com/mindsetos/teamreport/internal/service"
)

func newSeedCmd(factory service.ComponentFactory) *cobra.Command {
	var (
		teamsPerOrg int
		randomSeed  uint64
	)

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the demo organizations and teams",
		Long: `Upserts three demo organizations with generated teams. Scores are drawn
from a seeded generator, so the same flags always produce the same data.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withComponents(cmd, factory, service.ScopeStore, func(ctx context.Context, c *service.Components, logger *zap.Logger) error {
				ds := seed.Generate(teamsPerOrg, randomSeed)
				if err := seed.Load(ctx, c.Store, ds, logger); err != nil {
					return err
				}
				c.PurgeCache()
				fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d organizations and %d teams.\n", len(ds.Organizations), len(ds.Teams))
				return nil
			})
		},
	}

	seedCmd.Flags().IntVar(&teamsPerOrg, "teams-per-org", seed.DefaultTeamsPerOrg, "teams to create per organization")
	seedCmd.Flags().Uint64Var(&randomSeed, "random-seed", seed.DefaultSeed, "seed for the generated scores")
	return seedCmd
}
