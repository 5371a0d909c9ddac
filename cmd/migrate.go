// -- cmd/migrate.go --
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mindsetos/teamreport/internal/service"
	"github.com/mindsetos/teamreport/internal/store"
)

func newMigrateCmd(factory service.ComponentFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the PostgreSQL tables and indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withComponents(cmd, factory, service.ScopeStore, func(ctx context.Context, c *service.Components, logger *zap.Logger) error {
				if c.DBPool == nil {
					return fmt.Errorf("migrate needs a database; set database.url or TEAMREPORT_DATABASE_URL")
				}
				pgStore, err := store.New(ctx, c.DBPool, logger)
				if err != nil {
					return err
				}
				if err := pgStore.EnsureSchema(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date.")
				return nil
			})
		},
	}
}
