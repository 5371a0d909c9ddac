// -- cmd/components.go --
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mindsetos/teamreport/internal/observability"
	"github.com/mindsetos/teamreport/internal/service"
)

// withComponents builds the component graph for scope, runs fn and shuts the
// components down again.
func withComponents(cmd *cobra.Command, factory service.ComponentFactory, scope service.Scope,
	fn func(ctx context.Context, c *service.Components, logger *zap.Logger) error) error {
	ctx := cmd.Context()
	logger := observability.GetLogger()

	cfg, err := getConfigFromContext(ctx)
	if err != nil {
		return err
	}

	components, err := factory.Create(ctx, cfg, scope, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize components: %w", err)
	}
	defer components.Shutdown()

	return fn(ctx, components, logger)
}
