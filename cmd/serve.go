// -- cmd/serve.go --
package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mindsetos/teamreport/internal/config"
	"github.com/mindsetos/teamreport/internal/httpapi"
	"github.com/mindsetos/teamreport/internal/service"
)

func newServeCmd(factory service.ComponentFactory) *cobra.Command {
	var addr string

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serves the organization and team directory, the module catalog, report
generation and saved reports over HTTP until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}
			serverCfg := cfg.Server()
			if addr != "" {
				serverCfg.Addr = addr
			}
			if cfg.Logger().Level != "debug" {
				gin.SetMode(gin.ReleaseMode)
			}
			return withComponents(cmd, factory, service.ScopeFull, func(ctx context.Context, c *service.Components, logger *zap.Logger) error {
				srv := httpapi.NewServer(serverCfg, httpapi.Deps{
					Registry:  c.Registry,
					Gateway:   c.Gateway,
					Directory: c.Store,
					Reports:   c.Store,
					Metrics:   c.Metrics,
					Logger:    logger,
				})
				return runServer(ctx, srv.HTTPServer(), serverCfg, logger)
			})
		},
	}

	serveCmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides server.addr")
	return serveCmd
}

// runServer serves until ctx is canceled, then shuts down within the
// configured timeout.
func runServer(ctx context.Context, srv *http.Server, cfg config.ServerConfig, logger *zap.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("HTTP server listening.", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		logger.Info("Shutting down HTTP server.")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
