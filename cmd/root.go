// -- cmd/root.go --
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mindsetos/teamreport/internal/config"
	"github.com/mindsetos/teamreport/internal/observability"
	"github.com/mindsetos/teamreport/internal/service"
)

type contextKey string

const configKey contextKey = "config"

var cfgFile string

// dotenvFiles are loaded in order; a variable already set wins, so
// .env.local overrides .env and the real environment overrides both.
var dotenvFiles = []string{".env.local", ".env"}

// NewRootCommand builds the command tree with production dependencies.
func NewRootCommand() *cobra.Command {
	return newRootCmd(service.NewComponentFactory(nil))
}

func newRootCmd(factory service.ComponentFactory) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "teamreport",
		Short:         "teamreport generates team diagnostic reports from behavioral aggregates.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			config.SetDefaults(v)

			if err := initializeConfig(v); err != nil {
				return fmt.Errorf("failed to initialize configuration: %w", err)
			}

			cfg, err := config.NewConfigFromViper(v)
			if err != nil {
				observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "teamreport"})
				return fmt.Errorf("failed to load or validate config: %w", err)
			}

			observability.InitializeLogger(cfg.Logger())
			observability.GetLogger().Debug("Starting teamreport", zap.String("version", Version))

			cmd.SetContext(context.WithValue(cmd.Context(), configKey, config.Interface(cfg)))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml or ~/.teamreport/config.yaml)")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newServeCmd(factory))
	rootCmd.AddCommand(newGenerateCmd(factory))
	rootCmd.AddCommand(newBatchCmd(factory))
	rootCmd.AddCommand(newReportCmd(factory))
	rootCmd.AddCommand(newModulesCmd(factory))
	rootCmd.AddCommand(newOrgsCmd(factory))
	rootCmd.AddCommand(newTeamsCmd(factory))
	rootCmd.AddCommand(newSeedCmd(factory))
	rootCmd.AddCommand(newMigrateCmd(factory))
	return rootCmd
}

// Execute runs the command tree and logs a failure.
func Execute(ctx context.Context) error {
	err := NewRootCommand().ExecuteContext(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		observability.GetLogger().Error("Command execution failed", zap.Error(err))
	}
	observability.Sync()
	return err
}

// initializeConfig loads .env files, then the config file and the environment into v.
func initializeConfig(v *viper.Viper) error {
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("error loading %s: %w", f, err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".teamreport"))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	config.BindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

// getConfigFromContext returns the configuration stored by PersistentPreRunE.
func getConfigFromContext(ctx context.Context) (config.Interface, error) {
	cfg, ok := ctx.Value(configKey).(config.Interface)
	if !ok || cfg == nil {
		return nil, fmt.Errorf("configuration not found in context")
	}
	return cfg, nil
}
