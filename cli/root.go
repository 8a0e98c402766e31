// Package cli wires configuration, storage and services into the car-showcase commands.
// File: cli/root.go
package cli

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"car-showcase/config"
	"car-showcase/logger"
)

// NewRootCommand returns the car-showcase command tree. The loaded configuration
// is shared by every subcommand through the returned closure state.
func NewRootCommand() *cobra.Command {
	var (
		configPath string
		cfg        *config.Config
	)
	loaded := func() *config.Config { return cfg }

	root := &cobra.Command{
		Use:           "car-showcase",
		Short:         "Car showcase API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := logger.InitLogger(c.Env, c.LogDir); err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			if c.IsProduction() {
				gin.SetMode(gin.ReleaseMode)
				if c.UsingDefaultSecret() {
					logger.Warn("SESSION_SECRET is not set; cookies are signed with the development secret")
				}
			}
			logger.Debug("configuration loaded",
				zap.String("env", c.Env),
				zap.String("storage", c.Storage.Driver),
				zap.String("sessions", c.Sessions.Backend))
			cfg = c
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (default $CONFIG_FILE)")

	root.AddCommand(
		newServeCommand(loaded),
		newMigrateCommand(loaded),
		newSeedCommand(loaded),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		logger.Error("command failed", zap.Error(err))
		logger.Sync()
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
