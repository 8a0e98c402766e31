// File: cli/migrate.go
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"car-showcase/config"
	"car-showcase/logger"
)

func newMigrateCommand(cfg func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema and re-hash legacy plain-text passwords",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cfg()
			if !c.UsesSQL() {
				return errors.New("migrate needs a postgres or sqlite3 storage driver")
			}
			// opening the stores applies the entity and session schemas
			a, err := buildApp(cmd.Context(), c)
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := a.auth.MigrateLegacyPasswords(cmd.Context())
			if err != nil {
				return fmt.Errorf("migrate legacy passwords: %w", err)
			}
			logger.Info("migration complete", zap.String("driver", c.Storage.Driver), zap.Int("rehashed", n))
			fmt.Fprintf(cmd.OutOrStdout(), "schema up to date, %d password(s) re-hashed\n", n)
			return nil
		},
	}
}
