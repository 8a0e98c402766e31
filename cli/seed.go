// File: cli/seed.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"car-showcase/config"
)

func newSeedCommand(cfg func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the admin account and starter catalog into an empty store",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd.Context(), cfg())
			if err != nil {
				return err
			}
			defer a.Close()

			seeded, err := a.seed(cmd.Context())
			if err != nil {
				return err
			}
			if seeded {
				fmt.Fprintln(cmd.OutOrStdout(), "seeded admin user, cars and videos")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "store already has users, nothing to do")
			}
			return nil
		},
	}
}
