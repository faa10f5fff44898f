package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/stargate/internal/app"
)

// SeedCmd returns the seed command
func SeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the sample astronaut roster",
		Long: `Create a small demo roster through the regular services:
Armstrong (retired), Ride (active) and Johnson (no duties).
Runs in one transaction: if any of them already exists, nothing is written.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := openContainer(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			result, err := app.SeedFixtures(commandContext(cmd), c.TxManager(), c.PersonService(), c.DutyService())
			if err != nil {
				return fmt.Errorf("seed failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Seeded %d people and %d duties\n", result.People, result.Duties)
			return nil
		},
	}
}
