package cli

import (
	"github.com/spf13/cobra"
)

// DutyCmd returns the duty command
func DutyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "duty",
		Short: "Record and list astronaut duties",
	}

	var rank, title, start string
	createCmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Record a new duty for a person",
		Long: `Record a duty. The person's open duty is closed the day before --start and
their summary is refreshed. A title of RETIRED also ends the career.

Examples:
  stargate duty create "Armstrong, Neil" --rank 1LT --title Pilot --start 1962-09-17
  stargate duty create "Armstrong, Neil" --rank CPT --title RETIRED --start 1971-08-01`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := openContainer(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			return c.DutyAdapter(cmd.OutOrStdout()).Create(commandContext(cmd), args[0], rank, title, start)
		},
	}
	createCmd.Flags().StringVar(&rank, "rank", "", "Rank held during the duty (required)")
	createCmd.Flags().StringVar(&title, "title", "", "Duty title (required)")
	createCmd.Flags().StringVar(&start, "start", "", "Duty start date, YYYY-MM-DD (required)")
	createCmd.MarkFlagRequired("rank")
	createCmd.MarkFlagRequired("title")
	createCmd.MarkFlagRequired("start")
	cmd.AddCommand(createCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "list [name]",
		Short: "Show a person's summary and duty history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := openContainer(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			return c.DutyAdapter(cmd.OutOrStdout()).List(commandContext(cmd), args[0])
		},
	})

	return cmd
}
