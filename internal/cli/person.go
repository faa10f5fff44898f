package cli

import (
	"github.com/spf13/cobra"
)

// PersonCmd returns the person command
func PersonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "person",
		Short: "Manage people",
		Long:  "Create, list and inspect people in the personnel ledger",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "create [name]",
		Short: "Create a new person",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := openContainer(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			return c.PersonAdapter(cmd.OutOrStdout()).Create(commandContext(cmd), args[0])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List people with their current assignment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := openContainer(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			return c.PersonAdapter(cmd.OutOrStdout()).List(commandContext(cmd))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show [name]",
		Short: "Show a person's astronaut summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := openContainer(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			_, err = c.PersonAdapter(cmd.OutOrStdout()).Show(commandContext(cmd), args[0])
			return err
		},
	})

	return cmd
}
