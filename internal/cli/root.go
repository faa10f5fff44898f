// Package cli wires the stargate cobra commands.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/stargate/internal/version"
)

// Persistent flag names shared by every subcommand.
const (
	flagConfigDir   = "config-dir"
	flagDriver      = "driver"
	flagSQLitePath  = "sqlite-path"
	flagPostgresDSN = "postgres-dsn"
	flagLogLevel    = "log-level"
)

// NewRootCmd returns the stargate root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "stargate",
		Short:   "Stargate - astronaut personnel and duty ledger",
		Version: version.String(),
		Long: `Stargate tracks people, their astronaut duty history and career summary.
It runs as a CLI against the configured database or as a JSON/HTTP API (stargate serve).`,
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.String(flagConfigDir, ".", "Directory containing .stargate/config.json")
	flags.String(flagDriver, "", "Storage driver: sqlite3, sqlite or postgres")
	flags.String(flagSQLitePath, "", "SQLite database file")
	flags.String(flagPostgresDSN, "", "PostgreSQL connection string")
	flags.String(flagLogLevel, "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(InitCmd())
	rootCmd.AddCommand(MigrateCmd())
	rootCmd.AddCommand(ServeCmd())
	rootCmd.AddCommand(DoctorCmd())
	rootCmd.AddCommand(SeedCmd())

	// Entity commands
	rootCmd.AddCommand(PersonCmd())
	rootCmd.AddCommand(DutyCmd())

	return rootCmd
}
