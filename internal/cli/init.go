package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/stargate/internal/config"
	"github.com/example/stargate/internal/wire"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the stargate config and database",
		Long: `Write .stargate/config.json (unless it already exists) and create the
database schema for the configured storage driver.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			dir, _ := cmd.Flags().GetString(flagConfigDir)
			path := config.Path(dir)
			if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
				persisted, err := persistableConfig(cmd)
				if err != nil {
					return err
				}
				if err := config.SaveConfig(dir, persisted); err != nil {
					return err
				}
				fmt.Fprintf(out, "✓ Config written to %s\n", path)
			} else if err != nil {
				return fmt.Errorf("failed to check config: %w", err)
			}

			c, _, err := openContainer(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			version, err := c.Migrator().CurrentVersion(commandContext(cmd))
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "✓ Database initialized (%s, schema version %d)\n", cfg.Storage.Driver, version)
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Next steps:")
			fmt.Fprintln(out, "  stargate person create \"Armstrong, Neil\"")
			fmt.Fprintln(out, "  stargate serve")

			return nil
		},
	}
}

// MigrateCmd returns the migrate command
func MigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger, err := newLogger(cmd, cfg)
			if err != nil {
				return err
			}

			ctx := commandContext(cmd)
			c, err := wire.New(ctx, cfg, logger)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer c.Close()

			migrator := c.Migrator()
			before, err := migrator.AppliedVersion(ctx)
			if err != nil {
				return err
			}
			if err := migrator.InitSchema(ctx); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			after, err := migrator.CurrentVersion(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if after == before {
				fmt.Fprintf(out, "✓ Schema is up to date (version %d)\n", after)
				return nil
			}
			fmt.Fprintf(out, "✓ Schema migrated from version %d to %d\n", before, after)
			return nil
		},
	}
}
