package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/example/stargate/internal/config"
	"github.com/example/stargate/internal/logging"
	"github.com/example/stargate/internal/wire"
)

// loadConfig resolves the effective configuration: file, then STARGATE_*
// environment variables, then explicitly set flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	dir, _ := cmd.Flags().GetString(flagConfigDir)
	cfg, err := config.LoadConfig(dir)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	applyFlags(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// persistableConfig is the configuration init writes to disk: file and
// explicitly set flags only. Environment values stay out of the file.
func persistableConfig(cmd *cobra.Command) (*config.Config, error) {
	dir, _ := cmd.Flags().GetString(flagConfigDir)
	cfg, err := config.LoadConfig(dir)
	if err != nil {
		return nil, err
	}
	applyFlags(cmd, cfg)
	return cfg, nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed(flagDriver) {
		cfg.Storage.Driver, _ = flags.GetString(flagDriver)
	}
	if flags.Changed(flagSQLitePath) {
		cfg.Storage.SQLitePath, _ = flags.GetString(flagSQLitePath)
	}
	if flags.Changed(flagPostgresDSN) {
		cfg.Storage.PostgresDSN, _ = flags.GetString(flagPostgresDSN)
	}
	if flags.Changed(flagLogLevel) {
		cfg.Log.Level, _ = flags.GetString(flagLogLevel)
	}
}

// newLogger builds the process logger. Logs go to stderr so command output stays clean.
func newLogger(cmd *cobra.Command, cfg *config.Config) (*slog.Logger, error) {
	return logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
}

// openContainer loads config, opens the database and brings the schema up to date.
func openContainer(cmd *cobra.Command) (*wire.Container, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return nil, nil, err
	}

	ctx := commandContext(cmd)
	c, err := wire.New(ctx, cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := c.Migrator().InitSchema(ctx); err != nil {
		c.Close()
		return nil, nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return c, cfg, nil
}

// commandContext returns the command's context, falling back to Background.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
