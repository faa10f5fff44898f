package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/stargate/internal/adapters/api"
	"github.com/example/stargate/internal/wire"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the JSON/HTTP API",
		Long: `Run the personnel API until SIGINT or SIGTERM, then drain in-flight requests.

Routes:
  GET  /person                  list people
  GET  /person/{name}           person with astronaut summary
  POST /person                  create person ({"name": "..."})
  GET  /astronautduty/{name}    summary and duty history
  POST /astronautduty           record duty
  GET  /healthz                 database connectivity
  GET  /metrics                 Prometheus metrics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.HTTP.Addr = addr
			}
			logger, err := newLogger(cmd, cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			c, err := wire.New(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer c.Close()

			if err := c.Migrator().InitSchema(ctx); err != nil {
				return err
			}

			logger.Info("starting api", "driver", cfg.Storage.Driver, "dialect", string(c.Dialect()))
			return api.Serve(ctx, cfg.HTTP.Addr, c.APIHandler(), logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, :8080)")

	return cmd
}
