// Package wire assembles the stargate application from its configuration.
// Every command builds its own Container; nothing is global.
package wire

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/example/stargate/internal/adapters/api"
	cliadapter "github.com/example/stargate/internal/adapters/cli"
	"github.com/example/stargate/internal/adapters/persistence"
	"github.com/example/stargate/internal/app"
	"github.com/example/stargate/internal/config"
	"github.com/example/stargate/internal/db"
	"github.com/example/stargate/internal/ports/primary"
	"github.com/example/stargate/internal/ports/secondary"
)

// Container holds the wired services for one process.
type Container struct {
	cfg      *config.Config
	logger   *slog.Logger
	database *sql.DB
	dialect  db.Dialect

	txManager     *persistence.TxManager
	personService primary.PersonService
	dutyService   primary.AstronautDutyService
}

// New opens the configured database and builds repositories and services.
// The schema is not touched; run Migrator().InitSchema first on a new store.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	database, dialect, err := db.Open(ctx, cfg.DBOptions())
	if err != nil {
		return nil, err
	}

	txManager := persistence.NewTxManager(database, dialect)
	personRepo := persistence.NewPersonRepository(database, dialect)
	dutyRepo := persistence.NewAstronautDutyRepository(database, dialect)
	detailRepo := persistence.NewAstronautDetailRepository(database, dialect)

	executor := app.NewEffectExecutor(dutyRepo, detailRepo, logger)

	return &Container{
		cfg:           cfg,
		logger:        logger,
		database:      database,
		dialect:       dialect,
		txManager:     txManager,
		personService: app.NewPersonService(txManager, personRepo),
		dutyService:   app.NewAstronautDutyService(txManager, personRepo, dutyRepo, detailRepo, executor, logger),
	}, nil
}

// PersonService returns the person service.
func (c *Container) PersonService() primary.PersonService {
	return c.personService
}

// DutyService returns the astronaut duty service.
func (c *Container) DutyService() primary.AstronautDutyService {
	return c.dutyService
}

// TxManager returns the transaction manager the services share.
func (c *Container) TxManager() secondary.TransactionManager {
	return c.txManager
}

// Migrator returns a schema migrator bound to the container's database.
func (c *Container) Migrator() *db.Migrator {
	return db.NewMigrator(c.database, c.dialect, c.logger)
}

// Dialect reports the SQL dialect in use.
func (c *Container) Dialect() db.Dialect {
	return c.dialect
}

// Ping checks database connectivity.
func (c *Container) Ping(ctx context.Context) error {
	if err := c.database.PingContext(ctx); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}
	return nil
}

// APIHandler builds the HTTP handler with a fresh metrics registry that also
// carries the Go runtime and process collectors.
func (c *Container) APIHandler() http.Handler {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return api.NewHandler(api.Options{
		People:      c.personService,
		Duties:      c.dutyService,
		Health:      c.database,
		Logger:      c.logger,
		Registry:    registry,
		CORSOrigins: c.cfg.HTTP.CORSOrigins,
	})
}

// PersonAdapter returns a CLI adapter writing to out.
func (c *Container) PersonAdapter(out io.Writer) *cliadapter.PersonAdapter {
	return cliadapter.NewPersonAdapter(c.personService, out)
}

// DutyAdapter returns a CLI adapter writing to out.
func (c *Container) DutyAdapter(out io.Writer) *cliadapter.DutyAdapter {
	return cliadapter.NewDutyAdapter(c.dutyService, out)
}

// Close releases the database handle.
func (c *Container) Close() error {
	return c.database.Close()
}
