package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// Migration represents a database migration.
// Up holds the DDL per dialect; every statement runs inside the migration's transaction.
type Migration struct {
	Version int
	Name    string
	Up      map[Dialect]string
}

// migrations is the list of all migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_people_table",
		Up: map[Dialect]string{
			DialectSQLite: `
				CREATE TABLE IF NOT EXISTS people (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					name TEXT NOT NULL UNIQUE CHECK(length(trim(name)) > 0),
					created_at TEXT NOT NULL
				);`,
			DialectPostgres: `
				CREATE TABLE IF NOT EXISTS people (
					id BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
					name TEXT NOT NULL UNIQUE CHECK(length(trim(name)) > 0),
					created_at TEXT NOT NULL
				);`,
		},
	},
	{
		Version: 2,
		Name:    "create_astronaut_details_table",
		Up: map[Dialect]string{
			DialectSQLite: `
				CREATE TABLE IF NOT EXISTS astronaut_details (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					person_id INTEGER NOT NULL UNIQUE,
					current_rank TEXT NOT NULL,
					current_duty_title TEXT NOT NULL,
					career_start_date TEXT NOT NULL,
					career_end_date TEXT,
					FOREIGN KEY (person_id) REFERENCES people(id)
				);`,
			DialectPostgres: `
				CREATE TABLE IF NOT EXISTS astronaut_details (
					id BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
					person_id BIGINT NOT NULL UNIQUE REFERENCES people(id),
					current_rank TEXT NOT NULL,
					current_duty_title TEXT NOT NULL,
					career_start_date TEXT NOT NULL,
					career_end_date TEXT
				);`,
		},
	},
	{
		Version: 3,
		Name:    "create_astronaut_duties_table",
		Up: map[Dialect]string{
			DialectSQLite: `
				CREATE TABLE IF NOT EXISTS astronaut_duties (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					person_id INTEGER NOT NULL,
					rank TEXT NOT NULL,
					duty_title TEXT NOT NULL,
					duty_start_date TEXT NOT NULL,
					duty_end_date TEXT,
					FOREIGN KEY (person_id) REFERENCES people(id),
					UNIQUE(person_id, duty_start_date)
				);`,
			DialectPostgres: `
				CREATE TABLE IF NOT EXISTS astronaut_duties (
					id BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
					person_id BIGINT NOT NULL REFERENCES people(id),
					rank TEXT NOT NULL,
					duty_title TEXT NOT NULL,
					duty_start_date TEXT NOT NULL,
					duty_end_date TEXT,
					UNIQUE(person_id, duty_start_date)
				);`,
		},
	},
	{
		Version: 4,
		Name:    "add_single_open_duty_index",
		Up: map[Dialect]string{
			DialectSQLite:   `CREATE UNIQUE INDEX IF NOT EXISTS idx_astronaut_duties_open ON astronaut_duties(person_id) WHERE duty_end_date IS NULL;`,
			DialectPostgres: `CREATE UNIQUE INDEX IF NOT EXISTS idx_astronaut_duties_open ON astronaut_duties(person_id) WHERE duty_end_date IS NULL;`,
		},
	},
}

// LatestVersion returns the highest known migration version.
func LatestVersion() int {
	return migrations[len(migrations)-1].Version
}

// Migrator brings a database up to the current schema.
type Migrator struct {
	db      *sql.DB
	dialect Dialect
	logger  *slog.Logger
}

// NewMigrator creates a Migrator. A nil logger discards progress messages.
func NewMigrator(database *sql.DB, dialect Dialect, logger *slog.Logger) *Migrator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Migrator{db: database, dialect: dialect, logger: logger}
}

// InitSchema creates the database schema.
// A fresh database gets SchemaSQL directly with every migration marked as applied;
// an existing one runs pending migrations.
func (m *Migrator) InitSchema(ctx context.Context) error {
	hasVersionTable, err := m.tableExists(ctx, "schema_version")
	if err != nil {
		return err
	}

	if !hasVersionTable {
		hasPeople, err := m.tableExists(ctx, "people")
		if err != nil {
			return err
		}
		if !hasPeople {
			return m.installFresh(ctx)
		}
	}

	_, err = m.RunMigrations(ctx)
	return err
}

// RunMigrations executes all pending migrations and returns how many were applied.
func (m *Migrator) RunMigrations(ctx context.Context) (int, error) {
	if err := m.ensureVersionTable(ctx); err != nil {
		return 0, err
	}

	currentVersion, err := m.CurrentVersion(ctx)
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		m.logger.Info("running migration", "version", migration.Version, "name", migration.Name)

		if err := m.apply(ctx, migration); err != nil {
			return applied, err
		}
		applied++

		m.logger.Info("migration completed", "version", migration.Version)
	}

	return applied, nil
}

// CurrentVersion returns the highest applied migration version (0 when none).
func (m *Migrator) CurrentVersion(ctx context.Context) (int, error) {
	var version int
	err := m.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to get current schema version: %w", err)
	}
	return version, nil
}

// AppliedVersion is CurrentVersion for a database that may not be initialized yet.
func (m *Migrator) AppliedVersion(ctx context.Context) (int, error) {
	ok, err := m.tableExists(ctx, "schema_version")
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	return m.CurrentVersion(ctx)
}

func (m *Migrator) apply(ctx context.Context, migration Migration) error {
	ddl, ok := migration.Up[m.dialect]
	if !ok {
		return fmt.Errorf("migration %d has no %s variant", migration.Version, m.dialect)
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
	}

	for _, stmt := range SplitStatements(ddl) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}
	}

	if err := m.recordVersion(ctx, tx, migration.Version); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
	}
	return nil
}

func (m *Migrator) installFresh(ctx context.Context) error {
	m.logger.Info("installing fresh schema", "dialect", string(m.dialect), "version", LatestVersion())

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}

	for _, stmt := range SplitStatements(GetSchemaSQL(m.dialect)) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, versionTableDDL); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	// Mark all migrations as applied for fresh installs
	for _, migration := range migrations {
		if err := m.recordVersion(ctx, tx, migration.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema: %w", err)
	}
	return nil
}

const versionTableDDL = `
	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL
	)`

func (m *Migrator) ensureVersionTable(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, versionTableDDL); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}
	return nil
}

func (m *Migrator) recordVersion(ctx context.Context, tx *sql.Tx, version int) error {
	_, err := tx.ExecContext(ctx,
		m.dialect.Rebind("INSERT INTO schema_version (version, applied_at) VALUES (?, ?)"),
		version, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

func (m *Migrator) tableExists(ctx context.Context, name string) (bool, error) {
	var count int
	if err := m.db.QueryRowContext(ctx, m.dialect.tableExistsQuery(), name).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to inspect table %s: %w", name, err)
	}
	return count > 0, nil
}
