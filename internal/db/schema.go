package db

import "strings"

// SchemaSQL is the complete modern schema for fresh SQLite installs.
// This schema reflects the current state after all migrations.
//
// # Schema Drift Protection
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. Repository tests load it
// through GetSchemaSQL() instead of hardcoding CREATE TABLE statements, so a column
// referenced by repository code but missing here fails immediately with "no such column".
//
// When adding new columns or tables:
//  1. Add a migration in migrations.go
//  2. Update SchemaSQL and PostgresSchemaSQL here
//  3. Run `go test ./...` to verify alignment
//
// Dates are stored as YYYY-MM-DD text in every dialect.
const SchemaSQL = `
-- People (unique by name, immutable)
CREATE TABLE IF NOT EXISTS people (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE CHECK(length(trim(name)) > 0),
	created_at TEXT NOT NULL
);

-- Astronaut details (one summary per person, created with the first duty)
CREATE TABLE IF NOT EXISTS astronaut_details (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	person_id INTEGER NOT NULL UNIQUE,
	current_rank TEXT NOT NULL,
	current_duty_title TEXT NOT NULL,
	career_start_date TEXT NOT NULL,
	career_end_date TEXT,
	FOREIGN KEY (person_id) REFERENCES people(id)
);

-- Astronaut duties (history; open while duty_end_date is NULL)
CREATE TABLE IF NOT EXISTS astronaut_duties (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	person_id INTEGER NOT NULL,
	rank TEXT NOT NULL,
	duty_title TEXT NOT NULL,
	duty_start_date TEXT NOT NULL,
	duty_end_date TEXT,
	FOREIGN KEY (person_id) REFERENCES people(id),
	UNIQUE(person_id, duty_start_date)
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_astronaut_duties_open ON astronaut_duties(person_id) WHERE duty_end_date IS NULL;
`

// PostgresSchemaSQL mirrors SchemaSQL for PostgreSQL.
const PostgresSchemaSQL = `
CREATE TABLE IF NOT EXISTS people (
	id BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
	name TEXT NOT NULL UNIQUE CHECK(length(trim(name)) > 0),
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS astronaut_details (
	id BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
	person_id BIGINT NOT NULL UNIQUE REFERENCES people(id),
	current_rank TEXT NOT NULL,
	current_duty_title TEXT NOT NULL,
	career_start_date TEXT NOT NULL,
	career_end_date TEXT
);

CREATE TABLE IF NOT EXISTS astronaut_duties (
	id BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
	person_id BIGINT NOT NULL REFERENCES people(id),
	rank TEXT NOT NULL,
	duty_title TEXT NOT NULL,
	duty_start_date TEXT NOT NULL,
	duty_end_date TEXT,
	UNIQUE(person_id, duty_start_date)
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_astronaut_duties_open ON astronaut_duties(person_id) WHERE duty_end_date IS NULL;
`

// GetSchemaSQL returns the authoritative schema SQL for a dialect.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL(d Dialect) string {
	if d == DialectPostgres {
		return PostgresSchemaSQL
	}
	return SchemaSQL
}

// SplitStatements splits a schema script into executable statements,
// dropping comment-only lines and blanks.
func SplitStatements(script string) []string {
	var (
		stmts   []string
		current strings.Builder
	)
	for _, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")
		if strings.HasSuffix(trimmed, ";") {
			stmts = append(stmts, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}
	if rest := strings.TrimSpace(current.String()); rest != "" {
		stmts = append(stmts, rest)
	}
	return stmts
}
