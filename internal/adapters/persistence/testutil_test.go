// Package persistence_test contains integration tests for the SQL repositories.
//
// Every test database is built from db.GetSchemaSQL so test schemas cannot drift
// from the one installed by the migrator.
package persistence_test

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/stargate/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", "file::memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	// Each new connection to :memory: is a separate database
	testDB.SetMaxOpenConns(1)

	for _, stmt := range db.SplitStatements(db.GetSchemaSQL(db.DialectSQLite)) {
		if _, err := testDB.Exec(stmt); err != nil {
			t.Fatalf("failed to create schema: %v", err)
		}
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedPerson inserts a person and returns its ID.
func seedPerson(t *testing.T, testDB *sql.DB, name string) int64 {
	t.Helper()
	if name == "" {
		name = "Test Person"
	}
	var id int64
	err := testDB.QueryRow("INSERT INTO people (name, created_at) VALUES (?, '2024-01-01T00:00:00Z') RETURNING id", name).Scan(&id)
	if err != nil {
		t.Fatalf("failed to seed person: %v", err)
	}
	return id
}

// seedDuty inserts a duty with dates in YYYY-MM-DD form; end may be empty.
func seedDuty(t *testing.T, testDB *sql.DB, personID int64, rank, title, start, end string) int64 {
	t.Helper()
	var endValue any
	if end != "" {
		endValue = end
	}
	var id int64
	err := testDB.QueryRow(
		"INSERT INTO astronaut_duties (person_id, rank, duty_title, duty_start_date, duty_end_date) VALUES (?, ?, ?, ?, ?) RETURNING id",
		personID, rank, title, start, endValue,
	).Scan(&id)
	if err != nil {
		t.Fatalf("failed to seed duty: %v", err)
	}
	return id
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}
