package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/stargate/internal/core/duty"
	domainErr "github.com/example/stargate/internal/core/errors"
	"github.com/example/stargate/internal/db"
	"github.com/example/stargate/internal/ports/secondary"
)

// AstronautDutyRepository implements secondary.AstronautDutyRepository.
type AstronautDutyRepository struct {
	db      *sql.DB
	dialect db.Dialect
}

// NewAstronautDutyRepository creates a new duty repository.
func NewAstronautDutyRepository(database *sql.DB, dialect db.Dialect) *AstronautDutyRepository {
	return &AstronautDutyRepository{db: database, dialect: dialect}
}

// Create persists a new duty and sets its ID.
func (r *AstronautDutyRepository) Create(ctx context.Context, record *secondary.AstronautDutyRecord) error {
	err := querierFrom(ctx, r.db).QueryRowContext(ctx,
		r.dialect.Rebind(`INSERT INTO astronaut_duties (person_id, rank, duty_title, duty_start_date, duty_end_date)
			VALUES (?, ?, ?, ?, ?) RETURNING id`),
		record.PersonID,
		record.Rank,
		record.DutyTitle,
		duty.FormatDate(record.DutyStartDate),
		nullDate(record.DutyEndDate),
	).Scan(&record.ID)
	if r.dialect.IsUniqueViolation(err) && violatesOpenDutyIndex(err) {
		return domainErr.Conflictf("person %d already has an open astronaut duty (concurrent duty change)", record.PersonID)
	}
	if r.dialect.IsUniqueViolation(err) {
		return domainErr.Conflictf("astronaut duty already exists for person %d starting %s",
			record.PersonID, duty.FormatDate(record.DutyStartDate))
	}
	if err != nil {
		return fmt.Errorf("failed to create astronaut duty: %w", err)
	}

	return nil
}

// violatesOpenDutyIndex reports whether a unique violation came from
// idx_astronaut_duties_open rather than the (person_id, duty_start_date) key.
// Postgres names the index; SQLite lists the indexed columns.
func violatesOpenDutyIndex(err error) bool {
	msg := err.Error()
	if strings.Contains(msg, "idx_astronaut_duties_open") {
		return true
	}
	return strings.Contains(msg, "astronaut_duties.person_id") && !strings.Contains(msg, "duty_start_date")
}

const dutySelect = "SELECT id, person_id, rank, duty_title, duty_start_date, duty_end_date FROM astronaut_duties"

// ListByPerson retrieves a person's duties ordered by start date ascending.
func (r *AstronautDutyRepository) ListByPerson(ctx context.Context, personID int64) ([]*secondary.AstronautDutyRecord, error) {
	rows, err := querierFrom(ctx, r.db).QueryContext(ctx,
		r.dialect.Rebind(dutySelect+" WHERE person_id = ? ORDER BY duty_start_date ASC, id ASC"),
		personID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list astronaut duties: %w", err)
	}
	defer rows.Close()

	var duties []*secondary.AstronautDutyRecord
	for rows.Next() {
		record, err := scanDuty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan astronaut duty: %w", err)
		}
		duties = append(duties, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list astronaut duties: %w", err)
	}

	return duties, nil
}

// GetOpenByPerson returns the person's open duty, or nil when none is open.
func (r *AstronautDutyRepository) GetOpenByPerson(ctx context.Context, personID int64) (*secondary.AstronautDutyRecord, error) {
	row := querierFrom(ctx, r.db).QueryRowContext(ctx,
		r.dialect.Rebind(dutySelect+" WHERE person_id = ? AND duty_end_date IS NULL ORDER BY duty_start_date DESC LIMIT 1"),
		personID,
	)

	record, err := scanDuty(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get open astronaut duty: %w", err)
	}

	return record, nil
}

// ExistsForStartDate reports whether the person already has a duty starting on the date.
func (r *AstronautDutyRepository) ExistsForStartDate(ctx context.Context, personID int64, startDate time.Time) (bool, error) {
	var count int
	err := querierFrom(ctx, r.db).QueryRowContext(ctx,
		r.dialect.Rebind("SELECT COUNT(*) FROM astronaut_duties WHERE person_id = ? AND duty_start_date = ?"),
		personID, duty.FormatDate(startDate),
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check astronaut duty: %w", err)
	}
	return count > 0, nil
}

// Close sets the end date of a duty.
func (r *AstronautDutyRepository) Close(ctx context.Context, dutyID int64, endDate time.Time) error {
	result, err := querierFrom(ctx, r.db).ExecContext(ctx,
		r.dialect.Rebind("UPDATE astronaut_duties SET duty_end_date = ? WHERE id = ?"),
		duty.FormatDate(endDate), dutyID,
	)
	if err != nil {
		return fmt.Errorf("failed to close astronaut duty: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to close astronaut duty: %w", err)
	}
	if rowsAffected == 0 {
		return domainErr.NotFoundf("astronaut duty %d not found", dutyID)
	}

	return nil
}

func scanDuty(row rowScanner) (*secondary.AstronautDutyRecord, error) {
	var (
		start string
		end   sql.NullString
	)

	record := &secondary.AstronautDutyRecord{}
	if err := row.Scan(&record.ID, &record.PersonID, &record.Rank, &record.DutyTitle, &start, &end); err != nil {
		return nil, err
	}

	var err error
	if record.DutyStartDate, err = parseStoredDate(start); err != nil {
		return nil, err
	}
	if record.DutyEndDate, err = parseNullDate(end); err != nil {
		return nil, err
	}

	return record, nil
}

// Ensure AstronautDutyRepository implements the interface.
var _ secondary.AstronautDutyRepository = (*AstronautDutyRepository)(nil)
