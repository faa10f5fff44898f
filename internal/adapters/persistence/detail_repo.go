package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/stargate/internal/core/duty"
	domainErr "github.com/example/stargate/internal/core/errors"
	"github.com/example/stargate/internal/db"
	"github.com/example/stargate/internal/ports/secondary"
)

// AstronautDetailRepository implements secondary.AstronautDetailRepository.
type AstronautDetailRepository struct {
	db      *sql.DB
	dialect db.Dialect
}

// NewAstronautDetailRepository creates a new detail repository.
func NewAstronautDetailRepository(database *sql.DB, dialect db.Dialect) *AstronautDetailRepository {
	return &AstronautDetailRepository{db: database, dialect: dialect}
}

// GetByPersonID returns the person's detail, or nil when they have none.
func (r *AstronautDetailRepository) GetByPersonID(ctx context.Context, personID int64) (*secondary.AstronautDetailRecord, error) {
	var (
		start string
		end   sql.NullString
	)

	record := &secondary.AstronautDetailRecord{}
	err := querierFrom(ctx, r.db).QueryRowContext(ctx,
		r.dialect.Rebind(`SELECT id, person_id, current_rank, current_duty_title, career_start_date, career_end_date
			FROM astronaut_details WHERE person_id = ?`),
		personID,
	).Scan(&record.ID, &record.PersonID, &record.CurrentRank, &record.CurrentDutyTitle, &start, &end)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get astronaut detail: %w", err)
	}

	if record.CareerStartDate, err = parseStoredDate(start); err != nil {
		return nil, err
	}
	if record.CareerEndDate, err = parseNullDate(end); err != nil {
		return nil, err
	}

	return record, nil
}

// Create persists a new detail and sets its ID.
func (r *AstronautDetailRepository) Create(ctx context.Context, record *secondary.AstronautDetailRecord) error {
	err := querierFrom(ctx, r.db).QueryRowContext(ctx,
		r.dialect.Rebind(`INSERT INTO astronaut_details (person_id, current_rank, current_duty_title, career_start_date, career_end_date)
			VALUES (?, ?, ?, ?, ?) RETURNING id`),
		record.PersonID,
		record.CurrentRank,
		record.CurrentDutyTitle,
		duty.FormatDate(record.CareerStartDate),
		nullDate(record.CareerEndDate),
	).Scan(&record.ID)
	if r.dialect.IsUniqueViolation(err) {
		return domainErr.Conflictf("astronaut detail already exists for person %d", record.PersonID)
	}
	if err != nil {
		return fmt.Errorf("failed to create astronaut detail: %w", err)
	}

	return nil
}

// Update overwrites the detail's mutable fields.
func (r *AstronautDetailRepository) Update(ctx context.Context, record *secondary.AstronautDetailRecord) error {
	result, err := querierFrom(ctx, r.db).ExecContext(ctx,
		r.dialect.Rebind(`UPDATE astronaut_details
			SET current_rank = ?, current_duty_title = ?, career_start_date = ?, career_end_date = ?
			WHERE id = ?`),
		record.CurrentRank,
		record.CurrentDutyTitle,
		duty.FormatDate(record.CareerStartDate),
		nullDate(record.CareerEndDate),
		record.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update astronaut detail: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update astronaut detail: %w", err)
	}
	if rowsAffected == 0 {
		return domainErr.NotFoundf("astronaut detail %d not found", record.ID)
	}

	return nil
}

// Ensure AstronautDetailRepository implements the interface.
var _ secondary.AstronautDetailRepository = (*AstronautDetailRepository)(nil)
