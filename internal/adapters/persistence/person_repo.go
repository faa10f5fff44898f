package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	domainErr "github.com/example/stargate/internal/core/errors"
	"github.com/example/stargate/internal/db"
	"github.com/example/stargate/internal/ports/secondary"
)

// PersonRepository implements secondary.PersonRepository.
type PersonRepository struct {
	db      *sql.DB
	dialect db.Dialect
	now     func() time.Time
}

// NewPersonRepository creates a new person repository.
func NewPersonRepository(database *sql.DB, dialect db.Dialect) *PersonRepository {
	return &PersonRepository{db: database, dialect: dialect, now: time.Now}
}

// Create persists a new person and sets its ID.
func (r *PersonRepository) Create(ctx context.Context, person *secondary.PersonRecord) error {
	if person.CreatedAt == "" {
		person.CreatedAt = r.now().UTC().Format(time.RFC3339)
	}

	err := querierFrom(ctx, r.db).QueryRowContext(ctx,
		r.dialect.Rebind("INSERT INTO people (name, created_at) VALUES (?, ?) RETURNING id"),
		person.Name, person.CreatedAt,
	).Scan(&person.ID)
	if r.dialect.IsUniqueViolation(err) {
		return domainErr.Conflictf("person %q already exists", person.Name)
	}
	if err != nil {
		return fmt.Errorf("failed to create person: %w", err)
	}

	return nil
}

// GetByName retrieves a person by exact name.
func (r *PersonRepository) GetByName(ctx context.Context, name string) (*secondary.PersonRecord, error) {
	record := &secondary.PersonRecord{}
	err := querierFrom(ctx, r.db).QueryRowContext(ctx,
		r.dialect.Rebind("SELECT id, name, created_at FROM people WHERE name = ?"),
		name,
	).Scan(&record.ID, &record.Name, &record.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, domainErr.NotFoundf("person %q not found", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get person: %w", err)
	}

	return record, nil
}

// ExistsByName reports whether a person with the name exists.
func (r *PersonRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int
	err := querierFrom(ctx, r.db).QueryRowContext(ctx,
		r.dialect.Rebind("SELECT COUNT(*) FROM people WHERE name = ?"),
		name,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check person existence: %w", err)
	}
	return count > 0, nil
}

const personAstronautSelect = `
	SELECT p.id, p.name, d.id, d.current_rank, d.current_duty_title, d.career_start_date, d.career_end_date
	FROM people p
	LEFT JOIN astronaut_details d ON d.person_id = p.id`

// GetAstronautByName retrieves a person joined with their astronaut summary.
func (r *PersonRepository) GetAstronautByName(ctx context.Context, name string) (*secondary.PersonAstronautRecord, error) {
	row := querierFrom(ctx, r.db).QueryRowContext(ctx,
		r.dialect.Rebind(personAstronautSelect+" WHERE p.name = ?"),
		name,
	)

	record, err := scanPersonAstronaut(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domainErr.NotFoundf("person %q not found", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get astronaut: %w", err)
	}

	return record, nil
}

// ListAstronauts retrieves every person joined with their summary, ordered by name.
func (r *PersonRepository) ListAstronauts(ctx context.Context) ([]*secondary.PersonAstronautRecord, error) {
	rows, err := querierFrom(ctx, r.db).QueryContext(ctx, personAstronautSelect+" ORDER BY p.name ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list people: %w", err)
	}
	defer rows.Close()

	var people []*secondary.PersonAstronautRecord
	for rows.Next() {
		record, err := scanPersonAstronaut(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		people = append(people, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list people: %w", err)
	}

	return people, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPersonAstronaut(row rowScanner) (*secondary.PersonAstronautRecord, error) {
	var (
		detailID    sql.NullInt64
		rank        sql.NullString
		title       sql.NullString
		careerStart sql.NullString
		careerEnd   sql.NullString
	)

	record := &secondary.PersonAstronautRecord{}
	if err := row.Scan(&record.PersonID, &record.Name, &detailID, &rank, &title, &careerStart, &careerEnd); err != nil {
		return nil, err
	}

	record.HasDetail = detailID.Valid
	record.CurrentRank = rank.String
	record.CurrentDutyTitle = title.String

	var err error
	if record.CareerStartDate, err = parseNullDate(careerStart); err != nil {
		return nil, err
	}
	if record.CareerEndDate, err = parseNullDate(careerEnd); err != nil {
		return nil, err
	}

	return record, nil
}

// Ensure PersonRepository implements the interface.
var _ secondary.PersonRepository = (*PersonRepository)(nil)
