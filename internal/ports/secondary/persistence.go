// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"
	"time"
)

// TransactionManager runs a function inside one database transaction.
// Repositories called with the context passed to fn take part in that transaction.
type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// PersonRepository defines the secondary port for person persistence.
type PersonRepository interface {
	// Create persists a new person and sets its ID.
	Create(ctx context.Context, person *PersonRecord) error

	// GetByName retrieves a person by exact name.
	GetByName(ctx context.Context, name string) (*PersonRecord, error)

	// ExistsByName reports whether a person with the name exists.
	ExistsByName(ctx context.Context, name string) (bool, error)

	// GetAstronautByName retrieves a person joined with their astronaut summary.
	GetAstronautByName(ctx context.Context, name string) (*PersonAstronautRecord, error)

	// ListAstronauts retrieves every person joined with their summary, ordered by name.
	ListAstronauts(ctx context.Context) ([]*PersonAstronautRecord, error)
}

// PersonRecord represents a person as stored in persistence.
type PersonRecord struct {
	ID        int64
	Name      string
	CreatedAt string
}

// PersonAstronautRecord is a person LEFT JOIN astronaut detail row.
// HasDetail is false when the person has never held a duty.
type PersonAstronautRecord struct {
	PersonID         int64
	Name             string
	HasDetail        bool
	CurrentRank      string
	CurrentDutyTitle string
	CareerStartDate  *time.Time
	CareerEndDate    *time.Time
}

// AstronautDutyRepository defines the secondary port for duty persistence.
type AstronautDutyRepository interface {
	// Create persists a new duty and sets its ID.
	Create(ctx context.Context, duty *AstronautDutyRecord) error

	// ListByPerson retrieves a person's duties ordered by start date ascending.
	ListByPerson(ctx context.Context, personID int64) ([]*AstronautDutyRecord, error)

	// GetOpenByPerson retrieves the newest duty without an end date (nil if none).
	GetOpenByPerson(ctx context.Context, personID int64) (*AstronautDutyRecord, error)

	// ExistsForStartDate reports whether the person has a duty starting on the date.
	ExistsForStartDate(ctx context.Context, personID int64, startDate time.Time) (bool, error)

	// Close sets the end date of a duty.
	Close(ctx context.Context, dutyID int64, endDate time.Time) error
}

// AstronautDutyRecord represents a duty as stored in persistence.
type AstronautDutyRecord struct {
	ID            int64
	PersonID      int64
	Rank          string
	DutyTitle     string
	DutyStartDate time.Time
	DutyEndDate   *time.Time // nil while open
}

// AstronautDetailRepository defines the secondary port for astronaut summaries.
type AstronautDetailRepository interface {
	// GetByPersonID retrieves the summary of a person (nil if none).
	GetByPersonID(ctx context.Context, personID int64) (*AstronautDetailRecord, error)

	// Create persists a new summary and sets its ID.
	Create(ctx context.Context, detail *AstronautDetailRecord) error

	// Update overwrites an existing summary.
	Update(ctx context.Context, detail *AstronautDetailRecord) error
}

// AstronautDetailRecord represents an astronaut summary as stored in persistence.
type AstronautDetailRecord struct {
	ID               int64
	PersonID         int64
	CurrentRank      string
	CurrentDutyTitle string
	CareerStartDate  time.Time
	CareerEndDate    *time.Time
}
