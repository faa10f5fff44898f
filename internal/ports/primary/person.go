// Package primary defines the primary ports (driving adapters) for the application.
// CLI and HTTP adapters call the application through these interfaces.
package primary

import "context"

// PersonService defines the primary port for person operations.
type PersonService interface {
	// CreatePerson creates a new person with a unique name.
	CreatePerson(ctx context.Context, req CreatePersonRequest) (*CreatePersonResponse, error)

	// GetPersonByName retrieves a person and their astronaut summary by name.
	GetPersonByName(ctx context.Context, name string) (*PersonAstronaut, error)

	// ListPeople lists every person with their astronaut summary.
	ListPeople(ctx context.Context) ([]*PersonAstronaut, error)
}

// CreatePersonRequest contains parameters for creating a person.
type CreatePersonRequest struct {
	Name string
}

// CreatePersonResponse contains the result of creating a person.
type CreatePersonResponse struct {
	PersonID int64
	Person   *Person
}

// Person represents a person entity at the port boundary.
type Person struct {
	ID        int64
	Name      string
	CreatedAt string
}

// PersonAstronaut is a person joined with their astronaut summary.
// Summary fields are empty (dates nil) until the first duty is recorded.
type PersonAstronaut struct {
	PersonID         int64
	Name             string
	CurrentRank      string
	CurrentDutyTitle string
	CareerStartDate  *string // YYYY-MM-DD
	CareerEndDate    *string // YYYY-MM-DD
}
