package primary

import (
	"context"
	"time"
)

// AstronautDutyService defines the primary port for duty assignments.
type AstronautDutyService interface {
	// CreateAstronautDuty records a new duty, closing the person's open duty
	// and refreshing their astronaut summary in one unit of work.
	CreateAstronautDuty(ctx context.Context, req CreateAstronautDutyRequest) (*CreateAstronautDutyResponse, error)

	// GetAstronautDutiesByName returns a person's summary and full duty history.
	GetAstronautDutiesByName(ctx context.Context, name string) (*AstronautDutiesResult, error)
}

// CreateAstronautDutyRequest contains parameters for recording a duty.
type CreateAstronautDutyRequest struct {
	Name          string
	Rank          string
	DutyTitle     string
	DutyStartDate time.Time // time of day is ignored
}

// CreateAstronautDutyResponse contains the result of recording a duty.
type CreateAstronautDutyResponse struct {
	DutyID int64
}

// AstronautDuty represents a duty entity at the port boundary.
type AstronautDuty struct {
	ID            int64
	Rank          string
	DutyTitle     string
	DutyStartDate string  // YYYY-MM-DD
	DutyEndDate   *string // nil while the duty is open
}

// AstronautDutiesResult is the person summary plus their duties ordered by start date.
type AstronautDutiesResult struct {
	Person *PersonAstronaut
	Duties []*AstronautDuty
}
