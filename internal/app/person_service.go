package app

import (
	"context"
	"fmt"

	"github.com/example/stargate/internal/core/duty"
	domainErr "github.com/example/stargate/internal/core/errors"
	"github.com/example/stargate/internal/core/person"
	"github.com/example/stargate/internal/ports/primary"
	"github.com/example/stargate/internal/ports/secondary"
)

// PersonServiceImpl implements the PersonService interface.
type PersonServiceImpl struct {
	txManager  secondary.TransactionManager
	personRepo secondary.PersonRepository
}

// NewPersonService creates a new PersonService with injected dependencies.
func NewPersonService(
	txManager secondary.TransactionManager,
	personRepo secondary.PersonRepository,
) *PersonServiceImpl {
	return &PersonServiceImpl{
		txManager:  txManager,
		personRepo: personRepo,
	}
}

// CreatePerson creates a new person.
func (s *PersonServiceImpl) CreatePerson(ctx context.Context, req primary.CreatePersonRequest) (*primary.CreatePersonResponse, error) {
	name := person.NormalizeName(req.Name)
	record := &secondary.PersonRecord{Name: name}

	err := s.txManager.RunInTx(ctx, func(ctx context.Context) error {
		taken := false
		if name != "" {
			var err error
			taken, err = s.personRepo.ExistsByName(ctx, name)
			if err != nil {
				return fmt.Errorf("failed to check person name: %w", err)
			}
		}

		// Guard check
		guardCtx := person.CreatePersonContext{Name: name, NameTaken: taken}
		if result := person.CanCreatePerson(guardCtx); !result.Allowed {
			return result.Error()
		}

		return s.personRepo.Create(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	return &primary.CreatePersonResponse{
		PersonID: record.ID,
		Person: &primary.Person{
			ID:        record.ID,
			Name:      record.Name,
			CreatedAt: record.CreatedAt,
		},
	}, nil
}

// GetPersonByName retrieves a person and their astronaut summary.
func (s *PersonServiceImpl) GetPersonByName(ctx context.Context, name string) (*primary.PersonAstronaut, error) {
	name = person.NormalizeName(name)
	if name == "" {
		return nil, domainErr.Invalidf("name is required")
	}

	record, err := s.personRepo.GetAstronautByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return recordToPersonAstronaut(record), nil
}

// ListPeople lists every person with their astronaut summary.
func (s *PersonServiceImpl) ListPeople(ctx context.Context) ([]*primary.PersonAstronaut, error) {
	records, err := s.personRepo.ListAstronauts(ctx)
	if err != nil {
		return nil, err
	}

	people := make([]*primary.PersonAstronaut, len(records))
	for i, r := range records {
		people[i] = recordToPersonAstronaut(r)
	}
	return people, nil
}

func recordToPersonAstronaut(r *secondary.PersonAstronautRecord) *primary.PersonAstronaut {
	p := &primary.PersonAstronaut{
		PersonID: r.PersonID,
		Name:     r.Name,
	}
	if !r.HasDetail {
		return p
	}

	p.CurrentRank = r.CurrentRank
	p.CurrentDutyTitle = r.CurrentDutyTitle
	if r.CareerStartDate != nil {
		s := duty.FormatDate(*r.CareerStartDate)
		p.CareerStartDate = &s
	}
	if r.CareerEndDate != nil {
		e := duty.FormatDate(*r.CareerEndDate)
		p.CareerEndDate = &e
	}
	return p
}

// Ensure PersonServiceImpl implements the interface
var _ primary.PersonService = (*PersonServiceImpl)(nil)
