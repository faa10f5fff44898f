package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/stargate/internal/core/duty"
	domainErr "github.com/example/stargate/internal/core/errors"
	"github.com/example/stargate/internal/core/person"
	"github.com/example/stargate/internal/ports/primary"
	"github.com/example/stargate/internal/ports/secondary"
)

// AstronautDutyServiceImpl implements the AstronautDutyService interface.
type AstronautDutyServiceImpl struct {
	txManager  secondary.TransactionManager
	personRepo secondary.PersonRepository
	dutyRepo   secondary.AstronautDutyRepository
	detailRepo secondary.AstronautDetailRepository
	executor   EffectExecutor
	logger     *slog.Logger
}

// NewAstronautDutyService creates a new AstronautDutyService with injected dependencies.
func NewAstronautDutyService(
	txManager secondary.TransactionManager,
	personRepo secondary.PersonRepository,
	dutyRepo secondary.AstronautDutyRepository,
	detailRepo secondary.AstronautDetailRepository,
	executor EffectExecutor,
	logger *slog.Logger,
) *AstronautDutyServiceImpl {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &AstronautDutyServiceImpl{
		txManager:  txManager,
		personRepo: personRepo,
		dutyRepo:   dutyRepo,
		detailRepo: detailRepo,
		executor:   executor,
		logger:     logger,
	}
}

// CreateAstronautDuty records a new duty for a person.
// Lookups, guards and writes share one transaction; any failure leaves the store untouched.
func (s *AstronautDutyServiceImpl) CreateAstronautDuty(ctx context.Context, req primary.CreateAstronautDutyRequest) (*primary.CreateAstronautDutyResponse, error) {
	name := person.NormalizeName(req.Name)
	input := duty.DutyRequestInput{
		Name:      name,
		Rank:      req.Rank,
		DutyTitle: req.DutyTitle,
		StartDate: req.DutyStartDate,
	}
	if result := duty.ValidateDutyRequest(input); !result.Allowed {
		return nil, result.Error()
	}
	start := duty.DateOnly(req.DutyStartDate)

	var dutyID int64
	err := s.txManager.RunInTx(ctx, func(ctx context.Context) error {
		guardCtx := duty.RecordDutyContext{PersonName: name, StartDate: start}

		p, err := s.personRepo.GetByName(ctx, name)
		switch {
		case errors.Is(err, domainErr.ErrNotFound):
		case err != nil:
			return fmt.Errorf("failed to look up person: %w", err)
		default:
			guardCtx.PersonExists = true
			guardCtx.StartDateTaken, err = s.dutyRepo.ExistsForStartDate(ctx, p.ID, start)
			if err != nil {
				return err
			}
		}

		// Guard check
		if result := duty.CanRecordDuty(guardCtx); !result.Allowed {
			return result.Error()
		}

		transition, err := s.buildTransitionInput(ctx, p.ID, req.Rank, req.DutyTitle, start)
		if err != nil {
			return err
		}

		plan := duty.GenerateTransitionPlan(transition)
		result, err := s.executor.Execute(ctx, plan.Effects())
		if err != nil {
			return err
		}
		dutyID = result.Created[duty.EntityDuty]
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "astronaut duty recorded",
		"person", name,
		"duty_id", dutyID,
		"duty_title", req.DutyTitle,
		"start_date", duty.FormatDate(start),
	)

	return &primary.CreateAstronautDutyResponse{DutyID: dutyID}, nil
}

// buildTransitionInput gathers the pre-fetched state the planner needs.
func (s *AstronautDutyServiceImpl) buildTransitionInput(ctx context.Context, personID int64, rank, title string, start time.Time) (duty.TransitionInput, error) {
	input := duty.TransitionInput{
		PersonID:  personID,
		Rank:      rank,
		DutyTitle: title,
		StartDate: start,
	}

	open, err := s.dutyRepo.GetOpenByPerson(ctx, personID)
	if err != nil {
		return input, err
	}
	if open != nil {
		input.OpenDuty = &duty.OpenDutyInput{ID: open.ID, StartDate: open.DutyStartDate}
	}

	detail, err := s.detailRepo.GetByPersonID(ctx, personID)
	if err != nil {
		return input, err
	}
	if detail != nil {
		input.Detail = &duty.DetailInput{
			ID:              detail.ID,
			CareerStartDate: detail.CareerStartDate,
			CareerEndDate:   detail.CareerEndDate,
		}
	}

	return input, nil
}

// GetAstronautDutiesByName returns a person's summary and duty history.
func (s *AstronautDutyServiceImpl) GetAstronautDutiesByName(ctx context.Context, name string) (*primary.AstronautDutiesResult, error) {
	name = person.NormalizeName(name)
	if name == "" {
		return nil, domainErr.Invalidf("name is required")
	}

	record, err := s.personRepo.GetAstronautByName(ctx, name)
	if err != nil {
		return nil, err
	}

	records, err := s.dutyRepo.ListByPerson(ctx, record.PersonID)
	if err != nil {
		return nil, err
	}

	duties := make([]*primary.AstronautDuty, len(records))
	for i, r := range records {
		duties[i] = recordToDuty(r)
	}

	return &primary.AstronautDutiesResult{
		Person: recordToPersonAstronaut(record),
		Duties: duties,
	}, nil
}

func recordToDuty(r *secondary.AstronautDutyRecord) *primary.AstronautDuty {
	d := &primary.AstronautDuty{
		ID:            r.ID,
		Rank:          r.Rank,
		DutyTitle:     r.DutyTitle,
		DutyStartDate: duty.FormatDate(r.DutyStartDate),
	}
	if r.DutyEndDate != nil {
		end := duty.FormatDate(*r.DutyEndDate)
		d.DutyEndDate = &end
	}
	return d
}

// Ensure AstronautDutyServiceImpl implements the interface
var _ primary.AstronautDutyService = (*AstronautDutyServiceImpl)(nil)
