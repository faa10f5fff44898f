package app

import (
	"context"
	"errors"
	"testing"
	"time"

	domainErr "github.com/example/stargate/internal/core/errors"
	"github.com/example/stargate/internal/ports/primary"
)

type dutyServiceFixture struct {
	service    *AstronautDutyServiceImpl
	txManager  *mockTxManager
	personRepo *mockPersonRepository
	dutyRepo   *mockDutyRepository
	detailRepo *mockDetailRepository
}

func newDutyServiceFixture() *dutyServiceFixture {
	f := &dutyServiceFixture{
		txManager:  &mockTxManager{},
		personRepo: newMockPersonRepository(),
		dutyRepo:   newMockDutyRepository(),
		detailRepo: newMockDetailRepository(),
	}
	f.personRepo.details = f.detailRepo
	executor := NewEffectExecutor(f.dutyRepo, f.detailRepo, nil)
	f.service = NewAstronautDutyService(f.txManager, f.personRepo, f.dutyRepo, f.detailRepo, executor, nil)
	return f
}

func (f *dutyServiceFixture) record(t *testing.T, name, rank, title string, start time.Time) int64 {
	t.Helper()
	resp, err := f.service.CreateAstronautDuty(context.Background(), primary.CreateAstronautDutyRequest{
		Name:          name,
		Rank:          rank,
		DutyTitle:     title,
		DutyStartDate: start,
	})
	if err != nil {
		t.Fatalf("CreateAstronautDuty failed: %v", err)
	}
	return resp.DutyID
}

func TestAstronautDutyService_CreateAstronautDuty_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  primary.CreateAstronautDutyRequest
	}{
		{"missing name", primary.CreateAstronautDutyRequest{Rank: "1LT", DutyTitle: "Pilot", DutyStartDate: date(2020, 1, 1)}},
		{"blank rank", primary.CreateAstronautDutyRequest{Name: "A", Rank: " ", DutyTitle: "Pilot", DutyStartDate: date(2020, 1, 1)}},
		{"missing title", primary.CreateAstronautDutyRequest{Name: "A", Rank: "1LT", DutyStartDate: date(2020, 1, 1)}},
		{"missing start date", primary.CreateAstronautDutyRequest{Name: "A", Rank: "1LT", DutyTitle: "Pilot"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newDutyServiceFixture()
			f.personRepo.add("A")

			_, err := f.service.CreateAstronautDuty(context.Background(), tt.req)
			if !errors.Is(err, domainErr.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if f.txManager.calls != 0 {
				t.Error("validation failures should not open a transaction")
			}
		})
	}
}

func TestAstronautDutyService_CreateAstronautDuty_PersonNotFound(t *testing.T) {
	f := newDutyServiceFixture()

	_, err := f.service.CreateAstronautDuty(context.Background(), primary.CreateAstronautDutyRequest{
		Name: "Nobody", Rank: "1LT", DutyTitle: "Pilot", DutyStartDate: date(2020, 1, 1),
	})
	if !errors.Is(err, domainErr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(f.dutyRepo.duties) != 0 || len(f.detailRepo.details) != 0 {
		t.Error("expected no writes")
	}
}

func TestAstronautDutyService_CreateAstronautDuty_DuplicateStartDate(t *testing.T) {
	f := newDutyServiceFixture()
	f.personRepo.add("Armstrong, Neil")
	firstID := f.record(t, "Armstrong, Neil", "1LT", "Pilot", date(2020, 1, 1))

	// Same calendar day, different time of day
	_, err := f.service.CreateAstronautDuty(context.Background(), primary.CreateAstronautDutyRequest{
		Name: "Armstrong, Neil", Rank: "CPT", DutyTitle: "Commander", DutyStartDate: date(2020, 1, 1).Add(9 * time.Hour),
	})
	if !errors.Is(err, domainErr.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	if len(f.dutyRepo.duties) != 1 {
		t.Fatalf("expected 1 duty, got %d", len(f.dutyRepo.duties))
	}
	first := f.dutyRepo.duties[0]
	if first.ID != firstID || first.DutyEndDate != nil || first.Rank != "1LT" {
		t.Errorf("first duty was modified: %+v", first)
	}
}

func TestAstronautDutyService_CreateAstronautDuty_Transitions(t *testing.T) {
	f := newDutyServiceFixture()
	p := f.personRepo.add("Armstrong, Neil")

	firstID := f.record(t, "Armstrong, Neil", "1LT", "Pilot", date(2020, 1, 1))
	detail := f.detailRepo.details[p.ID]
	if detail == nil {
		t.Fatal("expected summary to be created")
	}
	if !detail.CareerStartDate.Equal(date(2020, 1, 1)) {
		t.Errorf("CareerStartDate = %v, want 2020-01-01", detail.CareerStartDate)
	}

	secondID := f.record(t, "Armstrong, Neil", "COL", "Commander", date(2020, 6, 1))
	if secondID == firstID {
		t.Fatal("expected a new duty ID")
	}

	duties := f.dutyRepo.duties
	if duties[0].DutyEndDate == nil || !duties[0].DutyEndDate.Equal(date(2020, 5, 31)) {
		t.Errorf("first duty end = %v, want 2020-05-31", duties[0].DutyEndDate)
	}
	if duties[1].DutyEndDate != nil {
		t.Errorf("new duty should be open, got end %v", duties[1].DutyEndDate)
	}

	detail = f.detailRepo.details[p.ID]
	if detail.CurrentRank != "COL" || detail.CurrentDutyTitle != "Commander" {
		t.Errorf("summary not updated: %+v", detail)
	}
	if !detail.CareerStartDate.Equal(date(2020, 1, 1)) {
		t.Errorf("career start changed to %v", detail.CareerStartDate)
	}
	if detail.CareerEndDate != nil {
		t.Errorf("unexpected career end %v", detail.CareerEndDate)
	}
}

func TestAstronautDutyService_CreateAstronautDuty_Retirement(t *testing.T) {
	f := newDutyServiceFixture()
	p := f.personRepo.add("Armstrong, Neil")

	f.record(t, "Armstrong, Neil", "1LT", "Pilot", date(2020, 1, 1))
	f.record(t, "Armstrong, Neil", "COL", "RETIRED", date(2021, 1, 1))

	detail := f.detailRepo.details[p.ID]
	if detail.CurrentRank != "COL" || detail.CurrentDutyTitle != "RETIRED" {
		t.Errorf("summary not updated to retired values: %+v", detail)
	}
	if detail.CareerEndDate == nil || !detail.CareerEndDate.Equal(date(2020, 12, 31)) {
		t.Errorf("CareerEndDate = %v, want 2020-12-31", detail.CareerEndDate)
	}
}

func TestAstronautDutyService_CreateAstronautDuty_TrimsName(t *testing.T) {
	f := newDutyServiceFixture()
	f.personRepo.add("Ride, Sally")

	f.record(t, "  Ride, Sally ", "2LT", "Mission Specialist", date(1978, 1, 16))
	if len(f.dutyRepo.duties) != 1 {
		t.Fatalf("expected 1 duty, got %d", len(f.dutyRepo.duties))
	}
}

func TestAstronautDutyService_CreateAstronautDuty_WriteFailure(t *testing.T) {
	f := newDutyServiceFixture()
	f.personRepo.add("Armstrong, Neil")
	f.dutyRepo.createErr = errors.New("disk full")

	_, err := f.service.CreateAstronautDuty(context.Background(), primary.CreateAstronautDutyRequest{
		Name: "Armstrong, Neil", Rank: "1LT", DutyTitle: "Pilot", DutyStartDate: date(2020, 1, 1),
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if domainErr.IsClientError(err) {
		t.Errorf("write failure should be internal, got %v", err)
	}
}

func TestAstronautDutyService_CreateAstronautDuty_TxError(t *testing.T) {
	f := newDutyServiceFixture()
	f.personRepo.add("Armstrong, Neil")
	f.txManager.err = context.Canceled

	_, err := f.service.CreateAstronautDuty(context.Background(), primary.CreateAstronautDutyRequest{
		Name: "Armstrong, Neil", Rank: "1LT", DutyTitle: "Pilot", DutyStartDate: date(2020, 1, 1),
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestAstronautDutyService_GetAstronautDutiesByName(t *testing.T) {
	f := newDutyServiceFixture()
	ctx := context.Background()
	p := f.personRepo.add("Armstrong, Neil")
	f.personRepo.add("Civilian")
	f.dutyRepo.add(p.ID, "COL", "Commander", date(2020, 6, 1), nil)
	f.dutyRepo.add(p.ID, "1LT", "Pilot", date(2020, 1, 1), datePtr(2020, 5, 31))
	f.detailRepo.details[p.ID] = newDetail(p.ID, "COL", "Commander", date(2020, 1, 1), nil)

	t.Run("person with duties", func(t *testing.T) {
		got, err := f.service.GetAstronautDutiesByName(ctx, "Armstrong, Neil")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Person.CurrentRank != "COL" {
			t.Errorf("CurrentRank = %q", got.Person.CurrentRank)
		}
		if len(got.Duties) != 2 {
			t.Fatalf("expected 2 duties, got %d", len(got.Duties))
		}
		if got.Duties[0].DutyStartDate != "2020-01-01" || got.Duties[0].DutyEndDate == nil || *got.Duties[0].DutyEndDate != "2020-05-31" {
			t.Errorf("unexpected first duty: %+v", got.Duties[0])
		}
		if got.Duties[1].DutyEndDate != nil {
			t.Errorf("second duty should be open: %+v", got.Duties[1])
		}
	})

	t.Run("person without duties", func(t *testing.T) {
		got, err := f.service.GetAstronautDutiesByName(ctx, "Civilian")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Duties == nil || len(got.Duties) != 0 {
			t.Errorf("expected empty non-nil duty list, got %v", got.Duties)
		}
		if got.Person.CurrentRank != "" || got.Person.CareerStartDate != nil || got.Person.CareerEndDate != nil {
			t.Errorf("expected absent summary, got %+v", got.Person)
		}
	})

	t.Run("missing person", func(t *testing.T) {
		_, err := f.service.GetAstronautDutiesByName(ctx, "Nobody")
		if !errors.Is(err, domainErr.ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})
}
