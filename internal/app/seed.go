package app

import (
	"context"
	"fmt"
	"time"

	"github.com/example/stargate/internal/ports/primary"
	"github.com/example/stargate/internal/ports/secondary"
)

// SeedResult reports what SeedFixtures created.
type SeedResult struct {
	People int
	Duties int
}

type seedDuty struct {
	rank, title, start string
}

// fixtures is a small crew with complete, in-progress and empty careers.
var fixtures = []struct {
	name   string
	duties []seedDuty
}{
	{
		name: "Armstrong, Neil",
		duties: []seedDuty{
			{"1LT", "Pilot", "1962-09-17"},
			{"CPT", "Commander", "1966-03-16"},
			{"CPT", "RETIRED", "1971-08-01"},
		},
	},
	{
		name: "Ride, Sally",
		duties: []seedDuty{
			{"2LT", "Mission Specialist", "1978-01-16"},
			{"1LT", "Flight Engineer", "1983-06-18"},
		},
	},
	{name: "Johnson, Katherine"},
}

// SeedFixtures populates the ledger with development fixtures through the services,
// so every record obeys the duty lifecycle rule. The whole roster is written in one
// transaction: the services join it, and any failure leaves the store untouched.
func SeedFixtures(ctx context.Context, tx secondary.TransactionManager, people primary.PersonService, duties primary.AstronautDutyService) (*SeedResult, error) {
	var result *SeedResult

	err := tx.RunInTx(ctx, func(ctx context.Context) error {
		result = &SeedResult{}
		for _, f := range fixtures {
			if _, err := people.CreatePerson(ctx, primary.CreatePersonRequest{Name: f.name}); err != nil {
				return fmt.Errorf("seed person %s: %w", f.name, err)
			}
			result.People++

			for _, d := range f.duties {
				start, err := time.Parse(time.DateOnly, d.start)
				if err != nil {
					return fmt.Errorf("seed duty date %s: %w", d.start, err)
				}
				_, err = duties.CreateAstronautDuty(ctx, primary.CreateAstronautDutyRequest{
					Name:          f.name,
					Rank:          d.rank,
					DutyTitle:     d.title,
					DutyStartDate: start,
				})
				if err != nil {
					return fmt.Errorf("seed duty %s for %s: %w", d.title, f.name, err)
				}
				result.Duties++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
