package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/example/stargate/internal/core/duty"
	"github.com/example/stargate/internal/ports/primary"
)

// DutyAdapter is a thin adapter that translates CLI operations to AstronautDutyService calls.
type DutyAdapter struct {
	service primary.AstronautDutyService
	out     io.Writer
}

// NewDutyAdapter creates a new DutyAdapter with the given service.
func NewDutyAdapter(service primary.AstronautDutyService, out io.Writer) *DutyAdapter {
	return &DutyAdapter{
		service: service,
		out:     out,
	}
}

// Create records a duty; start is a YYYY-MM-DD date.
func (a *DutyAdapter) Create(ctx context.Context, name, rank, title, start string) error {
	var startDate time.Time
	if start != "" {
		var err error
		startDate, err = duty.ParseDate(start)
		if err != nil {
			return fmt.Errorf("invalid --start: %w", err)
		}
	}

	resp, err := a.service.CreateAstronautDuty(ctx, primary.CreateAstronautDutyRequest{
		Name:          name,
		Rank:          rank,
		DutyTitle:     title,
		DutyStartDate: startDate,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Recorded duty %d for %s: %s %s from %s\n",
		resp.DutyID, name, rank, title, duty.FormatDate(startDate))
	if duty.IsRetirement(title) {
		fmt.Fprintf(a.out, "  career ended %s\n", duty.FormatDate(duty.DayBefore(startDate)))
	}
	return nil
}

// List prints a person's summary and duty history.
func (a *DutyAdapter) List(ctx context.Context, name string) error {
	result, err := a.service.GetAstronautDutiesByName(ctx, name)
	if err != nil {
		return err
	}

	writeSummary(a.out, result.Person)

	if len(result.Duties) == 0 {
		fmt.Fprintln(a.out, "\nNo duties recorded")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-6s %-8s %-22s %-11s %s\n", "ID", "RANK", "DUTY", "START", "END")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────")
	for _, d := range result.Duties {
		end := color.New(color.FgGreen).Sprint("current")
		if d.DutyEndDate != nil {
			end = *d.DutyEndDate
		}
		fmt.Fprintf(a.out, "%-6d %-8s %-22s %-11s %s\n", d.ID, d.Rank, d.DutyTitle, d.DutyStartDate, end)
	}
	fmt.Fprintln(a.out)

	return nil
}
