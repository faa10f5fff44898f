// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle argument parsing, output formatting,
// but delegate business logic to services.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/example/stargate/internal/ports/primary"
)

// PersonAdapter is a thin adapter that translates CLI operations to PersonService calls.
type PersonAdapter struct {
	service primary.PersonService
	out     io.Writer
}

// NewPersonAdapter creates a new PersonAdapter with the given service.
func NewPersonAdapter(service primary.PersonService, out io.Writer) *PersonAdapter {
	return &PersonAdapter{
		service: service,
		out:     out,
	}
}

// Create creates a new person.
func (a *PersonAdapter) Create(ctx context.Context, name string) error {
	resp, err := a.service.CreatePerson(ctx, primary.CreatePersonRequest{Name: name})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Created person %d: %s\n", resp.PersonID, resp.Person.Name)
	return nil
}

// List lists every person with their current assignment.
func (a *PersonAdapter) List(ctx context.Context) error {
	people, err := a.service.ListPeople(ctx)
	if err != nil {
		return fmt.Errorf("failed to list people: %w", err)
	}

	if len(people) == 0 {
		fmt.Fprintln(a.out, "No people found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-6s %-28s %-8s %-22s %s\n", "ID", "NAME", "RANK", "DUTY", "STATUS")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────────────────────")
	for _, p := range people {
		fmt.Fprintf(a.out, "%-6d %-28s %-8s %-22s %s\n",
			p.PersonID, p.Name, orDash(p.CurrentRank), orDash(p.CurrentDutyTitle), careerStatus(p))
	}
	fmt.Fprintln(a.out)

	return nil
}

// Show displays a single person's astronaut summary.
func (a *PersonAdapter) Show(ctx context.Context, name string) (*primary.PersonAstronaut, error) {
	p, err := a.service.GetPersonByName(ctx, name)
	if err != nil {
		return nil, err
	}

	writeSummary(a.out, p)
	fmt.Fprintln(a.out)
	return p, nil
}

func writeSummary(out io.Writer, p *primary.PersonAstronaut) {
	fmt.Fprintf(out, "\nPerson: %s (%d)\n", p.Name, p.PersonID)
	fmt.Fprintf(out, "Status: %s\n", careerStatus(p))
	if p.CurrentRank == "" && p.CareerStartDate == nil {
		return
	}
	fmt.Fprintf(out, "Rank:   %s\n", p.CurrentRank)
	fmt.Fprintf(out, "Duty:   %s\n", p.CurrentDutyTitle)
	fmt.Fprintf(out, "Career: %s → %s\n", orDash(deref(p.CareerStartDate)), orDash(deref(p.CareerEndDate)))
}

// careerStatus renders a coloured status for a person's career.
func careerStatus(p *primary.PersonAstronaut) string {
	switch {
	case p.CareerEndDate != nil:
		return color.New(color.FgYellow).Sprint("retired")
	case p.CareerStartDate != nil:
		return color.New(color.FgGreen).Sprint("active")
	default:
		return color.New(color.FgHiBlack).Sprint("civilian")
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
