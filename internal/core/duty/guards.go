// Package duty contains the pure business logic for astronaut duty assignments.
// Guards evaluate preconditions; the planner turns an accepted request into the
// effects that close the previous duty, open the new one and refresh the summary.
package duty

import (
	"fmt"
	"strings"
	"time"

	domainErr "github.com/example/stargate/internal/core/errors"
)

// RetiredTitle is the duty title that ends a career.
const RetiredTitle = "RETIRED"

// IsRetirement reports whether title is the retirement sentinel (exact match).
func IsRetirement(title string) bool {
	return title == RetiredTitle
}

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
	Kind    error // one of the domain error kinds when not allowed
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return domainErr.New(r.Kind, r.Reason)
}

// DutyRequestInput is the raw shape of a duty request before lookups.
type DutyRequestInput struct {
	Name      string
	Rank      string
	DutyTitle string
	StartDate time.Time
}

// RecordDutyContext provides pre-fetched context for duty recording guards.
type RecordDutyContext struct {
	PersonName     string
	PersonExists   bool
	StartDate      time.Time
	StartDateTaken bool // another duty of the person starts on the same calendar day
}

// ValidateDutyRequest checks that every required field is present.
func ValidateDutyRequest(in DutyRequestInput) GuardResult {
	var missing []string
	if strings.TrimSpace(in.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(in.Rank) == "" {
		missing = append(missing, "rank")
	}
	if strings.TrimSpace(in.DutyTitle) == "" {
		missing = append(missing, "dutyTitle")
	}
	if in.StartDate.IsZero() {
		missing = append(missing, "dutyStartDate")
	}

	if len(missing) > 0 {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", ")),
			Kind:    domainErr.ErrValidation,
		}
	}

	return GuardResult{Allowed: true}
}

// CanRecordDuty evaluates whether a new duty can be recorded.
// Rules:
// - Person must exist
// - No other duty of the person may start on the same calendar day
func CanRecordDuty(ctx RecordDutyContext) GuardResult {
	if !ctx.PersonExists {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("person %q does not exist", ctx.PersonName),
			Kind:    domainErr.ErrNotFound,
		}
	}

	if ctx.StartDateTaken {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("astronaut duty already exists for %q starting %s", ctx.PersonName, FormatDate(ctx.StartDate)),
			Kind:    domainErr.ErrConflict,
		}
	}

	return GuardResult{Allowed: true}
}
