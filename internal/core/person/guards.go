// Package person contains the pure business logic for person operations.
// Guards are pure functions that evaluate preconditions without side effects.
package person

import (
	"fmt"
	"strings"

	domainErr "github.com/example/stargate/internal/core/errors"
)

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

// CreatePersonContext provides context for person creation guards.
type CreatePersonContext struct {
	Name      string
	NameTaken bool
}

// NormalizeName trims surrounding whitespace from a person name.
// Lookups and inserts both go through it so "Neil " and "Neil" are one person.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

// CanCreatePerson evaluates whether a person can be created.
// Rules:
// - Name must not be blank
// - Name must not already be taken
func CanCreatePerson(ctx CreatePersonContext) GuardResult {
	if NormalizeName(ctx.Name) == "" {
		return GuardResult{
			Allowed: false,
			Reason:  "name is required",
			Kind:    domainErr.ErrValidation,
		}
	}

	if ctx.NameTaken {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("person %q already exists", NormalizeName(ctx.Name)),
			Kind:    domainErr.ErrConflict,
		}
	}

	return GuardResult{Allowed: true}
}
