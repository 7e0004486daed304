package leagueservice

import (
	"errors"
	"fmt"

	leaguedomain "github.com/Black-And-White-Club/lastman/app/modules/league/domain"
)

// Caller-visible failure kinds. Every failure returned by the service
// matches exactly one of these with errors.Is.
var (
	ErrUnauthenticated        = errors.New("unauthenticated")
	ErrPermissionDenied       = errors.New("permission denied")
	ErrNotFound               = errors.New("not found")
	ErrInvalidStateTransition = leaguedomain.ErrInvalidStateTransition
	ErrDuplicateSelection     = errors.New("selection already exists for this round")
	ErrEliminatedParticipant  = errors.New("participant has been eliminated")
	ErrValidation             = errors.New("validation failed")
)

var failureKinds = []error{
	ErrUnauthenticated,
	ErrPermissionDenied,
	ErrNotFound,
	ErrInvalidStateTransition,
	ErrDuplicateSelection,
	ErrEliminatedParticipant,
	ErrValidation,
}

// NotFoundError names the entity that did not resolve.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ValidationError names the offending input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func notFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsFailure reports whether err is one of the caller-visible failure kinds
// rather than an infrastructure error.
func IsFailure(err error) bool {
	for _, kind := range failureKinds {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
