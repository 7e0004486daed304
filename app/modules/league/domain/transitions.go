package leaguedomain

import (
	"errors"
	"fmt"
)

// ErrInvalidStateTransition is returned when an operation is not allowed in
// the current state.
var ErrInvalidStateTransition = errors.New("invalid state transition")

// TransitionError names the state and operation that were rejected.
type TransitionError struct {
	From      string
	Operation string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: operation %q not allowed from %s", ErrInvalidStateTransition, e.Operation, e.From)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidStateTransition
}

// RoundOperation is an operation gated by round status.
type RoundOperation string

const (
	RoundOpLock         RoundOperation = "lock"
	RoundOpValidate     RoundOperation = "validate"
	RoundOpSelect       RoundOperation = "select"
	RoundOpAddFixture   RoundOperation = "add_fixture"
	RoundOpScoreFixture RoundOperation = "score_fixture"
)

// roundTransitions maps source status -> operation -> target status.
// Anything absent is rejected.
var roundTransitions = map[RoundStatus]map[RoundOperation]RoundStatus{
	RoundStatusOpen: {
		RoundOpLock:         RoundStatusLocked,
		RoundOpSelect:       RoundStatusOpen,
		RoundOpAddFixture:   RoundStatusOpen,
		RoundOpScoreFixture: RoundStatusOpen,
	},
	RoundStatusLocked: {
		RoundOpValidate:     RoundStatusValidated,
		RoundOpAddFixture:   RoundStatusLocked,
		RoundOpScoreFixture: RoundStatusLocked,
	},
	RoundStatusValidated: {},
}

// Apply returns the status reached by performing op from s.
func (s RoundStatus) Apply(op RoundOperation) (RoundStatus, error) {
	if next, ok := roundTransitions[s][op]; ok {
		return next, nil
	}
	return s, &TransitionError{From: string(s), Operation: string(op)}
}

// Allows reports whether op is permitted from s.
func (s RoundStatus) Allows(op RoundOperation) bool {
	_, err := s.Apply(op)
	return err == nil
}

// LeagueOperation is an operation gated by league status.
type LeagueOperation string

const (
	LeagueOpComplete  LeagueOperation = "complete"
	LeagueOpReopen    LeagueOperation = "reopen"
	LeagueOpJoin      LeagueOperation = "join"
	LeagueOpOverride  LeagueOperation = "override"
	LeagueOpEliminate LeagueOperation = "eliminate"
	LeagueOpAddRound  LeagueOperation = "add_round"
)

var leagueTransitions = map[LeagueStatus]map[LeagueOperation]LeagueStatus{
	LeagueStatusActive: {
		LeagueOpComplete:  LeagueStatusCompleted,
		LeagueOpJoin:      LeagueStatusActive,
		LeagueOpOverride:  LeagueStatusActive,
		LeagueOpEliminate: LeagueStatusActive,
		LeagueOpAddRound:  LeagueStatusActive,
	},
	LeagueStatusCompleted: {
		LeagueOpReopen:    LeagueStatusActive,
		LeagueOpOverride:  LeagueStatusCompleted,
		LeagueOpEliminate: LeagueStatusCompleted,
	},
	LeagueStatusArchived: {},
}

// Apply returns the status reached by performing op from s.
func (s LeagueStatus) Apply(op LeagueOperation) (LeagueStatus, error) {
	if next, ok := leagueTransitions[s][op]; ok {
		return next, nil
	}
	return s, &TransitionError{From: string(s), Operation: string(op)}
}

func (s LeagueStatus) Allows(op LeagueOperation) bool {
	_, err := s.Apply(op)
	return err == nil
}
