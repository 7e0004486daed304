package leaguedb

import (
	"context"

	leaguedomain "github.com/Black-And-White-Club/lastman/app/modules/league/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the contract for league persistence. Every method takes
// the bun.IDB to run against so callers can group writes in one transaction;
// a nil db falls back to the repository's connection.
//
// Error semantics:
//   - ErrNotFound: Record does not exist (Get* methods)
//   - ErrNoRowsAffected: UPDATE/DELETE matched no rows, including a
//     compare-and-set status update whose expected status no longer holds
//   - ErrDuplicateSelection: a selection already exists for (round, user)
//   - Other errors: Infrastructure failures (DB connection, query errors)
type Repository interface {
	LeagueRepository
	RoundRepository
	ParticipantRepository
	SelectionRepository
	FixtureRepository
	OverrideRepository
	WinnerRepository
}

type LeagueRepository interface {
	CreateLeague(ctx context.Context, db bun.IDB, league *League) error
	GetLeague(ctx context.Context, db bun.IDB, leagueID uuid.UUID) (*League, error)
	GetLeagueByCode(ctx context.Context, db bun.IDB, code string) (*League, error)
	UpdateLeagueStatus(ctx context.Context, db bun.IDB, leagueID uuid.UUID, status leaguedomain.LeagueStatus) error
	SetCurrentRound(ctx context.Context, db bun.IDB, leagueID, roundID uuid.UUID) error
}

type RoundRepository interface {
	CreateRound(ctx context.Context, db bun.IDB, round *Round) error
	GetRound(ctx context.Context, db bun.IDB, leagueID, roundID uuid.UUID) (*Round, error)
	// GetRoundForShare reads the round under FOR SHARE, holding off status
	// changes until the caller's transaction ends.
	GetRoundForShare(ctx context.Context, db bun.IDB, leagueID, roundID uuid.UUID) (*Round, error)
	// ListRounds returns the league's rounds ordered by ascending number.
	ListRounds(ctx context.Context, db bun.IDB, leagueID uuid.UUID) ([]*Round, error)
	// MaxRoundNumber returns the highest round number, or 0 when there are none.
	MaxRoundNumber(ctx context.Context, db bun.IDB, leagueID uuid.UUID) (int, error)
	// UpdateRoundStatus moves a round from one status to another and returns
	// ErrNoRowsAffected if the round is not currently in from.
	UpdateRoundStatus(ctx context.Context, db bun.IDB, leagueID, roundID uuid.UUID, from, to leaguedomain.RoundStatus) error
}

type ParticipantRepository interface {
	CreateParticipant(ctx context.Context, db bun.IDB, participant *Participant) error
	GetParticipant(ctx context.Context, db bun.IDB, leagueID uuid.UUID, userID string) (*Participant, error)
	GetParticipantByID(ctx context.Context, db bun.IDB, leagueID, participantID uuid.UUID) (*Participant, error)
	ListParticipants(ctx context.Context, db bun.IDB, leagueID uuid.UUID) ([]*Participant, error)
	ListActiveParticipants(ctx context.Context, db bun.IDB, leagueID uuid.UUID) ([]*Participant, error)
	// UpdateParticipant writes the participant's elimination fields.
	UpdateParticipant(ctx context.Context, db bun.IDB, participant *Participant) error
}

type SelectionRepository interface {
	CreateSelection(ctx context.Context, db bun.IDB, selection *Selection) error
	GetSelection(ctx context.Context, db bun.IDB, leagueID, roundID, selectionID uuid.UUID) (*Selection, error)
	ListSelections(ctx context.Context, db bun.IDB, leagueID, roundID uuid.UUID) ([]*Selection, error)
	// ListUserSelections returns every selection the user made in the league.
	ListUserSelections(ctx context.Context, db bun.IDB, leagueID uuid.UUID, userID string) ([]*Selection, error)
	ListLeagueSelections(ctx context.Context, db bun.IDB, leagueID uuid.UUID) ([]*Selection, error)
	UpdateSelectionResult(ctx context.Context, db bun.IDB, selectionID uuid.UUID, result *leaguedomain.Result) error
}

type FixtureRepository interface {
	CreateFixture(ctx context.Context, db bun.IDB, fixture *Fixture) error
	GetFixture(ctx context.Context, db bun.IDB, leagueID, roundID, fixtureID uuid.UUID) (*Fixture, error)
	ListFixtures(ctx context.Context, db bun.IDB, leagueID, roundID uuid.UUID) ([]*Fixture, error)
	UpdateFixtureResult(ctx context.Context, db bun.IDB, fixture *Fixture) error
}

type OverrideRepository interface {
	CreateOverride(ctx context.Context, db bun.IDB, override *AdminOverride) error
	GetOverride(ctx context.Context, db bun.IDB, leagueID, roundID, overrideID uuid.UUID) (*AdminOverride, error)
	// GetOverrideBySelection returns the most recent override for a selection.
	GetOverrideBySelection(ctx context.Context, db bun.IDB, selectionID uuid.UUID) (*AdminOverride, error)
	ListOverrides(ctx context.Context, db bun.IDB, leagueID, roundID uuid.UUID) ([]*AdminOverride, error)
	DeleteOverride(ctx context.Context, db bun.IDB, overrideID uuid.UUID) error
}

type WinnerRepository interface {
	// CreateWinners records winners, reinstating previously retracted rows.
	CreateWinners(ctx context.Context, db bun.IDB, winners []*LeagueWinner) error
	// ListWinners returns the current, unretracted winners.
	ListWinners(ctx context.Context, db bun.IDB, leagueID uuid.UUID) ([]*LeagueWinner, error)
	// ListAwardedUserIDs returns every user ever recorded as a winner of the
	// league, retracted or not.
	ListAwardedUserIDs(ctx context.Context, db bun.IDB, leagueID uuid.UUID) ([]string, error)
	RetractWinners(ctx context.Context, db bun.IDB, leagueID uuid.UUID) error
}
