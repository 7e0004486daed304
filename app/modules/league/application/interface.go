package leagueservice

import (
	"context"

	leaguedomain "github.com/Black-And-White-Club/lastman/app/modules/league/domain"
	leaguedb "github.com/Black-And-White-Club/lastman/app/modules/league/infrastructure/repositories"
	"github.com/google/uuid"
)

// NotificationSink receives the notifications produced by an operation once
// its transaction has committed. Delivery is best-effort.
type NotificationSink interface {
	Notify(ctx context.Context, pending []leaguedomain.PendingNotification) error
}

// Service is the league engine. Admin operations require callerID to be the
// league owner.
type Service interface {
	// Round lifecycle and elimination.
	LockRound(ctx context.Context, leagueID, roundID uuid.UUID, callerID string) (*LockRoundResult, error)
	ValidateRound(ctx context.Context, leagueID, roundID uuid.UUID, callerID string) (*ValidateRoundResult, error)
	OverrideSelectionResult(ctx context.Context, req OverrideRequest) (*OverrideResult, error)
	ReverseOverride(ctx context.Context, leagueID, roundID, overrideID uuid.UUID, callerID string) (*ReverseOverrideResult, error)
	ManuallyEliminateParticipant(ctx context.Context, leagueID, participantID uuid.UUID, roundNumber int, callerID string) (*ManualEliminationResult, error)

	// League administration.
	CreateLeague(ctx context.Context, req CreateLeagueRequest) (*leaguedb.League, error)
	GetLeague(ctx context.Context, leagueID uuid.UUID) (*leaguedb.League, error)
	JoinLeague(ctx context.Context, req JoinLeagueRequest) (*leaguedb.Participant, error)
	ListParticipants(ctx context.Context, leagueID uuid.UUID) ([]*leaguedb.Participant, error)

	// Rounds and fixtures.
	CreateRound(ctx context.Context, req CreateRoundRequest) (*leaguedb.Round, error)
	ListRounds(ctx context.Context, leagueID uuid.UUID) ([]*leaguedb.Round, error)
	CreateFixture(ctx context.Context, req CreateFixtureRequest) (*leaguedb.Fixture, error)
	ListFixtures(ctx context.Context, leagueID, roundID uuid.UUID) ([]*leaguedb.Fixture, error)
	RecordFixtureResult(ctx context.Context, req FixtureResultRequest) (*leaguedb.Fixture, error)
	RecordSystemFixtureResult(ctx context.Context, req FixtureResultRequest) (*leaguedb.Fixture, error)

	// Selections.
	CreateSelection(ctx context.Context, req CreateSelectionRequest) (*leaguedb.Selection, error)
	ListSelections(ctx context.Context, leagueID, roundID uuid.UUID) ([]*leaguedb.Selection, error)
	ListUserSelections(ctx context.Context, leagueID uuid.UUID, userID string) ([]*leaguedb.Selection, error)

	// Broadcasts, winners and standings.
	SendManualNotification(ctx context.Context, req ManualNotificationRequest) (int, error)
	ListWinners(ctx context.Context, leagueID uuid.UUID) ([]*leaguedb.LeagueWinner, error)
	GetStandings(ctx context.Context, leagueID uuid.UUID) (*Standings, error)
}

var _ Service = (*LeagueService)(nil)
