package leagueservice

import (
	"time"

	leaguedomain "github.com/Black-And-White-Club/lastman/app/modules/league/domain"
	leaguedb "github.com/Black-And-White-Club/lastman/app/modules/league/infrastructure/repositories"
	"github.com/google/uuid"
)

// LockRoundResult reports the participants eliminated for not picking.
type LockRoundResult struct {
	RoundID           uuid.UUID                `json:"roundId"`
	Status            leaguedomain.RoundStatus `json:"status"`
	EliminatedUserIDs []string                 `json:"eliminatedUserIds"`
	LeagueCompleted   bool                     `json:"leagueCompleted"`
}

// ValidateRoundResult reports the outcome of applying a round's results.
// ProcessedSelections counts every selection of the round, resolved or not.
type ValidateRoundResult struct {
	RoundID             uuid.UUID                `json:"roundId"`
	Status              leaguedomain.RoundStatus `json:"status"`
	ProcessedSelections int                      `json:"processedSelections"`
	EliminatedCount     int                      `json:"eliminatedCount"`
	EliminatedUserIDs   []string                 `json:"eliminatedUserIds"`
	LeagueCompleted     bool                     `json:"leagueCompleted"`
	WinnerUserIDs       []string                 `json:"winnerUserIds,omitempty"`
}

type OverrideRequest struct {
	LeagueID    uuid.UUID
	RoundID     uuid.UUID
	SelectionID uuid.UUID
	Result      leaguedomain.Result
	Reason      string
	CallerID    string
}

// OverrideResult carries the recorded override and, when the round was
// already validated, the participant as recalculated.
type OverrideResult struct {
	Override     *leaguedb.AdminOverride `json:"override"`
	Recalculated bool                    `json:"recalculated"`
	Participant  *leaguedb.Participant   `json:"participant,omitempty"`
}

type ReverseOverrideResult struct {
	OverrideID  uuid.UUID             `json:"overrideId"`
	Participant *leaguedb.Participant `json:"participant"`
}

type ManualEliminationResult struct {
	Participant     *leaguedb.Participant `json:"participant"`
	LeagueCompleted bool                  `json:"leagueCompleted"`
}

type CreateLeagueRequest struct {
	OwnerID         string
	Name            string
	Description     string
	TimeZone        string
	CompetitionCode string
	CompetitionName string
}

type JoinLeagueRequest struct {
	LeagueCode  string
	UserID      string
	DisplayName string
	Email       string
}

// CreateRoundRequest accepts RFC 3339 or natural language times.
type CreateRoundRequest struct {
	LeagueID uuid.UUID
	CallerID string
	StartsAt string
	LocksAt  string
}

type CreateFixtureRequest struct {
	LeagueID     uuid.UUID
	RoundID      uuid.UUID
	CallerID     string
	ExternalID   string
	HomeTeamID   string
	HomeTeamName string
	AwayTeamID   string
	AwayTeamName string
	KickoffAt    time.Time
}

type FixtureResultRequest struct {
	LeagueID  uuid.UUID
	RoundID   uuid.UUID
	FixtureID uuid.UUID
	CallerID  string
	Status    leaguedomain.FixtureStatus
	HomeScore *int
	AwayScore *int
}

type CreateSelectionRequest struct {
	LeagueID       uuid.UUID
	RoundID        uuid.UUID
	UserID         string
	SelectedTeamID string
	TeamName       string
	FixtureID      uuid.UUID
}

type ManualNotificationRequest struct {
	LeagueID uuid.UUID
	CallerID string
	Audience leaguedomain.Audience
	RoundID  *uuid.UUID
	Title    string
	Message  string
}

// Standings is a read model of the whole league.
type Standings struct {
	League       *leaguedb.League      `json:"league"`
	Rounds       []RoundStanding       `json:"rounds"`
	Participants []ParticipantStanding `json:"participants"`
	Winners      []string              `json:"winners"`
}

// RoundStanding counts the participants still alive after a round.
type RoundStanding struct {
	RoundID   uuid.UUID                `json:"roundId"`
	Number    int                      `json:"number"`
	Status    leaguedomain.RoundStatus `json:"status"`
	Picks     int                      `json:"picks"`
	Survivors int                      `json:"survivors"`
}

type ParticipantStanding struct {
	UserID            string                          `json:"userId"`
	DisplayName       string                          `json:"displayName"`
	Eliminated        bool                            `json:"eliminated"`
	EliminatedAtRound *int                            `json:"eliminatedAtRound,omitempty"`
	EliminatedReason  *leaguedomain.EliminationReason `json:"eliminatedReason,omitempty"`
	Picks             map[int]Pick                    `json:"picks"`
}

type Pick struct {
	TeamID   string               `json:"teamId"`
	TeamName string               `json:"teamName"`
	Result   *leaguedomain.Result `json:"result,omitempty"`
}
