package leaguedb

import (
	"time"

	leaguedomain "github.com/Black-And-White-Club/lastman/app/modules/league/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// League is a last man standing competition owned by its creator.
type League struct {
	bun.BaseModel   `bun:"table:leagues,alias:l"`
	ID              uuid.UUID                 `bun:"id,pk,type:uuid" json:"id"`
	OwnerID         string                    `bun:"owner_id,notnull" json:"ownerId"`
	Name            string                    `bun:"name,notnull" json:"name"`
	Description     string                    `bun:"description,nullzero" json:"description"`
	Status          leaguedomain.LeagueStatus `bun:"status,notnull" json:"status"`
	TimeZone        string                    `bun:"time_zone,notnull" json:"timeZone"`
	LeagueCode      string                    `bun:"league_code,notnull,unique" json:"leagueCode"`
	BlockInviteJoin bool                      `bun:"block_invite_join,notnull" json:"blockInviteJoin"`
	CurrentRoundID  *uuid.UUID                `bun:"current_round_id,type:uuid" json:"currentRoundId"`
	CompetitionCode string                    `bun:"competition_code,nullzero" json:"competitionCode"`
	CompetitionName string                    `bun:"competition_name,nullzero" json:"competitionName"`
	CreatedAt       time.Time                 `bun:",nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt       time.Time                 `bun:",nullzero,notnull,default:current_timestamp" json:"updatedAt"`
}

// Round is one pick window of a league.
type Round struct {
	bun.BaseModel `bun:"table:league_rounds,alias:r"`
	ID            uuid.UUID                `bun:"id,pk,type:uuid" json:"id"`
	LeagueID      uuid.UUID                `bun:"league_id,notnull,type:uuid,unique:league_round_number" json:"leagueId"`
	Number        int                      `bun:"number,notnull,unique:league_round_number" json:"number"`
	Status        leaguedomain.RoundStatus `bun:"status,notnull" json:"status"`
	StartsAt      time.Time                `bun:"starts_at,notnull" json:"startsAt"`
	LocksAt       time.Time                `bun:"locks_at,notnull" json:"locksAt"`
	CreatedAt     time.Time                `bun:",nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt     time.Time                `bun:",nullzero,notnull,default:current_timestamp" json:"updatedAt"`
}

// Participant is a user's membership of a league. EliminatedAtRound and
// EliminatedReason are set exactly when Eliminated is true.
type Participant struct {
	bun.BaseModel     `bun:"table:league_participants,alias:p"`
	ID                uuid.UUID                       `bun:"id,pk,type:uuid" json:"id"`
	LeagueID          uuid.UUID                       `bun:"league_id,notnull,type:uuid,unique:league_participant_user" json:"leagueId"`
	UserID            string                          `bun:"user_id,notnull,unique:league_participant_user" json:"userId"`
	DisplayName       string                          `bun:"display_name,nullzero" json:"displayName"`
	Email             string                          `bun:"email,nullzero" json:"-"`
	Eliminated        bool                            `bun:"eliminated,notnull" json:"eliminated"`
	EliminatedAtRound *int                            `bun:"eliminated_at_round" json:"eliminatedAtRound"`
	EliminatedReason  *leaguedomain.EliminationReason `bun:"eliminated_reason" json:"eliminatedReason"`
	JoinedAt          time.Time                       `bun:"joined_at,nullzero,notnull,default:current_timestamp" json:"joinedAt"`
}

// Eliminate marks the participant out at roundNumber for reason.
func (p *Participant) Eliminate(roundNumber int, reason leaguedomain.EliminationReason) {
	p.Eliminated = true
	p.EliminatedAtRound = &roundNumber
	p.EliminatedReason = &reason
}

// Reinstate clears every elimination field.
func (p *Participant) Reinstate() {
	p.Eliminated = false
	p.EliminatedAtRound = nil
	p.EliminatedReason = nil
}

// EliminatedIn reports the elimination round and reason, if any.
func (p *Participant) EliminatedIn() (int, leaguedomain.EliminationReason, bool) {
	if !p.Eliminated || p.EliminatedAtRound == nil || p.EliminatedReason == nil {
		return 0, "", false
	}
	return *p.EliminatedAtRound, *p.EliminatedReason, true
}

// Selection is a user's pick for a round. Only Result changes after creation.
type Selection struct {
	bun.BaseModel    `bun:"table:league_selections,alias:s"`
	ID               uuid.UUID            `bun:"id,pk,type:uuid" json:"id"`
	LeagueID         uuid.UUID            `bun:"league_id,notnull,type:uuid" json:"leagueId"`
	RoundID          uuid.UUID            `bun:"round_id,notnull,type:uuid,unique:round_selection_user" json:"roundId"`
	UserID           string               `bun:"user_id,notnull,unique:round_selection_user" json:"userId"`
	SelectedTeamID   string               `bun:"selected_team_id,notnull" json:"selectedTeamId"`
	SelectedTeamName string               `bun:"selected_team_name,notnull" json:"selectedTeamName"`
	FixtureID        uuid.UUID            `bun:"fixture_id,notnull,type:uuid" json:"fixtureId"`
	Result           *leaguedomain.Result `bun:"result" json:"result"`
	CreatedAt        time.Time            `bun:",nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt        time.Time            `bun:",nullzero,notnull,default:current_timestamp" json:"updatedAt"`
}

// Fixture is a match inside a round. Scores are set iff Status is FINISHED.
type Fixture struct {
	bun.BaseModel `bun:"table:league_fixtures,alias:f"`
	ID            uuid.UUID                  `bun:"id,pk,type:uuid" json:"id"`
	LeagueID      uuid.UUID                  `bun:"league_id,notnull,type:uuid" json:"leagueId"`
	RoundID       uuid.UUID                  `bun:"round_id,notnull,type:uuid" json:"roundId"`
	ExternalID    string                     `bun:"external_id,nullzero" json:"externalId"`
	HomeTeamID    string                     `bun:"home_team_id,notnull" json:"homeTeamId"`
	HomeTeamName  string                     `bun:"home_team_name,notnull" json:"homeTeamName"`
	AwayTeamID    string                     `bun:"away_team_id,notnull" json:"awayTeamId"`
	AwayTeamName  string                     `bun:"away_team_name,notnull" json:"awayTeamName"`
	KickoffAt     time.Time                  `bun:"kickoff_at,notnull" json:"kickoffAt"`
	Status        leaguedomain.FixtureStatus `bun:"status,notnull" json:"status"`
	HomeScore     *int                       `bun:"home_score" json:"homeScore"`
	AwayScore     *int                       `bun:"away_score" json:"awayScore"`
	CreatedAt     time.Time                  `bun:",nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt     time.Time                  `bun:",nullzero,notnull,default:current_timestamp" json:"updatedAt"`
}

// Finished reports whether the fixture has a final score.
func (f *Fixture) Finished() bool {
	return f.Status == leaguedomain.FixtureStatusFinished && f.HomeScore != nil && f.AwayScore != nil
}

// HasTeam reports whether teamID plays in the fixture.
func (f *Fixture) HasTeam(teamID string) bool {
	return teamID == f.HomeTeamID || teamID == f.AwayTeamID
}

// AdminOverride replaces the computed result of one selection.
type AdminOverride struct {
	bun.BaseModel  `bun:"table:league_admin_overrides,alias:o"`
	ID             uuid.UUID            `bun:"id,pk,type:uuid" json:"id"`
	LeagueID       uuid.UUID            `bun:"league_id,notnull,type:uuid" json:"leagueId"`
	RoundID        uuid.UUID            `bun:"round_id,notnull,type:uuid" json:"roundId"`
	SelectionID    uuid.UUID            `bun:"selection_id,notnull,type:uuid" json:"selectionId"`
	UserID         string               `bun:"user_id,notnull" json:"userId"`
	OriginalResult *leaguedomain.Result `bun:"original_result" json:"originalResult"`
	OverrideResult leaguedomain.Result  `bun:"override_result,notnull" json:"overrideResult"`
	Reason         string               `bun:"reason,notnull" json:"reason"`
	CreatedBy      string               `bun:"created_by,notnull" json:"createdBy"`
	CreatedAt      time.Time            `bun:"created_at,notnull" json:"createdAt"`
}

// LeagueWinner is one winning user of a completed league. A league that
// reopens retracts its winners rather than deleting them, so the row also
// records that the user was once told they won.
type LeagueWinner struct {
	bun.BaseModel `bun:"table:league_winners,alias:w"`
	ID            uuid.UUID  `bun:"id,pk,type:uuid" json:"id"`
	LeagueID      uuid.UUID  `bun:"league_id,notnull,type:uuid,unique:league_winner_user" json:"leagueId"`
	UserID        string     `bun:"user_id,notnull,unique:league_winner_user" json:"userId"`
	CreatedAt     time.Time  `bun:"created_at,notnull" json:"createdAt"`
	RetractedAt   *time.Time `bun:"retracted_at" json:"-"`
}
