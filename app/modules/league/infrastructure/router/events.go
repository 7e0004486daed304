package leaguerouter

import (
	leaguedomain "github.com/Black-And-White-Club/lastman/app/modules/league/domain"
	"github.com/google/uuid"
)

// FixtureResultRecordedPayloadV1 is published by a results feed on
// eventbus.FixtureResultRecordedV1.
type FixtureResultRecordedPayloadV1 struct {
	LeagueID  uuid.UUID                  `json:"leagueId"`
	RoundID   uuid.UUID                  `json:"roundId"`
	FixtureID uuid.UUID                  `json:"fixtureId"`
	Status    leaguedomain.FixtureStatus `json:"status"`
	HomeScore *int                       `json:"homeScore,omitempty"`
	AwayScore *int                       `json:"awayScore,omitempty"`
}
