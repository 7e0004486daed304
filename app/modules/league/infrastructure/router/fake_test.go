package leaguerouter

import (
	"context"

	leagueservice "github.com/Black-And-White-Club/lastman/app/modules/league/application"
	leaguedb "github.com/Black-And-White-Club/lastman/app/modules/league/infrastructure/repositories"
	"github.com/google/uuid"
)

// FakeService implements leagueservice.Service. Methods without a Func
// field set panic through the embedded nil interface.
type FakeService struct {
	leagueservice.Service

	CreateLeagueFunc              func(ctx context.Context, req leagueservice.CreateLeagueRequest) (*leaguedb.League, error)
	GetLeagueFunc                 func(ctx context.Context, leagueID uuid.UUID) (*leaguedb.League, error)
	JoinLeagueFunc                func(ctx context.Context, req leagueservice.JoinLeagueRequest) (*leaguedb.Participant, error)
	LockRoundFunc                 func(ctx context.Context, leagueID, roundID uuid.UUID, callerID string) (*leagueservice.LockRoundResult, error)
	CreateSelectionFunc           func(ctx context.Context, req leagueservice.CreateSelectionRequest) (*leaguedb.Selection, error)
	RecordFixtureResultFunc       func(ctx context.Context, req leagueservice.FixtureResultRequest) (*leaguedb.Fixture, error)
	RecordSystemFixtureResultFunc func(ctx context.Context, req leagueservice.FixtureResultRequest) (*leaguedb.Fixture, error)
	SendManualNotificationFunc    func(ctx context.Context, req leagueservice.ManualNotificationRequest) (int, error)
	GetStandingsFunc              func(ctx context.Context, leagueID uuid.UUID) (*leagueservice.Standings, error)
}

func (f *FakeService) CreateLeague(ctx context.Context, req leagueservice.CreateLeagueRequest) (*leaguedb.League, error) {
	return f.CreateLeagueFunc(ctx, req)
}

func (f *FakeService) GetLeague(ctx context.Context, leagueID uuid.UUID) (*leaguedb.League, error) {
	return f.GetLeagueFunc(ctx, leagueID)
}

func (f *FakeService) JoinLeague(ctx context.Context, req leagueservice.JoinLeagueRequest) (*leaguedb.Participant, error) {
	return f.JoinLeagueFunc(ctx, req)
}

func (f *FakeService) LockRound(ctx context.Context, leagueID, roundID uuid.UUID, callerID string) (*leagueservice.LockRoundResult, error) {
	return f.LockRoundFunc(ctx, leagueID, roundID, callerID)
}

func (f *FakeService) CreateSelection(ctx context.Context, req leagueservice.CreateSelectionRequest) (*leaguedb.Selection, error) {
	return f.CreateSelectionFunc(ctx, req)
}

func (f *FakeService) RecordFixtureResult(ctx context.Context, req leagueservice.FixtureResultRequest) (*leaguedb.Fixture, error) {
	return f.RecordFixtureResultFunc(ctx, req)
}

func (f *FakeService) RecordSystemFixtureResult(ctx context.Context, req leagueservice.FixtureResultRequest) (*leaguedb.Fixture, error) {
	return f.RecordSystemFixtureResultFunc(ctx, req)
}

func (f *FakeService) SendManualNotification(ctx context.Context, req leagueservice.ManualNotificationRequest) (int, error) {
	return f.SendManualNotificationFunc(ctx, req)
}

func (f *FakeService) GetStandings(ctx context.Context, leagueID uuid.UUID) (*leagueservice.Standings, error) {
	return f.GetStandingsFunc(ctx, leagueID)
}
