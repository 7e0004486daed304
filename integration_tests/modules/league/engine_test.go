package leagueintegrationtests

import (
	"testing"
	"time"

	leaguedomain "github.com/Black-And-White-Club/lastman/app/modules/league/domain"
	leagueservice "github.com/Black-And-White-Club/lastman/app/modules/league/application"
	leaguedb "github.com/Black-And-White-Club/lastman/app/modules/league/infrastructure/repositories"
	notificationservice "github.com/Black-And-White-Club/lastman/app/modules/notification/application"
	notificationqueue "github.com/Black-And-White-Club/lastman/app/modules/notification/infrastructure/queue"
	notificationdb "github.com/Black-And-White-Club/lastman/app/modules/notification/infrastructure/repositories"
	"github.com/Black-And-White-Club/lastman/app/shared/metrics"
	"github.com/Black-And-White-Club/lastman/integration_tests/testutils"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

const owner = "owner-1"

type discardPublisher struct{}

func (discardPublisher) Publish(string, ...*message.Message) error { return nil }
func (discardPublisher) Close() error                              { return nil }

type engineEnv struct {
	env      *testutils.TestEnvironment
	svc      *leagueservice.LeagueService
	repo     leaguedb.Repository
	inbox    notificationdb.Repository
	clock    *clockwork.FakeClock
	startsAt time.Time
}

func newEngineEnv(t *testing.T) *engineEnv {
	t.Helper()
	env := testutils.GetOrCreateTestEnv(t)
	tracer := noop.NewTracerProvider().Tracer("integration")
	clock := clockwork.NewFakeClockAt(time.Date(2026, time.August, 15, 9, 0, 0, 0, time.UTC))

	inbox := notificationdb.NewRepository(env.DB)
	worker := notificationqueue.NewDeliveryWorker(inbox, discardPublisher{}, env.Logger)
	queue, err := notificationqueue.NewService(env.Pool, worker, env.Logger, metrics.NewNoop(), 1)
	require.NoError(t, err)
	notifier := notificationservice.NewNotificationService(inbox, queue, env.Logger, metrics.NewNoop(), tracer, clock)

	repo := leaguedb.NewRepository(env.DB)
	svc := leagueservice.NewLeagueService(repo, env.Logger, metrics.NewNoop(), tracer, env.DB, notifier, clock)
	return &engineEnv{env: env, svc: svc, repo: repo, inbox: inbox, clock: clock, startsAt: clock.Now()}
}

func intPtr(v int) *int { return &v }

// TestEngine_RoundLifecycle runs two players through one round against
// Postgres: the home pick survives, the away pick is eliminated, the league
// completes with one winner and every notification lands in the inbox with
// a delivery job queued.
func TestEngine_RoundLifecycle(t *testing.T) {
	e := newEngineEnv(t)
	ctx := e.env.Ctx
	players := testutils.NewTestDataGenerator(1).Players(3)
	teams := testutils.NewTestDataGenerator(2).Teams(2)

	league, err := e.svc.CreateLeague(ctx, leagueservice.CreateLeagueRequest{OwnerID: owner, Name: "Integration League"})
	require.NoError(t, err)
	for _, p := range players {
		_, err := e.svc.JoinLeague(ctx, leagueservice.JoinLeagueRequest{
			LeagueCode:  league.LeagueCode,
			UserID:      p.UserID,
			DisplayName: p.DisplayName,
			Email:       p.Email,
		})
		require.NoError(t, err)
	}

	round, err := e.svc.CreateRound(ctx, leagueservice.CreateRoundRequest{
		LeagueID: league.ID,
		CallerID: owner,
		StartsAt: e.startsAt.Format(time.RFC3339),
		LocksAt:  e.startsAt.Add(48 * time.Hour).Format(time.RFC3339),
	})
	require.NoError(t, err)

	fixture, err := e.svc.CreateFixture(ctx, leagueservice.CreateFixtureRequest{
		LeagueID:     league.ID,
		RoundID:      round.ID,
		CallerID:     owner,
		HomeTeamID:   teams[0].ID,
		HomeTeamName: teams[0].Name,
		AwayTeamID:   teams[1].ID,
		AwayTeamName: teams[1].Name,
		KickoffAt:    e.startsAt.Add(72 * time.Hour),
	})
	require.NoError(t, err)

	for i, team := range []string{teams[0].ID, teams[1].ID} {
		_, err := e.svc.CreateSelection(ctx, leagueservice.CreateSelectionRequest{
			LeagueID:       league.ID,
			RoundID:        round.ID,
			UserID:         players[i].UserID,
			SelectedTeamID: team,
			FixtureID:      fixture.ID,
		})
		require.NoError(t, err)
	}

	locked, err := e.svc.LockRound(ctx, league.ID, round.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, []string{players[2].UserID}, locked.EliminatedUserIDs)

	_, err = e.svc.LockRound(ctx, league.ID, round.ID, owner)
	assert.Error(t, err, "a locked round cannot be locked again")

	_, err = e.svc.RecordFixtureResult(ctx, leagueservice.FixtureResultRequest{
		LeagueID:  league.ID,
		RoundID:   round.ID,
		FixtureID: fixture.ID,
		CallerID:  owner,
		Status:    leaguedomain.FixtureStatusFinished,
		HomeScore: intPtr(3),
		AwayScore: intPtr(0),
	})
	require.NoError(t, err)

	validated, err := e.svc.ValidateRound(ctx, league.ID, round.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, 2, validated.ProcessedSelections)
	assert.Equal(t, []string{players[1].UserID}, validated.EliminatedUserIDs)
	assert.True(t, validated.LeagueCompleted)
	assert.Equal(t, []string{players[0].UserID}, validated.WinnerUserIDs)

	stored, err := e.svc.GetLeague(ctx, league.ID)
	require.NoError(t, err)
	assert.Equal(t, leaguedomain.LeagueStatusCompleted, stored.Status)

	standings, err := e.svc.GetStandings(ctx, league.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{players[0].UserID}, standings.Winners)
	require.Len(t, standings.Rounds, 1)
	assert.Equal(t, 1, standings.Rounds[0].Survivors)

	winnerInbox, err := e.inbox.ListNotifications(ctx, nil, players[0].UserID, false, 10)
	require.NoError(t, err)
	require.Len(t, winnerInbox, 1)
	assert.Equal(t, leaguedomain.NotificationLeagueWinner, winnerInbox[0].Type)

	for _, p := range players[1:] {
		rows, err := e.inbox.ListNotifications(ctx, nil, p.UserID, true, 10)
		require.NoError(t, err)
		require.Len(t, rows, 1, "user %s", p.UserID)
		assert.Equal(t, leaguedomain.NotificationEliminated, rows[0].Type)
	}

	var jobs int
	err = e.env.DB.NewRaw("SELECT count(*) FROM river_job WHERE kind = ?", notificationqueue.DeliveryJob{}.Kind()).Scan(ctx, &jobs)
	require.NoError(t, err)
	assert.Equal(t, 3, jobs)
}

// TestEngine_RejectedOperationsLeaveStateUntouched checks that failures
// returned by the engine commit nothing.
func TestEngine_RejectedOperationsLeaveStateUntouched(t *testing.T) {
	e := newEngineEnv(t)
	ctx := e.env.Ctx
	players := testutils.NewTestDataGenerator(3).Players(2)

	league, err := e.svc.CreateLeague(ctx, leagueservice.CreateLeagueRequest{OwnerID: owner, Name: "Rollback League"})
	require.NoError(t, err)
	for _, p := range players {
		_, err := e.svc.JoinLeague(ctx, leagueservice.JoinLeagueRequest{LeagueCode: league.LeagueCode, UserID: p.UserID})
		require.NoError(t, err)
	}
	round, err := e.svc.CreateRound(ctx, leagueservice.CreateRoundRequest{
		LeagueID: league.ID,
		CallerID: owner,
		StartsAt: e.startsAt.Format(time.RFC3339),
		LocksAt:  e.startsAt.Add(time.Hour).Format(time.RFC3339),
	})
	require.NoError(t, err)
	fixture, err := e.svc.CreateFixture(ctx, leagueservice.CreateFixtureRequest{
		LeagueID:   league.ID,
		RoundID:    round.ID,
		CallerID:   owner,
		HomeTeamID: "HOM",
		AwayTeamID: "AWY",
		KickoffAt:  e.startsAt.Add(2 * time.Hour),
	})
	require.NoError(t, err)

	_, err = e.svc.CreateSelection(ctx, leagueservice.CreateSelectionRequest{
		LeagueID:       league.ID,
		RoundID:        round.ID,
		UserID:         players[0].UserID,
		SelectedTeamID: "ELSEWHERE",
		FixtureID:      fixture.ID,
	})
	require.Error(t, err)
	assert.True(t, leagueservice.IsFailure(err))

	_, err = e.svc.LockRound(ctx, league.ID, round.ID, players[0].UserID)
	require.Error(t, err)
	assert.ErrorIs(t, err, leagueservice.ErrPermissionDenied)

	_, err = e.svc.ValidateRound(ctx, league.ID, round.ID, owner)
	require.Error(t, err, "an open round cannot be validated")
	assert.True(t, leagueservice.IsFailure(err))

	stored, err := e.repo.GetRound(ctx, nil, league.ID, round.ID)
	require.NoError(t, err)
	assert.Equal(t, leaguedomain.RoundStatusOpen, stored.Status)

	selections, err := e.repo.ListSelections(ctx, nil, league.ID, round.ID)
	require.NoError(t, err)
	assert.Empty(t, selections)

	active, err := e.repo.ListActiveParticipants(ctx, nil, league.ID)
	require.NoError(t, err)
	assert.Len(t, active, 2)
}
