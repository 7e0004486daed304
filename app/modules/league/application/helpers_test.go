package leagueservice

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	leaguedomain "github.com/Black-And-White-Club/lastman/app/modules/league/domain"
	leaguedb "github.com/Black-And-White-Club/lastman/app/modules/league/infrastructure/repositories"
	"github.com/Black-And-White-Club/lastman/app/shared/metrics"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

const ownerID = "owner-1"

var testNow = time.Date(2026, time.March, 7, 12, 0, 0, 0, time.UTC)

type harness struct {
	t        *testing.T
	ctx      context.Context
	repo     *FakeLeagueRepo
	notifier *FakeNotifier
	svc      *LeagueService
	league   *leaguedb.League
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	repo := NewFakeLeagueRepo()
	notifier := &FakeNotifier{}
	svc := NewLeagueService(
		repo,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics.NewNoop(),
		nil,
		nil,
		notifier,
		clockwork.NewFakeClockAt(testNow),
	)
	league := &leaguedb.League{
		ID:         uuid.New(),
		OwnerID:    ownerID,
		Name:       "Friday Survivors",
		Status:     leaguedomain.LeagueStatusActive,
		TimeZone:   "Europe/London",
		LeagueCode: "friday-survivors-abc123",
	}
	require.NoError(t, repo.CreateLeague(context.Background(), nil, league))
	return &harness{
		t:        t,
		ctx:      context.Background(),
		repo:     repo,
		notifier: notifier,
		svc:      svc,
		league:   league,
	}
}

func (h *harness) join(userID string) *leaguedb.Participant {
	h.t.Helper()
	p := &leaguedb.Participant{
		ID:          uuid.New(),
		LeagueID:    h.league.ID,
		UserID:      userID,
		DisplayName: "Player " + userID,
		JoinedAt:    testNow,
	}
	require.NoError(h.t, h.repo.CreateParticipant(h.ctx, nil, p))
	return p
}

func (h *harness) round(number int, status leaguedomain.RoundStatus) *leaguedb.Round {
	h.t.Helper()
	r := &leaguedb.Round{
		ID:       uuid.New(),
		LeagueID: h.league.ID,
		Number:   number,
		Status:   status,
		StartsAt: testNow,
		LocksAt:  testNow.Add(48 * time.Hour),
	}
	require.NoError(h.t, h.repo.CreateRound(h.ctx, nil, r))
	return r
}

// fixture creates a fixture in round; scores of -1 leave it scheduled.
func (h *harness) fixture(round *leaguedb.Round, home, away string, homeScore, awayScore int) *leaguedb.Fixture {
	h.t.Helper()
	f := &leaguedb.Fixture{
		ID:           uuid.New(),
		LeagueID:     h.league.ID,
		RoundID:      round.ID,
		HomeTeamID:   home,
		HomeTeamName: "Team " + home,
		AwayTeamID:   away,
		AwayTeamName: "Team " + away,
		KickoffAt:    round.StartsAt,
		Status:       leaguedomain.FixtureStatusScheduled,
	}
	if homeScore >= 0 && awayScore >= 0 {
		f.Status = leaguedomain.FixtureStatusFinished
		f.HomeScore, f.AwayScore = &homeScore, &awayScore
	}
	require.NoError(h.t, h.repo.CreateFixture(h.ctx, nil, f))
	return f
}

func (h *harness) pick(round *leaguedb.Round, userID, teamID string, fixture *leaguedb.Fixture) *leaguedb.Selection {
	h.t.Helper()
	s := &leaguedb.Selection{
		ID:               uuid.New(),
		LeagueID:         h.league.ID,
		RoundID:          round.ID,
		UserID:           userID,
		SelectedTeamID:   teamID,
		SelectedTeamName: "Team " + teamID,
		FixtureID:        fixture.ID,
	}
	require.NoError(h.t, h.repo.CreateSelection(h.ctx, nil, s))
	return s
}

func (h *harness) participant(userID string) *leaguedb.Participant {
	h.t.Helper()
	p, err := h.repo.GetParticipant(h.ctx, nil, h.league.ID, userID)
	require.NoError(h.t, err)
	return p
}

func (h *harness) state(userID string) elimination {
	return eliminationOf(h.participant(userID))
}

func (h *harness) leagueStatus() leaguedomain.LeagueStatus {
	h.t.Helper()
	l, err := h.repo.GetLeague(h.ctx, nil, h.league.ID)
	require.NoError(h.t, err)
	return l.Status
}

func (h *harness) roundStatus(round *leaguedb.Round) leaguedomain.RoundStatus {
	h.t.Helper()
	r, err := h.repo.GetRound(h.ctx, nil, h.league.ID, round.ID)
	require.NoError(h.t, err)
	return r.Status
}

func (h *harness) winnerIDs() []string {
	h.t.Helper()
	ws, err := h.repo.ListWinners(h.ctx, nil, h.league.ID)
	require.NoError(h.t, err)
	out := []string{}
	for _, w := range ws {
		out = append(out, w.UserID)
	}
	return out
}

func (h *harness) selectionResult(id uuid.UUID) *leaguedomain.Result {
	h.t.Helper()
	for _, s := range h.repo.selections {
		if s.ID == id {
			return s.Result
		}
	}
	h.t.Fatalf("selection %s not found", id)
	return nil
}

func eliminatedAt(round int, reason leaguedomain.EliminationReason) elimination {
	return elimination{Eliminated: true, Round: round, Reason: reason}
}

func resultPtr(r leaguedomain.Result) *leaguedomain.Result {
	return &r
}

func intPtr(n int) *int {
	return &n
}
