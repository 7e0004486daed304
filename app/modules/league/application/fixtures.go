package leagueservice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	leaguedomain "github.com/Black-And-White-Club/lastman/app/modules/league/domain"
	leaguedb "github.com/Black-And-White-Club/lastman/app/modules/league/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// CreateRound appends the next numbered round to a league and makes it the
// current round.
func (s *LeagueService) CreateRound(ctx context.Context, req CreateRoundRequest) (*leaguedb.Round, error) {
	return execute(s, ctx, "CreateRound", req.LeagueID.String(), func(ctx context.Context, db bun.IDB) (*leaguedb.Round, error) {
		league, err := s.authorizeOwner(ctx, db, req.LeagueID, req.CallerID)
		if err != nil {
			return nil, err
		}
		if _, err := league.Status.Apply(leaguedomain.LeagueOpAddRound); err != nil {
			return nil, err
		}

		loc, err := time.LoadLocation(league.TimeZone)
		if err != nil {
			loc = time.UTC
		}
		now := s.now()
		startsAt, ok := s.times.Parse(req.StartsAt, loc, now)
		if !ok {
			return nil, invalid("startDateTime", fmt.Sprintf("could not understand %q", req.StartsAt))
		}
		locksAt, ok := s.times.Parse(req.LocksAt, loc, now)
		if !ok {
			return nil, invalid("lockDateTime", fmt.Sprintf("could not understand %q", req.LocksAt))
		}
		if !startsAt.Before(locksAt) {
			return nil, invalid("lockDateTime", "must be after the start time")
		}

		last, err := s.repo.MaxRoundNumber(ctx, db, league.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get last round number: %w", err)
		}
		round := &leaguedb.Round{
			ID:        uuid.New(),
			LeagueID:  league.ID,
			Number:    last + 1,
			Status:    leaguedomain.RoundStatusOpen,
			StartsAt:  startsAt,
			LocksAt:   locksAt,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.repo.CreateRound(ctx, db, round); err != nil {
			return nil, fmt.Errorf("failed to create round: %w", err)
		}
		if err := s.repo.SetCurrentRound(ctx, db, league.ID, round.ID); err != nil {
			return nil, fmt.Errorf("failed to set current round: %w", err)
		}
		return round, nil
	})
}

// ListRounds returns the rounds of a league in number order.
func (s *LeagueService) ListRounds(ctx context.Context, leagueID uuid.UUID) ([]*leaguedb.Round, error) {
	return execute(s, ctx, "ListRounds", leagueID.String(), func(ctx context.Context, db bun.IDB) ([]*leaguedb.Round, error) {
		if _, err := s.loadLeague(ctx, db, leagueID); err != nil {
			return nil, err
		}
		rounds, err := s.repo.ListRounds(ctx, db, leagueID)
		if err != nil {
			return nil, fmt.Errorf("failed to list rounds: %w", err)
		}
		return rounds, nil
	})
}

// CreateFixture adds a scheduled match to a round that is not yet validated.
func (s *LeagueService) CreateFixture(ctx context.Context, req CreateFixtureRequest) (*leaguedb.Fixture, error) {
	return execute(s, ctx, "CreateFixture", req.RoundID.String(), func(ctx context.Context, db bun.IDB) (*leaguedb.Fixture, error) {
		home := strings.TrimSpace(req.HomeTeamID)
		away := strings.TrimSpace(req.AwayTeamID)
		if home == "" || away == "" {
			return nil, invalid("teams", "homeTeamId and awayTeamId are required")
		}
		if home == away {
			return nil, invalid("teams", "a team cannot play itself")
		}

		if _, err := s.authorizeOwner(ctx, db, req.LeagueID, req.CallerID); err != nil {
			return nil, err
		}
		round, err := s.loadRound(ctx, db, req.LeagueID, req.RoundID)
		if err != nil {
			return nil, err
		}
		if _, err := round.Status.Apply(leaguedomain.RoundOpAddFixture); err != nil {
			return nil, err
		}

		now := s.now()
		kickoff := req.KickoffAt
		if kickoff.IsZero() {
			kickoff = round.StartsAt
		}
		fixture := &leaguedb.Fixture{
			ID:           uuid.New(),
			LeagueID:     req.LeagueID,
			RoundID:      req.RoundID,
			ExternalID:   req.ExternalID,
			HomeTeamID:   home,
			HomeTeamName: teamName(home, req.HomeTeamName),
			AwayTeamID:   away,
			AwayTeamName: teamName(away, req.AwayTeamName),
			KickoffAt:    kickoff.UTC(),
			Status:       leaguedomain.FixtureStatusScheduled,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.repo.CreateFixture(ctx, db, fixture); err != nil {
			return nil, fmt.Errorf("failed to create fixture: %w", err)
		}
		return fixture, nil
	})
}

// ListFixtures returns the fixtures of a round.
func (s *LeagueService) ListFixtures(ctx context.Context, leagueID, roundID uuid.UUID) ([]*leaguedb.Fixture, error) {
	return execute(s, ctx, "ListFixtures", roundID.String(), func(ctx context.Context, db bun.IDB) ([]*leaguedb.Fixture, error) {
		if _, err := s.loadRound(ctx, db, leagueID, roundID); err != nil {
			return nil, err
		}
		fixtures, err := s.repo.ListFixtures(ctx, db, leagueID, roundID)
		if err != nil {
			return nil, fmt.Errorf("failed to list fixtures: %w", err)
		}
		return fixtures, nil
	})
}

// RecordFixtureResult sets a fixture's status and score on behalf of the
// league owner.
func (s *LeagueService) RecordFixtureResult(ctx context.Context, req FixtureResultRequest) (*leaguedb.Fixture, error) {
	return execute(s, ctx, "RecordFixtureResult", req.FixtureID.String(), func(ctx context.Context, db bun.IDB) (*leaguedb.Fixture, error) {
		if _, err := s.authorizeOwner(ctx, db, req.LeagueID, req.CallerID); err != nil {
			return nil, err
		}
		return s.recordFixtureResultLogic(ctx, db, req)
	})
}

// RecordSystemFixtureResult is RecordFixtureResult for trusted result feeds.
// It skips the owner check; the round state gate still applies.
func (s *LeagueService) RecordSystemFixtureResult(ctx context.Context, req FixtureResultRequest) (*leaguedb.Fixture, error) {
	return execute(s, ctx, "RecordSystemFixtureResult", req.FixtureID.String(), func(ctx context.Context, db bun.IDB) (*leaguedb.Fixture, error) {
		if _, err := s.loadLeague(ctx, db, req.LeagueID); err != nil {
			return nil, err
		}
		return s.recordFixtureResultLogic(ctx, db, req)
	})
}

func (s *LeagueService) recordFixtureResultLogic(ctx context.Context, db bun.IDB, req FixtureResultRequest) (*leaguedb.Fixture, error) {
	status := req.Status
	if status == "" {
		status = leaguedomain.FixtureStatusFinished
	}
	if !status.IsValid() {
		return nil, invalid("status", fmt.Sprintf("unknown fixture status %q", status))
	}
	if status == leaguedomain.FixtureStatusFinished {
		if req.HomeScore == nil || req.AwayScore == nil {
			return nil, invalid("score", "homeScore and awayScore are required for a finished fixture")
		}
		if *req.HomeScore < 0 || *req.AwayScore < 0 {
			return nil, invalid("score", "scores cannot be negative")
		}
	}

	round, err := s.loadRound(ctx, db, req.LeagueID, req.RoundID)
	if err != nil {
		return nil, err
	}
	if _, err := round.Status.Apply(leaguedomain.RoundOpScoreFixture); err != nil {
		return nil, err
	}
	fixture, err := s.repo.GetFixture(ctx, db, req.LeagueID, req.RoundID, req.FixtureID)
	if err != nil {
		if errors.Is(err, leaguedb.ErrNotFound) {
			return nil, notFound("fixture", req.FixtureID.String())
		}
		return nil, fmt.Errorf("failed to get fixture: %w", err)
	}

	fixture.Status = status
	fixture.HomeScore, fixture.AwayScore = nil, nil
	if status == leaguedomain.FixtureStatusFinished {
		home, away := *req.HomeScore, *req.AwayScore
		fixture.HomeScore, fixture.AwayScore = &home, &away
	}
	if err := s.repo.UpdateFixtureResult(ctx, db, fixture); err != nil {
		return nil, fmt.Errorf("failed to update fixture result: %w", err)
	}
	return fixture, nil
}

func teamName(id, name string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	return "Team " + id
}
