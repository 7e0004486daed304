package leagueservice

import (
	"context"
	"errors"
	"fmt"

	leaguedb "github.com/Black-And-White-Club/lastman/app/modules/league/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func (s *LeagueService) loadLeague(ctx context.Context, db bun.IDB, leagueID uuid.UUID) (*leaguedb.League, error) {
	league, err := s.repo.GetLeague(ctx, db, leagueID)
	if err != nil {
		if errors.Is(err, leaguedb.ErrNotFound) {
			return nil, notFound("league", leagueID.String())
		}
		return nil, fmt.Errorf("failed to get league: %w", err)
	}
	return league, nil
}

// authorizeOwner loads the league and checks that callerID owns it.
func (s *LeagueService) authorizeOwner(ctx context.Context, db bun.IDB, leagueID uuid.UUID, callerID string) (*leaguedb.League, error) {
	if callerID == "" {
		return nil, ErrUnauthenticated
	}
	league, err := s.loadLeague(ctx, db, leagueID)
	if err != nil {
		return nil, err
	}
	if league.OwnerID != callerID {
		return nil, fmt.Errorf("%w: only the league owner can do this", ErrPermissionDenied)
	}
	return league, nil
}

func (s *LeagueService) loadRound(ctx context.Context, db bun.IDB, leagueID, roundID uuid.UUID) (*leaguedb.Round, error) {
	round, err := s.repo.GetRound(ctx, db, leagueID, roundID)
	if err != nil {
		if errors.Is(err, leaguedb.ErrNotFound) {
			return nil, notFound("round", roundID.String())
		}
		return nil, fmt.Errorf("failed to get round: %w", err)
	}
	return round, nil
}

func (s *LeagueService) loadParticipant(ctx context.Context, db bun.IDB, leagueID uuid.UUID, userID string) (*leaguedb.Participant, error) {
	participant, err := s.repo.GetParticipant(ctx, db, leagueID, userID)
	if err != nil {
		if errors.Is(err, leaguedb.ErrNotFound) {
			return nil, notFound("participant", userID)
		}
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	return participant, nil
}
