package leagueservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	leaguedomain "github.com/Black-And-White-Club/lastman/app/modules/league/domain"
	leaguedb "github.com/Black-And-White-Club/lastman/app/modules/league/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// CreateSelection records the caller's pick for an open round. Each
// participant picks at most once per round.
func (s *LeagueService) CreateSelection(ctx context.Context, req CreateSelectionRequest) (*leaguedb.Selection, error) {
	return execute(s, ctx, "CreateSelection", req.RoundID.String(), func(ctx context.Context, db bun.IDB) (*leaguedb.Selection, error) {
		return s.createSelectionLogic(ctx, db, req)
	})
}

func (s *LeagueService) createSelectionLogic(ctx context.Context, db bun.IDB, req CreateSelectionRequest) (*leaguedb.Selection, error) {
	if req.UserID == "" {
		return nil, ErrUnauthenticated
	}
	teamID := strings.TrimSpace(req.SelectedTeamID)
	if teamID == "" || req.FixtureID == uuid.Nil {
		return nil, invalid("selection", "userId, selectedTeamId, and fixtureId are required")
	}

	// The share lock keeps LockRound from closing the round before this pick
	// commits.
	round, err := s.repo.GetRoundForShare(ctx, db, req.LeagueID, req.RoundID)
	if err != nil {
		if errors.Is(err, leaguedb.ErrNotFound) {
			return nil, notFound("round", req.RoundID.String())
		}
		return nil, fmt.Errorf("failed to get round: %w", err)
	}
	if _, err := round.Status.Apply(leaguedomain.RoundOpSelect); err != nil {
		return nil, err
	}

	participant, err := s.loadParticipant(ctx, db, req.LeagueID, req.UserID)
	if err != nil {
		return nil, err
	}
	if participant.Eliminated {
		return nil, ErrEliminatedParticipant
	}

	fixture, err := s.repo.GetFixture(ctx, db, req.LeagueID, req.RoundID, req.FixtureID)
	if err != nil {
		if errors.Is(err, leaguedb.ErrNotFound) {
			return nil, notFound("fixture", req.FixtureID.String())
		}
		return nil, fmt.Errorf("failed to get fixture: %w", err)
	}
	if !fixture.HasTeam(teamID) {
		return nil, invalid("selectedTeamId", "team does not play in this fixture")
	}

	existing, err := s.repo.ListUserSelections(ctx, db, req.LeagueID, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user selections: %w", err)
	}
	for _, sel := range existing {
		if sel.RoundID == req.RoundID {
			return nil, ErrDuplicateSelection
		}
	}

	now := s.now()
	selection := &leaguedb.Selection{
		ID:               uuid.New(),
		LeagueID:         req.LeagueID,
		RoundID:          req.RoundID,
		UserID:           req.UserID,
		SelectedTeamID:   teamID,
		SelectedTeamName: teamName(teamID, req.TeamName),
		FixtureID:        fixture.ID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.CreateSelection(ctx, db, selection); err != nil {
		if errors.Is(err, leaguedb.ErrDuplicateSelection) {
			return nil, ErrDuplicateSelection
		}
		return nil, fmt.Errorf("failed to create selection: %w", err)
	}
	return selection, nil
}

// ListSelections returns the selections made in a round.
func (s *LeagueService) ListSelections(ctx context.Context, leagueID, roundID uuid.UUID) ([]*leaguedb.Selection, error) {
	return execute(s, ctx, "ListSelections", roundID.String(), func(ctx context.Context, db bun.IDB) ([]*leaguedb.Selection, error) {
		if _, err := s.loadRound(ctx, db, leagueID, roundID); err != nil {
			return nil, err
		}
		selections, err := s.repo.ListSelections(ctx, db, leagueID, roundID)
		if err != nil {
			return nil, fmt.Errorf("failed to list selections: %w", err)
		}
		return selections, nil
	})
}

// ListUserSelections returns a user's picks across the league.
func (s *LeagueService) ListUserSelections(ctx context.Context, leagueID uuid.UUID, userID string) ([]*leaguedb.Selection, error) {
	return execute(s, ctx, "ListUserSelections", userID, func(ctx context.Context, db bun.IDB) ([]*leaguedb.Selection, error) {
		if userID == "" {
			return nil, ErrUnauthenticated
		}
		selections, err := s.repo.ListUserSelections(ctx, db, leagueID, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to list user selections: %w", err)
		}
		return selections, nil
	})
}
