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
	"github.com/gosimple/slug"
	"github.com/uptrace/bun"
)

// CreateLeague opens a new league owned by the caller. The owner does not
// join as a participant.
func (s *LeagueService) CreateLeague(ctx context.Context, req CreateLeagueRequest) (*leaguedb.League, error) {
	return execute(s, ctx, "CreateLeague", req.Name, func(ctx context.Context, db bun.IDB) (*leaguedb.League, error) {
		if req.OwnerID == "" {
			return nil, ErrUnauthenticated
		}
		name := strings.TrimSpace(req.Name)
		if name == "" {
			return nil, invalid("name", "is required")
		}
		tz := req.TimeZone
		if tz == "" {
			tz = "UTC"
		}
		if _, err := time.LoadLocation(tz); err != nil {
			return nil, invalid("timeZone", fmt.Sprintf("unknown time zone %q", tz))
		}

		now := s.now()
		league := &leaguedb.League{
			ID:              uuid.New(),
			OwnerID:         req.OwnerID,
			Name:            name,
			Description:     strings.TrimSpace(req.Description),
			Status:          leaguedomain.LeagueStatusActive,
			TimeZone:        tz,
			LeagueCode:      leagueCode(name),
			CompetitionCode: req.CompetitionCode,
			CompetitionName: req.CompetitionName,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := s.repo.CreateLeague(ctx, db, league); err != nil {
			return nil, fmt.Errorf("failed to create league: %w", err)
		}
		return league, nil
	})
}

// leagueCode is the invite code: the slugged name plus a random suffix.
func leagueCode(name string) string {
	base := slug.Make(name)
	if base == "" {
		base = "league"
	}
	return base + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
}

// GetLeague returns a league by id.
func (s *LeagueService) GetLeague(ctx context.Context, leagueID uuid.UUID) (*leaguedb.League, error) {
	return execute(s, ctx, "GetLeague", leagueID.String(), func(ctx context.Context, db bun.IDB) (*leaguedb.League, error) {
		return s.loadLeague(ctx, db, leagueID)
	})
}

// JoinLeague adds the user to the league behind an invite code. Joining
// twice returns the existing membership.
func (s *LeagueService) JoinLeague(ctx context.Context, req JoinLeagueRequest) (*leaguedb.Participant, error) {
	return execute(s, ctx, "JoinLeague", req.LeagueCode, func(ctx context.Context, db bun.IDB) (*leaguedb.Participant, error) {
		if req.UserID == "" {
			return nil, ErrUnauthenticated
		}
		code := strings.TrimSpace(req.LeagueCode)
		if code == "" {
			return nil, invalid("leagueCode", "is required")
		}

		league, err := s.repo.GetLeagueByCode(ctx, db, code)
		if err != nil {
			if errors.Is(err, leaguedb.ErrNotFound) {
				return nil, notFound("league", code)
			}
			return nil, fmt.Errorf("failed to get league by code: %w", err)
		}
		if league.BlockInviteJoin {
			return nil, fmt.Errorf("%w: league is not accepting invite joins", ErrPermissionDenied)
		}

		existing, err := s.repo.GetParticipant(ctx, db, league.ID, req.UserID)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, leaguedb.ErrNotFound) {
			return nil, fmt.Errorf("failed to get participant: %w", err)
		}
		if !league.Status.Allows(leaguedomain.LeagueOpJoin) {
			return nil, invalid("leagueCode", fmt.Sprintf("league is %s", league.Status))
		}

		participant := &leaguedb.Participant{
			ID:          uuid.New(),
			LeagueID:    league.ID,
			UserID:      req.UserID,
			DisplayName: strings.TrimSpace(req.DisplayName),
			Email:       strings.TrimSpace(req.Email),
			JoinedAt:    s.now(),
		}
		if err := s.repo.CreateParticipant(ctx, db, participant); err != nil {
			return nil, fmt.Errorf("failed to create participant: %w", err)
		}
		return participant, nil
	})
}

// ListParticipants returns every participant of a league.
func (s *LeagueService) ListParticipants(ctx context.Context, leagueID uuid.UUID) ([]*leaguedb.Participant, error) {
	return execute(s, ctx, "ListParticipants", leagueID.String(), func(ctx context.Context, db bun.IDB) ([]*leaguedb.Participant, error) {
		if _, err := s.loadLeague(ctx, db, leagueID); err != nil {
			return nil, err
		}
		participants, err := s.repo.ListParticipants(ctx, db, leagueID)
		if err != nil {
			return nil, fmt.Errorf("failed to list participants: %w", err)
		}
		return participants, nil
	})
}

// ListWinners returns the recorded winners of a league.
func (s *LeagueService) ListWinners(ctx context.Context, leagueID uuid.UUID) ([]*leaguedb.LeagueWinner, error) {
	return execute(s, ctx, "ListWinners", leagueID.String(), func(ctx context.Context, db bun.IDB) ([]*leaguedb.LeagueWinner, error) {
		if _, err := s.loadLeague(ctx, db, leagueID); err != nil {
			return nil, err
		}
		rows, err := s.repo.ListWinners(ctx, db, leagueID)
		if err != nil {
			return nil, fmt.Errorf("failed to list winners: %w", err)
		}
		return rows, nil
	})
}
