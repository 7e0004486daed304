package leagueservice

import (
	"context"
	"fmt"
	"slices"

	leaguedomain "github.com/Black-And-White-Club/lastman/app/modules/league/domain"
	leaguedb "github.com/Black-And-White-Club/lastman/app/modules/league/infrastructure/repositories"
	"github.com/Black-And-White-Club/lastman/app/shared/attr"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// checkCompletion completes an active league once nobody is left standing.
// Winners are the participants eliminated by a loss in the highest numbered
// round. It is a no-op for leagues that cannot complete.
func (s *LeagueService) checkCompletion(ctx context.Context, db bun.IDB, league *leaguedb.League, box *outbox) (bool, []string, error) {
	if !league.Status.Allows(leaguedomain.LeagueOpComplete) {
		return false, nil, nil
	}
	participants, err := s.repo.ListParticipants(ctx, db, league.ID)
	if err != nil {
		return false, nil, fmt.Errorf("failed to list participants: %w", err)
	}
	if anyActive(participants) {
		return false, nil, nil
	}
	return s.completeLeague(ctx, db, league, participants, box)
}

func (s *LeagueService) completeLeague(ctx context.Context, db bun.IDB, league *leaguedb.League, participants []*leaguedb.Participant, box *outbox) (bool, []string, error) {
	next, err := league.Status.Apply(leaguedomain.LeagueOpComplete)
	if err != nil {
		return false, nil, err
	}
	won, err := s.finalWinners(ctx, db, league.ID, participants)
	if err != nil {
		return false, nil, err
	}
	if err := s.recordWinners(ctx, db, league.ID, won, box); err != nil {
		return false, nil, err
	}
	if err := s.repo.UpdateLeagueStatus(ctx, db, league.ID, next); err != nil {
		return false, nil, fmt.Errorf("failed to complete league: %w", err)
	}
	league.Status = next

	s.logger.InfoContext(ctx, "League completed",
		attr.LeagueID(league.ID),
		attr.Int("winners", len(won)),
	)
	return true, userIDs(won), nil
}

// reconcileCompletion brings league status and winner rows back in line
// with participant state after history was rewritten. A completed league
// with someone alive again is reopened and its winners retracted; a
// completed league whose final losers changed gets its winners replaced;
// an active league with nobody left is completed.
func (s *LeagueService) reconcileCompletion(ctx context.Context, db bun.IDB, league *leaguedb.League, box *outbox) (bool, error) {
	participants, err := s.repo.ListParticipants(ctx, db, league.ID)
	if err != nil {
		return false, fmt.Errorf("failed to list participants: %w", err)
	}
	active := anyActive(participants)

	switch {
	case league.Status == leaguedomain.LeagueStatusCompleted && active:
		next, err := league.Status.Apply(leaguedomain.LeagueOpReopen)
		if err != nil {
			return false, err
		}
		if err := s.repo.RetractWinners(ctx, db, league.ID); err != nil {
			return false, fmt.Errorf("failed to retract winners: %w", err)
		}
		if err := s.repo.UpdateLeagueStatus(ctx, db, league.ID, next); err != nil {
			return false, fmt.Errorf("failed to reopen league: %w", err)
		}
		league.Status = next
		s.logger.InfoContext(ctx, "League reopened", attr.LeagueID(league.ID))
		return false, nil

	case league.Status == leaguedomain.LeagueStatusCompleted:
		return true, s.refreshWinners(ctx, db, league, participants, box)

	case league.Status.Allows(leaguedomain.LeagueOpComplete) && !active:
		completed, _, err := s.completeLeague(ctx, db, league, participants, box)
		return completed, err
	}
	return false, nil
}

// refreshWinners replaces the winner rows of a completed league when the
// winning set changed.
func (s *LeagueService) refreshWinners(ctx context.Context, db bun.IDB, league *leaguedb.League, participants []*leaguedb.Participant, box *outbox) error {
	existing, err := s.repo.ListWinners(ctx, db, league.ID)
	if err != nil {
		return fmt.Errorf("failed to list winners: %w", err)
	}
	won, err := s.finalWinners(ctx, db, league.ID, participants)
	if err != nil {
		return err
	}

	had := make(map[string]struct{}, len(existing))
	for _, w := range existing {
		had[w.UserID] = struct{}{}
	}
	changed := len(existing) != len(won)
	for _, p := range won {
		if _, ok := had[p.UserID]; !ok {
			changed = true
		}
	}
	if !changed {
		return nil
	}

	if err := s.repo.RetractWinners(ctx, db, league.ID); err != nil {
		return fmt.Errorf("failed to retract winners: %w", err)
	}
	return s.recordWinners(ctx, db, league.ID, won, box)
}

// recordWinners stores won as the league's winners. Only users who never
// held a win in this league are notified, so a league that reopens and
// completes again does not congratulate the same user twice.
func (s *LeagueService) recordWinners(ctx context.Context, db bun.IDB, leagueID uuid.UUID, won []*leaguedb.Participant, box *outbox) error {
	awarded, err := s.repo.ListAwardedUserIDs(ctx, db, leagueID)
	if err != nil {
		return fmt.Errorf("failed to list awarded winners: %w", err)
	}
	if err := s.repo.CreateWinners(ctx, db, s.winnerRows(leagueID, won)); err != nil {
		return fmt.Errorf("failed to record winners: %w", err)
	}
	for _, p := range won {
		if !slices.Contains(awarded, p.UserID) {
			box.add(leaguedomain.Winner(leagueID, p.UserID))
		}
	}
	return nil
}

func (s *LeagueService) finalWinners(ctx context.Context, db bun.IDB, leagueID uuid.UUID, participants []*leaguedb.Participant) ([]*leaguedb.Participant, error) {
	lastRound, err := s.repo.MaxRoundNumber(ctx, db, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to get last round number: %w", err)
	}
	return winners(participants, lastRound), nil
}

func (s *LeagueService) winnerRows(leagueID uuid.UUID, won []*leaguedb.Participant) []*leaguedb.LeagueWinner {
	rows := make([]*leaguedb.LeagueWinner, 0, len(won))
	for _, p := range won {
		rows = append(rows, &leaguedb.LeagueWinner{
			ID:        uuid.New(),
			LeagueID:  leagueID,
			UserID:    p.UserID,
			CreatedAt: s.now(),
		})
	}
	return rows
}
