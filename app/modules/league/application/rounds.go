package leagueservice

import (
	"context"
	"errors"
	"fmt"

	leaguedomain "github.com/Black-And-White-Club/lastman/app/modules/league/domain"
	leaguedb "github.com/Black-And-White-Club/lastman/app/modules/league/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// LockRound closes a round to new picks and eliminates every active
// participant who did not pick.
func (s *LeagueService) LockRound(ctx context.Context, leagueID, roundID uuid.UUID, callerID string) (*LockRoundResult, error) {
	box := &outbox{}
	res, err := execute(s, ctx, "LockRound", roundID.String(), func(ctx context.Context, db bun.IDB) (*LockRoundResult, error) {
		return s.lockRoundLogic(ctx, db, leagueID, roundID, callerID, box)
	})
	if err != nil {
		return nil, err
	}
	s.dispatch(ctx, "LockRound", box)
	return res, nil
}

func (s *LeagueService) lockRoundLogic(ctx context.Context, db bun.IDB, leagueID, roundID uuid.UUID, callerID string, box *outbox) (*LockRoundResult, error) {
	league, err := s.authorizeOwner(ctx, db, leagueID, callerID)
	if err != nil {
		return nil, err
	}
	round, err := s.transitionRound(ctx, db, leagueID, roundID, leaguedomain.RoundOpLock)
	if err != nil {
		return nil, err
	}

	active, err := s.repo.ListActiveParticipants(ctx, db, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active participants: %w", err)
	}
	selections, err := s.repo.ListSelections(ctx, db, leagueID, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to list selections: %w", err)
	}

	eliminated := []string{}
	for _, p := range unpicked(active, selections) {
		p.Eliminate(round.Number, leaguedomain.EliminationReasonNoPick)
		if err := s.repo.UpdateParticipant(ctx, db, p); err != nil {
			return nil, fmt.Errorf("failed to eliminate participant %s: %w", p.UserID, err)
		}
		box.add(leaguedomain.NoPickElimination(leagueID, p.UserID))
		eliminated = append(eliminated, p.UserID)
	}

	completed, _, err := s.checkCompletion(ctx, db, league, box)
	if err != nil {
		return nil, err
	}

	return &LockRoundResult{
		RoundID:           roundID,
		Status:            round.Status,
		EliminatedUserIDs: eliminated,
		LeagueCompleted:   completed,
	}, nil
}

// ValidateRound applies the finished fixtures of a locked round and
// eliminates every participant whose pick did not win.
func (s *LeagueService) ValidateRound(ctx context.Context, leagueID, roundID uuid.UUID, callerID string) (*ValidateRoundResult, error) {
	box := &outbox{}
	res, err := execute(s, ctx, "ValidateRound", roundID.String(), func(ctx context.Context, db bun.IDB) (*ValidateRoundResult, error) {
		return s.validateRoundLogic(ctx, db, leagueID, roundID, callerID, box)
	})
	if err != nil {
		return nil, err
	}
	s.dispatch(ctx, "ValidateRound", box)
	return res, nil
}

func (s *LeagueService) validateRoundLogic(ctx context.Context, db bun.IDB, leagueID, roundID uuid.UUID, callerID string, box *outbox) (*ValidateRoundResult, error) {
	league, err := s.authorizeOwner(ctx, db, leagueID, callerID)
	if err != nil {
		return nil, err
	}
	round, err := s.transitionRound(ctx, db, leagueID, roundID, leaguedomain.RoundOpValidate)
	if err != nil {
		return nil, err
	}

	out := &ValidateRoundResult{RoundID: roundID, Status: round.Status, EliminatedUserIDs: []string{}}
	if err := s.applyRoundResults(ctx, db, round, out, box); err != nil {
		return nil, err
	}

	completed, winnerIDs, err := s.checkCompletion(ctx, db, league, box)
	if err != nil {
		return nil, err
	}
	out.LeagueCompleted = completed
	out.WinnerUserIDs = winnerIDs
	return out, nil
}

// transitionRound applies op to the round's status with a compare-and-set
// write. Losing a race to a concurrent transition is reported like any
// other disallowed transition.
func (s *LeagueService) transitionRound(ctx context.Context, db bun.IDB, leagueID, roundID uuid.UUID, op leaguedomain.RoundOperation) (*leaguedb.Round, error) {
	round, err := s.loadRound(ctx, db, leagueID, roundID)
	if err != nil {
		return nil, err
	}
	next, err := round.Status.Apply(op)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateRoundStatus(ctx, db, leagueID, roundID, round.Status, next); err != nil {
		if errors.Is(err, leaguedb.ErrNoRowsAffected) {
			return nil, &leaguedomain.TransitionError{From: string(round.Status), Operation: string(op)}
		}
		return nil, fmt.Errorf("failed to update round status: %w", err)
	}
	round.Status = next
	return round, nil
}

// applyRoundResults resolves every selection of round whose fixture is
// finished and eliminates the losers. Selections on unfinished fixtures stay
// pending.
func (s *LeagueService) applyRoundResults(ctx context.Context, db bun.IDB, round *leaguedb.Round, out *ValidateRoundResult, box *outbox) error {
	selections, err := s.repo.ListSelections(ctx, db, round.LeagueID, round.ID)
	if err != nil {
		return fmt.Errorf("failed to list selections: %w", err)
	}
	fixtures, err := s.repo.ListFixtures(ctx, db, round.LeagueID, round.ID)
	if err != nil {
		return fmt.Errorf("failed to list fixtures: %w", err)
	}
	overrides, err := s.repo.ListOverrides(ctx, db, round.LeagueID, round.ID)
	if err != nil {
		return fmt.Errorf("failed to list overrides: %w", err)
	}
	participants, err := s.repo.ListParticipants(ctx, db, round.LeagueID)
	if err != nil {
		return fmt.Errorf("failed to list participants: %w", err)
	}

	fixtureByID := indexFixtures(fixtures)
	overrideBySelection := indexOverrides(overrides)
	participantByUser := indexParticipants(participants)

	for _, sel := range selections {
		out.ProcessedSelections++

		result := resolveSelection(sel, fixtureByID[sel.FixtureID], overrideBySelection[sel.ID])
		if result == nil {
			continue
		}
		if err := s.repo.UpdateSelectionResult(ctx, db, sel.ID, result); err != nil {
			return fmt.Errorf("failed to update selection result: %w", err)
		}
		sel.Result = result

		if !result.Eliminates() {
			continue
		}
		p, ok := participantByUser[sel.UserID]
		if !ok || p.Eliminated {
			continue
		}
		p.Eliminate(round.Number, leaguedomain.EliminationReasonLoss)
		if err := s.repo.UpdateParticipant(ctx, db, p); err != nil {
			return fmt.Errorf("failed to eliminate participant %s: %w", p.UserID, err)
		}
		box.add(leaguedomain.ResultElimination(round.LeagueID, p.UserID, *result))
		out.EliminatedCount++
		out.EliminatedUserIDs = append(out.EliminatedUserIDs, p.UserID)
	}
	return nil
}
