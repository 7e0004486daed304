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

// OverrideSelectionResult records an admin override for a selection. On a
// validated round the owner's elimination state is recalculated at once;
// otherwise the next validation picks the override up.
func (s *LeagueService) OverrideSelectionResult(ctx context.Context, req OverrideRequest) (*OverrideResult, error) {
	box := &outbox{}
	res, err := execute(s, ctx, "OverrideSelectionResult", req.SelectionID.String(), func(ctx context.Context, db bun.IDB) (*OverrideResult, error) {
		return s.overrideLogic(ctx, db, req, box)
	})
	if err != nil {
		return nil, err
	}
	s.dispatch(ctx, "OverrideSelectionResult", box)
	return res, nil
}

func (s *LeagueService) overrideLogic(ctx context.Context, db bun.IDB, req OverrideRequest, box *outbox) (*OverrideResult, error) {
	if !req.Result.IsValid() {
		return nil, invalid("overrideResult", "must be WIN, LOSS or DRAW")
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, invalid("reason", "is required")
	}

	league, err := s.authorizeOwner(ctx, db, req.LeagueID, req.CallerID)
	if err != nil {
		return nil, err
	}
	if _, err := league.Status.Apply(leaguedomain.LeagueOpOverride); err != nil {
		return nil, err
	}
	round, err := s.loadRound(ctx, db, req.LeagueID, req.RoundID)
	if err != nil {
		return nil, err
	}
	sel, err := s.repo.GetSelection(ctx, db, req.LeagueID, req.RoundID, req.SelectionID)
	if err != nil {
		if errors.Is(err, leaguedb.ErrNotFound) {
			return nil, notFound("selection", req.SelectionID.String())
		}
		return nil, fmt.Errorf("failed to get selection: %w", err)
	}
	if round.Status == leaguedomain.RoundStatusValidated {
		fixture, err := s.repo.GetFixture(ctx, db, sel.LeagueID, sel.RoundID, sel.FixtureID)
		if err != nil && !errors.Is(err, leaguedb.ErrNotFound) {
			return nil, fmt.Errorf("failed to get fixture: %w", err)
		}
		// A pending pick stays unresolved in a validated round, so an
		// override on it would never be applied.
		if fixture == nil || !fixture.Finished() {
			return nil, invalid("selectionId", "fixture has no final result")
		}
	}

	override := &leaguedb.AdminOverride{
		ID:             uuid.New(),
		LeagueID:       req.LeagueID,
		RoundID:        req.RoundID,
		SelectionID:    sel.ID,
		UserID:         sel.UserID,
		OriginalResult: sel.Result,
		OverrideResult: req.Result,
		Reason:         reason,
		CreatedBy:      req.CallerID,
		CreatedAt:      s.now(),
	}
	if err := s.repo.CreateOverride(ctx, db, override); err != nil {
		return nil, fmt.Errorf("failed to create override: %w", err)
	}

	out := &OverrideResult{Override: override}
	if round.Status != leaguedomain.RoundStatusValidated {
		return out, nil
	}

	participant, err := s.recalculateForUser(ctx, db, league, sel.UserID)
	if err != nil {
		return nil, err
	}
	if _, err := s.reconcileCompletion(ctx, db, league, box); err != nil {
		return nil, err
	}
	out.Recalculated = true
	out.Participant = participant
	return out, nil
}

// ReverseOverride deletes an override and replays the affected user's
// history without it.
func (s *LeagueService) ReverseOverride(ctx context.Context, leagueID, roundID, overrideID uuid.UUID, callerID string) (*ReverseOverrideResult, error) {
	box := &outbox{}
	res, err := execute(s, ctx, "ReverseOverride", overrideID.String(), func(ctx context.Context, db bun.IDB) (*ReverseOverrideResult, error) {
		return s.reverseOverrideLogic(ctx, db, leagueID, roundID, overrideID, callerID, box)
	})
	if err != nil {
		return nil, err
	}
	s.dispatch(ctx, "ReverseOverride", box)
	return res, nil
}

func (s *LeagueService) reverseOverrideLogic(ctx context.Context, db bun.IDB, leagueID, roundID, overrideID uuid.UUID, callerID string, box *outbox) (*ReverseOverrideResult, error) {
	league, err := s.authorizeOwner(ctx, db, leagueID, callerID)
	if err != nil {
		return nil, err
	}
	if _, err := league.Status.Apply(leaguedomain.LeagueOpOverride); err != nil {
		return nil, err
	}
	override, err := s.repo.GetOverride(ctx, db, leagueID, roundID, overrideID)
	if err != nil {
		if errors.Is(err, leaguedb.ErrNotFound) {
			return nil, notFound("override", overrideID.String())
		}
		return nil, fmt.Errorf("failed to get override: %w", err)
	}
	if err := s.repo.DeleteOverride(ctx, db, override.ID); err != nil {
		if errors.Is(err, leaguedb.ErrNoRowsAffected) {
			return nil, notFound("override", overrideID.String())
		}
		return nil, fmt.Errorf("failed to delete override: %w", err)
	}

	participant, err := s.recalculateForUser(ctx, db, league, override.UserID)
	if err != nil {
		return nil, err
	}
	if _, err := s.reconcileCompletion(ctx, db, league, box); err != nil {
		return nil, err
	}
	return &ReverseOverrideResult{OverrideID: override.ID, Participant: participant}, nil
}

// recalculateForUser re-resolves the user's picks in every validated round,
// persists any result that changed, and rewrites the participant's
// elimination state to match. It can eliminate or reinstate.
func (s *LeagueService) recalculateForUser(ctx context.Context, db bun.IDB, league *leaguedb.League, userID string) (*leaguedb.Participant, error) {
	participant, err := s.loadParticipant(ctx, db, league.ID, userID)
	if err != nil {
		return nil, err
	}
	rounds, err := s.repo.ListRounds(ctx, db, league.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rounds: %w", err)
	}
	selections, err := s.repo.ListUserSelections(ctx, db, league.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user selections: %w", err)
	}
	selectionByRound := make(map[uuid.UUID]*leaguedb.Selection, len(selections))
	for _, sel := range selections {
		selectionByRound[sel.RoundID] = sel
	}

	resultByRound := make(map[uuid.UUID]*leaguedomain.Result, len(rounds))
	for _, round := range rounds {
		sel, ok := selectionByRound[round.ID]
		if !ok || round.Status != leaguedomain.RoundStatusValidated {
			continue
		}
		result, err := s.effectiveResult(ctx, db, sel)
		if err != nil {
			return nil, err
		}
		if !sameResult(result, sel.Result) {
			if err := s.repo.UpdateSelectionResult(ctx, db, sel.ID, result); err != nil {
				return nil, fmt.Errorf("failed to update selection result: %w", err)
			}
			sel.Result = result
		}
		resultByRound[round.ID] = result
	}

	before := eliminationOf(participant)
	after := replay(before, rounds, resultByRound)
	if after != before {
		after.applyTo(participant)
		if err := s.repo.UpdateParticipant(ctx, db, participant); err != nil {
			return nil, fmt.Errorf("failed to update participant: %w", err)
		}
	}
	return participant, nil
}

func (s *LeagueService) effectiveResult(ctx context.Context, db bun.IDB, sel *leaguedb.Selection) (*leaguedomain.Result, error) {
	fixture, err := s.repo.GetFixture(ctx, db, sel.LeagueID, sel.RoundID, sel.FixtureID)
	if err != nil {
		if !errors.Is(err, leaguedb.ErrNotFound) {
			return nil, fmt.Errorf("failed to get fixture: %w", err)
		}
		fixture = nil
	}
	override, err := s.repo.GetOverrideBySelection(ctx, db, sel.ID)
	if err != nil {
		if !errors.Is(err, leaguedb.ErrNotFound) {
			return nil, fmt.Errorf("failed to get override: %w", err)
		}
		override = nil
	}
	return resolveSelection(sel, fixture, override), nil
}

// ManuallyEliminateParticipant knocks a participant out at roundNumber,
// overwriting any earlier elimination.
func (s *LeagueService) ManuallyEliminateParticipant(ctx context.Context, leagueID, participantID uuid.UUID, roundNumber int, callerID string) (*ManualEliminationResult, error) {
	box := &outbox{}
	res, err := execute(s, ctx, "ManuallyEliminateParticipant", participantID.String(), func(ctx context.Context, db bun.IDB) (*ManualEliminationResult, error) {
		return s.manualEliminationLogic(ctx, db, leagueID, participantID, roundNumber, callerID, box)
	})
	if err != nil {
		return nil, err
	}
	s.dispatch(ctx, "ManuallyEliminateParticipant", box)
	return res, nil
}

func (s *LeagueService) manualEliminationLogic(ctx context.Context, db bun.IDB, leagueID, participantID uuid.UUID, roundNumber int, callerID string, box *outbox) (*ManualEliminationResult, error) {
	if roundNumber < 1 {
		return nil, invalid("roundNumber", "must be at least 1")
	}
	league, err := s.authorizeOwner(ctx, db, leagueID, callerID)
	if err != nil {
		return nil, err
	}
	if _, err := league.Status.Apply(leaguedomain.LeagueOpEliminate); err != nil {
		return nil, err
	}
	participant, err := s.repo.GetParticipantByID(ctx, db, leagueID, participantID)
	if err != nil {
		if errors.Is(err, leaguedb.ErrNotFound) {
			return nil, notFound("participant", participantID.String())
		}
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}

	participant.Eliminate(roundNumber, leaguedomain.EliminationReasonAdmin)
	if err := s.repo.UpdateParticipant(ctx, db, participant); err != nil {
		return nil, fmt.Errorf("failed to eliminate participant: %w", err)
	}
	box.add(leaguedomain.AdminElimination(leagueID, participant.UserID, roundNumber))

	completed, err := s.reconcileCompletion(ctx, db, league, box)
	if err != nil {
		return nil, err
	}
	return &ManualEliminationResult{Participant: participant, LeagueCompleted: completed}, nil
}
