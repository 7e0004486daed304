package leagueservice

import (
	"context"
	"fmt"

	leaguedb "github.com/Black-And-White-Club/lastman/app/modules/league/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// GetStandings assembles the league's rounds, survivor counts and every
// participant's picks.
func (s *LeagueService) GetStandings(ctx context.Context, leagueID uuid.UUID) (*Standings, error) {
	return execute(s, ctx, "GetStandings", leagueID.String(), func(ctx context.Context, db bun.IDB) (*Standings, error) {
		league, err := s.loadLeague(ctx, db, leagueID)
		if err != nil {
			return nil, err
		}
		rounds, err := s.repo.ListRounds(ctx, db, leagueID)
		if err != nil {
			return nil, fmt.Errorf("failed to list rounds: %w", err)
		}
		participants, err := s.repo.ListParticipants(ctx, db, leagueID)
		if err != nil {
			return nil, fmt.Errorf("failed to list participants: %w", err)
		}
		selections, err := s.repo.ListLeagueSelections(ctx, db, leagueID)
		if err != nil {
			return nil, fmt.Errorf("failed to list league selections: %w", err)
		}
		won, err := s.repo.ListWinners(ctx, db, leagueID)
		if err != nil {
			return nil, fmt.Errorf("failed to list winners: %w", err)
		}
		return buildStandings(league, rounds, participants, selections, won), nil
	})
}

func buildStandings(
	league *leaguedb.League,
	rounds []*leaguedb.Round,
	participants []*leaguedb.Participant,
	selections []*leaguedb.Selection,
	won []*leaguedb.LeagueWinner,
) *Standings {
	numberOf := make(map[uuid.UUID]int, len(rounds))
	picksPerRound := make(map[uuid.UUID]int, len(rounds))
	for _, r := range rounds {
		numberOf[r.ID] = r.Number
	}

	rows := make([]ParticipantStanding, 0, len(participants))
	index := make(map[string]int, len(participants))
	for _, p := range participants {
		index[p.UserID] = len(rows)
		rows = append(rows, ParticipantStanding{
			UserID:            p.UserID,
			DisplayName:       p.DisplayName,
			Eliminated:        p.Eliminated,
			EliminatedAtRound: p.EliminatedAtRound,
			EliminatedReason:  p.EliminatedReason,
			Picks:             map[int]Pick{},
		})
	}
	for _, sel := range selections {
		number, ok := numberOf[sel.RoundID]
		if !ok {
			continue
		}
		picksPerRound[sel.RoundID]++
		if i, ok := index[sel.UserID]; ok {
			rows[i].Picks[number] = Pick{
				TeamID:   sel.SelectedTeamID,
				TeamName: sel.SelectedTeamName,
				Result:   sel.Result,
			}
		}
	}

	standingRounds := make([]RoundStanding, 0, len(rounds))
	for _, r := range rounds {
		standingRounds = append(standingRounds, RoundStanding{
			RoundID:   r.ID,
			Number:    r.Number,
			Status:    r.Status,
			Picks:     picksPerRound[r.ID],
			Survivors: survivorsAfter(participants, r.Number),
		})
	}

	winnerIDs := make([]string, 0, len(won))
	for _, w := range won {
		winnerIDs = append(winnerIDs, w.UserID)
	}

	return &Standings{
		League:       league,
		Rounds:       standingRounds,
		Participants: rows,
		Winners:      winnerIDs,
	}
}
