package leaguedb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// CreateWinners records the winners of a league. A user whose earlier win
// was retracted gets the same row back.
func (r *Impl) CreateWinners(ctx context.Context, db bun.IDB, winners []*LeagueWinner) error {
	if len(winners) == 0 {
		return nil
	}
	db = r.resolveDB(db)
	_, err := db.NewInsert().
		Model(&winners).
		On("CONFLICT (league_id, user_id) DO UPDATE").
		Set("retracted_at = NULL").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create winners: %w", err)
	}
	return nil
}

// ListWinners returns the current winners of a league.
func (r *Impl) ListWinners(ctx context.Context, db bun.IDB, leagueID uuid.UUID) ([]*LeagueWinner, error) {
	db = r.resolveDB(db)
	var winners []*LeagueWinner
	err := db.NewSelect().
		Model(&winners).
		Where("league_id = ?", leagueID).
		Where("retracted_at IS NULL").
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list winners: %w", err)
	}
	return winners, nil
}

// ListAwardedUserIDs returns every user that has held a win in the league.
func (r *Impl) ListAwardedUserIDs(ctx context.Context, db bun.IDB, leagueID uuid.UUID) ([]string, error) {
	db = r.resolveDB(db)
	var userIDs []string
	err := db.NewSelect().
		Model((*LeagueWinner)(nil)).
		Column("user_id").
		Where("league_id = ?", leagueID).
		Scan(ctx, &userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list awarded winners: %w", err)
	}
	return userIDs, nil
}

// RetractWinners withdraws every current winner of a league.
func (r *Impl) RetractWinners(ctx context.Context, db bun.IDB, leagueID uuid.UUID) error {
	db = r.resolveDB(db)
	_, err := db.NewUpdate().
		Model((*LeagueWinner)(nil)).
		Set("retracted_at = ?", time.Now().UTC()).
		Where("league_id = ?", leagueID).
		Where("retracted_at IS NULL").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to retract winners: %w", err)
	}
	return nil
}
