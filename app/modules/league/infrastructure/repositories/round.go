package leaguedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	leaguedomain "github.com/Black-And-White-Club/lastman/app/modules/league/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// CreateRound inserts a new round.
func (r *Impl) CreateRound(ctx context.Context, db bun.IDB, round *Round) error {
	db = r.resolveDB(db)
	if _, err := db.NewInsert().Model(round).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create round: %w", err)
	}
	return nil
}

// GetRound retrieves a round of a league.
func (r *Impl) GetRound(ctx context.Context, db bun.IDB, leagueID, roundID uuid.UUID) (*Round, error) {
	return r.getRound(ctx, db, leagueID, roundID, "")
}

func (r *Impl) GetRoundForShare(ctx context.Context, db bun.IDB, leagueID, roundID uuid.UUID) (*Round, error) {
	return r.getRound(ctx, db, leagueID, roundID, "SHARE")
}

func (r *Impl) getRound(ctx context.Context, db bun.IDB, leagueID, roundID uuid.UUID, lock string) (*Round, error) {
	db = r.resolveDB(db)
	round := new(Round)
	q := db.NewSelect().
		Model(round).
		Where("id = ?", roundID).
		Where("league_id = ?", leagueID)
	if lock != "" {
		q = q.For(lock)
	}
	if err := q.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get round: %w", err)
	}
	return round, nil
}

// ListRounds returns the league's rounds ordered by number.
func (r *Impl) ListRounds(ctx context.Context, db bun.IDB, leagueID uuid.UUID) ([]*Round, error) {
	db = r.resolveDB(db)
	var rounds []*Round
	err := db.NewSelect().
		Model(&rounds).
		Where("league_id = ?", leagueID).
		Order("number ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rounds: %w", err)
	}
	return rounds, nil
}

// MaxRoundNumber returns the highest round number of the league, 0 if none.
func (r *Impl) MaxRoundNumber(ctx context.Context, db bun.IDB, leagueID uuid.UUID) (int, error) {
	db = r.resolveDB(db)
	var maxNumber sql.NullInt64
	err := db.NewSelect().
		Model((*Round)(nil)).
		ColumnExpr("MAX(number)").
		Where("league_id = ?", leagueID).
		Scan(ctx, &maxNumber)
	if err != nil {
		return 0, fmt.Errorf("failed to get max round number: %w", err)
	}
	if !maxNumber.Valid {
		return 0, nil
	}
	return int(maxNumber.Int64), nil
}

// UpdateRoundStatus performs a compare-and-set on the round status.
func (r *Impl) UpdateRoundStatus(ctx context.Context, db bun.IDB, leagueID, roundID uuid.UUID, from, to leaguedomain.RoundStatus) error {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model((*Round)(nil)).
		Set("status = ?", to).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", roundID).
		Where("league_id = ?", leagueID).
		Where("status = ?", from).
		Exec(ctx)
	return checkAffected(result, err, "update round status")
}
