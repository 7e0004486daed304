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

// CreateSelection inserts a selection. The (round_id, user_id) unique index
// turns a concurrent second pick into ErrDuplicateSelection.
func (r *Impl) CreateSelection(ctx context.Context, db bun.IDB, selection *Selection) error {
	db = r.resolveDB(db)
	if _, err := db.NewInsert().Model(selection).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateSelection
		}
		return fmt.Errorf("failed to create selection: %w", err)
	}
	return nil
}

// GetSelection retrieves a selection of a round.
func (r *Impl) GetSelection(ctx context.Context, db bun.IDB, leagueID, roundID, selectionID uuid.UUID) (*Selection, error) {
	db = r.resolveDB(db)
	selection := new(Selection)
	err := db.NewSelect().
		Model(selection).
		Where("id = ?", selectionID).
		Where("league_id = ?", leagueID).
		Where("round_id = ?", roundID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get selection: %w", err)
	}
	return selection, nil
}

// ListSelections returns the selections of a round.
func (r *Impl) ListSelections(ctx context.Context, db bun.IDB, leagueID, roundID uuid.UUID) ([]*Selection, error) {
	db = r.resolveDB(db)
	var selections []*Selection
	err := db.NewSelect().
		Model(&selections).
		Where("league_id = ?", leagueID).
		Where("round_id = ?", roundID).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list selections: %w", err)
	}
	return selections, nil
}

// ListUserSelections returns the selections a user made across the league.
func (r *Impl) ListUserSelections(ctx context.Context, db bun.IDB, leagueID uuid.UUID, userID string) ([]*Selection, error) {
	db = r.resolveDB(db)
	var selections []*Selection
	err := db.NewSelect().
		Model(&selections).
		Where("league_id = ?", leagueID).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list user selections: %w", err)
	}
	return selections, nil
}

// ListLeagueSelections returns every selection of the league.
func (r *Impl) ListLeagueSelections(ctx context.Context, db bun.IDB, leagueID uuid.UUID) ([]*Selection, error) {
	db = r.resolveDB(db)
	var selections []*Selection
	err := db.NewSelect().
		Model(&selections).
		Where("league_id = ?", leagueID).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list league selections: %w", err)
	}
	return selections, nil
}

// UpdateSelectionResult writes the resolved result of a selection.
func (r *Impl) UpdateSelectionResult(ctx context.Context, db bun.IDB, selectionID uuid.UUID, result *leaguedomain.Result) error {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model((*Selection)(nil)).
		Set("result = ?", result).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", selectionID).
		Exec(ctx)
	return checkAffected(res, err, "update selection result")
}
