package leaguedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// CreateOverride appends an admin override.
func (r *Impl) CreateOverride(ctx context.Context, db bun.IDB, override *AdminOverride) error {
	db = r.resolveDB(db)
	if _, err := db.NewInsert().Model(override).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create override: %w", err)
	}
	return nil
}

// GetOverride retrieves an override of a round.
func (r *Impl) GetOverride(ctx context.Context, db bun.IDB, leagueID, roundID, overrideID uuid.UUID) (*AdminOverride, error) {
	db = r.resolveDB(db)
	override := new(AdminOverride)
	err := db.NewSelect().
		Model(override).
		Where("id = ?", overrideID).
		Where("league_id = ?", leagueID).
		Where("round_id = ?", roundID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get override: %w", err)
	}
	return override, nil
}

// GetOverrideBySelection returns the newest override for a selection.
func (r *Impl) GetOverrideBySelection(ctx context.Context, db bun.IDB, selectionID uuid.UUID) (*AdminOverride, error) {
	db = r.resolveDB(db)
	override := new(AdminOverride)
	err := db.NewSelect().
		Model(override).
		Where("selection_id = ?", selectionID).
		Order("created_at DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get override by selection: %w", err)
	}
	return override, nil
}

// ListOverrides returns a round's overrides, oldest first.
func (r *Impl) ListOverrides(ctx context.Context, db bun.IDB, leagueID, roundID uuid.UUID) ([]*AdminOverride, error) {
	db = r.resolveDB(db)
	var overrides []*AdminOverride
	err := db.NewSelect().
		Model(&overrides).
		Where("league_id = ?", leagueID).
		Where("round_id = ?", roundID).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list overrides: %w", err)
	}
	return overrides, nil
}

// DeleteOverride removes an override.
func (r *Impl) DeleteOverride(ctx context.Context, db bun.IDB, overrideID uuid.UUID) error {
	db = r.resolveDB(db)
	result, err := db.NewDelete().
		Model((*AdminOverride)(nil)).
		Where("id = ?", overrideID).
		Exec(ctx)
	return checkAffected(result, err, "delete override")
}
