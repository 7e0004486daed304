package leaguedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// CreateFixture inserts a fixture.
func (r *Impl) CreateFixture(ctx context.Context, db bun.IDB, fixture *Fixture) error {
	db = r.resolveDB(db)
	if _, err := db.NewInsert().Model(fixture).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create fixture: %w", err)
	}
	return nil
}

// GetFixture retrieves a fixture of a round.
func (r *Impl) GetFixture(ctx context.Context, db bun.IDB, leagueID, roundID, fixtureID uuid.UUID) (*Fixture, error) {
	db = r.resolveDB(db)
	fixture := new(Fixture)
	err := db.NewSelect().
		Model(fixture).
		Where("id = ?", fixtureID).
		Where("league_id = ?", leagueID).
		Where("round_id = ?", roundID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get fixture: %w", err)
	}
	return fixture, nil
}

// ListFixtures returns a round's fixtures ordered by kickoff.
func (r *Impl) ListFixtures(ctx context.Context, db bun.IDB, leagueID, roundID uuid.UUID) ([]*Fixture, error) {
	db = r.resolveDB(db)
	var fixtures []*Fixture
	err := db.NewSelect().
		Model(&fixtures).
		Where("league_id = ?", leagueID).
		Where("round_id = ?", roundID).
		Order("kickoff_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list fixtures: %w", err)
	}
	return fixtures, nil
}

// UpdateFixtureResult writes the status and scores of a fixture.
func (r *Impl) UpdateFixtureResult(ctx context.Context, db bun.IDB, fixture *Fixture) error {
	db = r.resolveDB(db)
	fixture.UpdatedAt = time.Now().UTC()
	result, err := db.NewUpdate().
		Model(fixture).
		Column("status", "home_score", "away_score", "updated_at").
		WherePK().
		Exec(ctx)
	return checkAffected(result, err, "update fixture result")
}
