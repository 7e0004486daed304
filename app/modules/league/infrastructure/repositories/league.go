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
	"github.com/uptrace/bun/driver/pgdriver"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrNoRowsAffected is returned when an UPDATE or DELETE matched nothing.
	ErrNoRowsAffected = errors.New("no rows affected")

	// ErrDuplicateSelection is returned when a user already picked in a round.
	ErrDuplicateSelection = errors.New("selection already exists for round and user")
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new league repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func checkAffected(result sql.Result, err error, what string) error {
	if err != nil {
		return fmt.Errorf("failed to %s: %w", what, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C') == "23505"
	}
	return false
}

// CreateLeague inserts a new league.
func (r *Impl) CreateLeague(ctx context.Context, db bun.IDB, league *League) error {
	db = r.resolveDB(db)
	if _, err := db.NewInsert().Model(league).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create league: %w", err)
	}
	return nil
}

// GetLeague retrieves a league by id.
func (r *Impl) GetLeague(ctx context.Context, db bun.IDB, leagueID uuid.UUID) (*League, error) {
	db = r.resolveDB(db)
	league := new(League)
	err := db.NewSelect().
		Model(league).
		Where("id = ?", leagueID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get league: %w", err)
	}
	return league, nil
}

// GetLeagueByCode retrieves a league by its invite code.
func (r *Impl) GetLeagueByCode(ctx context.Context, db bun.IDB, code string) (*League, error) {
	db = r.resolveDB(db)
	league := new(League)
	err := db.NewSelect().
		Model(league).
		Where("league_code = ?", code).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get league by code: %w", err)
	}
	return league, nil
}

// UpdateLeagueStatus sets a league's status.
func (r *Impl) UpdateLeagueStatus(ctx context.Context, db bun.IDB, leagueID uuid.UUID, status leaguedomain.LeagueStatus) error {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model((*League)(nil)).
		Set("status = ?", status).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", leagueID).
		Exec(ctx)
	return checkAffected(result, err, "update league status")
}

// SetCurrentRound points the league at its newest round.
func (r *Impl) SetCurrentRound(ctx context.Context, db bun.IDB, leagueID, roundID uuid.UUID) error {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model((*League)(nil)).
		Set("current_round_id = ?", roundID).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", leagueID).
		Exec(ctx)
	return checkAffected(result, err, "set current round")
}
