package leaguedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// CreateParticipant inserts a participant. Joining twice is a no-op.
func (r *Impl) CreateParticipant(ctx context.Context, db bun.IDB, participant *Participant) error {
	db = r.resolveDB(db)
	_, err := db.NewInsert().
		Model(participant).
		On("CONFLICT (league_id, user_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create participant: %w", err)
	}
	return nil
}

// GetParticipant retrieves the participant for a user in a league.
func (r *Impl) GetParticipant(ctx context.Context, db bun.IDB, leagueID uuid.UUID, userID string) (*Participant, error) {
	db = r.resolveDB(db)
	participant := new(Participant)
	err := db.NewSelect().
		Model(participant).
		Where("league_id = ?", leagueID).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	return participant, nil
}

// GetParticipantByID retrieves a participant by its id.
func (r *Impl) GetParticipantByID(ctx context.Context, db bun.IDB, leagueID, participantID uuid.UUID) (*Participant, error) {
	db = r.resolveDB(db)
	participant := new(Participant)
	err := db.NewSelect().
		Model(participant).
		Where("id = ?", participantID).
		Where("league_id = ?", leagueID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get participant by id: %w", err)
	}
	return participant, nil
}

// ListParticipants returns every participant of the league.
func (r *Impl) ListParticipants(ctx context.Context, db bun.IDB, leagueID uuid.UUID) ([]*Participant, error) {
	return r.listParticipants(ctx, db, leagueID, false)
}

// ListActiveParticipants returns the participants that are not eliminated.
func (r *Impl) ListActiveParticipants(ctx context.Context, db bun.IDB, leagueID uuid.UUID) ([]*Participant, error) {
	return r.listParticipants(ctx, db, leagueID, true)
}

func (r *Impl) listParticipants(ctx context.Context, db bun.IDB, leagueID uuid.UUID, activeOnly bool) ([]*Participant, error) {
	db = r.resolveDB(db)
	var participants []*Participant
	q := db.NewSelect().
		Model(&participants).
		Where("league_id = ?", leagueID)
	if activeOnly {
		q = q.Where("eliminated = FALSE")
	}
	if err := q.Order("joined_at ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	return participants, nil
}

// UpdateParticipant writes the elimination fields of a participant.
func (r *Impl) UpdateParticipant(ctx context.Context, db bun.IDB, participant *Participant) error {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model(participant).
		Column("eliminated", "eliminated_at_round", "eliminated_reason").
		WherePK().
		Exec(ctx)
	return checkAffected(result, err, "update participant")
}
