package notificationdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrNoRowsAffected is returned when an UPDATE matched nothing.
	ErrNoRowsAffected = errors.New("no rows affected")
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new notification repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// CreateNotifications inserts notifications in one statement.
func (r *Impl) CreateNotifications(ctx context.Context, db bun.IDB, notifications []*Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	db = r.resolveDB(db)
	if _, err := db.NewInsert().Model(&notifications).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create notifications: %w", err)
	}
	return nil
}

func (r *Impl) GetNotification(ctx context.Context, db bun.IDB, id uuid.UUID) (*Notification, error) {
	db = r.resolveDB(db)
	n := new(Notification)
	err := db.NewSelect().Model(n).Where("n.id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return n, nil
}

func (r *Impl) ListNotifications(ctx context.Context, db bun.IDB, userID string, unreadOnly bool, limit int) ([]*Notification, error) {
	db = r.resolveDB(db)
	var out []*Notification
	q := db.NewSelect().
		Model(&out).
		Where("n.user_id = ?", userID).
		Order("n.sent_at DESC", "n.id ASC")
	if unreadOnly {
		q = q.Where("n.read = FALSE")
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return out, nil
}

func (r *Impl) MarkRead(ctx context.Context, db bun.IDB, userID string, id uuid.UUID, at time.Time) error {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model((*Notification)(nil)).
		Set("read = TRUE").
		Set("read_at = COALESCE(read_at, ?)", at).
		Where("id = ?", id).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
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
