package notificationdb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository persists notifications. A nil db falls back to the
// repository's connection.
//
// Error semantics:
//   - ErrNotFound: Record does not exist (Get* methods)
//   - ErrNoRowsAffected: UPDATE matched no rows
//   - Other errors: Infrastructure failures
type Repository interface {
	CreateNotifications(ctx context.Context, db bun.IDB, notifications []*Notification) error
	GetNotification(ctx context.Context, db bun.IDB, id uuid.UUID) (*Notification, error)
	// ListNotifications returns the user's notifications, newest first.
	ListNotifications(ctx context.Context, db bun.IDB, userID string, unreadOnly bool, limit int) ([]*Notification, error)
	// MarkRead marks the user's notification read. It returns
	// ErrNoRowsAffected when id does not belong to userID.
	MarkRead(ctx context.Context, db bun.IDB, userID string, id uuid.UUID, at time.Time) error
}
