package notificationdb

import (
	"time"

	leaguedomain "github.com/Black-And-White-Club/lastman/app/modules/league/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Notification is one inbox entry of a user.
type Notification struct {
	bun.BaseModel `bun:"table:notifications,alias:n"`
	ID            uuid.UUID                     `bun:"id,pk,type:uuid" json:"id"`
	UserID        string                        `bun:"user_id,notnull" json:"userId"`
	LeagueID      uuid.UUID                     `bun:"league_id,notnull,type:uuid" json:"leagueId"`
	Type          leaguedomain.NotificationType `bun:"type,notnull" json:"type"`
	Title         string                        `bun:"title,notnull" json:"title"`
	Message       string                        `bun:"message,notnull" json:"message"`
	DeepLink      string                        `bun:"deep_link,nullzero" json:"deepLink,omitempty"`
	Read          bool                          `bun:"read,notnull" json:"read"`
	SentAt        time.Time                     `bun:"sent_at,notnull" json:"sentAt"`
	ReadAt        *time.Time                    `bun:"read_at" json:"readAt,omitempty"`
}
