package notificationqueue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/lastman/app/eventbus"
	notificationdb "github.com/Black-And-White-Club/lastman/app/modules/notification/infrastructure/repositories"
	"github.com/Black-And-White-Club/lastman/app/shared/attr"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/riverqueue/river"
	"github.com/uptrace/bun"
)

// NotificationLoader reads a stored notification.
type NotificationLoader interface {
	GetNotification(ctx context.Context, db bun.IDB, id uuid.UUID) (*notificationdb.Notification, error)
}

// DeliveredNotificationPayloadV1 is published for every delivered notification.
type DeliveredNotificationPayloadV1 struct {
	NotificationID uuid.UUID `json:"notificationId"`
	UserID         string    `json:"userId"`
	LeagueID       uuid.UUID `json:"leagueId"`
	Type           string    `json:"type"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	DeepLink       string    `json:"deepLink,omitempty"`
	SentAt         time.Time `json:"sentAt"`
}

// DeliveryWorker publishes notifications to the event bus.
type DeliveryWorker struct {
	river.WorkerDefaults[DeliveryJob]
	loader    NotificationLoader
	publisher message.Publisher
	logger    *slog.Logger
}

// NewDeliveryWorker creates a new delivery worker.
func NewDeliveryWorker(loader NotificationLoader, publisher message.Publisher, logger *slog.Logger) *DeliveryWorker {
	return &DeliveryWorker{
		loader:    loader,
		publisher: publisher,
		logger:    logger,
	}
}

// Work publishes the job's notification. A notification that no longer
// exists cancels the job instead of retrying it.
func (w *DeliveryWorker) Work(ctx context.Context, job *river.Job[DeliveryJob]) error {
	logger := w.logger.With(
		attr.String("notification_id", job.Args.NotificationID.String()),
		attr.Int64("job_id", job.ID),
	)

	n, err := w.loader.GetNotification(ctx, nil, job.Args.NotificationID)
	if errors.Is(err, notificationdb.ErrNotFound) {
		logger.WarnContext(ctx, "Notification vanished before delivery")
		return river.JobCancel(err)
	}
	if err != nil {
		return fmt.Errorf("failed to load notification: %w", err)
	}

	msg, err := eventbus.NewMessage(ctx, DeliveredNotificationPayloadV1{
		NotificationID: n.ID,
		UserID:         n.UserID,
		LeagueID:       n.LeagueID,
		Type:           string(n.Type),
		Title:          n.Title,
		Message:        n.Message,
		DeepLink:       n.DeepLink,
		SentAt:         n.SentAt,
	})
	if err != nil {
		return river.JobCancel(err)
	}
	msg.Metadata.Set("user_id", n.UserID)

	topic := eventbus.NotificationTopic(string(n.Type))
	if err := w.publisher.Publish(topic, msg); err != nil {
		logger.ErrorContext(ctx, "Failed to publish notification", attr.String("topic", topic), attr.Error(err))
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	logger.InfoContext(ctx, "Notification delivered", attr.String("topic", topic))
	return nil
}
