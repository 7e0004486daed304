package notificationqueue

import (
	"github.com/google/uuid"
	"github.com/riverqueue/river"
)

// QueueName is the River queue notification jobs run on.
const QueueName = "notification"

// DeliveryJob delivers one stored notification to the event bus.
type DeliveryJob struct {
	NotificationID uuid.UUID `json:"notification_id"`
}

// Kind returns the job type identifier for River
func (DeliveryJob) Kind() string { return "notification_delivery" }

func (DeliveryJob) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		Queue:       QueueName,
		MaxAttempts: 5,
	}
}
