package notificationservice

import (
	"context"
	"sort"
	"sync"
	"time"

	notificationdb "github.com/Black-And-White-Club/lastman/app/modules/notification/infrastructure/repositories"
	"github.com/Black-And-White-Club/lastman/app/shared/metrics"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/uptrace/bun"
)

// FakeRepo is an in-memory notificationdb.Repository.
type FakeRepo struct {
	mu   sync.Mutex
	rows []*notificationdb.Notification

	CreateErr error
}

func (f *FakeRepo) CreateNotifications(ctx context.Context, db bun.IDB, notifications []*notificationdb.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CreateErr != nil {
		return f.CreateErr
	}
	for _, n := range notifications {
		c := *n
		f.rows = append(f.rows, &c)
	}
	return nil
}

func (f *FakeRepo) GetNotification(ctx context.Context, db bun.IDB, id uuid.UUID) (*notificationdb.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.rows {
		if n.ID == id {
			c := *n
			return &c, nil
		}
	}
	return nil, notificationdb.ErrNotFound
}

func (f *FakeRepo) ListNotifications(ctx context.Context, db bun.IDB, userID string, unreadOnly bool, limit int) ([]*notificationdb.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*notificationdb.Notification
	for _, n := range f.rows {
		if n.UserID != userID || (unreadOnly && n.Read) {
			continue
		}
		c := *n
		out = append(out, &c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SentAt.After(out[j].SentAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *FakeRepo) MarkRead(ctx context.Context, db bun.IDB, userID string, id uuid.UUID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.rows {
		if n.ID == id && n.UserID == userID {
			n.Read = true
			if n.ReadAt == nil {
				n.ReadAt = &at
			}
			return nil
		}
	}
	return notificationdb.ErrNoRowsAffected
}

// FakeEnqueuer records enqueued notification ids.
type FakeEnqueuer struct {
	ids []uuid.UUID
	err error
}

func (f *FakeEnqueuer) EnqueueDelivery(ctx context.Context, ids []uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	f.ids = append(f.ids, ids...)
	return nil
}

// durationRecorder captures the durations reported for each operation.
type durationRecorder struct {
	metrics.OperationMetrics
	durations map[string]time.Duration
}

func (r *durationRecorder) RecordOperationDuration(ctx context.Context, operation, service string, d time.Duration) {
	if r.durations == nil {
		r.durations = map[string]time.Duration{}
	}
	r.durations[operation] = d
}

// slowEnqueuer advances the clock by delay before accepting ids.
type slowEnqueuer struct {
	clock *clockwork.FakeClock
	delay time.Duration
}

func (e *slowEnqueuer) EnqueueDelivery(ctx context.Context, ids []uuid.UUID) error {
	e.clock.Advance(e.delay)
	return nil
}
