package notificationservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	leaguedomain "github.com/Black-And-White-Club/lastman/app/modules/league/domain"
	notificationdb "github.com/Black-And-White-Club/lastman/app/modules/notification/infrastructure/repositories"
	"github.com/Black-And-White-Club/lastman/app/shared/attr"
	"github.com/Black-And-White-Club/lastman/app/shared/metrics"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	serviceName = "NotificationService"
	// inboxLimit caps a single inbox listing.
	inboxLimit = 100
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrNotFound        = errors.New("notification not found")
)

// Enqueuer schedules delivery of stored notifications.
type Enqueuer interface {
	EnqueueDelivery(ctx context.Context, notificationIDs []uuid.UUID) error
}

// Service stores notifications in user inboxes and hands them to delivery.
type Service interface {
	Notify(ctx context.Context, pending []leaguedomain.PendingNotification) error
	ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]*notificationdb.Notification, error)
	MarkRead(ctx context.Context, userID string, notificationID uuid.UUID) error
}

// NotificationService implements the Service interface.
type NotificationService struct {
	repo     notificationdb.Repository
	enqueuer Enqueuer
	logger   *slog.Logger
	metrics  metrics.OperationMetrics
	tracer   trace.Tracer
	clock    clockwork.Clock
}

var _ Service = (*NotificationService)(nil)

// NewNotificationService creates a new NotificationService. A nil enqueuer
// stores notifications without scheduling delivery.
func NewNotificationService(
	repo notificationdb.Repository,
	enqueuer Enqueuer,
	logger *slog.Logger,
	m metrics.OperationMetrics,
	tracer trace.Tracer,
	clock clockwork.Clock,
) *NotificationService {
	if logger == nil {
		logger = slog.Default()
	}
	if m == nil {
		m = metrics.NewNoop()
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &NotificationService{
		repo:     repo,
		enqueuer: enqueuer,
		logger:   logger,
		metrics:  m,
		tracer:   tracer,
		clock:    clock,
	}
}

// observe records metrics and a span around fn.
func (s *NotificationService) observe(ctx context.Context, operationName string, fn func(ctx context.Context) error) error {
	if s.tracer != nil {
		var span trace.Span
		ctx, span = s.tracer.Start(ctx, operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
		))
		defer span.End()
	}

	s.metrics.RecordOperationAttempt(ctx, operationName, serviceName)
	start := s.clock.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, serviceName, s.clock.Since(start))
	}()

	if err := fn(ctx); err != nil {
		if !errors.Is(err, ErrUnauthenticated) && !errors.Is(err, ErrNotFound) {
			s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
		}
		return err
	}
	s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
	return nil
}

// Notify stores one inbox row per pending notification, then enqueues
// delivery. Rows stay in the inbox when enqueueing fails.
func (s *NotificationService) Notify(ctx context.Context, pending []leaguedomain.PendingNotification) error {
	if len(pending) == 0 {
		return nil
	}
	return s.observe(ctx, "Notify", func(ctx context.Context) error {
		now := s.clock.Now().UTC()
		rows := make([]*notificationdb.Notification, 0, len(pending))
		ids := make([]uuid.UUID, 0, len(pending))
		for _, p := range pending {
			if strings.TrimSpace(p.UserID) == "" {
				continue
			}
			n := &notificationdb.Notification{
				ID:       uuid.New(),
				UserID:   p.UserID,
				LeagueID: p.LeagueID,
				Type:     p.Type,
				Title:    p.Title,
				Message:  p.Message,
				DeepLink: p.DeepLink,
				SentAt:   now,
			}
			rows = append(rows, n)
			ids = append(ids, n.ID)
		}

		if err := s.repo.CreateNotifications(ctx, nil, rows); err != nil {
			return err
		}
		s.logger.InfoContext(ctx, "Notifications stored",
			attr.ExtractCorrelationID(ctx),
			attr.Int("count", len(rows)),
		)

		if s.enqueuer == nil || len(ids) == 0 {
			return nil
		}
		if err := s.enqueuer.EnqueueDelivery(ctx, ids); err != nil {
			return fmt.Errorf("failed to enqueue notification delivery: %w", err)
		}
		return nil
	})
}

func (s *NotificationService) ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]*notificationdb.Notification, error) {
	var out []*notificationdb.Notification
	err := s.observe(ctx, "ListNotifications", func(ctx context.Context) error {
		if userID == "" {
			return ErrUnauthenticated
		}
		list, err := s.repo.ListNotifications(ctx, nil, userID, unreadOnly, inboxLimit)
		if err != nil {
			return err
		}
		out = list
		return nil
	})
	if out == nil && err == nil {
		out = []*notificationdb.Notification{}
	}
	return out, err
}

// MarkRead marks one of the caller's notifications read. Other users'
// notifications report ErrNotFound.
func (s *NotificationService) MarkRead(ctx context.Context, userID string, notificationID uuid.UUID) error {
	return s.observe(ctx, "MarkRead", func(ctx context.Context) error {
		if userID == "" {
			return ErrUnauthenticated
		}
		err := s.repo.MarkRead(ctx, nil, userID, notificationID, s.clock.Now().UTC())
		if errors.Is(err, notificationdb.ErrNoRowsAffected) {
			return fmt.Errorf("%w: %s", ErrNotFound, notificationID)
		}
		return err
	})
}
