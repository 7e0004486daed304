package notificationqueue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/lastman/app/shared/attr"
	"github.com/Black-And-White-Club/lastman/app/shared/metrics"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
)

const metricsService = "river"

// Service runs notification delivery jobs on River.
type Service struct {
	client  *river.Client[pgx.Tx]
	logger  *slog.Logger
	metrics metrics.OperationMetrics
}

// Migrate brings the River schema up to date.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return fmt.Errorf("failed to create River migrator: %w", err)
	}
	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, &rivermigrate.MigrateOpts{}); err != nil {
		return fmt.Errorf("failed to migrate River schema: %w", err)
	}
	return nil
}

// NewService creates a River client with the delivery worker registered.
func NewService(pool *pgxpool.Pool, worker *DeliveryWorker, logger *slog.Logger, m metrics.OperationMetrics, maxWorkers int) (*Service, error) {
	logger = logger.With(attr.String("component", "river_queue"))
	if maxWorkers <= 0 {
		maxWorkers = 10
	}

	workers := river.NewWorkers()
	if err := river.AddWorkerSafely(workers, worker); err != nil {
		return nil, fmt.Errorf("failed to register delivery worker: %w", err)
	}

	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Logger: logger,
		Queues: map[string]river.QueueConfig{
			QueueName: {MaxWorkers: maxWorkers},
		},
		Workers: workers,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	return &Service{
		client:  client,
		logger:  logger,
		metrics: m,
	}, nil
}

// EnqueueDelivery inserts one delivery job per notification.
func (s *Service) EnqueueDelivery(ctx context.Context, notificationIDs []uuid.UUID) error {
	if len(notificationIDs) == 0 {
		return nil
	}
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "enqueue_delivery", metricsService)

	params := make([]river.InsertManyParams, len(notificationIDs))
	for i, id := range notificationIDs {
		params[i] = river.InsertManyParams{Args: DeliveryJob{NotificationID: id}}
	}
	if _, err := s.client.InsertMany(ctx, params); err != nil {
		s.metrics.RecordOperationFailure(ctx, "enqueue_delivery", metricsService)
		return fmt.Errorf("failed to insert delivery jobs: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "enqueue_delivery", metricsService)
	s.metrics.RecordOperationDuration(ctx, "enqueue_delivery", metricsService, time.Since(start))
	s.logger.DebugContext(ctx, "Delivery jobs enqueued", attr.Int("count", len(notificationIDs)))
	return nil
}

// Start starts the River client.
func (s *Service) Start(ctx context.Context) error {
	s.logger.InfoContext(ctx, "Starting notification queue")
	if err := s.client.Start(ctx); err != nil {
		return fmt.Errorf("failed to start River client: %w", err)
	}
	return nil
}

// Stop waits for running jobs to finish.
func (s *Service) Stop(ctx context.Context) error {
	s.logger.InfoContext(ctx, "Stopping notification queue")
	if err := s.client.Stop(ctx); err != nil {
		return fmt.Errorf("failed to stop River client: %w", err)
	}
	return nil
}
