package notification

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	notificationservice "github.com/Black-And-White-Club/lastman/app/modules/notification/application"
	notificationhandlers "github.com/Black-And-White-Club/lastman/app/modules/notification/infrastructure/handlers"
	notificationqueue "github.com/Black-And-White-Club/lastman/app/modules/notification/infrastructure/queue"
	notificationdb "github.com/Black-And-White-Club/lastman/app/modules/notification/infrastructure/repositories"
	"github.com/Black-And-White-Club/lastman/app/shared/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// Module stores notifications and delivers them through River.
type Module struct {
	Service  *notificationservice.NotificationService
	Queue    *notificationqueue.Service
	Handlers *notificationhandlers.InboxHandlers
	logger   *slog.Logger
}

// Deps are the shared components the notification module is built from.
type Deps struct {
	DB         *bun.DB
	Pool       *pgxpool.Pool
	Publisher  message.Publisher
	Logger     *slog.Logger
	Metrics    metrics.OperationMetrics
	Tracer     trace.Tracer
	MaxWorkers int
}

// NewNotificationModule creates the module. The River schema must already
// be migrated.
func NewNotificationModule(ctx context.Context, deps Deps) (*Module, error) {
	logger := deps.Logger
	logger.InfoContext(ctx, "notification.NewNotificationModule called")

	repo := notificationdb.NewRepository(deps.DB)
	worker := notificationqueue.NewDeliveryWorker(repo, deps.Publisher, logger)
	queue, err := notificationqueue.NewService(deps.Pool, worker, logger, deps.Metrics, deps.MaxWorkers)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification queue: %w", err)
	}

	service := notificationservice.NewNotificationService(repo, queue, logger, deps.Metrics, deps.Tracer, nil)

	return &Module{
		Service:  service,
		Queue:    queue,
		Handlers: notificationhandlers.NewInboxHandlers(service, logger),
		logger:   logger,
	}, nil
}

// MountHTTP registers the inbox API on r.
func (m *Module) MountHTTP(r chi.Router, middlewares ...func(http.Handler) http.Handler) {
	m.Handlers.Routes(r, middlewares...)
}

// Run processes delivery jobs until ctx is done.
func (m *Module) Run(ctx context.Context) error {
	if err := m.Queue.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return nil
}

// Close waits for in-flight deliveries.
func (m *Module) Close(ctx context.Context) error {
	m.logger.InfoContext(ctx, "Stopping notification module")
	return m.Queue.Stop(ctx)
}
