package league

import (
	"context"
	"log/slog"
	"net/http"

	leagueservice "github.com/Black-And-White-Club/lastman/app/modules/league/application"
	leaguehandlers "github.com/Black-And-White-Club/lastman/app/modules/league/infrastructure/handlers"
	leaguedb "github.com/Black-And-White-Club/lastman/app/modules/league/infrastructure/repositories"
	leaguerouter "github.com/Black-And-White-Club/lastman/app/modules/league/infrastructure/router"
	"github.com/Black-And-White-Club/lastman/app/shared/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// Module represents the league module.
type Module struct {
	Service      leagueservice.Service
	Handlers     *leaguehandlers.LeagueHandlers
	LeagueRouter *leaguerouter.LeagueRouter
	logger       *slog.Logger
}

// Deps are the shared components the league module is built from.
type Deps struct {
	DB         *bun.DB
	Logger     *slog.Logger
	Metrics    metrics.OperationMetrics
	Tracer     trace.Tracer
	Registry   *prometheus.Registry
	Router     *message.Router
	Subscriber message.Subscriber
	Notifier   leagueservice.NotificationSink
}

// NewLeagueModule creates a new instance of the league module.
func NewLeagueModule(ctx context.Context, deps Deps) (*Module, error) {
	logger := deps.Logger
	logger.InfoContext(ctx, "league.NewLeagueModule called")

	repo := leaguedb.NewRepository(deps.DB)
	service := leagueservice.NewLeagueService(repo, logger, deps.Metrics, deps.Tracer, deps.DB, deps.Notifier, nil)

	module := &Module{
		Service:  service,
		Handlers: leaguehandlers.NewLeagueHandlers(service, logger),
		logger:   logger,
	}

	if deps.Router != nil && deps.Subscriber != nil {
		module.LeagueRouter = leaguerouter.NewLeagueRouter(logger, deps.Router, deps.Subscriber, service, deps.Tracer, deps.Registry)
		module.LeagueRouter.Configure()
	}

	return module, nil
}

// MountHTTP registers the league API on r.
func (m *Module) MountHTTP(r chi.Router, middlewares ...func(http.Handler) http.Handler) {
	leaguerouter.MountHTTP(r, m.Handlers, middlewares...)
}
