package leaguerouter

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/lastman/app/eventbus"
	leagueservice "github.com/Black-And-White-Club/lastman/app/modules/league/application"
	"github.com/Black-And-White-Club/lastman/app/shared/attr"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// LeagueRouter consumes league events from the event bus.
type LeagueRouter struct {
	logger     *slog.Logger
	Router     *message.Router
	subscriber message.Subscriber
	service    leagueservice.Service
	tracer     trace.Tracer
	registry   *prometheus.Registry
}

// NewLeagueRouter creates a new instance of the router. A nil registry
// disables router metrics.
func NewLeagueRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber message.Subscriber,
	service leagueservice.Service,
	tracer trace.Tracer,
	registry *prometheus.Registry,
) *LeagueRouter {
	return &LeagueRouter{
		logger:     logger,
		Router:     router,
		subscriber: subscriber,
		service:    service,
		tracer:     tracer,
		registry:   registry,
	}
}

// Configure sets up the middlewares and registers the league handlers.
func (r *LeagueRouter) Configure() {
	if r.registry != nil {
		builder := metrics.NewPrometheusMetricsBuilder(r.registry, "lastman", "league")
		builder.AddPrometheusRouterMetrics(r.Router)
	}

	r.Router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Retry{
			MaxRetries:      3,
			InitialInterval: 500 * time.Millisecond,
			Multiplier:      2,
			Logger:          watermill.NewSlogLogger(r.logger),
		}.Middleware,
		middleware.Recoverer,
	)

	r.Router.AddConsumerHandler(
		"league."+eventbus.FixtureResultRecordedV1,
		eventbus.FixtureResultRecordedV1,
		r.subscriber,
		r.HandleFixtureResultRecorded,
	)
}

// HandleFixtureResultRecorded applies a fixture result from the results
// feed. Undecodable messages and rejected results are acknowledged and
// dropped; infrastructure errors are returned for redelivery.
func (r *LeagueRouter) HandleFixtureResultRecorded(msg *message.Message) error {
	ctx := eventbus.MessageContext(msg.Context(), msg)
	if r.tracer != nil {
		var span trace.Span
		ctx, span = r.tracer.Start(ctx, "LeagueRouter.HandleFixtureResultRecorded",
			trace.WithAttributes(attribute.String("message.uuid", msg.UUID)),
		)
		defer span.End()
	}

	var payload FixtureResultRecordedPayloadV1
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		r.logger.ErrorContext(ctx, "Failed to unmarshal fixture result",
			attr.ExtractCorrelationID(ctx),
			attr.String("message_uuid", msg.UUID),
			attr.Error(err),
		)
		return nil
	}

	_, err := r.service.RecordSystemFixtureResult(ctx, leagueservice.FixtureResultRequest{
		LeagueID:  payload.LeagueID,
		RoundID:   payload.RoundID,
		FixtureID: payload.FixtureID,
		Status:    payload.Status,
		HomeScore: payload.HomeScore,
		AwayScore: payload.AwayScore,
	})
	switch {
	case err == nil:
		r.logger.InfoContext(ctx, "Fixture result applied",
			attr.ExtractCorrelationID(ctx),
			attr.String("fixture_id", payload.FixtureID.String()),
		)
		return nil
	case leagueservice.IsFailure(err):
		r.logger.WarnContext(ctx, "Fixture result rejected",
			attr.ExtractCorrelationID(ctx),
			attr.String("fixture_id", payload.FixtureID.String()),
			attr.Error(err),
		)
		return nil
	default:
		return err
	}
}

// Close stops the router.
func (r *LeagueRouter) Close() error {
	return r.Router.Close()
}
