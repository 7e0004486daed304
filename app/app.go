package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Black-And-White-Club/lastman/app/eventbus"
	"github.com/Black-And-White-Club/lastman/app/modules/auth"
	"github.com/Black-And-White-Club/lastman/app/modules/league"
	"github.com/Black-And-White-Club/lastman/app/modules/notification"
	notificationqueue "github.com/Black-And-White-Club/lastman/app/modules/notification/infrastructure/queue"
	"github.com/Black-And-White-Club/lastman/app/shared/attr"
	"github.com/Black-And-White-Club/lastman/app/shared/metrics"
	"github.com/Black-And-White-Club/lastman/config"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/cors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

// App wires the modules to Postgres, NATS and the HTTP servers.
type App struct {
	Config          *config.Config
	Logger          *slog.Logger
	DB              *bun.DB
	Pool            *pgxpool.Pool
	EventBus        eventbus.EventBus
	Registry        *prometheus.Registry
	WatermillRouter *message.Router

	AuthModule         *auth.Module
	LeagueModule       *league.Module
	NotificationModule *notification.Module

	httpServer    *http.Server
	metricsServer *http.Server
}

// NewApp connects to every backing service and builds the modules.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	app := &App{Config: cfg, Logger: logger}
	if err := app.initialize(ctx); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

func (app *App) initialize(ctx context.Context) error {
	cfg, logger := app.Config, app.Logger

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN)))
	app.DB = bun.NewDB(sqldb, pgdialect.New())
	if err := app.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	pool, err := pgxpool.New(ctx, cfg.Postgres.DSN)
	if err != nil {
		return fmt.Errorf("failed to create pgx pool: %w", err)
	}
	app.Pool = pool
	if err := notificationqueue.Migrate(ctx, pool); err != nil {
		return err
	}

	app.EventBus, err = eventbus.NewEventBus(ctx, eventbus.Options{
		URL:           cfg.NATS.URL,
		NKeySeed:      cfg.NATS.NKeySeed,
		ConsumerGroup: "lastman",
	}, logger)
	if err != nil {
		return err
	}
	if err := app.EventBus.CreateStream(ctx, eventbus.StreamName, eventbus.StreamSubjects); err != nil {
		return err
	}

	app.Registry = prometheus.NewRegistry()
	app.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	opMetrics, err := metrics.NewPrometheus(app.Registry, "lastman")
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	app.WatermillRouter, err = message.NewRouter(message.RouterConfig{CloseTimeout: shutdownTimeout}, watermill.NewSlogLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to create Watermill router: %w", err)
	}

	if app.AuthModule, err = auth.NewModule(ctx, cfg, logger); err != nil {
		return fmt.Errorf("failed to initialize auth module: %w", err)
	}

	app.NotificationModule, err = notification.NewNotificationModule(ctx, notification.Deps{
		DB:         app.DB,
		Pool:       pool,
		Publisher:  app.EventBus.Publisher(),
		Logger:     logger,
		Metrics:    opMetrics,
		Tracer:     otel.Tracer("lastman/notification"),
		MaxWorkers: cfg.Queue.MaxWorkers,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize notification module: %w", err)
	}

	app.LeagueModule, err = league.NewLeagueModule(ctx, league.Deps{
		DB:         app.DB,
		Logger:     logger,
		Metrics:    opMetrics,
		Tracer:     otel.Tracer("lastman/league"),
		Registry:   app.Registry,
		Router:     app.WatermillRouter,
		Subscriber: app.EventBus.Subscriber(),
		Notifier:   app.NotificationModule.Service,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize league module: %w", err)
	}

	app.httpServer = &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           app.httpHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	if cfg.Observability.MetricsAddress != "" {
		app.metricsServer = &http.Server{
			Addr:              cfg.Observability.MetricsAddress,
			Handler:           metrics.Handler(app.Registry),
			ReadHeaderTimeout: 10 * time.Second,
		}
	}
	return nil
}

// correlationID copies chi's request id into the correlation id context key.
func correlationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := middleware.GetReqID(r.Context()); id != "" {
			r = r.WithContext(attr.WithCorrelationID(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

func (app *App) httpHandler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, correlationID, middleware.RealIP, middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	app.LeagueModule.MountHTTP(r, app.AuthModule.Middleware()...)
	app.NotificationModule.MountHTTP(r, app.AuthModule.Authenticated()...)

	return cors.New(cors.Options{
		AllowedOrigins:   app.Config.HTTP.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler(r)
}

// Run serves HTTP, consumes events and processes jobs until ctx is done or
// one of them fails.
func (app *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.Logger.InfoContext(ctx, "HTTP server listening", attr.String("address", app.httpServer.Addr))
		if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if app.metricsServer != nil {
		g.Go(func() error {
			app.Logger.InfoContext(ctx, "Metrics server listening", attr.String("address", app.metricsServer.Addr))
			if err := app.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		if err := app.WatermillRouter.Run(ctx); err != nil {
			return fmt.Errorf("watermill router: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return app.NotificationModule.Run(ctx)
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return app.shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (app *App) shutdown(ctx context.Context) error {
	app.Logger.InfoContext(ctx, "Shutting down")
	var errs []error
	if err := app.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http server shutdown: %w", err))
	}
	if app.metricsServer != nil {
		if err := app.metricsServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}
	if err := app.NotificationModule.Close(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Close releases the connections NewApp opened.
func (app *App) Close() {
	if app.WatermillRouter != nil {
		_ = app.WatermillRouter.Close()
	}
	if app.EventBus != nil {
		if err := app.EventBus.Close(); err != nil {
			app.Logger.Warn("Failed to close event bus", attr.Error(err))
		}
	}
	if app.Pool != nil {
		app.Pool.Close()
	}
	if app.DB != nil {
		_ = app.DB.Close()
	}
}
