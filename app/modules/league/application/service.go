package leagueservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	leaguedomain "github.com/Black-And-White-Club/lastman/app/modules/league/domain"
	leaguedb "github.com/Black-And-White-Club/lastman/app/modules/league/infrastructure/repositories"
	"github.com/Black-And-White-Club/lastman/app/shared/attr"
	"github.com/Black-And-White-Club/lastman/app/shared/metrics"
	"github.com/Black-And-White-Club/lastman/app/shared/results"
	"github.com/jonboulle/clockwork"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "LeagueService"

// LeagueService implements the Service interface.
type LeagueService struct {
	repo     leaguedb.Repository
	logger   *slog.Logger
	metrics  metrics.OperationMetrics
	tracer   trace.Tracer
	db       *bun.DB
	notifier NotificationSink
	clock    clockwork.Clock
	times    *TimeParser
}

// NewLeagueService creates a new LeagueService. A nil db runs every
// operation without a transaction, which is how the unit tests drive it.
func NewLeagueService(
	repo leaguedb.Repository,
	logger *slog.Logger,
	metrics metrics.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
	notifier NotificationSink,
	clock clockwork.Clock,
) *LeagueService {
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &LeagueService{
		repo:     repo,
		logger:   logger,
		metrics:  metrics,
		tracer:   tracer,
		db:       db,
		notifier: notifier,
		clock:    clock,
		times:    NewTimeParser(),
	}
}

// outbox collects the notifications of one operation. They are handed to
// the sink only after the transaction commits.
type outbox struct {
	pending []leaguedomain.PendingNotification
}

func (o *outbox) add(n ...leaguedomain.PendingNotification) {
	o.pending = append(o.pending, n...)
}

func (s *LeagueService) dispatch(ctx context.Context, operationName string, box *outbox) {
	if box == nil || len(box.pending) == 0 || s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, box.pending); err != nil {
		s.logger.WarnContext(ctx, "Failed to dispatch notifications",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.Int("count", len(box.pending)),
			attr.Error(err),
		)
	}
}

// asResult splits a logic error into a failure result (caller-visible kinds)
// or an infrastructure error.
func asResult[S any](value S, err error) (results.OperationResult[S, error], error) {
	if err != nil {
		if IsFailure(err) {
			return results.FailureResult[S, error](err), nil
		}
		return results.OperationResult[S, error]{}, err
	}
	return results.SuccessResult[S, error](value), nil
}

// execute runs fn in a transaction under telemetry and unwraps the result.
func execute[S any](
	s *LeagueService,
	ctx context.Context,
	operationName string,
	identifier string,
	fn func(ctx context.Context, db bun.IDB) (S, error),
) (S, error) {
	txFn := func(ctx context.Context, db bun.IDB) (results.OperationResult[S, error], error) {
		value, err := fn(ctx, db)
		return asResult(value, err)
	}

	result, err := withTelemetry(s, ctx, operationName, identifier, func(ctx context.Context) (results.OperationResult[S, error], error) {
		return runInTx(s, ctx, txFn)
	})

	var zero S
	if err != nil {
		return zero, err
	}
	if result.IsFailure() {
		return zero, *result.Failure
	}
	return *result.Success, nil
}

// -----------------------------------------------------------------------------
// Generic Helpers (Defined as functions because methods cannot have type params)
// -----------------------------------------------------------------------------

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *LeagueService,
	ctx context.Context,
	operationName string,
	identifier string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {
	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("identifier", identifier),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	if s.metrics != nil {
		s.metrics.RecordOperationAttempt(ctx, operationName, serviceName)
	}

	startTime := s.clock.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordOperationDuration(ctx, operationName, serviceName, s.clock.Since(startTime))
		}
	}()

	s.logger.InfoContext(ctx, "Operation triggered",
		attr.ExtractCorrelationID(ctx),
		attr.String("operation", operationName),
		attr.String("identifier", identifier),
	)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.String("identifier", identifier),
				attr.Error(err),
			)
			if s.metrics != nil {
				s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
			}
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Error(wrappedErr),
		)
		if s.metrics != nil {
			s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
		}
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Any("failure_payload", *result.Failure),
		)
	}

	if result.IsSuccess() {
		s.logger.InfoContext(ctx, "Operation completed successfully",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Duration("duration", s.clock.Since(startTime)),
		)
	}

	if s.metrics != nil {
		s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
	}

	return result, nil
}

// errRollback aborts a transaction whose operation produced a failure result
// so that no partial writes survive.
var errRollback = errors.New("rollback: operation returned failure result")

// runInTx ensures the operation runs within a transaction.
func runInTx[S any, F any](
	s *LeagueService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {
	if s.db == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, F]

	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		if txErr == nil && result.IsFailure() {
			return errRollback
		}
		return txErr
	})
	if errors.Is(err, errRollback) {
		return result, nil
	}

	return result, err
}

func (s *LeagueService) now() time.Time {
	return s.clock.Now().UTC()
}
