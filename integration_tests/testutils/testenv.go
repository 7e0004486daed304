package testutils

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"log/slog"
	"sync"
	"testing"

	"github.com/Black-And-White-Club/lastman/integration_tests/containers"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go/modules/nats"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
)

// TestEnvironment holds the containers and connections shared by every
// integration test in a package.
type TestEnvironment struct {
	Ctx           context.Context
	PgContainer   *postgres.PostgresContainer
	NatsContainer *nats.NATSContainer
	DSN           string
	NatsURL       string
	DB            *bun.DB
	Pool          *pgxpool.Pool
	Logger        *slog.Logger
}

var (
	sharedEnv     *TestEnvironment
	sharedEnvErr  error
	sharedEnvOnce sync.Once
)

// GetOrCreateTestEnv returns the package-wide environment, starting the
// containers on first use. Tests are skipped under -short.
func GetOrCreateTestEnv(t *testing.T) *TestEnvironment {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	sharedEnvOnce.Do(func() {
		sharedEnv, sharedEnvErr = newTestEnvironment(context.Background())
	})
	if sharedEnvErr != nil {
		t.Fatalf("failed to set up test environment: %v", sharedEnvErr)
	}
	if err := sharedEnv.Reset(); err != nil {
		t.Fatalf("failed to reset test environment: %v", err)
	}
	return sharedEnv
}

func newTestEnvironment(ctx context.Context) (*TestEnvironment, error) {
	pgContainer, dsn, err := containers.SetupPostgresContainer(ctx)
	if err != nil {
		return nil, err
	}
	natsContainer, natsURL, err := containers.SetupNatsContainer(ctx)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, err
	}

	env := &TestEnvironment{
		Ctx:           ctx,
		PgContainer:   pgContainer,
		NatsContainer: natsContainer,
		DSN:           dsn,
		NatsURL:       natsURL,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		env.Terminate()
		return nil, fmt.Errorf("failed to open sql DB connection: %w", err)
	}
	env.DB = bun.NewDB(sqlDB, pgdialect.New())

	env.Pool, err = pgxpool.New(ctx, dsn)
	if err != nil {
		env.Terminate()
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	if err := runMigrations(ctx, env.DB, env.Pool); err != nil {
		env.Terminate()
		return nil, err
	}
	return env, nil
}

// Terminate closes every connection and stops the containers.
func (env *TestEnvironment) Terminate() {
	if env.Pool != nil {
		env.Pool.Close()
	}
	if env.DB != nil {
		_ = env.DB.Close()
	}
	if env.NatsContainer != nil {
		if err := env.NatsContainer.Terminate(env.Ctx); err != nil {
			log.Printf("Failed to terminate NATS container: %v", err)
		}
	}
	if env.PgContainer != nil {
		if err := env.PgContainer.Terminate(env.Ctx); err != nil {
			log.Printf("Failed to terminate Postgres container: %v", err)
		}
	}
}
