package testutils

import (
	"context"
	"fmt"
	"log"
	"strings"

	leaguemigrations "github.com/Black-And-White-Club/lastman/app/modules/league/infrastructure/repositories/migrations"
	notificationmigrations "github.com/Black-And-White-Club/lastman/app/modules/notification/infrastructure/repositories/migrations"
	notificationqueue "github.com/Black-And-White-Club/lastman/app/modules/notification/infrastructure/queue"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

// appTables are truncated between tests.
var appTables = []string{
	"league_winners",
	"league_admin_overrides",
	"league_selections",
	"league_fixtures",
	"league_participants",
	"league_rounds",
	"leagues",
	"notifications",
	"river_job",
}

func runMigrations(ctx context.Context, db *bun.DB, pool *pgxpool.Pool) error {
	if err := runModuleMigrations(ctx, db, leaguemigrations.Migrations, "league"); err != nil {
		return err
	}
	if err := runModuleMigrations(ctx, db, notificationmigrations.Migrations, "notification"); err != nil {
		return err
	}
	if err := notificationqueue.Migrate(ctx, pool); err != nil {
		return err
	}
	log.Println("Migrations completed successfully")
	return nil
}

// runModuleMigrations runs migrations for a specific module
func runModuleMigrations(ctx context.Context, db *bun.DB, migrations *migrate.Migrations, name string) error {
	migrator := migrate.NewMigrator(db, migrations,
		migrate.WithTableName(name+"_bun_migrations"),
		migrate.WithLocksTableName(name+"_bun_migration_locks"),
	)
	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("failed to init %s migrations: %w", name, err)
	}
	group, err := migrator.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("failed to run %s migrations: %w", name, err)
	}
	if group.IsZero() {
		log.Printf("No %s migrations to run", name)
	} else {
		log.Printf("Ran %s migrations group #%d", name, group.ID)
	}
	return nil
}

// Reset truncates every application table.
func (env *TestEnvironment) Reset() error {
	_, err := env.DB.ExecContext(env.Ctx, "TRUNCATE TABLE "+strings.Join(appTables, ", ")+" CASCADE")
	if err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}
	return nil
}
