package leaguemigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Adding retracted_at to league_winners...")
		if _, err := db.ExecContext(ctx, `
			ALTER TABLE league_winners ADD COLUMN IF NOT EXISTS retracted_at TIMESTAMPTZ;
			CREATE INDEX IF NOT EXISTS idx_league_winners_current ON league_winners(league_id) WHERE retracted_at IS NULL;
		`); err != nil {
			return fmt.Errorf("failed to add winner retraction: %w", err)
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping retracted_at from league_winners...")
		if _, err := db.ExecContext(ctx, `
			DROP INDEX IF EXISTS idx_league_winners_current;
			ALTER TABLE league_winners DROP COLUMN IF EXISTS retracted_at;
		`); err != nil {
			return fmt.Errorf("failed to drop winner retraction: %w", err)
		}
		return nil
	})
}
