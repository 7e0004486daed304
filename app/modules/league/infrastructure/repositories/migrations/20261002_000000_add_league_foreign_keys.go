package leaguemigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Adding league foreign keys and indexes...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				ALTER TABLE league_rounds
					ADD CONSTRAINT fk_league_rounds_league
					FOREIGN KEY (league_id) REFERENCES leagues(id) ON DELETE CASCADE;
				ALTER TABLE league_participants
					ADD CONSTRAINT fk_league_participants_league
					FOREIGN KEY (league_id) REFERENCES leagues(id) ON DELETE CASCADE;
				ALTER TABLE league_fixtures
					ADD CONSTRAINT fk_league_fixtures_round
					FOREIGN KEY (round_id) REFERENCES league_rounds(id) ON DELETE CASCADE;
				ALTER TABLE league_selections
					ADD CONSTRAINT fk_league_selections_round
					FOREIGN KEY (round_id) REFERENCES league_rounds(id) ON DELETE CASCADE,
					ADD CONSTRAINT fk_league_selections_fixture
					FOREIGN KEY (fixture_id) REFERENCES league_fixtures(id);
				ALTER TABLE league_admin_overrides
					ADD CONSTRAINT fk_league_admin_overrides_selection
					FOREIGN KEY (selection_id) REFERENCES league_selections(id) ON DELETE CASCADE;
				ALTER TABLE league_winners
					ADD CONSTRAINT fk_league_winners_league
					FOREIGN KEY (league_id) REFERENCES leagues(id) ON DELETE CASCADE;
			`); err != nil {
				return fmt.Errorf("failed to add league foreign keys: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_league_selections_league_user ON league_selections(league_id, user_id);
				CREATE INDEX IF NOT EXISTS idx_league_fixtures_round ON league_fixtures(round_id);
				CREATE INDEX IF NOT EXISTS idx_league_admin_overrides_selection ON league_admin_overrides(selection_id, created_at DESC);
				CREATE INDEX IF NOT EXISTS idx_league_participants_active ON league_participants(league_id) WHERE eliminated = FALSE;
			`); err != nil {
				return fmt.Errorf("failed to create league indexes: %w", err)
			}

			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping league foreign keys and indexes...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				DROP INDEX IF EXISTS idx_league_selections_league_user;
				DROP INDEX IF EXISTS idx_league_fixtures_round;
				DROP INDEX IF EXISTS idx_league_admin_overrides_selection;
				DROP INDEX IF EXISTS idx_league_participants_active;
				ALTER TABLE league_rounds DROP CONSTRAINT IF EXISTS fk_league_rounds_league;
				ALTER TABLE league_participants DROP CONSTRAINT IF EXISTS fk_league_participants_league;
				ALTER TABLE league_fixtures DROP CONSTRAINT IF EXISTS fk_league_fixtures_round;
				ALTER TABLE league_selections DROP CONSTRAINT IF EXISTS fk_league_selections_round;
				ALTER TABLE league_selections DROP CONSTRAINT IF EXISTS fk_league_selections_fixture;
				ALTER TABLE league_admin_overrides DROP CONSTRAINT IF EXISTS fk_league_admin_overrides_selection;
				ALTER TABLE league_winners DROP CONSTRAINT IF EXISTS fk_league_winners_league;
			`); err != nil {
				return fmt.Errorf("failed to drop league foreign keys: %w", err)
			}
			return nil
		})
	})
}
