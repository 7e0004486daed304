package leaguemigrations

import (
	"context"
	"fmt"

	leaguedb "github.com/Black-And-White-Club/lastman/app/modules/league/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// Parents before children; dropped in reverse.
var leagueTables = []struct {
	name  string
	model interface{}
}{
	{"leagues", (*leaguedb.League)(nil)},
	{"league_rounds", (*leaguedb.Round)(nil)},
	{"league_participants", (*leaguedb.Participant)(nil)},
	{"league_fixtures", (*leaguedb.Fixture)(nil)},
	{"league_selections", (*leaguedb.Selection)(nil)},
	{"league_admin_overrides", (*leaguedb.AdminOverride)(nil)},
	{"league_winners", (*leaguedb.LeagueWinner)(nil)},
}

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Creating league tables...")
			return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
				for _, t := range leagueTables {
					if _, err := tx.NewCreateTable().Model(t.model).IfNotExists().Exec(ctx); err != nil {
						return fmt.Errorf("failed to create %s table: %w", t.name, err)
					}
				}
				fmt.Println("League tables created successfully!")
				return nil
			})
		},
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Dropping league tables...")
			return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
				for i := len(leagueTables) - 1; i >= 0; i-- {
					t := leagueTables[i]
					if _, err := tx.NewDropTable().Model(t.model).IfExists().Cascade().Exec(ctx); err != nil {
						return fmt.Errorf("failed to drop %s table: %w", t.name, err)
					}
				}
				fmt.Println("League tables dropped successfully!")
				return nil
			})
		},
	)
}
