package notificationmigrations

import (
	"context"
	"fmt"

	notificationdb "github.com/Black-And-White-Club/lastman/app/modules/notification/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Creating notifications table...")
			return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
				if _, err := tx.NewCreateTable().Model((*notificationdb.Notification)(nil)).IfNotExists().Exec(ctx); err != nil {
					return fmt.Errorf("failed to create notifications table: %w", err)
				}
				if _, err := tx.NewCreateIndex().
					Model((*notificationdb.Notification)(nil)).
					Index("idx_notifications_user_sent").
					Column("user_id", "sent_at").
					IfNotExists().
					Exec(ctx); err != nil {
					return fmt.Errorf("failed to create notifications index: %w", err)
				}
				fmt.Println("Notifications table created successfully!")
				return nil
			})
		},
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Dropping notifications table...")
			if _, err := db.NewDropTable().Model((*notificationdb.Notification)(nil)).IfExists().Exec(ctx); err != nil {
				return fmt.Errorf("failed to drop notifications table: %w", err)
			}
			return nil
		},
	)
}
