package tournamentmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Adding ranking and tournament date indexes...")

		_, err := db.ExecContext(ctx, `
			CREATE INDEX IF NOT EXISTS idx_users_ranking ON users(ranking DESC, wins DESC);
			CREATE INDEX IF NOT EXISTS idx_tournaments_date ON tournaments(date DESC);
		`)
		if err != nil {
			return fmt.Errorf("failed to add indexes: %w", err)
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping ranking and tournament date indexes...")

		_, err := db.ExecContext(ctx, `
			DROP INDEX IF EXISTS idx_users_ranking;
			DROP INDEX IF EXISTS idx_tournaments_date;
		`)
		return err
	})
}
