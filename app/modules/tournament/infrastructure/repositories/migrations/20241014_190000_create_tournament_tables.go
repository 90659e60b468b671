package tournamentmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating tournament tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS tournaments (
					id BIGSERIAL PRIMARY KEY,
					version INTEGER NOT NULL,
					date TIMESTAMPTZ NOT NULL,
					title TEXT NOT NULL,
					link TEXT,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`); err != nil {
				return fmt.Errorf("failed to create tournaments table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS users (
					user_id TEXT PRIMARY KEY,
					username TEXT NOT NULL,
					wins INTEGER NOT NULL DEFAULT 0,
					ranking INTEGER NOT NULL DEFAULT 0,
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`); err != nil {
				return fmt.Errorf("failed to create users table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS matches (
					id UUID PRIMARY KEY,
					match_type VARCHAR(16) NOT NULL,
					match_index INTEGER NOT NULL,
					tournament_id BIGINT NOT NULL REFERENCES tournaments(id) ON DELETE CASCADE
				);
				CREATE INDEX IF NOT EXISTS idx_matches_tournament_id ON matches(tournament_id);
			`); err != nil {
				return fmt.Errorf("failed to create matches table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS match_users (
					id UUID PRIMARY KEY,
					username TEXT NOT NULL,
					user_id TEXT NOT NULL REFERENCES users(user_id),
					rank INTEGER NOT NULL,
					life_status VARCHAR(16) NOT NULL,
					immune_status VARCHAR(16) NOT NULL,
					match_id UUID NOT NULL REFERENCES matches(id) ON DELETE CASCADE
				);
				CREATE INDEX IF NOT EXISTS idx_match_users_match_id ON match_users(match_id);
			`); err != nil {
				return fmt.Errorf("failed to create match_users table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS tournament_users (
					tournament_id BIGINT NOT NULL REFERENCES tournaments(id) ON DELETE CASCADE,
					user_id TEXT NOT NULL REFERENCES users(user_id),
					PRIMARY KEY (tournament_id, user_id)
				);
			`); err != nil {
				return fmt.Errorf("failed to create tournament_users table: %w", err)
			}

			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping tournament tables...")

		_, err := db.ExecContext(ctx, `
			DROP TABLE IF EXISTS tournament_users;
			DROP TABLE IF EXISTS match_users;
			DROP TABLE IF EXISTS matches;
			DROP TABLE IF EXISTS users;
			DROP TABLE IF EXISTS tournaments;
		`)
		return err
	})
}
