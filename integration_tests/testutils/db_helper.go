package testutils

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// TournamentTables lists the tables written by an upload, children first.
var TournamentTables = []string{"tournament_users", "match_users", "matches", "tournaments", "users"}

// TruncateTables empties the given tables and resets their sequences.
func TruncateTables(ctx context.Context, db *bun.DB, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}

	quoted := make([]string, len(tables))
	for i, table := range tables {
		quoted[i] = fmt.Sprintf(`"%s"`, table)
	}
	query := "TRUNCATE TABLE " + strings.Join(quoted, ", ") + " RESTART IDENTITY CASCADE"

	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to truncate tables %v: %w", tables, err)
	}
	return nil
}

func CleanTournamentTables(ctx context.Context, db *bun.DB) error {
	return TruncateTables(ctx, db, TournamentTables...)
}

// WaitFor repeatedly calls a check function until it returns nil or a timeout occurs.
func WaitFor(timeout, interval time.Duration, check func() error) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if err := check(); err == nil {
				return nil
			}
			return fmt.Errorf("timed out waiting: %w", ctx.Err())
		case <-ticker.C:
			if err := check(); err == nil {
				return nil
			}
		}
	}
}
