package bundb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	tournamentdb "github.com/Black-And-White-Club/tournament-uploader/app/modules/tournament/infrastructure/repositories"
	tournamentmigrations "github.com/Black-And-White-Club/tournament-uploader/app/modules/tournament/infrastructure/repositories/migrations"
	"github.com/Black-And-White-Club/tournament-uploader/config"
)

// DBService holds the connection pool and the repositories built on it.
type DBService struct {
	TournamentDB tournamentdb.Repository
	db           *bun.DB
}

// GetDB returns the underlying database connection pool. A nil service has
// no pool.
func (dbService *DBService) GetDB() *bun.DB {
	if dbService == nil {
		return nil
	}
	return dbService.db
}

// Close closes the connection pool.
func (dbService *DBService) Close() error {
	return dbService.db.Close()
}

// NewBunDBService connects to Postgres and builds the repositories.
func NewBunDBService(ctx context.Context, cfg config.PostgresConfig, logger *slog.Logger) (*DBService, error) {
	if cfg.DSN == "" {
		return nil, config.ErrNoDatabase
	}

	sqldb, err := pgConn(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := NewDB(sqldb)
	logger.InfoContext(ctx, "Connected to database")

	return &DBService{
		TournamentDB: tournamentdb.NewRepository(db),
		db:           db,
	}, nil
}

// NewDB wraps an open connection pool and registers the tournament models.
func NewDB(sqldb *sql.DB) *bun.DB {
	db := bun.NewDB(sqldb, pgdialect.New())
	db.RegisterModel(&tournamentdb.TournamentUser{})
	return db
}

// Migrate creates the migration tables if needed and applies every pending
// tournament migration.
func Migrate(ctx context.Context, db *bun.DB) (*migrate.MigrationGroup, error) {
	migrator := migrate.NewMigrator(db, tournamentmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return nil, fmt.Errorf("failed to init migrations: %w", err)
	}
	group, err := migrator.Migrate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return group, nil
}

func pgConn(ctx context.Context, dsn string) (*sql.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))

	if err := sqldb.PingContext(ctx); err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return sqldb, nil
}
