package containers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"

	"github.com/Black-And-White-Club/tournament-uploader/db/bundb"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const postgresPort nat.Port = "5432/tcp"

// PostgresOptions configures the throwaway database. Zero fields take the
// defaults below.
type PostgresOptions struct {
	Image          string
	Database       string
	User           string
	Password       string
	StartupTimeout time.Duration
}

func (o PostgresOptions) withDefaults() PostgresOptions {
	if o.Image == "" {
		o.Image = "postgres:16-alpine"
	}
	if o.Database == "" {
		o.Database = "tournaments"
	}
	if o.User == "" {
		o.User = "uploader"
	}
	if o.Password == "" {
		o.Password = "uploader"
	}
	if o.StartupTimeout == 0 {
		o.StartupTimeout = 45 * time.Second
	}
	return o
}

func (o PostgresOptions) dsn(host string, port nat.Port) string {
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable",
		o.User, o.Password, net.JoinHostPort(host, port.Port()), o.Database)
}

// Postgres is a migrated tournament database running in a container.
type Postgres struct {
	Container *postgres.PostgresContainer
	DSN       string
	DB        *bun.DB
	// Applied is the migration group run at startup.
	Applied *migrate.MigrationGroup
}

// StartPostgres runs the container, waits until pgx can query it and applies
// the tournament migrations. The returned database is ready for repositories.
func StartPostgres(ctx context.Context, opts PostgresOptions) (*Postgres, error) {
	opts = opts.withDefaults()

	container, err := postgres.Run(ctx,
		opts.Image,
		postgres.WithDatabase(opts.Database),
		postgres.WithUsername(opts.User),
		postgres.WithPassword(opts.Password),
		testcontainers.WithWaitStrategy(
			wait.ForSQL(postgresPort, "pgx", opts.dsn).WithStartupTimeout(opts.StartupTimeout),
		),
	)
	if err != nil {
		if container != nil {
			_ = container.Terminate(ctx)
		}
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	pg := &Postgres{Container: container}
	if err := pg.open(ctx, opts); err != nil {
		if termErr := pg.Terminate(context.Background()); termErr != nil {
			log.Printf("Error terminating Postgres container: %v", termErr)
		}
		return nil, err
	}

	log.Printf("Postgres container ready at %s, %d migrations applied", pg.DSN, len(pg.Applied.Migrations))
	return pg, nil
}

func (pg *Postgres) open(ctx context.Context, opts PostgresOptions) error {
	host, err := pg.Container.Host(ctx)
	if err != nil {
		return fmt.Errorf("failed to get postgres host: %w", err)
	}
	port, err := pg.Container.MappedPort(ctx, postgresPort)
	if err != nil {
		return fmt.Errorf("failed to get postgres port: %w", err)
	}
	pg.DSN = opts.dsn(host, port)

	sqlDB, err := sql.Open("pgx", pg.DSN)
	if err != nil {
		return fmt.Errorf("failed to open sql DB connection: %w", err)
	}
	pg.DB = bundb.NewDB(sqlDB)

	pg.Applied, err = bundb.Migrate(ctx, pg.DB)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Terminate closes the database and removes the container.
func (pg *Postgres) Terminate(ctx context.Context) error {
	var errs []error
	if pg.DB != nil {
		if err := pg.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	if pg.Container != nil {
		if err := pg.Container.Terminate(ctx); err != nil {
			errs = append(errs, fmt.Errorf("terminate container: %w", err))
		}
	}
	return errors.Join(errs...)
}
