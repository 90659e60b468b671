package testutils

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"testing"

	"github.com/uptrace/bun"

	"github.com/Black-And-White-Club/tournament-uploader/app/eventbus"
	tournamentdb "github.com/Black-And-White-Club/tournament-uploader/app/modules/tournament/infrastructure/repositories"
	"github.com/Black-And-White-Club/tournament-uploader/config"
	"github.com/Black-And-White-Club/tournament-uploader/integration_tests/containers"
)

// TestEnvironment holds all resources needed for integration testing
type TestEnvironment struct {
	Ctx           context.Context
	CancelContext context.CancelFunc
	Postgres      *containers.Postgres
	DB            *bun.DB
	Repo          tournamentdb.Repository
	EventBus      *eventbus.EventBus
	Config        *config.Config
}

// NewTestEnvironment starts Postgres, applies the migrations and opens an
// in-process event bus.
func NewTestEnvironment(t *testing.T) (*TestEnvironment, error) {
	ctx, cancel := context.WithCancel(context.Background())

	env := &TestEnvironment{
		Ctx:           ctx,
		CancelContext: cancel,
	}

	if err := env.setup(ctx); err != nil {
		env.Cleanup()
		return nil, err
	}
	return env, nil
}

func (env *TestEnvironment) setup(ctx context.Context) error {
	pg, err := containers.StartPostgres(ctx, containers.PostgresOptions{})
	if err != nil {
		return fmt.Errorf("failed to setup postgres container: %w", err)
	}
	env.Postgres = pg
	env.DB = pg.DB

	env.Repo = tournamentdb.NewRepository(env.DB)

	cfg := config.Default()
	cfg.Postgres.DSN = pg.DSN
	env.Config = &cfg

	discardLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	env.EventBus, err = eventbus.NewEventBus(ctx, eventbus.Config{}, discardLogger)
	if err != nil {
		return fmt.Errorf("failed to create EventBus: %w", err)
	}
	return nil
}

// Reset empties every tournament table.
func (env *TestEnvironment) Reset(ctx context.Context) error {
	return CleanTournamentTables(ctx, env.DB)
}

// Cleanup releases everything NewTestEnvironment opened.
func (env *TestEnvironment) Cleanup() {
	if env.EventBus != nil {
		if err := env.EventBus.Close(); err != nil {
			log.Printf("Error closing EventBus: %v", err)
		}
	}
	if env.CancelContext != nil {
		env.CancelContext()
	}
	if env.Postgres != nil {
		// The environment context is already cancelled at this point.
		if err := env.Postgres.Terminate(context.Background()); err != nil {
			log.Printf("Error terminating Postgres: %v", err)
		}
	}
	log.Println("Test environment resources cleaned up.")
}
