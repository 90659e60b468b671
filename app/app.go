package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"

	"github.com/Black-And-White-Club/tournament-uploader/app/eventbus"
	"github.com/Black-And-White-Club/tournament-uploader/app/modules/tournament"
	tournamentdb "github.com/Black-And-White-Club/tournament-uploader/app/modules/tournament/infrastructure/repositories"
	"github.com/Black-And-White-Club/tournament-uploader/app/observability"
	"github.com/Black-And-White-Club/tournament-uploader/config"
	"github.com/Black-And-White-Club/tournament-uploader/db/bundb"
)

const shutdownTimeout = 10 * time.Second

// App owns the long-lived resources shared by the commands.
type App struct {
	Config     *config.Config
	Logger     *slog.Logger
	Tracer     trace.Tracer
	Registry   *prometheus.Registry
	Metrics    *observability.PrometheusMetrics
	EventBus   *eventbus.EventBus
	Tournament *tournament.Module
	db         *bundb.DBService
}

// Options selects which resources NewApp opens.
type Options struct {
	// ConnectDB opens the database at startup and fails when none is
	// configured. Without it, ConnectDatabase can be called later.
	ConnectDB bool
	// NoEvents skips the event bus; uploads are then not announced.
	NoEvents bool
	// LogOutput receives log records. Defaults to io.Discard.
	LogOutput io.Writer
}

// NewApp initializes the application with the necessary services and configuration.
func NewApp(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	if opts.ConnectDB {
		if err := cfg.RequireDatabase(); err != nil {
			return nil, err
		}
	}
	if opts.LogOutput == nil {
		opts.LogOutput = io.Discard
	}

	logger := observability.NewLogger(cfg.Observability, opts.LogOutput)
	registry := prometheus.NewRegistry()
	metrics, err := observability.NewPrometheusMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	app := &App{
		Config:   cfg,
		Logger:   logger,
		Tracer:   observability.Tracer(),
		Registry: registry,
		Metrics:  metrics,
	}

	if !opts.NoEvents {
		app.EventBus, err = eventbus.NewEventBus(ctx, eventbus.Config{URL: cfg.NATS.URL, Stream: cfg.NATS.Stream}, logger)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to initialize event bus: %w", err)
		}
		if cfg.NATS.Stream != "" {
			if err := app.EventBus.EnsureStream(ctx, cfg.NATS.Stream, cfg.NATS.Subject); err != nil {
				app.Close()
				return nil, fmt.Errorf("failed to ensure stream: %w", err)
			}
		}
	}

	app.buildModules(ctx)

	if opts.ConnectDB {
		if err := app.ConnectDatabase(ctx); err != nil {
			app.Close()
			return nil, err
		}
	}
	return app, nil
}

// ConnectDatabase opens the configured database and rebuilds the modules on
// top of it. It is a no-op when the database is already open.
func (app *App) ConnectDatabase(ctx context.Context) error {
	if app.db != nil {
		return nil
	}
	if err := app.Config.RequireDatabase(); err != nil {
		return err
	}

	dbService, err := bundb.NewBunDBService(ctx, app.Config.Postgres, app.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database service: %w", err)
	}
	app.db = dbService
	app.buildModules(ctx)
	return nil
}

func (app *App) buildModules(ctx context.Context) {
	var repo tournamentdb.Repository
	if app.db != nil {
		repo = app.db.TournamentDB
	}
	app.Tournament = tournament.NewTournamentModule(ctx, app.Config, app.Logger, app.Metrics, app.Tracer, repo, app.db.GetDB(), app.EventBus)
}

// DB returns the database service, or nil when no database is configured.
func (app *App) DB() *bundb.DBService {
	return app.db
}

// Router builds the HTTP API.
func (app *App) Router() http.Handler {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(app.Registry, promhttp.HandlerOpts{}))
	app.Tournament.RegisterRoutes(r)
	return r
}

// Serve runs the HTTP API until ctx is cancelled.
func (app *App) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              app.Config.HTTP.Addr,
		Handler:           app.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.Logger.InfoContext(ctx, "HTTP server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	app.Logger.Info("Shutting down HTTP server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}

// WriteMetrics writes the registry to the configured textfile, if any.
func (app *App) WriteMetrics() error {
	path := app.Config.Observability.MetricsTextfile
	if path == "" {
		return nil
	}
	return observability.WriteTextfile(path, app.Registry)
}

// Close releases the event bus and the database.
func (app *App) Close() error {
	var errs []error
	if app.EventBus != nil {
		if err := app.EventBus.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close event bus: %w", err))
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}
