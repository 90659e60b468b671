package tournament

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"

	"github.com/Black-And-White-Club/tournament-uploader/app/eventbus"
	authdomain "github.com/Black-And-White-Club/tournament-uploader/app/modules/auth/domain"
	authhandlers "github.com/Black-And-White-Club/tournament-uploader/app/modules/auth/infrastructure/handlers"
	authjwt "github.com/Black-And-White-Club/tournament-uploader/app/modules/auth/infrastructure/jwt"
	tournamentservice "github.com/Black-And-White-Club/tournament-uploader/app/modules/tournament/application"
	tournamenthandlers "github.com/Black-And-White-Club/tournament-uploader/app/modules/tournament/infrastructure/handlers"
	tournamentdb "github.com/Black-And-White-Club/tournament-uploader/app/modules/tournament/infrastructure/repositories"
	"github.com/Black-And-White-Club/tournament-uploader/app/observability"
	"github.com/Black-And-White-Club/tournament-uploader/config"
)

// Module represents the tournament module.
type Module struct {
	TournamentService tournamentservice.Service
	Handlers          *tournamenthandlers.TournamentHandlers
	config            *config.Config
	logger            *slog.Logger
}

// NewTournamentModule creates and initializes a new tournament module. repo
// and db may be nil, leaving only the parse operations usable. A nil bus
// disables upload notifications.
func NewTournamentModule(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	metrics observability.TournamentMetrics,
	tracer trace.Tracer,
	repo tournamentdb.Repository,
	db *bun.DB,
	bus *eventbus.EventBus,
) *Module {
	logger.InfoContext(ctx, "tournament.NewTournamentModule initializing")

	var opts []tournamentservice.Option
	if bus != nil {
		opts = append(opts, tournamentservice.WithPublisher(bus, cfg.NATS.Subject))
	}

	service := tournamentservice.NewTournamentService(repo, db, logger, metrics, tracer, opts...)
	handlers := tournamenthandlers.NewTournamentHandlers(service, logger, tracer)

	return &Module{
		TournamentService: service,
		Handlers:          handlers,
		config:            cfg,
		logger:            logger,
	}
}

// corsHeaders are the request headers the upload endpoint reads.
var corsHeaders = []string{"Authorization", "Content-Type"}

// RegisterRoutes mounts the HTTP API on r. Uploads require a bearer token
// with the uploader role. The CORS policy allows exactly the methods the
// API registers.
func (m *Module) RegisterRoutes(r chi.Router) {
	provider := authjwt.NewProviderFromConfig(m.config.JWT)
	uploadAuth := authhandlers.BearerAuth(provider, authdomain.RoleUploader)

	registered := chi.NewRouter()
	m.Handlers.Routes(registered, uploadAuth)
	cors := authhandlers.CORSPolicy{
		Origins: m.config.HTTP.AllowedOrigins,
		Methods: authhandlers.RouteMethods(registered),
		Headers: corsHeaders,
		MaxAge:  m.config.HTTP.CORSMaxAge,
	}
	limiter := authhandlers.NewClientLimiter(authhandlers.RateLimitPolicyFromConfig(m.config.HTTP))

	// Mux-level middleware runs before routing, so preflight requests reach
	// CORS even though no OPTIONS route exists.
	api := chi.NewRouter()
	api.Use(authhandlers.CORS(cors))
	api.Use(authhandlers.RateLimit(limiter, authhandlers.RemoteIP))
	m.Handlers.Routes(api, uploadAuth)
	r.Mount("/", api)

	m.logger.Info("Tournament routes registered",
		slog.String("addr", m.config.HTTP.Addr),
		slog.Any("cors_methods", cors.Methods),
		slog.Int("allowed_origins", len(cors.Origins)),
	)
}
