package tournamentservice

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Black-And-White-Club/tournament-uploader/app/modules/tournament/application/parsers"
	tournamentevents "github.com/Black-And-White-Club/tournament-uploader/app/modules/tournament/domain/events"
	tournamentdb "github.com/Black-And-White-Club/tournament-uploader/app/modules/tournament/infrastructure/repositories"
	"github.com/Black-And-White-Club/tournament-uploader/app/observability"
)

// TournamentService implements the Service interface.
type TournamentService struct {
	repo      tournamentdb.Repository
	db        *bun.DB
	parsers   parsers.ParserFactory
	publisher message.Publisher
	subject   string
	logger    *slog.Logger
	metrics   observability.TournamentMetrics
	tracer    trace.Tracer
}

// Option customises a TournamentService.
type Option func(*TournamentService)

// WithPublisher publishes an upload notification to subject after each commit.
func WithPublisher(publisher message.Publisher, subject string) Option {
	return func(s *TournamentService) {
		s.publisher = publisher
		if subject != "" {
			s.subject = subject
		}
	}
}

// WithParserFactory replaces the default parser factory.
func WithParserFactory(f parsers.ParserFactory) Option {
	return func(s *TournamentService) {
		s.parsers = f
	}
}

// NewTournamentService creates a new TournamentService. repo and db may be nil
// for parse-only use; db nil also means repository calls run without a
// transaction.
func NewTournamentService(
	repo tournamentdb.Repository,
	db *bun.DB,
	logger *slog.Logger,
	metrics observability.TournamentMetrics,
	tracer trace.Tracer,
	opts ...Option,
) *TournamentService {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NewNoop()
	}
	s := &TournamentService{
		repo:    repo,
		db:      db,
		parsers: parsers.NewFactory(),
		subject: tournamentevents.TournamentUploadedV1,
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type operationFunc[T any] func(ctx context.Context) (T, error)

// withTelemetry wraps an operation with a span, start/finish logs and panic
// recovery.
func withTelemetry[T any](
	s *TournamentService,
	ctx context.Context,
	operationName string,
	identifier string,
	op operationFunc[T],
) (result T, err error) {
	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, "TournamentService."+operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("identifier", identifier),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	s.logger.DebugContext(ctx, "Operation triggered",
		slog.String("operation", operationName),
		slog.String("identifier", identifier),
	)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				slog.String("operation", operationName),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	return op(ctx)
}

// runInTx runs fn inside a database transaction when the service has a
// database, otherwise directly against the repository's default handle.
func runInTx[T any](
	s *TournamentService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (T, error),
) (T, error) {
	if s.db == nil {
		return fn(ctx, nil)
	}

	var result T
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})
	return result, err
}
