package tournamentservice

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Black-And-White-Club/tournament-uploader/app/modules/tournament/application/parsers"
	tournamenttypes "github.com/Black-And-White-Club/tournament-uploader/app/modules/tournament/domain/types"
)

// ParseFile reads path and parses it with the parser chosen by its extension.
func (s *TournamentService) ParseFile(ctx context.Context, path string, meta tournamenttypes.Metadata) (*tournamenttypes.ParsedTournament, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tournament file: %w", err)
	}
	return s.ParseBytes(ctx, filepath.Base(path), data, meta)
}

// ParseBytes parses data as the file called name.
func (s *TournamentService) ParseBytes(ctx context.Context, name string, data []byte, meta tournamenttypes.Metadata) (*tournamenttypes.ParsedTournament, error) {
	return withTelemetry(s, ctx, "Parse", name, func(ctx context.Context) (*tournamenttypes.ParsedTournament, error) {
		parser, err := s.parsers.GetParser(name)
		if err != nil {
			s.metrics.RecordParseFailure(ctx, parsers.KindName(err))
			return nil, err
		}

		t, err := parser.Parse(data, meta)
		if err != nil {
			s.metrics.RecordParseFailure(ctx, parsers.KindName(err))
			s.logger.WarnContext(ctx, "Tournament file rejected",
				slog.String("file", name),
				slog.String("error", err.Error()),
			)
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}

		s.metrics.RecordParseSuccess(ctx)
		s.logger.InfoContext(ctx, "Tournament file parsed",
			slog.String("file", name),
			slog.Int("version", t.Version),
			slog.Int("matches", len(t.Matches)),
			slog.Int("players", t.PlayerCount()),
		)
		return t, nil
	})
}
