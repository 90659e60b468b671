package tournamentservice

import (
	"context"

	tournamenttypes "github.com/Black-And-White-Club/tournament-uploader/app/modules/tournament/domain/types"
)

// Service defines the tournament operations used by the CLI and HTTP API.
type Service interface {
	// ParseFile reads and parses a tournament file from disk.
	ParseFile(ctx context.Context, path string, meta tournamenttypes.Metadata) (*tournamenttypes.ParsedTournament, error)

	// ParseBytes parses tournament text that is already in memory. The name
	// selects the parser the same way a file path does.
	ParseBytes(ctx context.Context, name string, data []byte, meta tournamenttypes.Metadata) (*tournamenttypes.ParsedTournament, error)

	// Upload stores the tournament and credits the overall list in one transaction.
	Upload(ctx context.Context, t *tournamenttypes.ParsedTournament) (*UploadResult, error)

	Ranking(ctx context.Context, limit int) ([]RankingEntry, error)
	RecentTournaments(ctx context.Context, limit int) ([]TournamentSummary, error)
	GetTournament(ctx context.Context, id int64) (*StoredTournament, error)
}
