package tournamenthandlers

import (
	"context"

	tournamentservice "github.com/Black-And-White-Club/tournament-uploader/app/modules/tournament/application"
	tournamenttypes "github.com/Black-And-White-Club/tournament-uploader/app/modules/tournament/domain/types"
)

// ------------------------
// Fake Tournament Service
// ------------------------

type FakeTournamentService struct {
	trace []string

	ParseFileFunc         func(ctx context.Context, path string, meta tournamenttypes.Metadata) (*tournamenttypes.ParsedTournament, error)
	ParseBytesFunc        func(ctx context.Context, name string, data []byte, meta tournamenttypes.Metadata) (*tournamenttypes.ParsedTournament, error)
	UploadFunc            func(ctx context.Context, t *tournamenttypes.ParsedTournament) (*tournamentservice.UploadResult, error)
	RankingFunc           func(ctx context.Context, limit int) ([]tournamentservice.RankingEntry, error)
	RecentTournamentsFunc func(ctx context.Context, limit int) ([]tournamentservice.TournamentSummary, error)
	GetTournamentFunc     func(ctx context.Context, id int64) (*tournamentservice.StoredTournament, error)
}

func NewFakeTournamentService() *FakeTournamentService {
	return &FakeTournamentService{
		trace: []string{},
	}
}

func (f *FakeTournamentService) record(step string) {
	f.trace = append(f.trace, step)
}

// --- Service Interface Implementation ---

func (f *FakeTournamentService) ParseFile(ctx context.Context, path string, meta tournamenttypes.Metadata) (*tournamenttypes.ParsedTournament, error) {
	f.record("ParseFile")
	if f.ParseFileFunc != nil {
		return f.ParseFileFunc(ctx, path, meta)
	}
	return nil, nil
}

func (f *FakeTournamentService) ParseBytes(ctx context.Context, name string, data []byte, meta tournamenttypes.Metadata) (*tournamenttypes.ParsedTournament, error) {
	f.record("ParseBytes")
	if f.ParseBytesFunc != nil {
		return f.ParseBytesFunc(ctx, name, data, meta)
	}
	return &tournamenttypes.ParsedTournament{}, nil
}

func (f *FakeTournamentService) Upload(ctx context.Context, t *tournamenttypes.ParsedTournament) (*tournamentservice.UploadResult, error) {
	f.record("Upload")
	if f.UploadFunc != nil {
		return f.UploadFunc(ctx, t)
	}
	return &tournamentservice.UploadResult{}, nil
}

func (f *FakeTournamentService) Ranking(ctx context.Context, limit int) ([]tournamentservice.RankingEntry, error) {
	f.record("Ranking")
	if f.RankingFunc != nil {
		return f.RankingFunc(ctx, limit)
	}
	return []tournamentservice.RankingEntry{}, nil
}

func (f *FakeTournamentService) RecentTournaments(ctx context.Context, limit int) ([]tournamentservice.TournamentSummary, error) {
	f.record("RecentTournaments")
	if f.RecentTournamentsFunc != nil {
		return f.RecentTournamentsFunc(ctx, limit)
	}
	return []tournamentservice.TournamentSummary{}, nil
}

func (f *FakeTournamentService) GetTournament(ctx context.Context, id int64) (*tournamentservice.StoredTournament, error) {
	f.record("GetTournament")
	if f.GetTournamentFunc != nil {
		return f.GetTournamentFunc(ctx, id)
	}
	return nil, nil
}

// --- Accessors for assertions ---

func (f *FakeTournamentService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ tournamentservice.Service = (*FakeTournamentService)(nil)
