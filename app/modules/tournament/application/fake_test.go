package tournamentservice

import (
	"context"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"

	tournamentdb "github.com/Black-And-White-Club/tournament-uploader/app/modules/tournament/infrastructure/repositories"
)

// ------------------------
// Fake Tournament Repo
// ------------------------

type FakeTournamentRepo struct {
	trace []string

	CreateTournamentFunc    func(ctx context.Context, db bun.IDB, t *tournamentdb.Tournament) error
	UpsertUsersFunc         func(ctx context.Context, db bun.IDB, users []*tournamentdb.User) error
	CreateMatchesFunc       func(ctx context.Context, db bun.IDB, matches []*tournamentdb.Match) error
	CreateMatchUsersFunc    func(ctx context.Context, db bun.IDB, players []*tournamentdb.MatchUser) error
	IncrementWinsFunc       func(ctx context.Context, db bun.IDB, userID string) error
	IncrementRankingFunc    func(ctx context.Context, db bun.IDB, increments []tournamentdb.RankingIncrement) error
	LinkTournamentUsersFunc func(ctx context.Context, db bun.IDB, tournamentID int64, userIDs []string) error
	ListRankingFunc         func(ctx context.Context, db bun.IDB, limit int) ([]tournamentdb.User, error)
	ListTournamentsFunc     func(ctx context.Context, db bun.IDB, limit int) ([]tournamentdb.Tournament, error)
	GetTournamentFunc       func(ctx context.Context, db bun.IDB, id int64) (*tournamentdb.Tournament, error)
}

func NewFakeTournamentRepo() *FakeTournamentRepo {
	return &FakeTournamentRepo{
		trace: []string{},
	}
}

func (f *FakeTournamentRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeTournamentRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// --- Repository Interface Implementation ---

func (f *FakeTournamentRepo) CreateTournament(ctx context.Context, db bun.IDB, t *tournamentdb.Tournament) error {
	f.record("CreateTournament")
	if f.CreateTournamentFunc != nil {
		return f.CreateTournamentFunc(ctx, db, t)
	}
	t.ID = 1
	return nil
}

func (f *FakeTournamentRepo) UpsertUsers(ctx context.Context, db bun.IDB, users []*tournamentdb.User) error {
	f.record("UpsertUsers")
	if f.UpsertUsersFunc != nil {
		return f.UpsertUsersFunc(ctx, db, users)
	}
	return nil
}

func (f *FakeTournamentRepo) CreateMatches(ctx context.Context, db bun.IDB, matches []*tournamentdb.Match) error {
	f.record("CreateMatches")
	if f.CreateMatchesFunc != nil {
		return f.CreateMatchesFunc(ctx, db, matches)
	}
	return nil
}

func (f *FakeTournamentRepo) CreateMatchUsers(ctx context.Context, db bun.IDB, players []*tournamentdb.MatchUser) error {
	f.record("CreateMatchUsers")
	if f.CreateMatchUsersFunc != nil {
		return f.CreateMatchUsersFunc(ctx, db, players)
	}
	return nil
}

func (f *FakeTournamentRepo) IncrementWins(ctx context.Context, db bun.IDB, userID string) error {
	f.record("IncrementWins")
	if f.IncrementWinsFunc != nil {
		return f.IncrementWinsFunc(ctx, db, userID)
	}
	return nil
}

func (f *FakeTournamentRepo) IncrementRanking(ctx context.Context, db bun.IDB, increments []tournamentdb.RankingIncrement) error {
	f.record("IncrementRanking")
	if f.IncrementRankingFunc != nil {
		return f.IncrementRankingFunc(ctx, db, increments)
	}
	return nil
}

func (f *FakeTournamentRepo) LinkTournamentUsers(ctx context.Context, db bun.IDB, tournamentID int64, userIDs []string) error {
	f.record("LinkTournamentUsers")
	if f.LinkTournamentUsersFunc != nil {
		return f.LinkTournamentUsersFunc(ctx, db, tournamentID, userIDs)
	}
	return nil
}

func (f *FakeTournamentRepo) ListRanking(ctx context.Context, db bun.IDB, limit int) ([]tournamentdb.User, error) {
	f.record("ListRanking")
	if f.ListRankingFunc != nil {
		return f.ListRankingFunc(ctx, db, limit)
	}
	return nil, nil
}

func (f *FakeTournamentRepo) ListTournaments(ctx context.Context, db bun.IDB, limit int) ([]tournamentdb.Tournament, error) {
	f.record("ListTournaments")
	if f.ListTournamentsFunc != nil {
		return f.ListTournamentsFunc(ctx, db, limit)
	}
	return nil, nil
}

func (f *FakeTournamentRepo) GetTournament(ctx context.Context, db bun.IDB, id int64) (*tournamentdb.Tournament, error) {
	f.record("GetTournament")
	if f.GetTournamentFunc != nil {
		return f.GetTournamentFunc(ctx, db, id)
	}
	return nil, tournamentdb.ErrNotFound
}

var _ tournamentdb.Repository = (*FakeTournamentRepo)(nil)

// ------------------------
// Fake Publisher
// ------------------------

type FakePublisher struct {
	mu          sync.Mutex
	published   map[string][]*message.Message
	PublishFunc func(topic string, msgs ...*message.Message) error
}

func NewFakePublisher() *FakePublisher {
	return &FakePublisher{published: map[string][]*message.Message{}}
}

func (p *FakePublisher) Publish(topic string, msgs ...*message.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.PublishFunc != nil {
		if err := p.PublishFunc(topic, msgs...); err != nil {
			return err
		}
	}
	p.published[topic] = append(p.published[topic], msgs...)
	return nil
}

func (p *FakePublisher) Close() error { return nil }

func (p *FakePublisher) Messages(topic string) []*message.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.published[topic]
}

// ------------------------
// Fake Metrics
// ------------------------

type FakeMetrics struct {
	ParseSuccesses  int
	ParseFailures   []string
	Uploads         int
	PlayersCredited int
}

func (m *FakeMetrics) RecordParseSuccess(context.Context) { m.ParseSuccesses++ }

func (m *FakeMetrics) RecordParseFailure(_ context.Context, kind string) {
	m.ParseFailures = append(m.ParseFailures, kind)
}

func (m *FakeMetrics) RecordUpload(_ context.Context, playersCredited int, _ time.Duration) {
	m.Uploads++
	m.PlayersCredited += playersCredited
}
