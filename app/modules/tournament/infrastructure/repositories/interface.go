package tournamentdb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository defines the contract for tournament persistence.
// A nil db argument means the repository's own connection.
type Repository interface {
	// CreateTournament inserts the tournament row and fills in its ID.
	CreateTournament(ctx context.Context, db bun.IDB, t *Tournament) error

	// UpsertUsers inserts new users and refreshes the username of existing ones.
	UpsertUsers(ctx context.Context, db bun.IDB, users []*User) error

	CreateMatches(ctx context.Context, db bun.IDB, matches []*Match) error
	CreateMatchUsers(ctx context.Context, db bun.IDB, players []*MatchUser) error

	// IncrementWins adds one win to the user.
	IncrementWins(ctx context.Context, db bun.IDB, userID string) error

	// IncrementRanking applies every increment in order.
	IncrementRanking(ctx context.Context, db bun.IDB, increments []RankingIncrement) error

	// LinkTournamentUsers records that the users were credited by the tournament.
	// Linking the same pair twice is a no-op.
	LinkTournamentUsers(ctx context.Context, db bun.IDB, tournamentID int64, userIDs []string) error

	ListRanking(ctx context.Context, db bun.IDB, limit int) ([]User, error)
	ListTournaments(ctx context.Context, db bun.IDB, limit int) ([]Tournament, error)

	// GetTournament loads a tournament with its matches and players.
	GetTournament(ctx context.Context, db bun.IDB, id int64) (*Tournament, error)
}
