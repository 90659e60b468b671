package tournamentdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new tournament repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) CreateTournament(ctx context.Context, db bun.IDB, t *Tournament) error {
	db = r.resolveDB(db)
	_, err := db.NewInsert().
		Model(t).
		Returning("id, created_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("tournamentdb.CreateTournament: %w", err)
	}
	return nil
}

func (r *Impl) UpsertUsers(ctx context.Context, db bun.IDB, users []*User) error {
	if len(users) == 0 {
		return nil
	}
	db = r.resolveDB(db)
	now := time.Now().UTC()
	for _, u := range users {
		u.UpdatedAt = now
	}
	_, err := db.NewInsert().
		Model(&users).
		On("CONFLICT (user_id) DO UPDATE").
		Set("username = EXCLUDED.username").
		Set("updated_at = EXCLUDED.updated_at").
		Returning("NULL").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("tournamentdb.UpsertUsers: %w", err)
	}
	return nil
}

func (r *Impl) CreateMatches(ctx context.Context, db bun.IDB, matches []*Match) error {
	if len(matches) == 0 {
		return nil
	}
	db = r.resolveDB(db)
	if _, err := db.NewInsert().Model(&matches).Exec(ctx); err != nil {
		return fmt.Errorf("tournamentdb.CreateMatches: %w", err)
	}
	return nil
}

func (r *Impl) CreateMatchUsers(ctx context.Context, db bun.IDB, players []*MatchUser) error {
	if len(players) == 0 {
		return nil
	}
	db = r.resolveDB(db)
	if _, err := db.NewInsert().Model(&players).Exec(ctx); err != nil {
		return fmt.Errorf("tournamentdb.CreateMatchUsers: %w", err)
	}
	return nil
}

func (r *Impl) IncrementWins(ctx context.Context, db bun.IDB, userID string) error {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model((*User)(nil)).
		Set("wins = wins + 1").
		Set("updated_at = ?", time.Now().UTC()).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("tournamentdb.IncrementWins: %w", err)
	}
	return requireAffected(res, "tournamentdb.IncrementWins")
}

func (r *Impl) IncrementRanking(ctx context.Context, db bun.IDB, increments []RankingIncrement) error {
	db = r.resolveDB(db)
	now := time.Now().UTC()
	for _, inc := range increments {
		res, err := db.NewUpdate().
			Model((*User)(nil)).
			Set("ranking = ranking + ?", inc.Points).
			Set("updated_at = ?", now).
			Where("user_id = ?", inc.UserID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("tournamentdb.IncrementRanking: %w", err)
		}
		if err := requireAffected(res, "tournamentdb.IncrementRanking"); err != nil {
			return err
		}
	}
	return nil
}

func (r *Impl) LinkTournamentUsers(ctx context.Context, db bun.IDB, tournamentID int64, userIDs []string) error {
	if len(userIDs) == 0 {
		return nil
	}
	db = r.resolveDB(db)

	seen := make(map[string]struct{}, len(userIDs))
	links := make([]*TournamentUser, 0, len(userIDs))
	for _, id := range userIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		links = append(links, &TournamentUser{TournamentID: tournamentID, UserID: id})
	}

	_, err := db.NewInsert().
		Model(&links).
		On("CONFLICT (tournament_id, user_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("tournamentdb.LinkTournamentUsers: %w", err)
	}
	return nil
}

// ListRanking returns users ordered by ranking, then wins.
func (r *Impl) ListRanking(ctx context.Context, db bun.IDB, limit int) ([]User, error) {
	db = r.resolveDB(db)
	var users []User
	q := db.NewSelect().
		Model(&users).
		OrderExpr("ranking DESC, wins DESC, user_id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("tournamentdb.ListRanking: %w", err)
	}
	return users, nil
}

// ListTournaments returns the most recent tournaments first, without matches.
func (r *Impl) ListTournaments(ctx context.Context, db bun.IDB, limit int) ([]Tournament, error) {
	db = r.resolveDB(db)
	var tournaments []Tournament
	q := db.NewSelect().
		Model(&tournaments).
		OrderExpr("date DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("tournamentdb.ListTournaments: %w", err)
	}
	return tournaments, nil
}

func (r *Impl) GetTournament(ctx context.Context, db bun.IDB, id int64) (*Tournament, error) {
	db = r.resolveDB(db)
	t := new(Tournament)
	err := db.NewSelect().
		Model(t).
		Relation("Matches", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("match_index ASC")
		}).
		Relation("Matches.Players", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("rank ASC")
		}).
		Where("t.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("tournamentdb.GetTournament: %w", err)
	}
	return t, nil
}

func requireAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNoRowsAffected)
	}
	return nil
}
