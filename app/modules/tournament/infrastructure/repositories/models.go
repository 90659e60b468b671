package tournamentdb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Tournament is one uploaded tournament file.
type Tournament struct {
	bun.BaseModel `bun:"table:tournaments,alias:t"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Version   int       `bun:"version,notnull"`
	Date      time.Time `bun:"date,notnull"`
	Title     string    `bun:"title,notnull"`
	Link      *string   `bun:"link"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`

	Matches []*Match `bun:"rel:has-many,join:id=tournament_id"`
}

// Match is one stage played within a tournament.
type Match struct {
	bun.BaseModel `bun:"table:matches,alias:m"`

	ID           uuid.UUID `bun:"id,pk,type:uuid"`
	MatchType    string    `bun:"match_type,notnull"`
	MatchIndex   int       `bun:"match_index,notnull"`
	TournamentID int64     `bun:"tournament_id,notnull"`

	Players []*MatchUser `bun:"rel:has-many,join:id=match_id"`
}

var _ bun.BeforeAppendModelHook = (*Match)(nil)

func (m *Match) BeforeAppendModel(_ context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); ok && m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// MatchUser is a player's result inside a match.
type MatchUser struct {
	bun.BaseModel `bun:"table:match_users,alias:mu"`

	ID           uuid.UUID `bun:"id,pk,type:uuid"`
	Username     string    `bun:"username,notnull"`
	UserID       string    `bun:"user_id,notnull"`
	Rank         int       `bun:"rank,notnull"`
	LifeStatus   string    `bun:"life_status,notnull"`
	ImmuneStatus string    `bun:"immune_status,notnull"`
	MatchID      uuid.UUID `bun:"match_id,type:uuid,notnull"`
}

var _ bun.BeforeAppendModelHook = (*MatchUser)(nil)

func (u *MatchUser) BeforeAppendModel(_ context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); ok && u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// User carries the running totals across every uploaded tournament.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	UserID    string    `bun:"user_id,pk"`
	Username  string    `bun:"username,notnull"`
	Wins      int       `bun:"wins,notnull,default:0"`
	Ranking   int       `bun:"ranking,notnull,default:0"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// TournamentUser links a tournament to a player credited by it.
type TournamentUser struct {
	bun.BaseModel `bun:"table:tournament_users,alias:tu"`

	TournamentID int64  `bun:"tournament_id,pk"`
	UserID       string `bun:"user_id,pk"`
}

// RankingIncrement adds Points to a user's ranking.
type RankingIncrement struct {
	UserID string
	Points int
}
