package tournamentservice

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/uptrace/bun"

	tournamenttypes "github.com/Black-And-White-Club/tournament-uploader/app/modules/tournament/domain/types"
	tournamentdb "github.com/Black-And-White-Club/tournament-uploader/app/modules/tournament/infrastructure/repositories"
)

// RankingEntry is a user's position in the all-time ranking.
type RankingEntry struct {
	Position int    `json:"position"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Wins     int    `json:"wins"`
	Ranking  int    `json:"ranking"`
}

// TournamentSummary describes a stored tournament without its matches.
type TournamentSummary struct {
	ID      int64     `json:"id"`
	Title   string    `json:"title"`
	Version int       `json:"version"`
	Date    time.Time `json:"date"`
	Link    *string   `json:"link,omitempty"`
}

// StoredTournament is a tournament read back from the database.
type StoredTournament struct {
	ID int64 `json:"id"`
	tournamenttypes.ParsedTournament
}

func (s *TournamentService) Ranking(ctx context.Context, limit int) ([]RankingEntry, error) {
	if s.repo == nil {
		return nil, ErrNoRepository
	}
	return withTelemetry(s, ctx, "Ranking", strconv.Itoa(limit), func(ctx context.Context) ([]RankingEntry, error) {
		users, err := s.repo.ListRanking(ctx, nil, limit)
		if err != nil {
			return nil, fmt.Errorf("failed to list ranking: %w", err)
		}
		entries := make([]RankingEntry, 0, len(users))
		for i, u := range users {
			entries = append(entries, RankingEntry{
				Position: i + 1,
				UserID:   u.UserID,
				Username: u.Username,
				Wins:     u.Wins,
				Ranking:  u.Ranking,
			})
		}
		return entries, nil
	})
}

func (s *TournamentService) RecentTournaments(ctx context.Context, limit int) ([]TournamentSummary, error) {
	if s.repo == nil {
		return nil, ErrNoRepository
	}
	return withTelemetry(s, ctx, "RecentTournaments", strconv.Itoa(limit), func(ctx context.Context) ([]TournamentSummary, error) {
		rows, err := s.repo.ListTournaments(ctx, nil, limit)
		if err != nil {
			return nil, fmt.Errorf("failed to list tournaments: %w", err)
		}
		summaries := make([]TournamentSummary, 0, len(rows))
		for _, t := range rows {
			summaries = append(summaries, summaryFromRow(&t))
		}
		return summaries, nil
	})
}

// GetTournament loads a stored tournament. A missing tournament is reported
// as tournamentdb.ErrNotFound.
func (s *TournamentService) GetTournament(ctx context.Context, id int64) (*StoredTournament, error) {
	if s.repo == nil {
		return nil, ErrNoRepository
	}
	return withTelemetry(s, ctx, "GetTournament", strconv.FormatInt(id, 10), func(ctx context.Context) (*StoredTournament, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (*StoredTournament, error) {
			row, err := s.repo.GetTournament(ctx, db, id)
			if err != nil {
				return nil, err
			}
			return storedFromRow(row)
		})
	})
}

func summaryFromRow(t *tournamentdb.Tournament) TournamentSummary {
	return TournamentSummary{
		ID:      t.ID,
		Title:   t.Title,
		Version: t.Version,
		Date:    t.Date,
		Link:    t.Link,
	}
}

func storedFromRow(row *tournamentdb.Tournament) (*StoredTournament, error) {
	stored := &StoredTournament{
		ID: row.ID,
		ParsedTournament: tournamenttypes.ParsedTournament{
			Version: row.Version,
			Date:    row.Date,
			Title:   row.Title,
			Link:    row.Link,
			Matches: make([]tournamenttypes.Match, 0, len(row.Matches)),
		},
	}

	for _, m := range row.Matches {
		matchType, ok := tournamenttypes.MatchTypeFromWireToken(m.MatchType)
		if !ok {
			return nil, fmt.Errorf("match %s: unknown match type %q", m.ID, m.MatchType)
		}
		match := tournamenttypes.Match{
			MatchType:  matchType,
			MatchIndex: m.MatchIndex,
			Players:    make([]tournamenttypes.PlayerResult, 0, len(m.Players)),
		}
		for _, p := range m.Players {
			life, ok := tournamenttypes.LifeStatusFromWireToken(p.LifeStatus)
			if !ok {
				return nil, fmt.Errorf("match user %s: unknown life status %q", p.ID, p.LifeStatus)
			}
			immune, ok := tournamenttypes.ImmuneStatusFromWireToken(p.ImmuneStatus)
			if !ok {
				return nil, fmt.Errorf("match user %s: unknown immune status %q", p.ID, p.ImmuneStatus)
			}
			match.Players = append(match.Players, tournamenttypes.PlayerResult{
				Username:     p.Username,
				UserID:       p.UserID,
				Rank:         p.Rank,
				LifeStatus:   life,
				ImmuneStatus: immune,
			})
		}
		stored.Matches = append(stored.Matches, match)
	}
	return stored, nil
}
