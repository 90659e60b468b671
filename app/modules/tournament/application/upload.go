package tournamentservice

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/Black-And-White-Club/tournament-uploader/app/eventbus"
	tournamentevents "github.com/Black-And-White-Club/tournament-uploader/app/modules/tournament/domain/events"
	tournamenttypes "github.com/Black-And-White-Club/tournament-uploader/app/modules/tournament/domain/types"
	tournamentdb "github.com/Black-And-White-Club/tournament-uploader/app/modules/tournament/infrastructure/repositories"
)

// UploadResult summarises a committed upload.
type UploadResult struct {
	TournamentID int64          `json:"tournament_id"`
	Matches      int            `json:"matches"`
	Players      int            `json:"players"`
	Users        int            `json:"users"`
	Awards       []RankingAward `json:"awards"`
}

// Winner returns the award carrying the win, if any.
func (r *UploadResult) Winner() *RankingAward {
	if r == nil || len(r.Awards) == 0 {
		return nil
	}
	return &r.Awards[0]
}

// Upload stores t and applies its overall list to the running totals. Either
// everything is committed or nothing is. The notification is published after
// the commit; a failure to publish is logged and does not fail the upload.
func (s *TournamentService) Upload(ctx context.Context, t *tournamenttypes.ParsedTournament) (*UploadResult, error) {
	if t == nil {
		return nil, ErrNilTournament
	}
	if s.repo == nil {
		return nil, ErrNoRepository
	}

	start := time.Now()
	result, err := withTelemetry(s, ctx, "Upload", t.Title, func(ctx context.Context) (*UploadResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (*UploadResult, error) {
			return s.uploadLogic(ctx, db, t)
		})
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Tournament upload failed",
			slog.String("title", t.Title),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.metrics.RecordUpload(ctx, len(result.Awards), time.Since(start))
	s.logger.InfoContext(ctx, "Tournament uploaded",
		slog.Int64("tournament_id", result.TournamentID),
		slog.Int("matches", result.Matches),
		slog.Int("players", result.Players),
		slog.Int("credited", len(result.Awards)),
	)

	s.publishUploaded(ctx, t, result)
	return result, nil
}

func (s *TournamentService) uploadLogic(ctx context.Context, db bun.IDB, t *tournamenttypes.ParsedTournament) (*UploadResult, error) {
	tournament := &tournamentdb.Tournament{
		Version: t.Version,
		Date:    t.Date,
		Title:   t.Title,
		Link:    t.Link,
	}
	if err := s.repo.CreateTournament(ctx, db, tournament); err != nil {
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}

	users := distinctUsers(t.Matches)
	if err := s.repo.UpsertUsers(ctx, db, users); err != nil {
		return nil, fmt.Errorf("failed to upsert users: %w", err)
	}

	matches, players := matchRows(tournament.ID, t.Matches)
	if err := s.repo.CreateMatches(ctx, db, matches); err != nil {
		return nil, fmt.Errorf("failed to create matches: %w", err)
	}
	if err := s.repo.CreateMatchUsers(ctx, db, players); err != nil {
		return nil, fmt.Errorf("failed to create match users: %w", err)
	}

	awards := RankingAwards(OverallPlayerList(t.Matches))
	result := &UploadResult{
		TournamentID: tournament.ID,
		Matches:      len(matches),
		Players:      len(players),
		Users:        len(users),
		Awards:       awards,
	}

	if len(awards) == 0 {
		s.logger.WarnContext(ctx, "No players to credit",
			slog.Int64("tournament_id", tournament.ID),
			slog.String("reason", ErrEmptyStandings.Error()),
		)
		return result, nil
	}

	if err := s.repo.IncrementWins(ctx, db, awards[0].UserID); err != nil {
		return nil, fmt.Errorf("failed to credit win: %w", err)
	}

	increments := make([]tournamentdb.RankingIncrement, 0, len(awards))
	userIDs := make([]string, 0, len(awards))
	for _, a := range awards {
		increments = append(increments, tournamentdb.RankingIncrement{UserID: a.UserID, Points: a.Points})
		userIDs = append(userIDs, a.UserID)
	}
	if err := s.repo.IncrementRanking(ctx, db, increments); err != nil {
		return nil, fmt.Errorf("failed to credit ranking: %w", err)
	}
	if err := s.repo.LinkTournamentUsers(ctx, db, tournament.ID, userIDs); err != nil {
		return nil, fmt.Errorf("failed to link tournament users: %w", err)
	}

	return result, nil
}

// distinctUsers returns one row per user ID in first-seen order, keeping the
// first username seen in this file.
func distinctUsers(matches []tournamenttypes.Match) []*tournamentdb.User {
	seen := make(map[string]struct{})
	users := []*tournamentdb.User{}
	for _, m := range matches {
		for _, p := range m.Players {
			if _, ok := seen[p.UserID]; ok {
				continue
			}
			seen[p.UserID] = struct{}{}
			users = append(users, &tournamentdb.User{UserID: p.UserID, Username: p.Username})
		}
	}
	return users
}

func matchRows(tournamentID int64, matches []tournamenttypes.Match) ([]*tournamentdb.Match, []*tournamentdb.MatchUser) {
	rows := make([]*tournamentdb.Match, 0, len(matches))
	var playerRows []*tournamentdb.MatchUser
	for _, m := range matches {
		row := &tournamentdb.Match{
			ID:           uuid.New(),
			MatchType:    m.MatchType.WireToken(),
			MatchIndex:   m.MatchIndex,
			TournamentID: tournamentID,
		}
		rows = append(rows, row)
		for _, p := range m.Players {
			playerRows = append(playerRows, &tournamentdb.MatchUser{
				ID:           uuid.New(),
				Username:     p.Username,
				UserID:       p.UserID,
				Rank:         p.Rank,
				LifeStatus:   p.LifeStatus.WireToken(),
				ImmuneStatus: p.ImmuneStatus.WireToken(),
				MatchID:      row.ID,
			})
		}
	}
	return rows, playerRows
}

func (s *TournamentService) publishUploaded(ctx context.Context, t *tournamenttypes.ParsedTournament, result *UploadResult) {
	if s.publisher == nil {
		return
	}

	payload := tournamentevents.TournamentUploadedPayloadV1{
		TournamentID: result.TournamentID,
		Title:        t.Title,
		Version:      t.Version,
		Date:         t.Date,
		Link:         t.Link,
		MatchCount:   result.Matches,
		Standings:    make([]tournamentevents.StandingV1, 0, len(result.Awards)),
	}
	for _, a := range result.Awards {
		payload.Standings = append(payload.Standings, tournamentevents.StandingV1(a))
	}
	if len(payload.Standings) > 0 {
		winner := payload.Standings[0]
		payload.Winner = &winner
	}

	msg, err := eventbus.NewJSONMessage("tournament-"+strconv.FormatInt(result.TournamentID, 10), payload)
	if err == nil {
		msg.SetContext(ctx)
		err = s.publisher.Publish(s.subject, msg)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish upload notification",
			slog.Int64("tournament_id", result.TournamentID),
			slog.String("subject", s.subject),
			slog.String("error", err.Error()),
		)
		return
	}
	s.logger.InfoContext(ctx, "Upload notification published",
		slog.Int64("tournament_id", result.TournamentID),
		slog.String("subject", s.subject),
	)
}
