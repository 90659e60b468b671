package tournamentservice

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/require"

	tournamenttypes "github.com/Black-And-White-Club/tournament-uploader/app/modules/tournament/domain/types"
)

func player(id string, life tournamenttypes.LifeStatus) tournamenttypes.PlayerResult {
	return tournamenttypes.PlayerResult{
		Username:     "user-" + id,
		UserID:       id,
		Rank:         1,
		LifeStatus:   life,
		ImmuneStatus: tournamenttypes.ImmuneStatusNone,
	}
}

func ranked(id string, rank int, life tournamenttypes.LifeStatus) tournamenttypes.PlayerResult {
	p := player(id, life)
	p.Rank = rank
	return p
}

func ids(players []tournamenttypes.PlayerResult) []string {
	out := []string{}
	for _, p := range players {
		out = append(out, p.UserID)
	}
	return out
}

func TestOverallPlayerList(t *testing.T) {
	alive := tournamenttypes.LifeStatusAlive
	eliminated := tournamenttypes.LifeStatusEliminated
	playing := tournamenttypes.LifeStatusPlaying

	tests := []struct {
		name    string
		matches []tournamenttypes.Match
		want    []string
	}{
		{
			name:    "no matches",
			matches: nil,
			want:    []string{},
		},
		{
			name: "final keeps every player",
			matches: []tournamenttypes.Match{
				{MatchType: tournamenttypes.MatchTypeFinal, Players: []tournamenttypes.PlayerResult{player("u1", alive), player("u2", eliminated)}},
			},
			want: []string{"u1", "u2"},
		},
		{
			name: "all alive outside a final contributes nothing",
			matches: []tournamenttypes.Match{
				{MatchType: tournamenttypes.MatchTypeSemiFinal, Players: []tournamenttypes.PlayerResult{player("u1", alive), player("u2", alive)}},
			},
			want: []string{},
		},
		{
			name: "match order then file order",
			matches: []tournamenttypes.Match{
				{MatchType: tournamenttypes.MatchTypeGame1, Players: []tournamenttypes.PlayerResult{player("u1", playing), player("u2", eliminated)}},
				{MatchType: tournamenttypes.MatchTypeQuarterFinal, Players: []tournamenttypes.PlayerResult{player("u3", alive)}},
				{MatchType: tournamenttypes.MatchTypeBonus, Players: []tournamenttypes.PlayerResult{}},
				{MatchType: tournamenttypes.MatchTypeFinal, Players: []tournamenttypes.PlayerResult{player("u3", alive), player("u4", playing)}},
			},
			want: []string{"u1", "u2", "u3", "u4"},
		},
		{
			name: "no sorting by rank or stage",
			matches: []tournamenttypes.Match{
				{MatchType: tournamenttypes.MatchTypeFinal, Players: []tournamenttypes.PlayerResult{ranked("u1", 3, alive), ranked("u2", 1, eliminated), ranked("u3", 2, eliminated)}},
				{MatchType: tournamenttypes.MatchTypeGame1, Players: []tournamenttypes.PlayerResult{ranked("u4", 2, eliminated), ranked("u5", 1, alive)}},
			},
			want: []string{"u1", "u2", "u3", "u4"},
		},
		{
			name: "a player is listed once per qualifying appearance",
			matches: []tournamenttypes.Match{
				{MatchType: tournamenttypes.MatchTypeGame1, Players: []tournamenttypes.PlayerResult{player("u1", eliminated)}},
				{MatchType: tournamenttypes.MatchTypeFinal, Players: []tournamenttypes.PlayerResult{player("u1", alive)}},
			},
			want: []string{"u1", "u1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ids(OverallPlayerList(tt.matches)))
		})
	}
}

func TestOverallPlayerList_Idempotent(t *testing.T) {
	faker := gofakeit.New(7)
	lives := []tournamenttypes.LifeStatus{tournamenttypes.LifeStatusAlive, tournamenttypes.LifeStatusEliminated, tournamenttypes.LifeStatusPlaying}

	for run := 0; run < 20; run++ {
		var matches []tournamenttypes.Match
		matchCount := faker.Number(0, 6)
		for i := 0; i < matchCount; i++ {
			m := tournamenttypes.Match{
				MatchType:  tournamenttypes.AllMatchTypes[faker.Number(0, len(tournamenttypes.AllMatchTypes)-1)],
				MatchIndex: i,
			}
			playerCount := faker.Number(0, 6)
			for j := 0; j < playerCount; j++ {
				m.Players = append(m.Players, player(faker.Numerify("#####"), lives[faker.Number(0, 2)]))
			}
			matches = append(matches, m)
		}

		first := OverallPlayerList(matches)
		require.Equal(t, first, OverallPlayerList(matches))

		for _, p := range first {
			require.True(t, p.LifeStatus != tournamenttypes.LifeStatusAlive || containsFinalPlayer(matches, p))
		}
	}
}

func containsFinalPlayer(matches []tournamenttypes.Match, p tournamenttypes.PlayerResult) bool {
	for _, m := range matches {
		if m.MatchType != tournamenttypes.MatchTypeFinal {
			continue
		}
		for _, fp := range m.Players {
			if fp == p {
				return true
			}
		}
	}
	return false
}

func TestRankingAwards(t *testing.T) {
	list := []tournamenttypes.PlayerResult{
		player("u1", tournamenttypes.LifeStatusAlive),
		player("u2", tournamenttypes.LifeStatusEliminated),
		player("u3", tournamenttypes.LifeStatusEliminated),
	}

	require.Equal(t, []RankingAward{
		{UserID: "u1", Username: "user-u1", Points: 3, Win: true},
		{UserID: "u2", Username: "user-u2", Points: 2},
		{UserID: "u3", Username: "user-u3", Points: 1},
	}, RankingAwards(list))

	require.Empty(t, RankingAwards(nil))
}
